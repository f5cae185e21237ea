package config

type AppConfig struct {
	Server ServerConfig
	Log    LogConfig
	Chain  ChainConfig
}

func LoadApp() (AppConfig, error) {
	logCfg, err := LoadLog()
	if err != nil {
		return AppConfig{}, err
	}
	serverCfg, err := LoadServer()
	if err != nil {
		return AppConfig{}, err
	}
	chainCfg, err := LoadChain()
	if err != nil {
		return AppConfig{}, err
	}
	return AppConfig{
		Server: serverCfg,
		Log:    logCfg,
		Chain:  chainCfg,
	}, nil
}
