package config

import "github.com/caarlos0/env/v11"

type ServerConfig struct {
	// Empty DSN selects the in-memory store.
	PostgresDSN string `env:"POSTGRES_DSN"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`

	AdminAPIKey string `env:"ADMIN_API_KEY"`

	// Operator vault address credited with the platform fee on payouts.
	OperatorAddress string `env:"OPERATOR_ADDRESS" envDefault:"0x0000000000000000000000000000000000000fee"`

	PlatformFeeBps    int `env:"PLATFORM_FEE_BPS" envDefault:"500"`
	CommitWindowSecs  int `env:"COMMIT_WINDOW_SECONDS" envDefault:"15"`
	RevealWindowSecs  int `env:"REVEAL_WINDOW_SECONDS" envDefault:"15"`
	FinalizeGraceSecs int `env:"FINALIZE_GRACE_SECONDS" envDefault:"30"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
