package config

import "github.com/caarlos0/env/v11"

type ChainConfig struct {
	RPCURL          string `env:"CHAIN_RPC_URL"`
	ContractAddress string `env:"CHAIN_CONTRACT_ADDRESS"`
	SyncIntervalSec int    `env:"CHAIN_SYNC_INTERVAL_SECONDS" envDefault:"60"`
}

// Enabled reports whether a chain reader should be constructed at all.
func (c ChainConfig) Enabled() bool {
	return c.RPCURL != "" && c.ContractAddress != ""
}

func LoadChain() (ChainConfig, error) {
	var cfg ChainConfig
	err := env.Parse(&cfg)
	return cfg, err
}
