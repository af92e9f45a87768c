package ordervalidator

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ChainID represents a blockchain chain ID
type ChainID int

const (
	ChainIDMainnet ChainID = 1
	ChainIDGanache ChainID = 50 // local development snapshot
)

// SupportedChainIDs lists all supported chain IDs
var SupportedChainIDs = []ChainID{ChainIDMainnet, ChainIDGanache}

// ContractAddresses holds contract addresses for each chain
type ContractAddresses struct {
	Exchange string
}

// DefaultContractAddresses maps chain IDs to their contract addresses
var DefaultContractAddresses = map[ChainID]ContractAddresses{
	ChainIDMainnet: {
		Exchange: "0x4f833a24e1f95d70f028921e27040ca56e09ab0b",
	},
	ChainIDGanache: {
		Exchange: "0x48bacb9266a570d521063ef5dd96e61686dbe788",
	},
}

// Config is the environment configuration of the CLI and example
type Config struct {
	RPCURL          string `env:"RPC_URL" envDefault:"http://localhost:8545"`
	ChainID         int    `env:"CHAIN_ID" envDefault:"1"`
	ExchangeAddress string `env:"EXCHANGE_ADDRESS"`
	FeeAssetData    string `env:"FEE_ASSET_DATA"`
	Concurrency     int    `env:"CONCURRENCY" envDefault:"8"`
	LogLevel        string `env:"LOG_LEVEL" envDefault:"info"`
}

// EnvPrefix prefixes every Config variable
const EnvPrefix = "ORDER_VALIDATOR_"

// LoadConfig loads the configuration from the environment
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// ClientConfig converts the environment configuration for NewClient
func (c *Config) ClientConfig() ClientConfig {
	return ClientConfig{
		RPCURL:          c.RPCURL,
		ChainID:         ChainID(c.ChainID),
		ExchangeAddress: c.ExchangeAddress,
		FeeAssetData:    c.FeeAssetData,
		Concurrency:     c.Concurrency,
	}
}
