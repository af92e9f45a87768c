package ordervalidator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ordervalidator "github.com/kaifufi/order-validator-sdk-go"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("ORDER_VALIDATOR_RPC_URL", "http://node:8545")
	t.Setenv("ORDER_VALIDATOR_CHAIN_ID", "50")
	t.Setenv("ORDER_VALIDATOR_CONCURRENCY", "2")

	cfg, err := ordervalidator.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://node:8545", cfg.RPCURL)
	assert.Equal(t, 50, cfg.ChainID)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, "info", cfg.LogLevel)

	clientConfig := cfg.ClientConfig()
	assert.Equal(t, ordervalidator.ChainIDGanache, clientConfig.ChainID)
	assert.Equal(t, "http://node:8545", clientConfig.RPCURL)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("ORDER_VALIDATOR_CHAIN_ID", "mainnet")

	_, err := ordervalidator.LoadConfig()
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	logger, err := ordervalidator.NewLogger("debug")
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = ordervalidator.NewLogger("chatty")
	assert.Error(t, err)
}
