package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	ordervalidator "github.com/kaifufi/order-validator-sdk-go"
)

var zlog = zap.NewNop()

var rootCmd = &cobra.Command{
	Use:           "ordervalidator",
	Short:         "Checks balances, allowances and fillability of exchange orders",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("rpc-url", "", "Ethereum JSON-RPC endpoint, overrides ORDER_VALIDATOR_RPC_URL")
	rootCmd.PersistentFlags().Int("chain-id", 0, "Chain ID, overrides ORDER_VALIDATOR_CHAIN_ID")
	rootCmd.PersistentFlags().String("exchange", "", "Exchange address, overrides ORDER_VALIDATOR_EXCHANGE_ADDRESS")

	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(orderCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	_ = zlog.Sync()

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newClient builds a client from the environment, with command line flags
// taking precedence
func newClient(cmd *cobra.Command) (*ordervalidator.Client, error) {
	cfg, err := ordervalidator.LoadConfig()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("rpc-url") {
		cfg.RPCURL, _ = flags.GetString("rpc-url")
	}
	if flags.Changed("chain-id") {
		cfg.ChainID, _ = flags.GetInt("chain-id")
	}
	if flags.Changed("exchange") {
		cfg.ExchangeAddress, _ = flags.GetString("exchange")
	}

	logger, err := ordervalidator.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zlog = logger

	clientConfig := cfg.ClientConfig()
	clientConfig.Logger = logger

	zlog.Debug("connecting",
		zap.String("rpc_url", clientConfig.RPCURL),
		zap.Int("chain_id", int(clientConfig.ChainID)),
	)

	client, err := ordervalidator.NewClient(clientConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create client: %w", err)
	}
	return client, nil
}
