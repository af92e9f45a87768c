package main

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kaifufi/order-validator-sdk-go/chain"
)

var orderCmd = &cobra.Command{
	Use:   "order {orders.json}",
	Short: "Prints order state, trader info and fillable amount for each order of a JSON array",
	Long: `Reads a JSON array of orders in the standard off-chain order book shape
and prints one order and trader info record per order.

Each order is checked against the taker given at the same position with
--taker. Orders without a taker are checked as open orders.`,
	Args: cobra.ExactArgs(1),
	RunE: runOrderE,
}

func init() {
	orderCmd.Flags().StringSlice("taker", nil, "Taker address per order, in order")
}

func runOrderE(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("unable to read orders file %q: %w", args[0], err)
	}

	orders, err := chain.ParseOrdersJSON(data)
	if err != nil {
		return err
	}

	takerArgs, _ := cmd.Flags().GetStringSlice("taker")
	if len(takerArgs) > len(orders) {
		return fmt.Errorf("%d takers given for %d orders", len(takerArgs), len(orders))
	}
	takers := make([]common.Address, len(orders))
	for i, taker := range takerArgs {
		if !common.IsHexAddress(taker) {
			return fmt.Errorf("invalid taker address %q", taker)
		}
		takers[i] = common.HexToAddress(taker)
	}

	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	defer client.Close()

	zlog.Info("validating orders",
		zap.String("orders_file", args[0]),
		zap.Int("order_count", len(orders)),
	)

	results, err := client.GetOrdersAndTradersInfo(cmd.Context(), orders, takers)
	if err != nil {
		return fmt.Errorf("unable to validate orders: %w", err)
	}

	return printJSON(results)
}
