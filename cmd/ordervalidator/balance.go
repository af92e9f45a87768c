package main

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	ordervalidator "github.com/kaifufi/order-validator-sdk-go"
	"github.com/kaifufi/order-validator-sdk-go/assetdata"
)

var balanceCmd = &cobra.Command{
	Use:   "balance {owner} {asset_data}...",
	Short: "Prints the balance and proxy allowance of owner for each asset",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runBalanceE,
}

func init() {
	balanceCmd.Flags().Int("decimals", -1, "Format amounts with this many token decimals instead of base units")
}

type balanceOutput struct {
	AssetData string `json:"assetData"`
	Balance   string `json:"balance"`
	Allowance string `json:"allowance"`
}

func runBalanceE(cmd *cobra.Command, args []string) error {
	if !common.IsHexAddress(args[0]) {
		return fmt.Errorf("invalid owner address %q", args[0])
	}
	owner := common.HexToAddress(args[0])

	assetDatas := make([][]byte, 0, len(args)-1)
	for _, arg := range args[1:] {
		raw, err := assetdata.FromHex(arg)
		if err != nil {
			return fmt.Errorf("invalid asset data %q: %w", arg, err)
		}
		assetDatas = append(assetDatas, raw)
	}

	decimals, _ := cmd.Flags().GetInt("decimals")

	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	defer client.Close()

	results, err := client.GetBalancesAndAllowances(cmd.Context(), owner, assetDatas)
	if err != nil {
		return fmt.Errorf("unable to get balances: %w", err)
	}
	zlog.Debug("resolved balances", zap.Int("asset_count", len(results)))

	out := make([]balanceOutput, len(results))
	for i, result := range results {
		balance, err := formatAmount(result.Balance, decimals)
		if err != nil {
			return err
		}
		allowance, err := formatAmount(result.Allowance, decimals)
		if err != nil {
			return err
		}
		out[i] = balanceOutput{AssetData: args[i+1], Balance: balance, Allowance: allowance}
	}

	return printJSON(out)
}

func formatAmount(amount *big.Int, decimals int) (string, error) {
	if decimals < 0 {
		return amount.String(), nil
	}
	return ordervalidator.FormatAmount(amount, decimals)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
