// Example usage of the order validator SDK
package main

import (
	"context"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	ordervalidator "github.com/kaifufi/order-validator-sdk-go"
	"github.com/kaifufi/order-validator-sdk-go/assetdata"
)

func main() {
	// Initialize the SDK client
	config := ordervalidator.ClientConfig{
		RPCURL:          "https://mainnet.infura.io/v3/your-project-id", // Replace with actual RPC URL
		ChainID:         ordervalidator.ChainIDMainnet,
		ExchangeAddress: "", // Will use default
		Concurrency:     8,
	}

	client, err := ordervalidator.NewClient(config)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	maker := common.HexToAddress("0x5409ed021d9299bf6814279a6a1411a7e866a631") // Replace with actual maker
	taker := common.HexToAddress("0x6ecbe1db9ef729cbe972c83fb886247691fb6beb") // Replace with actual taker
	weth := assetdata.EncodeERC20(common.HexToAddress("0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"))
	dai := assetdata.EncodeERC20(common.HexToAddress("0x6b175474e89094c44da98b954eedeac495271d0f"))

	// Example: Get a single balance and allowance
	fmt.Println("Fetching WETH balance...")
	balance, err := client.GetBalanceAndAllowance(ctx, maker, weth)
	if err != nil {
		log.Printf("Failed to get balance: %v", err)
	} else {
		formatted, _ := ordervalidator.FormatAmount(balance.Balance, 18)
		fmt.Printf("Balance: %s WETH, allowance: %s\n", formatted, balance.Allowance)
	}

	// Example: Get several balances of one owner
	fmt.Println("\nFetching balances...")
	balances, err := client.GetBalancesAndAllowances(ctx, maker, [][]byte{weth, dai})
	if err != nil {
		log.Printf("Failed to get balances: %v", err)
	} else {
		fmt.Printf("Balances: %+v\n", balances)
	}

	// Example: Validate an order
	fmt.Println("\nValidating order...")
	makerAmount, _ := ordervalidator.ParseAmount("1.5", 18)
	takerAmount, _ := ordervalidator.ParseAmount("3000", 18)
	order := &ordervalidator.Order{
		MakerAddress:          maker,
		MakerAssetAmount:      makerAmount,
		TakerAssetAmount:      takerAmount,
		MakerFee:              big.NewInt(0),
		TakerFee:              big.NewInt(0),
		ExpirationTimeSeconds: big.NewInt(time.Now().Add(time.Hour).Unix()),
		Salt:                  big.NewInt(time.Now().UnixNano()),
		MakerAssetData:        weth,
		TakerAssetData:        dai,
	}
	fmt.Printf("Order hash: %s\n", client.OrderHash(order).Hex())

	info, err := client.GetOrderAndTraderInfo(ctx, order, taker)
	if err != nil {
		log.Printf("Failed to validate order: %v", err)
	} else {
		fmt.Printf("Status: %s, fillable: %s\n", info.OrderInfo.OrderStatus, info.OrderInfo.FillableTakerAssetAmount)
		fmt.Printf("Trader info: %+v\n", info.TraderInfo)
	}
}
