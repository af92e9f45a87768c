package ordervalidator

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/kaifufi/order-validator-sdk-go/chain"
)

type (
	// Order is an exchange order
	Order = chain.Order
	// OrderState is the exchange bookkeeping for one order
	OrderState = chain.OrderState
	// BalanceAllowance is a balance with the allowance granted to the asset proxy
	BalanceAllowance = chain.BalanceAllowance
)

// OrderStatus mirrors the exchange's order status enum
type OrderStatus uint8

const (
	OrderStatusInvalid OrderStatus = iota
	OrderStatusInvalidMakerAssetAmount
	OrderStatusInvalidTakerAssetAmount
	OrderStatusFillable
	OrderStatusExpired
	OrderStatusFullyFilled
	OrderStatusCancelled
)

var orderStatusNames = map[OrderStatus]string{
	OrderStatusInvalid:                 "INVALID",
	OrderStatusInvalidMakerAssetAmount: "INVALID_MAKER_ASSET_AMOUNT",
	OrderStatusInvalidTakerAssetAmount: "INVALID_TAKER_ASSET_AMOUNT",
	OrderStatusFillable:                "FILLABLE",
	OrderStatusExpired:                 "EXPIRED",
	OrderStatusFullyFilled:             "FULLY_FILLED",
	OrderStatusCancelled:               "CANCELLED",
}

func (s OrderStatus) String() string {
	if name, ok := orderStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("OrderStatus(%d)", uint8(s))
}

// MarshalText encodes the status by name
func (s OrderStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// TraderInfo holds the balances and proxy allowances of both sides of an
// order, for the traded assets and for the exchange's fee asset
type TraderInfo struct {
	MakerBalance      *big.Int `json:"makerBalance"`
	MakerAllowance    *big.Int `json:"makerAllowance"`
	TakerBalance      *big.Int `json:"takerBalance"`
	TakerAllowance    *big.Int `json:"takerAllowance"`
	MakerFeeBalance   *big.Int `json:"makerFeeBalance"`
	MakerFeeAllowance *big.Int `json:"makerFeeAllowance"`
	TakerFeeBalance   *big.Int `json:"takerFeeBalance"`
	TakerFeeAllowance *big.Int `json:"takerFeeAllowance"`
}

// OrderInfo is the exchange bookkeeping of an order plus what follows from it
type OrderInfo struct {
	OrderHash                   common.Hash `json:"orderHash"`
	OrderStatus                 OrderStatus `json:"orderStatus"`
	OrderTakerAssetFilledAmount *big.Int    `json:"orderTakerAssetFilledAmount"`
	IsCancelled                 bool        `json:"isCancelled"`
	FillableTakerAssetAmount    *big.Int    `json:"fillableTakerAssetAmount"`
}

// OrderAndTraderInfo is a point-in-time fillability snapshot of one order
type OrderAndTraderInfo struct {
	OrderInfo  OrderInfo  `json:"orderInfo"`
	TraderInfo TraderInfo `json:"traderInfo"`
}
