package ordervalidator

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// GetOrderStatus derives the status of order from the exchange bookkeeping,
// checking in the order the exchange does: amounts, fill, expiry, cancellation.
// An order is cancelled either by hash or by a maker epoch above its salt.
func GetOrderStatus(order *Order, state OrderState, now time.Time) OrderStatus {
	if order == nil {
		return OrderStatusInvalid
	}

	makerAmount := zeroIfNil(order.MakerAssetAmount)
	takerAmount := zeroIfNil(order.TakerAssetAmount)
	if makerAmount.Sign() == 0 {
		return OrderStatusInvalidMakerAssetAmount
	}
	if takerAmount.Sign() == 0 {
		return OrderStatusInvalidTakerAssetAmount
	}

	if zeroIfNil(state.FilledAmount).Cmp(takerAmount) >= 0 {
		return OrderStatusFullyFilled
	}

	expiration := zeroIfNil(order.ExpirationTimeSeconds)
	if big.NewInt(now.Unix()).Cmp(expiration) >= 0 {
		return OrderStatusExpired
	}

	if state.IsCancelled {
		return OrderStatusCancelled
	}
	if state.OrderEpoch != nil && state.OrderEpoch.Cmp(zeroIfNil(order.Salt)) > 0 {
		return OrderStatusCancelled
	}

	return OrderStatusFillable
}

// FillableTakerAssetAmount returns how much of the taker asset could still be
// filled given the traders' balances and allowances. It is zero unless status
// is OrderStatusFillable. A zero takerAddress leaves the taker side
// unconstrained, as anyone may fill such an order.
func FillableTakerAssetAmount(order *Order, takerAddress common.Address, status OrderStatus, state OrderState, info *TraderInfo) *big.Int {
	if status != OrderStatusFillable || order == nil || info == nil {
		return new(big.Int)
	}
	if zeroIfNil(order.MakerAssetAmount).Sign() == 0 || zeroIfNil(order.TakerAssetAmount).Sign() == 0 {
		return new(big.Int)
	}

	takerAmount := order.TakerAssetAmount
	fillable := new(big.Int).Sub(takerAmount, zeroIfNil(state.FilledAmount))
	if fillable.Sign() <= 0 {
		return new(big.Int)
	}

	constrain := func(limit *big.Int) {
		if limit.Cmp(fillable) < 0 {
			fillable = limit
		}
	}

	// maker asset, in taker units
	makerTransferable := transferable(info.MakerBalance, info.MakerAllowance)
	constrain(scale(makerTransferable, takerAmount, order.MakerAssetAmount))

	if zeroIfNil(order.MakerFee).Sign() > 0 {
		feeTransferable := transferable(info.MakerFeeBalance, info.MakerFeeAllowance)
		constrain(scale(feeTransferable, takerAmount, order.MakerFee))
	}

	if takerAddress != (common.Address{}) {
		constrain(transferable(info.TakerBalance, info.TakerAllowance))

		if zeroIfNil(order.TakerFee).Sign() > 0 {
			feeTransferable := transferable(info.TakerFeeBalance, info.TakerFeeAllowance)
			constrain(scale(feeTransferable, takerAmount, order.TakerFee))
		}
	}

	return new(big.Int).Set(fillable)
}

// transferable is what a proxy can actually move: min(balance, allowance)
func transferable(balance, allowance *big.Int) *big.Int {
	balance, allowance = zeroIfNil(balance), zeroIfNil(allowance)
	if balance.Cmp(allowance) < 0 {
		return balance
	}
	return allowance
}

// scale converts amount from units of denominator into units of numerator,
// rounding down
func scale(amount, numerator, denominator *big.Int) *big.Int {
	result := new(big.Int).Mul(amount, numerator)
	return result.Quo(result, denominator)
}

func zeroIfNil(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
