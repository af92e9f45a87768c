package chain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// BalanceAllowance is what an owner holds of an asset and how much of it the
// spender may move
type BalanceAllowance struct {
	Balance   *big.Int
	Allowance *big.Int
}

// ZeroBalanceAllowance is the answer for assets that cannot be moved
func ZeroBalanceAllowance() BalanceAllowance {
	return BalanceAllowance{Balance: new(big.Int), Allowance: new(big.Int)}
}

// OrderState is the exchange's bookkeeping for one order
type OrderState struct {
	OrderHash    common.Hash
	FilledAmount *big.Int
	IsCancelled  bool
	// OrderEpoch is the cancel-up-to epoch of the order's maker and sender.
	// Orders whose salt is below it are cancelled. Nil when not read.
	OrderEpoch *big.Int
}
