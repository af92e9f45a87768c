package ordervalidator

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

const (
	MaxDecimals = 18
	ZeroAddress = "0x0000000000000000000000000000000000000000"
)

// FormatAmount renders a base-unit amount as a decimal string for a token
// with the given decimals
func FormatAmount(amount *big.Int, decimals int) (string, error) {
	if decimals < 0 || decimals > MaxDecimals {
		return "", &InvalidParamError{Message: fmt.Sprintf("decimals must be between 0 and %d, got: %d", MaxDecimals, decimals)}
	}
	if amount == nil {
		amount = new(big.Int)
	}

	return decimal.NewFromBigInt(amount, -int32(decimals)).String(), nil
}

// ParseAmount converts a human-readable decimal amount to base units
func ParseAmount(amount string, decimals int) (*big.Int, error) {
	if decimals < 0 || decimals > MaxDecimals {
		return nil, &InvalidParamError{Message: fmt.Sprintf("decimals must be between 0 and %d, got: %d", MaxDecimals, decimals)}
	}

	value, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, &InvalidParamError{Message: fmt.Sprintf("invalid amount %q: %v", amount, err)}
	}
	if value.IsNegative() {
		return nil, &InvalidParamError{Message: fmt.Sprintf("amount must not be negative, got: %s", amount)}
	}

	shifted := value.Shift(int32(decimals))
	if !shifted.Equal(shifted.Truncate(0)) {
		return nil, &InvalidParamError{Message: fmt.Sprintf("amount %s has more than %d decimals", amount, decimals)}
	}

	// Validate result fits in uint256
	result := shifted.BigInt()
	if result.BitLen() > 256 {
		return nil, &InvalidParamError{Message: fmt.Sprintf("amount too large for uint256: %s", result.String())}
	}

	return result, nil
}
