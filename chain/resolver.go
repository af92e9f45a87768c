package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"go.uber.org/zap"

	"github.com/kaifufi/order-validator-sdk-go/assetdata"
)

// Resolver turns a decoded asset into a balance and allowance, using the
// views of whichever token standard the asset belongs to.
//
// Tokens are arbitrary contracts: a call that reverts, returns nothing or
// returns something that does not decode makes the whole answer {0, 0}
// instead of an error. The only error Resolve returns is the context's.
type Resolver struct {
	caller *ContractCaller
	logger *zap.Logger
}

// NewResolver creates a Resolver reading through caller
func NewResolver(caller *ContractCaller, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{caller: caller, logger: logger}
}

// Resolve returns owner's balance of asset and the allowance granted to
// spender. A zero spender means no proxy can move the asset, so the allowance
// is zero.
func (r *Resolver) Resolve(ctx context.Context, asset assetdata.AssetData, owner, spender common.Address) (BalanceAllowance, error) {
	var (
		result BalanceAllowance
		err    error
	)

	switch a := asset.(type) {
	case assetdata.FungibleToken:
		result, err = r.resolveFungible(ctx, a, owner, spender)
	case assetdata.NonFungibleToken:
		result, err = r.resolveNonFungible(ctx, a, owner, spender)
	case assetdata.MultiToken:
		result, err = r.resolveMultiToken(ctx, a, owner, spender)
	default:
		return ZeroBalanceAllowance(), nil
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ZeroBalanceAllowance(), ctxErr
		}
		r.logger.Debug("token call failed, reporting zero balance and allowance",
			zap.Stringer("proxy_id", asset.ProxyID()),
			zap.Stringer("owner", owner),
			zap.Stringer("spender", spender),
			zap.Error(err),
		)
		return ZeroBalanceAllowance(), nil
	}

	return result, nil
}

func (r *Resolver) resolveFungible(ctx context.Context, a assetdata.FungibleToken, owner, spender common.Address) (BalanceAllowance, error) {
	balance, err := r.caller.getERC20Balance(ctx, a.TokenAddress, owner)
	if err != nil {
		return BalanceAllowance{}, err
	}

	allowance := new(big.Int)
	if spender != (common.Address{}) {
		allowance, err = r.caller.getERC20Allowance(ctx, a.TokenAddress, owner, spender)
		if err != nil {
			return BalanceAllowance{}, err
		}
	}

	return BalanceAllowance{Balance: balance, Allowance: allowance}, nil
}

// resolveNonFungible treats a nil token id as id 0, as the encoder does
func (r *Resolver) resolveNonFungible(ctx context.Context, a assetdata.NonFungibleToken, owner, spender common.Address) (BalanceAllowance, error) {
	tokenID := orZero(a.TokenID)

	tokenOwner, err := r.caller.getERC721Owner(ctx, a.TokenAddress, tokenID)
	if err != nil {
		return BalanceAllowance{}, err
	}

	balance := new(big.Int)
	if tokenOwner == owner {
		balance.SetUint64(1)
	}

	allowance := new(big.Int)
	if spender == (common.Address{}) {
		return BalanceAllowance{Balance: balance, Allowance: allowance}, nil
	}

	approvedForAll, err := r.caller.isApprovedForAll(ctx, a.TokenAddress, owner, spender)
	if err != nil {
		return BalanceAllowance{}, err
	}
	if approvedForAll {
		allowance.SetUint64(1)
		return BalanceAllowance{Balance: balance, Allowance: allowance}, nil
	}

	approved, err := r.caller.getERC721Approved(ctx, a.TokenAddress, tokenID)
	if err != nil {
		return BalanceAllowance{}, err
	}
	if approved == spender {
		allowance.SetUint64(1)
	}

	return BalanceAllowance{Balance: balance, Allowance: allowance}, nil
}

// resolveMultiToken reports how many whole units of the basket owner holds:
// the minimum over ids of balance / value. Ids with a zero value do not
// constrain the result. A nil id or value counts as zero, as in the encoder.
func (r *Resolver) resolveMultiToken(ctx context.Context, a assetdata.MultiToken, owner, spender common.Address) (BalanceAllowance, error) {
	if len(a.TokenIDs) != len(a.TokenValues) {
		return BalanceAllowance{}, assetdata.ErrMalformedPayload
	}

	var units *big.Int
	for i, id := range a.TokenIDs {
		value := a.TokenValues[i]
		if value == nil || value.Sign() == 0 {
			continue
		}

		held, err := r.caller.getERC1155Balance(ctx, a.TokenAddress, owner, orZero(id))
		if err != nil {
			return BalanceAllowance{}, err
		}

		scaled := new(big.Int).Div(held, value)
		if units == nil || scaled.Cmp(units) < 0 {
			units = scaled
		}
	}
	if units == nil {
		units = new(big.Int)
	}

	allowance := new(big.Int)
	if spender != (common.Address{}) {
		approvedForAll, err := r.caller.isApprovedForAll(ctx, a.TokenAddress, owner, spender)
		if err != nil {
			return BalanceAllowance{}, err
		}
		if approvedForAll {
			allowance.Set(math.MaxBig256)
		}
	}

	return BalanceAllowance{Balance: units, Allowance: allowance}, nil
}
