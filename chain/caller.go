package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/kaifufi/order-validator-sdk-go/assetdata"
)

// ErrEmptyReturnData is returned when a call to a contract yields no data,
// which is what calling an address without code looks like.
var ErrEmptyReturnData = errors.New("empty return data")

// Caller is the read-only part of an Ethereum client this package needs.
// *ethclient.Client satisfies it.
//
//go:generate mockgen -source caller.go -destination=mock/caller_mock.go -package=mock
type Caller interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// ContractCaller performs read-only calls against token contracts and the exchange
type ContractCaller struct {
	client       Caller
	closer       func()
	exchangeAddr common.Address
	logger       *zap.Logger
}

// Dial connects to an RPC endpoint and returns a ContractCaller bound to the exchange
func Dial(rpcURL string, exchangeAddr common.Address, logger *zap.Logger) (*ContractCaller, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	cc := NewContractCaller(client, exchangeAddr, logger)
	cc.closer = client.Close
	return cc, nil
}

// NewContractCaller creates a ContractCaller on top of an existing client
func NewContractCaller(client Caller, exchangeAddr common.Address, logger *zap.Logger) *ContractCaller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContractCaller{
		client:       client,
		exchangeAddr: exchangeAddr,
		logger:       logger,
	}
}

// ExchangeAddress returns the exchange this caller reads bookkeeping from
func (cc *ContractCaller) ExchangeAddress() common.Address {
	return cc.exchangeAddr
}

// call packs a view call, executes it at the latest block and unpacks the outputs
func (cc *ContractCaller) call(ctx context.Context, to common.Address, parsed abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}

	result, err := cc.client.CallContract(ctx, ethereum.CallMsg{
		To:   &to,
		Data: data,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s call to %s: %w", method, to.Hex(), err)
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("%s call to %s: %w", method, to.Hex(), ErrEmptyReturnData)
	}

	out, err := parsed.Unpack(method, result)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s from %s: %w", method, to.Hex(), err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s call to %s: %w", method, to.Hex(), ErrEmptyReturnData)
	}

	return out, nil
}

func (cc *ContractCaller) callUint(ctx context.Context, to common.Address, parsed abi.ABI, method string, args ...interface{}) (*big.Int, error) {
	out, err := cc.call(ctx, to, parsed, method, args...)
	if err != nil {
		return nil, err
	}
	value, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected %s output type %T", method, out[0])
	}
	return value, nil
}

func (cc *ContractCaller) callAddress(ctx context.Context, to common.Address, parsed abi.ABI, method string, args ...interface{}) (common.Address, error) {
	out, err := cc.call(ctx, to, parsed, method, args...)
	if err != nil {
		return common.Address{}, err
	}
	value, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("unexpected %s output type %T", method, out[0])
	}
	return value, nil
}

func (cc *ContractCaller) callBool(ctx context.Context, to common.Address, parsed abi.ABI, method string, args ...interface{}) (bool, error) {
	out, err := cc.call(ctx, to, parsed, method, args...)
	if err != nil {
		return false, err
	}
	value, ok := out[0].(bool)
	if !ok {
		return false, fmt.Errorf("unexpected %s output type %T", method, out[0])
	}
	return value, nil
}

// getERC20Balance returns the ERC20 balance for an account
func (cc *ContractCaller) getERC20Balance(ctx context.Context, token, account common.Address) (*big.Int, error) {
	return cc.callUint(ctx, token, erc20ABI, "balanceOf", account)
}

// getERC20Allowance returns the ERC20 allowance for owner to spender
func (cc *ContractCaller) getERC20Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	return cc.callUint(ctx, token, erc20ABI, "allowance", owner, spender)
}

func (cc *ContractCaller) getERC721Owner(ctx context.Context, token common.Address, tokenID *big.Int) (common.Address, error) {
	return cc.callAddress(ctx, token, erc721ABI, "ownerOf", tokenID)
}

func (cc *ContractCaller) getERC721Approved(ctx context.Context, token common.Address, tokenID *big.Int) (common.Address, error) {
	return cc.callAddress(ctx, token, erc721ABI, "getApproved", tokenID)
}

func (cc *ContractCaller) getERC1155Balance(ctx context.Context, token, owner common.Address, id *big.Int) (*big.Int, error) {
	return cc.callUint(ctx, token, erc1155ABI, "balanceOf", owner, id)
}

// isApprovedForAll checks if an operator may move all of owner's tokens.
// ERC721 and ERC1155 share the selector.
func (cc *ContractCaller) isApprovedForAll(ctx context.Context, token, owner, operator common.Address) (bool, error) {
	return cc.callBool(ctx, token, erc721ABI, "isApprovedForAll", owner, operator)
}

// Filled returns the taker asset amount already filled for an order
func (cc *ContractCaller) Filled(ctx context.Context, orderHash common.Hash) (*big.Int, error) {
	return cc.callUint(ctx, cc.exchangeAddr, exchangeABI, "filled", orderHash)
}

// Cancelled reports whether an order has been cancelled on the exchange
func (cc *ContractCaller) Cancelled(ctx context.Context, orderHash common.Hash) (bool, error) {
	return cc.callBool(ctx, cc.exchangeAddr, exchangeABI, "cancelled", orderHash)
}

// GetOrderState reads the exchange bookkeeping for one order hash
func (cc *ContractCaller) GetOrderState(ctx context.Context, orderHash common.Hash) (OrderState, error) {
	filled, err := cc.Filled(ctx, orderHash)
	if err != nil {
		cc.logger.Warn("failed to read filled amount", zap.Stringer("order_hash", orderHash), zap.Error(err))
		return OrderState{}, fmt.Errorf("failed to read filled amount: %w", err)
	}

	cancelled, err := cc.Cancelled(ctx, orderHash)
	if err != nil {
		cc.logger.Warn("failed to read cancelled flag", zap.Stringer("order_hash", orderHash), zap.Error(err))
		return OrderState{}, fmt.Errorf("failed to read cancelled flag: %w", err)
	}

	return OrderState{
		OrderHash:    orderHash,
		FilledAmount: filled,
		IsCancelled:  cancelled,
	}, nil
}

// OrderEpoch returns the epoch set by cancelOrdersUpTo for a maker and sender
// pair. Every order of the pair with a salt below the epoch is cancelled.
func (cc *ContractCaller) OrderEpoch(ctx context.Context, makerAddr, senderAddr common.Address) (*big.Int, error) {
	epoch, err := cc.callUint(ctx, cc.exchangeAddr, exchangeABI, "orderEpoch", makerAddr, senderAddr)
	if err != nil {
		cc.logger.Warn("failed to read order epoch",
			zap.Stringer("maker", makerAddr),
			zap.Stringer("sender", senderAddr),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to read order epoch: %w", err)
	}
	return epoch, nil
}

// AssetProxy returns the proxy registered on the exchange for an asset class.
// The zero address means nothing is registered.
func (cc *ContractCaller) AssetProxy(ctx context.Context, id assetdata.ProxyID) (common.Address, error) {
	proxy, err := cc.callAddress(ctx, cc.exchangeAddr, exchangeABI, "getAssetProxy", [4]byte(id))
	if err != nil {
		cc.logger.Warn("failed to read asset proxy", zap.Stringer("proxy_id", id), zap.Error(err))
		return common.Address{}, fmt.Errorf("failed to read asset proxy %s: %w", id, err)
	}
	return proxy, nil
}

// FeeAssetData returns the asset data of the token the exchange charges fees in
func (cc *ContractCaller) FeeAssetData(ctx context.Context) ([]byte, error) {
	out, err := cc.call(ctx, cc.exchangeAddr, exchangeABI, "ZRX_ASSET_DATA")
	if err != nil {
		cc.logger.Warn("failed to read fee asset data", zap.Error(err))
		return nil, fmt.Errorf("failed to read fee asset data: %w", err)
	}
	value, ok := out[0].([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected ZRX_ASSET_DATA output type %T", out[0])
	}
	return value, nil
}

// Close closes the underlying RPC connection when the caller owns it
func (cc *ContractCaller) Close() {
	if cc.closer != nil {
		cc.closer()
	}
}
