package chaintest

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/kaifufi/order-validator-sdk-go/chain"
)

// Exchange is an in-memory exchange exposing the bookkeeping and proxy
// registry views
type Exchange struct {
	mu           sync.RWMutex
	filled       map[common.Hash]*big.Int
	cancelled    map[common.Hash]bool
	epochs       map[[2]common.Address]*big.Int
	proxies      map[[4]byte]common.Address
	feeAssetData []byte
}

// NewExchange creates an exchange charging fees in the given asset
func NewExchange(feeAssetData []byte) *Exchange {
	return &Exchange{
		filled:       make(map[common.Hash]*big.Int),
		cancelled:    make(map[common.Hash]bool),
		epochs:       make(map[[2]common.Address]*big.Int),
		proxies:      make(map[[4]byte]common.Address),
		feeAssetData: feeAssetData,
	}
}

// RegisterAssetProxy records proxy as responsible for the proxy id
func (e *Exchange) RegisterAssetProxy(id [4]byte, proxy common.Address) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.proxies[id] = proxy
}

// SetFilled records how much of an order's taker asset has been filled
func (e *Exchange) SetFilled(orderHash common.Hash, amount *big.Int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.filled[orderHash] = copyInt(amount)
}

// Cancel marks an order as cancelled
func (e *Exchange) Cancel(orderHash common.Hash) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelled[orderHash] = true
}

// SetOrderEpoch cancels every order of maker and sender with a salt below epoch
func (e *Exchange) SetOrderEpoch(maker, sender common.Address, epoch *big.Int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.epochs[[2]common.Address{maker, sender}] = copyInt(epoch)
}

func (e *Exchange) HandleCall(data []byte) ([]byte, error) {
	return dispatch(chain.GetExchangeABI(), data, func(method string, args []interface{}) ([]interface{}, error) {
		e.mu.RLock()
		defer e.mu.RUnlock()

		switch method {
		case "filled":
			return []interface{}{copyInt(e.filled[common.Hash(args[0].([32]byte))])}, nil
		case "cancelled":
			return []interface{}{e.cancelled[common.Hash(args[0].([32]byte))]}, nil
		case "orderEpoch":
			pair := [2]common.Address{args[0].(common.Address), args[1].(common.Address)}
			return []interface{}{copyInt(e.epochs[pair])}, nil
		case "getAssetProxy":
			return []interface{}{e.proxies[args[0].([4]byte)]}, nil
		case "ZRX_ASSET_DATA":
			return []interface{}{e.feeAssetData}, nil
		}
		return nil, ErrExecutionReverted
	})
}
