package chaintest

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/kaifufi/order-validator-sdk-go/chain"
)

// ERC20 is an in-memory fungible token
type ERC20 struct {
	mu         sync.RWMutex
	balances   map[common.Address]*big.Int
	allowances map[common.Address]map[common.Address]*big.Int
}

// NewERC20 creates a token with no balances
func NewERC20() *ERC20 {
	return &ERC20{
		balances:   make(map[common.Address]*big.Int),
		allowances: make(map[common.Address]map[common.Address]*big.Int),
	}
}

// SetBalance overwrites owner's balance
func (t *ERC20) SetBalance(owner common.Address, amount *big.Int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.balances[owner] = copyInt(amount)
}

// Approve sets the allowance owner grants spender
func (t *ERC20) Approve(owner, spender common.Address, amount *big.Int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.allowances[owner] == nil {
		t.allowances[owner] = make(map[common.Address]*big.Int)
	}
	t.allowances[owner][spender] = copyInt(amount)
}

func (t *ERC20) HandleCall(data []byte) ([]byte, error) {
	return dispatch(chain.GetERC20ABI(), data, func(method string, args []interface{}) ([]interface{}, error) {
		t.mu.RLock()
		defer t.mu.RUnlock()

		switch method {
		case "balanceOf":
			return []interface{}{copyInt(t.balances[args[0].(common.Address)])}, nil
		case "allowance":
			owner, spender := args[0].(common.Address), args[1].(common.Address)
			return []interface{}{copyInt(t.allowances[owner][spender])}, nil
		}
		return nil, ErrExecutionReverted
	})
}

// ERC721 is an in-memory non-fungible token. ownerOf and getApproved revert
// for ids that were never minted.
type ERC721 struct {
	mu        sync.RWMutex
	owners    map[string]common.Address
	approvals map[string]common.Address
	operators map[common.Address]map[common.Address]bool
}

// NewERC721 creates a token with nothing minted
func NewERC721() *ERC721 {
	return &ERC721{
		owners:    make(map[string]common.Address),
		approvals: make(map[string]common.Address),
		operators: make(map[common.Address]map[common.Address]bool),
	}
}

// Mint assigns tokenID to owner
func (t *ERC721) Mint(owner common.Address, tokenID *big.Int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.owners[key(tokenID)] = owner
	delete(t.approvals, key(tokenID))
}

// Approve lets spender move one token
func (t *ERC721) Approve(spender common.Address, tokenID *big.Int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.approvals[key(tokenID)] = spender
}

// SetApprovalForAll lets operator move every token of owner
func (t *ERC721) SetApprovalForAll(owner, operator common.Address, approved bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.operators[owner] == nil {
		t.operators[owner] = make(map[common.Address]bool)
	}
	t.operators[owner][operator] = approved
}

func (t *ERC721) HandleCall(data []byte) ([]byte, error) {
	return dispatch(chain.GetERC721ABI(), data, func(method string, args []interface{}) ([]interface{}, error) {
		t.mu.RLock()
		defer t.mu.RUnlock()

		switch method {
		case "ownerOf":
			owner, ok := t.owners[key(args[0].(*big.Int))]
			if !ok {
				return nil, ErrExecutionReverted
			}
			return []interface{}{owner}, nil
		case "getApproved":
			id := key(args[0].(*big.Int))
			if _, ok := t.owners[id]; !ok {
				return nil, ErrExecutionReverted
			}
			return []interface{}{t.approvals[id]}, nil
		case "isApprovedForAll":
			owner, operator := args[0].(common.Address), args[1].(common.Address)
			return []interface{}{t.operators[owner][operator]}, nil
		}
		return nil, ErrExecutionReverted
	})
}

// ERC1155 is an in-memory multi token
type ERC1155 struct {
	mu        sync.RWMutex
	balances  map[common.Address]map[string]*big.Int
	operators map[common.Address]map[common.Address]bool
}

// NewERC1155 creates a token with no balances
func NewERC1155() *ERC1155 {
	return &ERC1155{
		balances:  make(map[common.Address]map[string]*big.Int),
		operators: make(map[common.Address]map[common.Address]bool),
	}
}

// SetBalance overwrites owner's balance of one id
func (t *ERC1155) SetBalance(owner common.Address, id, amount *big.Int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.balances[owner] == nil {
		t.balances[owner] = make(map[string]*big.Int)
	}
	t.balances[owner][key(id)] = copyInt(amount)
}

// SetApprovalForAll lets operator move every token of owner
func (t *ERC1155) SetApprovalForAll(owner, operator common.Address, approved bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.operators[owner] == nil {
		t.operators[owner] = make(map[common.Address]bool)
	}
	t.operators[owner][operator] = approved
}

func (t *ERC1155) HandleCall(data []byte) ([]byte, error) {
	return dispatch(chain.GetERC1155ABI(), data, func(method string, args []interface{}) ([]interface{}, error) {
		t.mu.RLock()
		defer t.mu.RUnlock()

		switch method {
		case "balanceOf":
			owner, id := args[0].(common.Address), args[1].(*big.Int)
			return []interface{}{copyInt(t.balances[owner][key(id)])}, nil
		case "isApprovedForAll":
			owner, operator := args[0].(common.Address), args[1].(common.Address)
			return []interface{}{t.operators[owner][operator]}, nil
		}
		return nil, ErrExecutionReverted
	})
}
