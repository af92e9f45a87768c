package chain_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"

	"github.com/kaifufi/order-validator-sdk-go/assetdata"
	"github.com/kaifufi/order-validator-sdk-go/chain"
	"github.com/kaifufi/order-validator-sdk-go/chain/chaintest"
	"github.com/kaifufi/order-validator-sdk-go/chain/mock"
)

var (
	makerAddress = common.HexToAddress("0x5409ed021d9299bf6814279a6a1411a7e866a631")
	takerAddress = common.HexToAddress("0x6ecbe1db9ef729cbe972c83fb886247691fb6beb")
	otherAddress = common.HexToAddress("0xe36ea790bc9d7ab70c55260c66d52b1eca985f84")
	tokenID      = big.NewInt(123456789)
)

func newResolver(t *testing.T, w *chaintest.World) *chain.Resolver {
	logger := zaptest.NewLogger(t)
	caller := chain.NewContractCaller(w.Backend, w.ExchangeAddr, logger)
	return chain.NewResolver(caller, logger)
}

func assertBalanceAllowance(t *testing.T, res chain.BalanceAllowance, balance, allowance int64) {
	t.Helper()
	assert.Equal(t, 0, res.Balance.Cmp(big.NewInt(balance)), "balance: got %s, want %d", res.Balance, balance)
	assert.Equal(t, 0, res.Allowance.Cmp(big.NewInt(allowance)), "allowance: got %s, want %d", res.Allowance, allowance)
}

func TestResolver_Fungible(t *testing.T) {
	w := chaintest.NewWorld()
	w.ERC20.SetBalance(makerAddress, big.NewInt(123))
	w.ERC20.Approve(makerAddress, chaintest.ERC20ProxyAddress, big.NewInt(456))

	res, err := newResolver(t, w).Resolve(
		context.Background(),
		assetdata.FungibleToken{TokenAddress: w.ERC20Addr},
		makerAddress,
		chaintest.ERC20ProxyAddress,
	)
	require.NoError(t, err)
	assertBalanceAllowance(t, res, 123, 456)
}

func TestResolver_NonFungible(t *testing.T) {
	testCases := []struct {
		name      string
		setupFn   func(w *chaintest.World)
		owner     common.Address
		balance   int64
		allowance int64
	}{
		{
			name: "owned by target without approval",
			setupFn: func(w *chaintest.World) {
				w.ERC721.Mint(makerAddress, tokenID)
			},
			owner:     makerAddress,
			balance:   1,
			allowance: 0,
		},
		{
			name: "owned by someone else",
			setupFn: func(w *chaintest.World) {
				w.ERC721.Mint(otherAddress, tokenID)
			},
			owner:     makerAddress,
			balance:   0,
			allowance: 0,
		},
		{
			name: "proxy approved for all",
			setupFn: func(w *chaintest.World) {
				w.ERC721.Mint(makerAddress, tokenID)
				w.ERC721.SetApprovalForAll(makerAddress, chaintest.ERC721ProxyAddress, true)
			},
			owner:     makerAddress,
			balance:   1,
			allowance: 1,
		},
		{
			name: "proxy approved for the specific token",
			setupFn: func(w *chaintest.World) {
				w.ERC721.Mint(makerAddress, tokenID)
				w.ERC721.Approve(chaintest.ERC721ProxyAddress, tokenID)
			},
			owner:     makerAddress,
			balance:   1,
			allowance: 1,
		},
		{
			name: "another spender approved",
			setupFn: func(w *chaintest.World) {
				w.ERC721.Mint(makerAddress, tokenID)
				w.ERC721.Approve(otherAddress, tokenID)
				w.ERC721.SetApprovalForAll(makerAddress, otherAddress, true)
			},
			owner:     makerAddress,
			balance:   1,
			allowance: 0,
		},
		{
			name:      "token never minted",
			setupFn:   func(w *chaintest.World) {},
			owner:     makerAddress,
			balance:   0,
			allowance: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := chaintest.NewWorld()
			tc.setupFn(w)

			res, err := newResolver(t, w).Resolve(
				context.Background(),
				assetdata.NonFungibleToken{TokenAddress: w.ERC721Addr, TokenID: tokenID},
				tc.owner,
				chaintest.ERC721ProxyAddress,
			)
			require.NoError(t, err)
			assertBalanceAllowance(t, res, tc.balance, tc.allowance)
		})
	}
}

func TestResolver_NonFungibleZeroSpender(t *testing.T) {
	w := chaintest.NewWorld()
	// getApproved returns the zero address when nothing is approved
	w.ERC721.Mint(makerAddress, tokenID)

	res, err := newResolver(t, w).Resolve(
		context.Background(),
		assetdata.NonFungibleToken{TokenAddress: w.ERC721Addr, TokenID: tokenID},
		makerAddress,
		common.Address{},
	)
	require.NoError(t, err)
	assertBalanceAllowance(t, res, 1, 0)
}

func TestResolver_MultiToken(t *testing.T) {
	w := chaintest.NewWorld()
	w.ERC1155.SetBalance(makerAddress, big.NewInt(1), big.NewInt(100))
	w.ERC1155.SetBalance(makerAddress, big.NewInt(2), big.NewInt(35))

	asset := assetdata.MultiToken{
		TokenAddress: w.ERC1155Addr,
		TokenIDs:     []*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(3)},
		TokenValues:  []*big.Int{big.NewInt(10), big.NewInt(5), big.NewInt(0)},
	}
	r := newResolver(t, w)

	res, err := r.Resolve(context.Background(), asset, makerAddress, chaintest.ERC1155ProxyAddress)
	require.NoError(t, err)
	// min(100/10, 35/5), id 3 has no value and is ignored
	assertBalanceAllowance(t, res, 7, 0)

	w.ERC1155.SetApprovalForAll(makerAddress, chaintest.ERC1155ProxyAddress, true)
	res, err = r.Resolve(context.Background(), asset, makerAddress, chaintest.ERC1155ProxyAddress)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Allowance.Cmp(math.MaxBig256))
}

func TestResolver_UnknownMakesNoCalls(t *testing.T) {
	w := chaintest.NewWorld()

	res, err := newResolver(t, w).Resolve(
		context.Background(),
		assetdata.Unknown{ID: assetdata.ProxyID{0x94, 0xcf, 0xcd, 0xd7}},
		makerAddress,
		chaintest.ERC20ProxyAddress,
	)
	require.NoError(t, err)
	assertBalanceAllowance(t, res, 0, 0)
	assert.Equal(t, 0, w.Backend.Calls())
}

func TestResolver_NonConformingTokens(t *testing.T) {
	badBool := common.LeftPadBytes([]byte{2}, 32)

	testCases := []struct {
		name     string
		contract chaintest.Contract
		assetFn  func(addr common.Address) assetdata.AssetData
	}{
		{
			name:     "reverting fungible token",
			contract: chaintest.Reverting{},
			assetFn:  func(addr common.Address) assetdata.AssetData { return assetdata.FungibleToken{TokenAddress: addr} },
		},
		{
			name:     "fungible token returning a single byte",
			contract: chaintest.Raw{Data: []byte{0x01}},
			assetFn:  func(addr common.Address) assetdata.AssetData { return assetdata.FungibleToken{TokenAddress: addr} },
		},
		{
			name:     "non-fungible token returning an invalid boolean",
			contract: chaintest.Raw{Data: badBool},
			assetFn: func(addr common.Address) assetdata.AssetData {
				return assetdata.NonFungibleToken{TokenAddress: addr, TokenID: tokenID}
			},
		},
		{
			name:     "reverting multi token",
			contract: chaintest.Reverting{},
			assetFn: func(addr common.Address) assetdata.AssetData {
				return assetdata.MultiToken{
					TokenAddress: addr,
					TokenIDs:     []*big.Int{big.NewInt(1)},
					TokenValues:  []*big.Int{big.NewInt(1)},
				}
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := chaintest.NewWorld()
			addr := w.Backend.Deploy(tc.contract)

			res, err := newResolver(t, w).Resolve(context.Background(), tc.assetFn(addr), makerAddress, chaintest.ERC20ProxyAddress)
			require.NoError(t, err)
			assertBalanceAllowance(t, res, 0, 0)
		})
	}

	t.Run("address without code", func(t *testing.T) {
		w := chaintest.NewWorld()

		res, err := newResolver(t, w).Resolve(
			context.Background(),
			assetdata.FungibleToken{TokenAddress: otherAddress},
			makerAddress,
			chaintest.ERC20ProxyAddress,
		)
		require.NoError(t, err)
		assertBalanceAllowance(t, res, 0, 0)
	})
}

func TestResolver_Idempotent(t *testing.T) {
	w := chaintest.NewWorld()
	w.ERC721.Mint(makerAddress, tokenID)
	w.ERC721.SetApprovalForAll(makerAddress, chaintest.ERC721ProxyAddress, true)

	r := newResolver(t, w)
	asset := assetdata.NonFungibleToken{TokenAddress: w.ERC721Addr, TokenID: tokenID}

	first, err := r.Resolve(context.Background(), asset, makerAddress, chaintest.ERC721ProxyAddress)
	require.NoError(t, err)
	second, err := r.Resolve(context.Background(), asset, makerAddress, chaintest.ERC721ProxyAddress)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolver_WithMockCaller(t *testing.T) {
	token := common.HexToAddress("0x1dc4c1cefef38a777b15aa20260a54e584b16c48")
	asset := assetdata.FungibleToken{TokenAddress: token}

	testCases := []struct {
		name     string
		ctxFn    func() context.Context
		mockFn   func(caller *mock.MockCaller)
		assertFn func(t *testing.T, res chain.BalanceAllowance, err error)
	}{
		{
			name:  "revert on balanceOf stops further calls",
			ctxFn: context.Background,
			mockFn: func(caller *mock.MockCaller) {
				caller.EXPECT().
					CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
					Return(nil, errors.New("execution reverted")).
					Times(1)
			},
			assertFn: func(t *testing.T, res chain.BalanceAllowance, err error) {
				require.NoError(t, err)
				assertBalanceAllowance(t, res, 0, 0)
			},
		},
		{
			name:  "allowance call uses the token address",
			ctxFn: context.Background,
			mockFn: func(caller *mock.MockCaller) {
				word := common.LeftPadBytes(big.NewInt(9).Bytes(), 32)
				caller.EXPECT().
					CallContract(gomock.Any(), gomock.Cond(func(x any) bool {
						msg, ok := x.(ethereum.CallMsg)
						return ok && msg.To != nil && *msg.To == token
					}), gomock.Nil()).
					Return(word, nil).
					Times(2)
			},
			assertFn: func(t *testing.T, res chain.BalanceAllowance, err error) {
				require.NoError(t, err)
				assertBalanceAllowance(t, res, 9, 9)
			},
		},
		{
			name: "cancelled context is returned as an error",
			ctxFn: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			mockFn: func(caller *mock.MockCaller) {
				caller.EXPECT().
					CallContract(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, context.Canceled)
			},
			assertFn: func(t *testing.T, res chain.BalanceAllowance, err error) {
				assert.ErrorIs(t, err, context.Canceled)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			caller := mock.NewMockCaller(ctrl)
			tc.mockFn(caller)

			r := chain.NewResolver(chain.NewContractCaller(caller, common.Address{}, nil), nil)
			res, err := r.Resolve(tc.ctxFn(), asset, makerAddress, chaintest.ERC20ProxyAddress)
			tc.assertFn(t, res, err)
		})
	}
}

func TestResolver_NilTokenIDs(t *testing.T) {
	w := chaintest.NewWorld()
	w.ERC721.Mint(makerAddress, big.NewInt(0))
	w.ERC721.SetApprovalForAll(makerAddress, chaintest.ERC721ProxyAddress, true)
	w.ERC1155.SetBalance(makerAddress, big.NewInt(0), big.NewInt(5))
	r := newResolver(t, w)

	res, err := r.Resolve(context.Background(),
		assetdata.NonFungibleToken{TokenAddress: w.ERC721Addr},
		makerAddress, chaintest.ERC721ProxyAddress,
	)
	require.NoError(t, err)
	assertBalanceAllowance(t, res, 1, 1)

	res, err = r.Resolve(context.Background(),
		assetdata.MultiToken{
			TokenAddress: w.ERC1155Addr,
			TokenIDs:     []*big.Int{nil},
			TokenValues:  []*big.Int{big.NewInt(1)},
		},
		makerAddress, common.Address{},
	)
	require.NoError(t, err)
	assertBalanceAllowance(t, res, 5, 0)
}
