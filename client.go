package ordervalidator

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kaifufi/order-validator-sdk-go/assetdata"
	"github.com/kaifufi/order-validator-sdk-go/chain"
)

const defaultConcurrency = 8

// Client is the main SDK client
type Client struct {
	contractCaller *chain.ContractCaller
	resolver       *chain.Resolver
	chainID        ChainID
	concurrency    int
	logger         *zap.Logger
	now            func() time.Time

	feeAssetCache assetdata.AssetData
	cacheMutex    sync.RWMutex
}

// ClientConfig holds configuration for creating a Client
type ClientConfig struct {
	RPCURL          string
	ChainID         ChainID
	ExchangeAddress string
	// FeeAssetData overrides the exchange's ZRX_ASSET_DATA when set (hex)
	FeeAssetData string
	// Concurrency bounds how many items of one batch query are processed at
	// once. Each item issues its own calls concurrently: up to four balance
	// lookups plus the order state and epoch reads.
	Concurrency int
	Logger      *zap.Logger
	// Now is the clock used for expiration, time.Now when nil
	Now func() time.Time
}

// NewClient creates a new order validator client connected to config.RPCURL
func NewClient(config ClientConfig) (*Client, error) {
	exchangeAddr, err := config.validate()
	if err != nil {
		return nil, err
	}

	contractCaller, err := chain.Dial(config.RPCURL, exchangeAddr, config.logger().Named("chain"))
	if err != nil {
		return nil, fmt.Errorf("failed to create contract caller: %w", err)
	}

	client, err := newClient(config, contractCaller)
	if err != nil {
		contractCaller.Close()
		return nil, err
	}
	return client, nil
}

// NewClientWithCaller creates a client that issues its calls through caller
// instead of dialing config.RPCURL
func NewClientWithCaller(config ClientConfig, caller chain.Caller) (*Client, error) {
	exchangeAddr, err := config.validate()
	if err != nil {
		return nil, err
	}

	contractCaller := chain.NewContractCaller(caller, exchangeAddr, config.logger().Named("chain"))
	return newClient(config, contractCaller)
}

func newClient(config ClientConfig, contractCaller *chain.ContractCaller) (*Client, error) {
	logger := config.logger()

	client := &Client{
		contractCaller: contractCaller,
		resolver:       chain.NewResolver(contractCaller, logger.Named("resolver")),
		chainID:        config.ChainID,
		concurrency:    config.Concurrency,
		logger:         logger,
		now:            config.Now,
	}
	if client.concurrency <= 0 {
		client.concurrency = defaultConcurrency
	}
	if client.now == nil {
		client.now = time.Now
	}

	if config.FeeAssetData != "" {
		feeAsset, err := assetdata.DecodeHex(config.FeeAssetData)
		if err != nil {
			return nil, &InvalidParamError{Message: fmt.Sprintf("invalid fee asset data: %v", err)}
		}
		client.feeAssetCache = feeAsset
	}

	return client, nil
}

func (config *ClientConfig) validate() (common.Address, error) {
	// Validate chain ID
	isSupported := false
	for _, supportedID := range SupportedChainIDs {
		if config.ChainID == supportedID {
			isSupported = true
			break
		}
	}
	if !isSupported {
		return common.Address{}, &InvalidParamError{
			Message: fmt.Sprintf("chain_id must be one of %v", SupportedChainIDs),
		}
	}

	// Use default contract addresses if not provided
	if config.ExchangeAddress == "" {
		config.ExchangeAddress = DefaultContractAddresses[config.ChainID].Exchange
	}
	if !common.IsHexAddress(config.ExchangeAddress) {
		return common.Address{}, &InvalidParamError{
			Message: fmt.Sprintf("invalid exchange address: %q", config.ExchangeAddress),
		}
	}

	return common.HexToAddress(config.ExchangeAddress), nil
}

func (config *ClientConfig) logger() *zap.Logger {
	if config.Logger == nil {
		return zap.NewNop()
	}
	return config.Logger
}

// Close closes the client and cleans up resources
func (c *Client) Close() {
	if c.contractCaller != nil {
		c.contractCaller.Close()
	}
}

// ChainID returns the chain the client was configured for
func (c *Client) ChainID() ChainID {
	return c.chainID
}

// ExchangeAddress returns the exchange whose proxies and bookkeeping are read
func (c *Client) ExchangeAddress() common.Address {
	return c.contractCaller.ExchangeAddress()
}

// OrderHash returns the EIP-712 hash of order on the client's exchange
func (c *Client) OrderHash(order *Order) common.Hash {
	return chain.OrderHash(order, c.contractCaller.ExchangeAddress())
}

// GetOrderState reads the filled amount and cancelled flag of an order hash
func (c *Client) GetOrderState(ctx context.Context, orderHash common.Hash) (OrderState, error) {
	return c.contractCaller.GetOrderState(ctx, orderHash)
}

// GetBalanceAndAllowance returns owner's balance of the asset described by
// assetData and the allowance granted to the proxy of its asset class
func (c *Client) GetBalanceAndAllowance(ctx context.Context, owner common.Address, assetData []byte) (BalanceAllowance, error) {
	asset, err := assetdata.Decode(assetData)
	if err != nil {
		return BalanceAllowance{}, err
	}
	return c.resolve(ctx, asset, owner)
}

// GetBalancesAndAllowances is the batch form of GetBalanceAndAllowance for one
// owner. Result i belongs to assetDatas[i].
func (c *Client) GetBalancesAndAllowances(ctx context.Context, owner common.Address, assetDatas [][]byte) ([]BalanceAllowance, error) {
	assets := make([]assetdata.AssetData, len(assetDatas))
	for i, raw := range assetDatas {
		asset, err := assetdata.Decode(raw)
		if err != nil {
			return nil, &BatchItemError{Index: i, Err: err}
		}
		assets[i] = asset
	}

	results := make([]BalanceAllowance, len(assets))
	err := c.forEach(ctx, len(assets), func(ctx context.Context, i int) error {
		result, err := c.resolve(ctx, assets[i], owner)
		if err != nil {
			return &BatchItemError{Index: i, Err: err}
		}
		results[i] = result
		return nil
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}

// GetTraderInfo returns the balances and proxy allowances of the maker and of
// takerAddress for both assets of order and for the fee asset
func (c *Client) GetTraderInfo(ctx context.Context, order *Order, takerAddress common.Address) (*TraderInfo, error) {
	p, err := prepareOrder(order)
	if err != nil {
		return nil, err
	}

	feeAsset, err := c.feeAsset(ctx)
	if err != nil {
		return nil, err
	}

	return c.traderInfo(ctx, p, takerAddress, feeAsset)
}

// GetTradersInfo is the batch form of GetTraderInfo. Result i belongs to
// orders[i] and takerAddresses[i].
func (c *Client) GetTradersInfo(ctx context.Context, orders []*Order, takerAddresses []common.Address) ([]*TraderInfo, error) {
	if len(orders) != len(takerAddresses) {
		return nil, lengthMismatch("taker addresses", len(orders), len(takerAddresses))
	}

	prepared, err := prepareOrders(orders)
	if err != nil {
		return nil, err
	}

	feeAsset, err := c.feeAsset(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*TraderInfo, len(prepared))
	err = c.forEach(ctx, len(prepared), func(ctx context.Context, i int) error {
		info, err := c.traderInfo(ctx, prepared[i], takerAddresses[i], feeAsset)
		if err != nil {
			return &BatchItemError{Index: i, Err: err}
		}
		results[i] = info
		return nil
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}

// GetOrderAndTraderInfo combines the exchange bookkeeping of order with the
// trader info for order and takerAddress
func (c *Client) GetOrderAndTraderInfo(ctx context.Context, order *Order, takerAddress common.Address) (*OrderAndTraderInfo, error) {
	p, err := prepareOrder(order)
	if err != nil {
		return nil, err
	}

	feeAsset, err := c.feeAsset(ctx)
	if err != nil {
		return nil, err
	}

	return c.orderAndTraderInfo(ctx, p, takerAddress, feeAsset)
}

// GetOrdersAndTradersInfo is the batch form of GetOrderAndTraderInfo. Result i
// belongs to orders[i] and takerAddresses[i].
func (c *Client) GetOrdersAndTradersInfo(ctx context.Context, orders []*Order, takerAddresses []common.Address) ([]*OrderAndTraderInfo, error) {
	if len(orders) != len(takerAddresses) {
		return nil, lengthMismatch("taker addresses", len(orders), len(takerAddresses))
	}

	prepared, err := prepareOrders(orders)
	if err != nil {
		return nil, err
	}

	feeAsset, err := c.feeAsset(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*OrderAndTraderInfo, len(prepared))
	err = c.forEach(ctx, len(prepared), func(ctx context.Context, i int) error {
		info, err := c.orderAndTraderInfo(ctx, prepared[i], takerAddresses[i], feeAsset)
		if err != nil {
			return &BatchItemError{Index: i, Err: err}
		}
		results[i] = info
		return nil
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}

// preparedOrder is an order whose asset data has already been decoded
type preparedOrder struct {
	order      *Order
	makerAsset assetdata.AssetData
	takerAsset assetdata.AssetData
}

func prepareOrder(order *Order) (preparedOrder, error) {
	if order == nil {
		return preparedOrder{}, &InvalidParamError{Message: "order must not be nil"}
	}

	makerAsset, err := assetdata.Decode(order.MakerAssetData)
	if err != nil {
		return preparedOrder{}, fmt.Errorf("maker asset data: %w", err)
	}
	takerAsset, err := assetdata.Decode(order.TakerAssetData)
	if err != nil {
		return preparedOrder{}, fmt.Errorf("taker asset data: %w", err)
	}

	return preparedOrder{order: order, makerAsset: makerAsset, takerAsset: takerAsset}, nil
}

func prepareOrders(orders []*Order) ([]preparedOrder, error) {
	prepared := make([]preparedOrder, len(orders))
	for i, order := range orders {
		p, err := prepareOrder(order)
		if err != nil {
			return nil, &BatchItemError{Index: i, Err: err}
		}
		prepared[i] = p
	}
	return prepared, nil
}

func (c *Client) orderAndTraderInfo(ctx context.Context, p preparedOrder, takerAddress common.Address, feeAsset assetdata.AssetData) (*OrderAndTraderInfo, error) {
	g, gctx := errgroup.WithContext(ctx)

	var (
		state      OrderState
		epoch      *big.Int
		traderInfo *TraderInfo
	)
	g.Go(func() error {
		var err error
		state, err = c.contractCaller.GetOrderState(gctx, c.OrderHash(p.order))
		return err
	})
	g.Go(func() error {
		var err error
		epoch, err = c.contractCaller.OrderEpoch(gctx, p.order.MakerAddress, p.order.SenderAddress)
		return err
	})
	g.Go(func() error {
		var err error
		traderInfo, err = c.traderInfo(gctx, p, takerAddress, feeAsset)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	state.OrderEpoch = epoch

	status := GetOrderStatus(p.order, state, c.now())
	return &OrderAndTraderInfo{
		OrderInfo: OrderInfo{
			OrderHash:                   state.OrderHash,
			OrderStatus:                 status,
			OrderTakerAssetFilledAmount: state.FilledAmount,
			IsCancelled:                 state.IsCancelled,
			FillableTakerAssetAmount:    FillableTakerAssetAmount(p.order, takerAddress, status, state, traderInfo),
		},
		TraderInfo: *traderInfo,
	}, nil
}

// traderInfo resolves every side of an order concurrently. Each side looks up
// the proxy of its own asset class, so the maker and taker may be checked
// against different spenders.
func (c *Client) traderInfo(ctx context.Context, p preparedOrder, takerAddress common.Address, feeAsset assetdata.AssetData) (*TraderInfo, error) {
	sides := []struct {
		asset assetdata.AssetData
		owner common.Address
	}{
		{p.makerAsset, p.order.MakerAddress},
		{p.takerAsset, takerAddress},
		{feeAsset, p.order.MakerAddress},
		{feeAsset, takerAddress},
	}

	results := make([]BalanceAllowance, len(sides))
	g, gctx := errgroup.WithContext(ctx)
	for i, side := range sides {
		i, side := i, side
		g.Go(func() error {
			result, err := c.resolve(gctx, side.asset, side.owner)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &TraderInfo{
		MakerBalance:      results[0].Balance,
		MakerAllowance:    results[0].Allowance,
		TakerBalance:      results[1].Balance,
		TakerAllowance:    results[1].Allowance,
		MakerFeeBalance:   results[2].Balance,
		MakerFeeAllowance: results[2].Allowance,
		TakerFeeBalance:   results[3].Balance,
		TakerFeeAllowance: results[3].Allowance,
	}, nil
}

// resolve looks up the proxy for the asset's class and resolves the asset
// against it. Unknown classes have no proxy and resolve to zero without a call.
func (c *Client) resolve(ctx context.Context, asset assetdata.AssetData, owner common.Address) (BalanceAllowance, error) {
	if _, ok := asset.(assetdata.Unknown); ok {
		return chain.ZeroBalanceAllowance(), nil
	}

	proxy, err := c.contractCaller.AssetProxy(ctx, asset.ProxyID())
	if err != nil {
		return BalanceAllowance{}, err
	}

	return c.resolver.Resolve(ctx, asset, owner, proxy)
}

// feeAsset returns the decoded fee asset, reading it from the exchange the
// first time it is needed. An exchange without a fee asset charges nothing
// that could be checked, so it resolves like an unknown asset.
func (c *Client) feeAsset(ctx context.Context) (assetdata.AssetData, error) {
	c.cacheMutex.RLock()
	cached := c.feeAssetCache
	c.cacheMutex.RUnlock()
	if cached != nil {
		return cached, nil
	}

	raw, err := c.contractCaller.FeeAssetData(ctx)
	if err != nil {
		return nil, err
	}

	var asset assetdata.AssetData = assetdata.Unknown{}
	if len(raw) > 0 {
		asset, err = assetdata.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("fee asset data: %w", err)
		}
	}

	c.cacheMutex.Lock()
	c.feeAssetCache = asset
	c.cacheMutex.Unlock()

	return asset, nil
}

// forEach runs fn for every index in [0, n) with at most c.concurrency calls
// in flight, stopping at the first error
func (c *Client) forEach(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			return fn(gctx, i)
		})
	}

	return g.Wait()
}
