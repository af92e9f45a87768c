package chaintest

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/kaifufi/order-validator-sdk-go/assetdata"
)

// Proxy addresses registered by NewWorld. Proxies are only ever used as
// spenders, so they need no code.
var (
	ERC20ProxyAddress   = common.HexToAddress("0x00000000000000000000000000000000000e20a0")
	ERC721ProxyAddress  = common.HexToAddress("0x00000000000000000000000000000000000e721a")
	ERC1155ProxyAddress = common.HexToAddress("0x00000000000000000000000000000000000e1155")
)

// World is a backend with one exchange, its fee token, and one token of each
// supported standard, with a proxy registered for every standard.
type World struct {
	Backend *Backend

	Exchange     *Exchange
	ExchangeAddr common.Address

	FeeToken     *ERC20
	FeeTokenAddr common.Address

	ERC20     *ERC20
	ERC20Addr common.Address

	ERC721     *ERC721
	ERC721Addr common.Address

	ERC1155     *ERC1155
	ERC1155Addr common.Address
}

// NewWorld deploys and wires the contracts
func NewWorld() *World {
	w := &World{Backend: NewBackend()}

	w.FeeToken = NewERC20()
	w.FeeTokenAddr = w.Backend.Deploy(w.FeeToken)

	w.ERC20 = NewERC20()
	w.ERC20Addr = w.Backend.Deploy(w.ERC20)

	w.ERC721 = NewERC721()
	w.ERC721Addr = w.Backend.Deploy(w.ERC721)

	w.ERC1155 = NewERC1155()
	w.ERC1155Addr = w.Backend.Deploy(w.ERC1155)

	w.Exchange = NewExchange(assetdata.EncodeERC20(w.FeeTokenAddr))
	w.ExchangeAddr = w.Backend.Deploy(w.Exchange)

	w.Exchange.RegisterAssetProxy(assetdata.ERC20ProxyID, ERC20ProxyAddress)
	w.Exchange.RegisterAssetProxy(assetdata.ERC721ProxyID, ERC721ProxyAddress)
	w.Exchange.RegisterAssetProxy(assetdata.ERC1155ProxyID, ERC1155ProxyAddress)

	return w
}
