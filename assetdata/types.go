// Package assetdata encodes and decodes the asset data blobs that identify
// what an order trades and which asset proxy moves it.
package assetdata

import (
	"encoding/hex"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ProxyID is the 4-byte tag at the start of every asset data blob. It is the
// selector of the proxy's asset data "function" signature.
type ProxyID [4]byte

// String returns the 0x-prefixed hex form of the id
func (id ProxyID) String() string {
	return "0x" + hex.EncodeToString(id[:])
}

// Known proxy ids
var (
	// bytes4(keccak256("ERC20Token(address)"))
	ERC20ProxyID = ProxyID{0xf4, 0x72, 0x61, 0xb0}
	// bytes4(keccak256("ERC721Token(address,uint256)"))
	ERC721ProxyID = ProxyID{0x02, 0x57, 0x17, 0x92}
	// bytes4(keccak256("ERC1155Assets(address,uint256[],uint256[],bytes)"))
	ERC1155ProxyID = ProxyID{0xa7, 0xcb, 0x5f, 0xb7}
)

const (
	proxyIDLength = 4
	wordLength    = 32

	erc20AssetDataLength  = proxyIDLength + wordLength
	erc721AssetDataLength = proxyIDLength + 2*wordLength
	// head of the ERC1155 payload: address + three offsets
	erc1155MinAssetDataLength = proxyIDLength + 4*wordLength
)

// AssetData is a decoded asset data blob. The set of implementations is
// closed: FungibleToken, NonFungibleToken, MultiToken and Unknown.
type AssetData interface {
	ProxyID() ProxyID
	isAssetData()
}

// FungibleToken is an ERC20 asset
type FungibleToken struct {
	TokenAddress common.Address
}

// NonFungibleToken is a single ERC721 token
type NonFungibleToken struct {
	TokenAddress common.Address
	TokenID      *big.Int
}

// MultiToken is a basket of ERC1155 ids, each with the value that one unit
// of the asset represents.
type MultiToken struct {
	TokenAddress common.Address
	TokenIDs     []*big.Int
	TokenValues  []*big.Int
	CallbackData []byte
}

// Unknown is a well-formed blob whose proxy id this package does not handle.
type Unknown struct {
	ID  ProxyID
	Raw []byte
}

func (FungibleToken) ProxyID() ProxyID    { return ERC20ProxyID }
func (NonFungibleToken) ProxyID() ProxyID { return ERC721ProxyID }
func (MultiToken) ProxyID() ProxyID       { return ERC1155ProxyID }
func (u Unknown) ProxyID() ProxyID        { return u.ID }

func (FungibleToken) isAssetData()    {}
func (NonFungibleToken) isAssetData() {}
func (MultiToken) isAssetData()       {}
func (Unknown) isAssetData()          {}
