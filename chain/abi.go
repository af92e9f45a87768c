package chain

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ERC20 ABI JSON for the balance and allowance views
const erc20ABIJSON = `[
	{
		"constant": true,
		"inputs": [{"name": "owner", "type": "address"}],
		"name": "balanceOf",
		"outputs": [{"name": "", "type": "uint256"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [
			{"name": "owner", "type": "address"},
			{"name": "spender", "type": "address"}
		],
		"name": "allowance",
		"outputs": [{"name": "", "type": "uint256"}],
		"type": "function"
	}
]`

// ERC721 ABI JSON for ownership and approval views
const erc721ABIJSON = `[
	{
		"constant": true,
		"inputs": [{"name": "tokenId", "type": "uint256"}],
		"name": "ownerOf",
		"outputs": [{"name": "", "type": "address"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [{"name": "tokenId", "type": "uint256"}],
		"name": "getApproved",
		"outputs": [{"name": "", "type": "address"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [
			{"name": "owner", "type": "address"},
			{"name": "operator", "type": "address"}
		],
		"name": "isApprovedForAll",
		"outputs": [{"name": "", "type": "bool"}],
		"type": "function"
	}
]`

// ERC1155 ABI JSON for balance and operator approval views
const erc1155ABIJSON = `[
	{
		"constant": true,
		"inputs": [
			{"name": "owner", "type": "address"},
			{"name": "id", "type": "uint256"}
		],
		"name": "balanceOf",
		"outputs": [{"name": "", "type": "uint256"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [
			{"name": "owner", "type": "address"},
			{"name": "operator", "type": "address"}
		],
		"name": "isApprovedForAll",
		"outputs": [{"name": "", "type": "bool"}],
		"type": "function"
	}
]`

// Exchange ABI JSON for the order bookkeeping and proxy registry views
const exchangeABIJSON = `[
	{
		"constant": true,
		"inputs": [{"name": "", "type": "bytes32"}],
		"name": "filled",
		"outputs": [{"name": "", "type": "uint256"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [{"name": "", "type": "bytes32"}],
		"name": "cancelled",
		"outputs": [{"name": "", "type": "bool"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [
			{"name": "makerAddress", "type": "address"},
			{"name": "senderAddress", "type": "address"}
		],
		"name": "orderEpoch",
		"outputs": [{"name": "", "type": "uint256"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [{"name": "assetProxyId", "type": "bytes4"}],
		"name": "getAssetProxy",
		"outputs": [{"name": "", "type": "address"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [],
		"name": "ZRX_ASSET_DATA",
		"outputs": [{"name": "", "type": "bytes"}],
		"type": "function"
	}
]`

var (
	erc20ABI    = mustParseABI("ERC20", erc20ABIJSON)
	erc721ABI   = mustParseABI("ERC721", erc721ABIJSON)
	erc1155ABI  = mustParseABI("ERC1155", erc1155ABIJSON)
	exchangeABI = mustParseABI("Exchange", exchangeABIJSON)
)

func mustParseABI(name, raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic("failed to parse " + name + " ABI: " + err.Error())
	}
	return parsed
}

// GetERC20ABI returns the parsed ERC20 ABI
func GetERC20ABI() abi.ABI { return erc20ABI }

// GetERC721ABI returns the parsed ERC721 ABI
func GetERC721ABI() abi.ABI { return erc721ABI }

// GetERC1155ABI returns the parsed ERC1155 ABI
func GetERC1155ABI() abi.ABI { return erc1155ABI }

// GetExchangeABI returns the parsed Exchange ABI
func GetExchangeABI() abi.ABI { return exchangeABI }
