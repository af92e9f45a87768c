package assetdata

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ERC1155Assets(address,uint256[],uint256[],bytes) payload layout
var erc1155Arguments = abi.Arguments{
	{Type: mustNewType("address")},
	{Type: mustNewType("uint256[]")},
	{Type: mustNewType("uint256[]")},
	{Type: mustNewType("bytes")},
}

func mustNewType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic("failed to build abi type " + t + ": " + err.Error())
	}
	return typ
}

// Decode parses an asset data blob. Blobs with an unrecognised proxy id
// decode to Unknown; blobs too short for their proxy id fail with
// ErrTruncatedPayload. Decode never touches chain state.
func Decode(b []byte) (AssetData, error) {
	if len(b) < proxyIDLength {
		return nil, &DecodeError{Length: len(b), Err: ErrTruncatedPayload}
	}

	var id ProxyID
	copy(id[:], b[:proxyIDLength])

	switch id {
	case ERC20ProxyID:
		if len(b) < erc20AssetDataLength {
			return nil, &DecodeError{ProxyID: id, Length: len(b), Err: ErrTruncatedPayload}
		}
		return FungibleToken{TokenAddress: wordToAddress(b[4:36])}, nil

	case ERC721ProxyID:
		if len(b) < erc721AssetDataLength {
			return nil, &DecodeError{ProxyID: id, Length: len(b), Err: ErrTruncatedPayload}
		}
		return NonFungibleToken{
			TokenAddress: wordToAddress(b[4:36]),
			TokenID:      new(big.Int).SetBytes(b[36:68]),
		}, nil

	case ERC1155ProxyID:
		return decodeERC1155(id, b)

	default:
		raw := make([]byte, len(b))
		copy(raw, b)
		return Unknown{ID: id, Raw: raw}, nil
	}
}

func decodeERC1155(id ProxyID, b []byte) (AssetData, error) {
	if len(b) < erc1155MinAssetDataLength {
		return nil, &DecodeError{ProxyID: id, Length: len(b), Err: ErrTruncatedPayload}
	}

	values, err := erc1155Arguments.Unpack(b[proxyIDLength:])
	if err != nil {
		return nil, &DecodeError{ProxyID: id, Length: len(b), Err: fmt.Errorf("%w: %v", ErrMalformedPayload, err)}
	}

	tokenAddress, ok1 := values[0].(common.Address)
	tokenIDs, ok2 := values[1].([]*big.Int)
	tokenValues, ok3 := values[2].([]*big.Int)
	callbackData, ok4 := values[3].([]byte)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return nil, &DecodeError{ProxyID: id, Length: len(b), Err: ErrMalformedPayload}
	}
	if len(tokenIDs) != len(tokenValues) {
		return nil, &DecodeError{
			ProxyID: id,
			Length:  len(b),
			Err:     fmt.Errorf("%w: %d ids but %d values", ErrMalformedPayload, len(tokenIDs), len(tokenValues)),
		}
	}

	return MultiToken{
		TokenAddress: tokenAddress,
		TokenIDs:     tokenIDs,
		TokenValues:  tokenValues,
		CallbackData: callbackData,
	}, nil
}

// Encode returns the canonical blob for a decoded asset
func Encode(a AssetData) ([]byte, error) {
	switch v := a.(type) {
	case FungibleToken:
		return EncodeERC20(v.TokenAddress), nil
	case NonFungibleToken:
		return EncodeERC721(v.TokenAddress, v.TokenID), nil
	case MultiToken:
		return EncodeERC1155(v.TokenAddress, v.TokenIDs, v.TokenValues, v.CallbackData)
	case Unknown:
		raw := make([]byte, len(v.Raw))
		copy(raw, v.Raw)
		return raw, nil
	default:
		return nil, fmt.Errorf("unsupported asset data type %T", a)
	}
}

// EncodeERC20 builds ERC20 asset data for a token contract
func EncodeERC20(token common.Address) []byte {
	out := make([]byte, 0, erc20AssetDataLength)
	out = append(out, ERC20ProxyID[:]...)
	out = append(out, common.LeftPadBytes(token.Bytes(), wordLength)...)
	return out
}

// EncodeERC721 builds ERC721 asset data for one token id
func EncodeERC721(token common.Address, tokenID *big.Int) []byte {
	if tokenID == nil {
		tokenID = new(big.Int)
	}
	out := make([]byte, 0, erc721AssetDataLength)
	out = append(out, ERC721ProxyID[:]...)
	out = append(out, common.LeftPadBytes(token.Bytes(), wordLength)...)
	out = append(out, common.LeftPadBytes(tokenID.Bytes(), wordLength)...)
	return out
}

// EncodeERC1155 builds ERC1155 asset data. ids and values must have the same length.
func EncodeERC1155(token common.Address, ids, values []*big.Int, callbackData []byte) ([]byte, error) {
	if len(ids) != len(values) {
		return nil, fmt.Errorf("%w: %d ids but %d values", ErrMalformedPayload, len(ids), len(values))
	}
	if callbackData == nil {
		callbackData = []byte{}
	}

	payload, err := erc1155Arguments.Pack(token, ids, values, callbackData)
	if err != nil {
		return nil, fmt.Errorf("failed to pack ERC1155 asset data: %w", err)
	}
	return append(append([]byte{}, ERC1155ProxyID[:]...), payload...), nil
}

// DecodeHex decodes hex asset data, with or without the 0x prefix
func DecodeHex(s string) (AssetData, error) {
	b, err := FromHex(s)
	if err != nil {
		return nil, err
	}
	return Decode(b)
}

// FromHex converts hex asset data to bytes without decoding it
func FromHex(s string) ([]byte, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("invalid asset data hex: %w", err)
	}
	return b, nil
}

func wordToAddress(word []byte) common.Address {
	return common.BytesToAddress(word[wordLength-common.AddressLength:])
}
