package assetdata

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	tokenAddr = common.HexToAddress("0x1dc4c1cefef38a777b15aa20260a54e584b16c48")
	tokenID   = big.NewInt(123456789)
)

func TestDecode_ERC20RoundTrip(t *testing.T) {
	encoded := EncodeERC20(tokenAddr)
	require.Len(t, encoded, 36)
	assert.Equal(t, "0xf47261b00000000000000000000000001dc4c1cefef38a777b15aa20260a54e584b16c48", hexutil.Encode(encoded))

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, FungibleToken{TokenAddress: tokenAddr}, decoded)

	reencoded, err := Encode(decoded)
	require.NoError(t, err)
	assert.Equal(t, encoded, reencoded)
}

func TestDecode_ERC721(t *testing.T) {
	encoded := EncodeERC721(tokenAddr, tokenID)
	require.Len(t, encoded, 68)

	decoded, err := Decode(encoded)
	require.NoError(t, err)

	nft, ok := decoded.(NonFungibleToken)
	require.True(t, ok)
	assert.Equal(t, tokenAddr, nft.TokenAddress)
	assert.Equal(t, 0, tokenID.Cmp(nft.TokenID))
	assert.Equal(t, ERC721ProxyID, decoded.ProxyID())

	reencoded, err := Encode(decoded)
	require.NoError(t, err)
	assert.Equal(t, encoded, reencoded)
}

func TestDecode_ERC1155RoundTrip(t *testing.T) {
	ids := []*big.Int{big.NewInt(1), big.NewInt(2)}
	values := []*big.Int{big.NewInt(10), big.NewInt(20)}

	encoded, err := EncodeERC1155(tokenAddr, ids, values, []byte{0xde, 0xad})
	require.NoError(t, err)

	decoded, err := Decode(encoded)
	require.NoError(t, err)

	multi, ok := decoded.(MultiToken)
	require.True(t, ok)
	assert.Equal(t, tokenAddr, multi.TokenAddress)
	require.Len(t, multi.TokenIDs, 2)
	assert.Equal(t, int64(2), multi.TokenIDs[1].Int64())
	assert.Equal(t, int64(20), multi.TokenValues[1].Int64())
	assert.Equal(t, []byte{0xde, 0xad}, multi.CallbackData)

	reencoded, err := Encode(decoded)
	require.NoError(t, err)
	assert.Equal(t, encoded, reencoded)
}

func TestDecode_Truncated(t *testing.T) {
	erc1155, err := EncodeERC1155(tokenAddr, []*big.Int{big.NewInt(1)}, []*big.Int{big.NewInt(1)}, nil)
	require.NoError(t, err)

	testCases := []struct {
		name    string
		full    []byte
		minimum int
	}{
		{name: "erc20", full: EncodeERC20(tokenAddr), minimum: 36},
		{name: "erc721", full: EncodeERC721(tokenAddr, tokenID), minimum: 68},
		{name: "erc1155", full: erc1155, minimum: 132},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for n := 0; n < tc.minimum; n++ {
				_, err := Decode(tc.full[:n])
				require.Error(t, err, "length %d", n)
				assert.True(t, errors.Is(err, ErrTruncatedPayload), "length %d: %v", n, err)

				var decodeErr *DecodeError
				require.True(t, errors.As(err, &decodeErr))
				assert.Equal(t, n, decodeErr.Length)
			}
		})
	}
}

func TestDecode_Unknown(t *testing.T) {
	testCases := []struct {
		name string
		blob []byte
	}{
		{name: "bare proxy id", blob: []byte{0x94, 0xcf, 0xcd, 0xd7}},
		{name: "proxy id with payload", blob: append([]byte{0x01, 0x02, 0x03, 0x04}, make([]byte, 40)...)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			decoded, err := Decode(tc.blob)
			require.NoError(t, err)

			unknown, ok := decoded.(Unknown)
			require.True(t, ok)
			assert.Equal(t, tc.blob[:4], unknown.ID[:])
			assert.Equal(t, tc.blob, unknown.Raw)

			reencoded, err := Encode(decoded)
			require.NoError(t, err)
			assert.Equal(t, tc.blob, reencoded)
		})
	}
}

func TestDecode_MalformedERC1155(t *testing.T) {
	blob := append([]byte{}, ERC1155ProxyID[:]...)
	blob = append(blob, common.LeftPadBytes(tokenAddr.Bytes(), 32)...)
	// offsets pointing far past the end of the payload
	for i := 0; i < 3; i++ {
		blob = append(blob, common.LeftPadBytes([]byte{0xff, 0xff}, 32)...)
	}

	_, err := Decode(blob)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedPayload))
	assert.False(t, errors.Is(err, ErrTruncatedPayload))
}

func TestEncodeERC1155_LengthMismatch(t *testing.T) {
	_, err := EncodeERC1155(tokenAddr, []*big.Int{big.NewInt(1)}, nil, nil)
	assert.True(t, errors.Is(err, ErrMalformedPayload))
}

func TestDecodeHex(t *testing.T) {
	decoded, err := DecodeHex("f47261b00000000000000000000000001dc4c1cefef38a777b15aa20260a54e584b16c48")
	require.NoError(t, err)
	assert.Equal(t, FungibleToken{TokenAddress: tokenAddr}, decoded)

	_, err = DecodeHex("0xzz")
	assert.Error(t, err)
}
