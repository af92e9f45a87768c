package chain_test

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaifufi/order-validator-sdk-go/assetdata"
	"github.com/kaifufi/order-validator-sdk-go/chain"
)

const orderJSON = `{
	"makerAddress": "0x5409ed021d9299bf6814279a6a1411a7e866a631",
	"takerAddress": "0x0000000000000000000000000000000000000000",
	"feeRecipientAddress": "0x0000000000000000000000000000000000000000",
	"senderAddress": "0x0000000000000000000000000000000000000000",
	"makerAssetAmount": "100000000000000000000",
	"takerAssetAmount": "1",
	"makerFee": "0",
	"takerFee": "0",
	"expirationTimeSeconds": "1600000000",
	"salt": "42",
	"makerAssetData": "0xf47261b00000000000000000000000001dc4c1cefef38a777b15aa20260a54e584b16c48",
	"takerAssetData": "0x025717920000000000000000000000001d7022f5b17d2f8b695918fb48fa1089c9f8540100000000000000000000000000000000000000000000000000000000075bcd15",
	"exchangeAddress": "0x48bacb9266a570d521063ef5dd96e61686dbe788",
	"signature": "0x1b"
}`

func TestParseOrderJSON(t *testing.T) {
	order, err := chain.ParseOrderJSON([]byte(orderJSON))
	require.NoError(t, err)

	assert.Equal(t, makerAddress, order.MakerAddress)
	assert.Equal(t, "100000000000000000000", order.MakerAssetAmount.String())
	assert.Equal(t, int64(1600000000), order.ExpirationTimeSeconds.Int64())

	taker, err := assetdata.Decode(order.TakerAssetData)
	require.NoError(t, err)
	nft, ok := taker.(assetdata.NonFungibleToken)
	require.True(t, ok)
	assert.Equal(t, int64(123456789), nft.TokenID.Int64())

	// back to the wire shape and again
	wire, err := json.Marshal(order.ToJSON())
	require.NoError(t, err)
	again, err := chain.ParseOrderJSON(wire)
	require.NoError(t, err)
	assert.Equal(t, order, again)
}

func TestParseOrderJSON_Invalid(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(o map[string]string)
	}{
		{name: "bad maker", mutate: func(o map[string]string) { o["makerAddress"] = "0x12" }},
		{name: "bad taker", mutate: func(o map[string]string) { o["takerAddress"] = "nope" }},
		{name: "missing maker asset data", mutate: func(o map[string]string) { delete(o, "makerAssetData") }},
		{name: "bad taker asset data", mutate: func(o map[string]string) { o["takerAssetData"] = "0xzz" }},
		{name: "negative amount", mutate: func(o map[string]string) { o["takerAssetAmount"] = "-1" }},
		{name: "missing salt", mutate: func(o map[string]string) { delete(o, "salt") }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var fields map[string]string
			require.NoError(t, json.Unmarshal([]byte(orderJSON), &fields))
			tc.mutate(fields)
			raw, err := json.Marshal(fields)
			require.NoError(t, err)

			_, err = chain.ParseOrderJSON(raw)
			assert.Error(t, err)
		})
	}
}

func TestParseOrdersJSON(t *testing.T) {
	orders, err := chain.ParseOrdersJSON([]byte("[" + orderJSON + "," + orderJSON + "]"))
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	_, err = chain.ParseOrdersJSON([]byte(`[{"makerAddress": "bad"}]`))
	assert.ErrorContains(t, err, "order 0")
}

func TestOrderHash(t *testing.T) {
	order, err := chain.ParseOrderJSON([]byte(orderJSON))
	require.NoError(t, err)
	exchange := common.HexToAddress("0x48bacb9266a570d521063ef5dd96e61686dbe788")

	hash := chain.OrderHash(order, exchange)
	assert.Equal(t, common.HexToHash("0xe235781d9e2e8cb20258c653f89ee218700c2c666a6087b4d6f27a0ee8ce9580"), hash)
	assert.Equal(t, hash, chain.OrderHash(order, exchange))

	// a different salt is a different order
	other := *order
	other.Salt = big.NewInt(43)
	assert.NotEqual(t, hash, chain.OrderHash(&other, exchange))

	// the same order on another exchange is a different order
	assert.NotEqual(t, hash, chain.OrderHash(order, makerAddress))
	assert.NotEqual(t, chain.DomainSeparator(exchange), chain.DomainSeparator(makerAddress))
}
