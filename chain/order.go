package chain

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Order is an exchange order as the exchange hashes it
type Order struct {
	MakerAddress          common.Address
	TakerAddress          common.Address
	FeeRecipientAddress   common.Address
	SenderAddress         common.Address
	MakerAssetAmount      *big.Int
	TakerAssetAmount      *big.Int
	MakerFee              *big.Int
	TakerFee              *big.Int
	ExpirationTimeSeconds *big.Int
	Salt                  *big.Int
	MakerAssetData        []byte
	TakerAssetData        []byte
}

// OrderJSON is the wire shape used by off-chain order books: amounts as
// base-10 strings, asset data as 0x hex. Unknown fields such as the
// signature are ignored.
type OrderJSON struct {
	MakerAddress          string `json:"makerAddress"`
	TakerAddress          string `json:"takerAddress"`
	FeeRecipientAddress   string `json:"feeRecipientAddress"`
	SenderAddress         string `json:"senderAddress"`
	MakerAssetAmount      string `json:"makerAssetAmount"`
	TakerAssetAmount      string `json:"takerAssetAmount"`
	MakerFee              string `json:"makerFee"`
	TakerFee              string `json:"takerFee"`
	ExpirationTimeSeconds string `json:"expirationTimeSeconds"`
	Salt                  string `json:"salt"`
	MakerAssetData        string `json:"makerAssetData"`
	TakerAssetData        string `json:"takerAssetData"`
}

// ParseOrderJSON decodes a single JSON order
func ParseOrderJSON(data []byte) (*Order, error) {
	var raw OrderJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode order JSON: %w", err)
	}
	return raw.ToOrder()
}

// ParseOrdersJSON decodes a JSON array of orders
func ParseOrdersJSON(data []byte) ([]*Order, error) {
	var raws []OrderJSON
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("failed to decode orders JSON: %w", err)
	}

	orders := make([]*Order, 0, len(raws))
	for i := range raws {
		order, err := raws[i].ToOrder()
		if err != nil {
			return nil, fmt.Errorf("order %d: %w", i, err)
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// ToOrder validates the wire fields and converts them
func (o *OrderJSON) ToOrder() (*Order, error) {
	if err := o.validateInputs(); err != nil {
		return nil, err
	}

	order := &Order{
		MakerAddress:        common.HexToAddress(o.MakerAddress),
		TakerAddress:        common.HexToAddress(o.TakerAddress),
		FeeRecipientAddress: common.HexToAddress(o.FeeRecipientAddress),
		SenderAddress:       common.HexToAddress(o.SenderAddress),
	}

	amounts := []struct {
		name     string
		value    string
		required bool
		dst      **big.Int
	}{
		{"makerAssetAmount", o.MakerAssetAmount, true, &order.MakerAssetAmount},
		{"takerAssetAmount", o.TakerAssetAmount, true, &order.TakerAssetAmount},
		{"makerFee", o.MakerFee, false, &order.MakerFee},
		{"takerFee", o.TakerFee, false, &order.TakerFee},
		{"expirationTimeSeconds", o.ExpirationTimeSeconds, false, &order.ExpirationTimeSeconds},
		{"salt", o.Salt, true, &order.Salt},
	}
	for _, a := range amounts {
		if a.value == "" && !a.required {
			*a.dst = new(big.Int)
			continue
		}
		v, ok := new(big.Int).SetString(a.value, 10)
		if !ok || v.Sign() < 0 {
			return nil, fmt.Errorf("invalid %s: %q", a.name, a.value)
		}
		*a.dst = v
	}

	var err error
	if order.MakerAssetData, err = hexutil.Decode(o.MakerAssetData); err != nil {
		return nil, fmt.Errorf("invalid makerAssetData: %w", err)
	}
	if order.TakerAssetData, err = hexutil.Decode(o.TakerAssetData); err != nil {
		return nil, fmt.Errorf("invalid takerAssetData: %w", err)
	}

	return order, nil
}

func (o *OrderJSON) validateInputs() error {
	if !common.IsHexAddress(o.MakerAddress) {
		return fmt.Errorf("invalid makerAddress: %q", o.MakerAddress)
	}
	for name, addr := range map[string]string{
		"takerAddress":        o.TakerAddress,
		"feeRecipientAddress": o.FeeRecipientAddress,
		"senderAddress":       o.SenderAddress,
	} {
		if addr != "" && !common.IsHexAddress(addr) {
			return fmt.Errorf("invalid %s: %q", name, addr)
		}
	}
	if o.MakerAssetData == "" {
		return fmt.Errorf("makerAssetData is required")
	}
	if o.TakerAssetData == "" {
		return fmt.Errorf("takerAssetData is required")
	}
	return nil
}

// ToJSON converts an order back to its wire shape
func (o *Order) ToJSON() OrderJSON {
	return OrderJSON{
		MakerAddress:          normalizeAddress(o.MakerAddress),
		TakerAddress:          normalizeAddress(o.TakerAddress),
		FeeRecipientAddress:   normalizeAddress(o.FeeRecipientAddress),
		SenderAddress:         normalizeAddress(o.SenderAddress),
		MakerAssetAmount:      bigString(o.MakerAssetAmount),
		TakerAssetAmount:      bigString(o.TakerAssetAmount),
		MakerFee:              bigString(o.MakerFee),
		TakerFee:              bigString(o.TakerFee),
		ExpirationTimeSeconds: bigString(o.ExpirationTimeSeconds),
		Salt:                  bigString(o.Salt),
		MakerAssetData:        hexutil.Encode(o.MakerAssetData),
		TakerAssetData:        hexutil.Encode(o.TakerAssetData),
	}
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// lowercase hex, the form order books use in JSON
func normalizeAddress(addr common.Address) string {
	return hexutil.Encode(addr.Bytes())
}
