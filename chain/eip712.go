package chain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// EIP712 Domain constants of the exchange
const (
	EIP712DomainName    = "0x Protocol"
	EIP712DomainVersion = "2"
)

// Pre-computed type hashes using keccak256
var (
	// EIP712Domain(string name,string version,address verifyingContract)
	EIP712DomainTypeHash = crypto.Keccak256Hash([]byte(
		"EIP712Domain(string name,string version,address verifyingContract)",
	))

	OrderTypeHash = crypto.Keccak256Hash([]byte(
		"Order(" +
			"address makerAddress," +
			"address takerAddress," +
			"address feeRecipientAddress," +
			"address senderAddress," +
			"uint256 makerAssetAmount," +
			"uint256 takerAssetAmount," +
			"uint256 makerFee," +
			"uint256 takerFee," +
			"uint256 expirationTimeSeconds," +
			"uint256 salt," +
			"bytes makerAssetData," +
			"bytes takerAssetData" +
			")",
	))
)

var (
	bytes32Type = mustType("bytes32")
	uint256Type = mustType("uint256")
	addressType = mustType("address")

	domainArguments = abi.Arguments{
		{Type: bytes32Type}, // typeHash
		{Type: bytes32Type}, // nameHash
		{Type: bytes32Type}, // versionHash
		{Type: addressType}, // verifyingContract
	}

	orderArguments = abi.Arguments{
		{Type: bytes32Type}, // typeHash
		{Type: addressType}, // makerAddress
		{Type: addressType}, // takerAddress
		{Type: addressType}, // feeRecipientAddress
		{Type: addressType}, // senderAddress
		{Type: uint256Type}, // makerAssetAmount
		{Type: uint256Type}, // takerAssetAmount
		{Type: uint256Type}, // makerFee
		{Type: uint256Type}, // takerFee
		{Type: uint256Type}, // expirationTimeSeconds
		{Type: uint256Type}, // salt
		{Type: bytes32Type}, // keccak256(makerAssetData)
		{Type: bytes32Type}, // keccak256(takerAssetData)
	}
)

func mustType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic("failed to build abi type " + t + ": " + err.Error())
	}
	return typ
}

// DomainSeparator computes the EIP712 domain separator hash of an exchange
func DomainSeparator(exchangeAddr common.Address) common.Hash {
	encoded, err := domainArguments.Pack(
		EIP712DomainTypeHash,
		crypto.Keccak256Hash([]byte(EIP712DomainName)),
		crypto.Keccak256Hash([]byte(EIP712DomainVersion)),
		exchangeAddr,
	)
	if err != nil {
		panic("failed to encode domain separator: " + err.Error())
	}

	return crypto.Keccak256Hash(encoded)
}

// StructHash computes the EIP712 struct hash of the order
func (o *Order) StructHash() common.Hash {
	encoded, err := orderArguments.Pack(
		OrderTypeHash,
		o.MakerAddress,
		o.TakerAddress,
		o.FeeRecipientAddress,
		o.SenderAddress,
		orZero(o.MakerAssetAmount),
		orZero(o.TakerAssetAmount),
		orZero(o.MakerFee),
		orZero(o.TakerFee),
		orZero(o.ExpirationTimeSeconds),
		orZero(o.Salt),
		crypto.Keccak256Hash(o.MakerAssetData),
		crypto.Keccak256Hash(o.TakerAssetData),
	)
	if err != nil {
		panic("failed to encode order struct: " + err.Error())
	}

	return crypto.Keccak256Hash(encoded)
}

// OrderHash is the key the exchange stores bookkeeping under:
// keccak256("\x19\x01" ++ domainSeparator ++ structHash)
func OrderHash(order *Order, exchangeAddr common.Address) common.Hash {
	domainSeparator := DomainSeparator(exchangeAddr)
	structHash := order.StructHash()

	data := make([]byte, 0, 2+32+32)
	data = append(data, 0x19, 0x01)
	data = append(data, domainSeparator.Bytes()...)
	data = append(data, structHash.Bytes()...)

	return crypto.Keccak256Hash(data)
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
