// Package order builds, hashes and signs 0x v2 limit orders.
package order

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Order is a 0x v2 order. Amounts are always in base units.
type Order struct {
	ExchangeAddress       common.Address
	MakerAddress          common.Address
	TakerAddress          common.Address // zero address: anyone may fill
	SenderAddress         common.Address // zero address: anyone may submit
	FeeRecipientAddress   common.Address
	ExpirationTimeSeconds *big.Int
	Salt                  *big.Int
	MakerAssetAmount      *big.Int
	TakerAssetAmount      *big.Int
	MakerAssetData        []byte
	TakerAssetData        []byte
	MakerFee              *big.Int
	TakerFee              *big.Int
}

// SignedOrder is an Order plus the maker's signature. It is produced once by
// Sign and not modified afterwards.
type SignedOrder struct {
	Order
	Signature []byte
}

// Clone returns a deep copy of o.
func (o *Order) Clone() *Order {
	return &Order{
		ExchangeAddress:       o.ExchangeAddress,
		MakerAddress:          o.MakerAddress,
		TakerAddress:          o.TakerAddress,
		SenderAddress:         o.SenderAddress,
		FeeRecipientAddress:   o.FeeRecipientAddress,
		ExpirationTimeSeconds: cloneInt(o.ExpirationTimeSeconds),
		Salt:                  cloneInt(o.Salt),
		MakerAssetAmount:      cloneInt(o.MakerAssetAmount),
		TakerAssetAmount:      cloneInt(o.TakerAssetAmount),
		MakerAssetData:        common.CopyBytes(o.MakerAssetData),
		TakerAssetData:        common.CopyBytes(o.TakerAssetData),
		MakerFee:              cloneInt(o.MakerFee),
		TakerFee:              cloneInt(o.TakerFee),
	}
}

func cloneInt(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}

// orderJSON is the Standard Relayer API v2 wire form: lower-case hex
// addresses, decimal integer strings, 0x-prefixed bytes.
type orderJSON struct {
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
	ExchangeAddress       string `json:"exchangeAddress"`
}

type signedOrderJSON struct {
	orderJSON
	Signature string `json:"signature"`
}

func (o *Order) toJSON() orderJSON {
	return orderJSON{
		MakerAddress:          addressString(o.MakerAddress),
		TakerAddress:          addressString(o.TakerAddress),
		FeeRecipientAddress:   addressString(o.FeeRecipientAddress),
		SenderAddress:         addressString(o.SenderAddress),
		MakerAssetAmount:      intString(o.MakerAssetAmount),
		TakerAssetAmount:      intString(o.TakerAssetAmount),
		MakerFee:              intString(o.MakerFee),
		TakerFee:              intString(o.TakerFee),
		ExpirationTimeSeconds: intString(o.ExpirationTimeSeconds),
		Salt:                  intString(o.Salt),
		MakerAssetData:        hexutil.Encode(o.MakerAssetData),
		TakerAssetData:        hexutil.Encode(o.TakerAssetData),
		ExchangeAddress:       addressString(o.ExchangeAddress),
	}
}

func (j orderJSON) toOrder() (Order, error) {
	var (
		o   Order
		err error
	)
	addrs := []struct {
		dst  *common.Address
		name string
		val  string
	}{
		{&o.ExchangeAddress, "exchangeAddress", j.ExchangeAddress},
		{&o.MakerAddress, "makerAddress", j.MakerAddress},
		{&o.TakerAddress, "takerAddress", j.TakerAddress},
		{&o.SenderAddress, "senderAddress", j.SenderAddress},
		{&o.FeeRecipientAddress, "feeRecipientAddress", j.FeeRecipientAddress},
	}
	for _, a := range addrs {
		if !common.IsHexAddress(a.val) {
			return Order{}, fmt.Errorf("invalid %s: %q", a.name, a.val)
		}
		*a.dst = common.HexToAddress(a.val)
	}

	ints := []struct {
		dst  **big.Int
		name string
		val  string
	}{
		{&o.ExpirationTimeSeconds, "expirationTimeSeconds", j.ExpirationTimeSeconds},
		{&o.Salt, "salt", j.Salt},
		{&o.MakerAssetAmount, "makerAssetAmount", j.MakerAssetAmount},
		{&o.TakerAssetAmount, "takerAssetAmount", j.TakerAssetAmount},
		{&o.MakerFee, "makerFee", j.MakerFee},
		{&o.TakerFee, "takerFee", j.TakerFee},
	}
	for _, n := range ints {
		v, ok := new(big.Int).SetString(n.val, 10)
		if !ok {
			return Order{}, fmt.Errorf("invalid %s: %q", n.name, n.val)
		}
		*n.dst = v
	}

	if o.MakerAssetData, err = hexutil.Decode(j.MakerAssetData); err != nil {
		return Order{}, fmt.Errorf("invalid makerAssetData: %w", err)
	}
	if o.TakerAssetData, err = hexutil.Decode(j.TakerAssetData); err != nil {
		return Order{}, fmt.Errorf("invalid takerAssetData: %w", err)
	}
	return o, nil
}

func (o Order) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.toJSON())
}

func (o *Order) UnmarshalJSON(data []byte) error {
	var j orderJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	parsed, err := j.toOrder()
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

func (s SignedOrder) MarshalJSON() ([]byte, error) {
	return json.Marshal(signedOrderJSON{
		orderJSON: s.Order.toJSON(),
		Signature: hexutil.Encode(s.Signature),
	})
}

func (s *SignedOrder) UnmarshalJSON(data []byte) error {
	var j signedOrderJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	parsed, err := j.orderJSON.toOrder()
	if err != nil {
		return err
	}
	sig, err := hexutil.Decode(j.Signature)
	if err != nil {
		return fmt.Errorf("invalid signature: %w", err)
	}
	s.Order = parsed
	s.Signature = sig
	return nil
}

func addressString(a common.Address) string {
	return strings.ToLower(a.Hex())
}

func intString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
