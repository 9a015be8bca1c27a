package order

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// ERC20ProxyID is bytes4(keccak256("ERC20Token(address)")), the asset
// proxy selector that prefixes ERC20 asset data.
var ERC20ProxyID = []byte{0xf4, 0x72, 0x61, 0xb0}

var erc20AssetArgs = abi.Arguments{{Name: "tokenContract", Type: mustType("address")}}

func mustType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}
	return typ
}

// EncodeERC20AssetData returns the asset data referencing token.
func EncodeERC20AssetData(token common.Address) []byte {
	packed, err := erc20AssetArgs.Pack(token)
	if err != nil {
		// packing a single address cannot fail
		panic(err)
	}
	out := make([]byte, 0, len(ERC20ProxyID)+len(packed))
	out = append(out, ERC20ProxyID...)
	return append(out, packed...)
}

// DecodeERC20AssetData extracts the token address from ERC20 asset data.
func DecodeERC20AssetData(data []byte) (common.Address, error) {
	if len(data) != len(ERC20ProxyID)+32 {
		return common.Address{}, fmt.Errorf("erc20 asset data must be 36 bytes, got %d", len(data))
	}
	if !bytes.Equal(data[:4], ERC20ProxyID) {
		return common.Address{}, fmt.Errorf("not erc20 asset data: proxy id 0x%x", data[:4])
	}

	values, err := erc20AssetArgs.Unpack(data[4:])
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to decode asset data: %w", err)
	}
	token, ok := values[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("unexpected asset data value %T", values[0])
	}
	return token, nil
}
