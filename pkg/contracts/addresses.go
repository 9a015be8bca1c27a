// Package contracts maps network ids to the deployed 0x v2 contract and token addresses.
package contracts

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

const (
	Mainnet uint64 = 1
	Ropsten uint64 = 3
	Rinkeby uint64 = 4
	Kovan   uint64 = 42
	Ganache uint64 = 50
)

var ErrUnsupportedNetwork = errors.New("unsupported network id")

// Addresses is the subset of a 0x v2 deployment this module talks to.
type Addresses struct {
	Exchange   common.Address
	ERC20Proxy common.Address
	EtherToken common.Address // WETH9
	ZRXToken   common.Address
}

var deployments = map[uint64]Addresses{
	Mainnet: {
		Exchange:   common.HexToAddress("0x4f833a24e1f95d70f028921e27040ca56e09ab0b"),
		ERC20Proxy: common.HexToAddress("0x2240dab907db71e64d3e0dba4800c83b5c502d4e"),
		EtherToken: common.HexToAddress("0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"),
		ZRXToken:   common.HexToAddress("0xe41d2489571d322189246dafa5ebde1f4699f498"),
	},
	Ropsten: {
		Exchange:   common.HexToAddress("0x4530c0483a1633c7a1c97d2c53721caff2caaaaf"),
		ERC20Proxy: common.HexToAddress("0xb1408f4c245a23c31b98d2c626777d4c0d766caa"),
		EtherToken: common.HexToAddress("0xc778417e063141139fce010982780140aa0cd5ab"),
		ZRXToken:   common.HexToAddress("0xff67881f8d12f372d91baae9752eb3631ff0ed00"),
	},
	Rinkeby: {
		Exchange:   common.HexToAddress("0x22ebc052f43a88efa06379426120718170f2204e"),
		ERC20Proxy: common.HexToAddress("0x3e809c563c15a295e832e37053798ddc8d6c8dab"),
		EtherToken: common.HexToAddress("0xc778417e063141139fce010982780140aa0cd5ab"),
		ZRXToken:   common.HexToAddress("0x8080c7e4b81ecf23aa6f877cfbfd9b0c228c6ffa"),
	},
	Kovan: {
		Exchange:   common.HexToAddress("0x35dd2932454449b14cee11a94d3674a936d5d7b2"),
		ERC20Proxy: common.HexToAddress("0xf1ec01d6236d3cd881a0bf0130ea25fe4234003e"),
		EtherToken: common.HexToAddress("0xd0a1e359811322d97991e03f863a0c30c2cf029c"),
		ZRXToken:   common.HexToAddress("0x2002d3812f58e35f0ea1ffbf80a75a38c32175fa"),
	},
	Ganache: {
		Exchange:   common.HexToAddress("0x48bacb9266a570d521063ef5dd96e61686dbe788"),
		ERC20Proxy: common.HexToAddress("0x1dc4c1cefef38a777b15aa20260a54e584b16c48"),
		EtherToken: common.HexToAddress("0x0b1ba0af832d7c05fd64161e0db78e85978e8082"),
		ZRXToken:   common.HexToAddress("0x871dd7c2b4b25e1aa18728e9d5f2af4c4e431f5c"),
	},
}

// ForNetwork returns the deployment for networkID.
func ForNetwork(networkID uint64) (Addresses, error) {
	addrs, ok := deployments[networkID]
	if !ok {
		return Addresses{}, fmt.Errorf("%w: %d", ErrUnsupportedNetwork, networkID)
	}
	return addrs, nil
}
