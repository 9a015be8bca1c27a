package chain

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/uhyunpark/zeroex-order/pkg/order"
)

// orderComponents is the 0x v2 LibOrder.Order tuple.
const orderComponents = `[
	{"internalType": "address", "name": "makerAddress", "type": "address"},
	{"internalType": "address", "name": "takerAddress", "type": "address"},
	{"internalType": "address", "name": "feeRecipientAddress", "type": "address"},
	{"internalType": "address", "name": "senderAddress", "type": "address"},
	{"internalType": "uint256", "name": "makerAssetAmount", "type": "uint256"},
	{"internalType": "uint256", "name": "takerAssetAmount", "type": "uint256"},
	{"internalType": "uint256", "name": "makerFee", "type": "uint256"},
	{"internalType": "uint256", "name": "takerFee", "type": "uint256"},
	{"internalType": "uint256", "name": "expirationTimeSeconds", "type": "uint256"},
	{"internalType": "uint256", "name": "salt", "type": "uint256"},
	{"internalType": "bytes", "name": "makerAssetData", "type": "bytes"},
	{"internalType": "bytes", "name": "takerAssetData", "type": "bytes"}
]`

// exchangeABI covers the Exchange functions this client calls.
const exchangeABI = `[
	{
		"constant": true,
		"inputs": [
			{
				"components": ` + orderComponents + `,
				"internalType": "struct LibOrder.Order",
				"name": "order",
				"type": "tuple"
			}
		],
		"name": "getOrderInfo",
		"outputs": [
			{
				"components": [
					{"internalType": "uint8", "name": "orderStatus", "type": "uint8"},
					{"internalType": "bytes32", "name": "orderHash", "type": "bytes32"},
					{"internalType": "uint256", "name": "orderTakerAssetFilledAmount", "type": "uint256"}
				],
				"internalType": "struct LibOrder.OrderInfo",
				"name": "orderInfo",
				"type": "tuple"
			}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [
			{"internalType": "bytes32", "name": "hash", "type": "bytes32"},
			{"internalType": "address", "name": "signerAddress", "type": "address"},
			{"internalType": "bytes", "name": "signature", "type": "bytes"}
		],
		"name": "isValidSignature",
		"outputs": [
			{"internalType": "bool", "name": "isValid", "type": "bool"}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{
				"components": ` + orderComponents + `,
				"internalType": "struct LibOrder.Order",
				"name": "order",
				"type": "tuple"
			}
		],
		"name": "cancelOrder",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	}
]`

const erc20ABI = `[
	{
		"constant": true,
		"inputs": [{"internalType": "address", "name": "owner", "type": "address"}],
		"name": "balanceOf",
		"outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [
			{"internalType": "address", "name": "owner", "type": "address"},
			{"internalType": "address", "name": "spender", "type": "address"}
		],
		"name": "allowance",
		"outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	}
]`

var (
	parsedExchangeABI = mustParseABI(exchangeABI)
	parsedERC20ABI    = mustParseABI(erc20ABI)
)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return parsed
}

// orderTuple mirrors LibOrder.Order field for field so the ABI packer can
// match components by name.
type orderTuple struct {
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

func toTuple(o *order.Order) orderTuple {
	return orderTuple{
		MakerAddress:          o.MakerAddress,
		TakerAddress:          o.TakerAddress,
		FeeRecipientAddress:   o.FeeRecipientAddress,
		SenderAddress:         o.SenderAddress,
		MakerAssetAmount:      o.MakerAssetAmount,
		TakerAssetAmount:      o.TakerAssetAmount,
		MakerFee:              o.MakerFee,
		TakerFee:              o.TakerFee,
		ExpirationTimeSeconds: o.ExpirationTimeSeconds,
		Salt:                  o.Salt,
		MakerAssetData:        o.MakerAssetData,
		TakerAssetData:        o.TakerAssetData,
	}
}

// OrderInfo is the Exchange's view of an order.
type OrderInfo struct {
	OrderStatus                 uint8
	OrderHash                   [32]byte
	OrderTakerAssetFilledAmount *big.Int
}

// OrderStatus values as reported by getOrderInfo.
const (
	OrderStatusInvalid uint8 = iota
	OrderStatusInvalidMakerAssetAmount
	OrderStatusInvalidTakerAssetAmount
	OrderStatusFillable
	OrderStatusExpired
	OrderStatusFullyFilled
	OrderStatusCancelled
)

var orderStatusNames = map[uint8]string{
	OrderStatusInvalid:                 "INVALID",
	OrderStatusInvalidMakerAssetAmount: "INVALID_MAKER_ASSET_AMOUNT",
	OrderStatusInvalidTakerAssetAmount: "INVALID_TAKER_ASSET_AMOUNT",
	OrderStatusFillable:                "FILLABLE",
	OrderStatusExpired:                 "EXPIRED",
	OrderStatusFullyFilled:             "FULLY_FILLED",
	OrderStatusCancelled:               "CANCELLED",
}

func OrderStatusName(status uint8) string {
	if name, ok := orderStatusNames[status]; ok {
		return name
	}
	return "UNKNOWN"
}
