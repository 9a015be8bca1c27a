package order

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/uhyunpark/zeroex-order/pkg/contracts"
	"github.com/uhyunpark/zeroex-order/pkg/util"
)

// Params describes a WETH -> ZRX order in human units.
type Params struct {
	Maker        common.Address
	FeeRecipient common.Address
	SellAmount   string // maker asset (WETH)
	BuyAmount    string // taker asset (ZRX)
	Decimals     int32
	Expiration   time.Duration
}

// Build assembles an unsigned order selling the network's ether token for
// its ZRX token. The order is open to any taker and sender and carries no fees.
// Expiration and salt both derive from a single clock reading.
func Build(p Params, addrs contracts.Addresses, clock util.Clock) (*Order, error) {
	makerAmount, err := ToBaseUnits(p.SellAmount, p.Decimals)
	if err != nil {
		return nil, fmt.Errorf("maker asset amount: %w", err)
	}
	takerAmount, err := ToBaseUnits(p.BuyAmount, p.Decimals)
	if err != nil {
		return nil, fmt.Errorf("taker asset amount: %w", err)
	}

	now := clock.Now()
	expiration := now.Unix() + int64(p.Expiration/time.Second)

	return &Order{
		ExchangeAddress:       addrs.Exchange,
		MakerAddress:          p.Maker,
		TakerAddress:          common.Address{},
		SenderAddress:         common.Address{},
		FeeRecipientAddress:   p.FeeRecipient,
		ExpirationTimeSeconds: big.NewInt(expiration),
		Salt:                  big.NewInt(now.UnixMilli()),
		MakerAssetAmount:      makerAmount,
		TakerAssetAmount:      takerAmount,
		MakerAssetData:        EncodeERC20AssetData(addrs.EtherToken),
		TakerAssetData:        EncodeERC20AssetData(addrs.ZRXToken),
		MakerFee:              new(big.Int),
		TakerFee:              new(big.Int),
	}, nil
}

// Expired reports whether the order's expiration is at or before now.
func (o *Order) Expired(now time.Time) bool {
	return o.ExpirationTimeSeconds.Cmp(big.NewInt(now.Unix())) <= 0
}
