package order

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/uhyunpark/zeroex-order/pkg/contracts"
	"github.com/uhyunpark/zeroex-order/pkg/util"
)

var testNow = time.UnixMilli(1700000000123)

func testParams(maker common.Address) Params {
	return Params{
		Maker:        maker,
		FeeRecipient: common.HexToAddress("0xa258b39954cef5cb142fd567a46cddb31a670124"),
		SellAmount:   "0.002",
		BuyAmount:    "10",
		Decimals:     18,
		Expiration:   360 * time.Second,
	}
}

func buildTestOrder(t *testing.T, maker common.Address) *Order {
	t.Helper()
	addrs, err := contracts.ForNetwork(contracts.Kovan)
	if err != nil {
		t.Fatalf("ForNetwork: %v", err)
	}
	o, err := Build(testParams(maker), addrs, util.FixedClock(testNow))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return o
}
