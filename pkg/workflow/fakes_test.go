package workflow

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"

	"github.com/uhyunpark/zeroex-order/pkg/order"
	"github.com/uhyunpark/zeroex-order/pkg/relayer"
)

var errBoom = errors.New("boom")

type fakeRelayer struct {
	submitted []*order.SignedOrder
	opts      []relayer.RequestOpts
	err       error
}

func (f *fakeRelayer) SubmitOrder(_ context.Context, signed *order.SignedOrder, opts relayer.RequestOpts) error {
	f.submitted = append(f.submitted, signed)
	f.opts = append(f.opts, opts)
	return f.err
}

type fakeExchange struct {
	validated []*order.SignedOrder
	cancelled []*order.Order
	nonces    []common.Address
	validErr  error
	cancelErr error
}

func (f *fakeExchange) ValidateOrderFillable(_ context.Context, signed *order.SignedOrder) error {
	f.validated = append(f.validated, signed)
	return f.validErr
}

func (f *fakeExchange) CancelOrder(_ context.Context, o *order.Order) (common.Hash, error) {
	f.cancelled = append(f.cancelled, o)
	return common.HexToHash("0xc0ffee"), f.cancelErr
}

func (f *fakeExchange) PendingNonce(_ context.Context, addr common.Address) (uint64, error) {
	f.nonces = append(f.nonces, addr)
	return 3, nil
}

// countingWallet records how often the order was signed.
type countingWallet struct {
	order.Wallet
	signs int
}

func (w *countingWallet) SignEthHash(hash common.Hash) ([]byte, error) {
	w.signs++
	return w.Wallet.SignEthHash(hash)
}
