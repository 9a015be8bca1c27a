package workflow

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/uhyunpark/zeroex-order/pkg/contracts"
	"github.com/uhyunpark/zeroex-order/pkg/crypto"
	"github.com/uhyunpark/zeroex-order/pkg/order"
	"github.com/uhyunpark/zeroex-order/pkg/relayer"
	"github.com/uhyunpark/zeroex-order/pkg/util"
)

func newTestSession(t *testing.T, input string) (*Session, *fakeRelayer, *fakeExchange, *bytes.Buffer) {
	t.Helper()
	signer, _ := crypto.GenerateKey()
	addrs, _ := contracts.ForNetwork(contracts.Kovan)
	o, err := order.Build(order.Params{
		Maker:      signer.Address(),
		SellAmount: "0.002",
		BuyAmount:  "10",
		Decimals:   18,
		Expiration: 360 * time.Second,
	}, addrs, util.FixedClock(time.Unix(1700000000, 0)))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	signed, err := order.Sign(o, signer)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	var out bytes.Buffer
	rel := &fakeRelayer{}
	ex := &fakeExchange{}
	return &Session{
		Order:       o,
		Signed:      signed,
		RelayerOpts: relayer.RequestOpts{NetworkID: 42},
		Prompter:    NewPrompter(strings.NewReader(input), &out),
		Relayer:     rel,
		Nonces:      ex,
		Canceller:   ex,
		Logger:      zap.NewNop().Sugar(),
	}, rel, ex, &out
}

func TestSessionSubmitAndCancel(t *testing.T) {
	s, rel, ex, out := newTestSession(t, "y\ny\n")

	state, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if state != Cancelled {
		t.Errorf("state = %s, want cancelled", state)
	}
	if len(rel.submitted) != 1 || rel.submitted[0] != s.Signed {
		t.Errorf("submitted = %d orders, want the signed order once", len(rel.submitted))
	}
	if rel.opts[0].NetworkID != 42 {
		t.Errorf("relayer network id = %d, want 42", rel.opts[0].NetworkID)
	}
	if len(ex.nonces) != 1 || ex.nonces[0] != s.Order.MakerAddress {
		t.Errorf("nonce fetches = %v, want one for the maker", ex.nonces)
	}
	if len(ex.cancelled) != 1 || ex.cancelled[0] != s.Order {
		t.Errorf("cancelled = %d orders, want the unsigned order once", len(ex.cancelled))
	}

	text := out.String()
	for _, want := range []string{SubmitPrompt, "Order submitted.", CancelPrompt, "Cancelling order", "Submitted cancellation. Transaction hash:"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestSessionDeclineSubmit(t *testing.T) {
	s, rel, ex, out := newTestSession(t, "n\n")

	state, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if state != Ended {
		t.Errorf("state = %s, want ended", state)
	}
	if len(rel.submitted) != 0 || len(ex.cancelled) != 0 || len(ex.nonces) != 0 {
		t.Errorf("calls = submit %d, cancel %d, nonce %d; want none", len(rel.submitted), len(ex.cancelled), len(ex.nonces))
	}
	if strings.Contains(out.String(), CancelPrompt) {
		t.Error("cancel prompt shown after declining submission")
	}
	if !strings.HasSuffix(out.String(), "Ending\n") {
		t.Errorf("output = %q, want it to end with Ending", out.String())
	}
}

func TestSessionDeclineCancel(t *testing.T) {
	s, rel, ex, _ := newTestSession(t, "y\nno\n")

	state, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if state != Ended {
		t.Errorf("state = %s, want ended", state)
	}
	if len(rel.submitted) != 1 {
		t.Errorf("submissions = %d, want 1", len(rel.submitted))
	}
	if len(ex.cancelled) != 0 || len(ex.nonces) != 0 {
		t.Errorf("cancel %d, nonce %d; want none", len(ex.cancelled), len(ex.nonces))
	}
}

func TestSessionSubmitFailure(t *testing.T) {
	s, rel, ex, _ := newTestSession(t, "y\ny\n")
	rel.err = errBoom

	state, err := s.Run(context.Background())
	if !errors.Is(err, errBoom) {
		t.Fatalf("error = %v, want boom", err)
	}
	if state != AwaitingSubmitConfirmation {
		t.Errorf("state = %s, want awaiting_submit_confirmation", state)
	}
	if len(ex.nonces) != 0 || len(ex.cancelled) != 0 {
		t.Error("flow continued after a failed submission")
	}
}

func TestSessionCancelFailure(t *testing.T) {
	s, _, ex, _ := newTestSession(t, "y\ny\n")
	ex.cancelErr = errBoom

	state, err := s.Run(context.Background())
	if !errors.Is(err, errBoom) {
		t.Fatalf("error = %v, want boom", err)
	}
	if state != AwaitingCancelConfirmation {
		t.Errorf("state = %s, want awaiting_cancel_confirmation", state)
	}
}

func TestStateTerminal(t *testing.T) {
	for _, s := range []State{AwaitingSubmitConfirmation, Submitted, AwaitingCancelConfirmation} {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
	for _, s := range []State{Cancelled, Ended} {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
}
