// Package workflow drives the build, sign, submit and cancel flow for a
// single order.
package workflow

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/uhyunpark/zeroex-order/pkg/order"
	"github.com/uhyunpark/zeroex-order/pkg/relayer"
)

type State int

const (
	AwaitingSubmitConfirmation State = iota
	Submitted
	AwaitingCancelConfirmation
	Cancelled
	Ended
)

func (s State) String() string {
	switch s {
	case AwaitingSubmitConfirmation:
		return "awaiting_submit_confirmation"
	case Submitted:
		return "submitted"
	case AwaitingCancelConfirmation:
		return "awaiting_cancel_confirmation"
	case Cancelled:
		return "cancelled"
	case Ended:
		return "ended"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether the flow stops in s.
func (s State) Terminal() bool {
	return s == Cancelled || s == Ended
}

const (
	SubmitPrompt = "Would you like to submit the order? Press y to continue:"
	CancelPrompt = "You should now see your order on Radar.  Would you like to cancel the order now? Press y to continue:"
)

type Submitter interface {
	SubmitOrder(ctx context.Context, signed *order.SignedOrder, opts relayer.RequestOpts) error
}

type NonceFetcher interface {
	PendingNonce(ctx context.Context, addr common.Address) (uint64, error)
}

// Canceller takes the unsigned order; the Exchange cancels by order hash.
type Canceller interface {
	CancelOrder(ctx context.Context, o *order.Order) (common.Hash, error)
}

// Session is the interactive part of the flow, entered once the order is
// signed and validated.
type Session struct {
	Order       *order.Order
	Signed      *order.SignedOrder
	RelayerOpts relayer.RequestOpts

	Prompter  *Prompter
	Relayer   Submitter
	Nonces    NonceFetcher
	Canceller Canceller
	Logger    *zap.SugaredLogger
}

// Run walks the state machine until a terminal state or the first error.
func (s *Session) Run(ctx context.Context) (State, error) {
	state := AwaitingSubmitConfirmation
	for !state.Terminal() {
		next, err := s.step(ctx, state)
		if err != nil {
			return state, err
		}
		s.Logger.Debugw("state_transition", "from", state.String(), "to", next.String())
		state = next
	}
	return state, nil
}

func (s *Session) step(ctx context.Context, state State) (State, error) {
	switch state {
	case AwaitingSubmitConfirmation:
		ok, err := s.Prompter.Confirm(SubmitPrompt)
		if err != nil {
			return state, err
		}
		if !ok {
			s.Prompter.Say("Ending")
			return Ended, nil
		}
		if err := s.Relayer.SubmitOrder(ctx, s.Signed, s.RelayerOpts); err != nil {
			return state, fmt.Errorf("submit order: %w", err)
		}
		s.Prompter.Say("Order submitted.")
		s.Logger.Infow("order_submitted", "network_id", s.RelayerOpts.NetworkID)
		return Submitted, nil

	case Submitted:
		return AwaitingCancelConfirmation, nil

	case AwaitingCancelConfirmation:
		ok, err := s.Prompter.Confirm(CancelPrompt)
		if err != nil {
			return state, err
		}
		if !ok {
			s.Prompter.Say("Ending")
			return Ended, nil
		}
		s.Prompter.Say("Cancelling order")

		nonce, err := s.Nonces.PendingNonce(ctx, s.Order.MakerAddress)
		if err != nil {
			return state, fmt.Errorf("fetch nonce: %w", err)
		}
		s.Logger.Infow("pending_nonce", "maker", s.Order.MakerAddress.Hex(), "nonce", nonce)

		txHash, err := s.Canceller.CancelOrder(ctx, s.Order)
		if err != nil {
			return state, fmt.Errorf("cancel order: %w", err)
		}
		s.Prompter.Say("Submitted cancellation. Transaction hash:", txHash.Hex())
		s.Logger.Infow("order_cancelled", "tx_hash", txHash.Hex())
		return Cancelled, nil
	}
	return state, fmt.Errorf("no transition from %s", state)
}
