package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/uhyunpark/zeroex-order/params"
	"github.com/uhyunpark/zeroex-order/pkg/contracts"
	"github.com/uhyunpark/zeroex-order/pkg/crypto"
	"github.com/uhyunpark/zeroex-order/pkg/order"
	"github.com/uhyunpark/zeroex-order/pkg/relayer"
	"github.com/uhyunpark/zeroex-order/pkg/util"
)

var ErrOrderExpired = errors.New("order already expired")

// Exchange validates orders before they are offered and cancels them
// afterwards.
type Exchange interface {
	ValidateOrderFillable(ctx context.Context, signed *order.SignedOrder) error
	Canceller
}

// Backend groups the remote collaborators for one deployment.
type Backend struct {
	Exchange Exchange
	Nonces   NonceFetcher
	Relayer  Submitter
}

// ConnectFunc opens the backend for a resolved deployment.
type ConnectFunc func(ctx context.Context, addrs contracts.Addresses) (Backend, error)

// Runner is the whole flow: resolve the deployment, build and sign the
// order, validate it against the chain, then hand over to a Session.
type Runner struct {
	Config   params.Config
	Clock    util.Clock
	Wallet   order.Wallet
	Connect  ConnectFunc
	Prompter *Prompter
	Logger   *zap.SugaredLogger
}

func (r *Runner) Run(ctx context.Context) (State, error) {
	cfg := r.Config

	addrs, err := contracts.ForNetwork(cfg.Node.NetworkID)
	if err != nil {
		return AwaitingSubmitConfirmation, err
	}
	r.Logger.Infow("deployment_resolved",
		"network_id", cfg.Node.NetworkID,
		"exchange", addrs.Exchange.Hex())

	backend, err := r.Connect(ctx, addrs)
	if err != nil {
		return AwaitingSubmitConfirmation, fmt.Errorf("connect: %w", err)
	}

	maker, err := crypto.NormalizeAddress(cfg.Wallet.MakerAddress)
	if err != nil {
		return AwaitingSubmitConfirmation, fmt.Errorf("maker address: %w", err)
	}
	feeRecipient, err := crypto.NormalizeAddress(cfg.Order.FeeRecipient)
	if err != nil {
		return AwaitingSubmitConfirmation, fmt.Errorf("fee recipient: %w", err)
	}

	o, err := order.Build(order.Params{
		Maker:        common.HexToAddress(maker),
		FeeRecipient: common.HexToAddress(feeRecipient),
		SellAmount:   cfg.Order.SellAmount,
		BuyAmount:    cfg.Order.BuyAmount,
		Decimals:     cfg.Order.Decimals,
		Expiration:   cfg.Order.Expiration,
	}, addrs, r.Clock)
	if err != nil {
		return AwaitingSubmitConfirmation, fmt.Errorf("build order: %w", err)
	}
	if o.Expired(r.Clock.Now()) {
		return AwaitingSubmitConfirmation, fmt.Errorf("%w: expiration %s is not in the future", ErrOrderExpired, o.ExpirationTimeSeconds)
	}
	checksummed, err := crypto.ChecksumAddress(maker)
	if err != nil {
		return AwaitingSubmitConfirmation, fmt.Errorf("maker address: %w", err)
	}
	r.Logger.Infow("order_built",
		"maker", checksummed,
		"sell", order.FromBaseUnits(o.MakerAssetAmount, cfg.Order.Decimals),
		"buy", order.FromBaseUnits(o.TakerAssetAmount, cfg.Order.Decimals),
		"expiration", o.ExpirationTimeSeconds.String(),
		"order", o)

	hash, err := order.Hash(o)
	if err != nil {
		return AwaitingSubmitConfirmation, err
	}
	signed, err := order.Sign(o, r.Wallet)
	if err != nil {
		return AwaitingSubmitConfirmation, err
	}
	ok, err := signed.VerifySignature()
	if err != nil {
		return AwaitingSubmitConfirmation, err
	}
	if !ok {
		return AwaitingSubmitConfirmation, errors.New("signature does not recover to the maker address")
	}
	r.Logger.Infow("order_signed", "order_hash", hash.Hex())

	r.Prompter.Say("Validating order...")
	if err := backend.Exchange.ValidateOrderFillable(ctx, signed); err != nil {
		return AwaitingSubmitConfirmation, err
	}
	r.Prompter.Say("Order is valid.")

	session := &Session{
		Order:       o,
		Signed:      signed,
		RelayerOpts: relayer.RequestOpts{NetworkID: cfg.Relayer.NetworkID},
		Prompter:    r.Prompter,
		Relayer:     backend.Relayer,
		Nonces:      backend.Nonces,
		Canceller:   backend.Exchange,
		Logger:      r.Logger,
	}
	return session.Run(ctx)
}
