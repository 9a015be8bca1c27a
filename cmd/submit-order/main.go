package main

import (
	"context"
	"log"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/uhyunpark/zeroex-order/params"
	"github.com/uhyunpark/zeroex-order/pkg/chain"
	"github.com/uhyunpark/zeroex-order/pkg/contracts"
	"github.com/uhyunpark/zeroex-order/pkg/crypto"
	"github.com/uhyunpark/zeroex-order/pkg/relayer"
	"github.com/uhyunpark/zeroex-order/pkg/util"
	"github.com/uhyunpark/zeroex-order/pkg/workflow"
)

func main() {
	// .env in the working directory, overridden by the environment
	cfg := params.LoadFromEnv("")

	logger, err := util.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	if cfg.RelayerNetworkMismatch() {
		sugar.Warnw("relayer_network_mismatch",
			"order_network_id", cfg.Node.NetworkID,
			"relayer_network_id", cfg.Relayer.NetworkID)
	}

	signer, err := crypto.FromPrivateKeyHex(cfg.Wallet.PrivateKey)
	if err != nil {
		sugar.Fatalw("load_wallet_failed", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gas := chain.GasOptions{GasLimit: cfg.Node.GasLimit}
	if cfg.Node.GasPriceGwei > 0 {
		gas.GasPrice = new(big.Int).Mul(new(big.Int).SetUint64(cfg.Node.GasPriceGwei), big.NewInt(1_000_000_000))
	}

	var provider *chain.Provider
	connect := func(ctx context.Context, addrs contracts.Addresses) (workflow.Backend, error) {
		p, err := chain.Dial(ctx, cfg.Node.URL, signer)
		if err != nil {
			return workflow.Backend{}, err
		}
		provider = p
		return workflow.Backend{
			Exchange: chain.NewExchange(p, addrs, gas, sugar),
			Nonces:   p,
			Relayer:  relayer.NewClient(cfg.Relayer.URL, &http.Client{Timeout: cfg.Relayer.Timeout}),
		}, nil
	}

	runner := &workflow.Runner{
		Config:   cfg,
		Clock:    util.RealClock{},
		Wallet:   signer,
		Connect:  connect,
		Prompter: workflow.NewPrompter(os.Stdin, os.Stdout),
		Logger:   sugar,
	}

	state, err := runner.Run(ctx)
	if provider != nil {
		provider.Close()
	}
	if err != nil {
		sugar.Fatalw("run_failed", "state", state.String(), "err", err)
	}
	sugar.Infow("run_finished", "state", state.String())
}
