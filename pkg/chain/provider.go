// Package chain talks to an Ethereum node: raw RPC, the 0x v2 Exchange
// contract and the ERC20 tokens an order references.
package chain

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/uhyunpark/zeroex-order/pkg/crypto"
)

// Provider is the signing and transport pipeline: a private-key signer in
// front of a remote node connection. It is created once and used
// sequentially by every chain operation.
type Provider struct {
	rpc    *rpc.Client
	client *ethclient.Client
	signer *crypto.Signer
}

// Dial connects to the node at nodeURL. HTTP endpoints are not contacted
// until the first call.
func Dial(ctx context.Context, nodeURL string, signer *crypto.Signer) (*Provider, error) {
	c, err := rpc.DialContext(ctx, nodeURL)
	if err != nil {
		return nil, fmt.Errorf("dial node: %w", err)
	}
	return &Provider{
		rpc:    c,
		client: ethclient.NewClient(c),
		signer: signer,
	}, nil
}

// Client exposes the typed node client for contract bindings.
func (p *Provider) Client() *ethclient.Client {
	return p.client
}

// EmitPayload sends an arbitrary JSON-RPC request and returns the raw result.
func (p *Provider) EmitPayload(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	var result json.RawMessage
	if err := p.rpc.CallContext(ctx, &result, method, params...); err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	return result, nil
}

// PendingNonce returns the transaction count of addr including pending
// transactions.
func (p *Provider) PendingNonce(ctx context.Context, addr common.Address) (uint64, error) {
	raw, err := p.EmitPayload(ctx, "eth_getTransactionCount", addr, "pending")
	if err != nil {
		return 0, err
	}
	var nonce hexutil.Uint64
	if err := json.Unmarshal(raw, &nonce); err != nil {
		return 0, fmt.Errorf("decode nonce %s: %w", raw, err)
	}
	return uint64(nonce), nil
}

// TransactOpts builds keyed transaction options for the node's chain.
func (p *Provider) TransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	chainID, err := p.client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch chain id: %w", err)
	}
	opts, err := p.signer.TransactOpts(chainID)
	if err != nil {
		return nil, err
	}
	opts.Context = ctx
	return opts, nil
}

func (p *Provider) Close() {
	p.rpc.Close()
}
