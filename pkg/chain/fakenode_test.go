package chain

import (
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/uhyunpark/zeroex-order/pkg/contracts"
	"github.com/uhyunpark/zeroex-order/pkg/crypto"
	"github.com/uhyunpark/zeroex-order/pkg/order"
)

// fakeNode is a JSON-RPC endpoint that answers the Exchange and ERC20 calls
// made by this package from in-memory state.
type fakeNode struct {
	addrs contracts.Addresses

	mu          sync.Mutex
	chainID     uint64
	status      uint8
	takerFilled *big.Int
	balances    map[common.Address]*big.Int // by token
	allowances  map[common.Address]*big.Int // by token, spender is the ERC20Proxy
	nonce       uint64
	methods     []string
	sent        []*types.Transaction
}

func newFakeNode(addrs contracts.Addresses) *fakeNode {
	return &fakeNode{
		addrs:       addrs,
		chainID:     42,
		status:      OrderStatusFillable,
		takerFilled: new(big.Int),
		balances:    map[common.Address]*big.Int{},
		allowances:  map[common.Address]*big.Int{},
	}
}

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

func (n *fakeNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	n.mu.Lock()
	n.methods = append(n.methods, req.Method)
	result, err := n.handle(req)
	n.mu.Unlock()

	resp := rpcResponse{JSONRPC: "2.0", ID: req.ID, Result: result}
	if err != nil {
		resp.Result = nil
		resp.Error = &rpcError{Code: -32000, Message: err.Error()}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (n *fakeNode) handle(req rpcRequest) (any, error) {
	switch req.Method {
	case "eth_chainId":
		return hexutil.Uint64(n.chainID), nil
	case "eth_getTransactionCount":
		return hexutil.Uint64(n.nonce), nil
	case "eth_call":
		return n.call(req.Params[0])
	case "eth_sendRawTransaction":
		var raw hexutil.Bytes
		if err := json.Unmarshal(req.Params[0], &raw); err != nil {
			return nil, err
		}
		tx := new(types.Transaction)
		if err := tx.UnmarshalBinary(raw); err != nil {
			return nil, err
		}
		n.sent = append(n.sent, tx)
		n.nonce++
		return tx.Hash(), nil
	}
	return nil, fmt.Errorf("method %s not supported", req.Method)
}

func (n *fakeNode) call(param json.RawMessage) (any, error) {
	var msg struct {
		To    common.Address `json:"to"`
		Input hexutil.Bytes  `json:"input"`
		Data  hexutil.Bytes  `json:"data"`
	}
	if err := json.Unmarshal(param, &msg); err != nil {
		return nil, err
	}
	input := msg.Input
	if len(input) == 0 {
		input = msg.Data
	}
	if len(input) < 4 {
		return nil, fmt.Errorf("call without selector")
	}

	if method, err := parsedExchangeABI.MethodById(input[:4]); err == nil && msg.To == n.addrs.Exchange {
		args, err := method.Inputs.Unpack(input[4:])
		if err != nil {
			return nil, err
		}
		out, err := n.exchangeCall(method, msg.To, args)
		if err != nil {
			return nil, err
		}
		return hexutil.Bytes(out), nil
	}

	method, err := parsedERC20ABI.MethodById(input[:4])
	if err != nil {
		return nil, err
	}
	args, err := method.Inputs.Unpack(input[4:])
	if err != nil {
		return nil, err
	}
	amount := new(big.Int)
	switch method.Name {
	case "balanceOf":
		if v, ok := n.balances[msg.To]; ok {
			amount = v
		}
	case "allowance":
		spender := args[1].(common.Address)
		if v, ok := n.allowances[msg.To]; ok && spender == n.addrs.ERC20Proxy {
			amount = v
		}
	}
	out, err := method.Outputs.Pack(amount)
	if err != nil {
		return nil, err
	}
	return hexutil.Bytes(out), nil
}

func (n *fakeNode) exchangeCall(method *abi.Method, exchange common.Address, args []any) ([]byte, error) {
	switch method.Name {
	case "getOrderInfo":
		tuple := *abi.ConvertType(args[0], new(orderTuple)).(*orderTuple)
		hash, err := order.Hash(fromTuple(exchange, tuple))
		if err != nil {
			return nil, err
		}
		return method.Outputs.Pack(OrderInfo{
			OrderStatus:                 n.status,
			OrderHash:                   hash,
			OrderTakerAssetFilledAmount: n.takerFilled,
		})
	case "isValidSignature":
		hash := common.Hash(args[0].([32]byte))
		signer := args[1].(common.Address)
		sig := args[2].([]byte)
		recovered, err := crypto.RecoverEthSign(hash, sig)
		return method.Outputs.Pack(err == nil && recovered == signer)
	}
	return nil, fmt.Errorf("%s is not a call", method.Name)
}

func fromTuple(exchange common.Address, t orderTuple) *order.Order {
	return &order.Order{
		ExchangeAddress:       exchange,
		MakerAddress:          t.MakerAddress,
		TakerAddress:          t.TakerAddress,
		SenderAddress:         t.SenderAddress,
		FeeRecipientAddress:   t.FeeRecipientAddress,
		ExpirationTimeSeconds: t.ExpirationTimeSeconds,
		Salt:                  t.Salt,
		MakerAssetAmount:      t.MakerAssetAmount,
		TakerAssetAmount:      t.TakerAssetAmount,
		MakerAssetData:        t.MakerAssetData,
		TakerAssetData:        t.TakerAssetData,
		MakerFee:              t.MakerFee,
		TakerFee:              t.TakerFee,
	}
}

func (n *fakeNode) fund(token common.Address, balance, allowance *big.Int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.balances[token] = balance
	n.allowances[token] = allowance
}

func (n *fakeNode) setStatus(status uint8) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.status = status
}

func (n *fakeNode) setTakerFilled(v *big.Int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.takerFilled = v
}

func (n *fakeNode) setNonce(nonce uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.nonce = nonce
}

func (n *fakeNode) sentTransactions() []*types.Transaction {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]*types.Transaction(nil), n.sent...)
}

func (n *fakeNode) calledMethods() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.methods...)
}

func startFakeNode(t *testing.T, addrs contracts.Addresses) (*fakeNode, *httptest.Server) {
	t.Helper()
	node := newFakeNode(addrs)
	srv := httptest.NewServer(node)
	t.Cleanup(srv.Close)
	return node, srv
}
