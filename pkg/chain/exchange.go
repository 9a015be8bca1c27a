package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/uhyunpark/zeroex-order/pkg/contracts"
	"github.com/uhyunpark/zeroex-order/pkg/order"
)

// ErrOrderNotFillable is returned when the Exchange or the maker's token
// state would prevent the order from being filled right now.
var ErrOrderNotFillable = errors.New("order is not fillable")

// GasOptions overrides gas pricing for state-changing calls. Zero values
// leave the choice to the node.
type GasOptions struct {
	GasPrice *big.Int
	GasLimit uint64
}

// Exchange is a client for the 0x v2 Exchange contract of one deployment.
type Exchange struct {
	provider *Provider
	addrs    contracts.Addresses
	contract *bind.BoundContract
	gas      GasOptions
	logger   *zap.SugaredLogger
}

func NewExchange(provider *Provider, addrs contracts.Addresses, gas GasOptions, logger *zap.SugaredLogger) *Exchange {
	client := provider.Client()
	return &Exchange{
		provider: provider,
		addrs:    addrs,
		contract: bind.NewBoundContract(addrs.Exchange, parsedExchangeABI, client, client, client),
		gas:      gas,
		logger:   logger,
	}
}

// GetOrderInfo returns the status, hash and filled amount of o.
func (e *Exchange) GetOrderInfo(ctx context.Context, o *order.Order) (*OrderInfo, error) {
	var out []any
	err := e.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getOrderInfo", toTuple(o))
	if err != nil {
		return nil, fmt.Errorf("getOrderInfo: %w", err)
	}
	info := *abi.ConvertType(out[0], new(OrderInfo)).(*OrderInfo)
	return &info, nil
}

// IsValidSignature asks the Exchange whether signature is signer's over hash.
func (e *Exchange) IsValidSignature(ctx context.Context, hash common.Hash, signer common.Address, signature []byte) (bool, error) {
	var out []any
	err := e.contract.Call(&bind.CallOpts{Context: ctx}, &out, "isValidSignature", hash, signer, signature)
	if err != nil {
		return false, fmt.Errorf("isValidSignature: %w", err)
	}
	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}

// ValidateOrderFillable checks that the order is fillable now: the Exchange
// reports it FILLABLE, accepts the signature, and the maker holds and has
// approved enough of the maker asset (and the ZRX maker fee, if any).
func (e *Exchange) ValidateOrderFillable(ctx context.Context, signed *order.SignedOrder) error {
	info, err := e.GetOrderInfo(ctx, &signed.Order)
	if err != nil {
		return err
	}
	if info.OrderStatus != OrderStatusFillable {
		return fmt.Errorf("%w: status %s", ErrOrderNotFillable, OrderStatusName(info.OrderStatus))
	}

	valid, err := e.IsValidSignature(ctx, info.OrderHash, signed.MakerAddress, signed.Signature)
	if err != nil {
		return err
	}
	if !valid {
		return fmt.Errorf("%w: invalid signature", ErrOrderNotFillable)
	}

	makerToken, err := order.DecodeERC20AssetData(signed.MakerAssetData)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOrderNotFillable, err)
	}
	required := remainingMakerAmount(&signed.Order, info.OrderTakerAssetFilledAmount)
	if err := e.checkFunds(ctx, makerToken, signed.MakerAddress, required, "maker asset"); err != nil {
		return err
	}

	if signed.MakerFee != nil && signed.MakerFee.Sign() > 0 {
		if err := e.checkFunds(ctx, e.addrs.ZRXToken, signed.MakerAddress, signed.MakerFee, "maker fee"); err != nil {
			return err
		}
	}

	e.logger.Debugw("order_fillable",
		"order_hash", common.Hash(info.OrderHash).Hex(),
		"required_maker_amount", required.String())
	return nil
}

// remainingMakerAmount scales the maker amount by the unfilled share of the
// taker amount.
func remainingMakerAmount(o *order.Order, takerFilled *big.Int) *big.Int {
	if takerFilled == nil || takerFilled.Sign() == 0 || o.TakerAssetAmount.Sign() == 0 {
		return new(big.Int).Set(o.MakerAssetAmount)
	}
	remaining := new(big.Int).Sub(o.TakerAssetAmount, takerFilled)
	if remaining.Sign() <= 0 {
		return new(big.Int)
	}
	out := new(big.Int).Mul(o.MakerAssetAmount, remaining)
	return out.Quo(out, o.TakerAssetAmount)
}

func (e *Exchange) checkFunds(ctx context.Context, token, owner common.Address, required *big.Int, what string) error {
	balance, err := e.TokenBalance(ctx, token, owner)
	if err != nil {
		return err
	}
	if balance.Cmp(required) < 0 {
		return fmt.Errorf("%w: insufficient %s balance: have %s, need %s", ErrOrderNotFillable, what, balance, required)
	}

	allowance, err := e.TokenAllowance(ctx, token, owner, e.addrs.ERC20Proxy)
	if err != nil {
		return err
	}
	if allowance.Cmp(required) < 0 {
		return fmt.Errorf("%w: insufficient %s allowance: have %s, need %s", ErrOrderNotFillable, what, allowance, required)
	}
	return nil
}

func (e *Exchange) token(addr common.Address) *bind.BoundContract {
	client := e.provider.Client()
	return bind.NewBoundContract(addr, parsedERC20ABI, client, client, client)
}

// TokenBalance returns owner's balance of an ERC20 token.
func (e *Exchange) TokenBalance(ctx context.Context, token, owner common.Address) (*big.Int, error) {
	var out []any
	if err := e.token(token).Call(&bind.CallOpts{Context: ctx}, &out, "balanceOf", owner); err != nil {
		return nil, fmt.Errorf("balanceOf %s: %w", token.Hex(), err)
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// TokenAllowance returns how much of token spender may move for owner.
func (e *Exchange) TokenAllowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	var out []any
	if err := e.token(token).Call(&bind.CallOpts{Context: ctx}, &out, "allowance", owner, spender); err != nil {
		return nil, fmt.Errorf("allowance %s: %w", token.Hex(), err)
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// CancelOrder sends a cancelOrder transaction for o and returns its hash.
// The Exchange identifies orders by hash, so no signature is involved.
func (e *Exchange) CancelOrder(ctx context.Context, o *order.Order) (common.Hash, error) {
	opts, err := e.provider.TransactOpts(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	opts.GasPrice = e.gas.GasPrice
	opts.GasLimit = e.gas.GasLimit

	tx, err := e.contract.Transact(opts, "cancelOrder", toTuple(o))
	if err != nil {
		return common.Hash{}, fmt.Errorf("cancelOrder: %w", err)
	}
	return tx.Hash(), nil
}
