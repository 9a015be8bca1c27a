package order

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/uhyunpark/zeroex-order/pkg/crypto"
)

var ErrWalletMismatch = errors.New("wallet does not control the maker address")

// Wallet produces eth_sign style signatures for one address.
type Wallet interface {
	Address() common.Address
	SignEthHash(hash common.Hash) ([]byte, error)
}

// Sign hashes o and has the maker's wallet sign it. The returned
// SignedOrder holds its own copy of the order; o is left untouched.
func Sign(o *Order, w Wallet) (*SignedOrder, error) {
	if w.Address() != o.MakerAddress {
		return nil, fmt.Errorf("%w: wallet %s, maker %s", ErrWalletMismatch, w.Address().Hex(), o.MakerAddress.Hex())
	}

	hash, err := Hash(o)
	if err != nil {
		return nil, err
	}

	signature, err := w.SignEthHash(hash)
	if err != nil {
		return nil, fmt.Errorf("failed to sign order: %w", err)
	}

	return &SignedOrder{
		Order:     *o.Clone(),
		Signature: signature,
	}, nil
}

// VerifySignature checks that the order's signature recovers to its maker.
func (s *SignedOrder) VerifySignature() (bool, error) {
	hash, err := Hash(&s.Order)
	if err != nil {
		return false, err
	}

	recovered, err := crypto.RecoverEthSign(hash, s.Signature)
	if err != nil {
		return false, fmt.Errorf("failed to recover signer: %w", err)
	}
	return recovered == s.MakerAddress, nil
}
