package crypto

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// SignatureTypeEthSign is the 0x v2 signature type for a signature made
// over the eth_sign prefixed hash.
const SignatureTypeEthSign byte = 0x03

// EthSignLength is v(1) + r(32) + s(32) + signature type(1).
const EthSignLength = 66

// Signer manages ECDSA key pairs for signing transactions
// Uses secp256k1 curve (Ethereum-compatible)
type Signer struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
}

// GenerateKey creates a new random secp256k1 key pair
func GenerateKey() (*Signer, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return newSigner(privateKey), nil
}

// FromPrivateKeyHex creates a Signer from a hex-encoded private key
// Format: "0x1234..." or "1234..." (64 hex chars)
func FromPrivateKeyHex(hexKey string) (*Signer, error) {
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return newSigner(privateKey), nil
}

func newSigner(privateKey *ecdsa.PrivateKey) *Signer {
	return &Signer{
		privateKey: privateKey,
		address:    crypto.PubkeyToAddress(privateKey.PublicKey),
	}
}

// Address returns the Ethereum address derived from the public key
func (s *Signer) Address() common.Address {
	return s.address
}

// Sign signs a 32-byte hash and returns [R || S || V] with V in {0, 1}.
func (s *Signer) Sign(hash []byte) ([]byte, error) {
	if len(hash) != 32 {
		return nil, fmt.Errorf("hash must be 32 bytes, got %d", len(hash))
	}

	signature, err := crypto.Sign(hash, s.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign: %w", err)
	}

	return signature, nil
}

// SignEthHash signs hash the way eth_sign does (personal message prefix)
// and returns it in 0x v2 layout: [V || R || S || 0x03] with V in {27, 28}.
func (s *Signer) SignEthHash(hash common.Hash) ([]byte, error) {
	rsv, err := s.Sign(accounts.TextHash(hash.Bytes()))
	if err != nil {
		return nil, err
	}

	signature := make([]byte, 0, EthSignLength)
	signature = append(signature, rsv[64]+27)
	signature = append(signature, rsv[:64]...)
	signature = append(signature, SignatureTypeEthSign)
	return signature, nil
}

// TransactOpts returns keyed transaction options for contract writes on chainID.
func (s *Signer) TransactOpts(chainID *big.Int) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(s.privateKey, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to build transactor: %w", err)
	}
	return opts, nil
}

// RecoverAddress recovers the signer's address from a message hash and an
// [R || S || V] signature.
func RecoverAddress(hash []byte, signature []byte) (common.Address, error) {
	if len(signature) != 65 {
		return common.Address{}, fmt.Errorf("invalid signature length: %d", len(signature))
	}
	if len(hash) != 32 {
		return common.Address{}, fmt.Errorf("invalid hash length: %d", len(hash))
	}

	publicKey, err := crypto.SigToPub(hash, signature)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover public key: %w", err)
	}

	return crypto.PubkeyToAddress(*publicKey), nil
}

// RecoverEthSign recovers the address behind a 0x v2 EthSign signature.
func RecoverEthSign(hash common.Hash, signature []byte) (common.Address, error) {
	if len(signature) != EthSignLength {
		return common.Address{}, fmt.Errorf("invalid signature length: %d", len(signature))
	}
	if signature[EthSignLength-1] != SignatureTypeEthSign {
		return common.Address{}, fmt.Errorf("unsupported signature type: 0x%02x", signature[EthSignLength-1])
	}
	v := signature[0]
	if v != 27 && v != 28 {
		return common.Address{}, fmt.Errorf("invalid recovery id: %d", v)
	}

	rsv := make([]byte, 65)
	copy(rsv, signature[1:65])
	rsv[64] = v - 27

	return RecoverAddress(accounts.TextHash(hash.Bytes()), rsv)
}
