package order

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/uhyunpark/zeroex-order/pkg/crypto"
)

func TestSign(t *testing.T) {
	signer, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	o := buildTestOrder(t, signer.Address())

	signed, err := Sign(o, signer)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if len(signed.Signature) != crypto.EthSignLength {
		t.Errorf("signature length = %d, want %d", len(signed.Signature), crypto.EthSignLength)
	}

	valid, err := signed.VerifySignature()
	if err != nil {
		t.Fatalf("VerifySignature: %v", err)
	}
	if !valid {
		t.Error("signature should verify against the maker")
	}

	// The signed order hashes to the same value as the order it came from.
	h1, _ := Hash(o)
	h2, _ := Hash(&signed.Order)
	if h1 != h2 {
		t.Errorf("signed order hash = %s, want %s", h2.Hex(), h1.Hex())
	}
}

func TestSignDoesNotShareState(t *testing.T) {
	signer, _ := crypto.GenerateKey()
	o := buildTestOrder(t, signer.Address())

	signed, err := Sign(o, signer)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	o.Salt.SetInt64(1)
	o.MakerAssetData[5] ^= 0xff
	if signed.Salt.Int64() == 1 {
		t.Error("signed order salt follows mutations of the source order")
	}
	if bytes.Equal(signed.MakerAssetData, o.MakerAssetData) {
		t.Error("signed order asset data shares memory with the source order")
	}
}

func TestSignWalletMismatch(t *testing.T) {
	signer, _ := crypto.GenerateKey()
	o := buildTestOrder(t, common.HexToAddress("0x01"))

	_, err := Sign(o, signer)
	if !errors.Is(err, ErrWalletMismatch) {
		t.Fatalf("err = %v, want ErrWalletMismatch", err)
	}
}

func TestVerifySignatureWrongMaker(t *testing.T) {
	signer, _ := crypto.GenerateKey()
	o := buildTestOrder(t, signer.Address())
	signed, _ := Sign(o, signer)

	signed.MakerAddress = common.HexToAddress("0x02")
	valid, err := signed.VerifySignature()
	if err != nil {
		t.Fatalf("VerifySignature: %v", err)
	}
	if valid {
		t.Error("signature should not verify after the maker changes")
	}
}
