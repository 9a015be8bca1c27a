package crypto

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// NormalizeAddress validates a 20-byte hex address and returns it lower-cased
// with a 0x prefix, the form relayers expect in order JSON.
func NormalizeAddress(addr string) (string, error) {
	raw := strings.TrimPrefix(strings.TrimPrefix(addr, "0x"), "0X")
	if len(raw) != 40 {
		return "", fmt.Errorf("address must be 20 bytes, got %q", addr)
	}
	if _, err := hex.DecodeString(raw); err != nil {
		return "", fmt.Errorf("invalid hex address %q: %w", addr, err)
	}
	return "0x" + strings.ToLower(raw), nil
}

// ChecksumAddress returns the EIP-55 mixed-case form of addr.
func ChecksumAddress(addr string) (string, error) {
	lower, err := NormalizeAddress(addr)
	if err != nil {
		return "", err
	}
	hexaddr := lower[2:]

	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(hexaddr))
	hash := h.Sum(nil)

	var b strings.Builder
	b.Grow(42)
	b.WriteString("0x")
	for i, c := range hexaddr {
		// each hex char maps to one nibble of the hash
		nibble := hash[i/2] >> 4
		if i%2 == 1 {
			nibble = hash[i/2] & 0x0f
		}
		if c >= 'a' && c <= 'f' && nibble >= 8 {
			c -= 'a' - 'A'
		}
		b.WriteRune(c)
	}
	return b.String(), nil
}
