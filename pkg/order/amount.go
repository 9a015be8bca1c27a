package order

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

var ErrAmountOverflow = errors.New("amount does not fit in uint256")

// ToBaseUnits scales a human-readable amount by 10^decimals exactly.
// Zero and negative amounts are passed through; the exchange contract is
// the authority on whether an order amount is acceptable.
func ToBaseUnits(amount string, decimals int32) (*big.Int, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
	}

	scaled := d.Shift(decimals)
	if !scaled.IsInteger() {
		return nil, fmt.Errorf("amount %s has more than %d decimals", amount, decimals)
	}

	v := scaled.BigInt()
	if _, overflow := uint256.FromBig(new(big.Int).Abs(v)); overflow {
		return nil, fmt.Errorf("%w: %s", ErrAmountOverflow, amount)
	}
	return v, nil
}

// FromBaseUnits renders a base-unit amount in human units, for logs.
func FromBaseUnits(v *big.Int, decimals int32) string {
	if v == nil {
		return "0"
	}
	return decimal.NewFromBigInt(v, -decimals).String()
}
