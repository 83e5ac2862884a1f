package models

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// MinorUnits is the number of decimal places money is kept to (satang, cents).
const MinorUnits = 2

// MaxAmount bounds the magnitude of any stored amount. Sums of many such amounts
// still fit the int64 minor-unit columns.
var MaxAmount = decimal.New(1, 13)

// ErrAmountOutOfRange is returned for amounts whose magnitude reaches MaxAmount.
var ErrAmountOutOfRange = errors.New("amount out of range")

// ParseAmount parses a decimal string and rejects values finer than the minor unit
// or outside the storable range.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if !d.Equal(d.Round(MinorUnits)) {
		return decimal.Zero, fmt.Errorf("amount %q has more than %d decimal places", s, MinorUnits)
	}
	if !InRange(d) {
		return decimal.Zero, fmt.Errorf("amount %q: %w", s, ErrAmountOutOfRange)
	}
	return d, nil
}

// InRange reports whether |d| is below MaxAmount.
func InRange(d decimal.Decimal) bool {
	return d.Abs().LessThan(MaxAmount)
}

// ToMinor converts an amount to integer minor units for storage.
// It refuses amounts outside the storable range instead of wrapping.
func ToMinor(d decimal.Decimal) (int64, error) {
	if !InRange(d) {
		return 0, fmt.Errorf("%s: %w", d.String(), ErrAmountOutOfRange)
	}
	return d.Shift(MinorUnits).Round(0).IntPart(), nil
}

// FromMinor converts stored minor units back to an amount.
func FromMinor(v int64) decimal.Decimal {
	return decimal.New(v, -MinorUnits)
}

// FormatAmount renders an amount with exactly two decimal places.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(MinorUnits)
}
