package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParsePrice parses a decimal price string such as "10.00". Negative values
// are rejected.
func ParsePrice(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: price %q", ErrInvalidInput, s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: negative price %q", ErrInvalidInput, s)
	}
	return d, nil
}

// ToMinorUnits converts to cents, rounding half to even: 10.005 -> 1000,
// 10.015 -> 1002.
func ToMinorUnits(d decimal.Decimal) int64 {
	return d.Shift(2).RoundBank(0).IntPart()
}

func FromMinorUnits(n int64) decimal.Decimal {
	return decimal.New(n, -2)
}

// NormalizePrice returns the price the processor will actually charge.
func NormalizePrice(d decimal.Decimal) decimal.Decimal {
	return FromMinorUnits(ToMinorUnits(d))
}

func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
