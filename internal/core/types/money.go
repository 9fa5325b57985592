// Package types provides common monetary types and helpers.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with 2 fractional digits.
// decimal.Decimal avoids floating-point drift in financial calculations.
type Money = decimal.Decimal

// MoneyScale is the number of fractional digits for monetary values.
const MoneyScale = 2

var two = decimal.NewFromInt(2)

// Zero returns the zero Money value.
func Zero() Money {
	return decimal.Zero
}

// NewMoneyFromString creates a Money value from a string.
// This is the preferred constructor for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MoneyFromInt creates a Money value from an integer amount.
func MoneyFromInt(n int64) Money {
	return decimal.NewFromInt(n)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// HalfUp rounds m to 2 fractional digits, rounding half away from zero.
func HalfUp(m Money) Money {
	return m.Round(MoneyScale)
}

// Halve divides m by 2 and rounds half-up to 2 fractional digits.
// Rounding happens before the result is used in any subsequent arithmetic;
// the residual cent is absorbed, never redistributed.
func Halve(m Money) Money {
	return m.DivRound(two, MoneyScale)
}
