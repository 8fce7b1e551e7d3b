// Package core provides money parsing and handling utilities.
//
// Amounts are held as integer cents. Parsing and formatting go through
// shopspring/decimal so user input like "1,234.50" or "12.345" rounds the
// same way everywhere (half-up to two decimals).
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a fixed-precision amount in cents. It is signed so that derived
// values such as profit can go below zero; inputs are checked for sign where
// the domain forbids negatives.
type Money struct {
	Cents int64
}

// Zero is the zero amount.
var Zero = Money{}

// Cents builds a Money from a cent count.
func Cents(c int64) Money {
	return Money{Cents: c}
}

// FromDecimal rounds d half-up to two decimal places.
func FromDecimal(d decimal.Decimal) Money {
	return Money{Cents: d.Round(2).Shift(2).IntPart()}
}

// ParseMoney converts a decimal string to Money with half-up rounding.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. When both
// appear, the last one is the decimal separator and the other is treated as
// grouping ("1,234.50" and "1.234,50" both parse to 123450 cents). Negative
// values are rejected; zero is allowed. An empty string parses to zero.
//
// Examples:
//
//	ParseMoney("12.34")  -> 1234
//	ParseMoney("12,34")  -> 1234
//	ParseMoney("12.345") -> 1235 (half-up)
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, nil
	}
	if strings.HasPrefix(s, "-") {
		return Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(normalizeSeparators(s))
	if err != nil {
		return Zero, ErrInvalidAmount
	}
	if d.IsNegative() {
		return Zero, ErrInvalidAmount
	}
	// Keep well inside int64 cents.
	if d.GreaterThan(decimal.New(1, 16)) {
		return Zero, ErrInvalidAmount
	}
	return FromDecimal(d), nil
}

// ParsePositiveMoney is ParseMoney that additionally rejects zero.
func ParsePositiveMoney(s string) (Money, error) {
	m, err := ParseMoney(s)
	if err != nil {
		return Zero, err
	}
	if !m.IsPositive() {
		return Zero, ErrInvalidAmount
	}
	return m, nil
}

func normalizeSeparators(s string) string {
	s = strings.TrimPrefix(s, "+")
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastDot >= 0 && lastComma > lastDot:
		s = strings.ReplaceAll(s, ".", "")
		return strings.Replace(s, ",", ".", 1)
	case lastComma >= 0 && lastDot > lastComma:
		return strings.ReplaceAll(s, ",", "")
	case strings.Count(s, ",") == 1:
		return strings.Replace(s, ",", ".", 1)
	}
	return s
}

// Add returns m + o.
func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }

// Sub returns m - o.
func (m Money) Sub(o Money) Money { return Money{Cents: m.Cents - o.Cents} }

// IsZero reports whether m is exactly zero.
func (m Money) IsZero() bool { return m.Cents == 0 }

// IsPositive reports whether m > 0.
func (m Money) IsPositive() bool { return m.Cents > 0 }

// IsNegative reports whether m < 0.
func (m Money) IsNegative() bool { return m.Cents < 0 }

// LessThan reports whether m < o.
func (m Money) LessThan(o Money) bool { return m.Cents < o.Cents }

// Decimal returns m as a decimal with two places.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// Float returns the amount in major units for display and percentage math.
// Use Cents for arithmetic.
func (m Money) Float() float64 {
	return m.Decimal().InexactFloat64()
}

// String formats m with exactly two decimals, e.g. "1234.50" or "-3.00".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// Validate rejects non-positive amounts.
func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
