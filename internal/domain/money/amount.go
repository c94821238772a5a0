// Package money provides the fixed-point monetary type used throughout the
// ledger. Values carry exactly four fractional digits and are stored as a
// scaled int64, so arithmetic is exact and overflow is always detected.
package money

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Scale is the fixed-point scaling factor: four fractional digits.
const Scale int64 = 10_000

const fracDigits = 4

// Common errors
var (
	ErrOverflow    = errors.New("amount overflow")
	ErrEmptyAmount = errors.New("empty amount")
)

// ParseError indicates a string that does not represent a valid 4dp decimal
type ParseError struct {
	Input  string
	Reason string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("invalid amount %q: %s", e.Input, e.Reason)
}

// Amount is a monetary value stored as an int64 scaled by Scale.
// The zero value is 0.0000. Amounts are values; operations return new
// Amounts and never mutate in place.
type Amount int64

// Zero returns the zero amount.
func Zero() Amount {
	return Amount(0)
}

// IsNegative reports whether the amount is below zero.
func (a Amount) IsNegative() bool {
	return a < 0
}

// CheckedAdd returns a+b, or ErrOverflow if the mathematical result does not
// fit in the scaled representation. Operands are left untouched on failure.
func (a Amount) CheckedAdd(b Amount) (Amount, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, ErrOverflow
	}
	return sum, nil
}

// CheckedSub returns a-b, or ErrOverflow if the mathematical result does not
// fit in the scaled representation.
func (a Amount) CheckedSub(b Amount) (Amount, error) {
	diff := a - b
	if (b < 0 && diff < a) || (b > 0 && diff > a) {
		return 0, ErrOverflow
	}
	return diff, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ParseAmount parses a decimal string with up to four fractional digits into
// an Amount. It rejects empty input, non-numeric components, more than four
// fractional digits, and values outside the representable range.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrEmptyAmount
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	if s == "" || s == "." {
		return 0, ParseError{Input: s, Reason: "no digits"}
	}

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}
	if intPart == "" {
		intPart = "0"
	}
	if len(fracPart) > fracDigits {
		return 0, ParseError{Input: s, Reason: "more than 4 fractional digits"}
	}

	// Both parts must be bare digit runs: any leftover sign or letter (as in
	// "--1" or "1.+5") is malformed, it may not leak into strconv.
	if !allDigits(intPart) {
		return 0, ParseError{Input: s, Reason: "malformed integer part"}
	}
	if fracPart != "" && !allDigits(fracPart) {
		return 0, ParseError{Input: s, Reason: "malformed fractional part"}
	}

	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrOverflow
	}

	var frac int64
	if fracPart != "" {
		// right-pad to exactly four digits so "5" means 0.5000
		padded := fracPart + strings.Repeat("0", fracDigits-len(fracPart))
		frac, err = strconv.ParseInt(padded, 10, 64)
		if err != nil {
			return 0, ParseError{Input: s, Reason: "malformed fractional part"}
		}
	}

	scaled := whole * Scale
	if whole != 0 && scaled/whole != Scale {
		return 0, ErrOverflow
	}
	val, err := Amount(scaled).CheckedAdd(Amount(frac))
	if err != nil {
		return 0, ErrOverflow
	}
	if neg {
		val = -val
	}
	return val, nil
}

// String renders the amount in fixed decimal notation with exactly four
// fractional digits, the exact inverse of ParseAmount for in-range values.
func (a Amount) String() string {
	v := int64(a)
	if v >= 0 {
		return fmt.Sprintf("%d.%04d", v/Scale, v%Scale)
	}
	// unsigned magnitude, safe even for MinInt64
	u := uint64(-(v + 1)) + 1
	return fmt.Sprintf("-%d.%04d", u/uint64(Scale), u%uint64(Scale))
}
