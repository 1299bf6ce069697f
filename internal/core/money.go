// Package core holds the transaction analytics domain: money handling,
// budget policies, period grouping and the summary/breakdown calculators.
//
// This file contains functions for parsing monetary amounts from strings
// and converting between cents and euro representations.
package core

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Money is a signed amount in cents. Negative values are expenses.
type Money struct {
	Cents int64
}

// ParseSignedDecimalToCents converts a decimal string to signed cents with
// half-up rounding on the third decimal place.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators, an
// optional leading sign, surrounding quotes, and ordinary/non-breaking/narrow
// spaces as grouping characters (bank exports mix all of these). Returns an
// error for empty or non-numeric input.
//
// Examples:
//   ParseSignedDecimalToCents("-150,50")     -> -15050, nil
//   ParseSignedDecimalToCents("3 700.00")    -> 370000, nil
//   ParseSignedDecimalToCents("\"-12.346\"") -> -1235, nil (rounds up)
func ParseSignedDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	// Strip grouping spaces (including NBSP and narrow NBSP) and
	// normalize decimal comma to dot.
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', ' ', ' ':
			return -1
		case ',':
			return '.'
		}
		return r
	}, s)
	if s == "" {
		return 0, ErrInvalidAmount
	}

	negative := false
	switch s[0] {
	case '-':
		negative = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	if intPart == "0" && fracPart == "" && len(parts) == 2 {
		return 0, ErrInvalidAmount
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}

	// Take first two fractional digits; then half-up rounding on third
	var fracCents int64
	if len(fracPart) > 0 {
		d1 := int64(fracPart[0] - '0')
		fracCents = d1 * 10
		if len(fracPart) > 1 {
			d2 := int64(fracPart[1] - '0')
			fracCents += d2
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}

	cents := iv*100 + fracCents
	if negative {
		cents = -cents
	}
	return cents, nil
}

// Euros returns the euro value as a float64.
// Cents are used for all accumulation; euros appear only in output rows.
func (m Money) Euros() float64 {
	return float64(m.Cents) / 100.0
}

// IsExpense reports whether the amount is strictly negative.
func (m Money) IsExpense() bool {
	return m.Cents < 0
}

// centsToEuros converts a cents total to a euro float, exact to 2 decimals.
func centsToEuros(cents int64) float64 {
	return float64(cents) / 100.0
}

// round2 rounds a float to 2 decimal places (half away from zero).
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
