package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a user-entered numeric string, returning zero for
// anything that is not a number. Form input may be partial or invalid while
// the user is still editing; it must never abort a computation.
func ParseAmount(s string) decimal.Decimal {
	d, ok := ParseOptionalAmount(s)
	if !ok {
		return decimal.Zero
	}
	return d
}

// ParseOptionalAmount parses a user-entered numeric string, distinguishing
// "no value" (empty or non-numeric) from an explicit zero.
func ParseOptionalAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
