// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing amounts typed into the
// transaction form and formatting totals for display.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrencyPrefix is prepended to every displayed amount.
const DefaultCurrencyPrefix = "Rp "

// ParseAmount converts a form value to a decimal amount.
//
// Input that is empty or not a number yields zero, which the presence
// check in Transaction.Validate then rejects. Only a dot is a decimal
// separator.
//
// Examples:
//
//	ParseAmount("1500")   -> 1500
//	ParseAmount("12.5")   -> 12.5
//	ParseAmount("12,5")   -> 0
//	ParseAmount("abc")    -> 0
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatAmount renders an amount with the given currency prefix, e.g.
// "Rp 1500" or "Rp -250.5". No rounding is applied.
func FormatAmount(prefix string, d decimal.Decimal) string {
	return prefix + d.String()
}
