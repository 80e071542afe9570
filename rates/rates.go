// Package rates holds the fixed currency conversion table used to normalize
// billing amounts to USD.
package rates

import "math"

// Table maps a 3-letter currency code to its multiplicative conversion rate
// to USD. A Table is fixed at construction and never mutated.
type Table map[string]float64

// Default is the conversion table for the currencies billing files are
// expected to contain. USD is the reference currency.
var Default = Table{
	"USD": 1,
	"CAD": 0.79,
	"MXN": 0.05,
}

// Rate returns the conversion rate for code. ok is false when the currency
// is not supported.
func (t Table) Rate(code string) (rate float64, ok bool) {
	rate, ok = t[code]
	return
}

// Convert returns amount converted to USD, rounded to 2 decimal places.
// ok is false when the currency is not supported, and the converted amount
// is then zero. Unsupported currencies must not be written to the ledger
// with a fallback rate.
func (t Table) Convert(amount float64, code string) (usd float64, ok bool) {
	rate, ok := t[code]
	if !ok {
		return 0, false
	}
	return math.Round(amount*rate*100) / 100, true
}
