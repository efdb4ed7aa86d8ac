// Package pricing holds the currency conversion arithmetic applied to catalog
// prices. Catalog prices are stored in the company's base currency; a sale may
// be made in any currency that has a rate configured for the posting date.
package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"next-pos/models"
)

var one = decimal.NewFromInt(1)

// ConversionFactor returns the multiplier that turns a base-currency amount
// into target currency, derived from a directional rate record.
//
// A record base→target is used as is. A record target→base is inverted,
// since one unit of target being worth R base means one base is worth 1/R
// target. Any other pair, or a non-positive rate, yields ok=false.
//
// Same-currency conversion always returns 1 without looking at the record.
func ConversionFactor(rate *models.ExchangeRate, base, target string) (decimal.Decimal, bool) {
	if SameCurrency(base, target) {
		return one, true
	}
	if rate == nil || !rate.Rate.IsPositive() {
		return decimal.Zero, false
	}

	switch {
	case SameCurrency(rate.From, base) && SameCurrency(rate.To, target):
		return rate.Rate, true
	case SameCurrency(rate.From, target) && SameCurrency(rate.To, base):
		return Invert(rate.Rate)
	}
	return decimal.Zero, false
}

// Invert returns 1/factor. Zero or negative factors cannot be inverted.
func Invert(factor decimal.Decimal) (decimal.Decimal, bool) {
	if !factor.IsPositive() {
		return decimal.Zero, false
	}
	return one.Div(factor), true
}

// Convert multiplies amount by factor
func Convert(amount, factor decimal.Decimal) decimal.Decimal {
	return amount.Mul(factor)
}

// SameCurrency compares currency codes ignoring case and surrounding space
func SameCurrency(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Describe renders a factor for log lines, e.g. "1 USD = 0.92 EUR"
func Describe(factor decimal.Decimal, base, target string) string {
	return fmt.Sprintf("1 %s = %s %s", base, factor.String(), target)
}
