package metrics

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Display precision is 2 decimals for every percentage and ratio in the
// system; report round-trip tests depend on it.

// FormatPercent renders a fraction (0.0123) as "1.23%".
func FormatPercent(v float64) string {
	return decimal.NewFromFloat(v * 100).Round(2).StringFixed(2) + "%"
}

// FormatRatio renders a plain ratio to 2 decimals.
func FormatRatio(v float64) string {
	return decimal.NewFromFloat(v).Round(2).StringFixed(2)
}

// FormatCurrency renders a dollar amount with comma grouping, e.g.
// "$1,050.00".
func FormatCurrency(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	neg := d.IsNegative()
	if neg {
		d = d.Neg()
	}
	s := d.StringFixed(2)

	intPart := s[:len(s)-3]
	frac := s[len(s)-3:]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := "$" + b.String() + frac
	if neg {
		out = "-" + out
	}
	return out
}
