// Package moneyutil provides decimal currency parsing, formatting, and
// comparison helpers shared by the engine packages.
package moneyutil

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/capital-advisor/pkg/constants"
	"github.com/shopspring/decimal"
)

// ParseAmount parses a string-typed decimal amount from the ledger wire
// format into an exact decimal. Empty strings parse to zero so that omitted
// optional fields behave like the stated default.
func ParseAmount(s string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

// FormatAmount renders a decimal in the canonical wire form. The full
// precision of the value is preserved so that round-trips are exact.
func FormatAmount(d decimal.Decimal) string {
	return d.String()
}

// RoundCents rounds a decimal to two places, i.e. to represent real currency.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Coerce treats a nil float pointer as zero; used for the nullable numeric
// asset fields.
func Coerce(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Round rounds a float value to two decimals. Used for making logical
// comparisons in the float-based analyzer math.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// WithinTolerance checks if two float values are within one cent.
func WithinTolerance(val1, val2 float64) bool {
	return math.Abs(val1-val2) <= constants.CurrencyTolerance
}
