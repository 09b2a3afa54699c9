// Package money rounds computed amounts when they cross the persistence or
// display boundary. Engines keep full float64 precision internally.
package money

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// UnitPricePlaces is the precision kept for derived per-unit prices, which are
// routinely fractions of the currency's minor unit (55.65 CAD / 16000 ml).
const UnitPricePlaces = 6

// MinorUnits returns the number of decimal places of a currency's minor unit.
func MinorUnits(currency string) int32 {
	switch strings.ToUpper(strings.TrimSpace(currency)) {
	case "KRW", "JPY", "VND", "CLP", "ISK", "PYG", "UGX":
		return 0
	case "BHD", "KWD", "OMR", "JOD", "TND", "LYD", "IQD":
		return 3
	default:
		return 2
	}
}

// Round rounds value half away from zero to the currency's minor unit.
func Round(value float64, currency string) float64 {
	return decimal.NewFromFloat(finite(value)).Round(MinorUnits(currency)).InexactFloat64()
}

// RoundUnitPrice rounds a per-unit price to UnitPricePlaces.
func RoundUnitPrice(value float64) float64 {
	return decimal.NewFromFloat(finite(value)).Round(UnitPricePlaces).InexactFloat64()
}

// Format renders value with the currency's minor unit and code, e.g. "1.76 CAD".
func Format(value float64, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	amount := decimal.NewFromFloat(finite(value)).StringFixed(MinorUnits(code))
	if code == "" {
		return amount
	}
	return amount + " " + code
}

// finite clamps infinities to the largest float64 of the same sign and maps
// NaN to zero, since a Decimal cannot hold either.
func finite(value float64) float64 {
	switch {
	case math.IsNaN(value):
		return 0
	case math.IsInf(value, 1):
		return math.MaxFloat64
	case math.IsInf(value, -1):
		return -math.MaxFloat64
	default:
		return value
	}
}
