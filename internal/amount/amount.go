// Package amount holds the fixed-point helpers shared by every statement:
// currency rounding to cents, ratio rounding to four places, the one-cent
// tolerance used by derivation checks, and division that never faults.
package amount

import "github.com/shopspring/decimal"

const (
	// CurrencyPlaces is the precision of every monetary value.
	CurrencyPlaces = 2
	// RatioPlaces is the precision of every ratio and percentage.
	RatioPlaces = 4
)

// Tolerance is the largest difference two derived figures may show and
// still be considered equal.
var Tolerance = decimal.New(1, -2)

var hundred = decimal.NewFromInt(100)

// Round2 rounds to cents, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(CurrencyPlaces)
}

// Round4 rounds to ratio precision, half away from zero.
func Round4(d decimal.Decimal) decimal.Decimal {
	return d.Round(RatioPlaces)
}

// Within reports whether |a-b| <= Tolerance.
func Within(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Tolerance)
}

// SafeDiv divides n by d rounded to ratio precision. A zero denominator
// yields zero.
func SafeDiv(n, d decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return decimal.Zero
	}
	return n.DivRound(d, RatioPlaces)
}

// Percent is SafeDiv(n*100, d).
func Percent(n, d decimal.Decimal) decimal.Decimal {
	return SafeDiv(n.Mul(hundred), d)
}

// Sum adds the values.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
