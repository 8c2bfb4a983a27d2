// Package money holds the rounding rules for currency amounts. Prices are
// two-decimal currency units carried as float64.
package money

import "math"

// Round2 rounds to two decimal places, half away from zero. Used at the
// point of final aggregation only; intermediate discounts are not
// pre-rounded to avoid compounding rounding error.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FloorUnit truncates to a whole currency unit. Return refunds floor
// deliberately; see the settlement service.
func FloorUnit(v float64) float64 {
	return math.Floor(v)
}
