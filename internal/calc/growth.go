package calc

import (
	"math"

	"github.com/shopspring/decimal"
)

// CAGR returns the compound annual growth rate in percent between first and last
// over periods, rounded to one decimal place. It returns nil when the rate is
// undefined: fewer than two periods or a non-positive endpoint.
func CAGR(first, last float64, periods int) *float64 {
	if periods < 2 || first <= 0 || last <= 0 {
		return nil
	}
	rate := (math.Pow(last/first, 1/float64(periods)) - 1) * 100
	return round1(rate)
}

// Growth returns the change from prev to latest in percent, rounded to one
// decimal place. It returns nil when prev is not positive.
func Growth(prev, latest float64) *float64 {
	if prev <= 0 {
		return nil
	}
	return round1((latest - prev) / prev * 100)
}

func round1(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	r := decimal.NewFromFloat(f).Round(ratioPlaces).InexactFloat64()
	return &r
}
