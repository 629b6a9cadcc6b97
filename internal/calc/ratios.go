// Package calc derives ratios and growth rates from extracted financial facts.
package calc

import (
	"github.com/epeers/edinetfin/internal/models"
	"github.com/shopspring/decimal"
)

const ratioPlaces = 1

var hundred = decimal.NewFromInt(100)

// percent returns numer/denom as a percentage rounded to one decimal place.
// ok is false when denom is not positive.
func percent(numer, denom decimal.Decimal) (decimal.Decimal, bool) {
	if !denom.IsPositive() {
		return decimal.Zero, false
	}
	return numer.Div(denom).Mul(hundred).Round(ratioPlaces), true
}

// ReturnOnEquity is net income over shareholders' equity, in percent.
func ReturnOnEquity(netIncome, equity models.Number) (models.Number, bool) {
	r, ok := percent(netIncome.Decimal(), equity.Decimal())
	if !ok {
		return models.Number{}, false
	}
	return models.NewDecimal(r), true
}

// ReturnOnAssets is net income over total assets, in percent.
func ReturnOnAssets(netIncome, assets models.Number) (models.Number, bool) {
	r, ok := percent(netIncome.Decimal(), assets.Decimal())
	if !ok {
		return models.Number{}, false
	}
	return models.NewDecimal(r), true
}

// FillRatios computes ROE and ROA when the document did not report them.
// Reported values are left untouched.
func FillRatios(f *models.RawFinancialFacts) {
	ni, ok := f.Get(models.FieldNetIncome)
	if !ok {
		return
	}
	if !f.Has(models.FieldROE) {
		if eq, ok := f.Get(models.FieldShareholdersEquity); ok {
			if roe, ok := ReturnOnEquity(ni, eq); ok {
				f.Set(models.FieldROE, roe)
			}
		}
	}
	if !f.Has(models.FieldROA) {
		if ta, ok := f.Get(models.FieldTotalAssets); ok {
			if roa, ok := ReturnOnAssets(ni, ta); ok {
				f.Set(models.FieldROA, roa)
			}
		}
	}
}
