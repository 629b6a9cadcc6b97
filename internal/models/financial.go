package models

import (
	"encoding/json"
)

// AccountingStandard is the reporting framework a filing was prepared under
type AccountingStandard string

const (
	StandardJGAAP  AccountingStandard = "JGAAP"
	StandardIFRS   AccountingStandard = "IFRS"
	StandardUSGAAP AccountingStandard = "USGAAP"
)

// FiscalPeriod marks whether a record covers a full year or part of one
type FiscalPeriod string

const (
	PeriodFullYear FiscalPeriod = "FY"
	PeriodQ1       FiscalPeriod = "Q1"
	PeriodQ2       FiscalPeriod = "Q2"
	PeriodQ3       FiscalPeriod = "Q3"
	PeriodQ4       FiscalPeriod = "Q4"
	PeriodHalfYear FiscalPeriod = "HY"
)

// ParseFiscalPeriod maps a DEI period type ("FY", "Q1", ...) to a FiscalPeriod.
func ParseFiscalPeriod(s string) (FiscalPeriod, bool) {
	switch p := FiscalPeriod(s); p {
	case PeriodFullYear, PeriodQ1, PeriodQ2, PeriodQ3, PeriodQ4, PeriodHalfYear:
		return p, true
	}
	return "", false
}

// Field identifies one financial-statement line item
type Field int

const (
	FieldRevenue Field = iota
	FieldOperatingIncome
	FieldOrdinaryIncome
	FieldNetIncome
	FieldTotalAssets
	FieldTotalLiabilities
	FieldNetAssets
	FieldShareholdersEquity
	FieldOperatingCashFlow
	FieldInvestingCashFlow
	FieldFinancingCashFlow
	FieldEPS
	FieldBPS
	FieldDPS
	FieldROE
	FieldROA

	fieldCount
)

var fieldNames = [fieldCount]string{
	FieldRevenue:            "revenue",
	FieldOperatingIncome:    "operating_income",
	FieldOrdinaryIncome:     "ordinary_income",
	FieldNetIncome:          "net_income",
	FieldTotalAssets:        "total_assets",
	FieldTotalLiabilities:   "total_liabilities",
	FieldNetAssets:          "net_assets",
	FieldShareholdersEquity: "shareholders_equity",
	FieldOperatingCashFlow:  "operating_cf",
	FieldInvestingCashFlow:  "investing_cf",
	FieldFinancingCashFlow:  "financing_cf",
	FieldEPS:                "eps",
	FieldBPS:                "bps",
	FieldDPS:                "dps",
	FieldROE:                "roe",
	FieldROA:                "roa",
}

func (f Field) String() string {
	if f < 0 || f >= fieldCount {
		return "unknown"
	}
	return fieldNames[f]
}

// AllFields returns every field in declaration order.
func AllFields() []Field {
	fields := make([]Field, fieldCount)
	for i := range fields {
		fields[i] = Field(i)
	}
	return fields
}

// FieldByName looks a field up by its JSON/column name.
func FieldByName(name string) (Field, bool) {
	for i, n := range fieldNames {
		if n == name {
			return Field(i), true
		}
	}
	return 0, false
}

// RawFinancialFacts holds the values extracted from one structured document.
// Every field is independently optional.
type RawFinancialFacts struct {
	FiscalYear int                `json:"fiscal_year"`
	Period     FiscalPeriod       `json:"fiscal_period"`
	Standard   AccountingStandard `json:"accounting_standard"`

	values [fieldCount]*Number
}

// Get returns the value for a field and whether it is present.
func (f *RawFinancialFacts) Get(field Field) (Number, bool) {
	if field < 0 || field >= fieldCount || f.values[field] == nil {
		return Number{}, false
	}
	return *f.values[field], true
}

// Has reports whether a field is present.
func (f *RawFinancialFacts) Has(field Field) bool {
	_, ok := f.Get(field)
	return ok
}

// Set stores a value, replacing any existing one.
func (f *RawFinancialFacts) Set(field Field, v Number) {
	if field < 0 || field >= fieldCount {
		return
	}
	f.values[field] = &v
}

// SetIfAbsent stores a value only when the field is still empty.
// It reports whether the value was stored.
func (f *RawFinancialFacts) SetIfAbsent(field Field, v Number) bool {
	if f.Has(field) {
		return false
	}
	f.Set(field, v)
	return true
}

// Clear removes a field.
func (f *RawFinancialFacts) Clear(field Field) {
	if field >= 0 && field < fieldCount {
		f.values[field] = nil
	}
}

// Count returns the number of present fields.
func (f *RawFinancialFacts) Count() int {
	n := 0
	for _, v := range f.values {
		if v != nil {
			n++
		}
	}
	return n
}

// Equal reports whether both fact sets carry the same tags and values.
func (f *RawFinancialFacts) Equal(other *RawFinancialFacts) bool {
	if f.FiscalYear != other.FiscalYear || f.Period != other.Period || f.Standard != other.Standard {
		return false
	}
	for i := range f.values {
		a, b := f.values[i], other.values[i]
		if (a == nil) != (b == nil) {
			return false
		}
		if a != nil && !a.Equal(*b) {
			return false
		}
	}
	return true
}

func (f *RawFinancialFacts) fillJSON(m map[string]any) {
	m["fiscal_year"] = f.FiscalYear
	m["fiscal_period"] = f.Period
	m["accounting_standard"] = f.Standard
	for i, v := range f.values {
		if v == nil {
			m[fieldNames[i]] = nil
			continue
		}
		m[fieldNames[i]] = *v
	}
}

// MarshalJSON flattens the fields next to the period tags; absent fields are null.
func (f RawFinancialFacts) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, int(fieldCount)+3)
	f.fillJSON(m)
	return json.Marshal(m)
}

// FiscalYearRecord is one company's facts for one fiscal year
type FiscalYearRecord struct {
	RawFinancialFacts
	CompanyID int64  `json:"company_id"`
	DocID     string `json:"doc_id"`
}

// MarshalJSON keeps the record flat: ownership keys plus the fact fields.
func (r FiscalYearRecord) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, int(fieldCount)+5)
	r.RawFinancialFacts.fillJSON(m)
	m["company_id"] = r.CompanyID
	m["doc_id"] = r.DocID
	return json.Marshal(m)
}

// FinancialSummary is the multi-year result handed to callers, ascending by fiscal year
type FinancialSummary struct {
	CompanyID     int64              `json:"company_id"`
	Code          string             `json:"code"`
	Records       []FiscalYearRecord `json:"records"`
	RevenueCAGR   *float64           `json:"revenue_cagr"`
	NetIncomeCAGR *float64           `json:"net_income_cagr"`
	RevenueGrowth *float64           `json:"revenue_growth"`
	ProfitGrowth  *float64           `json:"profit_growth"`
}

// Years returns the fiscal years covered, in order.
func (s *FinancialSummary) Years() []int {
	years := make([]int, len(s.Records))
	for i, r := range s.Records {
		years[i] = r.FiscalYear
	}
	return years
}
