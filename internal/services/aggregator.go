package services

import (
	"sort"
	"sync"

	"github.com/epeers/edinetfin/internal/calc"
	"github.com/epeers/edinetfin/internal/models"
)

// SummaryAggregator collects at most one record per fiscal year.
// Adding a year that is already present replaces it. Safe for concurrent use.
type SummaryAggregator struct {
	mu     sync.Mutex
	byYear map[int]models.FiscalYearRecord
}

// NewSummaryAggregator creates an empty aggregator
func NewSummaryAggregator() *SummaryAggregator {
	return &SummaryAggregator{byYear: make(map[int]models.FiscalYearRecord)}
}

// Add stores rec under its fiscal year, replacing any earlier record for that year.
func (a *SummaryAggregator) Add(rec models.FiscalYearRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.byYear[rec.FiscalYear] = rec
}

// Len returns the number of fiscal years held
func (a *SummaryAggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.byYear)
}

// Records returns the held records ascending by fiscal year.
func (a *SummaryAggregator) Records() []models.FiscalYearRecord {
	a.mu.Lock()
	records := make([]models.FiscalYearRecord, 0, len(a.byYear))
	for _, r := range a.byYear {
		records = append(records, r)
	}
	a.mu.Unlock()

	sort.Slice(records, func(i, j int) bool {
		return records[i].FiscalYear < records[j].FiscalYear
	})
	return records
}

// Summary builds the multi-year summary from the held records, keeping only the
// latest maxYears fiscal years when maxYears is positive.
func (a *SummaryAggregator) Summary(companyID int64, code string, maxYears int) *models.FinancialSummary {
	records := a.Records()
	if maxYears > 0 && len(records) > maxYears {
		records = records[len(records)-maxYears:]
	}
	return NewFinancialSummary(companyID, code, records)
}

// NewFinancialSummary computes window growth over records, which must be
// ascending by fiscal year. CAGR spans the first and last record; growth
// compares the last two.
func NewFinancialSummary(companyID int64, code string, records []models.FiscalYearRecord) *models.FinancialSummary {
	if records == nil {
		records = []models.FiscalYearRecord{}
	}
	s := &models.FinancialSummary{
		CompanyID: companyID,
		Code:      code,
		Records:   records,
	}
	n := len(records)
	if n < 2 {
		return s
	}

	first, last, prev := &records[0], &records[n-1], &records[n-2]
	if a, b, ok := pair(first, last, models.FieldRevenue); ok {
		s.RevenueCAGR = calc.CAGR(a, b, n)
	}
	if a, b, ok := pair(first, last, models.FieldNetIncome); ok {
		s.NetIncomeCAGR = calc.CAGR(a, b, n)
	}
	if a, b, ok := pair(prev, last, models.FieldRevenue); ok {
		s.RevenueGrowth = calc.Growth(a, b)
	}
	if a, b, ok := pair(prev, last, models.FieldNetIncome); ok {
		s.ProfitGrowth = calc.Growth(a, b)
	}
	return s
}

func pair(from, to *models.FiscalYearRecord, field models.Field) (float64, float64, bool) {
	a, ok := from.Get(field)
	if !ok {
		return 0, 0, false
	}
	b, ok := to.Get(field)
	if !ok {
		return 0, 0, false
	}
	return a.Float64(), b.Float64(), true
}
