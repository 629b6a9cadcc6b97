package services

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/epeers/edinetfin/internal/calc"
	"github.com/epeers/edinetfin/internal/models"
	"github.com/shopspring/decimal"
)

var oku = decimal.NewFromInt(100_000_000) // 億円

const noFinancialData = "財務データがありません"

var textFields = []struct {
	field models.Field
	label string
}{
	{models.FieldRevenue, "売上高"},
	{models.FieldOperatingIncome, "営業利益"},
	{models.FieldNetIncome, "純利益"},
	{models.FieldTotalAssets, "総資産"},
}

// FormatFinancialSummary renders a summary as plain text for report generation:
// one line per fiscal year in 億円, then the window's CAGR lines.
func FormatFinancialSummary(s *models.FinancialSummary) string {
	if s == nil || len(s.Records) == 0 {
		return noFinancialData
	}

	var lines []string
	for i := range s.Records {
		rec := &s.Records[i]
		var parts []string
		for _, tf := range textFields {
			v, ok := rec.Get(tf.field)
			if !ok || v.Decimal().IsZero() {
				continue
			}
			parts = append(parts, fmt.Sprintf("%s %s億円", tf.label, formatOku(v)))
		}
		if roe, ok := recordROE(rec); ok {
			parts = append(parts, fmt.Sprintf("ROE %.1f%%", roe))
		}
		if len(parts) == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %d年度: %s", rec.FiscalYear, strings.Join(parts, ", ")))
	}

	if s.RevenueCAGR != nil {
		lines = append(lines, "", fmt.Sprintf("【%d年間の成長トレンド】", len(s.Records)))
		lines = append(lines, fmt.Sprintf("- 売上高CAGR（年平均成長率）: %.1f%%", *s.RevenueCAGR))
	}
	if s.NetIncomeCAGR != nil {
		lines = append(lines, fmt.Sprintf("- 純利益CAGR（年平均成長率）: %.1f%%", *s.NetIncomeCAGR))
	}

	if len(lines) == 0 {
		return noFinancialData
	}
	return strings.Join(lines, "\n")
}

// formatOku renders a yen amount in 億円 with one decimal place.
func formatOku(v models.Number) string {
	return humanize.FormatFloat("#,###.#", v.Decimal().Div(oku).Round(1).InexactFloat64())
}

// recordROE prefers the stored ROE and computes it otherwise.
func recordROE(rec *models.FiscalYearRecord) (float64, bool) {
	if roe, ok := rec.Get(models.FieldROE); ok {
		return roe.Float64(), true
	}
	ni, ok := rec.Get(models.FieldNetIncome)
	if !ok {
		return 0, false
	}
	eq, ok := rec.Get(models.FieldShareholdersEquity)
	if !ok {
		return 0, false
	}
	roe, ok := calc.ReturnOnEquity(ni, eq)
	if !ok {
		return 0, false
	}
	return roe.Float64(), true
}
