// Package xbrl pulls a fixed set of financial-statement facts out of an
// EDINET XBRL instance document.
package xbrl

import (
	"bytes"
	"strings"

	"github.com/epeers/edinetfin/internal/calc"
	"github.com/epeers/edinetfin/internal/models"
)

// Extract parses one XBRL instance and returns the facts it reports.
// Missing fields are normal; only unparseable bytes (ErrMalformedDocument) and
// an instance with no period date (ErrUnresolvedFiscalPeriod) are errors.
// ROE and ROA are derived when the document does not report them.
func Extract(data []byte) (*models.RawFinancialFacts, error) {
	inst, err := parseInstance(data)
	if err != nil {
		return nil, err
	}

	year, ok := inst.fiscalYear()
	if !ok {
		return nil, ErrUnresolvedFiscalPeriod
	}

	facts := &models.RawFinancialFacts{
		FiscalYear: year,
		Period:     inst.fiscalPeriod(),
		Standard:   DetectStandard(data),
	}

	for _, field := range models.AllFields() {
		for _, name := range synonyms[field] {
			if v, ok := inst.lookup(name); ok {
				if fractionRatios[name] {
					v = models.NewDecimal(v.Decimal().Shift(2))
				}
				facts.SetIfAbsent(field, v)
				break
			}
		}
	}

	calc.FillRatios(facts)
	return facts, nil
}

// DetectStandard guesses the accounting standard from tokens anywhere in the
// document. Mixed-taxonomy filings can be misread; JGAAP is the default.
func DetectStandard(data []byte) models.AccountingStandard {
	lower := bytes.ToLower(data)
	switch {
	case bytes.Contains(lower, []byte("ifrs")):
		return models.StandardIFRS
	case bytes.Contains(lower, []byte("usgaap")), bytes.Contains(lower, []byte("us-gaap")):
		return models.StandardUSGAAP
	default:
		return models.StandardJGAAP
	}
}

// fiscalPeriod reads the DEI period type, defaulting to a full year.
func (inst *instance) fiscalPeriod() models.FiscalPeriod {
	if text, ok := inst.firstText("TypeOfCurrentPeriodDEI"); ok {
		if p, ok := models.ParseFiscalPeriod(strings.ToUpper(text)); ok {
			return p
		}
	}
	return models.PeriodFullYear
}

// lookup resolves one element name to a value. Each known taxonomy is tried in
// turn, then any namespace at all.
func (inst *instance) lookup(local string) (models.Number, bool) {
	candidates := inst.byLocal[local]
	if len(candidates) == 0 {
		return models.Number{}, false
	}
	for fam := range namespaceFamilies {
		if v, ok := inst.best(candidates, func(f fact) bool { return inFamily(fam, f.Space) }); ok {
			return v, true
		}
	}
	return inst.best(candidates, func(fact) bool { return true })
}

// best picks the value from the most preferred context among candidates that
// pass keep and hold a number. Ties go to document order.
func (inst *instance) best(candidates []int, keep func(fact) bool) (models.Number, bool) {
	var (
		found    bool
		bestRank int
		bestVal  models.Number
	)
	for _, i := range candidates {
		f := inst.facts[i]
		if f.Nil || f.Text == "" || !keep(f) {
			continue
		}
		v, err := models.ParseNumber(f.Text)
		if err != nil {
			continue
		}
		if r := contextRank(f.ContextRef); !found || r < bestRank {
			found, bestRank, bestVal = true, r, v
		}
	}
	return bestVal, found
}

// contextRank orders context IDs by preference, lowest first: current period,
// then unmarked, then prior period. Within each, the entity-wide context beats
// one qualified by a member dimension ("CurrentYearInstant_NonConsolidatedMember").
func contextRank(ref string) int {
	lower := strings.ToLower(ref)
	rank := 1
	switch {
	case strings.Contains(lower, "prior"):
		rank = 2
	case strings.Contains(lower, "current"):
		rank = 0
	}
	rank *= 2
	if strings.Contains(ref, "_") {
		rank++
	}
	return rank
}
