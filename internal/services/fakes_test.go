package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/epeers/edinetfin/internal/edinet"
	"github.com/epeers/edinetfin/internal/models"
)

// fakeRegistry serves listings and archives from maps keyed by date and docID.
type fakeRegistry struct {
	mu        sync.Mutex
	listings  map[string][]models.FilingReference
	failDates map[string]error
	docs      map[string][]edinet.XBRLDocument
	docErrs   map[string]error
	block     chan struct{} // when set, calls wait on it or on ctx

	listCalls  atomic.Int32
	fetchCalls atomic.Int32
	queried    []string
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		listings:  make(map[string][]models.FilingReference),
		failDates: make(map[string]error),
		docs:      make(map[string][]edinet.XBRLDocument),
		docErrs:   make(map[string]error),
	}
}

func (f *fakeRegistry) GetDocumentList(ctx context.Context, date time.Time, _ edinet.ListType) ([]models.FilingReference, error) {
	f.listCalls.Add(1)
	key := date.Format("2006-01-02")
	f.mu.Lock()
	f.queried = append(f.queried, key)
	f.mu.Unlock()

	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", edinet.ErrRegistryUnavailable, ctx.Err())
		}
	}
	if err, ok := f.failDates[key]; ok {
		return nil, err
	}
	return f.listings[key], nil
}

func (f *fakeRegistry) FetchXBRL(ctx context.Context, docID string) ([]edinet.XBRLDocument, error) {
	f.fetchCalls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := f.docErrs[docID]; ok {
		return nil, err
	}
	docs, ok := f.docs[docID]
	if !ok {
		return nil, fmt.Errorf("%w: %s: unknown document", edinet.ErrDownloadFailed, docID)
	}
	return docs, nil
}

// annualReport builds a listing entry the annual report filter accepts.
func annualReport(docID, secCode string, submitted time.Time) models.FilingReference {
	return models.FilingReference{
		DocID:         docID,
		EdinetCode:    "E02144",
		SecCode:       secCode,
		FilerName:     "トヨタ自動車株式会社",
		DocTypeCode:   edinet.DocTypeAnnualReport,
		OrdinanceCode: edinet.OrdinanceCorporateDisclosure,
		FormCode:      edinet.FormCodeAnnualReport,
		SubmittedAt:   submitted,
	}
}

// instanceXML is a minimal instance for fiscal year-end yearEnd with revenue and net income.
func instanceXML(yearEnd string, revenue, netIncome int64) []byte {
	return []byte(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<xbrli:xbrl xmlns:xbrli="http://www.xbrl.org/2003/instance"
  xmlns:jppfs_cor="http://disclosure.edinet-fsa.go.jp/taxonomy/jppfs/2023-12-01/jppfs_cor">
  <xbrli:context id="CurrentYearInstant">
    <xbrli:entity><xbrli:identifier scheme="http://disclosure.edinet-fsa.go.jp">E02144-000</xbrli:identifier></xbrli:entity>
    <xbrli:period><xbrli:instant>%s</xbrli:instant></xbrli:period>
  </xbrli:context>
  <jppfs_cor:NetSales contextRef="CurrentYearDuration" unitRef="JPY" decimals="-6">%d</jppfs_cor:NetSales>
  <jppfs_cor:NetIncome contextRef="CurrentYearDuration" unitRef="JPY" decimals="-6">%d</jppfs_cor:NetIncome>
</xbrli:xbrl>`, yearEnd, revenue, netIncome))
}

// memStore is an in-memory FinancialStore and CompanyLookup.
type memStore struct {
	mu        sync.Mutex
	companies map[string]*models.Company
	rows      map[int64]map[int]models.FiscalYearRecord
	failYear  int
}

func newMemStore(companies ...*models.Company) *memStore {
	s := &memStore{
		companies: make(map[string]*models.Company),
		rows:      make(map[int64]map[int]models.FiscalYearRecord),
	}
	for _, c := range companies {
		s.companies[c.Code] = c
	}
	return s
}

func (s *memStore) GetByCode(_ context.Context, code string) (*models.Company, error) {
	return s.companies[code], nil
}

func (s *memStore) Upsert(_ context.Context, rec *models.FiscalYearRecord) error {
	if rec.FiscalYear == s.failYear {
		return fmt.Errorf("constraint violation")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rows[rec.CompanyID] == nil {
		s.rows[rec.CompanyID] = make(map[int]models.FiscalYearRecord)
	}
	s.rows[rec.CompanyID][rec.FiscalYear] = *rec
	return nil
}

func (s *memStore) List(_ context.Context, companyID int64, years int) ([]models.FiscalYearRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	agg := NewSummaryAggregator()
	for _, r := range s.rows[companyID] {
		agg.Add(r)
	}
	recs := agg.Records()
	if len(recs) > years {
		recs = recs[len(recs)-years:]
	}
	return recs, nil
}
