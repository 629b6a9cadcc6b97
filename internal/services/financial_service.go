package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/epeers/edinetfin/internal/edinet"
	"github.com/epeers/edinetfin/internal/models"
	"github.com/epeers/edinetfin/internal/repository"
	"github.com/epeers/edinetfin/internal/xbrl"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	defaultYears = 5
	maxYears     = 10
)

// FinancialStore persists fiscal-year records
type FinancialStore interface {
	Upsert(ctx context.Context, rec *models.FiscalYearRecord) error
	List(ctx context.Context, companyID int64, years int) ([]models.FiscalYearRecord, error)
}

// CompanyLookup resolves a securities code to a stored company
type CompanyLookup interface {
	GetByCode(ctx context.Context, code string) (*models.Company, error)
}

// FetchResult is the outcome of FetchAndStore
type FetchResult struct {
	Company *models.Company
	Summary *models.FinancialSummary
	Stored  int
}

// FinancialService runs the scan, fetch, extract and aggregate pipeline
type FinancialService struct {
	scanner        *FilingScanner
	client         RegistryClient
	store          FinancialStore
	companies      CompanyLookup
	maxConcurrency int
	requestTimeout time.Duration
	now            func() time.Time
}

// NewFinancialService creates a new FinancialService. store and companies may be
// nil when only GetFinancialSummary is used.
func NewFinancialService(scanner *FilingScanner, client RegistryClient, store FinancialStore, companies CompanyLookup) *FinancialService {
	return &FinancialService{
		scanner:        scanner,
		client:         client,
		store:          store,
		companies:      companies,
		maxConcurrency: scanner.maxConcurrency,
		requestTimeout: scanner.requestTimeout,
		now:            time.Now,
	}
}

// ClampYears bounds a requested window to [1, 10], defaulting to 5.
func ClampYears(years int) int {
	switch {
	case years <= 0:
		return defaultYears
	case years > maxYears:
		return maxYears
	default:
		return years
	}
}

// GetFinancialSummary scans the registry for the filer's annual reports over the
// last years years and extracts one record per fiscal year. Filings that cannot be
// fetched or parsed are skipped with a warning on ctx. Finding nothing is not an
// error; the summary is simply empty.
func (s *FinancialService) GetFinancialSummary(ctx context.Context, filer *models.Company, years int) (*models.FinancialSummary, error) {
	defer TrackTime("GetFinancialSummary", time.Now())
	years = ClampYears(years)

	filter := edinet.AnnualReportFilter(filer.EdinetCode, filer.Code)
	refs, err := s.scanner.Scan(ctx, filter, s.now(), years)
	if err != nil {
		return nil, err
	}

	records := make([]*models.FiscalYearRecord, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrency)
	for i, ref := range refs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			rec, err := s.fetchRecord(gctx, ref, filer.ID)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return nil
			}
			records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// refs are in submission order, so a later filing for the same year replaces an earlier one.
	agg := NewSummaryAggregator()
	for _, rec := range records {
		if rec != nil {
			agg.Add(*rec)
		}
	}
	summary := agg.Summary(filer.ID, filer.Code, years)
	log.Infof("GetFinancialSummary %s: %d filing(s), %d fiscal year(s)", filer.Code, len(refs), len(summary.Records))
	return summary, nil
}

// fetchRecord downloads one filing and extracts its record. Failures are logged
// and recorded as warnings before being returned.
func (s *FinancialService) fetchRecord(ctx context.Context, ref models.FilingReference, companyID int64) (*models.FiscalYearRecord, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	defer cancel()

	docs, err := s.client.FetchXBRL(callCtx, ref.DocID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		code := models.WarnDownloadFailed
		if errors.Is(err, edinet.ErrNoStructuredDocument) {
			code = models.WarnNoStructuredDocument
		}
		log.Warnf("fetchRecord %s: %v", ref.DocID, err)
		addWarningf(ctx, code, "%s: %v", ref.DocID, err)
		return nil, err
	}

	facts, name, err := extractFirst(docs)
	if err != nil {
		code := models.WarnMalformedDocument
		if errors.Is(err, xbrl.ErrUnresolvedFiscalPeriod) {
			code = models.WarnUnresolvedPeriod
		}
		log.Warnf("fetchRecord %s: %v", ref.DocID, err)
		addWarningf(ctx, code, "%s: %v", ref.DocID, err)
		return nil, err
	}

	log.Debugf("fetchRecord %s: FY%d %s from %s, %d field(s)", ref.DocID, facts.FiscalYear, facts.Standard, name, facts.Count())
	return &models.FiscalYearRecord{
		RawFinancialFacts: *facts,
		CompanyID:         companyID,
		DocID:             ref.DocID,
	}, nil
}

// extractFirst returns the facts of the first instance that extracts cleanly.
// docs arrive most preferred first.
func extractFirst(docs []edinet.XBRLDocument) (*models.RawFinancialFacts, string, error) {
	var lastErr error
	for _, doc := range docs {
		facts, err := xbrl.Extract(doc.Data)
		if err == nil {
			return facts, doc.Name, nil
		}
		lastErr = fmt.Errorf("%s: %w", doc.Name, err)
	}
	if lastErr == nil {
		lastErr = edinet.ErrNoStructuredDocument
	}
	return nil, "", lastErr
}

// FetchAndStore resolves code, runs GetFinancialSummary and upserts every record.
// A record that fails to store is skipped with a W3001 warning.
func (s *FinancialService) FetchAndStore(ctx context.Context, code string, years int) (*FetchResult, error) {
	company, err := s.lookup(ctx, code)
	if err != nil {
		return nil, err
	}

	summary, err := s.GetFinancialSummary(ctx, company, years)
	if err != nil {
		return nil, err
	}

	stored := 0
	for i := range summary.Records {
		rec := &summary.Records[i]
		if err := s.store.Upsert(ctx, rec); err != nil {
			log.Errorf("FetchAndStore %s FY%d: %v", code, rec.FiscalYear, err)
			addWarningf(ctx, models.WarnPersistFailed, "FY%d (%s): %v", rec.FiscalYear, rec.DocID, err)
			continue
		}
		stored++
	}

	return &FetchResult{Company: company, Summary: summary, Stored: stored}, nil
}

// StoredSummary builds a summary from previously stored records.
func (s *FinancialService) StoredSummary(ctx context.Context, code string, years int) (*models.Company, *models.FinancialSummary, error) {
	company, err := s.lookup(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	records, err := s.store.List(ctx, company.ID, ClampYears(years))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list financial statements: %w", err)
	}
	return company, NewFinancialSummary(company.ID, company.Code, records), nil
}

func (s *FinancialService) lookup(ctx context.Context, code string) (*models.Company, error) {
	return findCompany(ctx, s.companies, code)
}

// findCompany maps a missing company to repository.ErrCompanyNotFound whichever way the store reports it
func findCompany(ctx context.Context, companies CompanyLookup, code string) (*models.Company, error) {
	company, err := companies.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, repository.ErrCompanyNotFound
	}
	return company, nil
}
