package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/epeers/edinetfin/internal/edinet"
	"github.com/epeers/edinetfin/internal/models"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	defaultMaxConcurrency = 4
	defaultRequestTimeout = 30 * time.Second
)

// FilingScanner walks a multi-year window one registry date at a time.
type FilingScanner struct {
	locator        *Locator
	schedule       SearchSchedule
	maxConcurrency int
	requestTimeout time.Duration
}

// NewFilingScanner creates a new FilingScanner. Zero or negative limits take defaults.
func NewFilingScanner(locator *Locator, schedule SearchSchedule, maxConcurrency int, requestTimeout time.Duration) *FilingScanner {
	if schedule == nil {
		schedule = SeasonSchedule{Months: DefaultFilingMonths}
	}
	if maxConcurrency <= 0 {
		maxConcurrency = defaultMaxConcurrency
	}
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}
	return &FilingScanner{
		locator:        locator,
		schedule:       schedule,
		maxConcurrency: maxConcurrency,
		requestTimeout: requestTimeout,
	}
}

// Schedule returns the schedule the scanner was built with
func (s *FilingScanner) Schedule() SearchSchedule {
	return s.schedule
}

// Scan queries every scheduled date in the years leading up to end and returns the
// matching filings in submission order (oldest first, docID breaking ties).
// A date that fails is logged, recorded as a W1001 warning on ctx, and skipped.
// Only cancellation of ctx aborts the scan.
func (s *FilingScanner) Scan(ctx context.Context, filter edinet.FilingFilter, end time.Time, years int) ([]models.FilingReference, error) {
	defer TrackTime("Scan", time.Now())
	if years < 1 {
		years = 1
	}
	from := end.AddDate(-years, 0, 1)
	dates := s.schedule.Dates(from, end)
	log.Debugf("Scan: %d dates between %s and %s (%s schedule)", len(dates), from.Format("2006-01-02"), end.Format("2006-01-02"), s.schedule.Name())

	var (
		mu    sync.Mutex
		found []models.FilingReference
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrency)

	for _, date := range dates {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(gctx, s.requestTimeout)
			defer cancel()

			refs, err := s.locator.Locate(callCtx, date, filter)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Warnf("Scan: skipping %s: %v", date.Format("2006-01-02"), err)
				addWarningf(ctx, models.WarnRegistryDateSkipped, "registry query for %s failed: %v", date.Format("2006-01-02"), err)
				return nil
			}
			if len(refs) == 0 {
				return nil
			}

			mu.Lock()
			found = append(found, refs...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sortFilings(found)
	log.Debugf("Scan: found %d filing(s)", len(found))
	return found, nil
}

func sortFilings(refs []models.FilingReference) {
	sort.Slice(refs, func(i, j int) bool {
		if !refs[i].SubmittedAt.Equal(refs[j].SubmittedAt) {
			return refs[i].SubmittedAt.Before(refs[j].SubmittedAt)
		}
		return refs[i].DocID < refs[j].DocID
	})
}
