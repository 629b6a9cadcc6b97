package services

import (
	"context"
	"time"

	"github.com/epeers/edinetfin/internal/cache"
	"github.com/epeers/edinetfin/internal/edinet"
	"github.com/epeers/edinetfin/internal/models"
	"github.com/epeers/edinetfin/internal/util"
	log "github.com/sirupsen/logrus"
)

// RegistryClient is the part of the EDINET client the pipeline uses
type RegistryClient interface {
	GetDocumentList(ctx context.Context, date time.Time, listType edinet.ListType) ([]models.FilingReference, error)
	FetchXBRL(ctx context.Context, docID string) ([]edinet.XBRLDocument, error)
}

// Locator answers "what did the registry list on this date that matches filter".
// Listings of closed days are cached, so rescans of the same window are free.
type Locator struct {
	client RegistryClient
	cache  *cache.MemoryCache
	now    func() time.Time
}

// NewLocator creates a new Locator. listingCache may be nil.
func NewLocator(client RegistryClient, listingCache *cache.MemoryCache) *Locator {
	return &Locator{
		client: client,
		cache:  listingCache,
		now:    time.Now,
	}
}

// Locate returns the filings listed on date that satisfy filter.
// Registry errors are returned unchanged for the caller to skip or retry.
func (l *Locator) Locate(ctx context.Context, date time.Time, filter edinet.FilingFilter) ([]models.FilingReference, error) {
	all, err := l.listing(ctx, date)
	if err != nil {
		return nil, err
	}
	var matched []models.FilingReference
	for _, ref := range all {
		if filter.Match(ref) {
			matched = append(matched, ref)
		}
	}
	return matched, nil
}

func (l *Locator) listing(ctx context.Context, date time.Time) ([]models.FilingReference, error) {
	if l.cache != nil {
		if cached, ok := l.cache.GetListing(date); ok {
			log.Tracef("Locate %s: cache hit (%d filings)", date.Format("2006-01-02"), len(cached))
			return cached, nil
		}
	}

	all, err := l.client.GetDocumentList(ctx, date, edinet.ListWithDocuments)
	if err != nil {
		return nil, err
	}

	if l.cache != nil {
		l.cache.SetListing(date, all, util.IsPastDate(date, l.now()))
	}
	return all, nil
}
