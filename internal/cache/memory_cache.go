package cache

import (
	"sync"
	"time"

	"github.com/epeers/edinetfin/internal/models"
)

// MemoryCache holds registry listings in memory. Listings for closed days are
// kept until cleared; the current day's expire after ttl since filings keep arriving.
type MemoryCache struct {
	listings map[string]listingEntry
	mu       sync.RWMutex
	ttl      time.Duration
}

type listingEntry struct {
	filings   []models.FilingReference
	fetchedAt time.Time
	final     bool
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		listings: make(map[string]listingEntry),
		ttl:      ttl,
	}
}

func listingKey(date time.Time) string {
	return date.Format("2006-01-02")
}

// GetListing retrieves a cached listing if available and fresh
func (c *MemoryCache) GetListing(date time.Time) ([]models.FilingReference, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.listings[listingKey(date)]
	if !exists {
		return nil, false
	}
	if !entry.final && time.Since(entry.fetchedAt) > c.ttl {
		return nil, false
	}
	return entry.filings, true
}

// SetListing caches a listing. final marks a closed day that never expires.
func (c *MemoryCache) SetListing(date time.Time, filings []models.FilingReference, final bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.listings[listingKey(date)] = listingEntry{
		filings:   filings,
		fetchedAt: time.Now(),
		final:     final,
	}
}

// Len returns the number of cached listings
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.listings)
}

// Clear removes all cached data
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	c.listings = make(map[string]listingEntry)
	c.mu.Unlock()
}
