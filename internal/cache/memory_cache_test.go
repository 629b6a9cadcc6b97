package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/epeers/edinetfin/internal/models"
)

func day(d int) time.Time {
	return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC)
}

func TestMemoryCache_Listing(t *testing.T) {
	c := NewMemoryCache(time.Hour)

	if _, ok := c.GetListing(day(18)); ok {
		t.Fatal("expected miss on empty cache")
	}

	filings := []models.FilingReference{{DocID: "S100TOYO"}}
	c.SetListing(day(18), filings, true)

	got, ok := c.GetListing(day(18).Add(15 * time.Hour))
	if !ok || len(got) != 1 || got[0].DocID != "S100TOYO" {
		t.Fatalf("expected cached listing for the same day, got %v (ok=%v)", got, ok)
	}
	if _, ok := c.GetListing(day(19)); ok {
		t.Error("expected miss for another day")
	}
}

func TestMemoryCache_EmptyListingIsCached(t *testing.T) {
	c := NewMemoryCache(time.Hour)
	c.SetListing(day(22), nil, true)

	got, ok := c.GetListing(day(22))
	if !ok {
		t.Fatal("expected an empty listing to count as a hit")
	}
	if len(got) != 0 {
		t.Errorf("expected no filings, got %d", len(got))
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Millisecond)
	c.SetListing(day(17), nil, true)
	c.SetListing(day(18), nil, false)

	time.Sleep(5 * time.Millisecond)

	if _, ok := c.GetListing(day(17)); !ok {
		t.Error("expected final listing to never expire")
	}
	if _, ok := c.GetListing(day(18)); ok {
		t.Error("expected open listing to expire after ttl")
	}
}

func TestMemoryCache_Clear(t *testing.T) {
	c := NewMemoryCache(time.Hour)
	c.SetListing(day(17), nil, true)
	c.SetListing(day(18), nil, true)
	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d", c.Len())
	}
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	c := NewMemoryCache(time.Hour)
	var wg sync.WaitGroup
	for i := 1; i <= 30; i++ {
		wg.Add(2)
		go func(d int) {
			defer wg.Done()
			c.SetListing(day(d), []models.FilingReference{{DocID: "S100"}}, true)
		}(i)
		go func(d int) {
			defer wg.Done()
			c.GetListing(day(d))
		}(i)
	}
	wg.Wait()
	if c.Len() != 30 {
		t.Errorf("expected 30 entries, got %d", c.Len())
	}
}
