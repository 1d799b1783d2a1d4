package fetch

import (
	"context"
	"log"
	"time"

	"github.com/jonathan/resume-tailor/internal/cache"
)

// DefaultPageTTL is how long a fetched page is reused.
const DefaultPageTTL = 7 * 24 * time.Hour

// CachedFetcher serves successful fetches from a cache.
type CachedFetcher struct {
	next  PageFetcher
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedFetcher wraps next. A ttl of zero uses DefaultPageTTL.
func NewCachedFetcher(next PageFetcher, c cache.Cache, ttl time.Duration) *CachedFetcher {
	if ttl <= 0 {
		ttl = DefaultPageTTL
	}
	return &CachedFetcher{next: next, cache: c, ttl: ttl}
}

// Fetch returns the cached page for urlStr or fetches and stores it.
// Cache failures are logged and never fail the fetch.
func (f *CachedFetcher) Fetch(ctx context.Context, urlStr string) (*Result, error) {
	key := cache.PageKey(urlStr)

	var cached Result
	ok, err := cache.GetJSON(ctx, f.cache, key, &cached)
	if err != nil {
		log.Printf("[CACHE] page lookup failed for %s: %v", urlStr, err)
	}
	if ok {
		return &cached, nil
	}

	result, err := f.next.Fetch(ctx, urlStr)
	if err != nil {
		return result, err
	}

	if err := cache.SetJSON(ctx, f.cache, key, result, f.ttl); err != nil {
		log.Printf("[CACHE] page store failed for %s: %v", urlStr, err)
	}
	return result, nil
}
