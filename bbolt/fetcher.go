package bbolt

import (
	"context"

	"github.com/fwojciec/digest"
)

// Ensure CachingFetcher implements digest.Fetcher at compile time.
var _ digest.Fetcher = (*CachingFetcher)(nil)

// CachingFetcher serves pages from a Cache and falls through to the wrapped
// Fetcher on a miss. Only successful fetches are cached.
type CachingFetcher struct {
	cache *Cache
	next  digest.Fetcher
}

// NewCachingFetcher wraps next with cache.
func NewCachingFetcher(cache *Cache, next digest.Fetcher) *CachingFetcher {
	return &CachingFetcher{cache: cache, next: next}
}

// Fetch returns the cached page for url or fetches and caches it.
// Cache read and write failures degrade to an uncached fetch.
func (f *CachingFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if html, ok, err := f.cache.Get(url); err == nil && ok {
		return html, nil
	}
	html, err := f.next.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	_ = f.cache.Put(url, html)
	return html, nil
}

// Close closes the wrapped fetcher. The cache is closed by its owner.
func (f *CachingFetcher) Close() error {
	return f.next.Close()
}
