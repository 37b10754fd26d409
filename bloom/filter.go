// Package bloom deduplicates newsletter links within an ingest run using a
// Bloom filter.
package bloom

import (
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// Default sizing for a single ingest run.
const (
	DefaultCapacity = 10000
	DefaultFPRate   = 0.001
)

// Filter records link URLs seen during a run. It is safe for concurrent use.
// A false positive makes a new link look seen; it never lets a duplicate
// through.
type Filter struct {
	mu sync.Mutex
	f  *bloom.BloomFilter
}

// NewFilter creates a filter sized for n expected links at the given false
// positive rate. Non-positive arguments fall back to the defaults.
func NewFilter(n uint, fpRate float64) *Filter {
	if n == 0 {
		n = DefaultCapacity
	}
	if fpRate <= 0 || fpRate >= 1 {
		fpRate = DefaultFPRate
	}
	return &Filter{f: bloom.NewWithEstimates(n, fpRate)}
}

// Seen reports whether url was already recorded and records it if not.
// The check and the insert happen atomically.
func (f *Filter) Seen(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.f.TestOrAddString(key(url))
}

// Test reports whether url might have been recorded.
func (f *Filter) Test(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.f.TestString(key(url))
}

// EstimatedCount returns the approximate number of distinct links recorded.
func (f *Filter) EstimatedCount() uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return uint(f.f.ApproximatedSize())
}

// key drops a trailing slash so "https://a.io/x/" and "https://a.io/x"
// dedup together.
func key(url string) string {
	if strings.Count(url, "/") > 3 {
		return strings.TrimSuffix(url, "/")
	}
	return url
}
