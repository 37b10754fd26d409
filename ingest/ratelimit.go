package ingest

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/fwojciec/digest"
	"golang.org/x/time/rate"
)

// DefaultRequestsPerSecond is the per-host request rate used by ingest.
const DefaultRequestsPerSecond = 2

var _ digest.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter rate-limits requests per host with one token bucket each.
// Newsletters often link several stories on the same site, so requests to
// one host are spaced while different hosts proceed in parallel.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int
}

// NewDomainLimiter creates a DomainLimiter allowing rps requests per second
// per host with a burst of 1.
func NewDomainLimiter(rps float64) *DomainLimiter {
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
		burst:    1,
	}
}

// Wait blocks until a request to host is allowed. Hosts are compared
// case-insensitively with any leading "www." removed.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	key := strings.TrimPrefix(strings.ToLower(host), "www.")

	d.mu.Lock()
	limiter, ok := d.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(d.rps), d.burst)
		d.limiters[key] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}

// hostOf returns the host of rawURL, or rawURL itself if it does not parse.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Hostname()
}
