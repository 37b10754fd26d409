// Package http provides an HTTP-based implementation of digest.Fetcher for
// article pages that don't require JavaScript rendering.
package http

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/fwojciec/digest"
	"github.com/temoto/robotstxt"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
// Kept consistent with rod.DefaultFetchTimeout (10s).
const DefaultFetchTimeout = 10 * time.Second

// DefaultUserAgent identifies the fetcher to remote sites and robots.txt.
const DefaultUserAgent = "digest/1.0 (+newsletter link reader)"

// DefaultMaxBodySize caps the number of bytes read from a response.
const DefaultMaxBodySize = 5 << 20

// Ensure Fetcher implements digest.Fetcher at compile time.
var _ digest.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using HTTP requests.
// Unlike rod.Fetcher, this does not execute JavaScript.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	maxBodySize int64
	robots      bool

	mu          sync.Mutex
	robotsCache map[string]*robotstxt.RobotsData // nil entry: no usable robots.txt
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header and the robots.txt agent name.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize limits how many bytes of a response body are read.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// WithRobots makes the Fetcher honour robots.txt. Disallowed URLs fail with
// EUNAUTHORIZED. Hosts whose robots.txt cannot be read are allowed.
func WithRobots() Option {
	return func(f *Fetcher) {
		f.robots = true
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
		robotsCache: make(map[string]*robotstxt.RobotsData),
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the HTML content from the given URL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", digest.Errorf(digest.EINVALID, "invalid URL %q", rawURL)
	}

	if f.robots && !f.allowed(ctx, u) {
		return "", digest.Errorf(digest.EUNAUTHORIZED, "disallowed by robots.txt: %s", rawURL)
	}

	resp, err := f.get(ctx, rawURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return "", digest.Errorf(digest.ENOTFOUND, "HTTP %d for %s", resp.StatusCode, rawURL)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", digest.Errorf(digest.EUNAUTHORIZED, "HTTP %d for %s", resp.StatusCode, rawURL)
	case resp.StatusCode != http.StatusOK:
		return "", digest.Errorf(digest.EINTERNAL, "HTTP %d for %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	return f.client.Do(req)
}

// allowed reports whether robots.txt of u's host permits fetching u.
func (f *Fetcher) allowed(ctx context.Context, u *url.URL) bool {
	key := u.Scheme + "://" + u.Host

	f.mu.Lock()
	robots, ok := f.robotsCache[key]
	f.mu.Unlock()

	if !ok {
		robots = f.fetchRobots(ctx, key)
		f.mu.Lock()
		f.robotsCache[key] = robots
		f.mu.Unlock()
	}

	if robots == nil {
		return true
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return robots.TestAgent(path, f.userAgent)
}

func (f *Fetcher) fetchRobots(ctx context.Context, origin string) *robotstxt.RobotsData {
	resp, err := f.get(ctx, origin+"/robots.txt")
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	robots, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil
	}
	return robots
}
