// Package rod implements digest.Fetcher with headless Chrome for pages that
// only render their content with JavaScript, such as x.com posts.
package rod

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fwojciec/digest"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a single page load.
const DefaultFetchTimeout = 10 * time.Second

// Ensure Fetcher implements digest.Fetcher at compile time.
var _ digest.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	browser   *browser
	timeout   time.Duration
	settle    time.Duration
	userAgent string
	maxPages  int64
	closed    atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the timeout for a single page load.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithSettle waits for the page to stop changing for d after load. Feeds
// and social posts keep rendering after the load event.
func WithSettle(d time.Duration) Option {
	return func(f *Fetcher) {
		f.settle = d
	}
}

// WithUserAgent overrides the browser user agent.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithBrowserRecycling sets how many pages the browser serves before it is
// restarted.
func WithBrowserRecycling(maxPages int64) Option {
	return func(f *Fetcher) {
		f.maxPages = maxPages
	}
}

// NewFetcher creates a new Fetcher backed by a recycling headless Chrome.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:  DefaultFetchTimeout,
		maxPages: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.maxPages <= 0 {
		f.maxPages = DefaultMaxPages
	}

	b, err := launchBrowser(f.maxPages)
	if err != nil {
		return nil, err
	}
	f.browser = b
	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", digest.Errorf(digest.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	rb, err := f.browser.acquire()
	if err != nil {
		return "", digest.Errorf(digest.EINTERNAL, "%v", err)
	}
	defer f.browser.release()

	page, err := rb.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()

	page = page.Context(ctx)

	if f.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.userAgent}); err != nil {
			return "", err
		}
	}

	if err := page.Navigate(url); err != nil {
		return "", contextError(ctx, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", contextError(ctx, err)
	}
	if f.settle > 0 {
		if err := page.WaitStable(f.settle); err != nil {
			return "", contextError(ctx, err)
		}
	}

	html, err := page.HTML()
	if err != nil {
		return "", contextError(ctx, err)
	}
	return html, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.browser.close()
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.browser.pid()
}

// contextError prefers the context's error so callers can match
// context.DeadlineExceeded and context.Canceled.
func contextError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}
