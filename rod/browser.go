package rod

import (
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the number of pages a browser renders before it is
// restarted. Chrome's resident memory grows with every page and never falls
// back to its baseline.
const DefaultMaxPages = 75

// browser owns one headless Chrome process and restarts it after maxPages
// pages. It is safe for concurrent use.
type browser struct {
	mu       sync.Mutex
	current  *rod.Browser
	launcher *launcher.Launcher
	served   int64
	maxPages int64
	closed   bool
}

func launchBrowser(maxPages int64) (*browser, error) {
	b := &browser{maxPages: maxPages}
	if err := b.start(); err != nil {
		return nil, err
	}
	return b, nil
}

// acquire returns the running browser, restarting it first when it has
// served maxPages pages. Pair every acquire with a call to release.
func (b *browser) acquire() (*rod.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, fmt.Errorf("browser closed")
	}
	if b.served >= b.maxPages {
		b.restart()
	}
	if b.current == nil {
		return nil, fmt.Errorf("browser unavailable")
	}
	return b.current, nil
}

func (b *browser) release() {
	b.mu.Lock()
	b.served++
	b.mu.Unlock()
}

func (b *browser) pid() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.launcher == nil {
		return 0
	}
	return b.launcher.PID()
}

func (b *browser) close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	return b.stop(b.current, b.launcher)
}

// start launches Chrome with images disabled; only the DOM is read.
// Must be called with mu held or before b is shared.
func (b *browser) start() error {
	l := launcher.New().
		Set("blink-settings", "imagesEnabled=false").
		Set("disable-background-timer-throttling").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	controlURL, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}
	rb := rod.New().ControlURL(controlURL)
	if err := rb.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}
	b.current, b.launcher = rb, l
	return nil
}

// restart swaps in a fresh Chrome. On launch failure the old one is kept
// and the count is left alone so the next acquire tries again.
// Must be called with mu held.
func (b *browser) restart() {
	old, oldLauncher := b.current, b.launcher
	if err := b.start(); err != nil {
		return
	}
	_ = b.stop(old, oldLauncher)
	b.served = 0
}

func (b *browser) stop(rb *rod.Browser, l *launcher.Launcher) error {
	var err error
	if rb != nil {
		err = rb.Close()
	}
	if l != nil {
		l.Kill()
	}
	return err
}
