// Package slog provides log/slog decorators for the digest pipeline
// interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/digest"
)

// Ensure LoggingFetcher implements digest.Fetcher.
var _ digest.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   digest.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next digest.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the outcome. Dead links
// are routine in newsletters, so ENOTFOUND is logged at info level.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		attrs := []any{"url", url, "bytes", len(html), "duration", time.Since(begin)}
		level := slog.LevelInfo
		if err != nil {
			attrs = append(attrs, "code", digest.ErrorCode(err), "err", err)
			if digest.ErrorCode(err) != digest.ENOTFOUND {
				level = slog.LevelWarn
			}
		}
		f.logger.Log(ctx, level, "fetch", attrs...)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
