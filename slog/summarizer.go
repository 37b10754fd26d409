package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/digest"
)

// Ensure LoggingSummarizer implements digest.Summarizer.
var _ digest.Summarizer = (*LoggingSummarizer)(nil)

// LoggingSummarizer wraps a Summarizer with logging.
type LoggingSummarizer struct {
	next   digest.Summarizer
	logger *slog.Logger
}

// NewLoggingSummarizer creates a new LoggingSummarizer.
func NewLoggingSummarizer(next digest.Summarizer, logger *slog.Logger) *LoggingSummarizer {
	return &LoggingSummarizer{next: next, logger: logger}
}

// Summarize delegates to the wrapped summarizer and logs provider, length
// and any degradation.
func (s *LoggingSummarizer) Summarize(ctx context.Context, req digest.SummaryRequest) (summary *digest.Summary, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"title", req.Title,
			"input", len(req.Content),
			"duration", time.Since(begin),
		}
		if summary != nil {
			attrs = append(attrs, "provider", summary.Provider, "model", summary.Model, "chars", len(summary.Summary))
			if summary.Error != "" {
				attrs = append(attrs, "degraded", summary.Error)
			}
		}
		if err != nil {
			s.logger.Warn("summarize", append(attrs, "err", err)...)
			return
		}
		s.logger.Info("summarize", attrs...)
	}(time.Now())
	return s.next.Summarize(ctx, req)
}
