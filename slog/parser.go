package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/digest"
)

// Ensure LoggingParser implements digest.Parser.
var _ digest.Parser = (*LoggingParser)(nil)

// LoggingParser wraps a Parser with logging.
type LoggingParser struct {
	next   digest.Parser
	logger *slog.Logger
}

// NewLoggingParser creates a new LoggingParser.
func NewLoggingParser(next digest.Parser, logger *slog.Logger) *LoggingParser {
	return &LoggingParser{next: next, logger: logger}
}

// Parse delegates to the wrapped parser and logs the result.
func (p *LoggingParser) Parse(html, sourceURL string) (result *digest.ParsedContent) {
	defer func(begin time.Time) {
		p.logParse(sourceURL, len(html), result, time.Since(begin))
	}(time.Now())
	return p.next.Parse(html, sourceURL)
}

// ParseAll delegates to the wrapped parser and logs a batch summary.
func (p *LoggingParser) ParseAll(docs []digest.RawDocument) (results []*digest.ParsedContent) {
	defer func(begin time.Time) {
		failed := 0
		for _, r := range results {
			if r == nil || !r.Success {
				failed++
			}
		}
		p.logger.Info("parse batch",
			"documents", len(docs),
			"failed", failed,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return p.next.ParseAll(docs)
}

func (p *LoggingParser) logParse(sourceURL string, size int, result *digest.ParsedContent, d time.Duration) {
	if result == nil {
		p.logger.Error("parse", "url", sourceURL, "bytes", size, "duration", d, "err", "nil result")
		return
	}
	if !result.Success {
		p.logger.Warn("parse",
			"url", sourceURL,
			"bytes", size,
			"duration", d,
			"err", result.Error,
		)
		return
	}
	p.logger.Info("parse",
		"url", sourceURL,
		"bytes", size,
		"title", result.Title,
		"words", result.WordCount,
		"type", string(result.ContentType),
		"duration", d,
	)
}
