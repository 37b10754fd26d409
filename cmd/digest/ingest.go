package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/digest"
	"github.com/fwojciec/digest/ingest"
)

// Run executes the ingest command.
func (c *IngestCmd) Run(deps *Dependencies) error {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	since, err := parseSince(c.Since, now())
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", digest.ErrorMessage(err))
		return err
	}

	emails, err := deps.Emails.FetchEmails(deps.Ctx, since)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", digest.ErrorMessage(err))
		return err
	}
	if len(emails) == 0 {
		fmt.Fprintln(deps.Stdout, "No emails found.")
		return nil
	}

	progress := func(event ingest.ProgressEvent) {
		switch event.Type {
		case ingest.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Found %d emails\n", event.Total)
		case ingest.ProgressEmail:
			fmt.Fprintf(deps.Stdout, "[%d/%d] %s\n", event.Completed, event.Total, event.Subject)
		case ingest.ProgressEmailSkipped:
			fmt.Fprintf(deps.Stdout, "[%d/%d] %s (already processed)\n", event.Completed, event.Total, event.Subject)
		case ingest.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "  %-10s %s\n", event.LinkType, ingest.TruncateURL(event.URL, 80))
		case ingest.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  fail %s: %v\n", ingest.TruncateURL(event.URL, 80), event.Error)
		}
	}

	result, err := deps.Ingester.Ingest(deps.Ctx, emails, progress)
	if result != nil {
		fmt.Fprintln(deps.Stdout, ingest.FormatResult(result))
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error ingesting: %v\n", err)
	}

	if c.MetricsFile != "" && deps.Metrics != nil {
		if werr := deps.Metrics.WriteTextfile(c.MetricsFile); werr != nil {
			fmt.Fprintf(deps.Stderr, "error: write metrics: %v\n", werr)
			if err == nil {
				err = werr
			}
		}
	}
	return err
}

// parseSince accepts a date (2006-01-02), an RFC 3339 timestamp or a
// duration relative to now. Empty means no lower bound.
func parseSince(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		return now.Add(-d), nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, digest.Errorf(digest.EINVALID, "invalid --since %q: use a date (2006-01-02) or a duration (72h)", s)
}
