package ingest

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/digest"
)

// FallbackProvider is the Summary.Provider of a string-based summary.
const FallbackProvider = "fallback"

var _ digest.Summarizer = (*FallbackSummarizer)(nil)

// FallbackSummarizer tries each provider in order and returns the first
// non-empty summary. When every provider fails it builds a summary from the
// leading sentences of the content and records the last provider error.
type FallbackSummarizer struct {
	providers []digest.Summarizer
}

// NewFallbackSummarizer creates a FallbackSummarizer over providers.
// With no providers every summary is string-based.
func NewFallbackSummarizer(providers ...digest.Summarizer) *FallbackSummarizer {
	return &FallbackSummarizer{providers: providers}
}

// Summarize implements digest.Summarizer. It only returns an error for an
// invalid request or a cancelled context.
func (s *FallbackSummarizer) Summarize(ctx context.Context, req digest.SummaryRequest) (*digest.Summary, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var lastErr error
	for _, p := range s.providers {
		summary, err := p.Summarize(ctx, req)
		if err == nil && summary != nil && strings.TrimSpace(summary.Summary) != "" {
			return summary, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err == nil {
			err = digest.Errorf(digest.EINTERNAL, "empty summary")
		}
		lastErr = err
	}

	out := &digest.Summary{
		Summary:  LeadSummary(req.Content, req.Limit()),
		Provider: FallbackProvider,
	}
	if lastErr != nil {
		out.Error = errorMessage(lastErr)
	}
	return out, nil
}

var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]+["')\]]*`)

// LeadSummary returns as many leading sentences of content as fit in max
// characters. If not even the first sentence fits, the content is
// truncated at a word boundary.
func LeadSummary(content string, max int) string {
	text := strings.Join(strings.Fields(content), " ")
	var b strings.Builder
	for _, sentence := range sentencePattern.FindAllString(text, -1) {
		sentence = strings.TrimSpace(sentence)
		next := sentence
		if b.Len() > 0 {
			next = " " + sentence
		}
		if utf8.RuneCountInString(b.String())+utf8.RuneCountInString(next) > max {
			break
		}
		b.WriteString(next)
	}
	if b.Len() == 0 {
		return digest.TruncateText(text, max)
	}
	return b.String()
}

// errorMessage prefers the human-readable message of a domain error.
func errorMessage(err error) string {
	var e *digest.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
