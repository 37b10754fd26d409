package digest

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultSummaryLength is the default maximum summary length in characters.
const DefaultSummaryLength = 500

// SummaryRequest is the input to a Summarizer.
type SummaryRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	MaxLength int    `json:"maxLength"`
}

// Summary is a generated summary and the provider that produced it.
// Error is set when the summary is a degraded fallback.
type Summary struct {
	Summary  string `json:"summary"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Error    string `json:"error,omitempty"`
}

// Summarizer produces short summaries of article content.
type Summarizer interface {
	Summarize(ctx context.Context, req SummaryRequest) (*Summary, error)
}

// Limit returns MaxLength, or DefaultSummaryLength when unset.
func (r SummaryRequest) Limit() int {
	if r.MaxLength <= 0 {
		return DefaultSummaryLength
	}
	return r.MaxLength
}

// Validate returns an error if there is nothing to summarize.
func (r SummaryRequest) Validate() error {
	if strings.TrimSpace(r.Content) == "" {
		return Errorf(EINVALID, "summary content required")
	}
	return nil
}

// SummaryInstruction is the system instruction shared by model-backed
// summarizers.
const SummaryInstruction = "You summarize articles linked from email newsletters. " +
	"Write plain prose without markdown, preamble or commentary. " +
	"Stay factual and only use information present in the article."

// SummaryPrompt renders the user prompt for req.
func SummaryPrompt(req SummaryRequest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Summarize the following article in at most %d characters.\n\n", req.Limit())
	if req.Title != "" {
		fmt.Fprintf(&sb, "<title>%s</title>\n", req.Title)
	}
	fmt.Fprintf(&sb, "<content>%s</content>", req.Content)
	return sb.String()
}

// TruncateText shortens s to at most max characters, cutting at the last
// word boundary and appending "..." when anything was removed.
func TruncateText(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	const ellipsis = "..."
	if max <= len(ellipsis) {
		return string([]rune(s)[:max])
	}
	cut := string([]rune(s)[:max-len(ellipsis)])
	if i := strings.LastIndexAny(cut, " \n\t"); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;:.") + ellipsis
}
