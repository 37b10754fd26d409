package ingest

import (
	"fmt"
	"strings"
)

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatBytes formats bytes in human-readable form.
func FormatBytes(bytes int) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatTokens formats token count in human-readable form.
func FormatTokens(tokens int) string {
	if tokens < 1000 {
		return fmt.Sprintf("~%d tokens", tokens)
	}
	return fmt.Sprintf("~%dk tokens", (tokens+500)/1000)
}

// FormatResult renders a one-line run summary, e.g.
// "3 emails, 41 links: 30 saved, 9 skipped, 2 failed (1.2 MB, ~18k tokens)".
func FormatResult(r *Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d emails, %d links: %d saved, %d skipped, %d failed",
		r.Emails, r.Links, r.Saved, r.Skipped, r.Failed)
	if r.Bytes > 0 || r.Tokens > 0 {
		fmt.Fprintf(&b, " (%s, %s)", FormatBytes(r.Bytes), FormatTokens(r.Tokens))
	}
	if r.EmailsSkipped > 0 {
		fmt.Fprintf(&b, "; %d emails already processed", r.EmailsSkipped)
	}
	return b.String()
}
