package digest

import (
	"fmt"
	"strings"
)

// FormatLinks formats links for display.
// Uses title if available, falls back to URL.
// Links are separated by blank lines.
func FormatLinks(links []*Link) string {
	if len(links) == 0 {
		return ""
	}

	parts := make([]string, 0, len(links))
	for _, link := range links {
		header := link.Title
		if header == "" {
			header = link.URL
		}
		var b strings.Builder
		fmt.Fprintf(&b, "## [%s] %s\n%s", link.Type, header, link.URL)
		if link.Summary != "" {
			b.WriteString("\n\n" + link.Summary)
		}
		parts = append(parts, b.String())
	}

	return strings.Join(parts, "\n\n")
}
