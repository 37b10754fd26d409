// Package goquery implements the HTML extraction pipeline with goquery:
// metadata extraction, main-content isolation, paragraph collection, the
// assembling Parser and link discovery in email bodies.
package goquery

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	tagPattern    = regexp.MustCompile(`<[^>]*>`)
	nbspPattern   = regexp.MustCompile(`(?i)&nbsp;`)
	entityPattern = regexp.MustCompile(`&#?[a-zA-Z0-9]+;`)
)

// CleanText strips tags, turns &nbsp; and any other entity into a space,
// collapses whitespace runs and trims the result.
func CleanText(s string) string {
	s = tagPattern.ReplaceAllString(s, "")
	s = nbspPattern.ReplaceAllString(s, " ")
	s = entityPattern.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// textLen returns the length of s in characters.
func textLen(s string) int {
	return utf8.RuneCountInString(s)
}

// firstNonEmpty returns the first value that is not blank.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
