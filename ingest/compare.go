package ingest

import "github.com/fwojciec/digest"

// renderGain is the word-count ratio a rendered page must exceed to replace
// the plain fetch.
const renderGain = 1.5

// NeedsRender reports whether a plain HTTP parse looks like a page that
// builds its content with JavaScript: the parse failed or found only
// minimal content.
func NeedsRender(p *digest.ParsedContent) bool {
	return p == nil || !p.Success || p.ContentType == digest.ContentMinimal
}

// RenderedRicher reports whether the rendered parse carries substantially
// more content than the plain one: over 50% more words, or any words when
// the plain parse has none. A failed rendered parse never wins.
func RenderedRicher(plain, rendered *digest.ParsedContent) bool {
	if rendered == nil || !rendered.Success {
		return false
	}
	if plain == nil || !plain.Success || plain.WordCount == 0 {
		return rendered.WordCount > 0
	}
	return float64(rendered.WordCount) > float64(plain.WordCount)*renderGain
}
