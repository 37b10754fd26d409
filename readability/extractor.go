// Package readability adapts go-readability to the digest.Extractor interface
// so the Parser can use Mozilla's readability scoring instead of the
// container heuristic.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/digest"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements digest.Extractor at compile time.
var _ digest.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to isolate the article body of a page.
type Extractor struct {
	// PageURL resolves relative links in the extracted content. Optional.
	PageURL *url.URL
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the readable article body together
// with the title, byline and excerpt readability detected.
func (e *Extractor) Extract(rawHTML string) (*digest.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, digest.Errorf(digest.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), e.PageURL)
	if err != nil {
		return nil, digest.Errorf(digest.EINVALID, "readability: %v", err)
	}

	return &digest.ExtractResult{
		Title:       article.Title,
		Byline:      article.Byline,
		Excerpt:     article.Excerpt,
		ContentHTML: article.Content,
	}, nil
}
