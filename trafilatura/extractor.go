// Package trafilatura adapts go-trafilatura to the digest.Extractor
// interface.
package trafilatura

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/fwojciec/digest"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements digest.Extractor at compile time.
var _ digest.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to isolate the article body of a page.
type Extractor struct {
	// PageURL is passed to trafilatura as the original page URL. Optional.
	PageURL *url.URL

	// Precision favours precision over recall when true.
	Precision bool
}

// NewExtractor creates a new Extractor with fallback extractors enabled.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content with the title,
// author and description trafilatura found.
func (e *Extractor) Extract(rawHTML string) (*digest.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, digest.Errorf(digest.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback:  true,
		OriginalURL:     e.PageURL,
		ExcludeComments: true,
	}
	if e.Precision {
		opts.Focus = trafilatura.FavorPrecision
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, digest.Errorf(digest.EINVALID, "trafilatura: %v", err)
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, digest.Errorf(digest.EINTERNAL, "failed to render content: %v", err)
		}
	}

	return &digest.ExtractResult{
		Title:       result.Metadata.Title,
		Byline:      result.Metadata.Author,
		Excerpt:     result.Metadata.Description,
		ContentHTML: contentHTML,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
