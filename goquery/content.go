package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/digest"
)

// Ensure ContainerExtractor implements digest.Extractor.
var _ digest.Extractor = (*ContainerExtractor)(nil)

// MinParagraphLength is the length a block's cleaned text must exceed to be
// kept as content.
const MinParagraphLength = 40

// boilerplateSelector matches elements removed before content isolation.
const boilerplateSelector = "script, style, nav, header, footer, aside"

// blockSelector matches the text blocks collected as content.
const blockSelector = "p, li, h1, h2, h3, h4, h5, h6, blockquote"

// containerSelectors lists candidate content containers in priority order.
// Earlier selectors win ties.
var containerSelectors = []string{
	"article",
	"main",
	`[class*="wp-block-post-content"]`,
	`[class*="entry-content"]`,
	`[class*="post-content"]`,
	`[class*="article-content"]`,
	`[class*="content"]`,
	`[class*="post"]`,
	`[class*="article"]`,
}

// ContainerExtractor isolates the main content by picking the candidate
// container with the largest inner HTML.
type ContainerExtractor struct{}

// NewContainerExtractor creates a new ContainerExtractor.
func NewContainerExtractor() *ContainerExtractor {
	return &ContainerExtractor{}
}

// Extract strips boilerplate elements from html and returns the inner HTML
// of the largest container. Documents without any candidate return the whole
// stripped document.
func (e *ContainerExtractor) Extract(html string) (*digest.ExtractResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, digest.Errorf(digest.EINVALID, "failed to parse HTML: %v", err)
	}

	doc.Find(boilerplateSelector).Remove()

	var best string
	for _, selector := range containerSelectors {
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			inner, err := s.Html()
			if err != nil {
				return
			}
			if len(inner) > len(best) {
				best = inner
			}
		})
	}

	if best == "" {
		best, err = doc.Html()
		if err != nil {
			return nil, digest.Errorf(digest.EINTERNAL, "failed to render HTML: %v", err)
		}
	}

	return &digest.ExtractResult{ContentHTML: best}, nil
}

// CollectParagraphs joins the cleaned text of every paragraph, list item,
// heading and blockquote in html with blank lines. Nested blocks are covered
// by their outermost block. Blocks of MinParagraphLength characters or fewer
// are dropped.
func CollectParagraphs(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", digest.Errorf(digest.EINVALID, "failed to parse HTML: %v", err)
	}

	var parts []string
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		if s.ParentsFiltered(blockSelector).Length() > 0 {
			return
		}
		text := CleanText(s.Text())
		if textLen(text) <= MinParagraphLength {
			return
		}
		parts = append(parts, text)
	})
	return strings.Join(parts, "\n\n"), nil
}

// ExtractMainContent returns the paragraph text of the largest content
// container in html, or "" when nothing can be extracted.
func ExtractMainContent(html string) string {
	res, err := NewContainerExtractor().Extract(html)
	if err != nil {
		return ""
	}
	text, err := CollectParagraphs(res.ContentHTML)
	if err != nil {
		return ""
	}
	return text
}
