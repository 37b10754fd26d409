package goquery

import (
	"errors"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/digest"
	"golang.org/x/sync/errgroup"
)

// Ensure Parser implements digest.Parser.
var _ digest.Parser = (*Parser)(nil)

// DefaultConcurrency is the number of documents ParseAll parses at once.
const DefaultConcurrency = 8

// Parser assembles ParsedContent from metadata and main content.
type Parser struct {
	// Extractor isolates the main content. Defaults to ContainerExtractor.
	Extractor digest.Extractor

	// Concurrency bounds ParseAll. Values below 1 use DefaultConcurrency.
	Concurrency int

	// Now returns the extraction timestamp. Defaults to time.Now.
	Now func() time.Time
}

// NewParser creates a Parser with the default container extractor.
func NewParser() *Parser {
	return &Parser{
		Extractor:   NewContainerExtractor(),
		Concurrency: DefaultConcurrency,
		Now:         time.Now,
	}
}

// Parse extracts structured data from html. It never panics and never
// returns nil: every failure is reported as a failed ParsedContent.
func (p *Parser) Parse(html, sourceURL string) (result *digest.ParsedContent) {
	now := p.now()

	if !HasHTML(html) {
		return digest.NewFailedContent(now, digest.ErrNoHTML)
	}

	defer func() {
		if r := recover(); r != nil {
			result = digest.NewFailedContent(now, panicMessage(r))
		}
	}()

	fields, err := p.extract(html, sourceURL)
	if err != nil {
		return digest.NewFailedContent(now, errorMessage(err))
	}
	return digest.NewParsedContent(now, fields)
}

// ParseAll parses docs concurrently and returns results in input order.
// A failing document does not affect the others.
func (p *Parser) ParseAll(docs []digest.RawDocument) []*digest.ParsedContent {
	results := make([]*digest.ParsedContent, len(docs))

	var g errgroup.Group
	g.SetLimit(p.concurrency())
	for i, doc := range docs {
		g.Go(func() error {
			results[i] = p.Parse(doc.HTML, doc.SourceURL)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// HasHTML reports whether html passes the parse precondition: it must be
// non-empty and contain the substring "<html".
func HasHTML(html string) bool {
	return html != "" && strings.Contains(html, "<html")
}

func (p *Parser) extract(html, sourceURL string) (digest.ParsedFields, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return digest.ParsedFields{}, digest.Errorf(digest.EINVALID, "failed to parse HTML: %v", err)
	}
	meta := ExtractMetadata(doc, sourceURL)

	extracted, err := p.extractor().Extract(html)
	if err != nil {
		return digest.ParsedFields{}, err
	}
	content, err := CollectParagraphs(extracted.ContentHTML)
	if err != nil {
		return digest.ParsedFields{}, err
	}

	author := meta.Author
	if byline := CleanText(extracted.Byline); author == nil && byline != "" {
		author = &byline
	}

	return digest.ParsedFields{
		SourceURL:   meta.SourceURL,
		Title:       firstNonEmpty(meta.Title, CleanText(extracted.Title)),
		Author:      author,
		PublishDate: meta.PublishDate,
		Summary:     firstNonEmpty(meta.Summary, CleanText(extracted.Excerpt)),
		Content:     content,
		Language:    meta.Language,
	}, nil
}

func (p *Parser) extractor() digest.Extractor {
	if p.Extractor == nil {
		return NewContainerExtractor()
	}
	return p.Extractor
}

func (p *Parser) concurrency() int {
	if p.Concurrency < 1 {
		return DefaultConcurrency
	}
	return p.Concurrency
}

func (p *Parser) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

// panicMessage returns the message carried by a recovered panic value.
func panicMessage(r any) string {
	switch v := r.(type) {
	case error:
		return errorMessage(v)
	case string:
		return v
	}
	return digest.ErrUnknownParse
}

// errorMessage prefers the message of an application error over its
// formatted form.
func errorMessage(err error) string {
	var appErr *digest.Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
