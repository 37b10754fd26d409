package mock

import "github.com/fwojciec/digest"

var _ digest.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of digest.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*digest.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*digest.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ digest.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of digest.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(body string) ([]string, error)
}

func (e *LinkExtractor) ExtractLinks(body string) ([]string, error) {
	return e.ExtractLinksFn(body)
}
