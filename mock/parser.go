package mock

import "github.com/fwojciec/digest"

var _ digest.Parser = (*Parser)(nil)

// Parser is a mock implementation of digest.Parser.
type Parser struct {
	ParseFn    func(html, sourceURL string) *digest.ParsedContent
	ParseAllFn func(docs []digest.RawDocument) []*digest.ParsedContent
}

func (p *Parser) Parse(html, sourceURL string) *digest.ParsedContent {
	return p.ParseFn(html, sourceURL)
}

func (p *Parser) ParseAll(docs []digest.RawDocument) []*digest.ParsedContent {
	return p.ParseAllFn(docs)
}
