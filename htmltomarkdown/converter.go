// Package htmltomarkdown converts newsletter email bodies to Markdown with
// html-to-markdown.
package htmltomarkdown

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/digest"
)

// Ensure Converter implements digest.Converter at compile time.
var _ digest.Converter = (*Converter)(nil)

// emailNoiseSelector matches markup that carries no readable content in
// newsletter emails: tracking pixels and hidden preheader text.
const emailNoiseSelector = `head, script, style, img[width="1"], img[height="1"], [style*="display:none"], [style*="display: none"]`

var blankLines = regexp.MustCompile(`\n{3,}`)

// Converter wraps html-to-markdown to convert email HTML to Markdown.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert strips tracking pixels and hidden preheaders from html and returns
// the remaining content as Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", digest.Errorf(digest.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", digest.Errorf(digest.EINVALID, "failed to parse HTML: %v", err)
	}
	doc.Find(emailNoiseSelector).Remove()

	body, err := doc.Find("body").Html()
	if err != nil {
		return "", digest.Errorf(digest.EINTERNAL, "failed to render HTML: %v", err)
	}

	md, err := c.conv.ConvertString(body)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(blankLines.ReplaceAllString(md, "\n\n")), nil
}
