package goquery

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/digest"
)

// Ensure LinkExtractor implements digest.LinkExtractor.
var _ digest.LinkExtractor = (*LinkExtractor)(nil)

var (
	bareURLPattern = regexp.MustCompile(`https?://[^\s<>"'()\[\]]+`)
	optOutPattern  = regexp.MustCompile(`(?i)unsubscribe|opt-?out|email-?preferences|manage-?preferences|preference-?cent(?:er|re)|list-manage\.com/profile`)
)

const (
	trailingPunct   = ".,;:!?"
	maxLinksPerBody = 500
)

// LinkExtractor finds the article links in newsletter email bodies.
type LinkExtractor struct{}

// NewLinkExtractor creates a new LinkExtractor.
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{}
}

// ExtractLinks returns the distinct HTTP(S) URLs in body in order of first
// appearance. Anchors are read from HTML and bare URLs from the remaining
// text. Non-HTTP schemes and unsubscribe or preference links are dropped
// and fragments are stripped.
func (e *LinkExtractor) ExtractLinks(body string) ([]string, error) {
	if strings.TrimSpace(body) == "" {
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, digest.Errorf(digest.EINVALID, "failed to parse email body: %v", err)
	}

	seen := make(map[string]bool)
	var links []string
	add := func(href string) {
		if len(links) >= maxLinksPerBody {
			return
		}
		normalized := normalizeLink(href)
		if normalized == "" || seen[normalized] {
			return
		}
		seen[normalized] = true
		links = append(links, normalized)
	}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		add(sel.AttrOr("href", ""))
	})

	// Bare URLs in text nodes, which also covers plain-text bodies.
	doc.Find("script, style").Remove()
	for _, match := range bareURLPattern.FindAllString(doc.Text(), -1) {
		add(strings.TrimRight(match, trailingPunct))
	}

	return links, nil
}

// normalizeLink returns href without its fragment, or "" when the link is
// not an absolute HTTP(S) URL worth following.
func normalizeLink(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || isNonHTTPLink(href) || optOutPattern.MatchString(href) {
		return ""
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return ""
	}
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
