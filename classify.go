package digest

import (
	"net/url"
	"regexp"
	"strings"
)

// LinkType is the content-type tag assigned to a URL found in a newsletter.
type LinkType string

// Link types produced by the classifier. Every URL maps to exactly one tag;
// LinkArticle is the catch-all. LinkYouTube is only produced by the
// extended rule set.
const (
	LinkPDF        LinkType = "pdf"
	LinkX          LinkType = "x"
	LinkReddit     LinkType = "reddit"
	LinkYouTube    LinkType = "youtube"
	LinkJob        LinkType = "job"
	LinkAdvertiser LinkType = "advertiser"
	LinkArticle    LinkType = "article"
)

// LinkTypes returns every known link type in classification priority order.
func LinkTypes() []LinkType {
	return []LinkType{LinkPDF, LinkX, LinkReddit, LinkYouTube, LinkJob, LinkAdvertiser, LinkArticle}
}

// ParseLinkType validates s against the link type enumeration.
func ParseLinkType(s string) (LinkType, error) {
	for _, t := range LinkTypes() {
		if string(t) == strings.ToLower(strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return "", Errorf(EINVALID, "unknown link type %q", s)
}

// Rule maps URLs satisfying Match to Type. Match receives the lower-cased
// raw URL and its parsed form, which is nil when the URL does not parse.
type Rule struct {
	Name  string
	Type  LinkType
	Match func(raw string, u *url.URL) bool
}

var (
	jobPattern        = regexp.MustCompile(`careers|jobs|greenhouse\.io|lever\.co`)
	advertiserPattern = regexp.MustCompile(`ads|ad|advertis`)
)

// PDFRule matches URLs whose path ends in .pdf or has a "pdf" path segment.
var PDFRule = Rule{Name: "pdf", Type: LinkPDF, Match: func(raw string, u *url.URL) bool {
	path := raw
	if u != nil {
		path = u.Path
	}
	if strings.HasSuffix(path, ".pdf") {
		return true
	}
	for _, seg := range strings.Split(path, "/") {
		if seg == "pdf" {
			return true
		}
	}
	return false
}}

// XRule matches x.com and twitter.com hosts, including subdomains.
var XRule = Rule{Name: "x", Type: LinkX, Match: func(raw string, u *url.URL) bool {
	return hostMatches(raw, u, "x.com", "twitter.com")
}}

// RedditRule matches reddit.com hosts, including subdomains.
var RedditRule = Rule{Name: "reddit", Type: LinkReddit, Match: func(raw string, u *url.URL) bool {
	return hostMatches(raw, u, "reddit.com")
}}

// YouTubeRule matches youtube.com and youtu.be hosts.
var YouTubeRule = Rule{Name: "youtube", Type: LinkYouTube, Match: func(raw string, u *url.URL) bool {
	return hostMatches(raw, u, "youtube.com", "youtu.be")
}}

// JobRule matches career pages and hosted job boards.
var JobRule = Rule{Name: "job", Type: LinkJob, Match: func(raw string, _ *url.URL) bool {
	return jobPattern.MatchString(raw)
}}

// AdvertiserRule matches any URL containing "ad", "ads" or "advertis".
// The match is a plain substring, so hosts such as adweek.com qualify.
var AdvertiserRule = Rule{Name: "advertiser", Type: LinkAdvertiser, Match: func(raw string, _ *url.URL) bool {
	return advertiserPattern.MatchString(raw)
}}

// TrackingRule treats any URL carrying a utm_* query parameter as an
// advertiser link. Most newsletter links are utm-tagged, so the rule is only
// part of the extended set.
var TrackingRule = Rule{Name: "utm", Type: LinkAdvertiser, Match: func(_ string, u *url.URL) bool {
	if u == nil {
		return false
	}
	for key := range u.Query() {
		if strings.HasPrefix(key, "utm") {
			return true
		}
	}
	return false
}}

// StandardRules returns the canonical six-tag rule set in priority order.
func StandardRules() []Rule {
	return []Rule{PDFRule, XRule, RedditRule, JobRule, AdvertiserRule}
}

// ExtendedRules returns the superset of all rules in priority order:
// StandardRules plus YouTubeRule after RedditRule and TrackingRule after
// AdvertiserRule.
func ExtendedRules() []Rule {
	return []Rule{PDFRule, XRule, RedditRule, YouTubeRule, JobRule, AdvertiserRule, TrackingRule}
}

// Classifier assigns link types by evaluating rules in order.
// The first matching rule wins; unmatched URLs are articles.
type Classifier struct {
	rules []Rule
}

// NewClassifier returns a Classifier using rules in the given order.
// With no rules every URL is classified as an article.
func NewClassifier(rules ...Rule) *Classifier {
	return &Classifier{rules: rules}
}

// Classify returns the link type for rawURL. It never fails.
func (c *Classifier) Classify(rawURL string) LinkType {
	raw := strings.ToLower(strings.TrimSpace(rawURL))
	u, err := url.Parse(raw)
	if err != nil {
		u = nil
	}
	for _, r := range c.rules {
		if r.Match(raw, u) {
			return r.Type
		}
	}
	return LinkArticle
}

var standardClassifier = NewClassifier(StandardRules()...)

// Classify returns the link type for rawURL using StandardRules.
func Classify(rawURL string) LinkType {
	return standardClassifier.Classify(rawURL)
}

// hostMatches reports whether the URL host equals one of domains or is a
// subdomain of it. Unparseable URLs fall back to a substring check.
func hostMatches(raw string, u *url.URL, domains ...string) bool {
	if u == nil || u.Host == "" {
		for _, d := range domains {
			if strings.Contains(raw, d) {
				return true
			}
		}
		return false
	}
	host := u.Hostname()
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
