package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/digest"
)

// Metadata holds the document-level fields extracted from one page.
type Metadata struct {
	Title       string
	Author      *string
	PublishDate *string
	Summary     string
	Language    string
	SourceURL   string
}

// Limits used by the metadata heuristics.
const (
	maxBylineLength    = 100
	minLeadParagraph   = 50
	maxLeadParagraph   = 300
	summaryHintPattern = `speakable-summary|lead|summary|excerpt|abstract`
	bylineHintPattern  = `author|byline|writer`
)

var (
	// A pipe separates a site name with or without spacing; dashes need
	// spacing so hyphenated words survive.
	titleSuffixPattern = regexp.MustCompile(`(\s*\||\s+[\-–—]\s)\s*[^|\-–—]*$`)
	summaryHint        = regexp.MustCompile(summaryHintPattern)
	bylineHint         = regexp.MustCompile(bylineHintPattern)
)

// ExtractMetadata reads title, author, publish date, summary, language and
// source URL from doc. A non-empty sourceURL takes precedence over any URL
// declared by the document.
func ExtractMetadata(doc *goquery.Document, sourceURL string) Metadata {
	objects := JSONLD(doc)
	return Metadata{
		Title:       Title(doc),
		Author:      Author(doc, objects),
		PublishDate: PublishDate(doc, objects),
		Summary:     Summary(doc),
		Language:    Language(doc),
		SourceURL:   SourceURL(doc, sourceURL),
	}
}

// Title returns og:title, twitter:title, the first <h1>, or the <title>
// element with its trailing site-name suffix removed.
func Title(doc *goquery.Document) string {
	return firstNonEmpty(
		metaContent(doc, "og:title"),
		metaContent(doc, "twitter:title"),
		CleanText(doc.Find("h1").First().Text()),
		StripTitleSuffix(CleanText(doc.Find("title").First().Text())),
	)
}

// StripTitleSuffix removes a trailing "|Site", " | Site", " - Site" or
// " — Site" segment. Titles that would become empty are returned unchanged.
func StripTitleSuffix(title string) string {
	stripped := strings.TrimSpace(titleSuffixPattern.ReplaceAllString(title, ""))
	if stripped == "" {
		return title
	}
	return stripped
}

// Author returns the author from meta tags, a rel=author element, JSON-LD,
// or the first short byline-like element, in that order.
func Author(doc *goquery.Document, objects []Object) *string {
	for _, key := range []string{"author", "article:author", "twitter:creator"} {
		if v := metaContent(doc, key); v != "" {
			return &v
		}
	}
	if v := firstText(doc.Find(`[rel~="author"]`), 0); v != "" {
		return &v
	}
	for _, obj := range objects {
		if v, ok := obj.Name("author"); ok {
			return &v
		}
	}
	if v := firstText(hinted(doc.Find("[class]"), bylineHint), maxBylineLength); v != "" {
		return &v
	}
	return nil
}

// hinted keeps the elements of sel whose class attribute matches hint,
// ignoring case.
func hinted(sel *goquery.Selection, hint *regexp.Regexp) *goquery.Selection {
	return sel.FilterFunction(func(_ int, s *goquery.Selection) bool {
		return hint.MatchString(strings.ToLower(s.AttrOr("class", "")))
	})
}

// PublishDate returns the publication date string from meta tags, a
// <time datetime> element or JSON-LD. The value is not normalized.
func PublishDate(doc *goquery.Document, objects []Object) *string {
	for _, key := range []string{"article:published_time", "pubdate", "date"} {
		if v := metaContent(doc, key); v != "" {
			return &v
		}
	}
	var date string
	doc.Find("time[datetime]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		date = strings.TrimSpace(s.AttrOr("datetime", ""))
		return date == ""
	})
	if date != "" {
		return &date
	}
	for _, obj := range objects {
		for _, key := range []string{"datePublished", "dateCreated", "publishedAt"} {
			if v, ok := obj.String(key); ok {
				return &v
			}
		}
	}
	return nil
}

// Summary returns the description meta tags, the text of an element whose id
// or class hints at a summary, or the first paragraph of moderate length.
func Summary(doc *goquery.Document) string {
	for _, key := range []string{"description", "og:description", "twitter:description"} {
		if v := metaContent(doc, key); v != "" {
			return v
		}
	}

	var summary string
	doc.Find("[id], [class]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		switch goquery.NodeName(s) {
		case "html", "head", "body", "script", "style", "meta", "link":
			return true
		}
		hint := strings.ToLower(s.AttrOr("id", "") + " " + s.AttrOr("class", ""))
		if !summaryHint.MatchString(hint) {
			return true
		}
		// Wrappers such as "lead-story" hold whole articles.
		text := CleanText(s.Text())
		if text == "" || textLen(text) >= maxLeadParagraph {
			return true
		}
		summary = text
		return false
	})
	if summary != "" {
		return summary
	}

	doc.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := CleanText(s.Text())
		if n := textLen(text); n > minLeadParagraph && n < maxLeadParagraph {
			summary = text
			return false
		}
		return true
	})
	return summary
}

// Language returns the lang attribute of the root element, or
// digest.LanguageUnknown.
func Language(doc *goquery.Document) string {
	if lang := strings.TrimSpace(doc.Find("html").AttrOr("lang", "")); lang != "" {
		return lang
	}
	return digest.LanguageUnknown
}

// SourceURL returns explicit when non-empty, otherwise og:url or the
// canonical link.
func SourceURL(doc *goquery.Document, explicit string) string {
	return firstNonEmpty(
		explicit,
		metaContent(doc, "og:url"),
		doc.Find(`link[rel~="canonical"]`).First().AttrOr("href", ""),
	)
}

// metaContent returns the cleaned content of the first <meta> whose property
// or name attribute equals key, ignoring case.
func metaContent(doc *goquery.Document, key string) string {
	var content string
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		for _, attr := range []string{"property", "name"} {
			if !strings.EqualFold(strings.TrimSpace(s.AttrOr(attr, "")), key) {
				continue
			}
			if content = CleanText(s.AttrOr("content", "")); content != "" {
				return false
			}
		}
		return true
	})
	return content
}

// firstText returns the first non-empty cleaned text in sel. When maxLen is
// positive, texts of maxLen characters or more are skipped.
func firstText(sel *goquery.Selection, maxLen int) string {
	var text string
	sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		t := CleanText(s.Text())
		if t == "" || (maxLen > 0 && textLen(t) >= maxLen) {
			return true
		}
		text = t
		return false
	})
	return text
}
