package digest

import (
	"strings"
	"time"
)

// LanguageUnknown is reported when a document declares no language.
const LanguageUnknown = "unknown"

// ErrNoHTML is the error message of a parse rejected by the HTML precondition.
const ErrNoHTML = "No valid HTML content found"

// ErrUnknownParse is the error message used when a parse fault carries no message.
const ErrUnknownParse = "Unknown parsing error"

// ContentType is a size tier derived from a document's word count.
type ContentType string

// Content type tiers.
const (
	ContentArticle   ContentType = "article"
	ContentShortForm ContentType = "short-form"
	ContentMinimal   ContentType = "minimal"
)

// Word count thresholds for content type tiers and reading time.
const (
	ArticleMinWords   = 500
	ShortFormMinWords = 100
	WordsPerMinute    = 200
)

// ContentTypeFor returns the tier for a word count: article above 500 words,
// short-form above 100, minimal otherwise.
func ContentTypeFor(wordCount int) ContentType {
	switch {
	case wordCount > ArticleMinWords:
		return ContentArticle
	case wordCount > ShortFormMinWords:
		return ContentShortForm
	default:
		return ContentMinimal
	}
}

// ReadingTime returns the estimated reading time in whole minutes,
// rounded up, at WordsPerMinute.
func ReadingTime(wordCount int) int {
	if wordCount <= 0 {
		return 0
	}
	return (wordCount + WordsPerMinute - 1) / WordsPerMinute
}

// CountWords returns the number of whitespace-separated tokens in s.
func CountWords(s string) int {
	return len(strings.Fields(s))
}

// RawDocument is one HTML document awaiting parsing. SourceURL is optional.
type RawDocument struct {
	HTML      string `json:"html"`
	SourceURL string `json:"sourceUrl,omitempty"`
}

// ParsedContent is the structured result of parsing one HTML document.
// When Success is false every data field holds its zero value and Error
// explains why; when Success is true Error is empty.
type ParsedContent struct {
	Success     bool        `json:"success"`
	ExtractedAt time.Time   `json:"extractedAt"`
	SourceURL   string      `json:"sourceUrl"`
	Title       string      `json:"title"`
	Author      *string     `json:"author"`
	PublishDate *string     `json:"publishDate"`
	Summary     string      `json:"summary"`
	Content     string      `json:"content"`
	WordCount   int         `json:"wordCount"`
	ReadingTime int         `json:"readingTime"`
	Language    string      `json:"language"`
	ContentType ContentType `json:"contentType"`
	Error       string      `json:"error,omitempty"`
}

// NewParsedContent assembles a successful result and derives word count,
// reading time and content type from content.
func NewParsedContent(extractedAt time.Time, fields ParsedFields) *ParsedContent {
	words := CountWords(fields.Content)
	language := fields.Language
	if language == "" {
		language = LanguageUnknown
	}
	return &ParsedContent{
		Success:     true,
		ExtractedAt: extractedAt,
		SourceURL:   fields.SourceURL,
		Title:       fields.Title,
		Author:      fields.Author,
		PublishDate: fields.PublishDate,
		Summary:     fields.Summary,
		Content:     fields.Content,
		WordCount:   words,
		ReadingTime: ReadingTime(words),
		Language:    language,
		ContentType: ContentTypeFor(words),
	}
}

// ParsedFields holds the extracted fields of a document before derived
// metrics are computed.
type ParsedFields struct {
	SourceURL   string
	Title       string
	Author      *string
	PublishDate *string
	Summary     string
	Content     string
	Language    string
}

// NewFailedContent returns a failed result with zero-valued data fields.
// An empty message is replaced with ErrUnknownParse.
func NewFailedContent(extractedAt time.Time, message string) *ParsedContent {
	if strings.TrimSpace(message) == "" {
		message = ErrUnknownParse
	}
	return &ParsedContent{
		Success:     false,
		ExtractedAt: extractedAt,
		Language:    LanguageUnknown,
		ContentType: ContentMinimal,
		Error:       message,
	}
}

// Parser turns raw HTML into ParsedContent. Implementations never return a
// Go error; every failure is reported through ParsedContent.Error.
type Parser interface {
	// Parse extracts structured article data from html. sourceURL, when
	// non-empty, takes precedence over any URL declared by the document.
	Parse(html, sourceURL string) *ParsedContent

	// ParseAll parses docs independently and returns results in input order.
	ParseAll(docs []RawDocument) []*ParsedContent
}
