package digest

import "unicode/utf8"

// ValidationReport scores how complete a parse result is. Issues and
// Suggestions are paired by index.
type ValidationReport struct {
	Score       int      `json:"score"`
	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
}

func (r *ValidationReport) flag(issue, suggestion string) {
	r.Issues = append(r.Issues, issue)
	r.Suggestions = append(r.Suggestions, suggestion)
}

// Rubric points.
const (
	titlePoints        = 30
	contentPoints      = 40
	lowContentPoints   = 20
	authorPoints       = 10
	publishDatePoints  = 5
	summaryPoints      = 5
	sourceURLPoints    = 5
	languagePoints     = 5
	minTitleLength     = 10
	lowContentMinWords = 20
)

// ValidateContent scores p out of 100. The rubric awards 30 points for a
// title longer than 10 characters, 40 for more than 100 words (20 for more
// than 20), 10 for an author, 5 each for a publish date, summary, source URL
// and known language.
func ValidateContent(p *ParsedContent) ValidationReport {
	r := ValidationReport{Issues: []string{}, Suggestions: []string{}}
	if p == nil {
		p = &ParsedContent{}
	}

	switch n := utf8.RuneCountInString(p.Title); {
	case n > minTitleLength:
		r.Score += titlePoints
	case n > 0:
		r.flag("Title too short", "Check og:title and <h1> markup; the extracted title may be a fragment")
	default:
		r.flag("No title found", "Add an og:title meta tag, an <h1> or a <title> element")
	}

	switch {
	case p.WordCount > ShortFormMinWords:
		r.Score += contentPoints
	case p.WordCount > lowContentMinWords:
		r.Score += lowContentPoints
		r.flag("Low content volume", "The page may be a teaser or paywalled; consider fetching the full article")
	case p.WordCount > 0:
		r.flag("Very little content extracted", "Main content may be rendered by JavaScript; try a browser-based fetch")
	default:
		r.flag("No content found", "No paragraphs longer than 40 characters were found in the content container")
	}

	if p.Author != nil && *p.Author != "" {
		r.Score += authorPoints
	} else {
		r.flag("No author found", "Add an author meta tag or JSON-LD author field")
	}
	if p.PublishDate != nil && *p.PublishDate != "" {
		r.Score += publishDatePoints
	} else {
		r.flag("No publish date found", "Add article:published_time meta or a <time datetime> element")
	}
	if p.Summary != "" {
		r.Score += summaryPoints
	} else {
		r.flag("No summary found", "Add a description meta tag")
	}
	if p.SourceURL != "" {
		r.Score += sourceURLPoints
	} else {
		r.flag("No source URL", "Pass the fetched URL or add og:url / canonical link markup")
	}
	if p.Language != "" && p.Language != LanguageUnknown {
		r.Score += languagePoints
	} else {
		r.flag("Language not detected", "Declare the document language with <html lang>")
	}

	return r
}
