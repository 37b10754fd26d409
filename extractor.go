package digest

// ExtractResult holds the content container isolated from an HTML page.
type ExtractResult struct {
	// Title is the page title reported by the extractor, if any.
	// Metadata extraction takes precedence over it.
	Title string

	// Byline and Excerpt are optional author and summary hints. They are
	// used only when the page metadata has none.
	Byline  string
	Excerpt string

	// ContentHTML is the inner HTML of the container judged most likely to
	// hold the article body. Boilerplate has been removed.
	ContentHTML string
}

// Extractor isolates the main content container from an HTML page.
type Extractor interface {
	// Extract processes raw HTML and returns the content container.
	Extract(html string) (*ExtractResult, error)
}

// LinkExtractor finds the URLs embedded in an email body.
type LinkExtractor interface {
	// ExtractLinks returns the distinct HTTP(S) URLs in body, in order of
	// first appearance. body may be HTML or plain text.
	ExtractLinks(body string) ([]string, error)
}
