package digest

// Converter renders newsletter HTML as Markdown for storage.
type Converter interface {
	Convert(html string) (string, error)
}
