package digest_test

import (
	"testing"

	"github.com/fwojciec/digest"
	"github.com/stretchr/testify/assert"
)

func TestFormatLinks(t *testing.T) {
	t.Parallel()

	t.Run("formats single link with title and summary", func(t *testing.T) {
		t.Parallel()

		links := []*digest.Link{
			{Type: digest.LinkArticle, Title: "Go 1.25 released", URL: "https://go.dev/blog/go1.25", Summary: "Release notes."},
		}

		result := digest.FormatLinks(links)

		expected := "## [article] Go 1.25 released\nhttps://go.dev/blog/go1.25\n\nRelease notes."
		assert.Equal(t, expected, result)
	})

	t.Run("uses URL when title is empty", func(t *testing.T) {
		t.Parallel()

		links := []*digest.Link{
			{Type: digest.LinkPDF, URL: "https://example.com/paper.pdf"},
		}

		result := digest.FormatLinks(links)

		expected := "## [pdf] https://example.com/paper.pdf\nhttps://example.com/paper.pdf"
		assert.Equal(t, expected, result)
	})

	t.Run("separates multiple links with blank line", func(t *testing.T) {
		t.Parallel()

		links := []*digest.Link{
			{Type: digest.LinkArticle, Title: "One", URL: "https://a.example"},
			{Type: digest.LinkJob, Title: "Two", URL: "https://b.example/jobs"},
		}

		result := digest.FormatLinks(links)

		expected := "## [article] One\nhttps://a.example\n\n## [job] Two\nhttps://b.example/jobs"
		assert.Equal(t, expected, result)
	})

	t.Run("returns empty string for nil slice", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, digest.FormatLinks(nil))
	})
}
