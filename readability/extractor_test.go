package readability_test

import (
	"testing"

	"github.com/fwojciec/digest"
	"github.com/fwojciec/digest/goquery"
	"github.com/fwojciec/digest/readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const storyHTML = `<!DOCTYPE html>
<html lang="en">
<head><title>Readable Story</title></head>
<body>
<nav><a href="/home">Home Nav Link</a><a href="/about">About Nav Link</a></nav>
<article>
<h1>Readable Story</h1>
<p class="byline">By Jane Doe</p>
<p>This is the first paragraph of the readable story and it carries enough words to be scored as content.</p>
<p>This is the second paragraph of the readable story, continuing the narrative with more detail and context.</p>
<p>This is the third paragraph, which wraps up the story and gives readability enough text to work with.</p>
</article>
<footer><p>Copyright Example Media, all rights reserved for every article.</p></footer>
</body>
</html>`

func TestExtractor_RejectsEmptyInput(t *testing.T) {
	t.Parallel()

	_, err := readability.NewExtractor().Extract("  ")

	require.Error(t, err)
	assert.Equal(t, digest.EINVALID, digest.ErrorCode(err))
}

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts title and body", func(t *testing.T) {
		t.Parallel()

		result, err := readability.NewExtractor().Extract(storyHTML)

		require.NoError(t, err)
		assert.Equal(t, "Readable Story", result.Title)
		assert.Contains(t, result.ContentHTML, "first paragraph of the readable story")
	})

	t.Run("removes navigation and footer", func(t *testing.T) {
		t.Parallel()

		result, err := readability.NewExtractor().Extract(storyHTML)

		require.NoError(t, err)
		assert.NotContains(t, result.ContentHTML, "Home Nav Link")
		assert.NotContains(t, result.ContentHTML, "Copyright Example Media")
	})
}

func TestExtractor_WithParser(t *testing.T) {
	t.Parallel()

	p := goquery.NewParser()
	p.Extractor = readability.NewExtractor()

	got := p.Parse(storyHTML, "https://example.com/story")

	require.True(t, got.Success)
	assert.Equal(t, "Readable Story", got.Title)
	assert.Contains(t, got.Content, "third paragraph")
	assert.Equal(t, "en", got.Language)
}
