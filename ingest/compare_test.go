package ingest_test

import (
	"testing"
	"time"

	"github.com/fwojciec/digest"
	"github.com/fwojciec/digest/ingest"
	"github.com/stretchr/testify/assert"
)

func parsedWords(n int) *digest.ParsedContent {
	content := ""
	for i := 0; i < n; i++ {
		content += "word "
	}
	return digest.NewParsedContent(time.Now(), digest.ParsedFields{Content: content})
}

func TestNeedsRender(t *testing.T) {
	t.Parallel()

	assert.True(t, ingest.NeedsRender(nil))
	assert.True(t, ingest.NeedsRender(digest.NewFailedContent(time.Now(), "No valid HTML content found")))
	assert.True(t, ingest.NeedsRender(parsedWords(100)))
	assert.False(t, ingest.NeedsRender(parsedWords(101)))
}

func TestRenderedRicher(t *testing.T) {
	t.Parallel()

	t.Run("more than half again as many words", func(t *testing.T) {
		t.Parallel()

		assert.True(t, ingest.RenderedRicher(parsedWords(10), parsedWords(16)))
	})

	t.Run("exactly half again is not enough", func(t *testing.T) {
		t.Parallel()

		assert.False(t, ingest.RenderedRicher(parsedWords(10), parsedWords(15)))
	})

	t.Run("any content beats an empty plain parse", func(t *testing.T) {
		t.Parallel()

		assert.True(t, ingest.RenderedRicher(parsedWords(0), parsedWords(1)))
		assert.True(t, ingest.RenderedRicher(digest.NewFailedContent(time.Now(), "boom"), parsedWords(1)))
	})

	t.Run("failed render never wins", func(t *testing.T) {
		t.Parallel()

		assert.False(t, ingest.RenderedRicher(parsedWords(0), digest.NewFailedContent(time.Now(), "boom")))
		assert.False(t, ingest.RenderedRicher(parsedWords(0), nil))
	})
}
