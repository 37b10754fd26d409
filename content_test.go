package digest_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fwojciec/digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentTypeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		words int
		want  digest.ContentType
	}{
		{0, digest.ContentMinimal},
		{100, digest.ContentMinimal},
		{101, digest.ContentShortForm},
		{500, digest.ContentShortForm},
		{501, digest.ContentArticle},
		{5000, digest.ContentArticle},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, digest.ContentTypeFor(tt.words), "words=%d", tt.words)
	}
}

func TestReadingTime(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, digest.ReadingTime(0))
	assert.Equal(t, 1, digest.ReadingTime(1))
	assert.Equal(t, 1, digest.ReadingTime(200))
	assert.Equal(t, 2, digest.ReadingTime(201))
	assert.Equal(t, 3, digest.ReadingTime(600))
}

func TestCountWords(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, digest.CountWords(""))
	assert.Equal(t, 0, digest.CountWords("  \n\t "))
	assert.Equal(t, 4, digest.CountWords("one two\n\nthree   four"))
}

func TestNewParsedContent(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	author := "Jane Doe"

	pc := digest.NewParsedContent(at, digest.ParsedFields{
		SourceURL: "https://example.com/post",
		Title:     "Hello",
		Author:    &author,
		Content:   "alpha beta gamma",
	})

	assert.True(t, pc.Success)
	assert.Empty(t, pc.Error)
	assert.Equal(t, at, pc.ExtractedAt)
	assert.Equal(t, 3, pc.WordCount)
	assert.Equal(t, 1, pc.ReadingTime)
	assert.Equal(t, digest.ContentMinimal, pc.ContentType)
	assert.Equal(t, digest.LanguageUnknown, pc.Language)
	assert.Nil(t, pc.PublishDate)
}

func TestNewFailedContent(t *testing.T) {
	t.Parallel()

	t.Run("zero-values every data field", func(t *testing.T) {
		t.Parallel()

		pc := digest.NewFailedContent(time.Now(), digest.ErrNoHTML)

		assert.False(t, pc.Success)
		assert.Equal(t, digest.ErrNoHTML, pc.Error)
		assert.Empty(t, pc.SourceURL)
		assert.Empty(t, pc.Title)
		assert.Nil(t, pc.Author)
		assert.Nil(t, pc.PublishDate)
		assert.Empty(t, pc.Summary)
		assert.Empty(t, pc.Content)
		assert.Zero(t, pc.WordCount)
		assert.Zero(t, pc.ReadingTime)
		assert.Equal(t, digest.LanguageUnknown, pc.Language)
		assert.Equal(t, digest.ContentMinimal, pc.ContentType)
	})

	t.Run("uses generic message when empty", func(t *testing.T) {
		t.Parallel()

		pc := digest.NewFailedContent(time.Now(), "")

		assert.Equal(t, digest.ErrUnknownParse, pc.Error)
	})
}

func TestParsedContent_JSON(t *testing.T) {
	t.Parallel()

	t.Run("uses camelCase field names and omits error on success", func(t *testing.T) {
		t.Parallel()

		pc := digest.NewParsedContent(time.Unix(0, 0).UTC(), digest.ParsedFields{Title: "T", Language: "en"})

		b, err := json.Marshal(pc)
		require.NoError(t, err)

		var m map[string]any
		require.NoError(t, json.Unmarshal(b, &m))
		for _, key := range []string{"success", "extractedAt", "sourceUrl", "title", "author", "publishDate",
			"summary", "content", "wordCount", "readingTime", "language", "contentType"} {
			assert.Contains(t, m, key)
		}
		assert.NotContains(t, m, "error")
		assert.Nil(t, m["author"])
	})

	t.Run("includes error on failure", func(t *testing.T) {
		t.Parallel()

		b, err := json.Marshal(digest.NewFailedContent(time.Now(), "boom"))
		require.NoError(t, err)

		assert.Contains(t, string(b), `"error":"boom"`)
	})
}
