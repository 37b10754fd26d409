package goquery_test

import (
	"strings"
	"testing"

	gq "github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/digest"
	"github.com/fwojciec/digest/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDoc(t *testing.T, html string) *gq.Document {
	t.Helper()
	doc, err := gq.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestCleanText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"strips tags", "<b>bold</b> text", "bold text"},
		{"nbsp becomes space", "a&nbsp;b", "a b"},
		{"entities become space", "fish&amp;chips", "fish chips"},
		{"numeric entities become space", "x&#8217;y", "x y"},
		{"collapses whitespace", "  a \n\t b  ", "a b"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, goquery.CleanText(tt.in))
		})
	}
}

func TestTitle(t *testing.T) {
	t.Parallel()

	t.Run("prefers og:title over h1", func(t *testing.T) {
		t.Parallel()

		doc := newDoc(t, `<html><head>
<meta property="og:title" content="OG Title">
<title>Page Title | Site</title>
</head><body><h1>Heading Title</h1></body></html>`)

		assert.Equal(t, "OG Title", goquery.Title(doc))
	})

	t.Run("falls back to twitter:title", func(t *testing.T) {
		t.Parallel()

		doc := newDoc(t, `<html><head><meta name="twitter:title" content="Tweet Title"></head><body><h1>Heading</h1></body></html>`)

		assert.Equal(t, "Tweet Title", goquery.Title(doc))
	})

	t.Run("uses h1 before title element", func(t *testing.T) {
		t.Parallel()

		doc := newDoc(t, `<html><head><title>Page | Site</title></head><body><h1> Heading   Title </h1></body></html>`)

		assert.Equal(t, "Heading Title", goquery.Title(doc))
	})

	t.Run("strips site suffix from title element", func(t *testing.T) {
		t.Parallel()

		doc := newDoc(t, `<html><head><title>Great Article | Example Site</title></head><body></body></html>`)

		assert.Equal(t, "Great Article", goquery.Title(doc))
	})

	t.Run("returns empty when nothing is declared", func(t *testing.T) {
		t.Parallel()

		doc := newDoc(t, `<html><body><p>text</p></body></html>`)

		assert.Empty(t, goquery.Title(doc))
	})
}

func TestStripTitleSuffix(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Great Article", goquery.StripTitleSuffix("Great Article - Example"))
	assert.Equal(t, "Great Article", goquery.StripTitleSuffix("Great Article — Example"))
	assert.Equal(t, "A - B", goquery.StripTitleSuffix("A - B - C"))
	assert.Equal(t, "Well-Known Facts", goquery.StripTitleSuffix("Well-Known Facts"))
	assert.Equal(t, "| Site", goquery.StripTitleSuffix("| Site"))
	assert.Equal(t, "Hello", goquery.StripTitleSuffix("Hello|World"))
	assert.Equal(t, "Hello", goquery.StripTitleSuffix("Hello |World"))
	assert.Equal(t, "Go-Lang Tips", goquery.StripTitleSuffix("Go-Lang Tips - Blog"))
	assert.Equal(t, "Go-Lang", goquery.StripTitleSuffix("Go-Lang"))
}

func TestAuthor(t *testing.T) {
	t.Parallel()

	t.Run("reads author meta tag", func(t *testing.T) {
		t.Parallel()

		doc := newDoc(t, `<html><head><meta name="author" content="Jane Doe"></head><body></body></html>`)

		got := goquery.Author(doc, goquery.JSONLD(doc))
		require.NotNil(t, got)
		assert.Equal(t, "Jane Doe", *got)
	})

	t.Run("reads rel=author link text", func(t *testing.T) {
		t.Parallel()

		doc := newDoc(t, `<html><body><a rel="author" href="/jane">Jane Doe</a></body></html>`)

		got := goquery.Author(doc, goquery.JSONLD(doc))
		require.NotNil(t, got)
		assert.Equal(t, "Jane Doe", *got)
	})

	t.Run("reads JSON-LD author object", func(t *testing.T) {
		t.Parallel()

		doc := newDoc(t, `<html><head><script type="application/ld+json">
{"@type":"NewsArticle","author":{"@type":"Person","name":"John Roe"}}
</script></head><body></body></html>`)

		got := goquery.Author(doc, goquery.JSONLD(doc))
		require.NotNil(t, got)
		assert.Equal(t, "John Roe", *got)
	})

	t.Run("reads first element of JSON-LD author array", func(t *testing.T) {
		t.Parallel()

		doc := newDoc(t, `<html><head><script type="application/ld+json">
{"author":[{"name":"First Author"},{"name":"Second Author"}]}
</script></head><body></body></html>`)

		got := goquery.Author(doc, goquery.JSONLD(doc))
		require.NotNil(t, got)
		assert.Equal(t, "First Author", *got)
	})

	t.Run("reads short byline element", func(t *testing.T) {
		t.Parallel()

		doc := newDoc(t, `<html><body><div class="post"><span class="byline">By Sam Smith</span></div></body></html>`)

		got := goquery.Author(doc, goquery.JSONLD(doc))
		require.NotNil(t, got)
		assert.Equal(t, "By Sam Smith", *got)
	})

	t.Run("matches byline class names in any case", func(t *testing.T) {
		t.Parallel()

		doc := newDoc(t, `<html><body><span class="Author">Jane Doe</span></body></html>`)

		got := goquery.Author(doc, goquery.JSONLD(doc))
		require.NotNil(t, got)
		assert.Equal(t, "Jane Doe", *got)
	})

	t.Run("skips byline text of 100 characters or more", func(t *testing.T) {
		t.Parallel()

		doc := newDoc(t, `<html><body><div class="author-bio">`+strings.Repeat("x", 100)+`</div></body></html>`)

		assert.Nil(t, goquery.Author(doc, goquery.JSONLD(doc)))
	})

	t.Run("returns nil when absent", func(t *testing.T) {
		t.Parallel()

		doc := newDoc(t, `<html><body><p>no author here</p></body></html>`)

		assert.Nil(t, goquery.Author(doc, goquery.JSONLD(doc)))
	})
}

func TestPublishDate(t *testing.T) {
	t.Parallel()

	t.Run("reads article:published_time", func(t *testing.T) {
		t.Parallel()

		doc := newDoc(t, `<html><head><meta property="article:published_time" content="2024-03-01T10:00:00Z"></head><body><time datetime="2020-01-01">old</time></body></html>`)

		got := goquery.PublishDate(doc, goquery.JSONLD(doc))
		require.NotNil(t, got)
		assert.Equal(t, "2024-03-01T10:00:00Z", *got)
	})

	t.Run("reads time datetime attribute", func(t *testing.T) {
		t.Parallel()

		doc := newDoc(t, `<html><body><time>no attr</time><time datetime="2024-05-06">May 6</time></body></html>`)

		got := goquery.PublishDate(doc, goquery.JSONLD(doc))
		require.NotNil(t, got)
		assert.Equal(t, "2024-05-06", *got)
	})

	t.Run("reads JSON-LD dateCreated when datePublished is missing", func(t *testing.T) {
		t.Parallel()

		doc := newDoc(t, `<html><head><script type="application/ld+json">{"dateCreated":"2023-12-24"}</script></head><body></body></html>`)

		got := goquery.PublishDate(doc, goquery.JSONLD(doc))
		require.NotNil(t, got)
		assert.Equal(t, "2023-12-24", *got)
	})

	t.Run("returns nil when absent", func(t *testing.T) {
		t.Parallel()

		doc := newDoc(t, `<html><body></body></html>`)

		assert.Nil(t, goquery.PublishDate(doc, nil))
	})
}

func TestSummary(t *testing.T) {
	t.Parallel()

	t.Run("reads description meta", func(t *testing.T) {
		t.Parallel()

		doc := newDoc(t, `<html><head><meta name="description" content="A short description."></head><body></body></html>`)

		assert.Equal(t, "A short description.", goquery.Summary(doc))
	})

	t.Run("reads element hinted as summary", func(t *testing.T) {
		t.Parallel()

		doc := newDoc(t, `<html><body><p class="article-lead">The lead paragraph.</p></body></html>`)

		assert.Equal(t, "The lead paragraph.", goquery.Summary(doc))
	})

	t.Run("skips hinted wrapper holding a whole article", func(t *testing.T) {
		t.Parallel()

		body := strings.Repeat("Story text continues at length. ", 20)
		lead := "A compact lead that sums up the story in a sentence or two."
		doc := newDoc(t, `<html><body><div class="lead-story"><p>`+body+`</p></div><p class="summary">`+lead+`</p></body></html>`)

		assert.Equal(t, lead, goquery.Summary(doc))
	})

	t.Run("falls back to first moderate paragraph", func(t *testing.T) {
		t.Parallel()

		lead := "This paragraph is long enough to serve as a summary of the page content."
		doc := newDoc(t, `<html><body><p>Too short.</p><p>`+lead+`</p></body></html>`)

		assert.Equal(t, lead, goquery.Summary(doc))
	})

	t.Run("returns empty when nothing qualifies", func(t *testing.T) {
		t.Parallel()

		doc := newDoc(t, `<html><body><p>Tiny.</p></body></html>`)

		assert.Empty(t, goquery.Summary(doc))
	})
}

func TestLanguage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "en-GB", goquery.Language(newDoc(t, `<html lang="en-GB"><body></body></html>`)))
	assert.Equal(t, digest.LanguageUnknown, goquery.Language(newDoc(t, `<html><body></body></html>`)))
}

func TestSourceURL(t *testing.T) {
	t.Parallel()

	doc := newDoc(t, `<html><head>
<meta property="og:url" content="https://example.com/og">
<link rel="canonical" href="https://example.com/canonical">
</head><body></body></html>`)

	assert.Equal(t, "https://example.com/given", goquery.SourceURL(doc, "https://example.com/given"))
	assert.Equal(t, "https://example.com/og", goquery.SourceURL(doc, ""))

	canonical := newDoc(t, `<html><head><link rel="canonical" href="https://example.com/canonical"></head><body></body></html>`)
	assert.Equal(t, "https://example.com/canonical", goquery.SourceURL(canonical, ""))
}

func TestJSONLD(t *testing.T) {
	t.Parallel()

	t.Run("skips malformed blocks", func(t *testing.T) {
		t.Parallel()

		doc := newDoc(t, `<html><head>
<script type="application/ld+json">{not json</script>
<script type="application/ld+json">{"datePublished":"2024-01-02"}</script>
</head><body></body></html>`)

		objects := goquery.JSONLD(doc)
		require.Len(t, objects, 1)
		got, ok := objects[0].String("datePublished")
		assert.True(t, ok)
		assert.Equal(t, "2024-01-02", got)
	})

	t.Run("flattens arrays and graphs", func(t *testing.T) {
		t.Parallel()

		objects, err := goquery.ParseJSONLD(`[{"@type":"WebSite"},{"@graph":[{"@type":"Article"},{"@type":"Person"}]}]`)

		require.NoError(t, err)
		assert.Len(t, objects, 4)
	})

	t.Run("reports malformed input", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.ParseJSONLD(`{`)

		assert.Error(t, err)
	})

	t.Run("ignores non-string values", func(t *testing.T) {
		t.Parallel()

		objects, err := goquery.ParseJSONLD(`{"author":42,"datePublished":["2024"]}`)
		require.NoError(t, err)
		require.Len(t, objects, 1)

		_, ok := objects[0].Name("author")
		assert.False(t, ok)
		_, ok = objects[0].String("datePublished")
		assert.False(t, ok)
	})
}

func TestExtractMetadata(t *testing.T) {
	t.Parallel()

	doc := newDoc(t, `<html lang="en"><head>
<meta property="og:title" content="Example Story">
<meta name="author" content="Jane Doe">
<meta property="article:published_time" content="2024-03-01">
<meta name="description" content="What happened.">
<link rel="canonical" href="https://example.com/story">
</head><body></body></html>`)

	meta := goquery.ExtractMetadata(doc, "")

	assert.Equal(t, "Example Story", meta.Title)
	require.NotNil(t, meta.Author)
	assert.Equal(t, "Jane Doe", *meta.Author)
	require.NotNil(t, meta.PublishDate)
	assert.Equal(t, "2024-03-01", *meta.PublishDate)
	assert.Equal(t, "What happened.", meta.Summary)
	assert.Equal(t, "en", meta.Language)
	assert.Equal(t, "https://example.com/story", meta.SourceURL)
}
