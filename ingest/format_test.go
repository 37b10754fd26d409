package ingest_test

import (
	"testing"

	"github.com/fwojciec/digest/ingest"
	"github.com/stretchr/testify/assert"
)

func TestTruncateURL(t *testing.T) {
	t.Parallel()

	long := "https://example.com/2026/03/a-very-long-story-slug"
	for _, tc := range []struct {
		name   string
		url    string
		maxLen int
		want   string
	}{
		{"shorter than max", "https://x.com", 50, "https://x.com"},
		{"keeps the end", long, 20, "...y-long-story-slug"},
		{"exact length", "https://example.com", 19, "https://example.com"},
		{"zero", long, 0, ""},
		{"negative", long, -1, ""},
		{"too small for ellipsis", long, 3, "htt"},
		{"short url small max", "ab", 3, "ab"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ingest.TruncateURL(tc.url, tc.maxLen)
			assert.Equal(t, tc.want, got)
			if tc.maxLen > 0 {
				assert.LessOrEqual(t, len(got), tc.maxLen)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "512 B", ingest.FormatBytes(512))
	assert.Equal(t, "1.5 KB", ingest.FormatBytes(1536))
	assert.Equal(t, "2.0 MB", ingest.FormatBytes(2*1024*1024))
}

func TestFormatTokens(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "~500 tokens", ingest.FormatTokens(500))
	assert.Equal(t, "~10k tokens", ingest.FormatTokens(10000))
	assert.Equal(t, "~2k tokens", ingest.FormatTokens(1500))
}

func TestFormatResult(t *testing.T) {
	t.Parallel()

	t.Run("without stats", func(t *testing.T) {
		t.Parallel()
		got := ingest.FormatResult(&ingest.Result{Emails: 1, Links: 2, Saved: 1, Skipped: 1})
		assert.Equal(t, "1 emails, 2 links: 1 saved, 1 skipped, 0 failed", got)
	})

	t.Run("with stats and skipped emails", func(t *testing.T) {
		t.Parallel()
		got := ingest.FormatResult(&ingest.Result{
			Emails: 3, EmailsSkipped: 2, Links: 41, Saved: 30, Skipped: 9, Failed: 2,
			Bytes: 1536, Tokens: 18000,
		})
		assert.Equal(t, "3 emails, 41 links: 30 saved, 9 skipped, 2 failed (1.5 KB, ~18k tokens); 2 emails already processed", got)
	})
}
