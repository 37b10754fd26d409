package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/digest"
	"github.com/fwojciec/digest/mock"
	digestslog "github.com/fwojciec/digest/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingLinkService_CreateLink(t *testing.T) {
	t.Parallel()

	t.Run("logs stored link", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.LinkService{
			CreateLinkFn: func(context.Context, *digest.Link) error { return nil },
		}

		err := digestslog.NewLoggingLinkService(inner, logger).CreateLink(context.Background(),
			&digest.Link{URL: "https://example.com/a", Type: digest.LinkArticle, Newsletter: "weekly"})

		require.NoError(t, err)
		output := buf.String()
		assert.Contains(t, output, "store link")
		assert.Contains(t, output, "type=article")
		assert.Contains(t, output, "newsletter=weekly")
	})

	t.Run("logs conflicts at debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.LinkService{
			CreateLinkFn: func(context.Context, *digest.Link) error {
				return digest.Errorf(digest.ECONFLICT, "link already exists")
			},
		}

		err := digestslog.NewLoggingLinkService(inner, logger).CreateLink(context.Background(),
			&digest.Link{URL: "https://example.com/a", Type: digest.LinkArticle})

		assert.Equal(t, digest.ECONFLICT, digest.ErrorCode(err))
		assert.Empty(t, buf.String())
	})
}
