package main_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/digest"
	main "github.com/fwojciec/digest/cmd/digest"
	"github.com/fwojciec/digest/fs"
	"github.com/fwojciec/digest/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingExporter collects calls made by the export command.
type recordingExporter struct {
	saved     []string
	saveErr   error
	committed bool
	aborted   bool
}

func (e *recordingExporter) Save(_ context.Context, l *digest.Link) error {
	if e.saveErr != nil {
		return e.saveErr
	}
	e.saved = append(e.saved, l.URL)
	return nil
}

func (e *recordingExporter) Commit() error {
	e.committed = true
	return nil
}

func (e *recordingExporter) Abort() error {
	e.aborted = true
	return nil
}

func TestExportCmd_Run(t *testing.T) {
	t.Parallel()

	linkService := &mock.LinkService{
		FindLinksFn: func(context.Context, digest.LinkFilter) ([]*digest.Link, error) {
			return sampleLinks(), nil
		},
	}

	t.Run("writes markdown files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Links:  linkService,
			Exporter: func(dir, name string) digest.LinkExporter {
				return fs.NewFileStore(dir, name)
			},
		}

		err := (&main.ExportCmd{Dir: dir, Name: "library"}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Exported 2 links")
		data, err := os.ReadFile(filepath.Join(dir, "library", "example.com", "a.md"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "# First")
		assert.FileExists(t, filepath.Join(dir, "library", "example.com", "b.pdf.md"))
	})

	t.Run("commits after saving every link", func(t *testing.T) {
		t.Parallel()

		rec := &recordingExporter{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   &bytes.Buffer{},
			Stderr:   &bytes.Buffer{},
			Links:    linkService,
			Exporter: func(string, string) digest.LinkExporter { return rec },
		}

		err := (&main.ExportCmd{Dir: "out", Name: "lib"}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/a", "https://example.com/b.pdf"}, rec.saved)
		assert.True(t, rec.committed)
		assert.False(t, rec.aborted)
	})

	t.Run("aborts on save failure", func(t *testing.T) {
		t.Parallel()

		rec := &recordingExporter{saveErr: errors.New("disk full")}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   &bytes.Buffer{},
			Stderr:   &bytes.Buffer{},
			Links:    linkService,
			Exporter: func(string, string) digest.LinkExporter { return rec },
		}

		err := (&main.ExportCmd{Dir: "out", Name: "lib"}).Run(deps)

		require.Error(t, err)
		assert.True(t, rec.aborted)
		assert.False(t, rec.committed)
	})
}
