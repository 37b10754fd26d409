// Package fs provides file-based email input and markdown export of links.
package fs

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/digest"
	"gopkg.in/yaml.v3"
)

// LinkPath converts a link URL to a relative markdown file path under its
// host. Example: https://example.com/blog/post → example.com/blog/post.md
func LinkPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", digest.Errorf(digest.EINVALID, "invalid link URL %q", rawURL)
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if host == "" {
		return "", digest.Errorf(digest.EINVALID, "link URL %q has no host", rawURL)
	}

	path := strings.TrimPrefix(u.Path, "/")
	switch {
	case path == "":
		path = "index.md"
	case strings.HasSuffix(path, "/"):
		path += "index.md"
	default:
		path += ".md"
	}

	// Reject paths that would escape the export directory.
	clean := filepath.Clean(filepath.Join(host, filepath.FromSlash(path)))
	if !strings.HasPrefix(clean, host+string(filepath.Separator)) {
		return "", digest.Errorf(digest.EINVALID, "link URL %q escapes export directory", rawURL)
	}
	return clean, nil
}

type frontMatter struct {
	Source     string `yaml:"source"`
	Type       string `yaml:"type"`
	Title      string `yaml:"title,omitempty"`
	Author     string `yaml:"author,omitempty"`
	Published  string `yaml:"published,omitempty"`
	Newsletter string `yaml:"newsletter,omitempty"`
	Saved      string `yaml:"saved,omitempty"`
}

// FormatLink renders a link as markdown with YAML front matter followed by
// the summary and the article text.
func FormatLink(link *digest.Link) (string, error) {
	fm := frontMatter{
		Source:     link.URL,
		Type:       string(link.Type),
		Title:      link.Title,
		Newsletter: link.Newsletter,
	}
	if link.Author != nil {
		fm.Author = *link.Author
	}
	if link.PublishDate != nil {
		fm.Published = *link.PublishDate
	}
	if !link.CreatedAt.IsZero() {
		fm.Saved = link.CreatedAt.Format(time.DateOnly)
	}
	header, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("encode front matter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(header)
	b.WriteString("---\n")
	if link.Title != "" {
		b.WriteString("\n# " + link.Title + "\n")
	}
	if link.Summary != "" {
		b.WriteString("\n> " + strings.ReplaceAll(link.Summary, "\n", "\n> ") + "\n")
	}
	if link.Content != "" {
		b.WriteString("\n" + link.Content + "\n")
	}
	return b.String(), nil
}

// Ensure FileStore implements digest.LinkExporter at compile time.
var _ digest.LinkExporter = (*FileStore)(nil)

// FileStore exports links as markdown files with atomic update semantics.
// Files are written to baseDir/name.tmp and replace baseDir/name on Commit.
type FileStore struct {
	baseDir string
	name    string
}

// NewFileStore creates a new FileStore.
func NewFileStore(baseDir, name string) *FileStore {
	return &FileStore{baseDir: baseDir, name: name}
}

func (s *FileStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *FileStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes link to the temporary directory.
func (s *FileStore) Save(ctx context.Context, link *digest.Link) error {
	if err := link.Validate(); err != nil {
		return err
	}
	relPath, err := LinkPath(link.URL)
	if err != nil {
		return err
	}
	content, err := FormatLink(link)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(s.tempDir(), relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(fullPath, []byte(content), 0o644)
}

// Commit replaces the final directory with the saved links.
func (s *FileStore) Commit() error {
	if err := os.MkdirAll(s.tempDir(), 0o755); err != nil {
		return err
	}
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort discards the saved links.
func (s *FileStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
