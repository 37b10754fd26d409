package fs_test

import (
	"context"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/digest"
	"github.com/fwojciec/digest/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const multipartEmail = "From: Morning Brew <crew@morningbrew.com>\r\n" +
	"To: reader@example.com\r\n" +
	"Subject: =?UTF-8?Q?Caf=C3=A9_news?=\r\n" +
	"Date: Sun, 01 Mar 2026 07:30:00 -0500\r\n" +
	"Message-ID: <abc123@morningbrew.com>\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: multipart/alternative; boundary=\"b1\"\r\n" +
	"\r\n" +
	"--b1\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"Content-Transfer-Encoding: quoted-printable\r\n" +
	"\r\n" +
	"Read more at https://example.com/story =E2=80=94 enjoy\r\n" +
	"--b1\r\n" +
	"Content-Type: text/html; charset=utf-8\r\n" +
	"Content-Transfer-Encoding: base64\r\n" +
	"\r\n" +
	"PGh0bWw+PGJvZHk+PGEgaHJlZj0iaHR0cHM6Ly9leGFtcGxlLmNvbS9zdG9yeSI+U3Rvcnk8L2E+\r\n" +
	"PC9ib2R5PjwvaHRtbD4=\r\n" +
	"--b1--\r\n"

func TestParseEmail(t *testing.T) {
	t.Parallel()

	t.Run("decodes multipart alternative bodies", func(t *testing.T) {
		t.Parallel()

		email, err := fs.ParseEmail(strings.NewReader(multipartEmail))

		require.NoError(t, err)
		assert.Equal(t, "abc123@morningbrew.com", email.MessageID)
		assert.Equal(t, "Café news", email.Subject)
		assert.Equal(t, "Morning Brew", email.Newsletter)
		assert.Equal(t, time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC), email.ReceivedAt)
		assert.Equal(t, `<html><body><a href="https://example.com/story">Story</a></body></html>`, email.HTML)
		assert.Equal(t, "Read more at https://example.com/story — enjoy", strings.TrimSpace(email.Text))
		assert.Equal(t, email.HTML, email.Body())
	})

	t.Run("single part plain text", func(t *testing.T) {
		t.Parallel()

		raw := "From: news@letters.example.org\r\nSubject: Plain\r\n\r\nhttps://example.com/a\r\n"

		email, err := fs.ParseEmail(strings.NewReader(raw))

		require.NoError(t, err)
		assert.Equal(t, "letters.example.org", email.Newsletter)
		assert.Empty(t, email.HTML)
		assert.Contains(t, email.Text, "https://example.com/a")
	})

	t.Run("converts legacy charsets", func(t *testing.T) {
		t.Parallel()

		raw := "From: Digest <d@example.com>\r\nSubject: Latin\r\n" +
			"Content-Type: text/plain; charset=iso-8859-1\r\n" +
			"Content-Transfer-Encoding: quoted-printable\r\n\r\n" +
			"caf=E9\r\n"

		email, err := fs.ParseEmail(strings.NewReader(raw))

		require.NoError(t, err)
		assert.Equal(t, "café", strings.TrimSpace(email.Text))
	})

	t.Run("skips attachments", func(t *testing.T) {
		t.Parallel()

		raw := "From: Digest <d@example.com>\r\n" +
			"Content-Type: multipart/mixed; boundary=x\r\n\r\n" +
			"--x\r\n" +
			"Content-Type: text/plain\r\n" +
			"Content-Disposition: attachment; filename=notes.txt\r\n\r\n" +
			"attached\r\n" +
			"--x\r\n" +
			"Content-Type: text/plain\r\n\r\n" +
			"inline body\r\n" +
			"--x--\r\n"

		email, err := fs.ParseEmail(strings.NewReader(raw))

		require.NoError(t, err)
		assert.Equal(t, "inline body", strings.TrimSpace(email.Text))
	})

	t.Run("html only newsletter", func(t *testing.T) {
		t.Parallel()

		raw := "From: Weekly <w@example.com>\r\nSubject: =?ISO-8859-1?Q?Caf=E9?=\r\n" +
			"Content-Type: text/html; charset=utf-8\r\n\r\n" +
			"<html><body><p>Top story</p></body></html>\r\n"

		email, err := fs.ParseEmail(strings.NewReader(raw))

		require.NoError(t, err)
		assert.Equal(t, "Café", email.Subject)
		assert.Contains(t, email.HTML, "<p>Top story</p>")
		assert.Equal(t, email.HTML, email.Body())
	})

	t.Run("rejects messages without a sender", func(t *testing.T) {
		t.Parallel()

		_, err := fs.ParseEmail(strings.NewReader("Subject: orphan\r\n\r\nbody\r\n"))

		assert.Equal(t, digest.EINVALID, digest.ErrorCode(err))
	})

	t.Run("rejects malformed messages", func(t *testing.T) {
		t.Parallel()

		_, err := fs.ParseEmail(strings.NewReader("not an email"))

		assert.Equal(t, digest.EINVALID, digest.ErrorCode(err))
	})
}

func TestNewsletterName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "TLDR AI", fs.NewsletterName(&mail.Address{Name: "  TLDR   AI ", Address: "dan@tldrnewsletter.com"}))
	assert.Equal(t, "tldrnewsletter.com", fs.NewsletterName(&mail.Address{Address: "dan@TLDRnewsletter.com"}))
}

func writeEmail(t *testing.T, path, date, id string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	raw := "From: Weekly <w@example.com>\r\nSubject: " + id + "\r\nDate: " + date + "\r\n"
	if id != "" {
		raw += "Message-ID: <" + id + ">\r\n"
	}
	raw += "\r\nhttps://example.com/" + id + "\r\n"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))
}

func TestMailDir_FetchEmails(t *testing.T) {
	t.Parallel()

	t.Run("reads eml files and maildir folders oldest first", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeEmail(t, filepath.Join(dir, "b.eml"), "Tue, 03 Mar 2026 08:00:00 +0000", "second")
		writeEmail(t, filepath.Join(dir, "new", "1740000000.M1.host"), "Wed, 04 Mar 2026 08:00:00 +0000", "third")
		writeEmail(t, filepath.Join(dir, "cur", "1730000000.M1.host:2,S"), "Mon, 02 Mar 2026 08:00:00 +0000", "first")
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

		emails, err := fs.NewMailDir(dir).FetchEmails(context.Background(), time.Time{})

		require.NoError(t, err)
		require.Len(t, emails, 3)
		assert.Equal(t, "first", emails[0].MessageID)
		assert.Equal(t, "second", emails[1].MessageID)
		assert.Equal(t, "third", emails[2].MessageID)
		assert.Equal(t, "b.eml", emails[1].ID)
	})

	t.Run("filters by since", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeEmail(t, filepath.Join(dir, "a.eml"), "Mon, 02 Mar 2026 08:00:00 +0000", "old")
		writeEmail(t, filepath.Join(dir, "b.eml"), "Wed, 04 Mar 2026 08:00:00 +0000", "new")

		emails, err := fs.NewMailDir(dir).FetchEmails(context.Background(), time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC))

		require.NoError(t, err)
		require.Len(t, emails, 1)
		assert.Equal(t, "new", emails[0].MessageID)
	})

	t.Run("missing message id falls back to the file name", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeEmail(t, filepath.Join(dir, "noid.eml"), "Mon, 02 Mar 2026 08:00:00 +0000", "")

		emails, err := fs.NewMailDir(dir).FetchEmails(context.Background(), time.Time{})

		require.NoError(t, err)
		require.Len(t, emails, 1)
		assert.Equal(t, "noid.eml", emails[0].MessageID)
	})

	t.Run("missing directory is not found", func(t *testing.T) {
		t.Parallel()

		_, err := fs.NewMailDir(filepath.Join(t.TempDir(), "missing")).FetchEmails(context.Background(), time.Time{})

		assert.Equal(t, digest.ENOTFOUND, digest.ErrorCode(err))
	})
}
