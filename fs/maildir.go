package fs

import (
	"context"
	"fmt"
	"io"
	"net/mail"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fwojciec/digest"
	"github.com/jhillyerd/enmime"
)

// Ensure MailDir implements digest.EmailSource at compile time.
var _ digest.EmailSource = (*MailDir)(nil)

// MailDir reads newsletter emails stored as RFC 5322 files. It accepts a
// directory of *.eml files or a Maildir with cur/ and new/ subdirectories.
type MailDir struct {
	dir string
}

// NewMailDir creates a MailDir reading from dir.
func NewMailDir(dir string) *MailDir {
	return &MailDir{dir: dir}
}

// FetchEmails returns the emails received at or after since, oldest first.
// A zero since returns every email. Files that fail to parse are skipped.
func (m *MailDir) FetchEmails(ctx context.Context, since time.Time) ([]*digest.Email, error) {
	paths, err := m.messageFiles()
	if err != nil {
		return nil, err
	}

	var emails []*digest.Email
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		email, err := readEmailFile(path)
		if err != nil {
			continue
		}
		if !since.IsZero() && email.ReceivedAt.Before(since) {
			continue
		}
		emails = append(emails, email)
	}

	sort.SliceStable(emails, func(i, j int) bool {
		return emails[i].ReceivedAt.Before(emails[j].ReceivedAt)
	})
	return emails, nil
}

func (m *MailDir) messageFiles() ([]string, error) {
	info, err := os.Stat(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, digest.Errorf(digest.ENOTFOUND, "mail directory %s not found", m.dir)
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, digest.Errorf(digest.EINVALID, "%s is not a directory", m.dir)
	}

	var paths []string
	matches, err := filepath.Glob(filepath.Join(m.dir, "*.eml"))
	if err != nil {
		return nil, err
	}
	paths = append(paths, matches...)

	for _, sub := range []string{"cur", "new"} {
		entries, err := os.ReadDir(filepath.Join(m.dir, sub))
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.Type().IsRegular() && !strings.HasPrefix(e.Name(), ".") {
				paths = append(paths, filepath.Join(m.dir, sub, e.Name()))
			}
		}
	}
	return paths, nil
}

func readEmailFile(path string) (*digest.Email, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	email, err := ParseEmail(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	email.ID = filepath.Base(path)
	if email.MessageID == "" {
		email.MessageID = email.ID
	}
	if email.ReceivedAt.IsZero() {
		if info, err := f.Stat(); err == nil {
			email.ReceivedAt = info.ModTime().UTC()
		}
	}
	return email, nil
}

// ParseEmail decodes one RFC 5322 message. The HTML and plain text bodies
// become Email.HTML and Email.Text; attachments are ignored. A message
// without a From header is rejected.
func ParseEmail(r io.Reader) (*digest.Email, error) {
	env, err := enmime.ReadEnvelope(r)
	if err != nil {
		return nil, digest.Errorf(digest.EINVALID, "malformed email: %v", err)
	}
	rawFrom := strings.TrimSpace(env.GetHeader("From"))
	if rawFrom == "" {
		return nil, digest.Errorf(digest.EINVALID, "malformed email: missing From header")
	}

	email := &digest.Email{
		MessageID: strings.Trim(strings.TrimSpace(env.GetHeader("Message-Id")), "<>"),
		Subject:   strings.TrimSpace(env.GetHeader("Subject")),
		HTML:      env.HTML,
		Text:      env.Text,
	}
	if date, err := mail.ParseDate(env.GetHeader("Date")); err == nil {
		email.ReceivedAt = date.UTC()
	}

	if from, err := env.AddressList("From"); err == nil && len(from) > 0 {
		email.From = from[0].String()
		email.Newsletter = NewsletterName(from[0])
	} else {
		email.From = rawFrom
		email.Newsletter = rawFrom
	}
	return email, nil
}

// NewsletterName derives the newsletter tag from the sender: the display
// name when present, otherwise the domain of the address.
func NewsletterName(from *mail.Address) string {
	if name := strings.Join(strings.Fields(from.Name), " "); name != "" {
		return name
	}
	if i := strings.LastIndex(from.Address, "@"); i >= 0 {
		return strings.ToLower(from.Address[i+1:])
	}
	return strings.ToLower(from.Address)
}
