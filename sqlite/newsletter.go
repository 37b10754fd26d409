package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/digest"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ digest.NewsletterService = (*NewsletterService)(nil)

// NewsletterService implements digest.NewsletterService using SQLite.
type NewsletterService struct {
	db *DB
}

// NewNewsletterService creates a new NewsletterService.
func NewNewsletterService(db *DB) *NewsletterService {
	return &NewsletterService{db: db}
}

const newsletterColumns = `id, message_id, name, sender, subject, body, link_count, received_at, created_at`

// CreateNewsletter records a processed email.
func (s *NewsletterService) CreateNewsletter(ctx context.Context, n *digest.Newsletter) error {
	if err := n.Validate(); err != nil {
		return err
	}

	n.ID = uuid.New().String()
	n.CreatedAt = time.Now().UTC().Truncate(time.Second)
	n.ReceivedAt = n.ReceivedAt.UTC().Truncate(time.Second)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO newsletters (`+newsletterColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, n.ID, n.MessageID, n.Name, n.Sender, n.Subject, n.Body, n.LinkCount,
		formatTime(n.ReceivedAt), formatTime(n.CreatedAt))

	if isUniqueViolation(err) {
		return digest.Errorf(digest.ECONFLICT, "newsletter already recorded: %s", n.MessageID)
	}
	return err
}

// FindNewsletterByMessageID retrieves a newsletter by email message ID.
func (s *NewsletterService) FindNewsletterByMessageID(ctx context.Context, messageID string) (*digest.Newsletter, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+newsletterColumns+` FROM newsletters WHERE message_id = ?`, messageID)

	n, err := scanNewsletter(row)
	if err == sql.ErrNoRows {
		return nil, digest.Errorf(digest.ENOTFOUND, "newsletter not found")
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

// FindNewsletters retrieves newsletters matching the filter, most recently
// received first.
func (s *NewsletterService) FindNewsletters(ctx context.Context, filter digest.NewsletterFilter) ([]*digest.Newsletter, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT ` + newsletterColumns + ` FROM newsletters WHERE 1=1`)

	if filter.Name != nil {
		query.WriteString(" AND name = ?")
		args = append(args, *filter.Name)
	}

	query.WriteString(" ORDER BY received_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var newsletters []*digest.Newsletter
	for rows.Next() {
		n, err := scanNewsletter(rows)
		if err != nil {
			return nil, err
		}
		newsletters = append(newsletters, n)
	}

	return newsletters, rows.Err()
}

func scanNewsletter(row scanner) (*digest.Newsletter, error) {
	var n digest.Newsletter
	var receivedAt, createdAt string

	if err := row.Scan(&n.ID, &n.MessageID, &n.Name, &n.Sender, &n.Subject, &n.Body, &n.LinkCount,
		&receivedAt, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if n.ReceivedAt, err = parseRFC3339(receivedAt, "received_at"); err != nil {
		return nil, err
	}
	if n.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	return &n, nil
}
