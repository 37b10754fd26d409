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
var _ digest.LinkService = (*LinkService)(nil)

// LinkService implements digest.LinkService using SQLite.
type LinkService struct {
	db *DB
}

// NewLinkService creates a new LinkService.
func NewLinkService(db *DB) *LinkService {
	return &LinkService{db: db}
}

const linkColumns = `id, url, type, title, author, publish_date, summary, content, newsletter, content_hash, created_at`

// CreateLink stores a new link and assigns its ID, content hash and
// creation time.
func (s *LinkService) CreateLink(ctx context.Context, link *digest.Link) error {
	if err := link.Validate(); err != nil {
		return err
	}

	link.ID = uuid.New().String()
	link.CreatedAt = time.Now().UTC().Truncate(time.Second)
	link.ContentHash = hashContent(link.Content)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO links (`+linkColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, link.ID, link.URL, string(link.Type), link.Title, nullString(link.Author), nullString(link.PublishDate),
		link.Summary, link.Content, link.Newsletter, link.ContentHash, formatTime(link.CreatedAt))

	if isUniqueViolation(err) {
		return digest.Errorf(digest.ECONFLICT, "link already exists: %s", link.URL)
	}
	return err
}

// FindLinkByURL retrieves a link by URL.
func (s *LinkService) FindLinkByURL(ctx context.Context, url string) (*digest.Link, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+linkColumns+` FROM links WHERE url = ?`, url)

	link, err := scanLink(row)
	if err == sql.ErrNoRows {
		return nil, digest.Errorf(digest.ENOTFOUND, "link not found")
	}
	if err != nil {
		return nil, err
	}
	return link, nil
}

// FindLinks retrieves links matching the filter, newest first.
func (s *LinkService) FindLinks(ctx context.Context, filter digest.LinkFilter) ([]*digest.Link, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT ` + linkColumns + ` FROM links WHERE 1=1`)

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Type != nil {
		query.WriteString(" AND type = ?")
		args = append(args, string(*filter.Type))
	}
	if filter.Newsletter != nil {
		query.WriteString(" AND newsletter = ?")
		args = append(args, *filter.Newsletter)
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []*digest.Link
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}

	return links, rows.Err()
}

// DeleteLink permanently removes a link.
func (s *LinkService) DeleteLink(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM links WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return digest.Errorf(digest.ENOTFOUND, "link not found")
	}

	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanLink(row scanner) (*digest.Link, error) {
	var link digest.Link
	var typ, createdAt string
	var author, publishDate sql.NullString

	if err := row.Scan(&link.ID, &link.URL, &typ, &link.Title, &author, &publishDate,
		&link.Summary, &link.Content, &link.Newsletter, &link.ContentHash, &createdAt); err != nil {
		return nil, err
	}

	link.Type = digest.LinkType(typ)
	link.Author = stringPtr(author)
	link.PublishDate = stringPtr(publishDate)

	var err error
	if link.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	return &link, nil
}
