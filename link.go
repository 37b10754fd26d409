package digest

import (
	"context"
	"time"
)

// Link is a classified URL from a newsletter together with the content
// parsed from the page it points to.
type Link struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Type        LinkType  `json:"type"`
	Title       string    `json:"title"`
	Author      *string   `json:"author"`
	PublishDate *string   `json:"publishDate"`
	Summary     string    `json:"summary"`
	Content     string    `json:"content"`
	Newsletter  string    `json:"newsletter"`
	ContentHash string    `json:"contentHash"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Validate returns an error if the link contains invalid fields.
func (l *Link) Validate() error {
	if l.URL == "" {
		return Errorf(EINVALID, "link URL required")
	}
	if _, err := ParseLinkType(string(l.Type)); err != nil {
		return err
	}
	return nil
}

// NewLinkFromContent maps a parse result onto a Link. Failed parses yield a
// link with only the URL, type and newsletter set.
func NewLinkFromContent(url string, typ LinkType, newsletter string, pc *ParsedContent) *Link {
	link := &Link{
		URL:        url,
		Type:       typ,
		Newsletter: newsletter,
	}
	if pc == nil || !pc.Success {
		return link
	}
	link.Title = pc.Title
	link.Author = pc.Author
	link.PublishDate = pc.PublishDate
	link.Summary = pc.Summary
	link.Content = pc.Content
	return link
}

// LinkService represents a service for managing stored links.
type LinkService interface {
	// CreateLink stores a new link.
	// Returns ECONFLICT if a link with the same URL already exists.
	CreateLink(ctx context.Context, link *Link) error

	// FindLinkByURL retrieves a link by URL.
	// Returns ENOTFOUND if the link does not exist.
	FindLinkByURL(ctx context.Context, url string) (*Link, error)

	// FindLinks retrieves links matching the filter, newest first.
	FindLinks(ctx context.Context, filter LinkFilter) ([]*Link, error)

	// DeleteLink permanently removes a link.
	// Returns ENOTFOUND if the link does not exist.
	DeleteLink(ctx context.Context, id string) error
}

// LinkFilter represents a filter for FindLinks.
type LinkFilter struct {
	ID         *string   `json:"id"`
	Type       *LinkType `json:"type"`
	Newsletter *string   `json:"newsletter"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// LinkExporter writes links to an export destination. Saved links become
// visible only after Commit; Abort discards them.
type LinkExporter interface {
	Save(ctx context.Context, link *Link) error
	Commit() error
	Abort() error
}
