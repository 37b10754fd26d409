package digest

import (
	"context"
	"time"
)

// Email is one decoded newsletter email. HTML and Text hold the decoded
// bodies; either may be empty.
type Email struct {
	ID         string    `json:"id"`
	MessageID  string    `json:"messageId"`
	From       string    `json:"from"`
	Newsletter string    `json:"newsletter"`
	Subject    string    `json:"subject"`
	ReceivedAt time.Time `json:"receivedAt"`
	HTML       string    `json:"html"`
	Text       string    `json:"text"`
}

// Body returns the HTML body if present, otherwise the text body.
func (e *Email) Body() string {
	if e.HTML != "" {
		return e.HTML
	}
	return e.Text
}

// EmailSource supplies newsletter emails.
type EmailSource interface {
	// FetchEmails returns emails received at or after since, oldest first.
	FetchEmails(ctx context.Context, since time.Time) ([]*Email, error)
}

// Newsletter records a processed email so that re-runs skip it.
type Newsletter struct {
	ID         string    `json:"id"`
	MessageID  string    `json:"messageId"`
	Name       string    `json:"name"`
	Sender     string    `json:"sender"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"` // Markdown
	LinkCount  int       `json:"linkCount"`
	ReceivedAt time.Time `json:"receivedAt"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Validate returns an error if the newsletter contains invalid fields.
func (n *Newsletter) Validate() error {
	if n.MessageID == "" {
		return Errorf(EINVALID, "newsletter message ID required")
	}
	if n.Name == "" {
		return Errorf(EINVALID, "newsletter name required")
	}
	return nil
}

// NewsletterService represents a service for managing processed newsletters.
type NewsletterService interface {
	// CreateNewsletter records a processed email.
	// Returns ECONFLICT if the message ID was already recorded.
	CreateNewsletter(ctx context.Context, n *Newsletter) error

	// FindNewsletterByMessageID retrieves a newsletter by email message ID.
	// Returns ENOTFOUND if it does not exist.
	FindNewsletterByMessageID(ctx context.Context, messageID string) (*Newsletter, error)

	// FindNewsletters retrieves newsletters matching the filter, newest first.
	FindNewsletters(ctx context.Context, filter NewsletterFilter) ([]*Newsletter, error)
}

// NewsletterFilter represents a filter for FindNewsletters.
type NewsletterFilter struct {
	Name *string `json:"name"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
