package mock

import (
	"context"
	"time"

	"github.com/fwojciec/digest"
)

var _ digest.NewsletterService = (*NewsletterService)(nil)

// NewsletterService is a mock implementation of digest.NewsletterService.
type NewsletterService struct {
	CreateNewsletterFn          func(ctx context.Context, n *digest.Newsletter) error
	FindNewsletterByMessageIDFn func(ctx context.Context, messageID string) (*digest.Newsletter, error)
	FindNewslettersFn           func(ctx context.Context, filter digest.NewsletterFilter) ([]*digest.Newsletter, error)
}

func (s *NewsletterService) CreateNewsletter(ctx context.Context, n *digest.Newsletter) error {
	return s.CreateNewsletterFn(ctx, n)
}

func (s *NewsletterService) FindNewsletterByMessageID(ctx context.Context, messageID string) (*digest.Newsletter, error) {
	return s.FindNewsletterByMessageIDFn(ctx, messageID)
}

func (s *NewsletterService) FindNewsletters(ctx context.Context, filter digest.NewsletterFilter) ([]*digest.Newsletter, error) {
	return s.FindNewslettersFn(ctx, filter)
}

var _ digest.EmailSource = (*EmailSource)(nil)

// EmailSource is a mock implementation of digest.EmailSource.
type EmailSource struct {
	FetchEmailsFn func(ctx context.Context, since time.Time) ([]*digest.Email, error)
}

func (s *EmailSource) FetchEmails(ctx context.Context, since time.Time) ([]*digest.Email, error) {
	return s.FetchEmailsFn(ctx, since)
}
