package mock

import (
	"context"

	"github.com/fwojciec/digest"
)

var _ digest.LinkService = (*LinkService)(nil)

// LinkService is a mock implementation of digest.LinkService.
type LinkService struct {
	CreateLinkFn    func(ctx context.Context, link *digest.Link) error
	FindLinkByURLFn func(ctx context.Context, url string) (*digest.Link, error)
	FindLinksFn     func(ctx context.Context, filter digest.LinkFilter) ([]*digest.Link, error)
	DeleteLinkFn    func(ctx context.Context, id string) error
}

func (s *LinkService) CreateLink(ctx context.Context, link *digest.Link) error {
	return s.CreateLinkFn(ctx, link)
}

func (s *LinkService) FindLinkByURL(ctx context.Context, url string) (*digest.Link, error) {
	return s.FindLinkByURLFn(ctx, url)
}

func (s *LinkService) FindLinks(ctx context.Context, filter digest.LinkFilter) ([]*digest.Link, error) {
	return s.FindLinksFn(ctx, filter)
}

func (s *LinkService) DeleteLink(ctx context.Context, id string) error {
	return s.DeleteLinkFn(ctx, id)
}
