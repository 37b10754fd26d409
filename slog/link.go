package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/digest"
)

// Ensure LoggingLinkService implements digest.LinkService.
var _ digest.LinkService = (*LoggingLinkService)(nil)

// LoggingLinkService wraps a LinkService and logs writes.
type LoggingLinkService struct {
	next   digest.LinkService
	logger *slog.Logger
}

// NewLoggingLinkService creates a new LoggingLinkService.
func NewLoggingLinkService(next digest.LinkService, logger *slog.Logger) *LoggingLinkService {
	return &LoggingLinkService{next: next, logger: logger}
}

// CreateLink delegates to the wrapped service and logs the outcome.
// Conflicts are logged at debug level since re-runs produce them routinely.
func (s *LoggingLinkService) CreateLink(ctx context.Context, link *digest.Link) (err error) {
	defer func(begin time.Time) {
		level := slog.LevelInfo
		switch digest.ErrorCode(err) {
		case "":
		case digest.ECONFLICT:
			level = slog.LevelDebug
		default:
			level = slog.LevelWarn
		}
		s.logger.Log(ctx, level, "store link",
			"url", link.URL,
			"type", string(link.Type),
			"newsletter", link.Newsletter,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateLink(ctx, link)
}

// FindLinkByURL delegates to the wrapped service.
func (s *LoggingLinkService) FindLinkByURL(ctx context.Context, url string) (*digest.Link, error) {
	return s.next.FindLinkByURL(ctx, url)
}

// FindLinks delegates to the wrapped service.
func (s *LoggingLinkService) FindLinks(ctx context.Context, filter digest.LinkFilter) ([]*digest.Link, error) {
	return s.next.FindLinks(ctx, filter)
}

// DeleteLink delegates to the wrapped service and logs the deletion.
func (s *LoggingLinkService) DeleteLink(ctx context.Context, id string) (err error) {
	defer func() {
		s.logger.Info("delete link", "id", id, "err", err)
	}()
	return s.next.DeleteLink(ctx, id)
}
