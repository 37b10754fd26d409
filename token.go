package digest

import "context"

// TokenCounter reports how many model tokens a piece of stored content
// costs. Ingest runs total it per link.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
