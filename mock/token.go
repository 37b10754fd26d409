package mock

import (
	"context"

	"github.com/fwojciec/digest"
)

var _ digest.TokenCounter = (*TokenCounter)(nil)

// TokenCounter is a mock of digest.TokenCounter.
type TokenCounter struct {
	CountTokensFn func(ctx context.Context, text string) (int, error)
}

// CountTokens calls CountTokensFn.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	return tc.CountTokensFn(ctx, text)
}
