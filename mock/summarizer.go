package mock

import (
	"context"

	"github.com/fwojciec/digest"
)

var _ digest.Summarizer = (*Summarizer)(nil)

// Summarizer is a mock implementation of digest.Summarizer.
type Summarizer struct {
	SummarizeFn func(ctx context.Context, req digest.SummaryRequest) (*digest.Summary, error)
}

func (s *Summarizer) Summarize(ctx context.Context, req digest.SummaryRequest) (*digest.Summary, error) {
	return s.SummarizeFn(ctx, req)
}
