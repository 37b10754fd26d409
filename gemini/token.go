package gemini

import (
	"context"
	"strings"

	"github.com/fwojciec/digest"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

// DefaultTokenizerModel is the tokenizer used when none is configured.
// The local tokenizer supports fewer models than the API.
const DefaultTokenizerModel = "gemini-2.0-flash"

var _ digest.TokenCounter = (*TokenCounter)(nil)

// TokenCounter counts tokens of stored link content locally with the
// Gemini tokenizer, without API calls.
type TokenCounter struct {
	tok *tokenizer.LocalTokenizer
}

// NewTokenCounter creates a new TokenCounter for the given model.
// An empty model uses DefaultTokenizerModel.
func NewTokenCounter(model string) (*TokenCounter, error) {
	if model == "" {
		model = DefaultTokenizerModel
	}
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, digest.Errorf(digest.EINVALID, "unsupported tokenizer model %q: %v", model, err)
	}
	return &TokenCounter{tok: tok}, nil
}

// CountTokens counts the number of tokens in text. Blank text has none.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if strings.TrimSpace(text) == "" {
		return 0, nil
	}

	result, err := tc.tok.CountTokens([]*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}, nil)
	if err != nil {
		return 0, err
	}

	return int(result.TotalTokens), nil
}
