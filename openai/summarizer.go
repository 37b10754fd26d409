// Package openai implements summarization with any OpenAI-compatible chat
// completion API.
package openai

import (
	"context"
	"strings"

	"github.com/fwojciec/digest"
	openai "github.com/sashabaranov/go-openai"
)

// Provider identifies OpenAI in generated summaries.
const Provider = "openai"

// DefaultModel is the model used when none is configured.
const DefaultModel = "gpt-4o-mini"

// Client is the subset of *openai.Client used by Summarizer.
type Client interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Ensure Summarizer implements digest.Summarizer at compile time.
var _ digest.Summarizer = (*Summarizer)(nil)

// Summarizer implements digest.Summarizer with chat completions.
type Summarizer struct {
	client Client
	model  string
}

// NewSummarizer creates a new Summarizer. An empty model uses DefaultModel.
func NewSummarizer(client Client, model string) *Summarizer {
	if model == "" {
		model = DefaultModel
	}
	return &Summarizer{client: client, model: model}
}

// NewClient returns a client for apiKey. A non-empty baseURL targets an
// OpenAI-compatible endpoint.
func NewClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}

// Summarize generates a summary of req.Content no longer than req.Limit()
// characters.
func (s *Summarizer) Summarize(ctx context.Context, req digest.SummaryRequest) (*digest.Summary, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.client == nil {
		return nil, digest.Errorf(digest.EUNAUTHORIZED, "openai client not configured")
	}

	resp, err := s.client.CreateChatCompletion(ctx, BuildRequest(s.model, req))
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, digest.Errorf(digest.EINTERNAL, "openai returned no choices")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return nil, digest.Errorf(digest.EINTERNAL, "openai returned empty summary")
	}

	return &digest.Summary{
		Summary:  digest.TruncateText(text, req.Limit()),
		Provider: Provider,
		Model:    s.model,
	}, nil
}

// BuildRequest returns the chat completion request for req.
func BuildRequest(model string, req digest.SummaryRequest) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model:       model,
		Temperature: 0.2,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: digest.SummaryInstruction},
			{Role: openai.ChatMessageRoleUser, Content: digest.SummaryPrompt(req)},
		},
	}
}
