// Package gemini implements summarization and token counting with Google
// Gemini.
package gemini

import (
	"context"
	"strings"

	"github.com/fwojciec/digest"
	"google.golang.org/genai"
)

// Provider identifies Gemini in generated summaries.
const Provider = "gemini"

// DefaultModel is the model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Ensure Summarizer implements digest.Summarizer at compile time.
var _ digest.Summarizer = (*Summarizer)(nil)

// Summarizer implements digest.Summarizer using Google Gemini.
type Summarizer struct {
	client *genai.Client
	model  string
}

// NewSummarizer creates a new Summarizer. An empty model uses DefaultModel.
func NewSummarizer(client *genai.Client, model string) *Summarizer {
	if model == "" {
		model = DefaultModel
	}
	return &Summarizer{client: client, model: model}
}

// Summarize generates a summary of req.Content no longer than req.Limit()
// characters.
func (s *Summarizer) Summarize(ctx context.Context, req digest.SummaryRequest) (*digest.Summary, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.client == nil {
		return nil, digest.Errorf(digest.EUNAUTHORIZED, "gemini client not configured")
	}

	result, err := s.client.Models.GenerateContent(ctx, s.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: digest.SummaryPrompt(req)}},
		}},
		BuildConfig(),
	)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, digest.Errorf(digest.EINTERNAL, "gemini returned nil result")
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return nil, digest.Errorf(digest.EINTERNAL, "gemini returned empty summary")
	}

	return &digest.Summary{
		Summary:  digest.TruncateText(text, req.Limit()),
		Provider: Provider,
		Model:    s.model,
	}, nil
}

// BuildConfig returns the GenerateContentConfig for summary requests.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: digest.SummaryInstruction}},
		},
		Temperature: &temp,
	}
}
