package llm

import (
	"context"
	"errors"
)

// Client abstracts LLM providers for document summarization.
type Client interface {
	Summarize(ctx context.Context, input SummarizeInput) (Summary, error)
}

// SummarizeInput captures the inputs needed for a summary request.
type SummarizeInput struct {
	Text string
}

// Summary is the structured output of a summarize call.
type Summary struct {
	Summary    string   `json:"summary"`
	KeyPhrases []string `json:"keyPhrases"`
}

// ErrNotConfigured is returned when no provider credentials are available.
var ErrNotConfigured = errors.New("LLM not configured")

// PlaceholderClient is the stand-in used when no provider key is set.
type PlaceholderClient struct{}

// Summarize returns ErrNotConfigured.
func (PlaceholderClient) Summarize(ctx context.Context, input SummarizeInput) (Summary, error) {
	_ = ctx
	_ = input
	return Summary{}, ErrNotConfigured
}
