package llm

import (
	"context"
)

// LLMClient is an interface for invoking LLM models
// This allows mocking in tests without making real API calls
type LLMClient interface {
	InvokeModel(ctx context.Context, request LLMRequest) (*LLMResponse, error)
}

// Embedder turns text into a vector in the same space as the indexed chunks.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
