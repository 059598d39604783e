package retrieval

import (
	"context"
	"errors"

	"github.com/povarna/generative-ai-agents/rag-gateway/internal/llm"
)

// ErrNotReady reports that no engine is provisioned or no index is loaded.
var ErrNotReady = errors.New("retrieval engine not ready")

// ErrEmptyIndex is returned by the engine factory when the vector store holds no chunks.
var ErrEmptyIndex = errors.New("no chunks indexed")

type Result struct {
	Answer         string
	Sources        []string
	LatencySeconds float64
	ModelID        string
	Usage          llm.Usage
}

// Engine answers a question from retrieved context.
type Engine interface {
	Ask(ctx context.Context, question string) (*Result, error)
}
