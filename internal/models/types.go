package models

import (
	"time"

	"github.com/povarna/generative-ai-agents/rag-gateway/internal/pipeline"
)

// Input message

type AskRequest struct {
	RequestID string `json:"request_id,omitempty" description:"Caller supplied identifier, generated when empty"`
	Question  string `json:"question" description:"Question to answer from the product knowledge base" validate:"max=4096"`
}

// Final output published to the result stream
type AskResult struct {
	RequestID   string           `json:"request_id"`
	Result      pipeline.Summary `json:"result"`
	CompletedAt time.Time        `json:"completed_at"`
}
