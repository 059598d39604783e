package retrieval

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/povarna/generative-ai-agents/rag-gateway/internal/database"
	"github.com/povarna/generative-ai-agents/rag-gateway/internal/llm"
	"github.com/rs/zerolog"
)

const (
	DefaultTopK      = 5
	sourcePreviewLen = 200
)

const systemPrompt = `You are a product insight assistant for an e-commerce marketplace.
Answer the question using only the context passages provided.
If the context does not contain the answer, say that you do not know.`

type ChunkSearcher interface {
	SemanticSearch(ctx context.Context, queryEmbeddings []float32, limit int) ([]database.Chunk, error)
}

type ChunkStore interface {
	ChunkSearcher
	CountChunks(ctx context.Context) (int64, error)
}

type Config struct {
	TopK        int
	MaxTokens   int
	Temperature float64
}

// RAGEngine embeds the question, pulls the nearest chunks and asks the
// generator to answer from them.
type RAGEngine struct {
	embedder  llm.Embedder
	searcher  ChunkSearcher
	generator llm.LLMClient
	config    Config
	logger    *zerolog.Logger
}

func NewRAGEngine(embedder llm.Embedder, searcher ChunkSearcher, generator llm.LLMClient, config Config, logger *zerolog.Logger) *RAGEngine {
	if config.TopK <= 0 {
		config.TopK = DefaultTopK
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = 1024
	}

	return &RAGEngine{
		embedder:  embedder,
		searcher:  searcher,
		generator: generator,
		config:    config,
		logger:    logger,
	}
}

// NewRAGFactory checks that the store holds an index before handing out an engine.
func NewRAGFactory(store ChunkStore, embedder llm.Embedder, generator llm.LLMClient, config Config, logger *zerolog.Logger) Factory {
	return func(ctx context.Context) (Engine, error) {
		count, err := store.CountChunks(ctx)
		if err != nil {
			return nil, fmt.Errorf("unable to inspect index: %w", err)
		}
		if count == 0 {
			return nil, ErrEmptyIndex
		}

		logger.Info().Int64("chunks", count).Int("top_k", config.TopK).Msg("Index loaded")
		return NewRAGEngine(embedder, store, generator, config, logger), nil
	}
}

func (e *RAGEngine) Ask(ctx context.Context, question string) (*Result, error) {
	start := time.Now()

	embedding, err := e.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	chunks, err := e.searcher.SemanticSearch(ctx, embedding, e.config.TopK)
	if err != nil {
		return nil, fmt.Errorf("search chunks: %w", err)
	}

	response, err := e.generator.InvokeModel(ctx, llm.LLMRequest{
		System:      systemPrompt,
		Prompt:      buildPrompt(question, chunks),
		MaxTokens:   e.config.MaxTokens,
		Temperature: e.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	latency := roundLatency(time.Since(start).Seconds())

	e.logger.Debug().
		Int("chunks", len(chunks)).
		Float64("latency_seconds", latency).
		Int("input_tokens", response.Usage.InputTokens).
		Int("output_tokens", response.Usage.OutputTokens).
		Msg("RAG answer generated")

	return &Result{
		Answer:         response.Content,
		Sources:        sourcePreviews(chunks),
		LatencySeconds: latency,
		ModelID:        response.ModelID,
		Usage:          response.Usage,
	}, nil
}

func buildPrompt(question string, chunks []database.Chunk) string {
	var sb strings.Builder
	sb.WriteString("Context:\n")
	for i, chunk := range chunks {
		fmt.Fprintf(&sb, "[%d] %s\n\n", i+1, chunk.Content)
	}
	sb.WriteString("Question: ")
	sb.WriteString(question)
	return sb.String()
}

func sourcePreviews(chunks []database.Chunk) []string {
	sources := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		sources = append(sources, preview(chunk.Content, sourcePreviewLen)+"...")
	}
	return sources
}

// preview cuts on rune boundaries.
func preview(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

func roundLatency(seconds float64) float64 {
	return math.Round(seconds*100) / 100
}
