package setup

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/povarna/generative-ai-agents/rag-gateway/internal/config"
	"github.com/povarna/generative-ai-agents/rag-gateway/internal/database"
	"github.com/povarna/generative-ai-agents/rag-gateway/internal/guardrails"
	"github.com/povarna/generative-ai-agents/rag-gateway/internal/llm"
	"github.com/povarna/generative-ai-agents/rag-gateway/internal/llm/bedrock"
	"github.com/povarna/generative-ai-agents/rag-gateway/internal/llm/gpt"
	"github.com/povarna/generative-ai-agents/rag-gateway/internal/metrics"
	"github.com/povarna/generative-ai-agents/rag-gateway/internal/pipeline"
	redisconn "github.com/povarna/generative-ai-agents/rag-gateway/internal/redis"
	"github.com/povarna/generative-ai-agents/rag-gateway/internal/retrieval"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

type Config struct {
	AWSRegion           string
	ClaudeModelID       string
	EmbeddingModelID    string
	EmbeddingDimensions int
	LLMProvider         string
	OpenAIKey           string
	OpenAIModelID       string
	GroqAPIKey          string
	GroqModelID         string
	Database            database.Config
	RAG                 retrieval.Config
	Redis               redisconn.Config
	AuditStream         string
	AskStream           string
	AskResultStream     string
	AskGroup            string
	Canary              string
	Port                string
	MetricsPort         string
	RateLimitRPS        float64
	RateLimitBurst      int
	LogLevel            string
}

type Dependencies struct {
	Pipeline *pipeline.Pipeline
	Engine   *retrieval.LazyEngine
	Metrics  *metrics.PrometheusSink
	Gateway  *config.GatewayConfig
	Logger   *zerolog.Logger

	mu      sync.Mutex
	closers []func()
}

func LoadConfig() *Config {
	return &Config{
		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		ClaudeModelID:       getEnv("CLAUDE_MODEL_ID", "anthropic.claude-3-haiku-20240307-v1:0"),
		EmbeddingModelID:    getEnv("EMBEDDING_MODEL_ID", bedrock.DefaultEmbeddingModelID),
		EmbeddingDimensions: getEnvInt("EMBEDDING_DIMENSIONS", 1024),
		LLMProvider:         getEnv("LLM_PROVIDER", "bedrock"),
		OpenAIKey:           getEnv("OPEN_AI_KEY", ""),
		OpenAIModelID:       getEnv("OPEN_AI_MODEL_ID", "gpt-4o-mini"),
		GroqAPIKey:          getEnv("GROQ_API_KEY", ""),
		GroqModelID:         getEnv("GROQ_MODEL_ID", "llama-3.1-8b-instant"),
		Database: database.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "rag"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RAG: retrieval.Config{
			TopK:        getEnvInt("RAG_TOP_K", retrieval.DefaultTopK),
			MaxTokens:   getEnvInt("RAG_MAX_TOKENS", 1024),
			Temperature: getEnvFloat("RAG_TEMPERATURE", 0.1),
		},
		Redis: redisconn.Config{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		AuditStream:     getEnv("AUDIT_STREAM", "guardrail-events"),
		AskStream:       getEnv("ASK_STREAM", "ask-requests"),
		AskResultStream: getEnv("ASK_RESULT_STREAM", "ask-results"),
		AskGroup:        getEnv("ASK_GROUP", "rag-workers"),
		Canary:          getEnv("CANARY", "false"),
		Port:            getEnv("AGENT_API_PORT", "8081"),
		MetricsPort:     getEnv("METRICS_PORT", "9091"),
		RateLimitRPS:    getEnvFloat("RATE_LIMIT_RPS", 0),
		RateLimitBurst:  getEnvInt("RATE_LIMIT_BURST", 10),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}
}

// Wire builds the pipeline. The database is opened on the first question,
// not here, so the process starts even when the vector store is down.
// Cancel ctx before calling Close.
func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	gatewayConfig, err := config.LoadGatewayConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load gateway config: %w", err)
	}

	inputValidator, err := guardrails.NewInputValidator(gatewayConfig.Guardrails.Input)
	if err != nil {
		return nil, fmt.Errorf("failed to build input validator: %w", err)
	}
	outputModerator := guardrails.NewOutputModerator(gatewayConfig.Guardrails.Output)

	generator, err := createLLMClient(ctx, cfg.LLMProvider, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.LLMProvider, err)
	}

	runtime, err := bedrock.NewRuntime(ctx, cfg.AWSRegion)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding client: %w", err)
	}
	embedder := bedrock.NewEmbedder(runtime, cfg.EmbeddingModelID, cfg.EmbeddingDimensions)

	deps := &Dependencies{
		Gateway: gatewayConfig,
		Logger:  logger,
	}

	deps.Engine = retrieval.NewLazyEngine(func(ctx context.Context) (retrieval.Engine, error) {
		db, err := database.NewWithBackoff(ctx, cfg.Database, 3)
		if err != nil {
			return nil, err
		}

		engine, err := retrieval.NewRAGFactory(db, embedder, generator, cfg.RAG, logger)(ctx)
		if err != nil {
			db.Close()
			return nil, err
		}

		deps.addCloser(db.Close)
		return engine, nil
	}, logger)

	deps.Metrics = metrics.NewPrometheusSink(prometheus.DefaultRegisterer)
	sinks := metrics.Fanout{deps.Metrics}

	if cfg.Redis.Addr != "" {
		client, err := redisconn.ConnectRedis(ctx, cfg.Redis, 5)
		if err != nil {
			return nil, fmt.Errorf("failed to connect audit stream: %w", err)
		}

		audit := metrics.NewStreamSink(client, cfg.AuditStream, 1024, logger)
		go audit.Run(ctx)
		sinks = append(sinks, audit)

		deps.addCloser(func() {
			<-audit.Done()
			_ = client.Close()
		})
		logger.Info().Str("stream", cfg.AuditStream).Msg("Guardrail audit stream enabled")
	}

	deps.Pipeline = pipeline.NewPipeline(
		inputValidator,
		deps.Engine,
		outputModerator,
		sinks,
		gatewayConfig.Pricing,
		logger,
	)

	logger.Info().
		Str("provider", cfg.LLMProvider).
		Int("top_k", cfg.RAG.TopK).
		Int("injection_phrases", len(gatewayConfig.Guardrails.Input.InjectionPhrases)).
		Int("pii_patterns", len(gatewayConfig.Guardrails.Input.PIIPatterns)).
		Int("banned_terms", len(gatewayConfig.Guardrails.Output.BannedTerms)).
		Msg("Pipeline wired")

	return deps, nil
}

// Close releases connections in reverse order of acquisition.
func (d *Dependencies) Close() {
	d.mu.Lock()
	closers := d.closers
	d.closers = nil
	d.mu.Unlock()

	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}
}

func (d *Dependencies) addCloser(closer func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closers = append(d.closers, closer)
}

// AskLimiter returns nil when rate limiting is disabled.
func (c *Config) AskLimiter() *rate.Limiter {
	if c.RateLimitRPS <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(c.RateLimitRPS), max(c.RateLimitBurst, 1))
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		value = defaultValue
	}

	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		value = defaultValue
	}

	return value
}

func createLLMClient(ctx context.Context, provider string, cfg *Config) (llm.LLMClient, error) {
	switch strings.ToLower(provider) {
	case "bedrock", "":
		return bedrock.NewClient(ctx, cfg.AWSRegion, cfg.ClaudeModelID)
	case "openai":
		return gpt.NewClient(cfg.OpenAIKey, cfg.OpenAIModelID)
	case "groq":
		return gpt.NewGroqClient(cfg.GroqAPIKey, cfg.GroqModelID)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}
