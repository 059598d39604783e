package pipeline

import (
	"context"
	"errors"
	"strings"

	"github.com/povarna/generative-ai-agents/rag-gateway/internal/guardrails"
	"github.com/povarna/generative-ai-agents/rag-gateway/internal/llm"
	"github.com/povarna/generative-ai-agents/rag-gateway/internal/retrieval"
	"github.com/rs/zerolog"
)

// InputChecker validates a question before retrieval
type InputChecker interface {
	CheckInput(query string) guardrails.Verdict
}

// OutputChecker moderates a generated answer
type OutputChecker interface {
	CheckOutput(answer string) guardrails.Verdict
}

type Pipeline struct {
	input   InputChecker
	engine  retrieval.Engine
	output  OutputChecker
	metrics MetricsSink
	prices  llm.PriceTable
	logger  *zerolog.Logger
}

func NewPipeline(
	input InputChecker,
	engine retrieval.Engine,
	output OutputChecker,
	metrics MetricsSink,
	prices llm.PriceTable,
	logger *zerolog.Logger,
) *Pipeline {
	return &Pipeline{
		input:   input,
		engine:  engine,
		output:  output,
		metrics: metrics,
		prices:  prices,
		logger:  logger,
	}
}

// Handle runs one question through input validation, retrieval and output
// moderation. Every path returns an Outcome; nothing here panics or retries.
func (p *Pipeline) Handle(ctx context.Context, question string) Outcome {
	question = strings.TrimSpace(question)
	if question == "" {
		p.logger.Debug().Msg("Empty question rejected")
		return Rejected{Reason: EmptyReason}
	}

	if verdict := p.input.CheckInput(question); !verdict.IsSafe {
		p.block(guardrails.StageInput, verdict)
		return Rejected{
			Reason: verdict.Reason,
			Stage:  guardrails.StageInput,
			RuleID: verdict.RuleID,
		}
	}

	result, err := p.engine.Ask(ctx, question)
	if err != nil {
		if errors.Is(err, retrieval.ErrNotReady) {
			p.logger.Warn().Err(err).Msg("RAG not ready")
			return ServiceUnavailable{Cause: err}
		}

		p.logger.Error().Err(err).Msg("RAG failed")
		return Failure{Message: err.Error(), Cause: err}
	}
	if result == nil {
		err := errors.New("retrieval returned no result")
		p.logger.Error().Err(err).Msg("RAG failed")
		return Failure{Message: err.Error(), Cause: err}
	}

	p.recordUsage(result)

	delivered := Delivered{
		Answer:         result.Answer,
		Sources:        result.Sources,
		LatencySeconds: result.LatencySeconds,
	}

	if verdict := p.output.CheckOutput(result.Answer); !verdict.IsSafe {
		p.block(guardrails.StageOutput, verdict)
		delivered.Answer = guardrails.SafeSubstitution
		delivered.Sanitized = true
	}

	p.logger.Info().
		Int("sources", len(delivered.Sources)).
		Float64("latency_seconds", delivered.LatencySeconds).
		Bool("sanitized", delivered.Sanitized).
		Msg("Answer delivered")

	return delivered
}

func (p *Pipeline) block(stage guardrails.Stage, verdict guardrails.Verdict) {
	p.logger.Warn().
		Str("stage", string(stage)).
		Str("rule_id", string(verdict.RuleID)).
		Str("reason", verdict.Reason).
		Msg("Guardrail blocked")

	event := guardrails.Event{
		Stage:  stage,
		Action: guardrails.ActionBlocked,
		RuleID: verdict.RuleID,
	}
	p.emit("guardrail_event", func(s MetricsSink) error {
		return s.RecordGuardrailEvent(event)
	})
}

func (p *Pipeline) recordUsage(result *retrieval.Result) {
	p.emit("latency", func(s MetricsSink) error {
		return s.RecordLatency(result.LatencySeconds)
	})
	p.emit("tokens", func(s MetricsSink) error {
		return s.RecordTokens(result.Usage.InputTokens, result.Usage.OutputTokens)
	})

	cost := p.prices.Cost(result.ModelID, result.Usage)
	p.emit("cost", func(s MetricsSink) error {
		return s.RecordCost(result.ModelID, cost)
	})
}
