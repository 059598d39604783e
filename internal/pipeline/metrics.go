package pipeline

import "github.com/povarna/generative-ai-agents/rag-gateway/internal/guardrails"

// MetricsSink receives pipeline telemetry. Implementations must not block
// the caller on I/O. Returned errors are logged and otherwise ignored.
type MetricsSink interface {
	RecordLatency(seconds float64) error
	RecordTokens(input int, output int) error
	RecordCost(modelID string, amount float64) error
	RecordGuardrailEvent(event guardrails.Event) error
}

func (p *Pipeline) emit(metric string, record func(MetricsSink) error) {
	if p.metrics == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().Interface("panic", r).Str("metric", metric).Msg("Metrics sink panicked")
		}
	}()

	if err := record(p.metrics); err != nil {
		p.logger.Warn().Err(err).Str("metric", metric).Msg("Metrics sink failed")
	}
}
