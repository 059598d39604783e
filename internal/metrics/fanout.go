package metrics

import (
	"errors"

	"github.com/povarna/generative-ai-agents/rag-gateway/internal/guardrails"
	"github.com/povarna/generative-ai-agents/rag-gateway/internal/pipeline"
)

// Fanout forwards every record to all sinks and joins their errors.
type Fanout []pipeline.MetricsSink

func (f Fanout) RecordLatency(seconds float64) error {
	return f.each(func(s pipeline.MetricsSink) error { return s.RecordLatency(seconds) })
}

func (f Fanout) RecordTokens(input int, output int) error {
	return f.each(func(s pipeline.MetricsSink) error { return s.RecordTokens(input, output) })
}

func (f Fanout) RecordCost(modelID string, amount float64) error {
	return f.each(func(s pipeline.MetricsSink) error { return s.RecordCost(modelID, amount) })
}

func (f Fanout) RecordGuardrailEvent(event guardrails.Event) error {
	return f.each(func(s pipeline.MetricsSink) error { return s.RecordGuardrailEvent(event) })
}

func (f Fanout) each(record func(pipeline.MetricsSink) error) error {
	var errs []error
	for _, sink := range f {
		if sink == nil {
			continue
		}
		if err := record(sink); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
