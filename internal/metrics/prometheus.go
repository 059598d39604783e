package metrics

import (
	"fmt"
	"strconv"

	"github.com/povarna/generative-ai-agents/rag-gateway/internal/guardrails"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusSink keeps pipeline and HTTP metrics in a Prometheus registry.
type PrometheusSink struct {
	guardrailEvents *prometheus.CounterVec
	latency         prometheus.Histogram
	tokens          *prometheus.CounterVec
	cost            *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

func NewPrometheusSink(reg prometheus.Registerer) *PrometheusSink {
	factory := promauto.With(reg)

	return &PrometheusSink{
		// Labels: type (input_validation, output_moderation), action (blocked, flagged)
		guardrailEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "guardrail_events_total",
			Help: "Total number of guardrail triggers",
		}, []string{"type", "action"}),
		latency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rag",
			Name:      "request_latency_seconds",
			Help:      "Retrieval and generation latency in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13, 21},
		}),
		tokens: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "llm",
			Name:      "tokens_total",
			Help:      "Tokens consumed by generation",
		}, []string{"direction"}),
		cost: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "llm",
			Name:      "cost_usd_total",
			Help:      "Estimated generation cost in USD",
		}, []string{"model"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"route", "method", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

func (s *PrometheusSink) RecordLatency(seconds float64) error {
	if seconds < 0 {
		return fmt.Errorf("negative latency %f", seconds)
	}
	s.latency.Observe(seconds)
	return nil
}

func (s *PrometheusSink) RecordTokens(input int, output int) error {
	if input < 0 || output < 0 {
		return fmt.Errorf("negative token count %d/%d", input, output)
	}
	s.tokens.WithLabelValues("input").Add(float64(input))
	s.tokens.WithLabelValues("output").Add(float64(output))
	return nil
}

func (s *PrometheusSink) RecordCost(modelID string, amount float64) error {
	if amount < 0 {
		return fmt.Errorf("negative cost %f for model %s", amount, modelID)
	}
	if modelID == "" {
		modelID = "unknown"
	}
	s.cost.WithLabelValues(modelID).Add(amount)
	return nil
}

func (s *PrometheusSink) RecordGuardrailEvent(event guardrails.Event) error {
	s.guardrailEvents.WithLabelValues(stageLabel(event.Stage), string(event.Action)).Inc()
	return nil
}

// ObserveHTTP is called by the HTTP metrics filter.
func (s *PrometheusSink) ObserveHTTP(route string, method string, status int, seconds float64) {
	s.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	s.httpDuration.WithLabelValues(route, method).Observe(seconds)
}

// stageLabel keeps the dashboard label values used by the guardrail panels.
func stageLabel(stage guardrails.Stage) string {
	switch stage {
	case guardrails.StageInput:
		return "input_validation"
	case guardrails.StageOutput:
		return "output_moderation"
	default:
		return string(stage)
	}
}
