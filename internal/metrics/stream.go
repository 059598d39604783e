package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/povarna/generative-ai-agents/rag-gateway/internal/guardrails"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var ErrBufferFull = errors.New("audit buffer full")

const publishTimeout = 3 * time.Second

// AuditRecord is the payload published for every guardrail block.
type AuditRecord struct {
	Stage      guardrails.Stage  `json:"stage"`
	Action     guardrails.Action `json:"action"`
	RuleID     guardrails.RuleID `json:"rule_id"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// StreamSink publishes guardrail events to a Redis stream from a background
// goroutine. Recording never waits on Redis: when the buffer is full the
// event is dropped and ErrBufferFull returned. Latency, token and cost
// figures are left to the Prometheus sink.
type StreamSink struct {
	client *redis.Client
	stream string
	maxLen int64
	events chan AuditRecord
	done   chan struct{}
	logger *zerolog.Logger
}

func NewStreamSink(client *redis.Client, stream string, buffer int, logger *zerolog.Logger) *StreamSink {
	if buffer <= 0 {
		buffer = 256
	}

	return &StreamSink{
		client: client,
		stream: stream,
		maxLen: 100000,
		events: make(chan AuditRecord, buffer),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Run publishes until ctx is cancelled, then flushes what is still buffered.
func (s *StreamSink) Run(ctx context.Context) {
	defer close(s.done)

	for {
		select {
		case record := <-s.events:
			s.publish(record)
		case <-ctx.Done():
			s.flush()
			return
		}
	}
}

// Done is closed when Run has returned.
func (s *StreamSink) Done() <-chan struct{} {
	return s.done
}

func (s *StreamSink) RecordGuardrailEvent(event guardrails.Event) error {
	record := AuditRecord{
		Stage:      event.Stage,
		Action:     event.Action,
		RuleID:     event.RuleID,
		OccurredAt: time.Now().UTC(),
	}

	select {
	case s.events <- record:
		return nil
	default:
		return ErrBufferFull
	}
}

func (s *StreamSink) RecordLatency(seconds float64) error             { return nil }
func (s *StreamSink) RecordTokens(input int, output int) error        { return nil }
func (s *StreamSink) RecordCost(modelID string, amount float64) error { return nil }

func (s *StreamSink) flush() {
	for {
		select {
		case record := <-s.events:
			s.publish(record)
		default:
			return
		}
	}
}

// publish is bounded by its own timeout so records taken off the buffer
// during shutdown still reach Redis.
func (s *StreamSink) publish(record AuditRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	data, err := json.Marshal(record)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode audit record")
		return
	}

	err = s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: s.maxLen,
		Approx: true,
		Values: map[string]any{"payload": string(data)},
	}).Err()
	if err != nil {
		s.logger.Warn().Err(err).Str("stream", s.stream).Msg("Failed to publish audit record")
	}
}
