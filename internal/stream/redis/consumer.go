package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/povarna/generative-ai-agents/rag-gateway/internal/models"
	"github.com/povarna/generative-ai-agents/rag-gateway/internal/pipeline"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// QuestionHandler answers one question. *pipeline.Pipeline satisfies it.
type QuestionHandler interface {
	Handle(ctx context.Context, question string) pipeline.Outcome
}

// pendingMinIdle is how long a delivered message stays unacknowledged before
// a starting consumer takes it over.
const pendingMinIdle = time.Minute

type Consumer struct {
	client       *redis.Client
	stream       string
	resultStream string
	groupID      string
	consumerName string
	handler      QuestionHandler
	logger       *zerolog.Logger
	minIdle      time.Duration
}

func NewConsumer(client *redis.Client, cfg *RedisStreamConfig, handler QuestionHandler, logger *zerolog.Logger) *Consumer {
	return &Consumer{
		client:       client,
		stream:       cfg.Stream,
		resultStream: cfg.ResultStream,
		groupID:      cfg.Group,
		consumerName: cfg.ConsumerName,
		handler:      handler,
		logger:       logger,
		minIdle:      pendingMinIdle,
	}
}

func (c *Consumer) Setup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.groupID, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info().
		Str("stream", c.stream).
		Str("result_stream", c.resultStream).
		Str("group", c.groupID).
		Str("consumer", c.consumerName).
		Msg("Consumer started")

	c.reclaim(ctx)

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		msgs, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.groupID,
			Consumer: c.consumerName,
			Streams:  []string{c.stream, ">"},
			Count:    1,
			Block:    2 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				// timeout, no message -> loop again
				continue
			}

			if ctx.Err() != nil {
				return ctx.Err() // context cancelled during block
			}

			c.logger.Error().Err(err).Msg("Failed to read from stream")
			continue
		}

		for _, msg := range msgs[0].Messages {
			c.process(ctx, msg)
		}
	}
}

func (c *Consumer) Stop() error {
	return c.client.Close()
}

func (c *Consumer) process(ctx context.Context, msg redis.XMessage) {
	c.logger.Info().Str("id", msg.ID).Msg("Message received")

	payload, ok := msg.Values["payload"].(string)
	if !ok {
		c.logger.Error().Str("id", msg.ID).Msg("Missing payload field")
		c.ack(ctx, msg.ID)
		return
	}

	var askRequest models.AskRequest
	if err := json.Unmarshal([]byte(payload), &askRequest); err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to decode message")
		c.ack(ctx, msg.ID) // bad message, ACK to skip it
		return
	}

	if askRequest.RequestID == "" {
		askRequest.RequestID = msg.ID
	}

	summary := pipeline.Summarize(c.handler.Handle(ctx, askRequest.Question))

	c.logger.Info().
		Str("id", msg.ID).
		Str("request_id", askRequest.RequestID).
		Str("status", string(summary.Status)).
		Msg("Question handled")

	if err := c.publish(ctx, models.AskResult{
		RequestID:   askRequest.RequestID,
		Result:      summary,
		CompletedAt: time.Now().UTC(),
	}); err != nil {
		// Left pending; reclaim picks it up on the next start.
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to publish result")
		return
	}

	c.ack(ctx, msg.ID)
}

// reclaim processes messages left pending by a failed publish or a worker
// that died before acking.
func (c *Consumer) reclaim(ctx context.Context) {
	start := "0-0"
	for ctx.Err() == nil {
		msgs, next, err := c.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
			Stream:   c.stream,
			Group:    c.groupID,
			Consumer: c.consumerName,
			MinIdle:  c.minIdle,
			Start:    start,
			Count:    10,
		}).Result()
		if err != nil {
			c.logger.Error().Err(err).Msg("Failed to reclaim pending messages")
			return
		}

		if len(msgs) > 0 {
			c.logger.Info().Int("count", len(msgs)).Msg("Reclaimed pending messages")
		}
		for _, msg := range msgs {
			c.process(ctx, msg)
		}

		if next == "" || next == "0-0" {
			return
		}
		start = next
	}
}

func (c *Consumer) publish(ctx context.Context, result models.AskResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return c.client.XAdd(ctx, &redis.XAddArgs{
		Stream: c.resultStream,
		Values: map[string]any{"payload": string(data)},
	}).Err()
}

func (c *Consumer) ack(ctx context.Context, msgID string) {
	if err := c.client.XAck(ctx, c.stream, c.groupID, msgID).Err(); err != nil {
		c.logger.Error().Err(err).Str("id", msgID).Msg("Failed to ACK message")
	}
}
