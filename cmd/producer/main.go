package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/rag-gateway/internal/models"
	red "github.com/povarna/generative-ai-agents/rag-gateway/internal/redis"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	question := flag.String("q", "", "Question to ask")
	stream := flag.String("stream", "ask-requests", "Stream name")
	requestID := flag.String("id", "", "Request ID (generated when empty)")
	flag.Parse()

	if *question == "" {
		fmt.Fprintln(os.Stderr, "Usage: producer -q '<question>'")
		flag.PrintDefaults()
		os.Exit(1)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := run(*question, *stream, *requestID); err != nil {
		log.Error().Err(err).Msg("producer failed")
		os.Exit(1)
	}
}

func run(question, stream, requestID string) error {
	_ = godotenv.Load()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	ctx := context.Background()
	client, err := red.ConnectRedis(ctx, red.Config{Addr: addr, Password: os.Getenv("REDIS_PASSWORD")}, 3)
	if err != nil {
		return err
	}
	defer client.Close()

	if requestID == "" {
		requestID = uuid.New().String()
	}

	data, err := json.Marshal(models.AskRequest{RequestID: requestID, Question: question})
	if err != nil {
		return err
	}

	id, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{"payload": string(data)},
	}).Result()
	if err != nil {
		return err
	}

	log.Info().Str("stream", stream).Str("id", id).Str("request_id", requestID).Msg("Published successfully!")
	return nil
}
