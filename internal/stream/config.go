package stream

import "github.com/povarna/generative-ai-agents/rag-gateway/internal/stream/redis"

type StreamConfig struct {
	Provider    string // redis for now
	RedisConfig *redis.RedisStreamConfig
}
