package config

import (
	"github.com/povarna/generative-ai-agents/rag-gateway/internal/guardrails"
	"github.com/povarna/generative-ai-agents/rag-gateway/internal/llm"
)

type GatewayConfig struct {
	Guardrails guardrails.Rules `yaml:"guardrails"`
	Pricing    llm.PriceTable   `yaml:"pricing"`
}
