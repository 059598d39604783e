package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	"github.com/povarna/generative-ai-agents/rag-gateway/internal/guardrails"
	"github.com/povarna/generative-ai-agents/rag-gateway/internal/llm"
	"github.com/rs/zerolog/log"
	"go.yaml.in/yaml/v3"
)

const DefaultConfigPath = "configs/gateway.yaml"

// LoadGatewayConfig reads the rule tables and price table. A missing file
// yields the built-in defaults.
func LoadGatewayConfig() (*GatewayConfig, error) {

	path := os.Getenv("GATEWAY_CONFIG_PATH")
	if path == "" {
		path = DefaultConfigPath
	}

	var cfg GatewayConfig

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Warn().Str("path", path).Msg("Gateway config not found, using defaults")
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyDefaults fills every omitted section. An explicitly empty list is
// kept, so a deployment can switch a rule family off.
func applyDefaults(cfg *GatewayConfig) {
	rules := cfg.Guardrails
	if rules.Input.InjectionPhrases == nil {
		cfg.Guardrails.Input.InjectionPhrases = guardrails.DefaultInputRules().InjectionPhrases
	}
	if rules.Input.PIIPatterns == nil {
		cfg.Guardrails.Input.PIIPatterns = guardrails.DefaultInputRules().PIIPatterns
	}
	if rules.Output.BannedTerms == nil {
		cfg.Guardrails.Output.BannedTerms = guardrails.DefaultOutputRules().BannedTerms
	}
	if rules.Output.MinAnswerLength == 0 {
		cfg.Guardrails.Output.MinAnswerLength = guardrails.MinAnswerLength
	}
	if cfg.Pricing == nil {
		cfg.Pricing = llm.DefaultPriceTable()
	}
}

func (c *GatewayConfig) Validate() error {
	for _, p := range c.Guardrails.Input.PIIPatterns {
		if p.Name == "" {
			return fmt.Errorf("pii pattern %q has no name", p.Pattern)
		}
		if _, err := regexp.Compile(p.Pattern); err != nil {
			return fmt.Errorf("invalid PII pattern %q: %w", p.Name, err)
		}
	}

	if c.Guardrails.Output.MinAnswerLength < 0 {
		return fmt.Errorf("min_answer_length must not be negative")
	}

	for model, price := range c.Pricing {
		if price.Input < 0 || price.Output < 0 {
			return fmt.Errorf("price for %s must not be negative", model)
		}
	}
	return nil
}
