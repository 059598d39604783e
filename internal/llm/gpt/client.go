package gpt

import (
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// GroqBaseURL serves the OpenAI chat completions protocol for Groq-hosted models.
const GroqBaseURL = "https://api.groq.com/openai/v1/"

type Client struct {
	Client  openai.Client
	ModelID string
}

func NewClient(apiKey string, model string) (*Client, error) {
	return newClient(apiKey, model)
}

// NewGroqClient points the OpenAI client at Groq.
func NewGroqClient(apiKey string, model string) (*Client, error) {
	return newClient(apiKey, model, option.WithBaseURL(GroqBaseURL))
}

func newClient(apiKey string, model string, opts ...option.RequestOption) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("model ID is required")
	}

	opts = append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(3),
	}, opts...)

	return &Client{
		Client:  openai.NewClient(opts...),
		ModelID: model,
	}, nil
}
