package gpt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go/option"
	"github.com/povarna/generative-ai-agents/rag-gateway/internal/llm"
)

func TestNewClient_Validation(t *testing.T) {
	if _, err := NewClient("", "gpt-4o-mini"); err == nil {
		t.Error("expected error for missing API key")
	}
	if _, err := NewGroqClient("key", ""); err == nil {
		t.Error("expected error for missing model")
	}
}

func TestClient_InvokeModel(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&received)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "llama-3.1-8b-instant",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "Try the Eid sale."}}],
			"usage": {"prompt_tokens": 50, "completion_tokens": 6, "total_tokens": 56}
		}`))
	}))
	defer server.Close()

	client, err := newClient("test-key", "llama-3.1-8b-instant", option.WithBaseURL(server.URL+"/"), option.WithMaxRetries(0))
	if err != nil {
		t.Fatalf("newClient() failed: %v", err)
	}

	resp, err := client.InvokeModel(context.Background(), llm.LLMRequest{
		System:      "answer from context",
		Prompt:      "When should I buy?",
		MaxTokens:   64,
		Temperature: 0.1,
	})
	if err != nil {
		t.Fatalf("InvokeModel() failed: %v", err)
	}

	if resp.Content != "Try the Eid sale." {
		t.Errorf("expected content 'Try the Eid sale.', got %q", resp.Content)
	}
	if resp.Usage.InputTokens != 50 || resp.Usage.OutputTokens != 6 {
		t.Errorf("expected usage 50/6, got %d/%d", resp.Usage.InputTokens, resp.Usage.OutputTokens)
	}
	if received["model"] != "llama-3.1-8b-instant" {
		t.Errorf("expected model in request body, got %v", received["model"])
	}
	if msgs, ok := received["messages"].([]any); !ok || len(msgs) != 2 {
		t.Errorf("expected system and user messages, got %v", received["messages"])
	}
}
