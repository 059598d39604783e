package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/povarna/generative-ai-agents/rag-gateway/internal/llm"
)

type fakeRuntime struct {
	body    []byte
	err     error
	lastIn  *bedrockruntime.InvokeModelInput
	invoked int
}

func (f *fakeRuntime) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.invoked++
	f.lastIn = params
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: f.body}, nil
}

func TestClient_InvokeModel(t *testing.T) {
	runtime := &fakeRuntime{
		body: []byte(`{
			"content": [{"type": "text", "text": "Watches sell best."}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 120, "output_tokens": 8}
		}`),
	}
	client := &Client{Client: runtime, ModelID: "anthropic.claude-3-haiku-20240307-v1:0"}

	resp, err := client.InvokeModel(context.Background(), llm.LLMRequest{
		System:      "be brief",
		Prompt:      "What sells best?",
		MaxTokens:   256,
		Temperature: 0.1,
	})
	if err != nil {
		t.Fatalf("InvokeModel() failed: %v", err)
	}

	if resp.Content != "Watches sell best." {
		t.Errorf("expected content 'Watches sell best.', got %q", resp.Content)
	}
	if resp.StopReason != "end_turn" {
		t.Errorf("expected stop reason end_turn, got %q", resp.StopReason)
	}
	if resp.Usage.InputTokens != 120 || resp.Usage.OutputTokens != 8 {
		t.Errorf("expected usage 120/8, got %d/%d", resp.Usage.InputTokens, resp.Usage.OutputTokens)
	}
	if resp.ModelID != client.ModelID {
		t.Errorf("expected model id %q, got %q", client.ModelID, resp.ModelID)
	}

	var sent claudeMessageRequest
	if err := json.Unmarshal(runtime.lastIn.Body, &sent); err != nil {
		t.Fatalf("failed to decode sent body: %v", err)
	}
	if sent.AnthropicVersion != anthropicVersion {
		t.Errorf("expected anthropic_version %q, got %q", anthropicVersion, sent.AnthropicVersion)
	}
	if sent.System != "be brief" || len(sent.Messages) != 1 || sent.Messages[0].Content != "What sells best?" {
		t.Errorf("unexpected request payload: %+v", sent)
	}
}

func TestClient_InvokeModel_Error(t *testing.T) {
	client := &Client{Client: &fakeRuntime{err: errors.New("ThrottlingException")}, ModelID: "m"}

	_, err := client.InvokeModel(context.Background(), llm.LLMRequest{Prompt: "hi"})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestEmbedder_Embed(t *testing.T) {
	runtime := &fakeRuntime{body: []byte(`{"embedding": [0.1, 0.2, 0.3], "inputTextTokenCount": 4}`)}
	embedder := NewEmbedder(runtime, "", 3)

	vec, err := embedder.Embed(context.Background(), "best watches")
	if err != nil {
		t.Fatalf("Embed() failed: %v", err)
	}
	if len(vec) != 3 {
		t.Fatalf("expected 3 dimensions, got %d", len(vec))
	}
	if *runtime.lastIn.ModelId != DefaultEmbeddingModelID {
		t.Errorf("expected default model id, got %q", *runtime.lastIn.ModelId)
	}

	var sent titanEmbeddingRequest
	if err := json.Unmarshal(runtime.lastIn.Body, &sent); err != nil {
		t.Fatalf("failed to decode sent body: %v", err)
	}
	if sent.InputText != "best watches" || sent.Dimensions != 3 || !sent.Normalize {
		t.Errorf("unexpected request payload: %+v", sent)
	}
}

func TestEmbedder_Embed_EmptyVector(t *testing.T) {
	embedder := NewEmbedder(&fakeRuntime{body: []byte(`{"embedding": []}`)}, "titan", 0)

	if _, err := embedder.Embed(context.Background(), "x"); err == nil {
		t.Fatal("expected error for empty embedding")
	}
}
