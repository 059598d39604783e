package llm

type LLMRequest struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

type Usage struct {
	InputTokens  int
	OutputTokens int
}

type LLMResponse struct {
	Content    string
	StopReason string
	ModelID    string
	Usage      Usage
}
