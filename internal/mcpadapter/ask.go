package mcpadapter

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/rag-gateway/internal/pipeline"
)

// AskInput is the MCP tool input schema (matches the HTTP body field name).
type AskInput struct {
	Question string `json:"question" jsonschema:"question to answer from the product knowledge base"`
}

// QuestionHandler runs a question through the guarded pipeline.
type QuestionHandler interface {
	Handle(ctx context.Context, question string) pipeline.Outcome
}

// NewAskHandler returns a tool handler backed by the pipeline.
// Pass the returned function to mcp.AddTool.
func NewAskHandler(p QuestionHandler) func(context.Context, *mcp.CallToolRequest, AskInput) (*mcp.CallToolResult, pipeline.Summary, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, pipeline.Summary, error) {
		return Ask(ctx, p, req, input)
	}
}

// Ask answers one question. Anything but a delivered answer comes back as a
// tool error carrying the reason.
func Ask(
	ctx context.Context,
	p QuestionHandler,
	req *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, pipeline.Summary, error) {
	summary := pipeline.Summarize(p.Handle(ctx, input.Question))

	switch summary.Status {
	case pipeline.StatusDelivered:
		return nil, summary, nil
	default:
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{&mcp.TextContent{Text: summary.Reason}},
		}, summary, nil
	}
}
