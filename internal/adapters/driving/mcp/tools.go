package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

// maxRetrieveK bounds the number of chunks the retrieve tool returns.
const maxRetrieveK = 20

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the processed PDF documents"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string          `json:"answer"`
	Model   string          `json:"model"`
	Context []ContextOutput `json:"context"`
}

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Question string `json:"question" jsonschema:"the question to find relevant passages for"`
	K        int    `json:"k,omitempty" jsonschema:"number of passages to return (default 2)"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Results []ContextOutput `json:"results"`
	Count   int             `json:"count"`
}

// ContextOutput represents a single retrieved chunk.
type ContextOutput struct {
	Rank     int     `json:"rank"`
	Distance float64 `json:"distance"`
	Text     string  `json:"text"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using only the processed PDF documents",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Return the passages of the processed PDF documents closest to a question",
	}, s.handleRetrieve)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if strings.TrimSpace(input.Question) == "" {
		return nil, AskOutput{}, fmt.Errorf("%w: question is required", domain.ErrInvalidInput)
	}
	if err := s.ensureReady(ctx); err != nil {
		return nil, AskOutput{}, err
	}

	answer, err := s.ports.Session.Ask(ctx, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		Answer:  answer.Text,
		Model:   answer.Model,
		Context: toContextOutput(answer.Context),
	}, nil
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	if strings.TrimSpace(input.Question) == "" {
		return nil, RetrieveOutput{}, fmt.Errorf("%w: question is required", domain.ErrInvalidInput)
	}
	k := input.K
	if k <= 0 {
		k = domain.DefaultTopK
	}
	if k > maxRetrieveK {
		k = maxRetrieveK
	}
	if err := s.ensureReady(ctx); err != nil {
		return nil, RetrieveOutput{}, err
	}

	results, err := s.ports.Session.Retrieve(ctx, input.Question, k)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	output := toContextOutput(results)
	return nil, RetrieveOutput{Results: output, Count: len(output)}, nil
}

func toContextOutput(results []domain.SearchResult) []ContextOutput {
	out := make([]ContextOutput, len(results))
	for i := range results {
		out[i] = ContextOutput{
			Rank:     results[i].Rank,
			Distance: results[i].Distance,
			Text:     results[i].ChunkText,
		}
	}
	return out
}
