package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for pdfchat resources.
	uriScheme = "pdfchat://"

	statusURI = uriScheme + "status"
)

// statusInfo is the body of the status resource.
type statusInfo struct {
	Status    string            `json:"status"`
	Index     *domain.IndexInfo `json:"index,omitempty"`
	Embedding string            `json:"embedding_model,omitempty"`
	LLM       string            `json:"llm_model,omitempty"`
	ChunkSize int               `json:"chunk_size,omitempty"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         statusURI,
		Name:        "status",
		Description: "Whether documents have been processed, and the index and models in use",
		MIMEType:    "application/json",
	}, s.handleStatusResource)
}

// handleStatusResource reports the session state.
// A persisted index is loaded first so a fresh server reports what ask would use.
func (s *Server) handleStatusResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if err := s.ensureReady(ctx); err != nil && !errors.Is(err, domain.ErrNotReady) {
		return nil, err
	}

	state := s.ports.Session.State()
	info := statusInfo{
		Status: state.Status.String(),
		Index:  state.Index,
	}
	if s.ports.Settings != nil {
		if settings, err := s.ports.Settings.Get(); err == nil {
			info.Embedding = settings.Embedding.Model
			info.LLM = settings.LLM.Model
			info.ChunkSize = settings.Chunking.Size
		}
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling status: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
