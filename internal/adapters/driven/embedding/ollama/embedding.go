// Package ollama provides an embedding service adapter using a local Ollama server.
package ollama

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/custodia-labs/pdfchat/internal/adapters/driven/ollamaclient"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultModel      = domain.DefaultEmbeddingModel
	DefaultTimeout    = 60 * time.Second
	DefaultDimensions = 384 // all-MiniLM-L6-v2
)

// Config holds configuration for the Ollama embedding service.
type Config struct {
	// BaseURL is the Ollama API base URL. Empty uses OLLAMA_HOST or the local default.
	BaseURL string

	// Model is the embedding model to use (default: all-minilm).
	Model string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration

	// Dimensions is the expected embedding vector size (model-dependent).
	Dimensions int
}

// EmbeddingService generates embeddings using Ollama's batch embed endpoint.
type EmbeddingService struct {
	client     *api.Client
	model      string
	dimensions atomic.Int64
}

// NewEmbeddingService creates a new Ollama embedding service.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = DefaultDimensions
	}

	client, err := ollamaclient.New(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}

	s := &EmbeddingService{
		client: client,
		model:  cfg.Model,
	}
	s.dimensions.Store(int64(cfg.Dimensions))
	return s, nil
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// EmbedBatch generates embeddings for texts in a single request, in input order.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := s.client.Embed(ctx, &api.EmbedRequest{
		Model: s.model,
		Input: texts,
	})
	if err != nil {
		return nil, ollamaclient.Wrap(ctx, "embed", err, domain.ErrEmbeddingUnavailable)
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama embed: got %d embeddings for %d texts", len(resp.Embeddings), len(texts))
	}
	if n := len(resp.Embeddings[0]); n > 0 {
		// The model is the authority on its own vector size.
		s.dimensions.Store(int64(n))
	}

	return resp.Embeddings, nil
}

// Dimensions returns the embedding vector size: the configured size until the
// first response, then the size the model actually returns.
func (s *EmbeddingService) Dimensions() int {
	return int(s.dimensions.Load())
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping validates the server is reachable and the model has been pulled.
// This is a lightweight check that validates connectivity without running inference.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if err := ollamaclient.CheckModel(ctx, s.client, s.model); err != nil {
		return ollamaclient.Wrap(ctx, "ping", err, domain.ErrEmbeddingUnavailable)
	}
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
