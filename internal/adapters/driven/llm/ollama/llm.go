// Package ollama provides an LLM service adapter using a local Ollama server.
package ollama

import (
	"context"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/custodia-labs/pdfchat/internal/adapters/driven/ollamaclient"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultLLMModel   = domain.DefaultLLMModel
	DefaultLLMTimeout = 120 * time.Second
)

// LLMConfig holds configuration for the Ollama LLM service.
type LLMConfig struct {
	// BaseURL is the Ollama API base URL. Empty uses OLLAMA_HOST or the local default.
	BaseURL string

	// Model is the LLM model to use (default: llama2).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// LLMService provides completions using Ollama's generate endpoint.
type LLMService struct {
	client *api.Client
	model  string
}

// NewLLMService creates a new Ollama LLM service.
func NewLLMService(cfg LLMConfig) (*LLMService, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}

	client, err := ollamaclient.New(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}

	return &LLMService{
		client: client,
		model:  cfg.Model,
	}, nil
}

// Generate sends prompt as a single non-streaming completion and returns the
// model's response text unmodified.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	stream := false
	req := &api.GenerateRequest{
		Model:   s.model,
		Prompt:  prompt,
		Stream:  &stream,
		Options: requestOptions(opts),
	}

	var out strings.Builder
	err := s.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		out.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", ollamaclient.Wrap(ctx, "generate", err, domain.ErrLLMUnavailable)
	}

	return out.String(), nil
}

// requestOptions maps generation options onto Ollama's option names.
// Unset options are omitted so the model's defaults apply.
func requestOptions(opts driven.GenerateOptions) map[string]any {
	options := make(map[string]any)
	if opts.MaxTokens > 0 {
		options["num_predict"] = opts.MaxTokens
	}
	if opts.Temperature > 0 {
		options["temperature"] = opts.Temperature
	}
	if len(opts.StopWords) > 0 {
		options["stop"] = opts.StopWords
	}
	if len(options) == 0 {
		return nil
	}
	return options
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping validates the server is reachable and the model has been pulled.
func (s *LLMService) Ping(ctx context.Context) error {
	if err := ollamaclient.CheckModel(ctx, s.client, s.model); err != nil {
		return ollamaclient.Wrap(ctx, "ping", err, domain.ErrLLMUnavailable)
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}
