// Package ai provides factory functions for creating the local model adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/custodia-labs/pdfchat/internal/adapters/driven/embedding/ollama"
	ollamallm "github.com/custodia-labs/pdfchat/internal/adapters/driven/llm/ollama"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the result of model service initialisation.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService
	Warnings         []string // Non-fatal connectivity problems found during validation.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Init creates both model services from settings. Invalid settings are an error.
// When validate is set, each service is pinged; an unreachable server or a missing
// model is recorded in Warnings rather than failing, since Ollama may be started later.
func Init(ctx context.Context, settings domain.AppSettings, validate bool) (*InitResult, error) {
	embedder, err := CreateEmbeddingService(settings.Embedding)
	if err != nil {
		return nil, err
	}
	llm, err := CreateLLMService(settings.LLM)
	if err != nil {
		embedder.Close()
		return nil, err
	}

	result := &InitResult{EmbeddingService: embedder, LLMService: llm}
	if !validate {
		return result, nil
	}

	if err := ping(ctx, embedder.Ping); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("embedding model %s: %v", embedder.ModelName(), err))
	}
	if err := ping(ctx, llm.Ping); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("language model %s: %v", llm.ModelName(), err))
	}
	for _, w := range result.Warnings {
		logger.Warn("%s", w)
	}
	return result, nil
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateEmbeddingService(ctx context.Context, settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	if err := ping(ctx, svc.Ping); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: %w. Is 'ollama serve' running?", domain.ErrEmbeddingUnavailable, err)
	}
	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateLLMService(ctx context.Context, settings domain.LLMSettings) (driven.LLMService, error) {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}

	if err := ping(ctx, svc.Ping); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: %w. Is 'ollama serve' running?", domain.ErrLLMUnavailable, err)
	}
	return svc, nil
}

// CreateEmbeddingService creates an Ollama embedding service from settings.
// Unknown models fall back to the default vector size until the first response.
func CreateEmbeddingService(settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: settings.ResolvedDimensions(),
	})
	if err != nil {
		return nil, fmt.Errorf("embedding settings: %w", err)
	}
	return svc, nil
}

// CreateLLMService creates an Ollama LLM service from settings.
func CreateLLMService(settings domain.LLMSettings) (driven.LLMService, error) {
	svc, err := ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("llm settings: %w", err)
	}
	return svc, nil
}

func ping(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return fn(ctx)
}
