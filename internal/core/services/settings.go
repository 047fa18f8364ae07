package services

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyEmbedModel      = "embedding.model"
	KeyEmbedBaseURL    = "embedding.base_url"
	KeyEmbedDimensions = "embedding.dimensions"
	KeyLLMModel        = "llm.model"
	KeyLLMBaseURL      = "llm.base_url"
	KeyChunkSize       = "chunking.size"
	KeyIndexPath       = "index.path"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings.
// Missing or invalid stored values fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Model:   s.getString(KeyEmbedModel, defaults.Embedding.Model),
			BaseURL: s.configStore.GetString(KeyEmbedBaseURL), // Empty means OLLAMA_HOST or the local default
		},
		LLM: domain.LLMSettings{
			Model:   s.getString(KeyLLMModel, defaults.LLM.Model),
			BaseURL: s.configStore.GetString(KeyLLMBaseURL),
		},
		Chunking: domain.ChunkingSettings{
			Size: s.getChunkSize(defaults.Chunking.Size),
		},
		Index: domain.IndexSettings{
			Path: s.getString(KeyIndexPath, defaults.Index.Path),
		},
	}

	// A stored size wins; otherwise use the known size of the configured model.
	settings.Embedding.Dimensions = s.getInt(KeyEmbedDimensions, 0)
	if settings.Embedding.Dimensions <= 0 {
		settings.Embedding.Dimensions = settings.Embedding.ResolvedDimensions()
	}
	if settings.Embedding.Dimensions <= 0 && settings.Embedding.Model == defaults.Embedding.Model {
		settings.Embedding.Dimensions = defaults.Embedding.Dimensions
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Chunking.Validate(); err != nil {
		return err
	}

	values := []struct {
		key   string
		value any
	}{
		{KeyEmbedModel, settings.Embedding.Model},
		{KeyEmbedBaseURL, settings.Embedding.BaseURL},
		{KeyEmbedDimensions, settings.Embedding.Dimensions},
		{KeyLLMModel, settings.LLM.Model},
		{KeyLLMBaseURL, settings.LLM.BaseURL},
		{KeyChunkSize, settings.Chunking.Size},
		{KeyIndexPath, settings.Index.Path},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set updates a single setting from its string form, as typed on the command line.
func (s *SettingsService) Set(key, value string) error {
	value = strings.TrimSpace(value)

	switch key {
	case KeyEmbedModel:
		return s.SetEmbeddingModel(value)
	case KeyLLMModel:
		return s.SetLLMModel(value)
	case KeyChunkSize:
		size, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number, got %q", domain.ErrInvalidInput, key, value)
		}
		return s.SetChunkSize(size)
	case KeyEmbedDimensions:
		dims, err := strconv.Atoi(value)
		if err != nil || dims <= 0 {
			return fmt.Errorf("%w: %s must be a positive number, got %q", domain.ErrInvalidInput, key, value)
		}
		return s.configStore.Set(key, dims)
	case KeyEmbedBaseURL, KeyLLMBaseURL:
		if err := validateBaseURL(value); err != nil {
			return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
		}
		return s.configStore.Set(key, value)
	case KeyIndexPath:
		if value == "" {
			return fmt.Errorf("%w: %s cannot be empty", domain.ErrInvalidInput, key)
		}
		return s.configStore.Set(key, value)
	default:
		return fmt.Errorf("%w: unknown setting %q (known: %s)", domain.ErrInvalidInput, key, strings.Join(s.Keys(), ", "))
	}
}

// SetChunkSize updates the default chunk size.
func (s *SettingsService) SetChunkSize(size int) error {
	if err := domain.ValidateChunkSize(size); err != nil {
		return err
	}
	return s.configStore.Set(KeyChunkSize, size)
}

// SetEmbeddingModel configures the embedding model.
// The stored vector size is reset to the model's known size, or cleared so it
// is learnt from the model's first response.
func (s *SettingsService) SetEmbeddingModel(model string) error {
	if model == "" {
		return fmt.Errorf("%w: embedding model cannot be empty", domain.ErrInvalidInput)
	}
	if err := s.configStore.Set(KeyEmbedModel, model); err != nil {
		return fmt.Errorf("save %s: %w", KeyEmbedModel, err)
	}
	return s.configStore.Set(KeyEmbedDimensions, domain.EmbeddingDimensions()[model])
}

// SetLLMModel configures the language model.
func (s *SettingsService) SetLLMModel(model string) error {
	if model == "" {
		return fmt.Errorf("%w: language model cannot be empty", domain.ErrInvalidInput)
	}
	return s.configStore.Set(KeyLLMModel, model)
}

// Keys returns every recognised config key.
func (s *SettingsService) Keys() []string {
	return []string{
		KeyEmbedModel,
		KeyEmbedBaseURL,
		KeyEmbedDimensions,
		KeyLLMModel,
		KeyLLMBaseURL,
		KeyChunkSize,
		KeyIndexPath,
	}
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config values with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, ok := s.configStore.Get(key); ok {
		return s.configStore.GetInt(key)
	}
	return defaultVal
}

func (s *SettingsService) getChunkSize(defaultVal int) int {
	size := s.getInt(KeyChunkSize, defaultVal)
	if domain.ValidateChunkSize(size) != nil {
		return defaultVal
	}
	return size
}

// validateBaseURL accepts an empty value or an absolute http(s) URL.
func validateBaseURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("expected an http(s) URL such as http://localhost:11434, got %q", raw)
	}
	return nil
}
