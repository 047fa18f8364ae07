package driving

import "github.com/custodia-labs/pdfchat/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set updates a single setting by its config key (e.g. "chunking.size").
	Set(key, value string) error

	// SetChunkSize updates the default chunk size.
	SetChunkSize(size int) error

	// SetEmbeddingModel configures the embedding model.
	SetEmbeddingModel(model string) error

	// SetLLMModel configures the language model.
	SetLLMModel(model string) error

	// Keys returns every recognised config key.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
