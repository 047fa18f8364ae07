package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfchat/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

func TestNewSettingsService(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	require.NotNil(t, service)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	settings, err := service.Get()

	require.NoError(t, err)
	require.NotNil(t, settings)

	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Embedding.Model, settings.Embedding.Model)
	assert.Equal(t, 384, settings.Embedding.Dimensions)
	assert.Empty(t, settings.Embedding.BaseURL)
	assert.Equal(t, defaults.LLM.Model, settings.LLM.Model)
	assert.Equal(t, 300, settings.Chunking.Size)
	assert.Equal(t, 30, settings.Chunking.Overlap())
	assert.Equal(t, "faiss_index", settings.Index.Path)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStoreFrom(map[string]any{
		KeyEmbedModel:   "nomic-embed-text",
		KeyEmbedBaseURL: "http://gpu-box:11434",
		KeyLLMModel:     "mistral",
		KeyChunkSize:    450,
		KeyIndexPath:    "/tmp/index",
	})
	service := NewSettingsService(store)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, "nomic-embed-text", settings.Embedding.Model)
	assert.Equal(t, 768, settings.Embedding.Dimensions)
	assert.Equal(t, "http://gpu-box:11434", settings.Embedding.BaseURL)
	assert.Equal(t, "mistral", settings.LLM.Model)
	assert.Equal(t, 450, settings.Chunking.Size)
	assert.Equal(t, "/tmp/index", settings.Index.Path)
}

func TestSettingsService_Get_StoredDimensionsWin(t *testing.T) {
	store := memory.NewConfigStoreFrom(map[string]any{
		KeyEmbedModel:      "nomic-embed-text",
		KeyEmbedDimensions: 512,
	})
	service := NewSettingsService(store)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, 512, settings.Embedding.Dimensions)
}

func TestSettingsService_Get_UnknownModelHasNoDimensions(t *testing.T) {
	store := memory.NewConfigStoreFrom(map[string]any{KeyEmbedModel: "custom-embedder"})
	service := NewSettingsService(store)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Zero(t, settings.Embedding.Dimensions)
}

func TestSettingsService_Get_InvalidChunkSizeReturnsDefault(t *testing.T) {
	for _, size := range []int{0, 50, 99, 501, 10000} {
		store := memory.NewConfigStoreFrom(map[string]any{KeyChunkSize: size})
		service := NewSettingsService(store)

		settings, err := service.Get()

		require.NoError(t, err)
		assert.Equal(t, domain.DefaultChunkSize, settings.Chunking.Size, "size %d", size)
	}
}

func TestSettingsService_Save(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	settings := domain.DefaultAppSettings()
	settings.LLM.Model = "phi3"
	settings.Chunking.Size = 200

	require.NoError(t, service.Save(&settings))

	got, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, "phi3", got.LLM.Model)
	assert.Equal(t, 200, got.Chunking.Size)
	assert.Equal(t, 200, store.GetInt(KeyChunkSize))
}

func TestSettingsService_Save_RejectsInvalidChunkSize(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	settings := domain.DefaultAppSettings()
	settings.Chunking.Size = 600

	err := service.Save(&settings)

	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, store.Saves())
}

func TestSettingsService_SetChunkSize(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"minimum", 100, false},
		{"default", 300, false},
		{"maximum", 500, false},
		{"below minimum", 99, true},
		{"above maximum", 501, true},
		{"zero", 0, true},
		{"negative", -300, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			service := NewSettingsService(store)

			err := service.SetChunkSize(tt.size)

			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidInput)
				_, ok := store.Get(KeyChunkSize)
				assert.False(t, ok)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.size, store.GetInt(KeyChunkSize))
		})
	}
}

func TestSettingsService_SetEmbeddingModel_UpdatesDimensions(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	require.NoError(t, service.SetEmbeddingModel("mxbai-embed-large"))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, "mxbai-embed-large", settings.Embedding.Model)
	assert.Equal(t, 1024, settings.Embedding.Dimensions)

	require.NoError(t, service.SetEmbeddingModel("custom-embedder"))

	settings, err = service.Get()
	require.NoError(t, err)
	assert.Zero(t, settings.Embedding.Dimensions)
}

func TestSettingsService_SetEmbeddingModel_Empty(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	err := service.SetEmbeddingModel("")

	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsService_SetLLMModel(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	require.NoError(t, service.SetLLMModel("mistral:7b"))
	assert.Equal(t, "mistral:7b", store.GetString(KeyLLMModel))

	require.ErrorIs(t, service.SetLLMModel(""), domain.ErrInvalidInput)
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
		check   func(t *testing.T, s *domain.AppSettings)
	}{
		{
			name: "chunk size", key: KeyChunkSize, value: " 250 ",
			check: func(t *testing.T, s *domain.AppSettings) { assert.Equal(t, 250, s.Chunking.Size) },
		},
		{name: "chunk size not a number", key: KeyChunkSize, value: "big", wantErr: true},
		{name: "chunk size out of range", key: KeyChunkSize, value: "1000", wantErr: true},
		{
			name: "embedding model", key: KeyEmbedModel, value: "nomic-embed-text",
			check: func(t *testing.T, s *domain.AppSettings) { assert.Equal(t, 768, s.Embedding.Dimensions) },
		},
		{
			name: "dimensions", key: KeyEmbedDimensions, value: "256",
			check: func(t *testing.T, s *domain.AppSettings) { assert.Equal(t, 256, s.Embedding.Dimensions) },
		},
		{name: "dimensions zero", key: KeyEmbedDimensions, value: "0", wantErr: true},
		{
			name: "llm model", key: KeyLLMModel, value: "phi3",
			check: func(t *testing.T, s *domain.AppSettings) { assert.Equal(t, "phi3", s.LLM.Model) },
		},
		{
			name: "base url", key: KeyLLMBaseURL, value: "https://ollama.internal:443",
			check: func(t *testing.T, s *domain.AppSettings) {
				assert.Equal(t, "https://ollama.internal:443", s.LLM.BaseURL)
			},
		},
		{
			name: "base url cleared", key: KeyEmbedBaseURL, value: "",
			check: func(t *testing.T, s *domain.AppSettings) { assert.Empty(t, s.Embedding.BaseURL) },
		},
		{name: "base url without scheme", key: KeyEmbedBaseURL, value: "localhost:11434", wantErr: true},
		{name: "base url bad scheme", key: KeyLLMBaseURL, value: "ftp://host", wantErr: true},
		{
			name: "index path", key: KeyIndexPath, value: "data/idx",
			check: func(t *testing.T, s *domain.AppSettings) { assert.Equal(t, "data/idx", s.Index.Path) },
		},
		{name: "index path empty", key: KeyIndexPath, value: "  ", wantErr: true},
		{name: "unknown key", key: "search.mode", value: "hybrid", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewSettingsService(memory.NewConfigStore())

			err := service.Set(tt.key, tt.value)

			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)

			settings, err := service.Get()
			require.NoError(t, err)
			tt.check(t, settings)
		})
	}
}

func TestSettingsService_Keys(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	keys := service.Keys()

	assert.Len(t, keys, 7)
	assert.Contains(t, keys, KeyChunkSize)
	assert.Contains(t, keys, KeyEmbedModel)
	assert.Contains(t, keys, KeyLLMModel)
	for _, key := range keys {
		err := service.Set(key, "not-valid-for-any-int-key")
		if err != nil {
			assert.NotContains(t, err.Error(), "unknown setting")
		}
	}
}

func TestSettingsService_GetDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	assert.Equal(t, domain.DefaultAppSettings(), service.GetDefaults())
}
