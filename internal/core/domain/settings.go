package domain

import "fmt"

const unknownDescription = "Unknown"

// Default model and storage settings.
const (
	DefaultEmbeddingModel = "all-minilm"
	DefaultLLMModel       = "llama2"
	DefaultIndexPath      = "faiss_index"
)

// EmbeddingSettings holds embedding model configuration.
type EmbeddingSettings struct {
	// Model is the embedding model name.
	Model string

	// BaseURL is the Ollama endpoint. Empty uses OLLAMA_HOST or the local default.
	BaseURL string

	// Dimensions is the embedding vector size. Zero means look it up from the model name.
	Dimensions int
}

// ResolvedDimensions returns Dimensions, falling back to the known size of Model.
func (e EmbeddingSettings) ResolvedDimensions() int {
	if e.Dimensions > 0 {
		return e.Dimensions
	}
	return EmbeddingDimensions()[e.Model]
}

// LLMSettings holds language model configuration.
type LLMSettings struct {
	// Model is the LLM model name.
	Model string

	// BaseURL is the Ollama endpoint. Empty uses OLLAMA_HOST or the local default.
	BaseURL string
}

// ChunkingSettings holds text splitting configuration.
type ChunkingSettings struct {
	// Size is the target chunk size in characters.
	Size int
}

// Overlap returns the chunk overlap derived from Size.
// Overlap is always a tenth of the chunk size; it is never configured separately.
func (c ChunkingSettings) Overlap() int {
	return OverlapFor(c.Size)
}

// Validate checks Size is within the accepted bounds.
func (c ChunkingSettings) Validate() error {
	return ValidateChunkSize(c.Size)
}

// OverlapFor returns the overlap used for a chunk size.
func OverlapFor(size int) int {
	return size / 10
}

// ValidateChunkSize checks a chunk size is within MinChunkSize..MaxChunkSize.
func ValidateChunkSize(size int) error {
	if size < MinChunkSize || size > MaxChunkSize {
		return fmt.Errorf("%w: chunk size %d outside %d-%d", ErrInvalidInput, size, MinChunkSize, MaxChunkSize)
	}
	return nil
}

// IndexSettings holds vector index storage configuration.
type IndexSettings struct {
	// Path is the directory the index is persisted to.
	Path string
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Embedding holds embedding model settings.
	Embedding EmbeddingSettings

	// LLM holds language model settings.
	LLM LLMSettings

	// Chunking holds text splitting settings.
	Chunking ChunkingSettings

	// Index holds index storage settings.
	Index IndexSettings
}

// DefaultAppSettings returns settings matching a stock local Ollama install.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Model:      DefaultEmbeddingModel,
			Dimensions: 384, // all-MiniLM-L6-v2
		},
		LLM: LLMSettings{
			Model: DefaultLLMModel,
		},
		Chunking: ChunkingSettings{
			Size: DefaultChunkSize,
		},
		Index: IndexSettings{
			Path: DefaultIndexPath,
		},
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"all-minilm":             384,
		"all-minilm:l6-v2":       384,
		"nomic-embed-text":       768,
		"mxbai-embed-large":      1024,
		"snowflake-arctic-embed": 1024,
		"bge-m3":                 1024,
	}
}

// PipelineConfig holds post-processor pipeline configuration.
// Uses generic map-based config so processors can be added
// without modifying this struct.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration as generic maps.
	// Key is processor name, value is processor-specific config.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// PipelineConfigFor returns the pipeline that chunks text with the given size.
func PipelineConfigFor(chunking ChunkingSettings) PipelineConfig {
	return PipelineConfig{
		Processors: []string{"chunker"},
		ProcessorConfigs: map[string]map[string]any{
			"chunker": {
				"chunk_size": chunking.Size,
				"overlap":    chunking.Overlap(),
			},
		},
	}
}

// DefaultPipelineConfig returns the default pipeline configuration.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfigFor(DefaultAppSettings().Chunking)
}
