package postprocessors

import (
	"fmt"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/postprocessors/chunker"
)

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register("chunker", buildChunker)
}

// buildChunker creates a chunker processor from generic config.
// Supported config keys:
//   - chunk_size (int): Characters per chunk (default: 300)
//   - overlap (int): Overlapping characters between chunks (default: chunk_size/10)
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	size := getIntFromConfig(cfg, "chunk_size")
	if size <= 0 {
		size = chunker.DefaultChunkSize
	}

	overlap := domain.OverlapFor(size)
	if _, ok := cfg["overlap"]; ok {
		overlap = getIntFromConfig(cfg, "overlap")
		if overlap < 0 || overlap >= size {
			return nil, fmt.Errorf("overlap %d must be in [0, %d)", overlap, size)
		}
	}

	return chunker.New(chunker.WithChunkSize(size), chunker.WithOverlap(overlap)), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
