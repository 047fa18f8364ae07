package driven

import (
	"context"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

// VectorIndex is an immutable nearest-neighbour index over chunk embeddings.
// A new index is built for every process action; an index is never updated in place,
// so it is safe to share between goroutines.
type VectorIndex interface {
	// Search returns the k nearest chunks to the query vector, closest first.
	// Fewer than k results are returned when the index holds fewer than k chunks.
	Search(ctx context.Context, query []float32, k int) ([]domain.SearchResult, error)

	// Len returns the number of indexed chunks.
	Len() int

	// Dimensions returns the length of every vector in the index.
	Dimensions() int

	// Chunks returns the indexed chunks, with embeddings, in insertion order.
	Chunks() []domain.Chunk
}

// VectorIndexBuilder builds an index from embedded chunks.
// Every chunk must carry an embedding of the same length.
type VectorIndexBuilder func(chunks []domain.Chunk) (VectorIndex, error)

// IndexSnapshot is the persisted form of an index.
type IndexSnapshot struct {
	// Info describes the index.
	Info domain.IndexInfo

	// Chunks are the indexed chunks with embeddings, in insertion order.
	Chunks []domain.Chunk
}

// IndexStore persists index snapshots to a single well-known location.
type IndexStore interface {
	// Save writes the snapshot, replacing any previously saved snapshot.
	// The previous snapshot is replaced only once the new one is completely written.
	Save(ctx context.Context, snapshot *IndexSnapshot) error

	// Load reads the saved snapshot.
	// Returns domain.ErrNotFound if nothing has been saved.
	Load(ctx context.Context) (*IndexSnapshot, error)

	// Path returns the storage location.
	Path() string
}
