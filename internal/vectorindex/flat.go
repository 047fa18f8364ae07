package vectorindex

import (
	"context"
	"fmt"
	"sort"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Ensure Build satisfies the builder signature.
var _ driven.VectorIndexBuilder = Builder

// Index is an immutable flat L2 index.
type Index struct {
	chunks    []domain.Chunk
	vectors   []float32 // row-major, len(chunks) * dimension
	dimension int
}

// Build creates an index over chunks in the given order.
// Every chunk must carry a non-empty embedding and all embeddings must have the same length.
// The chunks are copied; later changes to the slice do not affect the index.
func Build(chunks []domain.Chunk) (*Index, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: no chunks to index", domain.ErrInvalidInput)
	}

	dimension := len(chunks[0].Embedding)
	if dimension == 0 {
		return nil, fmt.Errorf("%w: chunk 0 has no embedding", domain.ErrInvalidInput)
	}

	idx := &Index{
		chunks:    make([]domain.Chunk, len(chunks)),
		vectors:   make([]float32, 0, len(chunks)*dimension),
		dimension: dimension,
	}
	for i, c := range chunks {
		if len(c.Embedding) != dimension {
			return nil, fmt.Errorf("%w: chunk %d has %d dimensions, expected %d",
				domain.ErrDimensionMismatch, i, len(c.Embedding), dimension)
		}
		idx.vectors = append(idx.vectors, c.Embedding...)

		c.Embedding = idx.vectors[i*dimension : (i+1)*dimension : (i+1)*dimension]
		c.Position = i
		idx.chunks[i] = c
	}

	return idx, nil
}

// Builder adapts Build to driven.VectorIndexBuilder.
func Builder(chunks []domain.Chunk) (driven.VectorIndex, error) {
	idx, err := Build(chunks)
	if err != nil {
		return nil, err
	}
	return idx, nil
}

// Search returns the k chunks nearest to query by squared L2 distance, closest first.
// Equal distances keep insertion order.
func (idx *Index) Search(ctx context.Context, query []float32, k int) ([]domain.SearchResult, error) {
	if len(query) != idx.dimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, len(query), idx.dimension)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", domain.ErrInvalidInput, k)
	}
	if k > len(idx.chunks) {
		k = len(idx.chunks)
	}

	type hit struct {
		pos      int
		distance float64
	}
	hits := make([]hit, len(idx.chunks))
	for i := range idx.chunks {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		hits[i] = hit{pos: i, distance: idx.distance(i, query)}
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].distance < hits[b].distance
	})

	results := make([]domain.SearchResult, k)
	for rank, h := range hits[:k] {
		results[rank] = domain.SearchResult{
			ChunkText: idx.chunks[h.pos].Content,
			Distance:  h.distance,
			Rank:      rank + 1,
		}
	}
	return results, nil
}

// Len returns the number of indexed chunks.
func (idx *Index) Len() int {
	return len(idx.chunks)
}

// Dimensions returns the vector length.
func (idx *Index) Dimensions() int {
	return idx.dimension
}

// Chunks returns a copy of the indexed chunks in insertion order.
// The embeddings share storage with the index and must not be modified.
func (idx *Index) Chunks() []domain.Chunk {
	out := make([]domain.Chunk, len(idx.chunks))
	copy(out, idx.chunks)
	return out
}

func (idx *Index) distance(pos int, query []float32) float64 {
	row := idx.vectors[pos*idx.dimension : (pos+1)*idx.dimension]
	var sum float64
	for i, v := range row {
		d := float64(v) - float64(query[i])
		sum += d * d
	}
	return sum
}
