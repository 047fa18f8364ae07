package vectorindex

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

func chunk(content string, vec ...float32) domain.Chunk {
	return domain.Chunk{ID: content, Content: content, Embedding: vec}
}

func TestBuild_Empty(t *testing.T) {
	_, err := Build(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBuild_MissingEmbedding(t *testing.T) {
	_, err := Build([]domain.Chunk{{Content: "a"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBuild_DimensionMismatch(t *testing.T) {
	_, err := Build([]domain.Chunk{
		chunk("a", 1, 0, 0),
		chunk("b", 1, 0),
	})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestBuild_CopiesInput(t *testing.T) {
	chunks := []domain.Chunk{chunk("a", 1, 2), chunk("b", 3, 4)}

	idx, err := Build(chunks)
	require.NoError(t, err)

	chunks[0].Content = "changed"
	chunks[0].Embedding[0] = 99

	got := idx.Chunks()
	assert.Equal(t, "a", got[0].Content)
	assert.Equal(t, []float32{1, 2}, got[0].Embedding)
	assert.Equal(t, 2, idx.Len())
	assert.Equal(t, 2, idx.Dimensions())
}

func TestBuild_AssignsPositions(t *testing.T) {
	idx, err := Build([]domain.Chunk{
		{Content: "a", Position: 7, Embedding: []float32{0}},
		{Content: "b", Position: 3, Embedding: []float32{1}},
	})
	require.NoError(t, err)

	got := idx.Chunks()
	assert.Equal(t, 0, got[0].Position)
	assert.Equal(t, 1, got[1].Position)
}

func TestSearch_NearestFirst(t *testing.T) {
	idx, err := Build([]domain.Chunk{
		chunk("far", 10, 10),
		chunk("near", 1, 1),
		chunk("middle", 3, 3),
	})
	require.NoError(t, err)

	results, err := idx.Search(context.Background(), []float32{0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "near", results[0].ChunkText)
	assert.Equal(t, 1, results[0].Rank)
	assert.InDelta(t, 2.0, results[0].Distance, 1e-9)

	assert.Equal(t, "middle", results[1].ChunkText)
	assert.Equal(t, 2, results[1].Rank)
	assert.InDelta(t, 18.0, results[1].Distance, 1e-9)
}

func TestSearch_ExactMatchHasZeroDistance(t *testing.T) {
	idx, err := Build([]domain.Chunk{
		chunk("a", 0.25, -0.5, 1),
		chunk("b", 0.5, 0.5, 0.5),
	})
	require.NoError(t, err)

	results, err := idx.Search(context.Background(), []float32{0.5, 0.5, 0.5}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "b", results[0].ChunkText)
	assert.Zero(t, results[0].Distance)
}

func TestSearch_TiesKeepInsertionOrder(t *testing.T) {
	idx, err := Build([]domain.Chunk{
		chunk("first", 1, 0),
		chunk("second", 0, 1),
		chunk("third", -1, 0),
	})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		results, err := idx.Search(context.Background(), []float32{0, 0}, 3)
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "first", results[0].ChunkText)
		assert.Equal(t, "second", results[1].ChunkText)
		assert.Equal(t, "third", results[2].ChunkText)
	}
}

func TestSearch_FewerChunksThanK(t *testing.T) {
	idx, err := Build([]domain.Chunk{chunk("only", 1, 2, 3)})
	require.NoError(t, err)

	results, err := idx.Search(context.Background(), []float32{0, 0, 0}, domain.DefaultTopK)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "only", results[0].ChunkText)
}

func TestSearch_Validation(t *testing.T) {
	idx, err := Build([]domain.Chunk{chunk("a", 1, 2)})
	require.NoError(t, err)

	tests := []struct {
		name  string
		query []float32
		k     int
		want  error
	}{
		{name: "short query", query: []float32{1}, k: 1, want: domain.ErrDimensionMismatch},
		{name: "long query", query: []float32{1, 2, 3}, k: 1, want: domain.ErrDimensionMismatch},
		{name: "zero k", query: []float32{1, 2}, k: 0, want: domain.ErrInvalidInput},
		{name: "negative k", query: []float32{1, 2}, k: -1, want: domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := idx.Search(context.Background(), tt.query, tt.k)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSearch_CancelledContext(t *testing.T) {
	idx, err := Build([]domain.Chunk{chunk("a", 1)})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = idx.Search(ctx, []float32{1}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuilder(t *testing.T) {
	idx, err := Builder([]domain.Chunk{chunk("a", 1), chunk("b", 2)})
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())

	_, err = Builder(nil)
	assert.Error(t, err)
}
