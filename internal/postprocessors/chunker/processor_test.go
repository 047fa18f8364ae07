package chunker

import (
	"context"
	"strings"
	"testing"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		p := New()
		if p.chunkSize != 300 {
			t.Errorf("expected chunkSize 300, got %d", p.chunkSize)
		}
		if p.overlap != 30 {
			t.Errorf("expected overlap 30, got %d", p.overlap)
		}
	})

	t.Run("custom chunk size", func(t *testing.T) {
		p := New(WithChunkSize(500))
		if p.ChunkSize() != 500 {
			t.Errorf("expected chunkSize 500, got %d", p.ChunkSize())
		}
	})

	t.Run("custom overlap", func(t *testing.T) {
		p := New(WithOverlap(10))
		if p.Overlap() != 10 {
			t.Errorf("expected overlap 10, got %d", p.Overlap())
		}
	})

	t.Run("overlap exceeds chunk size", func(t *testing.T) {
		p := New(WithChunkSize(100), WithOverlap(150))
		if p.overlap != 10 {
			t.Errorf("expected overlap to fall back to a tenth of the size, got %d", p.overlap)
		}
	})

	t.Run("zero values ignored", func(t *testing.T) {
		p := New(WithChunkSize(0), WithOverlap(-1))
		if p.chunkSize != DefaultChunkSize {
			t.Errorf("expected default chunkSize, got %d", p.chunkSize)
		}
		if p.overlap != DefaultChunkOverlap {
			t.Errorf("expected default overlap, got %d", p.overlap)
		}
	})
}

func TestProcessor_Name(t *testing.T) {
	p := New()
	if p.Name() != "chunker" {
		t.Errorf("expected name 'chunker', got '%s'", p.Name())
	}
}

func TestProcessor_Process_EmptyContent(t *testing.T) {
	p := New()
	doc := &domain.Document{
		ID:      "test-doc",
		Content: "",
	}

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks for empty content, got %d", len(chunks))
	}
}

func TestProcessor_Process_SmallContent(t *testing.T) {
	p := New(WithChunkSize(100), WithOverlap(10))
	doc := &domain.Document{
		ID:      "test-doc",
		Content: "This is a small piece of content.",
	}

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk for small content, got %d", len(chunks))
	}
	if chunks[0].Content != doc.Content {
		t.Errorf("expected content to match document content")
	}
	if chunks[0].Position != 0 {
		t.Errorf("expected position 0, got %d", chunks[0].Position)
	}
	if chunks[0].Embedding != nil {
		t.Errorf("expected no embedding before indexing")
	}
}

func TestProcessor_Process_LargeContent(t *testing.T) {
	p := New(WithChunkSize(100), WithOverlap(20))

	content := strings.Repeat("x", 250)
	doc := &domain.Document{
		ID:      "test-doc",
		Content: content,
	}

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}

	seenIDs := make(map[string]bool)
	for _, chunk := range chunks {
		if seenIDs[chunk.ID] {
			t.Errorf("duplicate chunk ID: %s", chunk.ID)
		}
		seenIDs[chunk.ID] = true
	}

	for i, chunk := range chunks {
		if chunk.Position != i {
			t.Errorf("expected position %d, got %d", i, chunk.Position)
		}
	}

	if len(chunks[0].Content) != 100 {
		t.Errorf("expected first chunk size 100, got %d", len(chunks[0].Content))
	}
	if len(chunks[2].Content) != 90 {
		t.Errorf("expected last chunk size 90, got %d", len(chunks[2].Content))
	}
}

func TestProcessor_Process_ExactChunkSize(t *testing.T) {
	p := New(WithChunkSize(50), WithOverlap(0))

	doc := &domain.Document{
		ID:      "test-doc",
		Content: strings.Repeat("a", 100),
	}

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(chunks) != 2 {
		t.Errorf("expected 2 chunks, got %d", len(chunks))
	}
}

func TestProcessor_Process_OverlapContent(t *testing.T) {
	p := New(WithChunkSize(10), WithOverlap(3))

	doc := &domain.Document{
		ID:      "test-doc",
		Content: "0123456789ABCDEFGHIJ",
	}

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"0123456789", "789ABCDEFG", "EFGHIJ"}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d", len(want), len(chunks))
	}
	for i := range want {
		if chunks[i].Content != want[i] {
			t.Errorf("chunk %d: expected %q, got %q", i, want[i], chunks[i].Content)
		}
	}
}

func TestProcessor_Process_IgnoresInputChunks(t *testing.T) {
	p := New(WithChunkSize(100))

	existingChunks := []domain.Chunk{
		{ID: "existing", Content: "should be ignored"},
	}

	doc := &domain.Document{
		ID:      "test-doc",
		Content: "New content to chunk",
	}

	chunks, err := p.Process(context.Background(), doc, existingChunks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, chunk := range chunks {
		if chunk.ID == "existing" {
			t.Error("existing chunks should be ignored")
		}
	}
}

func TestProcessor_Process_CancelledContext(t *testing.T) {
	p := New(WithChunkSize(100))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc := &domain.Document{
		ID:      "test-doc",
		Content: strings.Repeat("word ", 100),
	}

	if _, err := p.Process(ctx, doc, nil); err == nil {
		t.Error("expected error for cancelled context")
	}
}
