// Package chunker splits corpus text into overlapping chunks on paragraph,
// line, sentence, word and character boundaries.
package chunker

import (
	"context"

	"github.com/google/uuid"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultChunkOverlap is the default number of overlapping characters.
var DefaultChunkOverlap = domain.OverlapFor(DefaultChunkSize)

// Processor splits document content into chunks.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap stays below chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = domain.OverlapFor(p.chunkSize)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the configured chunk size.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the configured overlap.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(ctx context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if doc.Content == "" {
		return nil, nil
	}

	splitter, err := NewSplitter(p.chunkSize, p.overlap)
	if err != nil {
		return nil, err
	}

	texts := splitter.Split(doc.Content)
	chunks := make([]domain.Chunk, 0, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		chunks = append(chunks, domain.Chunk{
			ID:       uuid.New().String(),
			Content:  text,
			Position: i,
		})
	}

	return chunks, nil
}
