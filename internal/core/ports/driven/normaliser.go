package driven

import (
	"context"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

// Normaliser extracts text from raw documents.
// Each normaliser handles specific MIME types.
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Normalise extracts the text of a raw document.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation.
// Note: Normalisation only produces a Document with Content.
// Chunking is handled by the PostProcessor pipeline.
type NormaliseResult struct {
	// Document is the normalised document with Content field populated.
	Document domain.Document

	// Pages is the number of pages read.
	Pages int

	// EmptyPages is the number of pages that yielded no text.
	EmptyPages int
}
