package driving

import (
	"context"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

// SessionService is the question-answering session: process documents, then ask questions.
type SessionService interface {
	// Process extracts, chunks and embeds the documents, then builds and persists
	// a new index that replaces the current one.
	// Returns domain.ErrNoDocuments when docs is empty.
	Process(ctx context.Context, docs []domain.RawDocument, opts domain.ProcessOptions) (*domain.ProcessReport, error)

	// Ask answers a question from the two nearest chunks.
	// Returns domain.ErrNotReady before any documents have been processed.
	Ask(ctx context.Context, question string) (*domain.Answer, error)

	// Retrieve returns the k nearest chunks to the question without calling the model.
	Retrieve(ctx context.Context, question string, k int) ([]domain.SearchResult, error)

	// Restore loads the persisted index into the session.
	// Returns domain.ErrNotFound when no index has been persisted.
	Restore(ctx context.Context) error

	// State returns a snapshot of the session state.
	State() domain.SessionState
}
