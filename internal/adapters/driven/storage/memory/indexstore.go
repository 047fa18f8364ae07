package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
)

// Ensure IndexStore implements the interface.
var _ driven.IndexStore = (*IndexStore)(nil)

// IndexStore keeps the most recently saved index snapshot in memory.
type IndexStore struct {
	mu       sync.RWMutex
	path     string
	snapshot *driven.IndexSnapshot
	saves    int
}

// NewIndexStore creates an empty store that reports path as its location.
func NewIndexStore(path string) *IndexStore {
	if path == "" {
		path = domain.DefaultIndexPath
	}
	return &IndexStore{path: path}
}

// Save replaces the held snapshot with a copy of snapshot.
func (s *IndexStore) Save(ctx context.Context, snapshot *driven.IndexSnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if snapshot == nil || len(snapshot.Chunks) == 0 {
		return fmt.Errorf("%w: empty index snapshot", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = cloneSnapshot(snapshot)
	s.snapshot.Info.Path = s.path
	s.saves++
	return nil
}

// Load returns a copy of the held snapshot.
// Returns domain.ErrNotFound if nothing has been saved.
func (s *IndexStore) Load(_ context.Context) (*driven.IndexSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return nil, fmt.Errorf("%w: no index at %s", domain.ErrNotFound, s.path)
	}
	return cloneSnapshot(s.snapshot), nil
}

// Path returns the reported location.
func (s *IndexStore) Path() string {
	return s.path
}

// Saves returns how many snapshots have been saved.
func (s *IndexStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

func cloneSnapshot(src *driven.IndexSnapshot) *driven.IndexSnapshot {
	dst := &driven.IndexSnapshot{
		Info:   src.Info,
		Chunks: make([]domain.Chunk, len(src.Chunks)),
	}
	for i, c := range src.Chunks {
		c.Embedding = slices.Clone(c.Embedding)
		dst.Chunks[i] = c
	}
	return dst
}
