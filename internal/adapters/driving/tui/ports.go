// Package tui provides an interactive terminal user interface for pdfchat.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"context"

	"github.com/custodia-labs/pdfchat/internal/connectors/filesystem"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
)

// DocumentLoader reads the documents named by paths, globs or directories.
type DocumentLoader func(ctx context.Context, paths []string) ([]domain.RawDocument, error)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Session processes documents and answers questions.
	Session driving.SessionService

	// Settings manages application settings. Optional.
	Settings driving.SettingsService

	// Load reads documents for the process view. Defaults to the filesystem connector.
	Load DocumentLoader
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(session driving.SessionService, settings driving.SettingsService) *Ports {
	return &Ports{
		Session:  session,
		Settings: settings,
		Load:     LoadFiles,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Session == nil {
		return ErrMissingSessionService
	}
	if p.Load == nil {
		p.Load = LoadFiles
	}
	return nil
}

// LoadFiles loads PDF documents through the filesystem connector.
func LoadFiles(ctx context.Context, paths []string) ([]domain.RawDocument, error) {
	if len(paths) == 0 {
		return nil, domain.ErrNoDocuments
	}
	return filesystem.New(paths...).Load(ctx)
}
