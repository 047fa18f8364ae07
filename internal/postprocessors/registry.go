package postprocessors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
)

// BuilderFunc creates a PostProcessor from the processor's entry in a PipelineConfig.
type BuilderFunc func(cfg map[string]any) (driven.PostProcessor, error)

// Registry maps processor names to their builders.
type Registry struct {
	builders map[string]BuilderFunc
}

// NewRegistry creates an empty processor registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]BuilderFunc),
	}
}

// Register adds a processor builder under name, replacing any previous one.
func (r *Registry) Register(name string, builder BuilderFunc) {
	r.builders[name] = builder
}

// Build creates the named processor from cfg.
// An unregistered name or a rejected config is a domain.ErrInvalidInput.
func (r *Registry) Build(name string, cfg map[string]any) (driven.PostProcessor, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown processor %q (registered: %s)",
			domain.ErrInvalidInput, name, strings.Join(r.registered(), ", "))
	}
	processor, err := builder(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: processor %s: %w", domain.ErrInvalidInput, name, err)
	}
	return processor, nil
}

// Has returns true if a processor with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// registered lists the registered names in sorted order, for error messages.
func (r *Registry) registered() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
