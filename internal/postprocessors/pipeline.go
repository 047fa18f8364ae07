// Package postprocessors provides document content processing implementations.
package postprocessors

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
)

// Pipeline chains multiple PostProcessors and runs them in order.
// It implements the PostProcessorPipeline interface.
type Pipeline struct {
	processors []driven.PostProcessor
}

// NewPipeline creates a new processing pipeline with the given processors.
// Processors are executed in the order provided.
func NewPipeline(processors ...driven.PostProcessor) *Pipeline {
	return &Pipeline{
		processors: processors,
	}
}

// Process runs the document through all processors in order.
// The first processor receives nil chunks and should create them.
// Subsequent processors receive and may modify the chunks.
func (p *Pipeline) Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}

	var chunks []domain.Chunk

	for _, processor := range p.processors {
		var err error
		chunks, err = processor.Process(ctx, doc, chunks)
		if err != nil {
			return nil, fmt.Errorf("processor %s: %w", processor.Name(), err)
		}
	}

	return chunks, nil
}

// Add appends a processor to the pipeline.
func (p *Pipeline) Add(processor driven.PostProcessor) {
	p.processors = append(p.processors, processor)
}

// Len returns the number of processors in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.processors)
}

// FromConfig builds a pipeline with the processors named in cfg, in order.
// Every name is checked before any processor is built.
// A config naming no processors is invalid input.
func FromConfig(r *Registry, cfg domain.PipelineConfig) (*Pipeline, error) {
	if len(cfg.Processors) == 0 {
		return nil, fmt.Errorf("%w: pipeline names no processors", domain.ErrInvalidInput)
	}
	for _, name := range cfg.Processors {
		if !r.Has(name) {
			return nil, fmt.Errorf("%w: unknown processor %q (registered: %s)",
				domain.ErrInvalidInput, name, strings.Join(r.registered(), ", "))
		}
	}

	p := NewPipeline()
	for _, name := range cfg.Processors {
		processor, err := r.Build(name, cfg.GetProcessorConfig(name))
		if err != nil {
			return nil, err
		}
		p.Add(processor)
	}
	return p, nil
}

// Builder returns a driven.PipelineBuilder backed by r.
func Builder(r *Registry) driven.PipelineBuilder {
	return func(cfg domain.PipelineConfig) (driven.PostProcessorPipeline, error) {
		p, err := FromConfig(r, cfg)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
}
