package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
	"github.com/custodia-labs/pdfchat/internal/logger"
)

// Ensure SessionService implements the interface.
var _ driving.SessionService = (*SessionService)(nil)

// PromptTemplate is the prompt sent to the language model.
// {context} is replaced by the retrieved chunks and {question} by the question.
const PromptTemplate = `Context information is below.
---------------------
{context}
---------------------
Given the context information and not prior knowledge, answer the question: {question}
If the answer is not in the context, just say "I don't have enough information to answer this question."
Keep your answer concise.`

// ContextSeparator joins retrieved chunks in the prompt.
const ContextSeparator = "\n\n"

// DefaultEmbedBatchSize is the number of chunks sent to the embedding model per request.
const DefaultEmbedBatchSize = 32

// SessionDeps holds the ports a session drives.
type SessionDeps struct {
	Normaliser   driven.Normaliser
	Pipelines    driven.PipelineBuilder
	Embedder     driven.EmbeddingService
	LLM          driven.LLMService
	IndexBuilder driven.VectorIndexBuilder
	Store        driven.IndexStore
}

// SessionService holds at most one index and answers questions from it.
//
// Every process action builds a complete new index and swaps it in only on
// success. Queries take a reference to the current index under the lock and search
// it without holding the lock; indexes are immutable, so a query never sees a
// half-built index.
type SessionService struct {
	deps      SessionDeps
	chunkSize int
	batchSize int
	now       func() time.Time

	mu       sync.RWMutex
	status   domain.SessionStatus
	index    driven.VectorIndex
	info     domain.IndexInfo
	building bool
}

// NewSessionService creates an empty session.
// chunkSize is used when a process action does not name one.
func NewSessionService(deps SessionDeps, chunkSize int) *SessionService {
	if chunkSize == 0 {
		chunkSize = domain.DefaultChunkSize
	}
	return &SessionService{
		deps:      deps,
		chunkSize: chunkSize,
		batchSize: DefaultEmbedBatchSize,
		now:       time.Now,
		status:    domain.SessionEmpty,
	}
}

// SetEmbedBatchSize overrides the number of chunks embedded per request.
func (s *SessionService) SetEmbedBatchSize(n int) {
	if n > 0 {
		s.batchSize = n
	}
}

// State returns a snapshot of the session state.
func (s *SessionService) State() domain.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := domain.SessionState{Status: s.status}
	if s.index != nil {
		info := s.info
		state.Index = &info
	}
	return state
}

// Process builds a new index from docs and makes it current.
// On any failure after validation the session is left Empty and nothing is persisted.
func (s *SessionService) Process(
	ctx context.Context, docs []domain.RawDocument, opts domain.ProcessOptions,
) (*domain.ProcessReport, error) {
	if len(docs) == 0 {
		return nil, domain.ErrNoDocuments
	}

	size := opts.ChunkSize
	if size == 0 {
		size = s.chunkSize
	}
	if err := domain.ValidateChunkSize(size); err != nil {
		return nil, err
	}

	if err := s.beginBuild(); err != nil {
		return nil, err
	}

	report, idx, err := s.build(ctx, docs, size, opts.Progress)
	if err != nil {
		s.failBuild()
		return nil, err
	}

	s.finishBuild(idx, report.Index)
	logger.Info("Session ready: %d chunks indexed in %s", report.Chunks, report.Elapsed.Round(time.Millisecond))
	return report, nil
}

func (s *SessionService) build(
	ctx context.Context, docs []domain.RawDocument, size int, progress domain.ProgressFunc,
) (*domain.ProcessReport, driven.VectorIndex, error) {
	started := s.now()
	if progress == nil {
		progress = func(string, int, int) {}
	}
	chunking := domain.ChunkingSettings{Size: size}

	logger.Section("Extract")
	extraction, err := ExtractText(ctx, s.deps.Normaliser, docs, progress)
	if err != nil {
		return nil, nil, err
	}
	logger.With(logger.Fields{
		"characters":  len([]rune(extraction.Text)),
		"pages":       extraction.Pages,
		"empty_pages": extraction.EmptyPages,
	}).Debug("Extracted text")

	logger.Section("Chunk")
	progress(domain.StageChunk, 0, 1)
	pipeline, err := s.deps.Pipelines(domain.PipelineConfigFor(chunking))
	if err != nil {
		return nil, nil, fmt.Errorf("build chunker: %w", err)
	}
	chunks, err := pipeline.Process(ctx, &domain.Document{Content: extraction.Text})
	if err != nil {
		return nil, nil, fmt.Errorf("chunk text: %w", err)
	}
	if len(chunks) == 0 {
		return nil, nil, domain.ErrNoText
	}
	progress(domain.StageChunk, 1, 1)
	logger.With(logger.Fields{
		"chunks":  len(chunks),
		"size":    size,
		"overlap": chunking.Overlap(),
	}).Debug("Split text")

	logger.Section("Embed")
	if err := s.embedChunks(ctx, chunks, progress); err != nil {
		return nil, nil, err
	}

	logger.Section("Index")
	progress(domain.StageIndex, 0, 1)
	idx, err := s.deps.IndexBuilder(chunks)
	if err != nil {
		return nil, nil, fmt.Errorf("build index: %w", err)
	}

	info := domain.IndexInfo{
		Path:           s.deps.Store.Path(),
		Chunks:         idx.Len(),
		Dimensions:     idx.Dimensions(),
		EmbeddingModel: s.deps.Embedder.ModelName(),
		ChunkSize:      size,
		Overlap:        chunking.Overlap(),
		BuiltAt:        s.now(),
	}
	if err := s.deps.Store.Save(ctx, &driven.IndexSnapshot{Info: info, Chunks: idx.Chunks()}); err != nil {
		return nil, nil, fmt.Errorf("save index: %w", err)
	}
	progress(domain.StageIndex, 1, 1)
	logger.With(logger.Fields{
		"chunks":     info.Chunks,
		"dimensions": info.Dimensions,
		"path":       info.Path,
	}).Debug("Saved index")

	return &domain.ProcessReport{
		Documents:  len(docs),
		Pages:      extraction.Pages,
		EmptyPages: extraction.EmptyPages,
		Characters: len([]rune(extraction.Text)),
		Chunks:     len(chunks),
		Index:      info,
		Elapsed:    s.now().Sub(started),
	}, idx, nil
}

// embedChunks fills in the embedding of every chunk, batch by batch.
func (s *SessionService) embedChunks(ctx context.Context, chunks []domain.Chunk, progress domain.ProgressFunc) error {
	total := len(chunks)
	progress(domain.StageEmbed, 0, total)

	for start := 0; start < total; start += s.batchSize {
		end := min(start+s.batchSize, total)

		texts := make([]string, 0, end-start)
		for _, c := range chunks[start:end] {
			texts = append(texts, c.Content)
		}

		embeddings, err := s.deps.Embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed chunks %d-%d: %w", start, end-1, err)
		}
		if len(embeddings) != len(texts) {
			return fmt.Errorf("embed chunks %d-%d: got %d embeddings for %d chunks",
				start, end-1, len(embeddings), len(texts))
		}
		for i, e := range embeddings {
			chunks[start+i].Embedding = e
		}

		progress(domain.StageEmbed, end, total)
		logger.Debug("Embedded %d/%d chunks", end, total)
	}
	return nil
}

func (s *SessionService) beginBuild() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.building {
		return domain.ErrBuildInProgress
	}
	s.building = true
	s.status = domain.SessionBuilding
	return nil
}

func (s *SessionService) finishBuild(idx driven.VectorIndex, info domain.IndexInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = idx
	s.info = info
	s.status = domain.SessionReady
	s.building = false
}

func (s *SessionService) failBuild() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = nil
	s.info = domain.IndexInfo{}
	s.status = domain.SessionEmpty
	s.building = false
}

// current returns the index queries should use, or ErrNotReady.
func (s *SessionService) current() (driven.VectorIndex, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.index == nil {
		return nil, domain.ErrNotReady
	}
	return s.index, nil
}

// Retrieve returns the k chunks nearest to the question, closest first.
// k <= 0 selects domain.DefaultTopK.
func (s *SessionService) Retrieve(ctx context.Context, question string, k int) ([]domain.SearchResult, error) {
	idx, err := s.current()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}
	if k <= 0 {
		k = domain.DefaultTopK
	}

	query, err := s.deps.Embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	results, err := idx.Search(ctx, query, k)
	if err != nil {
		if errors.Is(err, domain.ErrDimensionMismatch) {
			return nil, fmt.Errorf("search index (was it built with another embedding model?): %w", err)
		}
		return nil, fmt.Errorf("search index: %w", err)
	}
	logger.Debug("Retrieved %d chunks for %q", len(results), question)
	return results, nil
}

// Ask answers question from the two nearest chunks.
// A failed model call is returned as-is; the session stays Ready and nothing is retried.
func (s *SessionService) Ask(ctx context.Context, question string) (*domain.Answer, error) {
	results, err := s.Retrieve(ctx, question, domain.DefaultTopK)
	if err != nil {
		return nil, err
	}

	prompt := FormatPrompt(JoinContext(results), question)
	logger.Debug("Prompt:\n%s", prompt)

	text, err := s.deps.LLM.Generate(ctx, prompt, driven.GenerateOptions{})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &domain.Answer{
		Question: question,
		Text:     text,
		Context:  results,
		Prompt:   prompt,
		Model:    s.deps.LLM.ModelName(),
	}, nil
}

// Restore loads the persisted index and makes it current.
// Returns domain.ErrNotFound if nothing has been persisted; the state is then unchanged.
func (s *SessionService) Restore(ctx context.Context) error {
	s.mu.RLock()
	building := s.building
	s.mu.RUnlock()
	if building {
		return domain.ErrBuildInProgress
	}

	snapshot, err := s.deps.Store.Load(ctx)
	if err != nil {
		return err
	}
	idx, err := s.deps.IndexBuilder(snapshot.Chunks)
	if err != nil {
		return fmt.Errorf("rebuild index from %s: %w", s.deps.Store.Path(), err)
	}

	if model := s.deps.Embedder.ModelName(); snapshot.Info.EmbeddingModel != "" && snapshot.Info.EmbeddingModel != model {
		logger.Warn("Index at %s was built with %s but questions will be embedded with %s",
			s.deps.Store.Path(), snapshot.Info.EmbeddingModel, model)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.building {
		return domain.ErrBuildInProgress
	}
	s.index = idx
	s.info = snapshot.Info
	s.status = domain.SessionReady
	logger.Debug("Restored %d chunks from %s", idx.Len(), s.deps.Store.Path())
	return nil
}

// FormatPrompt fills PromptTemplate. Placeholders inside context or question
// are not expanded.
func FormatPrompt(contextText, question string) string {
	return strings.NewReplacer("{context}", contextText, "{question}", question).Replace(PromptTemplate)
}

// JoinContext joins result texts in rank order with ContextSeparator.
func JoinContext(results []domain.SearchResult) string {
	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.ChunkText
	}
	return strings.Join(texts, ContextSeparator)
}
