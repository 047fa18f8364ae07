package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
)

// textNormaliser treats raw content as already-extracted text, one page per document.
type textNormaliser struct {
	failURI string
}

func (n *textNormaliser) SupportedMIMETypes() []string { return []string{"application/pdf"} }

func (n *textNormaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw.URI != "" && raw.URI == n.failURI {
		return nil, errors.New("malformed xref table")
	}
	text := string(raw.Content)
	result := &driven.NormaliseResult{
		Document: domain.Document{URI: raw.URI, Content: text},
		Pages:    1,
	}
	if strings.TrimSpace(text) == "" {
		result.EmptyPages = 1
	}
	return result, nil
}

// keywordVocabulary are the dimensions of keywordEmbedder vectors.
var keywordVocabulary = []string{
	"capital", "france", "paris", "eiffel",
	"germany", "berlin", "wall",
	"ocean", "pacific", "whales",
}

// keywordEmbedder embeds text as keyword counts plus a constant bias dimension.
type keywordEmbedder struct {
	mu     sync.Mutex
	calls  int
	texts  []string
	err    error
	failAt int // 1-based call that fails; 0 means err applies to every call

	started chan struct{} // closed on the first call when set
	release chan struct{} // calls block until closed when set
	once    sync.Once
}

func (e *keywordEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (e *keywordEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if e.started != nil {
		e.once.Do(func() { close(e.started) })
	}
	if e.release != nil {
		select {
		case <-e.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	e.mu.Lock()
	e.calls++
	call := e.calls
	e.texts = append(e.texts, texts...)
	e.mu.Unlock()

	if e.err != nil && (e.failAt == 0 || e.failAt == call) {
		return nil, e.err
	}

	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = keywordVector(text)
	}
	return out, nil
}

func keywordVector(text string) []float32 {
	lower := strings.ToLower(text)
	vec := make([]float32, len(keywordVocabulary)+1)
	for i, word := range keywordVocabulary {
		vec[i] = float32(strings.Count(lower, word))
	}
	vec[len(keywordVocabulary)] = 1
	return vec
}

func (e *keywordEmbedder) Dimensions() int { return len(keywordVocabulary) + 1 }
func (e *keywordEmbedder) ModelName() string { return "keyword-test" }
func (e *keywordEmbedder) Ping(context.Context) error { return nil }
func (e *keywordEmbedder) Close() error { return nil }

func (e *keywordEmbedder) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

// recordingLLM returns a fixed response and records every prompt.
type recordingLLM struct {
	mu       sync.Mutex
	response string
	err      error
	prompts  []string
}

func (l *recordingLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prompts = append(l.prompts, prompt)
	if l.err != nil {
		return "", l.err
	}
	return l.response, nil
}

func (l *recordingLLM) ModelName() string { return "llm-test" }
func (l *recordingLLM) Ping(context.Context) error { return nil }
func (l *recordingLLM) Close() error { return nil }

func (l *recordingLLM) Prompts() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.prompts...)
}
