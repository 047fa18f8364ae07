package mcp

import (
	"context"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
)

// mockSessionService is a mock implementation of driving.SessionService.
type mockSessionService struct {
	state      domain.SessionState
	answer     *domain.Answer
	results    []domain.SearchResult
	err        error
	restoreErr error

	restored  int
	lastK     int
	questions []string
}

func (m *mockSessionService) Process(
	context.Context, []domain.RawDocument, domain.ProcessOptions,
) (*domain.ProcessReport, error) {
	return nil, nil
}

func (m *mockSessionService) Ask(_ context.Context, question string) (*domain.Answer, error) {
	m.questions = append(m.questions, question)
	return m.answer, m.err
}

func (m *mockSessionService) Retrieve(_ context.Context, question string, k int) ([]domain.SearchResult, error) {
	m.questions = append(m.questions, question)
	m.lastK = k
	return m.results, m.err
}

func (m *mockSessionService) Restore(context.Context) error {
	m.restored++
	if m.restoreErr != nil {
		return m.restoreErr
	}
	m.state = domain.ReadySession(domain.IndexInfo{Chunks: len(m.results)})
	return nil
}

func (m *mockSessionService) State() domain.SessionState {
	return m.state
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings domain.AppSettings
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) { return &m.settings, nil }
func (m *mockSettingsService) Save(*domain.AppSettings) error    { return nil }
func (m *mockSettingsService) Set(string, string) error          { return nil }
func (m *mockSettingsService) SetChunkSize(int) error            { return nil }
func (m *mockSettingsService) SetEmbeddingModel(string) error    { return nil }
func (m *mockSettingsService) SetLLMModel(string) error          { return nil }
func (m *mockSettingsService) Keys() []string                    { return nil }
func (m *mockSettingsService) GetDefaults() domain.AppSettings   { return m.settings }

var (
	_ driving.SessionService  = (*mockSessionService)(nil)
	_ driving.SettingsService = (*mockSettingsService)(nil)
)

func readySession() *mockSessionService {
	return &mockSessionService{
		state: domain.ReadySession(domain.IndexInfo{Chunks: 2, Dimensions: 384, EmbeddingModel: "all-minilm"}),
		answer: &domain.Answer{
			Question: "What is the capital of France?",
			Text:     "Paris",
			Model:    "llama2",
			Context: []domain.SearchResult{
				{ChunkText: "Paris is the capital of France.", Distance: 0.25, Rank: 1},
			},
		},
		results: []domain.SearchResult{
			{ChunkText: "Paris is the capital of France.", Distance: 0.25, Rank: 1},
			{ChunkText: "France is in Europe.", Distance: 0.75, Rank: 2},
		},
	}
}
