package tui

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
)

// MockSessionService implements driving.SessionService for testing.
type MockSessionService struct {
	ProcessFunc func(ctx context.Context, docs []domain.RawDocument, opts domain.ProcessOptions) (*domain.ProcessReport, error)
	AskFunc     func(ctx context.Context, question string) (*domain.Answer, error)
	RestoreFunc func(ctx context.Context) error
	StateValue  domain.SessionState
}

func (m *MockSessionService) Process(
	ctx context.Context, docs []domain.RawDocument, opts domain.ProcessOptions,
) (*domain.ProcessReport, error) {
	if m.ProcessFunc != nil {
		return m.ProcessFunc(ctx, docs, opts)
	}
	return &domain.ProcessReport{Documents: len(docs), Chunks: 1}, nil
}

func (m *MockSessionService) Ask(ctx context.Context, question string) (*domain.Answer, error) {
	if m.AskFunc != nil {
		return m.AskFunc(ctx, question)
	}
	return &domain.Answer{Question: question, Text: "answer"}, nil
}

func (m *MockSessionService) Retrieve(context.Context, string, int) ([]domain.SearchResult, error) {
	return nil, nil
}

func (m *MockSessionService) Restore(ctx context.Context) error {
	if m.RestoreFunc != nil {
		return m.RestoreFunc(ctx)
	}
	return nil
}

func (m *MockSessionService) State() domain.SessionState {
	return m.StateValue
}

// MockSettingsService implements driving.SettingsService for testing.
type MockSettingsService struct {
	Settings *domain.AppSettings
	SetFunc  func(key, value string) error
}

func (m *MockSettingsService) Get() (*domain.AppSettings, error) {
	if m.Settings == nil {
		s := domain.DefaultAppSettings()
		m.Settings = &s
	}
	return m.Settings, nil
}

func (m *MockSettingsService) Save(settings *domain.AppSettings) error {
	m.Settings = settings
	return nil
}

func (m *MockSettingsService) Set(key, value string) error {
	if m.SetFunc != nil {
		return m.SetFunc(key, value)
	}
	return nil
}

func (m *MockSettingsService) SetChunkSize(int) error          { return nil }
func (m *MockSettingsService) SetEmbeddingModel(string) error  { return nil }
func (m *MockSettingsService) SetLLMModel(string) error        { return nil }
func (m *MockSettingsService) Keys() []string                  { return []string{"chunking.size"} }
func (m *MockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

var (
	_ driving.SessionService  = (*MockSessionService)(nil)
	_ driving.SettingsService = (*MockSettingsService)(nil)
)

func TestNewPorts(t *testing.T) {
	session := &MockSessionService{}
	settings := &MockSettingsService{}

	ports := NewPorts(session, settings)

	require.NotNil(t, ports)
	assert.Equal(t, session, ports.Session)
	assert.Equal(t, settings, ports.Settings)
	assert.NotNil(t, ports.Load)
}

func TestPorts_Validate_AllSet(t *testing.T) {
	ports := NewPorts(&MockSessionService{}, &MockSettingsService{})

	assert.NoError(t, ports.Validate())
}

func TestPorts_Validate_SettingsOptional(t *testing.T) {
	ports := &Ports{Session: &MockSessionService{}}

	require.NoError(t, ports.Validate())
	assert.NotNil(t, ports.Load)
}

func TestPorts_Validate_MissingSession(t *testing.T) {
	ports := &Ports{Settings: &MockSettingsService{}}

	assert.ErrorIs(t, ports.Validate(), ErrMissingSessionService)
}

func TestPorts_Validate_Nil(t *testing.T) {
	var ports *Ports

	assert.ErrorIs(t, ports.Validate(), ErrInvalidPorts)
}

func TestLoadFiles_NoPaths(t *testing.T) {
	_, err := LoadFiles(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrNoDocuments)
}

func TestLoadFiles_ReadsPDFs(t *testing.T) {
	dir := t.TempDir()
	writePDF(t, dir, "a.pdf")

	docs, err := LoadFiles(context.Background(), []string{dir})

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "application/pdf", docs[0].MIMEType)
}

func writePDF(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.4"), 0o600))
}
