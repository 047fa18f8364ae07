package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfchat/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pdfchat/internal/connectors/filesystem"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
	"github.com/custodia-labs/pdfchat/internal/core/services"
)

// mockSessionService implements driving.SessionService for command tests.
type mockSessionService struct {
	ProcessFunc  func(ctx context.Context, docs []domain.RawDocument, opts domain.ProcessOptions) (*domain.ProcessReport, error)
	AskFunc      func(ctx context.Context, question string) (*domain.Answer, error)
	RetrieveFunc func(ctx context.Context, question string, k int) ([]domain.SearchResult, error)
	RestoreErr   error

	state    domain.SessionState
	restored int
	docs     []domain.RawDocument
	opts     domain.ProcessOptions
}

var _ driving.SessionService = (*mockSessionService)(nil)

func (m *mockSessionService) Process(
	ctx context.Context, docs []domain.RawDocument, opts domain.ProcessOptions,
) (*domain.ProcessReport, error) {
	m.docs = docs
	m.opts = opts
	if m.ProcessFunc != nil {
		return m.ProcessFunc(ctx, docs, opts)
	}
	report := &domain.ProcessReport{
		Documents: len(docs),
		Pages:     len(docs),
		Chunks:    3 * len(docs),
		Index:     domain.IndexInfo{Chunks: 3 * len(docs), ChunkSize: opts.ChunkSize},
	}
	m.state = domain.ReadySession(report.Index)
	return report, nil
}

func (m *mockSessionService) Ask(ctx context.Context, question string) (*domain.Answer, error) {
	if m.AskFunc != nil {
		return m.AskFunc(ctx, question)
	}
	return &domain.Answer{
		Question: question,
		Text:     "Paris",
		Model:    "llama2",
		Context:  []domain.SearchResult{{ChunkText: "Paris is the capital of France.", Distance: 0.5, Rank: 1}},
	}, nil
}

func (m *mockSessionService) Retrieve(ctx context.Context, question string, k int) ([]domain.SearchResult, error) {
	if m.RetrieveFunc != nil {
		return m.RetrieveFunc(ctx, question, k)
	}
	return []domain.SearchResult{{ChunkText: "Paris is the capital of France.", Distance: 0.5, Rank: 1}}, nil
}

func (m *mockSessionService) Restore(context.Context) error {
	m.restored++
	if m.RestoreErr != nil {
		return m.RestoreErr
	}
	m.state = domain.ReadySession(domain.IndexInfo{Chunks: 3})
	return nil
}

func (m *mockSessionService) State() domain.SessionState {
	return m.state
}

// setupTestServices installs a mock session and a settings service over an
// in-memory config store, and restores the package state when the test ends.
func setupTestServices(t *testing.T) (*mockSessionService, *services.SettingsService) {
	t.Helper()

	session := &mockSessionService{}
	settings := services.NewSettingsService(memory.NewConfigStore())
	SetServices(&Services{Session: session, Settings: settings})

	origTerminal := stderrIsTerminal
	origInput := wizardInput
	stderrIsTerminal = func() bool { return false }

	t.Cleanup(func() {
		SetServices(&Services{})
		stderrIsTerminal = origTerminal
		wizardInput = origInput
		resetFlags()
	})
	return session, settings
}

// resetFlags returns every command flag to its default.
// Flag variables are package-level and survive between executions.
func resetFlags() {
	verbose = false
	configDir = ""
	askJSON = false
	askContextOnly = false
	askShowContext = false
	askTopK = domain.DefaultTopK
	processChunkSize = 0
	processWatch = false
	processJSON = false
	processInterval = filesystem.DefaultRebuildInterval
	tuiResume = false
	resetHelpFlags(rootCmd)
}

// resetHelpFlags clears the --help flag cobra leaves set on a command
// after a help execution, so later executions run the command again.
func resetHelpFlags(cmd *cobra.Command) {
	if f := cmd.Flags().Lookup("help"); f != nil {
		_ = f.Value.Set("false")
		f.Changed = false
	}
	for _, sub := range cmd.Commands() {
		resetHelpFlags(sub)
	}
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// writePDF creates a file with a .pdf extension under dir.
// The session is mocked, so the content need not be a valid PDF.
func writePDF(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4\n"), 0644))
	return path
}
