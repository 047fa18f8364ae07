// Package cli provides the pdfchat command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
	"github.com/custodia-labs/pdfchat/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services are the core services the commands drive.
type Services struct {
	Session  driving.SessionService
	Settings driving.SettingsService

	// CheckModels verifies the configured models are reachable. Optional.
	CheckModels ModelChecker

	// Close releases resources held by the services. Optional.
	Close func()
}

// ModelChecker reports the state of the embedding and language models.
type ModelChecker func(ctx context.Context, settings *domain.AppSettings) []ModelStatus

// ModelStatus is the result of checking one model.
type ModelStatus struct {
	Role  string
	Model string
	Err   error
}

// ServiceFactory builds the services once flags are parsed.
type ServiceFactory func(configDir string) (*Services, error)

var (
	sessionService  driving.SessionService
	settingsService driving.SettingsService
	checkModels     ModelChecker
	closeServices   func()

	serviceFactory ServiceFactory

	verbose   bool
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "pdfchat",
	Short: "Ask questions about your PDF documents",
	Long: `pdfchat answers questions about a set of PDF documents using local models.

Process your documents once, then ask questions. Text is extracted, split into
chunks and embedded with an Ollama embedding model; answers are generated by an
Ollama language model from the chunks closest to your question.

Everything runs locally. Start Ollama with 'ollama serve' and pull the models:
  ollama pull all-minilm
  ollama pull llama2`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initServices,
	PersistentPostRun: func(*cobra.Command, []string) {
		if closeServices != nil {
			closeServices()
			closeServices = nil
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.pdfchat)")
}

// SetServices installs the services used by every command.
func SetServices(s *Services) {
	sessionService = s.Session
	settingsService = s.Settings
	checkModels = s.CheckModels
	closeServices = s.Close
}

// SetServiceFactory installs a factory that builds services after flag parsing.
// It is used only when no services have been set.
func SetServiceFactory(f ServiceFactory) {
	serviceFactory = f
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command and prints any error as a single line.
// Command output goes to stdout; errors and progress go to stderr.
func Execute(ctx context.Context) error {
	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stderr)
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

func initServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	logger.SetOutput(cmd.ErrOrStderr())

	// version and help need no services.
	if cmd.Name() == "version" || cmd.Name() == "help" {
		return nil
	}
	if sessionService != nil || serviceFactory == nil {
		return nil
	}

	services, err := serviceFactory(configDir)
	if err != nil {
		return err
	}
	SetServices(services)
	return nil
}

// printError writes err with guidance for the errors users can act on.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %s\n", userMessage(err))
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoDocuments):
		return "Please upload at least one PDF document"
	case errors.Is(err, domain.ErrNotReady):
		return "Please upload and process documents first (pdfchat process <file.pdf>)"
	case errors.Is(err, domain.ErrNoText):
		return "No extractable text found in the documents (scanned PDFs are not supported)"
	case errors.Is(err, domain.ErrEmbeddingUnavailable), errors.Is(err, domain.ErrLLMUnavailable):
		return fmt.Sprintf("%v\nIs 'ollama serve' running?", err)
	default:
		return err.Error()
	}
}

// ExitCode maps an error to a process exit status.
// Input errors exit with 2, everything else with 1.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, domain.ErrNoDocuments), errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrNotReady):
		return 2
	default:
		return 1
	}
}

// stderrIsTerminal reports whether progress output should be drawn.
var stderrIsTerminal = func() bool {
	return isTerminal(os.Stderr)
}
