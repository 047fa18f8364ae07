package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the models, chunk size and index location.

Settings are stored in ~/.pdfchat/config.toml unless --config-dir is given.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change a single setting.

Keys:
  embedding.model       Ollama embedding model (e.g. all-minilm, nomic-embed-text)
  embedding.base_url    Ollama URL for embeddings (empty uses OLLAMA_HOST)
  embedding.dimensions  embedding vector size
  llm.model             Ollama language model (e.g. llama2, mistral)
  llm.base_url          Ollama URL for the language model (empty uses OLLAMA_HOST)
  chunking.size         default chunk size, 100-500 characters
  index.path            directory the index is saved to`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSettingsSet,
}

var settingsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the configured models are available",
	RunE:  runSettingsCheck,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure all settings step by step.`,
	RunE:  runSettingsWizard,
}

// wizardInput is read by the wizard; tests replace it.
var wizardInput io.Reader = os.Stdin

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsCheckCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	cmd.Printf("  Base URL: %s\n", displayBaseURL(settings.Embedding.BaseURL))
	if settings.Embedding.Dimensions > 0 {
		cmd.Printf("  Dimensions: %d\n", settings.Embedding.Dimensions)
	} else {
		cmd.Printf("  Dimensions: (from model)\n")
	}
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	cmd.Printf("  Base URL: %s\n", displayBaseURL(settings.LLM.BaseURL))
	cmd.Println()

	cmd.Println("[Chunking]")
	cmd.Printf("  Size: %d\n", settings.Chunking.Size)
	cmd.Printf("  Overlap: %d\n", settings.Chunking.Overlap())
	cmd.Println()

	cmd.Println("[Index]")
	cmd.Printf("  Path: %s\n", settings.Index.Path)

	if sessionService != nil {
		state := sessionService.State()
		cmd.Printf("  Session: %s\n", state.Status)
		if state.Index != nil {
			cmd.Printf("  Chunks: %d\n", state.Index.Chunks)
		}
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key := args[0]
	value := ""
	if len(args) == 2 {
		value = args[1]
	}

	if err := settingsService.Set(key, value); err != nil {
		return err
	}
	if value == "" {
		cmd.Printf("Cleared %s\n", key)
	} else {
		cmd.Printf("Set %s to %s\n", key, value)
	}
	return nil
}

func runSettingsCheck(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if checkModels == nil {
		return errors.New("model check not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var failed int
	for _, status := range checkModels(ctx, settings) {
		if status.Err != nil {
			failed++
			cmd.Printf("  %-10s %s: %v\n", status.Role, status.Model, status.Err)
			continue
		}
		cmd.Printf("  %-10s %s: ok\n", status.Role, status.Model)
	}
	if failed > 0 {
		return fmt.Errorf("%d of the configured models are unavailable", failed)
	}
	cmd.Println("All models are available.")
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("pdfchat Settings Wizard")
	cmd.Println("=======================")
	cmd.Println()

	reader := bufio.NewReader(wizardInput)

	// Step 1: Embedding model
	cmd.Println("Step 1: Select Embedding Model")
	cmd.Println("------------------------------")
	models := knownEmbeddingModels()
	current := 1
	for i, model := range models {
		if model == settings.Embedding.Model {
			current = i + 1
		}
		cmd.Printf("  %d. %s (%d dimensions)\n", i+1, model, domain.EmbeddingDimensions()[model])
	}
	cmd.Printf("\nEnter choice [%d]: ", current)
	embedModel := models[parseChoice(readLine(reader), len(models), current)-1]
	if err := settingsService.SetEmbeddingModel(embedModel); err != nil {
		return fmt.Errorf("failed to set embedding model: %w", err)
	}
	cmd.Printf("Set embedding model to: %s\n\n", embedModel)

	// Step 2: Language model
	cmd.Println("Step 2: Language Model")
	cmd.Println("----------------------")
	cmd.Printf("Enter model name [%s]: ", settings.LLM.Model)
	if llmModel := readLine(reader); llmModel != "" {
		if err := settingsService.SetLLMModel(llmModel); err != nil {
			return fmt.Errorf("failed to set language model: %w", err)
		}
		cmd.Printf("Set language model to: %s\n", llmModel)
	}
	cmd.Println()

	// Step 3: Chunk size
	cmd.Println("Step 3: Chunk Size")
	cmd.Println("------------------")
	cmd.Printf("Enter chunk size, %d-%d [%d]: ", domain.MinChunkSize, domain.MaxChunkSize, settings.Chunking.Size)
	if input := readLine(reader); input != "" {
		size, err := strconv.Atoi(input)
		if err != nil {
			return fmt.Errorf("%w: chunk size must be a number", domain.ErrInvalidInput)
		}
		if err := settingsService.SetChunkSize(size); err != nil {
			return err
		}
		cmd.Printf("Set chunk size to: %d\n", size)
	}
	cmd.Println()

	cmd.Println("Settings saved. Run 'pdfchat settings check' to verify the models.")
	return nil
}

// knownEmbeddingModels returns the embedding models with known dimensions, default first.
func knownEmbeddingModels() []string {
	var models []string
	for model := range domain.EmbeddingDimensions() {
		if model != domain.DefaultEmbeddingModel {
			models = append(models, model)
		}
	}
	sort.Strings(models)
	return append([]string{domain.DefaultEmbeddingModel}, models...)
}

func displayBaseURL(url string) string {
	if url == "" {
		if env := os.Getenv("OLLAMA_HOST"); env != "" {
			return env + " (OLLAMA_HOST)"
		}
		return "(default)"
	}
	return url
}

func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}
