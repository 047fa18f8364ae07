package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfchat/internal/connectors/filesystem"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/logger"
)

var (
	processChunkSize int
	processWatch     bool
	processJSON      bool
	processInterval  time.Duration
)

var processCmd = &cobra.Command{
	Use:   "process <pdf|dir|glob>...",
	Short: "Process PDF documents so questions can be asked about them",
	Long: `Extracts the text of the given PDF documents, splits it into chunks, embeds
every chunk and saves a new index that replaces any previous one.

Inputs may be files, directories (searched recursively for PDFs) or globs:
  pdfchat process report.pdf
  pdfchat process papers/
  pdfchat process 'docs/**/*.pdf' --chunk-size 400

With --watch, the documents are processed again whenever one of them changes.`,
	RunE: runProcess,
}

func init() {
	processCmd.Flags().IntVarP(&processChunkSize, "chunk-size", "s", 0,
		fmt.Sprintf("chunk size in characters, %d-%d (default from settings)", domain.MinChunkSize, domain.MaxChunkSize))
	processCmd.Flags().BoolVarP(&processWatch, "watch", "w", false, "process again when an input changes")
	processCmd.Flags().BoolVar(&processJSON, "json", false, "output the report as JSON")
	processCmd.Flags().DurationVar(&processInterval, "watch-interval", filesystem.DefaultRebuildInterval,
		"minimum time between watch rebuilds")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}
	if len(args) == 0 {
		return domain.ErrNoDocuments
	}
	if processChunkSize != 0 {
		if err := domain.ValidateChunkSize(processChunkSize); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	connector := filesystem.New(args...)

	if err := processOnce(ctx, cmd, connector); err != nil {
		return err
	}
	if !processWatch {
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	connector.SetRebuildInterval(processInterval)
	cmd.PrintErrln("Watching for changes. Press Ctrl+C to stop.")
	err := connector.Watch(ctx, func(ctx context.Context) error {
		cmd.PrintErrln("Change detected, processing again...")
		if err := processOnce(ctx, cmd, connector); err != nil {
			logger.Error("Rebuild failed: %s", userMessage(err))
			return err
		}
		return nil
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// processOnce loads the inputs and runs a full build.
func processOnce(ctx context.Context, cmd *cobra.Command, connector *filesystem.Connector) error {
	docs, err := connector.Load(ctx)
	if err != nil {
		return err
	}

	opts := domain.ProcessOptions{ChunkSize: processChunkSize}
	var progress *progressReporter
	if stderrIsTerminal() && !processJSON {
		progress = newProgressReporter(cmd.ErrOrStderr())
		opts.Progress = progress.Report
	}

	report, err := sessionService.Process(ctx, docs, opts)
	if progress != nil {
		progress.Finish()
	}
	if err != nil {
		return err
	}

	if processJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printReport(cmd, report)
	return nil
}

func printReport(cmd *cobra.Command, report *domain.ProcessReport) {
	if report.EmptyPages > 0 {
		cmd.PrintErrf("Warning: %d of %d pages had no extractable text\n", report.EmptyPages, report.Pages)
	}
	cmd.Printf("Created %d chunks from your documents\n", report.Chunks)
	if logger.IsVerbose() {
		cmd.Printf("  Documents: %d, pages: %d, characters: %d\n", report.Documents, report.Pages, report.Characters)
		cmd.Printf("  Chunk size: %d (overlap %d), dimensions: %d, model: %s\n",
			report.Index.ChunkSize, report.Index.Overlap, report.Index.Dimensions, report.Index.EmbeddingModel)
		cmd.Printf("  Index: %s (%s)\n", report.Index.Path, report.Elapsed.Round(time.Millisecond))
	}
	cmd.Println("Ready to answer questions!")
}
