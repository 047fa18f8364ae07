package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

var (
	askJSON        bool
	askContextOnly bool
	askShowContext bool
	askTopK        int
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about the processed documents",
	Long: `Answers a question from the documents processed with 'pdfchat process'.

The question is embedded, the two closest chunks are retrieved from the saved
index and the language model answers from them alone. If the answer is not in
the documents, the model says so.

Use --context-only to see the retrieved chunks without calling the model.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	askCmd.Flags().BoolVar(&askContextOnly, "context-only", false, "print the retrieved chunks without generating an answer")
	askCmd.Flags().BoolVar(&askShowContext, "show-context", false, "print the retrieved chunks after the answer")
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", domain.DefaultTopK, "number of chunks to retrieve with --context-only")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ensureReady(ctx); err != nil {
		return err
	}

	if askContextOnly {
		results, err := sessionService.Retrieve(ctx, question, askTopK)
		if err != nil {
			return err
		}
		if askJSON {
			return printJSON(cmd, results)
		}
		printContext(cmd, results)
		return nil
	}

	answer, err := sessionService.Ask(ctx, question)
	if err != nil {
		return err
	}
	if askJSON {
		return printJSON(cmd, answer)
	}

	cmd.Println(answer.Text)
	if askShowContext {
		cmd.Println()
		printContext(cmd, answer.Context)
	}
	return nil
}

// ensureReady restores the saved index when the session has none.
func ensureReady(ctx context.Context) error {
	if sessionService.State().IsReady() {
		return nil
	}
	err := sessionService.Restore(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrNotReady
	}
	return err
}

func printContext(cmd *cobra.Command, results []domain.SearchResult) {
	if len(results) == 0 {
		cmd.Println("No context retrieved.")
		return
	}
	cmd.Println("Context:")
	for _, r := range results {
		cmd.Printf("  [%d] distance %.4f\n", r.Rank, r.Distance)
		for _, line := range strings.Split(r.ChunkText, "\n") {
			cmd.Printf("      %s\n", line)
		}
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
