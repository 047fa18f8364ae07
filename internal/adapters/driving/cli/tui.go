package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui"
)

var tuiResume bool

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui [pdf...]",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for pdfchat.

PDF paths given as arguments are added to the document list, ready to be
processed. With --resume the index saved by the last process run is loaded so
questions can be asked straight away.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Select / Add document / Ask
  ←/→      - Change chunk size
  p        - Process documents
  Esc      - Back / Cancel
  ?        - Toggle help
  q        - Quit`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().BoolVarP(&tuiResume, "resume", "r", false, "load the index saved by the last process run")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) (err error) {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	if sessionService == nil {
		return errors.New("session service not configured")
	}

	app, err := tui.NewApp(tui.NewPorts(sessionService, settingsService))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	app.WithContext(ctx).
		WithResume(tuiResume).
		WithDocuments(args)

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
