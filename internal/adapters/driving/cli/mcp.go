package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfchat/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can ask questions
about the documents processed with 'pdfchat process'.

The server exposes the ask and retrieve tools and a pdfchat://status resource.
The saved index is loaded on first use.

By default, the server communicates over stdio using JSON-RPC.
Use --port to start an HTTP server instead, for example to test with the
MCP Inspector.

Examples:
  # Stdio mode (default)
  pdfchat mcp serve

  # HTTP mode
  pdfchat mcp serve --port 8080

Client configuration:
  {
    "mcpServers": {
      "pdfchat": {
        "command": "/path/to/pdfchat",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Session:  sessionService,
		Settings: settingsService,
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}
