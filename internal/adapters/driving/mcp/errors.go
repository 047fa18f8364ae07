// Package mcp provides an MCP (Model Context Protocol) server adapter for pdfchat.
// It lets AI assistants ask questions about the processed documents.
package mcp

import "errors"

// ErrMissingSessionService is returned when the session service is not provided.
var ErrMissingSessionService = errors.New("mcp: session service is required")
