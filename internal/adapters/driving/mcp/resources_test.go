package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

func statusRequest() *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: statusURI},
	}
}

func decodeStatus(t *testing.T, result *mcp.ReadResourceResult) map[string]any {
	t.Helper()
	require.Len(t, result.Contents, 1)
	assert.Equal(t, statusURI, result.Contents[0].URI)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &body))
	return body
}

func TestServer_handleStatusResource(t *testing.T) {
	ctx := context.Background()

	t.Run("ready session with settings", func(t *testing.T) {
		settings := &mockSettingsService{settings: domain.DefaultAppSettings()}
		server, err := NewServer(&Ports{Session: readySession(), Settings: settings})
		require.NoError(t, err)

		result, err := server.handleStatusResource(ctx, statusRequest())

		require.NoError(t, err)
		body := decodeStatus(t, result)
		assert.Equal(t, "ready", body["status"])
		assert.Equal(t, "all-minilm", body["embedding_model"])
		assert.Equal(t, "llama2", body["llm_model"])
		assert.EqualValues(t, 300, body["chunk_size"])
		index, ok := body["index"].(map[string]any)
		require.True(t, ok)
		assert.EqualValues(t, 2, index["chunks"])
	})

	t.Run("nothing processed", func(t *testing.T) {
		server, err := NewServer(&Ports{Session: &mockSessionService{restoreErr: domain.ErrNotFound}})
		require.NoError(t, err)

		result, err := server.handleStatusResource(ctx, statusRequest())

		require.NoError(t, err)
		body := decodeStatus(t, result)
		assert.Equal(t, "empty", body["status"])
		assert.NotContains(t, body, "index")
		assert.NotContains(t, body, "llm_model")
	})

	t.Run("restore failure", func(t *testing.T) {
		server, err := NewServer(&Ports{Session: &mockSessionService{restoreErr: errors.New("corrupt")}})
		require.NoError(t, err)

		_, err = server.handleStatusResource(ctx, statusRequest())

		assert.Error(t, err)
	})
}
