package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStatus_String(t *testing.T) {
	tests := []struct {
		status   SessionStatus
		expected string
	}{
		{SessionEmpty, "empty"},
		{SessionBuilding, "building"},
		{SessionReady, "ready"},
		{SessionStatus(42), "Unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.status.String())
	}
}

func TestEmptySession(t *testing.T) {
	s := EmptySession()

	assert.Equal(t, SessionEmpty, s.Status)
	assert.Nil(t, s.Index)
	assert.False(t, s.IsReady())
}

func TestReadySession(t *testing.T) {
	info := IndexInfo{
		Path:       "faiss_index",
		Chunks:     12,
		Dimensions: 384,
		ChunkSize:  300,
		Overlap:    30,
		BuiltAt:    time.Now(),
	}

	s := ReadySession(info)

	assert.Equal(t, SessionReady, s.Status)
	require.NotNil(t, s.Index)
	assert.Equal(t, 12, s.Index.Chunks)
	assert.True(t, s.IsReady())
}

func TestSessionState_ReadyRequiresIndex(t *testing.T) {
	s := SessionState{Status: SessionReady}
	assert.False(t, s.IsReady())
}

func TestSessionState_BuildingWithPreviousIndex(t *testing.T) {
	s := SessionState{Status: SessionBuilding, Index: &IndexInfo{Chunks: 3}}
	assert.True(t, s.IsReady())

	s = SessionState{Status: SessionBuilding}
	assert.False(t, s.IsReady())
}
