package list

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

func sampleResults() []domain.SearchResult {
	return []domain.SearchResult{
		{ChunkText: "Paris is the capital of France.", Distance: 0.125, Rank: 1},
		{ChunkText: "Berlin is the capital of Germany.", Distance: 0.5, Rank: 2},
	}
}

func TestNewContextList(t *testing.T) {
	l := NewContextList(nil)

	require.NotNil(t, l)
	assert.NotNil(t, l.styles)
	assert.Equal(t, 0, l.Count())
	assert.Nil(t, l.SelectedResult())
}

func TestContextList_EmptyView(t *testing.T) {
	l := NewContextList(nil)

	assert.Contains(t, l.View(), "No context retrieved")
}

func TestContextList_ViewShowsRankAndDistance(t *testing.T) {
	l := NewContextList(nil)
	l.SetResults(sampleResults())

	view := l.View()

	assert.Contains(t, view, "Context (2 chunks)")
	assert.Contains(t, view, "[1]")
	assert.Contains(t, view, "[2]")
	assert.Contains(t, view, "distance 0.1250")
	assert.Contains(t, view, "distance 0.5000")
	assert.Contains(t, view, "Paris is the capital of France.")
}

func TestContextList_Navigation(t *testing.T) {
	l := NewContextList(nil)
	l.SetResults(sampleResults())

	l.MoveUp()
	assert.Equal(t, 0, l.Selected())

	l.MoveDown()
	assert.Equal(t, 1, l.Selected())
	assert.Equal(t, 2, l.SelectedResult().Rank)

	l.MoveDown()
	assert.Equal(t, 1, l.Selected())

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 0, l.Selected())

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, l.Selected())
}

func TestContextList_SetResultsResetsSelection(t *testing.T) {
	l := NewContextList(nil)
	l.SetResults(sampleResults())
	l.MoveDown()

	l.SetResults(sampleResults()[:1])

	assert.Equal(t, 0, l.Selected())
	assert.Equal(t, 1, l.Count())
}

func TestContextList_SetDimensions(t *testing.T) {
	l := NewContextList(nil)

	l.SetDimensions(120, 30)

	assert.Equal(t, 120, l.Width())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "héll...", truncate("héllo wörld", 7))
}
