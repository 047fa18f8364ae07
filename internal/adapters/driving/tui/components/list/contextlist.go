// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

// ContextList displays the chunks retrieved for an answer.
// The selected chunk is shown in full, the others as a one-line preview.
type ContextList struct {
	results  []domain.SearchResult
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewContextList creates a new context list component.
func NewContextList(s *styles.Styles) *ContextList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ContextList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the context list.
func (c *ContextList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (c *ContextList) Update(msg tea.Msg) (*ContextList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			c.MoveUp()
		case "down", "j":
			c.MoveDown()
		}
	}
	return c, nil
}

// View renders the context list.
func (c *ContextList) View() string {
	if len(c.results) == 0 {
		return c.styles.Muted.Render("No context retrieved")
	}

	lines := make([]string, 0, len(c.results)+2)
	lines = append(lines, c.styles.Subtitle.Render(fmt.Sprintf("Context (%d chunks)", len(c.results))), "")

	for i := range c.results {
		lines = append(lines, c.renderResult(i, &c.results[i]))
	}
	return strings.Join(lines, "\n")
}

// renderResult formats one retrieved chunk.
func (c *ContextList) renderResult(index int, result *domain.SearchResult) string {
	indicator := "  "
	if index == c.selected {
		indicator = "> "
	}

	header := fmt.Sprintf("%s[%d] ", indicator, result.Rank)
	var headerLine string
	if index == c.selected {
		headerLine = c.styles.Selected.Render(header) + " " + c.styles.Distance.Render(formatDistance(result.Distance))
	} else {
		headerLine = c.styles.Rank.Render(header) + " " + c.styles.Muted.Render(formatDistance(result.Distance))
	}

	text := strings.Join(strings.Fields(result.ChunkText), " ")
	textWidth := c.width - 6
	if textWidth < 20 {
		textWidth = 20
	}
	if index == c.selected {
		return headerLine + "\n" + c.styles.ChunkText.Width(textWidth+4).Render(text)
	}
	return headerLine + "\n" + c.styles.Muted.Render("    "+truncate(text, textWidth))
}

func formatDistance(d float64) string {
	return fmt.Sprintf("distance %.4f", d)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// SetResults updates the list and selects the first chunk.
func (c *ContextList) SetResults(results []domain.SearchResult) {
	c.results = results
	c.selected = 0
}

// Results returns the current results.
func (c *ContextList) Results() []domain.SearchResult {
	return c.results
}

// Selected returns the index of the selected chunk.
func (c *ContextList) Selected() int {
	return c.selected
}

// SelectedResult returns the selected chunk, or nil if the list is empty.
func (c *ContextList) SelectedResult() *domain.SearchResult {
	if len(c.results) == 0 {
		return nil
	}
	return &c.results[c.selected]
}

// MoveUp moves selection up.
func (c *ContextList) MoveUp() {
	if c.selected > 0 {
		c.selected--
	}
}

// MoveDown moves selection down.
func (c *ContextList) MoveDown() {
	if c.selected < len(c.results)-1 {
		c.selected++
	}
}

// SetDimensions sets the component dimensions.
func (c *ContextList) SetDimensions(width, height int) {
	c.width = width
	c.height = height
}

// Width returns the current width.
func (c *ContextList) Width() int {
	return c.width
}

// Count returns the number of results.
func (c *ContextList) Count() int {
	return len(c.results)
}
