// Package status provides status bar components for the TUI.
package status

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

// State represents the current application state for display.
type State string

const (
	StateEmpty     State = "empty"
	StateBuilding  State = "building"
	StateReady     State = "ready"
	StateAnswering State = "answering"
	StateError     State = "error"
)

// Bar displays the session status, a message and keybinding hints.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	bindings []key.Binding
	state    State
	message  string
	width    int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles:   s,
		keymap:   km,
		bindings: km.ShortHelp(),
		state:    StateEmpty,
		width:    80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the state, or the message when one is set.
func (s *Bar) renderLeft() string {
	switch s.state {
	case StateBuilding:
		if s.message != "" {
			return s.styles.Warning.Render(s.message)
		}
		return s.styles.Warning.Render("Processing...")
	case StateAnswering:
		return s.styles.Muted.Render("Thinking...")
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateReady:
		if s.message != "" {
			return s.styles.Success.Render(s.message)
		}
		return s.styles.Success.Render("Ready")
	case StateEmpty:
		if s.message != "" {
			return s.styles.Normal.Render(s.message)
		}
	}
	return s.styles.Muted.Render("No documents processed")
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	hints := make([]string, 0, len(s.bindings))
	for _, b := range s.bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets the message shown for the current state.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// SetError shows err in the error state.
func (s *Bar) SetError(err error) {
	s.state = StateError
	s.message = Describe(err)
}

// Describe turns an error into a status bar message.
func Describe(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoDocuments):
		return "Please upload at least one PDF document"
	case errors.Is(err, domain.ErrNoText):
		return "No extractable text found in the documents"
	case errors.Is(err, domain.ErrNotReady):
		return "Please upload and process documents first"
	case errors.Is(err, domain.ErrEmbeddingUnavailable), errors.Is(err, domain.ErrLLMUnavailable):
		return err.Error() + " (is 'ollama serve' running?)"
	default:
		return err.Error()
	}
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetBindings sets the keybinding hints.
func (s *Bar) SetBindings(bindings []key.Binding) {
	s.bindings = bindings
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to its initial state.
func (s *Bar) Clear() {
	s.state = StateEmpty
	s.message = ""
}
