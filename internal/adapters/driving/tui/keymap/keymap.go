// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help shows the help view.
	Help key.Binding

	// Back returns to the previous view.
	Back key.Binding

	// Up navigates up in a list.
	Up key.Binding

	// Down navigates down in a list.
	Down key.Binding

	// Select confirms a selection.
	Select key.Binding

	// Add adds the typed path to the document list.
	Add key.Binding

	// Remove removes the selected document.
	Remove key.Binding

	// Process builds the index from the document list.
	Process key.Binding

	// SmallerChunks decreases the chunk size by one step.
	SmallerChunks key.Binding

	// LargerChunks increases the chunk size by one step.
	LargerChunks key.Binding

	// Focus switches between the input and the list.
	Focus key.Binding

	// Ask submits the question.
	Ask key.Binding

	// NewQuestion clears the answer and focuses the question input.
	NewQuestion key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Add: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "add path"),
		),
		Remove: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "remove"),
		),
		Process: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "process"),
		),
		SmallerChunks: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "smaller chunks"),
		),
		LargerChunks: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "larger chunks"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch focus"),
		),
		Ask: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "ask"),
		),
		NewQuestion: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new question"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Back, k.Help}
}

// ProcessHelp returns keybindings for the process view.
func (k *KeyMap) ProcessHelp() []key.Binding {
	return []key.Binding{k.Focus, k.Remove, k.SmallerChunks, k.LargerChunks, k.Process, k.Back}
}

// AskHelp returns keybindings for the ask view.
func (k *KeyMap) AskHelp() []key.Binding {
	return []key.Binding{k.Ask, k.NewQuestion, k.Up, k.Back}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Add, k.Remove, k.SmallerChunks, k.LargerChunks, k.Process},
		{k.Ask, k.NewQuestion},
		{k.Back, k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
