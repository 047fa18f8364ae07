// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewProcess selects documents and builds the index.
	ViewProcess
	// ViewAsk is the question input and answer view.
	ViewAsk
	// ViewSettings is the settings configuration view.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewProcess:
		return "process"
	case ViewAsk:
		return "ask"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// ProcessProgress reports progress of a running process action.
type ProcessProgress struct {
	Stage string
	Done  int
	Total int
}

// ProcessCompleted carries the outcome of a process action.
type ProcessCompleted struct {
	Report *domain.ProcessReport
	Err    error
}

// AnswerReceived carries the answer to a question.
type AnswerReceived struct {
	Answer *domain.Answer
	Err    error
}

// SessionRestored signals the persisted index was loaded, or why it was not.
type SessionRestored struct {
	Err error
}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals settings were saved.
type SettingsSaved struct {
	Key string
	Err error
}
