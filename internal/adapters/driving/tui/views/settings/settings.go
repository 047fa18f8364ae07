// Package settings provides the settings configuration view for the TUI.
package settings

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
)

// Key constants for key handling.
const (
	keyDown  = "down"
	keyEnter = "enter"
	keyEsc   = "esc"
)

// View is the settings configuration view.
// Every setting is listed by its config key and edited in place.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	settings *domain.AppSettings
	keys     []string
	err      error
	saved    string

	selected int
	editing  bool
	editor   textinput.Model

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	editor := textinput.New()
	editor.CharLimit = 512

	v := &View{
		styles:          s,
		settingsService: settingsService,
		editor:          editor,
	}
	if settingsService != nil {
		v.keys = settingsService.Keys()
	}
	return v
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

// loadSettings returns a command that loads current settings.
func (v *View) loadSettings() tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsLoaded{Err: fmt.Errorf("settings service not available")}
		}
		settings, err := v.settingsService.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// saveSetting returns a command that stores one setting.
func (v *View) saveSetting(key, value string) tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsSaved{Key: key, Err: fmt.Errorf("settings service not available")}
		}
		return messages.SettingsSaved{Key: key, Err: v.settingsService.Set(key, value)}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.settings = msg.Settings
			v.err = nil
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.saved = msg.Key
		return v, v.loadSettings()

	case tea.KeyMsg:
		if v.editing {
			return v.handleEditKeys(msg)
		}
		return v.handleListKeys(msg)
	}

	return v, nil
}

func (v *View) handleListKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case keyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < len(v.keys)-1 {
			v.selected++
		}
	case keyEnter:
		if v.settings == nil || len(v.keys) == 0 {
			return v, nil
		}
		v.editing = true
		v.saved = ""
		v.editor.SetValue(ValueFor(v.settings, v.keys[v.selected]))
		v.editor.CursorEnd()
		return v, v.editor.Focus()
	}
	return v, nil
}

func (v *View) handleEditKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case keyEsc:
		v.editing = false
		v.editor.Blur()
		return v, nil
	case keyEnter:
		v.editing = false
		v.editor.Blur()
		return v, v.saveSetting(v.keys[v.selected], strings.TrimSpace(v.editor.Value()))
	}

	var cmd tea.Cmd
	v.editor, cmd = v.editor.Update(msg)
	return v, cmd
}

// ValueFor returns the displayed value of a setting.
func ValueFor(s *domain.AppSettings, key string) string {
	switch key {
	case "embedding.model":
		return s.Embedding.Model
	case "embedding.base_url":
		return s.Embedding.BaseURL
	case "embedding.dimensions":
		return strconv.Itoa(s.Embedding.Dimensions)
	case "llm.model":
		return s.LLM.Model
	case "llm.base_url":
		return s.LLM.BaseURL
	case "chunking.size":
		return strconv.Itoa(s.Chunking.Size)
	case "index.path":
		return s.Index.Path
	default:
		return ""
	}
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	if v.settings == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		return b.String()
	}

	width := 0
	for _, key := range v.keys {
		width = max(width, len(key))
	}

	for i, key := range v.keys {
		indicator := "  "
		if i == v.selected {
			indicator = "> "
		}

		if v.editing && i == v.selected {
			b.WriteString(v.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, width, key)))
			b.WriteString(v.editor.View())
			b.WriteString("\n")
			continue
		}

		value := ValueFor(v.settings, key)
		if value == "" {
			value = "(default)"
		}
		line := fmt.Sprintf("%s%-*s  %s", indicator, width, key, value)
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.saved != "" {
		b.WriteString(v.styles.Success.Render("Saved " + v.saved))
		b.WriteString("\n")
	}
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("Chunk overlap is %d (a tenth of the chunk size).",
		v.settings.Chunking.Overlap())))
	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

func (v *View) renderHelp() string {
	if v.editing {
		return v.styles.Help.Render("[enter] save  [esc] cancel")
	}
	return v.styles.Help.Render("[j/k] navigate  [enter] edit  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Reset resets the view to initial state.
func (v *View) Reset() {
	v.selected = 0
	v.editing = false
	v.err = nil
	v.saved = ""
	v.editor.SetValue("")
	v.editor.Blur()
}

// Settings returns the loaded settings.
func (v *View) Settings() *domain.AppSettings {
	return v.settings
}

// Editing reports whether a value is being edited.
func (v *View) Editing() bool {
	return v.editing
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}
