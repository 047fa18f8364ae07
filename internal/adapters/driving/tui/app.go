package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/views/ask"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/views/process"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	menuView     *menu.View
	processView  *process.View
	askView      *ask.View
	settingsView *settings.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// resume loads the persisted index on start.
	resume bool

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	processView := process.NewView(s, km, ports.Session, process.Loader(ports.Load))
	if ports.Settings != nil {
		if cfg, err := ports.Settings.Get(); err == nil {
			processView.SetChunkSize(cfg.Chunking.Size)
		}
	}

	app := &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		menuView:     menu.NewView(s),
		processView:  processView,
		askView:      ask.NewView(s, km, ports.Session),
		settingsView: settings.NewView(s, ports.Settings),
		currentView:  messages.ViewMenu,
	}
	app.menuView.SetSession(ports.Session.State())
	return app, nil
}

// WithContext sets the context for the app and the views that call services.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.processView.WithContext(ctx)
	a.askView.WithContext(ctx)
	return a
}

// WithResume makes the app load the persisted index on start.
func (a *App) WithResume(resume bool) *App {
	a.resume = resume
	return a
}

// WithDocuments pre-fills the process view's document list.
func (a *App) WithDocuments(paths []string) *App {
	a.processView.SetPaths(paths)
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tea.SetWindowTitle("pdfchat"),
	}
	if a.resume {
		cmds = append(cmds, a.restore())
	}
	return tea.Batch(cmds...)
}

// restore returns a command that loads the persisted index.
func (a *App) restore() tea.Cmd {
	ctx := a.ctx
	session := a.ports.Session
	return func() tea.Msg {
		return messages.SessionRestored{Err: session.Restore(ctx)}
	}
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocyclo // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a, a.updateCurrent(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		a.menuView.SetSession(a.ports.Session.State())
		switch msg.View {
		case messages.ViewProcess:
			return a, a.processView.Init()
		case messages.ViewAsk:
			a.askView.Reset()
			return a, a.askView.Init()
		case messages.ViewSettings:
			a.settingsView.Reset()
			return a, a.settingsView.Init()
		case messages.ViewMenu, messages.ViewHelp:
			// No initialisation needed
		}
		return a, nil

	case messages.ProcessProgress:
		a.processView, cmd = a.processView.Update(msg)
		return a, cmd

	case messages.ProcessCompleted:
		// Builds finish in the background, possibly after leaving the view.
		a.processView, cmd = a.processView.Update(msg)
		a.err = msg.Err
		a.menuView.SetSession(a.ports.Session.State())
		return a, cmd

	case messages.AnswerReceived:
		a.askView, cmd = a.askView.Update(msg)
		a.err = msg.Err
		return a, cmd

	case messages.SessionRestored:
		if msg.Err != nil && !errors.Is(msg.Err, domain.ErrNotFound) {
			a.err = msg.Err
		}
		a.menuView.SetSession(a.ports.Session.State())
		return a, nil

	case messages.SettingsLoaded, messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		if saved, ok := msg.(messages.SettingsSaved); ok && saved.Err == nil {
			a.syncChunkSize()
		}
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	return a, a.updateCurrent(msg)
}

// updateCurrent forwards a message to the active view.
func (a *App) updateCurrent(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewProcess:
		a.processView, cmd = a.processView.Update(msg)
	case messages.ViewAsk:
		a.askView, cmd = a.askView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		// Esc from help goes to menu
		if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
			a.currentView = messages.ViewMenu
		}
	}
	return cmd
}

// syncChunkSize applies a saved default chunk size to the process view.
func (a *App) syncChunkSize() {
	if a.ports.Settings == nil {
		return
	}
	if cfg, err := a.ports.Settings.Get(); err == nil {
		a.processView.SetChunkSize(cfg.Chunking.Size)
	}
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewMenu:
		return a.menuView.View()
	case messages.ViewProcess:
		return a.processView.View()
	case messages.ViewAsk:
		return a.askView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + `

Navigation:
  esc         Back to Menu
  ctrl+c      Quit

Process Documents:
  (type)      Path, directory or glob of PDFs
  enter       Add path
  tab         Switch between input and document list
  j/k, ↑/↓    Select document
  d           Remove selected document
  ←/→         Chunk size -/+ 50 (100-500)
  p           Process documents

Ask Questions:
  (type)      Enter a question
  enter       Ask
  j/k, ↑/↓    Select retrieved chunk
  n           New question

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && a.ctx.Err() != nil {
		return nil
	}
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on the app and every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.processView.SetDimensions(width, height)
	a.askView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
