// Package ask provides the question and answer view for the TUI.
package ask

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
)

// NotReadyMessage is shown while no documents have been processed.
const NotReadyMessage = "Please upload and process documents first"

// View represents the ask view with question input, answer and context list.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.TextInput
	list      *list.ContextList
	statusbar *status.Bar

	session driving.SessionService
	ctx     context.Context

	answer   *domain.Answer
	rendered string
	asking   bool
	err      error

	width      int
	height     int
	ready      bool
	focusInput bool // true = typing a question, false = reading the answer
}

// NewView creates a new ask view.
func NewView(s *styles.Styles, km *keymap.KeyMap, session driving.SessionService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	bar := status.NewBar(s, km)
	bar.SetBindings(km.AskHelp())

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewTextInput(s, "Question", "Ask about your documents..."),
		list:       list.NewContextList(s),
		statusbar:  bar,
		session:    session,
		ctx:        context.Background(),
		width:      80,
		height:     24,
		focusInput: true,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	v.syncSession()
	return v.input.Init()
}

// Update handles messages for the ask view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerReceived:
		v.handleAnswer(msg)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if v.focusInput {
		if msg.Type == tea.KeyEnter {
			return v, v.submit()
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	if keymap.Matches(msg.String(), v.keymap.NewQuestion) {
		v.Reset()
		return v, nil
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

// submit asks the typed question unless the session holds no index.
// A rebuild in progress still answers from the previous index.
func (v *View) submit() tea.Cmd {
	question := strings.TrimSpace(v.input.Value())
	if question == "" || v.asking {
		return nil
	}
	if v.session == nil || !v.session.State().IsReady() {
		v.statusbar.SetState(status.StateEmpty)
		v.statusbar.SetMessage(NotReadyMessage)
		return nil
	}

	v.asking = true
	v.err = nil
	v.statusbar.SetState(status.StateAnswering)

	ctx := v.ctx
	session := v.session
	return func() tea.Msg {
		answer, err := session.Ask(ctx, question)
		return messages.AnswerReceived{Answer: answer, Err: err}
	}
}

func (v *View) handleAnswer(msg messages.AnswerReceived) {
	v.asking = false
	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetError(msg.Err)
		return
	}

	v.err = nil
	v.answer = msg.Answer
	v.rendered = v.renderMarkdown(msg.Answer.Text)
	v.list.SetResults(msg.Answer.Context)
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage("Answered by " + msg.Answer.Model)

	v.focusInput = false
	v.input.Blur()
}

// renderMarkdown renders the answer with glamour, falling back to the raw text.
func (v *View) renderMarkdown(text string) string {
	wrap := v.width - 4
	if wrap < 20 {
		wrap = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(v.styles.Theme().Markdown),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimSpace(out)
}

// syncSession shows the not-ready hint while the session has no index.
func (v *View) syncSession() {
	if v.asking || v.err != nil {
		return
	}
	if v.session == nil || !v.session.State().IsReady() {
		v.statusbar.SetState(status.StateEmpty)
		v.statusbar.SetMessage(NotReadyMessage)
		return
	}
	if v.answer == nil {
		v.statusbar.SetState(status.StateReady)
		v.statusbar.SetMessage("")
	}
}

// View renders the ask view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)
	sections = append(sections, v.styles.Title.Render("Ask Questions"), "")

	if v.session == nil || !v.session.State().IsReady() {
		sections = append(sections, v.styles.Warning.Render(NotReadyMessage), "")
	}

	sections = append(sections, v.input.View(), "")

	if v.answer != nil {
		sections = append(sections, v.styles.Answer.Width(v.width-2).Render(v.rendered), "")
		sections = append(sections, v.list.View())
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-12)
	v.statusbar.SetWidth(width)
}

// Reset clears the answer and focuses the question input.
func (v *View) Reset() {
	v.focusInput = true
	v.input.Focus()
	v.input.SetValue("")
	v.answer = nil
	v.rendered = ""
	v.list.SetResults(nil)
	v.err = nil
	v.syncSession()
}

// Question returns the current question.
func (v *View) Question() string {
	return v.input.Value()
}

// SetQuestion sets the question text.
func (v *View) SetQuestion(q string) {
	v.input.SetValue(q)
}

// Answer returns the last answer, if any.
func (v *View) Answer() *domain.Answer {
	return v.answer
}

// Rendered returns the rendered answer.
func (v *View) Rendered() string {
	return v.rendered
}

// Context returns the retrieved chunks of the last answer.
func (v *View) Context() []domain.SearchResult {
	return v.list.Results()
}

// Asking reports whether a question is being answered.
func (v *View) Asking() bool {
	return v.asking
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// StatusMessage returns the status bar message.
func (v *View) StatusMessage() string {
	return v.statusbar.Message()
}

// InputFocused returns whether the question input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}
