// Package process provides the view that selects documents and builds the index.
package process

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
)

// Loader reads the documents named by paths, globs or directories.
type Loader func(ctx context.Context, paths []string) ([]domain.RawDocument, error)

// progressBuffer bounds queued progress updates; extra updates are dropped.
const progressBuffer = 32

// View lists the documents to process and runs the process action.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.TextInput
	statusbar *status.Bar

	session driving.SessionService
	load    Loader
	ctx     context.Context

	paths      []string
	selected   int
	chunkSize  int
	focusInput bool

	building bool
	progress chan messages.ProcessProgress
	report   *domain.ProcessReport
	err      error

	width  int
	height int
	ready  bool
}

// NewView creates a new process view.
func NewView(s *styles.Styles, km *keymap.KeyMap, session driving.SessionService, load Loader) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	bar := status.NewBar(s, km)
	bar.SetBindings(km.ProcessHelp())

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewTextInput(s, "PDF", "path, directory or glob, e.g. docs/**/*.pdf"),
		statusbar:  bar,
		session:    session,
		load:       load,
		ctx:        context.Background(),
		chunkSize:  domain.DefaultChunkSize,
		focusInput: true,
		width:      80,
		height:     24,
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

// Update handles messages for the process view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ProcessProgress:
		if v.building {
			v.statusbar.SetMessage(formatProgress(msg))
		}
		return v, waitForProgress(v.progress)

	case messages.ProcessCompleted:
		v.handleCompleted(msg)
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

	if keymap.Matches(msg.String(), v.keymap.Focus) {
		v.toggleFocus()
		return v, nil
	}

	if v.focusInput {
		if msg.Type == tea.KeyEnter {
			v.addPath(v.input.Value())
			v.input.Reset()
			return v, nil
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	switch {
	case keymap.Matches(msg.String(), v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
	case keymap.Matches(msg.String(), v.keymap.Down):
		if v.selected < len(v.paths)-1 {
			v.selected++
		}
	case keymap.Matches(msg.String(), v.keymap.Remove):
		v.removeSelected()
	case keymap.Matches(msg.String(), v.keymap.SmallerChunks):
		v.stepChunkSize(-domain.ChunkSizeStep)
	case keymap.Matches(msg.String(), v.keymap.LargerChunks):
		v.stepChunkSize(domain.ChunkSizeStep)
	case keymap.Matches(msg.String(), v.keymap.Process):
		return v, v.startProcess()
	case msg.Type == tea.KeyEnter:
		v.toggleFocus()
	}
	return v, nil
}

func (v *View) toggleFocus() {
	v.focusInput = !v.focusInput
	if v.focusInput {
		v.input.Focus()
	} else {
		v.input.Blur()
	}
}

// addPath appends a path, ignoring blanks and duplicates.
func (v *View) addPath(path string) {
	path = strings.TrimSpace(path)
	if path == "" || slices.Contains(v.paths, path) {
		return
	}
	v.paths = append(v.paths, path)
	v.selected = len(v.paths) - 1
}

func (v *View) removeSelected() {
	if len(v.paths) == 0 {
		return
	}
	v.paths = slices.Delete(v.paths, v.selected, v.selected+1)
	if v.selected >= len(v.paths) && v.selected > 0 {
		v.selected--
	}
}

func (v *View) stepChunkSize(delta int) {
	size := v.chunkSize + delta
	if size < domain.MinChunkSize || size > domain.MaxChunkSize {
		return
	}
	v.chunkSize = size
}

// startProcess runs the process action in the background and streams its
// progress back as messages.
func (v *View) startProcess() tea.Cmd {
	if v.building {
		return nil
	}
	if len(v.paths) == 0 {
		v.setError(domain.ErrNoDocuments)
		return nil
	}
	if v.session == nil {
		v.setError(ErrNoSessionService)
		return nil
	}

	v.building = true
	v.err = nil
	v.statusbar.SetState(status.StateBuilding)
	v.statusbar.SetMessage("")

	ctx := v.ctx
	session := v.session
	load := v.load
	paths := slices.Clone(v.paths)
	opts := domain.ProcessOptions{ChunkSize: v.chunkSize}
	progress := make(chan messages.ProcessProgress, progressBuffer)
	v.progress = progress
	opts.Progress = func(stage string, done, total int) {
		select {
		case progress <- messages.ProcessProgress{Stage: stage, Done: done, Total: total}:
		default:
		}
	}

	run := func() tea.Msg {
		defer close(progress)
		docs, err := load(ctx, paths)
		if err != nil {
			return messages.ProcessCompleted{Err: err}
		}
		report, err := session.Process(ctx, docs, opts)
		return messages.ProcessCompleted{Report: report, Err: err}
	}
	return tea.Batch(run, waitForProgress(progress))
}

// waitForProgress delivers the next progress update, or nothing once the
// channel is closed.
func waitForProgress(ch <-chan messages.ProcessProgress) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return nil
		}
		return p
	}
}

func (v *View) handleCompleted(msg messages.ProcessCompleted) {
	v.building = false
	if msg.Err != nil {
		v.report = nil
		v.setError(msg.Err)
		return
	}
	v.err = nil
	v.report = msg.Report
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage(fmt.Sprintf("Created %d chunks from your documents. Ready to answer questions!",
		msg.Report.Chunks))
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetError(err)
}

// syncSession reflects the session state in the status bar when idle.
func (v *View) syncSession() {
	if v.building || v.err != nil || v.session == nil {
		return
	}
	state := v.session.State()
	if state.IsReady() {
		v.statusbar.SetState(status.StateReady)
		v.statusbar.SetMessage(fmt.Sprintf("%d chunks indexed", state.Index.Chunks))
		return
	}
	v.statusbar.SetState(status.StateEmpty)
	v.statusbar.SetMessage("")
}

func formatProgress(p messages.ProcessProgress) string {
	if p.Total > 0 {
		return fmt.Sprintf("Processing: %s %d/%d", p.Stage, p.Done, p.Total)
	}
	return "Processing: " + p.Stage
}

// View renders the process view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 12)
	sections = append(sections, v.styles.Title.Render("Process Documents"), "")
	sections = append(sections, v.input.View(), "")
	sections = append(sections, v.renderPaths(), "")
	sections = append(sections, v.renderChunkSize())

	if v.report != nil {
		sections = append(sections, "", v.renderReport())
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderPaths() string {
	if len(v.paths) == 0 {
		return v.styles.Muted.Render("No documents added. Type a path and press enter.")
	}

	lines := make([]string, 0, len(v.paths)+1)
	lines = append(lines, v.styles.Subtitle.Render(fmt.Sprintf("Documents (%d)", len(v.paths))))
	for i, p := range v.paths {
		if i == v.selected && !v.focusInput {
			lines = append(lines, v.styles.Selected.Render("> "+p))
			continue
		}
		lines = append(lines, v.styles.Normal.Render("  "+p))
	}
	return strings.Join(lines, "\n")
}

func (v *View) renderChunkSize() string {
	label := v.styles.Subtitle.Render("Chunk size: ")
	value := fmt.Sprintf("◀ %d ▶", v.chunkSize)
	overlap := v.styles.Muted.Render(fmt.Sprintf("  overlap %d, range %d-%d",
		domain.OverlapFor(v.chunkSize), domain.MinChunkSize, domain.MaxChunkSize))
	return label + v.styles.Normal.Render(value) + overlap
}

func (v *View) renderReport() string {
	r := v.report
	lines := []string{
		fmt.Sprintf("Documents: %d  Pages: %d  Characters: %d", r.Documents, r.Pages, r.Characters),
		fmt.Sprintf("Chunks: %d  Dimensions: %d  Model: %s", r.Chunks, r.Index.Dimensions, r.Index.EmbeddingModel),
		fmt.Sprintf("Took %s", r.Elapsed.Round(time.Millisecond)),
	}
	if r.EmptyPages > 0 {
		lines = append(lines, v.styles.Warning.Render(
			fmt.Sprintf("%d of %d pages had no extractable text", r.EmptyPages, r.Pages)))
	}
	return v.styles.Muted.Render(strings.Join(lines, "\n"))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
}

// SetChunkSize sets the chunk size used for the next build.
// Values outside the accepted range are ignored.
func (v *View) SetChunkSize(size int) {
	if domain.ValidateChunkSize(size) == nil {
		v.chunkSize = size
	}
}

// ChunkSize returns the chunk size used for the next build.
func (v *View) ChunkSize() int {
	return v.chunkSize
}

// SetPaths replaces the document list.
func (v *View) SetPaths(paths []string) {
	v.paths = nil
	v.selected = 0
	for _, p := range paths {
		v.addPath(p)
	}
	v.selected = 0
}

// Paths returns the document list.
func (v *View) Paths() []string {
	return v.paths
}

// Building reports whether a process action is running.
func (v *View) Building() bool {
	return v.building
}

// Report returns the report of the last successful build.
func (v *View) Report() *domain.ProcessReport {
	return v.report
}

// Err returns the last error, if any.
func (v *View) Err() error {
	return v.err
}

// StatusMessage returns the status bar message.
func (v *View) StatusMessage() string {
	return v.statusbar.Message()
}

// InputFocused returns whether the path input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}
