// Package tui implements the interactive terminal page for a task list.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/tasklist/internal/task"
	"github.com/twiced-technology-gmbh/tasklist/internal/view"
)

// screen represents the current screen state.
type screen int

const (
	screenList screen = iota
	screenConfirmClearAll
)

// focus is the element receiving key input on the list screen.
type focus int

const (
	focusEntry focus = iota
	focusList
)

// Key and layout constants.
const (
	keyEsc = "esc"

	entryLine     = 2 // header, blank, entry
	rowsTop       = 4 // first task row below header, blank, entry, blank
	footerChrome  = 2 // blank line + help line below the rows
	errorChrome   = 1 // extra line when error toast is displayed
	cursorWidth   = 2
	checkboxWidth = 3
	tickInterval  = 30 * time.Second // how often created ages refresh
)

// Options configures what the App displays.
type Options struct {
	Title       string
	ShowCreated bool
}

// App is the top-level bubbletea model. Every key or mouse message runs at
// most one store mutation to completion before the next View.
type App struct {
	store    *task.Store
	opts     Options
	keys     keyMap
	help     help.Model
	input    textinput.Model
	rendered view.View
	screen   screen
	focus    focus
	cursor   int
	scroll   int
	width    int
	height   int
	err      error
	now      func() time.Time // clock for created ages; defaults to time.Now
}

// NewApp creates an App over a loaded store. The entry field starts focused.
func NewApp(store *task.Store, opts Options) *App {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "What needs to be done?"
	input.Focus()

	a := &App{
		store: store,
		opts:  opts,
		keys:  newKeyMap(),
		help:  help.New(),
		input: input,
		now:   time.Now,
	}
	a.refresh()
	return a
}

// SetNow overrides the clock function used for created ages (for testing).
func (a *App) SetNow(fn func() time.Time) {
	a.now = fn
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tickCmd())
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)
	case tea.MouseMsg:
		return a.handleMouse(msg)
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.Width = max(msg.Width-lipgloss.Width(a.input.Prompt)-1, 1)
		a.help.Width = msg.Width
		a.ensureVisible()
		return a, nil
	case ReloadMsg:
		if err := a.store.Reload(); err != nil {
			a.err = err
			return a, nil
		}
		a.refresh()
		return a, nil
	case TickMsg:
		return a, tickCmd()
	case WatchErrorMsg:
		a.err = fmt.Errorf("live reload: %w", msg.Err)
		return a, nil
	}

	// Cursor blink and other entry field messages.
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	if a.screen == screenConfirmClearAll {
		return a.viewClearAllConfirm()
	}
	return a.viewList()
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys.
	if key.Matches(msg, a.keys.ForceQuit) {
		return a, tea.Quit
	}

	if a.screen == screenConfirmClearAll {
		return a.handleClearAllKey(msg)
	}
	if a.focus == focusEntry {
		return a.handleEntryKey(msg)
	}
	return a.handleListKey(msg)
}

func (a *App) handleEntryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Add):
		a.add()
		return a, nil
	case key.Matches(msg, a.keys.LeaveEntry):
		a.focusList()
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
			a.ensureVisible()
		}
	case key.Matches(msg, a.keys.Down):
		if a.cursor < len(a.rendered.Rows)-1 {
			a.cursor++
			a.ensureVisible()
		}
	case key.Matches(msg, a.keys.Toggle):
		a.toggle(a.cursor)
	case key.Matches(msg, a.keys.Delete):
		a.delete(a.cursor)
	case key.Matches(msg, a.keys.ClearDone):
		_, err := a.store.ClearCompleted()
		a.err = err
		a.refresh()
	case key.Matches(msg, a.keys.ClearAll):
		a.screen = screenConfirmClearAll
	case key.Matches(msg, a.keys.Focus):
		return a, a.focusEntry()
	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
	}
	return a, nil
}

// handleClearAllKey answers the modal. Any other key is ignored while the
// modal is open.
func (a *App) handleClearAllKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Confirm):
		a.clearAll(true)
	case key.Matches(msg, a.keys.Cancel):
		a.clearAll(false)
	}
	return a, nil
}

// handleMouse selects the clicked row; a click on its checkbox toggles it.
// A click on the entry line focuses the entry field.
func (a *App) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return a, nil
	}
	if a.screen != screenList {
		return a, nil
	}

	if msg.Y == entryLine {
		return a, a.focusEntry()
	}

	line := msg.Y - rowsTop
	if line < 0 || line >= a.visibleRows() {
		return a, nil
	}
	idx := a.scroll + line
	if idx >= len(a.rendered.Rows) {
		return a, nil
	}

	a.focusList()
	a.cursor = idx
	if msg.X >= cursorWidth && msg.X < cursorWidth+checkboxWidth {
		a.toggle(idx)
	}
	return a, nil
}

func (a *App) add() {
	added, err := a.store.Add(a.input.Value())
	a.err = err
	if !added {
		return
	}
	a.input.Reset()
	a.refresh()
	a.cursor = len(a.rendered.Rows) - 1
	a.ensureVisible()
}

func (a *App) toggle(idx int) {
	if len(a.rendered.Rows) == 0 {
		return
	}
	a.err = a.store.Toggle(idx)
	a.refresh()
}

func (a *App) delete(idx int) {
	if len(a.rendered.Rows) == 0 {
		return
	}
	a.err = a.store.Delete(idx)
	a.refresh()
}

func (a *App) clearAll(answer bool) {
	_, err := a.store.ClearAll(func(string) bool { return answer })
	a.err = err
	a.screen = screenList
	a.refresh()
}

func (a *App) focusEntry() tea.Cmd {
	a.focus = focusEntry
	return a.input.Focus()
}

func (a *App) focusList() {
	a.focus = focusList
	a.input.Blur()
}

// refresh re-renders the list from the store and keeps the cursor in range.
func (a *App) refresh() {
	a.rendered = view.Render(a.store.Tasks())
	a.clampCursor()
}

func (a *App) clampCursor() {
	n := len(a.rendered.Rows)
	if a.cursor >= n {
		a.cursor = n - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
	a.ensureVisible()
}

// visibleRows returns how many task rows fit between the entry field and the
// footer.
func (a *App) visibleRows() int {
	h := a.height - rowsTop - footerChrome
	if a.err != nil {
		h -= errorChrome
	}
	if h < 1 {
		return 1
	}
	return h
}

// ensureVisible adjusts the scroll offset so the cursor row is within the
// visible window.
func (a *App) ensureVisible() {
	vis := a.visibleRows()
	switch {
	case a.cursor >= a.scroll+vis:
		a.scroll = a.cursor - vis + 1
	case a.cursor < a.scroll:
		a.scroll = a.cursor
	}
	if maxScroll := max(len(a.rendered.Rows)-vis, 0); a.scroll > maxScroll {
		a.scroll = maxScroll
	}
}

// --- Messages ---

// ReloadMsg is sent by the file watcher when the list was written elsewhere.
type ReloadMsg struct{}

// WatchErrorMsg reports that live reload failed or stopped working.
type WatchErrorMsg struct{ Err error }

// TickMsg is sent periodically to refresh created ages.
type TickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return TickMsg{} })
}

// --- View rendering ---

func (a *App) viewList() string {
	lines := make([]string, 0, rowsTop+a.visibleRows()+footerChrome+errorChrome)
	lines = append(lines, a.renderHeader(), "", a.input.View(), "")
	lines = append(lines, a.renderRows()...)
	lines = append(lines, "")
	if a.err != nil {
		lines = append(lines, errorStyle.Render(truncate("Error: "+a.err.Error(), a.width)))
	}
	lines = append(lines, a.renderHelp())
	return strings.Join(lines, "\n")
}

func (a *App) renderHeader() string {
	return titleStyle.Render(a.opts.Title) + " " + countStyle.Render(a.rendered.Count)
}

func (a *App) renderRows() []string {
	if a.rendered.Empty {
		return []string{dimStyle.Render(strings.Repeat(" ", cursorWidth) + a.rendered.Placeholder)}
	}

	end := min(a.scroll+a.visibleRows(), len(a.rendered.Rows))
	rows := make([]string, 0, end-a.scroll)
	for i := a.scroll; i < end; i++ {
		rows = append(rows, a.renderRow(a.rendered.Rows[i], i == a.cursor && a.focus == focusList))
	}
	return rows
}

func (a *App) renderRow(r view.Row, active bool) string {
	prefix := strings.Repeat(" ", cursorWidth)
	if active {
		prefix = cursorStyle.Render(">") + " "
	}

	suffix := ""
	if a.opts.ShowCreated {
		suffix = "  " + dimStyle.Render(humanDuration(a.now().Sub(r.Created)))
	}

	box := view.Checkbox(r.Completed)
	text := truncate(r.Text, a.width-cursorWidth-checkboxWidth-1-lipgloss.Width(suffix))
	switch {
	case r.Completed:
		box = checkedStyle.Render(box)
		text = completedStyle.Render(text)
	case active:
		text = activeRowStyle.Render(text)
	}
	return prefix + box + " " + text + suffix
}

func (a *App) renderHelp() string {
	if a.focus == focusEntry {
		return statusBarStyle.Render(a.help.View(entryHelp{a.keys}))
	}
	return a.help.View(a.keys)
}

func (a *App) viewClearAllConfirm() string {
	content := errorStyle.Render(task.ClearAllPrompt) + "\n\n" +
		fmt.Sprintf("  %s will be removed.", a.rendered.Count) + "\n\n" +
		dimStyle.Render("y:yes  n:no")

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, dialogStyle.Render(content))
}
