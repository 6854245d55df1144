package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/twiced-technology-gmbh/tasklist/internal/storage"
	"github.com/twiced-technology-gmbh/tasklist/internal/task"
	"github.com/twiced-technology-gmbh/tasklist/internal/view"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T, st storage.Storage, texts ...string) (*App, *task.Store) {
	t.Helper()
	store, err := task.Open(st, task.WithClock(func() time.Time { return testNow }))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	for _, text := range texts {
		if _, err := store.Add(text); err != nil {
			t.Fatalf("Add(%q): %v", text, err)
		}
	}
	a := NewApp(store, Options{Title: "Tasks"})
	a.SetNow(func() time.Time { return testNow })
	a.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return a, store
}

func keyPress(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func send(a *App, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = a.Update(keyPress(k))
	}
	return cmd
}

func texts(s *task.Store) []string {
	var out []string
	for _, t := range s.Tasks() {
		out = append(out, t.Text)
	}
	return out
}

func TestLoadingBeforeSize(t *testing.T) {
	store := task.NewStore(storage.NewMemory())
	a := NewApp(store, Options{Title: "Tasks"})
	if a.View() != "Loading..." {
		t.Errorf("View before size = %q", a.View())
	}
}

func TestEmptyListShowsPlaceholder(t *testing.T) {
	a, _ := newTestApp(t, storage.NewMemory())
	out := a.View()
	if !strings.Contains(out, view.Placeholder) || !strings.Contains(out, "0 tasks") {
		t.Errorf("empty view missing placeholder or count:\n%s", out)
	}
}

func TestAddFromEntry(t *testing.T) {
	a, store := newTestApp(t, storage.NewMemory())

	send(a, "  buy milk  ", "enter")

	if got := texts(store); len(got) != 1 || got[0] != "buy milk" {
		t.Fatalf("tasks = %v", got)
	}
	if a.input.Value() != "" {
		t.Errorf("entry not cleared: %q", a.input.Value())
	}
	if a.focus != focusEntry {
		t.Error("entry lost focus after add")
	}
	out := a.View()
	if !strings.Contains(out, "1 task") || !strings.Contains(out, "[ ] buy milk") {
		t.Errorf("view after add:\n%s", out)
	}
}

func TestAddBlankIsIgnored(t *testing.T) {
	a, store := newTestApp(t, storage.NewMemory())

	send(a, "   ", "enter")

	if store.Len() != 0 {
		t.Errorf("blank add created %d tasks", store.Len())
	}
	if a.err != nil {
		t.Errorf("blank add set error: %v", a.err)
	}
}

func TestQKeyTypesInEntry(t *testing.T) {
	a, store := newTestApp(t, storage.NewMemory())

	send(a, "q", "enter")
	if got := texts(store); len(got) != 1 || got[0] != "q" {
		t.Errorf("tasks = %v", got)
	}
}

func TestToggleAndDeleteFromList(t *testing.T) {
	a, store := newTestApp(t, storage.NewMemory(), "a", "b", "c")

	send(a, "tab")
	if a.focus != focusList {
		t.Fatal("tab did not focus the list")
	}

	send(a, "x")
	if tasks := store.Tasks(); !tasks[0].Completed || tasks[1].Completed {
		t.Errorf("after toggle: %+v", tasks)
	}

	a.Update(keyPress("space"))
	if store.Tasks()[0].Completed {
		t.Error("space did not toggle back")
	}

	send(a, "j", "d")
	if got := texts(store); len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("after delete: %v", got)
	}
	if !strings.Contains(a.View(), "2 tasks") {
		t.Errorf("count not updated:\n%s", a.View())
	}
}

func TestDeleteLastKeepsCursorInRange(t *testing.T) {
	a, store := newTestApp(t, storage.NewMemory(), "a", "b")
	send(a, "tab", "d", "d", "d")
	if store.Len() != 0 {
		t.Errorf("tasks left = %v", texts(store))
	}
	if a.cursor != 0 {
		t.Errorf("cursor = %d", a.cursor)
	}
}

func TestClearCompleted(t *testing.T) {
	a, store := newTestApp(t, storage.NewMemory(), "a", "b", "c")
	send(a, "tab", "x", "j", "j", "x", "c")

	if got := texts(store); len(got) != 1 || got[0] != "b" {
		t.Errorf("after clear completed: %v", got)
	}
}

func TestClearAllModal(t *testing.T) {
	a, store := newTestApp(t, storage.NewMemory(), "a", "b")
	send(a, "tab", "C")

	if a.screen != screenConfirmClearAll {
		t.Fatal("C did not open the confirmation")
	}
	if !strings.Contains(a.View(), task.ClearAllPrompt) {
		t.Errorf("modal missing prompt:\n%s", a.View())
	}

	// Other input is ignored while the modal is open.
	send(a, "x", "d")
	if store.Len() != 2 || store.Tasks()[1].Completed {
		t.Fatal("input leaked through the modal")
	}

	send(a, "n")
	if a.screen != screenList || store.Len() != 2 {
		t.Fatalf("cancel changed state: screen=%d len=%d", a.screen, store.Len())
	}

	send(a, "C", "y")
	if a.screen != screenList || store.Len() != 0 {
		t.Fatalf("confirm did not clear: screen=%d len=%d", a.screen, store.Len())
	}
	if !strings.Contains(a.View(), view.Placeholder) {
		t.Errorf("placeholder not shown after clear all:\n%s", a.View())
	}
}

func TestMouseClick(t *testing.T) {
	a, store := newTestApp(t, storage.NewMemory(), "a", "b")

	click := func(x, y int) {
		a.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	}

	// Click on the text of row 2 selects it without toggling.
	click(10, rowsTop+1)
	if a.focus != focusList || a.cursor != 1 {
		t.Errorf("focus=%d cursor=%d", a.focus, a.cursor)
	}
	if store.Tasks()[1].Completed {
		t.Error("text click toggled the task")
	}

	// Click on the checkbox of row 1 toggles it.
	click(cursorWidth+1, rowsTop)
	if !store.Tasks()[0].Completed || a.cursor != 0 {
		t.Errorf("checkbox click: tasks=%+v cursor=%d", store.Tasks(), a.cursor)
	}

	// Click below the rows does nothing.
	click(cursorWidth+1, rowsTop+5)
	if store.Tasks()[1].Completed {
		t.Error("click past the rows toggled a task")
	}

	click(5, entryLine)
	if a.focus != focusEntry {
		t.Error("click on the entry did not focus it")
	}
}

func TestReloadPicksUpExternalWrites(t *testing.T) {
	st := storage.NewMemory()
	a, _ := newTestApp(t, st, "a")

	other, err := task.Open(st)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := other.Add("from elsewhere"); err != nil {
		t.Fatal(err)
	}

	a.Update(ReloadMsg{})
	out := a.View()
	if !strings.Contains(out, "2 tasks") || !strings.Contains(out, "from elsewhere") {
		t.Errorf("reload not rendered:\n%s", out)
	}
}

type failingStorage struct{ storage.Storage }

func (failingStorage) Update(string, storage.UpdateFunc) error { return errors.New("disk full") }

func TestStorageErrorShowsToast(t *testing.T) {
	a, _ := newTestApp(t, failingStorage{storage.NewMemory()})

	send(a, "buy milk", "enter")

	if a.err == nil {
		t.Fatal("persist failure not surfaced")
	}
	if !strings.Contains(a.View(), "Error:") {
		t.Errorf("error toast missing:\n%s", a.View())
	}
}

func TestWatchErrorShowsToast(t *testing.T) {
	a, _ := newTestApp(t, storage.NewMemory(), "a")
	send(a, "tab")

	a.Update(WatchErrorMsg{Err: errors.New("too many open files")})
	if !strings.Contains(a.View(), "Error: live reload: too many open files") {
		t.Errorf("watch error not shown:\n%s", a.View())
	}

	// The next successful action clears the toast.
	send(a, "x")
	if strings.Contains(a.View(), "Error:") {
		t.Errorf("toast kept after a successful toggle:\n%s", a.View())
	}
}

func TestStaleRowAfterExternalDelete(t *testing.T) {
	st := storage.NewMemory()
	a, store := newTestApp(t, st, "a", "b")
	send(a, "tab")

	other, err := task.Open(st)
	if err != nil {
		t.Fatal(err)
	}
	if err := other.Delete(0); err != nil {
		t.Fatal(err)
	}

	// The watcher has not fired yet; the cursor still points at "a".
	send(a, "x")
	out := a.View()
	if !strings.Contains(out, "Error:") {
		t.Errorf("stale toggle not reported:\n%s", out)
	}
	if rows := a.rendered.Rows; len(rows) != 1 || rows[0].Text != "b" {
		t.Errorf("list not refreshed from storage: %+v", rows)
	}
	if got := store.Tasks(); len(got) != 1 || got[0].Completed {
		t.Errorf("store = %+v, want untouched [b]", got)
	}
}

func TestQuitKeys(t *testing.T) {
	a, _ := newTestApp(t, storage.NewMemory())

	cmd := send(a, "ctrl+c")
	if cmd == nil {
		t.Fatal("ctrl+c returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c did not quit")
	}

	cmd = send(a, "tab", "q")
	if cmd == nil {
		t.Fatal("q in list returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q in list did not quit")
	}
}

func TestShowCreated(t *testing.T) {
	store, err := task.Open(storage.NewMemory(), task.WithClock(func() time.Time { return testNow.Add(-3 * time.Hour) }))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Add("old"); err != nil {
		t.Fatal(err)
	}
	a := NewApp(store, Options{Title: "Tasks", ShowCreated: true})
	a.SetNow(func() time.Time { return testNow })
	a.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	if !strings.Contains(a.View(), "old  3h") {
		t.Errorf("created age missing:\n%s", a.View())
	}
}

func TestScrollKeepsCursorVisible(t *testing.T) {
	a, _ := newTestApp(t, storage.NewMemory(), "1", "2", "3", "4", "5", "6", "7", "8", "9", "10")
	a.Update(tea.WindowSizeMsg{Width: 80, Height: rowsTop + footerChrome + 3})

	send(a, "tab")
	for range 9 {
		send(a, "j")
	}
	if a.cursor != 9 || a.scroll != 7 {
		t.Errorf("cursor=%d scroll=%d, want 9/7", a.cursor, a.scroll)
	}
	for range 9 {
		send(a, "k")
	}
	if a.cursor != 0 || a.scroll != 0 {
		t.Errorf("cursor=%d scroll=%d, want 0/0", a.cursor, a.scroll)
	}
}

func TestHumanDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "<1m"},
		{5 * time.Minute, "5m"},
		{2 * time.Hour, "2h"},
		{3 * 24 * time.Hour, "3d"},
		{15 * 24 * time.Hour, "2w"},
		{90 * 24 * time.Hour, "3mo"},
		{400 * 24 * time.Hour, "1y"},
	}
	for _, tt := range tests {
		if got := humanDuration(tt.d); got != tt.want {
			t.Errorf("humanDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("hello", 10); got != "hello" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("hello world", 8); got != "hello..." {
		t.Errorf("truncate long = %q", got)
	}
}
