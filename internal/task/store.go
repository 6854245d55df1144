package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/twiced-technology-gmbh/tasklist/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklist/internal/storage"
)

// DefaultKey is the storage key that holds the list.
const DefaultKey = "tasks"

// ClearAllPrompt is the question asked before ClearAll empties the list.
const ClearAllPrompt = "Are you sure you want to clear all tasks?"

// Action names a kind of mutation.
type Action string

// Mutation kinds reported to subscribers.
const (
	ActionAdd            Action = "add"
	ActionToggle         Action = "toggle"
	ActionDelete         Action = "delete"
	ActionClearCompleted Action = "clear-completed"
	ActionClearAll       Action = "clear-all"
)

// Change describes a mutation that was applied and persisted.
type Change struct {
	Action Action
	Index  int    // affected index, -1 for bulk actions
	Text   string // affected task text, empty for bulk actions
	Count  int    // number of tasks removed by bulk actions
}

// Confirm asks the user a yes/no question.
type Confirm func(prompt string) bool

// Store owns the in-memory list and mirrors it to a storage key after every
// mutation. It is not safe for concurrent use; callers drive it from a
// single event loop.
type Store struct {
	st        storage.Storage
	key       string
	now       func() time.Time
	log       *slog.Logger
	tasks     []Task
	listeners []func(Change)
	closed    bool
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the storage key (default DefaultKey).
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithClock overrides the clock used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// NewStore creates an empty Store over st. Call Load to read persisted state.
func NewStore(st storage.Storage, opts ...Option) *Store {
	s := &Store{
		st:  st,
		key: DefaultKey,
		now: time.Now,
		log: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a Store and loads it.
func Open(st storage.Storage, opts ...Option) (*Store, error) {
	s := NewStore(st, opts...)
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Key returns the storage key backing the store.
func (s *Store) Key() string {
	return s.key
}

// Load replaces the in-memory list with the persisted one. A missing key
// yields an empty list. A payload that cannot be decoded also yields an
// empty list; it is logged and otherwise ignored. Only storage read
// failures are returned.
func (s *Store) Load() error {
	if s.closed {
		return ErrClosed
	}
	data, ok, err := s.st.Get(s.key)
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}
	s.tasks = s.decode(data, ok)
	s.log.Debug("loaded tasks", "key", s.key, "count", len(s.tasks))
	return nil
}

// decode turns a stored payload into a list, dropping what cannot be used.
func (s *Store) decode(data []byte, ok bool) []Task {
	if !ok {
		s.log.Debug("no persisted tasks", "key", s.key)
		return nil
	}

	var decoded []Task
	if err := json.Unmarshal(data, &decoded); err != nil {
		s.log.Warn("discarding malformed task payload", "key", s.key, "error", err)
		return nil
	}

	tasks := make([]Task, 0, len(decoded))
	for i, t := range decoded {
		t.Text = NormalizeText(t.Text)
		if t.Text == "" {
			s.log.Warn("skipping task with empty text", "key", s.key, "index", i)
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks
}

// Reload re-reads the persisted list, picking up writes by other processes.
func (s *Store) Reload() error {
	return s.Load()
}

// Tasks returns a copy of the current list.
func (s *Store) Tasks() []Task {
	return slices.Clone(s.tasks)
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// At returns the task at index.
func (s *Store) At(index int) (Task, error) {
	if err := ValidateIndex(index, len(s.tasks)); err != nil {
		return Task{}, err
	}
	return s.tasks[index], nil
}

// Subscribe registers fn to be called after every persisted mutation.
func (s *Store) Subscribe(fn func(Change)) {
	s.listeners = append(s.listeners, fn)
}

// Add appends a new incomplete task. Text is trimmed; empty text is ignored
// and reported as added=false with a nil error.
func (s *Store) Add(text string) (added bool, err error) {
	if s.closed {
		return false, ErrClosed
	}
	text = NormalizeText(text)
	if text == "" {
		return false, nil
	}

	var c Change
	err = s.update(&c, func(tasks []Task) ([]Task, error) {
		tasks = append(tasks, Task{
			Text:      text,
			Completed: false,
			CreatedAt: s.now().UnixMilli(),
		})
		c = Change{Action: ActionAdd, Index: len(tasks) - 1, Text: text}
		return tasks, nil
	})
	return c.Action != "", err
}

// Toggle flips the completed flag of the task at index.
func (s *Store) Toggle(index int) error {
	if s.closed {
		return ErrClosed
	}
	want, err := s.At(index)
	if err != nil {
		return err
	}

	var c Change
	return s.update(&c, func(tasks []Task) ([]Task, error) {
		if err := checkRow(tasks, index, want); err != nil {
			return nil, err
		}
		tasks[index].Completed = !tasks[index].Completed
		c = Change{Action: ActionToggle, Index: index, Text: tasks[index].Text}
		return tasks, nil
	})
}

// Delete removes the task at index; later tasks shift down by one.
func (s *Store) Delete(index int) error {
	if s.closed {
		return ErrClosed
	}
	want, err := s.At(index)
	if err != nil {
		return err
	}

	var c Change
	return s.update(&c, func(tasks []Task) ([]Task, error) {
		if err := checkRow(tasks, index, want); err != nil {
			return nil, err
		}
		c = Change{Action: ActionDelete, Index: index, Text: tasks[index].Text}
		return slices.Delete(tasks, index, index+1), nil
	})
}

// ClearCompleted removes every completed task, keeping the order of the
// rest, and returns how many were removed.
func (s *Store) ClearCompleted() (int, error) {
	if s.closed {
		return 0, ErrClosed
	}

	var c Change
	err := s.update(&c, func(tasks []Task) ([]Task, error) {
		before := len(tasks)
		tasks = slices.DeleteFunc(tasks, func(t Task) bool { return t.Completed })
		c = Change{Action: ActionClearCompleted, Index: -1, Count: before - len(tasks)}
		return tasks, nil
	})
	return c.Count, err
}

// ClearAll asks confirm with ClearAllPrompt and, if it answers true, empties
// the list. It reports whether the list was cleared. The question is asked
// before the storage lock is taken.
func (s *Store) ClearAll(confirm Confirm) (bool, error) {
	if s.closed {
		return false, ErrClosed
	}
	if confirm == nil || !confirm(ClearAllPrompt) {
		s.log.Debug("clear all canceled", "key", s.key)
		return false, nil
	}

	var c Change
	err := s.update(&c, func(tasks []Task) ([]Task, error) {
		c = Change{Action: ActionClearAll, Index: -1, Count: len(tasks)}
		return nil, nil
	})
	return c.Action != "", err
}

// Persist writes the whole list to storage, overwriting the previous value.
func (s *Store) Persist() error {
	data, err := encode(s.tasks)
	if err != nil {
		return err
	}
	if err := s.st.Set(s.key, data); err != nil {
		return fmt.Errorf("saving tasks: %w", err)
	}
	return nil
}

// Close ends the store's lifecycle. Listeners are dropped and later calls
// to mutating methods return ErrClosed.
func (s *Store) Close() error {
	s.closed = true
	s.listeners = nil
	return nil
}

// update runs one mutation as a read-modify-write of the storage key. fn
// gets the list as currently persisted, so writes by other processes since
// the last Load are kept, and fills in *c once it applies. When fn rejects
// the mutation the in-memory list still picks up the persisted one. When
// the write fails the mutated list is kept in memory and the error returned.
func (s *Store) update(c *Change, fn func([]Task) ([]Task, error)) error {
	var (
		next    []Task
		applied bool
	)
	err := s.st.Update(s.key, func(data []byte, ok bool) ([]byte, error) {
		current := s.decode(data, ok)
		list, err := fn(current)
		if err != nil {
			s.tasks = current
			return nil, &rejectedError{err: err}
		}
		next, applied = list, true
		return encode(next)
	})
	if applied {
		s.tasks = next
	}

	var rejected *rejectedError
	if errors.As(err, &rejected) {
		s.log.Debug("mutation rejected", "key", s.key, "error", rejected.err)
		return rejected.err
	}
	if err != nil {
		s.log.Error("persist failed", "key", s.key, "action", string(c.Action), "error", err)
		return fmt.Errorf("saving tasks: %w", err)
	}

	s.log.Debug("task mutation", "action", string(c.Action), "index", c.Index, "count", len(s.tasks))
	for _, fn := range s.listeners {
		fn(*c)
	}
	return nil
}

// rejectedError marks an error raised by a mutation itself, as opposed to
// a storage failure.
type rejectedError struct{ err error }

func (e *rejectedError) Error() string { return e.err.Error() }
func (e *rejectedError) Unwrap() error { return e.err }

// checkRow verifies that index still addresses want in tasks. Another
// process may have removed or reordered rows since want was read.
func checkRow(tasks []Task, index int, want Task) error {
	if err := ValidateIndex(index, len(tasks)); err != nil {
		return err
	}
	if got := tasks[index]; got.Text != want.Text || got.CreatedAt != want.CreatedAt {
		return clierr.Newf(clierr.IndexOutOfRange,
			"task at index %d changed in another session; reload and retry", index).
			WithDetails(map[string]any{
				"index": index,
				"want":  want.Text,
				"got":   got.Text,
			})
	}
	return nil
}

func encode(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("encoding tasks: %w", err)
	}
	return data, nil
}
