// Package activity keeps an append-only JSONL history of list mutations.
package activity

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/tasklist/internal/filelock"
	"github.com/twiced-technology-gmbh/tasklist/internal/task"
)

const (
	// FileName is the activity log file within the data directory.
	FileName      = "activity.jsonl"
	logFileMode   = 0o600
	maxLogEntries = 10000 // truncate oldest entries when log exceeds this size
)

// Entry represents a single activity log entry.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Index     int       `json:"index"`
	Text      string    `json:"text,omitempty"`
	Count     int       `json:"count,omitempty"`
}

// Append appends an entry to the activity log in dir.
// If the log exceeds maxLogEntries, the oldest entries are truncated.
// The data directory's lock is held for the append and the truncation.
func Append(dir string, entry Entry) error {
	return appendEntry(dir, entry, maxLogEntries)
}

func appendEntry(dir string, entry Entry, limit int) error {
	unlock, err := filelock.Lock(filelock.Path(dir))
	if err != nil {
		return fmt.Errorf("acquiring lock: %w", err)
	}
	defer unlock() //nolint:errcheck // best-effort unlock

	path := filepath.Join(dir, FileName)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFileMode) //nolint:gosec // log path from trusted data dir
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("marshaling log entry: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing log entry: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing log file: %w", err)
	}

	// Truncate if needed (best-effort; errors are non-fatal).
	_ = truncateIfNeeded(path, limit)

	return nil
}

// Read returns the last n entries of the activity log, oldest first.
// n <= 0 returns every entry. A missing log yields no entries.
// Lines that fail to decode are skipped.
func Read(dir string, n int) ([]Entry, error) {
	unlock, err := filelock.RLock(filelock.Path(dir))
	if err != nil {
		return nil, fmt.Errorf("acquiring lock: %w", err)
	}
	defer unlock() //nolint:errcheck // best-effort unlock

	f, err := os.Open(filepath.Join(dir, FileName)) //nolint:gosec // trusted path
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading log file: %w", err)
	}

	if n > 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries, nil
}

// Recorder returns a store listener that logs every change to dir.
// Errors are silently discarded because logging should never fail a mutation.
func Recorder(dir string) func(task.Change) {
	return func(c task.Change) {
		_ = Append(dir, Entry{
			Timestamp: time.Now(),
			Action:    string(c.Action),
			Index:     c.Index,
			Text:      c.Text,
			Count:     c.Count,
		})
	}
}

// truncateIfNeeded reads the log file and, if it exceeds limit,
// rewrites it keeping only the most recent entries. Callers hold the
// directory lock.
func truncateIfNeeded(path string, limit int) error {
	f, err := os.Open(path) //nolint:gosec // trusted path
	if err != nil {
		return err
	}

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	_ = f.Close()

	if err := scanner.Err(); err != nil {
		return err
	}

	if len(lines) <= limit {
		return nil
	}

	lines = lines[len(lines)-limit:]

	var buf strings.Builder
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}

	return os.WriteFile(path, []byte(buf.String()), logFileMode)
}
