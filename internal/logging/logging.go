// Package logging opens the JSON debug log kept in the data directory.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// FileName is the debug log file within the data directory.
const FileName = "debug.log"

// Logger wraps a slog.Logger together with the file it writes to.
type Logger struct {
	*slog.Logger
	file *os.File
}

// Discard returns a Logger that drops every record.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// Open returns a Logger writing JSON records to {dir}/debug.log at the
// given level. An empty level disables logging and creates no file.
func Open(dir, level string) (*Logger, error) {
	if level == "" {
		return Discard(), nil
	}
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(filepath.Join(dir, FileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600) //nolint:gosec // path from config dir
	if err != nil {
		return nil, fmt.Errorf("opening debug log: %w", err)
	}
	return &Logger{Logger: New(f, lvl), file: f}, nil
}

// New returns a JSON slog.Logger writing to w.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// ParseLevel converts a config level name to a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", level)
	}
}

// Close closes the underlying file. It is a no-op for a discarding Logger.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
