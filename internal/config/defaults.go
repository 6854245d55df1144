// Package config handles task list configuration.
package config

const (
	// DefaultDir is the name of a per-project data directory.
	DefaultDir = ".tasklist"
	// DefaultName is the list title used when none is given.
	DefaultName = "Tasks"
	// DefaultStorageKey is the storage key holding the list.
	DefaultStorageKey = "tasks"
	// DefaultDateFormat is the Go time layout for created timestamps in the TUI.
	DefaultDateFormat = "2006-01-02 15:04"

	// ConfigFileName is the name of the config file within the data directory.
	ConfigFileName = "config.yml"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 2
)

// LogLevels lists the accepted logging.level values. The empty string
// disables the debug log.
var LogLevels = []string{"", "debug", "info", "warn", "error"}
