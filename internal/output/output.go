// Package output handles formatting CLI output as table, JSON, compact or markdown.
package output

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// EnvOutput names the environment variable selecting the default format.
const EnvOutput = "TASKLIST_OUTPUT"

// Format represents an output format.
type Format int

const (
	// FormatAuto uses the default format (table).
	FormatAuto Format = iota
	// FormatJSON outputs JSON.
	FormatJSON
	// FormatTable outputs a human-readable table.
	FormatTable
	// FormatCompact outputs one-line-per-record compact format.
	FormatCompact
	// FormatMarkdown outputs a markdown checklist.
	FormatMarkdown
)

// Detect returns the appropriate format based on flags and environment.
// Default is table when no explicit format is set.
func Detect(jsonFlag, tableFlag, compactFlag, markdownFlag bool) Format {
	if jsonFlag {
		return FormatJSON
	}
	if compactFlag {
		return FormatCompact
	}
	if markdownFlag {
		return FormatMarkdown
	}
	if tableFlag {
		return FormatTable
	}

	// Check environment variable.
	switch strings.ToLower(os.Getenv(EnvOutput)) {
	case "json":
		return FormatJSON
	case "compact", "oneline":
		return FormatCompact
	case "markdown", "md":
		return FormatMarkdown
	case "table":
		return FormatTable
	}

	// Default: table.
	return FormatTable
}

// DisableColor strips all styling from output by switching lipgloss to the
// ASCII color profile.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
	colorDisabled = true
}

var colorDisabled bool
