// Package export writes a task list in formats meant for other tools.
package export

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/tasklist/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklist/internal/output"
	"github.com/twiced-technology-gmbh/tasklist/internal/task"
	"github.com/twiced-technology-gmbh/tasklist/internal/view"
)

// Supported export formats.
const (
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatMarkdown = "markdown"
	FormatPDF      = "pdf"
)

// Formats lists the accepted format names.
var Formats = []string{FormatJSON, FormatYAML, FormatMarkdown, FormatPDF}

// ParseFormat normalizes a format name. "yml" and "md" are accepted aliases.
func ParseFormat(s string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(s))
	switch f {
	case "yml":
		f = FormatYAML
	case "md":
		f = FormatMarkdown
	}
	if !slices.Contains(Formats, f) {
		return "", clierr.Newf(clierr.InvalidFormat, "unknown export format %q (allowed: %s)",
			s, strings.Join(Formats, ", ")).
			WithDetails(map[string]any{"format": s, "allowed": Formats})
	}
	return f, nil
}

// Options tunes formats that need more than the list itself.
type Options struct {
	// FontFile is a TrueType font for PDF text. Without it PDF text is
	// limited to Windows-1252; see Unsupported.
	FontFile string
}

// Write writes tasks to w in the given format under title.
func Write(w io.Writer, format, title string, tasks []task.Task, opts Options) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	switch format {
	case FormatJSON:
		return output.JSON(w, tasks)
	case FormatYAML:
		return YAML(w, tasks)
	case FormatMarkdown:
		return output.Markdown(w, title, view.Render(tasks), false)
	case FormatPDF:
		return PDF(w, title, view.Render(tasks), opts.FontFile)
	default:
		_, err := ParseFormat(format)
		return err
	}
}

// YAML writes tasks as a YAML sequence.
func YAML(w io.Writer, tasks []task.Task) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2) //nolint:mnd // two-space YAML indent
	if err := enc.Encode(tasks); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}
