package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/twiced-technology-gmbh/tasklist/internal/view"
)

const markdownWrap = 80

// MarkdownSource returns the list as a markdown checklist headed by title
// and its count label.
func MarkdownSource(title string, v view.View) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "%s\n\n", v.Count)
	if v.Empty {
		fmt.Fprintf(&b, "_%s_\n", v.Placeholder)
		return b.String()
	}
	for _, r := range v.Rows {
		fmt.Fprintf(&b, "- %s %s\n", view.Checkbox(r.Completed), escapeMarkdown(r.Text))
	}
	return b.String()
}

// Markdown writes the list as markdown. When styled is true the source is
// rendered for the terminal with glamour; otherwise it is written raw.
func Markdown(w io.Writer, title string, v view.View, styled bool) error {
	src := MarkdownSource(title, v)
	if !styled {
		_, err := io.WriteString(w, src)
		return err
	}

	style := glamour.WithAutoStyle()
	if colorDisabled {
		style = glamour.WithStandardStyle("notty")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(markdownWrap))
	if err != nil {
		return fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := r.Render(src)
	if err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`, "#", `\#`, "<", `\<`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
