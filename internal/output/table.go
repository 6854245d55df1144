package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/tasklist/internal/activity"
	"github.com/twiced-technology-gmbh/tasklist/internal/view"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle  = lipgloss.NewStyle().Bold(true)
	doneStyle   = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("241"))
	checkStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))

	// Action colors for the activity log.
	actionStyles = map[string]lipgloss.Style{
		"add":             lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		"toggle":          lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		"delete":          lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		"clear-completed": lipgloss.NewStyle().Foreground(lipgloss.Color("62")),
		"clear-all":       lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

const (
	maxText   = 60
	noMatches = "No matching tasks."
)

// ListTable renders a rendered list as a formatted table headed by its
// count label. An empty list prints the placeholder.
func ListTable(w io.Writer, title string, v view.View, dateFormat string) {
	fmt.Fprintln(w, titleStyle.Render(title)+" "+dimStyle.Render("("+v.Count+")"))

	if v.Empty {
		fmt.Fprintln(w, dimStyle.Render(v.Placeholder))
		return
	}
	if len(v.Rows) == 0 {
		fmt.Fprintln(w, dimStyle.Render(noMatches))
		return
	}

	const pad = 2
	numW, textW := 3, 6
	for _, r := range v.Rows {
		numW = max(numW, len(strconv.Itoa(r.Number))+pad)
		textW = max(textW, min(lipgloss.Width(r.Text)+pad, maxText+pad))
	}

	header := fmt.Sprintf("%-*s %-5s %-*s %s", numW, "#", "DONE", textW, "TEXT", "CREATED")
	fmt.Fprintln(w, headerStyle.Render(header))

	for _, r := range v.Rows {
		text := truncate(r.Text, maxText)
		box := view.Checkbox(r.Completed)
		if r.Completed {
			text = doneStyle.Render(text)
			box = checkStyle.Render(box)
		}
		row := fmt.Sprintf("%-*d %s %s %s",
			numW, r.Number,
			padRight(box, 5), //nolint:mnd // DONE column width
			padRight(text, textW),
			dimStyle.Render(r.Created.Local().Format(dateFormat)))
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// ActivityTable renders activity log entries, oldest first.
func ActivityTable(w io.Writer, entries []activity.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No activity yet."))
		return
	}

	header := fmt.Sprintf("%-19s %-16s %-4s %s", "TIME", "ACTION", "#", "DETAIL")
	fmt.Fprintln(w, headerStyle.Render(header))

	for _, e := range entries {
		row := fmt.Sprintf("%-19s %s %-4s %s",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			padRight(styledValue(e.Action, actionStyles), 16), //nolint:mnd // action column width
			entryNumber(e),
			truncate(entryDetail(e), maxText))
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}

// entryNumber returns the 1-based row number of an entry, or "--" for bulk actions.
func entryNumber(e activity.Entry) string {
	if e.Index < 0 {
		return "--"
	}
	return strconv.Itoa(e.Index + 1)
}

func entryDetail(e activity.Entry) string {
	if e.Text != "" {
		return e.Text
	}
	return strconv.Itoa(e.Count) + " removed"
}

// truncate shortens s to at most n visible characters, adding "..." when cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

// styledValue renders s using a matching style from the map, or returns s unchanged.
func styledValue(s string, styles map[string]lipgloss.Style) string {
	if st, ok := styles[s]; ok {
		return st.Render(s)
	}
	return s
}
