// Package view projects a task list into the rows, count label and empty
// state that every front end displays.
package view

import (
	"strconv"
	"time"

	"github.com/twiced-technology-gmbh/tasklist/internal/task"
)

// Placeholder is shown instead of rows when the list is empty.
const Placeholder = "No tasks yet. Add a task to get started!"

// Row is one displayed task. Index is the task's position in the list at
// render time and is what toggle and delete actions refer to.
type Row struct {
	Index     int       `json:"index"`
	Number    int       `json:"number"` // Index+1, as shown to users
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	Created   time.Time `json:"created"`
}

// View is the rendered state of a list.
type View struct {
	Count       string `json:"count"`
	Total       int    `json:"total"`
	Completed   int    `json:"completed"`
	Rows        []Row  `json:"rows"`
	Empty       bool   `json:"empty"`
	Placeholder string `json:"placeholder,omitempty"`
}

// Render builds the View for tasks. It has no side effects, and equal
// inputs produce equal views.
func Render(tasks []task.Task) View {
	v := View{
		Count: CountLabel(len(tasks)),
		Total: len(tasks),
		Rows:  make([]Row, 0, len(tasks)),
	}
	if len(tasks) == 0 {
		v.Empty = true
		v.Placeholder = Placeholder
		return v
	}
	for i, t := range tasks {
		if t.Completed {
			v.Completed++
		}
		v.Rows = append(v.Rows, Row{
			Index:     i,
			Number:    i + 1,
			Text:      t.Text,
			Completed: t.Completed,
			Created:   t.Created().UTC(),
		})
	}
	return v
}

// CountLabel returns "1 task" or "<n> tasks".
func CountLabel(n int) string {
	if n == 1 {
		return "1 task"
	}
	return strconv.Itoa(n) + " tasks"
}

// Checkbox returns the textual checkbox for a completion state.
func Checkbox(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}
