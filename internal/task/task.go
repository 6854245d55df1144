// Package task holds the task list and its persistence.
package task

import (
	"strings"
	"time"
)

// Task is one entry of the list. The JSON names match the persisted payload.
type Task struct {
	Text      string `json:"text" yaml:"text"`
	Completed bool   `json:"completed" yaml:"completed"`
	CreatedAt int64  `json:"createdAt" yaml:"created_at"` // milliseconds since epoch
}

// Created returns CreatedAt as a time.Time.
func (t Task) Created() time.Time {
	return time.UnixMilli(t.CreatedAt)
}

// NormalizeText trims surrounding whitespace from user input.
func NormalizeText(text string) string {
	return strings.TrimSpace(text)
}
