package view

import (
	"strings"

	"github.com/twiced-technology-gmbh/tasklist/internal/clierr"
)

// Status filter values.
const (
	StatusAll       = "all"
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// FilterOptions defines which rows to include.
type FilterOptions struct {
	Status string // "", all, pending or completed
	Search string // case-insensitive substring match on the text
	Limit  int    // keep at most this many rows; 0 means no limit
}

// ValidateStatus checks a status filter value.
func ValidateStatus(s string) error {
	switch s {
	case "", StatusAll, StatusPending, StatusCompleted:
		return nil
	}
	return clierr.Newf(clierr.InvalidInput, "invalid status %q (allowed: all, pending, completed)", s).
		WithDetails(map[string]any{"status": s})
}

// Filter returns v with only the rows matching all criteria (AND logic).
// Rows keep their list index and number; the count label still describes
// the whole list.
func Filter(v View, opts FilterOptions) View {
	q := strings.ToLower(opts.Search)
	rows := make([]Row, 0, len(v.Rows))
	for _, r := range v.Rows {
		if !matchesStatus(r, opts.Status) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(r.Text), q) {
			continue
		}
		rows = append(rows, r)
		if opts.Limit > 0 && len(rows) == opts.Limit {
			break
		}
	}
	v.Rows = rows
	return v
}

func matchesStatus(r Row, status string) bool {
	switch status {
	case StatusPending:
		return !r.Completed
	case StatusCompleted:
		return r.Completed
	default:
		return true
	}
}
