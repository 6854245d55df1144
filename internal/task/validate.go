package task

import (
	"github.com/twiced-technology-gmbh/tasklist/internal/clierr"
)

// ErrClosed is returned by mutations on a Store after Close.
var ErrClosed = clierr.New(clierr.StoreClosed, "task store is closed")

// ValidateIndex checks that index addresses an entry of a list of length n.
func ValidateIndex(index, n int) error {
	if index >= 0 && index < n {
		return nil
	}
	return clierr.Newf(clierr.IndexOutOfRange, "no task at index %d (list has %d)", index, n).
		WithDetails(map[string]any{
			"index": index,
			"len":   n,
		})
}

// ValidateRowNumber converts a 1-based row number, as shown to users, into a
// list index.
func ValidateRowNumber(row, n int) (int, error) {
	if row < 1 || row > n {
		return 0, clierr.Newf(clierr.IndexOutOfRange, "no task #%d (list has %d)", row, n).
			WithDetails(map[string]any{
				"row": row,
				"len": n,
			})
	}
	return row - 1, nil
}
