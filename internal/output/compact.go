package output

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/twiced-technology-gmbh/tasklist/internal/activity"
	"github.com/twiced-technology-gmbh/tasklist/internal/view"
)

// ListCompact renders a rendered list in one-line-per-record compact format.
func ListCompact(w io.Writer, v view.View) {
	if v.Empty {
		fmt.Fprintln(os.Stderr, v.Placeholder)
		return
	}
	if len(v.Rows) == 0 {
		fmt.Fprintln(os.Stderr, noMatches)
		return
	}

	for _, r := range v.Rows {
		fmt.Fprintln(w, strconv.Itoa(r.Number)+" "+view.Checkbox(r.Completed)+" "+r.Text)
	}
}

// ActivityCompact renders activity log entries one per line.
func ActivityCompact(w io.Writer, entries []activity.Entry) {
	for _, e := range entries {
		fmt.Fprintln(w, e.Timestamp.Local().Format("2006-01-02T15:04:05")+" "+
			e.Action+" #"+entryNumber(e)+" "+entryDetail(e))
	}
}
