package cmd

import (
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tasklist/internal/output"
	"github.com/twiced-technology-gmbh/tasklist/internal/task"
	"github.com/twiced-technology-gmbh/tasklist/internal/view"
)

var toggleCmd = &cobra.Command{
	Use:     "toggle N[,N,...]",
	Aliases: []string{"done"},
	Short:   "Toggle a task between pending and completed",
	Long: `Flips the completed state of the task shown as number N in 'tasklist list'.
Multiple numbers can be provided as a comma-separated list.`,
	Args: cobra.ExactArgs(1),
	RunE: runToggle,
}

func init() {
	rootCmd.AddCommand(toggleCmd)
}

func runToggle(cmd *cobra.Command, args []string) error {
	rows, err := parseRows(args[0])
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if len(rows) > 1 {
		return runBatch(cmd, rows, func(n int) error {
			_, err := toggleRow(s.store, n)
			return err
		})
	}

	t, err := toggleRow(s.store, rows[0])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if outputFormat() == output.FormatJSON {
		return output.JSON(w, output.MutationResult{
			Action:  "toggle",
			Changed: true,
			Number:  rows[0],
			Text:    t.Text,
			Count:   view.CountLabel(s.store.Len()),
		})
	}

	verb := "Reopened"
	if t.Completed {
		verb = "Completed"
	}
	output.Messagef(w, "%s #%d: %s", verb, rows[0], t.Text)
	return nil
}

// toggleRow toggles the task shown as number n and returns its new state.
func toggleRow(store *task.Store, n int) (task.Task, error) {
	idx, err := task.ValidateRowNumber(n, store.Len())
	if err != nil {
		return task.Task{}, err
	}
	if err := store.Toggle(idx); err != nil {
		return task.Task{}, err
	}
	return store.At(idx)
}
