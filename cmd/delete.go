package cmd

import (
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tasklist/internal/output"
	"github.com/twiced-technology-gmbh/tasklist/internal/task"
	"github.com/twiced-technology-gmbh/tasklist/internal/view"
)

var deleteCmd = &cobra.Command{
	Use:     "delete N[,N,...]",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Long: `Removes the task shown as number N in 'tasklist list'; later tasks move up.
Multiple numbers can be provided as a comma-separated list; they all refer to
the list as it was before the command.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
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
		return runBatch(cmd, descending(rows), func(n int) error {
			_, err := deleteRow(s.store, n)
			return err
		})
	}

	t, err := deleteRow(s.store, rows[0])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if outputFormat() == output.FormatJSON {
		return output.JSON(w, output.MutationResult{
			Action:  "delete",
			Changed: true,
			Number:  rows[0],
			Text:    t.Text,
			Count:   view.CountLabel(s.store.Len()),
		})
	}

	output.Messagef(w, "Deleted #%d: %s", rows[0], t.Text)
	return nil
}

// deleteRow removes the task shown as number n and returns it.
func deleteRow(store *task.Store, n int) (task.Task, error) {
	idx, err := task.ValidateRowNumber(n, store.Len())
	if err != nil {
		return task.Task{}, err
	}
	t, err := store.At(idx)
	if err != nil {
		return task.Task{}, err
	}
	return t, store.Delete(idx)
}
