package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tasklist/internal/output"
	"github.com/twiced-technology-gmbh/tasklist/internal/view"
)

var addCmd = &cobra.Command{
	Use:     "add TEXT...",
	Aliases: []string{"new"},
	Short:   "Add a task",
	Long: `Appends a task to the end of the list. Arguments are joined with spaces and
trimmed; blank text adds nothing.`,
	Args: cobra.ArbitraryArgs,
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	added, err := s.store.Add(strings.Join(args, " "))
	if err != nil {
		return err
	}

	n := s.store.Len()
	w := cmd.OutOrStdout()
	if outputFormat() == output.FormatJSON {
		res := output.MutationResult{Action: "add", Changed: added, Count: view.CountLabel(n)}
		if added {
			t, _ := s.store.At(n - 1)
			res.Number, res.Text = n, t.Text
		}
		return output.JSON(w, res)
	}

	if !added {
		return nil
	}
	t, _ := s.store.At(n - 1)
	output.Messagef(w, "Added #%d: %s", n, t.Text)
	return nil
}
