package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/tasklist/internal/output"
	"github.com/twiced-technology-gmbh/tasklist/internal/view"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long:    `Lists tasks in list order with optional filtering and output format control.`,
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func init() {
	listCmd.Flags().Bool("markdown", false, "output as a markdown checklist")
	listCmd.Flags().String("status", "", "filter by status (all, pending, completed)")
	listCmd.Flags().StringP("search", "s", "", "search task text (case-insensitive)")
	listCmd.Flags().IntP("limit", "n", 0, "limit number of results")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	markdown, _ := cmd.Flags().GetBool("markdown")
	status, _ := cmd.Flags().GetString("status")
	search, _ := cmd.Flags().GetString("search")
	limit, _ := cmd.Flags().GetInt("limit")

	if err := view.ValidateStatus(status); err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	v := view.Filter(view.Render(s.store.Tasks()), view.FilterOptions{
		Status: status,
		Search: search,
		Limit:  limit,
	})

	w := cmd.OutOrStdout()
	switch output.Detect(flagJSON, flagTable, flagCompact, markdown) {
	case output.FormatJSON:
		return output.JSON(w, v)
	case output.FormatCompact:
		output.ListCompact(w, v)
		return nil
	case output.FormatMarkdown:
		styled := w == os.Stdout && term.IsTerminal(int(os.Stdout.Fd()))
		return output.Markdown(w, s.cfg.Name, v, styled)
	default:
		output.ListTable(w, s.cfg.Name, v, s.cfg.DateFormat())
		return nil
	}
}
