package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/tasklist/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklist/internal/output"
	"github.com/twiced-technology-gmbh/tasklist/internal/view"
)

var clearCmd = &cobra.Command{
	Use:   "clear --completed | --all",
	Short: "Remove completed tasks or the whole list",
	Long: `With --completed, removes every completed task and keeps the rest in order.
With --all, empties the list after confirmation. The confirmation prompt needs a
terminal; use --yes in scripts.`,
	Args: cobra.NoArgs,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().Bool("completed", false, "remove completed tasks")
	clearCmd.Flags().Bool("all", false, "remove every task")
	clearCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	clearCmd.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		if name == "done" {
			name = "completed"
		}
		return pflag.NormalizedName(name)
	})
	clearCmd.MarkFlagsMutuallyExclusive("completed", "all")
	clearCmd.MarkFlagsOneRequired("completed", "all")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, _ []string) error {
	all, _ := cmd.Flags().GetBool("all")
	yes, _ := cmd.Flags().GetBool("yes")

	// Fail before touching the list when no answer can be collected.
	if all && !yes && !term.IsTerminal(int(os.Stdin.Fd())) {
		return clierr.New(clierr.ConfirmationReq,
			"cannot prompt for confirmation (not a terminal); use --yes")
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	before := s.store.Len()
	var (
		action  string
		changed bool
	)
	if all {
		action = "clear-all"
		changed, err = s.store.ClearAll(func(prompt string) bool {
			return yes || promptYesNo(os.Stdin, cmd.ErrOrStderr(), prompt)
		})
	} else {
		action = "clear-completed"
		var removed int
		removed, err = s.store.ClearCompleted()
		changed = removed > 0
	}
	if err != nil {
		return err
	}
	removed := before - s.store.Len()

	w := cmd.OutOrStdout()
	if outputFormat() == output.FormatJSON {
		return output.JSON(w, output.MutationResult{
			Action:  action,
			Changed: changed,
			Removed: removed,
			Count:   view.CountLabel(s.store.Len()),
		})
	}

	switch {
	case all && !changed:
		fmt.Fprintln(cmd.ErrOrStderr(), "Canceled.")
	case all:
		output.Messagef(w, "Cleared all tasks (%s removed)", view.CountLabel(removed))
	default:
		output.Messagef(w, "Removed %s", completedLabel(removed))
	}
	return nil
}

// promptYesNo asks prompt on w and reports whether the answer read from r
// is yes.
func promptYesNo(r io.Reader, w io.Writer, prompt string) bool {
	fmt.Fprintf(w, "%s [y/N] ", prompt)
	answer, _ := bufio.NewReader(r).ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes"
}

func completedLabel(n int) string {
	if n == 1 {
		return "1 completed task"
	}
	return fmt.Sprintf("%d completed tasks", n)
}
