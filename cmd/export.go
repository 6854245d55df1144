package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tasklist/internal/export"
	"github.com/twiced-technology-gmbh/tasklist/internal/output"
	"github.com/twiced-technology-gmbh/tasklist/internal/view"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the list as JSON, YAML, markdown or PDF",
	Long: `Writes the whole list to stdout or to --output. The format defaults to the
output file's extension, else JSON.

PDF text uses the built-in Helvetica font, which only covers Western European
characters. Pass --font with a TrueType (.ttf) font to export other scripts or
emoji; without it such tasks are reported and printed with dots in place of
the missing characters.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringP("format", "f", "", "export format (json, yaml, markdown, pdf)")
	exportCmd.Flags().StringP("output", "o", "", "write to FILE instead of stdout")
	exportCmd.Flags().String("font", "", "TrueType font file for PDF text")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	formatFlag, _ := cmd.Flags().GetString("format")
	path, _ := cmd.Flags().GetString("output")
	font, _ := cmd.Flags().GetString("font")

	if formatFlag == "" {
		formatFlag = strings.TrimPrefix(filepath.Ext(path), ".")
	}
	if formatFlag == "" {
		formatFlag = export.FormatJSON
	}
	format, err := export.ParseFormat(formatFlag)
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	tasks := s.store.Tasks()
	if format == export.FormatPDF && font == "" {
		warnUnsupported(cmd, export.Unsupported(view.Render(tasks)))
	}

	opts := export.Options{FontFile: font}
	if path == "" {
		return export.Write(cmd.OutOrStdout(), format, s.cfg.Name, tasks, opts)
	}

	const fileMode = 0o600
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, fileMode) //nolint:gosec // user-chosen output path
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := export.Write(f, format, s.cfg.Name, tasks, opts); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(cmd.OutOrStdout(), map[string]any{
			"status": "exported",
			"format": format,
			"file":   path,
			"tasks":  len(tasks),
		})
	}
	output.Messagef(cmd.OutOrStdout(), "Exported %d tasks as %s to %s", len(tasks), format, path)
	return nil
}

// warnUnsupported reports rows the built-in PDF font cannot show.
func warnUnsupported(cmd *cobra.Command, rows []int) {
	if len(rows) == 0 {
		return
	}
	nums := make([]string, len(rows))
	for i, n := range rows {
		nums[i] = "#" + strconv.Itoa(n)
	}
	fmt.Fprintf(cmd.ErrOrStderr(),
		"Warning: tasks %s use characters the built-in PDF font cannot show; pass --font with a TrueType font\n",
		strings.Join(nums, ", "))
}
