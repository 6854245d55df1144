// Package cmd implements the tasklist CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/twiced-technology-gmbh/tasklist/internal/activity"
	"github.com/twiced-technology-gmbh/tasklist/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklist/internal/config"
	"github.com/twiced-technology-gmbh/tasklist/internal/logging"
	"github.com/twiced-technology-gmbh/tasklist/internal/output"
	"github.com/twiced-technology-gmbh/tasklist/internal/storage"
	"github.com/twiced-technology-gmbh/tasklist/internal/task"
)

// version is set at build time via ldflags.
var version = "dev"

// envPrefix prefixes every environment variable read through viper.
const envPrefix = "TASKLIST"

// Global flags.
var (
	flagJSON    bool
	flagTable   bool
	flagCompact bool
	flagDir     string
	flagNoColor bool
	flagDebug   bool
)

var rootCmd = &cobra.Command{
	Use:   "tasklist",
	Short: "A single task list in your terminal",
	Long: `tasklist keeps one list of short tasks that you add, check off and clear.
Run tasklist to open the interactive list, or use the subcommands for one-shot edits.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runTUI,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if viper.GetBool("no_color") || os.Getenv("NO_COLOR") != "" {
			output.DisableColor()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output as table")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "path to the task list data directory")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "write a debug log to the data directory")

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()
	_ = viper.BindPFlag("dir", rootCmd.PersistentFlags().Lookup("dir"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("no_color", rootCmd.PersistentFlags().Lookup("no-color"))
	_ = viper.BindEnv("output")
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}

	// SilentError: exit with its code, no output.
	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		os.Exit(silent.Code)
	}

	if jsonMode() {
		var cliErr *clierr.Error
		if errors.As(err, &cliErr) {
			output.JSONError(os.Stdout, cliErr.Code, cliErr.Message, cliErr.Details)
			os.Exit(cliErr.ExitCode())
		}
		// Unknown error: wrap as INTERNAL_ERROR.
		output.JSONError(os.Stdout, clierr.InternalError, err.Error(), nil)
		os.Exit(2) //nolint:mnd // exit code 2 for internal errors
	}

	// Non-JSON mode: print to stderr.
	fmt.Fprintln(os.Stderr, err)
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		os.Exit(cliErr.ExitCode())
	}
	os.Exit(1)
}

// jsonMode reports whether errors should be printed as JSON.
func jsonMode() bool {
	return flagJSON || strings.EqualFold(viper.GetString("output"), "json")
}

// defaultHomeDir returns the path to ~/.config/tasklist.
func defaultHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "tasklist"), nil
}

// resolveDir returns the data directory: --dir, then TASKLIST_DIR, then a
// .tasklist directory above the working directory, then ~/.config/tasklist.
func resolveDir() (string, error) {
	if dir := viper.GetString("dir"); dir != "" {
		return dir, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}

	dir, err := config.FindDir(cwd)
	if err == nil {
		return dir, nil
	}

	// Fall back to ~/.config/tasklist.
	return defaultHomeDir()
}

// loadConfig finds and loads the task list config.
// If the resolved directory is ~/.config/tasklist and it doesn't exist yet,
// it is auto-created with defaults.
func loadConfig() (*config.Config, error) {
	dir, err := resolveDir()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(dir)
	if err == nil {
		return cfg, nil
	}

	if !errors.Is(err, config.ErrNotFound) {
		return nil, err
	}
	homeDir, homeErr := defaultHomeDir()
	if homeErr != nil || filepath.Clean(dir) != homeDir {
		return nil, clierr.Newf(clierr.ListNotFound,
			"no task list in %s (run 'tasklist init' to create one)", dir).
			WithDetails(map[string]any{"dir": dir})
	}

	return config.Init(homeDir, "")
}

// session bundles an opened list with the resources it holds.
type session struct {
	cfg   *config.Config
	st    *storage.File
	store *task.Store
	log   *logging.Logger
}

// openSession loads the config, opens the debug log and the storage, loads
// the list and records every later mutation in the activity log.
func openSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.Open(cfg.Dir(), logLevel(cfg))
	if err != nil {
		return nil, err
	}

	st, err := storage.NewFile(cfg.Dir())
	if err != nil {
		_ = logger.Close()
		return nil, err
	}

	store, err := task.Open(st,
		task.WithKey(cfg.StorageKey),
		task.WithLogger(logger.Logger),
	)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}
	store.Subscribe(activity.Recorder(cfg.Dir()))

	return &session{cfg: cfg, st: st, store: store, log: logger}, nil
}

// Close ends the store lifecycle and closes the debug log.
func (s *session) Close() error {
	return errors.Join(s.store.Close(), s.log.Close())
}

// logLevel returns the debug log level: --debug or TASKLIST_DEBUG force
// debug, otherwise logging.level from the config applies.
func logLevel(cfg *config.Config) string {
	if viper.GetBool("debug") {
		return "debug"
	}
	return cfg.Logging.Level
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagTable, flagCompact, false)
}

// parseRows splits a comma-separated list of 1-based row numbers into
// deduplicated numbers.
func parseRows(arg string) ([]int, error) {
	parts := strings.Split(arg, ",")
	seen := make(map[int]bool, len(parts))
	rows := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			return nil, clierr.Newf(clierr.InvalidIndex, "invalid task number %q", p).
				WithDetails(map[string]any{"number": p})
		}
		if !seen[n] {
			rows = append(rows, n)
			seen[n] = true
		}
	}
	if len(rows) == 0 {
		return nil, clierr.New(clierr.InvalidIndex, "no valid task numbers provided")
	}
	return rows, nil
}

// descending returns rows sorted highest first, so removing one row never
// shifts a row still to be processed.
func descending(rows []int) []int {
	out := slices.Clone(rows)
	slices.Sort(out)
	slices.Reverse(out)
	return out
}

// runBatch executes fn for each row number and collects results. Returns a
// SilentError with exit code 1 if any operation failed (after outputting results).
func runBatch(cmd *cobra.Command, rows []int, fn func(int) error) error {
	results := make([]output.BatchResult, 0, len(rows))
	anyFailed := false

	for _, n := range rows {
		err := fn(n)
		if err != nil {
			anyFailed = true
			var cliErr *clierr.Error
			if errors.As(err, &cliErr) {
				results = append(results, output.BatchResult{Number: n, OK: false, Error: cliErr.Message, Code: cliErr.Code})
			} else {
				results = append(results, output.BatchResult{Number: n, OK: false, Error: err.Error()})
			}
		} else {
			results = append(results, output.BatchResult{Number: n, OK: true})
		}
	}

	if outputFormat() == output.FormatJSON {
		if err := output.JSON(cmd.OutOrStdout(), results); err != nil {
			return err
		}
	} else {
		var succeeded int
		for _, r := range results {
			if r.OK {
				succeeded++
			} else {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: task #%d: %s\n", r.Number, r.Error)
			}
		}
		output.Messagef(cmd.OutOrStdout(), "Completed %d/%d operations", succeeded, len(rows))
	}

	if anyFailed {
		return &clierr.SilentError{Code: 1}
	}
	return nil
}
