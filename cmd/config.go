package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tasklist/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklist/internal/config"
	"github.com/twiced-technology-gmbh/tasklist/internal/output"
	"github.com/twiced-technology-gmbh/tasklist/internal/storage"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify list configuration",
	Long:  `View the full configuration, get a specific key, or set a writable value.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// configAccessor describes how to get and set a config key.
type configAccessor struct {
	get      func(*config.Config) any
	set      func(*config.Config, string) error
	writable bool
}

func configAccessors() map[string]configAccessor {
	return map[string]configAccessor{
		"version": {
			get: func(c *config.Config) any { return c.Version },
		},
		"dir": {
			get: func(c *config.Config) any { return c.Dir() },
		},
		"name": {
			get:      func(c *config.Config) any { return c.Name },
			set:      func(c *config.Config, v string) error { c.Name = v; return nil },
			writable: true,
		},
		"storage_key": {
			get: func(c *config.Config) any { return c.StorageKey },
			set: func(c *config.Config, v string) error {
				if err := storage.ValidateKey(v); err != nil {
					return clierr.Newf(clierr.InvalidInput, "invalid storage_key %q: %v", v, err)
				}
				c.StorageKey = v
				return nil
			},
			writable: true,
		},
		"tui.show_created": {
			get: func(c *config.Config) any { return c.TUI.ShowCreated },
			set: func(c *config.Config, v string) error {
				b, err := strconv.ParseBool(v)
				if err != nil {
					return clierr.Newf(clierr.InvalidInput,
						"invalid tui.show_created %q: must be true or false", v)
				}
				c.TUI.ShowCreated = b
				return nil
			},
			writable: true,
		},
		"tui.date_format": {
			get:      func(c *config.Config) any { return c.DateFormat() },
			set:      func(c *config.Config, v string) error { c.TUI.DateFormat = v; return nil },
			writable: true,
		},
		"logging.level": {
			get: func(c *config.Config) any { return c.Logging.Level },
			set: func(c *config.Config, v string) error {
				c.Logging.Level = strings.ToLower(v)
				return nil // validation handles allowed values
			},
			writable: true,
		},
	}
}

// allConfigKeys returns config keys in display order.
func allConfigKeys() []string {
	return []string{
		"version",
		"dir",
		"name",
		"storage_key",
		"tui.show_created",
		"tui.date_format",
		"logging.level",
	}
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	accessors := configAccessors()
	w := cmd.OutOrStdout()

	if outputFormat() == output.FormatJSON {
		m := make(map[string]any, len(accessors))
		for _, key := range allConfigKeys() {
			m[key] = accessors[key].get(cfg)
		}
		return output.JSON(w, m)
	}

	// Table mode: key-value pairs.
	for _, key := range allConfigKeys() {
		fmt.Fprintf(w, "%-20s %s\n", key, formatConfigValue(accessors[key].get(cfg)))
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key := args[0]
	acc, ok := configAccessors()[key]
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key)
	}

	val := acc.get(cfg)
	w := cmd.OutOrStdout()

	if outputFormat() == output.FormatJSON {
		return output.JSON(w, val)
	}

	fmt.Fprintln(w, formatConfigValue(val))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	acc, ok := configAccessors()[key]
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key)
	}
	if !acc.writable {
		return clierr.Newf(clierr.InvalidInput, "config key %q is read-only", key)
	}

	if err := acc.set(cfg, value); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return clierr.New(clierr.InvalidInput, err.Error())
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	w := cmd.OutOrStdout()
	if outputFormat() == output.FormatJSON {
		return output.JSON(w, map[string]any{"key": key, "value": acc.get(cfg)})
	}

	output.Messagef(w, "Set %s = %s", key, formatConfigValue(acc.get(cfg)))
	return nil
}

func formatConfigValue(val any) string {
	if s, ok := val.(string); ok && s == "" {
		return "--"
	}
	return fmt.Sprintf("%v", val)
}
