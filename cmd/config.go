package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View the configuration file",
	Long:  `Print the config file path and the values in effect. Use "focus config set" to change one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), app.config)
		}
		printConfig(cmd.OutOrStdout(), app.configPath, app.config)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one configuration value",
	Example: `  focus config set defaults.focus_duration 50
  focus config set media.player mpv
  focus config set timer.tick_interval 500ms`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := *app.config
		if err := setConfigValue(&cfg, args[0], args[1]); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := config.SaveTo(app.configPath, &cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		*app.config = cfg
		fmt.Fprintf(cmd.OutOrStdout(), "Saved: %s = %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func printConfig(w io.Writer, path string, cfg *config.Config) {
	fmt.Fprintf(w, "\n  Config file: %s\n\n", path)
	fmt.Fprintf(w, "    storage.data_dir          %s\n", cfg.Storage.DataDir)
	fmt.Fprintf(w, "    log.level                 %s\n", cfg.Log.Level)
	fmt.Fprintf(w, "    log.file                  %s\n", cfg.Log.File)
	fmt.Fprintf(w, "    timer.tick_interval       %s\n", cfg.Timer.TickInterval)
	fmt.Fprintf(w, "    defaults.focus_duration   %d\n", cfg.Defaults.FocusDuration)
	fmt.Fprintf(w, "    defaults.break_duration   %d\n", cfg.Defaults.BreakDuration)
	fmt.Fprintf(w, "    defaults.total_hours      %g\n", cfg.Defaults.TotalHours)
	fmt.Fprintf(w, "    defaults.volume           %d\n", cfg.Defaults.Volume)
	fmt.Fprintf(w, "    defaults.theme            %s\n", cfg.Defaults.Theme)
	fmt.Fprintf(w, "    media.player              %s\n", cfg.Media.Player)
	fmt.Fprintf(w, "    media.mpv_path            %s\n", cfg.Media.MPVPath)
	fmt.Fprintf(w, "    notifications.sound       %v\n", cfg.Notifications.Sound)
	fmt.Fprintf(w, "    mcp.enabled               %v\n", cfg.MCP.Enabled)
	fmt.Fprintln(w)
}

// setConfigValue parses value into the field named by key.
func setConfigValue(cfg *config.Config, key, value string) error {
	var err error
	switch strings.ToLower(key) {
	case "storage.data_dir":
		cfg.Storage.DataDir = value
	case "log.level":
		cfg.Log.Level = value
	case "log.file":
		cfg.Log.File = value
	case "timer.tick_interval":
		var d time.Duration
		if d, err = time.ParseDuration(value); err == nil {
			cfg.Timer.TickInterval = config.Duration(d)
		}
	case "defaults.focus_duration":
		cfg.Defaults.FocusDuration, err = strconv.Atoi(value)
	case "defaults.break_duration":
		cfg.Defaults.BreakDuration, err = strconv.Atoi(value)
	case "defaults.total_hours":
		cfg.Defaults.TotalHours, err = strconv.ParseFloat(value, 64)
	case "defaults.volume":
		cfg.Defaults.Volume, err = strconv.Atoi(value)
	case "defaults.theme":
		cfg.Defaults.Theme = value
	case "media.player":
		cfg.Media.Player = value
	case "media.mpv_path":
		cfg.Media.MPVPath = value
	case "notifications.sound":
		cfg.Notifications.Sound, err = strconv.ParseBool(value)
	case "mcp.enabled":
		cfg.MCP.Enabled, err = strconv.ParseBool(value)
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return nil
}
