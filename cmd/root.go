// Package cmd provides the CLI commands for the Focus application.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/adapters/tui"
	"github.com/xvierd/focus-cli/internal/domain"
)

var (
	// Version info (set at build time via ldflags)
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"

	// Global flags
	dbPath     string
	configPath string
	jsonOutput bool
	inlineMode bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "focus",
	Short: "Focus - A Pomodoro timer with vibes",
	Long: `Focus is a terminal Pomodoro timer. Plan a block of hours, alternate
focus and break intervals, and play an ambient vibe while you work.

Run "focus" with no arguments to open the timer.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeServices()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return cleanupServices()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return launchTUI()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if cleanupErr := cleanupServices(); err == nil {
		err = cleanupErr
	}
	if err != nil {
		tui.ShowError(err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the database file (default: ~/.focus/focus.db)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file (default: ~/.focus/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&inlineMode, "inline", "i", false, "Compact inline timer (no fullscreen)")

	// Set version - cobra handles --version automatically
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("Focus CLI\nVersion: {{.Version}}\n")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(resetCmd)
}

// launchTUI runs the interactive timer until the user quits.
func launchTUI() error {
	ctx, stop := setupSignalHandler()
	defer stop()

	startPlayback(ctx)
	app.timer.Track(domain.NewEvent(domain.EventAppOpened, nil))
	return tui.Run(ctx, tui.Options{
		Controller: app.timer,
		Vibes:      app.vibes,
		Snow:       app.snow,
	}, inlineMode)
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// onOff renders a toggle the way the timer shows it.
func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// planLine summarizes the plan for settings s.
func planLine(s domain.TimerSettings) string {
	sessions := domain.TotalSessions(s.TotalHours, s.FocusDuration, s.BreakDuration)
	return fmt.Sprintf("%dm focus / %dm break over %gh · %d sessions · %s",
		s.FocusDuration, s.BreakDuration, s.TotalHours, sessions,
		domain.FormatPlanMinutes(domain.TotalMinutes(sessions, s.FocusDuration, s.BreakDuration)))
}

// getDir returns the directory of a file path.
func getDir(path string) string {
	lastSep := 0
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			lastSep = i
			break
		}
	}
	if lastSep == 0 {
		return "."
	}
	return path[:lastSep]
}
