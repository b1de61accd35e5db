package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/domain"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete history and restore default settings",
	Long: `Permanently deletes the interval history and puts the timer settings,
app settings and vibe back to the defaults from the config file.
This cannot be undone. Use --force to skip the confirmation prompt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if !resetForce {
			fmt.Fprint(out, "This will delete your history and settings.\nAre you sure? Type 'yes' to confirm: ")
			input, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if strings.TrimSpace(strings.ToLower(input)) != "yes" {
				fmt.Fprintln(out, "Aborted.")
				return nil
			}
		}

		if err := app.history.Clear(cmd.Context()); err != nil {
			return err
		}

		// With the slot empty, later runs start from whatever the config
		// file's defaults are then.
		if err := app.persister.Close(); err != nil {
			return err
		}
		if err := app.storage.Slots().Delete(cmd.Context(), domain.SnapshotSlot); err != nil {
			return fmt.Errorf("failed to clear stored state: %w", err)
		}

		defaults := configDefaults(app.config)
		app.timer.Dispatch(domain.SetVibe(nil))
		app.timer.Dispatch(domain.UpdateAppSettings(domain.AppSettingsUpdate{
			LightMode:            domain.Ptr(defaults.AppSettings.LightMode),
			NotificationsEnabled: domain.Ptr(defaults.AppSettings.NotificationsEnabled),
			Volume:               domain.Ptr(defaults.AppSettings.Volume),
			Theme:                domain.Ptr(defaults.AppSettings.Theme),
		}))
		app.timer.Dispatch(domain.UpdateSettings(domain.TimerSettingsUpdate{
			FocusDuration: domain.Ptr(defaults.Settings.FocusDuration),
			BreakDuration: domain.Ptr(defaults.Settings.BreakDuration),
			TotalHours:    domain.Ptr(defaults.Settings.TotalHours),
		}))

		fmt.Fprintln(out, "History deleted and settings restored. Fresh start.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "Skip confirmation prompt")
}
