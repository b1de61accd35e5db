package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/domain"
)

var (
	settingsFocus         int
	settingsBreak         int
	settingsHours         float64
	settingsVolume        int
	settingsNotifications bool
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "View or change timer settings",
	Long: `Without flags, print the current settings. With flags, update them.
Changing the plan resets the clock to the start of the current interval.`,
	Example: `  focus settings --focus 50 --break 10 --hours 3
  focus settings --volume 30 --notifications=false`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		state := app.timer.State()

		var timerUpdate domain.TimerSettingsUpdate
		if flags.Changed("focus") {
			timerUpdate.FocusDuration = domain.Ptr(settingsFocus)
		}
		if flags.Changed("break") {
			timerUpdate.BreakDuration = domain.Ptr(settingsBreak)
		}
		if flags.Changed("hours") {
			timerUpdate.TotalHours = domain.Ptr(settingsHours)
		}

		var appUpdate domain.AppSettingsUpdate
		if flags.Changed("volume") {
			if err := domain.ValidateVolume(settingsVolume); err != nil {
				return err
			}
			appUpdate.Volume = domain.Ptr(settingsVolume)
		}
		if flags.Changed("notifications") {
			appUpdate.NotificationsEnabled = domain.Ptr(settingsNotifications)
		}

		if !timerUpdate.IsEmpty() {
			if err := state.Settings.Apply(timerUpdate).Validate(); err != nil {
				return err
			}
			state = app.timer.Dispatch(domain.UpdateSettings(timerUpdate))
		}
		if appUpdate != (domain.AppSettingsUpdate{}) {
			state = app.timer.Dispatch(domain.UpdateAppSettings(appUpdate))
		}

		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"settings":    state.Settings,
				"appSettings": state.AppSettings,
			})
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Focus:          %dm\n", state.Settings.FocusDuration)
		fmt.Fprintf(out, "Break:          %dm\n", state.Settings.BreakDuration)
		fmt.Fprintf(out, "Hours:          %g\n", state.Settings.TotalHours)
		fmt.Fprintf(out, "Volume:         %d\n", state.AppSettings.Volume)
		fmt.Fprintf(out, "Notifications:  %s\n", onOff(state.AppSettings.NotificationsEnabled))
		fmt.Fprintf(out, "Theme:          %s\n", state.AppSettings.Theme)
		fmt.Fprintf(out, "\nPlan: %s\n", planLine(state.Settings))
		return nil
	},
}

func init() {
	settingsCmd.Flags().IntVar(&settingsFocus, "focus", domain.DefaultFocusDuration, "Focus interval in minutes")
	settingsCmd.Flags().IntVar(&settingsBreak, "break", domain.DefaultBreakDuration, "Break interval in minutes")
	settingsCmd.Flags().Float64Var(&settingsHours, "hours", domain.DefaultTotalHours, "Hours to plan")
	settingsCmd.Flags().IntVar(&settingsVolume, "volume", domain.DefaultVolume, "Vibe volume, 0-100")
	settingsCmd.Flags().BoolVar(&settingsNotifications, "notifications", true, "Desktop notifications when a focus interval ends")
	rootCmd.AddCommand(settingsCmd)
}
