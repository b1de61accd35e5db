package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/adapters/tui"
	"github.com/xvierd/focus-cli/internal/domain"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current status",
	Long:  `Display the timer, the session plan, the selected vibe and today's totals.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		state := app.timer.State()
		today, err := app.history.TodayStats(cmd.Context())
		if err != nil {
			return err
		}

		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), statusJSON(state, today))
		}

		out := cmd.OutOrStdout()
		tui.ShowStatus(out, state)
		fmt.Fprintf(out, "\nToday: %d focus intervals (%s), %d breaks\n",
			today.FocusIntervals, today.FocusTime, today.BreakIntervals)
		return nil
	},
}

// statusJSON builds the machine readable status document.
func statusJSON(state domain.AppState, today *domain.DailyStats) map[string]any {
	return map[string]any{
		"phase":        string(state.Timer.Phase()),
		"timer":        state.Timer,
		"settings":     state.Settings,
		"appSettings":  state.AppSettings,
		"currentVibe":  state.CurrentVibe,
		"plan_percent": domain.PlanPercent(state.Timer),
		"today":        today,
	}
}
