package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/domain"
)

var startMode string

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the timer right away",
	Long: `Open the timer with the clock already running. Use --mode break to
begin with a break instead of a focus interval.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := domain.ParseMode(startMode)
		if err != nil {
			return fmt.Errorf("invalid --mode: %w", err)
		}

		if mode == domain.ModeBreak {
			// switching mode also starts the clock
			app.timer.Dispatch(domain.SwitchMode(mode))
		} else {
			app.timer.Dispatch(domain.StartTimer())
		}
		return launchTUI()
	},
}

func init() {
	startCmd.Flags().StringVarP(&startMode, "mode", "m", string(domain.ModeFocus), "Interval to start with: focus or break")
}
