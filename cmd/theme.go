package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/domain"
)

var themeCmd = &cobra.Command{
	Use:       "theme [default|light|winter|next]",
	Short:     "Show or change the theme",
	Long:      `Print the current theme, set one by name, or cycle to the next with "next".`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"default", "light", "winter", "next"},
	RunE: func(cmd *cobra.Command, args []string) error {
		state := app.timer.State()

		if len(args) == 1 {
			theme := state.AppSettings.Theme.Next()
			if args[0] != "next" {
				var err error
				if theme, err = domain.ParseTheme(args[0]); err != nil {
					return err
				}
			}
			state = app.timer.Dispatch(domain.SetTheme(theme))
		}

		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), map[string]string{"theme": string(state.AppSettings.Theme)})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Theme: %s\n", state.AppSettings.Theme)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(themeCmd)
}
