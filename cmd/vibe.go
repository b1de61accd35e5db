package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/domain"
)

var vibeCategory string

var vibeCmd = &cobra.Command{
	Use:   "vibe",
	Short: "Show or choose the ambient vibe",
	Long:  `Print the selected vibe. Use the subcommands to browse the catalog and pick one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		current := app.vibes.Current()
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), map[string]any{"currentVibe": current})
		}
		if current == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No vibe selected. Try \"focus vibe list\".")
			return nil
		}
		printVibe(cmd.OutOrStdout(), current)
		return nil
	},
}

var vibeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the preset vibes",
	RunE: func(cmd *cobra.Command, args []string) error {
		vibes, err := app.vibes.List(vibeCategory)
		if err != nil {
			return err
		}
		return printVibes(cmd.OutOrStdout(), vibes)
	},
}

var vibeSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Fuzzy search the preset vibes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printVibes(cmd.OutOrStdout(), app.vibes.Search(args[0]))
	},
}

var vibeSetCmd = &cobra.Command{
	Use:   "set <id>",
	Short: "Select a preset vibe by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vibe, err := app.vibes.Select(args[0])
		if err != nil {
			return err
		}
		return reportVibe(cmd.OutOrStdout(), vibe)
	},
}

var vibeCustomCmd = &cobra.Command{
	Use:   "custom <youtube-url>",
	Short: "Play a YouTube video of your own",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vibe, err := app.vibes.SelectCustom(args[0])
		if err != nil {
			return err
		}
		return reportVibe(cmd.OutOrStdout(), vibe)
	},
}

var vibeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Stop playing a vibe",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app.vibes.Clear()
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), map[string]any{"currentVibe": nil})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Vibe cleared.")
		return nil
	},
}

func init() {
	vibeListCmd.Flags().StringVarP(&vibeCategory, "category", "c", string(domain.CategoryPopular), "Category: popular, focus, ambient or nature")

	vibeCmd.AddCommand(vibeListCmd, vibeSearchCmd, vibeSetCmd, vibeCustomCmd, vibeClearCmd)
	rootCmd.AddCommand(vibeCmd)
}

func reportVibe(w io.Writer, vibe *domain.Vibe) error {
	if jsonOutput {
		return writeJSON(w, map[string]any{"currentVibe": vibe})
	}
	fmt.Fprint(w, "Now set: ")
	printVibe(w, vibe)
	return nil
}

func printVibe(w io.Writer, v *domain.Vibe) {
	fmt.Fprintf(w, "♪ %s (%s)\n", v.Name, v.ID)
	if v.Description != "" {
		fmt.Fprintf(w, "  %s\n", v.Description)
	}
	fmt.Fprintf(w, "  %s\n", v.WatchURL())
}

func printVibes(w io.Writer, vibes []domain.Vibe) error {
	if jsonOutput {
		return writeJSON(w, vibes)
	}
	if len(vibes) == 0 {
		fmt.Fprintln(w, "No vibes found.")
		return nil
	}
	for _, v := range vibes {
		fmt.Fprintf(w, "%-10s %-16s %-8s %s\n", v.ID, v.Name, v.Category, v.Description)
	}
	return nil
}
