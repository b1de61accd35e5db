package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/domain"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the session plan",
	Long:  `List every focus and break interval that fits in the planned hours.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		state := app.timer.State()
		segments := domain.Segments(state.Timer, state.Settings)

		if jsonOutput {
			sessions := state.Timer.TotalSessions
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"total_sessions": sessions,
				"total_minutes":  domain.TotalMinutes(sessions, state.Settings.FocusDuration, state.Settings.BreakDuration),
				"segments":       segments,
			})
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Plan: %s\n\n", planLine(state.Settings))
		if len(segments) == 0 {
			fmt.Fprintln(out, "No full session fits. Raise --hours or shorten the intervals with \"focus settings\".")
			return nil
		}
		fmt.Fprint(out, renderPlan(segments))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
}

// renderPlan lists segments one per line with a running start offset.
func renderPlan(segments []domain.Segment) string {
	focusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7C6FE0"))
	breakStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECDC4"))

	var b strings.Builder
	offset := 0
	for _, seg := range segments {
		style := focusStyle
		if seg.Mode == domain.ModeBreak {
			style = breakStyle
		}
		marker := " "
		switch seg.Status {
		case domain.SegmentCurrent:
			marker = "▶"
		case domain.SegmentDone:
			marker = "✓"
		}
		label := fmt.Sprintf("%-5s %d", seg.Mode.Label(), seg.Session)
		fmt.Fprintf(&b, "  %s +%-6s %s %dm\n", marker, domain.FormatPlanMinutes(offset), style.Render(label), seg.Minutes)
		offset += seg.Minutes
	}
	return b.String()
}
