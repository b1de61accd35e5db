package cmd

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/domain"
)

var statsPeriod string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show a dashboard of focus statistics",
	Long:  `Display a terminal dashboard with completed focus intervals per day.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		days, label, err := statsDays(statsPeriod)
		if err != nil {
			return err
		}

		stats, err := app.history.Days(cmd.Context(), days)
		if err != nil {
			return err
		}

		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), stats)
		}
		renderDashboard(cmd.OutOrStdout(), label, stats)
		return nil
	},
}

func init() {
	statsCmd.Flags().StringVarP(&statsPeriod, "period", "p", "week", "Time period: today, week or month")
	rootCmd.AddCommand(statsCmd)
}

// statsDays maps a period name to a day count and a heading.
func statsDays(period string) (int, string, error) {
	switch period {
	case "today":
		return 1, "Today", nil
	case "week":
		return 7, "Last 7 days", nil
	case "month":
		return 30, "Last 30 days", nil
	}
	return 0, "", fmt.Errorf("invalid period %q (use today, week or month)", period)
}

func renderDashboard(w io.Writer, label string, days []domain.DailyStats) {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C6FE0"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A78BFA"))
	barColor := lipgloss.NewStyle().Foreground(lipgloss.Color("#7C6FE0"))

	var total domain.DailyStats
	maxCount := 0
	for _, d := range days {
		total.FocusIntervals += d.FocusIntervals
		total.BreakIntervals += d.BreakIntervals
		total.FocusTime += d.FocusTime
		total.BreakTime += d.BreakTime
		maxCount = max(maxCount, d.FocusIntervals)
	}

	fmt.Fprintf(w, "\n  %s\n", titleStyle.Render(label))
	fmt.Fprintf(w, "  %s\n\n", dimStyle.Render(strings.Repeat("─", 40)))

	fmt.Fprintf(w, "  Total: %s focus intervals, %s focused, %s breaks\n\n",
		valueStyle.Render(fmt.Sprintf("%d", total.FocusIntervals)),
		valueStyle.Render(formatHours(total.FocusTime.Hours())),
		valueStyle.Render(fmt.Sprintf("%d", total.BreakIntervals)),
	)

	if total.FocusIntervals == 0 {
		fmt.Fprintf(w, "  %s\n\n", dimStyle.Render("No completed focus intervals in this period."))
		return
	}

	fmt.Fprintf(w, "  %s\n", dimStyle.Render("Focus intervals per day"))
	maxBarWidth := 30
	for _, d := range days {
		barWidth := int(math.Round(float64(d.FocusIntervals) / float64(maxCount) * float64(maxBarWidth)))
		if barWidth < 1 && d.FocusIntervals > 0 {
			barWidth = 1
		}
		fmt.Fprintf(w, "  %s %s %d (%s)\n",
			dimStyle.Render(d.Date.Format("Mon Jan 02")),
			barColor.Render(buildBar(barWidth)),
			d.FocusIntervals,
			formatHours(d.FocusTime.Hours()),
		)
	}
	fmt.Fprintln(w)
}

// buildBar creates a horizontal bar using block characters.
func buildBar(width int) string {
	if width <= 0 {
		return ""
	}
	return strings.Repeat("█", width)
}

// formatHours formats a float hours value as "Xh Ym".
func formatHours(h float64) string {
	if h < 0.01 {
		return "0m"
	}
	hours := int(h)
	minutes := int(math.Round((h - float64(hours)) * 60))
	if minutes == 60 {
		hours, minutes = hours+1, 0
	}
	if hours > 0 && minutes > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dm", minutes)
}

// periodStart returns the earliest completion time included in a period.
func periodStart(period string, now time.Time) (time.Time, error) {
	switch period {
	case "today":
		return domain.StartOfDay(now), nil
	case "week":
		return now.AddDate(0, 0, -7), nil
	case "month":
		return now.AddDate(0, -1, 0), nil
	case "all":
		return time.Time{}, nil
	}
	return time.Time{}, fmt.Errorf("invalid period %q (use today, week, month or all)", period)
}
