package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/services"
)

var (
	exportFormat string
	exportPeriod string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export interval history",
	Long:  "Export your completed intervals as markdown, CSV, JSON or YAML.",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := services.ParseExportFormat(exportFormat)
		if err != nil {
			return err
		}
		since, err := periodStart(exportPeriod, time.Now())
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if exportOutput != "" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", exportOutput, err)
			}
			defer f.Close()
			w = f
		}
		return app.history.Export(cmd.Context(), w, format, since)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "md", "Output format: md, csv, json or yaml")
	exportCmd.Flags().StringVar(&exportPeriod, "period", "week", "Time period: today, week, month, or all")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to a file instead of stdout")
}
