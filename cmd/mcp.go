package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol (MCP) server for integration with AI assistants.
The server exposes tools for reading and driving the timer, the plan, vibes and stats.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !app.config.MCP.Enabled {
			return errors.New("the MCP server is disabled (set mcp.enabled = true in the config)")
		}

		// stdout carries the protocol
		stderr := cmd.ErrOrStderr()
		fmt.Fprintln(stderr, "🚀 Starting MCP server...")
		fmt.Fprintln(stderr, "   The server will communicate via stdio")
		fmt.Fprintln(stderr, "   Press Ctrl+C to stop")

		ctx, stop := setupSignalHandler()
		defer stop()

		server := mcp.NewServer(app.timer, app.history, Version)
		if err := server.Start(ctx); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	},
}
