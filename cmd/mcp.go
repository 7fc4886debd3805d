package cmd

import (
	"context"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/joescharf/portal/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP stdio server for AI assistant integration",
	Long: `Start an MCP (Model Context Protocol) server on stdio.

This lets an MCP client query and update portal projects and tickets.
Configure it with:

  {
    "mcpServers": {
      "portal": { "command": "portal", "args": ["mcp"] }
    }
  }

Available tools: portal_list_projects, portal_get_project, portal_list_tickets,
portal_create_ticket, portal_update_ticket, portal_stats, portal_project_health`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return mcpRun()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func mcpRun() error {
	app, err := getServices()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals()...)
	defer stop()

	// stdout carries the protocol; diagnostics go to the stderr logger.
	app.logger.Info("mcp server starting", "version", buildVersion)
	return mcp.NewServer(app.projects, app.tickets, app.logger, buildVersion).ServeStdio(ctx)
}
