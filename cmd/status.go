package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joescharf/portal/internal/health"
	"github.com/joescharf/portal/internal/models"
	"github.com/joescharf/portal/internal/output"
	"github.com/joescharf/portal/internal/stats"
)

var statusOnly string

var statusCmd = &cobra.Command{
	Use:   "status [project]",
	Short: "Show the portal dashboard",
	Long: `Show a cross-project summary or detailed status for one project.

Without arguments, shows project and ticket counts and a table of all projects.
With a project, shows the same detail as 'portal project show'.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return projectShowRun(args[0])
		}
		return statusRun()
	},
}

func init() {
	statusCmd.Flags().StringVar(&statusOnly, "status", "", "Only list projects with this status")
	rootCmd.AddCommand(statusCmd)
}

func statusRun() error {
	app, err := getServices()
	if err != nil {
		return err
	}
	ctx := context.Background()

	projects, err := app.projects.List(ctx)
	if err != nil {
		return err
	}
	tickets, err := app.tickets.List(ctx)
	if err != nil {
		return err
	}

	if len(projects) == 0 {
		ui.Info("No projects yet. Use 'portal project add --name <name>' to get started.")
		return nil
	}

	sum := stats.Compute(projects, tickets)

	fmt.Fprintf(ui.Out, "%s  %d projects, %d tickets\n", output.Cyan("Portal"), sum.Projects, sum.Tickets)
	fmt.Fprintf(ui.Out, "  Projects:   %s\n", formatProjectCounts(sum))
	fmt.Fprintf(ui.Out, "  Tickets:    %s\n", formatTicketCounts(sum))
	fmt.Fprintf(ui.Out, "  Priority:   %s\n", formatPriorityCounts(sum))
	v := sum.ActiveBudget
	fmt.Fprintf(ui.Out, "  Budget:     %s active\n", output.Budget(&v))
	if sum.OrphanTickets > 0 {
		ui.Warning("%d tickets reference missing projects", sum.OrphanTickets)
	}
	fmt.Fprintln(ui.Out)

	byProject := make(map[string][]*models.Ticket, len(projects))
	for _, t := range tickets {
		byProject[t.ProjectID] = append(byProject[t.ProjectID], t)
	}
	scorer := health.NewScorer()

	table := ui.Table([]string{"Project", "Status", "Open", "Tickets", "Budget", "Health"})
	for i, ps := range sum.PerProject {
		if statusOnly != "" && string(ps.Status) != statusOnly {
			continue
		}
		h := scorer.Score(projects[i], byProject[ps.ID])
		_ = table.Append([]string{
			output.Cyan(ps.Name),
			output.StatusColor(string(ps.Status)),
			fmt.Sprintf("%d", ps.OpenTickets),
			fmt.Sprintf("%d", ps.Tickets),
			output.Budget(projects[i].Budget),
			output.HealthColor(h.Total),
		})
	}
	_ = table.Render()
	return nil
}

func formatProjectCounts(sum *stats.Summary) string {
	parts := make([]string, 0, len(models.ProjectStatuses))
	for _, st := range models.ProjectStatuses {
		parts = append(parts, fmt.Sprintf("%d %s", sum.ProjectsByStatus[st], output.StatusColor(string(st))))
	}
	return strings.Join(parts, ", ")
}

func formatTicketCounts(sum *stats.Summary) string {
	parts := make([]string, 0, len(models.TicketStatuses))
	for _, st := range models.TicketStatuses {
		parts = append(parts, fmt.Sprintf("%d %s", sum.TicketsByStatus[st], output.StatusColor(string(st))))
	}
	return strings.Join(parts, ", ")
}

func formatPriorityCounts(sum *stats.Summary) string {
	parts := make([]string, 0, len(models.TicketPriorities))
	for _, p := range models.TicketPriorities {
		parts = append(parts, fmt.Sprintf("%d %s", sum.TicketsByPrio[p], output.PriorityColor(string(p))))
	}
	return strings.Join(parts, ", ")
}
