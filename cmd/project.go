package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joescharf/portal/internal/filter"
	"github.com/joescharf/portal/internal/health"
	"github.com/joescharf/portal/internal/models"
	"github.com/joescharf/portal/internal/output"
	"github.com/joescharf/portal/internal/stats"
)

var (
	projectName   string
	projectDesc   string
	projectStatus string
	projectStart  string
	projectEnd    string
	projectBudget float64
	projectClient string
	projectSearch string
)

var projectCmd = &cobra.Command{
	Use:     "project",
	Aliases: []string{"p"},
	Short:   "Manage client projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		return projectListRun(filter.Project{})
	},
}

var projectListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List projects",
	Long:    "List projects. --search matches name or description, ignoring case.",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return projectListRun(filter.Project{
			Search: projectSearch,
			Status: models.ProjectStatus(projectStatus),
		})
	},
}

var projectShowCmd = &cobra.Command{
	Use:   "show <project>",
	Short: "Show project details and its tickets",
	Long:  "Show one project. <project> is an ID, a unique ID prefix, or the project name.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return projectShowRun(args[0])
	},
}

var projectAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new project",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return projectAddRun(projectInputFromFlags(cmd))
	},
}

var projectUpdateCmd = &cobra.Command{
	Use:   "update <project>",
	Short: "Update a project",
	Long:  "Update a project. Only the flags you pass are changed.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return projectUpdateRun(args[0], projectInputFromFlags(cmd))
	},
}

var projectDeleteCmd = &cobra.Command{
	Use:     "delete <project>",
	Aliases: []string{"rm"},
	Short:   "Delete a project and all of its tickets",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return projectDeleteRun(args[0])
	},
}

func init() {
	projectListCmd.Flags().StringVar(&projectSearch, "search", "", "Filter by text in name or description")
	projectListCmd.Flags().StringVar(&projectStatus, "status", "", "Filter by status: active, completed, on-hold, cancelled")

	for _, c := range []*cobra.Command{projectAddCmd, projectUpdateCmd} {
		c.Flags().StringVar(&projectName, "name", "", "Project name")
		c.Flags().StringVar(&projectDesc, "desc", "", "Project description")
		c.Flags().StringVar(&projectStatus, "status", "", "Status: active, completed, on-hold, cancelled")
		c.Flags().StringVar(&projectStart, "start", "", "Start date (YYYY-MM-DD, default today)")
		c.Flags().StringVar(&projectEnd, "end", "", "End date (YYYY-MM-DD)")
		c.Flags().Float64Var(&projectBudget, "budget", 0, "Budget")
		c.Flags().StringVar(&projectClient, "client", "", "Client identifier")
	}
	_ = projectAddCmd.MarkFlagRequired("name")

	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectUpdateCmd)
	projectCmd.AddCommand(projectDeleteCmd)
	rootCmd.AddCommand(projectCmd)
}

// projectInputFromFlags maps the flags the user actually passed onto form data.
func projectInputFromFlags(cmd *cobra.Command) models.ProjectInput {
	var in models.ProjectInput
	f := cmd.Flags()
	if f.Changed("name") {
		in.Name = models.Ptr(projectName)
	}
	if f.Changed("desc") {
		in.Description = models.Ptr(projectDesc)
	}
	if f.Changed("status") {
		in.Status = models.Ptr(models.ProjectStatus(projectStatus))
	}
	if f.Changed("start") {
		in.StartDate = models.Ptr(projectStart)
	}
	if f.Changed("end") {
		in.EndDate = models.Ptr(projectEnd)
	}
	if f.Changed("budget") {
		in.Budget = models.Ptr(projectBudget)
	}
	if f.Changed("client") {
		in.ClientID = models.Ptr(projectClient)
	}
	return in
}

func projectListRun(f filter.Project) error {
	app, err := getServices()
	if err != nil {
		return err
	}
	ctx := context.Background()

	if f.Status != "" && !f.Status.Valid() {
		return fmt.Errorf("unknown status %q (want one of %v)", f.Status, models.ProjectStatuses)
	}

	projects, err := app.projects.Search(ctx, f)
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		ui.Info("No projects found. Use 'portal project add --name <name>' to create one.")
		return nil
	}

	tickets, err := app.tickets.List(ctx)
	if err != nil {
		return err
	}
	summary := stats.Compute(projects, tickets)

	table := ui.Table([]string{"ID", "Name", "Status", "Start", "End", "Budget", "Open"})
	for i, p := range projects {
		_ = table.Append([]string{
			shortID(p.ID),
			output.Cyan(p.Name),
			output.StatusColor(string(p.Status)),
			p.StartDate,
			orDash(p.EndDate),
			output.Budget(p.Budget),
			strconv.Itoa(summary.PerProject[i].OpenTickets),
		})
	}
	_ = table.Render()
	return nil
}

func projectShowRun(ref string) error {
	app, err := getServices()
	if err != nil {
		return err
	}
	ctx := context.Background()

	p, err := app.projects.Resolve(ctx, ref)
	if err != nil {
		return err
	}
	tickets, err := app.tickets.ListByProject(ctx, p.ID)
	if err != nil {
		return err
	}
	h := health.NewScorer().Score(p, tickets)

	fmt.Fprintf(ui.Out, "%s  %s\n", output.Cyan(shortID(p.ID)), p.Name)
	fmt.Fprintf(ui.Out, "  Status:     %s\n", output.StatusColor(string(p.Status)))
	if p.Description != "" {
		fmt.Fprintf(ui.Out, "  Desc:       %s\n", p.Description)
	}
	fmt.Fprintf(ui.Out, "  Start:      %s\n", p.StartDate)
	if p.EndDate != "" {
		fmt.Fprintf(ui.Out, "  End:        %s\n", p.EndDate)
	}
	fmt.Fprintf(ui.Out, "  Budget:     %s\n", output.Budget(p.Budget))
	fmt.Fprintf(ui.Out, "  Health:     %s/100\n", output.HealthColor(h.Total))
	if p.ClientID != "" {
		fmt.Fprintf(ui.Out, "  Client:     %s\n", p.ClientID)
	}
	fmt.Fprintf(ui.Out, "  Created:    %s\n", output.Ago(p.CreatedAt))
	fmt.Fprintf(ui.Out, "  Updated:    %s\n", output.Ago(p.UpdatedAt))
	fmt.Fprintf(ui.Out, "  Full ID:    %s\n", p.ID)

	fmt.Fprintln(ui.Out)
	if len(tickets) == 0 {
		ui.Info("No tickets for this project.")
		return nil
	}
	renderTickets(tickets, nil)
	return nil
}

func projectAddRun(in models.ProjectInput) error {
	app, err := getServices()
	if err != nil {
		return err
	}

	if dryRun {
		ui.DryRunMsg("Would add project: %s", deref(in.Name))
		return nil
	}

	p, err := app.projects.Create(context.Background(), in)
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}

	ui.Success("Created project %s: %s", output.Cyan(shortID(p.ID)), p.Name)
	return nil
}

func projectUpdateRun(ref string, in models.ProjectInput) error {
	if in == (models.ProjectInput{}) {
		return fmt.Errorf("no updates specified (use --name, --desc, --status, --start, --end, --budget or --client)")
	}

	app, err := getServices()
	if err != nil {
		return err
	}
	ctx := context.Background()

	p, err := app.projects.Resolve(ctx, ref)
	if err != nil {
		return err
	}

	if dryRun {
		ui.DryRunMsg("Would update project %s", shortID(p.ID))
		return nil
	}

	if _, err := app.projects.Update(ctx, p.ID, in); err != nil {
		return fmt.Errorf("update project: %w", err)
	}

	ui.Success("Updated project %s", output.Cyan(shortID(p.ID)))
	return nil
}

func projectDeleteRun(ref string) error {
	app, err := getServices()
	if err != nil {
		return err
	}
	ctx := context.Background()

	p, err := app.projects.Resolve(ctx, ref)
	if err != nil {
		return err
	}
	tickets, err := app.tickets.ListByProject(ctx, p.ID)
	if err != nil {
		return err
	}

	if dryRun {
		ui.DryRunMsg("Would delete project %s (%s) and %d tickets", shortID(p.ID), p.Name, len(tickets))
		return nil
	}

	removed, err := app.projects.Delete(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if !removed {
		ui.Warning("Project %s was already gone", shortID(p.ID))
		return nil
	}

	ui.Success("Deleted project %s: %s (%d tickets removed)", output.Cyan(shortID(p.ID)), p.Name, len(tickets))
	return nil
}

// shortID returns a truncated ULID for display (first 12 chars).
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
