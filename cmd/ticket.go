package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joescharf/portal/internal/filter"
	"github.com/joescharf/portal/internal/models"
	"github.com/joescharf/portal/internal/output"
	"github.com/joescharf/portal/internal/service"
)

var (
	ticketProject  string
	ticketTitle    string
	ticketDesc     string
	ticketStatus   string
	ticketPriority string
	ticketAssignee string
	ticketSearch   string
	ticketApply    bool
)

var ticketCmd = &cobra.Command{
	Use:     "ticket",
	Aliases: []string{"t"},
	Short:   "Manage project tickets",
	Long:    "Track the tickets filed against client projects.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return ticketListRun("", filter.Ticket{})
	},
}

var ticketListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tickets",
	Long:    "List tickets. --search matches title or description, ignoring case.",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return ticketListRun(ticketProject, filter.Ticket{
			Search:   ticketSearch,
			Status:   models.TicketStatus(ticketStatus),
			Priority: models.TicketPriority(ticketPriority),
		})
	},
}

var ticketShowCmd = &cobra.Command{
	Use:   "show <ticket-id>",
	Short: "Show ticket details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return ticketShowRun(args[0])
	},
}

var ticketAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new ticket",
	Long: `Add a ticket to a project. Without --priority the priority is suggested
by the LLM when anthropic.api_key is set, or from keywords in the title.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return ticketAddRun(ticketProject, ticketInputFromFlags(cmd))
	},
}

var ticketUpdateCmd = &cobra.Command{
	Use:   "update <ticket-id>",
	Short: "Update a ticket",
	Long:  "Update a ticket. Only the flags you pass are changed; --project moves the ticket.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref := ""
		if cmd.Flags().Changed("project") {
			ref = ticketProject
		}
		return ticketUpdateRun(args[0], ref, ticketInputFromFlags(cmd))
	},
}

var ticketDeleteCmd = &cobra.Command{
	Use:     "delete <ticket-id>",
	Aliases: []string{"rm"},
	Short:   "Delete a ticket",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return ticketDeleteRun(args[0])
	},
}

var ticketEnrichCmd = &cobra.Command{
	Use:   "enrich <ticket-id>",
	Short: "Suggest a better description and priority with the LLM",
	Long: `Ask the LLM for an improved description and a priority for a ticket.
The suggestion is printed; pass --apply to save it.

Requires ANTHROPIC_API_KEY environment variable or anthropic.api_key in config.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return ticketEnrichRun(args[0])
	},
}

func init() {
	ticketListCmd.Flags().StringVar(&ticketProject, "project", "", "Only tickets of this project (ID or name)")
	ticketListCmd.Flags().StringVar(&ticketStatus, "status", "", "Filter by status: open, in-progress, review, closed")
	ticketListCmd.Flags().StringVar(&ticketPriority, "priority", "", "Filter by priority: low, medium, high, urgent")
	ticketListCmd.Flags().StringVar(&ticketSearch, "search", "", "Filter by text in title or description")

	for _, c := range []*cobra.Command{ticketAddCmd, ticketUpdateCmd} {
		c.Flags().StringVar(&ticketProject, "project", "", "Project (ID or name)")
		c.Flags().StringVar(&ticketTitle, "title", "", "Ticket title")
		c.Flags().StringVar(&ticketDesc, "desc", "", "Ticket description")
		c.Flags().StringVar(&ticketStatus, "status", "", "Status: open, in-progress, review, closed")
		c.Flags().StringVar(&ticketPriority, "priority", "", "Priority: low, medium, high, urgent")
		c.Flags().StringVar(&ticketAssignee, "assignee", "", "Assignee")
	}
	_ = ticketAddCmd.MarkFlagRequired("project")
	_ = ticketAddCmd.MarkFlagRequired("title")

	ticketEnrichCmd.Flags().BoolVar(&ticketApply, "apply", false, "Save the suggested description and priority")

	ticketCmd.AddCommand(ticketListCmd)
	ticketCmd.AddCommand(ticketShowCmd)
	ticketCmd.AddCommand(ticketAddCmd)
	ticketCmd.AddCommand(ticketUpdateCmd)
	ticketCmd.AddCommand(ticketDeleteCmd)
	ticketCmd.AddCommand(ticketEnrichCmd)
	rootCmd.AddCommand(ticketCmd)
}

// ticketInputFromFlags maps the flags the user actually passed onto form data.
// The project flag is resolved separately since it may be a name.
func ticketInputFromFlags(cmd *cobra.Command) models.TicketInput {
	var in models.TicketInput
	f := cmd.Flags()
	if f.Changed("title") {
		in.Title = models.Ptr(ticketTitle)
	}
	if f.Changed("desc") {
		in.Description = models.Ptr(ticketDesc)
	}
	if f.Changed("status") {
		in.Status = models.Ptr(models.TicketStatus(ticketStatus))
	}
	if f.Changed("priority") {
		in.Priority = models.Ptr(models.TicketPriority(ticketPriority))
	}
	if f.Changed("assignee") {
		in.AssignedTo = models.Ptr(ticketAssignee)
	}
	return in
}

func ticketListRun(projectRef string, f filter.Ticket) error {
	app, err := getServices()
	if err != nil {
		return err
	}
	ctx := context.Background()

	if f.Status != "" && !f.Status.Valid() {
		return fmt.Errorf("unknown status %q (want one of %v)", f.Status, models.TicketStatuses)
	}
	if f.Priority != "" && !f.Priority.Valid() {
		return fmt.Errorf("unknown priority %q (want one of %v)", f.Priority, models.TicketPriorities)
	}

	if projectRef != "" {
		p, err := app.projects.Resolve(ctx, projectRef)
		if err != nil {
			return err
		}
		f.ProjectID = p.ID
	}

	tickets, err := app.tickets.Search(ctx, f)
	if err != nil {
		return err
	}
	if len(tickets) == 0 {
		ui.Info("No tickets found.")
		return nil
	}

	projects, err := app.projects.List(ctx)
	if err != nil {
		return err
	}
	names := make(map[string]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.Name
	}

	renderTickets(tickets, names)
	return nil
}

// renderTickets prints a ticket table. With projectNames set, a Project column is included.
func renderTickets(tickets []*models.Ticket, projectNames map[string]string) {
	headers := []string{"ID", "Title", "Status", "Priority", "Assignee", "Updated"}
	if projectNames != nil {
		headers = append([]string{"ID", "Project"}, headers[1:]...)
	}

	table := ui.Table(headers)
	for _, t := range tickets {
		row := []string{
			shortID(t.ID),
			t.Title,
			output.StatusColor(string(t.Status)),
			output.PriorityColor(string(t.Priority)),
			orDash(t.AssignedTo),
			output.Ago(t.UpdatedAt),
		}
		if projectNames != nil {
			name, ok := projectNames[t.ProjectID]
			if !ok {
				name = output.Red(t.ProjectID)
			}
			row = append([]string{row[0], name}, row[1:]...)
		}
		_ = table.Append(row)
	}
	_ = table.Render()
}

func ticketShowRun(ref string) error {
	app, err := getServices()
	if err != nil {
		return err
	}
	ctx := context.Background()

	t, err := app.tickets.Resolve(ctx, ref)
	if err != nil {
		return err
	}

	projName := t.ProjectID
	if p, err := app.projects.Get(ctx, t.ProjectID); err == nil {
		projName = p.Name
	}

	fmt.Fprintf(ui.Out, "%s  %s\n", output.Cyan(shortID(t.ID)), t.Title)
	fmt.Fprintf(ui.Out, "  Project:    %s\n", projName)
	fmt.Fprintf(ui.Out, "  Status:     %s\n", output.StatusColor(string(t.Status)))
	fmt.Fprintf(ui.Out, "  Priority:   %s\n", output.PriorityColor(string(t.Priority)))
	if t.AssignedTo != "" {
		fmt.Fprintf(ui.Out, "  Assignee:   %s\n", t.AssignedTo)
	}
	if t.Description != "" {
		fmt.Fprintf(ui.Out, "  Desc:       %s\n", t.Description)
	}
	fmt.Fprintf(ui.Out, "  Created:    %s\n", output.Ago(t.CreatedAt))
	fmt.Fprintf(ui.Out, "  Updated:    %s\n", output.Ago(t.UpdatedAt))
	fmt.Fprintf(ui.Out, "  Full ID:    %s\n", t.ID)
	return nil
}

func ticketAddRun(projectRef string, in models.TicketInput) error {
	app, err := getServices()
	if err != nil {
		return err
	}
	ctx := context.Background()

	p, err := app.projects.Resolve(ctx, projectRef)
	if err != nil {
		return err
	}
	in.ProjectID = models.Ptr(p.ID)

	if in.Priority == nil && in.Title != nil {
		var e service.Enricher
		if c := newLLMClient(); c != nil {
			e = c
		}
		in.Priority = models.Ptr(suggestPriority(ctx, e, *in.Title, deref(in.Description), p.Name))
		ui.VerboseLog("Suggested priority: %s", *in.Priority)
	}

	if dryRun {
		ui.DryRunMsg("Would add ticket: %s [%s] to %s", deref(in.Title), priorityOf(in), p.Name)
		return nil
	}

	t, err := app.tickets.Create(ctx, in)
	if err != nil {
		return fmt.Errorf("create ticket: %w", err)
	}

	ui.Success("Created ticket %s: %s", output.Cyan(shortID(t.ID)), t.Title)
	return nil
}

// suggestPriority asks e when one is given and falls back to keywords.
func suggestPriority(ctx context.Context, e service.Enricher, title, desc, project string) models.TicketPriority {
	if e != nil {
		enriched, err := e.EnrichTicket(ctx, title, desc, project)
		if err == nil {
			if p, ok := models.ParseTicketPriority(enriched.Priority); ok {
				return p
			}
		} else {
			ui.Warning("LLM priority suggestion failed, using keywords: %v", err)
		}
	}
	return classifyTicketPriority(title + " " + desc)
}

func priorityOf(in models.TicketInput) models.TicketPriority {
	if in.Priority == nil {
		return models.TicketPriorityMedium
	}
	return *in.Priority
}

func ticketUpdateRun(ref, projectRef string, in models.TicketInput) error {
	if in == (models.TicketInput{}) && projectRef == "" {
		return fmt.Errorf("no updates specified (use --title, --desc, --status, --priority, --assignee or --project)")
	}

	app, err := getServices()
	if err != nil {
		return err
	}
	ctx := context.Background()

	t, err := app.tickets.Resolve(ctx, ref)
	if err != nil {
		return err
	}
	if projectRef != "" {
		p, err := app.projects.Resolve(ctx, projectRef)
		if err != nil {
			return err
		}
		in.ProjectID = models.Ptr(p.ID)
	}

	if dryRun {
		ui.DryRunMsg("Would update ticket %s", shortID(t.ID))
		return nil
	}

	if _, err := app.tickets.Update(ctx, t.ID, in); err != nil {
		return fmt.Errorf("update ticket: %w", err)
	}

	ui.Success("Updated ticket %s", output.Cyan(shortID(t.ID)))
	return nil
}

func ticketDeleteRun(ref string) error {
	app, err := getServices()
	if err != nil {
		return err
	}
	ctx := context.Background()

	t, err := app.tickets.Resolve(ctx, ref)
	if err != nil {
		return err
	}

	if dryRun {
		ui.DryRunMsg("Would delete ticket %s: %s", shortID(t.ID), t.Title)
		return nil
	}

	removed, err := app.tickets.Delete(ctx, t.ID)
	if err != nil {
		return fmt.Errorf("delete ticket: %w", err)
	}
	if !removed {
		ui.Warning("Ticket %s was already gone", shortID(t.ID))
		return nil
	}

	ui.Success("Deleted ticket %s: %s", output.Cyan(shortID(t.ID)), t.Title)
	return nil
}

func ticketEnrichRun(ref string) error {
	c := newLLMClient()
	if c == nil {
		return fmt.Errorf("ANTHROPIC_API_KEY not set (set env var or anthropic.api_key in config)")
	}

	app, err := getServices()
	if err != nil {
		return err
	}
	ctx := context.Background()

	t, err := app.tickets.Resolve(ctx, ref)
	if err != nil {
		return err
	}

	apply := ticketApply && !dryRun
	ui.Info("Enriching ticket %s with LLM (%s)...", shortID(t.ID), modelName())
	updated, suggestion, err := app.tickets.Enrich(ctx, t.ID, c, apply)
	if err != nil {
		return err
	}

	fmt.Fprintf(ui.Out, "  Desc:       %s\n", suggestion.Description)
	fmt.Fprintf(ui.Out, "  Priority:   %s (was %s)\n", output.PriorityColor(string(suggestion.Priority)), t.Priority)

	switch {
	case apply:
		ui.Success("Updated ticket %s", output.Cyan(shortID(updated.ID)))
	case ticketApply:
		ui.DryRunMsg("Would update ticket %s", shortID(t.ID))
	default:
		ui.Info("Run again with --apply to save.")
	}
	return nil
}
