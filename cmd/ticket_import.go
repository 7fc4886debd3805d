package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joescharf/portal/internal/llm"
	"github.com/joescharf/portal/internal/models"
)

var importProject string

var ticketImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import tickets from a markdown file",
	Long: `Import tickets from a markdown file.

With --project, every numbered or bulleted item becomes a ticket of that
project and priorities come from keywords. Without it, the LLM extracts
tickets and assigns them to projects, optionally guided by
"## Project <name>" headings.

Tickets whose title already exists in the target project are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return ticketImportRun(args[0])
	},
}

func init() {
	ticketImportCmd.Flags().StringVar(&importProject, "project", "", "Assign all tickets to this project (skip LLM project inference)")
	ticketCmd.AddCommand(ticketImportCmd)
}

func ticketImportRun(file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	content := string(data)
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("file is empty: %s", file)
	}

	app, err := getServices()
	if err != nil {
		return err
	}
	ctx := context.Background()

	var (
		extracted []llm.ExtractedTicket
		fixed     *models.Project
	)
	if importProject != "" {
		fixed, err = app.projects.Resolve(ctx, importProject)
		if err != nil {
			return fmt.Errorf("project %q: %w", importProject, err)
		}
		extracted = parseMarkdownTickets(content)
		for i := range extracted {
			extracted[i].Project = fixed.Name
		}
	} else {
		c := newLLMClient()
		if c == nil {
			return fmt.Errorf("ANTHROPIC_API_KEY not set (set env var or anthropic.api_key in config, or pass --project)")
		}
		projects, err := app.projects.List(ctx)
		if err != nil {
			return fmt.Errorf("list projects: %w", err)
		}
		names := make([]string, len(projects))
		for i, p := range projects {
			names[i] = p.Name
		}
		ui.Info("Extracting tickets with LLM (%s)...", modelName())
		extracted, err = c.ExtractTickets(ctx, content, names)
		if err != nil {
			return fmt.Errorf("extract tickets: %w", err)
		}
	}

	if len(extracted) == 0 {
		ui.Info("No tickets found in file.")
		return nil
	}

	table := ui.Table([]string{"#", "Project", "Title", "Priority"})
	for i, e := range extracted {
		_ = table.Append([]string{fmt.Sprintf("%d", i+1), e.Project, e.Title, e.Priority})
	}
	_ = table.Render()

	if dryRun {
		ui.DryRunMsg("Would create %d tickets", len(extracted))
		return nil
	}

	return createExtractedTickets(ctx, extracted, fixed)
}

// parseMarkdownTickets does a simple parse of markdown to extract numbered/bulleted items.
// "## Project <name>" headings set the project of the items that follow.
func parseMarkdownTickets(content string) []llm.ExtractedTicket {
	var tickets []llm.ExtractedTicket
	currentProject := ""

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)

		if strings.HasPrefix(line, "## ") {
			heading := strings.TrimSpace(strings.TrimPrefix(line, "## "))
			if strings.HasPrefix(strings.ToLower(heading), "project ") {
				currentProject = strings.TrimSpace(heading[len("project "):])
			}
			continue
		}

		title := listItemText(line)
		if title == "" {
			continue
		}
		tickets = append(tickets, llm.ExtractedTicket{
			Project:  currentProject,
			Title:    title,
			Priority: string(classifyTicketPriority(title)),
		})
	}

	return tickets
}

// listItemText returns the text of a "1. text", "1.2 text", "- text" or "* text" line.
func listItemText(line string) string {
	if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") {
		return strings.TrimSpace(line[2:])
	}

	i := 0
	for i < len(line) && (line[i] >= '0' && line[i] <= '9' || line[i] == '.') {
		i++
	}
	if i == 0 || i > 6 || i >= len(line) || line[i] != ' ' || !strings.Contains(line[:i], ".") {
		return ""
	}
	return strings.TrimSpace(line[i:])
}

// createExtractedTickets resolves projects and creates tickets, skipping
// titles that already exist in the target project. A non-nil fixed project
// receives every ticket and the per-item project names are not resolved.
func createExtractedTickets(ctx context.Context, extracted []llm.ExtractedTicket, fixed *models.Project) error {
	app, err := getServices()
	if err != nil {
		return err
	}

	type target struct {
		project *models.Project
		titles  map[string]bool
	}
	targets := make(map[string]*target)
	created, skipped, dupes := 0, 0, 0

	for _, e := range extracted {
		ref := e.Project
		if fixed != nil {
			ref = fixed.ID
		}
		tg, ok := targets[ref]
		if !ok {
			p := fixed
			if p == nil {
				if p, err = app.projects.Resolve(ctx, ref); err != nil {
					ui.Warning("Skipping ticket %q: project %q not found", e.Title, ref)
					skipped++
					continue
				}
			}
			existing, err := app.tickets.ListByProject(ctx, p.ID)
			if err != nil {
				return err
			}
			tg = &target{project: p, titles: make(map[string]bool, len(existing))}
			for _, t := range existing {
				tg.titles[strings.ToLower(t.Title)] = true
			}
			targets[ref] = tg
		}

		key := strings.ToLower(strings.TrimSpace(e.Title))
		if tg.titles[key] {
			ui.VerboseLog("Already exists: %s", e.Title)
			dupes++
			continue
		}

		priority, ok := models.ParseTicketPriority(e.Priority)
		if !ok {
			priority = models.TicketPriorityMedium
		}

		in := models.TicketInput{
			ProjectID:   models.Ptr(tg.project.ID),
			Title:       models.Ptr(e.Title),
			Description: models.Ptr(e.Description),
			Priority:    models.Ptr(priority),
		}
		if _, err := app.tickets.Create(ctx, in); err != nil {
			ui.Warning("Failed to create ticket %q: %v", e.Title, err)
			skipped++
			continue
		}
		tg.titles[key] = true
		created++
	}

	ui.Success("Created %d tickets across %d projects", created, len(targets))
	if dupes > 0 {
		ui.Info("%d tickets already existed", dupes)
	}
	if skipped > 0 {
		ui.Warning("Skipped %d tickets", skipped)
	}
	return nil
}
