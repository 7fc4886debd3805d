package cmd

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/joescharf/portal/internal/models"
)

var (
	exportFormat string
	exportType   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export data as JSON, YAML, CSV, or Markdown",
	Long:  "Export projects or tickets in various formats.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return exportRun()
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Output format: json, yaml, csv, markdown")
	exportCmd.Flags().StringVar(&exportType, "type", "projects", "Data type: projects, tickets")
	rootCmd.AddCommand(exportCmd)
}

func exportRun() error {
	app, err := getServices()
	if err != nil {
		return err
	}
	ctx := context.Background()

	switch exportType {
	case "projects":
		projects, err := app.projects.List(ctx)
		if err != nil {
			return err
		}
		return exportProjects(projects)
	case "tickets":
		tickets, err := app.tickets.List(ctx)
		if err != nil {
			return err
		}
		return exportTickets(tickets)
	default:
		return fmt.Errorf("unknown export type: %s (use: projects, tickets)", exportType)
	}
}

func exportProjects(projects []*models.Project) error {
	switch exportFormat {
	case "json", "yaml":
		return encodeStructured(projects)
	case "csv":
		w := csv.NewWriter(ui.Out)
		_ = w.Write([]string{"ID", "Name", "Status", "Start", "End", "Budget", "Client", "Created"})
		for _, p := range projects {
			_ = w.Write([]string{p.ID, p.Name, string(p.Status), p.StartDate, p.EndDate, budgetCell(p.Budget), p.ClientID, p.CreatedAt.Format("2006-01-02")})
		}
		w.Flush()
		return w.Error()
	case "markdown":
		fmt.Fprintln(ui.Out, "# Projects")
		fmt.Fprintln(ui.Out)
		fmt.Fprintln(ui.Out, "| Name | Status | Start | End | Budget |")
		fmt.Fprintln(ui.Out, "|------|--------|-------|-----|--------|")
		for _, p := range projects {
			fmt.Fprintf(ui.Out, "| %s | %s | %s | %s | %s |\n", mdCell(p.Name), p.Status, p.StartDate, p.EndDate, budgetCell(p.Budget))
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s (use: json, yaml, csv, markdown)", exportFormat)
	}
}

func exportTickets(tickets []*models.Ticket) error {
	switch exportFormat {
	case "json", "yaml":
		return encodeStructured(tickets)
	case "csv":
		w := csv.NewWriter(ui.Out)
		_ = w.Write([]string{"ID", "Project", "Title", "Status", "Priority", "Assignee", "Created"})
		for _, t := range tickets {
			_ = w.Write([]string{t.ID, t.ProjectID, t.Title, string(t.Status), string(t.Priority), t.AssignedTo, t.CreatedAt.Format("2006-01-02")})
		}
		w.Flush()
		return w.Error()
	case "markdown":
		fmt.Fprintln(ui.Out, "# Tickets")
		fmt.Fprintln(ui.Out)
		fmt.Fprintln(ui.Out, "| Title | Project | Status | Priority | Assignee |")
		fmt.Fprintln(ui.Out, "|-------|---------|--------|----------|----------|")
		for _, t := range tickets {
			fmt.Fprintf(ui.Out, "| %s | %s | %s | %s | %s |\n", mdCell(t.Title), t.ProjectID, t.Status, t.Priority, mdCell(t.AssignedTo))
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s (use: json, yaml, csv, markdown)", exportFormat)
	}
}

// encodeStructured writes v as indented JSON, or as YAML with the same field names.
func encodeStructured(v any) error {
	if exportFormat == "json" {
		enc := json.NewEncoder(ui.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	// Round-trip through JSON so YAML keys match the camelCase wire names.
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(ui.Out)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}

func budgetCell(b *float64) string {
	if b == nil {
		return ""
	}
	return strconv.FormatFloat(*b, 'f', -1, 64)
}

func mdCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
