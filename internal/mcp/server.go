package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/joescharf/portal/internal/filter"
	"github.com/joescharf/portal/internal/health"
	"github.com/joescharf/portal/internal/models"
	"github.com/joescharf/portal/internal/service"
	"github.com/joescharf/portal/internal/stats"
)

// Server exposes the portal services as MCP tools.
type Server struct {
	projects *service.ProjectService
	tickets  *service.TicketService
	logger   *slog.Logger
	version  string
}

// NewServer creates the MCP server wrapper over the project and ticket services.
func NewServer(projects *service.ProjectService, tickets *service.TicketService, logger *slog.Logger, version string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if version == "" {
		version = "dev"
	}
	return &Server{projects: projects, tickets: tickets, logger: logger, version: version}
}

// MCPServer returns a configured mcp-go server with all tools registered.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer("portal", s.version, server.WithToolCapabilities(true))

	srv.AddTool(s.listProjectsTool())
	srv.AddTool(s.getProjectTool())
	srv.AddTool(s.listTicketsTool())
	srv.AddTool(s.createTicketTool())
	srv.AddTool(s.updateTicketTool())
	srv.AddTool(s.statsTool())
	srv.AddTool(s.projectHealthTool())

	return srv
}

// ServeStdio starts the stdio transport, blocking until ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	stdioServer := server.NewStdioServer(s.MCPServer())
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

// ---------------------------------------------------------------------------
// Tool definitions and handlers
// ---------------------------------------------------------------------------

// portal_list_projects
func (s *Server) listProjectsTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("portal_list_projects",
		mcp.WithDescription("List projects. Returns a JSON array of projects with id, name, description, status, startDate, endDate, budget and timestamps."),
		mcp.WithString("search", mcp.Description("Case-insensitive text matched against name and description")),
		mcp.WithString("status", mcp.Description("Status filter"), mcp.Enum(projectStatuses()...)),
	)
	return tool, s.handleListProjects
}

func (s *Server) handleListProjects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f := filter.Project{
		Search: request.GetString("search", ""),
		Status: models.ProjectStatus(request.GetString("status", "")),
	}
	if f.Status != "" && !f.Status.Valid() {
		return mcp.NewToolResultError(fmt.Sprintf("invalid status: %s", f.Status)), nil
	}

	projects, err := s.projects.Search(ctx, f)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list projects: %v", err)), nil
	}
	return jsonResult(projects, "projects")
}

// portal_get_project
func (s *Server) getProjectTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("portal_get_project",
		mcp.WithDescription("Get one project with its tickets. Resolves the project by ID, name or unique ID prefix."),
		mcp.WithString("project", mcp.Required(), mcp.Description("Project ID or name")),
	)
	return tool, s.handleGetProject
}

func (s *Server) handleGetProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := request.RequireString("project")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: project"), nil
	}

	p, err := s.projects.Resolve(ctx, ref)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("project not found: %s", ref)), nil
	}
	tickets, err := s.tickets.ListByProject(ctx, p.ID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list tickets: %v", err)), nil
	}
	if tickets == nil {
		tickets = []*models.Ticket{}
	}

	result := struct {
		*models.Project
		Tickets []*models.Ticket `json:"tickets"`
	}{p, tickets}
	return jsonResult(result, "project")
}

// portal_list_tickets
func (s *Server) listTicketsTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("portal_list_tickets",
		mcp.WithDescription("List tickets, optionally filtered by project, status, priority and a free-text search. Returns a JSON array of tickets."),
		mcp.WithString("project", mcp.Description("Project ID or name to filter by")),
		mcp.WithString("status", mcp.Description("Status filter"), mcp.Enum(ticketStatuses()...)),
		mcp.WithString("priority", mcp.Description("Priority filter"), mcp.Enum(ticketPriorities()...)),
		mcp.WithString("search", mcp.Description("Case-insensitive text matched against title and description")),
	)
	return tool, s.handleListTickets
}

func (s *Server) handleListTickets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f := filter.Ticket{
		Search:   request.GetString("search", ""),
		Status:   models.TicketStatus(request.GetString("status", "")),
		Priority: models.TicketPriority(request.GetString("priority", "")),
	}
	if f.Status != "" && !f.Status.Valid() {
		return mcp.NewToolResultError(fmt.Sprintf("invalid status: %s", f.Status)), nil
	}
	if f.Priority != "" && !f.Priority.Valid() {
		return mcp.NewToolResultError(fmt.Sprintf("invalid priority: %s", f.Priority)), nil
	}

	if ref := request.GetString("project", ""); ref != "" {
		p, err := s.projects.Resolve(ctx, ref)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("project not found: %s", ref)), nil
		}
		f.ProjectID = p.ID
	}

	tickets, err := s.tickets.Search(ctx, f)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list tickets: %v", err)), nil
	}
	return jsonResult(tickets, "tickets")
}

// portal_create_ticket
func (s *Server) createTicketTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("portal_create_ticket",
		mcp.WithDescription("Create a ticket for a project. Returns the created ticket as JSON."),
		mcp.WithString("project", mcp.Required(), mcp.Description("Project ID or name")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Ticket title")),
		mcp.WithString("description", mcp.Description("Ticket description")),
		mcp.WithString("priority", mcp.Description("Priority (default: medium)"), mcp.Enum(ticketPriorities()...)),
		mcp.WithString("status", mcp.Description("Status (default: open)"), mcp.Enum(ticketStatuses()...)),
		mcp.WithString("assigned_to", mcp.Description("Assignee")),
	)
	return tool, s.handleCreateTicket
}

func (s *Server) handleCreateTicket(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := request.RequireString("project")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: project"), nil
	}
	title, err := request.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: title"), nil
	}

	p, err := s.projects.Resolve(ctx, ref)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("project not found: %s", ref)), nil
	}

	in := models.TicketInput{
		ProjectID:   models.Ptr(p.ID),
		Title:       models.Ptr(title),
		Description: optString(request, "description"),
		AssignedTo:  optString(request, "assigned_to"),
	}
	if v := optString(request, "priority"); v != nil {
		in.Priority = models.Ptr(models.TicketPriority(*v))
	}
	if v := optString(request, "status"); v != nil {
		in.Status = models.Ptr(models.TicketStatus(*v))
	}

	t, err := s.tickets.Create(ctx, in)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create ticket: %v", err)), nil
	}
	s.logger.Info("ticket created via mcp", "id", t.ID, "project", p.ID)
	return jsonResult(t, "ticket")
}

// portal_update_ticket
func (s *Server) updateTicketTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("portal_update_ticket",
		mcp.WithDescription("Update an existing ticket. Provide the ticket ID (full or unique prefix) and at least one field. Returns the updated ticket as JSON."),
		mcp.WithString("ticket_id", mcp.Required(), mcp.Description("Ticket ID or unique prefix")),
		mcp.WithString("status", mcp.Description("New status"), mcp.Enum(ticketStatuses()...)),
		mcp.WithString("priority", mcp.Description("New priority"), mcp.Enum(ticketPriorities()...)),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("description", mcp.Description("New description")),
		mcp.WithString("assigned_to", mcp.Description("New assignee")),
		mcp.WithString("project", mcp.Description("Move the ticket to this project (ID or name)")),
	)
	return tool, s.handleUpdateTicket
}

func (s *Server) handleUpdateTicket(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := request.RequireString("ticket_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: ticket_id"), nil
	}

	t, err := s.tickets.Resolve(ctx, ref)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ticket not found: %s", ref)), nil
	}

	in := models.TicketInput{
		Title:       optString(request, "title"),
		Description: optString(request, "description"),
		AssignedTo:  optString(request, "assigned_to"),
	}
	if v := optString(request, "status"); v != nil {
		in.Status = models.Ptr(models.TicketStatus(*v))
	}
	if v := optString(request, "priority"); v != nil {
		in.Priority = models.Ptr(models.TicketPriority(*v))
	}
	if pref := request.GetString("project", ""); pref != "" {
		p, err := s.projects.Resolve(ctx, pref)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("project not found: %s", pref)), nil
		}
		in.ProjectID = models.Ptr(p.ID)
	}

	if in == (models.TicketInput{}) {
		return mcp.NewToolResultError("no fields to update (provide status, priority, title, description, assigned_to or project)"), nil
	}

	updated, err := s.tickets.Update(ctx, t.ID, in)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to update ticket: %v", err)), nil
	}
	return jsonResult(updated, "ticket")
}

// portal_stats
func (s *Server) statsTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("portal_stats",
		mcp.WithDescription("Dashboard summary: project counts by status, active budget, ticket counts by status and priority, and open tickets per project."),
	)
	return tool, s.handleStats
}

func (s *Server) handleStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list projects: %v", err)), nil
	}
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list tickets: %v", err)), nil
	}
	return jsonResult(stats.Compute(projects, tickets), "stats")
}

// portal_project_health
func (s *Server) projectHealthTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("portal_project_health",
		mcp.WithDescription("Health score (0-100) for a project, broken down into activity recency, ticket backlog, urgent load and schedule."),
		mcp.WithString("project", mcp.Required(), mcp.Description("Project ID or name")),
	)
	return tool, s.handleProjectHealth
}

func (s *Server) handleProjectHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := request.RequireString("project")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: project"), nil
	}

	p, err := s.projects.Resolve(ctx, ref)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("project not found: %s", ref)), nil
	}
	tickets, err := s.tickets.ListByProject(ctx, p.ID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list tickets: %v", err)), nil
	}
	return jsonResult(health.NewScorer().Score(p, tickets), "health")
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func jsonResult(v any, what string) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal %s: %v", what, err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// optString returns a pointer to the argument when the caller supplied one.
func optString(request mcp.CallToolRequest, key string) *string {
	if _, ok := request.GetArguments()[key]; !ok {
		return nil
	}
	v := request.GetString(key, "")
	return &v
}

func projectStatuses() []string {
	out := make([]string, len(models.ProjectStatuses))
	for i, st := range models.ProjectStatuses {
		out[i] = string(st)
	}
	return out
}

func ticketStatuses() []string {
	out := make([]string, len(models.TicketStatuses))
	for i, st := range models.TicketStatuses {
		out[i] = string(st)
	}
	return out
}

func ticketPriorities() []string {
	out := make([]string, len(models.TicketPriorities))
	for i, p := range models.TicketPriorities {
		out[i] = string(p)
	}
	return out
}
