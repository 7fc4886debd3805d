package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/joescharf/portal/internal/filter"
	"github.com/joescharf/portal/internal/health"
	"github.com/joescharf/portal/internal/models"
	"github.com/joescharf/portal/internal/service"
	"github.com/joescharf/portal/internal/stats"
	"github.com/joescharf/portal/internal/store"
)

// Server provides the REST API handlers.
type Server struct {
	projects *service.ProjectService
	tickets  *service.TicketService
	logger   *slog.Logger
	apiKey   string
	enricher service.Enricher
}

// NewServer creates a new API server. When apiKey is non-empty every
// /api route requires a matching X-API-Key header.
func NewServer(projects *service.ProjectService, tickets *service.TicketService, logger *slog.Logger, apiKey string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		projects: projects,
		tickets:  tickets,
		logger:   logger,
		apiKey:   apiKey,
	}
}

// SetEnricher enables POST /api/tickets/{id}/enrich. A nil enricher makes it answer 503.
func (s *Server) SetEnricher(e service.Enricher) {
	s.enricher = e
}

// Router returns an http.Handler for the API routes.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/projects", s.listProjects)
	mux.HandleFunc("POST /api/projects", s.createProject)
	mux.HandleFunc("GET /api/projects/{id}", s.getProject)
	mux.HandleFunc("PUT /api/projects/{id}", s.updateProject)
	mux.HandleFunc("DELETE /api/projects/{id}", s.deleteProject)
	mux.HandleFunc("GET /api/projects/{id}/tickets", s.listProjectTickets)
	mux.HandleFunc("GET /api/projects/{id}/health", s.projectHealth)

	mux.HandleFunc("GET /api/tickets", s.listTickets)
	mux.HandleFunc("POST /api/tickets", s.createTicket)
	mux.HandleFunc("GET /api/tickets/{id}", s.getTicket)
	mux.HandleFunc("PUT /api/tickets/{id}", s.updateTicket)
	mux.HandleFunc("DELETE /api/tickets/{id}", s.deleteTicket)
	mux.HandleFunc("POST /api/tickets/{id}/enrich", s.enrichTicket)

	mux.HandleFunc("GET /api/stats", s.stats)

	root := http.NewServeMux()
	root.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	root.Handle("/api/", s.authMiddleware(mux))

	return requestIDMiddleware(s.logMiddleware(corsMiddleware(root)))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps domain errors onto HTTP status codes.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrUnknownProject):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err, "request_id", RequestID(r.Context()))
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// --- Projects ---

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := filter.Project{
		Search: q.Get("search"),
		Status: models.ProjectStatus(q.Get("status")),
	}
	projects, err := s.projects.Search(r.Context(), f)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	project, err := s.projects.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	var in models.ProjectInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	p, err := s.projects.Create(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) updateProject(w http.ResponseWriter, r *http.Request) {
	// Absent keys decode to nil and are left untouched.
	var in models.ProjectInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	p, err := s.projects.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	removed, err := s.projects.Delete(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "project not found: "+id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listProjectTickets(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.projects.Get(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	tickets, err := s.tickets.ListByProject(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if tickets == nil {
		tickets = []*models.Ticket{}
	}
	writeJSON(w, http.StatusOK, tickets)
}

func (s *Server) projectHealth(w http.ResponseWriter, r *http.Request) {
	p, err := s.projects.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	tickets, err := s.tickets.ListByProject(r.Context(), p.ID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, health.NewScorer().Score(p, tickets))
}

// --- Tickets ---

func (s *Server) listTickets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := filter.Ticket{
		ProjectID: q.Get("projectId"),
		Search:    q.Get("search"),
		Status:    models.TicketStatus(q.Get("status")),
		Priority:  models.TicketPriority(q.Get("priority")),
	}
	tickets, err := s.tickets.Search(r.Context(), f)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tickets)
}

func (s *Server) getTicket(w http.ResponseWriter, r *http.Request) {
	t, err := s.tickets.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) createTicket(w http.ResponseWriter, r *http.Request) {
	var in models.TicketInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	t, err := s.tickets.Create(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) updateTicket(w http.ResponseWriter, r *http.Request) {
	var in models.TicketInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	t, err := s.tickets.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) deleteTicket(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	removed, err := s.tickets.Delete(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "ticket not found: "+id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// enrichTicket applies an LLM suggestion to a ticket and returns the updated ticket.
func (s *Server) enrichTicket(w http.ResponseWriter, r *http.Request) {
	if s.enricher == nil {
		writeError(w, http.StatusServiceUnavailable, "LLM not configured (set anthropic.api_key)")
		return
	}

	t, _, err := s.tickets.Enrich(r.Context(), r.PathValue("id"), s.enricher, true)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// --- Stats ---

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	projects, err := s.projects.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	tickets, err := s.tickets.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats.Compute(projects, tickets))
}
