// Package filter implements the list-view predicates for projects and tickets.
package filter

import (
	"strings"

	"github.com/joescharf/portal/internal/models"
)

// Project selects projects by a free-text query and an optional status.
type Project struct {
	Search string
	Status models.ProjectStatus
}

// Match reports whether p satisfies both the search and status predicates.
func (f Project) Match(p *models.Project) bool {
	return containsFold(f.Search, p.Name, p.Description) &&
		(f.Status == "" || p.Status == f.Status)
}

// Apply returns the matching projects, preserving order.
func (f Project) Apply(projects []*models.Project) []*models.Project {
	out := make([]*models.Project, 0, len(projects))
	for _, p := range projects {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// Ticket selects tickets by query, status and priority.
type Ticket struct {
	ProjectID string
	Search    string
	Status    models.TicketStatus
	Priority  models.TicketPriority
}

// Match reports whether t satisfies every set predicate.
func (f Ticket) Match(t *models.Ticket) bool {
	return (f.ProjectID == "" || t.ProjectID == f.ProjectID) &&
		containsFold(f.Search, t.Title, t.Description) &&
		(f.Status == "" || t.Status == f.Status) &&
		(f.Priority == "" || t.Priority == f.Priority)
}

// Apply returns the matching tickets, preserving order.
func (f Ticket) Apply(tickets []*models.Ticket) []*models.Ticket {
	out := make([]*models.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// containsFold reports whether any field contains query, ignoring case.
// An empty query matches everything.
func containsFold(query string, fields ...string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
