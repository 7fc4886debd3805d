// Package stats computes the dashboard summary from stored projects and tickets.
package stats

import (
	"github.com/joescharf/portal/internal/models"
)

// ProjectSummary is the per-project line of the dashboard.
type ProjectSummary struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Status      models.ProjectStatus `json:"status"`
	OpenTickets int                  `json:"openTickets"`
	Tickets     int                  `json:"tickets"`
}

// Summary holds counts across all projects and tickets.
type Summary struct {
	Projects         int                           `json:"projects"`
	Tickets          int                           `json:"tickets"`
	ProjectsByStatus map[models.ProjectStatus]int  `json:"projectsByStatus"`
	TicketsByStatus  map[models.TicketStatus]int   `json:"ticketsByStatus"`
	TicketsByPrio    map[models.TicketPriority]int `json:"ticketsByPriority"`
	ActiveBudget     float64                       `json:"activeBudget"`
	OrphanTickets    int                           `json:"orphanTickets"`
	PerProject       []ProjectSummary              `json:"perProject"`
}

// Unresolved reports whether a ticket still needs work.
func Unresolved(t *models.Ticket) bool {
	return t.Status != models.TicketStatusClosed
}

// Compute builds a Summary. PerProject follows the order of projects.
func Compute(projects []*models.Project, tickets []*models.Ticket) *Summary {
	s := &Summary{
		Projects:         len(projects),
		Tickets:          len(tickets),
		ProjectsByStatus: make(map[models.ProjectStatus]int),
		TicketsByStatus:  make(map[models.TicketStatus]int),
		TicketsByPrio:    make(map[models.TicketPriority]int),
		PerProject:       make([]ProjectSummary, 0, len(projects)),
	}

	index := make(map[string]int, len(projects))
	for i, p := range projects {
		s.ProjectsByStatus[p.Status]++
		if p.Status == models.ProjectStatusActive && p.Budget != nil {
			s.ActiveBudget += *p.Budget
		}
		index[p.ID] = i
		s.PerProject = append(s.PerProject, ProjectSummary{ID: p.ID, Name: p.Name, Status: p.Status})
	}

	for _, t := range tickets {
		s.TicketsByStatus[t.Status]++
		s.TicketsByPrio[t.Priority]++

		i, ok := index[t.ProjectID]
		if !ok {
			s.OrphanTickets++
			continue
		}
		s.PerProject[i].Tickets++
		if Unresolved(t) {
			s.PerProject[i].OpenTickets++
		}
	}

	return s
}
