// Package health scores how well a project is tracking, from its tickets and schedule.
package health

import (
	"time"

	"github.com/joescharf/portal/internal/models"
	"github.com/joescharf/portal/internal/stats"
)

// HealthScore represents the computed health of a project.
type HealthScore struct {
	Total           int `json:"total"`
	ActivityRecency int `json:"activityRecency"` // 0-25
	TicketBacklog   int `json:"ticketBacklog"`   // 0-30
	UrgentLoad      int `json:"urgentLoad"`      // 0-20
	Schedule        int `json:"schedule"`        // 0-25
}

// Scorer computes health scores for projects.
type Scorer struct {
	now func() time.Time
}

// NewScorer returns a new health Scorer.
func NewScorer() *Scorer {
	return &Scorer{now: time.Now}
}

// Score computes a health score (0-100) for a project from its own tickets.
func (s *Scorer) Score(project *models.Project, tickets []*models.Ticket) *HealthScore {
	now := s.now()
	h := &HealthScore{}

	// Activity recency (25 pts) - most recent project or ticket update
	last := project.UpdatedAt
	for _, t := range tickets {
		if t.UpdatedAt.After(last) {
			last = t.UpdatedAt
		}
	}
	h.ActivityRecency = scoreRecency(now, last, 25)

	// Ticket backlog (30 pts) - fewer unresolved tickets relative to total = better
	h.TicketBacklog = scoreBacklog(tickets, 30)

	// Urgent load (20 pts) - unresolved urgent and high tickets cost points
	h.UrgentLoad = scoreUrgent(tickets, 20)

	// Schedule (25 pts) - an active project past its end date is late
	h.Schedule = scoreSchedule(now, project, 25)

	h.Total = h.ActivityRecency + h.TicketBacklog + h.UrgentLoad + h.Schedule
	return h
}

// scoreRecency converts time since last activity to points.
func scoreRecency(now, t time.Time, maxPoints int) int {
	if t.IsZero() {
		return 0
	}
	days := int(now.Sub(t).Hours() / 24)
	switch {
	case days <= 1:
		return maxPoints
	case days <= 3:
		return pct(maxPoints, 90)
	case days <= 7:
		return pct(maxPoints, 75)
	case days <= 14:
		return pct(maxPoints, 60)
	case days <= 30:
		return pct(maxPoints, 40)
	case days <= 90:
		return pct(maxPoints, 20)
	default:
		return pct(maxPoints, 10)
	}
}

// scoreBacklog computes backlog health from the unresolved ratio.
func scoreBacklog(tickets []*models.Ticket, maxPoints int) int {
	if len(tickets) == 0 {
		return maxPoints // no tickets = healthy
	}

	open := 0
	for _, t := range tickets {
		if stats.Unresolved(t) {
			open++
		}
	}

	// A fully unresolved backlog keeps a fifth of the points.
	return maxPoints - maxPoints*open*4/(len(tickets)*5)
}

// pct returns percent of maxPoints, rounded down.
func pct(maxPoints, percent int) int {
	return maxPoints * percent / 100
}

// scoreUrgent takes 10 points per unresolved urgent ticket and 5 per high one.
func scoreUrgent(tickets []*models.Ticket, maxPoints int) int {
	penalty := 0
	for _, t := range tickets {
		if !stats.Unresolved(t) {
			continue
		}
		switch t.Priority {
		case models.TicketPriorityUrgent:
			penalty += 10
		case models.TicketPriorityHigh:
			penalty += 5
		}
	}
	return max(maxPoints-penalty, 0)
}

// scoreSchedule rates the project timeline. Only active projects can be late.
func scoreSchedule(now time.Time, p *models.Project, maxPoints int) int {
	switch p.Status {
	case models.ProjectStatusCompleted:
		return maxPoints
	case models.ProjectStatusCancelled:
		return 0
	case models.ProjectStatusOnHold:
		return maxPoints / 2
	}

	if p.EndDate == "" {
		return pct(maxPoints, 80) // open-ended
	}
	end, err := time.Parse(time.DateOnly, p.EndDate)
	if err != nil {
		return maxPoints / 2
	}
	daysLeft := int(end.Sub(now).Hours() / 24)
	switch {
	case daysLeft < 0:
		return pct(maxPoints, 20)
	case daysLeft <= 7:
		return pct(maxPoints, 60)
	default:
		return maxPoints
	}
}
