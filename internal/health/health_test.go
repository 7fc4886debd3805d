package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/joescharf/portal/internal/models"
	"github.com/joescharf/portal/internal/stats"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestScorer() *Scorer {
	return &Scorer{now: func() time.Time { return fixedNow }}
}

func TestScore_HealthyProject(t *testing.T) {
	s := newTestScorer()

	project := &models.Project{
		Name:      "test",
		Status:    models.ProjectStatusActive,
		EndDate:   "2025-06-30",
		UpdatedAt: fixedNow.Add(-2 * time.Hour),
	}
	tickets := []*models.Ticket{
		{Status: models.TicketStatusClosed, Priority: models.TicketPriorityUrgent},
		{Status: models.TicketStatusClosed, Priority: models.TicketPriorityMedium},
	}

	h := s.Score(project, tickets)

	assert.Equal(t, 25, h.ActivityRecency, "recent activity should get full points")
	assert.Equal(t, 30, h.TicketBacklog, "all closed tickets = full points")
	assert.Equal(t, 20, h.UrgentLoad, "closed urgent tickets cost nothing")
	assert.Equal(t, 25, h.Schedule, "end date far ahead = full points")
	assert.Equal(t, 100, h.Total)
}

func TestScore_UnhealthyProject(t *testing.T) {
	s := newTestScorer()

	project := &models.Project{
		Name:      "test",
		Status:    models.ProjectStatusActive,
		EndDate:   "2025-01-31",
		UpdatedAt: fixedNow.Add(-120 * 24 * time.Hour),
	}
	tickets := []*models.Ticket{
		{Status: models.TicketStatusOpen, Priority: models.TicketPriorityUrgent, UpdatedAt: fixedNow.Add(-100 * 24 * time.Hour)},
		{Status: models.TicketStatusInProgress, Priority: models.TicketPriorityUrgent},
		{Status: models.TicketStatusReview, Priority: models.TicketPriorityHigh},
	}

	h := s.Score(project, tickets)

	assert.Equal(t, 2, h.ActivityRecency, "old activity should get few points")
	assert.Equal(t, 6, h.TicketBacklog, "all unresolved tickets = low backlog health")
	assert.Equal(t, 0, h.UrgentLoad)
	assert.Equal(t, 5, h.Schedule, "past end date = late")
	assert.Less(t, h.Total, 50, "unhealthy project should score below 50")
}

func TestScore_NoTickets(t *testing.T) {
	s := newTestScorer()

	h := s.Score(&models.Project{Status: models.ProjectStatusCompleted, UpdatedAt: fixedNow}, nil)
	assert.Equal(t, 30, h.TicketBacklog, "no tickets = full backlog health")
	assert.Equal(t, 20, h.UrgentLoad)
	assert.Equal(t, 25, h.Schedule)
}

func TestScore_TicketActivityCounts(t *testing.T) {
	s := newTestScorer()

	project := &models.Project{Status: models.ProjectStatusOnHold, UpdatedAt: fixedNow.Add(-200 * 24 * time.Hour)}
	tickets := []*models.Ticket{{Status: models.TicketStatusClosed, UpdatedAt: fixedNow.Add(-time.Hour)}}

	h := s.Score(project, tickets)
	assert.Equal(t, 25, h.ActivityRecency, "ticket updates count as project activity")
}

func TestScoreRecency(t *testing.T) {
	tests := []struct {
		name    string
		daysAgo int
		want    int
	}{
		{"today", 0, 25},
		{"this week", 5, 18},
		{"this month", 20, 10},
		{"old", 100, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := fixedNow.Add(-time.Duration(tt.daysAgo) * 24 * time.Hour)
			assert.Equal(t, tt.want, scoreRecency(fixedNow, ts, 25))
		})
	}
}

func TestScoreRecency_Zero(t *testing.T) {
	assert.Equal(t, 0, scoreRecency(fixedNow, time.Time{}, 25))
}

func TestScoreSchedule(t *testing.T) {
	p := func(status models.ProjectStatus, end string) *models.Project {
		return &models.Project{Status: status, EndDate: end}
	}

	assert.Equal(t, 25, scoreSchedule(fixedNow, p(models.ProjectStatusCompleted, "2024-01-01"), 25))
	assert.Equal(t, 0, scoreSchedule(fixedNow, p(models.ProjectStatusCancelled, ""), 25))
	assert.Equal(t, 12, scoreSchedule(fixedNow, p(models.ProjectStatusOnHold, ""), 25))
	assert.Equal(t, 20, scoreSchedule(fixedNow, p(models.ProjectStatusActive, ""), 25))
	assert.Equal(t, 15, scoreSchedule(fixedNow, p(models.ProjectStatusActive, "2025-03-05"), 25))
	assert.Equal(t, 5, scoreSchedule(fixedNow, p(models.ProjectStatusActive, "2025-02-01"), 25))
	assert.Equal(t, 12, scoreSchedule(fixedNow, p(models.ProjectStatusActive, "soon"), 25))
}

func TestScoreUrgent(t *testing.T) {
	open := func(p models.TicketPriority) *models.Ticket {
		return &models.Ticket{Status: models.TicketStatusOpen, Priority: p}
	}
	assert.Equal(t, 20, scoreUrgent(nil, 20))
	assert.Equal(t, 15, scoreUrgent([]*models.Ticket{open(models.TicketPriorityHigh), open(models.TicketPriorityLow)}, 20))
	assert.Equal(t, 5, scoreUrgent([]*models.Ticket{open(models.TicketPriorityUrgent), open(models.TicketPriorityHigh)}, 20))
}

func TestScore_UnresolvedMatchesStats(t *testing.T) {
	var tickets []*models.Ticket
	for _, st := range models.TicketStatuses {
		tickets = append(tickets, &models.Ticket{Status: st, Priority: models.TicketPriorityUrgent})
	}

	open := 0
	for _, tk := range tickets {
		if stats.Unresolved(tk) {
			open++
		}
	}
	assert.Equal(t, 3, open, "only closed tickets are resolved")

	assert.Equal(t, 12, scoreBacklog(tickets, 30))
	assert.Equal(t, 0, scoreUrgent(tickets, 20), "three unresolved urgent tickets exhaust the points")
	assert.Equal(t, 20, scoreUrgent(tickets[len(tickets)-1:], 20), "a closed urgent ticket costs nothing")
}
