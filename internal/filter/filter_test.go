package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joescharf/portal/internal/models"
)

func names(projects []*models.Project) []string {
	out := make([]string, 0, len(projects))
	for _, p := range projects {
		out = append(out, p.Name)
	}
	return out
}

func TestProjectFilter(t *testing.T) {
	projects := []*models.Project{
		{Name: "Alpha", Description: "x", Status: models.ProjectStatusActive},
		{Name: "Beta", Description: "alpha thing", Status: models.ProjectStatusCompleted},
		{Name: "Beta two", Description: "", Status: models.ProjectStatusActive},
		{Name: "Gamma", Description: "unrelated", Status: models.ProjectStatusCompleted},
	}

	tests := []struct {
		name   string
		filter Project
		want   []string
	}{
		{"empty passes everything", Project{}, []string{"Alpha", "Beta", "Beta two", "Gamma"}},
		{"search matches name or description case-insensitively", Project{Search: "alpha"}, []string{"Alpha", "Beta"}},
		{"upper-case query", Project{Search: "ALPHA"}, []string{"Alpha", "Beta"}},
		{"status only", Project{Status: models.ProjectStatusCompleted}, []string{"Beta", "Gamma"}},
		{"search and status combine with AND", Project{Search: "Beta", Status: models.ProjectStatusCompleted}, []string{"Beta"}},
		{"no match", Project{Search: "delta"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(tt.filter.Apply(projects)))
		})
	}
}

func TestTicketFilter(t *testing.T) {
	tickets := []*models.Ticket{
		{ID: "1", ProjectID: "p1", Title: "Login crash", Status: models.TicketStatusOpen, Priority: models.TicketPriorityUrgent},
		{ID: "2", ProjectID: "p1", Title: "Docs", Description: "explain login", Status: models.TicketStatusClosed, Priority: models.TicketPriorityLow},
		{ID: "3", ProjectID: "p2", Title: "Login page", Status: models.TicketStatusOpen, Priority: models.TicketPriorityLow},
	}

	ids := func(ts []*models.Ticket) []string {
		out := []string{}
		for _, tk := range ts {
			out = append(out, tk.ID)
		}
		return out
	}

	assert.Equal(t, []string{"1", "2", "3"}, ids(Ticket{Search: "LOGIN"}.Apply(tickets)))
	assert.Equal(t, []string{"1", "3"}, ids(Ticket{Status: models.TicketStatusOpen}.Apply(tickets)))
	assert.Equal(t, []string{"3"}, ids(Ticket{Status: models.TicketStatusOpen, Priority: models.TicketPriorityLow}.Apply(tickets)))
	assert.Equal(t, []string{"1", "2"}, ids(Ticket{ProjectID: "p1"}.Apply(tickets)))
	assert.Equal(t, []string{}, ids(Ticket{ProjectID: "p2", Status: models.TicketStatusClosed}.Apply(tickets)))
}
