package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnumsValid(t *testing.T) {
	assert.True(t, ProjectStatusOnHold.Valid())
	assert.False(t, ProjectStatus("on_hold").Valid())
	assert.True(t, TicketStatusInProgress.Valid())
	assert.False(t, TicketStatus("done").Valid())
	assert.True(t, TicketPriorityUrgent.Valid())
	assert.False(t, TicketPriority("").Valid())
}

func TestParseTicketPriority(t *testing.T) {
	tests := []struct {
		in   string
		want TicketPriority
		ok   bool
	}{
		{"high", TicketPriorityHigh, true},
		{" High ", TicketPriorityHigh, true},
		{"URGENT\n", TicketPriorityUrgent, true},
		{"critical", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, ok := ParseTicketPriority(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, p)
			}
		})
	}
}

func TestProjectInputApply_PreservesAbsentFields(t *testing.T) {
	budget := 1000.0
	p := &Project{
		ID:          "p1",
		Name:        "Alpha",
		Description: "first",
		Status:      ProjectStatusActive,
		StartDate:   "2025-01-01",
		Budget:      &budget,
	}

	ProjectInput{Status: Ptr(ProjectStatusCompleted)}.Apply(p)

	assert.Equal(t, ProjectStatusCompleted, p.Status)
	assert.Equal(t, "Alpha", p.Name)
	assert.Equal(t, "first", p.Description)
	assert.Equal(t, "2025-01-01", p.StartDate)
	assert.Equal(t, 1000.0, *p.Budget)
}

func TestProjectInputApply_CopiesBudget(t *testing.T) {
	b := 50.0
	in := ProjectInput{Budget: &b}
	p := &Project{}
	in.Apply(p)
	b = 75
	assert.Equal(t, 50.0, *p.Budget)
}

func TestProjectClone(t *testing.T) {
	b := 10.0
	p := &Project{ID: "p1", Budget: &b}
	c := p.Clone()
	*c.Budget = 20
	assert.Equal(t, 10.0, *p.Budget)
}

func TestTicketInputApply(t *testing.T) {
	tk := &Ticket{ID: "t1", ProjectID: "p1", Title: "Fix", Status: TicketStatusOpen, Priority: TicketPriorityLow}

	TicketInput{Priority: Ptr(TicketPriorityHigh), AssignedTo: Ptr("dana")}.Apply(tk)

	assert.Equal(t, TicketPriorityHigh, tk.Priority)
	assert.Equal(t, "dana", tk.AssignedTo)
	assert.Equal(t, "Fix", tk.Title)
	assert.Equal(t, TicketStatusOpen, tk.Status)
	assert.Equal(t, "p1", tk.ProjectID)
}
