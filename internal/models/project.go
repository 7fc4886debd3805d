package models

import "time"

// ProjectStatus represents the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusOnHold    ProjectStatus = "on-hold"
	ProjectStatusCancelled ProjectStatus = "cancelled"
)

// ProjectStatuses lists every valid project status in display order.
var ProjectStatuses = []ProjectStatus{
	ProjectStatusActive,
	ProjectStatusCompleted,
	ProjectStatusOnHold,
	ProjectStatusCancelled,
}

// Valid reports whether s is a known project status.
func (s ProjectStatus) Valid() bool {
	for _, v := range ProjectStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Project represents a tracked unit of work with a timeline and optional budget.
type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Status      ProjectStatus `json:"status"`
	StartDate   string        `json:"startDate"`
	EndDate     string        `json:"endDate,omitempty"`
	Budget      *float64      `json:"budget,omitempty"`
	ClientID    string        `json:"clientId,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// ProjectInput carries project form data. Nil fields are "not provided",
// which lets the same type serve both create and partial update.
type ProjectInput struct {
	Name        *string        `json:"name,omitempty"`
	Description *string        `json:"description,omitempty"`
	Status      *ProjectStatus `json:"status,omitempty"`
	StartDate   *string        `json:"startDate,omitempty"`
	EndDate     *string        `json:"endDate,omitempty"`
	Budget      *float64       `json:"budget,omitempty"`
	ClientID    *string        `json:"clientId,omitempty"`
}

// Apply merges the provided fields of in into p. Timestamps and ID are untouched.
func (in ProjectInput) Apply(p *Project) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if in.StartDate != nil {
		p.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		p.EndDate = *in.EndDate
	}
	if in.Budget != nil {
		b := *in.Budget
		p.Budget = &b
	}
	if in.ClientID != nil {
		p.ClientID = *in.ClientID
	}
}

// Clone returns a deep copy of p.
func (p *Project) Clone() *Project {
	c := *p
	if p.Budget != nil {
		b := *p.Budget
		c.Budget = &b
	}
	return &c
}
