package models

import (
	"strings"
	"time"
)

// TicketStatus represents the workflow state of a ticket.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in-progress"
	TicketStatusReview     TicketStatus = "review"
	TicketStatusClosed     TicketStatus = "closed"
)

// TicketStatuses lists every valid ticket status in workflow order.
var TicketStatuses = []TicketStatus{
	TicketStatusOpen,
	TicketStatusInProgress,
	TicketStatusReview,
	TicketStatusClosed,
}

// Valid reports whether s is a known ticket status.
func (s TicketStatus) Valid() bool {
	for _, v := range TicketStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// TicketPriority represents the urgency of a ticket.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// TicketPriorities lists every valid priority from lowest to highest.
var TicketPriorities = []TicketPriority{
	TicketPriorityLow,
	TicketPriorityMedium,
	TicketPriorityHigh,
	TicketPriorityUrgent,
}

// Valid reports whether p is a known ticket priority.
func (p TicketPriority) Valid() bool {
	for _, v := range TicketPriorities {
		if p == v {
			return true
		}
	}
	return false
}

// ParseTicketPriority normalizes free-form text such as " High " to a known
// priority. ok is false when the text names no priority.
func ParseTicketPriority(s string) (p TicketPriority, ok bool) {
	p = TicketPriority(strings.ToLower(strings.TrimSpace(s)))
	return p, p.Valid()
}

// Ticket represents a task or issue scoped to exactly one project.
type Ticket struct {
	ID          string         `json:"id"`
	ProjectID   string         `json:"projectId"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Status      TicketStatus   `json:"status"`
	Priority    TicketPriority `json:"priority"`
	AssignedTo  string         `json:"assignedTo,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// TicketInput carries ticket form data. Nil fields are "not provided".
type TicketInput struct {
	ProjectID   *string         `json:"projectId,omitempty"`
	Title       *string         `json:"title,omitempty"`
	Description *string         `json:"description,omitempty"`
	Status      *TicketStatus   `json:"status,omitempty"`
	Priority    *TicketPriority `json:"priority,omitempty"`
	AssignedTo  *string         `json:"assignedTo,omitempty"`
}

// Apply merges the provided fields of in into t.
func (in TicketInput) Apply(t *Ticket) {
	if in.ProjectID != nil {
		t.ProjectID = *in.ProjectID
	}
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if in.Priority != nil {
		t.Priority = *in.Priority
	}
	if in.AssignedTo != nil {
		t.AssignedTo = *in.AssignedTo
	}
}

// Clone returns a copy of t.
func (t *Ticket) Clone() *Ticket {
	c := *t
	return &c
}
