package store

import (
	"context"
	"errors"

	"github.com/joescharf/portal/internal/models"
)

var (
	// ErrNotFound is returned (wrapped) when a requested record doesn't exist.
	ErrNotFound = errors.New("not found")
	// ErrUnknownProject is returned (wrapped) when a ticket write names a
	// project that doesn't exist.
	ErrUnknownProject = errors.New("unknown project")
)

// Fixed keys under which the local adapter stores each collection.
const (
	ProjectsKey = "customer_portal_projects"
	TicketsKey  = "customer_portal_tickets"
)

// Store is the persistence contract shared by the local and remote adapters.
// Create and Update take form data; the adapter owns id and timestamp assignment.
// Ticket writes must reference an existing project, and DeleteProject removes
// the project's tickets together with the project.
type Store interface {
	// Projects
	ListProjects(ctx context.Context) ([]*models.Project, error)
	GetProject(ctx context.Context, id string) (*models.Project, error)
	CreateProject(ctx context.Context, in models.ProjectInput) (*models.Project, error)
	UpdateProject(ctx context.Context, id string, in models.ProjectInput) (*models.Project, error)
	DeleteProject(ctx context.Context, id string) (bool, error)

	// Tickets
	ListTickets(ctx context.Context) ([]*models.Ticket, error)
	ListTicketsByProject(ctx context.Context, projectID string) ([]*models.Ticket, error)
	GetTicket(ctx context.Context, id string) (*models.Ticket, error)
	CreateTicket(ctx context.Context, in models.TicketInput) (*models.Ticket, error)
	UpdateTicket(ctx context.Context, id string, in models.TicketInput) (*models.Ticket, error)
	DeleteTicket(ctx context.Context, id string) (bool, error)

	// Lifecycle
	Close() error
}

// UpdateFunc receives the current value of a key (ok=false when absent) and
// returns the value to store. Returning a nil slice leaves the key untouched.
type UpdateFunc func(cur []byte, ok bool) ([]byte, error)

// KV is a durable key/value backend with atomic per-key read-modify-write.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Update(ctx context.Context, key string, fn UpdateFunc) error
	Close() error
}
