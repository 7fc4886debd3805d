package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/joescharf/portal/internal/filter"
	"github.com/joescharf/portal/internal/models"
	"github.com/joescharf/portal/internal/store"
)

// TicketService handles ticket operations. Every ticket it writes references
// an existing project.
type TicketService struct {
	store  store.Store
	logger *slog.Logger
}

// NewTicketService creates a new ticket service.
func NewTicketService(s store.Store, logger *slog.Logger) *TicketService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TicketService{store: s, logger: logger}
}

// List returns all tickets in storage order.
func (s *TicketService) List(ctx context.Context) ([]*models.Ticket, error) {
	return s.store.ListTickets(ctx)
}

// ListByProject returns the tickets of one project in their original relative order.
func (s *TicketService) ListByProject(ctx context.Context, projectID string) ([]*models.Ticket, error) {
	return s.store.ListTicketsByProject(ctx, projectID)
}

// Search returns the tickets matching f.
func (s *TicketService) Search(ctx context.Context, f filter.Ticket) ([]*models.Ticket, error) {
	var (
		tickets []*models.Ticket
		err     error
	)
	if f.ProjectID != "" {
		tickets, err = s.store.ListTicketsByProject(ctx, f.ProjectID)
	} else {
		tickets, err = s.store.ListTickets(ctx)
	}
	if err != nil {
		return nil, err
	}
	return f.Apply(tickets), nil
}

// Get fetches a ticket by ID.
func (s *TicketService) Get(ctx context.Context, id string) (*models.Ticket, error) {
	return s.store.GetTicket(ctx, id)
}

// Create validates the form data, applies defaults, and stores a new ticket.
func (s *TicketService) Create(ctx context.Context, in models.TicketInput) (*models.Ticket, error) {
	if err := validateTicket(in, true); err != nil {
		return nil, err
	}
	if err := s.checkProject(ctx, *in.ProjectID); err != nil {
		return nil, err
	}
	if in.Status == nil {
		in.Status = models.Ptr(models.TicketStatusOpen)
	}
	if in.Priority == nil {
		in.Priority = models.Ptr(models.TicketPriorityMedium)
	}
	if in.Description == nil {
		in.Description = models.Ptr("")
	}

	t, err := s.store.CreateTicket(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("creating ticket: %w", err)
	}
	s.logger.Debug("ticket created", "id", t.ID, "project", t.ProjectID)
	return t, nil
}

// Update merges the provided fields into an existing ticket. Moving a ticket
// to another project requires that project to exist.
func (s *TicketService) Update(ctx context.Context, id string, in models.TicketInput) (*models.Ticket, error) {
	if err := validateTicket(in, false); err != nil {
		return nil, err
	}
	if in.ProjectID != nil {
		if err := s.checkProject(ctx, *in.ProjectID); err != nil {
			return nil, err
		}
	}
	t, err := s.store.UpdateTicket(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("ticket updated", "id", t.ID)
	return t, nil
}

// Delete removes a ticket, reporting false if it didn't exist.
func (s *TicketService) Delete(ctx context.Context, id string) (bool, error) {
	return s.store.DeleteTicket(ctx, id)
}

func (s *TicketService) checkProject(ctx context.Context, projectID string) error {
	if _, err := s.store.GetProject(ctx, projectID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrUnknownProject, projectID)
		}
		return err
	}
	return nil
}
