package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/joescharf/portal/internal/models"
	"github.com/joescharf/portal/internal/store"
)

// Resolve finds a project by exact ID, case-insensitive name, or unique ID prefix.
func (s *ProjectService) Resolve(ctx context.Context, ref string) (*models.Project, error) {
	p, err := s.store.GetProject(ctx, ref)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	projects, err := s.store.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		if strings.EqualFold(p.Name, ref) {
			return p, nil
		}
	}

	var matches []*models.Project
	for _, p := range projects {
		if hasPrefixFold(p.ID, ref) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("project %s: %w", ref, store.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("project %s matches %d projects: %w", ref, len(matches), ErrAmbiguous)
	}
}

// Resolve finds a ticket by exact ID or unique ID prefix.
func (s *TicketService) Resolve(ctx context.Context, ref string) (*models.Ticket, error) {
	t, err := s.store.GetTicket(ctx, ref)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	tickets, err := s.store.ListTickets(ctx)
	if err != nil {
		return nil, err
	}
	var matches []*models.Ticket
	for _, t := range tickets {
		if hasPrefixFold(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("ticket %s: %w", ref, store.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("ticket %s matches %d tickets: %w", ref, len(matches), ErrAmbiguous)
	}
}

func hasPrefixFold(s, prefix string) bool {
	return prefix != "" && len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
