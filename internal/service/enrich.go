package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/joescharf/portal/internal/llm"
	"github.com/joescharf/portal/internal/models"
)

// Enricher proposes a better description and a priority for a ticket.
type Enricher interface {
	EnrichTicket(ctx context.Context, title, description, project string) (*llm.EnrichedTicket, error)
}

// Enrichment is an enricher's proposal, normalized. Priority is empty when
// the proposal was not a known priority.
type Enrichment struct {
	Description string                `json:"description"`
	Priority    models.TicketPriority `json:"priority,omitempty"`
}

// Enrich asks e about ticket id. With apply set, the proposal is written back
// and the updated ticket is returned; otherwise the ticket is unchanged.
func (s *TicketService) Enrich(ctx context.Context, id string, e Enricher, apply bool) (*models.Ticket, *Enrichment, error) {
	t, err := s.store.GetTicket(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	var projectName string
	if p, err := s.store.GetProject(ctx, t.ProjectID); err == nil {
		projectName = p.Name
	}

	raw, err := e.EnrichTicket(ctx, t.Title, t.Description, projectName)
	if err != nil {
		return nil, nil, fmt.Errorf("enrich ticket %s: %w", id, err)
	}

	out := &Enrichment{Description: strings.TrimSpace(raw.Description)}
	if p, ok := models.ParseTicketPriority(raw.Priority); ok {
		out.Priority = p
	} else if raw.Priority != "" {
		s.logger.Warn("enricher suggested unknown priority", "ticket", id, "priority", raw.Priority)
	}

	if !apply {
		return t, out, nil
	}

	var in models.TicketInput
	if out.Description != "" {
		in.Description = models.Ptr(out.Description)
	}
	if out.Priority != "" {
		in.Priority = models.Ptr(out.Priority)
	}
	if in == (models.TicketInput{}) {
		return t, out, nil
	}

	updated, err := s.store.UpdateTicket(ctx, id, in)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Debug("ticket enriched", "id", id, "priority", out.Priority)
	return updated, out, nil
}
