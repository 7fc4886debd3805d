package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/portal/internal/llm"
	"github.com/joescharf/portal/internal/models"
	"github.com/joescharf/portal/internal/store"
)

type fakeEnricher struct {
	result  *llm.EnrichedTicket
	err     error
	project string
}

func (f *fakeEnricher) EnrichTicket(_ context.Context, _, _, project string) (*llm.EnrichedTicket, error) {
	f.project = project
	return f.result, f.err
}

func TestTicketService_EnrichPreview(t *testing.T) {
	_, tickets := newServices(t)
	ctx := context.Background()

	e := &fakeEnricher{result: &llm.EnrichedTicket{Description: " Clearer text. ", Priority: "Urgent"}}
	tk, got, err := tickets.Enrich(ctx, "ticket-2", e, false)
	require.NoError(t, err)

	assert.Equal(t, "Website Redesign", e.project)
	assert.Equal(t, "Clearer text.", got.Description)
	assert.Equal(t, models.TicketPriorityUrgent, got.Priority)

	stored, err := tickets.Get(ctx, "ticket-2")
	require.NoError(t, err)
	assert.Equal(t, tk.Description, stored.Description, "preview must not write")
	assert.Equal(t, models.TicketPriorityMedium, stored.Priority)
}

func TestTicketService_EnrichApply(t *testing.T) {
	_, tickets := newServices(t)
	ctx := context.Background()

	e := &fakeEnricher{result: &llm.EnrichedTicket{Description: "Clearer text.", Priority: "whenever"}}
	tk, got, err := tickets.Enrich(ctx, "ticket-2", e, true)
	require.NoError(t, err)

	assert.Empty(t, got.Priority, "unknown priority is dropped")
	assert.Equal(t, "Clearer text.", tk.Description)
	assert.Equal(t, models.TicketPriorityMedium, tk.Priority)
}

func TestTicketService_EnrichErrors(t *testing.T) {
	_, tickets := newServices(t)
	ctx := context.Background()

	_, _, err := tickets.Enrich(ctx, "missing", &fakeEnricher{}, false)
	assert.ErrorIs(t, err, store.ErrNotFound)

	boom := errors.New("rate limited")
	_, _, err = tickets.Enrich(ctx, "ticket-1", &fakeEnricher{err: boom}, true)
	assert.ErrorIs(t, err, boom)
}
