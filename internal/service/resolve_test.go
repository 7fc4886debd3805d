package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/portal/internal/service"
	"github.com/joescharf/portal/internal/store"
)

func TestProjectService_Resolve(t *testing.T) {
	projects, _ := newServices(t)
	ctx := context.Background()

	tests := []struct {
		ref    string
		wantID string
	}{
		{"proj-2", "proj-2"},
		{"mobile app", "proj-2"},
		{"DATA MIGRATION", "proj-3"},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			p, err := projects.Resolve(ctx, tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, p.ID)
		})
	}

	_, err := projects.Resolve(ctx, "proj-")
	assert.ErrorIs(t, err, service.ErrAmbiguous)

	_, err = projects.Resolve(ctx, "nothing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestTicketService_Resolve(t *testing.T) {
	_, tickets := newServices(t)
	ctx := context.Background()

	tk, err := tickets.Resolve(ctx, "ticket-3")
	require.NoError(t, err)
	assert.Equal(t, "ticket-3", tk.ID)

	tk, err = tickets.Resolve(ctx, "TICKET-4")
	require.NoError(t, err)
	assert.Equal(t, "ticket-4", tk.ID)

	_, err = tickets.Resolve(ctx, "ticket")
	assert.ErrorIs(t, err, service.ErrAmbiguous)

	_, err = tickets.Resolve(ctx, "zzz")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
