package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joescharf/portal/internal/llm"
	"github.com/joescharf/portal/internal/models"
)

func TestClassifyTicketPriority(t *testing.T) {
	tests := []struct {
		text     string
		expected models.TicketPriority
	}{
		// Urgent keywords
		{"Checkout outage since deploy", models.TicketPriorityUrgent},
		{"Production down after DNS change", models.TicketPriorityUrgent},
		{"Possible security hole in login", models.TicketPriorityUrgent},
		{"Customer reports data loss on import", models.TicketPriorityUrgent},

		// High keywords
		{"App crash on startup", models.TicketPriorityHigh},
		{"Critical: invoices not sent", models.TicketPriorityHigh},
		{"Upload fails for large files", models.TicketPriorityHigh},
		{"Users cannot reset password", models.TicketPriorityHigh},

		// Low keywords
		{"Minor alignment issue in footer", models.TicketPriorityLow},
		{"Typo on pricing page", models.TicketPriorityLow},
		{"Cosmetic: button color", models.TicketPriorityLow},
		{"Nice to have: dark mode", models.TicketPriorityLow},

		// Medium (default)
		{"Add export to CSV", models.TicketPriorityMedium},
		{"Update copy on about page", models.TicketPriorityMedium},
		{"", models.TicketPriorityMedium},

		// Precedence
		{"Minor crash in settings", models.TicketPriorityHigh},
		{"Urgent typo on homepage", models.TicketPriorityUrgent},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifyTicketPriority(tt.text))
		})
	}
}

type cannedEnricher struct {
	priority string
	err      error
}

func (c cannedEnricher) EnrichTicket(context.Context, string, string, string) (*llm.EnrichedTicket, error) {
	if c.err != nil {
		return nil, c.err
	}
	return &llm.EnrichedTicket{Priority: c.priority}, nil
}

func TestSuggestPriority(t *testing.T) {
	testEnv(t)
	ctx := context.Background()

	tests := []struct {
		name string
		e    cannedEnricher
		want models.TicketPriority
	}{
		{"exact", cannedEnricher{priority: "low"}, models.TicketPriorityLow},
		{"padded mixed case", cannedEnricher{priority: " High \n"}, models.TicketPriorityHigh},
		{"unknown falls back to keywords", cannedEnricher{priority: "asap"}, models.TicketPriorityUrgent},
		{"error falls back to keywords", cannedEnricher{err: errors.New("rate limited")}, models.TicketPriorityUrgent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, suggestPriority(ctx, tt.e, "Checkout outage", "", "Website Redesign"))
		})
	}

	assert.Equal(t, models.TicketPriorityUrgent, suggestPriority(ctx, nil, "Checkout outage", "", "Website Redesign"))
}
