// Package sample holds the static data used to seed an empty local store.
package sample

import (
	"time"

	"github.com/joescharf/portal/internal/models"
)

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func budget(v float64) *float64 { return &v }

// Projects returns a fresh copy of the sample projects.
func Projects() []*models.Project {
	return []*models.Project{
		{
			ID:          "proj-1",
			Name:        "Website Redesign",
			Description: "Refresh the marketing site with the new brand guidelines",
			Status:      models.ProjectStatusActive,
			StartDate:   "2025-01-15",
			EndDate:     "2025-04-30",
			Budget:      budget(15000),
			CreatedAt:   ts("2025-01-10T09:00:00Z"),
			UpdatedAt:   ts("2025-02-01T14:30:00Z"),
		},
		{
			ID:          "proj-2",
			Name:        "Mobile App",
			Description: "Customer-facing iOS and Android app for order tracking",
			Status:      models.ProjectStatusOnHold,
			StartDate:   "2025-02-01",
			Budget:      budget(42000),
			CreatedAt:   ts("2025-01-20T10:15:00Z"),
			UpdatedAt:   ts("2025-03-05T08:00:00Z"),
		},
		{
			ID:          "proj-3",
			Name:        "Data Migration",
			Description: "Move legacy CRM records into the new customer database",
			Status:      models.ProjectStatusCompleted,
			StartDate:   "2024-10-01",
			EndDate:     "2024-12-20",
			Budget:      budget(8000),
			CreatedAt:   ts("2024-09-25T12:00:00Z"),
			UpdatedAt:   ts("2024-12-20T17:45:00Z"),
		},
	}
}

// Tickets returns a fresh copy of the sample tickets.
func Tickets() []*models.Ticket {
	return []*models.Ticket{
		{
			ID:          "ticket-1",
			ProjectID:   "proj-1",
			Title:       "Design new homepage",
			Description: "Create mockups for the landing page hero and navigation",
			Status:      models.TicketStatusInProgress,
			Priority:    models.TicketPriorityHigh,
			AssignedTo:  "Alex Kim",
			CreatedAt:   ts("2025-01-16T09:00:00Z"),
			UpdatedAt:   ts("2025-01-28T11:00:00Z"),
		},
		{
			ID:          "ticket-2",
			ProjectID:   "proj-1",
			Title:       "Set up staging environment",
			Description: "Provision a staging host for design reviews",
			Status:      models.TicketStatusOpen,
			Priority:    models.TicketPriorityMedium,
			CreatedAt:   ts("2025-01-17T13:20:00Z"),
			UpdatedAt:   ts("2025-01-17T13:20:00Z"),
		},
		{
			ID:          "ticket-3",
			ProjectID:   "proj-2",
			Title:       "Push notification crash on Android 14",
			Description: "App crashes when a notification arrives while backgrounded",
			Status:      models.TicketStatusReview,
			Priority:    models.TicketPriorityUrgent,
			AssignedTo:  "Sam Rivera",
			CreatedAt:   ts("2025-02-10T08:45:00Z"),
			UpdatedAt:   ts("2025-03-01T16:10:00Z"),
		},
		{
			ID:          "ticket-4",
			ProjectID:   "proj-3",
			Title:       "Verify migrated contact counts",
			Description: "Compare record counts between legacy CRM and new database",
			Status:      models.TicketStatusClosed,
			Priority:    models.TicketPriorityLow,
			CreatedAt:   ts("2024-12-01T10:00:00Z"),
			UpdatedAt:   ts("2024-12-18T15:00:00Z"),
		},
	}
}
