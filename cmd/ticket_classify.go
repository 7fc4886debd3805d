package cmd

import (
	"strings"

	"github.com/joescharf/portal/internal/models"
)

// classifyTicketPriority infers a ticket priority from its text using keyword
// heuristics. Urgent keywords win over high, high over low. Defaults to medium.
func classifyTicketPriority(text string) models.TicketPriority {
	lower := strings.ToLower(text)

	urgentKeywords := []string{
		"urgent", "outage", "production down", "site down", "data loss",
		"security", "breach", "p0", "asap",
	}
	for _, kw := range urgentKeywords {
		if strings.Contains(lower, kw) {
			return models.TicketPriorityUrgent
		}
	}

	highKeywords := []string{
		"critical", "blocker", "blocking", "crash", "broken",
		"cannot", "can't", "fails", "failing", "p1",
	}
	for _, kw := range highKeywords {
		if strings.Contains(lower, kw) {
			return models.TicketPriorityHigh
		}
	}

	lowKeywords := []string{
		"minor", "nice to have", "cosmetic", "trivial", "typo",
		"low priority", "cleanup", "clean up", "someday",
	}
	for _, kw := range lowKeywords {
		if strings.Contains(lower, kw) {
			return models.TicketPriorityLow
		}
	}

	return models.TicketPriorityMedium
}
