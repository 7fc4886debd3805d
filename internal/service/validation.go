package service

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/joescharf/portal/internal/models"
)

func invalid(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidInput, field, reason)
}

func validDate(field string, v *string) error {
	if v == nil || *v == "" {
		return nil
	}
	if _, err := time.Parse(time.DateOnly, *v); err != nil {
		return invalid(field, "must be a YYYY-MM-DD date")
	}
	return nil
}

func validateProject(in models.ProjectInput, creating bool) error {
	if creating && in.Name == nil {
		return invalid("name", "is required")
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return invalid("name", "must not be empty")
	}
	if in.Status != nil && !in.Status.Valid() {
		return invalid("status", fmt.Sprintf("%q is not one of %v", *in.Status, models.ProjectStatuses))
	}
	if in.Budget != nil {
		b := *in.Budget
		if math.IsNaN(b) || math.IsInf(b, 0) {
			return invalid("budget", "must be a finite number")
		}
		if b < 0 {
			return invalid("budget", "must not be negative")
		}
	}
	if err := validDate("startDate", in.StartDate); err != nil {
		return err
	}
	return validDate("endDate", in.EndDate)
}

func validateTicket(in models.TicketInput, creating bool) error {
	if creating && in.Title == nil {
		return invalid("title", "is required")
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return invalid("title", "must not be empty")
	}
	if creating && (in.ProjectID == nil || *in.ProjectID == "") {
		return invalid("projectId", "is required")
	}
	if in.Status != nil && !in.Status.Valid() {
		return invalid("status", fmt.Sprintf("%q is not one of %v", *in.Status, models.TicketStatuses))
	}
	if in.Priority != nil && !in.Priority.Valid() {
		return invalid("priority", fmt.Sprintf("%q is not one of %v", *in.Priority, models.TicketPriorities))
	}
	return nil
}
