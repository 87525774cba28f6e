package dto

import "github.com/google/uuid"

// AvailabilityRequest is the query of GET /physicians/{id}/availability.
type AvailabilityRequest struct {
	BranchID int    `json:"branch_id" validate:"required,min=1"`
	Date     string `json:"date" validate:"required,date"`
}

type SlotResponse struct {
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	DurationMinutes int    `json:"duration_minutes"`
	Available       bool   `json:"available"`
	Reason          string `json:"reason,omitempty"`
	TemplateID      int    `json:"template_id,omitempty"`
}

// AvailabilityResponse is a snapshot of one physician's slots at one branch
// on one date.
type AvailabilityResponse struct {
	PhysicianID uuid.UUID      `json:"physician_id"`
	BranchID    int            `json:"branch_id"`
	Date        string         `json:"date"`
	DayOfWeek   int            `json:"day_of_week"`
	NoSchedule  bool           `json:"no_schedule"`
	Overlapping bool           `json:"overlapping"`
	Slots       []SlotResponse `json:"slots"`
}
