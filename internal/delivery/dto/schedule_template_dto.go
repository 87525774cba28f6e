package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// ScheduleTemplateRequest is one weekly window. Times accept HH:mm or
// HH:mm:ss; day_of_week is 1=Monday..7=Sunday.
type ScheduleTemplateRequest struct {
	BranchID    int    `json:"branch_id" validate:"required,min=1"`
	DayOfWeek   int    `json:"day_of_week" validate:"required,min=1,max=7"`
	StartTime   string `json:"start_time" validate:"required,clock"`
	EndTime     string `json:"end_time" validate:"required,clock"`
	SlotMinutes int    `json:"slot_minutes" validate:"required,min=5,max=480"`
	Active      *bool  `json:"active,omitempty"`
	Notes       string `json:"notes" validate:"omitempty,max=500"`
}

// CreateScheduleTemplatesRequest assigns several weekly windows to one
// physician. Physicians may leave physician_id empty to mean themselves.
type CreateScheduleTemplatesRequest struct {
	PhysicianID uuid.UUID                 `json:"physician_id"`
	Templates   []ScheduleTemplateRequest `json:"templates" validate:"required,min=1,max=21,dive"`
}

// ScheduleTemplateListRequest is the query of GET /schedules.
type ScheduleTemplateListRequest struct {
	PhysicianID string `json:"physician_id" validate:"omitempty,uuid"`
	BranchID    int    `json:"branch_id" validate:"omitempty,min=1"`
	DayOfWeek   int    `json:"day_of_week" validate:"omitempty,min=1,max=7"`
}

// Response DTOs

type ScheduleTemplateResponse struct {
	ID            int       `json:"id"`
	PhysicianID   uuid.UUID `json:"physician_id"`
	PhysicianName string    `json:"physician_name,omitempty"`
	BranchID      int       `json:"branch_id"`
	BranchName    string    `json:"branch_name,omitempty"`
	DayOfWeek     int       `json:"day_of_week"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	SlotMinutes   int       `json:"slot_minutes"`
	Active        bool      `json:"active"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ScheduleTemplateListResponse struct {
	Templates []ScheduleTemplateResponse `json:"templates"`
	Total     int                        `json:"total"`
}
