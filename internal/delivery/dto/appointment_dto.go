package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

// CreateAppointmentRequest books one slot. Date is yyyy-MM-dd and Time is
// the slot start (HH:mm or HH:mm:ss) in the clinic timezone.
type CreateAppointmentRequest struct {
	PatientID         uuid.UUID `json:"patient_id" validate:"required"`
	PhysicianID       uuid.UUID `json:"physician_id" validate:"required"`
	BranchID          int       `json:"branch_id" validate:"required,min=1"`
	AppointmentTypeID *int      `json:"appointment_type_id,omitempty" validate:"omitempty,min=1"`
	Date              string    `json:"date" validate:"required,date"`
	Time              string    `json:"time" validate:"required,clock"`
	Reason            string    `json:"reason" validate:"required,notblank,max=1000"`
	Mode              string    `json:"mode" validate:"required,oneof=in_person virtual"`
	MeetingLink       string    `json:"meeting_link" validate:"required_if=Mode virtual,max=500"`
	Notes             string    `json:"notes" validate:"omitempty,max=1000"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason" validate:"required,notblank,max=500"`
}

// AppointmentListRequest is the query of GET /appointments.
type AppointmentListRequest struct {
	PatientID   string `json:"patient_id" validate:"omitempty,uuid"`
	PhysicianID string `json:"physician_id" validate:"omitempty,uuid"`
	BranchID    int    `json:"branch_id" validate:"omitempty,min=1"`
	Date        string `json:"date" validate:"omitempty,date"`
	Status      string `json:"status" validate:"omitempty,oneof=scheduled confirmed completed cancelled"`
}

// Response DTOs

type AppointmentResponse struct {
	ID                  uuid.UUID        `json:"id"`
	PatientID           uuid.UUID        `json:"patient_id"`
	PatientName         string           `json:"patient_name,omitempty"`
	PhysicianID         uuid.UUID        `json:"physician_id"`
	PhysicianName       string           `json:"physician_name,omitempty"`
	SpecialtyName       string           `json:"specialty_name,omitempty"`
	BranchID            int              `json:"branch_id"`
	BranchName          string           `json:"branch_name,omitempty"`
	AppointmentTypeID   *int             `json:"appointment_type_id,omitempty"`
	AppointmentTypeName string           `json:"appointment_type_name,omitempty"`
	Fee                 *decimal.Decimal `json:"fee,omitempty"`
	Date                string           `json:"date"`
	Time                string           `json:"time"`
	ScheduledAt         time.Time        `json:"scheduled_at"`
	DurationMinutes     int              `json:"duration_minutes"`
	Status              string           `json:"status"`
	Reason              string           `json:"reason"`
	Mode                string           `json:"mode"`
	MeetingLink         string           `json:"meeting_link,omitempty"`
	Notes               string           `json:"notes,omitempty"`
	CancelledAt         *time.Time       `json:"cancelled_at,omitempty"`
	CancellationReason  string           `json:"cancellation_reason,omitempty"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
