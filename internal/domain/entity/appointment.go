package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidStatusTransition = errors.New("invalid appointment status transition")

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusConfirmed, AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

type AppointmentMode string

const (
	AppointmentModeInPerson AppointmentMode = "in_person"
	AppointmentModeVirtual  AppointmentMode = "virtual"
)

// Appointment is a single booked visit. Rows are never deleted; cancellation
// is a status.
type Appointment struct {
	ID                 uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID          uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	PhysicianID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"physician_id"`
	BranchID           int               `gorm:"not null;index" json:"branch_id"`
	AppointmentTypeID  *int              `gorm:"index" json:"appointment_type_id,omitempty"`
	ScheduledAt        time.Time         `gorm:"not null;index" json:"scheduled_at"`
	DurationMinutes    int               `gorm:"not null" json:"duration_minutes"`
	Status             AppointmentStatus `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`
	Reason             string            `gorm:"type:text;not null" json:"reason"`
	Mode               AppointmentMode   `gorm:"type:varchar(20);not null;default:'in_person'" json:"mode"`
	MeetingLink        string            `gorm:"type:text" json:"meeting_link,omitempty"`
	Notes              string            `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy          *uuid.UUID        `gorm:"type:uuid" json:"created_by,omitempty"`
	CancelledAt        *time.Time        `json:"cancelled_at,omitempty"`
	CancellationReason string            `gorm:"type:text" json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient         Patient          `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Physician       Physician        `gorm:"foreignKey:PhysicianID" json:"physician,omitempty"`
	Branch          Branch           `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	AppointmentType *AppointmentType `gorm:"foreignKey:AppointmentTypeID" json:"appointment_type,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}

// CanTransitionTo reports whether the status may move to next. Transitions
// are forward-only: scheduled -> confirmed -> completed, scheduled ->
// completed, and cancellation from scheduled or confirmed.
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	switch a.Status {
	case AppointmentStatusScheduled:
		return next == AppointmentStatusConfirmed || next == AppointmentStatusCompleted || next == AppointmentStatusCancelled
	case AppointmentStatusConfirmed:
		return next == AppointmentStatusCompleted || next == AppointmentStatusCancelled
	default:
		return false
	}
}

func (a *Appointment) Confirm() error {
	if !a.CanTransitionTo(AppointmentStatusConfirmed) {
		return ErrInvalidStatusTransition
	}
	a.Status = AppointmentStatusConfirmed
	return nil
}

func (a *Appointment) Complete() error {
	if !a.CanTransitionTo(AppointmentStatusCompleted) {
		return ErrInvalidStatusTransition
	}
	a.Status = AppointmentStatusCompleted
	return nil
}

func (a *Appointment) Cancel(reason string, at time.Time) error {
	if !a.CanTransitionTo(AppointmentStatusCancelled) {
		return ErrInvalidStatusTransition
	}
	a.Status = AppointmentStatusCancelled
	a.CancellationReason = reason
	a.CancelledAt = &at
	return nil
}

// AppointmentFilter narrows appointment listings. Zero values match all.
// Date is matched as a calendar day in the location it carries.
type AppointmentFilter struct {
	PatientID   *uuid.UUID
	PhysicianID *uuid.UUID
	BranchID    int
	Date        *time.Time
	Status      AppointmentStatus
}
