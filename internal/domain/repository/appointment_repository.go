package repository

import (
	"time"

	"clinic-scheduler/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindAll(db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, error)
	// FindActiveInRange returns non-cancelled appointments of a physician at a
	// branch with scheduled_at in [from, to).
	FindActiveInRange(db *gorm.DB, physicianID uuid.UUID, branchID int, from, to time.Time) ([]entity.Appointment, error)
	// Transition applies changes only while the row still has status from.
	// The affected row count is 0 when another writer got there first.
	Transition(db *gorm.DB, id uuid.UUID, from entity.AppointmentStatus, changes map[string]interface{}) (int64, error)
}
