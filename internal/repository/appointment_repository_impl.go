package repository

import (
	"errors"
	"time"

	"clinic-scheduler/internal/domain/entity"
	domainRepo "clinic-scheduler/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Omit("Patient", "Physician", "Branch", "AppointmentType").Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := r.withDetails(db).Where("appointments.id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindAll(db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	query := r.withDetails(db)

	if filter.PatientID != nil {
		query = query.Where("patient_id = ?", *filter.PatientID)
	}
	if filter.PhysicianID != nil {
		query = query.Where("physician_id = ?", *filter.PhysicianID)
	}
	if filter.BranchID != 0 {
		query = query.Where("branch_id = ?", filter.BranchID)
	}
	if filter.Date != nil {
		from := *filter.Date
		query = query.Where("scheduled_at >= ? AND scheduled_at < ?", from, from.AddDate(0, 0, 1))
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Order("scheduled_at ASC").Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindActiveInRange(db *gorm.DB, physicianID uuid.UUID, branchID int, from, to time.Time) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.
		Where("physician_id = ? AND branch_id = ? AND status != ?", physicianID, branchID, entity.AppointmentStatusCancelled).
		Where("scheduled_at >= ? AND scheduled_at < ?", from, to).
		Order("scheduled_at ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// Transition guards on the current status so two concurrent writers cannot
// both move the same appointment.
func (r *appointmentRepository) Transition(db *gorm.DB, id uuid.UUID, from entity.AppointmentStatus, changes map[string]interface{}) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND status = ?", id, from).
		Updates(changes)
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Patient.User").
		Preload("Physician.User").
		Preload("Physician.Specialty").
		Preload("Branch").
		Preload("AppointmentType")
}
