package repository

import (
	"clinic-scheduler/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientRepository interface {
	Create(db *gorm.DB, patient *entity.Patient) error
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Patient, error)
	FindByNationalID(db *gorm.DB, nationalID string) (*entity.Patient, error)
}
