package repository

import (
	"errors"

	"clinic-scheduler/internal/domain/entity"
	domainRepo "clinic-scheduler/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type patientRepository struct{}

func NewPatientRepository() domainRepo.PatientRepository {
	return &patientRepository{}
}

// Create inserts the patient together with its User association.
func (r *patientRepository) Create(db *gorm.DB, patient *entity.Patient) error {
	return db.Create(patient).Error
}

func (r *patientRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Patient, error) {
	return r.findOne(db, "user_id = ?", userID)
}

func (r *patientRepository) FindByNationalID(db *gorm.DB, nationalID string) (*entity.Patient, error) {
	return r.findOne(db, "national_id = ?", nationalID)
}

func (r *patientRepository) findOne(db *gorm.DB, cond string, arg interface{}) (*entity.Patient, error) {
	var patient entity.Patient
	err := db.Preload("User").Where(cond, arg).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}
