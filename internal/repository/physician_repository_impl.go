package repository

import (
	"errors"

	"clinic-scheduler/internal/domain/entity"
	domainRepo "clinic-scheduler/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type physicianRepository struct{}

func NewPhysicianRepository() domainRepo.PhysicianRepository {
	return &physicianRepository{}
}

// Create inserts the physician together with its User association.
func (r *physicianRepository) Create(db *gorm.DB, physician *entity.Physician) error {
	return db.Omit("Specialty", "Templates").Create(physician).Error
}

func (r *physicianRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Physician, error) {
	var physician entity.Physician
	err := db.Preload("User").
		Preload("Specialty").
		Preload("Templates", "active = ?", true).
		Where("user_id = ?", userID).
		First(&physician).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &physician, nil
}

// FindAll lists physicians joined with their user row, optionally filtered by
// specialty, name (ILIKE) and active flag.
func (r *physicianRepository) FindAll(db *gorm.DB, filter domainRepo.PhysicianFilter) ([]entity.Physician, error) {
	var physicians []entity.Physician
	query := db.Joins("JOIN users ON users.id = physicians.user_id")

	if filter.SpecialtyID != 0 {
		query = query.Where("physicians.specialty_id = ?", filter.SpecialtyID)
	}
	if filter.Name != "" {
		query = query.Where("users.full_name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.ActiveOnly {
		query = query.Where("physicians.active = ? AND users.is_active = ?", true, true)
	}

	err := query.
		Preload("User").
		Preload("Specialty").
		Preload("Templates", "active = ?", true).
		Order("users.full_name ASC").
		Find(&physicians).Error
	if err != nil {
		return nil, err
	}
	return physicians, nil
}

func (r *physicianRepository) Update(db *gorm.DB, physician *entity.Physician) error {
	return db.Omit("User", "Specialty", "Templates").Save(physician).Error
}
