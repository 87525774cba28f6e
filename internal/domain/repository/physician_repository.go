package repository

import (
	"clinic-scheduler/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PhysicianFilter narrows physician listings. Zero values match all.
type PhysicianFilter struct {
	SpecialtyID int
	Name        string
	ActiveOnly  bool
}

type PhysicianRepository interface {
	Create(db *gorm.DB, physician *entity.Physician) error
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Physician, error)
	FindAll(db *gorm.DB, filter PhysicianFilter) ([]entity.Physician, error)
	Update(db *gorm.DB, physician *entity.Physician) error
}
