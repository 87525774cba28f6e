package repository

import (
	"clinic-scheduler/internal/domain/entity"

	"gorm.io/gorm"
)

type SpecialtyRepository interface {
	FindAll(db *gorm.DB) ([]entity.Specialty, error)
	FindByID(db *gorm.DB, id int) (*entity.Specialty, error)
}

type BranchRepository interface {
	FindAll(db *gorm.DB, activeOnly bool) ([]entity.Branch, error)
	FindByID(db *gorm.DB, id int) (*entity.Branch, error)
}

type AppointmentTypeRepository interface {
	FindAll(db *gorm.DB, activeOnly bool) ([]entity.AppointmentType, error)
	FindByID(db *gorm.DB, id int) (*entity.AppointmentType, error)
}
