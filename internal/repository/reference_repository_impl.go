package repository

import (
	"errors"

	"clinic-scheduler/internal/domain/entity"
	domainRepo "clinic-scheduler/internal/domain/repository"

	"gorm.io/gorm"
)

// Specialty Repository

type specialtyRepository struct{}

func NewSpecialtyRepository() domainRepo.SpecialtyRepository {
	return &specialtyRepository{}
}

func (r *specialtyRepository) FindAll(db *gorm.DB) ([]entity.Specialty, error) {
	var specialties []entity.Specialty
	if err := db.Order("name ASC").Find(&specialties).Error; err != nil {
		return nil, err
	}
	return specialties, nil
}

func (r *specialtyRepository) FindByID(db *gorm.DB, id int) (*entity.Specialty, error) {
	var specialty entity.Specialty
	err := db.Where("id = ?", id).First(&specialty).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &specialty, nil
}

// Branch Repository

type branchRepository struct{}

func NewBranchRepository() domainRepo.BranchRepository {
	return &branchRepository{}
}

func (r *branchRepository) FindAll(db *gorm.DB, activeOnly bool) ([]entity.Branch, error) {
	var branches []entity.Branch
	query := db
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Order("name ASC").Find(&branches).Error; err != nil {
		return nil, err
	}
	return branches, nil
}

func (r *branchRepository) FindByID(db *gorm.DB, id int) (*entity.Branch, error) {
	var branch entity.Branch
	err := db.Where("id = ?", id).First(&branch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &branch, nil
}

// Appointment Type Repository

type appointmentTypeRepository struct{}

func NewAppointmentTypeRepository() domainRepo.AppointmentTypeRepository {
	return &appointmentTypeRepository{}
}

func (r *appointmentTypeRepository) FindAll(db *gorm.DB, activeOnly bool) ([]entity.AppointmentType, error) {
	var types []entity.AppointmentType
	query := db
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Order("name ASC").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

func (r *appointmentTypeRepository) FindByID(db *gorm.DB, id int) (*entity.AppointmentType, error) {
	var appointmentType entity.AppointmentType
	err := db.Where("id = ?", id).First(&appointmentType).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointmentType, nil
}
