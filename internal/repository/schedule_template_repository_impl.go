package repository

import (
	"errors"

	"clinic-scheduler/internal/domain/entity"
	domainRepo "clinic-scheduler/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type scheduleTemplateRepository struct{}

func NewScheduleTemplateRepository() domainRepo.ScheduleTemplateRepository {
	return &scheduleTemplateRepository{}
}

func (r *scheduleTemplateRepository) Create(db *gorm.DB, template *entity.ScheduleTemplate) error {
	return db.Omit("Physician", "Branch").Create(template).Error
}

func (r *scheduleTemplateRepository) FindByID(db *gorm.DB, id int) (*entity.ScheduleTemplate, error) {
	var template entity.ScheduleTemplate
	err := db.Preload("Physician.User").Preload("Branch").Where("id = ?", id).First(&template).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &template, nil
}

func (r *scheduleTemplateRepository) FindAll(db *gorm.DB, filter entity.ScheduleTemplateFilter) ([]entity.ScheduleTemplate, error) {
	var templates []entity.ScheduleTemplate
	query := db
	if filter.PhysicianID != nil {
		query = query.Where("physician_id = ?", *filter.PhysicianID)
	}
	if filter.BranchID != 0 {
		query = query.Where("branch_id = ?", filter.BranchID)
	}
	if filter.DayOfWeek != 0 {
		query = query.Where("day_of_week = ?", filter.DayOfWeek)
	}
	if filter.ActiveOnly {
		query = query.Where("active = ?", true)
	}

	err := query.
		Preload("Physician.User").Preload("Branch").
		Order("day_of_week ASC, start_time ASC, id ASC").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *scheduleTemplateRepository) FindByPhysicianAndDay(db *gorm.DB, physicianID uuid.UUID, dayOfWeek int) ([]entity.ScheduleTemplate, error) {
	var templates []entity.ScheduleTemplate
	err := db.
		Where("physician_id = ? AND day_of_week = ? AND active = ?", physicianID, dayOfWeek, true).
		Order("start_time ASC").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *scheduleTemplateRepository) Update(db *gorm.DB, template *entity.ScheduleTemplate) error {
	return db.Omit("Physician", "Branch").Save(template).Error
}

func (r *scheduleTemplateRepository) Delete(db *gorm.DB, id int) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.ScheduleTemplate{})
	return result.RowsAffected, result.Error
}
