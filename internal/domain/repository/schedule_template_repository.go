package repository

import (
	"clinic-scheduler/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ScheduleTemplateRepository interface {
	Create(db *gorm.DB, template *entity.ScheduleTemplate) error
	FindByID(db *gorm.DB, id int) (*entity.ScheduleTemplate, error)
	FindAll(db *gorm.DB, filter entity.ScheduleTemplateFilter) ([]entity.ScheduleTemplate, error)
	// FindByPhysicianAndDay returns the active templates of a physician on
	// one weekday across all branches.
	FindByPhysicianAndDay(db *gorm.DB, physicianID uuid.UUID, dayOfWeek int) ([]entity.ScheduleTemplate, error)
	Update(db *gorm.DB, template *entity.ScheduleTemplate) error
	Delete(db *gorm.DB, id int) (int64, error)
}
