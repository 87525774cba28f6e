package entity

import (
	"time"

	"github.com/google/uuid"
)

// ScheduleTemplate is a recurring weekly availability window of a physician
// at one branch. DayOfWeek is ISO: 1=Monday..7=Sunday.
type ScheduleTemplate struct {
	ID          int       `gorm:"primaryKey;autoIncrement" json:"id"`
	PhysicianID uuid.UUID `gorm:"type:uuid;not null;index:idx_templates_physician_day" json:"physician_id"`
	BranchID    int       `gorm:"not null;index" json:"branch_id"`
	DayOfWeek   int       `gorm:"not null;index:idx_templates_physician_day" json:"day_of_week"`
	StartTime   string    `gorm:"type:time;not null" json:"start_time"`
	EndTime     string    `gorm:"type:time;not null" json:"end_time"`
	SlotMinutes int       `gorm:"not null" json:"slot_minutes"`
	Active      bool      `gorm:"not null;default:true" json:"active"`
	Notes       string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Physician Physician `gorm:"foreignKey:PhysicianID" json:"physician,omitempty"`
	Branch    Branch    `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
}

func (ScheduleTemplate) TableName() string {
	return "schedule_templates"
}

// ScheduleTemplateFilter narrows template listings. Zero values match all.
type ScheduleTemplateFilter struct {
	PhysicianID *uuid.UUID
	BranchID    int
	DayOfWeek   int
	ActiveOnly  bool
}
