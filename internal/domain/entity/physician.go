package entity

import "github.com/google/uuid"

// Physician holds physician-specific profile data keyed by the user id
type Physician struct {
	UserID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	NationalID    string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"national_id"`
	LicenseNumber string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"license_number"`
	SpecialtyID   int       `gorm:"not null;index" json:"specialty_id"`
	Phone         string    `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Biography     string    `gorm:"type:text" json:"biography,omitempty"`
	Active        bool      `gorm:"not null;default:true;index" json:"active"`

	// Relationships
	User      User               `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Specialty Specialty          `gorm:"foreignKey:SpecialtyID" json:"specialty,omitempty"`
	Templates []ScheduleTemplate `gorm:"foreignKey:PhysicianID" json:"templates,omitempty"`
}

func (Physician) TableName() string {
	return "physicians"
}
