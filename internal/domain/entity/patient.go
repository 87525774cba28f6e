package entity

import (
	"time"

	"github.com/google/uuid"
)

// Patient holds the clinical profile of a patient keyed by the user id
type Patient struct {
	UserID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"user_id"`
	NationalID       string     `gorm:"type:varchar(20);uniqueIndex;not null" json:"national_id"`
	Phone            string     `gorm:"type:varchar(20);index" json:"phone,omitempty"`
	DateOfBirth      *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`
	Gender           string     `gorm:"type:char(1)" json:"gender,omitempty"`
	Address          string     `gorm:"type:text" json:"address,omitempty"`
	BloodType        string     `gorm:"type:varchar(5)" json:"blood_type,omitempty"`
	Allergies        string     `gorm:"type:text" json:"allergies,omitempty"`
	MedicalHistory   string     `gorm:"type:text" json:"medical_history,omitempty"`
	EmergencyContact string     `gorm:"type:varchar(255)" json:"emergency_contact,omitempty"`
	EmergencyPhone   string     `gorm:"type:varchar(20)" json:"emergency_phone,omitempty"`
	InsuranceNumber  string     `gorm:"type:varchar(50)" json:"insurance_number,omitempty"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Patient) TableName() string {
	return "patients"
}

// Gender constants
const (
	GenderMale   = "M"
	GenderFemale = "F"
)
