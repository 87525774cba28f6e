package entity

import "github.com/shopspring/decimal"

type Specialty struct {
	ID          int    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
}

func (Specialty) TableName() string {
	return "specialties"
}

// Branch is a clinic location where physicians attend
type Branch struct {
	ID           int    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"type:varchar(150);uniqueIndex;not null" json:"name"`
	Address      string `gorm:"type:text" json:"address,omitempty"`
	Phone        string `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Email        string `gorm:"type:varchar(255)" json:"email,omitempty"`
	OpeningHours string `gorm:"type:varchar(150)" json:"opening_hours,omitempty"`
	Active       bool   `gorm:"not null;default:true" json:"active"`
}

func (Branch) TableName() string {
	return "branches"
}

// AppointmentType classifies a visit (general consultation, follow-up...)
// and carries its consultation fee.
type AppointmentType struct {
	ID          int             `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	Fee         decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"fee"`
	Active      bool            `gorm:"not null;default:true" json:"active"`
}

func (AppointmentType) TableName() string {
	return "appointment_types"
}
