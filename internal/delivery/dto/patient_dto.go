package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// RegisterPatientRequest creates the login identity and the clinical profile
// in one step. Used by self-registration and by the front desk.
type RegisterPatientRequest struct {
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=6"`
	FullName         string `json:"full_name" validate:"required,min=2,max=255"`
	NationalID       string `json:"national_id" validate:"required,min=5,max=20"`
	Phone            string `json:"phone" validate:"omitempty,min=7,max=20"`
	DateOfBirth      string `json:"date_of_birth" validate:"omitempty,date"`
	Gender           string `json:"gender" validate:"omitempty,oneof=M F"`
	Address          string `json:"address"`
	BloodType        string `json:"blood_type" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Allergies        string `json:"allergies"`
	MedicalHistory   string `json:"medical_history"`
	EmergencyContact string `json:"emergency_contact" validate:"omitempty,max=255"`
	EmergencyPhone   string `json:"emergency_phone" validate:"omitempty,min=7,max=20"`
	InsuranceNumber  string `json:"insurance_number" validate:"omitempty,max=50"`
}

// Response DTOs

type PatientResponse struct {
	UserID           uuid.UUID `json:"user_id"`
	FullName         string    `json:"full_name,omitempty"`
	Email            string    `json:"email,omitempty"`
	NationalID       string    `json:"national_id"`
	Phone            string    `json:"phone,omitempty"`
	DateOfBirth      string    `json:"date_of_birth,omitempty"`
	Gender           string    `json:"gender,omitempty"`
	Address          string    `json:"address,omitempty"`
	BloodType        string    `json:"blood_type,omitempty"`
	Allergies        string    `json:"allergies,omitempty"`
	MedicalHistory   string    `json:"medical_history,omitempty"`
	EmergencyContact string    `json:"emergency_contact,omitempty"`
	EmergencyPhone   string    `json:"emergency_phone,omitempty"`
	InsuranceNumber  string    `json:"insurance_number,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
