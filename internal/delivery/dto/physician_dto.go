package dto

import (
	"github.com/google/uuid"
)

// Request DTOs

type RegisterPhysicianRequest struct {
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=6"`
	FullName      string `json:"full_name" validate:"required,min=2,max=255"`
	NationalID    string `json:"national_id" validate:"required,min=5,max=20"`
	LicenseNumber string `json:"license_number" validate:"required,max=50"`
	SpecialtyID   int    `json:"specialty_id" validate:"required,min=1"`
	Phone         string `json:"phone" validate:"omitempty,min=7,max=20"`
	Biography     string `json:"biography"`
}

// PhysicianListRequest is the query of GET /physicians.
type PhysicianListRequest struct {
	SpecialtyID int    `json:"specialty_id" validate:"omitempty,min=1"`
	Name        string `json:"name" validate:"omitempty,max=255"`
}

// Response DTOs

// PhysicianResponse carries the profile, its specialty and, on listings, the
// weekly templates and the branches they cover.
type PhysicianResponse struct {
	UserID        uuid.UUID                  `json:"user_id"`
	FullName      string                     `json:"full_name,omitempty"`
	Email         string                     `json:"email,omitempty"`
	NationalID    string                     `json:"national_id"`
	LicenseNumber string                     `json:"license_number"`
	Phone         string                     `json:"phone,omitempty"`
	Biography     string                     `json:"biography,omitempty"`
	Active        bool                       `json:"active"`
	Specialty     *SpecialtyResponse         `json:"specialty,omitempty"`
	BranchIDs     []int                      `json:"branch_ids,omitempty"`
	Templates     []ScheduleTemplateResponse `json:"templates,omitempty"`
}

type PhysicianListResponse struct {
	Physicians []PhysicianResponse `json:"physicians"`
	Total      int                 `json:"total"`
}
