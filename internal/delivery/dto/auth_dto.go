package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Response DTOs

// TokenResponse is returned by login and refresh. Session describes the
// authenticated user so the client can build its menu without another call.
type TokenResponse struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	ExpiresIn    int64            `json:"expires_in"`
	Session      *SessionResponse `json:"session,omitempty"`
}

// SessionResponse is the current user with its role and what the role may do.
type SessionResponse struct {
	UserID       uuid.UUID       `json:"user_id"`
	Email        string          `json:"email"`
	FullName     string          `json:"full_name"`
	Role         string          `json:"role"`
	Capabilities []string        `json:"capabilities"`
	Permissions  map[string]bool `json:"permissions"`
}

type UserResponse struct {
	ID        uuid.UUID          `json:"id"`
	Email     string             `json:"email"`
	FullName  string             `json:"full_name"`
	Role      string             `json:"role"`
	IsActive  bool               `json:"is_active"`
	Physician *PhysicianResponse `json:"physician,omitempty"`
	Patient   *PatientResponse   `json:"patient,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}
