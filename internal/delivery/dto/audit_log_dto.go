package dto

import (
	"time"

	"github.com/google/uuid"
)

// AuditLogListRequest is the query of GET /audit-logs.
type AuditLogListRequest struct {
	UserID string `json:"user_id" validate:"omitempty,uuid"`
	Action string `json:"action" validate:"omitempty,max=100"`
	Limit  int    `json:"limit" validate:"omitempty,min=1,max=1000"`
}

// Response DTOs

type AuditLogResponse struct {
	ID        int64                  `json:"id"`
	UserID    *uuid.UUID             `json:"user_id,omitempty"`
	UserName  string                 `json:"user_name,omitempty"`
	UserRole  string                 `json:"user_role,omitempty"`
	Action    string                 `json:"action"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type AuditLogListResponse struct {
	Logs  []AuditLogResponse `json:"logs"`
	Total int                `json:"total"`
}
