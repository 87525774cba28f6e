package converter

import (
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/session"
)

// UserToResponse converts a User entity to UserResponse DTO.
// Physician and Patient profiles are included when loaded.
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	response := &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      roleName(user),
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}

	if user.Physician != nil {
		response.Physician = PhysicianToResponse(user.Physician)
	}
	if user.Patient != nil {
		response.Patient = PatientToResponse(user.Patient)
	}

	return response
}

// UserToSession builds the session of a user. ok is false when the role id
// is not one of the known roles.
func UserToSession(user *entity.User, tokenID string) (*session.Session, bool) {
	if user == nil {
		return nil, false
	}
	role, ok := session.RoleFromID(user.RoleID)
	if !ok {
		return nil, false
	}
	return &session.Session{
		UserID:   user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     role,
		TokenID:  tokenID,
	}, true
}

// SessionToResponse lists the capabilities of the session's role along with
// the full permission map.
func SessionToResponse(s *session.Session) *dto.SessionResponse {
	if s == nil {
		return nil
	}

	granted := session.Capabilities(s.Role)
	capabilities := make([]string, len(granted))
	for i, c := range granted {
		capabilities[i] = string(c)
	}

	permissions := make(map[string]bool)
	for _, c := range session.AllCapabilities() {
		permissions[string(c)] = s.Can(c)
	}

	return &dto.SessionResponse{
		UserID:       s.UserID,
		Email:        s.Email,
		FullName:     s.FullName,
		Role:         string(s.Role),
		Capabilities: capabilities,
		Permissions:  permissions,
	}
}

// SessionFromResponse rebuilds a session on the client side.
func SessionFromResponse(resp *dto.SessionResponse) (*session.Session, bool) {
	if resp == nil {
		return nil, false
	}
	role := session.Role(resp.Role)
	if !role.Valid() {
		return nil, false
	}
	return &session.Session{
		UserID:   resp.UserID,
		Email:    resp.Email,
		FullName: resp.FullName,
		Role:     role,
	}, true
}

func roleName(user *entity.User) string {
	if user.Role.RoleName != "" {
		return user.Role.RoleName
	}
	if role, ok := session.RoleFromID(user.RoleID); ok {
		return string(role)
	}
	return ""
}
