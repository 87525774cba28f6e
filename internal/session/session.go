// Package session models who is acting: the authenticated user, their role
// and what that role may do. The API server builds a Session from JWT claims
// and the client builds one from GET /auth/me; both pass it explicitly.
package session

import (
	"context"
	"sort"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin        Role = "admin"
	RoleReceptionist Role = "receptionist"
	RolePhysician    Role = "physician"
	RolePatient      Role = "patient"
)

// Role ids as stored in the roles table.
const (
	RoleIDAdmin        = 1
	RoleIDReceptionist = 2
	RoleIDPhysician    = 3
	RoleIDPatient      = 4
)

var roleIDs = map[Role]int{
	RoleAdmin:        RoleIDAdmin,
	RoleReceptionist: RoleIDReceptionist,
	RolePhysician:    RoleIDPhysician,
	RolePatient:      RoleIDPatient,
}

// Roles lists every known role.
func Roles() []Role {
	return []Role{RoleAdmin, RoleReceptionist, RolePhysician, RolePatient}
}

func (r Role) Valid() bool {
	_, ok := roleIDs[r]
	return ok
}

func (r Role) ID() int {
	return roleIDs[r]
}

// RoleFromID maps a roles.id back to a Role.
func RoleFromID(id int) (Role, bool) {
	for role, roleID := range roleIDs {
		if roleID == id {
			return role, true
		}
	}
	return "", false
}

type Capability string

const (
	CapViewPhysicians       Capability = "view_physicians"
	CapRegisterPhysicians   Capability = "register_physicians"
	CapSearchPatients       Capability = "search_patients"
	CapRegisterPatients     Capability = "register_patients"
	CapViewSchedules        Capability = "view_schedules"
	CapManageSchedules      Capability = "manage_schedules"
	CapCreateAppointments   Capability = "create_appointments"
	CapViewAllAppointments  Capability = "view_all_appointments"
	CapViewOwnAppointments  Capability = "view_own_appointments"
	CapCancelAppointments   Capability = "cancel_appointments"
	CapConfirmAppointments  Capability = "confirm_appointments"
	CapCompleteAppointments Capability = "complete_appointments"
	CapViewAuditLogs        Capability = "view_audit_logs"
)

var grants = map[Role][]Capability{
	RoleReceptionist: {
		CapViewPhysicians,
		CapSearchPatients,
		CapRegisterPatients,
		CapViewSchedules,
		CapCreateAppointments,
		CapViewAllAppointments,
		CapCancelAppointments,
		CapConfirmAppointments,
	},
	RolePhysician: {
		CapViewPhysicians,
		CapSearchPatients,
		CapViewSchedules,
		CapManageSchedules,
		CapViewOwnAppointments,
		CapCancelAppointments,
		CapCompleteAppointments,
	},
	RolePatient: {
		CapViewPhysicians,
		CapViewSchedules,
		CapCreateAppointments,
		CapViewOwnAppointments,
		CapCancelAppointments,
	},
}

// Authorize is the single decision point for capability checks. Admins hold
// every capability; unknown roles hold none.
func Authorize(role Role, capability Capability) bool {
	if role == RoleAdmin {
		return true
	}
	for _, c := range grants[role] {
		if c == capability {
			return true
		}
	}
	return false
}

// Capabilities returns the sorted capability set of a role.
func Capabilities(role Role) []Capability {
	var out []Capability
	if role == RoleAdmin {
		out = AllCapabilities()
	} else {
		out = append(out, grants[role]...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func AllCapabilities() []Capability {
	return []Capability{
		CapViewPhysicians,
		CapRegisterPhysicians,
		CapSearchPatients,
		CapRegisterPatients,
		CapViewSchedules,
		CapManageSchedules,
		CapCreateAppointments,
		CapViewAllAppointments,
		CapViewOwnAppointments,
		CapCancelAppointments,
		CapConfirmAppointments,
		CapCompleteAppointments,
		CapViewAuditLogs,
	}
}

// Session is the authenticated actor. TokenID is only set server-side.
type Session struct {
	UserID   uuid.UUID
	Email    string
	FullName string
	Role     Role
	TokenID  string
}

func (s *Session) Can(capability Capability) bool {
	if s == nil {
		return false
	}
	return Authorize(s.Role, capability)
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

// Owns reports whether id is the acting user's own id.
func (s *Session) Owns(id uuid.UUID) bool {
	return s != nil && s.UserID == id
}

type contextKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok && s != nil
}
