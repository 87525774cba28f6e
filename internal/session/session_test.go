package session

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorize(t *testing.T) {
	tests := []struct {
		role Role
		cap  Capability
		want bool
	}{
		{RoleAdmin, CapViewAuditLogs, true},
		{RoleAdmin, CapRegisterPhysicians, true},
		{RoleReceptionist, CapRegisterPatients, true},
		{RoleReceptionist, CapConfirmAppointments, true},
		{RoleReceptionist, CapManageSchedules, false},
		{RoleReceptionist, CapRegisterPhysicians, false},
		{RolePhysician, CapManageSchedules, true},
		{RolePhysician, CapCompleteAppointments, true},
		{RolePhysician, CapViewAllAppointments, false},
		{RolePatient, CapCreateAppointments, true},
		{RolePatient, CapViewOwnAppointments, true},
		{RolePatient, CapSearchPatients, false},
		{RolePatient, CapConfirmAppointments, false},
		{Role("guest"), CapViewPhysicians, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.cap), func(t *testing.T) {
			assert.Equal(t, tt.want, Authorize(tt.role, tt.cap))
		})
	}
}

func TestCapabilities(t *testing.T) {
	assert.Len(t, Capabilities(RoleAdmin), len(AllCapabilities()))
	assert.Equal(t, []Capability{
		CapCancelAppointments,
		CapCreateAppointments,
		CapViewOwnAppointments,
		CapViewPhysicians,
		CapViewSchedules,
	}, Capabilities(RolePatient))
	assert.Empty(t, Capabilities(Role("guest")))
}

func TestRoleIDs(t *testing.T) {
	for _, role := range Roles() {
		assert.True(t, role.Valid())
		back, ok := RoleFromID(role.ID())
		require.True(t, ok)
		assert.Equal(t, role, back)
	}

	_, ok := RoleFromID(99)
	assert.False(t, ok)
	assert.False(t, Role("guest").Valid())
}

func TestSessionContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	s := &Session{UserID: uuid.New(), Role: RolePhysician}
	ctx := WithSession(context.Background(), s)

	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.True(t, got.Owns(s.UserID))
	assert.False(t, got.IsAdmin())
	assert.True(t, got.Can(CapManageSchedules))

	var nilSession *Session
	assert.False(t, nilSession.Can(CapViewPhysicians))
}
