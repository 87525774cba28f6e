package converter

import (
	"testing"
	"time"

	"clinic-scheduler/internal/availability"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/session"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleTemplateToAvailability(t *testing.T) {
	physicianID := uuid.New()
	tpl, err := ScheduleTemplateToAvailability(entity.ScheduleTemplate{
		ID:          4,
		PhysicianID: physicianID,
		BranchID:    2,
		DayOfWeek:   1,
		StartTime:   "08:00:00",
		EndTime:     "12:00",
		SlotMinutes: 30,
		Active:      true,
	})
	require.NoError(t, err)

	assert.Equal(t, availability.NewClock(8, 0, 0), tpl.Start)
	assert.Equal(t, availability.NewClock(12, 0, 0), tpl.End)
	assert.Equal(t, physicianID, tpl.PhysicianID)

	_, err = ScheduleTemplateToAvailability(entity.ScheduleTemplate{ID: 5, StartTime: "eight", EndTime: "12:00"})
	assert.ErrorContains(t, err, "template 5")
}

func TestScheduleTemplateToResponse_NormalizesTimes(t *testing.T) {
	resp := ScheduleTemplateToResponse(&entity.ScheduleTemplate{StartTime: "08:00", EndTime: "12:30:00"})
	assert.Equal(t, "08:00:00", resp.StartTime)
	assert.Equal(t, "12:30:00", resp.EndTime)
}

func TestAppointmentToResponse_RendersClinicTime(t *testing.T) {
	loc := time.FixedZone("clinic", -5*3600)
	typeID := 1
	a := &entity.Appointment{
		ID:                uuid.New(),
		ScheduledAt:       time.Date(2026, 10, 19, 14, 30, 0, 0, time.UTC),
		Status:            entity.AppointmentStatusScheduled,
		Mode:              entity.AppointmentModeInPerson,
		AppointmentTypeID: &typeID,
		AppointmentType:   &entity.AppointmentType{ID: 1, Name: "General", Fee: decimal.RequireFromString("35.50")},
	}

	resp := AppointmentToResponse(a, loc)
	assert.Equal(t, "2026-10-19", resp.Date)
	assert.Equal(t, "09:30:00", resp.Time)
	assert.Equal(t, "scheduled", resp.Status)
	require.NotNil(t, resp.Fee)
	assert.Equal(t, "35.5", resp.Fee.String())
}

func TestAppointmentResponsesToBookings(t *testing.T) {
	loc := time.UTC
	list := AppointmentsToResponses([]entity.Appointment{
		{ScheduledAt: time.Date(2026, 10, 19, 9, 0, 0, 0, loc), Status: entity.AppointmentStatusConfirmed},
		{ScheduledAt: time.Date(2026, 10, 19, 10, 0, 0, 0, loc), Status: entity.AppointmentStatusCancelled},
	}, loc)

	bookings := AppointmentResponsesToBookings(list)
	require.Len(t, bookings, 2)
	assert.False(t, bookings[0].Cancelled)
	assert.True(t, bookings[1].Cancelled)
}

func TestSessionRoundTrip(t *testing.T) {
	s, ok := UserToSession(&entity.User{ID: uuid.New(), Email: "p@clinic.test", FullName: "Pat", RoleID: session.RoleIDPatient}, "tok")
	require.True(t, ok)

	resp := SessionToResponse(s)
	assert.Equal(t, "patient", resp.Role)
	assert.True(t, resp.Permissions[string(session.CapCreateAppointments)])
	assert.False(t, resp.Permissions[string(session.CapViewAuditLogs)])
	assert.Contains(t, resp.Capabilities, string(session.CapViewOwnAppointments))

	back, ok := SessionFromResponse(resp)
	require.True(t, ok)
	assert.Equal(t, s.UserID, back.UserID)
	assert.Equal(t, session.RolePatient, back.Role)
	assert.Empty(t, back.TokenID)

	_, ok = UserToSession(&entity.User{RoleID: 99}, "")
	assert.False(t, ok)
}

func TestPhysicianToResponse_BranchIDs(t *testing.T) {
	resp := PhysicianToResponse(&entity.Physician{
		Specialty: entity.Specialty{ID: 3, Name: "Cardiology"},
		Templates: []entity.ScheduleTemplate{
			{BranchID: 2, StartTime: "08:00:00", EndTime: "12:00:00"},
			{BranchID: 1, StartTime: "14:00:00", EndTime: "18:00:00"},
			{BranchID: 2, StartTime: "08:00:00", EndTime: "12:00:00"},
		},
	})
	assert.Equal(t, []int{1, 2}, resp.BranchIDs)
	assert.Equal(t, "Cardiology", resp.Specialty.Name)
	assert.Len(t, resp.Templates, 3)
}
