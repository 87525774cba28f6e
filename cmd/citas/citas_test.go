package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/session"
	"clinic-scheduler/pkg/apperror"
	"clinic-scheduler/pkg/response"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenuFor(t *testing.T) {
	tests := []struct {
		role     session.Role
		contains []string
		excludes []string
	}{
		{
			role:     session.RolePatient,
			contains: []string{"Book an appointment", "My appointments", "Free slots"},
			excludes: []string{"Register a physician", "All appointments", "Audit trail"},
		},
		{
			role:     session.RoleReceptionist,
			contains: []string{"Register a patient", "All appointments", "Confirm an appointment"},
			excludes: []string{"My appointments", "Assign schedules", "Complete an appointment"},
		},
		{
			role:     session.RolePhysician,
			contains: []string{"Assign schedules", "My appointments", "Complete an appointment"},
			excludes: []string{"Book an appointment", "Register a patient"},
		},
		{
			role:     session.RoleAdmin,
			contains: []string{"Register a physician", "All appointments", "Audit trail"},
			excludes: []string{"My appointments"},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			var labels []string
			for _, e := range menuFor(&session.Session{Role: tt.role}) {
				labels = append(labels, e.label)
			}
			for _, want := range tt.contains {
				assert.Contains(t, labels, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, labels, unwanted)
			}
		})
	}
}

func TestParseWindow(t *testing.T) {
	tpl, err := parseWindow("3@14:00-18:00/20")
	require.NoError(t, err)
	assert.Equal(t, dto.ScheduleTemplateRequest{DayOfWeek: 3, StartTime: "14:00", EndTime: "18:00", SlotMinutes: 20}, tpl)

	for _, bad := range []string{"", "3", "3@14:00", "x@14:00-18:00/20", "3@14:00-18:00/x", "3@14:00/20"} {
		_, err := parseWindow(bad)
		assert.True(t, apperror.IsValidation(err), bad)
	}
}

func TestDescribe(t *testing.T) {
	err := apperror.ValidationFields("Validation failed", map[string]string{
		"reason": "reason is required",
		"date":   "date must be a date in yyyy-MM-dd format",
	})
	assert.Equal(t, "Validation failed\n  date: date must be a date in yyyy-MM-dd format\n  reason: reason is required", describe(err))

	assert.Contains(t, describe(apperror.Timeout("GET /branches timed out", nil)), "timed out, try again")
}

// fakeServer records the paths it was asked for.
type fakeServer struct {
	mu          sync.Mutex
	paths       []string
	physicianID uuid.UUID
	patient     dto.SessionResponse
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.paths = append(f.paths, r.Method+" "+r.URL.Path)
	f.mu.Unlock()

	switch {
	case r.URL.Path == "/auth/me":
		response.Success(w, http.StatusOK, "ok", f.patient)
	case r.URL.Path == "/schedules":
		response.Success(w, http.StatusOK, "ok", dto.ScheduleTemplateListResponse{Templates: []dto.ScheduleTemplateResponse{{
			ID: 4, PhysicianID: f.physicianID, BranchID: 1, DayOfWeek: 1,
			StartTime: "08:00:00", EndTime: "10:00:00", SlotMinutes: 30, Active: true,
		}}})
	case strings.HasSuffix(r.URL.Path, "/availability"):
		response.Success(w, http.StatusOK, "ok", dto.AvailabilityResponse{Slots: []dto.SlotResponse{
			{StartTime: "08:30:00", Reason: "booked"},
		}})
	default:
		response.NotFound(w, "")
	}
}

func (f *fakeServer) requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.paths...)
}

func run(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--api", srv.URL, "--token", "tkn", "--tz", "UTC"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func newFakeServer(t *testing.T) (*fakeServer, *httptest.Server) {
	t.Helper()
	fake := &fakeServer{
		physicianID: uuid.New(),
		patient:     dto.SessionResponse{UserID: uuid.New(), Email: "ana@clinic.test", Role: "patient"},
	}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	return fake, srv
}

func TestSlotsCommand(t *testing.T) {
	fake, srv := newFakeServer(t)

	out, err := run(t, srv, "slots", "--physician", fake.physicianID.String(), "--branch", "1", "--date", "2099-10-19", "--all")
	require.NoError(t, err)

	assert.Contains(t, out, "08:00:00")
	assert.Regexp(t, `08:30:00\s+09:00:00\s+booked`, out)
	assert.Regexp(t, `09:30:00\s+10:00:00\s+free`, out)
}

func TestBookCommand_EmptyReasonStaysLocal(t *testing.T) {
	fake, srv := newFakeServer(t)

	_, err := run(t, srv, "book", "--physician", fake.physicianID.String(), "--branch", "1",
		"--date", "2099-10-19", "--time", "09:00")
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	// Only the session lookup went out.
	assert.Equal(t, []string{"GET /auth/me"}, fake.requests())
}

func TestBookCommand_RequiresLogin(t *testing.T) {
	_, srv := newFakeServer(t)

	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--api", srv.URL, "--token", "", "book"})
	t.Setenv("CITAS_TOKEN", "")

	err := cmd.Execute()
	assert.True(t, apperror.IsUnauthorized(err))
}
