package booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/directory"
	"clinic-scheduler/internal/schedapi"
	"clinic-scheduler/internal/session"
	"clinic-scheduler/pkg/apperror"
	"clinic-scheduler/pkg/response"
	"clinic-scheduler/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Friday; the booking day below is the following Monday.
var fixtureNow = time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)

const bookingDate = "2026-10-19"

// fakeAPI serves the handful of Scheduling API routes the orchestrator uses,
// backed by an in-memory appointment list.
type fakeAPI struct {
	mu           sync.Mutex
	hits         int
	physicianID  uuid.UUID
	appointments map[uuid.UUID]dto.AppointmentResponse
	// takenOnSubmit makes the next POST lose the race for its slot.
	takenOnSubmit bool
}

func (f *fakeAPI) handler() http.Handler {
	r := mux.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			f.mu.Lock()
			f.hits++
			f.mu.Unlock()
			next.ServeHTTP(w, req)
		})
	})

	r.HandleFunc("/schedules", func(w http.ResponseWriter, req *http.Request) {
		templates := []dto.ScheduleTemplateResponse{}
		if req.URL.Query().Get("physician_id") == f.physicianID.String() && req.URL.Query().Get("day_of_week") == "1" {
			templates = append(templates, dto.ScheduleTemplateResponse{
				ID: 1, PhysicianID: f.physicianID, BranchID: 1, DayOfWeek: 1,
				StartTime: "08:00:00", EndTime: "12:00:00", SlotMinutes: 30, Active: true,
			})
		}
		response.Success(w, http.StatusOK, "ok", dto.ScheduleTemplateListResponse{Templates: templates, Total: len(templates)})
	}).Methods(http.MethodGet)

	r.HandleFunc("/physicians/{id}/availability", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		var slots []dto.SlotResponse
		for _, a := range f.appointments {
			if a.Status != "cancelled" && a.Date == req.URL.Query().Get("date") {
				slots = append(slots, dto.SlotResponse{StartTime: a.Time, Reason: "booked"})
			}
		}
		response.Success(w, http.StatusOK, "ok", dto.AvailabilityResponse{PhysicianID: f.physicianID, Slots: slots})
	}).Methods(http.MethodGet)

	r.HandleFunc("/appointments", func(w http.ResponseWriter, req *http.Request) {
		var in dto.CreateAppointmentRequest
		if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
			response.ValidationError(w, map[string]string{"body": "invalid"})
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.takenOnSubmit {
			f.takenOnSubmit = false
			response.Error(w, http.StatusConflict, "slot is already booked", nil)
			return
		}
		scheduledAt, _ := time.ParseInLocation("2006-01-02 15:04:05", in.Date+" "+in.Time, time.UTC)
		a := dto.AppointmentResponse{
			ID: uuid.New(), PatientID: in.PatientID, PhysicianID: in.PhysicianID, BranchID: in.BranchID,
			Date: in.Date, Time: in.Time, ScheduledAt: scheduledAt, DurationMinutes: 30,
			Status: "scheduled", Reason: in.Reason, Mode: in.Mode,
		}
		f.appointments[a.ID] = a
		response.Success(w, http.StatusCreated, "Appointment created successfully", a)
	}).Methods(http.MethodPost)

	r.HandleFunc("/appointments/{id}", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		a, ok := f.appointments[uuid.MustParse(mux.Vars(req)["id"])]
		if !ok {
			response.NotFound(w, "appointment not found")
			return
		}
		response.Success(w, http.StatusOK, "ok", a)
	}).Methods(http.MethodGet)

	r.HandleFunc("/appointments/{id}/cancel", func(w http.ResponseWriter, req *http.Request) {
		var in dto.CancelAppointmentRequest
		_ = json.NewDecoder(req.Body).Decode(&in)
		f.mu.Lock()
		defer f.mu.Unlock()
		id := uuid.MustParse(mux.Vars(req)["id"])
		a, ok := f.appointments[id]
		if !ok {
			response.NotFound(w, "appointment not found")
			return
		}
		a.Status = "cancelled"
		a.CancellationReason = in.Reason
		f.appointments[id] = a
		response.Success(w, http.StatusOK, "ok", a)
	}).Methods(http.MethodPost)

	return r
}

func (f *fakeAPI) hitCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits
}

type fixture struct {
	orch      *Orchestrator
	api       *fakeAPI
	patient   *session.Session
	physician uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fake := &fakeAPI{physicianID: uuid.New(), appointments: map[uuid.UUID]dto.AppointmentResponse{}}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	client := schedapi.New(srv.URL, schedapi.WithLogger(log))
	orch := NewOrchestrator(client, directory.NewAPISource(client, time.UTC), validator.NewValidator(), log,
		WithLocation(time.UTC),
		WithClock(func() time.Time { return fixtureNow }),
	)

	return &fixture{
		orch:      orch,
		api:       fake,
		patient:   &session.Session{UserID: uuid.New(), Role: session.RolePatient},
		physician: fake.physicianID,
	}
}

func (f *fixture) request(clock string) *dto.CreateAppointmentRequest {
	return &dto.CreateAppointmentRequest{
		PatientID:   f.patient.UserID,
		PhysicianID: f.physician,
		BranchID:    1,
		Date:        bookingDate,
		Time:        clock,
		Reason:      "Chest pain",
		Mode:        "in_person",
	}
}

func TestBook_RoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.orch.Book(ctx, f.patient, f.request("09:00:00"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "scheduled", created.Status)

	fetched, err := f.orch.api.Appointment(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, f.patient.UserID, fetched.PatientID)
	assert.Equal(t, f.physician, fetched.PhysicianID)
	assert.Equal(t, 1, fetched.BranchID)
	assert.Equal(t, bookingDate, fetched.Date)
	assert.Equal(t, "09:00:00", fetched.Time)
	assert.Equal(t, "scheduled", fetched.Status)
}

func TestBook_LocalValidationMakesNoCalls(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dto.CreateAppointmentRequest)
		field  string
	}{
		{"empty reason", func(r *dto.CreateAppointmentRequest) { r.Reason = "" }, "reason"},
		{"blank reason", func(r *dto.CreateAppointmentRequest) { r.Reason = "   " }, "reason"},
		{"bad date", func(r *dto.CreateAppointmentRequest) { r.Date = "19/10/2026" }, "date"},
		{"bad time", func(r *dto.CreateAppointmentRequest) { r.Time = "9am" }, "time"},
		{"unknown mode", func(r *dto.CreateAppointmentRequest) { r.Mode = "phone" }, "mode"},
		{"virtual without link", func(r *dto.CreateAppointmentRequest) { r.Mode = "virtual" }, "meeting_link"},
		{"missing physician", func(r *dto.CreateAppointmentRequest) { r.PhysicianID = uuid.Nil }, "physician_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := f.request("09:00:00")
			tt.mutate(req)

			_, err := f.orch.Book(context.Background(), f.patient, req)
			require.Error(t, err)
			assert.True(t, apperror.IsValidation(err))

			var appErr *apperror.Error
			require.ErrorAs(t, err, &appErr)
			assert.Contains(t, appErr.Fields, tt.field)
			assert.Zero(t, f.api.hitCount())
		})
	}
}

func TestBook_PatientForOtherPatient(t *testing.T) {
	f := newFixture(t)
	req := f.request("09:00:00")
	req.PatientID = uuid.New()

	_, err := f.orch.Book(context.Background(), f.patient, req)
	assert.True(t, apperror.IsForbidden(err))
	assert.Zero(t, f.api.hitCount())
}

func TestBook_StaleSlotConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.orch.Book(ctx, f.patient, f.request("09:00:00"))
	require.NoError(t, err)

	other := &session.Session{UserID: uuid.New(), Role: session.RolePatient}
	req := f.request("09:00:00")
	req.PatientID = other.UserID
	before := len(f.api.appointments)

	_, err = f.orch.Book(ctx, other, req)
	assert.True(t, apperror.IsConflict(err))
	assert.Len(t, f.api.appointments, before)
}

func TestBook_SlotOutsideWindowConflicts(t *testing.T) {
	f := newFixture(t)

	_, err := f.orch.Book(context.Background(), f.patient, f.request("12:00:00"))
	assert.True(t, apperror.IsConflict(err))
	assert.Empty(t, f.api.appointments)
}

func TestBook_NoScheduleConflicts(t *testing.T) {
	f := newFixture(t)
	req := f.request("09:00:00")
	req.Date = "2026-10-20"

	_, err := f.orch.Book(context.Background(), f.patient, req)
	assert.True(t, apperror.IsConflict(err))
}

func TestBook_ServerConflict(t *testing.T) {
	f := newFixture(t)
	f.api.takenOnSubmit = true

	_, err := f.orch.Book(context.Background(), f.patient, f.request("10:30:00"))
	assert.True(t, apperror.IsConflict(err))
	assert.Empty(t, f.api.appointments)
}

func TestBook_RequiresSession(t *testing.T) {
	f := newFixture(t)

	_, err := f.orch.Book(context.Background(), nil, f.request("09:00:00"))
	assert.True(t, apperror.IsUnauthorized(err))

	physician := &session.Session{UserID: uuid.New(), Role: session.RolePhysician}
	_, err = f.orch.Book(context.Background(), physician, f.request("09:00:00"))
	assert.True(t, apperror.IsForbidden(err))
	assert.Zero(t, f.api.hitCount())
}

func TestSlots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	monday := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	result, err := f.orch.Slots(ctx, f.physician, 1, monday)
	require.NoError(t, err)
	assert.Len(t, result.Available(), 8)

	_, err = f.orch.Book(ctx, f.patient, f.request("08:30:00"))
	require.NoError(t, err)

	result, err = f.orch.Slots(ctx, f.physician, 1, monday)
	require.NoError(t, err)
	assert.Len(t, result.Available(), 7)
	assert.False(t, result.Check(8*3600+30*60).Available)
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.orch.Book(ctx, f.patient, f.request("11:00:00"))
	require.NoError(t, err)

	_, err = f.orch.Cancel(ctx, f.patient, created.ID, " ")
	assert.True(t, apperror.IsValidation(err))

	cancelled, err := f.orch.Cancel(ctx, f.patient, created.ID, "Feeling better")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)
	assert.Equal(t, "Feeling better", cancelled.CancellationReason)

	_, err = f.orch.Cancel(ctx, f.patient, uuid.New(), "typo")
	assert.True(t, apperror.IsNotFound(err))
}

func TestCancel_InsideLeadTimeStillSubmits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.orch.Book(ctx, f.patient, f.request("08:00:00"))
	require.NoError(t, err)

	f.orch.now = func() time.Time { return time.Date(2026, 10, 19, 7, 30, 0, 0, time.UTC) }
	cancelled, err := f.orch.Cancel(ctx, f.patient, created.ID, "Running late")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)
}
