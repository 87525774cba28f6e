package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/service"
	"clinic-scheduler/internal/session"
	"clinic-scheduler/pkg/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Friday 2026-10-16 10:00 UTC; the fixture schedule runs on Mondays.
var fixtureNow = time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)

type bookingFixture struct {
	uc           *appointmentUsecase
	mock         sqlmock.Sqlmock
	mr           *miniredis.Miniredis
	appointments *fakeAppointmentRepo
	audit        *fakeAuditRepo
	patientID    uuid.UUID
	physicianID  uuid.UUID
	branchID     int
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	db, mock := newMockDB(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	log := newTestLogger()
	f := &bookingFixture{
		mock:         mock,
		mr:           mr,
		appointments: newFakeAppointmentRepo(),
		audit:        &fakeAuditRepo{},
		patientID:    uuid.New(),
		physicianID:  uuid.New(),
		branchID:     1,
	}

	patients := newFakePatientRepo()
	patients.patients[f.patientID] = &entity.Patient{UserID: f.patientID, NationalID: "P-1"}
	physicians := newFakePhysicianRepo()
	physicians.physicians[f.physicianID] = &entity.Physician{UserID: f.physicianID, Active: true}
	branches := &fakeBranchRepo{branches: map[int]entity.Branch{1: {ID: 1, Name: "Centro", Active: true}}}
	types := &fakeAppointmentTypeRepo{types: map[int]entity.AppointmentType{1: {ID: 1, Name: "General", Active: true}}}
	templates := newFakeTemplateRepo(entity.ScheduleTemplate{
		ID: 1, PhysicianID: f.physicianID, BranchID: 1, DayOfWeek: 1,
		StartTime: "08:00:00", EndTime: "12:00:00", SlotMinutes: 30, Active: true,
	})

	uc := NewAppointmentUsecase(db, log, f.appointments, patients, physicians, branches, types, templates,
		service.NewSlotLockService(client, log, 5*time.Second),
		service.NewAuditService(log, f.audit),
		service.NewMetrics(prometheus.NewRegistry()),
		time.UTC, 2*time.Hour,
	).(*appointmentUsecase)
	uc.now = func() time.Time { return fixtureNow }
	uc.slots.now = uc.now
	f.uc = uc
	return f
}

func (f *bookingFixture) request(patientID uuid.UUID, clock string) *dto.CreateAppointmentRequest {
	return &dto.CreateAppointmentRequest{
		PatientID:   patientID,
		PhysicianID: f.physicianID,
		BranchID:    f.branchID,
		Date:        "2026-10-19",
		Time:        clock,
		Reason:      "control",
		Mode:        string(entity.AppointmentModeInPerson),
	}
}

func (f *bookingFixture) seed(t *testing.T, at time.Time, status entity.AppointmentStatus) uuid.UUID {
	t.Helper()
	a := &entity.Appointment{
		PatientID: f.patientID, PhysicianID: f.physicianID, BranchID: f.branchID,
		ScheduledAt: at, DurationMinutes: 30, Status: status, Reason: "control",
		Mode: entity.AppointmentModeInPerson,
	}
	require.NoError(t, f.appointments.Create(nil, a))
	return a.ID
}

var (
	receptionist = &session.Session{UserID: uuid.New(), Role: session.RoleReceptionist}
	admin        = &session.Session{UserID: uuid.New(), Role: session.RoleAdmin}
)

func TestAppointmentCreate_BooksAvailableSlot(t *testing.T) {
	f := newBookingFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	typeID := 1
	req := f.request(f.patientID, "09:00")
	req.AppointmentTypeID = &typeID

	got, err := f.uc.Create(context.Background(), receptionist, req)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, f.patientID, got.PatientID)
	assert.Equal(t, f.physicianID, got.PhysicianID)
	assert.Equal(t, f.branchID, got.BranchID)
	assert.Equal(t, "2026-10-19", got.Date)
	assert.Equal(t, "09:00:00", got.Time)
	assert.Equal(t, 30, got.DurationMinutes)
	assert.Equal(t, string(entity.AppointmentStatusScheduled), got.Status)

	assert.Equal(t, []string{entity.AuditActionAppointmentCreate}, f.audit.actions())
	assert.Empty(t, f.mr.Keys(), "slot hold is released after booking")
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestAppointmentCreate_ConsumedSlotConflicts(t *testing.T) {
	f := newBookingFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	_, err := f.uc.Create(context.Background(), receptionist, f.request(f.patientID, "09:00"))
	require.NoError(t, err)

	_, err = f.uc.Create(context.Background(), receptionist, f.request(f.patientID, "09:00:00"))
	assert.True(t, apperror.IsConflict(err))
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Len(t, f.appointments.appointments, 1)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestAppointmentCreate_HeldSlotConflicts(t *testing.T) {
	f := newBookingFixture(t)
	at := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	require.NoError(t, f.mr.Set(service.SlotHoldKey(f.physicianID, f.branchID, at), "other-request"))

	_, err := f.uc.Create(context.Background(), receptionist, f.request(f.patientID, "09:00"))
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Empty(t, f.appointments.appointments)
}

func TestAppointmentCreate_UniqueViolationIsConflict(t *testing.T) {
	f := newBookingFixture(t)
	f.appointments.createErr = &pgconn.PgError{Code: "23505", ConstraintName: appointmentSlotConstraint}
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.uc.Create(context.Background(), receptionist, f.request(f.patientID, "10:00"))
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Empty(t, f.audit.actions())
}

func TestAppointmentCreate_ConcurrentRequestsForOneSlot(t *testing.T) {
	f := newBookingFixture(t)
	f.mock.MatchExpectationsInOrder(false)
	const attempts = 5
	for i := 0; i < attempts; i++ {
		f.mock.ExpectBegin()
		f.mock.ExpectRollback()
	}
	f.mock.ExpectCommit()

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.Create(context.Background(), receptionist, f.request(f.patientID, "11:00"))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, apperror.IsConflict(err), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)
	assert.Len(t, f.appointments.appointments, 1)
}

func TestAppointmentCreate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		actor  func(f *bookingFixture) *session.Session
		mutate func(f *bookingFixture, req *dto.CreateAppointmentRequest)
		want   error
		kind   apperror.Kind
	}{
		{
			name:   "outside any window",
			actor:  func(*bookingFixture) *session.Session { return receptionist },
			mutate: func(_ *bookingFixture, req *dto.CreateAppointmentRequest) { req.Time = "07:00" },
			want:   ErrSlotOutsideSchedule,
			kind:   apperror.KindConflict,
		},
		{
			name:   "misaligned start",
			actor:  func(*bookingFixture) *session.Session { return receptionist },
			mutate: func(_ *bookingFixture, req *dto.CreateAppointmentRequest) { req.Time = "09:10" },
			want:   ErrSlotOutsideSchedule,
			kind:   apperror.KindConflict,
		},
		{
			name:   "past slot",
			actor:  func(*bookingFixture) *session.Session { return receptionist },
			mutate: func(_ *bookingFixture, req *dto.CreateAppointmentRequest) { req.Date = "2026-10-12" },
			want:   ErrSlotInPast,
			kind:   apperror.KindValidation,
		},
		{
			name:   "patient booking for someone else",
			actor:  func(f *bookingFixture) *session.Session { return &session.Session{UserID: uuid.New(), Role: session.RolePatient} },
			mutate: func(*bookingFixture, *dto.CreateAppointmentRequest) {},
			want:   ErrBookForOtherPatient,
			kind:   apperror.KindForbidden,
		},
		{
			name:   "physicians cannot book",
			actor:  func(f *bookingFixture) *session.Session { return &session.Session{UserID: f.physicianID, Role: session.RolePhysician} },
			mutate: func(*bookingFixture, *dto.CreateAppointmentRequest) {},
			want:   ErrForbidden,
			kind:   apperror.KindForbidden,
		},
		{
			name:  "virtual without meeting link",
			actor: func(*bookingFixture) *session.Session { return receptionist },
			mutate: func(_ *bookingFixture, req *dto.CreateAppointmentRequest) {
				req.Mode = string(entity.AppointmentModeVirtual)
			},
			want: ErrMeetingLinkRequired,
			kind: apperror.KindValidation,
		},
		{
			name:   "blank reason",
			actor:  func(*bookingFixture) *session.Session { return receptionist },
			mutate: func(_ *bookingFixture, req *dto.CreateAppointmentRequest) { req.Reason = " \t " },
			want:   ErrReasonRequired,
			kind:   apperror.KindValidation,
		},
		{
			name:   "unknown physician",
			actor:  func(*bookingFixture) *session.Session { return receptionist },
			mutate: func(_ *bookingFixture, req *dto.CreateAppointmentRequest) { req.PhysicianID = uuid.New() },
			want:   ErrPhysicianNotFound,
			kind:   apperror.KindNotFound,
		},
		{
			name:   "unknown branch",
			actor:  func(*bookingFixture) *session.Session { return receptionist },
			mutate: func(_ *bookingFixture, req *dto.CreateAppointmentRequest) { req.BranchID = 9 },
			want:   ErrBranchNotFound,
			kind:   apperror.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture(t)
			req := f.request(f.patientID, "09:00")
			tt.mutate(f, req)

			_, err := f.uc.Create(context.Background(), tt.actor(f), req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.kind, apperror.KindOf(err))
			assert.Empty(t, f.appointments.appointments)
		})
	}
}

func TestAppointmentCancel(t *testing.T) {
	f := newBookingFixture(t)
	id := f.seed(t, time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC), entity.AppointmentStatusScheduled)
	patient := &session.Session{UserID: f.patientID, Role: session.RolePatient}

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	got, err := f.uc.Cancel(context.Background(), patient, id, &dto.CancelAppointmentRequest{Reason: "travel"})
	require.NoError(t, err)
	assert.Equal(t, string(entity.AppointmentStatusCancelled), got.Status)
	assert.Equal(t, "travel", got.CancellationReason)
	require.NotNil(t, got.CancelledAt)

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	_, err = f.uc.Cancel(context.Background(), patient, id, &dto.CancelAppointmentRequest{Reason: "again"})
	assert.ErrorIs(t, err, ErrAppointmentCancelled)

	// The slot is free again.
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	_, err = f.uc.Create(context.Background(), receptionist, f.request(f.patientID, "09:00"))
	assert.NoError(t, err)

	_, err = f.uc.Cancel(context.Background(), receptionist, id, &dto.CancelAppointmentRequest{Reason: "   "})
	assert.ErrorIs(t, err, ErrReasonRequired)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestAppointmentCancel_LeadTime(t *testing.T) {
	f := newBookingFixture(t)
	at := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	id := f.seed(t, at, entity.AppointmentStatusConfirmed)
	f.uc.now = func() time.Time { return at.Add(-time.Hour) }

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	_, err := f.uc.Cancel(context.Background(), receptionist, id, &dto.CancelAppointmentRequest{Reason: "late"})
	assert.True(t, apperror.IsValidation(err))
	assert.ErrorIs(t, err, ErrCancellationTooLate)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	got, err := f.uc.Cancel(context.Background(), admin, id, &dto.CancelAppointmentRequest{Reason: "late"})
	require.NoError(t, err)
	assert.Equal(t, string(entity.AppointmentStatusCancelled), got.Status)
}

func TestAppointmentConfirmAndComplete(t *testing.T) {
	f := newBookingFixture(t)
	id := f.seed(t, time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC), entity.AppointmentStatusScheduled)
	physician := &session.Session{UserID: f.physicianID, Role: session.RolePhysician}
	otherPhysician := &session.Session{UserID: uuid.New(), Role: session.RolePhysician}

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	got, err := f.uc.Confirm(context.Background(), receptionist, id)
	require.NoError(t, err)
	assert.Equal(t, string(entity.AppointmentStatusConfirmed), got.Status)

	_, err = f.uc.Confirm(context.Background(), physician, id)
	assert.ErrorIs(t, err, ErrForbidden, "physicians do not confirm")

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	_, err = f.uc.Complete(context.Background(), otherPhysician, id)
	assert.ErrorIs(t, err, ErrNotOwnAppointment)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	got, err = f.uc.Complete(context.Background(), physician, id)
	require.NoError(t, err)
	assert.Equal(t, string(entity.AppointmentStatusCompleted), got.Status)

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	_, err = f.uc.Complete(context.Background(), physician, id)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	assert.Equal(t, []string{entity.AuditActionAppointmentConfirm, entity.AuditActionAppointmentComplete}, f.audit.actions())
}

func TestAppointmentList_RestrictsToOwn(t *testing.T) {
	f := newBookingFixture(t)
	mine := f.seed(t, time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC), entity.AppointmentStatusScheduled)
	other := &entity.Appointment{
		PatientID: uuid.New(), PhysicianID: f.physicianID, BranchID: f.branchID,
		ScheduledAt: time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC), Status: entity.AppointmentStatusScheduled,
	}
	require.NoError(t, f.appointments.Create(nil, other))

	patient := &session.Session{UserID: f.patientID, Role: session.RolePatient}
	list, err := f.uc.List(context.Background(), patient, &dto.AppointmentListRequest{PatientID: other.PatientID.String()})
	require.NoError(t, err)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, mine, list.Appointments[0].ID)

	all, err := f.uc.List(context.Background(), receptionist, &dto.AppointmentListRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Total)

	_, err = f.uc.Get(context.Background(), patient, other.ID)
	assert.ErrorIs(t, err, ErrNotOwnAppointment)

	_, err = f.uc.List(context.Background(), receptionist, &dto.AppointmentListRequest{PatientID: "nope"})
	assert.True(t, apperror.IsValidation(err))
}

func TestBookingOutcome(t *testing.T) {
	assert.Equal(t, service.OutcomeBooked, bookingOutcome(nil))
	assert.Equal(t, service.OutcomeConflict, bookingOutcome(ErrSlotTaken))
	assert.Equal(t, service.OutcomeValidation, bookingOutcome(ErrSlotInPast))
	assert.Equal(t, service.OutcomeError, bookingOutcome(errors.New("boom")))
}
