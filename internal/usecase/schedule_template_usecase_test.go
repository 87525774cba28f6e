package usecase

import (
	"context"
	"testing"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/service"
	"clinic-scheduler/internal/session"
	"clinic-scheduler/pkg/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scheduleFixture struct {
	uc          ScheduleTemplateUsecase
	mock        sqlmock.Sqlmock
	templates   *fakeTemplateRepo
	audit       *fakeAuditRepo
	physicianID uuid.UUID
}

func newScheduleFixture(t *testing.T, existing ...entity.ScheduleTemplate) *scheduleFixture {
	t.Helper()
	db, mock := newMockDB(t)
	log := newTestLogger()

	f := &scheduleFixture{
		mock:        mock,
		templates:   newFakeTemplateRepo(existing...),
		audit:       &fakeAuditRepo{},
		physicianID: uuid.New(),
	}
	physicians := newFakePhysicianRepo()
	physicians.physicians[f.physicianID] = &entity.Physician{UserID: f.physicianID, Active: true}
	branches := &fakeBranchRepo{branches: map[int]entity.Branch{
		1: {ID: 1, Name: "Centro", Active: true},
		2: {ID: 2, Name: "Norte", Active: false},
	}}

	f.uc = NewScheduleTemplateUsecase(db, log, f.templates, physicians, branches, service.NewAuditService(log, f.audit))
	return f
}

func window(branchID, day int, start, end string, slot int) dto.ScheduleTemplateRequest {
	return dto.ScheduleTemplateRequest{BranchID: branchID, DayOfWeek: day, StartTime: start, EndTime: end, SlotMinutes: slot}
}

func TestScheduleCreate_Batch(t *testing.T) {
	f := newScheduleFixture(t)
	physician := &session.Session{UserID: f.physicianID, Role: session.RolePhysician}
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	got, err := f.uc.Create(context.Background(), physician, &dto.CreateScheduleTemplatesRequest{
		Templates: []dto.ScheduleTemplateRequest{
			window(1, 1, "08:00", "12:00", 30),
			window(1, 1, "14:00:00", "18:00:00", 20),
			window(1, 3, "08:00", "12:00", 15),
		},
	})
	require.NoError(t, err)
	require.Equal(t, 3, got.Total)
	assert.Equal(t, f.physicianID, got.Templates[0].PhysicianID)
	assert.Equal(t, "08:00:00", got.Templates[0].StartTime)
	assert.True(t, got.Templates[1].Active)
	assert.Len(t, f.audit.actions(), 3)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestScheduleCreate_Rejections(t *testing.T) {
	existing := entity.ScheduleTemplate{ID: 7, BranchID: 1, DayOfWeek: 2, StartTime: "09:00:00", EndTime: "13:00:00", SlotMinutes: 30, Active: true}

	tests := []struct {
		name      string
		actor     func(f *scheduleFixture) *session.Session
		physician func(f *scheduleFixture) uuid.UUID
		templates []dto.ScheduleTemplateRequest
		kind      apperror.Kind
		want      error
		begins    bool
	}{
		{
			name:      "overlaps an existing window",
			templates: []dto.ScheduleTemplateRequest{window(1, 2, "12:30", "15:00", 30)},
			kind:      apperror.KindConflict,
			want:      ErrScheduleOverlap,
			begins:    true,
		},
		{
			name: "overlaps inside the batch",
			templates: []dto.ScheduleTemplateRequest{
				window(1, 4, "08:00", "10:00", 30),
				window(1, 4, "09:30", "11:00", 30),
			},
			kind:   apperror.KindConflict,
			want:   ErrScheduleOverlap,
			begins: true,
		},
		{
			name:      "end before start",
			templates: []dto.ScheduleTemplateRequest{window(1, 5, "12:00", "08:00", 30)},
			kind:      apperror.KindValidation,
			begins:    true,
		},
		{
			name:      "slot longer than window",
			templates: []dto.ScheduleTemplateRequest{window(1, 5, "08:00", "08:30", 45)},
			kind:      apperror.KindValidation,
			begins:    true,
		},
		{
			name:      "inactive branch",
			templates: []dto.ScheduleTemplateRequest{window(2, 5, "08:00", "12:00", 30)},
			kind:      apperror.KindNotFound,
			want:      ErrBranchNotFound,
			begins:    true,
		},
		{
			name:      "physician writing another physician's schedule",
			physician: func(*scheduleFixture) uuid.UUID { return uuid.New() },
			templates: []dto.ScheduleTemplateRequest{window(1, 5, "08:00", "12:00", 30)},
			kind:      apperror.KindForbidden,
			want:      ErrNotOwnSchedule,
		},
		{
			name:      "receptionists do not manage schedules",
			actor:     func(*scheduleFixture) *session.Session { return receptionist },
			templates: []dto.ScheduleTemplateRequest{window(1, 5, "08:00", "12:00", 30)},
			kind:      apperror.KindForbidden,
			want:      ErrForbidden,
		},
		{
			name:      "admin must name the physician",
			actor:     func(*scheduleFixture) *session.Session { return admin },
			physician: func(*scheduleFixture) uuid.UUID { return uuid.Nil },
			templates: []dto.ScheduleTemplateRequest{window(1, 5, "08:00", "12:00", 30)},
			kind:      apperror.KindValidation,
			want:      ErrPhysicianRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seeded := existing
			f := newScheduleFixture(t)
			seeded.PhysicianID = f.physicianID
			require.NoError(t, f.templates.Update(nil, &seeded))

			actor := &session.Session{UserID: f.physicianID, Role: session.RolePhysician}
			if tt.actor != nil {
				actor = tt.actor(f)
			}
			req := &dto.CreateScheduleTemplatesRequest{Templates: tt.templates}
			if tt.physician != nil {
				req.PhysicianID = tt.physician(f)
			}
			if tt.begins {
				f.mock.ExpectBegin()
				f.mock.ExpectRollback()
			}

			_, err := f.uc.Create(context.Background(), actor, req)
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperror.KindOf(err))
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
			assert.NoError(t, f.mock.ExpectationsWereMet())
		})
	}
}

func TestScheduleUpdateAndDelete(t *testing.T) {
	physicianID := uuid.New()
	f := newScheduleFixture(t,
		entity.ScheduleTemplate{ID: 1, PhysicianID: physicianID, BranchID: 1, DayOfWeek: 1, StartTime: "08:00:00", EndTime: "12:00:00", SlotMinutes: 30, Active: true},
		entity.ScheduleTemplate{ID: 2, PhysicianID: physicianID, BranchID: 1, DayOfWeek: 1, StartTime: "13:00:00", EndTime: "17:00:00", SlotMinutes: 30, Active: true},
	)
	owner := &session.Session{UserID: physicianID, Role: session.RolePhysician}
	stranger := &session.Session{UserID: uuid.New(), Role: session.RolePhysician}

	// Extending the morning window into the afternoon one overlaps.
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	_, err := f.uc.Update(context.Background(), owner, 1, &dto.ScheduleTemplateRequest{
		BranchID: 1, DayOfWeek: 1, StartTime: "08:00", EndTime: "14:00", SlotMinutes: 30,
	})
	assert.ErrorIs(t, err, ErrScheduleOverlap)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	updated, err := f.uc.Update(context.Background(), owner, 1, &dto.ScheduleTemplateRequest{
		BranchID: 1, DayOfWeek: 1, StartTime: "07:00", EndTime: "13:00", SlotMinutes: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, "07:00:00", updated.StartTime)
	assert.Equal(t, 20, updated.SlotMinutes)

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	assert.ErrorIs(t, f.uc.Delete(context.Background(), stranger, 2), ErrNotOwnSchedule)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	require.NoError(t, f.uc.Delete(context.Background(), admin, 2))

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	assert.ErrorIs(t, f.uc.Delete(context.Background(), admin, 2), ErrScheduleTemplateNotFound)

	assert.Equal(t, []string{entity.AuditActionScheduleUpdate, entity.AuditActionScheduleDelete}, f.audit.actions())
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestScheduleList_Filters(t *testing.T) {
	physicianID := uuid.New()
	f := newScheduleFixture(t,
		entity.ScheduleTemplate{ID: 1, PhysicianID: physicianID, BranchID: 1, DayOfWeek: 1, StartTime: "08:00:00", EndTime: "12:00:00", SlotMinutes: 30, Active: true},
		entity.ScheduleTemplate{ID: 2, PhysicianID: uuid.New(), BranchID: 1, DayOfWeek: 1, StartTime: "08:00:00", EndTime: "12:00:00", SlotMinutes: 30, Active: true},
	)

	got, err := f.uc.List(context.Background(), &dto.ScheduleTemplateListRequest{PhysicianID: physicianID.String()})
	require.NoError(t, err)
	require.Equal(t, 1, got.Total)
	assert.Equal(t, 1, got.Templates[0].ID)

	_, err = f.uc.List(context.Background(), &dto.ScheduleTemplateListRequest{PhysicianID: "x"})
	assert.True(t, apperror.IsValidation(err))
}
