package usecase

import (
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// The fakes below keep rows in memory. Usecases still open transactions on
// the gorm handle, so tests pair them with a sqlmock connection that only
// sees BEGIN/COMMIT/ROLLBACK.

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *fakeUserRepo) Create(db *gorm.DB, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"}
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(db *gorm.DB, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

type fakePatientRepo struct {
	patients map[uuid.UUID]*entity.Patient
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{patients: make(map[uuid.UUID]*entity.Patient)}
}

func (r *fakePatientRepo) Create(db *gorm.DB, patient *entity.Patient) error {
	for _, p := range r.patients {
		if p.NationalID == patient.NationalID {
			return &pgconn.PgError{Code: "23505", ConstraintName: "idx_patients_national_id"}
		}
	}
	copied := *patient
	r.patients[patient.UserID] = &copied
	return nil
}

func (r *fakePatientRepo) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Patient, error) {
	if p, ok := r.patients[userID]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, nil
}

func (r *fakePatientRepo) FindByNationalID(db *gorm.DB, nationalID string) (*entity.Patient, error) {
	for _, p := range r.patients {
		if p.NationalID == nationalID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

type fakePhysicianRepo struct {
	physicians map[uuid.UUID]*entity.Physician
}

func newFakePhysicianRepo() *fakePhysicianRepo {
	return &fakePhysicianRepo{physicians: make(map[uuid.UUID]*entity.Physician)}
}

func (r *fakePhysicianRepo) Create(db *gorm.DB, physician *entity.Physician) error {
	for _, p := range r.physicians {
		if p.LicenseNumber == physician.LicenseNumber {
			return &pgconn.PgError{Code: "23505", ConstraintName: "idx_physicians_license_number"}
		}
	}
	copied := *physician
	r.physicians[physician.UserID] = &copied
	return nil
}

func (r *fakePhysicianRepo) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Physician, error) {
	if p, ok := r.physicians[userID]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, nil
}

func (r *fakePhysicianRepo) FindAll(db *gorm.DB, filter repository.PhysicianFilter) ([]entity.Physician, error) {
	var out []entity.Physician
	for _, p := range r.physicians {
		if filter.SpecialtyID != 0 && p.SpecialtyID != filter.SpecialtyID {
			continue
		}
		if filter.ActiveOnly && !p.Active {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakePhysicianRepo) Update(db *gorm.DB, physician *entity.Physician) error {
	copied := *physician
	r.physicians[physician.UserID] = &copied
	return nil
}

type fakeSpecialtyRepo struct {
	specialties map[int]entity.Specialty
}

func (r *fakeSpecialtyRepo) FindAll(db *gorm.DB) ([]entity.Specialty, error) {
	var out []entity.Specialty
	for _, s := range r.specialties {
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeSpecialtyRepo) FindByID(db *gorm.DB, id int) (*entity.Specialty, error) {
	if s, ok := r.specialties[id]; ok {
		return &s, nil
	}
	return nil, nil
}

type fakeBranchRepo struct {
	branches map[int]entity.Branch
}

func (r *fakeBranchRepo) FindAll(db *gorm.DB, activeOnly bool) ([]entity.Branch, error) {
	var out []entity.Branch
	for _, b := range r.branches {
		if activeOnly && !b.Active {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *fakeBranchRepo) FindByID(db *gorm.DB, id int) (*entity.Branch, error) {
	if b, ok := r.branches[id]; ok {
		return &b, nil
	}
	return nil, nil
}

type fakeAppointmentTypeRepo struct {
	types map[int]entity.AppointmentType
}

func (r *fakeAppointmentTypeRepo) FindAll(db *gorm.DB, activeOnly bool) ([]entity.AppointmentType, error) {
	var out []entity.AppointmentType
	for _, t := range r.types {
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeAppointmentTypeRepo) FindByID(db *gorm.DB, id int) (*entity.AppointmentType, error) {
	if t, ok := r.types[id]; ok {
		return &t, nil
	}
	return nil, nil
}

type fakeTemplateRepo struct {
	mu        sync.Mutex
	nextID    int
	templates map[int]*entity.ScheduleTemplate
}

func newFakeTemplateRepo(templates ...entity.ScheduleTemplate) *fakeTemplateRepo {
	r := &fakeTemplateRepo{templates: make(map[int]*entity.ScheduleTemplate)}
	for i := range templates {
		t := templates[i]
		if t.ID > r.nextID {
			r.nextID = t.ID
		}
		r.templates[t.ID] = &t
	}
	return r
}

func (r *fakeTemplateRepo) Create(db *gorm.DB, template *entity.ScheduleTemplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	template.ID = r.nextID
	copied := *template
	r.templates[template.ID] = &copied
	return nil
}

func (r *fakeTemplateRepo) FindByID(db *gorm.DB, id int) (*entity.ScheduleTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.templates[id]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeTemplateRepo) FindAll(db *gorm.DB, filter entity.ScheduleTemplateFilter) ([]entity.ScheduleTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.ScheduleTemplate
	for _, t := range r.templates {
		if filter.PhysicianID != nil && t.PhysicianID != *filter.PhysicianID {
			continue
		}
		if filter.BranchID != 0 && t.BranchID != filter.BranchID {
			continue
		}
		if filter.DayOfWeek != 0 && t.DayOfWeek != filter.DayOfWeek {
			continue
		}
		if filter.ActiveOnly && !t.Active {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTemplateRepo) FindByPhysicianAndDay(db *gorm.DB, physicianID uuid.UUID, dayOfWeek int) ([]entity.ScheduleTemplate, error) {
	return r.FindAll(db, entity.ScheduleTemplateFilter{PhysicianID: &physicianID, DayOfWeek: dayOfWeek, ActiveOnly: true})
}

func (r *fakeTemplateRepo) Update(db *gorm.DB, template *entity.ScheduleTemplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *template
	r.templates[template.ID] = &copied
	return nil
}

func (r *fakeTemplateRepo) Delete(db *gorm.DB, id int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.templates[id]; !ok {
		return 0, nil
	}
	delete(r.templates, id)
	return 1, nil
}

// fakeAppointmentRepo enforces the active-slot uniqueness the database index
// provides.
type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]*entity.Appointment
	createErr    error
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*entity.Appointment)}
}

func (r *fakeAppointmentRepo) Create(db *gorm.DB, appointment *entity.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, a := range r.appointments {
		if !a.IsCancelled() && a.PhysicianID == appointment.PhysicianID &&
			a.BranchID == appointment.BranchID && a.ScheduledAt.Equal(appointment.ScheduledAt) {
			return &pgconn.PgError{Code: "23505", ConstraintName: appointmentSlotConstraint}
		}
	}
	appointment.ID = uuid.New()
	appointment.CreatedAt = time.Now()
	copied := *appointment
	r.appointments[appointment.ID] = &copied
	return nil
}

func (r *fakeAppointmentRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.appointments[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeAppointmentRepo) FindAll(db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Appointment
	for _, a := range r.appointments {
		if filter.PatientID != nil && a.PatientID != *filter.PatientID {
			continue
		}
		if filter.PhysicianID != nil && a.PhysicianID != *filter.PhysicianID {
			continue
		}
		if filter.BranchID != 0 && a.BranchID != filter.BranchID {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
	return out, nil
}

func (r *fakeAppointmentRepo) FindActiveInRange(db *gorm.DB, physicianID uuid.UUID, branchID int, from, to time.Time) ([]entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Appointment
	for _, a := range r.appointments {
		if a.IsCancelled() || a.PhysicianID != physicianID || a.BranchID != branchID {
			continue
		}
		if a.ScheduledAt.Before(from) || !a.ScheduledAt.Before(to) {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (r *fakeAppointmentRepo) Transition(db *gorm.DB, id uuid.UUID, from entity.AppointmentStatus, changes map[string]interface{}) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok || a.Status != from {
		return 0, nil
	}
	if status, ok := changes["status"].(entity.AppointmentStatus); ok {
		a.Status = status
	}
	if reason, ok := changes["cancellation_reason"].(string); ok {
		a.CancellationReason = reason
	}
	if at, ok := changes["cancelled_at"].(*time.Time); ok {
		a.CancelledAt = at
	}
	return 1, nil
}

type fakeAuditRepo struct {
	mu   sync.Mutex
	logs []entity.AuditLog
}

func (r *fakeAuditRepo) Create(db *gorm.DB, log *entity.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	log.ID = int64(len(r.logs) + 1)
	r.logs = append(r.logs, *log)
	return nil
}

func (r *fakeAuditRepo) FindAll(db *gorm.DB, filter entity.AuditLogFilter) ([]entity.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.AuditLog
	for _, l := range r.logs {
		if filter.Action != "" && l.Action != filter.Action {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (r *fakeAuditRepo) FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.logs {
		if l.ID == id {
			copied := l
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeAuditRepo) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.logs))
	for i, l := range r.logs {
		out[i] = l.Action
	}
	return out
}
