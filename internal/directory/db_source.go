package directory

import (
	"context"
	"time"

	"clinic-scheduler/internal/availability"
	"clinic-scheduler/internal/converter"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/repository"
	"clinic-scheduler/internal/infrastructure/database"
	repo "clinic-scheduler/internal/repository"
	"clinic-scheduler/pkg/apperror"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DBSource reads the Directory Database directly. It never writes.
type DBSource struct {
	db              *gorm.DB
	log             *logrus.Logger
	loc             *time.Location
	specialtyRepo   repository.SpecialtyRepository
	branchRepo      repository.BranchRepository
	physicianRepo   repository.PhysicianRepository
	templateRepo    repository.ScheduleTemplateRepository
	appointmentRepo repository.AppointmentRepository
}

func NewDBSource(db *gorm.DB, log *logrus.Logger, loc *time.Location) *DBSource {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = logrus.New()
	}
	return &DBSource{
		db:              db,
		log:             log,
		loc:             loc,
		specialtyRepo:   repo.NewSpecialtyRepository(),
		branchRepo:      repo.NewBranchRepository(),
		physicianRepo:   repo.NewPhysicianRepository(),
		templateRepo:    repo.NewScheduleTemplateRepository(),
		appointmentRepo: repo.NewAppointmentRepository(),
	}
}

// OpenDBSource connects to dsn with SQL logging silenced.
func OpenDBSource(dsn string, log *logrus.Logger, loc *time.Location) (*DBSource, error) {
	db, err := database.Open(dsn, logger.Silent)
	if err != nil {
		return nil, apperror.Transport("directory database unavailable", err)
	}
	return NewDBSource(db, log, loc), nil
}

func (s *DBSource) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *DBSource) Specialties(ctx context.Context) ([]dto.SpecialtyResponse, error) {
	specialties, err := s.specialtyRepo.FindAll(s.db.WithContext(ctx))
	if err != nil {
		return nil, s.fail("specialties", err)
	}
	return converter.SpecialtiesToResponses(specialties), nil
}

func (s *DBSource) Branches(ctx context.Context) ([]dto.BranchResponse, error) {
	branches, err := s.branchRepo.FindAll(s.db.WithContext(ctx), true)
	if err != nil {
		return nil, s.fail("branches", err)
	}
	return converter.BranchesToResponses(branches), nil
}

func (s *DBSource) Physicians(ctx context.Context, req *dto.PhysicianListRequest) ([]dto.PhysicianResponse, error) {
	filter := repository.PhysicianFilter{ActiveOnly: true}
	if req != nil {
		filter.SpecialtyID = req.SpecialtyID
		filter.Name = req.Name
	}
	physicians, err := s.physicianRepo.FindAll(s.db.WithContext(ctx), filter)
	if err != nil {
		return nil, s.fail("physicians", err)
	}
	return converter.PhysiciansToResponses(physicians), nil
}

func (s *DBSource) Templates(ctx context.Context, req *dto.ScheduleTemplateListRequest) ([]dto.ScheduleTemplateResponse, error) {
	filter := entity.ScheduleTemplateFilter{}
	if req != nil {
		if req.PhysicianID != "" {
			id, err := uuid.Parse(req.PhysicianID)
			if err != nil {
				return nil, apperror.ValidationFields("Validation failed", map[string]string{
					"physician_id": "physician_id must be a valid UUID",
				})
			}
			filter.PhysicianID = &id
		}
		filter.BranchID = req.BranchID
		filter.DayOfWeek = req.DayOfWeek
	}

	templates, err := s.templateRepo.FindAll(s.db.WithContext(ctx), filter)
	if err != nil {
		return nil, s.fail("schedule templates", err)
	}
	return converter.ScheduleTemplatesToResponses(templates), nil
}

func (s *DBSource) Bookings(ctx context.Context, physicianID uuid.UUID, branchID int, date time.Time) ([]availability.Booking, error) {
	y, m, d := date.In(s.loc).Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, s.loc)

	appointments, err := s.appointmentRepo.FindActiveInRange(s.db.WithContext(ctx), physicianID, branchID, from, from.AddDate(0, 0, 1))
	if err != nil {
		return nil, s.fail("appointments", err)
	}
	return converter.AppointmentsToBookings(appointments), nil
}

// fail reports read errors as transport failures: to the caller the
// database is just another remote.
func (s *DBSource) fail(what string, err error) error {
	s.log.Warnf("Failed to read %s from directory database: %+v", what, err)
	return apperror.Transport("directory database: failed to read "+what, err)
}
