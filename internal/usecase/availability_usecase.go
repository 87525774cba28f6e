package usecase

import (
	"context"
	"time"

	"clinic-scheduler/internal/availability"
	"clinic-scheduler/internal/converter"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/repository"
	"clinic-scheduler/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AvailabilityUsecase interface {
	GetAvailability(ctx context.Context, physicianID uuid.UUID, req *dto.AvailabilityRequest) (*dto.AvailabilityResponse, error)
}

type availabilityUsecase struct {
	db            *gorm.DB
	log           *logrus.Logger
	physicianRepo repository.PhysicianRepository
	slots         *slotFinder
	metrics       *service.Metrics
}

func NewAvailabilityUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	physicianRepo repository.PhysicianRepository,
	templateRepo repository.ScheduleTemplateRepository,
	appointmentRepo repository.AppointmentRepository,
	loc *time.Location,
	metrics *service.Metrics,
) AvailabilityUsecase {
	return &availabilityUsecase{
		db:            db,
		log:           log,
		physicianRepo: physicianRepo,
		slots:         newSlotFinder(templateRepo, appointmentRepo, loc),
		metrics:       metrics,
	}
}

func (u *availabilityUsecase) GetAvailability(ctx context.Context, physicianID uuid.UUID, req *dto.AvailabilityRequest) (*dto.AvailabilityResponse, error) {
	db := u.db.WithContext(ctx)

	physician, err := u.physicianRepo.FindByUserID(db, physicianID)
	if err != nil {
		u.log.Warnf("Failed to find physician: %+v", err)
		return nil, err
	}
	if physician == nil || !physician.Active {
		return nil, ErrPhysicianNotFound
	}

	date, err := u.slots.parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	result, err := u.slots.resolve(db, physicianID, req.BranchID, date)
	if err != nil {
		u.log.Warnf("Failed to resolve availability: %+v", err)
		return nil, err
	}

	available := len(result.Available())
	u.metrics.ObserveSlots(available, len(result.Slots)-available)
	return converter.AvailabilityToResponse(result), nil
}

// slotFinder loads the templates and bookings of one physician, branch and
// date and runs the resolver over them. Shared by availability queries and
// appointment creation.
type slotFinder struct {
	templateRepo    repository.ScheduleTemplateRepository
	appointmentRepo repository.AppointmentRepository
	loc             *time.Location
	now             func() time.Time
}

func newSlotFinder(templateRepo repository.ScheduleTemplateRepository, appointmentRepo repository.AppointmentRepository, loc *time.Location) *slotFinder {
	if loc == nil {
		loc = time.Local
	}
	return &slotFinder{
		templateRepo:    templateRepo,
		appointmentRepo: appointmentRepo,
		loc:             loc,
		now:             time.Now,
	}
}

func (f *slotFinder) parseDate(s string) (time.Time, error) {
	date, err := availability.ParseDate(s, f.loc)
	if err != nil {
		return time.Time{}, validationField("date", err.Error())
	}
	return date, nil
}

func (f *slotFinder) resolve(db *gorm.DB, physicianID uuid.UUID, branchID int, date time.Time) (availability.Result, error) {
	physician := physicianID
	stored, err := f.templateRepo.FindAll(db, entity.ScheduleTemplateFilter{
		PhysicianID: &physician,
		BranchID:    branchID,
		DayOfWeek:   availability.ISOWeekday(date),
		ActiveOnly:  true,
	})
	if err != nil {
		return availability.Result{}, err
	}
	templates, err := converter.ScheduleTemplatesToAvailability(stored)
	if err != nil {
		return availability.Result{}, err
	}

	appointments, err := f.appointmentRepo.FindActiveInRange(db, physicianID, branchID, date, date.AddDate(0, 0, 1))
	if err != nil {
		return availability.Result{}, err
	}

	return availability.Resolve(availability.Query{
		PhysicianID: physicianID,
		BranchID:    branchID,
		Date:        date,
		NotBefore:   f.now(),
	}, templates, converter.AppointmentsToBookings(appointments)), nil
}
