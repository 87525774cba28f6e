package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"clinic-scheduler/internal/availability"
	"clinic-scheduler/internal/converter"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/repository"
	"clinic-scheduler/internal/service"
	"clinic-scheduler/internal/session"
	"clinic-scheduler/pkg/apperror"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// appointmentSlotConstraint is the partial unique index on
// (physician_id, branch_id, scheduled_at) for non-cancelled rows.
const appointmentSlotConstraint = "uq_appointments_active_slot"

var (
	ErrAppointmentNotFound     = apperror.NotFound("appointment not found")
	ErrAppointmentTypeNotFound = apperror.NotFound("appointment type not found")
	ErrSlotTaken               = apperror.Conflict("slot is already booked")
	ErrSlotOutsideSchedule     = apperror.Conflict("no schedule offers a slot at that time")
	ErrSlotInPast              = apperror.Validation("cannot book a slot in the past")
	ErrMeetingLinkRequired     = apperror.ValidationFields("Validation failed", map[string]string{
		"meeting_link": "meeting_link is required for virtual appointments",
	})
	ErrReasonRequired = apperror.ValidationFields("Validation failed", map[string]string{
		"reason": "reason is required",
	})
	ErrNotOwnAppointment      = apperror.Forbidden("you can only access your own appointments")
	ErrBookForOtherPatient    = apperror.Forbidden("patients can only book for themselves")
	ErrAppointmentCancelled   = apperror.Conflict("appointment is already cancelled")
	ErrInvalidTransition      = apperror.Conflict("appointment status does not allow this change")
	ErrAppointmentChanged     = apperror.Conflict("appointment was modified by another request, reload and retry")
	ErrCancellationTooLate    = apperror.New(apperror.KindValidation, "appointment can no longer be cancelled")
)

type AppointmentUsecase interface {
	Create(ctx context.Context, actor *session.Session, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	Get(ctx context.Context, actor *session.Session, id uuid.UUID) (*dto.AppointmentResponse, error)
	List(ctx context.Context, actor *session.Session, req *dto.AppointmentListRequest) (*dto.AppointmentListResponse, error)
	Cancel(ctx context.Context, actor *session.Session, id uuid.UUID, req *dto.CancelAppointmentRequest) (*dto.AppointmentResponse, error)
	Confirm(ctx context.Context, actor *session.Session, id uuid.UUID) (*dto.AppointmentResponse, error)
	Complete(ctx context.Context, actor *session.Session, id uuid.UUID) (*dto.AppointmentResponse, error)
}

type appointmentUsecase struct {
	db                  *gorm.DB
	log                 *logrus.Logger
	appointmentRepo     repository.AppointmentRepository
	patientRepo         repository.PatientRepository
	physicianRepo       repository.PhysicianRepository
	branchRepo          repository.BranchRepository
	appointmentTypeRepo repository.AppointmentTypeRepository
	slots               *slotFinder
	slotLocks           *service.SlotLockService
	auditService        service.AuditService
	metrics             *service.Metrics
	cancelLeadTime      time.Duration
	now                 func() time.Time
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	physicianRepo repository.PhysicianRepository,
	branchRepo repository.BranchRepository,
	appointmentTypeRepo repository.AppointmentTypeRepository,
	templateRepo repository.ScheduleTemplateRepository,
	slotLocks *service.SlotLockService,
	auditService service.AuditService,
	metrics *service.Metrics,
	loc *time.Location,
	cancelLeadTime time.Duration,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:                  db,
		log:                 log,
		appointmentRepo:     appointmentRepo,
		patientRepo:         patientRepo,
		physicianRepo:       physicianRepo,
		branchRepo:          branchRepo,
		appointmentTypeRepo: appointmentTypeRepo,
		slots:               newSlotFinder(templateRepo, appointmentRepo, loc),
		slotLocks:           slotLocks,
		auditService:        auditService,
		metrics:             metrics,
		cancelLeadTime:      cancelLeadTime,
		now:                 time.Now,
	}
}

// Create books the slot starting at req.Date + req.Time. The slot must be
// offered by an active template and free. Concurrent requests for the same
// slot are serialized by a short Redis hold; the unique index decides any
// race the hold misses.
func (u *appointmentUsecase) Create(ctx context.Context, actor *session.Session, req *dto.CreateAppointmentRequest) (_ *dto.AppointmentResponse, err error) {
	started := u.now()
	defer func() {
		u.metrics.ObserveBooking(bookingOutcome(err), started)
	}()

	if err := requireCapability(actor, session.CapCreateAppointments); err != nil {
		return nil, err
	}
	if actor.Role == session.RolePatient && !actor.Owns(req.PatientID) {
		return nil, ErrBookForOtherPatient
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}

	mode := entity.AppointmentMode(req.Mode)
	if mode == entity.AppointmentModeVirtual && req.MeetingLink == "" {
		return nil, ErrMeetingLinkRequired
	}

	date, err := u.slots.parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	start, err := availability.ParseClock(req.Time)
	if err != nil {
		return nil, validationField("time", err.Error())
	}
	scheduledAt := start.On(date)

	db := u.db.WithContext(ctx)
	if err := u.ensureParticipants(db, req); err != nil {
		return nil, err
	}

	result, err := u.slots.resolve(db, req.PhysicianID, req.BranchID, date)
	if err != nil {
		u.log.Warnf("Failed to resolve availability: %+v", err)
		return nil, err
	}
	slot := result.Check(start)
	if !slot.Available {
		switch slot.Reason {
		case availability.ReasonBooked:
			return nil, ErrSlotTaken
		case availability.ReasonPast:
			return nil, ErrSlotInPast
		default:
			return nil, ErrSlotOutsideSchedule
		}
	}

	lock, err := u.slotLocks.Acquire(ctx, req.PhysicianID, req.BranchID, scheduledAt)
	if errors.Is(err, service.ErrSlotHeld) {
		return nil, ErrSlotTaken
	}
	if err != nil {
		// Redis trouble: continue, the unique index still guards the slot.
		u.log.Warnf("Booking %s without slot hold: %+v", scheduledAt, err)
	}
	defer u.slotLocks.Release(ctx, lock)

	tx := db.Begin()
	defer tx.Rollback()

	appointment := &entity.Appointment{
		PatientID:         req.PatientID,
		PhysicianID:       req.PhysicianID,
		BranchID:          req.BranchID,
		AppointmentTypeID: req.AppointmentTypeID,
		ScheduledAt:       scheduledAt,
		DurationMinutes:   int(slot.Duration().Minutes()),
		Status:            entity.AppointmentStatusScheduled,
		Reason:            reason,
		Mode:              mode,
		MeetingLink:       req.MeetingLink,
		Notes:             req.Notes,
		CreatedBy:         actorID(actor),
	}
	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		if isDuplicateKeyError(err, appointmentSlotConstraint) {
			return nil, ErrSlotTaken
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, actorID(actor), entity.AuditActionAppointmentCreate,
		"appointment", appointment.ID.String(), map[string]interface{}{
			"patient_id":   appointment.PatientID,
			"physician_id": appointment.PhysicianID,
			"branch_id":    appointment.BranchID,
			"scheduled_at": appointment.ScheduledAt,
			"status":       appointment.Status,
		}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		if isDuplicateKeyError(err, appointmentSlotConstraint) {
			return nil, ErrSlotTaken
		}
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Appointment %s booked: physician %s branch %d at %s", appointment.ID, appointment.PhysicianID, appointment.BranchID, scheduledAt.Format(time.RFC3339))
	return u.load(db, appointment.ID)
}

func (u *appointmentUsecase) Get(ctx context.Context, actor *session.Session, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.find(u.db.WithContext(ctx), actor, id)
	if err != nil {
		return nil, err
	}
	return converter.AppointmentToResponse(appointment, u.slots.loc), nil
}

// List applies the request filter. Roles without view_all only ever see
// their own appointments, whatever the filter says.
func (u *appointmentUsecase) List(ctx context.Context, actor *session.Session, req *dto.AppointmentListRequest) (*dto.AppointmentListResponse, error) {
	if actor == nil {
		return nil, ErrNotAuthenticated
	}

	filter := entity.AppointmentFilter{
		BranchID: req.BranchID,
		Status:   entity.AppointmentStatus(req.Status),
	}
	var err error
	if filter.PatientID, err = parseOptionalUUID("patient_id", req.PatientID); err != nil {
		return nil, err
	}
	if filter.PhysicianID, err = parseOptionalUUID("physician_id", req.PhysicianID); err != nil {
		return nil, err
	}
	if req.Date != "" {
		date, err := u.slots.parseDate(req.Date)
		if err != nil {
			return nil, err
		}
		filter.Date = &date
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, validationField("status", "status must be one of: scheduled confirmed completed cancelled")
	}

	if !actor.Can(session.CapViewAllAppointments) {
		if !actor.Can(session.CapViewOwnAppointments) {
			return nil, ErrForbidden
		}
		self := actor.UserID
		switch actor.Role {
		case session.RolePatient:
			filter.PatientID = &self
		case session.RolePhysician:
			filter.PhysicianID = &self
		default:
			return nil, ErrForbidden
		}
	}

	appointments, err := u.appointmentRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to find appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments, u.slots.loc),
		Total:        len(appointments),
	}, nil
}

// Cancel enforces the lead time for everyone but administrators.
func (u *appointmentUsecase) Cancel(ctx context.Context, actor *session.Session, id uuid.UUID, req *dto.CancelAppointmentRequest) (*dto.AppointmentResponse, error) {
	if err := requireCapability(actor, session.CapCancelAppointments); err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}

	return u.transition(ctx, actor, id, entity.AuditActionAppointmentCancel, func(a *entity.Appointment) (map[string]interface{}, error) {
		if a.IsCancelled() {
			return nil, ErrAppointmentCancelled
		}
		now := u.now()
		if !actor.IsAdmin() && a.ScheduledAt.Sub(now) < u.cancelLeadTime {
			return nil, apperror.Wrap(apperror.KindValidation,
				fmt.Sprintf("appointments must be cancelled at least %s in advance", u.cancelLeadTime), ErrCancellationTooLate)
		}
		if err := a.Cancel(reason, now); err != nil {
			return nil, ErrInvalidTransition
		}
		return map[string]interface{}{
			"status":              a.Status,
			"cancelled_at":        a.CancelledAt,
			"cancellation_reason": a.CancellationReason,
		}, nil
	})
}

func (u *appointmentUsecase) Confirm(ctx context.Context, actor *session.Session, id uuid.UUID) (*dto.AppointmentResponse, error) {
	if err := requireCapability(actor, session.CapConfirmAppointments); err != nil {
		return nil, err
	}

	return u.transition(ctx, actor, id, entity.AuditActionAppointmentConfirm, func(a *entity.Appointment) (map[string]interface{}, error) {
		if err := a.Confirm(); err != nil {
			return nil, ErrInvalidTransition
		}
		return map[string]interface{}{"status": a.Status}, nil
	})
}

func (u *appointmentUsecase) Complete(ctx context.Context, actor *session.Session, id uuid.UUID) (*dto.AppointmentResponse, error) {
	if err := requireCapability(actor, session.CapCompleteAppointments); err != nil {
		return nil, err
	}

	return u.transition(ctx, actor, id, entity.AuditActionAppointmentComplete, func(a *entity.Appointment) (map[string]interface{}, error) {
		if err := a.Complete(); err != nil {
			return nil, ErrInvalidTransition
		}
		return map[string]interface{}{"status": a.Status}, nil
	})
}

// transition loads the appointment, lets apply move it to its next status
// and writes the change guarded on the status it was read with.
func (u *appointmentUsecase) transition(
	ctx context.Context,
	actor *session.Session,
	id uuid.UUID,
	action string,
	apply func(a *entity.Appointment) (map[string]interface{}, error),
) (*dto.AppointmentResponse, error) {
	db := u.db.WithContext(ctx)
	tx := db.Begin()
	defer tx.Rollback()

	appointment, err := u.find(tx, actor, id)
	if err != nil {
		return nil, err
	}

	from := appointment.Status
	changes, err := apply(appointment)
	if err != nil {
		return nil, err
	}
	changes["updated_at"] = u.now()

	affected, err := u.appointmentRepo.Transition(tx, id, from, changes)
	if err != nil {
		u.log.Warnf("Failed to update appointment %s: %+v", id, err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrAppointmentChanged
	}

	if err := u.auditService.LogUpdate(ctx, tx, actorID(actor), action,
		"appointment", id.String(), map[string]interface{}{"status": from}, changes); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.metrics.ObserveTransition(string(appointment.Status))
	u.log.Infof("Appointment %s moved from %s to %s", id, from, appointment.Status)
	return u.load(db, id)
}

// find loads an appointment the actor may see.
func (u *appointmentUsecase) find(db *gorm.DB, actor *session.Session, id uuid.UUID) (*entity.Appointment, error) {
	if actor == nil {
		return nil, ErrNotAuthenticated
	}

	appointment, err := u.appointmentRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if !canSeeAppointment(actor, appointment) {
		return nil, ErrNotOwnAppointment
	}
	return appointment, nil
}

func (u *appointmentUsecase) load(db *gorm.DB, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to reload appointment: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return converter.AppointmentToResponse(appointment, u.slots.loc), nil
}

func (u *appointmentUsecase) ensureParticipants(db *gorm.DB, req *dto.CreateAppointmentRequest) error {
	patient, err := u.patientRepo.FindByUserID(db, req.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return err
	}
	if patient == nil {
		return ErrPatientNotFound
	}

	physician, err := u.physicianRepo.FindByUserID(db, req.PhysicianID)
	if err != nil {
		u.log.Warnf("Failed to find physician: %+v", err)
		return err
	}
	if physician == nil || !physician.Active {
		return ErrPhysicianNotFound
	}

	branch, err := u.branchRepo.FindByID(db, req.BranchID)
	if err != nil {
		u.log.Warnf("Failed to find branch: %+v", err)
		return err
	}
	if branch == nil || !branch.Active {
		return ErrBranchNotFound
	}

	if req.AppointmentTypeID != nil {
		appointmentType, err := u.appointmentTypeRepo.FindByID(db, *req.AppointmentTypeID)
		if err != nil {
			u.log.Warnf("Failed to find appointment type: %+v", err)
			return err
		}
		if appointmentType == nil || !appointmentType.Active {
			return ErrAppointmentTypeNotFound
		}
	}
	return nil
}

func canSeeAppointment(actor *session.Session, a *entity.Appointment) bool {
	if actor.Can(session.CapViewAllAppointments) {
		return true
	}
	if !actor.Can(session.CapViewOwnAppointments) {
		return false
	}
	return actor.Owns(a.PatientID) || actor.Owns(a.PhysicianID)
}

func bookingOutcome(err error) string {
	switch {
	case err == nil:
		return service.OutcomeBooked
	case apperror.IsConflict(err):
		return service.OutcomeConflict
	case apperror.IsValidation(err):
		return service.OutcomeValidation
	default:
		return service.OutcomeError
	}
}
