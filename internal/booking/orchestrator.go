// Package booking validates a slot selection against fresh availability and
// submits it to the Scheduling API. The server stays the authority on
// double-booking; the checks here only spare a doomed round trip.
package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clinic-scheduler/internal/availability"
	"clinic-scheduler/internal/converter"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/directory"
	"clinic-scheduler/internal/session"
	"clinic-scheduler/pkg/apperror"
	"clinic-scheduler/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const DefaultCancelLeadTime = 2 * time.Hour

var ErrNoSession = apperror.Unauthorized("login required")

// API is the part of the Scheduling API client the orchestrator submits to.
type API interface {
	CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	Appointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	CancelAppointment(ctx context.Context, id uuid.UUID, reason string) (*dto.AppointmentResponse, error)
}

type Orchestrator struct {
	api            API
	source         directory.Source
	validator      *validator.CustomValidator
	log            *logrus.Logger
	loc            *time.Location
	cancelLeadTime time.Duration
	now            func() time.Time
}

type Option func(*Orchestrator)

func WithLocation(loc *time.Location) Option {
	return func(o *Orchestrator) {
		if loc != nil {
			o.loc = loc
		}
	}
}

func WithCancelLeadTime(d time.Duration) Option {
	return func(o *Orchestrator) { o.cancelLeadTime = d }
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

func NewOrchestrator(api API, source directory.Source, v *validator.CustomValidator, log *logrus.Logger, opts ...Option) *Orchestrator {
	if log == nil {
		log = logrus.New()
	}
	o := &Orchestrator{
		api:            api,
		source:         source,
		validator:      v,
		log:            log,
		loc:            time.Local,
		cancelLeadTime: DefaultCancelLeadTime,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Slots resolves one physician's day at one branch from a fresh read of
// templates and bookings. Nothing is cached between calls.
func (o *Orchestrator) Slots(ctx context.Context, physicianID uuid.UUID, branchID int, date time.Time) (availability.Result, error) {
	date = date.In(o.loc)

	stored, err := o.source.Templates(ctx, &dto.ScheduleTemplateListRequest{
		PhysicianID: physicianID.String(),
		BranchID:    branchID,
		DayOfWeek:   availability.ISOWeekday(date),
	})
	if err != nil {
		return availability.Result{}, err
	}
	templates, err := converter.ScheduleTemplateResponsesToAvailability(stored)
	if err != nil {
		return availability.Result{}, apperror.Transport("schedule template has an unreadable time", err)
	}

	bookings, err := o.source.Bookings(ctx, physicianID, branchID, date)
	if err != nil {
		return availability.Result{}, err
	}

	return availability.Resolve(availability.Query{
		PhysicianID: physicianID,
		BranchID:    branchID,
		Date:        date,
		NotBefore:   o.now(),
	}, templates, bookings), nil
}

// Book checks req locally, re-resolves the day and submits the appointment
// when the chosen start is still an available slot.
func (o *Orchestrator) Book(ctx context.Context, sess *session.Session, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if sess == nil {
		return nil, ErrNoSession
	}
	if !sess.Can(session.CapCreateAppointments) {
		return nil, apperror.Forbidden("your role cannot create appointments")
	}

	date, start, err := o.validate(sess, req)
	if err != nil {
		return nil, err
	}

	result, err := o.Slots(ctx, req.PhysicianID, req.BranchID, date)
	if err != nil {
		o.log.Warnf("Failed to resolve availability: %+v", err)
		return nil, err
	}
	if result.NoSchedule {
		return nil, apperror.Conflict("physician has no schedule at this branch on that day")
	}
	slot := result.Check(start)
	if !slot.Available {
		return nil, apperror.Conflict(fmt.Sprintf("%s at %s is not available (%s)", req.Date, start, slot.Reason))
	}

	appointment, err := o.api.CreateAppointment(ctx, req)
	if err != nil {
		if apperror.IsConflict(err) {
			o.log.Infof("Slot %s %s taken before submission", req.Date, start)
		} else {
			o.log.Warnf("Failed to create appointment: %+v", err)
		}
		return nil, err
	}

	o.log.Infof("Appointment %s booked for %s %s", appointment.ID, appointment.Date, appointment.Time)
	return appointment, nil
}

// Cancel submits a cancellation. Cancelling inside the lead time only logs a
// warning here; the server decides.
func (o *Orchestrator) Cancel(ctx context.Context, sess *session.Session, id uuid.UUID, reason string) (*dto.AppointmentResponse, error) {
	if sess == nil {
		return nil, ErrNoSession
	}
	reason = strings.TrimSpace(reason)
	if err := o.validator.Check(&dto.CancelAppointmentRequest{Reason: reason}); err != nil {
		return nil, err
	}

	current, err := o.api.Appointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.IsAdmin() && o.cancelLeadTime > 0 && current.ScheduledAt.Sub(o.now()) < o.cancelLeadTime {
		o.log.Warnf("Appointment %s starts in less than %s, the server may refuse to cancel it", id, o.cancelLeadTime)
	}

	cancelled, err := o.api.CancelAppointment(ctx, id, reason)
	if err != nil {
		o.log.Warnf("Failed to cancel appointment %s: %+v", id, err)
		return nil, err
	}

	o.log.Infof("Appointment %s cancelled", id)
	return cancelled, nil
}

func (o *Orchestrator) validate(sess *session.Session, req *dto.CreateAppointmentRequest) (time.Time, availability.Clock, error) {
	req.Reason = strings.TrimSpace(req.Reason)
	req.MeetingLink = strings.TrimSpace(req.MeetingLink)
	if err := o.validator.Check(req); err != nil {
		return time.Time{}, 0, err
	}

	fields := map[string]string{}
	if req.PatientID == uuid.Nil {
		fields["patient_id"] = "patient_id is required"
	}
	if req.PhysicianID == uuid.Nil {
		fields["physician_id"] = "physician_id is required"
	}
	date, err := availability.ParseDate(req.Date, o.loc)
	if err != nil {
		fields["date"] = err.Error()
	}
	start, err := availability.ParseClock(req.Time)
	if err != nil {
		fields["time"] = err.Error()
	}
	if len(fields) > 0 {
		return time.Time{}, 0, apperror.ValidationFields("Validation failed", fields)
	}

	if sess.Role == session.RolePatient && req.PatientID != sess.UserID {
		return time.Time{}, 0, apperror.Forbidden("patients can only book for themselves")
	}
	return date, start, nil
}
