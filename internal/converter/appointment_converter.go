package converter

import (
	"time"

	"clinic-scheduler/internal/availability"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse
// DTO. Date and Time are rendered in loc, the clinic timezone.
func AppointmentToResponse(a *entity.Appointment, loc *time.Location) *dto.AppointmentResponse {
	if a == nil {
		return nil
	}
	if loc == nil {
		loc = time.Local
	}
	at := a.ScheduledAt.In(loc)

	response := &dto.AppointmentResponse{
		ID:                 a.ID,
		PatientID:          a.PatientID,
		PatientName:        a.Patient.User.FullName,
		PhysicianID:        a.PhysicianID,
		PhysicianName:      a.Physician.User.FullName,
		SpecialtyName:      a.Physician.Specialty.Name,
		BranchID:           a.BranchID,
		BranchName:         a.Branch.Name,
		AppointmentTypeID:  a.AppointmentTypeID,
		Date:               at.Format(availability.DateLayout),
		Time:               at.Format(availability.TimeLayout),
		ScheduledAt:        at,
		DurationMinutes:    a.DurationMinutes,
		Status:             string(a.Status),
		Reason:             a.Reason,
		Mode:               string(a.Mode),
		MeetingLink:        a.MeetingLink,
		Notes:              a.Notes,
		CancelledAt:        a.CancelledAt,
		CancellationReason: a.CancellationReason,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	if a.AppointmentType != nil {
		response.AppointmentTypeName = a.AppointmentType.Name
		fee := a.AppointmentType.Fee
		response.Fee = &fee
	}

	return response
}

func AppointmentsToResponses(appointments []entity.Appointment, loc *time.Location) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i], loc)
	}
	return responses
}

// AppointmentsToBookings converts stored appointments for the resolver.
func AppointmentsToBookings(appointments []entity.Appointment) []availability.Booking {
	out := make([]availability.Booking, len(appointments))
	for i, a := range appointments {
		out[i] = availability.Booking{
			PhysicianID: a.PhysicianID,
			BranchID:    a.BranchID,
			At:          a.ScheduledAt,
			Cancelled:   a.IsCancelled(),
		}
	}
	return out
}

// AppointmentResponsesToBookings converts appointments received over the
// wire for the resolver.
func AppointmentResponsesToBookings(appointments []dto.AppointmentResponse) []availability.Booking {
	out := make([]availability.Booking, len(appointments))
	for i, a := range appointments {
		out[i] = availability.Booking{
			PhysicianID: a.PhysicianID,
			BranchID:    a.BranchID,
			At:          a.ScheduledAt,
			Cancelled:   a.Status == string(entity.AppointmentStatusCancelled),
		}
	}
	return out
}
