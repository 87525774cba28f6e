package directory

import (
	"context"
	"time"

	"clinic-scheduler/internal/availability"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/schedapi"

	"github.com/google/uuid"
)

type APISource struct {
	client *schedapi.Client
	loc    *time.Location
}

func NewAPISource(client *schedapi.Client, loc *time.Location) *APISource {
	if loc == nil {
		loc = time.Local
	}
	return &APISource{client: client, loc: loc}
}

func (s *APISource) Specialties(ctx context.Context) ([]dto.SpecialtyResponse, error) {
	return s.client.Specialties(ctx)
}

func (s *APISource) Branches(ctx context.Context) ([]dto.BranchResponse, error) {
	return s.client.Branches(ctx)
}

func (s *APISource) Physicians(ctx context.Context, req *dto.PhysicianListRequest) ([]dto.PhysicianResponse, error) {
	resp, err := s.client.Physicians(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp.Physicians, nil
}

func (s *APISource) Templates(ctx context.Context, req *dto.ScheduleTemplateListRequest) ([]dto.ScheduleTemplateResponse, error) {
	resp, err := s.client.Schedules(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp.Templates, nil
}

// Bookings reads the server's availability for the day and turns its booked
// slots back into bookings. Patients cannot list other patients'
// appointments, but the availability view covers them.
func (s *APISource) Bookings(ctx context.Context, physicianID uuid.UUID, branchID int, date time.Time) ([]availability.Booking, error) {
	resp, err := s.client.Availability(ctx, physicianID, &dto.AvailabilityRequest{
		BranchID: branchID,
		Date:     date.In(s.loc).Format(availability.DateLayout),
	})
	if err != nil {
		return nil, err
	}

	day := date.In(s.loc)
	var bookings []availability.Booking
	for _, slot := range resp.Slots {
		if slot.Reason != string(availability.ReasonBooked) {
			continue
		}
		start, err := availability.ParseClock(slot.StartTime)
		if err != nil {
			continue
		}
		bookings = append(bookings, availability.Booking{
			PhysicianID: physicianID,
			BranchID:    branchID,
			At:          start.On(day),
		})
	}
	return bookings, nil
}
