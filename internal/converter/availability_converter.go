package converter

import (
	"clinic-scheduler/internal/availability"
	"clinic-scheduler/internal/delivery/dto"
)

// AvailabilityToResponse converts a resolver result to its DTO.
func AvailabilityToResponse(r availability.Result) *dto.AvailabilityResponse {
	slots := make([]dto.SlotResponse, len(r.Slots))
	for i, s := range r.Slots {
		slots[i] = dto.SlotResponse{
			StartTime:       s.Start.String(),
			EndTime:         s.End.String(),
			DurationMinutes: int(s.Duration().Minutes()),
			Available:       s.Available,
			Reason:          string(s.Reason),
			TemplateID:      s.TemplateID,
		}
	}

	return &dto.AvailabilityResponse{
		PhysicianID: r.PhysicianID,
		BranchID:    r.BranchID,
		Date:        r.Date.Format(availability.DateLayout),
		DayOfWeek:   r.DayOfWeek,
		NoSchedule:  r.NoSchedule,
		Overlapping: r.Overlapping,
		Slots:       slots,
	}
}
