package converter

import (
	"fmt"

	"clinic-scheduler/internal/availability"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
)

// ScheduleTemplateToResponse converts a ScheduleTemplate entity to its DTO.
// Times are normalized to HH:mm:ss.
func ScheduleTemplateToResponse(t *entity.ScheduleTemplate) *dto.ScheduleTemplateResponse {
	if t == nil {
		return nil
	}
	return &dto.ScheduleTemplateResponse{
		ID:            t.ID,
		PhysicianID:   t.PhysicianID,
		PhysicianName: t.Physician.User.FullName,
		BranchID:      t.BranchID,
		BranchName:    t.Branch.Name,
		DayOfWeek:     t.DayOfWeek,
		StartTime:     normalizeClock(t.StartTime),
		EndTime:       normalizeClock(t.EndTime),
		SlotMinutes:   t.SlotMinutes,
		Active:        t.Active,
		Notes:         t.Notes,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func ScheduleTemplatesToResponses(templates []entity.ScheduleTemplate) []dto.ScheduleTemplateResponse {
	responses := make([]dto.ScheduleTemplateResponse, len(templates))
	for i := range templates {
		responses[i] = *ScheduleTemplateToResponse(&templates[i])
	}
	return responses
}

// ScheduleTemplateToAvailability converts a stored template for the resolver.
func ScheduleTemplateToAvailability(t entity.ScheduleTemplate) (availability.Template, error) {
	start, err := availability.ParseClock(t.StartTime)
	if err != nil {
		return availability.Template{}, fmt.Errorf("template %d: %w", t.ID, err)
	}
	end, err := availability.ParseClock(t.EndTime)
	if err != nil {
		return availability.Template{}, fmt.Errorf("template %d: %w", t.ID, err)
	}
	return availability.Template{
		ID:          t.ID,
		PhysicianID: t.PhysicianID,
		BranchID:    t.BranchID,
		DayOfWeek:   t.DayOfWeek,
		Start:       start,
		End:         end,
		SlotMinutes: t.SlotMinutes,
		Active:      t.Active,
	}, nil
}

func ScheduleTemplatesToAvailability(templates []entity.ScheduleTemplate) ([]availability.Template, error) {
	out := make([]availability.Template, 0, len(templates))
	for _, t := range templates {
		tpl, err := ScheduleTemplateToAvailability(t)
		if err != nil {
			return nil, err
		}
		out = append(out, tpl)
	}
	return out, nil
}

// ScheduleTemplateResponsesToAvailability converts templates received over
// the wire for the resolver.
func ScheduleTemplateResponsesToAvailability(templates []dto.ScheduleTemplateResponse) ([]availability.Template, error) {
	out := make([]availability.Template, 0, len(templates))
	for _, t := range templates {
		tpl, err := ScheduleTemplateToAvailability(entity.ScheduleTemplate{
			ID:          t.ID,
			PhysicianID: t.PhysicianID,
			BranchID:    t.BranchID,
			DayOfWeek:   t.DayOfWeek,
			StartTime:   t.StartTime,
			EndTime:     t.EndTime,
			SlotMinutes: t.SlotMinutes,
			Active:      t.Active,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, tpl)
	}
	return out, nil
}

func normalizeClock(s string) string {
	c, err := availability.ParseClock(s)
	if err != nil {
		return s
	}
	return c.String()
}
