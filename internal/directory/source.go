// Package directory reads the clinic's reference and schedule data for the
// client, from the Scheduling API or, when that is unreachable, straight
// from the Directory Database.
package directory

import (
	"context"
	"time"

	"clinic-scheduler/internal/availability"
	"clinic-scheduler/internal/delivery/dto"

	"github.com/google/uuid"
)

// Source is the read side the booking orchestrator and the CLI depend on.
// Bookings returns the non-cancelled appointments of one physician at one
// branch on date, whoever the patient is.
type Source interface {
	Specialties(ctx context.Context) ([]dto.SpecialtyResponse, error)
	Branches(ctx context.Context) ([]dto.BranchResponse, error)
	Physicians(ctx context.Context, req *dto.PhysicianListRequest) ([]dto.PhysicianResponse, error)
	Templates(ctx context.Context, req *dto.ScheduleTemplateListRequest) ([]dto.ScheduleTemplateResponse, error)
	Bookings(ctx context.Context, physicianID uuid.UUID, branchID int, date time.Time) ([]availability.Booking, error)
}
