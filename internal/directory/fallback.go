package directory

import (
	"context"
	"time"

	"clinic-scheduler/internal/availability"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/pkg/apperror"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// FallbackSource answers from primary and retries on secondary only when
// primary failed with a transport error. Any other error is returned as is.
type FallbackSource struct {
	primary   Source
	secondary Source
	log       *logrus.Logger
}

// NewFallbackSource returns primary unchanged when secondary is nil.
func NewFallbackSource(primary, secondary Source, log *logrus.Logger) Source {
	if secondary == nil {
		return primary
	}
	if log == nil {
		log = logrus.New()
	}
	return &FallbackSource{primary: primary, secondary: secondary, log: log}
}

func (s *FallbackSource) Specialties(ctx context.Context) ([]dto.SpecialtyResponse, error) {
	return fallback(s, "specialties", func(src Source) ([]dto.SpecialtyResponse, error) {
		return src.Specialties(ctx)
	})
}

func (s *FallbackSource) Branches(ctx context.Context) ([]dto.BranchResponse, error) {
	return fallback(s, "branches", func(src Source) ([]dto.BranchResponse, error) {
		return src.Branches(ctx)
	})
}

func (s *FallbackSource) Physicians(ctx context.Context, req *dto.PhysicianListRequest) ([]dto.PhysicianResponse, error) {
	return fallback(s, "physicians", func(src Source) ([]dto.PhysicianResponse, error) {
		return src.Physicians(ctx, req)
	})
}

func (s *FallbackSource) Templates(ctx context.Context, req *dto.ScheduleTemplateListRequest) ([]dto.ScheduleTemplateResponse, error) {
	return fallback(s, "schedule templates", func(src Source) ([]dto.ScheduleTemplateResponse, error) {
		return src.Templates(ctx, req)
	})
}

func (s *FallbackSource) Bookings(ctx context.Context, physicianID uuid.UUID, branchID int, date time.Time) ([]availability.Booking, error) {
	return fallback(s, "bookings", func(src Source) ([]availability.Booking, error) {
		return src.Bookings(ctx, physicianID, branchID, date)
	})
}

func fallback[T any](s *FallbackSource, what string, read func(Source) (T, error)) (T, error) {
	out, err := read(s.primary)
	if err == nil || !apperror.IsTransport(err) {
		return out, err
	}

	s.log.Warnf("Scheduling API unavailable for %s, reading directory database: %v", what, err)
	return read(s.secondary)
}
