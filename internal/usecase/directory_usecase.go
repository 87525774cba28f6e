package usecase

import (
	"context"

	"clinic-scheduler/internal/converter"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DirectoryUsecase serves the reference data: specialties, branches and
// appointment types.
type DirectoryUsecase interface {
	ListSpecialties(ctx context.Context) ([]dto.SpecialtyResponse, error)
	ListBranches(ctx context.Context) ([]dto.BranchResponse, error)
	ListAppointmentTypes(ctx context.Context) ([]dto.AppointmentTypeResponse, error)
}

type directoryUsecase struct {
	db                  *gorm.DB
	log                 *logrus.Logger
	specialtyRepo       repository.SpecialtyRepository
	branchRepo          repository.BranchRepository
	appointmentTypeRepo repository.AppointmentTypeRepository
}

func NewDirectoryUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	specialtyRepo repository.SpecialtyRepository,
	branchRepo repository.BranchRepository,
	appointmentTypeRepo repository.AppointmentTypeRepository,
) DirectoryUsecase {
	return &directoryUsecase{
		db:                  db,
		log:                 log,
		specialtyRepo:       specialtyRepo,
		branchRepo:          branchRepo,
		appointmentTypeRepo: appointmentTypeRepo,
	}
}

func (u *directoryUsecase) ListSpecialties(ctx context.Context) ([]dto.SpecialtyResponse, error) {
	specialties, err := u.specialtyRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find specialties: %+v", err)
		return nil, err
	}
	return converter.SpecialtiesToResponses(specialties), nil
}

func (u *directoryUsecase) ListBranches(ctx context.Context) ([]dto.BranchResponse, error) {
	branches, err := u.branchRepo.FindAll(u.db.WithContext(ctx), true)
	if err != nil {
		u.log.Warnf("Failed to find branches: %+v", err)
		return nil, err
	}
	return converter.BranchesToResponses(branches), nil
}

func (u *directoryUsecase) ListAppointmentTypes(ctx context.Context) ([]dto.AppointmentTypeResponse, error) {
	types, err := u.appointmentTypeRepo.FindAll(u.db.WithContext(ctx), true)
	if err != nil {
		u.log.Warnf("Failed to find appointment types: %+v", err)
		return nil, err
	}
	return converter.AppointmentTypesToResponses(types), nil
}
