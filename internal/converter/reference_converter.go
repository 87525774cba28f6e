package converter

import (
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
)

func SpecialtyToResponse(specialty *entity.Specialty) *dto.SpecialtyResponse {
	if specialty == nil {
		return nil
	}
	return &dto.SpecialtyResponse{
		ID:          specialty.ID,
		Name:        specialty.Name,
		Description: specialty.Description,
	}
}

func SpecialtiesToResponses(specialties []entity.Specialty) []dto.SpecialtyResponse {
	responses := make([]dto.SpecialtyResponse, len(specialties))
	for i := range specialties {
		responses[i] = *SpecialtyToResponse(&specialties[i])
	}
	return responses
}

func BranchToResponse(branch *entity.Branch) *dto.BranchResponse {
	if branch == nil {
		return nil
	}
	return &dto.BranchResponse{
		ID:           branch.ID,
		Name:         branch.Name,
		Address:      branch.Address,
		Phone:        branch.Phone,
		Email:        branch.Email,
		OpeningHours: branch.OpeningHours,
		Active:       branch.Active,
	}
}

func BranchesToResponses(branches []entity.Branch) []dto.BranchResponse {
	responses := make([]dto.BranchResponse, len(branches))
	for i := range branches {
		responses[i] = *BranchToResponse(&branches[i])
	}
	return responses
}

func AppointmentTypeToResponse(t *entity.AppointmentType) *dto.AppointmentTypeResponse {
	if t == nil {
		return nil
	}
	return &dto.AppointmentTypeResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Fee:         t.Fee,
		Active:      t.Active,
	}
}

func AppointmentTypesToResponses(types []entity.AppointmentType) []dto.AppointmentTypeResponse {
	responses := make([]dto.AppointmentTypeResponse, len(types))
	for i := range types {
		responses[i] = *AppointmentTypeToResponse(&types[i])
	}
	return responses
}
