package converter

import (
	"sort"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
)

// PhysicianToResponse converts a Physician entity to PhysicianResponse DTO.
// Templates, when loaded, also yield the sorted list of branches covered.
func PhysicianToResponse(physician *entity.Physician) *dto.PhysicianResponse {
	if physician == nil {
		return nil
	}

	response := &dto.PhysicianResponse{
		UserID:        physician.UserID,
		FullName:      physician.User.FullName,
		Email:         physician.User.Email,
		NationalID:    physician.NationalID,
		LicenseNumber: physician.LicenseNumber,
		Phone:         physician.Phone,
		Biography:     physician.Biography,
		Active:        physician.Active,
	}

	if physician.Specialty.ID != 0 {
		response.Specialty = SpecialtyToResponse(&physician.Specialty)
	}

	if len(physician.Templates) > 0 {
		response.Templates = ScheduleTemplatesToResponses(physician.Templates)
		seen := make(map[int]bool)
		for _, t := range physician.Templates {
			if !seen[t.BranchID] {
				seen[t.BranchID] = true
				response.BranchIDs = append(response.BranchIDs, t.BranchID)
			}
		}
		sort.Ints(response.BranchIDs)
	}

	return response
}

// PhysiciansToResponses converts a slice of Physician entities to slice of PhysicianResponse DTOs
func PhysiciansToResponses(physicians []entity.Physician) []dto.PhysicianResponse {
	responses := make([]dto.PhysicianResponse, len(physicians))
	for i := range physicians {
		responses[i] = *PhysicianToResponse(&physicians[i])
	}
	return responses
}
