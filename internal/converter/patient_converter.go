package converter

import (
	"clinic-scheduler/internal/availability"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
)

// PatientToResponse converts a Patient entity to PatientResponse DTO
func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	response := &dto.PatientResponse{
		UserID:           patient.UserID,
		FullName:         patient.User.FullName,
		Email:            patient.User.Email,
		NationalID:       patient.NationalID,
		Phone:            patient.Phone,
		Gender:           patient.Gender,
		Address:          patient.Address,
		BloodType:        patient.BloodType,
		Allergies:        patient.Allergies,
		MedicalHistory:   patient.MedicalHistory,
		EmergencyContact: patient.EmergencyContact,
		EmergencyPhone:   patient.EmergencyPhone,
		InsuranceNumber:  patient.InsuranceNumber,
		CreatedAt:        patient.CreatedAt,
	}
	if patient.DateOfBirth != nil {
		response.DateOfBirth = patient.DateOfBirth.Format(availability.DateLayout)
	}

	return response
}
