package handler

import (
	"net/http"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/usecase"
	"clinic-scheduler/pkg/response"
	"clinic-scheduler/pkg/validator"

	"github.com/gorilla/mux"
)

type PatientHandler struct {
	patientUsecase usecase.PatientUsecase
	validator      *validator.CustomValidator
}

func NewPatientHandler(patientUsecase usecase.PatientUsecase, validator *validator.CustomValidator) *PatientHandler {
	return &PatientHandler{
		patientUsecase: patientUsecase,
		validator:      validator,
	}
}

// Register lets staff register a patient.
func (h *PatientHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterPatientRequest
	if !decodeBody(w, r, h.validator, &req) {
		return
	}

	patient, err := h.patientUsecase.Register(r.Context(), actor(r), &req)
	if err != nil {
		response.FromError(w, err, "Failed to register patient")
		return
	}

	response.Success(w, http.StatusCreated, "Patient registered successfully", patient)
}

func (h *PatientHandler) GetByNationalID(w http.ResponseWriter, r *http.Request) {
	nationalID := mux.Vars(r)["nationalId"]
	if nationalID == "" {
		response.Error(w, http.StatusBadRequest, "Invalid national ID", nil)
		return
	}

	patient, err := h.patientUsecase.GetByNationalID(r.Context(), actor(r), nationalID)
	if err != nil {
		response.FromError(w, err, "Failed to get patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient retrieved successfully", patient)
}

func (h *PatientHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidVar(w, r, "id", "patient")
	if !ok {
		return
	}

	patient, err := h.patientUsecase.GetByID(r.Context(), actor(r), id)
	if err != nil {
		response.FromError(w, err, "Failed to get patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient retrieved successfully", patient)
}
