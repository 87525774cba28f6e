package handler

import (
	"net/http"

	"clinic-scheduler/internal/usecase"
	"clinic-scheduler/pkg/response"
)

type DirectoryHandler struct {
	directoryUsecase usecase.DirectoryUsecase
}

func NewDirectoryHandler(directoryUsecase usecase.DirectoryUsecase) *DirectoryHandler {
	return &DirectoryHandler{directoryUsecase: directoryUsecase}
}

func (h *DirectoryHandler) Specialties(w http.ResponseWriter, r *http.Request) {
	specialties, err := h.directoryUsecase.ListSpecialties(r.Context())
	if err != nil {
		response.FromError(w, err, "Failed to get specialties")
		return
	}

	response.Success(w, http.StatusOK, "Specialties retrieved successfully", specialties)
}

func (h *DirectoryHandler) Branches(w http.ResponseWriter, r *http.Request) {
	branches, err := h.directoryUsecase.ListBranches(r.Context())
	if err != nil {
		response.FromError(w, err, "Failed to get branches")
		return
	}

	response.Success(w, http.StatusOK, "Branches retrieved successfully", branches)
}

func (h *DirectoryHandler) AppointmentTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.directoryUsecase.ListAppointmentTypes(r.Context())
	if err != nil {
		response.FromError(w, err, "Failed to get appointment types")
		return
	}

	response.Success(w, http.StatusOK, "Appointment types retrieved successfully", types)
}
