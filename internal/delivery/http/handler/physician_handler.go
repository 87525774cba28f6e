package handler

import (
	"net/http"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/usecase"
	"clinic-scheduler/pkg/response"
	"clinic-scheduler/pkg/validator"
)

type PhysicianHandler struct {
	physicianUsecase    usecase.PhysicianUsecase
	availabilityUsecase usecase.AvailabilityUsecase
	validator           *validator.CustomValidator
}

func NewPhysicianHandler(physicianUsecase usecase.PhysicianUsecase, availabilityUsecase usecase.AvailabilityUsecase, validator *validator.CustomValidator) *PhysicianHandler {
	return &PhysicianHandler{
		physicianUsecase:    physicianUsecase,
		availabilityUsecase: availabilityUsecase,
		validator:           validator,
	}
}

// Register creates a physician account with its profile
// @Summary Register physician
// @Tags Physicians
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.RegisterPhysicianRequest true "Register Physician Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /physicians [post]
func (h *PhysicianHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterPhysicianRequest
	if !decodeBody(w, r, h.validator, &req) {
		return
	}

	physician, err := h.physicianUsecase.Register(r.Context(), actor(r), &req)
	if err != nil {
		response.FromError(w, err, "Failed to register physician")
		return
	}

	response.Success(w, http.StatusCreated, "Physician registered successfully", physician)
}

// List returns active physicians, optionally by specialty or name
// @Summary List physicians
// @Tags Physicians
// @Security BearerAuth
// @Produce json
// @Param specialty_id query int false "Specialty ID"
// @Param name query string false "Name contains"
// @Success 200 {object} response.Response
// @Router /physicians [get]
func (h *PhysicianHandler) List(w http.ResponseWriter, r *http.Request) {
	specialtyID, ok := queryInt(w, r, "specialty_id")
	if !ok {
		return
	}
	req := dto.PhysicianListRequest{
		SpecialtyID: specialtyID,
		Name:        r.URL.Query().Get("name"),
	}

	physicians, err := h.physicianUsecase.List(r.Context(), &req)
	if err != nil {
		response.FromError(w, err, "Failed to get physicians")
		return
	}

	response.Success(w, http.StatusOK, "Physicians retrieved successfully", physicians)
}

func (h *PhysicianHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidVar(w, r, "id", "physician")
	if !ok {
		return
	}

	physician, err := h.physicianUsecase.Get(r.Context(), id)
	if err != nil {
		response.FromError(w, err, "Failed to get physician")
		return
	}

	response.Success(w, http.StatusOK, "Physician retrieved successfully", physician)
}

// Availability resolves the slots of a physician at a branch on a date
// @Summary Physician availability
// @Tags Physicians
// @Security BearerAuth
// @Produce json
// @Param id path string true "Physician ID"
// @Param branch_id query int true "Branch ID"
// @Param date query string true "Date (yyyy-MM-dd)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /physicians/{id}/availability [get]
func (h *PhysicianHandler) Availability(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidVar(w, r, "id", "physician")
	if !ok {
		return
	}
	branchID, ok := queryInt(w, r, "branch_id")
	if !ok {
		return
	}
	req := dto.AvailabilityRequest{
		BranchID: branchID,
		Date:     r.URL.Query().Get("date"),
	}
	if !validateQuery(w, h.validator, &req) {
		return
	}

	result, err := h.availabilityUsecase.GetAvailability(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, err, "Failed to get availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability retrieved successfully", result)
}
