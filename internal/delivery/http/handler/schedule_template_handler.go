package handler

import (
	"net/http"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/usecase"
	"clinic-scheduler/pkg/response"
	"clinic-scheduler/pkg/validator"
)

type ScheduleTemplateHandler struct {
	scheduleUsecase usecase.ScheduleTemplateUsecase
	validator       *validator.CustomValidator
}

func NewScheduleTemplateHandler(scheduleUsecase usecase.ScheduleTemplateUsecase, validator *validator.CustomValidator) *ScheduleTemplateHandler {
	return &ScheduleTemplateHandler{
		scheduleUsecase: scheduleUsecase,
		validator:       validator,
	}
}

// Create assigns weekly windows to a physician
// @Summary Create schedule templates
// @Description All-or-nothing batch. Physicians may omit physician_id to write their own schedule.
// @Tags Schedules
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateScheduleTemplatesRequest true "Schedule Templates"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /schedules [post]
func (h *ScheduleTemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateScheduleTemplatesRequest
	if !decodeBody(w, r, h.validator, &req) {
		return
	}

	templates, err := h.scheduleUsecase.Create(r.Context(), actor(r), &req)
	if err != nil {
		response.FromError(w, err, "Failed to create schedule")
		return
	}

	response.Success(w, http.StatusCreated, "Schedule created successfully", templates)
}

func (h *ScheduleTemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := intVar(w, r, "id", "schedule")
	if !ok {
		return
	}

	var req dto.ScheduleTemplateRequest
	if !decodeBody(w, r, h.validator, &req) {
		return
	}

	template, err := h.scheduleUsecase.Update(r.Context(), actor(r), id, &req)
	if err != nil {
		response.FromError(w, err, "Failed to update schedule")
		return
	}

	response.Success(w, http.StatusOK, "Schedule updated successfully", template)
}

func (h *ScheduleTemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := intVar(w, r, "id", "schedule")
	if !ok {
		return
	}

	if err := h.scheduleUsecase.Delete(r.Context(), actor(r), id); err != nil {
		response.FromError(w, err, "Failed to delete schedule")
		return
	}

	response.Success(w, http.StatusOK, "Schedule deleted successfully", nil)
}

// List returns templates filtered by physician, branch and weekday
// @Summary List schedule templates
// @Tags Schedules
// @Security BearerAuth
// @Produce json
// @Param physician_id query string false "Physician ID"
// @Param branch_id query int false "Branch ID"
// @Param day_of_week query int false "ISO weekday, 1 = Monday"
// @Success 200 {object} response.Response
// @Router /schedules [get]
func (h *ScheduleTemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	branchID, ok := queryInt(w, r, "branch_id")
	if !ok {
		return
	}
	dayOfWeek, ok := queryInt(w, r, "day_of_week")
	if !ok {
		return
	}
	req := dto.ScheduleTemplateListRequest{
		PhysicianID: r.URL.Query().Get("physician_id"),
		BranchID:    branchID,
		DayOfWeek:   dayOfWeek,
	}
	if !validateQuery(w, h.validator, &req) {
		return
	}

	templates, err := h.scheduleUsecase.List(r.Context(), &req)
	if err != nil {
		response.FromError(w, err, "Failed to get schedules")
		return
	}

	response.Success(w, http.StatusOK, "Schedules retrieved successfully", templates)
}
