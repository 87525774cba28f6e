package schedapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"clinic-scheduler/internal/delivery/dto"

	"github.com/google/uuid"
)

// Auth

func (c *Client) Login(ctx context.Context, email, password string) (*dto.TokenResponse, error) {
	var out dto.TokenResponse
	req := dto.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	var out dto.TokenResponse
	req := dto.RefreshTokenRequest{RefreshToken: refreshToken}
	if err := c.do(ctx, http.MethodPost, "/auth/refresh-token", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes the client's access token and, when given, refreshToken.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	var body interface{}
	if refreshToken != "" {
		body = dto.RefreshTokenRequest{RefreshToken: refreshToken}
	}
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, body, nil)
}

func (c *Client) Me(ctx context.Context) (*dto.SessionResponse, error) {
	var out dto.SessionResponse
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RegisterSelf creates a patient account without a session.
func (c *Client) RegisterSelf(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.PatientResponse, error) {
	var out dto.PatientResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register/patient", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Reference data

func (c *Client) Specialties(ctx context.Context) ([]dto.SpecialtyResponse, error) {
	var out []dto.SpecialtyResponse
	if err := c.do(ctx, http.MethodGet, "/specialties", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Branches(ctx context.Context) ([]dto.BranchResponse, error) {
	var out []dto.BranchResponse
	if err := c.do(ctx, http.MethodGet, "/branches", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AppointmentTypes(ctx context.Context) ([]dto.AppointmentTypeResponse, error) {
	var out []dto.AppointmentTypeResponse
	if err := c.do(ctx, http.MethodGet, "/appointment-types", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Physicians

func (c *Client) Physicians(ctx context.Context, req *dto.PhysicianListRequest) (*dto.PhysicianListResponse, error) {
	q := url.Values{}
	if req != nil {
		setInt(q, "specialty_id", req.SpecialtyID)
		setString(q, "name", req.Name)
	}
	var out dto.PhysicianListResponse
	if err := c.do(ctx, http.MethodGet, "/physicians", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Physician(ctx context.Context, id uuid.UUID) (*dto.PhysicianResponse, error) {
	var out dto.PhysicianResponse
	if err := c.do(ctx, http.MethodGet, "/physicians/"+id.String(), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RegisterPhysician(ctx context.Context, req *dto.RegisterPhysicianRequest) (*dto.PhysicianResponse, error) {
	var out dto.PhysicianResponse
	if err := c.do(ctx, http.MethodPost, "/physicians", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Availability(ctx context.Context, physicianID uuid.UUID, req *dto.AvailabilityRequest) (*dto.AvailabilityResponse, error) {
	q := url.Values{}
	setInt(q, "branch_id", req.BranchID)
	setString(q, "date", req.Date)

	var out dto.AvailabilityResponse
	if err := c.do(ctx, http.MethodGet, "/physicians/"+physicianID.String()+"/availability", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Patients

func (c *Client) RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.PatientResponse, error) {
	var out dto.PatientResponse
	if err := c.do(ctx, http.MethodPost, "/patients", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PatientByNationalID(ctx context.Context, nationalID string) (*dto.PatientResponse, error) {
	var out dto.PatientResponse
	if err := c.do(ctx, http.MethodGet, "/patients/national-id/"+url.PathEscape(nationalID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Patient(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error) {
	var out dto.PatientResponse
	if err := c.do(ctx, http.MethodGet, "/patients/"+id.String(), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Schedule templates

func (c *Client) Schedules(ctx context.Context, req *dto.ScheduleTemplateListRequest) (*dto.ScheduleTemplateListResponse, error) {
	q := url.Values{}
	if req != nil {
		setString(q, "physician_id", req.PhysicianID)
		setInt(q, "branch_id", req.BranchID)
		setInt(q, "day_of_week", req.DayOfWeek)
	}
	var out dto.ScheduleTemplateListResponse
	if err := c.do(ctx, http.MethodGet, "/schedules", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateSchedules(ctx context.Context, req *dto.CreateScheduleTemplatesRequest) (*dto.ScheduleTemplateListResponse, error) {
	var out dto.ScheduleTemplateListResponse
	if err := c.do(ctx, http.MethodPost, "/schedules", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSchedule(ctx context.Context, id int, req *dto.ScheduleTemplateRequest) (*dto.ScheduleTemplateResponse, error) {
	var out dto.ScheduleTemplateResponse
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/schedules/%d", id), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteSchedule(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/schedules/%d", id), nil, nil, nil)
}

// Appointments

func (c *Client) Appointments(ctx context.Context, req *dto.AppointmentListRequest) (*dto.AppointmentListResponse, error) {
	q := url.Values{}
	if req != nil {
		setString(q, "patient_id", req.PatientID)
		setString(q, "physician_id", req.PhysicianID)
		setInt(q, "branch_id", req.BranchID)
		setString(q, "date", req.Date)
		setString(q, "status", req.Status)
	}
	var out dto.AppointmentListResponse
	if err := c.do(ctx, http.MethodGet, "/appointments", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Appointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	var out dto.AppointmentResponse
	if err := c.do(ctx, http.MethodGet, "/appointments/"+id.String(), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	var out dto.AppointmentResponse
	if err := c.do(ctx, http.MethodPost, "/appointments", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CancelAppointment(ctx context.Context, id uuid.UUID, reason string) (*dto.AppointmentResponse, error) {
	var out dto.AppointmentResponse
	req := dto.CancelAppointmentRequest{Reason: reason}
	if err := c.do(ctx, http.MethodPost, "/appointments/"+id.String()+"/cancel", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ConfirmAppointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	return c.transition(ctx, id, "confirm")
}

func (c *Client) CompleteAppointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	return c.transition(ctx, id, "complete")
}

func (c *Client) transition(ctx context.Context, id uuid.UUID, action string) (*dto.AppointmentResponse, error) {
	var out dto.AppointmentResponse
	if err := c.do(ctx, http.MethodPost, "/appointments/"+id.String()+"/"+action, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Audit logs

func (c *Client) AuditLogs(ctx context.Context, req *dto.AuditLogListRequest) (*dto.AuditLogListResponse, error) {
	q := url.Values{}
	if req != nil {
		setString(q, "user_id", req.UserID)
		setString(q, "action", req.Action)
		setInt(q, "limit", req.Limit)
	}
	var out dto.AuditLogListResponse
	if err := c.do(ctx, http.MethodGet, "/audit-logs", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error) {
	var out dto.AuditLogResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/audit-logs/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
