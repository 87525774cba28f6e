package http

import (
	"net/http"

	"clinic-scheduler/internal/delivery/http/handler"
	"clinic-scheduler/internal/delivery/http/middleware"
	"clinic-scheduler/internal/session"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Handlers groups the HTTP handlers the router mounts.
type Handlers struct {
	Auth             *handler.AuthHandler
	Directory        *handler.DirectoryHandler
	Physician        *handler.PhysicianHandler
	Patient          *handler.PatientHandler
	ScheduleTemplate *handler.ScheduleTemplateHandler
	Appointment      *handler.AppointmentHandler
	AuditLog         *handler.AuditLogHandler
}

type Router struct {
	router         *mux.Router
	handlers       Handlers
	authMiddleware *middleware.AuthMiddleware
	corsMiddleware *middleware.CORSMiddleware
	metrics        http.Handler
	log            *logrus.Logger
}

func NewRouter(
	handlers Handlers,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	metrics http.Handler,
	log *logrus.Logger,
) *Router {
	return &Router{
		router:         mux.NewRouter(),
		handlers:       handlers,
		authMiddleware: authMiddleware,
		corsMiddleware: corsMiddleware,
		metrics:        metrics,
		log:            log,
	}
}

func (r *Router) Setup() *mux.Router {
	h := r.handlers

	if r.metrics != nil {
		r.router.Handle("/metrics", r.metrics).Methods(http.MethodGet)
	}

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)
	api.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh-token", h.Auth.RefreshToken).Methods(http.MethodPost)
	api.HandleFunc("/auth/register/patient", h.Auth.RegisterPatient).Methods(http.MethodPost)

	// Everything below requires a session
	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)

	protected.HandleFunc("/auth/logout", h.Auth.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/auth/me", h.Auth.Me).Methods(http.MethodGet)

	// Reference data
	protected.HandleFunc("/specialties", h.Directory.Specialties).Methods(http.MethodGet)
	protected.HandleFunc("/branches", h.Directory.Branches).Methods(http.MethodGet)
	protected.HandleFunc("/appointment-types", h.Directory.AppointmentTypes).Methods(http.MethodGet)

	// Physicians
	protected.Handle("/physicians", guard(h.Physician.List, session.CapViewPhysicians)).Methods(http.MethodGet)
	protected.Handle("/physicians", guard(h.Physician.Register, session.CapRegisterPhysicians)).Methods(http.MethodPost)
	protected.Handle("/physicians/{id}", guard(h.Physician.Get, session.CapViewPhysicians)).Methods(http.MethodGet)
	protected.Handle("/physicians/{id}/availability", guard(h.Physician.Availability, session.CapViewSchedules)).Methods(http.MethodGet)

	// Patients: the usecase lets patients read themselves
	protected.HandleFunc("/patients/national-id/{nationalId}", h.Patient.GetByNationalID).Methods(http.MethodGet)
	protected.HandleFunc("/patients/{id}", h.Patient.GetByID).Methods(http.MethodGet)
	protected.Handle("/patients", guard(h.Patient.Register, session.CapRegisterPatients)).Methods(http.MethodPost)

	// Schedule templates
	protected.Handle("/schedules", guard(h.ScheduleTemplate.List, session.CapViewSchedules)).Methods(http.MethodGet)
	protected.Handle("/schedules", guard(h.ScheduleTemplate.Create, session.CapManageSchedules)).Methods(http.MethodPost)
	protected.Handle("/schedules/{id}", guard(h.ScheduleTemplate.Update, session.CapManageSchedules)).Methods(http.MethodPut)
	protected.Handle("/schedules/{id}", guard(h.ScheduleTemplate.Delete, session.CapManageSchedules)).Methods(http.MethodDelete)

	// Appointments
	viewAppointments := middleware.RequireAny(session.CapViewAllAppointments, session.CapViewOwnAppointments)
	protected.Handle("/appointments", viewAppointments(http.HandlerFunc(h.Appointment.List))).Methods(http.MethodGet)
	protected.Handle("/appointments", guard(h.Appointment.Create, session.CapCreateAppointments)).Methods(http.MethodPost)
	protected.Handle("/appointments/{id}", viewAppointments(http.HandlerFunc(h.Appointment.Get))).Methods(http.MethodGet)
	protected.Handle("/appointments/{id}/cancel", guard(h.Appointment.Cancel, session.CapCancelAppointments)).Methods(http.MethodPost)
	protected.Handle("/appointments/{id}/confirm", guard(h.Appointment.Confirm, session.CapConfirmAppointments)).Methods(http.MethodPost)
	protected.Handle("/appointments/{id}/complete", guard(h.Appointment.Complete, session.CapCompleteAppointments)).Methods(http.MethodPost)

	// Audit logs
	protected.Handle("/audit-logs", guard(h.AuditLog.GetAllAuditLogs, session.CapViewAuditLogs)).Methods(http.MethodGet)
	protected.Handle("/audit-logs/{id}", guard(h.AuditLog.GetAuditLog, session.CapViewAuditLogs)).Methods(http.MethodGet)

	// Add CORS and request logging middleware
	r.router.Use(r.corsMiddleware.Handle)
	if r.log != nil {
		r.router.Use(middleware.Logging(r.log))
	}

	return r.router
}

func guard(h http.HandlerFunc, capability session.Capability) http.Handler {
	return middleware.Require(capability)(h)
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
