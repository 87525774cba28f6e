package usecase

import (
	"context"
	"time"

	"clinic-scheduler/internal/availability"
	"clinic-scheduler/internal/converter"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/repository"
	"clinic-scheduler/internal/service"
	"clinic-scheduler/internal/session"
	"clinic-scheduler/pkg/apperror"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrPatientNotFound         = apperror.NotFound("patient not found")
	ErrNationalIDAlreadyExists = apperror.Conflict("national id already exists")
	ErrInvalidDateOfBirth      = apperror.ValidationFields("Validation failed", map[string]string{
		"date_of_birth": "date_of_birth must be a past date in yyyy-MM-dd format",
	})
)

type PatientUsecase interface {
	// Register creates a patient. A nil actor is a self-registration.
	Register(ctx context.Context, actor *session.Session, req *dto.RegisterPatientRequest) (*dto.PatientResponse, error)
	GetByNationalID(ctx context.Context, actor *session.Session, nationalID string) (*dto.PatientResponse, error)
	GetByID(ctx context.Context, actor *session.Session, id uuid.UUID) (*dto.PatientResponse, error)
}

type patientUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	userRepo     repository.UserRepository
	patientRepo  repository.PatientRepository
	auditService service.AuditService
	now          func() time.Time
}

func NewPatientUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	patientRepo repository.PatientRepository,
	auditService service.AuditService,
) PatientUsecase {
	return &patientUsecase{
		db:           db,
		log:          log,
		userRepo:     userRepo,
		patientRepo:  patientRepo,
		auditService: auditService,
		now:          time.Now,
	}
}

func (u *patientUsecase) Register(ctx context.Context, actor *session.Session, req *dto.RegisterPatientRequest) (*dto.PatientResponse, error) {
	if actor != nil {
		if err := requireCapability(actor, session.CapRegisterPatients); err != nil {
			return nil, err
		}
	}

	var dob *time.Time
	if req.DateOfBirth != "" {
		d, err := availability.ParseDate(req.DateOfBirth, time.UTC)
		if err != nil || d.After(u.now()) {
			return nil, ErrInvalidDateOfBirth
		}
		dob = &d
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user := &entity.User{
		Email:    req.Email,
		Password: string(hashedPassword),
		FullName: req.FullName,
		RoleID:   session.RoleIDPatient,
		IsActive: true,
	}
	if err := u.userRepo.Create(tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	patient := &entity.Patient{
		UserID:           user.ID,
		NationalID:       req.NationalID,
		Phone:            req.Phone,
		DateOfBirth:      dob,
		Gender:           req.Gender,
		Address:          req.Address,
		BloodType:        req.BloodType,
		Allergies:        req.Allergies,
		MedicalHistory:   req.MedicalHistory,
		EmergencyContact: req.EmergencyContact,
		EmergencyPhone:   req.EmergencyPhone,
		InsuranceNumber:  req.InsuranceNumber,
	}
	if err := u.patientRepo.Create(tx, patient); err != nil {
		if isDuplicateKeyError(err, "national_id") {
			return nil, ErrNationalIDAlreadyExists
		}
		u.log.Warnf("Failed to create patient: %+v", err)
		return nil, err
	}

	registeredBy := actorID(actor)
	if registeredBy == nil {
		registeredBy = &user.ID
	}
	if err := u.auditService.LogCreate(ctx, tx, registeredBy, entity.AuditActionPatientRegister,
		"patient", user.ID.String(), map[string]interface{}{
			"email":       user.Email,
			"full_name":   user.FullName,
			"national_id": patient.NationalID,
		}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Patient %s registered", user.ID)
	patient.User = *user
	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) GetByNationalID(ctx context.Context, actor *session.Session, nationalID string) (*dto.PatientResponse, error) {
	if actor == nil {
		return nil, ErrNotAuthenticated
	}

	patient, err := u.patientRepo.FindByNationalID(u.db.WithContext(ctx), nationalID)
	if err != nil {
		u.log.Warnf("Failed to find patient by national id: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}
	if !canSeePatient(actor, patient.UserID) {
		return nil, ErrPatientNotFound
	}

	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) GetByID(ctx context.Context, actor *session.Session, id uuid.UUID) (*dto.PatientResponse, error) {
	if actor == nil {
		return nil, ErrNotAuthenticated
	}
	if !canSeePatient(actor, id) {
		return nil, ErrForbidden
	}

	patient, err := u.patientRepo.FindByUserID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	return converter.PatientToResponse(patient), nil
}

// canSeePatient allows staff with the search capability and patients
// looking at themselves.
func canSeePatient(actor *session.Session, patientID uuid.UUID) bool {
	return actor.Can(session.CapSearchPatients) || (actor.Role == session.RolePatient && actor.Owns(patientID))
}
