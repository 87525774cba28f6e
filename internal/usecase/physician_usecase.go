package usecase

import (
	"context"

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
	ErrPhysicianNotFound          = apperror.NotFound("physician not found")
	ErrSpecialtyNotFound          = apperror.NotFound("specialty not found")
	ErrLicenseNumberAlreadyExists = apperror.Conflict("license number already exists")
)

type PhysicianUsecase interface {
	Register(ctx context.Context, actor *session.Session, req *dto.RegisterPhysicianRequest) (*dto.PhysicianResponse, error)
	List(ctx context.Context, req *dto.PhysicianListRequest) (*dto.PhysicianListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.PhysicianResponse, error)
}

type physicianUsecase struct {
	db            *gorm.DB
	log           *logrus.Logger
	userRepo      repository.UserRepository
	physicianRepo repository.PhysicianRepository
	specialtyRepo repository.SpecialtyRepository
	auditService  service.AuditService
}

func NewPhysicianUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	physicianRepo repository.PhysicianRepository,
	specialtyRepo repository.SpecialtyRepository,
	auditService service.AuditService,
) PhysicianUsecase {
	return &physicianUsecase{
		db:            db,
		log:           log,
		userRepo:      userRepo,
		physicianRepo: physicianRepo,
		specialtyRepo: specialtyRepo,
		auditService:  auditService,
	}
}

func (u *physicianUsecase) Register(ctx context.Context, actor *session.Session, req *dto.RegisterPhysicianRequest) (*dto.PhysicianResponse, error) {
	if err := requireCapability(actor, session.CapRegisterPhysicians); err != nil {
		return nil, err
	}

	specialty, err := u.specialtyRepo.FindByID(u.db.WithContext(ctx), req.SpecialtyID)
	if err != nil {
		u.log.Warnf("Failed to find specialty: %+v", err)
		return nil, err
	}
	if specialty == nil {
		return nil, ErrSpecialtyNotFound
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
		RoleID:   session.RoleIDPhysician,
		IsActive: true,
	}
	if err := u.userRepo.Create(tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	physician := &entity.Physician{
		UserID:        user.ID,
		NationalID:    req.NationalID,
		LicenseNumber: req.LicenseNumber,
		SpecialtyID:   specialty.ID,
		Phone:         req.Phone,
		Biography:     req.Biography,
		Active:        true,
	}
	if err := u.physicianRepo.Create(tx, physician); err != nil {
		switch {
		case isDuplicateKeyError(err, "license_number"):
			return nil, ErrLicenseNumberAlreadyExists
		case isDuplicateKeyError(err, "national_id"):
			return nil, ErrNationalIDAlreadyExists
		case isForeignKeyError(err, "specialty"):
			return nil, ErrSpecialtyNotFound
		}
		u.log.Warnf("Failed to create physician: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, actorID(actor), entity.AuditActionPhysicianRegister,
		"physician", user.ID.String(), map[string]interface{}{
			"email":          user.Email,
			"full_name":      user.FullName,
			"license_number": physician.LicenseNumber,
			"specialty_id":   physician.SpecialtyID,
		}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Physician %s registered with specialty %s", user.ID, specialty.Name)
	physician.User = *user
	physician.Specialty = *specialty
	return converter.PhysicianToResponse(physician), nil
}

func (u *physicianUsecase) List(ctx context.Context, req *dto.PhysicianListRequest) (*dto.PhysicianListResponse, error) {
	physicians, err := u.physicianRepo.FindAll(u.db.WithContext(ctx), repository.PhysicianFilter{
		SpecialtyID: req.SpecialtyID,
		Name:        req.Name,
		ActiveOnly:  true,
	})
	if err != nil {
		u.log.Warnf("Failed to find physicians: %+v", err)
		return nil, err
	}

	return &dto.PhysicianListResponse{
		Physicians: converter.PhysiciansToResponses(physicians),
		Total:      len(physicians),
	}, nil
}

func (u *physicianUsecase) Get(ctx context.Context, id uuid.UUID) (*dto.PhysicianResponse, error) {
	physician, err := u.physicianRepo.FindByUserID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find physician: %+v", err)
		return nil, err
	}
	if physician == nil {
		return nil, ErrPhysicianNotFound
	}

	return converter.PhysicianToResponse(physician), nil
}
