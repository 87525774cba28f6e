package usecase

import (
	"context"
	"fmt"
	"strconv"

	"clinic-scheduler/internal/converter"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/repository"
	"clinic-scheduler/internal/service"
	"clinic-scheduler/internal/session"
	"clinic-scheduler/pkg/apperror"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrScheduleTemplateNotFound = apperror.NotFound("schedule template not found")
	ErrBranchNotFound           = apperror.NotFound("branch not found")
	ErrScheduleOverlap          = apperror.Conflict("schedule overlaps an existing schedule of the physician on that day")
	ErrNotOwnSchedule           = apperror.Forbidden("physicians can only manage their own schedules")
	ErrPhysicianRequired        = apperror.ValidationFields("Validation failed", map[string]string{
		"physician_id": "physician_id is required",
	})
)

type ScheduleTemplateUsecase interface {
	Create(ctx context.Context, actor *session.Session, req *dto.CreateScheduleTemplatesRequest) (*dto.ScheduleTemplateListResponse, error)
	Update(ctx context.Context, actor *session.Session, id int, req *dto.ScheduleTemplateRequest) (*dto.ScheduleTemplateResponse, error)
	Delete(ctx context.Context, actor *session.Session, id int) error
	List(ctx context.Context, req *dto.ScheduleTemplateListRequest) (*dto.ScheduleTemplateListResponse, error)
}

type scheduleTemplateUsecase struct {
	db            *gorm.DB
	log           *logrus.Logger
	templateRepo  repository.ScheduleTemplateRepository
	physicianRepo repository.PhysicianRepository
	branchRepo    repository.BranchRepository
	auditService  service.AuditService
}

func NewScheduleTemplateUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	templateRepo repository.ScheduleTemplateRepository,
	physicianRepo repository.PhysicianRepository,
	branchRepo repository.BranchRepository,
	auditService service.AuditService,
) ScheduleTemplateUsecase {
	return &scheduleTemplateUsecase{
		db:            db,
		log:           log,
		templateRepo:  templateRepo,
		physicianRepo: physicianRepo,
		branchRepo:    branchRepo,
		auditService:  auditService,
	}
}

// Create assigns one or more weekly windows to a physician. The batch is
// all-or-nothing: a window overlapping another window of the same physician
// on the same weekday, existing or in the batch, rejects the whole request.
func (u *scheduleTemplateUsecase) Create(ctx context.Context, actor *session.Session, req *dto.CreateScheduleTemplatesRequest) (*dto.ScheduleTemplateListResponse, error) {
	physicianID, err := u.targetPhysician(actor, req.PhysicianID)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.ensurePhysician(tx, physicianID); err != nil {
		return nil, err
	}

	// Rows created earlier in the batch are visible to the overlap check
	// through the transaction.
	created := make([]entity.ScheduleTemplate, 0, len(req.Templates))
	for i, item := range req.Templates {
		template := &entity.ScheduleTemplate{PhysicianID: physicianID, Active: true}
		applyTemplateRequest(template, &item)

		if err := u.checkWindow(tx, template, fmt.Sprintf("templates[%d]", i)); err != nil {
			return nil, err
		}

		if err := u.templateRepo.Create(tx, template); err != nil {
			if isForeignKeyError(err, "branch") {
				return nil, ErrBranchNotFound
			}
			u.log.Warnf("Failed to create schedule template: %+v", err)
			return nil, err
		}

		if err := u.auditService.LogCreate(ctx, tx, actorID(actor), entity.AuditActionScheduleCreate,
			"schedule_template", strconv.Itoa(template.ID), converter.ScheduleTemplateToResponse(template)); err != nil {
			return nil, err
		}
		created = append(created, *template)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Created %d schedule templates for physician %s", len(created), physicianID)
	return &dto.ScheduleTemplateListResponse{
		Templates: converter.ScheduleTemplatesToResponses(created),
		Total:     len(created),
	}, nil
}

func (u *scheduleTemplateUsecase) Update(ctx context.Context, actor *session.Session, id int, req *dto.ScheduleTemplateRequest) (*dto.ScheduleTemplateResponse, error) {
	if err := requireCapability(actor, session.CapManageSchedules); err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	template, err := u.templateRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find schedule template: %+v", err)
		return nil, err
	}
	if template == nil {
		return nil, ErrScheduleTemplateNotFound
	}
	if !canManageSchedule(actor, template.PhysicianID) {
		return nil, ErrNotOwnSchedule
	}

	oldValue := converter.ScheduleTemplateToResponse(template)
	applyTemplateRequest(template, req)

	if err := u.checkWindow(tx, template, ""); err != nil {
		return nil, err
	}

	if err := u.templateRepo.Update(tx, template); err != nil {
		u.log.Warnf("Failed to update schedule template: %+v", err)
		return nil, err
	}

	newValue := converter.ScheduleTemplateToResponse(template)
	if err := u.auditService.LogUpdate(ctx, tx, actorID(actor), entity.AuditActionScheduleUpdate,
		"schedule_template", strconv.Itoa(template.ID), oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return newValue, nil
}

func (u *scheduleTemplateUsecase) Delete(ctx context.Context, actor *session.Session, id int) error {
	if err := requireCapability(actor, session.CapManageSchedules); err != nil {
		return err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	template, err := u.templateRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find schedule template: %+v", err)
		return err
	}
	if template == nil {
		return ErrScheduleTemplateNotFound
	}
	if !canManageSchedule(actor, template.PhysicianID) {
		return ErrNotOwnSchedule
	}

	affected, err := u.templateRepo.Delete(tx, id)
	if err != nil {
		u.log.Warnf("Failed to delete schedule template: %+v", err)
		return err
	}
	if affected == 0 {
		return ErrScheduleTemplateNotFound
	}

	if err := u.auditService.LogDelete(ctx, tx, actorID(actor), entity.AuditActionScheduleDelete,
		"schedule_template", strconv.Itoa(id), converter.ScheduleTemplateToResponse(template)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.log.Infof("Deleted schedule template %d of physician %s", id, template.PhysicianID)
	return nil
}

func (u *scheduleTemplateUsecase) List(ctx context.Context, req *dto.ScheduleTemplateListRequest) (*dto.ScheduleTemplateListResponse, error) {
	physicianID, err := parseOptionalUUID("physician_id", req.PhysicianID)
	if err != nil {
		return nil, err
	}

	templates, err := u.templateRepo.FindAll(u.db.WithContext(ctx), entity.ScheduleTemplateFilter{
		PhysicianID: physicianID,
		BranchID:    req.BranchID,
		DayOfWeek:   req.DayOfWeek,
	})
	if err != nil {
		u.log.Warnf("Failed to find schedule templates: %+v", err)
		return nil, err
	}

	return &dto.ScheduleTemplateListResponse{
		Templates: converter.ScheduleTemplatesToResponses(templates),
		Total:     len(templates),
	}, nil
}

// targetPhysician resolves whose schedule is being written. Physicians write
// their own; other roles must name the physician.
func (u *scheduleTemplateUsecase) targetPhysician(actor *session.Session, requested uuid.UUID) (uuid.UUID, error) {
	if err := requireCapability(actor, session.CapManageSchedules); err != nil {
		return uuid.Nil, err
	}
	if actor.Role == session.RolePhysician {
		if requested != uuid.Nil && requested != actor.UserID {
			return uuid.Nil, ErrNotOwnSchedule
		}
		return actor.UserID, nil
	}
	if requested == uuid.Nil {
		return uuid.Nil, ErrPhysicianRequired
	}
	return requested, nil
}

func (u *scheduleTemplateUsecase) ensurePhysician(db *gorm.DB, physicianID uuid.UUID) error {
	physician, err := u.physicianRepo.FindByUserID(db, physicianID)
	if err != nil {
		u.log.Warnf("Failed to find physician: %+v", err)
		return err
	}
	if physician == nil {
		return ErrPhysicianNotFound
	}
	return nil
}

// checkWindow validates the template invariants, the branch, and overlap
// with the physician's other active templates on the same weekday.
func (u *scheduleTemplateUsecase) checkWindow(db *gorm.DB, template *entity.ScheduleTemplate, field string) error {
	window, err := converter.ScheduleTemplateToAvailability(*template)
	if err == nil {
		err = window.Validate()
	}
	if err != nil {
		if field == "" {
			field = "schedule"
		}
		return validationField(field, err.Error())
	}

	branch, err := u.branchRepo.FindByID(db, template.BranchID)
	if err != nil {
		u.log.Warnf("Failed to find branch: %+v", err)
		return err
	}
	if branch == nil || !branch.Active {
		return ErrBranchNotFound
	}

	if !template.Active {
		return nil
	}

	existing, err := u.templateRepo.FindByPhysicianAndDay(db, template.PhysicianID, template.DayOfWeek)
	if err != nil {
		u.log.Warnf("Failed to find physician templates: %+v", err)
		return err
	}
	for _, other := range existing {
		if other.ID == template.ID {
			continue
		}
		otherWindow, err := converter.ScheduleTemplateToAvailability(other)
		if err != nil {
			u.log.Warnf("Skipping unreadable template: %+v", err)
			continue
		}
		if window.Overlaps(otherWindow) {
			return ErrScheduleOverlap
		}
	}
	return nil
}

func applyTemplateRequest(template *entity.ScheduleTemplate, req *dto.ScheduleTemplateRequest) {
	template.BranchID = req.BranchID
	template.DayOfWeek = req.DayOfWeek
	template.StartTime = req.StartTime
	template.EndTime = req.EndTime
	template.SlotMinutes = req.SlotMinutes
	template.Notes = req.Notes
	if req.Active != nil {
		template.Active = *req.Active
	}
}

func canManageSchedule(actor *session.Session, physicianID uuid.UUID) bool {
	if actor.Role == session.RolePhysician {
		return actor.Owns(physicianID)
	}
	return actor.Can(session.CapManageSchedules)
}
