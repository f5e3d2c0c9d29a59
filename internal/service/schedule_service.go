package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openacademia/catalog-api/internal/authz"
	"github.com/openacademia/catalog-api/internal/models"
	"github.com/openacademia/catalog-api/internal/repository"
	appErrors "github.com/openacademia/catalog-api/pkg/errors"
)

type scheduleRepository interface {
	ListBySubject(ctx context.Context, subjectID string) ([]models.ScheduleSlot, error)
	FindByID(ctx context.Context, id string) (*models.ScheduleSlot, error)
	OwningCareer(ctx context.Context, slotID string) (string, models.LifecycleState, error)
	Create(ctx context.Context, slot *models.ScheduleSlot) error
	Update(ctx context.Context, slot *models.ScheduleSlot) error
	SoftDelete(ctx context.Context, id string, actorID string) error
}

type scheduleSubjectSource interface {
	FindByID(ctx context.Context, id string, anyState bool) (*models.Subject, error)
}

// ScheduleService manages weekly schedule slots. Ownership of a slot
// resolves transitively through its subject to the career.
type ScheduleService struct {
	repo      scheduleRepository
	subjects  scheduleSubjectSource
	guard     authz.Guard
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(repo scheduleRepository, subjects scheduleSubjectSource, guard authz.Guard, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ScheduleService{repo: repo, subjects: subjects, guard: guard, validator: validate, logger: logger}
}

// ListBySubject returns the active slots of an active, visible subject,
// ordered Monday-first and then by start time.
func (s *ScheduleService) ListBySubject(ctx context.Context, p authz.Principal, scope authz.Scope, subjectID string) ([]models.ScheduleSlot, error) {
	subject, err := s.subjects.FindByID(ctx, subjectID, false)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFoundOrInactive, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	if err := s.guard.CanAccessCareer(p, scope, subject.CareerID); err != nil {
		return nil, err
	}

	slots, err := s.repo.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule slots")
	}
	return slots, nil
}

// Get returns one schedule slot.
func (s *ScheduleService) Get(ctx context.Context, p authz.Principal, scope authz.Scope, id string) (*models.ScheduleSlot, error) {
	slot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFoundOrInactive, "schedule slot not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule slot")
	}

	careerID, _, err := s.repo.OwningCareer(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFoundOrInactive, "schedule slot not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve schedule slot")
	}
	if err := s.guard.CanAccessCareer(p, scope, careerID); err != nil {
		return nil, err
	}
	return slot, nil
}

// Create registers a slot under an active, visible subject.
func (s *ScheduleService) Create(ctx context.Context, p authz.Principal, scope authz.Scope, req models.CreateScheduleSlotRequest) (*models.ScheduleSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	if !req.Weekday.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown weekday")
	}
	if err := validateTimeRange(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	subject, err := s.subjects.FindByID(ctx, req.SubjectID, false)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFoundOrInactive, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	if err := s.guard.CanMutateCourseUnit(p, scope, subject.CareerID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	slot := &models.ScheduleSlot{
		ID:        uuid.NewString(),
		SubjectID: req.SubjectID,
		Weekday:   req.Weekday,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		State:     models.StateActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, slot); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrReference, "subject does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule slot")
	}
	return slot, nil
}

// Update edits a schedule slot.
func (s *ScheduleService) Update(ctx context.Context, p authz.Principal, scope authz.Scope, id string, req models.UpdateScheduleSlotRequest) (*models.ScheduleSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}

	slot, err := s.Get(ctx, p, scope, id)
	if err != nil {
		return nil, err
	}

	if req.Weekday != nil {
		if !req.Weekday.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown weekday")
		}
		slot.Weekday = *req.Weekday
	}
	if req.StartTime != nil {
		slot.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		slot.EndTime = *req.EndTime
	}
	if err := validateTimeRange(slot.StartTime, slot.EndTime); err != nil {
		return nil, err
	}
	slot.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, slot); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update schedule slot")
	}
	return slot, nil
}

// Delete soft-deletes a slot; repeat deletions report not-found.
func (s *ScheduleService) Delete(ctx context.Context, p authz.Principal, scope authz.Scope, id string) error {
	careerID, _, err := s.repo.OwningCareer(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFoundOrInactive, "schedule slot not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve schedule slot")
	}
	if err := s.guard.CanMutateCourseUnit(p, scope, careerID); err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, id, p.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFoundOrInactive, "schedule slot not found or already inactive")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule slot")
	}
	return nil
}

// validateTimeRange checks the 24-hour HH:MM form and start before end.
func validateTimeRange(start, end string) error {
	startT, err := time.Parse("15:04", start)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "start_time must use the HH:MM 24-hour form")
	}
	endT, err := time.Parse("15:04", end)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "end_time must use the HH:MM 24-hour form")
	}
	if !startT.Before(endT) {
		return appErrors.Clone(appErrors.ErrValidation, "start_time must be before end_time")
	}
	return nil
}
