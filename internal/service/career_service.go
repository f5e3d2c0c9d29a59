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

type careerRepository interface {
	List(ctx context.Context, filter models.CareerFilter, scope authz.Scope) ([]models.Career, int, error)
	FindByID(ctx context.Context, id string) (*models.Career, error)
	Create(ctx context.Context, career *models.Career, coordinatorID string) error
	Update(ctx context.Context, career *models.Career) error
	ReplaceCoordinator(ctx context.Context, careerID string, coordinatorID *string) error
	UpdateState(ctx context.Context, id string, state models.LifecycleState, actorID string) error
}

type careerAdminSource interface {
	FindByID(ctx context.Context, id string) (*models.Admin, error)
}

// CareerService manages academic programs and their coordinator
// assignments.
type CareerService struct {
	repo      careerRepository
	admins    careerAdminSource
	guard     authz.Guard
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCareerService constructs a CareerService.
func NewCareerService(repo careerRepository, admins careerAdminSource, guard authz.Guard, validate *validator.Validate, logger *zap.Logger) *CareerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CareerService{repo: repo, admins: admins, guard: guard, validator: validate, logger: logger}
}

// List returns careers visible inside the caller's scope.
func (s *CareerService) List(ctx context.Context, p authz.Principal, scope authz.Scope, filter models.CareerFilter) ([]models.Career, *models.Pagination, error) {
	// Non-rectors may not filter by state; their view is active-only.
	if p.Role != models.RoleRector {
		filter.State = nil
	}

	careers, total, err := s.repo.List(ctx, filter, scope)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list careers")
	}
	return careers, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Get returns one career. A coordinator sees only active careers inside
// its scope; the rector may read any state.
func (s *CareerService) Get(ctx context.Context, p authz.Principal, scope authz.Scope, id string) (*models.Career, error) {
	career, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFoundOrInactive, "career not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load career")
	}

	if err := s.guard.CanAccessCareer(p, scope, career.ID); err != nil {
		return nil, err
	}
	if p.Role != models.RoleRector && career.State != models.StateActive {
		return nil, appErrors.Clone(appErrors.ErrNotFoundOrInactive, "career is not active")
	}
	return career, nil
}

// Create registers a career together with its mandatory coordinator
// assignment, in one transaction.
func (s *CareerService) Create(ctx context.Context, p authz.Principal, req models.CreateCareerRequest) (*models.Career, error) {
	if err := s.guard.CanCreateCareer(p); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid career payload")
	}
	if err := s.checkCoordinator(ctx, req.CoordinatorID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	career := &models.Career{
		ID:            uuid.NewString(),
		Name:          req.Name,
		DurationYears: req.DurationYears,
		Modality:      req.Modality,
		ApprovalYear:  req.ApprovalYear,
		State:         models.StateActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, career, req.CoordinatorID); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "career name already exists")
		}
		if repository.IsForeignKeyViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrReference, "coordinator does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create career")
	}

	s.logger.Info("career created", zap.String("career_id", career.ID), zap.String("coordinator_id", req.CoordinatorID))
	return s.repo.FindByID(ctx, career.ID)
}

// Update edits career descriptive fields.
func (s *CareerService) Update(ctx context.Context, p authz.Principal, scope authz.Scope, id string, req models.UpdateCareerRequest) (*models.Career, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid career payload")
	}

	career, err := s.Get(ctx, p, scope, id)
	if err != nil {
		return nil, err
	}
	if career.State != models.StateActive {
		return nil, appErrors.Clone(appErrors.ErrNotFoundOrInactive, "career is not active")
	}

	if req.Name != nil {
		career.Name = *req.Name
	}
	if req.DurationYears != nil {
		career.DurationYears = *req.DurationYears
	}
	if req.Modality != nil {
		career.Modality = *req.Modality
	}
	if req.ApprovalYear != nil {
		career.ApprovalYear = *req.ApprovalYear
	}
	career.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, career); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "career name already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update career")
	}
	return career, nil
}

// AssignCoordinator replaces the career's coordinator. Passing a null id
// leaves the career without one until the next assignment.
func (s *CareerService) AssignCoordinator(ctx context.Context, p authz.Principal, careerID string, req models.AssignCoordinatorRequest) (*models.Career, error) {
	if err := s.guard.CanAssignCoordinator(p); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	career, err := s.repo.FindByID(ctx, careerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFoundOrInactive, "career not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load career")
	}
	if career.State != models.StateActive {
		return nil, appErrors.Clone(appErrors.ErrNotFoundOrInactive, "career is not active")
	}

	if req.CoordinatorID != nil {
		if err := s.checkCoordinator(ctx, *req.CoordinatorID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.ReplaceCoordinator(ctx, careerID, req.CoordinatorID); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrReference, "coordinator does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign coordinator")
	}
	return s.repo.FindByID(ctx, careerID)
}

// UpdateState moves a career through its lifecycle. Leaving the active
// state drops the career's coordinator assignments in the same
// transaction, which shrinks that coordinator's scope immediately.
func (s *CareerService) UpdateState(ctx context.Context, p authz.Principal, id string, req models.UpdateCareerStateRequest) (*models.Career, error) {
	if err := s.guard.CanChangeCareerState(p); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid state payload")
	}
	switch req.State {
	case models.StateActive, models.StateInactive, models.StateClosed:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "state must be ACTIVE, INACTIVE or CLOSED")
	}

	if err := s.repo.UpdateState(ctx, id, req.State, p.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFoundOrInactive, "career not found or already in that state")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update career state")
	}

	s.logger.Info("career state changed", zap.String("career_id", id), zap.String("state", string(req.State)), zap.String("actor_id", p.ID))
	return s.repo.FindByID(ctx, id)
}

// Delete soft-deletes a career; repeat deletions report not-found.
func (s *CareerService) Delete(ctx context.Context, p authz.Principal, id string) error {
	if err := s.guard.CanChangeCareerState(p); err != nil {
		return err
	}

	if err := s.repo.UpdateState(ctx, id, models.StateInactive, p.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFoundOrInactive, "career not found or already inactive")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete career")
	}

	s.logger.Info("career soft-deleted", zap.String("career_id", id), zap.String("actor_id", p.ID))
	return nil
}

// checkCoordinator verifies the referenced account is an active
// coordinator; a bad reference is a client error, not a 404.
func (s *CareerService) checkCoordinator(ctx context.Context, adminID string) error {
	admin, err := s.admins.FindByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrReference, "coordinator does not exist")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load coordinator")
	}
	if admin.State != models.StateActive {
		return appErrors.Clone(appErrors.ErrReference, "coordinator account is not active")
	}
	if admin.Role != models.RoleCoordinator {
		return appErrors.Clone(appErrors.ErrReference, "assigned admin must hold the coordinator role")
	}
	return nil
}
