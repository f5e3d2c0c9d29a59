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

type prerequisiteRepository interface {
	ListForSubject(ctx context.Context, subjectID string) ([]models.Prerequisite, error)
	ListDependents(ctx context.Context, subjectID string) ([]models.Prerequisite, error)
	FindByID(ctx context.Context, id string) (*models.Prerequisite, error)
	Create(ctx context.Context, edge *models.Prerequisite) error
	SoftDelete(ctx context.Context, id string, actorID string) error
	OwningCareer(ctx context.Context, subjectID string) (string, models.LifecycleState, error)
}

// PrerequisiteService manages requirement edges between subjects of the
// same career.
type PrerequisiteService struct {
	repo      prerequisiteRepository
	subjects  scheduleSubjectSource
	guard     authz.Guard
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPrerequisiteService constructs a PrerequisiteService.
func NewPrerequisiteService(repo prerequisiteRepository, subjects scheduleSubjectSource, guard authz.Guard, validate *validator.Validate, logger *zap.Logger) *PrerequisiteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &PrerequisiteService{repo: repo, subjects: subjects, guard: guard, validator: validate, logger: logger}
}

// ListForSubject returns the active requirement edges of a subject.
func (s *PrerequisiteService) ListForSubject(ctx context.Context, p authz.Principal, scope authz.Scope, subjectID string) ([]models.Prerequisite, error) {
	if err := s.checkSubjectVisible(ctx, p, scope, subjectID); err != nil {
		return nil, err
	}

	edges, err := s.repo.ListForSubject(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list prerequisites")
	}
	return edges, nil
}

// ListDependents returns the reverse view: edges where the subject is the
// required side.
func (s *PrerequisiteService) ListDependents(ctx context.Context, p authz.Principal, scope authz.Scope, subjectID string) ([]models.Prerequisite, error) {
	if err := s.checkSubjectVisible(ctx, p, scope, subjectID); err != nil {
		return nil, err
	}

	edges, err := s.repo.ListDependents(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list dependents")
	}
	return edges, nil
}

// Create registers a requirement edge. Both endpoints must be active
// subjects of the same career and distinct from each other.
func (s *PrerequisiteService) Create(ctx context.Context, p authz.Principal, scope authz.Scope, req models.CreatePrerequisiteRequest) (*models.Prerequisite, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid prerequisite payload")
	}
	if !req.Kind.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown prerequisite kind")
	}
	if !req.RequiredStatus.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown required status")
	}
	// Only three combinations exist: attend/approved, attend/regular and
	// sit-exam/approved. A regular status cannot gate an exam.
	if req.Kind == models.PrereqToSitExam && req.RequiredStatus == models.PrereqRegular {
		return nil, appErrors.Clone(appErrors.ErrValidation, "exam prerequisites require the APPROVED status")
	}
	if req.SubjectID == req.RequiredID {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a subject cannot require itself")
	}

	subject, err := s.subjects.FindByID(ctx, req.SubjectID, false)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFoundOrInactive, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	required, err := s.subjects.FindByID(ctx, req.RequiredID, false)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrReference, "required subject does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load required subject")
	}
	if subject.CareerID != required.CareerID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "both subjects must belong to the same career")
	}

	if err := s.guard.CanMutateCourseUnit(p, scope, subject.CareerID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	edge := &models.Prerequisite{
		ID:             uuid.NewString(),
		SubjectID:      req.SubjectID,
		RequiredID:     req.RequiredID,
		Kind:           req.Kind,
		RequiredStatus: req.RequiredStatus,
		State:          models.StateActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, edge); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "prerequisite already exists")
		}
		if repository.IsForeignKeyViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrReference, "referenced subject does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create prerequisite")
	}
	return edge, nil
}

// Delete soft-deletes a requirement edge; repeats report not-found.
func (s *PrerequisiteService) Delete(ctx context.Context, p authz.Principal, scope authz.Scope, id string) error {
	edge, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFoundOrInactive, "prerequisite not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load prerequisite")
	}

	careerID, _, err := s.repo.OwningCareer(ctx, edge.SubjectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFoundOrInactive, "prerequisite not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve prerequisite")
	}
	if err := s.guard.CanMutateCourseUnit(p, scope, careerID); err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, id, p.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFoundOrInactive, "prerequisite not found or already inactive")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete prerequisite")
	}
	return nil
}

func (s *PrerequisiteService) checkSubjectVisible(ctx context.Context, p authz.Principal, scope authz.Scope, subjectID string) error {
	subject, err := s.subjects.FindByID(ctx, subjectID, false)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFoundOrInactive, "subject not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	return s.guard.CanAccessCareer(p, scope, subject.CareerID)
}
