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
	"github.com/openacademia/catalog-api/pkg/config"
	appErrors "github.com/openacademia/catalog-api/pkg/errors"
)

type subjectRepository interface {
	List(ctx context.Context, filter models.SubjectFilter, scope authz.Scope) ([]models.Subject, int, error)
	FindByID(ctx context.Context, id string, anyState bool) (*models.Subject, error)
	OwningCareer(ctx context.Context, subjectID string) (string, models.LifecycleState, error)
	Create(ctx context.Context, subject *models.Subject) error
	Update(ctx context.Context, subject *models.Subject) error
	SoftDelete(ctx context.Context, id string, actorID string) error
	IncrementViews(ctx context.Context, id string) error
	Featured(ctx context.Context, limit int) ([]models.Subject, error)
}

type subjectCareerSource interface {
	FindByID(ctx context.Context, id string) (*models.Career, error)
}

const featuredCacheKey = "subjects:featured"

// SubjectService manages subjects and the view-counter ranking.
type SubjectService struct {
	repo      subjectRepository
	careers   subjectCareerSource
	guard     authz.Guard
	cache     *CacheService
	featured  config.FeaturedConfig
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService constructs a SubjectService.
func NewSubjectService(repo subjectRepository, careers subjectCareerSource, guard authz.Guard, cache *CacheService, featured config.FeaturedConfig, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if featured.Limit <= 0 {
		featured.Limit = 10
	}
	return &SubjectService{repo: repo, careers: careers, guard: guard, cache: cache, featured: featured, validator: validate, logger: logger}
}

// List returns active subjects of active careers inside the caller's scope.
func (s *SubjectService) List(ctx context.Context, p authz.Principal, scope authz.Scope, filter models.SubjectFilter) ([]models.Subject, *models.Pagination, error) {
	if filter.CareerID != "" {
		if err := s.guard.CanAccessCareer(p, scope, filter.CareerID); err != nil {
			return nil, nil, err
		}
	}

	subjects, total, err := s.repo.List(ctx, filter, scope)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	return subjects, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Get returns one subject and counts the read toward the featured
// ranking. The rector may fetch a subject regardless of state.
func (s *SubjectService) Get(ctx context.Context, p authz.Principal, scope authz.Scope, id string) (*models.Subject, error) {
	anyState := p.Role == models.RoleRector
	subject, err := s.repo.FindByID(ctx, id, anyState)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFoundOrInactive, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}

	if err := s.guard.CanAccessCareer(p, scope, subject.CareerID); err != nil {
		return nil, err
	}

	if err := s.repo.IncrementViews(ctx, id); err != nil {
		s.logger.Warn("failed to count subject view", zap.String("subject_id", id), zap.Error(err))
	}
	return subject, nil
}

// Create registers a subject under an active career.
func (s *SubjectService) Create(ctx context.Context, p authz.Principal, scope authz.Scope, req models.CreateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}
	if err := s.guard.CanMutateCourseUnit(p, scope, req.CareerID); err != nil {
		return nil, err
	}

	career, err := s.careers.FindByID(ctx, req.CareerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFoundOrInactive, "career not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load career")
	}
	if career.State != models.StateActive {
		return nil, appErrors.Clone(appErrors.ErrNotFoundOrInactive, "career is not active")
	}
	if req.Year > career.DurationYears {
		return nil, appErrors.Clone(appErrors.ErrValidation, "year exceeds the career duration")
	}

	now := time.Now().UTC()
	subject := &models.Subject{
		ID:             uuid.NewString(),
		CareerID:       req.CareerID,
		Name:           req.Name,
		Year:           req.Year,
		FormationField: req.FormationField,
		Modality:       req.Modality,
		Format:         req.Format,
		WeeklyHours:    req.WeeklyHours,
		AnnualHours:    req.AnnualHours,
		Accreditation:  req.Accreditation,
		State:          models.StateActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, subject); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "subject already exists in that career and year")
		}
		if repository.IsForeignKeyViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrReference, "career does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subject")
	}
	return subject, nil
}

// Update edits a subject.
func (s *SubjectService) Update(ctx context.Context, p authz.Principal, scope authz.Scope, id string, req models.UpdateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}

	subject, err := s.repo.FindByID(ctx, id, false)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFoundOrInactive, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	if err := s.guard.CanMutateCourseUnit(p, scope, subject.CareerID); err != nil {
		return nil, err
	}

	if req.Name != nil {
		subject.Name = *req.Name
	}
	if req.Year != nil {
		subject.Year = *req.Year
	}
	if req.FormationField != nil {
		subject.FormationField = *req.FormationField
	}
	if req.Modality != nil {
		subject.Modality = *req.Modality
	}
	if req.Format != nil {
		subject.Format = *req.Format
	}
	if req.WeeklyHours != nil {
		subject.WeeklyHours = req.WeeklyHours
	}
	if req.AnnualHours != nil {
		subject.AnnualHours = req.AnnualHours
	}
	if req.Accreditation != nil {
		subject.Accreditation = *req.Accreditation
	}
	subject.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, subject); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "subject already exists in that career and year")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update subject")
	}
	return subject, nil
}

// Delete soft-deletes a subject; repeat deletions report not-found.
func (s *SubjectService) Delete(ctx context.Context, p authz.Principal, scope authz.Scope, id string) error {
	careerID, _, err := s.repo.OwningCareer(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFoundOrInactive, "subject not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve subject")
	}
	if err := s.guard.CanMutateCourseUnit(p, scope, careerID); err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, id, p.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFoundOrInactive, "subject not found or already inactive")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete subject")
	}
	return nil
}

// Featured returns the most-viewed active subjects, served from cache
// when fresh.
func (s *SubjectService) Featured(ctx context.Context) ([]models.Subject, bool, error) {
	var cached []models.Subject
	if hit, err := s.cache.Get(ctx, featuredCacheKey, &cached); err == nil && hit {
		return cached, true, nil
	}

	subjects, err := s.repo.Featured(ctx, s.featured.Limit)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load featured subjects")
	}

	if err := s.cache.Set(ctx, featuredCacheKey, subjects, s.featured.CacheTTL); err != nil {
		s.logger.Warn("failed to cache featured subjects", zap.Error(err))
	}
	return subjects, false, nil
}
