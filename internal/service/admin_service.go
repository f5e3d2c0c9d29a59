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
	"github.com/openacademia/catalog-api/pkg/password"
)

type adminRepository interface {
	List(ctx context.Context, filter models.AdminFilter) ([]models.Admin, int, error)
	FindByID(ctx context.Context, id string) (*models.Admin, error)
	Create(ctx context.Context, admin *models.Admin) error
	Update(ctx context.Context, admin *models.Admin) error
	UpdateState(ctx context.Context, id string, state models.LifecycleState, actorID string) error
	SoftDelete(ctx context.Context, id string, actorID string) error
}

// AdminService manages administrator accounts under the authorization
// rule table.
type AdminService struct {
	repo      adminRepository
	guard     authz.Guard
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAdminService constructs an AdminService.
func NewAdminService(repo adminRepository, guard authz.Guard, validate *validator.Validate, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AdminService{repo: repo, guard: guard, validator: validate, logger: logger}
}

// List returns administrators matching the filter.
func (s *AdminService) List(ctx context.Context, p authz.Principal, filter models.AdminFilter) ([]models.Admin, *models.Pagination, error) {
	if err := s.guard.CanReadAdmins(p); err != nil {
		return nil, nil, err
	}

	admins, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list admins")
	}
	return admins, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Get returns a single administrator by id.
func (s *AdminService) Get(ctx context.Context, p authz.Principal, id string) (*models.Admin, error) {
	if err := s.guard.CanReadAdmins(p); err != nil {
		return nil, err
	}

	admin, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFoundOrInactive, "admin not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load admin")
	}
	return admin, nil
}

// Create registers a new administrator account.
func (s *AdminService) Create(ctx context.Context, p authz.Principal, req models.CreateAdminRequest) (*models.Admin, error) {
	if err := s.guard.CanCreateAdmin(p); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid admin payload")
	}
	if !req.Role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown role")
	}
	if err := password.Validate(req.Password); err != nil {
		return nil, err
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	now := time.Now().UTC()
	admin := &models.Admin{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
		Phone:        req.Phone,
		Role:         req.Role,
		State:        models.StateActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, admin); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create admin")
	}

	s.logger.Info("admin created", zap.String("admin_id", admin.ID), zap.String("role", string(admin.Role)))
	return admin, nil
}

// Update edits an administrator record. A coordinator may edit only its
// own personal fields; a payload touching role on a restricted edit is
// rejected rather than silently ignored.
func (s *AdminService) Update(ctx context.Context, p authz.Principal, targetID string, req models.UpdateAdminRequest) (*models.Admin, error) {
	if err := s.guard.CanEditAdmin(p, targetID); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid admin payload")
	}

	_, unrestricted := s.guard.AdminEditableFields(p, targetID)
	if !unrestricted && req.Role != nil {
		return nil, appErrors.FieldRestricted("role is not editable on your own account")
	}

	admin, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFoundOrInactive, "admin not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load admin")
	}
	if admin.State != models.StateActive {
		return nil, appErrors.Clone(appErrors.ErrNotFoundOrInactive, "admin is not active")
	}

	// Every denial must happen before anything is written: a rejected role
	// change may not leave the personal fields committed behind it.
	if req.Role != nil && *req.Role != admin.Role {
		if !req.Role.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown role")
		}
		if err := s.guard.CanChangeAdminRole(p, targetID); err != nil {
			return nil, err
		}
		admin.Role = *req.Role
	}

	if req.Email != nil {
		admin.Email = *req.Email
	}
	if req.FullName != nil {
		admin.FullName = *req.FullName
	}
	if req.Phone != nil {
		admin.Phone = *req.Phone
	}
	admin.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, admin); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update admin")
	}

	return admin, nil
}

// UpdateState moves an administrator through its lifecycle. Requesting the
// state the account already holds is an accepted no-op. Suspending or
// deactivating also drops the account's coordinator assignments in the
// same transaction.
func (s *AdminService) UpdateState(ctx context.Context, p authz.Principal, targetID string, req models.UpdateAdminStateRequest) (*models.Admin, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid state payload")
	}
	switch req.State {
	case models.StateActive, models.StateSuspended, models.StateInactive:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "state must be ACTIVE, SUSPENDED or INACTIVE")
	}

	admin, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFoundOrInactive, "admin not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load admin")
	}

	if err := s.guard.CanChangeAdminState(p, targetID, admin.State, req.State); err != nil {
		return nil, err
	}
	if admin.State == req.State {
		return admin, nil
	}

	if err := s.repo.UpdateState(ctx, targetID, req.State, p.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFoundOrInactive, "admin not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update state")
	}

	s.logger.Info("admin state changed",
		zap.String("admin_id", targetID),
		zap.String("state", string(req.State)),
		zap.String("actor_id", p.ID))
	return s.repo.FindByID(ctx, targetID)
}

// Delete soft-deletes an administrator. Deleting an account that is not
// active reports not-found rather than failing differently on repeats.
func (s *AdminService) Delete(ctx context.Context, p authz.Principal, targetID string) error {
	if err := s.guard.CanDeleteAdmin(p, targetID); err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, targetID, p.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFoundOrInactive, "admin not found or already inactive")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete admin")
	}

	s.logger.Info("admin soft-deleted", zap.String("admin_id", targetID), zap.String("actor_id", p.ID))
	return nil
}
