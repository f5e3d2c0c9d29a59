package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/openacademia/catalog-api/internal/models"
)

const adminColumns = `id, email, password_hash, full_name, phone, role, state, deactivated_at, deactivated_by, last_login, created_at, updated_at`

// AdminRepository handles persistence for administrator accounts.
type AdminRepository struct {
	db *sqlx.DB
}

// NewAdminRepository creates a new repository instance.
func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// List returns administrators matching filters with pagination metadata.
func (r *AdminRepository) List(ctx context.Context, filter models.AdminFilter) ([]models.Admin, int, error) {
	base := "FROM admins WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Role != nil {
		conditions = append(conditions, fmt.Sprintf("role = $%d", len(args)+1))
		args = append(args, *filter.Role)
	}
	if filter.State != nil {
		conditions = append(conditions, fmt.Sprintf("state = $%d", len(args)+1))
		args = append(args, *filter.State)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(email) LIKE $%d OR LOWER(full_name) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"email":      true,
		"full_name":  true,
		"role":       true,
		"state":      true,
		"created_at": true,
		"updated_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "created_at"
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", adminColumns, base, sortBy, order, size, offset)
	var admins []models.Admin
	if err := r.db.SelectContext(ctx, &admins, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list admins: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count admins: %w", err)
	}

	return admins, total, nil
}

// FindByID returns an administrator by id regardless of state.
func (r *AdminRepository) FindByID(ctx context.Context, id string) (*models.Admin, error) {
	query := fmt.Sprintf("SELECT %s FROM admins WHERE id = $1", adminColumns)
	var admin models.Admin
	if err := r.db.GetContext(ctx, &admin, query, id); err != nil {
		return nil, err
	}
	return &admin, nil
}

// FindByEmail returns an administrator by email regardless of state.
func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	query := fmt.Sprintf("SELECT %s FROM admins WHERE LOWER(email) = LOWER($1) LIMIT 1", adminColumns)
	var admin models.Admin
	if err := r.db.GetContext(ctx, &admin, query, email); err != nil {
		return nil, err
	}
	return &admin, nil
}

// Create persists a new administrator.
func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	if admin.ID == "" {
		admin.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = now
	}
	admin.UpdatedAt = now
	if admin.State == "" {
		admin.State = models.StateActive
	}

	const query = `INSERT INTO admins (id, email, password_hash, full_name, phone, role, state, created_at, updated_at)
	VALUES (:id, :email, :password_hash, :full_name, :phone, :role, :state, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}

// Update modifies the editable fields of an administrator. Personal fields
// and role land in one statement so a partial edit can never be observed.
func (r *AdminRepository) Update(ctx context.Context, admin *models.Admin) error {
	admin.UpdatedAt = time.Now().UTC()
	const query = `UPDATE admins SET email = :email, full_name = :full_name, phone = :phone, role = :role, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, admin); err != nil {
		return fmt.Errorf("update admin: %w", err)
	}
	return nil
}

// UpdateState transitions the lifecycle state. Moving a coordinator out of
// ACTIVE removes its career assignments in the same transaction; moving
// back to ACTIVE clears the audit fields. The triggering update and every
// side effect commit or roll back together.
func (r *AdminRepository) UpdateState(ctx context.Context, id string, state models.LifecycleState, actorID string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin admin state transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	var res sql.Result
	if state == models.StateActive {
		const query = `UPDATE admins SET state = $2, deactivated_at = NULL, deactivated_by = NULL, updated_at = $3 WHERE id = $1 AND state <> $2`
		res, err = tx.ExecContext(ctx, query, id, state, now)
	} else {
		const query = `UPDATE admins SET state = $2, deactivated_at = $3, deactivated_by = $4, updated_at = $3 WHERE id = $1 AND state <> $2`
		res, err = tx.ExecContext(ctx, query, id, state, now, actorID)
	}
	if err != nil {
		return fmt.Errorf("update admin state: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update admin state: %w", err)
	}
	if rows == 0 {
		err = sql.ErrNoRows
		return err
	}

	if state == models.StateSuspended || state == models.StateInactive {
		if _, err = tx.ExecContext(ctx, `DELETE FROM career_coordinators WHERE admin_id = $1`, id); err != nil {
			return fmt.Errorf("remove coordinator assignments: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit admin state: %w", err)
	}
	return nil
}

// SoftDelete marks an administrator inactive with audit stamps and removes
// its career assignments atomically. A second delete on the same account
// reports sql.ErrNoRows so callers can answer "already done" distinctly
// from "not found".
func (r *AdminRepository) SoftDelete(ctx context.Context, id string, actorID string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin admin delete transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	const query = `UPDATE admins SET state = $2, deactivated_at = $3, deactivated_by = $4, updated_at = $3 WHERE id = $1 AND state <> $2`
	res, err := tx.ExecContext(ctx, query, id, models.StateInactive, now, actorID)
	if err != nil {
		return fmt.Errorf("soft delete admin: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("soft delete admin: %w", err)
	}
	if rows == 0 {
		err = sql.ErrNoRows
		return err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM career_coordinators WHERE admin_id = $1`, id); err != nil {
		return fmt.Errorf("remove coordinator assignments: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit admin delete: %w", err)
	}
	return nil
}

// UpdatePassword replaces the stored credential hash.
func (r *AdminRepository) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	const query = `UPDATE admins SET password_hash = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, passwordHash, updatedAt); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// UpdateLastLogin stamps the most recent successful login.
func (r *AdminRepository) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	const query = `UPDATE admins SET last_login = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, ts); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}
