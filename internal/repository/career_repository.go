package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/openacademia/catalog-api/internal/authz"
	"github.com/openacademia/catalog-api/internal/models"
)

const careerColumns = `c.id, c.name, c.duration_years, c.modality, c.approval_year, c.state,
	c.deactivated_at, c.deactivated_by, c.created_at, c.updated_at,
	cc.admin_id AS coordinator_id, a.full_name AS coordinator_name`

const careerJoins = `FROM careers c
	LEFT JOIN career_coordinators cc ON cc.career_id = c.id
	LEFT JOIN admins a ON a.id = cc.admin_id`

// CareerRepository handles persistence for careers and their coordinator
// assignment, including the multi-table cascades.
type CareerRepository struct {
	db *sqlx.DB
}

// NewCareerRepository creates a new repository instance.
func NewCareerRepository(db *sqlx.DB) *CareerRepository {
	return &CareerRepository{db: db}
}

// List returns careers visible inside the scope. Lists show ACTIVE careers
// unless an explicit state filter is supplied; an empty scope short-circuits
// to an empty result.
func (r *CareerRepository) List(ctx context.Context, filter models.CareerFilter, scope authz.Scope) ([]models.Career, int, error) {
	if scope.Empty() {
		return []models.Career{}, 0, nil
	}

	base := careerJoins + " WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.State != nil {
		conditions = append(conditions, fmt.Sprintf("c.state = $%d", len(args)+1))
		args = append(args, *filter.State)
	} else {
		conditions = append(conditions, fmt.Sprintf("c.state = $%d", len(args)+1))
		args = append(args, models.StateActive)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(c.name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if !scope.Unrestricted() {
		conditions = append(conditions, fmt.Sprintf("c.id = ANY($%d)", len(args)+1))
		args = append(args, pq.Array(scope.CareerIDs()))
	}

	base += " AND " + strings.Join(conditions, " AND ")

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"name":          true,
		"approval_year": true,
		"created_at":    true,
		"updated_at":    true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "name"
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY c.%s %s LIMIT %d OFFSET %d", careerColumns, base, sortBy, order, size, offset)
	var careers []models.Career
	if err := r.db.SelectContext(ctx, &careers, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list careers: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count careers: %w", err)
	}

	return careers, total, nil
}

// FindByID returns a career by id in any state; callers decide whether a
// non-active career may be surfaced.
func (r *CareerRepository) FindByID(ctx context.Context, id string) (*models.Career, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE c.id = $1", careerColumns, careerJoins)
	var career models.Career
	if err := r.db.GetContext(ctx, &career, query, id); err != nil {
		return nil, err
	}
	return &career, nil
}

// Create persists a career together with its mandatory initial coordinator
// assignment; both inserts commit or roll back as one unit.
func (r *CareerRepository) Create(ctx context.Context, career *models.Career, coordinatorID string) (err error) {
	if career.ID == "" {
		career.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if career.CreatedAt.IsZero() {
		career.CreatedAt = now
	}
	career.UpdatedAt = now
	if career.State == "" {
		career.State = models.StateActive
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin career create transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertCareer = `INSERT INTO careers (id, name, duration_years, modality, approval_year, state, created_at, updated_at)
	VALUES (:id, :name, :duration_years, :modality, :approval_year, :state, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, insertCareer, career); err != nil {
		return fmt.Errorf("create career: %w", err)
	}

	const insertAssignment = `INSERT INTO career_coordinators (career_id, admin_id, created_at) VALUES ($1, $2, $3)`
	if _, err = tx.ExecContext(ctx, insertAssignment, career.ID, coordinatorID, now); err != nil {
		return fmt.Errorf("assign initial coordinator: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit career create: %w", err)
	}
	career.CoordinatorID = &coordinatorID
	return nil
}

// Update modifies a career's descriptive fields.
func (r *CareerRepository) Update(ctx context.Context, career *models.Career) error {
	career.UpdatedAt = time.Now().UTC()
	const query = `UPDATE careers SET name = :name, duration_years = :duration_years, modality = :modality,
	approval_year = :approval_year, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, career); err != nil {
		return fmt.Errorf("update career: %w", err)
	}
	return nil
}

// ReplaceCoordinator applies replace-semantics for the assignment: every
// existing row is deleted, then exactly one row is inserted when a new
// coordinator id is supplied. A nil id leaves the career coordinator-less.
func (r *CareerRepository) ReplaceCoordinator(ctx context.Context, careerID string, coordinatorID *string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin coordinator replace transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM career_coordinators WHERE career_id = $1`, careerID); err != nil {
		return fmt.Errorf("clear coordinator assignments: %w", err)
	}

	if coordinatorID != nil {
		const insert = `INSERT INTO career_coordinators (career_id, admin_id, created_at) VALUES ($1, $2, $3)`
		if _, err = tx.ExecContext(ctx, insert, careerID, *coordinatorID, time.Now().UTC()); err != nil {
			return fmt.Errorf("insert coordinator assignment: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit coordinator replace: %w", err)
	}
	return nil
}

// UpdateState transitions a career's lifecycle state. Leaving ACTIVE stamps
// the audit fields and removes the assignment rows; returning to ACTIVE
// clears the audit fields. Requesting the state the career is already in
// reports sql.ErrNoRows, which callers surface as already-done.
func (r *CareerRepository) UpdateState(ctx context.Context, id string, state models.LifecycleState, actorID string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin career state transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	var res sql.Result
	if state == models.StateActive {
		const query = `UPDATE careers SET state = $2, deactivated_at = NULL, deactivated_by = NULL, updated_at = $3 WHERE id = $1 AND state <> $2`
		res, err = tx.ExecContext(ctx, query, id, state, now)
	} else {
		const query = `UPDATE careers SET state = $2, deactivated_at = $3, deactivated_by = $4, updated_at = $3 WHERE id = $1 AND state <> $2`
		res, err = tx.ExecContext(ctx, query, id, state, now, actorID)
	}
	if err != nil {
		return fmt.Errorf("update career state: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update career state: %w", err)
	}
	if rows == 0 {
		err = sql.ErrNoRows
		return err
	}

	if state == models.StateClosed || state == models.StateInactive {
		if _, err = tx.ExecContext(ctx, `DELETE FROM career_coordinators WHERE career_id = $1`, id); err != nil {
			return fmt.Errorf("remove career assignments: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit career state: %w", err)
	}
	return nil
}
