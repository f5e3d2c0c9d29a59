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

const subjectColumns = `s.id, s.career_id, s.name, s.year, s.formation_field, s.modality, s.format,
	s.weekly_hours, s.annual_hours, s.accreditation, s.views, s.state,
	s.deactivated_at, s.deactivated_by, s.created_at, s.updated_at, c.name AS career_name`

// SubjectRepository handles persistence for subjects. Every read path joins
// the owning career so that children of a non-active career never surface.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository creates a new repository instance.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// List returns active subjects of active careers visible in the scope.
func (r *SubjectRepository) List(ctx context.Context, filter models.SubjectFilter, scope authz.Scope) ([]models.Subject, int, error) {
	if scope.Empty() {
		return []models.Subject{}, 0, nil
	}

	base := `FROM subjects s JOIN careers c ON c.id = s.career_id AND c.state = 'ACTIVE' WHERE s.state = 'ACTIVE'`
	var conditions []string
	var args []interface{}

	if filter.CareerID != "" {
		conditions = append(conditions, fmt.Sprintf("s.career_id = $%d", len(args)+1))
		args = append(args, filter.CareerID)
	}
	if filter.Year > 0 {
		conditions = append(conditions, fmt.Sprintf("s.year = $%d", len(args)+1))
		args = append(args, filter.Year)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(s.name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if !scope.Unrestricted() {
		conditions = append(conditions, fmt.Sprintf("s.career_id = ANY($%d)", len(args)+1))
		args = append(args, pq.Array(scope.CareerIDs()))
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"name":       true,
		"year":       true,
		"views":      true,
		"created_at": true,
		"updated_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "year"
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY s.%s %s, s.name ASC LIMIT %d OFFSET %d", subjectColumns, base, sortBy, order, size, offset)
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list subjects: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count subjects: %w", err)
	}

	return subjects, total, nil
}

// FindByID returns a subject by id. With anyState false the row and its
// owning career must both be ACTIVE; anyState true is reserved for the
// Rector, who may fetch subjects of closed or deleted careers by id.
func (r *SubjectRepository) FindByID(ctx context.Context, id string, anyState bool) (*models.Subject, error) {
	query := fmt.Sprintf("SELECT %s FROM subjects s JOIN careers c ON c.id = s.career_id WHERE s.id = $1", subjectColumns)
	if !anyState {
		query += " AND s.state = 'ACTIVE' AND c.state = 'ACTIVE'"
	}
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, id); err != nil {
		return nil, err
	}
	return &subject, nil
}

// OwningCareer resolves the owning career id and state for authorization.
func (r *SubjectRepository) OwningCareer(ctx context.Context, subjectID string) (string, models.LifecycleState, error) {
	const query = `SELECT c.id, c.state FROM subjects s JOIN careers c ON c.id = s.career_id WHERE s.id = $1`
	var row struct {
		ID    string                `db:"id"`
		State models.LifecycleState `db:"state"`
	}
	if err := r.db.GetContext(ctx, &row, query, subjectID); err != nil {
		return "", "", err
	}
	return row.ID, row.State, nil
}

// Create persists a new subject.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if subject.CreatedAt.IsZero() {
		subject.CreatedAt = now
	}
	subject.UpdatedAt = now
	if subject.State == "" {
		subject.State = models.StateActive
	}

	const query = `INSERT INTO subjects (id, career_id, name, year, formation_field, modality, format, weekly_hours, annual_hours, accreditation, views, state, created_at, updated_at)
	VALUES (:id, :career_id, :name, :year, :formation_field, :modality, :format, :weekly_hours, :annual_hours, :accreditation, :views, :state, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		return fmt.Errorf("create subject: %w", err)
	}
	return nil
}

// Update modifies a subject.
func (r *SubjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	subject.UpdatedAt = time.Now().UTC()
	const query = `UPDATE subjects SET name = :name, year = :year, formation_field = :formation_field,
	modality = :modality, format = :format, weekly_hours = :weekly_hours, annual_hours = :annual_hours,
	accreditation = :accreditation, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		return fmt.Errorf("update subject: %w", err)
	}
	return nil
}

// SoftDelete marks a subject inactive with audit stamps. A repeat delete
// reports sql.ErrNoRows instead of double-applying the audit fields.
func (r *SubjectRepository) SoftDelete(ctx context.Context, id string, actorID string) error {
	now := time.Now().UTC()
	const query = `UPDATE subjects SET state = $2, deactivated_at = $3, deactivated_by = $4, updated_at = $3 WHERE id = $1 AND state = $5`
	res, err := r.db.ExecContext(ctx, query, id, models.StateInactive, now, actorID, models.StateActive)
	if err != nil {
		return fmt.Errorf("soft delete subject: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("soft delete subject: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// IncrementViews bumps the view counter used by the featured ranking.
func (r *SubjectRepository) IncrementViews(ctx context.Context, id string) error {
	const query = `UPDATE subjects SET views = views + 1 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("increment subject views: %w", err)
	}
	return nil
}

// Featured returns the most viewed active subjects of active careers.
func (r *SubjectRepository) Featured(ctx context.Context, limit int) ([]models.Subject, error) {
	if limit <= 0 {
		limit = 10
	}
	query := fmt.Sprintf(`SELECT %s FROM subjects s JOIN careers c ON c.id = s.career_id AND c.state = 'ACTIVE'
	WHERE s.state = 'ACTIVE' ORDER BY s.views DESC, s.name ASC LIMIT %d`, subjectColumns, limit)
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query); err != nil {
		return nil, fmt.Errorf("featured subjects: %w", err)
	}
	return subjects, nil
}
