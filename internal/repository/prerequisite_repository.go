package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/openacademia/catalog-api/internal/models"
)

const prereqColumns = `p.id, p.subject_id, p.required_id, p.kind, p.required_status, p.state,
	p.deactivated_at, p.deactivated_by, p.created_at, p.updated_at`

// PrerequisiteRepository handles persistence for prerequisite edges.
type PrerequisiteRepository struct {
	db *sqlx.DB
}

// NewPrerequisiteRepository creates a new repository instance.
func NewPrerequisiteRepository(db *sqlx.DB) *PrerequisiteRepository {
	return &PrerequisiteRepository{db: db}
}

// ListForSubject returns the active prerequisite edges of a subject with
// required-subject names resolved. Both endpoints and the owning career
// must be active for the edge to surface.
func (r *PrerequisiteRepository) ListForSubject(ctx context.Context, subjectID string) ([]models.Prerequisite, error) {
	query := fmt.Sprintf(`SELECT %s, req.name AS required_name %s
	WHERE p.subject_id = $1 AND p.state = 'ACTIVE'
	ORDER BY p.kind, p.required_status, req.name`, prereqColumns, prereqJoins)
	var edges []models.Prerequisite
	if err := r.db.SelectContext(ctx, &edges, query, subjectID); err != nil {
		return nil, fmt.Errorf("list prerequisites: %w", err)
	}
	return edges, nil
}

// ListDependents returns the active edges that require the given subject,
// with principal-subject names resolved.
func (r *PrerequisiteRepository) ListDependents(ctx context.Context, subjectID string) ([]models.Prerequisite, error) {
	query := fmt.Sprintf(`SELECT %s, prin.name AS subject_name FROM prerequisites p
	JOIN subjects prin ON prin.id = p.subject_id AND prin.state = 'ACTIVE'
	JOIN careers c ON c.id = prin.career_id AND c.state = 'ACTIVE'
	WHERE p.required_id = $1 AND p.state = 'ACTIVE'
	ORDER BY p.kind, p.required_status, prin.name`, prereqColumns)
	var edges []models.Prerequisite
	if err := r.db.SelectContext(ctx, &edges, query, subjectID); err != nil {
		return nil, fmt.Errorf("list dependents: %w", err)
	}
	return edges, nil
}

const prereqJoins = `FROM prerequisites p
	JOIN subjects req ON req.id = p.required_id AND req.state = 'ACTIVE'
	JOIN careers c ON c.id = req.career_id AND c.state = 'ACTIVE'`

// FindByID returns an edge by id in any state.
func (r *PrerequisiteRepository) FindByID(ctx context.Context, id string) (*models.Prerequisite, error) {
	query := fmt.Sprintf("SELECT %s FROM prerequisites p WHERE p.id = $1", prereqColumns)
	var edge models.Prerequisite
	if err := r.db.GetContext(ctx, &edge, query, id); err != nil {
		return nil, err
	}
	return &edge, nil
}

// Create persists a new edge. Foreign-key and duplicate violations surface
// as distinguishable pq errors for the service to translate.
func (r *PrerequisiteRepository) Create(ctx context.Context, edge *models.Prerequisite) error {
	if edge.ID == "" {
		edge.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if edge.CreatedAt.IsZero() {
		edge.CreatedAt = now
	}
	edge.UpdatedAt = now
	if edge.State == "" {
		edge.State = models.StateActive
	}

	const query = `INSERT INTO prerequisites (id, subject_id, required_id, kind, required_status, state, created_at, updated_at)
	VALUES (:id, :subject_id, :required_id, :kind, :required_status, :state, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, edge); err != nil {
		return fmt.Errorf("create prerequisite: %w", err)
	}
	return nil
}

// SoftDelete marks an edge inactive; a repeat delete reports sql.ErrNoRows.
func (r *PrerequisiteRepository) SoftDelete(ctx context.Context, id string, actorID string) error {
	now := time.Now().UTC()
	const query = `UPDATE prerequisites SET state = $2, deactivated_at = $3, deactivated_by = $4, updated_at = $3 WHERE id = $1 AND state = $5`
	res, err := r.db.ExecContext(ctx, query, id, models.StateInactive, now, actorID, models.StateActive)
	if err != nil {
		return fmt.Errorf("soft delete prerequisite: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("soft delete prerequisite: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// OwningCareer resolves the owning career of the principal subject.
func (r *PrerequisiteRepository) OwningCareer(ctx context.Context, subjectID string) (string, models.LifecycleState, error) {
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
