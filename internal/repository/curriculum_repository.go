package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/openacademia/catalog-api/internal/models"
)

// CurriculumRepository reads the fully joined data set the layout engine
// consumes: the career, its active subjects ordered by year, and every
// active prerequisite edge between them with names resolved.
type CurriculumRepository struct {
	db *sqlx.DB
}

// NewCurriculumRepository creates a new repository instance.
func NewCurriculumRepository(db *sqlx.DB) *CurriculumRepository {
	return &CurriculumRepository{db: db}
}

// Career returns the career row in any state.
func (r *CurriculumRepository) Career(ctx context.Context, id string) (*models.Career, error) {
	const query = `SELECT c.id, c.name, c.duration_years, c.modality, c.approval_year, c.state,
	c.deactivated_at, c.deactivated_by, c.created_at, c.updated_at,
	NULL AS coordinator_id, NULL AS coordinator_name
	FROM careers c WHERE c.id = $1`
	var career models.Career
	if err := r.db.GetContext(ctx, &career, query, id); err != nil {
		return nil, err
	}
	return &career, nil
}

// Subjects returns the active subjects of the career ordered by year and
// name, the order the report renders them in.
func (r *CurriculumRepository) Subjects(ctx context.Context, careerID string) ([]models.Subject, error) {
	const query = `SELECT s.id, s.career_id, s.name, s.year, s.formation_field, s.modality, s.format,
	s.weekly_hours, s.annual_hours, s.accreditation, s.views, s.state,
	s.deactivated_at, s.deactivated_by, s.created_at, s.updated_at, NULL AS career_name
	FROM subjects s WHERE s.career_id = $1 AND s.state = 'ACTIVE'
	ORDER BY s.year ASC, s.name ASC`
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, careerID); err != nil {
		return nil, fmt.Errorf("curriculum subjects: %w", err)
	}
	return subjects, nil
}

// Prerequisites returns every active edge between active subjects of the
// career, with the required-subject name resolved for display.
func (r *CurriculumRepository) Prerequisites(ctx context.Context, careerID string) ([]models.Prerequisite, error) {
	const query = `SELECT p.id, p.subject_id, p.required_id, p.kind, p.required_status, p.state,
	p.deactivated_at, p.deactivated_by, p.created_at, p.updated_at, req.name AS required_name
	FROM prerequisites p
	JOIN subjects s ON s.id = p.subject_id AND s.state = 'ACTIVE'
	JOIN subjects req ON req.id = p.required_id AND req.state = 'ACTIVE'
	WHERE s.career_id = $1 AND p.state = 'ACTIVE'
	ORDER BY req.name ASC`
	var edges []models.Prerequisite
	if err := r.db.SelectContext(ctx, &edges, query, careerID); err != nil {
		return nil, fmt.Errorf("curriculum prerequisites: %w", err)
	}
	return edges, nil
}
