package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/openacademia/catalog-api/internal/models"
)

// AssignmentRepository reads the career-coordinator join. Writes happen
// only inside career and admin cascade transactions.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository creates a new repository instance.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// CareerIDsForAdmin returns the careers currently assigned to an admin.
// Only careers in ACTIVE state count toward a coordinator's scope.
func (r *AssignmentRepository) CareerIDsForAdmin(ctx context.Context, adminID string) ([]string, error) {
	const query = `SELECT cc.career_id FROM career_coordinators cc
	JOIN careers c ON c.id = cc.career_id AND c.state = 'ACTIVE'
	WHERE cc.admin_id = $1`
	ids := []string{}
	if err := r.db.SelectContext(ctx, &ids, query, adminID); err != nil {
		return nil, fmt.Errorf("career ids for admin: %w", err)
	}
	return ids, nil
}

// ForCareer returns the assignment row of a career, if any.
func (r *AssignmentRepository) ForCareer(ctx context.Context, careerID string) ([]models.Assignment, error) {
	const query = `SELECT career_id, admin_id, created_at FROM career_coordinators WHERE career_id = $1`
	var rows []models.Assignment
	if err := r.db.SelectContext(ctx, &rows, query, careerID); err != nil {
		return nil, fmt.Errorf("assignments for career: %w", err)
	}
	return rows, nil
}
