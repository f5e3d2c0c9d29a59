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

const slotColumns = `sl.id, sl.subject_id, sl.weekday, sl.start_time, sl.end_time, sl.state,
	sl.deactivated_at, sl.deactivated_by, sl.created_at, sl.updated_at`

// slotJoins ties a slot to its subject and career so reads honor the
// transitive visibility rule.
const slotJoins = `FROM schedule_slots sl
	JOIN subjects s ON s.id = sl.subject_id
	JOIN careers c ON c.id = s.career_id`

// ScheduleRepository handles persistence for weekly schedule slots.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new repository instance.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// ListBySubject returns the active slots of an active subject ordered
// Monday-first, then by start time.
func (r *ScheduleRepository) ListBySubject(ctx context.Context, subjectID string) ([]models.ScheduleSlot, error) {
	query := fmt.Sprintf(`SELECT %s %s
	WHERE sl.subject_id = $1 AND sl.state = 'ACTIVE' AND s.state = 'ACTIVE' AND c.state = 'ACTIVE'
	ORDER BY %s, sl.start_time ASC`, slotColumns, slotJoins, weekdayOrderSQL)
	var slots []models.ScheduleSlot
	if err := r.db.SelectContext(ctx, &slots, query, subjectID); err != nil {
		return nil, fmt.Errorf("list schedule slots: %w", err)
	}
	return slots, nil
}

// FindByID returns an active slot whose subject and career are active.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.ScheduleSlot, error) {
	query := fmt.Sprintf(`SELECT %s %s
	WHERE sl.id = $1 AND sl.state = 'ACTIVE' AND s.state = 'ACTIVE' AND c.state = 'ACTIVE'`, slotColumns, slotJoins)
	var slot models.ScheduleSlot
	if err := r.db.GetContext(ctx, &slot, query, id); err != nil {
		return nil, err
	}
	return &slot, nil
}

// OwningCareer resolves ownership transitively through the subject.
func (r *ScheduleRepository) OwningCareer(ctx context.Context, slotID string) (string, models.LifecycleState, error) {
	const query = `SELECT c.id, c.state FROM schedule_slots sl
	JOIN subjects s ON s.id = sl.subject_id
	JOIN careers c ON c.id = s.career_id
	WHERE sl.id = $1`
	var row struct {
		ID    string                `db:"id"`
		State models.LifecycleState `db:"state"`
	}
	if err := r.db.GetContext(ctx, &row, query, slotID); err != nil {
		return "", "", err
	}
	return row.ID, row.State, nil
}

// Create persists a new slot.
func (r *ScheduleRepository) Create(ctx context.Context, slot *models.ScheduleSlot) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = now
	}
	slot.UpdatedAt = now
	if slot.State == "" {
		slot.State = models.StateActive
	}

	const query = `INSERT INTO schedule_slots (id, subject_id, weekday, start_time, end_time, state, created_at, updated_at)
	VALUES (:id, :subject_id, :weekday, :start_time, :end_time, :state, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("create schedule slot: %w", err)
	}
	return nil
}

// Update modifies a slot's day and time range.
func (r *ScheduleRepository) Update(ctx context.Context, slot *models.ScheduleSlot) error {
	slot.UpdatedAt = time.Now().UTC()
	const query = `UPDATE schedule_slots SET weekday = :weekday, start_time = :start_time, end_time = :end_time, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("update schedule slot: %w", err)
	}
	return nil
}

// SoftDelete marks a slot inactive; a repeat delete reports sql.ErrNoRows.
func (r *ScheduleRepository) SoftDelete(ctx context.Context, id string, actorID string) error {
	now := time.Now().UTC()
	const query = `UPDATE schedule_slots SET state = $2, deactivated_at = $3, deactivated_by = $4, updated_at = $3 WHERE id = $1 AND state = $5`
	res, err := r.db.ExecContext(ctx, query, id, models.StateInactive, now, actorID, models.StateActive)
	if err != nil {
		return fmt.Errorf("soft delete schedule slot: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("soft delete schedule slot: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
