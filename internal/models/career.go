package models

import "time"

// Career represents an academic program owning subjects organized by year.
type Career struct {
	ID            string         `db:"id" json:"id"`
	Name          string         `db:"name" json:"name"`
	DurationYears int            `db:"duration_years" json:"duration_years"`
	Modality      string         `db:"modality" json:"modality"`
	ApprovalYear  int            `db:"approval_year" json:"approval_year"`
	State         LifecycleState `db:"state" json:"state"`
	DeactivatedAt *time.Time     `db:"deactivated_at" json:"deactivated_at,omitempty"`
	DeactivatedBy *string        `db:"deactivated_by" json:"deactivated_by,omitempty"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`

	// CoordinatorID is populated from the career_coordinators join; a
	// career holds at most one coordinator at a time.
	CoordinatorID   *string `db:"coordinator_id" json:"coordinator_id,omitempty"`
	CoordinatorName *string `db:"coordinator_name" json:"coordinator_name,omitempty"`
}

// Assignment is the career-coordinator join row. It has no lifecycle of its
// own; cascades remove rows physically.
type Assignment struct {
	CareerID  string    `db:"career_id" json:"career_id"`
	AdminID   string    `db:"admin_id" json:"admin_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CreateCareerRequest registers a career together with its mandatory
// coordinator assignment.
type CreateCareerRequest struct {
	Name          string `json:"name" validate:"required"`
	DurationYears int    `json:"duration_years" validate:"required,min=1,max=10"`
	Modality      string `json:"modality" validate:"required"`
	ApprovalYear  int    `json:"approval_year" validate:"required,min=1900"`
	CoordinatorID string `json:"coordinator_id" validate:"required,uuid"`
}

// UpdateCareerRequest partially updates career descriptive fields.
type UpdateCareerRequest struct {
	Name          *string `json:"name"`
	DurationYears *int    `json:"duration_years" validate:"omitempty,min=1,max=10"`
	Modality      *string `json:"modality"`
	ApprovalYear  *int    `json:"approval_year" validate:"omitempty,min=1900"`
}

// AssignCoordinatorRequest replaces the career's coordinator. A nil id
// leaves the career without one.
type AssignCoordinatorRequest struct {
	CoordinatorID *string `json:"coordinator_id" validate:"omitempty,uuid"`
}

// UpdateCareerStateRequest moves a career through its lifecycle.
type UpdateCareerStateRequest struct {
	State LifecycleState `json:"state" validate:"required"`
}

// CareerFilter captures filtering criteria for listing careers.
type CareerFilter struct {
	State     *LifecycleState
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
