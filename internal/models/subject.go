package models

import "time"

// Subject represents a course belonging to exactly one career and one year.
// Hour figures are kept as free-form text: rows display the literal value
// while aggregate rows coerce non-numeric values to zero.
type Subject struct {
	ID             string         `db:"id" json:"id"`
	CareerID       string         `db:"career_id" json:"career_id"`
	Name           string         `db:"name" json:"name"`
	Year           int            `db:"year" json:"year"`
	FormationField string         `db:"formation_field" json:"formation_field"`
	Modality       string         `db:"modality" json:"modality"`
	Format         string         `db:"format" json:"format"`
	WeeklyHours    *string        `db:"weekly_hours" json:"weekly_hours,omitempty"`
	AnnualHours    *string        `db:"annual_hours" json:"annual_hours,omitempty"`
	Accreditation  string         `db:"accreditation" json:"accreditation"`
	Views          int64          `db:"views" json:"views"`
	State          LifecycleState `db:"state" json:"state"`
	DeactivatedAt  *time.Time     `db:"deactivated_at" json:"deactivated_at,omitempty"`
	DeactivatedBy  *string        `db:"deactivated_by" json:"deactivated_by,omitempty"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`

	CareerName *string `db:"career_name" json:"career_name,omitempty"`
}

// CreateSubjectRequest registers a subject under a career and year.
type CreateSubjectRequest struct {
	CareerID       string  `json:"career_id" validate:"required,uuid"`
	Name           string  `json:"name" validate:"required"`
	Year           int     `json:"year" validate:"required,min=1,max=10"`
	FormationField string  `json:"formation_field"`
	Modality       string  `json:"modality"`
	Format         string  `json:"format"`
	WeeklyHours    *string `json:"weekly_hours"`
	AnnualHours    *string `json:"annual_hours"`
	Accreditation  string  `json:"accreditation"`
}

// UpdateSubjectRequest partially updates a subject.
type UpdateSubjectRequest struct {
	Name           *string `json:"name"`
	Year           *int    `json:"year" validate:"omitempty,min=1,max=10"`
	FormationField *string `json:"formation_field"`
	Modality       *string `json:"modality"`
	Format         *string `json:"format"`
	WeeklyHours    *string `json:"weekly_hours"`
	AnnualHours    *string `json:"annual_hours"`
	Accreditation  *string `json:"accreditation"`
}

// SubjectFilter captures filtering criteria for listing subjects.
type SubjectFilter struct {
	CareerID  string
	Year      int
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
