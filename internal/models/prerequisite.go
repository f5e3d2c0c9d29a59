package models

import "time"

// PrereqKind distinguishes what the requirement gates.
type PrereqKind string

const (
	// PrereqToAttend must be met to enroll in the principal subject.
	PrereqToAttend PrereqKind = "TO_ATTEND"
	// PrereqToSitExam must be met to sit the final exam or promote.
	PrereqToSitExam PrereqKind = "TO_SIT_EXAM"
)

// Valid reports whether the kind is a known value.
func (k PrereqKind) Valid() bool {
	return k == PrereqToAttend || k == PrereqToSitExam
}

// PrereqStatus is the academic status the required subject must hold.
type PrereqStatus string

const (
	PrereqApproved PrereqStatus = "APPROVED"
	PrereqRegular  PrereqStatus = "REGULAR"
)

// Valid reports whether the status is a known value.
func (s PrereqStatus) Valid() bool {
	return s == PrereqApproved || s == PrereqRegular
}

// CreatePrerequisiteRequest registers a requirement edge.
type CreatePrerequisiteRequest struct {
	SubjectID      string       `json:"subject_id" validate:"required,uuid"`
	RequiredID     string       `json:"required_id" validate:"required,uuid"`
	Kind           PrereqKind   `json:"kind" validate:"required"`
	RequiredStatus PrereqStatus `json:"required_status" validate:"required"`
}

// Prerequisite is a directed requirement edge between two subjects of the
// same career. Multiple edges between the same pair with different kinds
// are permitted; self-referential edges are not.
type Prerequisite struct {
	ID             string         `db:"id" json:"id"`
	SubjectID      string         `db:"subject_id" json:"subject_id"`
	RequiredID     string         `db:"required_id" json:"required_id"`
	Kind           PrereqKind     `db:"kind" json:"kind"`
	RequiredStatus PrereqStatus   `db:"required_status" json:"required_status"`
	State          LifecycleState `db:"state" json:"state"`
	DeactivatedAt  *time.Time     `db:"deactivated_at" json:"deactivated_at,omitempty"`
	DeactivatedBy  *string        `db:"deactivated_by" json:"deactivated_by,omitempty"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`

	SubjectName  *string `db:"subject_name" json:"subject_name,omitempty"`
	RequiredName *string `db:"required_name" json:"required_name,omitempty"`
}
