package models

import "time"

// AdminRole is the closed set of administrator roles.
type AdminRole string

const (
	// RoleRector has unrestricted access to every career.
	RoleRector AdminRole = "RECTOR"
	// RoleCoordinator is scoped to the careers assigned to it.
	RoleCoordinator AdminRole = "COORDINATOR"
)

// Valid reports whether the role is one of the known values.
func (r AdminRole) Valid() bool {
	return r == RoleRector || r == RoleCoordinator
}

// LifecycleState is the shared soft-delete state machine for all entities.
// CLOSED applies to careers only, SUSPENDED to administrators only.
type LifecycleState string

const (
	StateActive    LifecycleState = "ACTIVE"
	StateInactive  LifecycleState = "INACTIVE"
	StateClosed    LifecycleState = "CLOSED"
	StateSuspended LifecycleState = "SUSPENDED"
)

// Admin represents an administrator account stored in the admins table.
type Admin struct {
	ID            string         `db:"id" json:"id"`
	Email         string         `db:"email" json:"email"`
	PasswordHash  string         `db:"password_hash" json:"-"`
	FullName      string         `db:"full_name" json:"full_name"`
	Phone         string         `db:"phone" json:"phone,omitempty"`
	Role          AdminRole      `db:"role" json:"role"`
	State         LifecycleState `db:"state" json:"state"`
	DeactivatedAt *time.Time     `db:"deactivated_at" json:"deactivated_at,omitempty"`
	DeactivatedBy *string        `db:"deactivated_by" json:"deactivated_by,omitempty"`
	LastLogin     *time.Time     `db:"last_login" json:"last_login,omitempty"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// CreateAdminRequest registers a new administrator account.
type CreateAdminRequest struct {
	Email    string    `json:"email" validate:"required,email"`
	Password string    `json:"password" validate:"required"`
	FullName string    `json:"full_name" validate:"required"`
	Phone    string    `json:"phone"`
	Role     AdminRole `json:"role" validate:"required"`
}

// UpdateAdminRequest partially updates an administrator record. Role is
// included so the authorization layer can reject restricted-field writes
// explicitly rather than silently dropping them.
type UpdateAdminRequest struct {
	Email    *string    `json:"email" validate:"omitempty,email"`
	FullName *string    `json:"full_name"`
	Phone    *string    `json:"phone"`
	Role     *AdminRole `json:"role"`
}

// UpdateAdminStateRequest moves an administrator through its lifecycle.
type UpdateAdminStateRequest struct {
	State LifecycleState `json:"state" validate:"required"`
}

// AdminFilter captures filtering criteria for listing administrators.
type AdminFilter struct {
	Role      *AdminRole
	State     *LifecycleState
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
