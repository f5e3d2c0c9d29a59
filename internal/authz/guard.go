package authz

import (
	"github.com/openacademia/catalog-api/internal/models"
	appErrors "github.com/openacademia/catalog-api/pkg/errors"
)

// Guard holds the per-operation authorization rule table. Every method
// returns nil to allow the operation or a typed error carrying the denial
// reason. Authorization failures are terminal for the request; nothing is
// retried here.
type Guard struct{}

// NewGuard constructs the rule table.
func NewGuard() Guard {
	return Guard{}
}

// CanCreateCareer restricts career creation to the Rector.
func (Guard) CanCreateCareer(p Principal) error {
	if p.Role != models.RoleRector {
		return appErrors.Forbidden(appErrors.ReasonInsufficientRole, "only a rector may create careers")
	}
	return nil
}

// CanChangeCareerState covers close, deactivate, reactivate and soft-delete.
func (Guard) CanChangeCareerState(p Principal) error {
	if p.Role != models.RoleRector {
		return appErrors.Forbidden(appErrors.ReasonInsufficientRole, "only a rector may change career state")
	}
	return nil
}

// CanAssignCoordinator restricts coordinator replacement to the Rector.
func (Guard) CanAssignCoordinator(p Principal) error {
	if p.Role != models.RoleRector {
		return appErrors.Forbidden(appErrors.ReasonInsufficientRole, "only a rector may assign coordinators")
	}
	return nil
}

// CanAccessCareer allows reads and updates of a career for the Rector, or
// for a Coordinator whose scope contains the career.
func (Guard) CanAccessCareer(p Principal, scope Scope, careerID string) error {
	switch p.Role {
	case models.RoleRector:
		return nil
	case models.RoleCoordinator:
		if scope.Contains(careerID) {
			return nil
		}
		return appErrors.Forbidden(appErrors.ReasonOutOfScope, "career is outside the caller's scope")
	default:
		return appErrors.Forbidden(appErrors.ReasonInsufficientRole, "unknown role")
	}
}

// CanMutateCourseUnit covers create/update/delete of subjects, schedule
// slots and prerequisite edges, whose ownership resolves transitively to
// the owning career.
func (g Guard) CanMutateCourseUnit(p Principal, scope Scope, owningCareerID string) error {
	return g.CanAccessCareer(p, scope, owningCareerID)
}

// CanReadAdmins allows both roles to list and read administrator records.
func (Guard) CanReadAdmins(p Principal) error {
	if !p.Role.Valid() {
		return appErrors.Forbidden(appErrors.ReasonInsufficientRole, "unknown role")
	}
	return nil
}

// CanEditAdmin allows the Rector to edit any administrator and a
// Coordinator to edit only its own record.
func (Guard) CanEditAdmin(p Principal, targetID string) error {
	switch p.Role {
	case models.RoleRector:
		return nil
	case models.RoleCoordinator:
		if p.ID == targetID {
			return nil
		}
		return appErrors.Forbidden(appErrors.ReasonOutOfScope, "coordinators may edit only their own account")
	default:
		return appErrors.Forbidden(appErrors.ReasonInsufficientRole, "unknown role")
	}
}

// AdminEditableFields returns the field set the principal may change on the
// target administrator record. The second result is true when the edit is
// unrestricted. A Coordinator editing itself may touch personal fields only;
// role and state stay write-protected.
func (Guard) AdminEditableFields(p Principal, targetID string) ([]string, bool) {
	if p.Role == models.RoleRector {
		return nil, true
	}
	if p.ID == targetID {
		return []string{"email", "full_name", "phone"}, false
	}
	return nil, false
}

// CanChangeAdminState enforces both the role rule and the self-protection
// invariant: no principal may move its own lifecycle state to suspended or
// inactive, regardless of role. Requesting the current state is a no-op
// and allowed.
func (Guard) CanChangeAdminState(p Principal, targetID string, current, requested models.LifecycleState) error {
	if p.ID == targetID {
		if requested == current {
			return nil
		}
		if requested == models.StateSuspended || requested == models.StateInactive {
			return appErrors.Forbidden(appErrors.ReasonSelfProtection, "administrators cannot suspend or deactivate themselves")
		}
	}
	if p.Role != models.RoleRector {
		return appErrors.Forbidden(appErrors.ReasonInsufficientRole, "only a rector may change administrator state")
	}
	return nil
}

// CanChangeAdminRole restricts role changes to the Rector acting on others.
func (Guard) CanChangeAdminRole(p Principal, targetID string) error {
	if p.ID == targetID {
		return appErrors.Forbidden(appErrors.ReasonSelfProtection, "administrators cannot change their own role")
	}
	if p.Role != models.RoleRector {
		return appErrors.Forbidden(appErrors.ReasonInsufficientRole, "only a rector may change roles")
	}
	return nil
}

// CanDeleteAdmin enforces the peer-deletion invariant: nobody soft-deletes
// their own account, and only the Rector deletes others.
func (Guard) CanDeleteAdmin(p Principal, targetID string) error {
	if p.ID == targetID {
		return appErrors.Forbidden(appErrors.ReasonSelfDeletion, "administrators cannot delete their own account")
	}
	if p.Role != models.RoleRector {
		return appErrors.Forbidden(appErrors.ReasonInsufficientRole, "only a rector may delete administrators")
	}
	return nil
}

// CanCreateAdmin restricts account registration to the Rector.
func (Guard) CanCreateAdmin(p Principal) error {
	if p.Role != models.RoleRector {
		return appErrors.Forbidden(appErrors.ReasonInsufficientRole, "only a rector may register administrators")
	}
	return nil
}
