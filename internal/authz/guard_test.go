package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openacademia/catalog-api/internal/models"
	appErrors "github.com/openacademia/catalog-api/pkg/errors"
)

var (
	rector      = Principal{ID: "rector-1", Role: models.RoleRector}
	coordinator = Principal{ID: "coord-1", Role: models.RoleCoordinator}
)

func requireForbidden(t *testing.T, err error, reason appErrors.Reason) {
	t.Helper()
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
	assert.Equal(t, reason, appErr.Reason)
}

func TestGuardRectorOnlyRules(t *testing.T) {
	g := NewGuard()

	cases := []struct {
		name  string
		check func(Principal) error
	}{
		{"create career", g.CanCreateCareer},
		{"change career state", g.CanChangeCareerState},
		{"assign coordinator", g.CanAssignCoordinator},
		{"create admin", g.CanCreateAdmin},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.NoError(t, tc.check(rector))
			requireForbidden(t, tc.check(coordinator), appErrors.ReasonInsufficientRole)
		})
	}
}

func TestCanAccessCareer(t *testing.T) {
	g := NewGuard()
	scope := ScopeOf("c1")

	assert.NoError(t, g.CanAccessCareer(rector, UnrestrictedScope(), "c9"))
	assert.NoError(t, g.CanAccessCareer(coordinator, scope, "c1"))
	requireForbidden(t, g.CanAccessCareer(coordinator, scope, "c2"), appErrors.ReasonOutOfScope)
	requireForbidden(t, g.CanAccessCareer(coordinator, ScopeOf(), "c1"), appErrors.ReasonOutOfScope)
	requireForbidden(t, g.CanAccessCareer(Principal{ID: "x", Role: "AUDITOR"}, scope, "c1"), appErrors.ReasonInsufficientRole)
}

func TestCanMutateCourseUnit(t *testing.T) {
	g := NewGuard()
	assert.NoError(t, g.CanMutateCourseUnit(coordinator, ScopeOf("c1"), "c1"))
	requireForbidden(t, g.CanMutateCourseUnit(coordinator, ScopeOf("c1"), "c2"), appErrors.ReasonOutOfScope)
}

func TestCanEditAdmin(t *testing.T) {
	g := NewGuard()
	assert.NoError(t, g.CanEditAdmin(rector, "anyone"))
	assert.NoError(t, g.CanEditAdmin(coordinator, coordinator.ID))
	requireForbidden(t, g.CanEditAdmin(coordinator, "other"), appErrors.ReasonOutOfScope)
}

func TestAdminEditableFields(t *testing.T) {
	g := NewGuard()

	fields, unrestricted := g.AdminEditableFields(rector, "anyone")
	assert.True(t, unrestricted)
	assert.Nil(t, fields)

	fields, unrestricted = g.AdminEditableFields(coordinator, coordinator.ID)
	assert.False(t, unrestricted)
	assert.Equal(t, []string{"email", "full_name", "phone"}, fields)

	fields, unrestricted = g.AdminEditableFields(coordinator, "other")
	assert.False(t, unrestricted)
	assert.Nil(t, fields)
}

func TestCanChangeAdminState(t *testing.T) {
	g := NewGuard()

	t.Run("rector changes another admin", func(t *testing.T) {
		assert.NoError(t, g.CanChangeAdminState(rector, "other", models.StateActive, models.StateSuspended))
	})
	t.Run("self suspension blocked regardless of role", func(t *testing.T) {
		requireForbidden(t, g.CanChangeAdminState(rector, rector.ID, models.StateActive, models.StateSuspended), appErrors.ReasonSelfProtection)
		requireForbidden(t, g.CanChangeAdminState(rector, rector.ID, models.StateActive, models.StateInactive), appErrors.ReasonSelfProtection)
	})
	t.Run("same-state request is a no-op", func(t *testing.T) {
		assert.NoError(t, g.CanChangeAdminState(rector, rector.ID, models.StateActive, models.StateActive))
	})
	t.Run("coordinator cannot change state", func(t *testing.T) {
		requireForbidden(t, g.CanChangeAdminState(coordinator, "other", models.StateActive, models.StateSuspended), appErrors.ReasonInsufficientRole)
	})
}

func TestCanChangeAdminRole(t *testing.T) {
	g := NewGuard()
	assert.NoError(t, g.CanChangeAdminRole(rector, "other"))
	requireForbidden(t, g.CanChangeAdminRole(rector, rector.ID), appErrors.ReasonSelfProtection)
	requireForbidden(t, g.CanChangeAdminRole(coordinator, "other"), appErrors.ReasonInsufficientRole)
}

func TestCanDeleteAdmin(t *testing.T) {
	g := NewGuard()
	assert.NoError(t, g.CanDeleteAdmin(rector, "other"))
	requireForbidden(t, g.CanDeleteAdmin(rector, rector.ID), appErrors.ReasonSelfDeletion)
	requireForbidden(t, g.CanDeleteAdmin(coordinator, "other"), appErrors.ReasonInsufficientRole)
}

func TestCanReadAdmins(t *testing.T) {
	g := NewGuard()
	assert.NoError(t, g.CanReadAdmins(rector))
	assert.NoError(t, g.CanReadAdmins(coordinator))
	requireForbidden(t, g.CanReadAdmins(Principal{ID: "x", Role: "GHOST"}), appErrors.ReasonInsufficientRole)
}
