package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openacademia/catalog-api/internal/models"
)

type fakeAssignments struct {
	careers map[string][]string
	err     error
}

func (f *fakeAssignments) CareerIDsForAdmin(ctx context.Context, adminID string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.careers[adminID], nil
}

func TestUnrestrictedScope(t *testing.T) {
	s := UnrestrictedScope()
	assert.True(t, s.Unrestricted())
	assert.False(t, s.Empty())
	assert.True(t, s.Contains("anything"))
	assert.Nil(t, s.CareerIDs())
}

func TestScopeOf(t *testing.T) {
	s := ScopeOf("c2", "c1")
	assert.False(t, s.Unrestricted())
	assert.False(t, s.Empty())
	assert.True(t, s.Contains("c1"))
	assert.True(t, s.Contains("c2"))
	assert.False(t, s.Contains("c3"))
	assert.Equal(t, []string{"c1", "c2"}, s.CareerIDs())
}

func TestEmptyScope(t *testing.T) {
	s := ScopeOf()
	assert.True(t, s.Empty())
	assert.False(t, s.Contains("c1"))
	assert.Equal(t, []string{}, s.CareerIDs())
}

func TestResolveRector(t *testing.T) {
	r := NewResolver(&fakeAssignments{err: errors.New("must not be called")})
	scope, err := r.Resolve(context.Background(), Principal{ID: "a1", Role: models.RoleRector})
	require.NoError(t, err)
	assert.True(t, scope.Unrestricted())
}

func TestResolveCoordinator(t *testing.T) {
	r := NewResolver(&fakeAssignments{careers: map[string][]string{"a1": {"c1", "c2"}}})
	scope, err := r.Resolve(context.Background(), Principal{ID: "a1", Role: models.RoleCoordinator})
	require.NoError(t, err)
	assert.False(t, scope.Unrestricted())
	assert.Equal(t, []string{"c1", "c2"}, scope.CareerIDs())
}

func TestResolveCoordinatorWithoutAssignments(t *testing.T) {
	r := NewResolver(&fakeAssignments{})
	scope, err := r.Resolve(context.Background(), Principal{ID: "a2", Role: models.RoleCoordinator})
	require.NoError(t, err)
	assert.True(t, scope.Empty())
	assert.False(t, scope.Contains("c1"))
}

func TestResolveSourceError(t *testing.T) {
	r := NewResolver(&fakeAssignments{err: errors.New("db down")})
	_, err := r.Resolve(context.Background(), Principal{ID: "a1", Role: models.RoleCoordinator})
	require.Error(t, err)
}
