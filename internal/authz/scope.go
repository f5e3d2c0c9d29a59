package authz

import (
	"context"
	"sort"

	"github.com/openacademia/catalog-api/internal/models"
)

// Principal is the authenticated administrator acting on a request.
type Principal struct {
	ID   string
	Role models.AdminRole
}

// Scope is the set of careers a principal may see or mutate. A Rector gets
// an unrestricted scope; a Coordinator gets the careers currently assigned
// to it, which may be explicitly empty. An empty scope means every list
// operation returns an empty result set, never an error and never the
// global set.
type Scope struct {
	unrestricted bool
	careers      map[string]struct{}
}

// UnrestrictedScope covers every career.
func UnrestrictedScope() Scope {
	return Scope{unrestricted: true}
}

// ScopeOf restricts visibility to the given career ids.
func ScopeOf(careerIDs ...string) Scope {
	set := make(map[string]struct{}, len(careerIDs))
	for _, id := range careerIDs {
		set[id] = struct{}{}
	}
	return Scope{careers: set}
}

// Unrestricted reports whether the scope covers every career.
func (s Scope) Unrestricted() bool {
	return s.unrestricted
}

// Empty reports whether the scope covers no career at all.
func (s Scope) Empty() bool {
	return !s.unrestricted && len(s.careers) == 0
}

// Contains reports whether the career id falls inside the scope.
func (s Scope) Contains(careerID string) bool {
	if s.unrestricted {
		return true
	}
	_, ok := s.careers[careerID]
	return ok
}

// CareerIDs returns the restricted career set in stable order. It returns
// nil for an unrestricted scope.
func (s Scope) CareerIDs() []string {
	if s.unrestricted {
		return nil
	}
	ids := make([]string, 0, len(s.careers))
	for id := range s.careers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

type assignmentSource interface {
	CareerIDsForAdmin(ctx context.Context, adminID string) ([]string, error)
}

// Resolver computes the visibility scope for a principal. Scopes are
// resolved once per request and never cached across requests, since
// assignments can change between requests.
type Resolver struct {
	assignments assignmentSource
}

// NewResolver constructs a Resolver over the assignment store.
func NewResolver(assignments assignmentSource) *Resolver {
	return &Resolver{assignments: assignments}
}

// Resolve returns the scope for the principal.
func (r *Resolver) Resolve(ctx context.Context, p Principal) (Scope, error) {
	if p.Role == models.RoleRector {
		return UnrestrictedScope(), nil
	}
	ids, err := r.assignments.CareerIDsForAdmin(ctx, p.ID)
	if err != nil {
		return Scope{}, err
	}
	return ScopeOf(ids...), nil
}
