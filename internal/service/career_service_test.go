package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openacademia/catalog-api/internal/authz"
	"github.com/openacademia/catalog-api/internal/models"
	appErrors "github.com/openacademia/catalog-api/pkg/errors"
)

type fakeCareerRepo struct {
	careers      map[string]*models.Career
	listedFilter models.CareerFilter
	listedScope  authz.Scope
	createErr    error
	stateErr     error
	replaced     []*string
}

func (f *fakeCareerRepo) List(ctx context.Context, filter models.CareerFilter, scope authz.Scope) ([]models.Career, int, error) {
	f.listedFilter = filter
	f.listedScope = scope
	var out []models.Career
	for _, c := range f.careers {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (f *fakeCareerRepo) FindByID(ctx context.Context, id string) (*models.Career, error) {
	if c, ok := f.careers[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeCareerRepo) Create(ctx context.Context, career *models.Career, coordinatorID string) error {
	if f.createErr != nil {
		return f.createErr
	}
	if f.careers == nil {
		f.careers = map[string]*models.Career{}
	}
	career.CoordinatorID = &coordinatorID
	f.careers[career.ID] = career
	return nil
}

func (f *fakeCareerRepo) Update(ctx context.Context, career *models.Career) error {
	f.careers[career.ID] = career
	return nil
}

func (f *fakeCareerRepo) ReplaceCoordinator(ctx context.Context, careerID string, coordinatorID *string) error {
	f.replaced = append(f.replaced, coordinatorID)
	f.careers[careerID].CoordinatorID = coordinatorID
	return nil
}

func (f *fakeCareerRepo) UpdateState(ctx context.Context, id string, state models.LifecycleState, actorID string) error {
	if f.stateErr != nil {
		return f.stateErr
	}
	c, ok := f.careers[id]
	if !ok || c.State == state {
		return sql.ErrNoRows
	}
	c.State = state
	return nil
}

type fakeCareerAdmins struct {
	admins map[string]*models.Admin
}

func (f *fakeCareerAdmins) FindByID(ctx context.Context, id string) (*models.Admin, error) {
	if a, ok := f.admins[id]; ok {
		return a, nil
	}
	return nil, sql.ErrNoRows
}

func seededCareerRepo() *fakeCareerRepo {
	coordinator := "coord-1"
	return &fakeCareerRepo{careers: map[string]*models.Career{
		"c1": {ID: "c1", Name: "Software Engineering", DurationYears: 5, State: models.StateActive, CoordinatorID: &coordinator},
		"c2": {ID: "c2", Name: "Old Programme", DurationYears: 4, State: models.StateClosed},
	}}
}

func seededCareerAdmins() *fakeCareerAdmins {
	return &fakeCareerAdmins{admins: map[string]*models.Admin{
		"coord-1": {ID: "coord-1", Role: models.RoleCoordinator, State: models.StateActive},
		"coord-2": {ID: "coord-2", Role: models.RoleCoordinator, State: models.StateSuspended},
		"rector-1": {ID: "rector-1", Role: models.RoleRector, State: models.StateActive},
	}}
}

func TestCareerListStripsStateFilterForCoordinators(t *testing.T) {
	repo := seededCareerRepo()
	svc := NewCareerService(repo, seededCareerAdmins(), authz.NewGuard(), nil, nil)

	closed := models.StateClosed
	_, _, err := svc.List(context.Background(), coordPrincipal, authz.ScopeOf("c1"), models.CareerFilter{State: &closed})
	require.NoError(t, err)
	assert.Nil(t, repo.listedFilter.State)

	_, _, err = svc.List(context.Background(), rectorPrincipal, authz.UnrestrictedScope(), models.CareerFilter{State: &closed})
	require.NoError(t, err)
	require.NotNil(t, repo.listedFilter.State)
	assert.Equal(t, closed, *repo.listedFilter.State)
}

func TestCareerGetHidesNonActiveFromCoordinators(t *testing.T) {
	svc := NewCareerService(seededCareerRepo(), seededCareerAdmins(), authz.NewGuard(), nil, nil)

	_, err := svc.Get(context.Background(), coordPrincipal, authz.ScopeOf("c2"), "c2")
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrNotFoundOrInactive.Code))

	career, err := svc.Get(context.Background(), rectorPrincipal, authz.UnrestrictedScope(), "c2")
	require.NoError(t, err)
	assert.Equal(t, models.StateClosed, career.State)
}

func TestCareerGetOutOfScope(t *testing.T) {
	svc := NewCareerService(seededCareerRepo(), seededCareerAdmins(), authz.NewGuard(), nil, nil)

	_, err := svc.Get(context.Background(), coordPrincipal, authz.ScopeOf("c9"), "c1")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ReasonOutOfScope, appErr.Reason)
}

func TestCareerCreateChecksCoordinatorReference(t *testing.T) {
	suspendedID := "1f6b1f1e-7a55-4f2d-9b76-0a3f8f0a1c11"
	rectorID := "2a7c2f2f-8b66-4e3e-8c87-1b4a9e1b2d22"
	unknownID := "3b8d3a3a-9c77-4f4f-9d98-2c5b0f2c3e33"

	admins := seededCareerAdmins()
	admins.admins[suspendedID] = &models.Admin{ID: suspendedID, Role: models.RoleCoordinator, State: models.StateSuspended}
	admins.admins[rectorID] = &models.Admin{ID: rectorID, Role: models.RoleRector, State: models.StateActive}
	svc := NewCareerService(seededCareerRepo(), admins, authz.NewGuard(), nil, nil)

	for name, coordinatorID := range map[string]string{
		"unknown admin":         unknownID,
		"suspended coordinator": suspendedID,
		"wrong role":            rectorID,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), rectorPrincipal, models.CreateCareerRequest{
				Name: "New Programme", DurationYears: 4, Modality: "On-site", ApprovalYear: 2024,
				CoordinatorID: coordinatorID,
			})
			require.Error(t, err)
			assert.True(t, appErrors.IsCode(err, appErrors.ErrReference.Code))
		})
	}
}

func TestCareerCreateSuccess(t *testing.T) {
	repo := seededCareerRepo()
	admins := seededCareerAdmins()
	admins.admins["9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d"] = &models.Admin{ID: "9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d", Role: models.RoleCoordinator, State: models.StateActive}
	svc := NewCareerService(repo, admins, authz.NewGuard(), nil, nil)

	career, err := svc.Create(context.Background(), rectorPrincipal, models.CreateCareerRequest{
		Name: "Data Science", DurationYears: 4, Modality: "On-site", ApprovalYear: 2024,
		CoordinatorID: "9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StateActive, career.State)
	require.NotNil(t, career.CoordinatorID)
	assert.Equal(t, "9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d", *career.CoordinatorID)
}

func TestCareerCreateForbiddenForCoordinator(t *testing.T) {
	svc := NewCareerService(seededCareerRepo(), seededCareerAdmins(), authz.NewGuard(), nil, nil)

	_, err := svc.Create(context.Background(), coordPrincipal, models.CreateCareerRequest{
		Name: "Rogue", DurationYears: 4, Modality: "On-site", ApprovalYear: 2024,
		CoordinatorID: "9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d",
	})
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrForbidden.Code))
}

func TestCareerAssignCoordinatorNilClearsAssignment(t *testing.T) {
	repo := seededCareerRepo()
	svc := NewCareerService(repo, seededCareerAdmins(), authz.NewGuard(), nil, nil)

	career, err := svc.AssignCoordinator(context.Background(), rectorPrincipal, "c1", models.AssignCoordinatorRequest{CoordinatorID: nil})
	require.NoError(t, err)
	assert.Nil(t, career.CoordinatorID)
	require.Len(t, repo.replaced, 1)
	assert.Nil(t, repo.replaced[0])
}

func TestCareerAssignCoordinatorOnNonActiveCareer(t *testing.T) {
	svc := NewCareerService(seededCareerRepo(), seededCareerAdmins(), authz.NewGuard(), nil, nil)

	_, err := svc.AssignCoordinator(context.Background(), rectorPrincipal, "c2", models.AssignCoordinatorRequest{})
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrNotFoundOrInactive.Code))
}

func TestCareerUpdateStateAlreadyApplied(t *testing.T) {
	repo := seededCareerRepo()
	svc := NewCareerService(repo, seededCareerAdmins(), authz.NewGuard(), nil, nil)

	_, err := svc.UpdateState(context.Background(), rectorPrincipal, "c2", models.UpdateCareerStateRequest{State: models.StateClosed})
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrNotFoundOrInactive.Code))
}

func TestCareerDeleteIdempotent(t *testing.T) {
	repo := seededCareerRepo()
	svc := NewCareerService(repo, seededCareerAdmins(), authz.NewGuard(), nil, nil)

	require.NoError(t, svc.Delete(context.Background(), rectorPrincipal, "c1"))

	err := svc.Delete(context.Background(), rectorPrincipal, "c1")
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrNotFoundOrInactive.Code))
}
