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

const (
	algebraSubjectID = "7f9c24e5-2f33-4a52-9a4e-93f1c71b1e10"
	anatomySubjectID = "2c3f1a77-8a4b-4d6e-9c0f-5b2e8d1a6f33"
	retiredSubjectID = "d4e5f6a7-b8c9-4d0e-8f1a-2b3c4d5e6f70"
)

type fakeScheduleRepo struct {
	slots          map[string]*models.ScheduleSlot
	subjectCareers map[string]string
	deleted        []string
}

func (f *fakeScheduleRepo) ListBySubject(ctx context.Context, subjectID string) ([]models.ScheduleSlot, error) {
	var out []models.ScheduleSlot
	for _, slot := range f.slots {
		if slot.SubjectID == subjectID && slot.State == models.StateActive {
			out = append(out, *slot)
		}
	}
	return out, nil
}

func (f *fakeScheduleRepo) FindByID(ctx context.Context, id string) (*models.ScheduleSlot, error) {
	slot, ok := f.slots[id]
	if !ok || slot.State != models.StateActive {
		return nil, sql.ErrNoRows
	}
	copied := *slot
	return &copied, nil
}

func (f *fakeScheduleRepo) OwningCareer(ctx context.Context, slotID string) (string, models.LifecycleState, error) {
	slot, ok := f.slots[slotID]
	if !ok || slot.State != models.StateActive {
		return "", "", sql.ErrNoRows
	}
	careerID, ok := f.subjectCareers[slot.SubjectID]
	if !ok {
		return "", "", sql.ErrNoRows
	}
	return careerID, models.StateActive, nil
}

func (f *fakeScheduleRepo) Create(ctx context.Context, slot *models.ScheduleSlot) error {
	if f.slots == nil {
		f.slots = map[string]*models.ScheduleSlot{}
	}
	f.slots[slot.ID] = slot
	return nil
}

func (f *fakeScheduleRepo) Update(ctx context.Context, slot *models.ScheduleSlot) error {
	f.slots[slot.ID] = slot
	return nil
}

func (f *fakeScheduleRepo) SoftDelete(ctx context.Context, id string, actorID string) error {
	slot, ok := f.slots[id]
	if !ok || slot.State != models.StateActive {
		return sql.ErrNoRows
	}
	slot.State = models.StateInactive
	f.deleted = append(f.deleted, id)
	return nil
}

func seededScheduleSubjects() *fakeSubjectRepo {
	return &fakeSubjectRepo{subjects: map[string]*models.Subject{
		algebraSubjectID: {ID: algebraSubjectID, CareerID: "c1", Name: "Algebra", Year: 1, State: models.StateActive},
		anatomySubjectID: {ID: anatomySubjectID, CareerID: "c2", Name: "Anatomy", Year: 1, State: models.StateActive},
		retiredSubjectID: {ID: retiredSubjectID, CareerID: "c1", Name: "Retired", Year: 2, State: models.StateInactive},
	}}
}

func seededScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{
		slots: map[string]*models.ScheduleSlot{
			"slot-1": {ID: "slot-1", SubjectID: algebraSubjectID, Weekday: models.Monday, StartTime: "10:00", EndTime: "12:00", State: models.StateActive},
			"slot-2": {ID: "slot-2", SubjectID: anatomySubjectID, Weekday: models.Friday, StartTime: "08:00", EndTime: "09:30", State: models.StateActive},
		},
		subjectCareers: map[string]string{
			algebraSubjectID: "c1",
			anatomySubjectID: "c2",
			retiredSubjectID: "c1",
		},
	}
}

func newScheduleService(repo *fakeScheduleRepo) *ScheduleService {
	return NewScheduleService(repo, seededScheduleSubjects(), authz.NewGuard(), nil, nil)
}

func TestScheduleCreate(t *testing.T) {
	repo := seededScheduleRepo()
	svc := newScheduleService(repo)

	slot, err := svc.Create(context.Background(), coordPrincipal, authz.ScopeOf("c1"), models.CreateScheduleSlotRequest{
		SubjectID: algebraSubjectID, Weekday: models.Wednesday, StartTime: "14:00", EndTime: "16:00",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, slot.ID)
	assert.Equal(t, models.StateActive, slot.State)
	assert.Contains(t, repo.slots, slot.ID)
}

func TestScheduleCreateUnknownWeekday(t *testing.T) {
	svc := newScheduleService(seededScheduleRepo())

	_, err := svc.Create(context.Background(), rectorPrincipal, authz.UnrestrictedScope(), models.CreateScheduleSlotRequest{
		SubjectID: algebraSubjectID, Weekday: "FUNDAY", StartTime: "14:00", EndTime: "16:00",
	})
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrValidation.Code))
	assert.Contains(t, err.Error(), "unknown weekday")
}

func TestScheduleCreateTimeValidation(t *testing.T) {
	svc := newScheduleService(seededScheduleRepo())

	tests := map[string]struct {
		start, end string
		message    string
	}{
		"malformed start":  {start: "9am", end: "11:00", message: "start_time must use the HH:MM 24-hour form"},
		"malformed end":    {start: "09:00", end: "25:61", message: "end_time must use the HH:MM 24-hour form"},
		"end before start": {start: "16:00", end: "14:00", message: "start_time must be before end_time"},
		"zero length":      {start: "10:00", end: "10:00", message: "start_time must be before end_time"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), rectorPrincipal, authz.UnrestrictedScope(), models.CreateScheduleSlotRequest{
				SubjectID: algebraSubjectID, Weekday: models.Monday, StartTime: tc.start, EndTime: tc.end,
			})
			require.Error(t, err)
			assert.True(t, appErrors.IsCode(err, appErrors.ErrValidation.Code))
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestScheduleCreateOutOfScope(t *testing.T) {
	svc := newScheduleService(seededScheduleRepo())

	_, err := svc.Create(context.Background(), coordPrincipal, authz.ScopeOf("c1"), models.CreateScheduleSlotRequest{
		SubjectID: anatomySubjectID, Weekday: models.Monday, StartTime: "08:00", EndTime: "10:00",
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ReasonOutOfScope, appErr.Reason)
}

func TestScheduleCreateInactiveSubject(t *testing.T) {
	svc := newScheduleService(seededScheduleRepo())

	_, err := svc.Create(context.Background(), rectorPrincipal, authz.UnrestrictedScope(), models.CreateScheduleSlotRequest{
		SubjectID: retiredSubjectID, Weekday: models.Monday, StartTime: "08:00", EndTime: "10:00",
	})
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrNotFoundOrInactive.Code))
}

func TestScheduleUpdateRevalidatesMergedRange(t *testing.T) {
	svc := newScheduleService(seededScheduleRepo())

	// slot-1 runs 10:00-12:00; moving the end before the untouched start must fail.
	badEnd := "09:00"
	_, err := svc.Update(context.Background(), rectorPrincipal, authz.UnrestrictedScope(), "slot-1", models.UpdateScheduleSlotRequest{EndTime: &badEnd})
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrValidation.Code))
	assert.Contains(t, err.Error(), "start_time must be before end_time")
}

func TestScheduleUpdate(t *testing.T) {
	repo := seededScheduleRepo()
	svc := newScheduleService(repo)

	weekday := models.Thursday
	end := "13:00"
	slot, err := svc.Update(context.Background(), coordPrincipal, authz.ScopeOf("c1"), "slot-1", models.UpdateScheduleSlotRequest{Weekday: &weekday, EndTime: &end})
	require.NoError(t, err)
	assert.Equal(t, models.Thursday, slot.Weekday)
	assert.Equal(t, "10:00", slot.StartTime)
	assert.Equal(t, "13:00", slot.EndTime)
	assert.Equal(t, models.Thursday, repo.slots["slot-1"].Weekday)
}

func TestScheduleUpdateUnknownWeekday(t *testing.T) {
	svc := newScheduleService(seededScheduleRepo())

	weekday := models.Weekday("SOMEDAY")
	_, err := svc.Update(context.Background(), rectorPrincipal, authz.UnrestrictedScope(), "slot-1", models.UpdateScheduleSlotRequest{Weekday: &weekday})
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrValidation.Code))
	assert.Contains(t, err.Error(), "unknown weekday")
}

func TestScheduleGetOutOfScope(t *testing.T) {
	svc := newScheduleService(seededScheduleRepo())

	_, err := svc.Get(context.Background(), coordPrincipal, authz.ScopeOf("c1"), "slot-2")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ReasonOutOfScope, appErr.Reason)
}

func TestScheduleListBySubject(t *testing.T) {
	svc := newScheduleService(seededScheduleRepo())

	slots, err := svc.ListBySubject(context.Background(), coordPrincipal, authz.ScopeOf("c1"), algebraSubjectID)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "slot-1", slots[0].ID)
}

func TestScheduleListBySubjectInactiveSubject(t *testing.T) {
	svc := newScheduleService(seededScheduleRepo())

	_, err := svc.ListBySubject(context.Background(), rectorPrincipal, authz.UnrestrictedScope(), retiredSubjectID)
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrNotFoundOrInactive.Code))
}

func TestScheduleDeleteScoped(t *testing.T) {
	repo := seededScheduleRepo()
	svc := newScheduleService(repo)

	err := svc.Delete(context.Background(), coordPrincipal, authz.ScopeOf("c1"), "slot-2")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ReasonOutOfScope, appErr.Reason)

	require.NoError(t, svc.Delete(context.Background(), coordPrincipal, authz.ScopeOf("c1"), "slot-1"))
	assert.Equal(t, []string{"slot-1"}, repo.deleted)
}

func TestScheduleDeleteIdempotent(t *testing.T) {
	svc := newScheduleService(seededScheduleRepo())

	require.NoError(t, svc.Delete(context.Background(), rectorPrincipal, authz.UnrestrictedScope(), "slot-1"))

	err := svc.Delete(context.Background(), rectorPrincipal, authz.UnrestrictedScope(), "slot-1")
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrNotFoundOrInactive.Code))
}
