package service

import (
	"bytes"
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openacademia/catalog-api/internal/authz"
	"github.com/openacademia/catalog-api/internal/models"
	appErrors "github.com/openacademia/catalog-api/pkg/errors"
	"github.com/openacademia/catalog-api/pkg/export"
)

type fakeCurriculumRepo struct {
	careers  map[string]*models.Career
	subjects []models.Subject
	edges    []models.Prerequisite
}

func (f *fakeCurriculumRepo) Career(ctx context.Context, id string) (*models.Career, error) {
	if c, ok := f.careers[id]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeCurriculumRepo) Subjects(ctx context.Context, careerID string) ([]models.Subject, error) {
	return f.subjects, nil
}

func (f *fakeCurriculumRepo) Prerequisites(ctx context.Context, careerID string) ([]models.Prerequisite, error) {
	return f.edges, nil
}

func strPtr(s string) *string { return &s }

func seededCurriculumRepo() *fakeCurriculumRepo {
	return &fakeCurriculumRepo{
		careers: map[string]*models.Career{
			"c1": {ID: "c1", Name: "Ingeniería en Sistemas", DurationYears: 3, State: models.StateActive},
			"c2": {ID: "c2", Name: "Suspended Programme", DurationYears: 4, State: models.StateSuspended},
		},
		subjects: []models.Subject{
			{ID: "s1", CareerID: "c1", Name: "Algebra", Year: 1, WeeklyHours: strPtr("4"), AnnualHours: strPtr("128"), State: models.StateActive},
			{ID: "s2", CareerID: "c1", Name: "Calculus", Year: 2, WeeklyHours: strPtr("6"), State: models.StateActive},
			{ID: "s3", CareerID: "c1", Name: "Statistics", Year: 2, State: models.StateActive},
		},
		edges: []models.Prerequisite{
			{ID: "e1", SubjectID: "s2", RequiredID: "s1", RequiredName: strPtr("Algebra"), Kind: models.PrereqToAttend, RequiredStatus: models.PrereqApproved, State: models.StateActive},
			{ID: "e2", SubjectID: "s3", RequiredID: "s1", RequiredName: strPtr("Algebra"), Kind: models.PrereqToAttend, RequiredStatus: models.PrereqRegular, State: models.StateActive},
			{ID: "e3", SubjectID: "s3", RequiredID: "s2", RequiredName: strPtr("Calculus"), Kind: models.PrereqToSitExam, RequiredStatus: models.PrereqApproved, State: models.StateActive},
		},
	}
}

func newCurriculumService(repo *fakeCurriculumRepo) *CurriculumService {
	return NewCurriculumService(repo, export.NewCurriculumPDF(), export.NewCSVExporter(), authz.NewGuard(), nil, nil)
}

func TestCurriculumGeneratePDF(t *testing.T) {
	svc := newCurriculumService(seededCurriculumRepo())

	doc, err := svc.Generate(context.Background(), rectorPrincipal, authz.UnrestrictedScope(), "c1", "")
	require.NoError(t, err)
	assert.Equal(t, "IngenieraenSistemas.pdf", doc.Filename)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF")))
}

func TestCurriculumGenerateCSV(t *testing.T) {
	svc := newCurriculumService(seededCurriculumRepo())

	doc, err := svc.Generate(context.Background(), coordPrincipal, authz.ScopeOf("c1"), "c1", FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "IngenieraenSistemas.csv", doc.Filename)
	assert.Equal(t, "text/csv", doc.ContentType)

	lines := strings.Split(strings.TrimSpace(string(doc.Data)), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "year,order,subject"))
	assert.Contains(t, lines[2], "Calculus")
	assert.Contains(t, lines[2], "Algebra")
}

func TestCurriculumGenerateUnknownFormat(t *testing.T) {
	svc := newCurriculumService(seededCurriculumRepo())

	_, err := svc.Generate(context.Background(), rectorPrincipal, authz.UnrestrictedScope(), "c1", "xlsx")
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrValidation.Code))
	assert.Contains(t, err.Error(), "format must be pdf or csv")
}

func TestCurriculumGenerateNonActiveCareer(t *testing.T) {
	svc := newCurriculumService(seededCurriculumRepo())

	// The rector may export a suspended career; a coordinator may not even
	// when it sits inside their scope.
	_, err := svc.Generate(context.Background(), rectorPrincipal, authz.UnrestrictedScope(), "c2", FormatPDF)
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), coordPrincipal, authz.ScopeOf("c2"), "c2", FormatPDF)
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrNotFoundOrInactive.Code))
}

func TestCurriculumGenerateOutOfScope(t *testing.T) {
	svc := newCurriculumService(seededCurriculumRepo())

	_, err := svc.Generate(context.Background(), coordPrincipal, authz.ScopeOf("c2"), "c1", FormatPDF)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ReasonOutOfScope, appErr.Reason)
}

func TestCurriculumGenerateUnknownCareer(t *testing.T) {
	svc := newCurriculumService(seededCurriculumRepo())

	_, err := svc.Generate(context.Background(), rectorPrincipal, authz.UnrestrictedScope(), "missing", FormatPDF)
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrNotFoundOrInactive.Code))
}

func TestCurriculumAssembleBucketsPrerequisites(t *testing.T) {
	svc := newCurriculumService(seededCurriculumRepo())

	curr, err := svc.assemble(context.Background(), &models.Career{ID: "c1", Name: "Ingeniería en Sistemas", DurationYears: 3})
	require.NoError(t, err)
	require.Len(t, curr.Years, 3)
	assert.Equal(t, 1, curr.Years[0].Year)
	assert.Empty(t, curr.Years[2].Rows)

	secondYear := curr.Years[1]
	require.Len(t, secondYear.Rows, 2)

	calculus := secondYear.Rows[0]
	assert.Equal(t, "Calculus", calculus.Name)
	assert.Equal(t, 1, calculus.Order)
	assert.Equal(t, []string{"Algebra"}, calculus.AttendApproved)
	assert.Empty(t, calculus.AttendRegular)
	assert.Equal(t, "6", calculus.WeeklyHours)

	statistics := secondYear.Rows[1]
	assert.Equal(t, 2, statistics.Order)
	assert.Equal(t, []string{"Algebra"}, statistics.AttendRegular)
	assert.Equal(t, []string{"Calculus"}, statistics.ExamApproved)
}

func TestCurriculumAssemblePadsToDuration(t *testing.T) {
	repo := seededCurriculumRepo()
	repo.subjects = append(repo.subjects, models.Subject{ID: "s4", CareerID: "c1", Name: "Elective", Year: 5, State: models.StateActive})
	svc := newCurriculumService(repo)

	// A subject beyond the declared duration stretches the year axis.
	curr, err := svc.assemble(context.Background(), &models.Career{ID: "c1", Name: "Ingeniería en Sistemas", DurationYears: 3})
	require.NoError(t, err)
	require.Len(t, curr.Years, 5)
	assert.Equal(t, "Elective", curr.Years[4].Rows[0].Name)
}
