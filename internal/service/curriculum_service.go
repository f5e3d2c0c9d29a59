package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/openacademia/catalog-api/internal/authz"
	"github.com/openacademia/catalog-api/internal/models"
	appErrors "github.com/openacademia/catalog-api/pkg/errors"
	"github.com/openacademia/catalog-api/pkg/export"
)

type curriculumRepository interface {
	Career(ctx context.Context, id string) (*models.Career, error)
	Subjects(ctx context.Context, careerID string) ([]models.Subject, error)
	Prerequisites(ctx context.Context, careerID string) ([]models.Prerequisite, error)
}

// Document is a rendered curriculum ready for download.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Supported curriculum output formats.
const (
	FormatPDF = "pdf"
	FormatCSV = "csv"
)

// CurriculumService assembles a career's curriculum and renders it into a
// downloadable document.
type CurriculumService struct {
	repo    curriculumRepository
	pdf     *export.CurriculumPDF
	csv     *export.CSVExporter
	guard   authz.Guard
	metrics *MetricsService
	logger  *zap.Logger
}

// NewCurriculumService constructs a CurriculumService.
func NewCurriculumService(repo curriculumRepository, pdf *export.CurriculumPDF, csv *export.CSVExporter, guard authz.Guard, metrics *MetricsService, logger *zap.Logger) *CurriculumService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CurriculumService{repo: repo, pdf: pdf, csv: csv, guard: guard, metrics: metrics, logger: logger}
}

// Generate renders the curriculum of a career in the requested format.
// Only active subjects and active edges appear; a coordinator can export
// active in-scope careers only, while the rector may export any state.
func (s *CurriculumService) Generate(ctx context.Context, p authz.Principal, scope authz.Scope, careerID, format string) (*Document, error) {
	if format == "" {
		format = FormatPDF
	}
	if format != FormatPDF && format != FormatCSV {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be pdf or csv")
	}

	career, err := s.repo.Career(ctx, careerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFoundOrInactive, "career not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load career")
	}
	if err := s.guard.CanAccessCareer(p, scope, career.ID); err != nil {
		return nil, err
	}
	if p.Role != models.RoleRector && career.State != models.StateActive {
		return nil, appErrors.Clone(appErrors.ErrNotFoundOrInactive, "career is not active")
	}

	curr, err := s.assemble(ctx, career)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	doc, err := s.render(curr, format)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render curriculum")
	}
	if s.metrics != nil {
		s.metrics.ObserveRender(format, time.Since(start))
	}

	s.logger.Info("curriculum rendered",
		zap.String("career_id", careerID),
		zap.String("format", format),
		zap.Int("bytes", len(doc.Data)))
	return doc, nil
}

func (s *CurriculumService) assemble(ctx context.Context, career *models.Career) (models.Curriculum, error) {
	subjects, err := s.repo.Subjects(ctx, career.ID)
	if err != nil {
		return models.Curriculum{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
	}
	edges, err := s.repo.Prerequisites(ctx, career.ID)
	if err != nil {
		return models.Curriculum{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load prerequisites")
	}

	type prereqLists struct {
		attendApproved []string
		attendRegular  []string
		examApproved   []string
	}
	bySubject := make(map[string]*prereqLists)
	for _, edge := range edges {
		lists, ok := bySubject[edge.SubjectID]
		if !ok {
			lists = &prereqLists{}
			bySubject[edge.SubjectID] = lists
		}
		name := edge.RequiredID
		if edge.RequiredName != nil {
			name = *edge.RequiredName
		}
		switch {
		case edge.Kind == models.PrereqToAttend && edge.RequiredStatus == models.PrereqApproved:
			lists.attendApproved = append(lists.attendApproved, name)
		case edge.Kind == models.PrereqToAttend && edge.RequiredStatus == models.PrereqRegular:
			lists.attendRegular = append(lists.attendRegular, name)
		default:
			lists.examApproved = append(lists.examApproved, name)
		}
	}

	rowsByYear := make(map[int][]models.CurriculumRow)
	for _, subject := range subjects {
		row := models.CurriculumRow{
			Name:           subject.Name,
			FormationField: subject.FormationField,
			Format:         subject.Format,
			Modality:       subject.Modality,
			Accreditation:  subject.Accreditation,
		}
		if subject.WeeklyHours != nil {
			row.WeeklyHours = *subject.WeeklyHours
		}
		if subject.AnnualHours != nil {
			row.AnnualHours = *subject.AnnualHours
		}
		if lists, ok := bySubject[subject.ID]; ok {
			row.AttendApproved = lists.attendApproved
			row.AttendRegular = lists.attendRegular
			row.ExamApproved = lists.examApproved
		}
		row.Order = len(rowsByYear[subject.Year]) + 1
		rowsByYear[subject.Year] = append(rowsByYear[subject.Year], row)
	}

	curr := models.Curriculum{CareerName: career.Name}
	maxYear := career.DurationYears
	for year := range rowsByYear {
		if year > maxYear {
			maxYear = year
		}
	}
	for year := 1; year <= maxYear; year++ {
		curr.Years = append(curr.Years, models.CurriculumYear{Year: year, Rows: rowsByYear[year]})
	}
	return curr, nil
}

func (s *CurriculumService) render(curr models.Curriculum, format string) (*Document, error) {
	stem := export.DocumentFilename(curr.CareerName)
	switch format {
	case FormatCSV:
		data, err := s.csv.Render(export.CurriculumDataset(curr))
		if err != nil {
			return nil, err
		}
		return &Document{Filename: stem + ".csv", ContentType: "text/csv", Data: data}, nil
	default:
		data, err := s.pdf.Render(curr)
		if err != nil {
			return nil, err
		}
		return &Document{Filename: stem + ".pdf", ContentType: "application/pdf", Data: data}, nil
	}
}
