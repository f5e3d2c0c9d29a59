package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/openacademia/catalog-api/internal/models"
)

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// CSVExporter renders Dataset records into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the dataset.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range data.Rows {
		record := make([]string, len(data.Headers))
		for i, header := range data.Headers {
			record[i] = row[header]
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// CurriculumDataset flattens the curriculum into one record per subject,
// with the prerequisite lists comma-joined. Year blocks become a plain
// column so the tabular shape stays rectangular.
func CurriculumDataset(curr models.Curriculum) Dataset {
	headers := []string{
		"year", "order", "subject", "formation_field", "format", "modality",
		"weekly_hours", "annual_hours",
		"attend_approved", "attend_regular", "exam_approved", "accreditation",
	}
	data := Dataset{Headers: headers}
	for _, year := range curr.Years {
		for _, row := range year.Rows {
			data.Rows = append(data.Rows, map[string]string{
				"year":            strconv.Itoa(year.Year),
				"order":           strconv.Itoa(row.Order),
				"subject":         row.Name,
				"formation_field": row.FormationField,
				"format":          row.Format,
				"modality":        row.Modality,
				"weekly_hours":    row.WeeklyHours,
				"annual_hours":    row.AnnualHours,
				"attend_approved": joinList(row.AttendApproved),
				"attend_regular":  joinList(row.AttendRegular),
				"exam_approved":   joinList(row.ExamApproved),
				"accreditation":   row.Accreditation,
			})
		}
	}
	return data
}
