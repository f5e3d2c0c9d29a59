package export

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/openacademia/catalog-api/internal/models"
)

// Fixed eleven-column grid. Widths are in millimetres and sum to the
// usable landscape A4 width; the total is treated as a hard content-width
// constant.
var curriculumColumns = []struct {
	title string
	width float64
	align string
}{
	{"No.", 10, "C"},
	{"Subject", 48, "L"},
	{"Formation field", 30, "L"},
	{"Format", 22, "L"},
	{"Modality", 20, "L"},
	{"Wk hrs", 14, "C"},
	{"Yr hrs", 14, "C"},
	{"To attend: approved", 38, "L"},
	{"To attend: regular", 38, "L"},
	{"To sit exam: approved", 29, "L"},
	{"Accred.", 14, "C"},
}

const (
	marginLeft   = 10.0
	marginTop    = 12.0
	marginBottom = 12.0
	pageHeight   = 210.0 // A4 landscape

	lineHeight    = 4.0
	cellPadX      = 1.2
	cellPadY      = 1.4
	minRowHeight  = 7.0
	yearHeaderH   = 8.0
	totalsRowH    = 7.0
	blockTrailing = 4.0

	bodyFontSize   = 8.0
	headerFontSize = 8.0
	titleFontSize  = 14.0
)

// CurriculumPDF renders the yearly subject tables of a career into a
// paginated grid document.
type CurriculumPDF struct{}

// NewCurriculumPDF constructs the renderer.
func NewCurriculumPDF() *CurriculumPDF {
	return &CurriculumPDF{}
}

func totalGridWidth() float64 {
	var w float64
	for _, col := range curriculumColumns {
		w += col.width
	}
	return w
}

// Render produces the finished paginated document for the curriculum.
func (e *CurriculumPDF) Render(curr models.Curriculum) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginLeft)
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", titleFontSize)
	pdf.CellFormat(0, 10, strings.ToUpper(curr.CareerName), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	grandWeekly := 0.0
	grandAnnual := 0.0

	for _, year := range curr.Years {
		heights := make([]float64, len(year.Rows))
		for i, row := range year.Rows {
			heights[i] = e.measureRow(pdf, row)
		}
		headerH := e.measureColumnHeader(pdf)

		blockH := yearHeaderH + headerH + totalsRowH + blockTrailing
		for _, h := range heights {
			blockH += h
		}

		// A year block is never split: when it does not fit in the
		// remaining space, the whole block moves to a fresh page.
		if pdf.GetY()+blockH > pageHeight-marginBottom {
			pdf.AddPage()
		}

		e.drawYearHeader(pdf, year.Year)
		e.drawColumnHeader(pdf, headerH)

		weekly := 0.0
		annual := 0.0
		for i, row := range year.Rows {
			e.drawRow(pdf, row, heights[i])
			weekly += coerceHours(row.WeeklyHours)
			annual += coerceHours(row.AnnualHours)
		}

		e.drawTotalsRow(pdf, fmt.Sprintf("Year %d total", year.Year), weekly, annual)
		pdf.Ln(blockTrailing)

		grandWeekly += weekly
		grandAnnual += annual
	}

	if pdf.GetY()+totalsRowH > pageHeight-marginBottom {
		pdf.AddPage()
	}
	e.drawTotalsRow(pdf, "Career total", grandWeekly, grandAnnual)

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render curriculum pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// measureRow computes the dynamic row height: the wrapped height of the
// subject name and of each prerequisite list within their column widths,
// padded and floored at the minimum row height.
func (e *CurriculumPDF) measureRow(pdf *gofpdf.Fpdf, row models.CurriculumRow) float64 {
	pdf.SetFont("Arial", "", bodyFontSize)

	maxLines := 1
	wrapped := []struct {
		text string
		col  int
	}{
		{row.Name, 1},
		{joinList(row.AttendApproved), 7},
		{joinList(row.AttendRegular), 8},
		{joinList(row.ExamApproved), 9},
	}
	for _, w := range wrapped {
		width := curriculumColumns[w.col].width - 2*cellPadX
		lines := pdf.SplitText(w.text, width)
		if len(lines) > maxLines {
			maxLines = len(lines)
		}
	}

	h := float64(maxLines)*lineHeight + 2*cellPadY
	if h < minRowHeight {
		h = minRowHeight
	}
	return h
}

func (e *CurriculumPDF) measureColumnHeader(pdf *gofpdf.Fpdf) float64 {
	pdf.SetFont("Arial", "B", headerFontSize)
	maxLines := 1
	for _, col := range curriculumColumns {
		lines := pdf.SplitText(col.title, col.width-2*cellPadX)
		if len(lines) > maxLines {
			maxLines = len(lines)
		}
	}
	h := float64(maxLines)*lineHeight + 2*cellPadY
	if h < minRowHeight {
		h = minRowHeight
	}
	return h
}

// drawYearHeader renders the full-width merged cell with the year label.
func (e *CurriculumPDF) drawYearHeader(pdf *gofpdf.Fpdf, year int) {
	pdf.SetFont("Arial", "B", headerFontSize+1)
	pdf.SetFillColor(225, 225, 225)
	pdf.CellFormat(totalGridWidth(), yearHeaderH, fmt.Sprintf("YEAR %d", year), "1", 1, "C", true, 0, "")
}

func (e *CurriculumPDF) drawColumnHeader(pdf *gofpdf.Fpdf, height float64) {
	pdf.SetFont("Arial", "B", headerFontSize)
	pdf.SetFillColor(240, 240, 240)
	x := marginLeft
	y := pdf.GetY()
	for _, col := range curriculumColumns {
		pdf.Rect(x, y, col.width, height, "DF")
		e.placeText(pdf, col.title, x, y, col.width, height, "C")
		x += col.width
	}
	pdf.SetXY(marginLeft, y+height)
}

func (e *CurriculumPDF) drawRow(pdf *gofpdf.Fpdf, row models.CurriculumRow, height float64) {
	pdf.SetFont("Arial", "", bodyFontSize)
	cells := []string{
		strconv.Itoa(row.Order),
		row.Name,
		row.FormationField,
		row.Format,
		row.Modality,
		displayHours(row.WeeklyHours),
		displayHours(row.AnnualHours),
		joinList(row.AttendApproved),
		joinList(row.AttendRegular),
		joinList(row.ExamApproved),
		row.Accreditation,
	}

	x := marginLeft
	y := pdf.GetY()
	for i, col := range curriculumColumns {
		pdf.Rect(x, y, col.width, height, "D")
		e.placeText(pdf, cells[i], x, y, col.width, height, col.align)
		x += col.width
	}
	pdf.SetXY(marginLeft, y+height)
}

// drawTotalsRow renders a merged label cell, the two computed hour sums
// and a merged trailing cell. Its height does not depend on the subject
// rows above it.
func (e *CurriculumPDF) drawTotalsRow(pdf *gofpdf.Fpdf, label string, weekly, annual float64) {
	pdf.SetFont("Arial", "B", bodyFontSize)
	pdf.SetFillColor(235, 235, 235)

	labelW := 0.0
	for _, col := range curriculumColumns[:5] {
		labelW += col.width
	}
	tailW := 0.0
	for _, col := range curriculumColumns[7:] {
		tailW += col.width
	}

	pdf.CellFormat(labelW, totalsRowH, label, "1", 0, "R", true, 0, "")
	pdf.CellFormat(curriculumColumns[5].width, totalsRowH, formatHours(weekly), "1", 0, "C", true, 0, "")
	pdf.CellFormat(curriculumColumns[6].width, totalsRowH, formatHours(annual), "1", 0, "C", true, 0, "")
	pdf.CellFormat(tailW, totalsRowH, "", "1", 1, "C", true, 0, "")
}

func (e *CurriculumPDF) placeText(pdf *gofpdf.Fpdf, text string, x, y, w, h float64, align string) {
	if text == "" {
		return
	}
	pdf.SetXY(x+cellPadX, y+cellPadY)
	pdf.MultiCell(w-2*cellPadX, lineHeight, text, "", align, false)
}

func joinList(items []string) string {
	return strings.Join(items, ", ")
}

// coerceHours treats null or non-numeric hour figures as zero for
// summation only; the per-subject cells keep the literal value.
func coerceHours(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return v
}

func displayHours(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "-"
	}
	return raw
}

func formatHours(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// DocumentFilename derives the download filename stem from the career
// name, stripping whitespace and every non-alphanumeric character.
func DocumentFilename(careerName string) string {
	var b strings.Builder
	for _, r := range careerName {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "curriculum"
	}
	return b.String()
}
