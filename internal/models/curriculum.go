package models

// CurriculumRow is one subject row of the curriculum report with its
// prerequisite lists already resolved to subject names.
type CurriculumRow struct {
	Order          int
	Name           string
	FormationField string
	Format         string
	Modality       string
	WeeklyHours    string
	AnnualHours    string
	Accreditation  string

	// Resolved prerequisite names per category.
	AttendApproved []string
	AttendRegular  []string
	ExamApproved   []string
}

// CurriculumYear groups the subject rows of one year of study.
type CurriculumYear struct {
	Year int
	Rows []CurriculumRow
}

// Curriculum is the fully resolved input to the layout engine.
type Curriculum struct {
	CareerName string
	Years      []CurriculumYear
}
