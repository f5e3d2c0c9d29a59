package models

import "time"

// Weekday enumerates schedule days with a fixed Monday-first ordering.
type Weekday string

const (
	Monday    Weekday = "MONDAY"
	Tuesday   Weekday = "TUESDAY"
	Wednesday Weekday = "WEDNESDAY"
	Thursday  Weekday = "THURSDAY"
	Friday    Weekday = "FRIDAY"
	Saturday  Weekday = "SATURDAY"
	Sunday    Weekday = "SUNDAY"
)

var weekdayOrder = map[Weekday]int{
	Monday:    0,
	Tuesday:   1,
	Wednesday: 2,
	Thursday:  3,
	Friday:    4,
	Saturday:  5,
	Sunday:    6,
}

// Order returns the Monday-first sort index, or -1 for unknown values.
func (w Weekday) Order() int {
	if idx, ok := weekdayOrder[w]; ok {
		return idx
	}
	return -1
}

// Valid reports whether the weekday is a known value.
func (w Weekday) Valid() bool {
	return w.Order() >= 0
}

// CreateScheduleSlotRequest registers a weekly time block for a subject.
// Times use the 24-hour HH:MM form.
type CreateScheduleSlotRequest struct {
	SubjectID string  `json:"subject_id" validate:"required,uuid"`
	Weekday   Weekday `json:"weekday" validate:"required"`
	StartTime string  `json:"start_time" validate:"required"`
	EndTime   string  `json:"end_time" validate:"required"`
}

// UpdateScheduleSlotRequest partially updates a schedule slot.
type UpdateScheduleSlotRequest struct {
	Weekday   *Weekday `json:"weekday"`
	StartTime *string  `json:"start_time"`
	EndTime   *string  `json:"end_time"`
}

// ScheduleSlot is a recurring weekly time block owned by a subject.
// Ownership is inherited transitively through subject and career.
type ScheduleSlot struct {
	ID            string         `db:"id" json:"id"`
	SubjectID     string         `db:"subject_id" json:"subject_id"`
	Weekday       Weekday        `db:"weekday" json:"weekday"`
	StartTime     string         `db:"start_time" json:"start_time"`
	EndTime       string         `db:"end_time" json:"end_time"`
	State         LifecycleState `db:"state" json:"state"`
	DeactivatedAt *time.Time     `db:"deactivated_at" json:"deactivated_at,omitempty"`
	DeactivatedBy *string        `db:"deactivated_by" json:"deactivated_by,omitempty"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}
