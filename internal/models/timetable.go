package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// TimetableStatus is the persistence lifecycle of a generated timetable.
type TimetableStatus string

const (
	TimetableStatusDraft     TimetableStatus = "DRAFT"
	TimetableStatusPublished TimetableStatus = "PUBLISHED"
)

// Timetable is a stored generation result. Version increments per save so
// drafts can be compared and rolled back.
type Timetable struct {
	ID        string          `db:"id" json:"id"`
	Label     string          `db:"label" json:"label"`
	Version   int             `db:"version" json:"version"`
	Status    TimetableStatus `db:"status" json:"status"`
	Meta      types.JSONText  `db:"meta" json:"meta"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// TimetableSlot is one flattened teaching or word-test event of a stored
// timetable.
type TimetableSlot struct {
	ID          string    `db:"id" json:"id"`
	TimetableID string    `db:"timetable_id" json:"timetable_id"`
	DayGroup    string    `db:"day_group" json:"day_group"`
	Day         string    `db:"day" json:"day"`
	Period      int       `db:"period" json:"period"`
	ClassID     string    `db:"class_id" json:"class_id"`
	TeacherName string    `db:"teacher_name" json:"teacher_name"`
	Role        string    `db:"role" json:"role"`
	StartTime   string    `db:"start_time" json:"start_time"`
	IsExam      bool      `db:"is_exam" json:"is_exam"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
