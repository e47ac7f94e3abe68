package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Pool names for roster teachers. The homeroom pool carries H and K role
// teachers; the foreign pool carries F teachers only.
const (
	PoolHomeroom = "homeroom"
	PoolForeign  = "foreign"
)

// RosterTeacher is a stored pool member. Position fixes the pool scan order
// used by the generator, so it must be stable across reads.
type RosterTeacher struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Role      string    `db:"role" json:"role"`
	Pool      string    `db:"pool" json:"pool"`
	Position  int       `db:"position" json:"position"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// RosterConstraint is a stored availability record for one teacher.
// Unavailable holds a JSON array of "DAY|period" / "DAY|WT" tokens.
type RosterConstraint struct {
	ID               string         `db:"id" json:"id"`
	TeacherName      string         `db:"teacher_name" json:"teacher_name"`
	HomeroomDisabled bool           `db:"homeroom_disabled" json:"homeroom_disabled"`
	MaxHomerooms     *int           `db:"max_homerooms" json:"max_homerooms,omitempty"`
	Unavailable      types.JSONText `db:"unavailable" json:"unavailable"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

// FixedHomeroom pins a teacher to a class's homeroom duty. Class IDs are
// regenerated from round class counts on every run, so pins silently realias
// when counts are edited between runs; the stored counts let callers detect
// that.
type FixedHomeroom struct {
	ID          string    `db:"id" json:"id"`
	ClassID     string    `db:"class_id" json:"class_id"`
	TeacherName string    `db:"teacher_name" json:"teacher_name"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
