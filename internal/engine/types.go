// Package engine fills the academy's weekly timetable. Given the two teacher
// pools, per-teacher constraints, fixed homeroom pins and per-round class
// counts, it deterministically assigns a teacher-role pair to every scheduled
// (day, period, class) slot across the three-day (Mon/Wed/Fri) and two-day
// (Tue/Thu) patterns, attaches word-test events, and validates the outcome.
//
// The engine is a pure function of its input: it performs no I/O, keeps no
// state between calls, and produces bit-identical results for identical input.
// It never fails on merely unsatisfiable input; slots that cannot be staffed
// are left empty and surfaced through validation warnings.
package engine

// Role identifies the teaching duty filled in a period.
type Role string

const (
	RoleHomeroom Role = "H"
	RoleKorean   Role = "K"
	RoleForeign  Role = "F"
)

// DayGroup identifies one of the two independent weekly patterns.
type DayGroup string

const (
	GroupThreeDay DayGroup = "MWF"
	GroupTwoDay   DayGroup = "TT"
)

// Weekday is a schedulable day.
type Weekday string

const (
	Monday    Weekday = "MON"
	Tuesday   Weekday = "TUE"
	Wednesday Weekday = "WED"
	Thursday  Weekday = "THU"
	Friday    Weekday = "FRI"
)

var groupWeekdays = map[DayGroup][]Weekday{
	GroupThreeDay: {Monday, Wednesday, Friday},
	GroupTwoDay:   {Tuesday, Thursday},
}

// Weekdays returns the fixed generation order of days for the group.
func (g DayGroup) Weekdays() []Weekday {
	return groupWeekdays[g]
}

// Teacher is a pool member. Display names are unique across both pools and
// act as teacher identity throughout the engine.
type Teacher struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// TeacherConstraint restricts when and how a teacher may be used.
// Unavailable tokens have the form "MON|3" (day and period) or "MON|WT"
// (blocked from word tests on that day).
type TeacherConstraint struct {
	TeacherName      string   `json:"teacherName"`
	HomeroomDisabled bool     `json:"homeroomDisabled"`
	MaxHomerooms     *int     `json:"maxHomerooms,omitempty"`
	Unavailable      []string `json:"unavailable,omitempty"`
}

// Options carries the global generation switches and per-round class counts.
// Class counts are indexed by round (index 0 = round 1); rounds beyond the
// slice length, or with negative counts, run zero classes.
type Options struct {
	IncludeHInK         bool  `json:"includeHInK"`
	PreferOtherHForK    bool  `json:"preferOtherHForK"`
	DisallowOwnHAsK     bool  `json:"disallowOwnHAsK"`
	RotateForeign       bool  `json:"rotateForeign"`
	ThreeDayClassCounts []int `json:"threeDayClassCounts"`
	TwoDayClassCounts   []int `json:"twoDayClassCounts"`
}

// SlotConfig is the full input of one generation call.
type SlotConfig struct {
	HomeroomPool   []Teacher         `json:"homeroomPool"`
	ForeignPool    []Teacher         `json:"foreignPool"`
	Constraints    []TeacherConstraint `json:"constraints,omitempty"`
	FixedHomerooms map[string]string `json:"fixedHomerooms,omitempty"`
	Options        Options           `json:"options"`
}

// Assignment is one teaching event in a period cell. Several assignments may
// share a (day, period) when classes run in parallel.
type Assignment struct {
	Teacher string `json:"teacher"`
	Role    Role   `json:"role"`
	ClassID string `json:"classId"`
	Round   int    `json:"round"`
	Period  int    `json:"period"`
	Time    string `json:"time"`
}

// ExamAssignment is a word-test event scheduled outside regular periods,
// always run by the class's homeroom teacher for that round.
type ExamAssignment struct {
	ClassID string `json:"classId"`
	Teacher string `json:"teacher"`
	Role    Role   `json:"role"`
	Label   string `json:"label"`
	Time    string `json:"time"`
}

// DaySchedule holds everything generated for a single day.
type DaySchedule struct {
	Periods   map[int][]Assignment `json:"periods"`
	WordTests []ExamAssignment     `json:"wordTests"`
}

// ScheduleResult maps each weekday of a group to its generated day.
type ScheduleResult map[Weekday]*DaySchedule

// ScheduleMetrics summarises fill rate and distribution quality.
type ScheduleMetrics struct {
	FilledSlots      int     `json:"filledSlots"`
	UnfilledSlots    int     `json:"unfilledSlots"`
	ConsistencyScore float64 `json:"consistencyScore"`
	FairnessScore    float64 `json:"fairnessScore"`
}

// ValidationResult reports post-generation diagnostics. IsValid is false only
// when structural errors exist; unfilled slots are warnings.
type ValidationResult struct {
	IsValid  bool            `json:"isValid"`
	Errors   []string        `json:"errors"`
	Warnings []string        `json:"warnings"`
	Infos    []string        `json:"infos"`
	Metrics  ScheduleMetrics `json:"metrics"`
}

// Result bundles both day-group schedules with their validation.
type Result struct {
	ThreeDay   ScheduleResult   `json:"threeDay"`
	TwoDay     ScheduleResult   `json:"twoDay"`
	Validation ValidationResult `json:"validation"`
}
