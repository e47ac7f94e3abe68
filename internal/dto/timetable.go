package dto

import (
	"github.com/hangil-edu/timetable-api/internal/engine"
)

// TeacherInput is one pool member in a generation request.
type TeacherInput struct {
	Name string `json:"name" validate:"required"`
	Role string `json:"role" validate:"required,oneof=H K F"`
}

// ConstraintInput carries per-teacher availability rules. Unavailable tokens
// use the "DAY|period" or "DAY|WT" form.
type ConstraintInput struct {
	TeacherName      string   `json:"teacherName" validate:"required"`
	HomeroomDisabled bool     `json:"homeroomDisabled"`
	MaxHomerooms     *int     `json:"maxHomerooms" validate:"omitempty,min=0"`
	Unavailable      []string `json:"unavailable" validate:"omitempty,dive,required"`
}

// OptionsInput selects policy toggles and class counts per round.
type OptionsInput struct {
	IncludeHInK         bool  `json:"includeHInK"`
	PreferOtherHForK    bool  `json:"preferOtherHForK"`
	DisallowOwnHAsK     bool  `json:"disallowOwnHAsK"`
	RotateForeign       bool  `json:"rotateForeign"`
	ThreeDayClassCounts []int `json:"threeDayClassCounts" validate:"omitempty,dive,min=0"`
	TwoDayClassCounts   []int `json:"twoDayClassCounts" validate:"omitempty,dive,min=0"`
}

// GenerateTimetableRequest instructs the engine to build a weekly proposal.
type GenerateTimetableRequest struct {
	HomeroomPool   []TeacherInput    `json:"homeroomPool" validate:"required,min=1,dive"`
	ForeignPool    []TeacherInput    `json:"foreignPool" validate:"omitempty,dive"`
	Constraints    []ConstraintInput `json:"constraints" validate:"omitempty,dive"`
	FixedHomerooms map[string]string `json:"fixedHomerooms"`
	Options        OptionsInput      `json:"options"`
	Meta           map[string]any    `json:"meta"`
}

// ToSlotConfig maps the request onto the engine's input shape.
func (r GenerateTimetableRequest) ToSlotConfig() engine.SlotConfig {
	cfg := engine.SlotConfig{
		FixedHomerooms: r.FixedHomerooms,
		Options: engine.Options{
			IncludeHInK:         r.Options.IncludeHInK,
			PreferOtherHForK:    r.Options.PreferOtherHForK,
			DisallowOwnHAsK:     r.Options.DisallowOwnHAsK,
			RotateForeign:       r.Options.RotateForeign,
			ThreeDayClassCounts: r.Options.ThreeDayClassCounts,
			TwoDayClassCounts:   r.Options.TwoDayClassCounts,
		},
	}
	for _, t := range r.HomeroomPool {
		cfg.HomeroomPool = append(cfg.HomeroomPool, engine.Teacher{Name: t.Name, Role: engine.Role(t.Role)})
	}
	for _, t := range r.ForeignPool {
		cfg.ForeignPool = append(cfg.ForeignPool, engine.Teacher{Name: t.Name, Role: engine.Role(t.Role)})
	}
	for _, c := range r.Constraints {
		cfg.Constraints = append(cfg.Constraints, engine.TeacherConstraint{
			TeacherName:      c.TeacherName,
			HomeroomDisabled: c.HomeroomDisabled,
			MaxHomerooms:     c.MaxHomerooms,
			Unavailable:      c.Unavailable,
		})
	}
	return cfg
}

// GenerateTimetableResponse returns the built weekly proposal.
type GenerateTimetableResponse struct {
	ProposalID string                  `json:"proposalId"`
	ThreeDay   engine.ScheduleResult   `json:"threeDay"`
	TwoDay     engine.ScheduleResult   `json:"twoDay"`
	Validation engine.ValidationResult `json:"validation"`
}

// SaveTimetableRequest persists a proposal as a stored timetable version.
type SaveTimetableRequest struct {
	ProposalID string `json:"proposalId" validate:"required"`
	Label      string `json:"label" validate:"required,max=120"`
	Publish    bool   `json:"publish"`
}

// SaveTimetableResponse confirms the stored version.
type SaveTimetableResponse struct {
	TimetableID string `json:"timetableId"`
	Version     int    `json:"version"`
	Status      string `json:"status"`
	SlotCount   int    `json:"slotCount"`
}

// ValidateTimetableRequest re-checks an edited schedule against its inputs.
type ValidateTimetableRequest struct {
	Config   GenerateTimetableRequest `json:"config" validate:"required"`
	ThreeDay engine.ScheduleResult    `json:"threeDay"`
	TwoDay   engine.ScheduleResult    `json:"twoDay"`
}

// ExportLink is a signed, expiring download reference to an archived export.
type ExportLink struct {
	Filename  string `json:"filename"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}

// TimetableListQuery filters stored timetables.
type TimetableListQuery struct {
	Status   string `form:"status" validate:"omitempty,oneof=DRAFT PUBLISHED"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}
