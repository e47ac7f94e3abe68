package dto

// UpsertTeacherRequest creates or replaces a roster pool member.
type UpsertTeacherRequest struct {
	Name     string `json:"name" validate:"required,max=80"`
	Role     string `json:"role" validate:"required,oneof=H K F"`
	Pool     string `json:"pool" validate:"required,oneof=homeroom foreign"`
	Position int    `json:"position" validate:"min=0"`
	Active   *bool  `json:"active"`
}

// UpsertConstraintRequest stores availability rules for a teacher.
type UpsertConstraintRequest struct {
	TeacherName      string   `json:"teacherName" validate:"required"`
	HomeroomDisabled bool     `json:"homeroomDisabled"`
	MaxHomerooms     *int     `json:"maxHomerooms" validate:"omitempty,min=0"`
	Unavailable      []string `json:"unavailable" validate:"omitempty,dive,required"`
}

// PinHomeroomRequest fixes a teacher to a class's homeroom duty.
type PinHomeroomRequest struct {
	ClassID     string `json:"classId" validate:"required"`
	TeacherName string `json:"teacherName" validate:"required"`
}
