package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hangil-edu/timetable-api/internal/dto"
	"github.com/hangil-edu/timetable-api/internal/models"
	"github.com/hangil-edu/timetable-api/internal/service"
	appErrors "github.com/hangil-edu/timetable-api/pkg/errors"
	"github.com/hangil-edu/timetable-api/pkg/response"
)

type rosterManager interface {
	ListTeachers(ctx context.Context, pool string) ([]models.RosterTeacher, error)
	UpsertTeacher(ctx context.Context, req dto.UpsertTeacherRequest) (*models.RosterTeacher, error)
	DeleteTeacher(ctx context.Context, name string) error
	ListConstraints(ctx context.Context) ([]models.RosterConstraint, error)
	UpsertConstraint(ctx context.Context, req dto.UpsertConstraintRequest) (*models.RosterConstraint, error)
	DeleteConstraint(ctx context.Context, teacherName string) error
	ListFixedHomerooms(ctx context.Context) ([]models.FixedHomeroom, error)
	PinHomeroom(ctx context.Context, req dto.PinHomeroomRequest) (*models.FixedHomeroom, error)
	UnpinHomeroom(ctx context.Context, classID string) error
}

// RosterHandler exposes teacher pool management endpoints.
type RosterHandler struct {
	service rosterManager
}

// NewRosterHandler constructs the handler.
func NewRosterHandler(svc *service.RosterService) *RosterHandler {
	return &RosterHandler{service: svc}
}

// ListTeachers godoc
// @Summary List pool members in scan order
// @Tags Roster
// @Produce json
// @Param pool query string true "Pool name (homeroom or foreign)"
// @Success 200 {object} response.Envelope
// @Router /roster/teachers [get]
func (h *RosterHandler) ListTeachers(c *gin.Context) {
	teachers, err := h.service.ListTeachers(c.Request.Context(), c.Query("pool"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers, nil)
}

// UpsertTeacher godoc
// @Summary Create or replace a pool member
// @Tags Roster
// @Accept json
// @Produce json
// @Param payload body dto.UpsertTeacherRequest true "Teacher payload"
// @Success 201 {object} response.Envelope
// @Router /roster/teachers [put]
func (h *RosterHandler) UpsertTeacher(c *gin.Context) {
	var req dto.UpsertTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid teacher payload"))
		return
	}
	teacher, err := h.service.UpsertTeacher(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, teacher)
}

// DeleteTeacher godoc
// @Summary Remove a pool member
// @Tags Roster
// @Param name path string true "Teacher name"
// @Success 204
// @Router /roster/teachers/{name} [delete]
func (h *RosterHandler) DeleteTeacher(c *gin.Context) {
	if err := h.service.DeleteTeacher(c.Request.Context(), c.Param("name")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListConstraints godoc
// @Summary List stored availability constraints
// @Tags Roster
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /roster/constraints [get]
func (h *RosterHandler) ListConstraints(c *gin.Context) {
	constraints, err := h.service.ListConstraints(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, constraints, nil)
}

// UpsertConstraint godoc
// @Summary Store availability rules for a teacher
// @Tags Roster
// @Accept json
// @Produce json
// @Param payload body dto.UpsertConstraintRequest true "Constraint payload"
// @Success 201 {object} response.Envelope
// @Router /roster/constraints [put]
func (h *RosterHandler) UpsertConstraint(c *gin.Context) {
	var req dto.UpsertConstraintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid constraint payload"))
		return
	}
	constraint, err := h.service.UpsertConstraint(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, constraint)
}

// DeleteConstraint godoc
// @Summary Remove a teacher's availability record
// @Tags Roster
// @Param name path string true "Teacher name"
// @Success 204
// @Router /roster/constraints/{name} [delete]
func (h *RosterHandler) DeleteConstraint(c *gin.Context) {
	if err := h.service.DeleteConstraint(c.Request.Context(), c.Param("name")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListFixedHomerooms godoc
// @Summary List homeroom pins
// @Tags Roster
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /roster/fixed-homerooms [get]
func (h *RosterHandler) ListFixedHomerooms(c *gin.Context) {
	pins, err := h.service.ListFixedHomerooms(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pins, nil)
}

// PinHomeroom godoc
// @Summary Fix a teacher to a class's homeroom duty
// @Tags Roster
// @Accept json
// @Produce json
// @Param payload body dto.PinHomeroomRequest true "Pin payload"
// @Success 201 {object} response.Envelope
// @Router /roster/fixed-homerooms [put]
func (h *RosterHandler) PinHomeroom(c *gin.Context) {
	var req dto.PinHomeroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid pin payload"))
		return
	}
	pin, err := h.service.PinHomeroom(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, pin)
}

// UnpinHomeroom godoc
// @Summary Remove a class's homeroom pin
// @Tags Roster
// @Param classId path string true "Class ID"
// @Success 204
// @Router /roster/fixed-homerooms/{classId} [delete]
func (h *RosterHandler) UnpinHomeroom(c *gin.Context) {
	if err := h.service.UnpinHomeroom(c.Request.Context(), c.Param("classId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
