package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hangil-edu/timetable-api/internal/dto"
	"github.com/hangil-edu/timetable-api/internal/engine"
	"github.com/hangil-edu/timetable-api/internal/models"
	"github.com/hangil-edu/timetable-api/internal/service"
	appErrors "github.com/hangil-edu/timetable-api/pkg/errors"
	"github.com/hangil-edu/timetable-api/pkg/response"
)

type timetableManager interface {
	Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error)
	Validate(ctx context.Context, req dto.ValidateTimetableRequest) (*engine.ValidationResult, error)
	Save(ctx context.Context, req dto.SaveTimetableRequest) (*dto.SaveTimetableResponse, error)
	Publish(ctx context.Context, id string) error
	List(ctx context.Context, query dto.TimetableListQuery) ([]models.Timetable, *models.Pagination, error)
	GetSlots(ctx context.Context, id string) ([]models.TimetableSlot, error)
	Delete(ctx context.Context, id string) error
	Latest(ctx context.Context) (*service.LatestTimetable, error)
	ExportCSV(ctx context.Context, id string) ([]byte, string, error)
	ExportPDF(ctx context.Context, id string) ([]byte, string, error)
}

type rosterRequestBuilder interface {
	BuildGenerationRequest(ctx context.Context, options dto.OptionsInput) (*dto.GenerateTimetableRequest, error)
}

// TimetableHandler exposes generation and timetable management endpoints.
type TimetableHandler struct {
	service timetableManager
	roster  rosterRequestBuilder
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(svc *service.TimetableService, roster *service.RosterService) *TimetableHandler {
	return &TimetableHandler{service: svc, roster: roster}
}

// Generate godoc
// @Summary Generate a weekly timetable proposal
// @Description Runs the deterministic assignment engine over the supplied pools and constraints. The result is held as a proposal until saved or expired.
// @Tags Timetables
// @Accept json
// @Produce json
// @Param payload body dto.GenerateTimetableRequest true "Generate timetable payload"
// @Success 200 {object} response.Envelope
// @Router /timetables/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	var req dto.GenerateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}
	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// GenerateFromRoster godoc
// @Summary Generate a proposal from the stored roster
// @Description Builds the generation payload from stored pools, constraints and pins so only options need to be supplied.
// @Tags Timetables
// @Accept json
// @Produce json
// @Param payload body dto.OptionsInput true "Generation options"
// @Success 200 {object} response.Envelope
// @Router /timetables/generate/roster [post]
func (h *TimetableHandler) GenerateFromRoster(c *gin.Context) {
	var options dto.OptionsInput
	if err := c.ShouldBindJSON(&options); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid options payload"))
		return
	}
	req, err := h.roster.BuildGenerationRequest(c.Request.Context(), options)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.service.Generate(c.Request.Context(), *req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Validate godoc
// @Summary Validate an edited timetable
// @Description Re-runs validation over a manually edited schedule pair without generating.
// @Tags Timetables
// @Accept json
// @Produce json
// @Param payload body dto.ValidateTimetableRequest true "Validate timetable payload"
// @Success 200 {object} response.Envelope
// @Router /timetables/validate [post]
func (h *TimetableHandler) Validate(c *gin.Context) {
	var req dto.ValidateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid validate payload"))
		return
	}
	result, err := h.service.Validate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Save godoc
// @Summary Save a proposal as a timetable version
// @Tags Timetables
// @Accept json
// @Produce json
// @Param payload body dto.SaveTimetableRequest true "Save timetable payload"
// @Success 201 {object} response.Envelope
// @Router /timetables [post]
func (h *TimetableHandler) Save(c *gin.Context) {
	var req dto.SaveTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid save payload"))
		return
	}
	result, err := h.service.Save(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Publish godoc
// @Summary Publish a draft timetable
// @Tags Timetables
// @Param id path string true "Timetable ID"
// @Success 204
// @Router /timetables/{id}/publish [post]
func (h *TimetableHandler) Publish(c *gin.Context) {
	if err := h.service.Publish(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// List godoc
// @Summary List stored timetable versions
// @Tags Timetables
// @Produce json
// @Param status query string false "Filter by status (DRAFT or PUBLISHED)"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /timetables [get]
func (h *TimetableHandler) List(c *gin.Context) {
	query := dto.TimetableListQuery{Status: c.Query("status")}
	if raw := c.Query("page"); raw != "" {
		query.Page, _ = strconv.Atoi(raw)
	}
	if raw := c.Query("pageSize"); raw != "" {
		query.PageSize, _ = strconv.Atoi(raw)
	}
	timetables, pagination, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, timetables, pagination)
}

// Slots godoc
// @Summary Get slots for a stored timetable
// @Tags Timetables
// @Produce json
// @Param id path string true "Timetable ID"
// @Success 200 {object} response.Envelope
// @Router /timetables/{id}/slots [get]
func (h *TimetableHandler) Slots(c *gin.Context) {
	slots, err := h.service.GetSlots(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// Delete godoc
// @Summary Delete a draft timetable
// @Tags Timetables
// @Param id path string true "Timetable ID"
// @Success 204
// @Router /timetables/{id} [delete]
func (h *TimetableHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Latest godoc
// @Summary Get the latest published timetable
// @Tags Timetables
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetables/latest [get]
func (h *TimetableHandler) Latest(c *gin.Context) {
	latest, err := h.service.Latest(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, latest, nil)
}

// ExportCSV godoc
// @Summary Export a stored timetable as CSV
// @Tags Timetables
// @Produce text/csv
// @Param id path string true "Timetable ID"
// @Success 200 {file} file
// @Router /timetables/{id}/export.csv [get]
func (h *TimetableHandler) ExportCSV(c *gin.Context) {
	payload, filename, err := h.service.ExportCSV(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", payload)
}

// ExportPDF godoc
// @Summary Export a stored timetable as PDF
// @Tags Timetables
// @Produce application/pdf
// @Param id path string true "Timetable ID"
// @Success 200 {file} file
// @Router /timetables/{id}/export.pdf [get]
func (h *TimetableHandler) ExportPDF(c *gin.Context) {
	payload, filename, err := h.service.ExportPDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", payload)
}
