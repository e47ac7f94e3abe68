package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hangil-edu/timetable-api/internal/dto"
	"github.com/hangil-edu/timetable-api/internal/service"
	appErrors "github.com/hangil-edu/timetable-api/pkg/errors"
	"github.com/hangil-edu/timetable-api/pkg/response"
)

type exportArchiver interface {
	EnqueueArchive(timetableID string) error
	Links(ctx context.Context, timetableID string) ([]dto.ExportLink, error)
	Open(token string) (data []byte, filename, contentType string, err error)
}

// ExportHandler exposes the archived export endpoints.
type ExportHandler struct {
	service exportArchiver
}

// NewExportHandler constructs the handler.
func NewExportHandler(svc *service.ExportArchiveService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Archive godoc
// @Summary Schedule background archiving of a timetable's exports
// @Tags Exports
// @Param id path string true "Timetable ID"
// @Success 202
// @Router /timetables/{id}/archive [post]
func (h *ExportHandler) Archive(c *gin.Context) {
	if err := h.service.EnqueueArchive(c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

// Links godoc
// @Summary List signed download links for archived exports
// @Tags Exports
// @Produce json
// @Param id path string true "Timetable ID"
// @Success 200 {object} response.Envelope
// @Router /timetables/{id}/links [get]
func (h *ExportHandler) Links(c *gin.Context) {
	links, err := h.service.Links(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, links, nil)
}

// Download godoc
// @Summary Download an archived export by signed token
// @Tags Exports
// @Param token query string true "Signed download token"
// @Success 200 {file} file
// @Router /exports/download [get]
func (h *ExportHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token query parameter is required"))
		return
	}
	data, filename, contentType, err := h.service.Open(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, data)
}
