package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hangil-edu/timetable-api/internal/dto"
	appErrors "github.com/hangil-edu/timetable-api/pkg/errors"
)

type exportArchiverMock struct {
	enqueued []string
	links    []dto.ExportLink
	linksErr error
	openErr  error
}

func (m *exportArchiverMock) EnqueueArchive(timetableID string) error {
	m.enqueued = append(m.enqueued, timetableID)
	return nil
}

func (m *exportArchiverMock) Links(ctx context.Context, timetableID string) ([]dto.ExportLink, error) {
	return m.links, m.linksErr
}

func (m *exportArchiverMock) Open(token string) ([]byte, string, string, error) {
	if m.openErr != nil {
		return nil, "", "", m.openErr
	}
	return []byte("Group,Day\n"), "timetable-spring-v1.csv", "text/csv", nil
}

func TestExportHandlerArchiveAccepted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &exportArchiverMock{}
	handler := &ExportHandler{service: mockSvc}

	router := gin.New()
	router.POST("/timetables/:id/archive", handler.Archive)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/timetables/tt-1/archive", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusAccepted, w.Code)
	require.Equal(t, []string{"tt-1"}, mockSvc.enqueued)
}

func TestExportHandlerLinksNotArchived(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &ExportHandler{service: &exportArchiverMock{
		linksErr: appErrors.Clone(appErrors.ErrNotFound, "no archived exports for this timetable"),
	}}

	router := gin.New()
	router.GET("/timetables/:id/links", handler.Links)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/timetables/tt-1/links", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportHandlerDownload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &ExportHandler{service: &exportArchiverMock{}}

	router := gin.New()
	router.GET("/exports/download", handler.Download)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/exports/download?token=abc", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")
}

func TestExportHandlerDownloadRequiresToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &ExportHandler{service: &exportArchiverMock{}}

	router := gin.New()
	router.GET("/exports/download", handler.Download)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/exports/download", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
