package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hangil-edu/timetable-api/internal/dto"
	"github.com/hangil-edu/timetable-api/internal/models"
	appErrors "github.com/hangil-edu/timetable-api/pkg/errors"
)

type rosterManagerMock struct {
	teachers    []models.RosterTeacher
	capturedPin dto.PinHomeroomRequest
	unpinErr    error
}

func (m *rosterManagerMock) ListTeachers(ctx context.Context, pool string) ([]models.RosterTeacher, error) {
	if pool != models.PoolHomeroom && pool != models.PoolForeign {
		return nil, appErrors.Clone(appErrors.ErrValidation, "pool must be homeroom or foreign")
	}
	return m.teachers, nil
}

func (m *rosterManagerMock) UpsertTeacher(ctx context.Context, req dto.UpsertTeacherRequest) (*models.RosterTeacher, error) {
	return &models.RosterTeacher{Name: req.Name, Role: req.Role, Pool: req.Pool, Active: true}, nil
}

func (m *rosterManagerMock) DeleteTeacher(ctx context.Context, name string) error {
	return nil
}

func (m *rosterManagerMock) ListConstraints(ctx context.Context) ([]models.RosterConstraint, error) {
	return nil, nil
}

func (m *rosterManagerMock) UpsertConstraint(ctx context.Context, req dto.UpsertConstraintRequest) (*models.RosterConstraint, error) {
	return &models.RosterConstraint{TeacherName: req.TeacherName}, nil
}

func (m *rosterManagerMock) DeleteConstraint(ctx context.Context, teacherName string) error {
	return nil
}

func (m *rosterManagerMock) ListFixedHomerooms(ctx context.Context) ([]models.FixedHomeroom, error) {
	return nil, nil
}

func (m *rosterManagerMock) PinHomeroom(ctx context.Context, req dto.PinHomeroomRequest) (*models.FixedHomeroom, error) {
	m.capturedPin = req
	return &models.FixedHomeroom{ClassID: req.ClassID, TeacherName: req.TeacherName}, nil
}

func (m *rosterManagerMock) UnpinHomeroom(ctx context.Context, classID string) error {
	return m.unpinErr
}

func TestRosterHandlerListTeachersRequiresPool(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &RosterHandler{service: &rosterManagerMock{}}

	req, _ := http.NewRequest(http.MethodGet, "/roster/teachers", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.ListTeachers(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRosterHandlerListTeachers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &RosterHandler{service: &rosterManagerMock{
		teachers: []models.RosterTeacher{{Name: "Ann", Role: "H", Pool: models.PoolHomeroom}},
	}}

	req, _ := http.NewRequest(http.MethodGet, "/roster/teachers?pool=homeroom", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.ListTeachers(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ann")
}

func TestRosterHandlerPinHomeroom(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &rosterManagerMock{}
	handler := &RosterHandler{service: mockSvc}

	payload := []byte(`{"classId": "MWF-R1C1", "teacherName": "Ann"}`)
	req, _ := http.NewRequest(http.MethodPut, "/roster/fixed-homerooms", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.PinHomeroom(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "MWF-R1C1", mockSvc.capturedPin.ClassID)
}

func TestRosterHandlerUnpinMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &RosterHandler{service: &rosterManagerMock{
		unpinErr: appErrors.Clone(appErrors.ErrNotFound, "fixed homeroom not found"),
	}}

	router := gin.New()
	router.DELETE("/roster/fixed-homerooms/:classId", handler.UnpinHomeroom)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/roster/fixed-homerooms/MWF-R1C9", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
}
