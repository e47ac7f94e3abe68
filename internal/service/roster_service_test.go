package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hangil-edu/timetable-api/internal/dto"
	"github.com/hangil-edu/timetable-api/internal/models"
	appErrors "github.com/hangil-edu/timetable-api/pkg/errors"
)

func TestRosterServiceUpsertTeacherValidatesPoolRole(t *testing.T) {
	service := NewRosterService(&rosterRepoStub{}, validator.New(), zap.NewNop())

	_, err := service.UpsertTeacher(context.Background(), dto.UpsertTeacherRequest{
		Name: "Ann",
		Role: "H",
		Pool: models.PoolForeign,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	teacher, err := service.UpsertTeacher(context.Background(), dto.UpsertTeacherRequest{
		Name: "Cid",
		Role: "F",
		Pool: models.PoolForeign,
	})
	require.NoError(t, err)
	assert.True(t, teacher.Active)
}

func TestRosterServiceBuildGenerationRequest(t *testing.T) {
	two := 2
	repo := &rosterRepoStub{
		teachers: map[string][]models.RosterTeacher{
			models.PoolHomeroom: {
				{Name: "Ann", Role: "H"},
				{Name: "Bea", Role: "K"},
			},
			models.PoolForeign: {
				{Name: "Cid", Role: "F"},
			},
		},
		constraints: []models.RosterConstraint{
			{TeacherName: "Ann", MaxHomerooms: &two, Unavailable: types.JSONText(`["MON|3"]`)},
		},
		pins: []models.FixedHomeroom{
			{ClassID: "MWF-R1C1", TeacherName: "Ann"},
		},
	}
	service := NewRosterService(repo, validator.New(), zap.NewNop())

	req, err := service.BuildGenerationRequest(context.Background(), dto.OptionsInput{
		IncludeHInK:         true,
		ThreeDayClassCounts: []int{1},
	})
	require.NoError(t, err)
	require.Len(t, req.HomeroomPool, 2)
	require.Len(t, req.ForeignPool, 1)
	require.Len(t, req.Constraints, 1)
	assert.Equal(t, []string{"MON|3"}, req.Constraints[0].Unavailable)
	assert.Equal(t, "Ann", req.FixedHomerooms["MWF-R1C1"])
}

func TestRosterServiceBuildGenerationRequestNeedsHomerooms(t *testing.T) {
	service := NewRosterService(&rosterRepoStub{}, validator.New(), zap.NewNop())

	_, err := service.BuildGenerationRequest(context.Background(), dto.OptionsInput{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestRosterServiceDeleteConstraintMissing(t *testing.T) {
	service := NewRosterService(&rosterRepoStub{}, validator.New(), zap.NewNop())

	err := service.DeleteConstraint(context.Background(), "Zed")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

type rosterRepoStub struct {
	teachers    map[string][]models.RosterTeacher
	constraints []models.RosterConstraint
	pins        []models.FixedHomeroom
}

func (s *rosterRepoStub) ListTeachers(ctx context.Context, pool string) ([]models.RosterTeacher, error) {
	return s.teachers[pool], nil
}

func (s *rosterRepoStub) UpsertTeacher(ctx context.Context, teacher *models.RosterTeacher) error {
	if s.teachers == nil {
		s.teachers = make(map[string][]models.RosterTeacher)
	}
	s.teachers[teacher.Pool] = append(s.teachers[teacher.Pool], *teacher)
	return nil
}

func (s *rosterRepoStub) DeleteTeacher(ctx context.Context, name string) error {
	return sql.ErrNoRows
}

func (s *rosterRepoStub) ListConstraints(ctx context.Context) ([]models.RosterConstraint, error) {
	return s.constraints, nil
}

func (s *rosterRepoStub) UpsertConstraint(ctx context.Context, constraint *models.RosterConstraint) error {
	s.constraints = append(s.constraints, *constraint)
	return nil
}

func (s *rosterRepoStub) DeleteConstraint(ctx context.Context, teacherName string) error {
	return sql.ErrNoRows
}

func (s *rosterRepoStub) ListFixedHomerooms(ctx context.Context) ([]models.FixedHomeroom, error) {
	return s.pins, nil
}

func (s *rosterRepoStub) PinHomeroom(ctx context.Context, pin *models.FixedHomeroom) error {
	s.pins = append(s.pins, *pin)
	return nil
}

func (s *rosterRepoStub) UnpinHomeroom(ctx context.Context, classID string) error {
	return sql.ErrNoRows
}
