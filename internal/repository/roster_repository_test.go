package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hangil-edu/timetable-api/internal/models"
)

func TestRosterRepositoryListTeachersKeepsPoolOrder(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRosterRepository(db)

	now := time.Now()
	mock.ExpectQuery("SELECT id, name, role, pool, position, active").
		WithArgs(models.PoolHomeroom).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "role", "pool", "position", "active", "created_at", "updated_at"}).
			AddRow("t-1", "Ann", "H", models.PoolHomeroom, 0, true, now, now).
			AddRow("t-2", "Bea", "H", models.PoolHomeroom, 1, true, now, now))

	teachers, err := repo.ListTeachers(context.Background(), models.PoolHomeroom)
	require.NoError(t, err)
	require.Len(t, teachers, 2)
	assert.Equal(t, "Ann", teachers[0].Name)
	assert.Equal(t, "Bea", teachers[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRosterRepositoryUpsertConstraintDefaultsUnavailable(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRosterRepository(db)

	mock.ExpectExec("INSERT INTO roster_constraints").
		WithArgs(sqlmock.AnyArg(), "Ann", true, nil, []byte("[]"), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.UpsertConstraint(context.Background(), &models.RosterConstraint{
		TeacherName:      "Ann",
		HomeroomDisabled: true,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRosterRepositoryUpsertConstraintKeepsTokens(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRosterRepository(db)

	tokens := types.JSONText(`["MON|3","FRI|WT"]`)
	mock.ExpectExec("INSERT INTO roster_constraints").
		WithArgs(sqlmock.AnyArg(), "Bea", false, nil, []byte(tokens), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.UpsertConstraint(context.Background(), &models.RosterConstraint{
		TeacherName: "Bea",
		Unavailable: tokens,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRosterRepositoryDeleteTeacherMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRosterRepository(db)

	mock.ExpectExec("DELETE FROM roster_teachers").
		WithArgs("Zed").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteTeacher(context.Background(), "Zed")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRosterRepositoryPinHomeroom(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRosterRepository(db)

	mock.ExpectExec("INSERT INTO fixed_homerooms").
		WithArgs(sqlmock.AnyArg(), "MWF-R1C1", "Ann", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.PinHomeroom(context.Background(), &models.FixedHomeroom{
		ClassID:     "MWF-R1C1",
		TeacherName: "Ann",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
