package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hangil-edu/timetable-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestTimetableRepositoryCreateVersioned(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(version), 0) + 1 FROM timetables WHERE label = $1")).
		WithArgs("spring-week").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(3))
	mock.ExpectExec("INSERT INTO timetables").
		WithArgs(sqlmock.AnyArg(), "spring-week", 3, string(models.TimetableStatusDraft), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	timetable := &models.Timetable{Label: "spring-week"}
	err := repo.CreateVersioned(context.Background(), nil, timetable)
	require.NoError(t, err)
	assert.Equal(t, 3, timetable.Version)
	assert.NotEmpty(t, timetable.ID)
	assert.Equal(t, models.TimetableStatusDraft, timetable.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryCreateVersionedRequiresLabel(t *testing.T) {
	db, _, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	err := repo.CreateVersioned(context.Background(), nil, &models.Timetable{})
	assert.Error(t, err)
}

func TestTimetableRepositoryListFiltersByStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM timetables WHERE status = $1")).
		WithArgs(string(models.TimetableStatusPublished)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT id, label, version, status, meta, created_at, updated_at").
		WithArgs(string(models.TimetableStatusPublished), 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "label", "version", "status", "meta", "created_at", "updated_at"}).
			AddRow("tt-1", "spring-week", 2, "PUBLISHED", []byte(`{}`), now, now))

	timetables, total, err := repo.List(context.Background(), models.TimetableStatusPublished, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, timetables, 1)
	assert.Equal(t, "tt-1", timetables[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryUpdateStatusReportsMissingRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectExec("UPDATE timetables SET status").
		WithArgs(string(models.TimetableStatusPublished), sqlmock.AnyArg(), "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), nil, "missing", models.TimetableStatusPublished, types.JSONText(nil))
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableSlotRepositoryInsertBatch(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableSlotRepository(db)

	mock.ExpectExec("INSERT INTO timetable_slots").
		WithArgs(sqlmock.AnyArg(), "tt-1", "MWF", "MON", 1, "MWF-R1C1", "Ann", "H", "14:00", false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.InsertBatch(context.Background(), nil, []models.TimetableSlot{{
		TimetableID: "tt-1",
		DayGroup:    "MWF",
		Day:         "MON",
		Period:      1,
		ClassID:     "MWF-R1C1",
		TeacherName: "Ann",
		Role:        "H",
		StartTime:   "14:00",
	}})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
