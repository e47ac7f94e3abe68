package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hangil-edu/timetable-api/internal/dto"
	"github.com/hangil-edu/timetable-api/internal/models"
	appErrors "github.com/hangil-edu/timetable-api/pkg/errors"
)

func TestTimetableServiceGenerateSuccess(t *testing.T) {
	service := newTimetableServiceFixture(t, timetableFixtureConfig{})

	resp, err := service.Generate(context.Background(), generateRequestFixture())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ProposalID)
	assert.True(t, resp.Validation.IsValid)
	require.NotNil(t, resp.ThreeDay["MON"])
	assert.NotEmpty(t, resp.ThreeDay["MON"].Periods)
}

func TestTimetableServiceGenerateRejectsBadToken(t *testing.T) {
	service := newTimetableServiceFixture(t, timetableFixtureConfig{})

	req := generateRequestFixture()
	req.Constraints = []dto.ConstraintInput{{TeacherName: "Ann", Unavailable: []string{"SAT|1"}}}

	_, err := service.Generate(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrBadConstraint.Code, appErrors.FromError(err).Code)
}

func TestTimetableServiceSaveDraft(t *testing.T) {
	txProvider, mock := newTxProviderMock(t)
	service := newTimetableServiceFixture(t, timetableFixtureConfig{tx: txProvider})

	resp, err := service.Generate(context.Background(), generateRequestFixture())
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()

	saved, err := service.Save(context.Background(), dto.SaveTimetableRequest{
		ProposalID: resp.ProposalID,
		Label:      "spring-week",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.TimetableID)
	assert.Equal(t, string(models.TimetableStatusDraft), saved.Status)
	assert.Greater(t, saved.SlotCount, 0)
	assert.NoError(t, mock.ExpectationsWereMet())

	// Proposals are single-use.
	_, err = service.Save(context.Background(), dto.SaveTimetableRequest{
		ProposalID: resp.ProposalID,
		Label:      "spring-week",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrProposalExpired.Code, appErrors.FromError(err).Code)
}

func TestTimetableServiceSavePublishPopulatesCache(t *testing.T) {
	txProvider, mock := newTxProviderMock(t)
	cache := newCacheStub()
	service := newTimetableServiceFixture(t, timetableFixtureConfig{tx: txProvider, cache: cache})

	resp, err := service.Generate(context.Background(), generateRequestFixture())
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()

	saved, err := service.Save(context.Background(), dto.SaveTimetableRequest{
		ProposalID: resp.ProposalID,
		Label:      "spring-week",
		Publish:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, string(models.TimetableStatusPublished), saved.Status)
	assert.Contains(t, cache.items, latestTimetableCacheKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableServiceSaveUnknownProposal(t *testing.T) {
	service := newTimetableServiceFixture(t, timetableFixtureConfig{})

	_, err := service.Save(context.Background(), dto.SaveTimetableRequest{
		ProposalID: "missing",
		Label:      "spring-week",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrProposalExpired.Code, appErrors.FromError(err).Code)
}

func TestTimetableServiceLatestFallsBackToStore(t *testing.T) {
	cache := newCacheStub()
	timetables := &timetableRepoStub{}
	slots := &timetableSlotRepoStub{}
	service := newTimetableServiceFixture(t, timetableFixtureConfig{
		cache:      cache,
		timetables: timetables,
		slots:      slots,
	})

	published := models.Timetable{ID: "tt-1", Label: "spring-week", Version: 1, Status: models.TimetableStatusPublished}
	timetables.items = append(timetables.items, published)
	slots.items = map[string][]models.TimetableSlot{
		"tt-1": {{ID: "slot-1", TimetableID: "tt-1", Day: "MON", Period: 1, TeacherName: "Ann", Role: "H"}},
	}

	latest, err := service.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tt-1", latest.Timetable.ID)
	require.Len(t, latest.Slots, 1)
	assert.Contains(t, cache.items, latestTimetableCacheKey)

	// Second read is served from cache even after the store empties.
	timetables.items = nil
	again, err := service.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tt-1", again.Timetable.ID)
}

func TestTimetableServiceDeleteRefusesPublished(t *testing.T) {
	timetables := &timetableRepoStub{items: []models.Timetable{
		{ID: "tt-1", Label: "spring-week", Status: models.TimetableStatusPublished},
	}}
	service := newTimetableServiceFixture(t, timetableFixtureConfig{timetables: timetables})

	err := service.Delete(context.Background(), "tt-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPublished.Code, appErrors.FromError(err).Code)
}

func TestTimetableServicePublishDraft(t *testing.T) {
	cache := newCacheStub()
	timetables := &timetableRepoStub{items: []models.Timetable{
		{ID: "tt-1", Label: "spring-week", Status: models.TimetableStatusDraft},
	}}
	slots := &timetableSlotRepoStub{items: map[string][]models.TimetableSlot{"tt-1": {}}}
	service := newTimetableServiceFixture(t, timetableFixtureConfig{
		cache:      cache,
		timetables: timetables,
		slots:      slots,
	})

	require.NoError(t, service.Publish(context.Background(), "tt-1"))
	assert.Equal(t, models.TimetableStatusPublished, timetables.items[0].Status)

	err := service.Publish(context.Background(), "tt-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPublished.Code, appErrors.FromError(err).Code)
}

func TestTimetableServiceExportCSV(t *testing.T) {
	timetables := &timetableRepoStub{items: []models.Timetable{
		{ID: "tt-1", Label: "spring-week", Version: 2, Status: models.TimetableStatusPublished},
	}}
	slots := &timetableSlotRepoStub{items: map[string][]models.TimetableSlot{
		"tt-1": {
			{TimetableID: "tt-1", DayGroup: "MWF", Day: "MON", Period: 1, ClassID: "MWF-R1C1", TeacherName: "Ann", Role: "H", StartTime: "14:00"},
			{TimetableID: "tt-1", DayGroup: "MWF", Day: "MON", ClassID: "MWF-R1C1", TeacherName: "Ann", Role: "H", StartTime: "15:25", IsExam: true},
		},
	}}
	service := newTimetableServiceFixture(t, timetableFixtureConfig{timetables: timetables, slots: slots})

	payload, filename, err := service.ExportCSV(context.Background(), "tt-1")
	require.NoError(t, err)
	assert.Equal(t, "timetable-spring-week-v2.csv", filename)
	assert.Contains(t, string(payload), "Group,Day,Period,Time,Class,Teacher,Role,Type")
	assert.Contains(t, string(payload), "WORD_TEST")
}

// --- Fixtures ---

type timetableFixtureConfig struct {
	timetables timetableRepository
	slots      timetableSlotRepository
	cache      timetableCache
	tx         txProvider
}

func newTimetableServiceFixture(t *testing.T, cfg timetableFixtureConfig) *TimetableService {
	t.Helper()
	timetables := cfg.timetables
	if timetables == nil {
		timetables = &timetableRepoStub{}
	}
	slots := cfg.slots
	if slots == nil {
		slots = &timetableSlotRepoStub{}
	}
	tx := cfg.tx
	if tx == nil {
		tx = noopTxProvider{}
	}
	return NewTimetableService(
		timetables,
		slots,
		cfg.cache,
		tx,
		nil,
		nil,
		nil,
		validator.New(),
		zap.NewNop(),
		TimetableServiceConfig{ProposalTTL: time.Hour, LatestCacheTTL: time.Hour},
	)
}

func generateRequestFixture() dto.GenerateTimetableRequest {
	return dto.GenerateTimetableRequest{
		HomeroomPool: []dto.TeacherInput{
			{Name: "Ann", Role: "H"},
			{Name: "Bea", Role: "H"},
		},
		ForeignPool: []dto.TeacherInput{
			{Name: "Cid", Role: "F"},
		},
		Options: dto.OptionsInput{
			IncludeHInK:         true,
			ThreeDayClassCounts: []int{1},
			TwoDayClassCounts:   []int{1},
		},
	}
}

type timetableRepoStub struct {
	items []models.Timetable
}

func (s *timetableRepoStub) CreateVersioned(ctx context.Context, exec sqlx.ExtContext, timetable *models.Timetable) error {
	timetable.ID = fmt.Sprintf("tt-%d", len(s.items)+1)
	timetable.Version = len(s.items) + 1
	s.items = append(s.items, *timetable)
	return nil
}

func (s *timetableRepoStub) List(ctx context.Context, status models.TimetableStatus, limit, offset int) ([]models.Timetable, int, error) {
	return s.items, len(s.items), nil
}

func (s *timetableRepoStub) FindByID(ctx context.Context, id string) (*models.Timetable, error) {
	for _, item := range s.items {
		if item.ID == id {
			return &item, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *timetableRepoStub) FindLatestPublished(ctx context.Context) (*models.Timetable, error) {
	for idx := len(s.items) - 1; idx >= 0; idx-- {
		if s.items[idx].Status == models.TimetableStatusPublished {
			return &s.items[idx], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *timetableRepoStub) Delete(ctx context.Context, id string) error {
	for idx, item := range s.items {
		if item.ID == id {
			s.items = append(s.items[:idx], s.items[idx+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (s *timetableRepoStub) UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.TimetableStatus, meta types.JSONText) error {
	for idx := range s.items {
		if s.items[idx].ID == id {
			s.items[idx].Status = status
			return nil
		}
	}
	return sql.ErrNoRows
}

type timetableSlotRepoStub struct {
	items map[string][]models.TimetableSlot
}

func (s *timetableSlotRepoStub) InsertBatch(ctx context.Context, exec sqlx.ExtContext, slots []models.TimetableSlot) error {
	if s.items == nil {
		s.items = make(map[string][]models.TimetableSlot)
	}
	for _, slot := range slots {
		s.items[slot.TimetableID] = append(s.items[slot.TimetableID], slot)
	}
	return nil
}

func (s *timetableSlotRepoStub) ListByTimetable(ctx context.Context, timetableID string) ([]models.TimetableSlot, error) {
	return s.items[timetableID], nil
}

type cacheStub struct {
	items map[string][]byte
}

func newCacheStub() *cacheStub {
	return &cacheStub{items: make(map[string][]byte)}
}

func (c *cacheStub) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := c.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *cacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.items[key] = raw
	return nil
}

func (c *cacheStub) Delete(ctx context.Context, key string) error {
	delete(c.items, key)
	return nil
}

type noopTxProvider struct{}

func (noopTxProvider) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return nil, appErrors.Clone(appErrors.ErrInternal, "transaction provider unavailable")
}

type txProviderMock struct {
	db   *sqlx.DB
	mock sqlmock.Sqlmock
}

func newTxProviderMock(t *testing.T) (txProvider, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	t.Cleanup(func() { db.Close() })
	return &txProviderMock{db: sqlxdb, mock: mock}, mock
}

func (t *txProviderMock) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return t.db.BeginTxx(ctx, opts)
}
