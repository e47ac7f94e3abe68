package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/hangil-edu/timetable-api/internal/dto"
	"github.com/hangil-edu/timetable-api/internal/engine"
	"github.com/hangil-edu/timetable-api/internal/models"
	appErrors "github.com/hangil-edu/timetable-api/pkg/errors"
	"github.com/hangil-edu/timetable-api/pkg/export"
)

const latestTimetableCacheKey = "timetable:latest"

type timetableRepository interface {
	CreateVersioned(ctx context.Context, exec sqlx.ExtContext, timetable *models.Timetable) error
	List(ctx context.Context, status models.TimetableStatus, limit, offset int) ([]models.Timetable, int, error)
	FindByID(ctx context.Context, id string) (*models.Timetable, error)
	FindLatestPublished(ctx context.Context) (*models.Timetable, error)
	Delete(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.TimetableStatus, meta types.JSONText) error
}

type timetableSlotRepository interface {
	InsertBatch(ctx context.Context, exec sqlx.ExtContext, slots []models.TimetableSlot) error
	ListByTimetable(ctx context.Context, timetableID string) ([]models.TimetableSlot, error)
}

type timetableCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// LatestTimetable is the cached payload served to schedule consumers.
type LatestTimetable struct {
	Timetable models.Timetable       `json:"timetable"`
	Slots     []models.TimetableSlot `json:"slots"`
}

// TimetableService runs the assignment engine and manages stored timetable
// versions.
type TimetableService struct {
	timetables timetableRepository
	slots      timetableSlotRepository
	cache      timetableCache
	tx         txProvider
	csv        csvRenderer
	pdf        pdfRenderer
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
	store      *proposalStore
	latestTTL  time.Duration
}

// TimetableServiceConfig governs proposal and cache lifetimes.
type TimetableServiceConfig struct {
	ProposalTTL    time.Duration
	LatestCacheTTL time.Duration
}

// NewTimetableService wires timetable dependencies.
func NewTimetableService(
	timetables timetableRepository,
	slots timetableSlotRepository,
	cache timetableCache,
	tx txProvider,
	csv csvRenderer,
	pdf pdfRenderer,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg TimetableServiceConfig,
) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ProposalTTL <= 0 {
		cfg.ProposalTTL = 30 * time.Minute
	}
	if cfg.LatestCacheTTL <= 0 {
		cfg.LatestCacheTTL = 10 * time.Minute
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &TimetableService{
		timetables: timetables,
		slots:      slots,
		cache:      cache,
		tx:         tx,
		csv:        csv,
		pdf:        pdf,
		metrics:    metrics,
		validator:  validate,
		logger:     logger,
		store:      newProposalStore(cfg.ProposalTTL),
		latestTTL:  cfg.LatestCacheTTL,
	}
}

// Generate runs the assignment engine and caches the result as a proposal.
func (s *TimetableService) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable generation payload")
	}

	start := time.Now()
	result, err := engine.Generate(req.ToSlotConfig())
	if err != nil {
		if errors.Is(err, engine.ErrMalformedConstraint) {
			return nil, appErrors.Wrap(err, appErrors.ErrBadConstraint.Code, appErrors.ErrBadConstraint.Status, err.Error())
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "timetable generation failed")
	}
	duration := time.Since(start)
	s.metrics.ObserveGeneration(duration, result.Validation.Metrics.UnfilledSlots, len(result.Validation.Warnings))

	proposal := timetableProposal{
		ProposalID:  uuid.NewString(),
		Request:     req,
		Result:      result,
		RequestedAt: time.Now().UTC(),
	}
	s.store.Save(proposal)

	s.logger.Info("timetable generated",
		zap.String("proposal_id", proposal.ProposalID),
		zap.Duration("duration", duration),
		zap.Int("unfilled_slots", result.Validation.Metrics.UnfilledSlots),
		zap.Bool("valid", result.Validation.IsValid),
	)

	return &dto.GenerateTimetableResponse{
		ProposalID: proposal.ProposalID,
		ThreeDay:   result.ThreeDay,
		TwoDay:     result.TwoDay,
		Validation: result.Validation,
	}, nil
}

// Validate re-checks an edited schedule pair against its configuration.
func (s *TimetableService) Validate(ctx context.Context, req dto.ValidateTimetableRequest) (*engine.ValidationResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable validation payload")
	}
	validation, err := engine.Validate(req.Config.ToSlotConfig(), req.ThreeDay, req.TwoDay)
	if err != nil {
		if errors.Is(err, engine.ErrMalformedConstraint) {
			return nil, appErrors.Wrap(err, appErrors.ErrBadConstraint.Code, appErrors.ErrBadConstraint.Status, err.Error())
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "timetable validation failed")
	}
	return &validation, nil
}

// Save persists a proposal as a versioned timetable, optionally publishing it.
func (s *TimetableService) Save(ctx context.Context, req dto.SaveTimetableRequest) (*dto.SaveTimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid save timetable payload")
	}
	proposal, ok := s.store.Get(req.ProposalID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrProposalExpired, "")
	}
	if !proposal.Result.Validation.IsValid {
		return nil, appErrors.Clone(appErrors.ErrConflict, "proposal contains unresolved validation errors")
	}
	if s.tx == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	metaPayload := map[string]any{
		"metrics":   proposal.Result.Validation.Metrics,
		"options":   proposal.Request.Options,
		"generated": proposal.RequestedAt,
	}
	metaBytes, marshalErr := json.Marshal(metaPayload)
	if marshalErr != nil {
		err = appErrors.Wrap(marshalErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode timetable metadata")
		return nil, err
	}

	record := &models.Timetable{
		Label:  req.Label,
		Status: models.TimetableStatusDraft,
		Meta:   types.JSONText(metaBytes),
	}
	if err = s.timetables.CreateVersioned(ctx, tx, record); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create timetable")
		return nil, err
	}

	slotModels := flattenResult(record.ID, proposal.Result)
	if err = s.slots.InsertBatch(ctx, tx, slotModels); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist timetable slots")
		return nil, err
	}

	if req.Publish {
		if err = s.timetables.UpdateStatus(ctx, tx, record.ID, models.TimetableStatusPublished, nil); err != nil {
			err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to publish timetable")
			return nil, err
		}
		record.Status = models.TimetableStatusPublished
	}

	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit timetable transaction")
		return nil, err
	}

	s.store.Delete(req.ProposalID)

	if req.Publish {
		s.metrics.RecordPublish()
		s.cacheLatest(ctx, *record, slotModels)
	}

	return &dto.SaveTimetableResponse{
		TimetableID: record.ID,
		Version:     record.Version,
		Status:      string(record.Status),
		SlotCount:   len(slotModels),
	}, nil
}

// Publish marks an existing draft as published and refreshes the latest cache.
func (s *TimetableService) Publish(ctx context.Context, timetableID string) error {
	record, err := s.findTimetable(ctx, timetableID)
	if err != nil {
		return err
	}
	if record.Status == models.TimetableStatusPublished {
		return appErrors.Clone(appErrors.ErrPublished, "")
	}
	if err := s.timetables.UpdateStatus(ctx, nil, timetableID, models.TimetableStatusPublished, nil); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to publish timetable")
	}
	s.metrics.RecordPublish()

	record.Status = models.TimetableStatusPublished
	slots, err := s.slots.ListByTimetable(ctx, timetableID)
	if err != nil {
		s.logger.Warn("latest cache refresh skipped", zap.String("timetable_id", timetableID), zap.Error(err))
		return nil
	}
	s.cacheLatest(ctx, *record, slots)
	return nil
}

// List returns stored timetable versions with paging metadata.
func (s *TimetableService) List(ctx context.Context, query dto.TimetableListQuery) ([]models.Timetable, *models.Pagination, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable list query")
	}
	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	timetables, total, err := s.timetables.List(ctx, models.TimetableStatus(query.Status), pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetables")
	}
	return timetables, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// GetSlots returns slot detail for a stored timetable.
func (s *TimetableService) GetSlots(ctx context.Context, timetableID string) ([]models.TimetableSlot, error) {
	if timetableID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "timetable id is required")
	}
	if _, err := s.findTimetable(ctx, timetableID); err != nil {
		return nil, err
	}
	slots, err := s.slots.ListByTimetable(ctx, timetableID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetable slots")
	}
	return slots, nil
}

// Delete removes a draft timetable version.
func (s *TimetableService) Delete(ctx context.Context, timetableID string) error {
	record, err := s.findTimetable(ctx, timetableID)
	if err != nil {
		return err
	}
	if record.Status != models.TimetableStatusDraft {
		return appErrors.Clone(appErrors.ErrPublished, "only draft timetables can be deleted")
	}
	if err := s.timetables.Delete(ctx, timetableID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete timetable")
	}
	return nil
}

// Latest serves the most recently published timetable, cache first.
func (s *TimetableService) Latest(ctx context.Context) (*LatestTimetable, error) {
	if s.cache != nil {
		var cached LatestTimetable
		if err := s.cache.Get(ctx, latestTimetableCacheKey, &cached); err == nil {
			s.metrics.RecordCacheOperation(true)
			return &cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("latest cache read failed", zap.Error(err))
		}
		s.metrics.RecordCacheOperation(false)
	}

	record, err := s.timetables.FindLatestPublished(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no published timetable")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load latest timetable")
	}
	slots, err := s.slots.ListByTimetable(ctx, record.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetable slots")
	}

	latest := &LatestTimetable{Timetable: *record, Slots: slots}
	s.cacheLatest(ctx, *record, slots)
	return latest, nil
}

// ExportCSV renders a stored timetable as CSV bytes.
func (s *TimetableService) ExportCSV(ctx context.Context, timetableID string) ([]byte, string, error) {
	record, slots, err := s.loadForExport(ctx, timetableID)
	if err != nil {
		return nil, "", err
	}
	payload, err := s.csv.Render(slotDataset(slots))
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
	}
	return payload, exportFilename(record, "csv"), nil
}

// ExportPDF renders a stored timetable as a PDF document.
func (s *TimetableService) ExportPDF(ctx context.Context, timetableID string) ([]byte, string, error) {
	record, slots, err := s.loadForExport(ctx, timetableID)
	if err != nil {
		return nil, "", err
	}
	title := fmt.Sprintf("%s v%d", record.Label, record.Version)
	payload, err := s.pdf.Render(slotDataset(slots), title)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
	}
	return payload, exportFilename(record, "pdf"), nil
}

func (s *TimetableService) loadForExport(ctx context.Context, timetableID string) (*models.Timetable, []models.TimetableSlot, error) {
	record, err := s.findTimetable(ctx, timetableID)
	if err != nil {
		return nil, nil, err
	}
	slots, err := s.slots.ListByTimetable(ctx, timetableID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetable slots")
	}
	return record, slots, nil
}

func (s *TimetableService) findTimetable(ctx context.Context, timetableID string) (*models.Timetable, error) {
	if timetableID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "timetable id is required")
	}
	record, err := s.timetables.FindByID(ctx, timetableID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}
	return record, nil
}

func (s *TimetableService) cacheLatest(ctx context.Context, record models.Timetable, slots []models.TimetableSlot) {
	if s.cache == nil {
		return
	}
	payload := LatestTimetable{Timetable: record, Slots: slots}
	if err := s.cache.Set(ctx, latestTimetableCacheKey, payload, s.latestTTL); err != nil {
		s.logger.Warn("latest cache write failed", zap.Error(err))
	}
}

// flattenResult turns the nested engine output into slot rows ordered group,
// day, period, class. Word tests use period 0 and the exam flag.
func flattenResult(timetableID string, result *engine.Result) []models.TimetableSlot {
	var slots []models.TimetableSlot

	groups := []struct {
		group  engine.DayGroup
		result engine.ScheduleResult
	}{
		{engine.GroupThreeDay, result.ThreeDay},
		{engine.GroupTwoDay, result.TwoDay},
	}

	for _, g := range groups {
		for _, day := range g.group.Weekdays() {
			sched, ok := g.result[day]
			if !ok || sched == nil {
				continue
			}
			periods := make([]int, 0, len(sched.Periods))
			for period := range sched.Periods {
				periods = append(periods, period)
			}
			sort.Ints(periods)
			for _, period := range periods {
				for _, a := range sched.Periods[period] {
					slots = append(slots, models.TimetableSlot{
						TimetableID: timetableID,
						DayGroup:    string(g.group),
						Day:         string(day),
						Period:      a.Period,
						ClassID:     a.ClassID,
						TeacherName: a.Teacher,
						Role:        string(a.Role),
						StartTime:   a.Time,
					})
				}
			}
			for _, wt := range sched.WordTests {
				slots = append(slots, models.TimetableSlot{
					TimetableID: timetableID,
					DayGroup:    string(g.group),
					Day:         string(day),
					Period:      0,
					ClassID:     wt.ClassID,
					TeacherName: wt.Teacher,
					Role:        string(wt.Role),
					StartTime:   wt.Time,
					IsExam:      true,
				})
			}
		}
	}
	return slots
}

func slotDataset(slots []models.TimetableSlot) export.Dataset {
	headers := []string{"Group", "Day", "Period", "Time", "Class", "Teacher", "Role", "Type"}
	rows := make([]map[string]string, 0, len(slots))
	for _, slot := range slots {
		kind := "LESSON"
		period := fmt.Sprintf("%d", slot.Period)
		if slot.IsExam {
			kind = "WORD_TEST"
			period = "-"
		}
		rows = append(rows, map[string]string{
			"Group":   slot.DayGroup,
			"Day":     slot.Day,
			"Period":  period,
			"Time":    slot.StartTime,
			"Class":   slot.ClassID,
			"Teacher": slot.TeacherName,
			"Role":    slot.Role,
			"Type":    kind,
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func exportFilename(record *models.Timetable, ext string) string {
	return fmt.Sprintf("timetable-%s-v%d.%s", record.Label, record.Version, ext)
}

// --- Proposal cache ---

type timetableProposal struct {
	ProposalID  string
	Request     dto.GenerateTimetableRequest
	Result      *engine.Result
	RequestedAt time.Time
}

type proposalStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]timetableProposal
}

func newProposalStore(ttl time.Duration) *proposalStore {
	return &proposalStore{
		ttl:   ttl,
		items: make(map[string]timetableProposal),
	}
}

func (s *proposalStore) Save(proposal timetableProposal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[proposal.ProposalID] = proposal
}

func (s *proposalStore) Get(id string) (timetableProposal, bool) {
	s.mu.RLock()
	proposal, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return timetableProposal{}, false
	}
	if time.Since(proposal.RequestedAt) > s.ttl {
		s.Delete(id)
		return timetableProposal{}, false
	}
	return proposal, true
}

func (s *proposalStore) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}
