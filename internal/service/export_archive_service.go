package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hangil-edu/timetable-api/internal/dto"
	appErrors "github.com/hangil-edu/timetable-api/pkg/errors"
	"github.com/hangil-edu/timetable-api/pkg/jobs"
)

const (
	taskKindArchive = "archive"
	taskKindSweep   = "sweep"
)

type exportRenderer interface {
	ExportCSV(ctx context.Context, id string) ([]byte, string, error)
	ExportPDF(ctx context.Context, id string) ([]byte, string, error)
}

type archiveStore interface {
	Save(timetableID, filename string, data []byte) error
	Open(timetableID, filename string) ([]byte, error)
	List(timetableID string) ([]string, error)
	Sweep(retention time.Duration) ([]string, error)
}

type linkSigner interface {
	Issue(timetableID, filename string) (string, time.Time, error)
	Verify(token string) (timetableID, filename string, err error)
}

// ExportArchiveConfig tunes the background archive workers.
type ExportArchiveConfig struct {
	Workers       int
	Retention     time.Duration
	SweepInterval time.Duration
}

// ExportArchiveService renders timetable exports in the background, keeps
// them on disk and hands out signed download links.
type ExportArchiveService struct {
	renderer  exportRenderer
	archive   archiveStore
	signer    linkSigner
	queue     *jobs.Queue
	logger    *zap.Logger
	retention time.Duration
	sweepTick time.Duration

	sweepStop chan struct{}
}

// NewExportArchiveService wires the archive pipeline together.
func NewExportArchiveService(
	renderer exportRenderer,
	archive archiveStore,
	signer linkSigner,
	logger *zap.Logger,
	cfg ExportArchiveConfig,
) *ExportArchiveService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 14 * 24 * time.Hour
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Hour
	}

	s := &ExportArchiveService{
		renderer:  renderer,
		archive:   archive,
		signer:    signer,
		logger:    logger,
		retention: cfg.Retention,
		sweepTick: cfg.SweepInterval,
		sweepStop: make(chan struct{}),
	}
	s.queue = jobs.NewQueue("export-archive", s.process, jobs.Options{
		Workers: cfg.Workers,
		Logger:  logger,
	})
	return s
}

// Start launches the workers and the periodic retention sweep.
func (s *ExportArchiveService) Start(ctx context.Context) {
	s.queue.Start(ctx)
	go s.sweepLoop(ctx)
}

// Stop drains the workers.
func (s *ExportArchiveService) Stop() {
	close(s.sweepStop)
	s.queue.Stop()
}

// EnqueueArchive schedules CSV and PDF rendering for a stored timetable.
func (s *ExportArchiveService) EnqueueArchive(timetableID string) error {
	if timetableID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "timetable id is required")
	}
	task := jobs.Task{ID: uuid.NewString(), Kind: taskKindArchive, Ref: timetableID}
	if err := s.queue.Submit(task); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to schedule export archiving")
	}
	return nil
}

// Archive renders and stores both export formats for a timetable.
func (s *ExportArchiveService) Archive(ctx context.Context, timetableID string) error {
	csvData, csvName, err := s.renderer.ExportCSV(ctx, timetableID)
	if err != nil {
		return err
	}
	if err := s.archive.Save(timetableID, csvName, csvData); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to archive csv export")
	}

	pdfData, pdfName, err := s.renderer.ExportPDF(ctx, timetableID)
	if err != nil {
		return err
	}
	if err := s.archive.Save(timetableID, pdfName, pdfData); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to archive pdf export")
	}

	s.logger.Sugar().Infow("exports archived", "timetable_id", timetableID, "files", []string{csvName, pdfName})
	return nil
}

// Links issues signed download tokens for the archived artifacts of a timetable.
func (s *ExportArchiveService) Links(ctx context.Context, timetableID string) ([]dto.ExportLink, error) {
	names, err := s.archive.List(timetableID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to list archived exports")
	}
	if len(names) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no archived exports for this timetable")
	}

	links := make([]dto.ExportLink, 0, len(names))
	for _, name := range names {
		token, expiresAt, err := s.signer.Issue(timetableID, name)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to sign download link")
		}
		links = append(links, dto.ExportLink{
			Filename:  name,
			Token:     token,
			ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
		})
	}
	return links, nil
}

// Open verifies a download token and returns the artifact with its content type.
func (s *ExportArchiveService) Open(token string) ([]byte, string, string, error) {
	timetableID, filename, err := s.signer.Verify(token)
	if err != nil {
		return nil, "", "", appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid download token")
	}
	data, err := s.archive.Open(timetableID, filename)
	if err != nil {
		return nil, "", "", appErrors.Clone(appErrors.ErrNotFound, "archived export not found")
	}
	return data, filename, contentTypeFor(filename), nil
}

func (s *ExportArchiveService) process(ctx context.Context, task jobs.Task) error {
	switch task.Kind {
	case taskKindArchive:
		return s.Archive(ctx, task.Ref)
	case taskKindSweep:
		deleted, err := s.archive.Sweep(s.retention)
		if err != nil {
			return err
		}
		if len(deleted) > 0 {
			s.logger.Sugar().Infow("stale exports removed", "count", len(deleted))
		}
		return nil
	default:
		s.logger.Sugar().Warnw("unknown task kind", "kind", task.Kind)
		return nil
	}
}

func (s *ExportArchiveService) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(s.sweepTick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.sweepStop:
			return
		case <-ticker.C:
			task := jobs.Task{ID: uuid.NewString(), Kind: taskKindSweep}
			if err := s.queue.Submit(task); err != nil {
				return
			}
		}
	}
}

func contentTypeFor(filename string) string {
	switch {
	case strings.HasSuffix(filename, ".csv"):
		return "text/csv"
	case strings.HasSuffix(filename, ".pdf"):
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
