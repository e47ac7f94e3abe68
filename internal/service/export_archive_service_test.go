package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appErrors "github.com/hangil-edu/timetable-api/pkg/errors"
	"github.com/hangil-edu/timetable-api/pkg/storage"
)

type rendererStub struct {
	csvCalls int
	pdfCalls int
}

func (r *rendererStub) ExportCSV(ctx context.Context, id string) ([]byte, string, error) {
	r.csvCalls++
	return []byte("Group,Day\n"), "timetable-spring-v1.csv", nil
}

func (r *rendererStub) ExportPDF(ctx context.Context, id string) ([]byte, string, error) {
	r.pdfCalls++
	return []byte("%PDF"), "timetable-spring-v1.pdf", nil
}

func newArchiveServiceFixture(t *testing.T) (*ExportArchiveService, *rendererStub) {
	t.Helper()
	archive, err := storage.NewArchive(t.TempDir())
	require.NoError(t, err)
	renderer := &rendererStub{}
	svc := NewExportArchiveService(
		renderer,
		archive,
		storage.NewLinkSigner("secret", time.Hour),
		zap.NewNop(),
		ExportArchiveConfig{Workers: 1},
	)
	return svc, renderer
}

func TestExportArchiveServiceArchiveLinksOpen(t *testing.T) {
	svc, renderer := newArchiveServiceFixture(t)

	require.NoError(t, svc.Archive(context.Background(), "tt-1"))
	assert.Equal(t, 1, renderer.csvCalls)
	assert.Equal(t, 1, renderer.pdfCalls)

	links, err := svc.Links(context.Background(), "tt-1")
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "timetable-spring-v1.csv", links[0].Filename)

	data, filename, contentType, err := svc.Open(links[0].Token)
	require.NoError(t, err)
	assert.Equal(t, []byte("Group,Day\n"), data)
	assert.Equal(t, "timetable-spring-v1.csv", filename)
	assert.Equal(t, "text/csv", contentType)
}

func TestExportArchiveServiceLinksWithoutArtifacts(t *testing.T) {
	svc, _ := newArchiveServiceFixture(t)

	_, err := svc.Links(context.Background(), "tt-unknown")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestExportArchiveServiceOpenRejectsBadToken(t *testing.T) {
	svc, _ := newArchiveServiceFixture(t)

	_, _, _, err := svc.Open("not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportArchiveServiceEnqueueProcessesInBackground(t *testing.T) {
	svc, _ := newArchiveServiceFixture(t)

	svc.Start(context.Background())
	defer svc.Stop()

	require.NoError(t, svc.EnqueueArchive("tt-1"))

	deadline := time.Now().Add(2 * time.Second)
	for {
		links, err := svc.Links(context.Background(), "tt-1")
		if err == nil && len(links) == 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("archive task did not complete in time")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestExportArchiveServiceEnqueueRequiresID(t *testing.T) {
	svc, _ := newArchiveServiceFixture(t)
	require.Error(t, svc.EnqueueArchive(""))
}
