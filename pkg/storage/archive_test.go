package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestArchiveSaveListOpen(t *testing.T) {
	archive, err := NewArchive(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, archive.Save("tt-1", "timetable-spring-v1.csv", []byte("Group,Day\n")))
	require.NoError(t, archive.Save("tt-1", "timetable-spring-v1.pdf", []byte("%PDF")))

	names, err := archive.List("tt-1")
	require.NoError(t, err)
	require.Equal(t, []string{"timetable-spring-v1.csv", "timetable-spring-v1.pdf"}, names)

	data, err := archive.Open("tt-1", "timetable-spring-v1.csv")
	require.NoError(t, err)
	require.Equal(t, []byte("Group,Day\n"), data)
}

func TestArchiveListMissingTimetable(t *testing.T) {
	archive, err := NewArchive(t.TempDir())
	require.NoError(t, err)

	names, err := archive.List("unknown")
	require.NoError(t, err)
	require.Empty(t, names)
}

func TestArchiveSweepRemovesStaleFiles(t *testing.T) {
	dir := t.TempDir()
	archive, err := NewArchive(dir)
	require.NoError(t, err)

	require.NoError(t, archive.Save("tt-1", "old.csv", []byte("old")))
	require.NoError(t, archive.Save("tt-1", "fresh.csv", []byte("fresh")))

	stale := filepath.Join(dir, "tt-1", "old.csv")
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(stale, past, past))

	deleted, err := archive.Sweep(24 * time.Hour)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join("tt-1", "old.csv")}, deleted)

	names, err := archive.List("tt-1")
	require.NoError(t, err)
	require.Equal(t, []string{"fresh.csv"}, names)
}
