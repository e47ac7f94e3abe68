package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Archive keeps rendered timetable exports on disk under a base directory.
// Files are grouped per timetable, one subdirectory per timetable ID.
type Archive struct {
	baseDir string
}

// NewArchive ensures the base directory exists and returns a handle.
func NewArchive(baseDir string) (*Archive, error) {
	if baseDir == "" {
		baseDir = "./exports"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}
	return &Archive{baseDir: baseDir}, nil
}

// Save writes an export artifact for the given timetable.
func (a *Archive) Save(timetableID, filename string, data []byte) error {
	path := a.resolve(timetableID, filename)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("prepare archive directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write archive file: %w", err)
	}
	return nil
}

// Open reads a stored artifact back.
func (a *Archive) Open(timetableID, filename string) ([]byte, error) {
	data, err := os.ReadFile(a.resolve(timetableID, filename))
	if err != nil {
		return nil, fmt.Errorf("open archive file: %w", err)
	}
	return data, nil
}

// List returns the artifact filenames stored for a timetable, sorted.
func (a *Archive) List(timetableID string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(a.baseDir, timetableID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list archive directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Remove deletes all artifacts stored for a timetable.
func (a *Archive) Remove(timetableID string) error {
	if err := os.RemoveAll(filepath.Join(a.baseDir, timetableID)); err != nil {
		return fmt.Errorf("remove archive directory: %w", err)
	}
	return nil
}

// Sweep removes artifacts older than the retention window and returns deleted paths.
func (a *Archive) Sweep(retention time.Duration) ([]string, error) {
	cutoff := time.Now().Add(-retention)
	deleted := make([]string, 0)
	err := filepath.WalkDir(a.baseDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().After(cutoff) {
			return nil
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		rel, err := filepath.Rel(a.baseDir, path)
		if err != nil {
			rel = path
		}
		deleted = append(deleted, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sweep archive: %w", err)
	}
	return deleted, nil
}

func (a *Archive) resolve(timetableID, filename string) string {
	return filepath.Join(a.baseDir, timetableID, filepath.Base(filename))
}
