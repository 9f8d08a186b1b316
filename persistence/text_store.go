package persistence

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	"square-mapper/models"
)

// TextFileStore writes each map's canonical dump to "<dir>/<name>.txt".
// Text files carry no header, so loaded snapshots only have Name, Dump
// and UpdatedAt set.
type TextFileStore struct {
	dir string
}

// NewTextFileStore creates the directory if needed
func NewTextFileStore(dir string) (*TextFileStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	return &TextFileStore{dir: dir}, nil
}

// Path returns the file a map name is written to
func (ts *TextFileStore) Path(name string) string {
	return filepath.Join(ts.dir, name+".txt")
}

// SaveMap replaces the file atomically: readers see either the old dump
// or the new one, never a partial write.
func (ts *TextFileStore) SaveMap(name string, snapshot *models.MapSnapshot) error {
	if err := ValidateName(name); err != nil {
		return failure("save", name, err)
	}
	if err := renameio.WriteFile(ts.Path(name), []byte(snapshot.Dump), 0o644); err != nil {
		return failure("save", name, err)
	}
	return nil
}

// LoadMap reads a dump back
func (ts *TextFileStore) LoadMap(name string) (*models.MapSnapshot, error) {
	if err := ValidateName(name); err != nil {
		return nil, failure("load", name, err)
	}

	path := ts.Path(name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, notFound(name)
		}
		return nil, failure("load", name, err)
	}

	snapshot := &models.MapSnapshot{Name: name, Dump: string(data)}
	if info, err := os.Stat(path); err == nil {
		snapshot.UpdatedAt = info.ModTime().UTC()
	}
	return snapshot, nil
}

// Close is a no-op for the text store
func (ts *TextFileStore) Close() error {
	return nil
}
