package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"square-mapper/models"
)

// SQLiteStore persists map snapshots in a single SQLite file
type SQLiteStore struct {
	db *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// NewSQLiteStore opens the database at path and creates the schema
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	_, err = db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS maps (
		name TEXT PRIMARY KEY,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		invert_row INTEGER NOT NULL,
		invert_col INTEGER NOT NULL,
		dump TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	)`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// SaveMap upserts a map snapshot
func (s *SQLiteStore) SaveMap(name string, snapshot *models.MapSnapshot) error {
	if err := ValidateName(name); err != nil {
		return failure("save", name, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	updatedAt := snapshot.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO maps (name, width, height, invert_row, invert_col, dump, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		   width = excluded.width,
		   height = excluded.height,
		   invert_row = excluded.invert_row,
		   invert_col = excluded.invert_col,
		   dump = excluded.dump,
		   updated_at = excluded.updated_at`,
		name, snapshot.Width, snapshot.Height,
		snapshot.InvertRow, snapshot.InvertCol,
		snapshot.Dump, toMillis(updatedAt),
	)
	if err != nil {
		return failure("save", name, err)
	}
	return nil
}

// LoadMap loads a map snapshot by name
func (s *SQLiteStore) LoadMap(name string) (*models.MapSnapshot, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	var (
		snapshot  = models.MapSnapshot{Name: name}
		updatedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT width, height, invert_row, invert_col, dump, updated_at FROM maps WHERE name = ?`,
		name,
	).Scan(
		&snapshot.Width, &snapshot.Height,
		&snapshot.InvertRow, &snapshot.InvertCol,
		&snapshot.Dump, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(name)
		}
		return nil, failure("load", name, err)
	}

	snapshot.UpdatedAt = fromMillis(updatedAt)
	return &snapshot, nil
}

// Close closes the SQLite handle
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
