package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"square-mapper/logging"
	"square-mapper/models"
)

const dbTimeout = 5 * time.Second

// PostgresStore handles map persistence using PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL storage manager
func NewPostgresStore(connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (ps *PostgresStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS maps (
		name TEXT PRIMARY KEY,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		invert_row BOOLEAN NOT NULL,
		invert_col BOOLEAN NOT NULL,
		dump TEXT NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	`

	_, err := ps.db.ExecContext(ctx, schema)
	return err
}

// SaveMap upserts a map snapshot
func (ps *PostgresStore) SaveMap(name string, snapshot *models.MapSnapshot) error {
	if err := ValidateName(name); err != nil {
		return failure("save", name, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	query := `
	INSERT INTO maps (name, width, height, invert_row, invert_col, dump)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (name)
	DO UPDATE SET
		width = $2, height = $3, invert_row = $4, invert_col = $5, dump = $6,
		updated_at = NOW()
	`

	_, err := ps.db.ExecContext(ctx, query,
		name, snapshot.Width, snapshot.Height,
		snapshot.InvertRow, snapshot.InvertCol, snapshot.Dump)
	if err != nil {
		return failure("save", name, err)
	}

	return nil
}

// LoadMap loads a map snapshot by name
func (ps *PostgresStore) LoadMap(name string) (*models.MapSnapshot, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	query := `SELECT width, height, invert_row, invert_col, dump, updated_at FROM maps WHERE name = $1`

	snapshot := models.MapSnapshot{Name: name}
	err := ps.db.QueryRowContext(ctx, query, name).Scan(
		&snapshot.Width, &snapshot.Height,
		&snapshot.InvertRow, &snapshot.InvertCol,
		&snapshot.Dump, &snapshot.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(name)
		}
		return nil, failure("load", name, err)
	}

	return &snapshot, nil
}

// Close closes the database connection
func (ps *PostgresStore) Close() error {
	logging.Info("closing database connection", "driver", "postgres")
	return ps.db.Close()
}
