package persistence

import (
	"fmt"
	"os"
	"path/filepath"

	"square-mapper/config"
	"square-mapper/logging"
)

func dataFile(cfg config.Config, name string) (string, error) {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.DataDir, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create data dir: %w", err)
	}
	return path, nil
}

// NewStorage opens the backend selected by cfg.StoreType
func NewStorage(cfg config.Config) (Storage, error) {
	var (
		db  Storage
		err error
	)

	switch cfg.StoreType {
	case "", "text":
		var ts *TextFileStore
		if ts, err = NewTextFileStore(cfg.DataDir); err == nil {
			db = ts
		}
		logging.Info("using text file persistence", "dir", cfg.DataDir)
	case "json":
		var path string
		if path, err = dataFile(cfg, cfg.DBFile); err != nil {
			return nil, err
		}
		var js *JSONStore
		if js, err = NewJSONStore(path); err == nil {
			db = js
		}
		logging.Info("using JSON persistence", "file", path)
	case "postgres":
		var ps *PostgresStore
		if ps, err = NewPostgresStore(cfg.DatabaseURL); err == nil {
			db = ps
		}
		logging.Info("using PostgreSQL persistence")
	case "sqlite":
		var path string
		if path, err = dataFile(cfg, cfg.SQLitePath); err != nil {
			return nil, err
		}
		var ss *SQLiteStore
		if ss, err = NewSQLiteStore(path); err == nil {
			db = ss
		}
		logging.Info("using SQLite persistence", "file", path)
	case "redis":
		var rs *RedisStore
		if rs, err = NewRedisStore(cfg.RedisAddr); err == nil {
			db = rs
		}
		logging.Info("using Redis persistence", "addr", cfg.RedisAddr)
	default:
		return nil, fmt.Errorf("unknown store type %q", cfg.StoreType)
	}

	if err != nil {
		return nil, err
	}
	return db, nil
}
