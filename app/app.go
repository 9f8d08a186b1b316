// Package app wires the configured storage and map service together for
// the command-line entry points.
package app

import (
	"errors"
	"fmt"

	"square-mapper/config"
	"square-mapper/logging"
	"square-mapper/models"
	"square-mapper/persistence"
	"square-mapper/services"
)

// App is an opened map service and the storage behind it
type App struct {
	Config     config.Config
	Storage    persistence.Storage
	MapService *services.MapService
}

// Open creates the storage backend and the map service, then loads the
// stored copy of the map if there is one.
func Open(cfg config.Config) (*App, error) {
	logging.SetLevel(logging.ParseLevel(cfg.LogLevel))

	db, err := persistence.NewStorage(cfg)
	if err != nil {
		return nil, fmt.Errorf("init persistence: %w", err)
	}
	logging.Info("persistence initialized", "store", cfg.StoreType)

	grid, err := models.NewGrid(cfg.Grid())
	if err != nil {
		db.Close()
		return nil, err
	}
	svc, err := services.NewMapService(cfg.MapName, grid, db)
	if err != nil {
		db.Close()
		return nil, err
	}

	switch err := svc.Load(); {
	case err == nil:
	case errors.Is(err, persistence.ErrNotFound):
		logging.Info("starting with an empty map", "map", cfg.MapName)
	default:
		db.Close()
		return nil, fmt.Errorf("load map %q: %w", cfg.MapName, err)
	}

	return &App{Config: cfg, Storage: db, MapService: svc}, nil
}

// Close releases the storage backend
func (a *App) Close() error {
	return a.Storage.Close()
}
