package services

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"square-mapper/logging"
	"square-mapper/models"
	"square-mapper/persistence"
)

// ErrIncompatibleMap is returned by Load when the stored map was saved
// with a different size or origin convention.
var ErrIncompatibleMap = errors.New("stored map is incompatible")

// PersistError reports a change that was applied in memory but could not
// be saved. The change is kept; Persist can be called again later.
type PersistError struct {
	Name string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("map %q changed but was not saved: %v", e.Name, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// EventType names the kind of change a listener is told about
type EventType string

const (
	EventCellChanged EventType = "cell_changed"
	EventReset       EventType = "reset"
	EventRenamed     EventType = "renamed"
	EventLoaded      EventType = "loaded"
)

// Event is delivered to listeners after a change has been applied
type Event struct {
	Type   EventType          `json:"type"`
	Name   string             `json:"name"`
	Change *models.CellChange `json:"change,omitempty"`
}

// MapService owns the map being edited and writes it through to storage
// after every change.
type MapService struct {
	name      string
	grid      *models.Grid
	db        persistence.Storage
	listeners []func(Event)
	mutex     sync.RWMutex
}

// NewMapService creates a map service for grid, saved under name
func NewMapService(name string, grid *models.Grid, db persistence.Storage) (*MapService, error) {
	if err := persistence.ValidateName(name); err != nil {
		return nil, err
	}
	if grid == nil {
		return nil, errors.New("grid is required")
	}
	if db == nil {
		return nil, errors.New("storage is required")
	}

	return &MapService{
		name: name,
		grid: grid,
		db:   db,
	}, nil
}

// OnChange registers fn to be called after every applied change
func (ms *MapService) OnChange(fn func(Event)) {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	ms.listeners = append(ms.listeners, fn)
}

func (ms *MapService) notify(ev Event) {
	ms.mutex.RLock()
	listeners := slices.Clone(ms.listeners)
	ms.mutex.RUnlock()

	for _, fn := range listeners {
		fn(ev)
	}
}

// Name returns the current map name
func (ms *MapService) Name() string {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()

	return ms.name
}

// Config returns the grid configuration
func (ms *MapService) Config() models.GridConfig {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()

	return ms.grid.Config()
}

// Get reads the cell at internal position (x, y)
func (ms *MapService) Get(x, y int) (models.Cell, error) {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()

	return ms.grid.Get(x, y)
}

// Format returns the canonical dump
func (ms *MapService) Format() string {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()

	return ms.grid.FormatCanonical()
}

// Cells returns a copy of every cell
func (ms *MapService) Cells() [][]models.Cell {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()

	return ms.grid.Cells()
}

// Snapshot captures the current state as it would be persisted
func (ms *MapService) Snapshot() *models.MapSnapshot {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()

	return models.NewMapSnapshot(ms.name, ms.grid)
}

// Update writes kind at external coordinates (x, y) and persists the map.
// Out-of-bounds coordinates leave the map untouched. A *PersistError
// means the change was applied but not saved; the change is still returned.
func (ms *MapService) Update(x, y int, kind models.TileKind) (models.CellChange, error) {
	ms.mutex.Lock()
	change, err := ms.grid.Update(x, y, kind)
	if err != nil {
		ms.mutex.Unlock()
		return models.CellChange{}, err
	}
	name := ms.name
	perr := ms.persistLocked()
	ms.mutex.Unlock()

	logging.Debug("cell updated",
		"map", name, "x", x, "y", y,
		"col", change.Cell.X, "row", change.Cell.Y, "tile", kind)
	ms.notify(Event{Type: EventCellChanged, Name: name, Change: &change})

	if perr != nil {
		return change, perr
	}
	return change, nil
}

// Reset clears every cell and persists the empty map
func (ms *MapService) Reset() error {
	ms.mutex.Lock()
	ms.grid.Reset()
	name := ms.name
	perr := ms.persistLocked()
	ms.mutex.Unlock()

	logging.Info("map reset", "map", name)
	ms.notify(Event{Type: EventReset, Name: name})

	if perr != nil {
		return perr
	}
	return nil
}

// Rename changes the map name and saves the map under the new name.
// Whatever was saved under the old name is left alone.
func (ms *MapService) Rename(name string) error {
	if err := persistence.ValidateName(name); err != nil {
		return err
	}

	ms.mutex.Lock()
	old := ms.name
	ms.name = name
	perr := ms.persistLocked()
	ms.mutex.Unlock()

	logging.Info("map renamed", "from", old, "to", name)
	ms.notify(Event{Type: EventRenamed, Name: name})

	if perr != nil {
		return perr
	}
	return nil
}

// Persist saves the current state. It is the retry path after a
// PersistError.
func (ms *MapService) Persist() error {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	if perr := ms.persistLocked(); perr != nil {
		return perr
	}
	return nil
}

// persistLocked must be called with the write lock held. Only convert
// the result to error when it is non-nil.
func (ms *MapService) persistLocked() *PersistError {
	snapshot := models.NewMapSnapshot(ms.name, ms.grid)
	if err := ms.db.SaveMap(ms.name, snapshot); err != nil {
		logging.Warn("failed to persist map", "map", ms.name, "err", err)
		return &PersistError{Name: ms.name, Err: err}
	}
	return nil
}

// Load replaces the grid contents with the map stored under the current
// name. persistence.ErrNotFound is returned when nothing was stored yet.
func (ms *MapService) Load() error {
	ms.mutex.Lock()
	name := ms.name
	snapshot, err := ms.db.LoadMap(name)
	if err != nil {
		ms.mutex.Unlock()
		return err
	}

	// text stores don't record the config
	if snapshot.Width != 0 && snapshot.Config() != ms.grid.Config() {
		ms.mutex.Unlock()
		return fmt.Errorf("%w: %q was saved as %+v", ErrIncompatibleMap, name, snapshot.Config())
	}
	if err := ms.grid.Restore(snapshot.Dump); err != nil {
		ms.mutex.Unlock()
		return fmt.Errorf("%w: %w", ErrIncompatibleMap, err)
	}
	ms.mutex.Unlock()

	logging.Info("map loaded", "map", name, "saved_at", snapshot.UpdatedAt)
	ms.notify(Event{Type: EventLoaded, Name: name})
	return nil
}
