package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/google/renameio/v2"

	"square-mapper/models"
)

// JSONStore keeps every map snapshot in a single local JSON file
type JSONStore struct {
	filePath string
	mutex    sync.RWMutex
	data     *JSONData
}

// JSONData represents the structure of the JSON database
type JSONData struct {
	Maps map[string]*models.MapSnapshot `json:"maps"`
}

// NewJSONStore creates a new JSON storage manager
func NewJSONStore(filePath string) (*JSONStore, error) {
	store := &JSONStore{
		filePath: filePath,
		data: &JSONData{
			Maps: make(map[string]*models.MapSnapshot),
		},
	}

	// Load existing data if file exists
	if _, err := os.Stat(filePath); err == nil {
		if err := store.loadFromFile(); err != nil {
			return nil, fmt.Errorf("failed to load JSON store: %w", err)
		}
	} else {
		if err := store.saveToFile(); err != nil {
			return nil, fmt.Errorf("failed to create JSON store file: %w", err)
		}
	}

	return store, nil
}

func (js *JSONStore) loadFromFile() error {
	js.mutex.Lock()
	defer js.mutex.Unlock()

	file, err := os.ReadFile(js.filePath)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(file, js.data); err != nil {
		return err
	}
	if js.data.Maps == nil {
		js.data.Maps = make(map[string]*models.MapSnapshot)
	}
	return nil
}

// saveToFile must be called with the write lock held so that documents
// reach the disk in the order the maps were changed.
func (js *JSONStore) saveToFile() error {
	data, err := json.MarshalIndent(js.data, "", "  ")
	if err != nil {
		return err
	}

	return renameio.WriteFile(js.filePath, data, 0o644)
}

// SaveMap stores a copy of the snapshot under name
func (js *JSONStore) SaveMap(name string, snapshot *models.MapSnapshot) error {
	if err := ValidateName(name); err != nil {
		return failure("save", name, err)
	}

	stored := *snapshot
	stored.Name = name

	js.mutex.Lock()
	defer js.mutex.Unlock()

	js.data.Maps[name] = &stored
	if err := js.saveToFile(); err != nil {
		return failure("save", name, err)
	}
	return nil
}

// LoadMap loads a map by name
func (js *JSONStore) LoadMap(name string) (*models.MapSnapshot, error) {
	js.mutex.RLock()
	defer js.mutex.RUnlock()

	snapshot, exists := js.data.Maps[name]
	if !exists {
		return nil, notFound(name)
	}

	out := *snapshot
	return &out, nil
}

// Close closes the store (no-op for JSON store)
func (js *JSONStore) Close() error {
	return nil
}
