package models

import "time"

// MapSnapshot is the persisted form of a map: the canonical dump plus
// enough configuration to restore it.
type MapSnapshot struct {
	Name      string    `json:"name"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	InvertRow bool      `json:"invert_row"`
	InvertCol bool      `json:"invert_col"`
	Dump      string    `json:"dump"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewMapSnapshot captures the grid's current state under name
func NewMapSnapshot(name string, g *Grid) *MapSnapshot {
	cfg := g.Config()
	return &MapSnapshot{
		Name:      name,
		Width:     cfg.Width,
		Height:    cfg.Height,
		InvertRow: cfg.InvertRow,
		InvertCol: cfg.InvertCol,
		Dump:      g.FormatCanonical(),
		UpdatedAt: time.Now().UTC(),
	}
}

// Config returns the grid config the snapshot was taken with
func (s *MapSnapshot) Config() GridConfig {
	return GridConfig{
		Width:     s.Width,
		Height:    s.Height,
		InvertRow: s.InvertRow,
		InvertCol: s.InvertCol,
	}
}
