package api

import "square-mapper/models"

// MapResponse is the full state of the map
type MapResponse struct {
	Name      string          `json:"name"`
	Width     int             `json:"width"`
	Height    int             `json:"height"`
	InvertRow bool            `json:"invert_row"`
	InvertCol bool            `json:"invert_col"`
	Dump      string          `json:"dump"`
	Cells     [][]models.Cell `json:"cells"`
}

// UpdateCellRequest sets one tile. Tile is a name ("floor") or a tile
// character ("f").
type UpdateCellRequest struct {
	Tile string `json:"tile" binding:"required"`
}

// UpdateCellResponse reports the applied change
type UpdateCellResponse struct {
	Change       models.CellChange `json:"change"`
	PersistError string            `json:"persist_error,omitempty"`
}

// RenameRequest changes the map name
type RenameRequest struct {
	Name string `json:"name" binding:"required"`
}

// DumpResponse carries the canonical dump
type DumpResponse struct {
	Name         string `json:"name"`
	Dump         string `json:"dump"`
	PersistError string `json:"persist_error,omitempty"`
}
