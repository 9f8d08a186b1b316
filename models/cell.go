package models

// Cell is one grid position. X and Y are internal coordinates
// (zero-based, non-inverted) and never change after construction.
type Cell struct {
	X    int      `json:"x"`
	Y    int      `json:"y"`
	Kind TileKind `json:"tile"`
}

// CellChange describes a single applied update
type CellChange struct {
	Cell     Cell     `json:"cell"`
	Previous TileKind `json:"previous"`
}
