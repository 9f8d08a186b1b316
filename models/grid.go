package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// MaxDimension bounds width and height so row labels fit in two digits
const MaxDimension = 99

var (
	ErrOutOfBounds   = errors.New("coordinates out of bounds")
	ErrNotFound      = errors.New("cell not found")
	ErrInvalidConfig = errors.New("invalid grid config")
	ErrMalformedDump = errors.New("malformed map dump")
)

// OutOfBoundsError reports an external coordinate pair whose translated
// internal index falls outside the grid.
type OutOfBoundsError struct {
	X, Y          int // external, as supplied
	Col, Row      int // internal, after translation
	Width, Height int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("coordinates (%d, %d) translate to (%d, %d) outside %dx%d grid",
		e.X, e.Y, e.Col, e.Row, e.Width, e.Height)
}

func (e *OutOfBoundsError) Unwrap() error {
	return ErrOutOfBounds
}

// GridConfig fixes the grid dimensions and origin convention for the
// lifetime of a Grid.
type GridConfig struct {
	Width     int  `json:"width"`
	Height    int  `json:"height"`
	InvertRow bool `json:"invert_row"`
	InvertCol bool `json:"invert_col"`
}

// DefaultGridConfig is the 20x20 map with both origins at the top left
func DefaultGridConfig() GridConfig {
	return GridConfig{Width: 20, Height: 20}
}

// Validate checks the dimensions
func (c GridConfig) Validate() error {
	if c.Width < 1 || c.Width > MaxDimension {
		return fmt.Errorf("%w: width %d not in [1, %d]", ErrInvalidConfig, c.Width, MaxDimension)
	}
	if c.Height < 1 || c.Height > MaxDimension {
		return fmt.Errorf("%w: height %d not in [1, %d]", ErrInvalidConfig, c.Height, MaxDimension)
	}
	return nil
}

// Grid is a fixed-size row-major store of cells. It is not safe for
// concurrent use; services.MapService adds locking.
type Grid struct {
	cfg   GridConfig
	cells [][]Cell
}

// NewGrid creates a grid with every cell set to TileNone
func NewGrid(cfg GridConfig) (*Grid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cells := make([][]Cell, cfg.Height)
	for row := range cells {
		cells[row] = make([]Cell, cfg.Width)
	}
	g := &Grid{cfg: cfg, cells: cells}
	g.Reset()
	return g, nil
}

// Config returns the grid's configuration
func (g *Grid) Config() GridConfig {
	return g.cfg
}

func (g *Grid) Width() int {
	return g.cfg.Width
}

func (g *Grid) Height() int {
	return g.cfg.Height
}

func (g *Grid) inBounds(col, row int) bool {
	return col >= 0 && col < g.cfg.Width && row >= 0 && row < g.cfg.Height
}

// Get returns the cell at internal position (x, y). The coordinates are
// used as given: zero-based, with no inversion applied.
func (g *Grid) Get(x, y int) (Cell, error) {
	if !g.inBounds(x, y) {
		return Cell{}, fmt.Errorf("%w at (%d, %d)", ErrNotFound, x, y)
	}
	return g.cells[y][x], nil
}

// Translate converts 1-based external coordinates into an internal
// (col, row) index using the origin convention.
func (g *Grid) Translate(x, y int) (col, row int, err error) {
	if g.cfg.InvertRow {
		col = g.cfg.Width - x
	} else {
		col = x - 1
	}
	if g.cfg.InvertCol {
		row = g.cfg.Height - y
	} else {
		row = y - 1
	}

	if !g.inBounds(col, row) {
		return col, row, &OutOfBoundsError{
			X: x, Y: y,
			Col: col, Row: row,
			Width: g.cfg.Width, Height: g.cfg.Height,
		}
	}
	return col, row, nil
}

// Update overwrites the tile addressed by external coordinates (x, y).
// It does not persist anything.
func (g *Grid) Update(x, y int, kind TileKind) (CellChange, error) {
	col, row, err := g.Translate(x, y)
	if err != nil {
		return CellChange{}, err
	}

	cell := &g.cells[row][col]
	change := CellChange{Previous: cell.Kind}
	cell.Kind = kind
	change.Cell = *cell
	return change, nil
}

// Reset sets every cell back to TileNone at its canonical position
func (g *Grid) Reset() {
	for row := range g.cells {
		for col := range g.cells[row] {
			g.cells[row][col] = Cell{X: col, Y: row, Kind: TileNone}
		}
	}
}

// Cells returns a copy of the backing rows
func (g *Grid) Cells() [][]Cell {
	out := make([][]Cell, len(g.cells))
	for row := range g.cells {
		out[row] = append([]Cell(nil), g.cells[row]...)
	}
	return out
}

// rowLabel is the label printed in front of internal row i
func (g *Grid) rowLabel(i int) int {
	if g.cfg.InvertRow {
		return g.cfg.Height - i
	}
	return i + 1
}

// FormatCanonical renders the grid as one "NN - [c][c]...[c]" line per
// row, rows in storage order.
func (g *Grid) FormatCanonical() string {
	var sb strings.Builder
	sb.Grow(g.cfg.Height * (5 + 3*g.cfg.Width + 1))

	for i, line := range g.cells {
		fmt.Fprintf(&sb, "%02d - ", g.rowLabel(i))
		for _, cell := range line {
			sb.WriteByte('[')
			sb.WriteRune(cell.Kind.Char())
			sb.WriteByte(']')
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}

// Restore loads tiles from a dump produced by FormatCanonical on a grid
// with the same config. The grid is left untouched on error.
func (g *Grid) Restore(dump string) error {
	lines := strings.Split(strings.TrimSuffix(dump, "\n"), "\n")
	if len(lines) != g.cfg.Height {
		return fmt.Errorf("%w: %d rows, want %d", ErrMalformedDump, len(lines), g.cfg.Height)
	}

	kinds := make([][]TileKind, g.cfg.Height)
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		label, body, ok := strings.Cut(line, " - ")
		if !ok {
			return fmt.Errorf("%w: row %d has no label", ErrMalformedDump, i)
		}
		n, err := strconv.Atoi(label)
		if err != nil || n != g.rowLabel(i) {
			return fmt.Errorf("%w: row %d labelled %q, want %02d", ErrMalformedDump, i, label, g.rowLabel(i))
		}

		row, err := parseRow(body, g.cfg.Width)
		if err != nil {
			return fmt.Errorf("%w: row %d: %v", ErrMalformedDump, i, err)
		}
		kinds[i] = row
	}

	for row := range g.cells {
		for col := range g.cells[row] {
			g.cells[row][col] = Cell{X: col, Y: row, Kind: kinds[row][col]}
		}
	}
	return nil
}

func parseRow(body string, width int) ([]TileKind, error) {
	if utf8.RuneCountInString(body) != 3*width {
		return nil, fmt.Errorf("want %d cells", width)
	}

	runes := []rune(body)
	row := make([]TileKind, width)
	for col := 0; col < width; col++ {
		group := runes[3*col : 3*col+3]
		if group[0] != '[' || group[2] != ']' {
			return nil, fmt.Errorf("cell %d not bracketed", col)
		}
		row[col] = TileKindFromChar(group[1])
	}
	return row, nil
}
