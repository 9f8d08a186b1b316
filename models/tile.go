package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// TileKind is the categorical state of one grid cell
type TileKind int

const (
	TileNone TileKind = iota
	TileFloor
	TileDoor
	TileTrap
	TileWall
)

// ErrUnknownTile is returned by the strict tile parser
var ErrUnknownTile = errors.New("unknown tile")

// AllTileKinds lists every tile kind in declaration order
var AllTileKinds = []TileKind{TileNone, TileFloor, TileDoor, TileTrap, TileWall}

var tileChars = map[TileKind]rune{
	TileNone:  ' ',
	TileFloor: 'f',
	TileDoor:  'd',
	TileTrap:  't',
	TileWall:  'w',
}

var charTiles = map[rune]TileKind{
	' ': TileNone,
	'f': TileFloor,
	'd': TileDoor,
	't': TileTrap,
	'w': TileWall,
}

// Display colors as 24-bit RGB
var tileColors = map[TileKind]uint32{
	TileNone:  0x9DB5B2, // ash grey
	TileFloor: 0x0B7A75, // skobeloff
	TileDoor:  0x19535F, // midnight green
	TileTrap:  0x7B2D26, // falu red
	TileWall:  0xD7C9AA, // dun
}

var tileNames = map[TileKind]string{
	TileNone:  "none",
	TileFloor: "floor",
	TileDoor:  "door",
	TileTrap:  "trap",
	TileWall:  "wall",
}

// TileKindFromChar decodes a serialized tile character.
// Characters outside the tile alphabet decode to TileNone.
func TileKindFromChar(c rune) TileKind {
	if kind, ok := charTiles[c]; ok {
		return kind
	}
	return TileNone
}

// ParseTileKind accepts either a tile name ("floor") or its single
// character code ("f"). Unlike TileKindFromChar it rejects anything else.
func ParseTileKind(s string) (TileKind, error) {
	lower := strings.ToLower(s)
	for kind, name := range tileNames {
		if lower == name {
			return kind, nil
		}
	}
	if utf8.RuneCountInString(s) == 1 {
		r, _ := utf8.DecodeRuneInString(s)
		if kind, ok := charTiles[r]; ok {
			return kind, nil
		}
	}
	return TileNone, fmt.Errorf("%w: %q", ErrUnknownTile, s)
}

// Char returns the serialization character for the tile
func (k TileKind) Char() rune {
	if c, ok := tileChars[k]; ok {
		return c
	}
	return tileChars[TileNone]
}

// Color returns the display color as 0xRRGGBB
func (k TileKind) Color() uint32 {
	if c, ok := tileColors[k]; ok {
		return c
	}
	return tileColors[TileNone]
}

// RGB splits Color into its components
func (k TileKind) RGB() (r, g, b uint8) {
	c := k.Color()
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// HexColor returns the color in "#RRGGBB" form
func (k TileKind) HexColor() string {
	return fmt.Sprintf("#%06X", k.Color())
}

func (k TileKind) String() string {
	if name, ok := tileNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TileKind(%d)", int(k))
}

// MarshalJSON encodes the tile as its name
func (k TileKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON accepts the same forms as ParseTileKind
func (k *TileKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	kind, err := ParseTileKind(s)
	if err != nil {
		return err
	}
	*k = kind
	return nil
}
