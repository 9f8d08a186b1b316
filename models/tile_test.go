package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"square-mapper/models"
)

func TestTileKindChars(t *testing.T) {
	t.Run("every kind round-trips through its char", func(t *testing.T) {
		for _, kind := range models.AllTileKinds {
			assert.Equal(t, kind, models.TileKindFromChar(kind.Char()), kind.String())
		}
	})

	t.Run("chars match the dump alphabet", func(t *testing.T) {
		assert.Equal(t, ' ', models.TileNone.Char())
		assert.Equal(t, 'f', models.TileFloor.Char())
		assert.Equal(t, 'd', models.TileDoor.Char())
		assert.Equal(t, 't', models.TileTrap.Char())
		assert.Equal(t, 'w', models.TileWall.Char())
	})

	t.Run("unknown chars decode to none", func(t *testing.T) {
		for _, c := range []rune{'x', 'F', '.', '#', 0} {
			assert.Equal(t, models.TileNone, models.TileKindFromChar(c))
		}
	})
}

func TestTileKindColors(t *testing.T) {
	assert.Equal(t, uint32(0x9DB5B2), models.TileNone.Color())
	assert.Equal(t, uint32(0x0B7A75), models.TileFloor.Color())
	assert.Equal(t, uint32(0x19535F), models.TileDoor.Color())
	assert.Equal(t, uint32(0x7B2D26), models.TileTrap.Color())
	assert.Equal(t, uint32(0xD7C9AA), models.TileWall.Color())

	r, g, b := models.TileTrap.RGB()
	assert.Equal(t, []uint8{0x7B, 0x2D, 0x26}, []uint8{r, g, b})
	assert.Equal(t, "#0B7A75", models.TileFloor.HexColor())

	seen := map[uint32]bool{}
	for _, kind := range models.AllTileKinds {
		assert.False(t, seen[kind.Color()], "duplicate color for %s", kind)
		seen[kind.Color()] = true
	}
}

func TestParseTileKind(t *testing.T) {
	cases := map[string]models.TileKind{
		"none":  models.TileNone,
		"Floor": models.TileFloor,
		"d":     models.TileDoor,
		"trap":  models.TileTrap,
		"w":     models.TileWall,
		" ":     models.TileNone,
	}
	for in, want := range cases {
		got, err := models.ParseTileKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := models.ParseTileKind("lava")
	assert.ErrorIs(t, err, models.ErrUnknownTile)
	_, err = models.ParseTileKind("x")
	assert.ErrorIs(t, err, models.ErrUnknownTile)
}

func TestTileKindJSON(t *testing.T) {
	data, err := json.Marshal(models.Cell{X: 2, Y: 1, Kind: models.TileWall})
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":2,"y":1,"tile":"wall"}`, string(data))

	var cell models.Cell
	require.NoError(t, json.Unmarshal([]byte(`{"x":0,"y":0,"tile":"d"}`), &cell))
	assert.Equal(t, models.TileDoor, cell.Kind)

	assert.Error(t, json.Unmarshal([]byte(`{"tile":"lava"}`), &cell))
}
