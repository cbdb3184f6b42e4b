package tiled

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/dungenmap/internal/geom"
)

func newTestMap(t *testing.T) *Map {
	t.Helper()
	m, err := NewMap(5, 5, 32, 32)
	require.NoError(t, err)
	l := NewTileLayer(1, "tile map layer 1", 5, 5, 0)
	copy(l.Data, []GID{
		1, 2, 2, 2, 3,
		9, 10, 10, 10, 11,
		9, 10, 10, 10, 11,
		9, 10, 10, 10, 11,
		17, 18, 18, 18, 19,
	})
	m.Layers = append(m.Layers, l)
	return m
}

func TestTileIndexAt(t *testing.T) {
	m := newTestMap(t)

	tests := []struct {
		pos  geom.Vec2
		want int
	}{
		{geom.V(10, 50), 5},
		{geom.V(0, 0), 0},
		{geom.V(120, 0), 3},
		{geom.V(159, 159), 24},
	}
	for _, tt := range tests {
		got, ok := m.TileIndexAt(tt.pos)
		require.True(t, ok, "position %v should be inside the map", tt.pos)
		assert.Equal(t, tt.want, got, "TileIndexAt(%v)", tt.pos)
	}
}

func TestTileIndexAtOutside(t *testing.T) {
	m := newTestMap(t)

	for _, pos := range []geom.Vec2{geom.V(-1, 0), geom.V(0, -1), geom.V(160, 0), geom.V(0, 160)} {
		_, ok := m.TileIndexAt(pos)
		assert.False(t, ok, "position %v should be outside the map", pos)
	}
}

func TestTilePosition(t *testing.T) {
	m := newTestMap(t)

	assert.Equal(t, geom.V(0, 32), m.TilePosition(5))
	assert.Equal(t, geom.V(0, 0), m.TilePosition(0))
	assert.Equal(t, geom.V(128, 128), m.TilePosition(24))
}

func TestTilePositionNonSquare(t *testing.T) {
	m, err := NewMap(8, 2, 16, 32)
	require.NoError(t, err)

	// Row is derived from the map width, not its height.
	assert.Equal(t, geom.V(16, 32), m.TilePosition(9))
}

func TestNewMapRejectsZeroDimensions(t *testing.T) {
	_, err := NewMap(0, 5, 32, 32)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = NewMap(5, 5, 32, 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGIDFlags(t *testing.T) {
	g := GID(4).With(FlippedHorizontally)
	assert.Equal(t, GID(2147483652), g)
	assert.Equal(t, GID(4), g.ID())
	assert.Equal(t, FlippedHorizontally, g.Flags())
	assert.True(t, g.Has(FlippedHorizontally))
	assert.False(t, g.Has(FlippedHorizontally|FlippedDiagonally))

	g = g.With(FlippedDiagonally)
	assert.True(t, g.Has(FlippedHorizontally|FlippedDiagonally))
	assert.True(t, GID(0).With(FlippedVertically).IsEmpty())
}

func TestDecodeMapWithFlippedTiles(t *testing.T) {
	raw := `{
		"type": "map", "orientation": "orthogonal", "renderorder": "right-down",
		"width": 2, "height": 1, "tilewidth": 32, "tileheight": 32,
		"layers": [
			{"id": 1, "name": "floor", "type": "tilelayer", "width": 2, "height": 1,
			 "data": [2147483652, 7], "visible": true, "opacity": 1},
			{"id": 2, "name": "decor", "type": "group", "layers": [
				{"id": 3, "name": "spawns", "type": "objectgroup", "draworder": "topdown",
				 "objects": [{"id": 1, "name": "spawn", "type": "", "x": 8, "y": 8,
				              "polygon": [{"x": 0, "y": 0}, {"x": 4, "y": 0}, {"x": 0, "y": 4}],
				              "properties": [{"name": "Boss", "type": "bool", "value": true}]}]}
			]}
		],
		"tilesets": [{"firstgid": 1, "source": "../tilesets/dungeon.tileset.json"}]
	}`

	var m Map
	require.NoError(t, json.Unmarshal([]byte(raw), &m))

	require.Len(t, m.Layers, 2)
	assert.Equal(t, GID(4), m.Layers[0].Data[0].ID())
	assert.True(t, m.Layers[0].Data[0].Has(FlippedHorizontally))
	assert.Equal(t, GroupLayer, m.Layers[1].Type)

	obj := m.Layers[1].Layers[0].Objects[0]
	assert.Len(t, obj.Polygon, 3)
	assert.Equal(t, "true", obj.Properties[0].String())
	assert.Equal(t, "dungeon.tileset.json", m.TileSets[0].Basename())
}

func TestPropertyConversions(t *testing.T) {
	assert.Equal(t, "Door", Property{Value: "Door"}.String())
	assert.Equal(t, "3", Property{Value: float64(3)}.String())
	assert.Equal(t, "", Property{}.String())

	b, err := Property{Value: "true"}.Bool()
	require.NoError(t, err)
	assert.True(t, b)

	_, err = Property{Name: "IsFirst", Value: float64(1)}.Bool()
	assert.Error(t, err)
}

func TestBasename(t *testing.T) {
	assert.Equal(t, "a.tileset.json", Basename(`C:\maps\a.tileset.json`))
	assert.Equal(t, "a.tileset.json", Basename("../a.tileset.json"))
	assert.Equal(t, "a.tileset.json", Basename("a.tileset.json"))
}

func TestFingerprint(t *testing.T) {
	a := newTestMap(t)
	b := newTestMap(t)
	assert.Equal(t, Fingerprint(a), Fingerprint(b))

	b.Layers[0].Data[12] = 10 | FlippedVertically
	assert.NotEqual(t, Fingerprint(a), Fingerprint(b))
}

func TestSetProperty(t *testing.T) {
	m := newTestMap(t)
	m.SetProperty("buildId", "a")
	m.SetProperty("buildId", "b")

	p, ok := m.Property("buildId")
	require.True(t, ok)
	assert.Equal(t, "b", p.String())
	assert.Len(t, m.Properties, 1)
}
