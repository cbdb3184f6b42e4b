package merge

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/dungenmap/internal/geom"
	"github.com/samdwyer/dungenmap/internal/tiled"
)

var roomTiles = []tiled.GID{
	1, 2, 2, 2, 3,
	9, 10, 10, 10, 11,
	9, 10, 10, 10, 11,
	9, 10, 10, 10, 11,
	17, 18, 18, 18, 19,
}

func newMap(t *testing.T, w, h int) *tiled.Map {
	t.Helper()
	m, err := tiled.NewMap(w, h, 32, 32)
	require.NoError(t, err)
	return m
}

func roomTemplate(t *testing.T, tilesets ...tiled.TileSetRef) *tiled.Map {
	t.Helper()
	m := newMap(t, 5, 5)
	l := tiled.NewTileLayer(1, "floor", 5, 5, 0)
	copy(l.Data, roomTiles)
	m.Layers = append(m.Layers, l)
	if len(tilesets) == 0 {
		tilesets = []tiled.TileSetRef{{FirstGID: 1, Source: "../tilesets/dungeon.tileset.json"}}
	}
	m.TileSets = tilesets
	return m
}

func TestMergeIntoEmptyMapCopiesTemplate(t *testing.T) {
	dst := newMap(t, 5, 5)
	src := roomTemplate(t)
	m := NewMerger()

	require.NoError(t, m.Merge(dst, src, geom.V(0, 0), 0))

	require.Len(t, dst.Layers, 1)
	assert.Equal(t, roomTiles, dst.Layers[0].Data)
	assert.Len(t, m.DirtyTiles(), 25)
	assert.Equal(t, []tiled.TileSetRef{{FirstGID: 1, Source: "dungeon.tileset.json"}}, dst.TileSets)
	assert.Equal(t, 2, dst.NextLayerID)
	assert.Equal(t, 1, dst.NextObjectID)
}

func TestMergeDisjointRooms(t *testing.T) {
	const empty = tiled.GID(99)
	dst := newMap(t, 10, 6)
	src := roomTemplate(t)
	m := NewMerger()

	require.NoError(t, m.Merge(dst, src, geom.V(0, 0), empty))
	first := m.DirtyTiles()
	require.NoError(t, m.Merge(dst, src, geom.V(160, 0), empty))
	second := m.DirtyTiles()

	assert.Len(t, first, 25)
	assert.Len(t, second, 25, "dirty tiles do not accumulate across calls")
	for _, i := range second {
		assert.NotContains(t, first, i)
	}

	data := dst.Layers[0].Data
	for i := 50; i < 60; i++ {
		assert.Equal(t, empty, data[i], "cell %d outside both rooms", i)
	}
	assert.Equal(t, tiled.GID(1), data[0])
	assert.Equal(t, tiled.GID(1), data[5])
	assert.Equal(t, tiled.GID(19), data[49])
}

func TestMergeWritesExplicitEmptyCells(t *testing.T) {
	dst := newMap(t, 5, 5)
	require.NoError(t, NewMerger().Merge(dst, roomTemplate(t), geom.V(0, 0), 0))

	hole := roomTemplate(t)
	hole.Layers[0].Data[12] = 0
	require.NoError(t, NewMerger().Merge(dst, hole, geom.V(0, 0), 0))

	assert.Equal(t, tiled.GID(0), dst.Layers[0].Data[12])
}

func TestMergeSkipsCellsOutsideDestination(t *testing.T) {
	dst := newMap(t, 5, 5)
	m := NewMerger()

	require.NoError(t, m.Merge(dst, roomTemplate(t), geom.V(128, 0), 7))

	assert.Equal(t, []int{4, 9, 14, 19, 24}, m.DirtyTiles())
	assert.Equal(t, tiled.GID(1), dst.Layers[0].Data[4])
	assert.Equal(t, tiled.GID(7), dst.Layers[0].Data[3])
}

func TestMergeFlattensGroupsAndReusesLayers(t *testing.T) {
	src := roomTemplate(t)
	objects := tiled.NewObjectLayer(2, "spawns", "topdown")
	objects.Objects = append(objects.Objects, &tiled.Object{
		ID: 40, Name: "spawn", X: 8, Y: 16, Rotation: 90, Point: true,
		Polygon:    []tiled.Point{{X: 0, Y: 0}, {X: 4, Y: 4}},
		Properties: []tiled.Property{{Name: "Team", Type: "string", Value: "red"}},
	})
	decor := tiled.NewTileLayer(3, "decor", 5, 5, 0)
	decor.Data[0] = 60
	src.Layers = append(src.Layers, &tiled.Layer{
		ID: 4, Type: tiled.GroupLayer, Layers: []*tiled.Layer{objects, decor},
	})

	dst := newMap(t, 10, 5)
	m := NewMerger()
	require.NoError(t, m.Merge(dst, src, geom.V(0, 0), 0))
	require.NoError(t, m.Merge(dst, src, geom.V(160, 0), 0))

	require.Len(t, dst.Layers, 3)
	assert.Equal(t, tiled.TileLayer, dst.Layers[0].Type)
	assert.Equal(t, tiled.ObjectGroup, dst.Layers[1].Type)
	assert.Equal(t, "topdown", dst.Layers[1].DrawOrder)
	assert.Equal(t, tiled.TileLayer, dst.Layers[2].Type)
	assert.Equal(t, tiled.GID(60), dst.Layers[2].Data[0])
	assert.Equal(t, tiled.GID(60), dst.Layers[2].Data[5])
	assert.Equal(t, 4, dst.NextLayerID)

	objs := dst.Layers[1].Objects
	require.Len(t, objs, 2)
	assert.Equal(t, 1, objs[0].ID)
	assert.Equal(t, 2, objs[1].ID)
	assert.Equal(t, 3, dst.NextObjectID)
	assert.Equal(t, 168.0, objs[1].X)
	assert.Equal(t, 16.0, objs[1].Y)
	assert.Equal(t, 90.0, objs[1].Rotation)
	assert.True(t, objs[1].Point)

	// Copies are deep.
	objs[0].Polygon[1].X = 100
	objs[0].Properties[0].Value = "blue"
	assert.Equal(t, 4.0, objects.Objects[0].Polygon[1].X)
	assert.Equal(t, "red", objects.Objects[0].Properties[0].Value)
	assert.Equal(t, 40, objects.Objects[0].ID)
}

func TestMergeTileSetOrderConflict(t *testing.T) {
	dst := newMap(t, 5, 5)
	require.NoError(t, NewMerger().Merge(dst, roomTemplate(t,
		tiled.TileSetRef{FirstGID: 1, Source: "b.tileset.json"}), geom.V(0, 0), 0))
	before := slices.Clone(dst.TileSets)
	beforeData := slices.Clone(dst.Layers[0].Data)

	src := roomTemplate(t,
		tiled.TileSetRef{FirstGID: 1, Source: "a.tileset.json"},
		tiled.TileSetRef{FirstGID: 50, Source: "maps/b.tileset.json"})
	src.Layers[0].Data[0] = 77

	err := NewMerger().Merge(dst, src, geom.V(0, 0), 0)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTileSetOrder))
	assert.True(t, errors.Is(err, tiled.ErrValidation))
	var orderErr *TileSetOrderError
	require.True(t, errors.As(err, &orderErr))
	assert.Equal(t, before, dst.TileSets)
	assert.Equal(t, beforeData, dst.Layers[0].Data, "a rejected template writes nothing")
}

func TestMergeTileSetsStaySorted(t *testing.T) {
	a := tiled.TileSetRef{FirstGID: 1, Source: "/home/me/a.tileset.json"}
	b := tiled.TileSetRef{FirstGID: 200, Source: `C:\art\b.tileset.json`}

	dst := newMap(t, 5, 5)
	m := NewMerger()
	require.NoError(t, m.Merge(dst, roomTemplate(t, a), geom.V(0, 0), 0))
	require.NoError(t, m.Merge(dst, roomTemplate(t, a, b), geom.V(0, 0), 0))
	require.NoError(t, m.Merge(dst, roomTemplate(t, a), geom.V(0, 0), 0))

	assert.Equal(t, []tiled.TileSetRef{
		{FirstGID: 1, Source: "a.tileset.json"},
		{FirstGID: 200, Source: "b.tileset.json"},
	}, dst.TileSets)

	// Same tileset, same position, different firstgid.
	err := m.Merge(dst, roomTemplate(t, a, tiled.TileSetRef{FirstGID: 300, Source: "b.tileset.json"}), geom.V(0, 0), 0)
	assert.ErrorIs(t, err, ErrTileSetOrder)

	// A new tileset must not sort before the last one.
	err = m.Merge(dst, roomTemplate(t, a, b, tiled.TileSetRef{FirstGID: 150, Source: "c.tileset.json"}), geom.V(0, 0), 0)
	assert.ErrorIs(t, err, ErrTileSetOrder)

	assert.True(t, slices.IsSortedFunc(dst.TileSets, func(x, y tiled.TileSetRef) int {
		return int(x.FirstGID) - int(y.FirstGID)
	}))
	assert.Len(t, dst.TileSets, 2)
}
