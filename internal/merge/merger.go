// Package merge composes room templates into a destination map.
package merge

import (
	"errors"
	"fmt"
	"slices"

	"github.com/zyedidia/generic/mapset"

	"github.com/samdwyer/dungenmap/internal/geom"
	"github.com/samdwyer/dungenmap/internal/tiled"
)

// ErrTileSetOrder is returned when two templates reference equivalent
// tilesets at different positions; a local tile id would resolve to a
// different GID in each.
var ErrTileSetOrder = fmt.Errorf("%w: templates reference tile sets in a different order", tiled.ErrValidation)

// TileSetOrderError describes the offending tileset reference.
type TileSetOrderError struct {
	Source   string
	Position int // index in the template's tileset list
	Existing int // index in the destination, -1 if absent
	FirstGID tiled.GID
}

func (e *TileSetOrderError) Error() string {
	if e.Existing < 0 {
		return fmt.Sprintf("tile set %s (firstgid %d) at position %d would not be appended at the end of the destination",
			e.Source, e.FirstGID, e.Position)
	}
	return fmt.Sprintf("tile set %s (firstgid %d) at position %d is already registered at position %d",
		e.Source, e.FirstGID, e.Position, e.Existing)
}

func (e *TileSetOrderError) Unwrap() error { return ErrTileSetOrder }

// Merger writes templates into a destination map. One merger serves one
// build: object ids keep counting across every Merge call, while the dirty
// tile set only covers the latest call.
type Merger struct {
	dirty   mapset.Set[int]
	objects int
}

// NewMerger creates a merger with fresh counters.
func NewMerger() *Merger {
	return &Merger{dirty: mapset.New[int]()}
}

// DirtyTiles returns the destination tile indices written by the last Merge,
// in ascending order.
func (m *Merger) DirtyTiles() []int {
	tiles := make([]int, 0, m.dirty.Size())
	m.dirty.Each(func(i int) {
		tiles = append(tiles, i)
	})
	slices.Sort(tiles)
	return tiles
}

// ObjectCount returns how many objects have been copied so far.
func (m *Merger) ObjectCount() int {
	return m.objects
}

// Merge writes src into dst with src's top-left corner at anchor (pixels,
// right-down). Tile layers and object layers are matched against dst layers
// in order, groups are flattened, and missing layers are created with every
// cell set to emptyGID. dst is left untouched when the tilesets conflict.
func (m *Merger) Merge(dst, src *tiled.Map, anchor geom.Vec2, emptyGID tiled.GID) error {
	m.dirty = mapset.New[int]()

	additions, err := planTileSets(dst.TileSets, src.TileSets)
	if err != nil {
		return err
	}

	layerIndex := 0
	m.mergeLayers(dst, src, src.Layers, anchor, emptyGID, &layerIndex)

	dst.TileSets = append(dst.TileSets, additions...)
	dst.NextObjectID = m.objects + 1
	dst.NextLayerID = len(dst.Layers) + 1
	return nil
}

// planTileSets returns the references src adds to dst. Source tileset i must
// either already sit at position i of dst with the same FirstGID, or be new
// and land exactly at the end.
func planTileSets(dst, src []tiled.TileSetRef) ([]tiled.TileSetRef, error) {
	var additions []tiled.TileSetRef
	var errs []error
	for i, ts := range src {
		name := ts.Basename()
		existing := slices.IndexFunc(dst, func(d tiled.TileSetRef) bool {
			return d.Basename() == name
		})
		if existing < 0 {
			existing = slices.IndexFunc(additions, func(d tiled.TileSetRef) bool {
				return d.Basename() == name
			})
			if existing >= 0 {
				existing += len(dst)
			}
		}

		if existing == i && i < len(dst) && dst[i].FirstGID == ts.FirstGID {
			continue
		}

		orderErr := &TileSetOrderError{Source: name, Position: i, Existing: existing, FirstGID: ts.FirstGID}
		if existing >= 0 {
			errs = append(errs, orderErr)
			continue
		}

		end := len(dst) + len(additions)
		if i != end || !ascending(dst, additions, ts.FirstGID) {
			errs = append(errs, orderErr)
			continue
		}
		// Paths are machine specific; keep only the file name.
		additions = append(additions, tiled.TileSetRef{FirstGID: ts.FirstGID, Source: name})
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return additions, nil
}

func ascending(dst, additions []tiled.TileSetRef, firstGID tiled.GID) bool {
	last := tiled.GID(0)
	if n := len(additions); n > 0 {
		last = additions[n-1].FirstGID
	} else if n := len(dst); n > 0 {
		last = dst[n-1].FirstGID
	}
	return firstGID > last
}

func (m *Merger) mergeLayers(dst, src *tiled.Map, layers []*tiled.Layer, anchor geom.Vec2, emptyGID tiled.GID, layerIndex *int) {
	for _, layer := range layers {
		if layer.Type == tiled.GroupLayer {
			m.mergeLayers(dst, src, layer.Layers, anchor, emptyGID, layerIndex)
			continue
		}

		target := matchingLayer(dst, layer.Type, *layerIndex)
		if target == nil {
			id := len(dst.Layers) + 1
			name := fmt.Sprintf("Composite Map Layer Index #%d", id)
			if layer.Type == tiled.TileLayer {
				target = tiled.NewTileLayer(id, name, dst.Width, dst.Height, emptyGID)
			} else {
				target = tiled.NewObjectLayer(id, name, layer.DrawOrder)
			}
			dst.Layers = append(dst.Layers, target)
		}

		if target.Type == tiled.TileLayer {
			m.mergeTiles(target, layer, dst, src, anchor)
		} else {
			m.mergeObjects(target, layer, anchor)
		}
		*layerIndex++
	}
}

// matchingLayer finds the first dst layer of the given type at or after
// index. Reusing layers keeps the composite map from growing a layer stack
// per room.
func matchingLayer(dst *tiled.Map, typ tiled.LayerType, index int) *tiled.Layer {
	for j := index; j < len(dst.Layers); j++ {
		if dst.Layers[j].Type == typ {
			return dst.Layers[j]
		}
	}
	return nil
}

func (m *Merger) mergeTiles(target, layer *tiled.Layer, dst, src *tiled.Map, anchor geom.Vec2) {
	for i, gid := range layer.Data {
		pos := anchor.Add(src.TilePosition(i))
		idx, ok := dst.TileIndexAt(pos)
		if !ok {
			continue
		}
		target.Data[idx] = gid
		m.dirty.Put(idx)
	}
}

func (m *Merger) mergeObjects(target, layer *tiled.Layer, anchor geom.Vec2) {
	for _, obj := range layer.Objects {
		m.objects++
		c := *obj
		c.ID = m.objects
		c.X += anchor.X
		c.Y += anchor.Y
		if obj.Polygon != nil {
			c.Polygon = slices.Clone(obj.Polygon)
		}
		if obj.Properties != nil {
			c.Properties = slices.Clone(obj.Properties)
		}
		target.Objects = append(target.Objects, &c)
	}
}
