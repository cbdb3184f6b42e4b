// Package door carves door tiles into a merged map along a room's door lines.
package door

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samdwyer/dungenmap/internal/tiled"
)

// Tile property names read from tilesets.
const (
	PropType      = "Type"
	PropDirection = "Direction"
	PropIsFirst   = "IsFirst"
	PropIsLast    = "IsLast"

	doorType = "Door"
)

// Tile is a door tile parsed from tileset properties.
type Tile struct {
	LID     int
	GID     tiled.GID
	Walls   []Direction // walls the art is drawn for; Walls[0] is the primary
	IsFirst bool
	IsLast  bool
}

// cell addresses a tile relative to a wall's first tile: lateral runs along
// the wall, depth runs into the room.
type cell struct {
	lateral, depth int
}

type entry struct {
	lid int
	gid tiled.GID
}

type wall struct {
	tiles       map[cell]entry
	lastLateral int // -1 without an IsLast tile
	reversed    bool
	source      Direction
	flags       tiled.GID
	derived     bool
}

// Catalog holds door tiles for all four walls. Walls without authored art
// are derived from authored walls by flipping GIDs.
type Catalog struct {
	TileSet string
	Tiles   []Tile
	walls   map[Direction]*wall
}

type derivation struct {
	from  Direction
	flags tiled.GID
}

const (
	rotateCW  = tiled.FlippedDiagonally | tiled.FlippedHorizontally
	rotateCCW = tiled.FlippedDiagonally | tiled.FlippedVertically
)

// Mirror partner first, then a quarter turn from a neighbouring wall.
var derivations = map[Direction][]derivation{
	North: {{South, tiled.FlippedVertically}, {West, rotateCW}, {East, rotateCCW}},
	South: {{North, tiled.FlippedVertically}, {East, rotateCW}, {West, rotateCCW}},
	East:  {{West, tiled.FlippedHorizontally}, {North, rotateCW}, {South, rotateCCW}},
	West:  {{East, tiled.FlippedHorizontally}, {South, rotateCW}, {North, rotateCCW}},
}

// NewCatalog scans tilesets in reference order and builds the catalog from
// the first one that declares door tiles. tilesets is keyed by basename.
func NewCatalog(refs []tiled.TileSetRef, tilesets map[string]*tiled.TileSet) (*Catalog, error) {
	for _, ref := range refs {
		ts, ok := tilesets[ref.Basename()]
		if !ok {
			return nil, fmt.Errorf("door catalog: tile set %s: %w", ref.Basename(), tiled.ErrNotFound)
		}
		tiles, err := parseTiles(ref, ts)
		if err != nil {
			return nil, fmt.Errorf("door catalog: tile set %s: %w", ref.Basename(), err)
		}
		if len(tiles) == 0 {
			continue
		}
		c := &Catalog{TileSet: ref.Basename(), Tiles: tiles}
		if err := c.build(ts); err != nil {
			return nil, fmt.Errorf("door catalog: tile set %s: %w", ref.Basename(), err)
		}
		return c, nil
	}
	return nil, ErrNoDoorTiles
}

func parseTiles(ref tiled.TileSetRef, ts *tiled.TileSet) ([]Tile, error) {
	var tiles []Tile
	var errs []error
	for _, t := range ts.Tiles {
		typ, _ := t.Property(PropType)
		isDoor := typ.String() == doorType

		first, err := flag(t, PropIsFirst)
		if err != nil {
			errs = append(errs, err)
		}
		last, err := flag(t, PropIsLast)
		if err != nil {
			errs = append(errs, err)
		}

		if !isDoor {
			if first || last {
				errs = append(errs, invalid("tile %d has door flags but %s is not %q", t.ID, PropType, doorType))
			}
			continue
		}

		dir, ok := t.Property(PropDirection)
		if !ok || strings.TrimSpace(dir.String()) == "" {
			errs = append(errs, invalid("door tile %d has no %s property", t.ID, PropDirection))
			continue
		}
		var walls []Direction
		for _, part := range strings.Split(dir.String(), ";") {
			d, err := ParseDirection(part)
			if err != nil {
				errs = append(errs, invalid("door tile %d: %s: %v", t.ID, PropDirection, err))
				walls = nil
				break
			}
			walls = append(walls, d)
		}
		if walls == nil {
			continue
		}

		tiles = append(tiles, Tile{
			LID:     t.ID,
			GID:     ref.FirstGID + tiled.GID(t.ID),
			Walls:   walls,
			IsFirst: first,
			IsLast:  last,
		})
	}
	return tiles, errors.Join(errs...)
}

func flag(t tiled.Tile, name string) (bool, error) {
	p, ok := t.Property(name)
	if !ok {
		return false, nil
	}
	b, err := p.Bool()
	if err != nil {
		return false, invalid("tile %d: %s: %v", t.ID, name, err)
	}
	return b, nil
}

func (c *Catalog) build(ts *tiled.TileSet) error {
	c.walls = make(map[Direction]*wall, len(directions))
	var errs []error

	for _, d := range directions {
		var first, last *Tile
		var members []*Tile
		for i := range c.Tiles {
			t := &c.Tiles[i]
			if !t.on(d) {
				continue
			}
			members = append(members, t)
			if t.IsFirst {
				if first != nil {
					errs = append(errs, invalid("%s wall has two first tiles (%d and %d)", d, first.LID, t.LID))
				}
				first = t
			}
			if t.IsLast {
				last = t
			}
		}
		if len(members) == 0 {
			continue
		}
		if first == nil {
			errs = append(errs, invalid("%s wall has no tile with %s set", d, PropIsFirst))
			continue
		}

		w := &wall{tiles: make(map[cell]entry, len(members)), lastLateral: -1, source: d}
		for _, t := range members {
			w.tiles[frame(ts, d, first.LID, t.LID)] = entry{lid: t.LID, gid: t.GID}
		}
		if last != nil {
			w.lastLateral = frame(ts, d, first.LID, last.LID).lateral
		}
		c.walls[d] = w
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	for _, d := range directions {
		if _, ok := c.walls[d]; ok {
			continue
		}
		for _, der := range derivations[d] {
			src, ok := c.walls[der.from]
			if !ok || src.derived {
				continue
			}
			c.walls[d] = derive(src, d, der)
			break
		}
	}

	if len(c.walls) != len(directions) {
		var missing []string
		for _, d := range directions {
			if _, ok := c.walls[d]; !ok {
				missing = append(missing, d.String())
			}
		}
		return invalid("no door tiles for walls %s", strings.Join(missing, ", "))
	}
	return nil
}

func (t *Tile) on(d Direction) bool {
	for _, w := range t.Walls {
		if w == d {
			return true
		}
	}
	return false
}

// frame places lid relative to the first tile as drawn for wall d: the outer
// edge of the wall art faces away from the room.
func frame(ts *tiled.TileSet, d Direction, firstLID, lid int) cell {
	fc, fr := ts.Cell(firstLID)
	c, r := ts.Cell(lid)
	switch d {
	case North:
		return cell{lateral: c - fc, depth: r - fr}
	case South:
		return cell{lateral: c - fc, depth: fr - r}
	case East:
		return cell{lateral: r - fr, depth: fc - c}
	default:
		return cell{lateral: r - fr, depth: c - fc}
	}
}

func derive(src *wall, to Direction, der derivation) *wall {
	w := &wall{
		tiles:       make(map[cell]entry, len(src.tiles)),
		lastLateral: src.lastLateral,
		source:      der.from,
		flags:       der.flags,
		derived:     true,
		// A quarter turn can point the art's lateral axis backwards along
		// the target wall; the first tile then goes at the far end.
		reversed: orient(der.from.lateral(), der.flags) == to.lateral().neg(),
	}
	for k, e := range src.tiles {
		w.tiles[k] = entry{lid: e.lid, gid: e.gid.With(der.flags)}
	}
	return w
}

// Len returns how many door tiles are available for a wall.
func (c *Catalog) Len(d Direction) int {
	w, ok := c.walls[d]
	if !ok {
		return 0
	}
	return len(w.tiles)
}

// At returns the tile at a lateral/depth offset from a wall's first tile.
func (c *Catalog) At(d Direction, lateral, depth int) (tiled.GID, bool) {
	w, ok := c.walls[d]
	if !ok {
		return 0, false
	}
	e, ok := w.tiles[cell{lateral, depth}]
	return e.gid, ok
}

// Lookup returns the GID used on wall d for local tile id lid.
func (c *Catalog) Lookup(d Direction, lid int) (tiled.GID, bool) {
	w, ok := c.walls[d]
	if !ok {
		return 0, false
	}
	for _, e := range w.tiles {
		if e.lid == lid {
			return e.gid, true
		}
	}
	return 0, false
}

// Derived reports whether a wall's tiles were derived, and from which wall
// with which flags.
func (c *Catalog) Derived(d Direction) (from Direction, flags tiled.GID, ok bool) {
	w, found := c.walls[d]
	if !found || !w.derived {
		return 0, 0, false
	}
	return w.source, w.flags, true
}
