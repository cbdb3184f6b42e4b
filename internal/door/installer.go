package door

import (
	"math"

	"github.com/samdwyer/dungenmap/internal/geom"
	"github.com/samdwyer/dungenmap/internal/layout"
	"github.com/samdwyer/dungenmap/internal/tiled"
)

// Installer writes door tiles from a catalog into merged maps.
type Installer struct {
	catalog *Catalog
}

// NewInstaller creates an installer drawing from catalog.
func NewInstaller(catalog *Catalog) *Installer {
	return &Installer{catalog: catalog}
}

// Placement records one door written into a map.
type Placement struct {
	Marker
	Tiles []int // destination indices written, outer wall tile first
}

// InstallDoors carves every door of room into the first tile layer of m.
// room must already be in map pixel space (see layout.Room.ToWorld). Doors
// closer than minCornerDistance tiles to a corner are rejected; zero turns
// the check off.
func (in *Installer) InstallDoors(m *tiled.Map, room layout.Room, minCornerDistance int) ([]Placement, error) {
	if in.catalog == nil {
		return nil, ErrNoDoorTiles
	}
	if minCornerDistance < 0 {
		return nil, invalid("minimum corner distance %d is negative", minCornerDistance)
	}
	target := m.FirstTileLayer()
	if target == nil {
		return nil, invalid("map has no tile layer to carve doors into")
	}

	center := room.Center()
	walls := room.Walls()
	placements := make([]Placement, 0, len(room.Doors))
	for _, d := range room.Doors {
		mk, err := Classify(d.Line, center, m.TileWidth, m.TileHeight)
		if err != nil {
			return placements, err
		}
		if n := in.catalog.Len(mk.Wall); mk.Length > n {
			return placements, invalid("door to room %d is %d tiles long but the %s wall only has %d door tiles",
				d.ConnectingRoom, mk.Length, mk.Wall, n)
		}
		if err := checkCorners(mk, walls, minCornerDistance, m.TileWidth, m.TileHeight); err != nil {
			return placements, err
		}

		p, err := in.place(m, target, mk)
		if err != nil {
			return placements, err
		}
		placements = append(placements, p)
	}
	return placements, nil
}

// checkCorners makes sure the door sits on one of the room's walls, inset
// from both of its corners.
func checkCorners(mk Marker, walls []geom.Line, minCornerDistance, tileWidth, tileHeight int) error {
	for _, w := range walls {
		if !w.Contains(mk.Line) {
			continue
		}
		if minCornerDistance == 0 {
			return nil
		}
		lo, hi := span(mk.Line, mk.Wall)
		wlo, whi := span(w, mk.Wall)
		size := float64(tileWidth)
		if !mk.Wall.horizontal() {
			size = float64(tileHeight)
		}
		gap := math.Min(lo-wlo, whi-hi) / size
		if gap < float64(minCornerDistance) {
			return invalid("door on the %s wall is %.0f tiles from a corner, need at least %d",
				mk.Wall, gap, minCornerDistance)
		}
		return nil
	}
	return invalid("door line %v-%v does not lie on a wall of the room", mk.Line.Start, mk.Line.End)
}

// span returns the extent of l along the wall's axis, low end first.
func span(l geom.Line, wall Direction) (lo, hi float64) {
	a, b := l.Start.X, l.End.X
	if !wall.horizontal() {
		a, b = l.Start.Y, l.End.Y
	}
	return math.Min(a, b), math.Max(a, b)
}

func (in *Installer) place(m *tiled.Map, target *tiled.Layer, mk Marker) (Placement, error) {
	w := in.catalog.walls[mk.Wall]
	cols, rows := m.Width, m.Height

	// The outer wall tile of the low end of the door, right-down.
	var col, row int
	ph := m.PixelHeight()
	switch mk.Wall {
	case North, South:
		x, _ := span(mk.Line, mk.Wall)
		col = int(x) / m.TileWidth
		row = (ph - int(mk.Line.Start.Y)) / m.TileHeight
		if mk.Wall == South {
			row--
		}
	case East, West:
		_, y := span(mk.Line, mk.Wall)
		row = (ph - int(y)) / m.TileHeight
		col = int(mk.Line.Start.X) / m.TileWidth
		if mk.Wall == East {
			col--
		}
	}

	lateral, medial := mk.Wall.lateral(), mk.Wall.inward()
	if w.reversed {
		lateral = lateral.neg()
		col += lateral.x * (1 - mk.Length)
		row += lateral.y * (1 - mk.Length)
	}

	p := Placement{Marker: mk}
	for i := range mk.Length {
		c := w.column(i, mk.Length)
		for depth := range len(w.tiles) {
			e, ok := w.tiles[cell{c, depth}]
			if !ok {
				break
			}
			x := col + lateral.x*i + medial.x*depth
			y := row + lateral.y*i + medial.y*depth
			if x < 0 || x >= cols || y < 0 || y >= rows {
				return p, invalid("door tile (%d,%d) on the %s wall falls outside the %dx%d map", x, y, mk.Wall, cols, rows)
			}
			idx := y*cols + x
			target.Data[idx] = e.gid
			p.Tiles = append(p.Tiles, idx)
		}
	}
	return p, nil
}

// column picks the catalog column for lateral step i of a door n tiles long:
// the first column opens the door, the IsLast column closes it, and the
// columns in between fill the middle.
func (w *wall) column(i, n int) int {
	if i == 0 {
		return 0
	}
	if i == n-1 && w.lastLateral >= 0 {
		return w.lastLateral
	}
	fill := 0
	for k := range w.tiles {
		if k.lateral != w.lastLateral && k.lateral > fill {
			fill = k.lateral
		}
	}
	return min(i, fill)
}
