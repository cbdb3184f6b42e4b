// Package layout describes solved dungeon layouts and converts rooms from
// layout space (right-up axes, arbitrary units) into map pixel space.
package layout

import (
	"github.com/samdwyer/dungenmap/internal/geom"
)

// Layout is a solved arrangement of rooms. Width and Height are in layout
// units, which map one to one onto tiles.
type Layout struct {
	Name   string    `json:"name,omitempty"`
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
	Center geom.Vec2 `json:"center"`
	Rooms  []Room    `json:"rooms"`
}

// MapSize returns the composite map size in whole tiles.
func (l Layout) MapSize() (width, height int) {
	return int(geom.Round(l.Width)), int(geom.Round(l.Height))
}

// WorldCenter returns the pixel centre of the composite map.
func (l Layout) WorldCenter(tileWidth, tileHeight int) geom.Vec2 {
	w, h := l.MapSize()
	return geom.V(float64(w*tileWidth)/2, float64(h*tileHeight)/2)
}

// CenterScaled returns the layout centre scaled to pixels.
func (l Layout) CenterScaled(tileSize int) geom.Vec2 {
	return l.Center.Scale(float64(tileSize))
}

// ToWorld returns a copy of the room moved into map pixel space: scaled by
// tileSize, translated so the layout centre lands on the map centre, then
// snapped to whole pixels. Snapping happens here and nowhere else.
func (r Room) ToWorld(tileSize int, layoutCenterScaled, worldCenter geom.Vec2) Room {
	w := r.Clone()
	offset := worldCenter.Sub(layoutCenterScaled)
	w.apply(func(p geom.Vec2) geom.Vec2 {
		return p.Scale(float64(tileSize)).Add(offset).Round()
	})
	return w
}

// Anchor returns the pixel position of the room's top-left corner in the
// map's right-down space. Layout Y points up, so the top edge is the box's
// max Y flipped against the map height.
func (r Room) Anchor(mapPixelHeight int) geom.Vec2 {
	b := r.BoundingBox()
	return geom.V(b.Min.X, float64(mapPixelHeight)-b.Max.Y)
}

// FlipY converts a right-up pixel position to right-down map space.
func FlipY(p geom.Vec2, mapPixelHeight int) geom.Vec2 {
	return geom.V(p.X, float64(mapPixelHeight)-p.Y)
}
