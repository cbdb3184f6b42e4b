package layout

import (
	"fmt"
	"strings"

	"github.com/samdwyer/dungenmap/internal/geom"
)

// RoomType tags what a room is for.
type RoomType string

const (
	RoomNormal   RoomType = "Normal"
	RoomEntrance RoomType = "Entrance"
	RoomExit     RoomType = "Exit"
	RoomArena    RoomType = "Arena"
	RoomCorridor RoomType = "Corridor"
)

// String returns the type name, defaulting to Normal.
func (t RoomType) String() string {
	if t == "" {
		return string(RoomNormal)
	}
	return string(t)
}

// UnmarshalText accepts the type names case-insensitively.
func (t *RoomType) UnmarshalText(b []byte) error {
	s := string(b)
	if s == "" {
		*t = RoomNormal
		return nil
	}
	for _, known := range []RoomType{RoomNormal, RoomEntrance, RoomExit, RoomArena, RoomCorridor} {
		if strings.EqualFold(s, string(known)) {
			*t = known
			return nil
		}
	}
	return fmt.Errorf("unknown room type %q", s)
}

// Door is a connection from a room to one of its neighbours. Line lies on
// the room's boundary.
type Door struct {
	Line           geom.Line `json:"line"`
	ConnectingRoom int       `json:"connectingRoom"`
}

// Room is a solved room outline. Points are closed and given in layout units
// until ToWorld converts them to map pixels.
type Room struct {
	Number    int          `json:"number"`
	Type      RoomType     `json:"type"`
	Blueprint string       `json:"blueprint"`
	Points    geom.Polygon `json:"points"`
	Doors     []Door       `json:"doors"`
}

// Clone returns a deep copy so transforms never touch the layout.
func (r Room) Clone() Room {
	c := r
	c.Points = append(geom.Polygon(nil), r.Points...)
	c.Doors = append([]Door(nil), r.Doors...)
	return c
}

// Center returns the centroid of the room outline.
func (r Room) Center() geom.Vec2 {
	return r.Points.Centroid()
}

// BoundingBox returns the room's axis aligned bounds.
func (r Room) BoundingBox() geom.AABB {
	return r.Points.BoundingBox()
}

// Boundary returns the room's edges.
func (r Room) Boundary() []geom.Line {
	return r.Points.Boundary()
}

// Walls returns the room's straight walls from corner to corner.
func (r Room) Walls() []geom.Line {
	return r.Points.Walls()
}

// AccessibleRooms returns the numbers of the rooms this room has doors to.
func (r Room) AccessibleRooms() []int {
	rooms := make([]int, 0, len(r.Doors))
	for _, d := range r.Doors {
		rooms = append(rooms, d.ConnectingRoom)
	}
	return rooms
}

// Contains reports whether p is inside the room's bounding box, edges included.
func (r Room) Contains(p geom.Vec2) bool {
	b := r.BoundingBox()
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Intersects returns true if this room's bounds overlap another's.
func (r Room) Intersects(other Room) bool {
	a, b := r.BoundingBox(), other.BoundingBox()
	return a.Min.X < b.Max.X &&
		a.Max.X > b.Min.X &&
		a.Min.Y < b.Max.Y &&
		a.Max.Y > b.Min.Y
}

func (r *Room) apply(fn func(geom.Vec2) geom.Vec2) {
	for i := range r.Points {
		r.Points[i] = fn(r.Points[i])
	}
	for i := range r.Doors {
		r.Doors[i].Line.Start = fn(r.Doors[i].Line.Start)
		r.Doors[i].Line.End = fn(r.Doors[i].Line.End)
	}
}
