package door

import (
	"math"

	"github.com/samdwyer/dungenmap/internal/geom"
)

// Marker is a door line resolved against its room.
type Marker struct {
	Line    geom.Line
	Heading Direction // which way the line points, right-up
	Wall    Direction // which wall of the room the line lies on
	Length  int       // in tiles, along the wall
}

// Classify resolves which wall line lies on. The line must be axis aligned;
// center is the room centroid in the same right-up pixel space.
func Classify(line geom.Line, center geom.Vec2, tileWidth, tileHeight int) (Marker, error) {
	if line.Len() == 0 {
		return Marker{}, invalid("door line %v-%v has zero length", line.Start, line.End)
	}
	dir := line.Direction().Normalize()

	m := Marker{Line: line}
	switch {
	case dir.X == 0 && dir.Y > 0:
		m.Heading = North
	case dir.X == 0 && dir.Y < 0:
		m.Heading = South
	case dir.Y == 0 && dir.X > 0:
		m.Heading = East
	case dir.Y == 0 && dir.X < 0:
		m.Heading = West
	default:
		return Marker{}, invalid("door line %v-%v is not axis aligned", line.Start, line.End)
	}

	var tiles float64
	if m.Heading == North || m.Heading == South {
		if line.Start.X > center.X {
			m.Wall = East
		} else {
			m.Wall = West
		}
		tiles = math.Abs(line.End.Y-line.Start.Y) / float64(tileHeight)
	} else {
		if line.Start.Y > center.Y {
			m.Wall = North
		} else {
			m.Wall = South
		}
		tiles = math.Abs(line.End.X-line.Start.X) / float64(tileWidth)
	}
	m.Length = int(geom.Round(tiles))
	if m.Length < 1 {
		return Marker{}, invalid("door line %v-%v is shorter than one tile", line.Start, line.End)
	}
	return m, nil
}
