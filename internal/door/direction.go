package door

import (
	"fmt"
	"strings"

	"github.com/samdwyer/dungenmap/internal/tiled"
)

// Direction is a cardinal direction. Used both for the wall a door sits on
// and for the way a door line points.
type Direction int

const (
	North Direction = iota
	South
	East
	West
)

var directions = [...]Direction{North, South, East, West}

func (d Direction) String() string {
	switch d {
	case North:
		return "North"
	case South:
		return "South"
	case East:
		return "East"
	case West:
		return "West"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseDirection parses a direction name, ignoring case and surrounding space.
func ParseDirection(s string) (Direction, error) {
	s = strings.TrimSpace(s)
	for _, d := range directions {
		if strings.EqualFold(s, d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%q is not one of North, South, East or West", s)
}

// vec is a unit step on the tile grid, Y pointing down.
type vec struct{ x, y int }

func (v vec) neg() vec { return vec{-v.x, -v.y} }

// inward points from the wall into the room.
func (d Direction) inward() vec {
	switch d {
	case North:
		return vec{0, 1}
	case South:
		return vec{0, -1}
	case East:
		return vec{-1, 0}
	default:
		return vec{1, 0}
	}
}

// lateral points along the wall, towards increasing columns or rows.
func (d Direction) lateral() vec {
	if d == North || d == South {
		return vec{1, 0}
	}
	return vec{0, 1}
}

func (d Direction) horizontal() bool {
	return d == North || d == South
}

// orient applies a GID's flip flags to a grid vector the way Tiled draws
// them: diagonal flip first, then horizontal, then vertical.
func orient(v vec, flags tiled.GID) vec {
	if flags.Has(tiled.FlippedDiagonally) {
		v.x, v.y = v.y, v.x
	}
	if flags.Has(tiled.FlippedHorizontally) {
		v.x = -v.x
	}
	if flags.Has(tiled.FlippedVertically) {
		v.y = -v.y
	}
	return v
}
