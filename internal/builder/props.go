package builder

import (
	"errors"
	"fmt"

	"github.com/samdwyer/dungenmap/internal/tiled"
)

// Props holds build options.
type Props struct {
	// EmptyTileGID fills tile layers created during the build.
	EmptyTileGID tiled.GID
	// DoorWidth is the door width the layout was solved with, in tiles.
	// Door lengths are taken from the door lines themselves.
	DoorWidth int
	// DoorMinDistanceFromCorner is the minimum number of tiles between a door
	// and a room corner. Zero disables the check.
	DoorMinDistanceFromCorner int
	TileWidth                 int
	TileHeight                int
	// Seed for template selection. Equal seeds give equal maps.
	Seed int64
}

// DefaultProps returns the options used when nothing is configured.
func DefaultProps() Props {
	return Props{
		EmptyTileGID:              0,
		DoorWidth:                 1,
		DoorMinDistanceFromCorner: 1,
		TileWidth:                 32,
		TileHeight:                32,
	}
}

// Validate reports every option that is out of range.
func (p Props) Validate() error {
	var errs []error
	if p.TileWidth <= 0 || p.TileHeight <= 0 {
		errs = append(errs, fmt.Errorf("tile size %dx%d must be positive", p.TileWidth, p.TileHeight))
	} else if p.TileWidth != p.TileHeight {
		errs = append(errs, fmt.Errorf("tile size %dx%d must be square", p.TileWidth, p.TileHeight))
	}
	if p.DoorWidth < 1 {
		errs = append(errs, fmt.Errorf("door width %d must be at least 1", p.DoorWidth))
	}
	if p.DoorMinDistanceFromCorner < 0 {
		errs = append(errs, fmt.Errorf("door distance from corner %d must not be negative", p.DoorMinDistanceFromCorner))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", tiled.ErrValidation, err)
	}
	return nil
}
