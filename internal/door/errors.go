package door

import (
	"errors"
	"fmt"

	"github.com/samdwyer/dungenmap/internal/tiled"
)

// ErrNoDoorTiles is returned when no tileset declares a door tile.
var ErrNoDoorTiles = fmt.Errorf("%w: no door tiles found in the map's tile sets", tiled.ErrValidation)

// ValidationError reports door geometry or door catalog problems.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "door: " + e.Reason
}

func (e *ValidationError) Unwrap() error { return tiled.ErrValidation }

func invalid(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a door validation error.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v) || errors.Is(err, ErrNoDoorTiles)
}
