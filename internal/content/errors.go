package content

import (
	"fmt"

	"github.com/samdwyer/dungenmap/internal/tiled"
)

// NotFoundError reports a blueprint, template, tileset or layout that the
// catalog does not hold.
type NotFoundError struct {
	Kind string
	Name string
	// Referrer names what asked for it, if anything.
	Referrer string
}

func (e *NotFoundError) Error() string {
	if e.Referrer != "" {
		return fmt.Sprintf("%s %q referenced by %s not found", e.Kind, e.Name, e.Referrer)
	}
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

func (e *NotFoundError) Unwrap() error { return tiled.ErrNotFound }
