package tiled

import "errors"

// Error kinds shared by every package that builds maps. Concrete errors wrap
// one of these so callers can branch with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
)
