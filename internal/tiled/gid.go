package tiled

// GID is a global tile identifier. The low 28 bits hold the tile id (tileset
// FirstGID + local id); the top four bits carry orientation flags.
type GID uint32

// Orientation flags stored in the top bits of a GID.
const (
	FlippedHorizontally GID = 0x80000000
	FlippedVertically   GID = 0x40000000
	FlippedDiagonally   GID = 0x20000000
	RotatedHexagonal120 GID = 0x10000000

	flagMask = FlippedHorizontally | FlippedVertically | FlippedDiagonally | RotatedHexagonal120
)

// ID returns the GID with every orientation flag cleared.
func (g GID) ID() GID {
	return g &^ flagMask
}

// Flags returns only the orientation flags.
func (g GID) Flags() GID {
	return g & flagMask
}

// With returns g with the given flags set.
func (g GID) With(flags GID) GID {
	return g | flags.Flags()
}

// Has reports whether every bit in flags is set on g.
func (g GID) Has(flags GID) bool {
	return g&flags == flags
}

// IsEmpty reports whether g refers to no tile at all.
func (g GID) IsEmpty() bool {
	return g.ID() == 0
}
