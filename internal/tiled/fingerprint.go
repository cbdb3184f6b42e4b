package tiled

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes everything that decides how a map renders: dimensions,
// tileset references and every tile layer's cells, groups included. Object
// layers and properties are left out.
func Fingerprint(m *Map) uint64 {
	d := xxhash.New()
	var buf [4]byte
	putInt := func(v uint32) {
		binary.LittleEndian.PutUint32(buf[:], v)
		_, _ = d.Write(buf[:])
	}

	putInt(uint32(m.Width))
	putInt(uint32(m.Height))
	putInt(uint32(m.TileWidth))
	putInt(uint32(m.TileHeight))
	for _, ts := range m.TileSets {
		putInt(uint32(ts.FirstGID))
		_, _ = d.WriteString(ts.Basename())
	}

	var walk func(layers []*Layer)
	walk = func(layers []*Layer) {
		for _, l := range layers {
			switch l.Type {
			case GroupLayer:
				walk(l.Layers)
			case TileLayer:
				putInt(uint32(len(l.Data)))
				for _, g := range l.Data {
					putInt(uint32(g))
				}
			}
		}
	}
	walk(m.Layers)

	return d.Sum64()
}
