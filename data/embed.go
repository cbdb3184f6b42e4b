// Package data embeds the demo tileset, room templates, blueprints and
// layouts.
package data

import "embed"

// dataFS embeds all JSON files from the data directory at build time.
//
//go:embed *.json
var dataFS embed.FS

// FS returns the embedded filesystem containing the demo content.
func FS() embed.FS {
	return dataFS
}
