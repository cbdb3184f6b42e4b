// Package config reads build settings from DUNGEN_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/samdwyer/dungenmap/internal/builder"
	"github.com/samdwyer/dungenmap/internal/tiled"
)

// Environment variable names.
const (
	EnvEmptyTileGID  = "DUNGEN_EMPTY_TILE_GID"
	EnvDoorWidth     = "DUNGEN_DOOR_WIDTH"
	EnvDoorCornerGap = "DUNGEN_DOOR_MIN_DISTANCE_FROM_CORNER"
	EnvTileWidth     = "DUNGEN_TILE_WIDTH"
	EnvTileHeight    = "DUNGEN_TILE_HEIGHT"
	EnvSeed          = "DUNGEN_SEED"
	EnvMaxAttempts   = "DUNGEN_MAX_ATTEMPTS"
	EnvContentDir    = "DUNGEN_CONTENT_DIR"
	EnvLogVerbosity  = "DUNGEN_LOG_VERBOSITY"
)

const (
	defaultMaxAttempts = 3
	maxIntValue        = 1 << 16
)

// Config holds everything the command line tool reads from the environment.
type Config struct {
	Props builder.Props
	// MaxAttempts bounds how many times a failed build is retried with a
	// fresh seed. A seed of 0 in Props means a random seed is generated.
	MaxAttempts int
	// ContentDir replaces the embedded demo content when set.
	ContentDir   string
	LogVerbosity int
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Load reads the process environment.
func Load() (Config, error) {
	return FromEnv(os.LookupEnv)
}

// FromEnv reads configuration through lookup. Unset variables keep their
// defaults; malformed ones are all reported together.
func FromEnv(lookup LookupFunc) (Config, error) {
	cfg := Config{
		Props:       builder.DefaultProps(),
		MaxAttempts: defaultMaxAttempts,
	}
	r := reader{lookup: lookup}

	if gid, ok := r.gidVar(EnvEmptyTileGID); ok {
		cfg.Props.EmptyTileGID = tiled.GID(gid)
	}
	r.intVar(EnvDoorWidth, &cfg.Props.DoorWidth)
	r.intVar(EnvDoorCornerGap, &cfg.Props.DoorMinDistanceFromCorner)
	r.intVar(EnvTileWidth, &cfg.Props.TileWidth)
	r.intVar(EnvTileHeight, &cfg.Props.TileHeight)
	r.intVar(EnvMaxAttempts, &cfg.MaxAttempts)
	r.intVar(EnvLogVerbosity, &cfg.LogVerbosity)
	if v, ok := lookup(EnvSeed); ok && v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			r.errs = append(r.errs, fmt.Errorf("%s: %w", EnvSeed, err))
		} else {
			cfg.Props.Seed = seed
		}
	}
	if v, ok := lookup(EnvContentDir); ok {
		cfg.ContentDir = v
	}

	if cfg.MaxAttempts < 1 {
		r.errs = append(r.errs, fmt.Errorf("%s: %d must be at least 1", EnvMaxAttempts, cfg.MaxAttempts))
	}
	if err := cfg.Props.Validate(); err != nil {
		r.errs = append(r.errs, err)
	}
	return cfg, errors.Join(r.errs...)
}

type reader struct {
	lookup LookupFunc
	errs   []error
}

func (r *reader) intVar(key string, dst *int) {
	v, ok := r.lookup(key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return
	}
	if n > maxIntValue || n < -maxIntValue {
		r.errs = append(r.errs, fmt.Errorf("%s: %d is out of range", key, n))
		return
	}
	*dst = n
}

func (r *reader) gidVar(key string) (uint64, bool) {
	v, ok := r.lookup(key)
	if !ok || v == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(v, 0, 32)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return 0, false
	}
	return n, true
}
