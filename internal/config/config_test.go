package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/dungenmap/internal/builder"
	"github.com/samdwyer/dungenmap/internal/tiled"
)

func env(vars map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := FromEnv(env(nil))
	require.NoError(t, err)

	assert.Equal(t, builder.DefaultProps(), cfg.Props)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Empty(t, cfg.ContentDir)
}

func TestOverrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		EnvEmptyTileGID:  "0x80000004",
		EnvDoorWidth:     "2",
		EnvDoorCornerGap: "0",
		EnvTileWidth:     "16",
		EnvTileHeight:    "16",
		EnvSeed:          "-9",
		EnvMaxAttempts:   "5",
		EnvContentDir:    "/srv/maps",
		EnvLogVerbosity:  "2",
	}))
	require.NoError(t, err)

	assert.Equal(t, tiled.GID(2147483652), cfg.Props.EmptyTileGID)
	assert.Equal(t, 2, cfg.Props.DoorWidth)
	assert.Equal(t, 0, cfg.Props.DoorMinDistanceFromCorner)
	assert.Equal(t, 16, cfg.Props.TileWidth)
	assert.Equal(t, int64(-9), cfg.Props.Seed)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, "/srv/maps", cfg.ContentDir)
	assert.Equal(t, 2, cfg.LogVerbosity)
}

func TestReportsEveryBadValue(t *testing.T) {
	_, err := FromEnv(env(map[string]string{
		EnvTileWidth:    "wide",
		EnvSeed:         "1.5",
		EnvEmptyTileGID: "0x100000000",
		EnvMaxAttempts:  "0",
	}))
	require.Error(t, err)

	for _, key := range []string{EnvTileWidth, EnvSeed, EnvEmptyTileGID, EnvMaxAttempts} {
		assert.Contains(t, err.Error(), key)
	}
}

func TestInvalidProps(t *testing.T) {
	_, err := FromEnv(env(map[string]string{EnvTileHeight: "64"}))
	assert.ErrorIs(t, err, tiled.ErrValidation)
}
