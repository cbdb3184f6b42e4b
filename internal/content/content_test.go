package content

import (
	"errors"
	"math/rand"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/dungenmap/data"
	"github.com/samdwyer/dungenmap/internal/layout"
	"github.com/samdwyer/dungenmap/internal/tiled"
)

func TestLoadDemoCatalog(t *testing.T) {
	c, err := LoadCatalog(data.FS())
	require.NoError(t, err)

	assert.Len(t, c.Templates, 2)
	require.Contains(t, c.Templates, "hall")
	assert.Equal(t, 5, c.Templates["hall"].Width)
	assert.Equal(t, "dungeon.tileset.json", c.Templates["hall"].TileSets[0].Basename())

	ts, ok := c.TileSets["dungeon.tileset.json"]
	require.True(t, ok)
	assert.Equal(t, 8, ts.Columns)

	b, err := c.Blueprint("square-5")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"hall", "pillar"}, b.CompatibleTemplates)
}

func TestLoadDemoLayout(t *testing.T) {
	l, err := LoadLayout(data.FS(), "demo")
	require.NoError(t, err)

	require.Len(t, l.Rooms, 2)
	assert.Equal(t, layout.RoomEntrance, l.Rooms[0].Type)
	assert.Equal(t, []int{2}, l.Rooms[0].AccessibleRooms())

	c, err := LoadCatalog(data.FS())
	require.NoError(t, err)
	assert.NoError(t, c.ValidateLayout(l))
}

func TestLoadLayoutNotFound(t *testing.T) {
	_, err := LoadLayout(data.FS(), "missing")

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "missing.layout.json", nf.Name)
	assert.ErrorIs(t, err, tiled.ErrNotFound)
}

func TestLoadRejectsBadJSON(t *testing.T) {
	fsys := fstest.MapFS{"broken.tilemap.json": {Data: []byte("{")}}

	_, err := LoadCatalog(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.tilemap.json")
}

func TestValidateReportsEveryMissingReference(t *testing.T) {
	fsys := fstest.MapFS{
		"rooms/a.tilemap.json": {Data: []byte(`{"width":1,"height":1,"tilesets":[{"firstgid":1,"source":"gone.tileset.json"}]}`)},
		"blueprints.json":      {Data: []byte(`[{"label":"x","compatibleTemplates":["a","b"]},{"label":"y"}]`)},
	}

	_, err := LoadCatalog(fsys)
	require.Error(t, err)
	assert.ErrorIs(t, err, tiled.ErrNotFound)
	assert.ErrorIs(t, err, tiled.ErrValidation)
	assert.Contains(t, err.Error(), `template "b" referenced by blueprint x`)
	assert.Contains(t, err.Error(), `tile set "gone.tileset.json" referenced by template a`)
}

func TestValidateLayoutUnknownBlueprint(t *testing.T) {
	c := NewCatalog()
	l := layout.Layout{Rooms: []layout.Room{{Number: 4, Blueprint: "nope"}}}

	err := c.ValidateLayout(l)
	assert.ErrorIs(t, err, tiled.ErrNotFound)
	assert.Contains(t, err.Error(), "room 4")
}

func TestPickTemplateIsSeeded(t *testing.T) {
	c, err := LoadCatalog(data.FS())
	require.NoError(t, err)
	b, err := c.Blueprint("square-5")
	require.NoError(t, err)

	pick := func(seed int64) []string {
		rng := rand.New(rand.NewSource(seed))
		var labels []string
		for range 20 {
			label, m, err := c.PickTemplate(b, rng)
			require.NoError(t, err)
			require.NotNil(t, m)
			labels = append(labels, label)
		}
		return labels
	}

	first := pick(7)
	assert.Equal(t, first, pick(7))
	assert.Contains(t, first, "hall")
	assert.Contains(t, first, "pillar")

	_, _, err = c.PickTemplate(Blueprint{Label: "empty"}, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, tiled.ErrValidation)
}
