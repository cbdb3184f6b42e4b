package content

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"math/rand"
	"path"
	"slices"
	"strings"

	"github.com/samdwyer/dungenmap/internal/geom"
	"github.com/samdwyer/dungenmap/internal/layout"
	"github.com/samdwyer/dungenmap/internal/tiled"
)

// Blueprint is a room shape the layout solver places, together with the
// templates that can be drawn into it.
type Blueprint struct {
	Label               string       `json:"label"`
	Points              geom.Polygon `json:"points"`
	CompatibleTemplates []string     `json:"compatibleTemplates"`
}

// Catalog holds everything a build reads. Templates are keyed by file name
// without the template suffix, tilesets by file name.
type Catalog struct {
	Templates  map[string]*tiled.Map
	TileSets   map[string]*tiled.TileSet
	Blueprints map[string]Blueprint
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		Templates:  make(map[string]*tiled.Map),
		TileSets:   make(map[string]*tiled.TileSet),
		Blueprints: make(map[string]Blueprint),
	}
}

// LoadCatalog reads every template, tileset and the blueprints file found
// anywhere in fsys, then validates the result.
func LoadCatalog(fsys fs.FS) (*Catalog, error) {
	c := NewCatalog()

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := path.Base(p)
		switch {
		case strings.HasSuffix(name, TemplateSuffix):
			m, err := Load[*tiled.Map](fsys, p)
			if err != nil {
				return err
			}
			c.Templates[strings.TrimSuffix(name, TemplateSuffix)] = m
		case strings.HasSuffix(name, TileSetSuffix):
			ts, err := Load[*tiled.TileSet](fsys, p)
			if err != nil {
				return err
			}
			c.TileSets[name] = ts
		case name == BlueprintsFile:
			blueprints, err := Load[[]Blueprint](fsys, p)
			if err != nil {
				return err
			}
			for _, b := range blueprints {
				c.Blueprints[b.Label] = b
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(c.Templates) == 0 {
		return nil, errors.New("no templates found")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that every blueprint's templates exist and every
// template's tilesets exist.
func (c *Catalog) Validate() error {
	var errs []error
	for _, label := range slices.Sorted(maps.Keys(c.Blueprints)) {
		b := c.Blueprints[label]
		if len(b.CompatibleTemplates) == 0 {
			errs = append(errs, fmt.Errorf("blueprint %q has no compatible templates: %w", label, tiled.ErrValidation))
		}
		for _, t := range b.CompatibleTemplates {
			if _, ok := c.Templates[t]; !ok {
				errs = append(errs, &NotFoundError{Kind: "template", Name: t, Referrer: "blueprint " + label})
			}
		}
	}
	for _, name := range slices.Sorted(maps.Keys(c.Templates)) {
		for _, ref := range c.Templates[name].TileSets {
			if _, ok := c.TileSets[ref.Basename()]; !ok {
				errs = append(errs, &NotFoundError{Kind: "tile set", Name: ref.Basename(), Referrer: "template " + name})
			}
		}
	}
	return errors.Join(errs...)
}

// ValidateLayout checks that every room of l names a known blueprint.
func (c *Catalog) ValidateLayout(l layout.Layout) error {
	var errs []error
	for _, r := range l.Rooms {
		if _, err := c.Blueprint(r.Blueprint); err != nil {
			errs = append(errs, fmt.Errorf("room %d: %w", r.Number, err))
		}
	}
	return errors.Join(errs...)
}

// Blueprint returns the named blueprint.
func (c *Catalog) Blueprint(label string) (Blueprint, error) {
	b, ok := c.Blueprints[label]
	if !ok {
		return Blueprint{}, &NotFoundError{Kind: "blueprint", Name: label}
	}
	return b, nil
}

// Template returns the named template.
func (c *Catalog) Template(label string) (*tiled.Map, error) {
	m, ok := c.Templates[label]
	if !ok {
		return nil, &NotFoundError{Kind: "template", Name: label}
	}
	return m, nil
}

// PickTemplate chooses one of the blueprint's templates uniformly at random.
func (c *Catalog) PickTemplate(b Blueprint, rng *rand.Rand) (string, *tiled.Map, error) {
	if len(b.CompatibleTemplates) == 0 {
		return "", nil, fmt.Errorf("blueprint %q has no compatible templates: %w", b.Label, tiled.ErrValidation)
	}
	label := b.CompatibleTemplates[rng.Intn(len(b.CompatibleTemplates))]
	m, err := c.Template(label)
	if err != nil {
		return "", nil, err
	}
	return label, m, nil
}

// LoadLayout reads a solved layout. name may omit the layout suffix.
func LoadLayout(fsys fs.FS, name string) (layout.Layout, error) {
	if !strings.HasSuffix(name, LayoutSuffix) {
		name += LayoutSuffix
	}
	if _, err := fs.Stat(fsys, name); errors.Is(err, fs.ErrNotExist) {
		return layout.Layout{}, &NotFoundError{Kind: "layout", Name: name}
	}
	return Load[layout.Layout](fsys, name)
}
