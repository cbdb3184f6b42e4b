// Package builder assembles a composite map from a solved layout: one
// template merged per room, then the room's doors carved in.
package builder

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/dungenmap/internal/content"
	"github.com/samdwyer/dungenmap/internal/door"
	"github.com/samdwyer/dungenmap/internal/geom"
	"github.com/samdwyer/dungenmap/internal/layout"
	"github.com/samdwyer/dungenmap/internal/merge"
	"github.com/samdwyer/dungenmap/internal/telemetry"
	"github.com/samdwyer/dungenmap/internal/tiled"
)

// BuildIDProperty is the map property holding the build id.
const BuildIDProperty = "buildId"

// RoomRecord describes where a room ended up in the composite map.
type RoomRecord struct {
	Number          int             `json:"number"`
	Type            layout.RoomType `json:"type"`
	Template        string          `json:"template"`
	AccessibleRooms []int           `json:"accessibleRooms"`
	TileIndices     []int           `json:"tileIndices"`
}

// Dungeon is a finished build. It marshals as a Tiled map with an extra
// rooms array.
type Dungeon struct {
	*tiled.Map
	Rooms []RoomRecord `json:"rooms"`
}

// RoomError ties a build failure to the room that caused it.
type RoomError struct {
	Room int
	Err  error
}

func (e *RoomError) Error() string {
	return fmt.Sprintf("room %d: %v", e.Room, e.Err)
}

func (e *RoomError) Unwrap() error { return e.Err }

// Builder runs builds. It holds no per-build state and can be reused.
type Builder struct {
	log     logr.Logger
	tracer  trace.Tracer
	buildID string

	roomsBuilt     metric.Int64Counter
	tilesDirty     metric.Int64Counter
	doorsInstalled metric.Int64Counter
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger. Per-room detail is logged at V(1).
func WithLogger(log logr.Logger) Option {
	return func(b *Builder) { b.log = log }
}

// WithBuildID tags the output map and spans with id.
func WithBuildID(id string) Option {
	return func(b *Builder) { b.buildID = id }
}

// WithTracer overrides the tracer.
func WithTracer(t trace.Tracer) Option {
	return func(b *Builder) { b.tracer = t }
}

// New creates a builder.
func New(opts ...Option) *Builder {
	b := &Builder{
		log:    logr.Discard(),
		tracer: telemetry.Tracer("builder"),
	}
	for _, opt := range opts {
		opt(b)
	}

	meter := telemetry.Meter("builder")
	b.roomsBuilt = counter(meter, b.log, "dungen.rooms.built", "Rooms merged into composite maps")
	b.tilesDirty = counter(meter, b.log, "dungen.tiles.dirty", "Tiles written by template merges")
	b.doorsInstalled = counter(meter, b.log, "dungen.doors.installed", "Doors carved into composite maps")
	return b
}

func counter(meter metric.Meter, log logr.Logger, name, desc string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		log.Error(err, "creating counter failed", "counter", name)
		return noop.Int64Counter{}
	}
	return c
}

// Build merges a template into every room of l and carves its doors. On
// error the partial map is dropped; callers start over rather than resume.
func (b *Builder) Build(ctx context.Context, l layout.Layout, catalog *content.Catalog, p Props) (_ *Dungeon, err error) {
	ctx, span := b.tracer.Start(ctx, "dungen.build", trace.WithAttributes(
		attribute.String("dungen.layout", l.Name),
		attribute.Int("dungen.rooms", len(l.Rooms)),
		attribute.Int64("dungen.seed", p.Seed),
		attribute.String("dungen.build_id", b.buildID),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := catalog.ValidateLayout(l); err != nil {
		return nil, err
	}

	width, height := l.MapSize()
	m, err := tiled.NewMap(width, height, p.TileWidth, p.TileHeight)
	if err != nil {
		return nil, err
	}
	if b.buildID != "" {
		m.SetProperty(BuildIDProperty, b.buildID)
	}

	log := b.log.WithValues("layout", l.Name, "seed", p.Seed)
	log.Info("building map", "rooms", len(l.Rooms), "width", width, "height", height)

	s := &state{
		b:            b,
		catalog:      catalog,
		props:        p,
		m:            m,
		merger:       merge.NewMerger(),
		rng:          rand.New(rand.NewSource(p.Seed)),
		layoutCenter: l.CenterScaled(p.TileWidth),
		worldCenter:  l.WorldCenter(p.TileWidth, p.TileHeight),
		log:          log,
	}

	d := &Dungeon{Map: m, Rooms: make([]RoomRecord, 0, len(l.Rooms))}
	for _, room := range l.Rooms {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := s.room(ctx, room)
		if err != nil {
			return nil, &RoomError{Room: room.Number, Err: err}
		}
		d.Rooms = append(d.Rooms, rec)
	}

	fp := tiled.Fingerprint(m)
	span.SetAttributes(attribute.String("dungen.fingerprint", fmt.Sprintf("%016x", fp)))
	log.Info("map built", "layers", len(m.Layers), "tilesets", len(m.TileSets), "fingerprint", fmt.Sprintf("%016x", fp))
	return d, nil
}

// state is what one build mutates. Its merger keeps the object id counter
// for the whole build.
type state struct {
	b            *Builder
	catalog      *content.Catalog
	props        Props
	m            *tiled.Map
	merger       *merge.Merger
	installer    *door.Installer
	rng          *rand.Rand
	layoutCenter geom.Vec2
	worldCenter  geom.Vec2
	log          logr.Logger
}

func (s *state) room(ctx context.Context, room layout.Room) (_ RoomRecord, err error) {
	ctx, span := s.b.tracer.Start(ctx, "dungen.room", trace.WithAttributes(
		attribute.Int("dungen.room.number", room.Number),
		attribute.String("dungen.room.type", room.Type.String()),
		attribute.String("dungen.room.blueprint", room.Blueprint),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	bp, err := s.catalog.Blueprint(room.Blueprint)
	if err != nil {
		return RoomRecord{}, err
	}
	label, tmpl, err := s.catalog.PickTemplate(bp, s.rng)
	if err != nil {
		return RoomRecord{}, err
	}
	if tmpl.TileWidth != s.props.TileWidth || tmpl.TileHeight != s.props.TileHeight {
		return RoomRecord{}, fmt.Errorf("%w: template %s uses %dx%d tiles, the map %dx%d",
			tiled.ErrValidation, label, tmpl.TileWidth, tmpl.TileHeight, s.props.TileWidth, s.props.TileHeight)
	}

	world := room.ToWorld(s.props.TileWidth, s.layoutCenter, s.worldCenter)
	anchor := world.Anchor(s.m.PixelHeight())
	if err := s.merger.Merge(s.m, tmpl, anchor, s.props.EmptyTileGID); err != nil {
		return RoomRecord{}, fmt.Errorf("merging template %s: %w", label, err)
	}
	dirty := s.merger.DirtyTiles()
	s.b.tilesDirty.Add(ctx, int64(len(dirty)))

	placed := 0
	if len(world.Doors) > 0 {
		if s.installer == nil {
			cat, err := door.NewCatalog(s.m.TileSets, s.catalog.TileSets)
			if err != nil {
				return RoomRecord{}, err
			}
			s.installer = door.NewInstaller(cat)
			s.log.V(1).Info("door catalog ready", "tileset", cat.TileSet, "tiles", len(cat.Tiles))
		}
		placements, err := s.installer.InstallDoors(s.m, world, s.props.DoorMinDistanceFromCorner)
		if err != nil {
			return RoomRecord{}, err
		}
		for _, p := range placements {
			s.log.V(1).Info("door installed", "room", room.Number, "wall", p.Wall.String(), "length", p.Length, "tiles", p.Tiles)
		}
		placed = len(placements)
		s.b.doorsInstalled.Add(ctx, int64(placed))
	}
	s.b.roomsBuilt.Add(ctx, 1)

	span.SetAttributes(
		attribute.String("dungen.room.template", label),
		attribute.Int("dungen.room.tiles", len(dirty)),
		attribute.Int("dungen.room.doors", placed),
	)
	s.log.V(1).Info("room merged", "room", room.Number, "template", label,
		"anchor", anchor.String(), "tiles", len(dirty), "doors", placed)

	return RoomRecord{
		Number:          room.Number,
		Type:            room.Type,
		Template:        label,
		AccessibleRooms: room.AccessibleRooms(),
		TileIndices:     dirty,
	}, nil
}

// IsValidation reports whether err came from bad input rather than a
// cancelled context.
func IsValidation(err error) bool {
	return errors.Is(err, tiled.ErrValidation)
}
