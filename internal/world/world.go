// Package world owns the entities and walls of one rink and advances them
// with a fixed timestep. A World is not safe for concurrent use; each game
// session builds its own.
package world

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/tomz197/airhockey/internal/object"
	"github.com/tomz197/airhockey/internal/physics"
)

const (
	// DefaultCapacity is the number of entities a World holds unless
	// WithCapacity says otherwise.
	DefaultCapacity = 10
	// DefaultWallConsumption is the share of normal speed the walls absorb.
	DefaultWallConsumption = 0.25
)

// World is a fixed-capacity entity pool with its boundary walls and a spawn
// zone.
type World struct {
	entities  []*object.Entity
	capacity  int
	walls     Walls
	spawnZone physics.Circle
	logger    *log.Logger
}

// Option configures a World.
type Option func(*World)

// WithCapacity sets the maximum number of entities.
func WithCapacity(n int) Option {
	return func(w *World) { w.capacity = n }
}

// WithWallConsumption sets the share of normal speed the walls absorb.
func WithWallConsumption(ratio float64) Option {
	return func(w *World) { w.walls.VelocityConsumption = ratio }
}

// WithWallCollisionMask sets which entity layers the walls stop.
func WithWallCollisionMask(mask object.Mask) Option {
	return func(w *World) { w.walls.CollisionMask = mask }
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *log.Logger) Option {
	return func(w *World) { w.logger = logger }
}

// New creates an empty World.
func New(opts ...Option) *World {
	w := &World{
		capacity: DefaultCapacity,
		walls: Walls{
			Layer:               object.WallLayer,
			CollisionMask:       object.AllLayers,
			VelocityConsumption: DefaultWallConsumption,
		},
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = log.New(io.Discard)
	}
	w.entities = make([]*object.Entity, 0, w.capacity)
	return w
}

// Add appends an entity. Entities are stepped in the order they were added.
// It panics when the World is full.
func (w *World) Add(e *object.Entity) *object.Entity {
	if len(w.entities) >= w.capacity {
		panic(fmt.Sprintf("world: capacity %d exceeded adding %q", w.capacity, e.Name))
	}
	w.entities = append(w.entities, e)
	w.logger.Debug("entity added", "name", e.Name, "layer", e.Layer, "count", len(w.entities))
	return e
}

// Entities returns the entities in step order. The slice must not be modified.
func (w *World) Entities() []*object.Entity {
	return w.entities
}

// Capacity returns the maximum number of entities.
func (w *World) Capacity() int {
	return w.capacity
}

// SetBoundaries replaces the wall segments.
func (w *World) SetBoundaries(segments []physics.Line) {
	w.walls.Segments = segments
	w.logger.Debug("boundaries set", "segments", len(segments))
}

// Boundaries returns the wall segments.
func (w *World) Boundaries() []physics.Line {
	return w.walls.Segments
}

// Walls returns the full wall configuration.
func (w *World) Walls() Walls {
	return w.walls
}

// SetWallConsumption changes the share of normal speed the walls absorb.
func (w *World) SetWallConsumption(ratio float64) {
	w.walls.VelocityConsumption = ratio
}

// SetSpawnZone sets the circle checked by IsSpawnFree.
func (w *World) SetSpawnZone(zone physics.Circle) {
	w.spawnZone = zone
}

// SpawnZone returns the circle checked by IsSpawnFree.
func (w *World) SpawnZone() physics.Circle {
	return w.spawnZone
}

// IsSpawnFree reports whether no enabled entity overlaps the spawn zone.
func (w *World) IsSpawnFree() bool {
	return w.IsFree(w.spawnZone)
}

// IsFree reports whether no enabled entity overlaps zone.
func (w *World) IsFree(zone physics.Circle) bool {
	for _, e := range w.entities {
		if !e.Enabled {
			continue
		}
		if e.ContactShape(zone, object.AllLayers, 0) > 0 {
			return false
		}
	}
	return true
}

// Step runs one collision pass over the World's entities and walls.
func (w *World) Step(dt float64) {
	Step(w.entities, w.walls, dt)
}

// Update moves every enabled entity by one tick.
func (w *World) Update(dt float64) {
	Update(w.entities, dt)
}
