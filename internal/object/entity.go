package object

import (
	"fmt"
	"math"
	"strings"

	"github.com/tomz197/airhockey/internal/physics"
)

// Mask is a bitset of collision layers.
type Mask uint32

// Collision layers.
const (
	StickLayer Mask = 1 << iota
	PuckLayer
	WallLayer
	GateLayer

	AllLayers = ^Mask(0)
)

var layerNames = []string{"stick", "puck", "wall", "gate"}

func (m Mask) String() string {
	switch m {
	case 0:
		return "none"
	case AllLayers:
		return "all"
	}

	var parts []string
	for i, name := range layerNames {
		if m&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	if rest := m &^ (1<<len(layerNames) - 1); rest != 0 {
		parts = append(parts, fmt.Sprintf("%#x", uint32(rest)))
	}
	return strings.Join(parts, "|")
}

const (
	// sweepStep is the fraction of a tick covered by one sweep sub-step.
	sweepStep  = 0.05
	sweepSteps = 20

	// repellingCoefficient scales the penetration-driven push between two
	// dynamic bodies. Half of it goes to each body.
	repellingCoefficient = 1.5
)

// Entity is a body in the rink: a shape with position, velocity, mass and
// collision layers. Position, size and shape kind are kept private so the
// shape is always rebuilt from them.
type Entity struct {
	Name string

	Enabled  bool // Disabled entities are skipped by the world
	Static   bool // Infinite mass; collisions never change its velocity
	Physical bool // Non-physical entities only report collisions

	Mass     float64
	Velocity physics.Vector2
	Friction float64 // Speed lost per second while moving

	Layer         Mask // Layers the entity belongs to
	CollisionMask Mask // Layers the entity can collide with

	position physics.Vector2
	size     physics.Vector2
	kind     physics.Kind
	shape    physics.Shape

	listeners []Listener
}

// NewEntity creates an enabled, dynamic, physical circle of size 1 at the
// origin.
func NewEntity(name string) *Entity {
	e := &Entity{
		Name:     name,
		Enabled:  true,
		Physical: true,
		size:     physics.Vec(1, 1),
		kind:     physics.KindCircle,
	}
	e.updateShape()
	return e
}

// Position returns the entity center.
func (e *Entity) Position() physics.Vector2 { return e.position }

// Size returns the entity extents.
func (e *Entity) Size() physics.Vector2 { return e.size }

// Kind returns the kind of shape the entity uses for collisions.
func (e *Entity) Kind() physics.Kind { return e.kind }

// Shape returns the collision shape at the current position.
func (e *Entity) Shape() physics.Shape { return e.shape }

// IsMoving reports whether the velocity is non-zero.
func (e *Entity) IsMoving() bool {
	return !e.Velocity.IsZero()
}

// CanCollideWith reports whether the collision mask shares a bit with layer.
func (e *Entity) CanCollideWith(layer Mask) bool {
	return e.CollisionMask&layer != 0
}

// SetPosition moves the entity.
func (e *Entity) SetPosition(p physics.Vector2) {
	e.position = p
	e.updateShape()
}

// SetAnchoredPosition places the entity at anchor plus offset. The anchor is
// given in unit coordinates; its Y is stretched by heightScale so that an
// anchor of (0.5, 1) means the middle of the top edge of a rink that is
// heightScale tall.
func (e *Entity) SetAnchoredPosition(offset, anchor physics.Vector2, heightScale float64) {
	e.position = physics.Vec(anchor.X+offset.X, anchor.Y*heightScale+offset.Y)
	e.updateShape()
}

// SetDoubleAnchoredPosition stretches the entity between two anchors given in
// unit coordinates.
func (e *Entity) SetDoubleAnchoredPosition(anchor1, anchor2 physics.Vector2, heightScale float64) {
	e.position = physics.Vec(
		0.5*(anchor1.X+anchor2.X),
		0.5*(anchor1.Y+anchor2.Y)*heightScale,
	)
	e.size = anchor1.Sub(anchor2).Abs().Mul(physics.Vec(1, heightScale))
	e.updateShape()
}

// SetSize changes the entity extents.
func (e *Entity) SetSize(size physics.Vector2) {
	e.size = size
	e.updateShape()
}

// SetKind changes the kind of collision shape.
func (e *Entity) SetKind(kind physics.Kind) {
	e.kind = kind
	e.updateShape()
}

// AddListener subscribes l to the entity's collision notifications.
func (e *Entity) AddListener(l Listener) {
	e.listeners = append(e.listeners, l)
}

func (e *Entity) updateShape() {
	switch e.kind {
	case physics.KindCircle:
		e.shape = physics.NewCircle(e.position, math.Max(e.size.X, e.size.Y)*0.5)
	case physics.KindRectangle:
		e.shape = physics.RectangleFromSize(e.position, e.size)
	case physics.KindLine:
		half := physics.Vec(e.size.X*0.5, 0)
		e.shape = physics.NewLine(e.position.Sub(half), e.position.Add(half))
	default:
		panic(fmt.Sprintf("object: unknown shape kind %s", e.kind))
	}
}

// Contact returns the penetration between e and other over the next tick of
// length dt. It is 0 when e's layer is outside other's collision mask.
//
// Resting pairs get a single test. When either entity moves, both shapes are
// advanced in sweepSteps sub-steps and the first positive penetration is
// returned, so fast bodies cannot skip over thin ones.
func (e *Entity) Contact(other *Entity, dt float64) float64 {
	if e.Layer&other.CollisionMask == 0 {
		return 0
	}

	if !e.IsMoving() && !other.IsMoving() {
		return physics.Contact(e.shape, other.shape)
	}

	a, b := e.shape, other.shape
	stepA := e.Velocity.Scale(dt * sweepStep)
	stepB := other.Velocity.Scale(dt * sweepStep)

	for i := 0; i < sweepSteps; i++ {
		if pen := physics.Contact(a, b); pen > 0 {
			return pen
		}
		a = a.Translated(stepA)
		b = b.Translated(stepB)
	}
	return 0
}

// ContactShape is Contact against a bare shape such as a wall segment or a
// spawn zone. Only the entity is swept. It is 0 when e's layer is outside
// collisionMask.
func (e *Entity) ContactShape(s physics.Shape, collisionMask Mask, dt float64) float64 {
	if e.Layer&collisionMask == 0 {
		return 0
	}

	if !e.IsMoving() {
		return physics.Contact(e.shape, s)
	}

	a := e.shape
	step := e.Velocity.Scale(dt * sweepStep)

	for i := 0; i < sweepSteps; i++ {
		if pen := physics.Contact(a, s); pen > 0 {
			return pen
		}
		a = a.Translated(step)
	}
	return 0
}

// Collide notifies both entities' listeners and then resolves the collision.
//
// Listeners always fire, in the order e, other, e's layer event, other's
// layer event. If either entity is non-physical nothing else happens. Two
// dynamic bodies exchange their normal velocities elastically and are pushed
// apart in proportion to penetration. A dynamic body hitting a static one has
// its normal velocity negated.
func (e *Entity) Collide(other *Entity, penetration float64) {
	e.notifyCollision(other)
	other.notifyCollision(e)
	e.notifyLayerCollision(other.Layer)
	other.notifyLayerCollision(e.Layer)

	if !e.Physical || !other.Physical {
		return
	}

	normal := other.position.Sub(e.position).Normalize()
	tangent := normal.Perp()

	switch {
	case !e.Static && !other.Static:
		normal1, tangent1 := e.Velocity.Dot(normal), e.Velocity.Dot(tangent)
		normal2, tangent2 := other.Velocity.Dot(normal), other.Velocity.Dot(tangent)

		reverseMassSum := 1 / (e.Mass + other.Mass)
		newNormal1 := ((e.Mass-other.Mass)*normal1 + 2*other.Mass*normal2) * reverseMassSum
		newNormal2 := ((other.Mass-e.Mass)*normal2 + 2*e.Mass*normal1) * reverseMassSum

		repel := -penetration * repellingCoefficient * 0.5

		e.Velocity = normal.Scale(newNormal1 + repel).Add(tangent.Scale(tangent1))
		other.Velocity = normal.Scale(newNormal2 - repel).Add(tangent.Scale(tangent2))

	case e.Static && other.Static:
		return

	case e.Static:
		other.Velocity = bounce(other.Velocity, normal, tangent)

	default:
		e.Velocity = bounce(e.Velocity, normal, tangent)
	}
}

// bounce negates the normal component of v.
func bounce(v, normal, tangent physics.Vector2) physics.Vector2 {
	return normal.Scale(-v.Dot(normal)).Add(tangent.Scale(v.Dot(tangent)))
}

// ReflectFrom bounces the entity off a wall segment. The normal component of
// the velocity is reversed and scaled by 1-consumedVelocityRatio; the tangent
// component is kept. layer is reported to the layer listeners.
//
// It panics if consumedVelocityRatio is outside [0, 1].
func (e *Entity) ReflectFrom(wall physics.Line, layer Mask, consumedVelocityRatio float64) {
	if consumedVelocityRatio < 0 || consumedVelocityRatio > 1 {
		panic(fmt.Sprintf("object: consumed velocity ratio %v outside [0, 1]", consumedVelocityRatio))
	}

	e.notifyLayerCollision(layer)

	normal := wall.Nearest(e.position).Sub(e.position).Normalize()
	tangent := normal.Perp()

	normalSpeed := e.Velocity.Dot(normal) * (1 - consumedVelocityRatio)
	tangentSpeed := e.Velocity.Dot(tangent)

	e.Velocity = normal.Scale(-normalSpeed).Add(tangent.Scale(tangentSpeed))
}

// Update moves the entity by its velocity and applies friction.
func (e *Entity) Update(dt float64) {
	if !e.IsMoving() {
		return
	}

	e.position = e.position.Add(e.Velocity.Scale(dt))
	e.updateShape()

	if e.Friction > 0 {
		e.applyFriction(dt)
	}
}

func (e *Entity) applyFriction(dt float64) {
	speed := e.Velocity.Length() - e.Friction*dt
	if speed < 0 {
		speed = 0
	}
	e.Velocity = e.Velocity.Normalize().Scale(speed)
}

// AccelerateWithLimit adds acc*dt to the velocity while the speed is below
// maxSpeed. Entities already faster than maxSpeed are left alone.
func (e *Entity) AccelerateWithLimit(acc physics.Vector2, maxSpeed, dt float64) {
	if e.Velocity.Length() < maxSpeed {
		e.Velocity = e.Velocity.Add(acc.Scale(dt))
	}
}

func (e *Entity) String() string {
	return fmt.Sprintf("%s(%s at %.3f,%.3f)", e.Name, e.kind, e.position.X, e.position.Y)
}
