package world

import (
	"github.com/tomz197/airhockey/internal/object"
	"github.com/tomz197/airhockey/internal/physics"
)

// Walls describes the static boundary of the rink.
type Walls struct {
	Segments []physics.Line

	// Layer is reported to entities that bounce off a segment.
	Layer object.Mask
	// CollisionMask selects which entity layers the walls stop.
	CollisionMask object.Mask
	// VelocityConsumption is the share of normal speed a wall absorbs, in [0, 1].
	VelocityConsumption float64
}

// Step runs one collision pass over entities.
//
// Every pair of enabled entities is tested in index order (i < j) and
// collided on positive penetration. After its pairs, each enabled entity that
// can collide with the wall layer is tested against every wall segment and
// reflected on contact. Resolution happens in that order, so three bodies
// touching in the same tick are not resolved conservatively.
func Step(entities []*object.Entity, walls Walls, dt float64) {
	for i, e := range entities {
		if !e.Enabled {
			continue
		}

		for _, other := range entities[i+1:] {
			if !other.Enabled {
				continue
			}
			if pen := e.Contact(other, dt); pen > 0 {
				e.Collide(other, pen)
			}
		}

		if !e.CanCollideWith(walls.Layer) {
			continue
		}
		for _, seg := range walls.Segments {
			if e.ContactShape(seg, walls.CollisionMask, dt) > 0 {
				e.ReflectFrom(seg, walls.Layer, walls.VelocityConsumption)
			}
		}
	}
}

// Update moves every enabled entity by one tick.
func Update(entities []*object.Entity, dt float64) {
	for _, e := range entities {
		if e.Enabled {
			e.Update(dt)
		}
	}
}
