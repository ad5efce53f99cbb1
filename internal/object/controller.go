package object

import "github.com/tomz197/airhockey/internal/physics"

const (
	// DefaultMaxSpeed is the speed above which controllers stop accelerating.
	DefaultMaxSpeed = 1.15

	// enoughDestinationDistance is how close the AI gets to its defend point
	// before it stops steering.
	enoughDestinationDistance = 0.008
	// defendDistance is how far in front of its own gate the AI waits.
	defendDistance = 0.15
	// minimumDirectionCosine gates chasing a moving puck.
	minimumDirectionCosine = 0.5
)

// Controller steers an entity once per tick, before the physics step.
type Controller interface {
	Update(dt float64)
}

// KeyboardController drives a stick from four direction keys and keeps it
// inside its own half of the rink.
type KeyboardController struct {
	Target    *Entity
	Area      physics.Rectangle
	MoveForce float64
	MaxSpeed  float64

	up, down, left, right bool
}

// NewKeyboardController creates a controller for target.
func NewKeyboardController(target *Entity, area physics.Rectangle, moveForce float64) *KeyboardController {
	return &KeyboardController{
		Target:    target,
		Area:      area,
		MoveForce: moveForce,
		MaxSpeed:  DefaultMaxSpeed,
	}
}

// SetInput sets which direction keys are held.
func (c *KeyboardController) SetInput(up, down, left, right bool) {
	c.up, c.down, c.left, c.right = up, down, left, right
}

// Direction returns the unit direction requested by the held keys. Opposing
// keys cancel; with three keys held the unopposed one wins.
func (c *KeyboardController) Direction() physics.Vector2 {
	var x, y float64
	if c.left {
		x--
	}
	if c.right {
		x++
	}
	if c.down {
		y--
	}
	if c.up {
		y++
	}
	return physics.Vec(x, y).Normalize()
}

// Update accelerates the target in the requested direction. Outside its area
// the target is pulled back toward the nearest point of the area and only the
// sideways part of the request is kept.
func (c *KeyboardController) Update(dt float64) {
	dir := c.Direction()
	pos := c.Target.Position()

	if !c.Area.Contain(pos) {
		allowed := c.Area.Nearest(pos).Sub(pos).Normalize()
		tangent := allowed.Perp()
		dir = allowed.Add(tangent.Scale(dir.Dot(tangent))).Normalize()
	}

	c.Target.AccelerateWithLimit(dir.Scale(c.MoveForce), c.MaxSpeed, dt)
}

// AIController plays a stick against the puck. It attacks a puck that is in
// its own area and otherwise guards its gate.
type AIController struct {
	Target       *Entity
	Puck         *Entity
	Area         physics.Rectangle
	OwnGate      physics.Rectangle
	OpponentGate physics.Rectangle
	MoveForce    float64
	MaxSpeed     float64
}

// NewAIController creates an AI for target.
func NewAIController(target, puck *Entity, area, ownGate, opponentGate physics.Rectangle, moveForce float64) *AIController {
	return &AIController{
		Target:       target,
		Puck:         puck,
		Area:         area,
		OwnGate:      ownGate,
		OpponentGate: opponentGate,
		MoveForce:    moveForce,
		MaxSpeed:     DefaultMaxSpeed,
	}
}

// Update picks a direction and accelerates the target.
func (c *AIController) Update(dt float64) {
	c.Target.AccelerateWithLimit(c.direction().Scale(c.MoveForce), c.MaxSpeed, dt)
}

func (c *AIController) direction() physics.Vector2 {
	pos := c.Target.Position()
	puck := c.Puck.Position()

	if c.Puck.Enabled && c.Area.Contain(puck) {
		toPuck := puck.Sub(pos).Normalize()

		if !c.Puck.IsMoving() {
			if !toPuck.IsZero() {
				return toPuck
			}
		} else {
			toGate := c.OpponentGate.Nearest(puck).Sub(puck).Normalize()
			if toPuck.Dot(toGate) > minimumDirectionCosine && pos != puck {
				return toPuck
			}
		}
	}

	ref := c.OwnGate.Nearest(puck)
	aim := ref.Add(puck.Sub(ref).Normalize().Scale(defendDistance))

	if physics.Distance(pos, aim) > enoughDestinationDistance {
		return aim.Sub(pos).Normalize()
	}
	return physics.Vector2{}
}
