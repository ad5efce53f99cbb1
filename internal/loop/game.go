package loop

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/tomz197/airhockey/internal/config"
	"github.com/tomz197/airhockey/internal/input"
	"github.com/tomz197/airhockey/internal/object"
	"github.com/tomz197/airhockey/internal/physics"
	"github.com/tomz197/airhockey/internal/world"
)

// Player identifies one side of the rink. Player1 defends the bottom gate.
type Player int

const (
	Player1 Player = iota
	Player2
)

func (p Player) String() string {
	return fmt.Sprintf("player %d", int(p)+1)
}

// Rink layout in rink units. The rink is 1 wide; heights are fractions of the
// rink height.
const (
	gateDepth      = 0.025
	spawnZoneScale = 2.5 // spawn zone radius in puck radii

	playerAreaHeight = 0.48 // keyboard player's share of the rink
	botAreaHeight    = 0.54 // AI share; overlaps the centre line

	flashDuration = 0.25 // seconds a stick or gate stays highlighted
)

const (
	stickMask = object.PuckLayer | object.WallLayer
	puckMask  = object.StickLayer | object.WallLayer | object.GateLayer
	gateMask  = object.PuckLayer
	wallMask  = object.StickLayer | object.PuckLayer
)

// Game is one air hockey match: the rink, two sticks, the puck and the gates,
// plus the controllers that drive the sticks and the score.
type Game struct {
	tuning config.Tuning
	world  *world.World
	logger *log.Logger

	stick1, stick2 *object.Entity
	puck           *object.Entity
	gate1, gate2   *object.Entity

	player    *object.KeyboardController
	bot       *object.AIController // plays Player2
	bot2      *object.AIController // plays Player1 on autopilot
	autopilot bool

	score        [2]int
	respawnDelay float64 // seconds left before a disabled puck may return

	events  *object.EventQueue
	flashes map[*object.Entity]float64
}

// NewGame builds a match from tuning and starts the first round. A nil logger
// discards output.
func NewGame(tuning config.Tuning, logger *log.Logger) *Game {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	g := &Game{
		tuning:  tuning,
		logger:  logger,
		events:  &object.EventQueue{},
		flashes: make(map[*object.Entity]float64),
		world: world.New(
			world.WithWallCollisionMask(wallMask),
			world.WithWallConsumption(tuning.WallConsumption),
			world.WithLogger(logger),
		),
	}

	g.stick1 = g.world.Add(newBody("stick1", object.StickLayer, stickMask))
	g.stick2 = g.world.Add(newBody("stick2", object.StickLayer, stickMask))
	g.puck = g.world.Add(newBody("puck", object.PuckLayer, puckMask))
	g.gate1 = g.world.Add(newGate("gate1"))
	g.gate2 = g.world.Add(newGate("gate2"))

	for _, e := range g.world.Entities() {
		e.AddListener(g.events)
	}
	g.gate1.AddListener(g.goalListener(Player2))
	g.gate2.AddListener(g.goalListener(Player1))

	g.player = object.NewKeyboardController(g.stick1, physics.Rectangle{}, tuning.StickMovePower)
	g.bot = object.NewAIController(g.stick2, g.puck, physics.Rectangle{}, physics.Rectangle{}, physics.Rectangle{}, tuning.StickMovePower)
	g.bot2 = object.NewAIController(g.stick1, g.puck, physics.Rectangle{}, physics.Rectangle{}, physics.Rectangle{}, tuning.StickMovePower)

	g.layout()
	g.Restart()
	return g
}

func newBody(name string, layer, mask object.Mask) *object.Entity {
	e := object.NewEntity(name)
	e.Layer = layer
	e.CollisionMask = mask
	return e
}

func newGate(name string) *object.Entity {
	e := newBody(name, object.GateLayer, gateMask)
	e.Static = true
	e.SetKind(physics.KindRectangle)
	return e
}

// goalListener scores for scorer when the puck touches the gate.
func (g *Game) goalListener(scorer Player) object.Listener {
	return object.ListenerFuncs{
		Collision: func(gate, other *object.Entity) {
			if other == g.puck {
				g.goal(gate, scorer)
			}
		},
	}
}

// layout applies the tuning to the rink geometry, the bodies and the
// controllers. Positions and velocities are left alone.
func (g *Game) layout() {
	t := g.tuning
	h := t.Height()

	g.world.SetBoundaries(world.BoundaryFromPolyline(world.RinkPolyline(h, t.WallWidth, t.GateWidth)))
	g.world.SetWallConsumption(t.WallConsumption)
	g.world.SetSpawnZone(physics.NewCircle(physics.Vec(0.5, h*0.5), t.Puck.Radius*spawnZoneScale))

	applyBody(g.stick1, t.Stick)
	applyBody(g.stick2, t.Stick)
	applyBody(g.puck, t.Puck)

	gateSize := physics.Vec(t.GateWidth, gateDepth)
	g.gate1.SetSize(gateSize)
	g.gate1.SetAnchoredPosition(physics.Vec(0, gateDepth*0.5), physics.Vec(0.5, 0), h)
	g.gate2.SetSize(gateSize)
	g.gate2.SetAnchoredPosition(physics.Vec(0, -gateDepth*0.5), physics.Vec(0.5, 1), h)

	gate1 := g.gate1.Shape().(physics.Rectangle)
	gate2 := g.gate2.Shape().(physics.Rectangle)

	g.player.Area = physics.RectangleFromSize(physics.Vec(0.5, 0.25*h), physics.Vec(1, h*playerAreaHeight))
	g.player.MoveForce = t.StickMovePower
	g.player.MaxSpeed = t.StickMaxSpeed

	g.bot.Area = physics.RectangleFromSize(physics.Vec(0.5, 0.75*h), physics.Vec(1, h*botAreaHeight))
	g.bot.OwnGate, g.bot.OpponentGate = gate2, gate1
	g.bot.MoveForce = t.StickMovePower
	g.bot.MaxSpeed = t.StickMaxSpeed

	g.bot2.Area = physics.RectangleFromSize(physics.Vec(0.5, 0.25*h), physics.Vec(1, h*botAreaHeight))
	g.bot2.OwnGate, g.bot2.OpponentGate = gate1, gate2
	g.bot2.MoveForce = t.StickMovePower
	g.bot2.MaxSpeed = t.StickMaxSpeed
}

func applyBody(e *object.Entity, b config.Body) {
	e.SetSize(physics.Vec(b.Radius*2, b.Radius*2))
	e.Mass = b.Mass
	e.Friction = b.Friction
}

// ApplyTuning switches to a new tuning between ticks. Scores and positions
// are kept.
func (g *Game) ApplyTuning(t config.Tuning) {
	g.tuning = t
	g.layout()
	g.logger.Info("tuning applied", "tick_rate", t.TickRate, "aspect", t.AspectRatio)
}

// Tuning returns the tuning in effect.
func (g *Game) Tuning() config.Tuning {
	return g.tuning
}

// Restart zeroes the score and puts the sticks and the puck back on their
// starting spots.
func (g *Game) Restart() {
	h := g.tuning.Height()

	g.score = [2]int{}

	g.stick1.SetAnchoredPosition(physics.Vector2{}, physics.Vec(0.5, 0.25), h)
	g.stick1.Velocity = physics.Vector2{}
	g.stick2.SetAnchoredPosition(physics.Vector2{}, physics.Vec(0.5, 0.75), h)
	g.stick2.Velocity = physics.Vector2{}

	g.puck.SetAnchoredPosition(physics.Vector2{}, physics.Vec(0.5, 0.5), h)
	g.puck.Velocity = physics.Vector2{}
	g.puck.Enabled = true
	g.respawnDelay = 0

	clear(g.flashes)
	g.events.Drain()

	g.logger.Info("round started")
}

// goal credits scorer, parks the puck in the centre and arms the respawn
// delay.
func (g *Game) goal(gate *object.Entity, scorer Player) {
	g.score[scorer]++

	g.puck.SetAnchoredPosition(physics.Vector2{}, physics.Vec(0.5, 0.5), g.tuning.Height())
	g.puck.Velocity = physics.Vector2{}
	g.puck.Enabled = false
	g.respawnDelay = g.tuning.PuckRespawnDelay.Seconds()

	g.flashes[gate] = flashDuration

	g.logger.Info("goal", "scorer", scorer, "score", fmt.Sprintf("%d:%d", g.score[Player1], g.score[Player2]))
}

// ToggleAutopilot hands the player's stick to the AI or back.
func (g *Game) ToggleAutopilot() {
	g.autopilot = !g.autopilot
	g.logger.Debug("autopilot toggled", "on", g.autopilot)
}

// Autopilot reports whether the AI plays the player's stick.
func (g *Game) Autopilot() bool {
	return g.autopilot
}

// Tick advances the match by dt seconds: puck respawn, controllers, the
// collision pass and movement, in that order.
func (g *Game) Tick(dt float64, in input.Input) {
	if in.Restart {
		g.Restart()
	}
	if in.Autopilot {
		g.ToggleAutopilot()
	}
	g.player.SetInput(in.Up, in.Down, in.Left, in.Right)

	g.updatePuck(dt)

	g.player1().Update(dt)
	g.bot.Update(dt)

	g.world.Step(dt)
	g.world.Update(dt)

	g.handleEvents()
	g.updateFlashes(dt)
}

func (g *Game) player1() object.Controller {
	if g.autopilot {
		return g.bot2
	}
	return g.player
}

// updatePuck brings a scored puck back once the delay has passed and nothing
// blocks the centre.
func (g *Game) updatePuck(dt float64) {
	if g.puck.Enabled {
		return
	}

	g.respawnDelay -= dt
	if g.respawnDelay <= 0 && g.world.IsSpawnFree() {
		g.puck.Enabled = true
		g.logger.Debug("puck respawned")
	}
}

// handleEvents turns this tick's collisions into highlights.
func (g *Game) handleEvents() {
	for _, evt := range g.events.Drain() {
		switch evt.Kind {
		case object.CollisionWithEntity:
			if evt.Other == g.puck && evt.Entity.Layer == object.StickLayer {
				g.flashes[evt.Entity] = flashDuration
			}
		case object.CollisionWithLayer:
			if evt.Entity == g.puck {
				g.logger.Debug("puck hit", "layer", evt.Layer)
			}
		}
	}
}

func (g *Game) updateFlashes(dt float64) {
	for e, left := range g.flashes {
		left -= dt
		if left <= 0 {
			delete(g.flashes, e)
			continue
		}
		g.flashes[e] = left
	}
}

// Flashing reports whether e was recently hit and should be highlighted.
func (g *Game) Flashing(e *object.Entity) bool {
	_, ok := g.flashes[e]
	return ok
}

// Score returns p's goals in the current round.
func (g *Game) Score(p Player) int {
	return g.score[p]
}

// World returns the simulated rink.
func (g *Game) World() *world.World {
	return g.world
}

// Stick returns p's stick.
func (g *Game) Stick(p Player) *object.Entity {
	if p == Player1 {
		return g.stick1
	}
	return g.stick2
}

// Gate returns the gate p defends.
func (g *Game) Gate(p Player) *object.Entity {
	if p == Player1 {
		return g.gate1
	}
	return g.gate2
}

// Puck returns the puck.
func (g *Game) Puck() *object.Entity {
	return g.puck
}
