package object

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/airhockey/internal/physics"
)

const (
	eps = 1e-9
	dt  = 1.0 / 60.0
)

func newDisc(name string, pos physics.Vector2, radius float64) *Entity {
	e := NewEntity(name)
	e.SetSize(physics.Vec(radius*2, radius*2))
	e.SetPosition(pos)
	e.Layer = PuckLayer
	e.CollisionMask = AllLayers
	e.Mass = 1
	return e
}

func TestNewEntityDefaults(t *testing.T) {
	e := NewEntity("thing")

	assert.True(t, e.Enabled)
	assert.True(t, e.Physical)
	assert.False(t, e.Static)
	assert.Equal(t, physics.Vec(1, 1), e.Size())
	assert.Equal(t, physics.KindCircle, e.Kind())
	assert.Equal(t, physics.NewCircle(physics.Vec(0, 0), 0.5), e.Shape())
	assert.False(t, e.IsMoving())
}

func TestEntityShapeFollowsState(t *testing.T) {
	e := NewEntity("thing")
	e.SetSize(physics.Vec(0.5, 0.4))
	e.SetPosition(physics.Vec(1, 2))
	assert.Equal(t, physics.NewCircle(physics.Vec(1, 2), 0.25), e.Shape())

	e.SetKind(physics.KindRectangle)
	assert.Equal(t, physics.RectangleFromSize(physics.Vec(1, 2), physics.Vec(0.5, 0.4)), e.Shape())

	e.SetKind(physics.KindLine)
	assert.Equal(t, physics.NewLine(physics.Vec(0.75, 2), physics.Vec(1.25, 2)), e.Shape())

	e.SetKind(physics.KindCircle)
	e.Velocity = physics.Vec(1, 0)
	e.Update(0.5)
	assert.Equal(t, physics.NewCircle(physics.Vec(1.5, 2), 0.25), e.Shape())
}

func TestAnchoredPositions(t *testing.T) {
	e := NewEntity("gate")
	e.SetAnchoredPosition(physics.Vec(0, -0.0125), physics.Vec(0.5, 1), 4.0/3.0)
	assert.InDelta(t, 0.5, e.Position().X, eps)
	assert.InDelta(t, 4.0/3.0-0.0125, e.Position().Y, eps)

	e.SetDoubleAnchoredPosition(physics.Vec(0, 0), physics.Vec(1, 0.5), 2)
	assert.InDelta(t, 0.5, e.Position().X, eps)
	assert.InDelta(t, 0.5, e.Position().Y, eps)
	assert.Equal(t, physics.Vec(1, 1), e.Size())
}

func TestContactMaskGating(t *testing.T) {
	a := newDisc("a", physics.Vec(0, 0), 0.1)
	b := newDisc("b", physics.Vec(0.05, 0), 0.1)

	require.Positive(t, a.Contact(b, dt))

	b.CollisionMask = StickLayer
	assert.Zero(t, a.Contact(b, dt))
	assert.Zero(t, a.ContactShape(b.Shape(), WallLayer, dt))

	b.CollisionMask = PuckLayer
	assert.Positive(t, a.Contact(b, dt))
}

func TestContactStaticDepth(t *testing.T) {
	a := newDisc("a", physics.Vec(0, 0), 0.1)
	b := newDisc("b", physics.Vec(0.15, 0), 0.1)

	assert.InDelta(t, 0.05, a.Contact(b, dt), eps)
	assert.InDelta(t, 0.05, b.Contact(a, dt), eps)
}

func TestSweptContactPreventsTunneling(t *testing.T) {
	// covers a third of the rink in one tick
	puck := newDisc("puck", physics.Vec(0.4, 0), 0.01)
	puck.Velocity = physics.Vec(20, 0)

	thin := NewEntity("thin")
	thin.SetKind(physics.KindRectangle)
	thin.SetSize(physics.Vec(0.02, 1))
	thin.SetPosition(physics.Vec(0.5, 0))
	thin.Static = true
	thin.Layer = WallLayer
	thin.CollisionMask = PuckLayer

	wall := physics.NewLine(physics.Vec(0.5, -1), physics.Vec(0.5, 1))

	atEnd := physics.Translate(puck.Shape(), puck.Velocity.Scale(dt))
	require.Zero(t, physics.Contact(atEnd, thin.Shape()))
	require.Zero(t, physics.Contact(atEnd, wall))

	assert.Positive(t, puck.Contact(thin, dt))
	assert.Positive(t, thin.Contact(puck, dt))
	assert.Positive(t, puck.ContactShape(wall, AllLayers, dt))
}

func TestSweptContactMissesWhenPathIsClear(t *testing.T) {
	puck := newDisc("puck", physics.Vec(0.4, 0), 0.01)
	puck.Velocity = physics.Vec(0, 20)

	wall := physics.NewLine(physics.Vec(0.5, -1), physics.Vec(0.5, 1))
	assert.Zero(t, puck.ContactShape(wall, AllLayers, dt))
}

func TestCollideEqualMassExchange(t *testing.T) {
	a := newDisc("a", physics.Vec(0, 0), 0.1)
	b := newDisc("b", physics.Vec(0.15, 0), 0.1)
	a.Velocity = physics.Vec(1, 0)
	b.Velocity = physics.Vec(-1, 0)

	pen := a.Contact(b, dt)
	require.InDelta(t, 0.05, pen, eps)

	a.Collide(b, pen)

	repel := 0.05 * repellingCoefficient * 0.5
	assert.InDelta(t, -1-repel, a.Velocity.X, eps)
	assert.InDelta(t, 1+repel, b.Velocity.X, eps)
	assert.InDelta(t, 0, a.Velocity.Y, eps)
	assert.InDelta(t, 0, b.Velocity.Y, eps)
}

func TestCollideExchangeWithoutPenetration(t *testing.T) {
	a := newDisc("a", physics.Vec(0, 0), 0.1)
	b := newDisc("b", physics.Vec(0.2, 0), 0.1)
	a.Velocity = physics.Vec(0.7, 0.3)
	b.Velocity = physics.Vec(-0.4, 0)

	a.Collide(b, 0)

	assert.InDelta(t, -0.4, a.Velocity.X, eps)
	assert.InDelta(t, 0.3, a.Velocity.Y, eps, "tangent is kept")
	assert.InDelta(t, 0.7, b.Velocity.X, eps)
	assert.InDelta(t, 0, b.Velocity.Y, eps)
}

func TestCollideUnequalMassConservesMomentum(t *testing.T) {
	a := newDisc("stick", physics.Vec(0, 0), 0.1)
	b := newDisc("puck", physics.Vec(0, 0.2), 0.1)
	a.Mass, b.Mass = 5, 1.25
	a.Velocity = physics.Vec(0, 1)

	a.Collide(b, 0)

	assert.InDelta(t, 5.0, a.Mass*a.Velocity.Y+b.Mass*b.Velocity.Y, eps)
	assert.InDelta(t, 0.6, a.Velocity.Y, eps)
	assert.InDelta(t, 1.6, b.Velocity.Y, eps)
}

func TestCollideWithStatic(t *testing.T) {
	post := newDisc("post", physics.Vec(0, 0), 0.1)
	post.Static = true
	puck := newDisc("puck", physics.Vec(0.15, 0), 0.1)
	puck.Velocity = physics.Vec(-1, 0.5)

	post.Collide(puck, 0.05)
	assert.True(t, post.Velocity.IsZero())
	assert.InDelta(t, 1, puck.Velocity.X, eps)
	assert.InDelta(t, 0.5, puck.Velocity.Y, eps)

	puck.Velocity = physics.Vec(-1, 0.5)
	puck.Collide(post, 0.05)
	assert.True(t, post.Velocity.IsZero())
	assert.InDelta(t, 1, puck.Velocity.X, eps)
	assert.InDelta(t, 0.5, puck.Velocity.Y, eps)
}

func TestCollideBothStaticIsNoop(t *testing.T) {
	a := newDisc("a", physics.Vec(0, 0), 0.1)
	b := newDisc("b", physics.Vec(0.1, 0), 0.1)
	a.Static, b.Static = true, true
	a.Velocity = physics.Vec(1, 0)

	a.Collide(b, 0.1)
	assert.Equal(t, physics.Vec(1, 0), a.Velocity)
	assert.True(t, b.Velocity.IsZero())
}

func TestCollideNonPhysicalOnlyNotifies(t *testing.T) {
	var log []string
	record := func(prefix string) ListenerFuncs {
		return ListenerFuncs{
			Collision: func(e, other *Entity) {
				log = append(log, prefix+" hit "+other.Name)
			},
			LayerCollision: func(e *Entity, layer Mask) {
				log = append(log, prefix+" layer "+layer.String())
			},
		}
	}

	sensor := newDisc("sensor", physics.Vec(0, 0), 0.1)
	sensor.Physical = false
	sensor.Layer = GateLayer
	puck := newDisc("puck", physics.Vec(0.1, 0), 0.1)
	puck.Velocity = physics.Vec(-1, 0)

	sensor.AddListener(record("sensor"))
	puck.AddListener(record("puck"))

	sensor.Collide(puck, 0.1)

	assert.Equal(t, []string{
		"sensor hit puck",
		"puck hit sensor",
		"sensor layer puck",
		"puck layer gate",
	}, log)
	assert.Equal(t, physics.Vec(-1, 0), puck.Velocity)
}

func TestMaskString(t *testing.T) {
	assert.Equal(t, "puck", PuckLayer.String())
	assert.Equal(t, "stick|wall", (StickLayer | WallLayer).String())
	assert.Equal(t, "none", Mask(0).String())
	assert.Equal(t, "all", AllLayers.String())
	assert.Equal(t, "gate|0x100", (GateLayer | 1<<8).String())
}

func TestReflectFrom(t *testing.T) {
	wall := physics.NewLine(physics.Vec(-1, 0), physics.Vec(1, 0))

	cases := []struct {
		name  string
		ratio float64
		want  physics.Vector2
	}{
		{"elastic", 0, physics.Vec(0.3, 0.7)},
		{"wall consumption", 0.25, physics.Vec(0.3, 0.525)},
		{"fully absorbed", 1, physics.Vec(0.3, 0)},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e := newDisc("puck", physics.Vec(0, 0.05), 0.1)
			e.Velocity = physics.Vec(0.3, -0.7)

			e.ReflectFrom(wall, WallLayer, c.ratio)

			assert.InDelta(t, c.want.X, e.Velocity.X, eps)
			assert.InDelta(t, c.want.Y, e.Velocity.Y, eps)
		})
	}
}

func TestReflectFromNotifiesLayer(t *testing.T) {
	q := &EventQueue{}
	e := newDisc("puck", physics.Vec(0, 0.05), 0.1)
	e.AddListener(q)

	e.ReflectFrom(physics.NewLine(physics.Vec(-1, 0), physics.Vec(1, 0)), WallLayer, 0.25)

	events := q.Drain()
	require.Len(t, events, 1)
	assert.Equal(t, CollisionEvent{Kind: CollisionWithLayer, Entity: e, Layer: WallLayer}, events[0])
}

func TestReflectFromRejectsBadRatio(t *testing.T) {
	e := newDisc("puck", physics.Vec(0, 0.05), 0.1)
	wall := physics.NewLine(physics.Vec(-1, 0), physics.Vec(1, 0))

	assert.Panics(t, func() { e.ReflectFrom(wall, WallLayer, -0.1) })
	assert.Panics(t, func() { e.ReflectFrom(wall, WallLayer, 1.5) })
}

func TestFrictionStopsExactly(t *testing.T) {
	e := newDisc("puck", physics.Vec(0, 0), 0.1)
	e.Velocity = physics.Vec(0, 1)
	e.Friction = 0.5

	// speed / friction = 2 seconds
	prev := e.Velocity.Length()
	for i := 0; i < 4; i++ {
		e.Update(0.5)
		speed := e.Velocity.Length()
		assert.LessOrEqual(t, speed, prev)
		assert.GreaterOrEqual(t, speed, 0.0)
		prev = speed
	}

	assert.Zero(t, e.Velocity.Length())
	assert.False(t, e.IsMoving())
	assert.InDelta(t, 1.25, e.Position().Y, eps)

	e.Update(0.5)
	assert.InDelta(t, 1.25, e.Position().Y, eps)
}

func TestFrictionOvershootFloorsAtZero(t *testing.T) {
	e := newDisc("puck", physics.Vec(0, 0), 0.1)
	e.Velocity = physics.Vec(0.05, 0)
	e.Friction = 3.15

	e.Update(dt)
	assert.Zero(t, e.Velocity.Length())
}

func TestAccelerateWithLimit(t *testing.T) {
	e := newDisc("stick", physics.Vec(0, 0), 0.1)

	e.AccelerateWithLimit(physics.Vec(6, 0), 1.15, 0.1)
	assert.InDelta(t, 0.6, e.Velocity.X, eps)

	e.AccelerateWithLimit(physics.Vec(6, 0), 1.15, 0.1)
	assert.InDelta(t, 1.2, e.Velocity.X, eps)

	// already above the limit: untouched, not clamped
	e.AccelerateWithLimit(physics.Vec(6, 0), 1.15, 0.1)
	assert.InDelta(t, 1.2, e.Velocity.X, eps)
}
