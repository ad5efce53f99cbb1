package physics

import (
	"fmt"
	"math"
)

// Rectangle is a box described by its center and two half-extent axes.
// The axes need not be axis-aligned or perpendicular.
type Rectangle struct {
	Center       Vector2
	Axis1, Axis2 Vector2
}

// NewRectangle creates a rectangle from its center and half-extent axes.
func NewRectangle(center, axis1, axis2 Vector2) Rectangle {
	return Rectangle{Center: center, Axis1: axis1, Axis2: axis2}
}

// RectangleFromSize creates an axis-aligned rectangle of the given full size.
func RectangleFromSize(center, size Vector2) Rectangle {
	return Rectangle{
		Center: center,
		Axis1:  Vector2{X: size.X * 0.5},
		Axis2:  Vector2{Y: size.Y * 0.5},
	}
}

// Kind implements Shape.
func (r Rectangle) Kind() Kind { return KindRectangle }

// Translated implements Shape.
func (r Rectangle) Translated(delta Vector2) Shape {
	r.Center = r.Center.Add(delta)
	return r
}

func (Rectangle) sealed() {}

// Corners returns the four corners: +a1+a2, +a1-a2, -a1+a2, -a1-a2.
func (r Rectangle) Corners() [4]Vector2 {
	return [4]Vector2{
		r.Center.Add(r.Axis1).Add(r.Axis2),
		r.Center.Add(r.Axis1).Sub(r.Axis2),
		r.Center.Sub(r.Axis1).Add(r.Axis2),
		r.Center.Sub(r.Axis1).Sub(r.Axis2),
	}
}

// Contain reports whether p lies inside the rectangle or on its boundary.
func (r Rectangle) Contain(p Vector2) bool {
	d := p.Sub(r.Center)
	if math.Abs(r.Axis1.Normalize().Dot(d)) > r.Axis1.Length() {
		return false
	}
	if math.Abs(r.Axis2.Normalize().Dot(d)) > r.Axis2.Length() {
		return false
	}
	return true
}

// ContactLine is not supported and panics.
func (r Rectangle) ContactLine(l Line) float64 {
	panic(fmt.Errorf("%w: %s-%s", ErrUnsupportedContact, KindRectangle, KindLine))
}

// ContactCircle separates along both rectangle axes. It returns the overlap
// sentinel, not a depth.
func (r Rectangle) ContactCircle(c Circle) float64 {
	d := c.Center.Sub(r.Center)
	if math.Abs(r.Axis1.Normalize().Dot(d)) > r.Axis1.Length()+c.Radius {
		return 0
	}
	if math.Abs(r.Axis2.Normalize().Dot(d)) > r.Axis2.Length()+c.Radius {
		return 0
	}
	return overlapSentinel
}

// ContactRectangle compares bounding boxes using the axis lengths as
// half-extents. It returns the overlap sentinel, not a depth.
func (r Rectangle) ContactRectangle(o Rectangle) float64 {
	half := Vector2{X: r.Axis1.Length(), Y: r.Axis2.Length()}
	otherHalf := Vector2{X: o.Axis1.Length(), Y: o.Axis2.Length()}

	if r.Center.X-half.X > o.Center.X+otherHalf.X {
		return 0
	}
	if r.Center.Y-half.Y > o.Center.Y+otherHalf.Y {
		return 0
	}
	if r.Center.X+half.X < o.Center.X-otherHalf.X {
		return 0
	}
	if r.Center.Y+half.Y < o.Center.Y-otherHalf.Y {
		return 0
	}
	return overlapSentinel
}

// Radius returns the distance from the center to the +a1+a2 corner.
func (r Rectangle) Radius() float64 {
	return r.Axis1.Add(r.Axis2).Length()
}

// BoundingCircle returns a circle around the rectangle.
func (r Rectangle) BoundingCircle() Circle {
	return Circle{Center: r.Center, Radius: r.Radius()}
}

// Resize keeps the axis directions and sets their lengths to the given
// half-extents.
func (r Rectangle) Resize(halfExtents Vector2) Rectangle {
	r.Axis1 = r.Axis1.Normalize().Scale(halfExtents.X)
	r.Axis2 = r.Axis2.Normalize().Scale(halfExtents.Y)
	return r
}

// Nearest returns the point of the rectangle boundary closest to p.
// Points in an edge region project onto that edge; everything else snaps to
// the nearest corner.
func (r Rectangle) Nearest(p Vector2) Vector2 {
	c := r.Corners()
	rel := p.Sub(r.Center)

	// edges parallel to axis2, on the +a1 and -a1 sides
	if edge := c[1].Sub(c[0]).Normalize(); p.Sub(c[0]).Dot(edge) >= 0 && p.Sub(c[1]).Dot(edge.Neg()) >= 0 {
		if rel.Dot(r.Axis1) > 0 {
			return c[0].Add(edge.Scale(edge.Dot(p.Sub(c[0]))))
		}
		return c[2].Add(edge.Scale(edge.Dot(p.Sub(c[2]))))
	}

	// edges parallel to axis1, on the +a2 and -a2 sides
	if edge := c[2].Sub(c[0]).Normalize(); p.Sub(c[0]).Dot(edge) >= 0 && p.Sub(c[2]).Dot(edge.Neg()) >= 0 {
		if rel.Dot(r.Axis2) > 0 {
			return c[0].Add(edge.Scale(edge.Dot(p.Sub(c[0]))))
		}
		return c[1].Add(edge.Scale(edge.Dot(p.Sub(c[1]))))
	}

	nearest := c[0]
	best := DistanceSquared(p, c[0])
	for _, corner := range c[1:] {
		if d := DistanceSquared(p, corner); d < best {
			best = d
			nearest = corner
		}
	}
	return nearest
}
