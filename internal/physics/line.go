package physics

import (
	"fmt"
	"math"
)

// lineCosineTolerance widens the cosine comparison in the line-line test.
const lineCosineTolerance = 1.001

// Line is a segment between two endpoints. The endpoints are expected to be
// distinct; a zero-length segment has no direction and touches only what
// touches its endpoints.
type Line struct {
	P1, P2 Vector2
}

// NewLine creates a segment.
func NewLine(p1, p2 Vector2) Line {
	return Line{P1: p1, P2: p2}
}

// Kind implements Shape.
func (l Line) Kind() Kind { return KindLine }

// Translated implements Shape.
func (l Line) Translated(delta Vector2) Shape {
	l.P1 = l.P1.Add(delta)
	l.P2 = l.P2.Add(delta)
	return l
}

func (Line) sealed() {}

// Length returns the distance between the endpoints.
func (l Line) Length() float64 {
	return Distance(l.P1, l.P2)
}

// Direction returns the unit vector from P1 to P2.
func (l Line) Direction() Vector2 {
	return l.P2.Sub(l.P1).Normalize()
}

// ContactLine is an approximate test, not an exact intersection. From P1 it
// takes the directions to both endpoints of o and accepts when each of them is
// no closer to this segment's direction than they are to each other (absolute
// cosines, widened by a small tolerance).
func (l Line) ContactLine(o Line) float64 {
	left := o.P1.Sub(l.P1).Normalize()
	right := o.P2.Sub(l.P1).Normalize()
	middle := l.P2.Sub(l.P1).Normalize()

	leftCos := math.Abs(left.Dot(middle))
	rightCos := math.Abs(right.Dot(middle))
	commonCos := math.Abs(left.Dot(right)) * lineCosineTolerance

	if leftCos <= commonCos && rightCos <= commonCos {
		return overlapSentinel
	}
	return 0
}

// ContactCircle returns the circle radius when the circle touches the
// segment and 0 otherwise.
func (l Line) ContactCircle(c Circle) float64 {
	r2 := c.Radius * c.Radius

	d1 := c.Center.Sub(l.P1)
	if d1.LengthSquared() <= r2 {
		return c.Radius
	}
	d2 := c.Center.Sub(l.P2)
	if d2.LengthSquared() <= r2 {
		return c.Radius
	}

	dir := l.Direction()
	foot := dir.Scale(dir.Dot(d1)).Sub(d1)
	if foot.Length() > c.Radius {
		return 0
	}

	if d1.Dot(dir) >= 0 && d2.Dot(dir.Neg()) >= 0 {
		return c.Radius
	}
	return 0
}

// ContactRectangle is not supported and panics.
func (l Line) ContactRectangle(r Rectangle) float64 {
	panic(fmt.Errorf("%w: %s-%s", ErrUnsupportedContact, KindLine, KindRectangle))
}

// Nearest returns the point of the segment closest to p.
func (l Line) Nearest(p Vector2) Vector2 {
	d1 := p.Sub(l.P1)
	d2 := p.Sub(l.P2)
	dir := l.Direction()

	if d1.Dot(dir) >= 0 && d2.Dot(dir.Neg()) >= 0 {
		return l.P1.Add(dir.Scale(dir.Dot(d1)))
	}
	if d1.Length() < d2.Length() {
		return l.P1
	}
	return l.P2
}
