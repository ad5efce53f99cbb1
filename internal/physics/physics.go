// Package physics provides the 2D geometry used for collision detection:
// vectors, circles, line segments, oriented rectangles, and the Shape sum
// type that dispatches contact tests between them.
//
// Contact tests return a penetration measure. A positive value means the
// shapes overlap; zero or a negative value means they are separated. Only the
// circle-circle test reports a true depth; the other pairings return a
// sentinel (1 or the circle radius) and callers must only look at the sign.
package physics

import (
	"errors"
	"math"
)

// ErrUnsupportedContact is the panic payload for shape pairs that have no
// contact test.
var ErrUnsupportedContact = errors.New("physics: unsupported contact pair")

// overlapSentinel is returned by tests that only know whether shapes overlap.
const overlapSentinel = 1.0

// Distance calculates the Euclidean distance between two points.
func Distance(a, b Vector2) float64 {
	return math.Sqrt(DistanceSquared(a, b))
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(a, b Vector2) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return dx*dx + dy*dy
}

// PointInCircle checks if a point is within radius of a target position.
func PointInCircle(p, center Vector2, radius float64) bool {
	return DistanceSquared(p, center) <= radius*radius
}
