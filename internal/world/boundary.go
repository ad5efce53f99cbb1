package world

import (
	"fmt"

	"github.com/tomz197/airhockey/internal/physics"
)

// BoundaryFromPolyline turns a closed polyline into wall segments. The last
// point is joined back to the first. It panics with fewer than two points.
func BoundaryFromPolyline(points []physics.Vector2) []physics.Line {
	if len(points) < 2 {
		panic(fmt.Sprintf("world: boundary needs at least 2 points, got %d", len(points)))
	}

	segments := make([]physics.Line, 0, len(points))
	for i := range points {
		next := points[(i+1)%len(points)]
		segments = append(segments, physics.NewLine(points[i], next))
	}
	return segments
}

// RinkPolyline returns the outline of an air hockey rink of unit width and
// the given height. Walls are wallWidth thick and each end has a gate mouth
// gateWidth wide cut into it.
func RinkPolyline(height, wallWidth, gateWidth float64) []physics.Vector2 {
	left := 0.5 - gateWidth*0.5
	right := 0.5 + gateWidth*0.5

	return []physics.Vector2{
		physics.Vec(wallWidth, wallWidth),
		physics.Vec(wallWidth, height-wallWidth),
		physics.Vec(left, height-wallWidth),
		physics.Vec(left, height),
		physics.Vec(right, height),
		physics.Vec(right, height-wallWidth),
		physics.Vec(1-wallWidth, height-wallWidth),
		physics.Vec(1-wallWidth, wallWidth),
		physics.Vec(right, wallWidth),
		physics.Vec(right, 0),
		physics.Vec(left, 0),
		physics.Vec(left, wallWidth),
	}
}
