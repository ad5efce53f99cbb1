package loop

import (
	"fmt"

	"github.com/tomz197/airhockey/internal/draw"
	"github.com/tomz197/airhockey/internal/object"
	"github.com/tomz197/airhockey/internal/physics"
)

// centreLineStep is the gap between the dots of the centre line.
const centreLineStep = 0.04

func point(v physics.Vector2) draw.Point {
	return draw.Point{X: v.X, Y: v.Y}
}

// drawRink draws the walls, the centre line and every enabled entity.
// Sticks and gates are filled while they flash; the puck is always solid.
func drawRink(g *Game, canvas *draw.Canvas) {
	for _, seg := range g.World().Boundaries() {
		canvas.DrawLine(point(seg.P1), point(seg.P2))
	}

	t := g.Tuning()
	mid := t.Height() * 0.5
	for x := t.WallWidth + centreLineStep; x < 1-t.WallWidth; x += centreLineStep {
		canvas.SetFloat(x, mid)
	}

	for _, e := range g.World().Entities() {
		if !e.Enabled {
			continue
		}
		drawEntity(canvas, e, e == g.Puck() || g.Flashing(e))
	}
}

func drawEntity(canvas *draw.Canvas, e *object.Entity, filled bool) {
	switch s := e.Shape().(type) {
	case physics.Circle:
		canvas.DrawCircle(point(s.Center), s.Radius, filled)
	case physics.Rectangle:
		corners := s.Corners()
		pts := canvas.BorrowPoints(len(corners))
		for i, c := range corners {
			pts[i] = point(c)
		}
		canvas.DrawPolygon(pts, filled)
	case physics.Line:
		canvas.DrawLine(point(s.P1), point(s.P2))
	}
}

// drawHUD writes the scores next to the gates and the key help under the
// rink.
func drawHUD(g *Game, canvas *draw.Canvas, cw *draw.ChunkWriter) {
	t := g.Tuning()
	h := t.Height()

	score1 := fmt.Sprintf("%d", g.Score(Player1))
	col, row := canvas.LogicalToTerminal(1-t.WallWidth, t.WallWidth)
	cw.WriteAt(max(col-len(score1), 1), row, score1)

	score2 := fmt.Sprintf("%d", g.Score(Player2))
	col, row = canvas.LogicalToTerminal(1-t.WallWidth, h-t.WallWidth)
	cw.WriteAt(max(col-len(score2), 1), row, score2)

	help := "arrows/wasd move  space restart  p autopilot  q quit"
	if g.Autopilot() {
		help = "AUTOPILOT  " + help
	}
	cw.WriteCentered(canvas.TerminalWidth()/2+1, canvas.TerminalHeight()+1, help)
}
