package physics

// Circle is a disc given by its center and radius.
type Circle struct {
	Center Vector2
	Radius float64
}

// NewCircle creates a circle.
func NewCircle(center Vector2, radius float64) Circle {
	return Circle{Center: center, Radius: radius}
}

// Kind implements Shape.
func (c Circle) Kind() Kind { return KindCircle }

// Translated implements Shape.
func (c Circle) Translated(delta Vector2) Shape {
	c.Center = c.Center.Add(delta)
	return c
}

func (Circle) sealed() {}

// ContactCircle returns r1 + r2 - distance between the centers.
func (c Circle) ContactCircle(o Circle) float64 {
	return c.Radius + o.Radius - Distance(c.Center, o.Center)
}

// ContactLine returns the circle radius when the segment touches the circle.
func (c Circle) ContactLine(l Line) float64 {
	return l.ContactCircle(c)
}

// ContactRectangle returns the overlap sentinel when the rectangle touches the circle.
func (c Circle) ContactRectangle(r Rectangle) float64 {
	return r.ContactCircle(c)
}
