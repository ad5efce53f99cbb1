package physics

import "fmt"

// Kind identifies the geometry behind a Shape.
type Kind uint8

const (
	KindLine Kind = iota
	KindCircle
	KindRectangle
)

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindCircle:
		return "circle"
	case KindRectangle:
		return "rectangle"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Shape is a closed set of collision geometries: Circle, Line and Rectangle.
// Shapes are values; moving one produces a new value.
type Shape interface {
	Kind() Kind
	// Translated returns a copy of the shape moved by delta.
	Translated(delta Vector2) Shape

	sealed()
}

var (
	_ Shape = Circle{}
	_ Shape = Line{}
	_ Shape = Rectangle{}
)

// Translate moves a shape by delta.
func Translate(s Shape, delta Vector2) Shape {
	return s.Translated(delta)
}

// Contact returns the penetration between two shapes, dispatching on the
// ordered pair of kinds. Line-Rectangle pairs panic with ErrUnsupportedContact.
func Contact(a, b Shape) float64 {
	switch a := a.(type) {
	case Line:
		switch b := b.(type) {
		case Line:
			return a.ContactLine(b)
		case Circle:
			return a.ContactCircle(b)
		case Rectangle:
			return a.ContactRectangle(b)
		}
	case Circle:
		switch b := b.(type) {
		case Line:
			return a.ContactLine(b)
		case Circle:
			return a.ContactCircle(b)
		case Rectangle:
			return a.ContactRectangle(b)
		}
	case Rectangle:
		switch b := b.(type) {
		case Line:
			return a.ContactLine(b)
		case Circle:
			return a.ContactCircle(b)
		case Rectangle:
			return a.ContactRectangle(b)
		}
	}
	panic(fmt.Sprintf("physics: unhandled shape combination %T-%T", a, b))
}
