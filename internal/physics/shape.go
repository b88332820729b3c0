package physics

import (
	"fmt"

	"github.com/tomz197/tunnelless/internal/vector"
)

// ShapeKind tags the geometric primitive a body is made of.
type ShapeKind uint8

const (
	KindPoint ShapeKind = iota
	KindCircle
	KindRect
)

func (k ShapeKind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindCircle:
		return "circle"
	case KindRect:
		return "rect"
	default:
		return fmt.Sprintf("ShapeKind(%d)", uint8(k))
	}
}

// Bounds is an axis-aligned bounding box. X0 <= X1 and Y0 <= Y1 for valid shapes.
type Bounds struct {
	X0, X1 float64
	Y0, Y1 float64
}

func (b Bounds) Width() float64  { return b.X1 - b.X0 }
func (b Bounds) Height() float64 { return b.Y1 - b.Y0 }

// Center returns the midpoint of the box.
func (b Bounds) Center() vector.Vector {
	return vector.New((b.X0+b.X1)/2, (b.Y0+b.Y1)/2)
}

// Overlaps reports whether two boxes share interior area.
func (b Bounds) Overlaps(o Bounds) bool {
	return b.X0 < o.X1 && o.X0 < b.X1 && b.Y0 < o.Y1 && o.Y0 < b.Y1
}

// Translate returns the box shifted by d.
func (b Bounds) Translate(d vector.Vector) Bounds {
	return Bounds{X0: b.X0 + d.X, X1: b.X1 + d.X, Y0: b.Y0 + d.Y, Y1: b.Y1 + d.Y}
}

// ClosestPoint returns the point of the box nearest to p (p itself if inside).
func (b Bounds) ClosestPoint(p vector.Vector) vector.Vector {
	return vector.New(clamp(p.X, b.X0, b.X1), clamp(p.Y, b.Y0, b.Y1))
}

// Corners returns the four corners: top-left, top-right, bottom-right, bottom-left.
func (b Bounds) Corners() [4]vector.Vector {
	return [4]vector.Vector{
		vector.New(b.X0, b.Y0),
		vector.New(b.X1, b.Y0),
		vector.New(b.X1, b.Y1),
		vector.New(b.X0, b.Y1),
	}
}

// Shape is the geometry of a body, anchored at the body's position
// (the top-left corner of its bounding box).
type Shape interface {
	Kind() ShapeKind
	Bounds(pos vector.Vector) Bounds
	Center(pos vector.Vector) vector.Vector
}

// Point is a zero-sized shape. Its boundary is the point itself.
type Point struct{}

func (Point) Kind() ShapeKind { return KindPoint }

func (Point) Bounds(pos vector.Vector) Bounds {
	return Bounds{X0: pos.X, X1: pos.X, Y0: pos.Y, Y1: pos.Y}
}

func (Point) Center(pos vector.Vector) vector.Vector { return pos }

// Circle is anchored at the top-left of its bounding square.
type Circle struct {
	Radius float64
}

func (Circle) Kind() ShapeKind { return KindCircle }

func (c Circle) Bounds(pos vector.Vector) Bounds {
	d := 2 * c.Radius
	return Bounds{X0: pos.X, X1: pos.X + d, Y0: pos.Y, Y1: pos.Y + d}
}

func (c Circle) Center(pos vector.Vector) vector.Vector {
	return vector.New(pos.X+c.Radius, pos.Y+c.Radius)
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	Width, Height float64
}

func (Rect) Kind() ShapeKind { return KindRect }

func (r Rect) Bounds(pos vector.Vector) Bounds {
	return Bounds{X0: pos.X, X1: pos.X + r.Width, Y0: pos.Y, Y1: pos.Y + r.Height}
}

func (r Rect) Center(pos vector.Vector) vector.Vector {
	return vector.New(pos.X+r.Width/2, pos.Y+r.Height/2)
}

func clamp(f, lo, hi float64) float64 {
	if f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}
