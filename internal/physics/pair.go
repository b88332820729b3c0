package physics

import (
	"fmt"

	"github.com/tomz197/tunnelless/internal/vector"
)

// PairKind is the shape combination of an ordered body pair.
type PairKind uint8

const (
	PairCircleCircle PairKind = iota
	PairCircleRect
	PairRectCircle
	PairRectRect
)

func (k PairKind) String() string {
	switch k {
	case PairCircleCircle:
		return "circle-circle"
	case PairCircleRect:
		return "circle-rect"
	case PairRectCircle:
		return "rect-circle"
	case PairRectRect:
		return "rect-rect"
	default:
		return fmt.Sprintf("PairKind(%d)", uint8(k))
	}
}

// Pair is an ordered (moving, other) couple. Only Moving's velocity is used
// when looking for a collision; Other is treated as stationary for the step.
type Pair struct {
	Moving *Body
	Other  *Body
}

// NewPair returns the ordered pair (moving, other).
func NewPair(moving, other *Body) Pair {
	return Pair{Moving: moving, Other: other}
}

// Kind classifies the pair by the shapes of its members.
func (p Pair) Kind() (PairKind, error) {
	switch [2]ShapeKind{p.Moving.Kind(), p.Other.Kind()} {
	case [2]ShapeKind{KindCircle, KindCircle}:
		return PairCircleCircle, nil
	case [2]ShapeKind{KindCircle, KindRect}:
		return PairCircleRect, nil
	case [2]ShapeKind{KindRect, KindCircle}:
		return PairRectCircle, nil
	case [2]ShapeKind{KindRect, KindRect}:
		return PairRectRect, nil
	default:
		return 0, fmt.Errorf("%s vs %s: %w", p.Moving.Kind(), p.Other.Kind(), ErrUnsupportedCollisionKind)
	}
}

// IsFixed reports whether the collision body is immovable.
func (p Pair) IsFixed() bool {
	return p.Other.IsFixed()
}

// IsMovingTowardsBody is a cheap rejection test run before the exact
// time-of-impact math. A false result means the pair cannot collide this step;
// a true result only means it might.
func IsMovingTowardsBody(p Pair) (bool, error) {
	kind, err := p.Kind()
	if err != nil {
		return false, err
	}
	if p.Moving == p.Other || !p.Moving.IsMoving() {
		return false, nil
	}

	v := p.Moving.Velocity()
	switch kind {
	case PairCircleCircle:
		toOther := p.Other.Center().Sub(p.Moving.Center())
		return sign(v.Neg().Cosine(toOther)) < 0, nil
	case PairCircleRect:
		c, r := p.Moving.Center(), p.Moving.Radius()
		closest := p.Other.Bounds().ClosestPoint(c)
		if touching(closest.Sub(c), r) {
			return headingTo(v, closest.Sub(c), p), nil
		}
		return boundsApproaching(p.Moving.Bounds(), p.Other.Bounds(), v), nil
	case PairRectCircle:
		c, r := p.Other.Center(), p.Other.Radius()
		closest := p.Moving.Bounds().ClosestPoint(c)
		if touching(c.Sub(closest), r) {
			return headingTo(v, c.Sub(closest), p), nil
		}
		return boundsApproaching(p.Moving.Bounds(), p.Other.Bounds(), v), nil
	case PairRectRect:
		return boundsApproaching(p.Moving.Bounds(), p.Other.Bounds(), v), nil
	}
	return false, fmt.Errorf("%s: %w", kind, ErrUnsupportedCollisionKind)
}

// touching reports whether a circle of radius r is within Epsilon of, or
// overlapping, the point at offset d from its center.
func touching(d vector.Vector, r float64) bool {
	return d.Magnitude() <= r+Epsilon
}

// headingTo reports whether v points toward the contact at offset d. When the
// contact is degenerate (a circle center on the rect) it falls back to the
// center-to-center direction.
func headingTo(v, d vector.Vector, p Pair) bool {
	if d.IsZero() {
		d = p.Other.Center().Sub(p.Moving.Center())
	}
	return sign(v.Cosine(d)) > 0
}

// boundsApproaching decides per axis. Each axis must either overlap or be
// closing, and at least one must be closing; an axis with zero velocity can
// only ever stay overlapping.
func boundsApproaching(a, b Bounds, v vector.Vector) bool {
	overlapX, closingX := axisState(a.X0, a.X1, b.X0, b.X1, v.X)
	overlapY, closingY := axisState(a.Y0, a.Y1, b.Y0, b.Y1, v.Y)

	if overlapX && overlapY {
		return sign(v.Cosine(b.Center().Sub(a.Center()))) > 0
	}
	return (overlapX || closingX) && (overlapY || closingY) && (closingX || closingY)
}

func axisState(a0, a1, b0, b1, v float64) (overlapping, closing bool) {
	overlapping = a0 < b1-Epsilon && a1 > b0+Epsilon
	closing = (v > 0 && a1 <= b0+Epsilon) || (v < 0 && a0 >= b1-Epsilon)
	return overlapping, closing
}
