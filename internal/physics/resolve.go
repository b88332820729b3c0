package physics

import (
	"fmt"
	"math"

	"github.com/tomz197/tunnelless/internal/vector"
)

// Resolve moves the event's moving body to the contact position and assigns
// post-collision velocities. Collisions with a fixed body reflect the moving
// body; movable pairs exchange momentum elastically.
func Resolve(e Event) error {
	a, b := e.Pair.Moving, e.Pair.Other
	if a.IsFixed() {
		return nil
	}
	kind, err := e.Pair.Kind()
	if err != nil {
		return err
	}
	if err := validateEvent(kind, e); err != nil {
		return err
	}

	a.MoveBy(a.Velocity().Scale(e.Time))
	normal := contactNormal(kind, e)

	if b.IsFixed() {
		if kind == PairCircleCircle {
			return a.SetVelocity(normal.Rescale(a.Velocity().Magnitude()))
		}
		return a.SetVelocity(reflectAgainstFixed(a.Velocity(), normal))
	}
	return resolveElastic(a, b, normal)
}

// validateEvent checks that the event carries the contact data its pair kind needs.
func validateEvent(kind PairKind, e Event) error {
	switch kind {
	case PairCircleCircle, PairCircleRect, PairRectCircle:
		if e.Point == nil {
			return fmt.Errorf("%s event without contact point: %w", kind, ErrMalformedCollisionEvent)
		}
	case PairRectRect:
		if e.Side == SideNone {
			return fmt.Errorf("%s event without contact side: %w", kind, ErrMalformedCollisionEvent)
		}
	default:
		return fmt.Errorf("%s: %w", kind, ErrUnsupportedCollisionKind)
	}
	return nil
}

// contactNormal returns the relative position between the pair's contact
// references, oriented from the collision body toward the moving body.
// The moving body must already sit at the contact position. A deep overlap
// can put the contact reference on the circle's center; the center line
// stands in then, and the reversed relative velocity after that. The result
// is never zero.
func contactNormal(kind PairKind, e Event) vector.Vector {
	a, b := e.Pair.Moving, e.Pair.Other
	var n vector.Vector
	switch kind {
	case PairCircleCircle:
		n = a.Center().Sub(b.Center())
	case PairCircleRect:
		n = a.Center().Sub(*e.Point)
	case PairRectCircle:
		n = e.Point.Sub(b.Center())
	default:
		return e.Side.Normal()
	}
	if !nearZero(n.Magnitude()) {
		return n
	}
	if n = a.Center().Sub(b.Center()); !nearZero(n.Magnitude()) {
		return n
	}
	if n = b.Velocity().Sub(a.Velocity()); !nearZero(n.Magnitude()) {
		return n
	}
	return vector.New(0, -1)
}

// reflectAgainstFixed flips the velocity axis the normal lies along. If the
// body would still be heading into the obstacle, the other axis flips too.
func reflectAgainstFixed(v, normal vector.Vector) vector.Vector {
	n := normal.Unit()
	if n.IsZero() {
		return v.Neg()
	}

	flipX := nearZero(n.Y) || (!nearZero(n.X) && math.Abs(n.X) >= math.Abs(n.Y))
	if flipX {
		v.X = -v.X
	} else {
		v.Y = -v.Y
	}
	if v.Dot(n) <= 0 {
		if flipX {
			v.Y = -v.Y
		} else {
			v.X = -v.X
		}
	}
	return v
}

// resolveElastic applies the angle-free two-body elastic collision along the
// contact normal and derives the second velocity from momentum conservation.
func resolveElastic(a, b *Body, normal vector.Vector) error {
	m1, m2 := a.Mass(), b.Mass()
	v1, v2 := a.Velocity(), b.Velocity()

	impulse, err := normal.Scale(2 * m2 / (m1 + m2) * v1.Sub(v2).Dot(normal)).Divide(normal.MagnitudeSq())
	if err != nil {
		return fmt.Errorf("degenerate contact normal between %s and %s: %w", a, b, err)
	}
	v1n := v1.Sub(impulse)

	v2n, err := v1.Scale(m1).Add(v2.Scale(m2)).Sub(v1n.Scale(m1)).Divide(m2)
	if err != nil {
		return err
	}

	if err := a.SetVelocity(v1n); err != nil {
		return err
	}
	return b.SetVelocity(v2n)
}
