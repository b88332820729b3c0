// Package physics is a 2D rigid-body engine for circles and axis-aligned
// rectangles with continuous collision detection. Each tick a moving body
// finds the earliest time of impact along its displacement, stops exactly at
// contact and bounces, so fast bodies never pass through thin ones.
package physics

// Overlaps reports whether two bodies share interior area. Touching bodies
// do not overlap. Point bodies never overlap anything.
func Overlaps(a, b *Body) bool {
	switch {
	case a.Kind() == KindPoint || b.Kind() == KindPoint:
		return false
	case a.Kind() == KindCircle && b.Kind() == KindCircle:
		return CirclesOverlap(a, b)
	case a.Kind() == KindCircle:
		return circleOverlapsBox(a, b.Bounds())
	case b.Kind() == KindCircle:
		return circleOverlapsBox(b, a.Bounds())
	default:
		return a.Bounds().Overlaps(b.Bounds())
	}
}

// CirclesOverlap checks if two circles overlap.
func CirclesOverlap(a, b *Body) bool {
	minDist := a.Radius() + b.Radius()
	return a.Center().Sub(b.Center()).MagnitudeSq() < minDist*minDist
}

func circleOverlapsBox(c *Body, bb Bounds) bool {
	center := c.Center()
	return bb.ClosestPoint(center).Sub(center).MagnitudeSq() < c.Radius()*c.Radius()
}
