package physics

import (
	"fmt"
	"math"
	"sort"

	"github.com/tomz197/tunnelless/internal/vector"
)

// Side names an edge of the moving body's bounding box.
type Side uint8

const (
	SideNone Side = iota
	SideX0
	SideX1
	SideY0
	SideY1
)

func (s Side) String() string {
	switch s {
	case SideX0:
		return "x0"
	case SideX1:
		return "x1"
	case SideY0:
		return "y0"
	case SideY1:
		return "y1"
	default:
		return "none"
	}
}

// Normal returns the unit vector pointing from the touched body toward the
// moving body when the moving body touches on this side.
func (s Side) Normal() vector.Vector {
	switch s {
	case SideX0:
		return vector.New(1, 0)
	case SideX1:
		return vector.New(-1, 0)
	case SideY0:
		return vector.New(0, 1)
	case SideY1:
		return vector.New(0, -1)
	default:
		return vector.Zero
	}
}

// Event is a predicted contact within the current step. Circle pairs carry
// Point (where the shapes touch); rect-rect pairs carry Side (the edge of the
// moving body that touches).
type Event struct {
	Pair  Pair
	Time  float64 // fraction of the moving body's velocity, in [0, 1]
	Point *vector.Vector
	Side  Side
}

func (e Event) String() string {
	switch {
	case e.Point != nil:
		return fmt.Sprintf("%s->%s t=%.4f at %v", e.Pair.Moving, e.Pair.Other, e.Time, *e.Point)
	default:
		return fmt.Sprintf("%s->%s t=%.4f side %s", e.Pair.Moving, e.Pair.Other, e.Time, e.Side)
	}
}

// FindCollisions returns every predicted contact of moving against others,
// sorted by time. Ties keep the order of others.
func FindCollisions(moving *Body, others []*Body) ([]Event, error) {
	var events []Event
	for _, other := range others {
		if other == moving {
			continue
		}
		e, ok, err := TimeOfImpact(NewPair(moving, other))
		if err != nil {
			return nil, err
		}
		if ok {
			events = append(events, e)
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Time < events[j].Time
	})
	return events, nil
}

// TimeOfImpact returns the earliest contact of the pair within this step.
func TimeOfImpact(p Pair) (Event, bool, error) {
	kind, err := p.Kind()
	if err != nil {
		return Event{}, false, err
	}
	approaching, err := IsMovingTowardsBody(p)
	if err != nil || !approaching {
		return Event{}, false, err
	}

	a, b := p.Moving, p.Other
	v := a.Velocity()
	switch kind {
	case PairCircleCircle:
		t, point, ok := sweepCircleCircle(a.Center(), a.Radius(), v, b.Center(), b.Radius())
		return Event{Pair: p, Time: t, Point: &point}, ok, nil
	case PairCircleRect:
		t, point, ok := sweepCircleRect(a.Center(), a.Radius(), v, b.Bounds())
		return Event{Pair: p, Time: t, Point: &point}, ok, nil
	case PairRectCircle:
		// Solve in the rect's frame, where the circle moves by -v.
		t, point, ok := sweepCircleRect(b.Center(), b.Radius(), v.Neg(), a.Bounds())
		point = point.Add(v.Scale(t))
		return Event{Pair: p, Time: t, Point: &point}, ok, nil
	case PairRectRect:
		t, side, ok := sweepRectRect(a.Bounds(), v, b.Bounds())
		return Event{Pair: p, Time: t, Side: side}, ok, nil
	}
	return Event{}, false, fmt.Errorf("%s: %w", kind, ErrUnsupportedCollisionKind)
}

// sweepCircleCircle solves |d + v*t| = r1 + r2 for the entry time, where d is
// the center offset. A pair that already overlaps collides at t = 0.
func sweepCircleCircle(c1 vector.Vector, r1 float64, v vector.Vector, c2 vector.Vector, r2 float64) (float64, vector.Vector, bool) {
	d := c1.Sub(c2)
	sum := r1 + r2
	c := d.Dot(d) - sum*sum

	var t float64
	if c < 0 {
		t = 0
	} else {
		lo, _, ok := quadraticRoots(v.Dot(v), 2*v.Dot(d), c)
		if !ok {
			return 0, vector.Zero, false
		}
		if t, ok = validTime(lo); !ok {
			return 0, vector.Zero, false
		}
	}

	at := c1.Add(v.Scale(t))
	return t, at.Add(c2.Sub(at).Rescale(r1)), true
}

// sweepCircleRect finds when a circle moving by v first touches a stationary
// box. Face hits win over corner hits; corners are solved as zero-radius circles.
func sweepCircleRect(c vector.Vector, r float64, v vector.Vector, bb Bounds) (float64, vector.Vector, bool) {
	// Already overlapping: contact now at the nearest boundary point.
	if closest := bb.ClosestPoint(c); closest.Distance(c) < r-Epsilon {
		return 0, closest, true
	}

	best := math.Inf(1)
	var point vector.Vector
	consider := func(t float64, perp func(float64) (vector.Vector, bool)) {
		tv, ok := validTime(t)
		if !ok || tv >= best {
			return
		}
		if p, ok := perp(tv); ok {
			best, point = tv, p
		}
	}

	if v.X > 0 {
		consider((bb.X0-(c.X+r))/v.X, func(t float64) (vector.Vector, bool) {
			y := c.Y + v.Y*t
			return vector.New(bb.X0, y), y >= bb.Y0 && y <= bb.Y1
		})
	}
	if v.X < 0 {
		consider((bb.X1-(c.X-r))/v.X, func(t float64) (vector.Vector, bool) {
			y := c.Y + v.Y*t
			return vector.New(bb.X1, y), y >= bb.Y0 && y <= bb.Y1
		})
	}
	if v.Y > 0 {
		consider((bb.Y0-(c.Y+r))/v.Y, func(t float64) (vector.Vector, bool) {
			x := c.X + v.X*t
			return vector.New(x, bb.Y0), x >= bb.X0 && x <= bb.X1
		})
	}
	if v.Y < 0 {
		consider((bb.Y1-(c.Y-r))/v.Y, func(t float64) (vector.Vector, bool) {
			x := c.X + v.X*t
			return vector.New(x, bb.Y1), x >= bb.X0 && x <= bb.X1
		})
	}
	if !math.IsInf(best, 1) {
		return best, point, true
	}

	for _, corner := range bb.Corners() {
		d := c.Sub(corner)
		// An axis without motion can never close an offset larger than r.
		if (v.X == 0 && math.Abs(d.X) > r) || (v.Y == 0 && math.Abs(d.Y) > r) {
			continue
		}
		lo, _, ok := quadraticRoots(v.Dot(v), 2*v.Dot(d), d.Dot(d)-r*r)
		if !ok {
			continue
		}
		if t, ok := validTime(lo); ok && t < best {
			best, point = t, corner
		}
	}
	if math.IsInf(best, 1) {
		return 0, vector.Zero, false
	}
	return best, point, true
}

// sweepRectRect finds when box a moving by v first touches stationary box b.
// The returned side is the edge of a that makes contact.
func sweepRectRect(a Bounds, v vector.Vector, b Bounds) (float64, Side, bool) {
	if overlapX, overlapY := spanOverlap(a.X0, a.X1, b.X0, b.X1), spanOverlap(a.Y0, a.Y1, b.Y0, b.Y1); overlapX > Epsilon && overlapY > Epsilon {
		return 0, penetrationSide(a, b, overlapX, overlapY), true
	}

	best := math.Inf(1)
	side := SideNone
	consider := func(t float64, s Side) {
		tv, ok := validTime(t)
		if !ok || tv >= best {
			return
		}
		moved := a.Translate(v.Scale(tv))
		if faceContact(moved, b, s, v) {
			best, side = tv, s
		}
	}

	if v.X > 0 {
		consider((b.X0-a.X1)/v.X, SideX1)
	}
	if v.X < 0 {
		consider((b.X1-a.X0)/v.X, SideX0)
	}
	if v.Y > 0 {
		consider((b.Y0-a.Y1)/v.Y, SideY1)
	}
	if v.Y < 0 {
		consider((b.Y1-a.Y0)/v.Y, SideY0)
	}
	if side == SideNone {
		return 0, SideNone, false
	}
	return best, side, true
}

// faceContact checks that, with a already moved to the contact time, the
// perpendicular spans of a and b overlap. A single-point overlap is a corner
// touch and only counts when the corner lies in the direction of travel.
func faceContact(a, b Bounds, s Side, v vector.Vector) bool {
	var overlap float64
	var corner vector.Vector
	switch s {
	case SideX0, SideX1:
		overlap = spanOverlap(a.Y0, a.Y1, b.Y0, b.Y1)
		x := a.X0
		if s == SideX1 {
			x = a.X1
		}
		corner = vector.New(x, math.Max(a.Y0, b.Y0))
	case SideY0, SideY1:
		overlap = spanOverlap(a.X0, a.X1, b.X0, b.X1)
		y := a.Y0
		if s == SideY1 {
			y = a.Y1
		}
		corner = vector.New(math.Max(a.X0, b.X0), y)
	default:
		return false
	}

	switch {
	case overlap > Epsilon:
		return true
	case overlap < -Epsilon:
		return false
	}
	toCorner := corner.Sub(a.Center())
	return sign(toCorner.X) == sign(v.X) && sign(toCorner.Y) == sign(v.Y)
}

// spanOverlap returns the signed length of the intersection of [a0,a1] and [b0,b1].
func spanOverlap(a0, a1, b0, b1 float64) float64 {
	return math.Min(a1, b1) - math.Max(a0, b0)
}

// penetrationSide picks the edge of a along the axis of least penetration.
func penetrationSide(a, b Bounds, overlapX, overlapY float64) Side {
	ca, cb := a.Center(), b.Center()
	if overlapX < overlapY {
		if ca.X < cb.X {
			return SideX1
		}
		return SideX0
	}
	if ca.Y < cb.Y {
		return SideY1
	}
	return SideY0
}
