package physics

import (
	"fmt"
	"math"

	uuid "github.com/satori/go.uuid"

	"github.com/tomz197/tunnelless/internal/vector"
)

// Friction tuning applied by ApplyFriction.
const (
	FrictionDamping = 0.9  // Velocity multiplier per tick, each axis
	MinSpeed        = 0.01 // Axis speeds below this snap to zero
)

// Body is a shape with physical state. Position is the top-left corner of the
// shape's bounding box; velocity is a displacement per tick.
type Body struct {
	id         string
	name       string
	shape      Shape
	position   vector.Vector
	velocity   vector.Vector
	mass       float64 // +Inf when fixed
	elasticity float64
}

// BodyOption configures a body at construction.
type BodyOption func(*Body) error

// WithName sets the display name used in diagnostics.
func WithName(name string) BodyOption {
	return func(b *Body) error {
		b.name = name
		return nil
	}
}

// WithID overrides the generated id. Used by scene files that need stable ids.
func WithID(id string) BodyOption {
	return func(b *Body) error {
		if id == "" {
			return fmt.Errorf("empty body id: %w", ErrInvalidOperation)
		}
		b.id = id
		return nil
	}
}

// WithMass sets a finite positive mass.
func WithMass(mass float64) BodyOption {
	return func(b *Body) error {
		if !(mass > 0) || math.IsInf(mass, 0) {
			return fmt.Errorf("mass %v: %w", mass, ErrInvalidOperation)
		}
		b.mass = mass
		return nil
	}
}

// WithVelocity sets the initial velocity. Applied after Fixed if both are given,
// so a nonzero velocity on a fixed body fails.
func WithVelocity(v vector.Vector) BodyOption {
	return func(b *Body) error {
		return b.SetVelocity(v)
	}
}

// WithElasticity sets the restitution coefficient. The world currently resolves
// every movable pair as fully elastic; the value is carried for partial
// restitution support.
func WithElasticity(e float64) BodyOption {
	return func(b *Body) error {
		if e < 0 || e > 1 {
			return fmt.Errorf("elasticity %v: %w", e, ErrInvalidOperation)
		}
		b.elasticity = e
		return nil
	}
}

// Fixed makes the body immovable.
func Fixed() BodyOption {
	return func(b *Body) error {
		b.SetFixed()
		return nil
	}
}

// NewBody creates a body of the given shape at (x, y) with mass 1 and
// elasticity 1. The id is a fresh UUID unless WithID is given.
func NewBody(shape Shape, x, y float64, opts ...BodyOption) (*Body, error) {
	if err := validateShape(shape); err != nil {
		return nil, err
	}
	b := &Body{
		id:         uuid.NewV4().String(),
		shape:      shape,
		position:   vector.New(x, y),
		mass:       1,
		elasticity: 1,
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// NewCircle creates a circle whose bounding square starts at (x, y).
func NewCircle(x, y, radius float64, opts ...BodyOption) (*Body, error) {
	return NewBody(Circle{Radius: radius}, x, y, opts...)
}

// NewRect creates a rectangle with its top-left corner at (x, y).
func NewRect(x, y, width, height float64, opts ...BodyOption) (*Body, error) {
	return NewBody(Rect{Width: width, Height: height}, x, y, opts...)
}

// NewPointBody creates a zero-sized body. Points take part in no collision pair kind.
func NewPointBody(x, y float64, opts ...BodyOption) (*Body, error) {
	return NewBody(Point{}, x, y, opts...)
}

// MustBody panics if err is non-nil. Intended for literals in scenes and tests.
func MustBody(b *Body, err error) *Body {
	if err != nil {
		panic(err)
	}
	return b
}

func validateShape(shape Shape) error {
	switch s := shape.(type) {
	case Point:
		return nil
	case Circle:
		if !(s.Radius > 0) {
			return fmt.Errorf("circle radius %v: %w", s.Radius, ErrInvalidOperation)
		}
		return nil
	case Rect:
		if !(s.Width > 0) || !(s.Height > 0) {
			return fmt.Errorf("rect size %vx%v: %w", s.Width, s.Height, ErrInvalidOperation)
		}
		return nil
	case nil:
		return fmt.Errorf("nil shape: %w", ErrInvalidOperation)
	default:
		return fmt.Errorf("shape %T: %w", shape, ErrUnsupportedCollisionKind)
	}
}

func (b *Body) ID() string { return b.id }
func (b *Body) Name() string { return b.name }
func (b *Body) Shape() Shape { return b.shape }
func (b *Body) Kind() ShapeKind { return b.shape.Kind() }
func (b *Body) Position() vector.Vector { return b.position }
func (b *Body) Velocity() vector.Vector { return b.velocity }
func (b *Body) Mass() float64 { return b.mass }
func (b *Body) Elasticity() float64 { return b.elasticity }
func (b *Body) Bounds() Bounds { return b.shape.Bounds(b.position) }
func (b *Body) Center() vector.Vector { return b.shape.Center(b.position) }
func (b *Body) IsFixed() bool { return math.IsInf(b.mass, 1) }
func (b *Body) IsMoving() bool { return b.velocity.Magnitude() != 0 }

// Radius returns the circle radius, or 0 for other shapes.
func (b *Body) Radius() float64 {
	if c, ok := b.shape.(Circle); ok {
		return c.Radius
	}
	return 0
}

func (b *Body) String() string {
	if b.name != "" {
		return b.name
	}
	if len(b.id) > 8 {
		return b.shape.Kind().String() + ":" + b.id[:8]
	}
	return b.shape.Kind().String() + ":" + b.id
}

// MoveTo sets the absolute position.
func (b *Body) MoveTo(pos vector.Vector) {
	b.position = pos
}

// MoveBy translates the body by d.
func (b *Body) MoveBy(d vector.Vector) {
	b.position = b.position.Add(d)
}

// SetVelocity assigns v. A fixed body only accepts the zero vector.
func (b *Body) SetVelocity(v vector.Vector) error {
	if b.IsFixed() && !v.IsZero() {
		return fmt.Errorf("set velocity %v on fixed body %s: %w", v, b, ErrInvalidOperation)
	}
	b.velocity = v
	return nil
}

// ApplyForce adds f/mass to the velocity. No-op on fixed bodies.
func (b *Body) ApplyForce(f vector.Vector) {
	if b.IsFixed() {
		return
	}
	b.velocity = b.velocity.Add(f.Scale(1 / b.mass))
}

// SetFixed gives the body infinite mass and zero velocity.
func (b *Body) SetFixed() {
	b.mass = math.Inf(1)
	b.velocity = vector.Zero
}

// ApplyFriction damps the velocity by FrictionDamping.
func (b *Body) ApplyFriction() {
	b.ApplyDamping(FrictionDamping, MinSpeed)
}

// ApplyDamping scales each velocity axis by factor and snaps any axis slower
// than minSpeed to exactly zero.
func (b *Body) ApplyDamping(factor, minSpeed float64) {
	v := b.velocity.Scale(factor)
	if math.Abs(v.X) < minSpeed {
		v.X = 0
	}
	if math.Abs(v.Y) < minSpeed {
		v.Y = 0
	}
	b.velocity = v
}
