package physics

import (
	"errors"
	"testing"

	"github.com/tomz197/tunnelless/internal/vector"
)

func momentum(bodies ...*Body) vector.Vector {
	var p vector.Vector
	for _, b := range bodies {
		p = p.Add(b.Velocity().Scale(b.Mass()))
	}
	return p
}

func energy(bodies ...*Body) float64 {
	var e float64
	for _, b := range bodies {
		e += 0.5 * b.Mass() * b.Velocity().MagnitudeSq()
	}
	return e
}

func mustEvent(t *testing.T, a, b *Body) Event {
	t.Helper()
	e, ok, err := TimeOfImpact(NewPair(a, b))
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatalf("no collision between %s and %s", a, b)
	}
	return e
}

func TestResolve_ElasticConservation(t *testing.T) {
	tests := []struct {
		name string
		a, b *Body
	}{
		{
			name: "equal mass head-on",
			a:    MustBody(NewCircle(0, 0, 1, WithVelocity(vector.New(4, 0)))),
			b:    MustBody(NewCircle(4, 0, 1)),
		},
		{
			name: "unequal mass oblique",
			a:    MustBody(NewCircle(0, 0, 1, WithMass(2), WithVelocity(vector.New(3, 1)))),
			b:    MustBody(NewCircle(4, 1.5, 1, WithVelocity(vector.New(-1, 0.5)))),
		},
		{
			name: "circle into movable rect",
			a:    MustBody(NewCircle(0, 0, 5, WithVelocity(vector.New(10, 3)))),
			b:    MustBody(NewRect(14, 0, 2, 10, WithMass(3))),
		},
		{
			name: "rect into movable rect",
			a:    MustBody(NewRect(0, 0, 2, 2, WithMass(5), WithVelocity(vector.New(1, 5)))),
			b:    MustBody(NewRect(-10, 4, 20, 2, WithVelocity(vector.New(0, -1)))),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := mustEvent(t, tt.a, tt.b)
			p0, e0 := momentum(tt.a, tt.b), energy(tt.a, tt.b)

			if err := Resolve(e); err != nil {
				t.Fatal(err)
			}

			if p1 := momentum(tt.a, tt.b); !approxVec(p0, p1) {
				t.Errorf("momentum %v -> %v", p0, p1)
			}
			if e1 := energy(tt.a, tt.b); !approx(e0, e1) {
				t.Errorf("energy %v -> %v", e0, e1)
			}
		})
	}
}

func TestResolve_EqualMassHeadOnSwaps(t *testing.T) {
	a := MustBody(NewCircle(0, 0, 1, WithVelocity(vector.New(4, 0))))
	b := MustBody(NewCircle(4, 0, 1))

	if err := Resolve(mustEvent(t, a, b)); err != nil {
		t.Fatal(err)
	}
	if got := a.Position(); got != vector.New(2, 0) {
		t.Errorf("a moved to %v, want contact position (2, 0)", got)
	}
	if got := a.Velocity(); !approxVec(got, vector.Zero) {
		t.Errorf("a velocity = %v, want zero", got)
	}
	if got := b.Velocity(); !approxVec(got, vector.New(4, 0)) {
		t.Errorf("b velocity = %v, want (4, 0)", got)
	}
}

func TestResolve_FixedReflection(t *testing.T) {
	tests := []struct {
		name    string
		a, b    *Body
		wantPos vector.Vector
		wantVel vector.Vector
	}{
		{
			name:    "circle into wall keeps tangential",
			a:       MustBody(NewCircle(0, 0, 5, WithVelocity(vector.New(10, 3)))),
			b:       MustBody(NewRect(14, 0, 2, 20, Fixed())),
			wantPos: vector.New(4, 1.2),
			wantVel: vector.New(-10, 3),
		},
		{
			name:    "circle into floor",
			a:       MustBody(NewCircle(0, 0, 1, WithVelocity(vector.New(-2, 4)))),
			b:       MustBody(NewRect(-20, 4, 40, 5, Fixed())),
			wantPos: vector.New(-1, 2),
			wantVel: vector.New(-2, -4),
		},
		{
			name:    "rect into fixed rect",
			a:       MustBody(NewRect(0, 0, 2, 2, WithVelocity(vector.New(1, 5)))),
			b:       MustBody(NewRect(-10, 4, 20, 2, Fixed())),
			wantPos: vector.New(0.4, 2),
			wantVel: vector.New(1, -5),
		},
		{
			name:    "circle into fixed circle",
			a:       MustBody(NewCircle(0, 0, 1, WithVelocity(vector.New(4, 0)))),
			b:       MustBody(NewCircle(4, 0, 1, Fixed())),
			wantPos: vector.New(2, 0),
			wantVel: vector.New(-4, 0),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Resolve(mustEvent(t, tt.a, tt.b)); err != nil {
				t.Fatal(err)
			}
			if got := tt.a.Position(); !approxVec(got, tt.wantPos) {
				t.Errorf("position = %v, want %v", got, tt.wantPos)
			}
			if got := tt.a.Velocity(); !approxVec(got, tt.wantVel) {
				t.Errorf("velocity = %v, want %v", got, tt.wantVel)
			}
			if tt.b.IsMoving() {
				t.Error("fixed body started moving")
			}
		})
	}
}

func TestReflectAgainstFixed(t *testing.T) {
	tests := []struct {
		name   string
		v      vector.Vector
		normal vector.Vector
		want   vector.Vector
	}{
		{"vertical wall", vector.New(3, 2), vector.New(-1, 0), vector.New(-3, 2)},
		{"horizontal wall", vector.New(3, 2), vector.New(0, -1), vector.New(3, -2)},
		{"corner needs both axes", vector.New(1, 3), vector.New(-1, -0.5), vector.New(-1, -3)},
		{"degenerate normal", vector.New(3, 2), vector.Zero, vector.New(-3, -2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reflectAgainstFixed(tt.v, tt.normal); got != tt.want {
				t.Errorf("reflectAgainstFixed(%v, %v) = %v, want %v", tt.v, tt.normal, got, tt.want)
			}
		})
	}
}

func TestResolve_MalformedEvent(t *testing.T) {
	a := MustBody(NewCircle(0, 0, 1, WithVelocity(vector.New(4, 0))))
	b := MustBody(NewCircle(4, 0, 1))
	r1 := MustBody(NewRect(0, 0, 2, 2, WithVelocity(vector.New(1, 0))))
	r2 := MustBody(NewRect(3, 0, 2, 2))

	tests := []struct {
		name string
		e    Event
	}{
		{"circle pair without point", Event{Pair: NewPair(a, b), Time: 0.5}},
		{"rect pair without side", Event{Pair: NewPair(r1, r2), Time: 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.e.Pair.Moving.Position()
			if err := Resolve(tt.e); !errors.Is(err, ErrMalformedCollisionEvent) {
				t.Fatalf("err = %v, want ErrMalformedCollisionEvent", err)
			}
			if got := tt.e.Pair.Moving.Position(); got != before {
				t.Errorf("body moved to %v on a rejected event", got)
			}
		})
	}
}

func TestResolve_UnsupportedKind(t *testing.T) {
	a := MustBody(NewPointBody(0, 0, WithVelocity(vector.New(1, 0))))
	b := MustBody(NewRect(1, 0, 1, 1))
	if err := Resolve(Event{Pair: NewPair(a, b), Side: SideX1}); !errors.Is(err, ErrUnsupportedCollisionKind) {
		t.Errorf("err = %v, want ErrUnsupportedCollisionKind", err)
	}
}

func TestResolve_BothFixedIsNoop(t *testing.T) {
	a := MustBody(NewRect(0, 0, 1, 1, Fixed()))
	b := MustBody(NewRect(1, 0, 1, 1, Fixed()))
	if err := Resolve(Event{Pair: NewPair(a, b), Side: SideX1}); err != nil {
		t.Errorf("Resolve = %v, want nil", err)
	}
}
