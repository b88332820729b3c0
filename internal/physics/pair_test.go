package physics

import (
	"errors"
	"testing"

	"github.com/tomz197/tunnelless/internal/vector"
)

func TestPair_Kind(t *testing.T) {
	circle := MustBody(NewCircle(0, 0, 1))
	rect := MustBody(NewRect(0, 0, 1, 1))
	point := MustBody(NewPointBody(0, 0))

	tests := []struct {
		name    string
		pair    Pair
		want    PairKind
		wantErr error
	}{
		{"circle-circle", NewPair(circle, circle), PairCircleCircle, nil},
		{"circle-rect", NewPair(circle, rect), PairCircleRect, nil},
		{"rect-circle", NewPair(rect, circle), PairRectCircle, nil},
		{"rect-rect", NewPair(rect, rect), PairRectRect, nil},
		{"point-rect", NewPair(point, rect), 0, ErrUnsupportedCollisionKind},
		{"circle-point", NewPair(circle, point), 0, ErrUnsupportedCollisionKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.pair.Kind()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("Kind = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestIsMovingTowardsBody(t *testing.T) {
	tests := []struct {
		name string
		a    *Body
		b    *Body
		want bool
	}{
		{
			name: "circles closing",
			a:    MustBody(NewCircle(0, 0, 1, WithVelocity(vector.New(1, 0)))),
			b:    MustBody(NewCircle(10, 0, 1)),
			want: true,
		},
		{
			name: "circles separating",
			a:    MustBody(NewCircle(0, 0, 1, WithVelocity(vector.New(-1, 0)))),
			b:    MustBody(NewCircle(10, 0, 1)),
			want: false,
		},
		{
			name: "circles perpendicular",
			a:    MustBody(NewCircle(0, 0, 1, WithVelocity(vector.New(0, 1)))),
			b:    MustBody(NewCircle(10, 0, 1)),
			want: false,
		},
		{
			name: "stationary",
			a:    MustBody(NewCircle(0, 0, 1)),
			b:    MustBody(NewCircle(2, 0, 1)),
			want: false,
		},
		{
			name: "circle touching rect pushing in",
			a:    MustBody(NewCircle(0, 0, 5, WithVelocity(vector.New(1, 0)))),
			b:    MustBody(NewRect(10, 0, 10, 10)),
			want: true,
		},
		{
			name: "circle touching rect sliding",
			a:    MustBody(NewCircle(0, 0, 5, WithVelocity(vector.New(0, 1)))),
			b:    MustBody(NewRect(10, 0, 10, 10)),
			want: false,
		},
		{
			name: "circle touching rect leaving",
			a:    MustBody(NewCircle(0, 0, 5, WithVelocity(vector.New(-1, 0)))),
			b:    MustBody(NewRect(10, 0, 10, 10)),
			want: false,
		},
		{
			name: "rect toward circle",
			a:    MustBody(NewRect(0, 0, 4, 4, WithVelocity(vector.New(6, 0)))),
			b:    MustBody(NewCircle(8, 0, 2)),
			want: true,
		},
		{
			name: "rects diagonal approach",
			a:    MustBody(NewRect(0, 0, 2, 2, WithVelocity(vector.New(1, 1)))),
			b:    MustBody(NewRect(5, 5, 2, 2)),
			want: true,
		},
		{
			name: "rects passing beside",
			a:    MustBody(NewRect(0, 0, 2, 2, WithVelocity(vector.New(1, 0)))),
			b:    MustBody(NewRect(5, 5, 2, 2)),
			want: false,
		},
		{
			name: "rects sharing an edge sliding",
			a:    MustBody(NewRect(0, 0, 2, 2, WithVelocity(vector.New(1, 0)))),
			b:    MustBody(NewRect(0, 2, 10, 2)),
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IsMovingTowardsBody(NewPair(tt.a, tt.b))
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("IsMovingTowardsBody = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsMovingTowardsBody_SameBody(t *testing.T) {
	a := MustBody(NewCircle(0, 0, 1, WithVelocity(vector.New(1, 0))))
	got, err := IsMovingTowardsBody(NewPair(a, a))
	if err != nil || got {
		t.Errorf("self pair = %v, %v; want false, nil", got, err)
	}
}
