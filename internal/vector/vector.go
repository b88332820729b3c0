// Package vector provides immutable 2D vector arithmetic.
package vector

import (
	"errors"
	"math"
	"strconv"
)

// ErrDivisionByZero is returned when a vector is divided by a zero scalar.
var ErrDivisionByZero = errors.New("vector: division by zero")

// Vector is a 2D value. All operations return a new vector.
type Vector struct {
	X float64 `msgpack:"x" json:"x" yaml:"x"`
	Y float64 `msgpack:"y" json:"y" yaml:"y"`
}

// Zero is the zero vector.
var Zero = Vector{}

// New returns the vector (x, y).
func New(x, y float64) Vector {
	return Vector{X: x, Y: y}
}

func (v Vector) String() string {
	return "(" + strconv.FormatFloat(v.X, 'g', -1, 64) + ", " + strconv.FormatFloat(v.Y, 'g', -1, 64) + ")"
}

// Equal reports exact component equality.
func (v Vector) Equal(other Vector) bool {
	return v.X == other.X && v.Y == other.Y
}

// IsZero reports whether both components are exactly zero.
func (v Vector) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

func (v Vector) Add(other Vector) Vector {
	return Vector{v.X + other.X, v.Y + other.Y}
}

func (v Vector) Sub(other Vector) Vector {
	return Vector{v.X - other.X, v.Y - other.Y}
}

func (v Vector) Neg() Vector {
	return Vector{-v.X, -v.Y}
}

func (v Vector) Scale(s float64) Vector {
	return Vector{v.X * s, v.Y * s}
}

// Divide divides both components by s. Fails with ErrDivisionByZero when s is 0.
func (v Vector) Divide(s float64) (Vector, error) {
	if s == 0 {
		return Vector{}, ErrDivisionByZero
	}
	return Vector{v.X / s, v.Y / s}, nil
}

func (v Vector) Dot(other Vector) float64 {
	return v.X*other.X + v.Y*other.Y
}

// MagnitudeSq avoids the square root when only comparisons are needed.
func (v Vector) MagnitudeSq() float64 {
	return v.Dot(v)
}

func (v Vector) Magnitude() float64 {
	return math.Hypot(v.X, v.Y)
}

// Unit returns the vector scaled to length 1. The zero vector maps to itself.
func (v Vector) Unit() Vector {
	m := v.Magnitude()
	if m == 0 {
		return Vector{}
	}
	return Vector{v.X / m, v.Y / m}
}

// Rescale returns a vector with v's direction and magnitude m.
func (v Vector) Rescale(m float64) Vector {
	return v.Unit().Scale(m)
}

// Reflect mirrors v about the line perpendicular to normal.
// normal does not need to be unit length; a zero normal leaves v unchanged.
func (v Vector) Reflect(normal Vector) Vector {
	n := normal.Unit()
	if n.IsZero() {
		return v
	}
	return v.Sub(n.Scale(2 * v.Dot(n)))
}

// Distance returns the euclidean distance between two points.
func (v Vector) Distance(other Vector) float64 {
	return v.Sub(other).Magnitude()
}

// Cosine returns the cosine of the angle between v and other, or 0 if either is zero.
func (v Vector) Cosine(other Vector) float64 {
	m := v.Magnitude() * other.Magnitude()
	if m == 0 {
		return 0
	}
	return v.Dot(other) / m
}
