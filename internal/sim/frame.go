package sim

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/tomz197/tunnelless/internal/physics"
)

// BodyView is a read-only copy of a body for rendering.
type BodyView struct {
	ID     string  `msgpack:"id" json:"id"`
	Name   string  `msgpack:"name" json:"name"`
	Kind   string  `msgpack:"kind" json:"kind"`
	X      float64 `msgpack:"x" json:"x"`
	Y      float64 `msgpack:"y" json:"y"`
	Width  float64 `msgpack:"w" json:"w"`
	Height float64 `msgpack:"h" json:"h"`
	Radius float64 `msgpack:"r,omitempty" json:"r,omitempty"`
	VX     float64 `msgpack:"vx" json:"vx"`
	VY     float64 `msgpack:"vy" json:"vy"`
	Fixed  bool    `msgpack:"fixed" json:"fixed"`
}

// Label returns the name, or the shortened id for unnamed bodies.
func (v BodyView) Label() string {
	if v.Name != "" {
		return v.Name
	}
	if len(v.ID) > 8 {
		return v.ID[:8]
	}
	return v.ID
}

// Frame is an immutable snapshot of the simulation published after every
// tick. Readers must not modify it.
type Frame struct {
	Tick       uint64     `msgpack:"tick" json:"tick"`
	Paused     bool       `msgpack:"paused" json:"paused"`
	History    int        `msgpack:"history" json:"history"`
	Width      float64    `msgpack:"width" json:"width"`
	Height     float64    `msgpack:"height" json:"height"`
	Resolved   uint64     `msgpack:"resolved" json:"resolved"`
	Suppressed uint64     `msgpack:"suppressed" json:"suppressed"`
	Bodies     []BodyView `msgpack:"bodies" json:"bodies"`
	Err        string     `msgpack:"err,omitempty" json:"err,omitempty"`
}

// Movable returns the bodies a user can push, in processing order.
func (f *Frame) Movable() []BodyView {
	var out []BodyView
	for _, b := range f.Bodies {
		if !b.Fixed {
			out = append(out, b)
		}
	}
	return out
}

// EncodeFrame serializes a frame with msgpack for network clients.
func EncodeFrame(f *Frame) ([]byte, error) {
	data, err := msgpack.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return data, nil
}

func viewOf(b *physics.Body) BodyView {
	bb := b.Bounds()
	v := b.Velocity()
	return BodyView{
		ID:     b.ID(),
		Name:   b.Name(),
		Kind:   b.Kind().String(),
		X:      bb.X0,
		Y:      bb.Y0,
		Width:  bb.Width(),
		Height: bb.Height(),
		Radius: b.Radius(),
		VX:     v.X,
		VY:     v.Y,
		Fixed:  b.IsFixed(),
	}
}
