package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/tomz197/tunnelless/internal/physics"
	"github.com/tomz197/tunnelless/internal/vector"
)

// File is a scene description read from YAML:
//
//	width: 200
//	height: 120
//	bodies:
//	  - name: ball
//	    shape: circle
//	    x: 10
//	    y: 10
//	    radius: 4
//	    vx: 3
//	  - name: wall
//	    shape: rect
//	    x: 90
//	    y: 0
//	    width: 2
//	    height: 60
//	    fixed: true
type File struct {
	Width   float64    `yaml:"width"`
	Height  float64    `yaml:"height"`
	Damping float64    `yaml:"damping,omitempty"`
	Bodies  []BodySpec `yaml:"bodies"`
}

// BodySpec describes one body. X and Y are the top-left corner of its
// bounding box. Mass 0 means the default mass of 1.
type BodySpec struct {
	ID         string   `yaml:"id,omitempty"`
	Name       string   `yaml:"name,omitempty"`
	Shape      string   `yaml:"shape"`
	X          float64  `yaml:"x"`
	Y          float64  `yaml:"y"`
	Radius     float64  `yaml:"radius,omitempty"`
	Width      float64  `yaml:"width,omitempty"`
	Height     float64  `yaml:"height,omitempty"`
	VX         float64  `yaml:"vx,omitempty"`
	VY         float64  `yaml:"vy,omitempty"`
	Mass       float64  `yaml:"mass,omitempty"`
	Elasticity *float64 `yaml:"elasticity,omitempty"`
	Fixed      bool     `yaml:"fixed,omitempty"`
}

// LoadFile reads and builds a YAML scene.
func LoadFile(path string, logger *log.Logger) (*physics.World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	w, err := f.Build(logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return w, nil
}

// Parse decodes a YAML scene. Unknown keys are rejected so typos do not
// silently fall back to zero values.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	return &f, nil
}

// Build creates the world described by f. Bodies are added in file order,
// which is also their processing order.
func (f *File) Build(logger *log.Logger) (*physics.World, error) {
	w, err := newWorld(f.Width, f.Height, f.Damping, logger)
	if err != nil {
		return nil, err
	}
	p := newPlacer(w)
	for i, bs := range f.Bodies {
		b, err := bs.body()
		if err != nil {
			return nil, fmt.Errorf("body %d (%s): %w", i, bs.Name, err)
		}
		if p.add(b, nil); p.err != nil {
			return nil, fmt.Errorf("body %d: %w", i, p.err)
		}
	}
	return w, nil
}

func (s BodySpec) body() (*physics.Body, error) {
	var opts []physics.BodyOption
	if s.Name != "" {
		opts = append(opts, physics.WithName(s.Name))
	}
	if s.ID != "" {
		opts = append(opts, physics.WithID(s.ID))
	}
	if s.Mass != 0 {
		opts = append(opts, physics.WithMass(s.Mass))
	}
	if s.Elasticity != nil {
		opts = append(opts, physics.WithElasticity(*s.Elasticity))
	}
	if s.Fixed {
		opts = append(opts, physics.Fixed())
	}
	if s.VX != 0 || s.VY != 0 {
		opts = append(opts, physics.WithVelocity(vector.New(s.VX, s.VY)))
	}

	var (
		b   *physics.Body
		err error
	)
	switch s.Shape {
	case "circle":
		b, err = physics.NewCircle(s.X, s.Y, s.Radius, opts...)
	case "rect", "box":
		b, err = physics.NewRect(s.X, s.Y, s.Width, s.Height, opts...)
	default:
		return nil, fmt.Errorf("shape %q: %w", s.Shape, ErrInvalidBody)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	return b, nil
}
