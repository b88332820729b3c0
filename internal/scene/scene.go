// Package scene builds ready-to-run worlds: a few named built-in layouts,
// randomly populated worlds and YAML scene files.
package scene

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/tomz197/tunnelless/internal/physics"
	"github.com/tomz197/tunnelless/internal/vector"
)

var (
	ErrUnknownScene = errors.New("unknown scene")
	ErrInvalidBody  = errors.New("invalid body")
	ErrNoSpace      = errors.New("no free space")
)

// Config parameterizes a built-in scene.
type Config struct {
	Width, Height float64
	Seed          int64
	Count         int     // Bodies for the random scene
	Damping       float64 // Friction factor; 0 keeps physics.FrictionDamping
	Logger        *log.Logger
}

type builder func(p *placer, cfg Config, rng *rand.Rand) error

var builtins = map[string]builder{
	"billiards": buildBilliards,
	"tunnel":    buildTunnel,
	"boxes":     buildBoxes,
	"random":    buildRandom,
}

// Names lists the built-in scenes in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open builds a built-in scene by name, or loads a YAML scene file when
// nameOrPath has a .yaml or .yml extension.
func Open(nameOrPath string, cfg Config) (*physics.World, error) {
	switch filepath.Ext(nameOrPath) {
	case ".yaml", ".yml":
		return LoadFile(nameOrPath, cfg.Logger)
	}
	return Build(nameOrPath, cfg)
}

// Build creates the named built-in scene. The same seed always yields the
// same layout.
func Build(name string, cfg Config) (*physics.World, error) {
	build, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%q (have %v): %w", name, Names(), ErrUnknownScene)
	}
	w, err := newWorld(cfg.Width, cfg.Height, cfg.Damping, cfg.Logger)
	if err != nil {
		return nil, err
	}
	p := newPlacer(w)
	if err := build(p, cfg, rand.New(rand.NewSource(cfg.Seed))); err != nil {
		return nil, fmt.Errorf("build scene %s: %w", name, err)
	}
	return w, nil
}

func newWorld(width, height, damping float64, logger *log.Logger) (*physics.World, error) {
	if !(width > 0) || !(height > 0) {
		return nil, fmt.Errorf("world size %vx%v: %w", width, height, physics.ErrInvalidOperation)
	}
	var opts []physics.WorldOption
	if damping > 0 {
		opts = append(opts, physics.WithDamping(damping, physics.MinSpeed))
	}
	if logger != nil {
		opts = append(opts, physics.WithLogger(logger))
	}
	return physics.NewWorld(width, height, opts...)
}

// buildBilliards racks ten balls in a triangle and sends a cue ball at them.
func buildBilliards(p *placer, cfg Config, _ *rand.Rand) error {
	r := math.Min(cfg.Width, cfg.Height) / 30
	gap := r / 10
	apex := vector.New(cfg.Width*0.6, cfg.Height/2)

	for row := 0; row < 4; row++ {
		for i := 0; i <= row; i++ {
			c := apex.Add(vector.New(
				float64(row)*(r*math.Sqrt(3)+gap),
				(float64(i)-float64(row)/2)*(2*r+gap),
			))
			name := fmt.Sprintf("ball-%d", row*(row+1)/2+i+1)
			p.add(physics.NewCircle(c.X-r, c.Y-r, r, physics.WithName(name)))
		}
	}

	cue := vector.New(cfg.Width*0.2, cfg.Height/2+r/4)
	p.add(physics.NewCircle(cue.X-r, cue.Y-r, r,
		physics.WithName("cue"),
		physics.WithVelocity(vector.New(cfg.Width/25, 0)),
	))
	return p.err
}

// buildTunnel fires bodies that move several times the thickness of a thin
// fixed wall per tick.
func buildTunnel(p *placer, cfg Config, _ *rand.Rand) error {
	w, h := cfg.Width, cfg.Height
	p.add(physics.NewRect(w/2, h*0.15, 1, h*0.7, physics.Fixed(), physics.WithName("membrane")))
	p.add(physics.NewCircle(w*0.1, h*0.3, 1,
		physics.WithName("bullet"),
		physics.WithVelocity(vector.New(w/3, 0.5)),
	))
	p.add(physics.NewRect(w*0.1, h*0.65, 2, 2,
		physics.WithName("brick"),
		physics.WithVelocity(vector.New(w/4, -0.25)),
	))
	return p.err
}

// buildBoxes mixes movable rects and circles of different masses around a
// fixed pillar.
func buildBoxes(p *placer, cfg Config, _ *rand.Rand) error {
	w, h := cfg.Width, cfg.Height
	s := math.Min(w, h) / 12

	p.add(physics.NewRect(w*0.45, h*0.4, w*0.1, h*0.2, physics.Fixed(), physics.WithName("pillar")))
	p.add(physics.NewRect(w*0.1, h*0.1, s, s, physics.WithName("crate"), physics.WithMass(2),
		physics.WithVelocity(vector.New(s/3, s/5))))
	p.add(physics.NewRect(w*0.75, h*0.7, 2*s, s/2, physics.WithName("plank"), physics.WithMass(3),
		physics.WithVelocity(vector.New(-s/4, -s/6))))
	p.add(physics.NewRect(w*0.2, h*0.75, s/2, s/2, physics.WithName("die"),
		physics.WithVelocity(vector.New(s/2, 0))))
	p.add(physics.NewCircle(w*0.8, h*0.15, s/2, physics.WithName("boulder"), physics.WithMass(4),
		physics.WithVelocity(vector.New(-s/5, s/4))))
	p.add(physics.NewCircle(w*0.3, h*0.45, s/3, physics.WithName("marble"),
		physics.WithVelocity(vector.New(s/2, -s/3))))
	p.add(physics.NewCircle(w*0.6, h*0.8, s/4, physics.WithName("pebble"), physics.WithMass(0.5)))
	return p.err
}

// buildRandom scatters cfg.Count bodies. When the area fills up, the scene
// keeps the bodies placed so far.
func buildRandom(p *placer, cfg Config, rng *rand.Rand) error {
	for i := 0; i < cfg.Count; i++ {
		if _, err := p.spawn(rng, fmt.Sprintf("body-%d", i+1), true); err != nil {
			if errors.Is(err, ErrNoSpace) {
				if cfg.Logger != nil {
					cfg.Logger.Warn("Random scene is full", "placed", i, "requested", cfg.Count)
				}
				return nil
			}
			return err
		}
	}
	return nil
}
