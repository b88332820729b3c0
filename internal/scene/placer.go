package scene

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/tomz197/tunnelless/internal/physics"
	"github.com/tomz197/tunnelless/internal/vector"
)

// Placement tuning.
const (
	placementCell         = 10.0 // Occupancy grid cell size in world units
	maxPlacementAttempts  = 64   // Random positions tried per body before giving up
	randomFixedChance     = 0.15 // Share of random rects created as fixed obstacles
	randomSizeDivisor     = 40.0 // Base body size is min(width, height) / divisor
	randomSpeedMultiplier = 2.0  // Max axis speed in units of base size per tick
)

// placer adds bodies to a world while keeping them inside the play area and
// apart from each other.
type placer struct {
	world  *physics.World
	grid   *Grid
	bodies []*physics.Body // Grid item index -> body
	err    error           // First failure of add
}

func newPlacer(w *physics.World) *placer {
	width, height := w.Size()
	p := &placer{world: w, grid: NewGrid(width, height, placementCell)}
	for _, b := range w.Bodies() {
		p.track(b)
	}
	return p
}

func (p *placer) track(b *physics.Body) {
	p.grid.Insert(b.Bounds(), len(p.bodies))
	p.bodies = append(p.bodies, b)
}

// fits reports whether b lies inside the play area without overlapping any
// tracked body.
func (p *placer) fits(b *physics.Body) bool {
	width, height := p.world.Size()
	bb := b.Bounds()
	if bb.X0 < 0 || bb.Y0 < 0 || bb.X1 > width || bb.Y1 > height {
		return false
	}
	free := true
	p.grid.Query(bb, func(i int) bool {
		if physics.Overlaps(b, p.bodies[i]) {
			free = false
			return true
		}
		return false
	})
	return free
}

// add places a body of a fixed layout. Once a body fails, later calls are
// ignored and the failure is kept in p.err.
func (p *placer) add(b *physics.Body, err error) {
	if p.err != nil {
		return
	}
	if err != nil {
		p.err = fmt.Errorf("%w: %w", ErrInvalidBody, err)
		return
	}
	if !p.fits(b) {
		p.err = fmt.Errorf("%s overlaps another body or leaves the play area: %w", b, ErrInvalidBody)
		return
	}
	if err := p.world.AddBody(b); err != nil {
		p.err = err
		return
	}
	p.track(b)
}

// spawn adds a random body at a random free position.
func (p *placer) spawn(rng *rand.Rand, name string, allowFixed bool) (*physics.Body, error) {
	width, height := p.world.Size()
	for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
		b, err := randomBody(rng, width, height, name, allowFixed)
		if err != nil {
			return nil, err
		}
		if !p.fits(b) {
			continue
		}
		if err := p.world.AddBody(b); err != nil {
			return nil, err
		}
		p.track(b)
		return b, nil
	}
	return nil, fmt.Errorf("after %d attempts: %w", maxPlacementAttempts, ErrNoSpace)
}

func randomBody(rng *rand.Rand, width, height float64, name string, allowFixed bool) (*physics.Body, error) {
	unit := math.Max(math.Min(width, height)/randomSizeDivisor, 0.5)
	maxSpeed := unit * randomSpeedMultiplier
	velocity := vector.New((rng.Float64()*2-1)*maxSpeed, (rng.Float64()*2-1)*maxSpeed)

	opts := []physics.BodyOption{physics.WithName(name)}
	if rng.Intn(2) == 0 {
		r := unit * (1 + rng.Float64()*1.5)
		x, y := rng.Float64()*(width-2*r), rng.Float64()*(height-2*r)
		opts = append(opts, physics.WithMass((r/unit)*(r/unit)), physics.WithVelocity(velocity))
		return physics.NewCircle(x, y, r, opts...)
	}

	w, h := unit*(2+rng.Float64()*3), unit*(2+rng.Float64()*3)
	x, y := rng.Float64()*(width-w), rng.Float64()*(height-h)
	if allowFixed && rng.Float64() < randomFixedChance {
		opts = append(opts, physics.Fixed())
	} else {
		opts = append(opts, physics.WithMass(w*h/(unit*unit*4)), physics.WithVelocity(velocity))
	}
	return physics.NewRect(x, y, w, h, opts...)
}

// Spawn adds one random movable body to w at a free position.
func Spawn(w *physics.World, rng *rand.Rand) (*physics.Body, error) {
	return newPlacer(w).spawn(rng, "", false)
}
