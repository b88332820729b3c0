package physics

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/tomz197/tunnelless/internal/vector"
)

// Boundary wall names, in creation order.
const (
	WallTop    = "top"
	WallRight  = "right"
	WallBottom = "bottom"
	WallLeft   = "left"
)

// wallThickness is how far the boundary walls extend outside the play area.
const wallThickness = 100

// Stats counts what the world has done. The counters travel with saved
// states, so loading a state rewinds them too.
type Stats struct {
	Ticks      uint64 `msgpack:"ticks" json:"ticks"`           // Completed Update calls
	Resolved   uint64 `msgpack:"resolved" json:"resolved"`     // Collisions resolved
	Suppressed uint64 `msgpack:"suppressed" json:"suppressed"` // Events skipped because the memo matched
}

// World owns a set of bodies and advances them one tick at a time.
// It is not safe for concurrent use; a step must run to completion before
// anything else reads or mutates the bodies.
type World struct {
	width, height float64
	bodies        []*Body          // Insertion order is processing order
	index         map[string]*Body // id -> body
	memo          map[string]string
	damping       float64
	minSpeed      float64
	boundary      bool
	logger        *log.Logger
	stats         Stats
}

// WorldOption configures a world at construction.
type WorldOption func(*World)

// WithDamping overrides the per-tick friction damping factor and snap speed.
func WithDamping(factor, minSpeed float64) WorldOption {
	return func(w *World) {
		w.damping = factor
		w.minSpeed = minSpeed
	}
}

// WithLogger enables debug records for resolved and suppressed collisions.
func WithLogger(l *log.Logger) WorldOption {
	return func(w *World) {
		w.logger = l
	}
}

// WithoutBoundary skips creating the four boundary walls.
func WithoutBoundary() WorldOption {
	return func(w *World) {
		w.boundary = false
	}
}

// NewWorld creates a world whose play area is [0,width] x [0,height], enclosed
// by four fixed walls named top, right, bottom and left.
func NewWorld(width, height float64, opts ...WorldOption) (*World, error) {
	w := &World{
		width:    width,
		height:   height,
		index:    make(map[string]*Body),
		memo:     make(map[string]string),
		damping:  FrictionDamping,
		minSpeed: MinSpeed,
		boundary: true,
	}
	for _, opt := range opts {
		opt(w)
	}
	if !w.boundary {
		return w, nil
	}

	const t = wallThickness
	walls := []struct {
		name       string
		x, y, w, h float64
	}{
		{WallTop, -t, -t, width + 2*t, t},
		{WallRight, width, 0, t, height},
		{WallBottom, -t, height, width + 2*t, t},
		{WallLeft, -t, 0, t, height},
	}
	for _, wall := range walls {
		body, err := NewRect(wall.x, wall.y, wall.w, wall.h, Fixed(), WithName(wall.name))
		if err != nil {
			return nil, fmt.Errorf("create %s wall for %vx%v world: %w", wall.name, width, height, err)
		}
		if err := w.AddBody(body); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// AddBody appends a body. Bodies are processed in the order they were added.
func (w *World) AddBody(b *Body) error {
	if _, ok := w.index[b.ID()]; ok {
		return fmt.Errorf("body %s already in world: %w", b, ErrInvalidOperation)
	}
	w.bodies = append(w.bodies, b)
	w.index[b.ID()] = b
	return nil
}

// Bodies returns the bodies in processing order. The slice must not be modified.
func (w *World) Bodies() []*Body { return w.bodies }

// Body looks up a body by id.
func (w *World) Body(id string) (*Body, bool) {
	b, ok := w.index[id]
	return b, ok
}

// Size returns the play area dimensions.
func (w *World) Size() (width, height float64) { return w.width, w.height }

// Stats returns the running counters.
func (w *World) Stats() Stats { return w.stats }

// Update advances every moving body by one tick. For each body in insertion
// order, the earliest predicted collision that is not a repeat of the one it
// last resolved is handled. A body with no predicted collision moves freely
// and slows by friction; a body whose events were all repeats holds its
// position for the tick. At most one collision is resolved per body per tick.
func (w *World) Update() error {
	for _, body := range w.bodies {
		if !body.IsMoving() {
			continue
		}
		events, err := FindCollisions(body, w.bodies)
		if err != nil {
			return fmt.Errorf("tick %d, body %s: %w", w.stats.Ticks, body, err)
		}
		resolved, err := w.resolveFirst(body, events)
		if err != nil {
			return fmt.Errorf("tick %d, body %s: %w", w.stats.Ticks, body, err)
		}
		if resolved || len(events) > 0 {
			continue
		}
		body.MoveBy(body.Velocity())
		delete(w.memo, body.ID())
		body.ApplyDamping(w.damping, w.minSpeed)
	}
	w.stats.Ticks++
	return nil
}

// resolveFirst resolves the earliest event whose signature differs from the
// body's memo and records the encounter for both bodies.
func (w *World) resolveFirst(body *Body, events []Event) (bool, error) {
	for _, e := range events {
		if w.memo[body.ID()] == signature(e.Pair.Moving, e.Pair.Other) {
			w.stats.Suppressed++
			w.debug("suppressed repeat collision", "event", e)
			continue
		}
		if err := Resolve(e); err != nil {
			return false, err
		}
		a, b := e.Pair.Moving, e.Pair.Other
		w.memo[a.ID()] = signature(a, b)
		w.memo[b.ID()] = signature(b, a)
		w.stats.Resolved++
		w.debug("resolved collision", "event", e, "velocity", a.Velocity())
		return true, nil
	}
	return false, nil
}

func (w *World) debug(msg string, keyvals ...any) {
	if w.logger != nil {
		w.logger.Debug(msg, keyvals...)
	}
}

// signature identifies an encounter by the full kinematic state of both bodies
// and the identity of the other one. Any change in position or velocity yields
// a different signature.
func signature(self, other *Body) string {
	var sb strings.Builder
	writeKinematics(&sb, self)
	sb.WriteByte('|')
	writeKinematics(&sb, other)
	sb.WriteByte('|')
	sb.WriteString(other.ID())
	return sb.String()
}

func writeKinematics(sb *strings.Builder, b *Body) {
	for i, f := range [4]float64{b.position.X, b.position.Y, b.velocity.X, b.velocity.Y} {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	}
}

// SaveableState captures positions, velocities, the collision memo and the
// counters.
func (w *World) SaveableState() WorldState {
	state := WorldState{
		Bodies:        make([]BodyState, 0, len(w.bodies)),
		CollisionMemo: make(map[string]string, len(w.memo)),
	}
	for _, b := range w.bodies {
		state.Bodies = append(state.Bodies, BodyState{
			ID:       b.ID(),
			X:        b.position.X,
			Y:        b.position.Y,
			Velocity: b.velocity,
		})
	}
	for id, sig := range w.memo {
		state.CollisionMemo[id] = sig
	}
	state.Stats = w.stats
	return state
}

// LoadState restores positions and velocities by id and replaces the memo
// and the counters.
// The state is validated first; on error the world is left untouched.
func (w *World) LoadState(state WorldState) error {
	for _, s := range state.Bodies {
		b, ok := w.index[s.ID]
		if !ok {
			return fmt.Errorf("load state: %q: %w", s.ID, ErrUnknownBodyID)
		}
		if b.IsFixed() && !s.Velocity.IsZero() {
			return fmt.Errorf("load state: velocity %v for fixed body %s: %w", s.Velocity, b, ErrInvalidOperation)
		}
	}
	for _, s := range state.Bodies {
		b := w.index[s.ID]
		b.MoveTo(vector.New(s.X, s.Y))
		b.velocity = s.Velocity
	}
	w.memo = make(map[string]string, len(state.CollisionMemo))
	for id, sig := range state.CollisionMemo {
		w.memo[id] = sig
	}
	w.stats = state.Stats
	return nil
}
