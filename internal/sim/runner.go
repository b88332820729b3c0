// Package sim drives a physics world at a fixed tick rate. A single runner
// goroutine owns the world; other goroutines talk to it through commands and
// read the published frames.
package sim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/tunnelless/internal/physics"
	"github.com/tomz197/tunnelless/internal/scene"
)

// Builder creates a fresh world. It is called once by NewRunner and again on
// every reset.
type Builder func() (*physics.World, error)

// Runner steps a world and keeps a rewind history.
type Runner struct {
	build     Builder
	world     *physics.World
	history   *History
	commands  chan Command
	frame     atomic.Pointer[Frame]
	tickRate  int
	pushForce float64
	logger    *log.Logger
	rng       *rand.Rand

	tick    uint64
	paused  bool
	lastErr error
}

// Option configures a runner.
type Option func(*Runner)

// WithTickRate sets the ticks per second used by Run. Values outside
// 1..1000 are ignored.
func WithTickRate(rate int) Option {
	return func(r *Runner) {
		if rate > 0 && rate <= maxTickRate {
			r.tickRate = rate
		}
	}
}

// WithHistory sets how many ticks can be stepped back. Zero disables rewind.
func WithHistory(n int) Option {
	return func(r *Runner) {
		r.history = NewHistory(n)
	}
}

// WithPushForce sets the impulse magnitude of push commands.
func WithPushForce(f float64) Option {
	return func(r *Runner) {
		r.pushForce = f
	}
}

// WithLogger sets the logger for lifecycle and failure records.
func WithLogger(l *log.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithSeed seeds the random source used by spawn commands.
func WithSeed(seed int64) Option {
	return func(r *Runner) {
		r.rng = rand.New(rand.NewSource(seed))
	}
}

// Paused starts the runner paused.
func Paused() Option {
	return func(r *Runner) {
		r.paused = true
	}
}

// NewRunner builds the initial world and publishes its first frame.
func NewRunner(build Builder, opts ...Option) (*Runner, error) {
	r := &Runner{
		build:     build,
		history:   NewHistory(DefaultHistory),
		commands:  make(chan Command, commandBuffer),
		tickRate:  DefaultTickRate,
		pushForce: DefaultPushForce,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.rng == nil {
		r.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	w, err := build()
	if err != nil {
		return nil, fmt.Errorf("build world: %w", err)
	}
	r.world = w
	r.publish()
	return r, nil
}

// Send queues a command without blocking. It reports false when the queue is
// full and the command was dropped.
func (r *Runner) Send(c Command) bool {
	select {
	case r.commands <- c:
		return true
	default:
		return false
	}
}

// Frame returns the latest published frame. Safe for concurrent use.
func (r *Runner) Frame() *Frame {
	return r.frame.Load()
}

// TickRate returns the ticks per second used by Run.
func (r *Runner) TickRate() int { return r.tickRate }

// Run ticks at the configured rate until ctx is cancelled. Tick must not be
// called concurrently with Run.
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(r.tickRate))
	defer ticker.Stop()

	r.logger.Info("Simulation started", "tickRate", r.tickRate, "bodies", len(r.world.Bodies()))
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Simulation stopped", "tick", r.tick)
			return
		case <-ticker.C:
			// Failures are logged and surfaced in the frame.
			_ = r.Tick()
		}
	}
}

// Tick applies pending commands, advances the world once unless paused and
// publishes a frame. It returns the tick failure, if any.
func (r *Runner) Tick() error {
	err := r.drainCommands()
	if err == nil && !r.paused {
		err = r.step()
	}
	r.publish()
	return err
}

// drainCommands applies every queued command.
func (r *Runner) drainCommands() error {
	for {
		select {
		case c := <-r.commands:
			if err := r.apply(c); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (r *Runner) apply(c Command) error {
	switch c.Kind {
	case CmdTogglePause:
		r.paused = !r.paused
		if !r.paused {
			r.lastErr = nil
		}
		r.logger.Debug("Pause toggled", "paused", r.paused, "tick", r.tick)
	case CmdStepForward:
		r.paused = true
		return r.step()
	case CmdStepBack:
		r.paused = true
		r.stepBack()
	case CmdReset:
		r.reset()
	case CmdPush:
		r.push(c)
	case CmdSpawn:
		r.spawn()
	default:
		r.logger.Warn("Unknown command", "command", c)
	}
	return nil
}

// step advances the world by one tick. On failure the pre-tick state is
// restored, the runner pauses and the error is kept for the frame.
func (r *Runner) step() error {
	before := r.world.SaveableState()
	if err := r.world.Update(); err != nil {
		if lerr := r.world.LoadState(before); lerr != nil {
			err = errors.Join(err, fmt.Errorf("rollback: %w", lerr))
		}
		r.paused = true
		r.lastErr = err
		r.logger.Error("Tick failed, simulation paused", "tick", r.tick, "err", err)
		return err
	}
	if err := r.history.Push(before); err != nil {
		r.logger.Warn("Dropping rewind history", "err", err)
		r.history.Clear()
	}
	r.tick++
	r.lastErr = nil
	return nil
}

func (r *Runner) stepBack() {
	state, ok, err := r.history.Pop()
	switch {
	case err != nil:
		r.logger.Warn("Corrupt rewind entry", "err", err)
		return
	case !ok:
		r.logger.Debug("Nothing to rewind", "tick", r.tick)
		return
	}
	if err := r.world.LoadState(state); err != nil {
		r.logger.Error("Rewind failed", "tick", r.tick, "err", err)
		r.lastErr = err
		return
	}
	r.tick--
	r.lastErr = nil
	r.logger.Debug("Rewound", "tick", r.tick, "history", r.history.Len())
}

func (r *Runner) reset() {
	w, err := r.build()
	if err != nil {
		r.logger.Error("Reset failed", "err", err)
		r.lastErr = err
		return
	}
	r.world = w
	r.history.Clear()
	r.tick = 0
	r.lastErr = nil
	r.logger.Info("World reset", "bodies", len(w.Bodies()))
}

func (r *Runner) push(c Command) {
	b, ok := r.world.Body(c.BodyID)
	if !ok {
		r.logger.Warn("Push for unknown body", "id", c.BodyID)
		return
	}
	b.ApplyForce(c.Direction.Unit().Scale(r.pushForce))
}

// spawn adds a random body. Older history entries do not describe it, so the
// history is dropped.
func (r *Runner) spawn() {
	b, err := scene.Spawn(r.world, r.rng)
	if err != nil {
		r.logger.Warn("Spawn failed", "err", err)
		return
	}
	r.history.Clear()
	r.logger.Info("Body spawned", "body", b, "bounds", b.Bounds())
}

// publish stores a fresh frame. Frames are never reused so readers can hold
// them across ticks.
func (r *Runner) publish() {
	width, height := r.world.Size()
	stats := r.world.Stats()
	f := &Frame{
		Tick:       r.tick,
		Paused:     r.paused,
		History:    r.history.Len(),
		Width:      width,
		Height:     height,
		Resolved:   stats.Resolved,
		Suppressed: stats.Suppressed,
		Bodies:     make([]BodyView, 0, len(r.world.Bodies())),
	}
	for _, b := range r.world.Bodies() {
		f.Bodies = append(f.Bodies, viewOf(b))
	}
	if r.lastErr != nil {
		f.Err = r.lastErr.Error()
	}
	r.frame.Store(f)
}
