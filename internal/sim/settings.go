package sim

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/tunnelless/internal/config"
	"github.com/tomz197/tunnelless/internal/physics"
	"github.com/tomz197/tunnelless/internal/scene"
)

// Defaults for the environment-driven settings.
const (
	DefaultScene  = "billiards"
	DefaultWidth  = 200.0
	DefaultHeight = 100.0
	DefaultBodies = 30
)

// Settings describe which world a binary runs and how it is stepped.
type Settings struct {
	Scene         string // Built-in scene name or YAML scene path
	Width, Height float64
	Seed          int64
	Bodies        int
	Damping       float64
	TickRate      int
	History       int
}

// SettingsFromEnv reads the SIM_* environment variables. The seed defaults
// to the current time.
func SettingsFromEnv() Settings {
	return Settings{
		Scene:    config.GetEnv("SIM_SCENE", DefaultScene),
		Width:    config.GetEnvFloat("SIM_WIDTH", DefaultWidth),
		Height:   config.GetEnvFloat("SIM_HEIGHT", DefaultHeight),
		Seed:     config.GetEnvInt64("SIM_SEED", time.Now().UnixNano()),
		Bodies:   config.GetEnvInt("SIM_BODIES", DefaultBodies),
		Damping:  config.GetEnvFloat("SIM_DAMPING", 0),
		TickRate: config.GetEnvInt("SIM_TICK_RATE", DefaultTickRate),
		History:  config.GetEnvInt("SIM_HISTORY", DefaultHistory),
	}
}

// Builder returns a builder that opens the configured scene. Every call
// yields the same layout, so resets are repeatable.
func (s Settings) Builder(logger *log.Logger) Builder {
	cfg := scene.Config{
		Width:   s.Width,
		Height:  s.Height,
		Seed:    s.Seed,
		Count:   s.Bodies,
		Damping: s.Damping,
		Logger:  logger,
	}
	return func() (*physics.World, error) {
		return scene.Open(s.Scene, cfg)
	}
}

// NewRunner creates a runner for the settings. Extra options are applied
// last.
func (s Settings) NewRunner(logger *log.Logger, opts ...Option) (*Runner, error) {
	base := []Option{
		WithTickRate(s.TickRate),
		WithHistory(s.History),
		WithSeed(s.Seed),
		WithLogger(logger),
	}
	return NewRunner(s.Builder(logger), append(base, opts...)...)
}
