// Package game owns the animation state and runs the per-frame pipeline.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brushflow/config"
	"github.com/pthm-cable/brushflow/renderer"
	"github.com/pthm-cable/brushflow/style"
	"github.com/pthm-cable/brushflow/systems"
	"github.com/pthm-cable/brushflow/telemetry"
)

// Options holds run settings that are not part of the YAML config.
type Options struct {
	Seed      int64
	Period    style.PeriodID // Starting period, empty = config initial
	LogStats  bool           // Log windowed stats and perf via slog
	OutputDir string         // CSV/YAML output, empty = disabled
}

// Game holds the complete animation state. It is not safe for concurrent
// use: hosts post events and call Frame from one goroutine.
type Game struct {
	cfg *config.Config
	rng *rand.Rand

	width, height float64

	noise      *systems.NoiseField
	eddies     *systems.EddySystem // nil without a turbulent preset
	field      *systems.FlowField
	flow       *systems.FlowGenerator
	particles  *systems.ParticleSystem
	transition *systems.Transition
	painter    *renderer.Painter

	events []Event

	// State
	frame      int64
	simTime    float64 // Seconds of unpaused time
	paused     bool
	needsClear bool   // Next draw washes at full opacity
	mouse      r2.Vec // Last cursor position

	// Telemetry
	perf      *telemetry.PerfCollector
	collector *telemetry.Collector
	output    *telemetry.OutputManager
	logStats  bool
	speeds    []float64
}

// NewGame builds the animation for cfg. The canvas starts at the configured
// screen size.
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	g := &Game{
		cfg:        cfg,
		rng:        rand.New(rand.NewSource(opts.Seed)),
		width:      float64(cfg.Screen.Width),
		height:     float64(cfg.Screen.Height),
		painter:    renderer.NewPainter(),
		needsClear: true,
		perf:       telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		logStats:   opts.LogStats,
	}

	noise, err := systems.NewNoiseField(cfg.Noise.Backend, opts.Seed, cfg.Noise.Octaves, cfg.Noise.Falloff)
	if err != nil {
		return nil, err
	}
	g.noise = noise

	if tp := cfg.TurbulencePreset(); tp != nil {
		g.eddies = systems.NewEddySystem(*tp.Turbulence, noise, g.rng)
		g.eddies.Initialize(g.width, g.height)
	}

	initial := cfg.Derived.Initial
	if opts.Period != "" {
		initial = opts.Period
	}
	g.transition, err = systems.NewTransition(cfg.Derived.Presets, initial,
		cfg.Transition.Step, cfg.Transition.CycleMS, g.eddies)
	if err != nil {
		return nil, err
	}
	g.transition.SetAutoCycle(cfg.Transition.AutoCycle && cfg.Transition.CycleMS > 0)
	g.transition.OnSwitch(g.onSwitch)

	g.field = systems.NewFlowField(g.width, g.height, cfg.Simulation.CellSize)
	g.flow = systems.NewFlowGenerator(noise, g.eddies, g.rng)

	sim := cfg.Simulation
	g.particles = systems.NewParticleSystem(sim.ParticleCount, systems.Spawner{
		Rng:     g.rng,
		Width:   g.width,
		Height:  g.height,
		LifeMin: sim.LifeMin,
		LifeMax: sim.LifeMax,
		Blend:   g.transition.Blend(),
	}, sim.MaxSpeed, sim.EdgeMargin)
	g.speeds = make([]float64, 0, sim.ParticleCount)

	fps := cfg.Screen.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	g.collector = telemetry.NewCollector(cfg.Telemetry.StatsWindow, 1/float64(fps))

	g.output, err = telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("output: %w", err)
	}
	if err := g.output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	slog.Info("animation ready",
		"seed", opts.Seed,
		"period", initial,
		"particles", sim.ParticleCount,
		"grid", fmt.Sprintf("%dx%d", g.field.Cols(), g.field.Rows()),
		"eddies", g.eddyCount(),
		"noise", cfg.Noise.Backend,
	)
	return g, nil
}

// Post queues an event for the next frame.
func (g *Game) Post(e Event) {
	g.events = append(g.events, e)
}

// Unload flushes and closes run output.
func (g *Game) Unload() {
	if err := g.output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

func (g *Game) eddyCount() int {
	if g.eddies == nil {
		return 0
	}
	return g.eddies.Len()
}

// FrameCount returns the number of simulated frames.
func (g *Game) FrameCount() int64 { return g.frame }

// SimTime returns unpaused simulated seconds.
func (g *Game) SimTime() float64 { return g.simTime }

// Paused reports whether updates are suspended.
func (g *Game) Paused() bool { return g.paused }

// Mouse returns the last cursor position reported by the host.
func (g *Game) Mouse() r2.Vec { return g.mouse }

// SwirlActive reports whether mouse moves currently push particles.
func (g *Game) SwirlActive() bool {
	return !g.paused && g.transition.Technique() == style.Turbulent
}

// Size returns the canvas size.
func (g *Game) Size() (width, height float64) { return g.width, g.height }

// Transition returns the period controller.
func (g *Game) Transition() *systems.Transition { return g.transition }

// Particles returns the particle population.
func (g *Game) Particles() *systems.ParticleSystem { return g.particles }

// Eddies returns the eddy system, or nil when no preset is turbulent.
func (g *Game) Eddies() *systems.EddySystem { return g.eddies }

// Field returns the flow grid.
func (g *Game) Field() *systems.FlowField { return g.field }

// Perf returns the frame timing collector.
func (g *Game) Perf() *telemetry.PerfCollector { return g.perf }

// Config returns the configuration the game was built from.
func (g *Game) Config() *config.Config { return g.cfg }
