package game

import (
	"log/slog"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brushflow/renderer"
	"github.com/pthm-cable/brushflow/telemetry"
)

// maxFrameDT caps the step after a stall so time is not accumulated.
const maxFrameDT = 0.1

// Frame runs one frame: queued events, then the simulation step, then
// painting onto s. A paused frame only drains events; the surface keeps
// its last image.
func (g *Game) Frame(dt float64, s renderer.Surface) {
	g.perf.StartFrame()
	g.perf.StartPhase(telemetry.PhaseInput)
	g.drainEvents()

	if g.paused {
		g.perf.EndFrame()
		return
	}

	if dt > maxFrameDT {
		dt = maxFrameDT
	}
	g.update(dt)

	g.perf.StartPhase(telemetry.PhaseRender)
	g.draw(s)
	g.perf.EndFrame()

	g.flushTelemetry()
}

// update advances the simulation by dt seconds in a fixed order:
// transition, eddies, flow field, particles.
func (g *Game) update(dt float64) {
	g.frame++
	g.simTime += dt

	g.perf.StartPhase(telemetry.PhaseTransition)
	g.transition.Tick(dt * 1000)
	blend := g.transition.Blend()

	g.perf.StartPhase(telemetry.PhaseEddies)
	if g.eddies != nil {
		g.eddies.Advance(dt)
	}

	g.perf.StartPhase(telemetry.PhaseFlowField)
	g.flow.Recompute(g.field, blend, g.simTime*g.cfg.Simulation.TimeScale)

	g.perf.StartPhase(telemetry.PhaseParticles)
	g.particles.SetBlend(blend)
	g.particles.Update(g.field, blend.Speed())
	g.collector.RecordRespawns(g.particles.Respawns())
}

func (g *Game) draw(s renderer.Surface) {
	alpha := g.cfg.Simulation.BackgroundAlpha
	if g.needsClear {
		alpha = 255
		g.needsClear = false
	}
	g.painter.Frame(s, g.particles, g.transition.Blend(), alpha)
}

// drainEvents applies every queued event in arrival order.
func (g *Game) drainEvents() {
	for i := range g.events {
		g.apply(g.events[i])
	}
	g.events = g.events[:0]
}

func (g *Game) apply(e Event) {
	switch e.Kind {
	case EventSwitchPeriod:
		if err := g.transition.RequestSwitch(e.Period); err != nil {
			slog.Warn("ignoring switch request", "error", err)
		}

	case EventTogglePause:
		g.paused = !g.paused
		slog.Info("pause", "paused", g.paused, "frame", g.frame)

	case EventToggleAuto:
		g.transition.SetAutoCycle(!g.transition.AutoCycle())
		slog.Info("auto cycle", "enabled", g.transition.AutoCycle())

	case EventReset:
		g.reset()

	case EventResize:
		g.resize(e.X, e.Y)

	case EventMouse:
		g.mouse = r2.Vec{X: e.X, Y: e.Y}
		if !g.SwirlActive() {
			return
		}
		n := g.particles.ApplySwirl(e.X, e.Y, g.cfg.Mouse.Radius, g.cfg.Mouse.Strength)
		g.collector.RecordSwirl(n)
	}
}

// reset respawns the population, re-seeds the eddies, settles any running
// transition and clears the canvas.
func (g *Game) reset() {
	g.transition.Settle()
	g.particles.SetBlend(g.transition.Blend())
	g.particles.RespawnAll()
	if g.eddies != nil {
		g.eddies.Reset()
	}
	g.needsClear = true
	slog.Info("reset", "frame", g.frame, "period", g.transition.Active().ID)
}

// resize rebuilds the grid and eddy layout for a new canvas.
func (g *Game) resize(width, height float64) {
	if width <= 0 || height <= 0 || (width == g.width && height == g.height) {
		return
	}
	g.width, g.height = width, height
	g.field.Resize(width, height)
	if g.eddies != nil {
		g.eddies.Initialize(width, height)
	}
	g.particles.Resize(width, height)
	g.needsClear = true
	slog.Info("resize", "width", width, "height", height,
		"cols", g.field.Cols(), "rows", g.field.Rows())
}
