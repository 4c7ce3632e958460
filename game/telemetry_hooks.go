package game

import (
	"log/slog"

	"github.com/pthm-cable/brushflow/style"
	"github.com/pthm-cable/brushflow/systems"
	"github.com/pthm-cable/brushflow/telemetry"
)

// onSwitch logs and records every started transition.
func (g *Game) onSwitch(e systems.SwitchEvent) {
	g.collector.RecordSwitch()

	attrs := []any{"from", e.From, "to", e.To, "reason", string(e.Reason), "frame", g.frame}
	if g.transition.Target().Technique == style.Turbulent && g.eddies != nil {
		attrs = append(attrs, "eddies", g.eddies.Len())
	}
	slog.Info("period switch", attrs...)

	rec := telemetry.NewTransitionRecord(g.frame, g.simTime, string(e.From), string(e.To), string(e.Reason))
	if err := g.output.WriteTransition(rec); err != nil {
		slog.Error("failed to write transition", "error", err)
	}
}

// flushTelemetry closes the stats window when it is complete.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.frame) {
		return
	}

	g.speeds = g.speeds[:0]
	g.particles.Each(func(p *systems.Particle) {
		g.speeds = append(g.speeds, p.Speed())
	})

	blend := g.transition.Blend()
	stats := g.collector.Flush(g.frame, telemetry.FrameState{
		SimTime:   g.simTime,
		Active:    string(blend.Active.ID),
		Target:    string(blend.Target.ID),
		Technique: blend.Technique().String(),
		Progress:  blend.Progress,
		Eddies:    g.eddyCount(),
	}, g.speeds)
	perfStats := g.perf.Stats()

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.output.WriteStats(stats); err != nil {
		slog.Error("failed to write stats", "error", err)
	}
	if err := g.output.WritePerf(perfStats, stats.WindowEndFrame); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}
