package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for one frame.
const (
	PhaseInput      = "input"
	PhaseTransition = "transition"
	PhaseEddies     = "eddies"
	PhaseFlowField  = "flow_field"
	PhaseParticles  = "particles"
	PhaseRender     = "render"
)

// Phases lists every frame phase in execution order.
var Phases = []string{
	PhaseInput, PhaseTransition, PhaseEddies,
	PhaseFlowField, PhaseParticles, PhaseRender,
}

// clock is the time source for frame timings. Tests replace it.
var clock = time.Now

// PerfSample holds timing data for a single frame.
type PerfSample struct {
	FrameDuration time.Duration
	Phases        map[string]time.Duration
}

// PerfCollector tracks frame timings over a rolling window.
type PerfCollector struct {
	windowSize  int
	samples     []PerfSample
	writeIndex  int
	sampleCount int

	currentPhases map[string]time.Duration
	frameStart    time.Time
	phaseStart    time.Time
	lastPhase     string

	// Wall-clock time between presented frames
	lastPresent   time.Time
	presentPeriod time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize frames.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartFrame begins timing a frame.
func (p *PerfCollector) StartFrame() {
	p.frameStart = clock()
	p.currentPhases = make(map[string]time.Duration, len(Phases))
	p.lastPhase = ""
}

// StartPhase closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := clock()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndFrame closes the last phase and records the sample.
func (p *PerfCollector) EndFrame() {
	now := clock()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
		p.lastPhase = ""
	}

	p.samples[p.writeIndex] = PerfSample{
		FrameDuration: now.Sub(p.frameStart),
		Phases:        p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// RecordPresent marks a frame reaching the screen.
func (p *PerfCollector) RecordPresent() {
	now := clock()
	if !p.lastPresent.IsZero() {
		p.presentPeriod = now.Sub(p.lastPresent)
	}
	p.lastPresent = now
}

// PerfStats holds aggregated timings for the current window.
type PerfStats struct {
	AvgFrame time.Duration
	MinFrame time.Duration
	MaxFrame time.Duration

	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64 // Share of average frame time

	// Simulated frames per second of CPU time
	FramesPerSecond float64

	// Presentation rate (graphics mode only)
	PresentPeriod time.Duration
	FPS           float64
}

// Stats aggregates the samples in the window.
func (p *PerfCollector) Stats() PerfStats {
	var fps float64
	if p.presentPeriod > 0 {
		fps = float64(time.Second) / float64(p.presentPeriod)
	}

	out := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		PresentPeriod: p.presentPeriod,
		FPS:           fps,
	}
	if p.sampleCount == 0 {
		return out
	}

	var total time.Duration
	phaseSum := make(map[string]time.Duration)
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.FrameDuration
		if i == 0 || s.FrameDuration < out.MinFrame {
			out.MinFrame = s.FrameDuration
		}
		if s.FrameDuration > out.MaxFrame {
			out.MaxFrame = s.FrameDuration
		}
		for phase, d := range s.Phases {
			phaseSum[phase] += d
		}
	}

	out.AvgFrame = total / time.Duration(p.sampleCount)
	for phase, sum := range phaseSum {
		avg := sum / time.Duration(p.sampleCount)
		out.PhaseAvg[phase] = avg
		if out.AvgFrame > 0 {
			out.PhasePct[phase] = float64(avg) / float64(out.AvgFrame) * 100
		}
	}
	if out.AvgFrame > 0 {
		out.FramesPerSecond = float64(time.Second) / float64(out.AvgFrame)
	}
	return out
}

// LogStats logs the window at info level.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_frame_us", s.AvgFrame.Microseconds(),
		"min_frame_us", s.MinFrame.Microseconds(),
		"max_frame_us", s.MaxFrame.Microseconds(),
		"frames_per_sec", int(s.FramesPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_frame_us", s.AvgFrame.Microseconds()),
		slog.Int64("min_frame_us", s.MinFrame.Microseconds()),
		slog.Int64("max_frame_us", s.MaxFrame.Microseconds()),
		slog.Float64("frames_per_sec", s.FramesPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is the flat perf.csv row.
type PerfStatsCSV struct {
	WindowEnd     int64   `csv:"window_end"`
	AvgFrameUS    int64   `csv:"avg_frame_us"`
	MinFrameUS    int64   `csv:"min_frame_us"`
	MaxFrameUS    int64   `csv:"max_frame_us"`
	FramesPerSec  float64 `csv:"frames_per_sec"`
	FPS           float64 `csv:"fps"`
	InputPct      float64 `csv:"input_pct"`
	TransitionPct float64 `csv:"transition_pct"`
	EddiesPct     float64 `csv:"eddies_pct"`
	FlowFieldPct  float64 `csv:"flow_field_pct"`
	ParticlesPct  float64 `csv:"particles_pct"`
	RenderPct     float64 `csv:"render_pct"`
}

// ToCSV flattens s into a perf.csv row ending at frame windowEnd.
func (s PerfStats) ToCSV(windowEnd int64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:     windowEnd,
		AvgFrameUS:    s.AvgFrame.Microseconds(),
		MinFrameUS:    s.MinFrame.Microseconds(),
		MaxFrameUS:    s.MaxFrame.Microseconds(),
		FramesPerSec:  s.FramesPerSecond,
		FPS:           s.FPS,
		InputPct:      s.PhasePct[PhaseInput],
		TransitionPct: s.PhasePct[PhaseTransition],
		EddiesPct:     s.PhasePct[PhaseEddies],
		FlowFieldPct:  s.PhasePct[PhaseFlowField],
		ParticlesPct:  s.PhasePct[PhaseParticles],
		RenderPct:     s.PhasePct[PhaseRender],
	}
}
