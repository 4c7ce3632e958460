package telemetry

import "math"

// FrameState is the transition snapshot taken when a window closes.
type FrameState struct {
	SimTime   float64 // Unpaused seconds at window end
	Active    string
	Target    string
	Technique string
	Progress  float64
	Eddies    int
}

// Collector accumulates per-frame events and produces WindowStats.
type Collector struct {
	windowFrames int64

	windowStart int64
	respawns    int
	switches    int
	swirls      int
}

// NewCollector creates a collector whose windows last windowSec of
// simulated time at a nominal dt seconds per frame.
func NewCollector(windowSec, dt float64) *Collector {
	frames := int64(math.Round(windowSec / dt))
	if frames < 1 {
		frames = 1
	}
	return &Collector{windowFrames: frames}
}

// RecordRespawns adds n respawns to the window.
func (c *Collector) RecordRespawns(n int) { c.respawns += n }

// RecordSwitch counts a started transition.
func (c *Collector) RecordSwitch() { c.switches++ }

// RecordSwirl adds n mouse-pushed particles to the window.
func (c *Collector) RecordSwirl(n int) { c.swirls += n }

// ShouldFlush reports whether the window ending at frame is complete.
func (c *Collector) ShouldFlush(frame int64) bool {
	return frame-c.windowStart >= c.windowFrames
}

// Flush produces the stats for the window ending at frame and resets the
// counters. speeds is sorted in place.
func (c *Collector) Flush(frame int64, state FrameState, speeds []float64) WindowStats {
	mean, std, p10, p50, p90 := Distribution(speeds)

	stats := WindowStats{
		WindowStartFrame: c.windowStart,
		WindowEndFrame:   frame,
		SimTime:          state.SimTime,

		Active:    state.Active,
		Target:    state.Target,
		Technique: state.Technique,
		Progress:  state.Progress,

		Respawns: c.respawns,
		Switches: c.switches,
		Swirls:   c.swirls,

		Particles: len(speeds),
		SpeedMean: mean,
		SpeedStd:  std,
		SpeedP10:  p10,
		SpeedP50:  p50,
		SpeedP90:  p90,

		Eddies: state.Eddies,
	}

	c.windowStart = frame
	c.respawns = 0
	c.switches = 0
	c.swirls = 0
	return stats
}

// WindowFrames returns the number of frames per window.
func (c *Collector) WindowFrames() int64 {
	return c.windowFrames
}
