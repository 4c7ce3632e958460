package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated painting statistics for a window of frames.
type WindowStats struct {
	WindowStartFrame int64   `csv:"-"`
	WindowEndFrame   int64   `csv:"window_end"`
	SimTime          float64 `csv:"sim_time"`

	// Transition state at window end
	Active    string  `csv:"active"`
	Target    string  `csv:"target"`
	Technique string  `csv:"technique"`
	Progress  float64 `csv:"progress"`

	// Events during window
	Respawns int `csv:"respawns"`
	Switches int `csv:"switches"`
	Swirls   int `csv:"swirls"` // Particles pushed by the mouse

	// Particle speed distribution at window end
	Particles int     `csv:"particles"`
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	Eddies int `csv:"eddies"`
}

// Percentile returns the p-th percentile of a sorted slice with linear
// interpolation. p is in [0, 1]. Returns 0 for an empty slice.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Distribution summarises values. values is sorted in place.
func Distribution(values []float64) (mean, std, p10, p50, p90 float64) {
	switch len(values) {
	case 0:
		return 0, 0, 0, 0, 0
	case 1:
		v := values[0]
		return v, 0, v, v, v
	}

	mean, std = stat.MeanStdDev(values, nil)
	sort.Float64s(values)
	return mean, std, Percentile(values, 0.10), Percentile(values, 0.50), Percentile(values, 0.90)
}

// LogValue implements slog.LogValuer.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartFrame),
		slog.Int64("window_end", s.WindowEndFrame),
		slog.Float64("sim_time", s.SimTime),
		slog.String("active", s.Active),
		slog.String("target", s.Target),
		slog.String("technique", s.Technique),
		slog.Float64("progress", s.Progress),
		slog.Int("respawns", s.Respawns),
		slog.Int("switches", s.Switches),
		slog.Int("swirls", s.Swirls),
		slog.Int("particles", s.Particles),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Int("eddies", s.Eddies),
	)
}

// LogStats logs the window at info level.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndFrame,
		"sim_time", s.SimTime,
		"active", s.Active,
		"target", s.Target,
		"technique", s.Technique,
		"progress", s.Progress,
		"respawns", s.Respawns,
		"switches", s.Switches,
		"swirls", s.Swirls,
		"speed_mean", s.SpeedMean,
		"speed_p10", s.SpeedP10,
		"speed_p90", s.SpeedP90,
		"eddies", s.Eddies,
	)
}
