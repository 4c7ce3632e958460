// Package telemetry provides frame timing, windowed painting statistics and
// CSV/YAML run output.
package telemetry

import "log/slog"

// TransitionRecord is one row of transitions.csv.
type TransitionRecord struct {
	Frame   int64   `csv:"frame"`
	SimTime float64 `csv:"sim_time"`
	From    string  `csv:"from"`
	To      string  `csv:"to"`
	Reason  string  `csv:"reason"`
}

// NewTransitionRecord creates a record for a switch observed at frame.
func NewTransitionRecord(frame int64, simTime float64, from, to, reason string) TransitionRecord {
	return TransitionRecord{
		Frame:   frame,
		SimTime: simTime,
		From:    from,
		To:      to,
		Reason:  reason,
	}
}

// LogValue implements slog.LogValuer.
func (r TransitionRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("frame", r.Frame),
		slog.Float64("sim_time", r.SimTime),
		slog.String("from", r.From),
		slog.String("to", r.To),
		slog.String("reason", r.Reason),
	)
}
