package game

import "github.com/pthm-cable/brushflow/style"

// EventKind identifies a queued host request.
type EventKind uint8

const (
	EventSwitchPeriod EventKind = iota
	EventTogglePause
	EventToggleAuto
	EventReset
	EventResize
	EventMouse
)

func (k EventKind) String() string {
	switch k {
	case EventSwitchPeriod:
		return "switch_period"
	case EventTogglePause:
		return "toggle_pause"
	case EventToggleAuto:
		return "toggle_auto"
	case EventReset:
		return "reset"
	case EventResize:
		return "resize"
	case EventMouse:
		return "mouse"
	}
	return "unknown"
}

// Event is a host request applied at the start of the next frame.
type Event struct {
	Kind   EventKind
	Period style.PeriodID // EventSwitchPeriod
	X, Y   float64        // EventMouse position, EventResize width/height
}

// SwitchPeriod requests a transition to id.
func SwitchPeriod(id style.PeriodID) Event {
	return Event{Kind: EventSwitchPeriod, Period: id}
}

// TogglePause flips the paused flag.
func TogglePause() Event { return Event{Kind: EventTogglePause} }

// ToggleAuto flips automatic period cycling.
func ToggleAuto() Event { return Event{Kind: EventToggleAuto} }

// Reset respawns every particle and clears the canvas.
func Reset() Event { return Event{Kind: EventReset} }

// Resize reinitializes the grid and eddies for a new canvas size.
func Resize(width, height float64) Event {
	return Event{Kind: EventResize, X: width, Y: height}
}

// Mouse reports the cursor position.
func Mouse(x, y float64) Event {
	return Event{Kind: EventMouse, X: x, Y: y}
}
