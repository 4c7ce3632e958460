package systems

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/brushflow/style"
)

// ErrUnknownPeriod is returned when a switch names a preset that does not exist.
var ErrUnknownPeriod = errors.New("unknown period")

// SwitchReason records why a preset switch happened.
type SwitchReason string

const (
	SwitchManual SwitchReason = "manual"
	SwitchAuto   SwitchReason = "auto"
)

// SwitchEvent describes a started transition.
type SwitchEvent struct {
	From   style.PeriodID // Active preset when the switch began
	To     style.PeriodID
	Reason SwitchReason
}

// Transition tracks the active/target preset pair, the blend progress and
// the auto-cycle timer.
type Transition struct {
	presets []*style.Preset
	index   map[style.PeriodID]int

	active   int
	target   int
	progress float64
	timerMS  float64

	step      float64
	cycleMS   float64
	autoCycle bool

	eddies   *EddySystem
	onSwitch func(SwitchEvent)
}

// NewTransition creates a controller settled on initial. presets gives the
// cyclic order. eddies, if non-nil, is re-initialized whenever a switch
// enters a turbulent preset.
func NewTransition(presets []*style.Preset, initial style.PeriodID, step, cycleMS float64, eddies *EddySystem) (*Transition, error) {
	if len(presets) == 0 {
		return nil, errors.New("transition: no presets")
	}
	if step <= 0 {
		return nil, fmt.Errorf("transition: step must be positive, got %g", step)
	}

	t := &Transition{
		presets:   presets,
		index:     make(map[style.PeriodID]int, len(presets)),
		progress:  1,
		step:      step,
		cycleMS:   cycleMS,
		autoCycle: cycleMS > 0,
		eddies:    eddies,
	}
	for i, p := range presets {
		t.index[p.ID] = i
	}

	i, ok := t.index[initial]
	if !ok {
		return nil, fmt.Errorf("transition: initial %q: %w", initial, ErrUnknownPeriod)
	}
	t.active = i
	t.target = i
	return t, nil
}

// OnSwitch registers a callback invoked whenever a new transition begins.
func (t *Transition) OnSwitch(fn func(SwitchEvent)) {
	t.onSwitch = fn
}

// RequestSwitch starts a transition toward id. It is a no-op when id is
// already the target. A switch during a running transition restarts the
// blend from the current active preset.
func (t *Transition) RequestSwitch(id style.PeriodID) error {
	i, ok := t.index[id]
	if !ok {
		return fmt.Errorf("switch to %q: %w", id, ErrUnknownPeriod)
	}
	t.switchTo(i, SwitchManual)
	return nil
}

func (t *Transition) switchTo(i int, reason SwitchReason) {
	if i == t.target {
		return
	}
	t.target = i
	t.progress = 0

	if t.presets[i].Technique == style.Turbulent && t.eddies != nil {
		t.eddies.Reset()
	}
	if t.onSwitch != nil {
		t.onSwitch(SwitchEvent{From: t.presets[t.active].ID, To: t.presets[i].ID, Reason: reason})
	}
}

// Tick advances the auto-cycle timer by dtMS and the blend by one step.
func (t *Transition) Tick(dtMS float64) {
	if t.autoCycle && t.cycleMS > 0 {
		t.timerMS += dtMS
		if t.timerMS >= t.cycleMS {
			t.switchTo((t.target+1)%len(t.presets), SwitchAuto)
			t.timerMS = 0
		}
	}

	if t.progress < 1 {
		t.progress += t.step
		if t.progress >= 1 {
			t.progress = 1
			t.active = t.target
		}
	}
}

// Settle ends any running transition on the current target and clears the timer.
func (t *Transition) Settle() {
	t.active = t.target
	t.progress = 1
	t.timerMS = 0
}

// Blend returns the current blend state.
func (t *Transition) Blend() style.Blend {
	return style.Blend{
		Active:   t.presets[t.active],
		Target:   t.presets[t.target],
		Progress: t.progress,
	}
}

// Speed returns the blended base speed.
func (t *Transition) Speed() float64 {
	return t.Blend().Speed()
}

// Technique returns the stroke technique for the current frame.
func (t *Transition) Technique() style.Technique {
	return t.Blend().Technique()
}

// Progress returns the blend progress in [0,1].
func (t *Transition) Progress() float64 { return t.progress }

// Active returns the active preset.
func (t *Transition) Active() *style.Preset { return t.presets[t.active] }

// Target returns the target preset.
func (t *Transition) Target() *style.Preset { return t.presets[t.target] }

// Presets returns the presets in cyclic order.
func (t *Transition) Presets() []*style.Preset { return t.presets }

// TimerMS returns the time since the last auto switch. Manual switches
// do not restart it.
func (t *Transition) TimerMS() float64 { return t.timerMS }

// AutoCycle reports whether automatic cycling is enabled.
func (t *Transition) AutoCycle() bool { return t.autoCycle }

// SetAutoCycle enables or disables automatic cycling.
func (t *Transition) SetAutoCycle(on bool) {
	t.autoCycle = on
	t.timerMS = 0
}
