// Package style defines the stylistic periods: stroke techniques, presets and
// the blend state used while moving from one preset to another.
package style

import (
	"errors"
	"fmt"
	"image/color"
	"math/rand"
)

// Technique is the closed set of stroke/flow strategies.
type Technique uint8

const (
	Impasto Technique = iota
	Pointillist
	Directional
	Turbulent
	Flowing

	numTechniques
)

var techniqueNames = [numTechniques]string{
	Impasto:     "impasto",
	Pointillist: "pointillist",
	Directional: "directional",
	Turbulent:   "turbulent",
	Flowing:     "flowing",
}

func (t Technique) String() string {
	if t < numTechniques {
		return techniqueNames[t]
	}
	return fmt.Sprintf("technique(%d)", uint8(t))
}

// Valid reports whether t is one of the known techniques.
func (t Technique) Valid() bool {
	return t < numTechniques
}

// ParseTechnique maps a technique name to its value.
func ParseTechnique(s string) (Technique, error) {
	for i, name := range techniqueNames {
		if name == s {
			return Technique(i), nil
		}
	}
	return 0, fmt.Errorf("unknown technique %q", s)
}

// PeriodID identifies a preset, e.g. "nuenen" or "starryNight".
type PeriodID string

// Validation errors.
var (
	ErrEmptyPalette  = errors.New("palette is empty")
	ErrInvertedRange = errors.New("range min exceeds max")
	ErrNonPositive   = errors.New("value must be positive")
	ErrTurbulence    = errors.New("invalid turbulence parameters")
)

// Range is a closed [Min, Max] interval.
type Range struct {
	Min, Max float64
}

// Lerp interpolates both ends of the range toward o by t.
func (r Range) Lerp(o Range, t float64) Range {
	return Range{
		Min: r.Min + (o.Min-r.Min)*t,
		Max: r.Max + (o.Max-r.Max)*t,
	}
}

// Sample draws a uniform value from the range.
func (r Range) Sample(rng *rand.Rand) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Contains reports whether v lies inside the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

func (r Range) validate(name string) error {
	if r.Min <= 0 || r.Max <= 0 {
		return fmt.Errorf("%s [%g,%g]: %w", name, r.Min, r.Max, ErrNonPositive)
	}
	if r.Min > r.Max {
		return fmt.Errorf("%s [%g,%g]: %w", name, r.Min, r.Max, ErrInvertedRange)
	}
	return nil
}

// Tier describes one batch of eddies sharing a scale band.
type Tier struct {
	Name  string
	Count int
	Scale Range
	// UpperHalf confines eddy centres to the top half of the canvas.
	UpperHalf bool
}

// Turbulence holds the eddy-model parameters of the turbulent technique.
type Turbulence struct {
	// CascadeExponent relates eddy scale to energy: energy = scale^(-CascadeExponent).
	CascadeExponent float64
	// MixingExponent controls how much faster small eddies spin.
	MixingExponent float64
	// EnergyDecay sets the strength of the inward spiral term.
	EnergyDecay float64
	Tiers       []Tier
}

// EddyCount returns the total number of eddies over all tiers.
func (t *Turbulence) EddyCount() int {
	n := 0
	for _, tier := range t.Tiers {
		n += tier.Count
	}
	return n
}

// Validate checks the turbulence parameters.
func (t *Turbulence) Validate() error {
	if t.CascadeExponent >= 0 {
		return fmt.Errorf("cascade exponent %g must be negative: %w", t.CascadeExponent, ErrTurbulence)
	}
	if t.EnergyDecay < 0 {
		return fmt.Errorf("energy decay %g: %w", t.EnergyDecay, ErrTurbulence)
	}
	if len(t.Tiers) == 0 {
		return fmt.Errorf("no eddy tiers: %w", ErrTurbulence)
	}
	for _, tier := range t.Tiers {
		if tier.Count < 0 {
			return fmt.Errorf("tier %q count %d: %w", tier.Name, tier.Count, ErrTurbulence)
		}
		if err := tier.Scale.validate("tier " + tier.Name + " scale"); err != nil {
			return err
		}
	}
	if t.EddyCount() <= 0 {
		return fmt.Errorf("eddy count must be positive: %w", ErrTurbulence)
	}
	return nil
}

// Preset is the immutable descriptor of one stylistic period.
type Preset struct {
	ID          PeriodID
	Name        string
	Description string

	Palette    []color.RGBA
	Background color.RGBA
	Technique  Technique

	StrokeLength Range
	StrokeWidth  Range

	Curvature      float64
	FlowComplexity float64
	Speed          float64

	// Turbulence is set only for the turbulent technique.
	Turbulence *Turbulence
}

// Validate reports the first configuration problem with the preset.
func (p *Preset) Validate() error {
	if p.ID == "" {
		return errors.New("preset has no id")
	}
	if len(p.Palette) == 0 {
		return fmt.Errorf("preset %s: %w", p.ID, ErrEmptyPalette)
	}
	if !p.Technique.Valid() {
		return fmt.Errorf("preset %s: unknown technique %d", p.ID, p.Technique)
	}
	if err := p.StrokeLength.validate("stroke length"); err != nil {
		return fmt.Errorf("preset %s: %w", p.ID, err)
	}
	if err := p.StrokeWidth.validate("stroke width"); err != nil {
		return fmt.Errorf("preset %s: %w", p.ID, err)
	}
	if p.Curvature < 0 || p.FlowComplexity < 0 {
		return fmt.Errorf("preset %s: curvature and flow complexity must be >= 0: %w", p.ID, ErrNonPositive)
	}
	if p.Speed <= 0 {
		return fmt.Errorf("preset %s: speed %g: %w", p.ID, p.Speed, ErrNonPositive)
	}
	if p.Technique == Turbulent {
		if p.Turbulence == nil {
			return fmt.Errorf("preset %s: turbulent technique without turbulence block: %w", p.ID, ErrTurbulence)
		}
		if err := p.Turbulence.Validate(); err != nil {
			return fmt.Errorf("preset %s: %w", p.ID, err)
		}
	}
	return nil
}
