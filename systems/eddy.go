package systems

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/brushflow/style"
)

// Eddy model constants.
const (
	eddyCutoff      = 3.0   // No influence beyond this many scales from the centre
	eddyOscillation = 0.2   // Relative amplitude of the scale breathing
	eddyRefScale    = 100.0 // Scale at which phase speed is unmodified
	eddyMinSpeed    = 0.5   // rad/s
	eddyMaxSpeed    = 1.5   // rad/s

	ambientWeight    = 0.1   // Weight of the background angle in the circular mean
	ambientFrequency = 0.002 // Spatial frequency of the background noise
	ambientTimeScale = 0.05
)

// Eddy is a single vortex generator.
type Eddy struct {
	Center    r2.Vec
	BaseScale float64
	Scale     float64 // Current scale, oscillates around BaseScale
	Rotation  float64 // +1 clockwise on the y-down canvas, -1 counter-clockwise
	Phase     float64
	Speed     float64 // Angular speed of the phase, rad/s
	Energy    float64
	Tier      string
}

// Influence is an eddy's contribution at a point.
type Influence struct {
	Angle    float64
	Strength float64
}

// EddyEnergy returns scale^(-cascade). With a negative cascade exponent larger
// eddies hold more energy.
func EddyEnergy(scale, cascade float64) float64 {
	return math.Pow(scale, -cascade)
}

// Advance moves the phase forward and updates the breathing scale.
func (e *Eddy) Advance(dt, scaleFactor float64) {
	e.Phase += dt * e.Speed * scaleFactor
	e.Scale = e.BaseScale * (1 + eddyOscillation*math.Sin(e.Phase))
}

// Influence returns the flow angle and strength the eddy imposes at (x, y).
// The angle is tangential to the radius with a spiral term proportional to
// distance. ok is false beyond the cutoff radius.
func (e *Eddy) Influence(x, y, spiral float64) (inf Influence, ok bool) {
	dx := x - e.Center.X
	dy := y - e.Center.Y
	dist := math.Hypot(dx, dy)
	if dist > eddyCutoff*e.Scale {
		return Influence{}, false
	}

	rel := dist / e.Scale
	// atan2(0, 0) is 0, so the centre still gets a defined angle.
	radial := math.Atan2(dy, dx)
	angle := radial + e.Rotation*(math.Pi/2) + e.Rotation*spiral*rel

	return Influence{Angle: angle, Strength: math.Exp(-rel)}, true
}

// EddySystem is a fixed-size collection of multi-scale eddies whose
// superposed influence drives turbulent flow.
type EddySystem struct {
	params style.Turbulence
	noise  *NoiseField
	rng    *rand.Rand

	eddies        []Eddy
	width, height float64
	time          float64

	// Scratch buffers for TotalFlow
	angles  []float64
	weights []float64
}

// NewEddySystem creates an empty eddy system. Call Initialize before use.
func NewEddySystem(params style.Turbulence, noise *NoiseField, rng *rand.Rand) *EddySystem {
	n := params.EddyCount()
	return &EddySystem{
		params:  params,
		noise:   noise,
		rng:     rng,
		eddies:  make([]Eddy, 0, n),
		angles:  make([]float64, 0, n+1),
		weights: make([]float64, 0, n+1),
	}
}

// Initialize discards all eddies and creates a fresh batch per tier for a
// canvas of the given size.
func (s *EddySystem) Initialize(width, height float64) {
	s.width = width
	s.height = height
	s.eddies = s.eddies[:0]

	for _, tier := range s.params.Tiers {
		for i := 0; i < tier.Count; i++ {
			x := s.rng.Float64() * width
			y := s.rng.Float64() * height
			if tier.UpperHalf {
				y = s.rng.Float64() * height / 2
			}

			rotation := 1.0
			if s.rng.Intn(2) == 0 {
				rotation = -1
			}

			base := tier.Scale.Sample(s.rng)
			s.eddies = append(s.eddies, Eddy{
				Center:    r2.Vec{X: x, Y: y},
				BaseScale: base,
				Scale:     base,
				Rotation:  rotation,
				Phase:     s.rng.Float64() * 2 * math.Pi,
				Speed:     eddyMinSpeed + s.rng.Float64()*(eddyMaxSpeed-eddyMinSpeed),
				Energy:    EddyEnergy(base, s.params.CascadeExponent),
				Tier:      tier.Name,
			})
		}
	}
}

// Reset re-creates the eddies for the last initialized canvas size.
func (s *EddySystem) Reset() {
	s.Initialize(s.width, s.height)
}

// Advance steps every eddy by dt seconds. Smaller eddies turn faster.
func (s *EddySystem) Advance(dt float64) {
	s.time += dt
	for i := range s.eddies {
		e := &s.eddies[i]
		e.Advance(dt, s.scaleFactor(e.BaseScale))
	}
}

func (s *EddySystem) scaleFactor(base float64) float64 {
	return math.Pow(eddyRefScale/base, s.params.MixingExponent)
}

// SampleInfluence returns eddy i's influence at (x, y).
func (s *EddySystem) SampleInfluence(i int, x, y float64) (Influence, bool) {
	return s.eddies[i].Influence(x, y, s.params.EnergyDecay)
}

// TotalFlow returns the flow angle at (x, y): the strength-weighted circular
// mean of all eddy influences together with a low-weight background angle.
func (s *EddySystem) TotalFlow(x, y float64) float64 {
	s.angles = s.angles[:0]
	s.weights = s.weights[:0]

	for i := range s.eddies {
		inf, ok := s.SampleInfluence(i, x, y)
		if !ok {
			continue
		}
		s.angles = append(s.angles, inf.Angle)
		s.weights = append(s.weights, inf.Strength)
	}

	s.angles = append(s.angles, s.ambientAngle(x, y))
	s.weights = append(s.weights, ambientWeight)

	return stat.CircularMean(s.angles, s.weights)
}

func (s *EddySystem) ambientAngle(x, y float64) float64 {
	if s.noise == nil {
		return 0
	}
	return s.noise.Sample(x*ambientFrequency, y*ambientFrequency, s.time*ambientTimeScale) * 2 * math.Pi
}

// Eddies returns the current eddies. The slice is owned by the system.
func (s *EddySystem) Eddies() []Eddy {
	return s.eddies
}

// Len returns the number of eddies.
func (s *EddySystem) Len() int {
	return len(s.eddies)
}
