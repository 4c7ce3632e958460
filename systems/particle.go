package systems

import (
	"image/color"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brushflow/style"
)

// SteerScale scales the sampled flow vector before it is added as force.
const SteerScale = 0.5

// Particle is a single advected brush point.
type Particle struct {
	Pos   r2.Vec
	Vel   r2.Vec
	Force r2.Vec

	// Trail holds recent positions, oldest first, up to Length entries.
	Trail []r2.Vec

	Color  color.RGBA
	Width  float64
	Length float64

	Life    int
	MaxLife int

	// Seed is fixed per spawn and drives deterministic render variations.
	Seed float64
}

// Spawner supplies everything a respawn needs.
type Spawner struct {
	Rng           *rand.Rand
	Width, Height float64
	LifeMin       int
	LifeMax       int
	Blend         style.Blend
}

// Respawn resets the particle at a uniformly random position with fresh
// life, colour and stroke size drawn from the current blend.
func (p *Particle) Respawn(s *Spawner) {
	p.Pos = r2.Vec{X: s.Rng.Float64() * s.Width, Y: s.Rng.Float64() * s.Height}
	p.Vel = r2.Vec{}
	p.Force = r2.Vec{}
	p.Trail = p.Trail[:0]

	p.MaxLife = s.LifeMin
	if s.LifeMax > s.LifeMin {
		p.MaxLife += s.Rng.Intn(s.LifeMax - s.LifeMin + 1)
	}
	p.Life = p.MaxLife

	p.Color = s.Blend.SampleColor(s.Rng)
	p.Width = s.Blend.StrokeWidth().Sample(s.Rng)
	p.Length = s.Blend.StrokeLength().Sample(s.Rng)
	p.Seed = s.Rng.Float64()
}

// ApplyForce accumulates a force for the next integration.
func (p *Particle) ApplyForce(f r2.Vec) {
	p.Force = r2.Add(p.Force, f)
}

// Steer samples the flow at the particle's cell and accumulates it as force.
func (p *Particle) Steer(f *FlowField, speedMultiplier float64) {
	p.ApplyForce(r2.Scale(speedMultiplier*SteerScale, f.Lookup(p.Pos.X, p.Pos.Y)))
}

// Integrate applies the accumulated force, moves, records the trail and
// ages the particle by one frame. It respawns and returns true when life
// runs out.
func (p *Particle) Integrate(maxSpeed float64, s *Spawner) bool {
	p.Vel = r2.Add(p.Vel, p.Force)
	if speed := r2.Norm(p.Vel); speed > maxSpeed {
		p.Vel = r2.Scale(maxSpeed/speed, p.Vel)
	} else if math.IsNaN(speed) {
		p.Vel = r2.Vec{}
	}
	p.Pos = r2.Add(p.Pos, p.Vel)
	p.Force = r2.Vec{}

	p.pushTrail(p.Pos)

	p.Life--
	if p.Life <= 0 {
		p.Respawn(s)
		return true
	}
	return false
}

// TrailCap is the number of trail points kept for the current stroke length.
func (p *Particle) TrailCap() int {
	return max(1, int(math.Round(p.Length)))
}

func (p *Particle) pushTrail(v r2.Vec) {
	p.Trail = append(p.Trail, v)
	if over := len(p.Trail) - p.TrailCap(); over > 0 {
		n := copy(p.Trail, p.Trail[over:])
		p.Trail = p.Trail[:n]
	}
}

// OutOfBounds reports whether the particle is more than margin outside the canvas.
func (p *Particle) OutOfBounds(width, height, margin float64) bool {
	return p.Pos.X < -margin || p.Pos.X > width+margin ||
		p.Pos.Y < -margin || p.Pos.Y > height+margin ||
		math.IsNaN(p.Pos.X) || math.IsNaN(p.Pos.Y)
}

// CheckEdges respawns the particle if it has left the canvas by more than margin.
func (p *Particle) CheckEdges(s *Spawner, margin float64) bool {
	if !p.OutOfBounds(s.Width, s.Height, margin) {
		return false
	}
	p.Respawn(s)
	return true
}

// Alpha returns the life-based opacity in [0,1]: a fade in over the first
// fifth of life and a fade out over the last fifth.
func (p *Particle) Alpha() float64 {
	if p.MaxLife <= 0 {
		return 0
	}
	remaining := float64(p.Life) / float64(p.MaxLife)
	age := 1 - remaining
	fadeIn := math.Min(age*5, 1)
	fadeOut := math.Min(remaining*5, 1)
	a := fadeIn * fadeOut
	if a < 0 {
		return 0
	}
	return a
}

// Speed returns the velocity magnitude.
func (p *Particle) Speed() float64 {
	return r2.Norm(p.Vel)
}
