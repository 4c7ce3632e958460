package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brushflow/style"
)

// ParticleSystem owns a constant-size particle population stored in an ECS world.
type ParticleSystem struct {
	world  *ecs.World
	mapper *ecs.Map1[Particle]
	filter *ecs.Filter1[Particle]

	count    int
	spawner  Spawner
	maxSpeed float64
	margin   float64

	respawns int // Respawns during the last Update
}

// NewParticleSystem spawns count particles using the spawner's blend.
func NewParticleSystem(count int, spawner Spawner, maxSpeed, margin float64) *ParticleSystem {
	world := ecs.NewWorld()
	s := &ParticleSystem{
		world:    world,
		mapper:   ecs.NewMap1[Particle](world),
		filter:   ecs.NewFilter1[Particle](world),
		count:    count,
		spawner:  spawner,
		maxSpeed: maxSpeed,
		margin:   margin,
	}

	trailCap := int(math.Ceil(spawner.Blend.StrokeLength().Max)) + 1
	for i := 0; i < count; i++ {
		p := Particle{Trail: make([]r2.Vec, 0, trailCap)}
		p.Respawn(&s.spawner)
		s.mapper.NewEntity(&p)
	}
	return s
}

// SetBlend updates the blend used for respawns.
func (s *ParticleSystem) SetBlend(b style.Blend) {
	s.spawner.Blend = b
}

// Resize changes the canvas bounds used for spawning and edge checks.
func (s *ParticleSystem) Resize(width, height float64) {
	s.spawner.Width = width
	s.spawner.Height = height
}

// Len returns the population size.
func (s *ParticleSystem) Len() int {
	return s.count
}

// Respawns returns how many particles respawned in the last Update.
func (s *ParticleSystem) Respawns() int {
	return s.respawns
}

// Update steers, integrates and edge-checks every particle.
func (s *ParticleSystem) Update(f *FlowField, speed float64) {
	s.respawns = 0
	query := s.filter.Query()
	for query.Next() {
		p := query.Get()
		p.Steer(f, speed)
		if p.Integrate(s.maxSpeed, &s.spawner) {
			s.respawns++
			continue
		}
		if p.CheckEdges(&s.spawner, s.margin) {
			s.respawns++
		}
	}
}

// RespawnAll resets every particle.
func (s *ParticleSystem) RespawnAll() {
	query := s.filter.Query()
	for query.Next() {
		query.Get().Respawn(&s.spawner)
	}
}

// Each calls fn for every particle.
func (s *ParticleSystem) Each(fn func(p *Particle)) {
	query := s.filter.Query()
	for query.Next() {
		fn(query.Get())
	}
}

// ApplySwirl adds a tangential impulse to particles within radius of (x, y),
// clockwise on the y-down canvas. Strength falls off linearly to zero at the
// radius. Returns the number of particles affected.
func (s *ParticleSystem) ApplySwirl(x, y, radius, strength float64) int {
	if radius <= 0 {
		return 0
	}
	affected := 0
	query := s.filter.Query()
	for query.Next() {
		p := query.Get()
		d := r2.Sub(p.Pos, r2.Vec{X: x, Y: y})
		dist := r2.Norm(d)
		if dist >= radius || dist < 1e-9 {
			continue
		}
		tangent := r2.Vec{X: -d.Y / dist, Y: d.X / dist}
		p.ApplyForce(r2.Scale(strength*(1-dist/radius), tangent))
		affected++
	}
	return affected
}
