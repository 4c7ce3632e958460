package renderer

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brushflow/style"
	"github.com/pthm-cable/brushflow/systems"
)

const (
	strokeOpacity = 0.8 // Peak stroke opacity at full particle alpha

	impastoHighlight = 0.25 // HSV value lift of the ridge highlight
	impastoRidge     = 0.3  // Ridge width relative to stroke width

	dotComplementChance = 0.3 // Seeds below this add a complementary dot
	dotComplementScale  = 0.45

	turbulentHighlightChance = 0.9 // Seeds above this add a highlight blob
	turbulentHighlight       = 0.3

	directionalTaper = 0.5 // Width at the trail tail relative to the head
	curveSamples     = 4
)

// Painter turns particles into surface primitives. It keeps scratch buffers
// between calls and is not safe for concurrent use.
type Painter struct {
	smooth []r2.Vec
	quad   [4]r2.Vec
	seg    [2]r2.Vec
}

// NewPainter creates a painter.
func NewPainter() *Painter {
	return &Painter{smooth: make([]r2.Vec, 0, 256)}
}

// Frame washes the surface with the blended background, then draws every
// particle with the frame's technique.
func (pt *Painter) Frame(s Surface, ps *systems.ParticleSystem, blend style.Blend, backgroundAlpha uint8) {
	bg := blend.Background()
	bg.A = backgroundAlpha
	s.Wash(bg)

	tech := blend.Technique()
	ps.Each(func(p *systems.Particle) {
		pt.Draw(s, p, tech)
	})
}

// Draw renders one particle with technique tech. Opacity follows the
// particle's life fade. Panics on a technique with no stroke style.
func (pt *Painter) Draw(s Surface, p *systems.Particle, tech style.Technique) {
	alpha := p.Alpha() * strokeOpacity
	if alpha <= 0 {
		return
	}

	switch tech {
	case style.Impasto:
		pt.impasto(s, p, alpha)
	case style.Pointillist:
		pt.pointillist(s, p, alpha)
	case style.Directional:
		pt.directional(s, p, alpha)
	case style.Turbulent:
		pt.turbulent(s, p, alpha)
	case style.Flowing:
		pt.flowing(s, p, alpha)
	default:
		panic(fmt.Sprintf("renderer: unhandled technique %v", tech))
	}
}

// heading is the stroke direction: velocity when moving, else a fixed
// per-particle angle.
func heading(p *systems.Particle) r2.Vec {
	if n := r2.Norm(p.Vel); n > 1e-9 {
		return r2.Scale(1/n, p.Vel)
	}
	a := p.Seed * 2 * math.Pi
	return r2.Vec{X: math.Cos(a), Y: math.Sin(a)}
}

// impasto: a short thick rotated slab with a lighter ridge along one edge.
func (pt *Painter) impasto(s Surface, p *systems.Particle, alpha float64) {
	dir := heading(p)
	normal := r2.Vec{X: -dir.Y, Y: dir.X}
	half := r2.Scale(p.Length/2, dir)
	side := r2.Scale(p.Width/2, normal)

	pt.quad[0] = r2.Sub(r2.Sub(p.Pos, half), side)
	pt.quad[1] = r2.Add(r2.Sub(p.Pos, half), side)
	pt.quad[2] = r2.Add(r2.Add(p.Pos, half), side)
	pt.quad[3] = r2.Sub(r2.Add(p.Pos, half), side)
	s.FillPolygon(pt.quad[:], withAlpha(p.Color, alpha))

	ridge := r2.Scale(p.Width/4, normal)
	pt.seg[0] = r2.Add(r2.Sub(p.Pos, r2.Scale(0.8, half)), ridge)
	pt.seg[1] = r2.Add(r2.Add(p.Pos, r2.Scale(0.8, half)), ridge)
	s.Polyline(pt.seg[:], p.Width*impastoRidge, CapRound,
		withAlpha(style.Brighten(p.Color, impastoHighlight), alpha*0.7))
}

// pointillist: a round dot, sometimes paired with a smaller complementary dot.
func (pt *Painter) pointillist(s Surface, p *systems.Particle, alpha float64) {
	r := p.Width / 2
	s.Circle(p.Pos, r, withAlpha(p.Color, alpha))

	if p.Seed < dotComplementChance {
		a := p.Seed / dotComplementChance * 2 * math.Pi
		off := r2.Vec{X: math.Cos(a) * p.Width, Y: math.Sin(a) * p.Width}
		s.Circle(r2.Add(p.Pos, off), r*dotComplementScale*2,
			withAlpha(style.Complement(p.Color), alpha))
	}
}

// directional: straight hatching along the trail, widening toward the head.
func (pt *Painter) directional(s Surface, p *systems.Particle, alpha float64) {
	c := withAlpha(p.Color, alpha)
	n := len(p.Trail)
	if n < 2 {
		pt.seg[0] = r2.Sub(p.Pos, r2.Scale(p.Length/2, heading(p)))
		pt.seg[1] = p.Pos
		s.Polyline(pt.seg[:], p.Width, CapSquare, c)
		return
	}
	for i := 1; i < n; i++ {
		frac := float64(i) / float64(n-1)
		w := p.Width * (directionalTaper + (1-directionalTaper)*frac)
		pt.seg[0] = p.Trail[i-1]
		pt.seg[1] = p.Trail[i]
		s.Polyline(pt.seg[:], w, CapSquare, c)
	}
}

// turbulent: a smoothed swirl along the trail with an occasional bright blob.
func (pt *Painter) turbulent(s Surface, p *systems.Particle, alpha float64) {
	if len(p.Trail) < 2 {
		s.Circle(p.Pos, p.Width/2, withAlpha(p.Color, alpha))
		return
	}
	pt.smooth = CatmullRom(pt.smooth[:0], p.Trail, curveSamples)
	s.Polyline(pt.smooth, p.Width, CapRound, withAlpha(p.Color, alpha))

	if p.Seed > turbulentHighlightChance {
		s.Circle(p.Pos, p.Width*0.8,
			withAlpha(style.Brighten(p.Color, turbulentHighlight), alpha*0.6))
	}
}

// flowing: a long smooth curve with rounded ends.
func (pt *Painter) flowing(s Surface, p *systems.Particle, alpha float64) {
	if len(p.Trail) < 2 {
		s.Circle(p.Pos, p.Width/2, withAlpha(p.Color, alpha))
		return
	}
	pt.smooth = CatmullRom(pt.smooth[:0], p.Trail, curveSamples)
	s.Polyline(pt.smooth, p.Width, CapRound, withAlpha(p.Color, alpha*0.9))
}
