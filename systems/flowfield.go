package systems

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brushflow/style"
)

// FlowField is a grid of unit direction vectors covering the canvas.
type FlowField struct {
	cols, rows    int
	cellSize      float64
	width, height float64
	vectors       []r2.Vec
}

// NewFlowField creates a grid of cellSize cells covering width x height.
func NewFlowField(width, height, cellSize float64) *FlowField {
	f := &FlowField{cellSize: cellSize}
	f.Resize(width, height)
	return f
}

// Resize reallocates the grid for new canvas dimensions. All directions are reset.
func (f *FlowField) Resize(width, height float64) {
	f.width = width
	f.height = height
	f.cols = max(1, int(math.Ceil(width/f.cellSize)))
	f.rows = max(1, int(math.Ceil(height/f.cellSize)))
	f.vectors = make([]r2.Vec, f.cols*f.rows)
	for i := range f.vectors {
		f.vectors[i] = r2.Vec{X: 1}
	}
}

// Cols returns the number of grid columns.
func (f *FlowField) Cols() int { return f.cols }

// Rows returns the number of grid rows.
func (f *FlowField) Rows() int { return f.rows }

// CellSize returns the cell edge length.
func (f *FlowField) CellSize() float64 { return f.cellSize }

// CellIndex maps a canvas position to its grid cell, clamped to the grid.
func (f *FlowField) CellIndex(x, y float64) (col, row int) {
	return clampIndex(x/f.cellSize, f.cols), clampIndex(y/f.cellSize, f.rows)
}

func clampIndex(v float64, n int) int {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v >= float64(n) {
		return n - 1
	}
	return int(v)
}

// Lookup returns the direction of the cell containing (x, y).
func (f *FlowField) Lookup(x, y float64) r2.Vec {
	col, row := f.CellIndex(x, y)
	return f.vectors[row*f.cols+col]
}

// At returns the direction stored at (col, row). Out-of-range indices are clamped.
func (f *FlowField) At(col, row int) r2.Vec {
	col = min(max(col, 0), f.cols-1)
	row = min(max(row, 0), f.rows-1)
	return f.vectors[row*f.cols+col]
}

// Set stores a direction. Out-of-range indices are rejected.
func (f *FlowField) Set(col, row int, v r2.Vec) error {
	if col < 0 || col >= f.cols || row < 0 || row >= f.rows {
		return fmt.Errorf("cell (%d,%d) outside %dx%d grid", col, row, f.cols, f.rows)
	}
	f.vectors[row*f.cols+col] = v
	return nil
}

// Flow shaping constants.
const (
	noiseStep       = 0.1  // Noise offset per grid cell
	impastoBlock    = 50.0 // Block size of the coarse impasto plateaus
	pointJitter     = math.Pi / 4
	directionalBase = math.Pi / 4
	radialBias      = 0.3
	flowingWave     = 0.5
	flowingLift     = 0.3
)

// FlowGenerator fills a FlowField using the strategy of the current technique.
type FlowGenerator struct {
	noise  *NoiseField
	eddies *EddySystem
	rng    *rand.Rand
}

// NewFlowGenerator creates a generator. eddies may be nil when no turbulent
// preset is configured.
func NewFlowGenerator(noise *NoiseField, eddies *EddySystem, rng *rand.Rand) *FlowGenerator {
	return &FlowGenerator{noise: noise, eddies: eddies, rng: rng}
}

// Recompute overwrites every cell of f for the blend state at time t.
// Techniques switch hard at the midpoint of a transition.
func (g *FlowGenerator) Recompute(f *FlowField, blend style.Blend, t float64) {
	p := blend.TechniquePreset()
	for row := 0; row < f.rows; row++ {
		for col := 0; col < f.cols; col++ {
			f.vectors[row*f.cols+col] = g.Direction(p, f, col, row, t)
		}
	}
}

// Direction computes the unit flow vector for one cell under preset p.
func (g *FlowGenerator) Direction(p *style.Preset, f *FlowField, col, row int, t float64) r2.Vec {
	cx := (float64(col) + 0.5) * f.cellSize
	cy := (float64(row) + 0.5) * f.cellSize
	xoff := float64(col) * noiseStep * p.FlowComplexity
	yoff := float64(row) * noiseStep * p.FlowComplexity
	bend := 1 + p.Curvature

	switch p.Technique {
	case style.Impasto:
		base := g.noise.Sample(xoff, yoff, t*0.5) * 2 * math.Pi * bend
		bx := math.Floor(cx / impastoBlock)
		by := math.Floor(cy / impastoBlock)
		block := (g.noise.Sample(bx*0.3, by*0.3, t*0.2) - 0.5) * math.Pi
		return unitVec(base + block)

	case style.Pointillist:
		base := g.noise.Sample(xoff*3, yoff*3, t) * 4 * math.Pi * bend
		jitter := (g.rng.Float64()*2 - 1) * pointJitter
		return unitVec(base + jitter)

	case style.Directional:
		angle := directionalBase + (g.noise.Sample(xoff, yoff, t)-0.5)*math.Pi*0.5*bend
		dir := unitVec(angle)
		toCenter := r2.Sub(r2.Vec{X: f.width / 2, Y: f.height / 2}, r2.Vec{X: cx, Y: cy})
		if n := r2.Norm(toCenter); n > 1e-9 {
			bias := radialBias * (0.5 + 0.5*math.Sin(t*2))
			dir = r2.Add(dir, r2.Scale(bias/n, toCenter))
		}
		return safeUnit(dir, unitVec(angle))

	case style.Turbulent:
		if g.eddies == nil {
			return unitVec(g.noise.Sample(xoff, yoff, t) * 2 * math.Pi)
		}
		return unitVec(g.eddies.TotalFlow(cx, cy))

	case style.Flowing:
		angle := (g.noise.Sample(xoff, yoff, t)-0.5)*math.Pi*0.5*bend +
			flowingWave*math.Sin(cx*0.01+t)
		dir := r2.Add(unitVec(angle), r2.Vec{Y: -flowingLift})
		return safeUnit(dir, unitVec(angle))

	default:
		panic(fmt.Sprintf("flow: unhandled technique %v", p.Technique))
	}
}

func unitVec(angle float64) r2.Vec {
	return r2.Vec{X: math.Cos(angle), Y: math.Sin(angle)}
}

// safeUnit normalises v, falling back when v is degenerate.
func safeUnit(v, fallback r2.Vec) r2.Vec {
	n := r2.Norm(v)
	if n < 1e-9 || math.IsNaN(n) || math.IsInf(n, 0) {
		return fallback
	}
	return r2.Scale(1/n, v)
}
