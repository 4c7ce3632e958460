package systems

import (
	"image/color"
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brushflow/style"
)

func presetFor(tech style.Technique) *style.Preset {
	p := &style.Preset{
		ID:             style.PeriodID(tech.String()),
		Palette:        []color.RGBA{{R: 255, A: 255}},
		Technique:      tech,
		StrokeLength:   style.Range{Min: 4, Max: 8},
		StrokeWidth:    style.Range{Min: 1, Max: 2},
		Curvature:      0.3,
		FlowComplexity: 1,
		Speed:          1,
	}
	if tech == style.Turbulent {
		t := starryTurbulence()
		p.Turbulence = &t
	}
	return p
}

func TestFlowFieldCellIndexClamped(t *testing.T) {
	f := NewFlowField(1280, 720, 20)
	if f.Cols() != 64 || f.Rows() != 36 {
		t.Fatalf("grid = %dx%d, want 64x36", f.Cols(), f.Rows())
	}

	tests := []struct {
		x, y     float64
		col, row int
	}{
		{0, 0, 0, 0},
		{19.9, 39.9, 0, 1},
		{1280 + 1000, 100, 63, 5},
		{-500, 720 * 3, 0, 35},
		{math.NaN(), math.Inf(1), 0, 35},
		{math.Inf(-1), 10, 0, 0},
	}
	for _, tc := range tests {
		col, row := f.CellIndex(tc.x, tc.y)
		if col != tc.col || row != tc.row {
			t.Errorf("CellIndex(%f,%f) = (%d,%d), want (%d,%d)", tc.x, tc.y, col, row, tc.col, tc.row)
		}
	}

	// Lookup far outside must not panic
	_ = f.Lookup(1e9, -1e9)
}

func TestFlowFieldSetRejectsOutOfRange(t *testing.T) {
	f := NewFlowField(100, 100, 10)
	if err := f.Set(10, 0, r2.Vec{X: 1}); err == nil {
		t.Error("expected error for column out of range")
	}
	if err := f.Set(-1, 0, r2.Vec{X: 1}); err == nil {
		t.Error("expected error for negative column")
	}
	if err := f.Set(9, 9, r2.Vec{Y: 1}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if got := f.At(9, 9); got != (r2.Vec{Y: 1}) {
		t.Errorf("At(9,9) = %v", got)
	}
}

func TestFlowFieldResize(t *testing.T) {
	f := NewFlowField(100, 100, 10)
	f.Resize(205, 50)
	if f.Cols() != 21 || f.Rows() != 5 {
		t.Errorf("after resize grid = %dx%d, want 21x5", f.Cols(), f.Rows())
	}
}

func TestRecomputeProducesUnitVectors(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	noise, _ := NewNoiseField("perlin", 1, 4, 0.5)
	eddies := NewEddySystem(starryTurbulence(), noise, rng)
	eddies.Initialize(640, 360)
	gen := NewFlowGenerator(noise, eddies, rng)
	f := NewFlowField(640, 360, 20)

	techniques := []style.Technique{style.Impasto, style.Pointillist, style.Directional, style.Turbulent, style.Flowing}
	for _, tech := range techniques {
		p := presetFor(tech)
		gen.Recompute(f, style.Settled(p), 1.7)
		for row := 0; row < f.Rows(); row++ {
			for col := 0; col < f.Cols(); col++ {
				v := f.At(col, row)
				n := r2.Norm(v)
				if math.IsNaN(n) || math.Abs(n-1) > 1e-9 {
					t.Fatalf("%v: cell (%d,%d) norm %f", tech, col, row, n)
				}
			}
		}
	}
}

func TestRecomputeUsesTechniqueOfBlend(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	noise, _ := NewNoiseField("perlin", 2, 4, 0.5)
	eddies := NewEddySystem(starryTurbulence(), noise, rng)
	eddies.Initialize(400, 400)
	gen := NewFlowGenerator(noise, eddies, rng)

	active := presetFor(style.Flowing)
	target := presetFor(style.Turbulent)

	// Early in the transition the target technique drives the field.
	early := NewFlowField(400, 400, 20)
	gen.Recompute(early, style.Blend{Active: active, Target: target, Progress: 0.2}, 0)
	turb := NewFlowField(400, 400, 20)
	gen.Recompute(turb, style.Settled(target), 0)

	for row := 0; row < early.Rows(); row++ {
		for col := 0; col < early.Cols(); col++ {
			if early.At(col, row) != turb.At(col, row) {
				t.Fatalf("cell (%d,%d) differs from turbulent field", col, row)
			}
		}
	}
}

func TestDirectionalAtCanvasCenter(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	noise, _ := NewNoiseField("perlin", 3, 1, 0.5)
	gen := NewFlowGenerator(noise, nil, rng)
	// Single-cell grid: the cell centre coincides with the canvas centre.
	f := NewFlowField(20, 20, 20)
	v := gen.Direction(presetFor(style.Directional), f, 0, 0, 0)
	if n := r2.Norm(v); math.IsNaN(n) || math.Abs(n-1) > 1e-9 {
		t.Errorf("degenerate centre direction norm %f", n)
	}
}

func TestDirectionUnhandledTechniquePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown technique")
		}
	}()
	noise, _ := NewNoiseField("perlin", 1, 1, 0.5)
	gen := NewFlowGenerator(noise, nil, rand.New(rand.NewSource(1)))
	p := presetFor(style.Impasto)
	p.Technique = style.Technique(99)
	gen.Direction(p, NewFlowField(10, 10, 10), 0, 0, 0)
}
