package systems

import (
	"math"
	"testing"
)

func TestNoiseFieldRange(t *testing.T) {
	for _, backend := range []string{"perlin", "simplex"} {
		f, err := NewNoiseField(backend, 42, 4, 0.5)
		if err != nil {
			t.Fatalf("%s: %v", backend, err)
		}
		for i := 0; i < 2000; i++ {
			x := float64(i) * 0.137
			y := float64(i%97) * 0.291
			v := f.Sample(x, y, float64(i)*0.01)
			if v < 0 || v >= 1 {
				t.Fatalf("%s: sample %d = %f outside [0,1)", backend, i, v)
			}
		}
	}
}

func TestNoiseFieldDeterministic(t *testing.T) {
	a, _ := NewNoiseField("perlin", 7, 3, 0.5)
	b, _ := NewNoiseField("perlin", 7, 3, 0.5)
	for i := 0; i < 100; i++ {
		x, y, z := float64(i)*0.3, float64(i)*0.7, float64(i)*0.05
		if a.Sample(x, y, z) != b.Sample(x, y, z) {
			t.Fatalf("same seed produced different samples at %d", i)
		}
	}
}

func TestNoiseFieldContinuous(t *testing.T) {
	f, _ := NewNoiseField("perlin", 3, 4, 0.5)
	const eps = 1e-4
	for i := 0; i < 200; i++ {
		x, y := float64(i)*0.173, float64(i)*0.311
		d := math.Abs(f.Sample(x, y, 0.5) - f.Sample(x+eps, y, 0.5))
		if d > 0.01 {
			t.Errorf("discontinuity at (%f,%f): delta %f", x, y, d)
		}
	}
}

func TestNoiseFieldUnknownBackend(t *testing.T) {
	if _, err := NewNoiseField("worley", 1, 1, 0.5); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestPerlinNoiseLatticeZero(t *testing.T) {
	p := NewPerlinNoise(1)
	// Gradient noise vanishes on integer lattice points
	if v := p.Noise3D(3, 5, 7); v != 0 {
		t.Errorf("expected 0 at lattice point, got %f", v)
	}
}
