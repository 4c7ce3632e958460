package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/pthm-cable/brushflow/style"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	if len(cfg.Derived.Presets) != 5 {
		t.Fatalf("expected 5 presets, got %d", len(cfg.Derived.Presets))
	}
	if cfg.Derived.Initial != "nuenen" {
		t.Errorf("expected initial preset nuenen, got %s", cfg.Derived.Initial)
	}

	for _, p := range cfg.Derived.Presets {
		if p.StrokeWidth.Min <= 0 || p.StrokeWidth.Min > p.StrokeWidth.Max {
			t.Errorf("%s: bad stroke width %+v", p.ID, p.StrokeWidth)
		}
		if p.StrokeLength.Min <= 0 || p.StrokeLength.Min > p.StrokeLength.Max {
			t.Errorf("%s: bad stroke length %+v", p.ID, p.StrokeLength)
		}
	}

	starry, ok := cfg.Preset("starryNight")
	if !ok {
		t.Fatal("starryNight preset missing")
	}
	if starry.Technique != style.Turbulent {
		t.Errorf("starryNight technique = %v, want turbulent", starry.Technique)
	}
	if n := starry.Turbulence.EddyCount(); n != 14 {
		t.Errorf("starryNight eddy count = %d, want 14", n)
	}
	if cfg.TurbulencePreset() != starry {
		t.Error("TurbulencePreset should return starryNight")
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("simulation:\n  particle_count: 42\ntransition:\n  initial: arles\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Simulation.ParticleCount != 42 {
		t.Errorf("particle_count = %d, want 42", cfg.Simulation.ParticleCount)
	}
	if cfg.Simulation.CellSize != 20 {
		t.Errorf("cell_size should keep default 20, got %f", cfg.Simulation.CellSize)
	}
	if cfg.Derived.Initial != "arles" {
		t.Errorf("initial = %s, want arles", cfg.Derived.Initial)
	}
}

func TestParseRejectsMalformedPresets(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{
			name: "empty palette",
			yaml: `
presets:
  - id: bad
    palette: []
    technique: impasto
    stroke_length: [1, 2]
    stroke_width: [1, 2]
    speed: 1
`,
			want: style.ErrEmptyPalette,
		},
		{
			name: "inverted width",
			yaml: `
presets:
  - id: bad
    palette: [[1, 2, 3]]
    technique: impasto
    stroke_length: [1, 2]
    stroke_width: [5, 2]
    speed: 1
`,
			want: style.ErrInvertedRange,
		},
		{
			name: "turbulent without eddies",
			yaml: `
presets:
  - id: bad
    palette: [[1, 2, 3]]
    technique: turbulent
    stroke_length: [1, 2]
    stroke_width: [1, 2]
    speed: 1
`,
			want: style.ErrTurbulence,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml + "transition:\n  order: []\n"))
			if !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestParseRejectsUnknownOrder(t *testing.T) {
	_, err := Parse([]byte("transition:\n  order: [nuenen, cubism]\n"))
	if err == nil || !strings.Contains(err.Error(), "cubism") {
		t.Errorf("expected unknown order error, got %v", err)
	}
}

func TestParseRejectsUnknownTechnique(t *testing.T) {
	_, err := Parse([]byte(`
presets:
  - id: x
    palette: [[1, 2, 3]]
    technique: cubist
    stroke_length: [1, 2]
    stroke_width: [1, 2]
    speed: 1
transition:
  order: []
`))
	if err == nil {
		t.Fatal("expected error for unknown technique")
	}
}
