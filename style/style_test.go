package style

import (
	"errors"
	"image/color"
	"math/rand"
	"testing"
)

func testPreset(id PeriodID, tech Technique) *Preset {
	return &Preset{
		ID:             id,
		Name:           string(id),
		Palette:        []color.RGBA{{R: 200, G: 40, B: 10, A: 255}, {R: 20, G: 90, B: 160, A: 255}},
		Background:     color.RGBA{R: 10, G: 10, B: 10, A: 255},
		Technique:      tech,
		StrokeLength:   Range{Min: 4, Max: 12},
		StrokeWidth:    Range{Min: 1, Max: 3},
		Curvature:      0.2,
		FlowComplexity: 1,
		Speed:          1.5,
	}
}

func TestParseTechnique(t *testing.T) {
	for i := Technique(0); i < numTechniques; i++ {
		got, err := ParseTechnique(i.String())
		if err != nil {
			t.Fatalf("ParseTechnique(%q): %v", i.String(), err)
		}
		if got != i {
			t.Errorf("ParseTechnique(%q) = %v, want %v", i.String(), got, i)
		}
	}
	if _, err := ParseTechnique("cubist"); err == nil {
		t.Error("expected error for unknown technique")
	}
}

func TestPresetValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Preset)
		want   error
	}{
		{"valid", func(p *Preset) {}, nil},
		{"empty palette", func(p *Preset) { p.Palette = nil }, ErrEmptyPalette},
		{"inverted width", func(p *Preset) { p.StrokeWidth = Range{Min: 5, Max: 2} }, ErrInvertedRange},
		{"inverted length", func(p *Preset) { p.StrokeLength = Range{Min: 20, Max: 2} }, ErrInvertedRange},
		{"zero width", func(p *Preset) { p.StrokeWidth = Range{Min: 0, Max: 2} }, ErrNonPositive},
		{"zero speed", func(p *Preset) { p.Speed = 0 }, ErrNonPositive},
		{"negative curvature", func(p *Preset) { p.Curvature = -1 }, ErrNonPositive},
		{"turbulent without block", func(p *Preset) { p.Technique = Turbulent }, ErrTurbulence},
		{"positive cascade", func(p *Preset) {
			p.Technique = Turbulent
			p.Turbulence = &Turbulence{CascadeExponent: 1, Tiers: []Tier{{Count: 1, Scale: Range{Min: 1, Max: 2}}}}
		}, ErrTurbulence},
		{"no eddies", func(p *Preset) {
			p.Technique = Turbulent
			p.Turbulence = &Turbulence{CascadeExponent: -5.0 / 3, Tiers: []Tier{{Count: 0, Scale: Range{Min: 1, Max: 2}}}}
		}, ErrTurbulence},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := testPreset("p", Impasto)
			tc.mutate(p)
			err := p.Validate()
			if tc.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestBlendTechniqueSelection(t *testing.T) {
	a := testPreset("a", Impasto)
	b := testPreset("b", Turbulent)

	tests := []struct {
		progress float64
		want     Technique
	}{
		{1, Impasto},
		{0.9, Impasto},
		{0.51, Impasto},
		{0.5, Turbulent},
		{0.1, Turbulent},
		{0, Turbulent},
	}
	for _, tc := range tests {
		blend := Blend{Active: a, Target: b, Progress: tc.progress}
		if got := blend.Technique(); got != tc.want {
			t.Errorf("progress %.2f: technique %v, want %v", tc.progress, got, tc.want)
		}
	}
}

func TestBlendSettledColorFromActivePalette(t *testing.T) {
	a := testPreset("a", Impasto)
	b := testPreset("b", Flowing)
	b.Palette = []color.RGBA{{R: 255, G: 255, B: 0, A: 255}}

	blend := Blend{Active: a, Target: b, Progress: 1}
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		c := blend.SampleColor(rng)
		found := false
		for _, p := range a.Palette {
			if p == c {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("color %v not in active palette", c)
		}
	}
}

func TestBlendRangesUseTargetWeight(t *testing.T) {
	a := testPreset("a", Impasto)
	b := testPreset("b", Flowing)
	b.StrokeWidth = Range{Min: 5, Max: 11}
	b.Speed = 3.5

	blend := Blend{Active: a, Target: b, Progress: 0.25}
	w := blend.StrokeWidth()
	// weight toward target is 0.75
	if w.Min != 4 || w.Max != 9 {
		t.Errorf("stroke width = %+v, want {4 9}", w)
	}
	if got := blend.Speed(); got != 3 {
		t.Errorf("speed = %f, want 3", got)
	}
}

func TestComplement(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	c := Complement(red)
	if c.R > 5 || c.G < 250 || c.B < 250 {
		t.Errorf("complement of red = %v, want cyan", c)
	}
}

func TestLerpEndpoints(t *testing.T) {
	a := color.RGBA{R: 10, G: 20, B: 30, A: 255}
	b := color.RGBA{R: 200, G: 100, B: 0, A: 255}
	if got := Lerp(a, b, 0); got != a {
		t.Errorf("Lerp(t=0) = %v, want %v", got, a)
	}
	if got := Lerp(a, b, 1); got != b {
		t.Errorf("Lerp(t=1) = %v, want %v", got, b)
	}
	mid := Lerp(a, b, 0.5)
	if mid.R != 105 || mid.G != 60 || mid.B != 15 {
		t.Errorf("Lerp(t=0.5) = %v", mid)
	}
}
