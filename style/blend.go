package style

import (
	"image/color"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
)

// Blend is a snapshot of the transition between two presets.
// Progress 1 means settled on Active. Interpolated parameters weight the
// target by 1-Progress.
type Blend struct {
	Active   *Preset
	Target   *Preset
	Progress float64
}

// Settled returns a blend resting on a single preset.
func Settled(p *Preset) Blend {
	return Blend{Active: p, Target: p, Progress: 1}
}

// TargetWeight is the interpolation weight toward the target preset.
func (b Blend) TargetWeight() float64 {
	w := 1 - b.Progress
	if w < 0 {
		return 0
	}
	if w > 1 {
		return 1
	}
	return w
}

// Technique picks the stroke technique for the frame. Techniques are not
// interpolated: the active one holds while progress > 0.5, then the target's.
func (b Blend) Technique() Technique {
	return b.TechniquePreset().Technique
}

// TechniquePreset is the preset whose technique and flow shaping apply.
func (b Blend) TechniquePreset() *Preset {
	if b.Progress > 0.5 {
		return b.Active
	}
	return b.Target
}

// Speed interpolates the base speed.
func (b Blend) Speed() float64 {
	t := b.TargetWeight()
	return b.Active.Speed + (b.Target.Speed-b.Active.Speed)*t
}

// StrokeWidth interpolates the stroke width range.
func (b Blend) StrokeWidth() Range {
	return b.Active.StrokeWidth.Lerp(b.Target.StrokeWidth, b.TargetWeight())
}

// StrokeLength interpolates the stroke length range.
func (b Blend) StrokeLength() Range {
	return b.Active.StrokeLength.Lerp(b.Target.StrokeLength, b.TargetWeight())
}

// Background interpolates the background colour.
func (b Blend) Background() color.RGBA {
	return Lerp(b.Active.Background, b.Target.Background, b.TargetWeight())
}

// SampleColor picks one palette entry from each preset and mixes them.
func (b Blend) SampleColor(rng *rand.Rand) color.RGBA {
	a := b.Active.Palette[rng.Intn(len(b.Active.Palette))]
	c := b.Target.Palette[rng.Intn(len(b.Target.Palette))]
	return Lerp(a, c, b.TargetWeight())
}

// Lerp mixes two colours linearly in RGB space. Alpha is taken from a.
func Lerp(a, c color.RGBA, t float64) color.RGBA {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return color.RGBA{R: c.R, G: c.G, B: c.B, A: a.A}
	}
	r, g, bl := toColorful(a).BlendRgb(toColorful(c), t).RGB255()
	return color.RGBA{R: r, G: g, B: bl, A: a.A}
}

// Complement returns the colour opposite c on the hue wheel.
func Complement(c color.RGBA) color.RGBA {
	h, s, v := toColorful(c).Hsv()
	h += 180
	if h >= 360 {
		h -= 360
	}
	r, g, bl := colorful.Hsv(h, s, v).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: bl, A: c.A}
}

// Brighten raises the HSV value of c by amount (0..1).
func Brighten(c color.RGBA, amount float64) color.RGBA {
	h, s, v := toColorful(c).Hsv()
	v += amount
	if v > 1 {
		v = 1
	}
	r, g, bl := colorful.Hsv(h, s, v).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: bl, A: c.A}
}

func toColorful(c color.RGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}
