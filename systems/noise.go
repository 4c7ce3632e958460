package systems

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/ojrac/opensimplex-go"
)

// Noise3D is a raw coherent noise source returning values in roughly [-1, 1].
type Noise3D interface {
	Noise3D(x, y, z float64) float64
}

// PerlinNoise generates coherent noise values.
type PerlinNoise struct {
	perm [512]int
}

// NewPerlinNoise creates a new Perlin noise generator.
func NewPerlinNoise(seed int64) *PerlinNoise {
	p := &PerlinNoise{}
	rng := rand.New(rand.NewSource(seed))

	// Initialize permutation table
	var perm [256]int
	for i := range perm {
		perm[i] = i
	}

	// Shuffle
	for i := len(perm) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}

	// Duplicate
	for i := 0; i < 256; i++ {
		p.perm[i] = perm[i]
		p.perm[i+256] = perm[i]
	}

	return p
}

// Noise3D returns a noise value for 3D coordinates.
func (p *PerlinNoise) Noise3D(x, y, z float64) float64 {
	// Find unit cube
	X := int(math.Floor(x)) & 255
	Y := int(math.Floor(y)) & 255
	Z := int(math.Floor(z)) & 255

	// Find relative position in cube
	x -= math.Floor(x)
	y -= math.Floor(y)
	z -= math.Floor(z)

	// Compute fade curves
	u := fade(x)
	v := fade(y)
	w := fade(z)

	// Hash coordinates of cube corners
	A := p.perm[X] + Y
	AA := p.perm[A] + Z
	AB := p.perm[A+1] + Z
	B := p.perm[X+1] + Y
	BA := p.perm[B] + Z
	BB := p.perm[B+1] + Z

	// Blend results from 8 corners
	return lerp(w, lerp(v, lerp(u, grad3D(p.perm[AA], x, y, z),
		grad3D(p.perm[BA], x-1, y, z)),
		lerp(u, grad3D(p.perm[AB], x, y-1, z),
			grad3D(p.perm[BB], x-1, y-1, z))),
		lerp(v, lerp(u, grad3D(p.perm[AA+1], x, y, z-1),
			grad3D(p.perm[BA+1], x-1, y, z-1)),
			lerp(u, grad3D(p.perm[AB+1], x, y-1, z-1),
				grad3D(p.perm[BB+1], x-1, y-1, z-1))))
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

func grad3D(hash int, x, y, z float64) float64 {
	h := hash & 15
	u := x
	if h >= 8 {
		u = y
	}
	v := y
	if h >= 4 {
		if h == 12 || h == 14 {
			v = x
		} else {
			v = z
		}
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + v
}

// SimplexNoise adapts OpenSimplex to Noise3D.
type SimplexNoise struct {
	noise opensimplex.Noise
}

// NewSimplexNoise creates an OpenSimplex generator.
func NewSimplexNoise(seed int64) *SimplexNoise {
	return &SimplexNoise{noise: opensimplex.New(seed)}
}

// Noise3D returns a noise value for 3D coordinates.
func (s *SimplexNoise) Noise3D(x, y, z float64) float64 {
	return s.noise.Eval3(x, y, z)
}

// NoiseField is a smooth pseudo-random scalar field over (x, y, t) with
// values in [0, 1). Octaves are summed fractal-style.
type NoiseField struct {
	src     Noise3D
	octaves int
	falloff float64
	norm    float64
}

// NewNoiseField builds a field over the named backend ("perlin" or "simplex").
func NewNoiseField(backend string, seed int64, octaves int, falloff float64) (*NoiseField, error) {
	var src Noise3D
	switch backend {
	case "", "perlin":
		src = NewPerlinNoise(seed)
	case "simplex":
		src = NewSimplexNoise(seed)
	default:
		return nil, fmt.Errorf("unknown noise backend %q", backend)
	}
	return NewNoiseFieldFrom(src, octaves, falloff), nil
}

// NewNoiseFieldFrom wraps an existing noise source.
func NewNoiseFieldFrom(src Noise3D, octaves int, falloff float64) *NoiseField {
	if octaves < 1 {
		octaves = 1
	}
	if falloff <= 0 || falloff >= 1 {
		falloff = 0.5
	}
	norm := 0.0
	amp := 1.0
	for i := 0; i < octaves; i++ {
		norm += amp
		amp *= falloff
	}
	return &NoiseField{src: src, octaves: octaves, falloff: falloff, norm: norm}
}

// Sample returns the field value at (x, y, z) in [0, 1).
func (f *NoiseField) Sample(x, y, z float64) float64 {
	total := 0.0
	amp := 1.0
	freq := 1.0
	for i := 0; i < f.octaves; i++ {
		total += f.src.Noise3D(x*freq, y*freq, z*freq) * amp
		amp *= f.falloff
		freq *= 2
	}

	v := (total/f.norm + 1) * 0.5
	if v < 0 {
		return 0
	}
	if v >= 1 {
		return math.Nextafter(1, 0)
	}
	return v
}
