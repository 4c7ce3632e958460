// Package config provides configuration loading and access for the animation.
package config

import (
	_ "embed"
	"fmt"
	"image/color"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/brushflow/style"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all animation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Simulation SimulationConfig `yaml:"simulation"`
	Noise      NoiseConfig      `yaml:"noise"`
	Transition TransitionConfig `yaml:"transition"`
	Mouse      MouseConfig      `yaml:"mouse"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Snapshot   SnapshotConfig   `yaml:"snapshot"`
	Presets    []PresetConfig   `yaml:"presets"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// SimulationConfig holds particle and flow-field parameters.
type SimulationConfig struct {
	ParticleCount   int     `yaml:"particle_count"`
	CellSize        float64 `yaml:"cell_size"`        // Flow grid cell size in pixels
	MaxSpeed        float64 `yaml:"max_speed"`        // Particle velocity clamp (px/frame)
	EdgeMargin      float64 `yaml:"edge_margin"`      // Respawn once this far outside the canvas
	LifeMin         int     `yaml:"life_min"`         // Frames
	LifeMax         int     `yaml:"life_max"`         // Frames
	TimeScale       float64 `yaml:"time_scale"`       // Noise z advance per second
	BackgroundAlpha uint8   `yaml:"background_alpha"` // Per-frame wash opacity
}

// NoiseConfig selects and shapes the noise field.
type NoiseConfig struct {
	Backend string  `yaml:"backend"` // perlin | simplex
	Octaves int     `yaml:"octaves"`
	Falloff float64 `yaml:"falloff"` // Amplitude multiplier per octave
}

// TransitionConfig holds preset cycling parameters.
type TransitionConfig struct {
	Step      float64  `yaml:"step"`     // Progress added per frame
	CycleMS   float64  `yaml:"cycle_ms"` // Time on each period before auto-advance
	AutoCycle bool     `yaml:"auto_cycle"`
	Initial   string   `yaml:"initial"` // Starting period id (empty = first in order)
	Order     []string `yaml:"order"`   // Cyclic order of period ids (empty = preset order)
}

// MouseConfig holds cursor interaction parameters.
type MouseConfig struct {
	Radius   float64 `yaml:"radius"`
	Strength float64 `yaml:"strength"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow  int     `yaml:"perf_window"`  // Frames per perf window
	StatsWindow float64 `yaml:"stats_window"` // Simulated seconds per stats window
}

// SnapshotConfig holds headless snapshot parameters.
type SnapshotConfig struct {
	Every int `yaml:"every"` // Frames between PNG snapshots
}

// PresetConfig is the YAML form of a style.Preset.
type PresetConfig struct {
	ID             string            `yaml:"id"`
	Name           string            `yaml:"name"`
	Description    string            `yaml:"description"`
	Palette        [][3]uint8        `yaml:"palette"`
	Background     [3]uint8          `yaml:"background"`
	Technique      string            `yaml:"technique"`
	StrokeLength   [2]float64        `yaml:"stroke_length"`
	StrokeWidth    [2]float64        `yaml:"stroke_width"`
	Curvature      float64           `yaml:"curvature"`
	FlowComplexity float64           `yaml:"flow_complexity"`
	Speed          float64           `yaml:"speed"`
	Turbulence     *TurbulenceConfig `yaml:"turbulence,omitempty"`
}

// TurbulenceConfig is the YAML form of style.Turbulence.
type TurbulenceConfig struct {
	CascadeExponent float64      `yaml:"cascade_exponent"`
	MixingExponent  float64      `yaml:"mixing_exponent"`
	EnergyDecay     float64      `yaml:"energy_decay"`
	Tiers           []TierConfig `yaml:"tiers"`
}

// TierConfig is the YAML form of style.Tier.
type TierConfig struct {
	Name      string     `yaml:"name"`
	Count     int        `yaml:"count"`
	Scale     [2]float64 `yaml:"scale"`
	UpperHalf bool       `yaml:"upper_half"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Presets     []*style.Preset        // Validated presets in cyclic order
	PresetIndex map[style.PeriodID]int // id -> index into Presets
	Initial     style.PeriodID         // Starting period
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	var data []byte
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	return Parse(data)
}

// Parse builds a config from YAML bytes merged over the embedded defaults.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	if len(data) > 0 {
		// Unmarshal into same struct - only overwrites fields present in data
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}
	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived validates presets and resolves the cyclic order.
func (c *Config) computeDerived() error {
	if c.Simulation.ParticleCount <= 0 {
		return fmt.Errorf("simulation.particle_count must be positive, got %d", c.Simulation.ParticleCount)
	}
	if c.Simulation.CellSize <= 0 {
		return fmt.Errorf("simulation.cell_size must be positive, got %g", c.Simulation.CellSize)
	}
	if c.Simulation.LifeMin <= 0 || c.Simulation.LifeMin > c.Simulation.LifeMax {
		return fmt.Errorf("simulation life range [%d,%d] is invalid", c.Simulation.LifeMin, c.Simulation.LifeMax)
	}
	if c.Transition.Step <= 0 {
		return fmt.Errorf("transition.step must be positive, got %g", c.Transition.Step)
	}
	if len(c.Presets) == 0 {
		return fmt.Errorf("no presets configured")
	}

	byID := make(map[style.PeriodID]*style.Preset, len(c.Presets))
	declared := make([]*style.Preset, 0, len(c.Presets))
	for i := range c.Presets {
		p, err := c.Presets[i].toPreset()
		if err != nil {
			return fmt.Errorf("preset %d: %w", i, err)
		}
		if _, dup := byID[p.ID]; dup {
			return fmt.Errorf("duplicate preset id %q", p.ID)
		}
		byID[p.ID] = p
		declared = append(declared, p)
	}

	ordered := declared
	if len(c.Transition.Order) > 0 {
		ordered = make([]*style.Preset, 0, len(c.Transition.Order))
		for _, id := range c.Transition.Order {
			p, ok := byID[style.PeriodID(id)]
			if !ok {
				return fmt.Errorf("transition.order references unknown preset %q", id)
			}
			ordered = append(ordered, p)
		}
	}

	c.Derived.Presets = ordered
	c.Derived.PresetIndex = make(map[style.PeriodID]int, len(ordered))
	for i, p := range ordered {
		c.Derived.PresetIndex[p.ID] = i
	}

	c.Derived.Initial = ordered[0].ID
	if c.Transition.Initial != "" {
		id := style.PeriodID(c.Transition.Initial)
		if _, ok := c.Derived.PresetIndex[id]; !ok {
			return fmt.Errorf("transition.initial references unknown preset %q", id)
		}
		c.Derived.Initial = id
	}
	return nil
}

// toPreset converts and validates a YAML preset.
func (pc *PresetConfig) toPreset() (*style.Preset, error) {
	tech, err := style.ParseTechnique(pc.Technique)
	if err != nil {
		return nil, fmt.Errorf("preset %q: %w", pc.ID, err)
	}

	p := &style.Preset{
		ID:             style.PeriodID(pc.ID),
		Name:           pc.Name,
		Description:    pc.Description,
		Background:     rgb(pc.Background),
		Technique:      tech,
		StrokeLength:   style.Range{Min: pc.StrokeLength[0], Max: pc.StrokeLength[1]},
		StrokeWidth:    style.Range{Min: pc.StrokeWidth[0], Max: pc.StrokeWidth[1]},
		Curvature:      pc.Curvature,
		FlowComplexity: pc.FlowComplexity,
		Speed:          pc.Speed,
	}
	for _, c := range pc.Palette {
		p.Palette = append(p.Palette, rgb(c))
	}

	if pc.Turbulence != nil {
		t := &style.Turbulence{
			CascadeExponent: pc.Turbulence.CascadeExponent,
			MixingExponent:  pc.Turbulence.MixingExponent,
			EnergyDecay:     pc.Turbulence.EnergyDecay,
		}
		for _, tc := range pc.Turbulence.Tiers {
			t.Tiers = append(t.Tiers, style.Tier{
				Name:      tc.Name,
				Count:     tc.Count,
				Scale:     style.Range{Min: tc.Scale[0], Max: tc.Scale[1]},
				UpperHalf: tc.UpperHalf,
			})
		}
		p.Turbulence = t
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func rgb(c [3]uint8) color.RGBA {
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: 255}
}

// Preset returns the preset with the given id.
func (c *Config) Preset(id style.PeriodID) (*style.Preset, bool) {
	i, ok := c.Derived.PresetIndex[id]
	if !ok {
		return nil, false
	}
	return c.Derived.Presets[i], true
}

// TurbulencePreset returns the first preset carrying eddy parameters.
func (c *Config) TurbulencePreset() *style.Preset {
	for _, p := range c.Derived.Presets {
		if p.Turbulence != nil {
			return p
		}
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
