// Flow field preview tool - interactive view of a preset's flow grid with sliders.
//
// Usage: go run ./cmd/flowpreview [-config path] [-period id]
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"math/rand"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/brushflow/config"
	"github.com/pthm-cable/brushflow/renderer"
	"github.com/pthm-cable/brushflow/style"
	"github.com/pthm-cable/brushflow/systems"
)

const (
	windowWidth   = 1000
	windowHeight  = 720
	previewWidth  = 640
	previewHeight = 480
	panelX        = previewWidth + 20
	panelWidth    = windowWidth - panelX - 20
	seed          = 12345
)

var (
	vectorColor = color.RGBA{R: 40, G: 40, B: 40, A: 220}
	cwColor     = color.RGBA{R: 220, G: 120, B: 30, A: 200}
	ccwColor    = color.RGBA{R: 30, G: 120, B: 220, A: 200}
)

// previewParams holds the tunable shaping values.
type previewParams struct {
	Curvature      float32
	FlowComplexity float32
	Octaves        int
	Falloff        float32
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	period := flag.String("period", "", "Period to preview (empty = config initial)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	id := cfg.Derived.Initial
	if *period != "" {
		id = style.PeriodID(*period)
	}
	base, ok := cfg.Preset(id)
	if !ok {
		slog.Error("unknown period", "period", id)
		os.Exit(1)
	}

	rl.InitWindow(windowWidth, windowHeight, "Flow Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	rng := rand.New(rand.NewSource(seed))
	preset := *base
	params := paramsFor(&preset, cfg)
	eddies, gen := build(cfg, params, rng)
	field := systems.NewFlowField(previewWidth, previewHeight, cfg.Simulation.CellSize)
	screen := &renderer.RaylibSurface{}
	overlay := renderer.NewOverlay()

	var t float64
	animating := false
	needsRegen := true

	for !rl.WindowShouldClose() {
		if animating {
			dt := float64(rl.GetFrameTime())
			t += dt * cfg.Simulation.TimeScale
			if eddies != nil {
				eddies.Advance(dt)
			}
			needsRegen = true
		}

		if needsRegen {
			preset.Curvature = float64(params.Curvature)
			preset.FlowComplexity = float64(params.FlowComplexity)
			gen.Recompute(field, style.Settled(&preset), t)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Preview
		overlay.FieldVectors(screen, field, vectorColor)
		if eddies != nil && preset.Technique == style.Turbulent {
			overlay.Eddies(screen, eddies.Eddies(), cwColor, ccwColor)
		}
		rl.DrawRectangleLines(0, 0, previewWidth, previewHeight, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("%s (%s)", preset.Name, preset.Technique), 10, previewHeight+10, 18, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Grid: %dx%d  Time: %.2f", field.Cols(), field.Rows(), t), 10, previewHeight+32, 16, rl.Gray)

		// Control panel
		py := float32(10)
		rl.DrawText("Period", panelX, int32(py), 20, rl.DarkGray)
		py += 28
		for i, p := range cfg.Derived.Presets {
			r := rl.Rectangle{X: panelX, Y: py + float32(i)*30, Width: panelWidth, Height: 26}
			if gui.Button(r, toggleText(p.ID == preset.ID, "> "+string(p.ID), string(p.ID))) {
				preset = *p
				params = paramsFor(&preset, cfg)
				needsRegen = true
			}
		}
		py += float32(len(cfg.Derived.Presets))*30 + 10

		if v := slider(&py, "Curvature", params.Curvature, 0, 1); v != params.Curvature {
			params.Curvature = v
			needsRegen = true
		}
		if v := slider(&py, "Flow complexity", params.FlowComplexity, 0.1, 3); v != params.FlowComplexity {
			params.FlowComplexity = v
			needsRegen = true
		}
		if v := int(slider(&py, "Octaves", float32(params.Octaves), 1, 8)); v != params.Octaves {
			params.Octaves = v
			eddies, gen = build(cfg, params, rng)
			needsRegen = true
		}
		if v := slider(&py, "Falloff", params.Falloff, 0.1, 0.9); v != params.Falloff {
			params.Falloff = v
			eddies, gen = build(cfg, params, rng)
			needsRegen = true
		}

		bw := float32(panelWidth-10) / 2
		if gui.Button(rl.Rectangle{X: panelX, Y: py, Width: bw, Height: 30}, toggleText(animating, "Stop", "Animate")) {
			animating = !animating
		}
		if gui.Button(rl.Rectangle{X: panelX + bw + 10, Y: py, Width: bw, Height: 30}, "Reseed eddies") && eddies != nil {
			eddies.Reset()
			needsRegen = true
		}
		py += 45

		// YAML for the current values
		rl.DrawText("YAML:", panelX, int32(py), 16, rl.DarkGray)
		py += 22
		for _, line := range yamlLines(&preset, params) {
			rl.DrawText(line, panelX, int32(py), 14, rl.Gray)
			py += 16
		}
		rl.DrawText("Press C to copy YAML to clipboard", panelX, windowHeight-30, 12, rl.LightGray)

		if rl.IsKeyPressed(rl.KeyC) {
			out := ""
			for _, line := range yamlLines(&preset, params) {
				out += line + "\n"
			}
			rl.SetClipboardText(out)
		}

		rl.EndDrawing()
	}
}

func paramsFor(p *style.Preset, cfg *config.Config) previewParams {
	return previewParams{
		Curvature:      float32(p.Curvature),
		FlowComplexity: float32(p.FlowComplexity),
		Octaves:        cfg.Noise.Octaves,
		Falloff:        float32(cfg.Noise.Falloff),
	}
}

// build creates the eddies and generator for params.
func build(cfg *config.Config, params previewParams, rng *rand.Rand) (*systems.EddySystem, *systems.FlowGenerator) {
	noise, err := systems.NewNoiseField(cfg.Noise.Backend, seed, params.Octaves, float64(params.Falloff))
	if err != nil {
		slog.Error("failed to build noise", "error", err)
		os.Exit(1)
	}
	var eddies *systems.EddySystem
	if tp := cfg.TurbulencePreset(); tp != nil {
		eddies = systems.NewEddySystem(*tp.Turbulence, noise, rng)
		eddies.Initialize(previewWidth, previewHeight)
	}
	return eddies, systems.NewFlowGenerator(noise, eddies, rng)
}

func slider(y *float32, label string, value, lo, hi float32) float32 {
	rl.DrawText(label, panelX, int32(*y), 14, rl.Gray)
	*y += 18
	v := gui.SliderBar(
		rl.Rectangle{X: panelX, Y: *y, Width: panelWidth - 60, Height: 20},
		"", "",
		value, lo, hi,
	)
	rl.DrawText(fmt.Sprintf("%.2f", v), int32(panelX+panelWidth-50), int32(*y+2), 16, rl.DarkGray)
	*y += 32
	return v
}

func yamlLines(p *style.Preset, params previewParams) []string {
	return []string{
		"noise:",
		fmt.Sprintf("  octaves: %d", params.Octaves),
		fmt.Sprintf("  falloff: %.2f", params.Falloff),
		"presets:",
		fmt.Sprintf("  - id: %s", p.ID),
		fmt.Sprintf("    curvature: %.2f", params.Curvature),
		fmt.Sprintf("    flow_complexity: %.2f", params.FlowComplexity),
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
