package game

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/brushflow/renderer"
)

// Window hosts a Game in a raylib window. Strokes accumulate in an
// off-screen texture; the HUD is drawn over it each frame.
type Window struct {
	game    *Game
	surface *renderer.RaylibSurface
	hud     *HUD
	overlay *renderer.Overlay

	showField  bool
	showEddies bool
}

var (
	fieldColor  = color.RGBA{R: 255, G: 255, B: 255, A: 90}
	cwColor     = color.RGBA{R: 255, G: 170, B: 60, A: 160}
	ccwColor    = color.RGBA{R: 90, G: 200, B: 255, A: 160}
	cursorColor = color.RGBA{R: 255, G: 255, B: 255, A: 120}
)

// NewWindow creates the paint texture. rl.InitWindow must have been called.
func NewWindow(g *Game) *Window {
	w, h := g.Size()
	return &Window{
		game:    g,
		surface: renderer.NewRaylibSurface(int32(w), int32(h), g.transition.Blend().Background()),
		hud:     NewHUD(g),
		overlay: renderer.NewOverlay(),
	}
}

// Update polls input and runs one frame into the paint texture.
func (w *Window) Update() {
	w.handleInput()

	w.surface.Begin()
	w.game.Frame(float64(rl.GetFrameTime()), w.surface)
	w.surface.End()
}

// Draw presents the paint texture and the HUD.
func (w *Window) Draw() {
	w.game.perf.RecordPresent()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	w.surface.Present()

	// Overlays draw straight to the screen, outside the paint texture.
	if w.showField {
		w.overlay.FieldVectors(w.surface, w.game.field, fieldColor)
	}
	if w.showEddies && w.game.eddies != nil {
		w.overlay.Eddies(w.surface, w.game.eddies.Eddies(), cwColor, ccwColor)
		if w.game.SwirlActive() {
			w.overlay.Cursor(w.surface, w.game.Mouse(), w.game.cfg.Mouse.Radius, cursorColor)
		}
	}
	w.hud.Draw()
	rl.EndDrawing()
}

// Unload frees GPU resources.
func (w *Window) Unload() {
	w.surface.Unload()
}
