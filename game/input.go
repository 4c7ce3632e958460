package game

import rl "github.com/gen2brain/raylib-go/raylib"

// periodKeys select periods by their position in the cyclic order.
var periodKeys = []int32{rl.KeyOne, rl.KeyTwo, rl.KeyThree, rl.KeyFour, rl.KeyFive}

// handleInput turns raylib keyboard and mouse state into queued events.
func (w *Window) handleInput() {
	g := w.game

	// Window resize propagation
	w.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		g.Post(TogglePause())
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.Post(Reset())
	}
	if rl.IsKeyPressed(rl.KeyA) {
		g.Post(ToggleAuto())
	}
	if rl.IsKeyPressed(rl.KeyH) {
		w.hud.visible = !w.hud.visible
	}

	// Debug overlays
	if rl.IsKeyPressed(rl.KeyV) {
		w.showField = !w.showField
	}
	if rl.IsKeyPressed(rl.KeyE) {
		w.showEddies = !w.showEddies
	}

	presets := g.transition.Presets()
	for i, key := range periodKeys {
		if i < len(presets) && rl.IsKeyPressed(key) {
			g.Post(SwitchPeriod(presets[i].ID))
		}
	}

	if d := rl.GetMouseDelta(); d.X != 0 || d.Y != 0 {
		pos := rl.GetMousePosition()
		if !w.hud.Contains(pos) {
			g.Post(Mouse(float64(pos.X), float64(pos.Y)))
		}
	}
}

// handleResize resizes the paint texture and queues a canvas resize.
func (w *Window) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	width := int32(rl.GetScreenWidth())
	height := int32(rl.GetScreenHeight())
	gw, gh := w.game.Size()
	if float64(width) == gw && float64(height) == gh {
		return
	}
	w.surface.Resize(width, height, w.game.transition.Blend().Background())
	w.game.Post(Resize(float64(width), float64(height)))
}
