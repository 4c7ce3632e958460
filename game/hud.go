package game

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	hudX       = 10
	hudY       = 10
	hudWidth   = 340
	hudPadding = 10
	hudButtonH = 26
)

// HUD draws the period panel and its controls. Buttons post events, so
// clicks take effect at the start of the next frame.
type HUD struct {
	game    *Game
	visible bool
	height  float32
}

// NewHUD creates a visible HUD for g.
func NewHUD(g *Game) *HUD {
	return &HUD{game: g, visible: true}
}

// Contains reports whether pos lies over the visible panel.
func (h *HUD) Contains(pos rl.Vector2) bool {
	if !h.visible {
		return false
	}
	return rl.CheckCollisionPointRec(pos, h.bounds())
}

func (h *HUD) bounds() rl.Rectangle {
	return rl.Rectangle{X: hudX, Y: hudY, Width: hudWidth, Height: h.height}
}

// Draw renders the panel. Must be called between BeginDrawing and EndDrawing.
func (h *HUD) Draw() {
	if !h.visible {
		rl.DrawText("[H] show panel", hudX, hudY, 14, rl.Fade(rl.RayWhite, 0.6))
		return
	}

	g := h.game
	tr := g.transition
	if h.height > 0 {
		rl.DrawRectangleRec(h.bounds(), rl.Fade(rl.Black, 0.55))
	}

	x := float32(hudX + hudPadding)
	y := float32(hudY + hudPadding)
	inner := float32(hudWidth - 2*hudPadding)

	title := tr.Active().Name
	if tr.Progress() < 1 {
		title = fmt.Sprintf("%s -> %s", tr.Active().Name, tr.Target().Name)
	}
	rl.DrawText(title, int32(x), int32(y), 18, rl.RayWhite)
	y += 22
	rl.DrawText(tr.Target().Description, int32(x), int32(y), 12, rl.LightGray)
	y += 18

	// Blend progress
	rl.DrawRectangle(int32(x), int32(y), int32(inner), 8, rl.Fade(rl.Gray, 0.6))
	rl.DrawRectangle(int32(x), int32(y), int32(inner*float32(tr.Progress())), 8, rl.Gold)
	y += 14

	state := fmt.Sprintf("%s  auto:%s  frame:%d", tr.Technique(), onOff(tr.AutoCycle()), g.frame)
	if g.paused {
		state = "PAUSED  " + state
	}
	rl.DrawText(state, int32(x), int32(y), 12, rl.LightGray)
	y += 18

	// One button per period
	presets := tr.Presets()
	if n := len(presets); n > 0 {
		bw := (inner - float32(n-1)*4) / float32(n)
		for i, p := range presets {
			r := rl.Rectangle{X: x + float32(i)*(bw+4), Y: y, Width: bw, Height: hudButtonH}
			if gui.Button(r, fmt.Sprintf("%d %s", i+1, p.ID)) {
				g.Post(SwitchPeriod(p.ID))
			}
		}
		y += hudButtonH + 6
	}

	bw := (inner - 8) / 3
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: bw, Height: hudButtonH}, toggleText(g.paused, "Resume", "Pause")) {
		g.Post(TogglePause())
	}
	if gui.Button(rl.Rectangle{X: x + bw + 4, Y: y, Width: bw, Height: hudButtonH}, toggleText(tr.AutoCycle(), "Auto: on", "Auto: off")) {
		g.Post(ToggleAuto())
	}
	if gui.Button(rl.Rectangle{X: x + 2*(bw+4), Y: y, Width: bw, Height: hudButtonH}, "Reset") {
		g.Post(Reset())
	}
	y += hudButtonH + hudPadding

	h.height = y - hudY
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}

func onOff(b bool) string {
	return toggleText(b, "on", "off")
}
