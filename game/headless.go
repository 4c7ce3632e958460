package game

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pthm-cable/brushflow/renderer"
)

// Headless runs a Game without a window at a fixed time step. With a
// snapshot directory it paints into an image and writes PNGs; otherwise
// it records primitives without rasterising.
type Headless struct {
	game *Game
	dt   float64

	image       *renderer.ImageSurface
	recorder    *renderer.Recorder
	snapshotDir string
	every       int64
}

// NewHeadless prepares a headless host. every <= 0 disables periodic
// snapshots.
func NewHeadless(g *Game, snapshotDir string, every int) (*Headless, error) {
	fps := g.cfg.Screen.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	h := &Headless{game: g, dt: 1 / float64(fps), snapshotDir: snapshotDir, every: int64(every)}

	if snapshotDir == "" {
		h.recorder = &renderer.Recorder{}
		return h, nil
	}
	if err := os.MkdirAll(snapshotDir, 0755); err != nil {
		return nil, fmt.Errorf("creating snapshot directory: %w", err)
	}
	w, ht := g.Size()
	h.image = renderer.NewImageSurface(int(w), int(ht), g.transition.Blend().Background())
	return h, nil
}

// Step runs one frame and writes a snapshot when one is due.
func (h *Headless) Step() {
	if h.image == nil {
		h.recorder.Reset()
		h.game.Frame(h.dt, h.recorder)
		return
	}

	h.game.Frame(h.dt, h.image)
	if h.every > 0 && h.game.frame > 0 && h.game.frame%h.every == 0 {
		h.Snapshot()
	}
}

// Snapshot writes the current image. Errors are logged, not returned.
func (h *Headless) Snapshot() {
	if h.image == nil {
		return
	}
	path := filepath.Join(h.snapshotDir, fmt.Sprintf("frame_%06d.png", h.game.frame))
	if err := h.image.SavePNG(path); err != nil {
		slog.Error("failed to write snapshot", "error", err)
		return
	}
	slog.Info("snapshot written", "path", path, "period", h.game.transition.Active().ID)
}

// Recorder returns the primitive recorder, or nil when rasterising.
func (h *Headless) Recorder() *renderer.Recorder { return h.recorder }
