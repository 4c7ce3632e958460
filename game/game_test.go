package game

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/brushflow/config"
	"github.com/pthm-cable/brushflow/renderer"
	"github.com/pthm-cable/brushflow/style"
	"github.com/pthm-cable/brushflow/systems"
	"github.com/pthm-cable/brushflow/telemetry"
)

const testDT = 1.0 / 60

func init() {
	config.MustInit("")
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte(`
screen:
  width: 320
  height: 240
simulation:
  particle_count: 120
transition:
  auto_cycle: false
`))
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func newTestGame(t *testing.T, opts Options) *Game {
	t.Helper()
	if opts.Seed == 0 {
		opts.Seed = 7
	}
	g, err := NewGame(testConfig(t), opts)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(g.Unload)
	return g
}

func positions(g *Game) []r2.Vec {
	var out []r2.Vec
	g.particles.Each(func(p *systems.Particle) { out = append(out, p.Pos) })
	return out
}

func TestNewGameDefaults(t *testing.T) {
	g := newTestGame(t, Options{})
	if g.particles.Len() != 120 {
		t.Errorf("particles = %d, want 120", g.particles.Len())
	}
	if g.eddies == nil || g.eddies.Len() != 14 {
		t.Errorf("expected 14 eddies, got %d", g.eddyCount())
	}
	if g.transition.Active().ID != "nuenen" || g.transition.Progress() != 1 {
		t.Errorf("start = %s at %f", g.transition.Active().ID, g.transition.Progress())
	}
	if g.transition.AutoCycle() {
		t.Error("auto cycle should follow config")
	}
	if g.field.Cols() != 16 || g.field.Rows() != 12 {
		t.Errorf("grid = %dx%d, want 16x12", g.field.Cols(), g.field.Rows())
	}
}

func TestNewGameStartingPeriod(t *testing.T) {
	g := newTestGame(t, Options{Period: "arles"})
	if g.transition.Active().ID != "arles" {
		t.Errorf("active = %s, want arles", g.transition.Active().ID)
	}
	if _, err := NewGame(testConfig(t), Options{Period: "cubism"}); err == nil {
		t.Error("expected error for unknown starting period")
	}
}

func TestFrameDrawsWashThenStrokes(t *testing.T) {
	g := newTestGame(t, Options{})
	var rec renderer.Recorder

	g.Frame(testDT, &rec)
	if rec.Ops[0].Kind != renderer.OpWash || rec.Ops[0].Color.A != 255 {
		t.Fatalf("first frame should clear opaque, got %+v", rec.Ops[0])
	}

	rec.Reset()
	g.Frame(testDT, &rec)
	if rec.Ops[0].Color.A != g.cfg.Simulation.BackgroundAlpha {
		t.Errorf("wash alpha = %d, want %d", rec.Ops[0].Color.A, g.cfg.Simulation.BackgroundAlpha)
	}
	if rec.Count(renderer.OpFillPolygon) == 0 {
		t.Error("impasto frame drew no slabs")
	}
	if rec.NonFinite != 0 {
		t.Errorf("%d primitives with non-finite coordinates", rec.NonFinite)
	}
	if g.FrameCount() != 2 {
		t.Errorf("frame = %d, want 2", g.FrameCount())
	}
}

func TestSwitchEventAppliedAtFrameStart(t *testing.T) {
	g := newTestGame(t, Options{})
	before := g.eddies.Eddies()[0].Center

	g.Post(SwitchPeriod("starryNight"))
	if g.transition.Target().ID != "nuenen" {
		t.Fatal("event applied before the frame ran")
	}

	var rec renderer.Recorder
	g.Frame(testDT, &rec)
	if g.transition.Target().ID != "starryNight" {
		t.Fatalf("target = %s, want starryNight", g.transition.Target().ID)
	}
	if p := g.transition.Progress(); p != g.cfg.Transition.Step {
		t.Errorf("progress after one frame = %f, want %f", p, g.cfg.Transition.Step)
	}
	if g.eddies.Len() != 14 || g.eddies.Eddies()[0].Center == before {
		t.Error("expected eddies to be re-initialized")
	}

	for i := 0; i < 150; i++ {
		g.Frame(testDT, &rec)
	}
	if g.transition.Active().ID != "starryNight" {
		t.Errorf("active = %s after transition", g.transition.Active().ID)
	}
}

func TestUnknownSwitchIgnored(t *testing.T) {
	g := newTestGame(t, Options{})
	g.Post(SwitchPeriod("cubism"))
	g.Frame(testDT, &renderer.Recorder{})
	if g.transition.Target().ID != "nuenen" {
		t.Errorf("target = %s, want nuenen", g.transition.Target().ID)
	}
}

func TestPauseFreezesState(t *testing.T) {
	g := newTestGame(t, Options{})
	var rec renderer.Recorder
	g.Frame(testDT, &rec)

	g.Post(TogglePause())
	g.Frame(testDT, &rec)
	frame := g.FrameCount()
	before := positions(g)

	rec.Reset()
	g.Post(SwitchPeriod("paris"))
	for i := 0; i < 10; i++ {
		g.Frame(testDT, &rec)
	}
	if len(rec.Ops) != 0 {
		t.Errorf("paused frames drew %d ops", len(rec.Ops))
	}
	if g.FrameCount() != frame {
		t.Errorf("frame advanced while paused: %d -> %d", frame, g.FrameCount())
	}
	after := positions(g)
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("particle %d moved while paused", i)
		}
	}
	if g.transition.Target().ID != "paris" || g.transition.Progress() != 0 {
		t.Error("switch requests should still be accepted while paused")
	}

	g.Post(TogglePause())
	g.Frame(testDT, &rec)
	if g.Paused() || g.FrameCount() != frame+1 {
		t.Error("expected animation to resume")
	}
}

func TestResetClearsAndSettles(t *testing.T) {
	g := newTestGame(t, Options{})
	var rec renderer.Recorder
	g.Frame(testDT, &rec)
	g.Post(SwitchPeriod("auvers"))
	for i := 0; i < 5; i++ {
		g.Frame(testDT, &rec)
	}

	g.Post(Reset())
	rec.Reset()
	g.Frame(testDT, &rec)
	if rec.Ops[0].Kind != renderer.OpWash || rec.Ops[0].Color.A != 255 {
		t.Error("reset should clear the canvas opaque")
	}
	if g.transition.Active().ID != "auvers" || g.transition.Progress() != 1 {
		t.Errorf("reset should settle on the target, got %s at %f",
			g.transition.Active().ID, g.transition.Progress())
	}
}

func TestResizeReinitializes(t *testing.T) {
	g := newTestGame(t, Options{})
	g.Post(Resize(640, 480))
	g.Frame(testDT, &renderer.Recorder{})

	if w, h := g.Size(); w != 640 || h != 480 {
		t.Fatalf("size = %vx%v", w, h)
	}
	if g.field.Cols() != 32 || g.field.Rows() != 24 {
		t.Errorf("grid = %dx%d, want 32x24", g.field.Cols(), g.field.Rows())
	}
	for _, e := range g.eddies.Eddies() {
		if e.Tier == "large" && e.Center.Y > 240 {
			t.Errorf("large eddy at y=%f outside new upper half", e.Center.Y)
		}
	}
}

func TestMouseSwirlOnlyWhenTurbulent(t *testing.T) {
	forces := func(g *Game) int {
		n := 0
		g.particles.Each(func(p *systems.Particle) {
			if p.Force != (r2.Vec{}) {
				n++
			}
		})
		return n
	}

	g := newTestGame(t, Options{})
	g.apply(Mouse(160, 120))
	if n := forces(g); n != 0 {
		t.Errorf("impasto: %d particles pushed by mouse", n)
	}
	if g.SwirlActive() {
		t.Error("swirl should be inactive outside the turbulent period")
	}

	g = newTestGame(t, Options{Period: "starryNight"})
	g.apply(Mouse(160, 120))
	if forces(g) == 0 {
		t.Error("turbulent: expected particles near the cursor to be pushed")
	}
	if g.Mouse() != (r2.Vec{X: 160, Y: 120}) {
		t.Errorf("mouse = %v", g.Mouse())
	}
	if !g.SwirlActive() {
		t.Error("swirl should be active while turbulent")
	}
	g.apply(TogglePause())
	if g.SwirlActive() {
		t.Error("swirl should be inactive while paused")
	}
}

func TestDeterministicWithSeed(t *testing.T) {
	run := func() []r2.Vec {
		g := newTestGame(t, Options{Seed: 99})
		var rec renderer.Recorder
		g.Post(SwitchPeriod("starryNight"))
		for i := 0; i < 40; i++ {
			rec.Reset()
			g.Frame(testDT, &rec)
		}
		return positions(g)
	}
	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("particle %d diverged: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestEveryTechniqueRendersFinite(t *testing.T) {
	for _, id := range []style.PeriodID{"nuenen", "paris", "arles", "starryNight", "auvers"} {
		g := newTestGame(t, Options{Period: id})
		var rec renderer.Recorder
		for i := 0; i < 30; i++ {
			rec.Reset()
			g.Frame(testDT, &rec)
		}
		if len(rec.Ops) < 2 {
			t.Errorf("%s: nothing drawn", id)
		}
		if rec.NonFinite != 0 {
			t.Errorf("%s: %d non-finite primitives", id, rec.NonFinite)
		}
	}
}

func TestHeadlessSnapshots(t *testing.T) {
	g := newTestGame(t, Options{})
	dir := t.TempDir()
	h, err := NewHeadless(g, dir, 2)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		h.Step()
	}
	for _, name := range []string{"frame_000002.png", "frame_000004.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing snapshot %s: %v", name, err)
		}
	}
	if h.Recorder() != nil {
		t.Error("snapshot runs should rasterise, not record")
	}
}

func TestOutputRecordsTransitions(t *testing.T) {
	dir := t.TempDir()
	g, err := NewGame(testConfig(t), Options{Seed: 3, OutputDir: dir})
	if err != nil {
		t.Fatal(err)
	}
	g.Post(SwitchPeriod("paris"))
	g.Frame(testDT, &renderer.Recorder{})
	g.Unload()

	data, err := os.ReadFile(filepath.Join(dir, "transitions.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "nuenen,paris,manual") {
		t.Errorf("transitions.csv = %q", data)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml not written: %v", err)
	}
}

func TestStatsUseSimulatedTime(t *testing.T) {
	cfg, err := config.Parse([]byte(`
screen:
  width: 320
  height: 240
  target_fps: 60
simulation:
  particle_count: 50
transition:
  auto_cycle: false
telemetry:
  stats_window: 0.1
`))
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	g, err := NewGame(cfg, Options{Seed: 5, OutputDir: dir})
	if err != nil {
		t.Fatal(err)
	}

	// Six frames close the window; each one is slower than the nominal 1/60s.
	for i := 0; i < 6; i++ {
		g.Frame(0.05, &renderer.Recorder{})
	}
	g.Unload()

	var rows []telemetry.WindowStats
	if err := gocsv.UnmarshalFile(mustOpen(t, filepath.Join(dir, "stats.csv")), &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("stats rows = %d, want 1", len(rows))
	}
	if diff := rows[0].SimTime - g.SimTime(); diff > 1e-6 || diff < -1e-6 {
		t.Errorf("stats sim_time = %v, want game sim time %v", rows[0].SimTime, g.SimTime())
	}
}

func mustOpen(t *testing.T, path string) *os.File {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}
