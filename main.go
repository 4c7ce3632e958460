package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/brushflow/config"
	"github.com/pthm-cable/brushflow/game"
	"github.com/pthm-cable/brushflow/style"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without a window")
	logStats := flag.Bool("log-stats", false, "Output windowed stats and perf via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for PNG snapshots (headless only)")
	snapshotEvery := flag.Int("snapshot-every", 0, "Frames between snapshots (0 = use config)")
	period := flag.String("period", "", "Starting period id (empty = use config)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:      rngSeed,
		Period:    style.PeriodID(*period),
		LogStats:  *logStats,
		OutputDir: *outputDir,
	}

	if *headless {
		runHeadless(cfg, opts, *snapshotDir, *snapshotEvery, *maxFrames)
		return
	}
	runWindow(cfg, opts, *maxFrames)
}

func runHeadless(cfg *config.Config, opts game.Options, snapshotDir string, every, maxFrames int) {
	g, err := game.NewGame(cfg, opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	if every <= 0 {
		every = cfg.Snapshot.Every
	}
	h, err := game.NewHeadless(g, snapshotDir, every)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}

	slog.Info("starting headless run",
		"seed", opts.Seed,
		"max_frames", maxFrames,
		"snapshot_dir", snapshotDir,
		"snapshot_every", every,
	)

	for maxFrames <= 0 || g.FrameCount() < int64(maxFrames) {
		h.Step()
	}
	h.Snapshot()
	slog.Info("max frames reached", "frame", g.FrameCount(), "period", g.Transition().Active().ID)
}

func runWindow(cfg *config.Config, opts game.Options, maxFrames int) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Brushflow")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGame(cfg, opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		return
	}
	defer g.Unload()

	w := game.NewWindow(g)
	defer w.Unload()

	for !rl.WindowShouldClose() {
		w.Update()
		w.Draw()

		if maxFrames > 0 && g.FrameCount() >= int64(maxFrames) {
			break
		}
	}
	slog.Info("shutdown", "frame", g.FrameCount())
}
