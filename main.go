package main

import (
	"flag"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/stem/config"
	"github.com/pthm-cable/stem/game"
	"github.com/pthm-cable/stem/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	logFile := flag.String("log-file", "", "Write per-window stem and perf tables to this file")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	exportOBJ := flag.String("export-obj", "", "Write every stem mesh as OBJ to this directory on exit")
	snapshotDir := flag.String("snapshot-dir", "", "Save a snapshot here on exit (viewer: also the S key)")
	loadSnapshot := flag.String("load-snapshot", "", "Restore stems from a snapshot file")
	seed := flag.Int64("seed", 0, "Noise seed (0 = use config)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	debug := flag.Bool("debug", false, "Enable debug logging")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *logFile != "" {
		f, err := os.Create(*logFile)
		if err != nil {
			slog.Error("failed to create log file", "error", err)
			os.Exit(1)
		}
		defer f.Close()
		game.SetLogWriter(f)
	}

	opts := game.Options{
		Config:      cfg,
		Seed:        *seed,
		LogStats:    *logStats,
		OutputDir:   *outputDir,
		Headless:    *headless,
		ExportDir:   *exportOBJ,
		SnapshotDir: *snapshotDir,
	}
	run := runOptions{
		maxTicks:     *maxTicks,
		exportDir:    *exportOBJ,
		snapshotDir:  *snapshotDir,
		loadSnapshot: *loadSnapshot,
	}

	if *headless {
		runHeadless(opts, run)
		return
	}
	runViewer(opts, cfg, run)
}

// runOptions holds per-run CLI settings outside game.Options.
type runOptions struct {
	maxTicks     int
	exportDir    string
	snapshotDir  string
	loadSnapshot string
}

// newGame creates the game and restores a snapshot if one was given.
func newGame(opts game.Options, run runOptions) (*game.Game, error) {
	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		return nil, err
	}
	if run.loadSnapshot == "" {
		return g, nil
	}
	snap, err := telemetry.LoadSnapshot(run.loadSnapshot)
	if err != nil {
		g.Unload()
		return nil, err
	}
	if err := g.RestoreSnapshot(snap); err != nil {
		g.Unload()
		return nil, err
	}
	return g, nil
}

// runHeadless steps the simulation at the configured fixed dt.
func runHeadless(opts game.Options, run runOptions) {
	g, err := newGame(opts, run)
	if err != nil {
		slog.Error("failed to create game", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	slog.Info("starting headless run",
		"stems", g.StemCount(),
		"dt", opts.Config.Physics.DT,
		"max_ticks", run.maxTicks,
	)

	for run.maxTicks <= 0 || int(g.Tick()) < run.maxTicks {
		g.UpdateHeadless()
	}
	slog.Info("max ticks reached", "tick", g.Tick())

	saveOnExit(g, run)
}

// runViewer opens a window and steps by frame time until it is closed.
func runViewer(opts game.Options, cfg *config.Config, run runOptions) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Stem")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := newGame(opts, run)
	if err != nil {
		slog.Error("failed to create game", "error", err)
		return
	}
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if run.maxTicks > 0 && int(g.Tick()) >= run.maxTicks {
			break
		}
	}

	saveOnExit(g, run)
}

// saveOnExit writes the requested OBJ export and snapshot.
func saveOnExit(g *game.Game, run runOptions) {
	if run.exportDir != "" {
		paths, err := g.ExportOBJ(run.exportDir)
		if err != nil {
			slog.Error("failed to export meshes", "error", err)
		} else {
			slog.Info("exported meshes", "files", len(paths), "dir", run.exportDir)
		}
	}
	if run.snapshotDir != "" {
		if _, err := g.SaveSnapshot(run.snapshotDir); err != nil {
			slog.Error("failed to save snapshot", "error", err)
		}
	}
}
