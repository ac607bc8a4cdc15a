package game

import (
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/stem/camera"
	"github.com/pthm-cable/stem/components"
	"github.com/pthm-cable/stem/config"
	"github.com/pthm-cable/stem/renderer"
	"github.com/pthm-cable/stem/systems"
	"github.com/pthm-cable/stem/telemetry"
	"github.com/pthm-cable/stem/ui"
)

// Options configures a Game at construction.
type Options struct {
	Config      *config.Config // nil = config.Cfg()
	Seed        int64          // Noise seed override (0 = use config)
	LogStats    bool           // Log window stats via slog
	OutputDir   string         // CSV output directory (empty = disabled)
	Headless    bool           // Skip all raylib state
	ExportDir   string         // OBJ export directory for the viewer (empty = "export")
	SnapshotDir string         // Snapshot directory for the viewer (empty = "snapshots")
}

// Horizontal gap between stems spawned from the viewer
const stemSpacing = 30.0

// Game drives every stem instance once per tick.
type Game struct {
	cfg   *config.Config
	world *ecs.World

	stemMapper *ecs.Map5[
		components.Stem,
		components.Transform,
		components.Growth,
		components.Shape,
		components.Mesh,
	]
	stemFilter *ecs.Filter5[
		components.Stem,
		components.Transform,
		components.Growth,
		components.Shape,
		components.Mesh,
	]
	stemMap      *ecs.Map[components.Stem]
	transformMap *ecs.Map[components.Transform]
	growthMap    *ecs.Map[components.Growth]
	shapeMap     *ecs.Map[components.Shape]
	meshMap      *ecs.Map[components.Mesh]

	growth    *systems.GrowthSimulator
	mesher    *systems.TubeMesher
	noiseKind string
	noiseSeed int64

	// Telemetry
	stages        *systems.StageTable
	perfCollector *telemetry.PerfCollector
	collector     *telemetry.Collector
	outputManager *telemetry.OutputManager
	pendingRegens []telemetry.RegenRecord
	logStats      bool

	// Instances queued for removal at the end of the tick
	toRemove []ecs.Entity

	// State
	tick     int32
	nextID   uint32
	paused   bool
	headless bool

	// Viewer (nil when headless)
	stemRenderer *renderer.StemRenderer
	camera       *camera.Camera
	theme        ui.Theme
	hud          *ui.HUD
	perfPanel    *ui.PerfPanel
	panel        *ui.ParamPanel
	selected     ecs.Entity
	hasSelection bool
	showAxis     bool
	showPerf     bool
	exportDir    string
	snapshotDir  string

	screenWidth, screenHeight int32
}

// NewGame creates a headless game from the global config.
func NewGame() (*Game, error) {
	return NewGameWithOptions(Options{Headless: true})
}

// NewGameWithOptions creates a game and spawns the configured stems.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	seed := cfg.Noise.Seed
	if opts.Seed != 0 {
		seed = opts.Seed
	}
	noise, err := systems.NewNoiseSource(cfg.Noise.Kind, seed)
	if err != nil {
		return nil, fmt.Errorf("creating noise source: %w", err)
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	world := ecs.NewWorld()

	g := &Game{
		cfg:   cfg,
		world: world,
		stemMapper: ecs.NewMap5[
			components.Stem,
			components.Transform,
			components.Growth,
			components.Shape,
			components.Mesh,
		](world),
		stemFilter: ecs.NewFilter5[
			components.Stem,
			components.Transform,
			components.Growth,
			components.Shape,
			components.Mesh,
		](world),
		stemMap:      ecs.NewMap[components.Stem](world),
		transformMap: ecs.NewMap[components.Transform](world),
		growthMap:    ecs.NewMap[components.Growth](world),
		shapeMap:     ecs.NewMap[components.Shape](world),
		meshMap:      ecs.NewMap[components.Mesh](world),

		growth: systems.NewGrowthSimulator(systems.GrowthConfig{
			LengthPerAge:   cfg.Growth.LengthPerAge,
			PointsPerUnit:  cfg.Growth.PointsPerUnit,
			RisePerPoint:   cfg.Growth.RisePerPoint,
			NoiseFrequency: cfg.Growth.NoiseFrequency,
			NoiseAmplitude: cfg.Growth.NoiseAmplitude,
			Epsilon:        cfg.Growth.Epsilon,
		}, noise),
		mesher:    systems.NewTubeMesher(cfg.Mesh.HeightSegments, cfg.Mesh.RadialSegments),
		noiseKind: cfg.Noise.Kind,
		noiseSeed: seed,

		stages:        systems.NewStageTable(),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		collector:     telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Physics.DT),
		outputManager: output,
		logStats:      opts.LogStats,

		nextID:      1,
		headless:    opts.Headless,
		exportDir:   opts.ExportDir,
		snapshotDir: opts.SnapshotDir,
	}
	if g.exportDir == "" {
		g.exportDir = "export"
	}
	if g.snapshotDir == "" {
		g.snapshotDir = "snapshots"
	}

	g.spawnInitialStems()

	if !g.headless {
		g.initViewer()
	}

	return g, nil
}

// spawnInitialStems places the configured stems, or one default stem.
func (g *Game) spawnInitialStems() {
	if len(g.cfg.Stems) == 0 {
		g.SpawnStem(stemName(0), r3.Vec{}, g.cfg.Stem.Params)
		return
	}
	for _, s := range g.cfg.Stems {
		g.SpawnStem(s.Name, r3.Vec{X: s.Base[0], Y: s.Base[1], Z: s.Base[2]}, s.Params)
	}
}

// SpawnStem creates a new, ungrown stem instance.
func (g *Game) SpawnStem(name string, base r3.Vec, params components.Params) ecs.Entity {
	id := g.nextID
	g.nextID++

	stem := components.Stem{ID: id, Name: name, Params: params.Clamped()}
	transform := components.Transform{Base: base}
	growth := components.Growth{State: components.NewGrowthState()}
	shape := components.Shape{}
	mesh := components.Mesh{}

	entity := g.stemMapper.NewEntity(&stem, &transform, &growth, &shape, &mesh)
	g.collector.RecordSpawn()

	slog.Debug("stem spawned", "id", id, "name", name, "age", stem.Params.Age)
	return entity
}

// Despawn queues a stem for removal at the end of the current tick.
func (g *Game) Despawn(entity ecs.Entity) {
	if !g.world.Alive(entity) {
		return
	}
	g.toRemove = append(g.toRemove, entity)
}

// SetParams replaces a stem's parameters, clamping them into range.
// The next tick decides whether anything must be regenerated.
func (g *Game) SetParams(entity ecs.Entity, params components.Params) bool {
	if !g.world.Alive(entity) || !g.stemMap.Has(entity) {
		return false
	}
	g.stemMap.Get(entity).Params = params.Clamped()
	return true
}

// Regrow restarts a stem's growth from zero length.
func (g *Game) Regrow(entity ecs.Entity) bool {
	if !g.world.Alive(entity) || !g.growthMap.Has(entity) {
		return false
	}
	g.growthMap.Get(entity).State.CurrentLength = 0
	return true
}

func stemName(n uint32) string {
	return fmt.Sprintf("stem-%d", n)
}

// StemView is a read-only snapshot of one stem.
type StemView struct {
	Entity  ecs.Entity
	ID      uint32
	Name    string
	Base    r3.Vec
	Params  components.Params
	State   components.GrowthState
	Points  components.Centerline
	Mesh    components.TubeMesh
	Version uint64
}

// Stems returns a snapshot of every live stem.
func (g *Game) Stems() []StemView {
	var views []StemView

	query := g.stemFilter.Query()
	for query.Next() {
		stem, transform, growth, shape, mesh := query.Get()
		views = append(views, StemView{
			Entity:  query.Entity(),
			ID:      stem.ID,
			Name:    stem.Name,
			Base:    transform.Base,
			Params:  stem.Params,
			State:   growth.State,
			Points:  shape.Points,
			Mesh:    mesh.Tube,
			Version: mesh.Version,
		})
	}
	return views
}

// StemCount returns the number of live stems.
func (g *Game) StemCount() int {
	n := 0
	query := g.stemFilter.Query()
	for query.Next() {
		n++
	}
	return n
}

// Tick returns the number of completed ticks.
func (g *Game) Tick() int32 {
	return g.tick
}

// Unload releases output files and GPU resources.
func (g *Game) Unload() {
	if g.stemRenderer != nil {
		g.stemRenderer.Unload()
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
