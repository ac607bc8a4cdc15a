package game

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/stem/components"
	"github.com/pthm-cable/stem/config"
	"github.com/pthm-cable/stem/telemetry"
)

func newTestGame(t *testing.T, opts Options) *Game {
	t.Helper()
	if opts.Config == nil {
		opts.Config = config.Defaults()
	}
	opts.Headless = true

	g, err := NewGameWithOptions(opts)
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	t.Cleanup(g.Unload)
	return g
}

func viewOf(t *testing.T, g *Game, entity ecs.Entity) StemView {
	t.Helper()
	for _, v := range g.Stems() {
		if v.Entity == entity {
			return v
		}
	}
	t.Fatalf("stem %v not found", entity)
	return StemView{}
}

func TestNewGameSpawnsDefaultStem(t *testing.T) {
	g := newTestGame(t, Options{})

	stems := g.Stems()
	if len(stems) != 1 {
		t.Fatalf("got %d stems, want 1", len(stems))
	}
	s := stems[0]
	if s.Name != "stem-0" {
		t.Errorf("Name = %q, want stem-0", s.Name)
	}
	if s.Params != components.DefaultParams() {
		t.Errorf("Params = %+v, want defaults", s.Params)
	}
	if s.State != components.NewGrowthState() {
		t.Errorf("State = %+v, want initial state", s.State)
	}
	if !s.Mesh.IsEmpty() || s.Version != 0 {
		t.Errorf("new stem has mesh (version %d)", s.Version)
	}
}

func TestNewGameConfiguredStems(t *testing.T) {
	cfg := config.Defaults()
	cfg.Stems = []config.StemInstance{
		{Name: "left", Base: [3]float64{-10, 0, 0}, Params: components.Params{Age: 2, RateOfGrowth: 1, Thickness: 5}},
		{Name: "right", Base: [3]float64{10, 0, 0}, Params: components.Params{Age: 4, RateOfGrowth: 3, Thickness: 8}},
	}
	g := newTestGame(t, Options{Config: cfg})

	stems := g.Stems()
	if len(stems) != 2 {
		t.Fatalf("got %d stems, want 2", len(stems))
	}
	bases := map[string]r3.Vec{}
	for _, s := range stems {
		bases[s.Name] = s.Base
	}
	if bases["left"] != (r3.Vec{X: -10}) || bases["right"] != (r3.Vec{X: 10}) {
		t.Errorf("bases = %v", bases)
	}
}

func TestStepRegeneratesFirstTick(t *testing.T) {
	g := newTestGame(t, Options{})
	g.Step(1.0)

	s := g.Stems()[0]
	if s.State.CurrentLength != 1 || s.State.MaxLength != 5 {
		t.Errorf("state = %+v, want length 1 of 5", s.State)
	}
	if len(s.Points) != 10 {
		t.Fatalf("got %d points, want 10", len(s.Points))
	}

	// 9 segments of 9 rings of 9 vertices at the default resolution
	if s.Mesh.VertexCount() != 9*9*9 {
		t.Errorf("got %d vertices, want %d", s.Mesh.VertexCount(), 9*9*9)
	}
	if err := s.Mesh.Validate(); err != nil {
		t.Errorf("invalid mesh: %v", err)
	}
	if s.Version != 1 {
		t.Errorf("Version = %d, want 1", s.Version)
	}
	if g.Tick() != 1 {
		t.Errorf("Tick = %d, want 1", g.Tick())
	}
}

func TestGrownStemKeepsMesh(t *testing.T) {
	g := newTestGame(t, Options{})
	entity := g.Stems()[0].Entity

	params := components.DefaultParams()
	params.RateOfGrowth = 10
	g.SetParams(entity, params)

	g.Step(1.0)
	grown := viewOf(t, g, entity)
	if grown.State.CurrentLength < grown.State.MaxLength {
		t.Fatalf("expected fully grown stem, got %+v", grown.State)
	}

	for i := 0; i < 5; i++ {
		g.Step(1.0)
	}
	after := viewOf(t, g, entity)
	if after.Version != grown.Version {
		t.Errorf("Version changed %d -> %d without a parameter change", grown.Version, after.Version)
	}
	if after.State != grown.State {
		t.Errorf("State changed %+v -> %+v", grown.State, after.State)
	}

	params.Thickness = 4
	g.SetParams(entity, params)
	g.Step(1.0)
	if v := viewOf(t, g, entity).Version; v != grown.Version+1 {
		t.Errorf("Version = %d after thickness change, want %d", v, grown.Version+1)
	}
}

func TestSetParamsClamps(t *testing.T) {
	g := newTestGame(t, Options{})
	entity := g.Stems()[0].Entity

	ok := g.SetParams(entity, components.Params{Age: 50, RateOfGrowth: 0, Roughness: -1, Thickness: 100})
	if !ok {
		t.Fatal("SetParams returned false for a live stem")
	}

	want := components.Params{Age: 10, RateOfGrowth: 1, Roughness: 0, Thickness: 20}
	if got := viewOf(t, g, entity).Params; got != want {
		t.Errorf("Params = %+v, want %+v", got, want)
	}
}

func TestDespawnAtTickEnd(t *testing.T) {
	g := newTestGame(t, Options{})
	entity := g.Stems()[0].Entity

	g.Despawn(entity)
	if g.StemCount() != 1 {
		t.Fatalf("stem removed before the tick ended")
	}

	g.Step(0.1)
	if g.StemCount() != 0 {
		t.Errorf("got %d stems after despawn, want 0", g.StemCount())
	}
	if g.SetParams(entity, components.DefaultParams()) {
		t.Error("SetParams succeeded on a removed stem")
	}

	// Despawning twice is harmless
	g.Despawn(entity)
	g.Step(0.1)
}

func TestStemsAreIndependent(t *testing.T) {
	g := newTestGame(t, Options{})
	first := g.Stems()[0].Entity
	second := g.SpawnStem("second", r3.Vec{X: 30}, components.Params{Age: 3, RateOfGrowth: 2, Roughness: 4, Thickness: 6})

	g.Step(0.5)

	a, b := viewOf(t, g, first), viewOf(t, g, second)
	if a.State.MaxLength != 5 || b.State.MaxLength != 15 {
		t.Errorf("MaxLength = %v, %v; want 5, 15", a.State.MaxLength, b.State.MaxLength)
	}
	if a.State.CurrentLength != 0.5 || b.State.CurrentLength != 1 {
		t.Errorf("CurrentLength = %v, %v; want 0.5, 1", a.State.CurrentLength, b.State.CurrentLength)
	}
	if a.ID == b.ID {
		t.Errorf("stems share ID %d", a.ID)
	}
}

func TestRegrowRestartsGrowth(t *testing.T) {
	g := newTestGame(t, Options{})
	entity := g.Stems()[0].Entity

	g.Step(2.0)
	if !g.Regrow(entity) {
		t.Fatal("Regrow returned false for a live stem")
	}
	g.Step(0.5)

	if got := viewOf(t, g, entity).State.CurrentLength; got != 0.5 {
		t.Errorf("CurrentLength = %v after regrow, want 0.5", got)
	}
}

func TestOutputDirWritesFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Defaults()
	g, err := NewGameWithOptions(Options{Config: cfg, OutputDir: dir, Headless: true})
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}

	ticks := cfg.Derived.StatsWindowTicks + 1
	for i := 0; i < ticks; i++ {
		g.Step(cfg.Physics.DT)
	}
	g.Unload()

	for _, name := range []string{"config.yaml", "growth.csv", "telemetry.csv", "perf.csv"} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "growth.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != ticks+1 {
		t.Errorf("growth.csv has %d lines, want header + %d rows", len(lines), ticks)
	}
}

func TestExportOBJ(t *testing.T) {
	g := newTestGame(t, Options{})
	g.SpawnStem("tall", r3.Vec{X: 30}, components.Params{Age: 2, RateOfGrowth: 5, Roughness: 2, Thickness: 5})

	// Before any growth every mesh is empty
	paths, err := g.ExportOBJ(t.TempDir())
	if err != nil || len(paths) != 0 {
		t.Fatalf("got %v, %v; want no files", paths, err)
	}

	g.Step(1.0)
	dir := t.TempDir()
	paths, err = g.ExportOBJ(dir)
	if err != nil {
		t.Fatalf("ExportOBJ: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("got %d files, want 2", len(paths))
	}
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Contains(data, []byte("\nf ")) {
			t.Errorf("%s has no faces", p)
		}
	}
}

func TestLogTablesWritten(t *testing.T) {
	var buf bytes.Buffer
	SetLogWriter(&buf)
	t.Cleanup(func() { SetLogWriter(nil) })

	cfg := config.Defaults()
	g := newTestGame(t, Options{Config: cfg})
	for i := 0; i <= cfg.Derived.StatsWindowTicks; i++ {
		g.Step(cfg.Physics.DT)
	}

	out := buf.String()
	if !strings.Contains(out, "=== Stems @ Tick") || !strings.Contains(out, "stem-0") {
		t.Errorf("missing stem table in log output:\n%s", out)
	}
	if !strings.Contains(out, "=== Perf @ Tick") {
		t.Errorf("missing perf table in log output:\n%s", out)
	}
}

func TestPhaseRowsLabelled(t *testing.T) {
	g := newTestGame(t, Options{})
	for i := 0; i < 3; i++ {
		g.Step(1.0 / 60)
	}

	rows := g.perfPanelData().Rows
	if len(rows) != len(telemetry.Phases) {
		t.Fatalf("got %d rows, want %d", len(rows), len(telemetry.Phases))
	}
	for i, row := range rows {
		if row.Label == telemetry.Phases[i].String() {
			t.Errorf("phase %q has no stage label", row.Label)
		}
	}
}

func TestSnapshotRestore(t *testing.T) {
	g := newTestGame(t, Options{})
	g.SpawnStem("second", r3.Vec{X: 30, Z: -4}, components.Params{Age: 2, RateOfGrowth: 3, Roughness: 6, Thickness: 9})
	for i := 0; i < 3; i++ {
		g.Step(0.5)
	}
	before := map[string]StemView{}
	for _, s := range g.Stems() {
		before[s.Name] = s
	}

	path, err := g.SaveSnapshot(t.TempDir())
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	snap, err := telemetry.LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}

	restored := newTestGame(t, Options{})
	if err := restored.RestoreSnapshot(snap); err != nil {
		t.Fatalf("RestoreSnapshot: %v", err)
	}
	if restored.Tick() != g.Tick() {
		t.Errorf("Tick = %d, want %d", restored.Tick(), g.Tick())
	}

	after := restored.Stems()
	if len(after) != len(before) {
		t.Fatalf("got %d stems, want %d", len(after), len(before))
	}
	for _, s := range after {
		want, ok := before[s.Name]
		if !ok {
			t.Errorf("unexpected stem %q", s.Name)
			continue
		}
		if s.Base != want.Base || s.Params != want.Params || s.State != want.State {
			t.Errorf("%s: got %+v/%+v, want %+v/%+v", s.Name, s.Params, s.State, want.Params, want.State)
		}
		if len(s.Points) != len(want.Points) || s.Mesh.VertexCount() != want.Mesh.VertexCount() {
			t.Errorf("%s: geometry not rebuilt (%d points, %d vertices)", s.Name, len(s.Points), s.Mesh.VertexCount())
		}
		for i := range s.Points {
			if s.Points[i] != want.Points[i] {
				t.Errorf("%s: point %d = %+v, want %+v", s.Name, i, s.Points[i], want.Points[i])
				break
			}
		}
	}

	// Rewinding to an earlier tick restarts the stats window there
	window := int32(g.cfg.Derived.StatsWindowTicks)
	for i := int32(0); i <= window; i++ {
		g.Step(g.cfg.Physics.DT)
	}
	if err := g.RestoreSnapshot(snap); err != nil {
		t.Fatalf("RestoreSnapshot (rewind): %v", err)
	}
	if g.Tick() != snap.Tick {
		t.Fatalf("Tick = %d, want %d", g.Tick(), snap.Tick)
	}
	if g.collector.ShouldFlush(snap.Tick + window - 1) {
		t.Error("stats window closed early after rewind")
	}
	if !g.collector.ShouldFlush(snap.Tick + window) {
		t.Error("stats window never closes after rewind")
	}
}

func TestRestoreSnapshotBoundsStoredState(t *testing.T) {
	g := newTestGame(t, Options{})
	snap := &telemetry.Snapshot{
		Version: telemetry.SnapshotVersion,
		Stems: []telemetry.StemState{{
			Name:          "corrupt",
			Params:        telemetry.ParamsJSON{Age: 1, RateOfGrowth: 1, Roughness: 2, Thickness: 8},
			CurrentLength: 1e12,
			MaxLength:     5,
			Roughness:     99,
			Thickness:     -4,
		}},
	}

	if err := g.RestoreSnapshot(snap); err != nil {
		t.Fatalf("RestoreSnapshot: %v", err)
	}
	stems := g.Stems()
	if len(stems) != 1 {
		t.Fatalf("got %d stems, want 1", len(stems))
	}
	s := stems[0]
	if s.State.CurrentLength > s.State.MaxLength+g.cfg.Physics.DT {
		t.Errorf("CurrentLength = %v, want at most one tick past %v", s.State.CurrentLength, s.State.MaxLength)
	}
	if s.State.Roughness != components.MaxRoughness || s.State.Thickness != components.MinThickness {
		t.Errorf("roughness/thickness = %v/%v, want clamped", s.State.Roughness, s.State.Thickness)
	}
	if err := s.Mesh.Validate(); err != nil {
		t.Errorf("rebuilt mesh invalid: %v", err)
	}
}
