package game

import (
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/stem/components"
	"github.com/pthm-cable/stem/telemetry"
)

// Snapshot captures every stem's parameters and growth state.
func (g *Game) Snapshot() *telemetry.Snapshot {
	snap := &telemetry.Snapshot{
		Version:   telemetry.SnapshotVersion,
		NoiseKind: g.noiseKind,
		NoiseSeed: g.noiseSeed,
		Tick:      g.tick,
	}

	query := g.stemFilter.Query()
	for query.Next() {
		stem, transform, growth, _, _ := query.Get()
		base := [3]float64{transform.Base.X, transform.Base.Y, transform.Base.Z}
		snap.Stems = append(snap.Stems, telemetry.NewStemState(stem.ID, stem.Name, base, stem.Params, growth.State))
	}
	return snap
}

// SaveSnapshot writes the current snapshot into dir.
func (g *Game) SaveSnapshot(dir string) (string, error) {
	path, err := telemetry.SaveSnapshot(g.Snapshot(), dir)
	if err != nil {
		return "", err
	}
	slog.Info("snapshot saved", "path", path, "tick", g.tick)
	return path, nil
}

// RestoreSnapshot replaces every stem with the snapshot's stems and
// rebuilds their geometry from the stored growth state. Stem IDs are
// reassigned.
// The noise source is not changed; a snapshot taken with different noise
// restores the same lengths with different shapes.
func (g *Game) RestoreSnapshot(snap *telemetry.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("nil snapshot")
	}
	if snap.NoiseKind != g.noiseKind || snap.NoiseSeed != g.noiseSeed {
		slog.Warn("snapshot noise differs from current noise",
			"snapshot_kind", snap.NoiseKind,
			"snapshot_seed", snap.NoiseSeed,
			"kind", g.noiseKind,
			"seed", g.noiseSeed,
		)
	}

	var existing []ecs.Entity
	query := g.stemFilter.Query()
	for query.Next() {
		existing = append(existing, query.Entity())
	}
	g.toRemove = append(g.toRemove, existing...)
	g.cleanupRemoved()

	lengthPerAge := g.growth.Config().LengthPerAge
	for _, s := range snap.Stems {
		params := s.ToParams()
		entity := g.SpawnStem(s.Name, r3.Vec{X: s.Base[0], Y: s.Base[1], Z: s.Base[2]}, params)
		g.rebuild(entity, s.ToGrowthState(lengthPerAge*params.Age, params.RateOfGrowth*g.cfg.Physics.DT))
	}
	g.tick = snap.Tick
	g.collector.Reset(g.tick)
	g.selectFirst()

	slog.Info("snapshot restored", "stems", len(snap.Stems), "tick", snap.Tick)
	return nil
}

// rebuild sets a stem's growth state and regenerates its centerline and
// mesh from it.
func (g *Game) rebuild(entity ecs.Entity, state components.GrowthState) {
	g.growthMap.Get(entity).State = state

	points := g.growth.Centerline(state.CurrentLength, state.Roughness)
	mesh := g.meshMap.Get(entity)
	g.shapeMap.Get(entity).Points = points
	mesh.Tube = g.mesher.Build(points, state.Thickness)
	mesh.Version++
}
