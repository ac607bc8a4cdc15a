package game

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/stem/components"
	"github.com/pthm-cable/stem/telemetry"
)

// Step runs one tick: every stem advances its growth and, when the
// centerline was regenerated, rebuilds its tube mesh.
func (g *Game) Step(dt float64) {
	g.perfCollector.BeginTick()

	g.updateStems(dt)

	g.perfCollector.Enter(telemetry.PhaseCleanup)
	g.cleanupRemoved()

	g.perfCollector.Enter(telemetry.PhaseTelemetry)
	g.flushRegenerations()
	g.flushTelemetry()

	g.perfCollector.EndTick()
	g.tick++
}

// updateStems advances every stem and rebuilds meshes for regenerated ones.
func (g *Game) updateStems(dt float64) {
	var growthTime, meshTime time.Duration

	query := g.stemFilter.Query()
	for query.Next() {
		stem, _, growth, shape, mesh := query.Get()

		start := time.Now()
		prevMax := growth.State.MaxLength
		state, points, ok := g.growth.Advance(growth.State, stem.Params, dt)
		growth.State = state
		growthTime += time.Since(start)

		if !ok {
			continue
		}
		if state.MaxLength != prevMax {
			g.collector.RecordReset()
		}

		start = time.Now()
		shape.Points = points
		mesh.Tube = g.mesher.Build(points, state.Thickness)
		mesh.Version++
		meshTime += time.Since(start)
		g.perfCollector.CountRebuild(mesh.Tube.VertexCount())

		g.collector.RecordRegeneration(mesh.Tube.IsEmpty())
		g.recordRegeneration(stem, state, points, &mesh.Tube)
	}

	g.perfCollector.Add(telemetry.PhaseGrowth, growthTime)
	g.perfCollector.Add(telemetry.PhaseMesh, meshTime)
}

// recordRegeneration queues a CSV row for one rebuild.
func (g *Game) recordRegeneration(stem *components.Stem, state components.GrowthState, points components.Centerline, tube *components.TubeMesh) {
	slog.Debug("stem regenerated",
		"tick", g.tick,
		"id", stem.ID,
		"length", state.CurrentLength,
		"points", len(points),
		"vertices", tube.VertexCount(),
	)

	if g.outputManager == nil {
		return
	}
	g.pendingRegens = append(g.pendingRegens, telemetry.RegenRecord{
		Tick:          g.tick,
		StemID:        stem.ID,
		Name:          stem.Name,
		Age:           stem.Params.Age,
		RateOfGrowth:  stem.Params.RateOfGrowth,
		Roughness:     stem.Params.Roughness,
		Thickness:     stem.Params.Thickness,
		CurrentLength: state.CurrentLength,
		MaxLength:     state.MaxLength,
		Points:        len(points),
		Vertices:      tube.VertexCount(),
		Triangles:     tube.TriangleCount(),
	})
}
