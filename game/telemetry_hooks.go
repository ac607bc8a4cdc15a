package game

import (
	"log/slog"

	"github.com/pthm-cable/stem/telemetry"
)

// flushRegenerations writes this tick's rebuild records.
func (g *Game) flushRegenerations() {
	if len(g.pendingRegens) == 0 {
		return
	}
	if err := g.outputManager.WriteRegenerations(g.pendingRegens); err != nil {
		slog.Error("failed to write regenerations", "error", err)
	}
	g.pendingRegens = g.pendingRegens[:0]
}

// flushTelemetry checks if the stats window should be flushed.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.sampleStems())
	perfStats := g.perfCollector.Stats()

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}
	if logWriter != nil {
		g.logWorldState()
		g.logPerfStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// sampleStems snapshots every stem for window statistics.
func (g *Game) sampleStems() []telemetry.StemSample {
	var samples []telemetry.StemSample

	query := g.stemFilter.Query()
	for query.Next() {
		_, _, growth, _, mesh := query.Get()
		samples = append(samples, telemetry.StemSample{
			Length:    growth.State.CurrentLength,
			Grown:     growth.State.CurrentLength >= growth.State.MaxLength,
			Vertices:  mesh.Tube.VertexCount(),
			Triangles: mesh.Tube.TriangleCount(),
		})
	}
	return samples
}
