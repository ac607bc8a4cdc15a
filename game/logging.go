package game

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pthm-cable/stem/telemetry"
	"github.com/pthm-cable/stem/ui"
)

// logWriter receives the plain-text stem and phase tables.
var logWriter io.Writer

// SetLogWriter sets the table destination. Nil sends tables to stdout.
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// Logf writes one line of table output.
func Logf(format string, args ...any) {
	w := logWriter
	if w == nil {
		w = os.Stdout
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// phaseRows labels the current perf window in tick order.
func (g *Game) phaseRows(stats telemetry.PerfStats) []ui.PerfRow {
	rows := make([]ui.PerfRow, 0, len(telemetry.Phases))
	for _, ph := range telemetry.Phases {
		rows = append(rows, ui.PerfRow{
			Label: g.stages.Label(ph.String()),
			Avg:   stats.Avg(ph),
			Pct:   stats.Share(ph),
		})
	}
	return rows
}

func (g *Game) perfPanelData() ui.PerfPanelData {
	stats := g.perfCollector.Stats()
	return ui.PerfPanelData{
		Rows:            g.phaseRows(stats),
		Total:           stats.AvgTick,
		RebuildsPerTick: stats.RebuildsPerTick,
		VerticesPerSec:  stats.VerticesPerSec,
	}
}

// logPerfStats prints a per-phase timing table.
func (g *Game) logPerfStats() {
	stats := g.perfCollector.Stats()
	Logf("=== Perf @ Tick %d (%d ticks) ===", g.tick, stats.Ticks)
	Logf("Avg tick: %s  (min %s, max %s)  rebuilds/tick %.2f",
		stats.AvgTick.Round(time.Microsecond),
		stats.MinTick.Round(time.Microsecond),
		stats.MaxTick.Round(time.Microsecond),
		stats.RebuildsPerTick,
	)
	for _, row := range g.phaseRows(stats) {
		Logf("  %-18s %10s  %5.1f%%", row.Label, row.Avg.Round(time.Microsecond), row.Pct)
	}
	Logf("")
}

// logWorldState prints one line per stem.
func (g *Game) logWorldState() {
	stems := g.Stems()
	Logf("=== Stems @ Tick %d: %d ===", g.tick, len(stems))
	for _, s := range stems {
		Logf("  #%-3d %-12s age=%.1f len=%.2f/%.2f points=%d verts=%d tris=%d",
			s.ID, s.Name, s.Params.Age,
			s.State.CurrentLength, s.State.MaxLength,
			len(s.Points), s.Mesh.VertexCount(), s.Mesh.TriangleCount(),
		)
	}
	Logf("")
}
