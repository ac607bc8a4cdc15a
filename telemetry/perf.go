package telemetry

import (
	"log/slog"
	"time"
)

// Phase identifies one timed stage of a tick.
type Phase int

const (
	PhaseGrowth Phase = iota
	PhaseMesh
	PhaseCleanup
	PhaseTelemetry

	phaseCount
)

var phaseKeys = [phaseCount]string{"growth", "mesh", "cleanup", "telemetry"}

// String returns the phase key used in logs and CSV columns.
func (p Phase) String() string {
	if p < 0 || p >= phaseCount {
		return "unknown"
	}
	return phaseKeys[p]
}

// Phases lists every phase in tick order.
var Phases = []Phase{PhaseGrowth, PhaseMesh, PhaseCleanup, PhaseTelemetry}

type phaseTimes [phaseCount]time.Duration

// tickSample is one finished tick.
type tickSample struct {
	total    time.Duration
	phases   phaseTimes
	rebuilds int
	vertices int
}

// PerfCollector keeps the most recent ticks in a ring and aggregates
// them on demand.
type PerfCollector struct {
	ring   []tickSample
	next   int
	filled int

	cur       tickSample
	tickStart time.Time
	open      Phase
	openStart time.Time

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over window ticks.
// A window below 1 falls back to 60.
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 60
	}
	return &PerfCollector{
		ring: make([]tickSample, window),
		open: -1,
	}
}

// BeginTick starts timing a tick.
func (p *PerfCollector) BeginTick() {
	p.tickStart = time.Now()
	p.cur = tickSample{}
	p.open = -1
}

// Enter closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) Enter(phase Phase) {
	now := time.Now()
	p.closeOpen(now)
	p.open = phase
	p.openStart = now
}

// Add charges an externally measured duration to phase. Growth and mesh
// work interleave per stem, so the driver times them itself.
func (p *PerfCollector) Add(phase Phase, d time.Duration) {
	if phase < 0 || phase >= phaseCount {
		return
	}
	p.cur.phases[phase] += d
}

// CountRebuild records one mesh rebuild of the given vertex count.
func (p *PerfCollector) CountRebuild(vertices int) {
	p.cur.rebuilds++
	p.cur.vertices += vertices
}

// EndTick closes the running phase and stores the tick.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closeOpen(now)
	p.cur.total = now.Sub(p.tickStart)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	if p.filled < len(p.ring) {
		p.filled++
	}
}

func (p *PerfCollector) closeOpen(now time.Time) {
	if p.open >= 0 {
		p.cur.phases[p.open] += now.Sub(p.openStart)
		p.open = -1
	}
}

// Frame marks a rendered frame. Call once per frame in the viewer.
func (p *PerfCollector) Frame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats aggregates the ticks currently in the window.
type PerfStats struct {
	Ticks int

	AvgTick time.Duration
	MinTick time.Duration
	MaxTick time.Duration

	phaseAvg phaseTimes

	RebuildsPerTick float64
	VerticesPerSec  float64 // Vertices emitted per second of mesh phase time

	FPS float64
}

// Stats computes aggregates over the window.
func (p *PerfCollector) Stats() PerfStats {
	var s PerfStats
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.filled == 0 {
		return s
	}

	var total time.Duration
	var sum phaseTimes
	var rebuilds, vertices int
	for i := 0; i < p.filled; i++ {
		t := p.ring[i]
		total += t.total
		if i == 0 || t.total < s.MinTick {
			s.MinTick = t.total
		}
		s.MaxTick = max(s.MaxTick, t.total)
		for ph := range sum {
			sum[ph] += t.phases[ph]
		}
		rebuilds += t.rebuilds
		vertices += t.vertices
	}

	n := time.Duration(p.filled)
	s.Ticks = p.filled
	s.AvgTick = total / n
	for ph := range sum {
		s.phaseAvg[ph] = sum[ph] / n
	}
	s.RebuildsPerTick = float64(rebuilds) / float64(p.filled)
	if mesh := sum[PhaseMesh]; mesh > 0 {
		s.VerticesPerSec = float64(vertices) / mesh.Seconds()
	}
	return s
}

// Avg returns the average time spent in phase per tick.
func (s PerfStats) Avg(phase Phase) time.Duration {
	if phase < 0 || phase >= phaseCount {
		return 0
	}
	return s.phaseAvg[phase]
}

// Share returns phase's share of the average tick, in percent.
func (s PerfStats) Share(phase Phase) float64 {
	if s.AvgTick <= 0 {
		return 0
	}
	return float64(s.Avg(phase)) / float64(s.AvgTick) * 100
}

// TicksPerSecond is the tick rate the average tick time would allow.
func (s PerfStats) TicksPerSecond() float64 {
	if s.AvgTick <= 0 {
		return 0
	}
	return float64(time.Second) / float64(s.AvgTick)
}

// LogStats logs the window at Info level.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTick.Microseconds(),
		"max_tick_us", s.MaxTick.Microseconds(),
		"rebuilds_per_tick", s.RebuildsPerTick,
	}
	if s.VerticesPerSec > 0 {
		attrs = append(attrs, "mesh_verts_per_sec", int64(s.VerticesPerSec))
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, ph := range Phases {
		if pct := s.Share(ph); pct >= 0.1 {
			attrs = append(attrs, ph.String()+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// PerfRow is one perf.csv line.
type PerfRow struct {
	WindowEnd       int32   `csv:"window_end"`
	AvgTickUS       int64   `csv:"avg_tick_us"`
	MinTickUS       int64   `csv:"min_tick_us"`
	MaxTickUS       int64   `csv:"max_tick_us"`
	RebuildsPerTick float64 `csv:"rebuilds_per_tick"`
	MeshVertsPerSec float64 `csv:"mesh_verts_per_sec"`
	FPS             float64 `csv:"fps"`
	GrowthPct       float64 `csv:"growth_pct"`
	MeshPct         float64 `csv:"mesh_pct"`
	CleanupPct      float64 `csv:"cleanup_pct"`
	TelemetryPct    float64 `csv:"telemetry_pct"`
}

// Row flattens the stats for perf.csv.
func (s PerfStats) Row(windowEnd int32) PerfRow {
	return PerfRow{
		WindowEnd:       windowEnd,
		AvgTickUS:       s.AvgTick.Microseconds(),
		MinTickUS:       s.MinTick.Microseconds(),
		MaxTickUS:       s.MaxTick.Microseconds(),
		RebuildsPerTick: s.RebuildsPerTick,
		MeshVertsPerSec: s.VerticesPerSec,
		FPS:             s.FPS,
		GrowthPct:       s.Share(PhaseGrowth),
		MeshPct:         s.Share(PhaseMesh),
		CleanupPct:      s.Share(PhaseCleanup),
		TelemetryPct:    s.Share(PhaseTelemetry),
	}
}
