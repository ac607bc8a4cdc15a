package telemetry

// Collector accumulates regeneration events over a time window.
type Collector struct {
	windowDurationTicks int32
	dt                  float64

	windowStartTick int32

	regenerations int
	emptyMeshes   int
	resets        int
	spawns        int
	despawns      int
}

// NewCollector creates a collector that flushes every windowDurationSec
// of simulated time.
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int32(1)
	if dt > 0 {
		ticksPerWindow = int32(windowDurationSec / dt)
	}
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordRegeneration counts a centerline rebuild. empty marks a rebuild
// whose centerline was too short to loft.
func (c *Collector) RecordRegeneration(empty bool) {
	c.regenerations++
	if empty {
		c.emptyMeshes++
	}
}

// RecordReset counts a growth reset caused by an age change.
func (c *Collector) RecordReset() {
	c.resets++
}

// RecordSpawn counts a new stem instance.
func (c *Collector) RecordSpawn() {
	c.spawns++
}

// RecordDespawn counts a removed stem instance.
func (c *Collector) RecordDespawn() {
	c.despawns++
}

// ShouldFlush returns true if the current window has elapsed.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// StemSample is the per-stem snapshot taken at flush time.
type StemSample struct {
	Length    float64
	Grown     bool
	Vertices  int
	Triangles int
}

// Flush builds window stats from the accumulated events and the given
// snapshot, then starts a new window.
func (c *Collector) Flush(currentTick int32, stems []StemSample) WindowStats {
	lengths := make([]float64, len(stems))
	var growing, vertices, triangles int
	for i, s := range stems {
		lengths[i] = s.Length
		if !s.Grown {
			growing++
		}
		vertices += s.Vertices
		triangles += s.Triangles
	}
	dist := Distribution(lengths)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Stems:   len(stems),
		Growing: growing,

		Regenerations: c.regenerations,
		EmptyMeshes:   c.emptyMeshes,
		Resets:        c.resets,
		Spawns:        c.spawns,
		Despawns:      c.despawns,

		LengthMean: dist.Mean,
		LengthP10:  dist.P10,
		LengthP50:  dist.P50,
		LengthP90:  dist.P90,
		LengthMax:  dist.Max,

		Vertices:  vertices,
		Triangles: triangles,
	}

	c.Reset(currentTick)
	return stats
}

// Reset drops the accumulated events and starts a new window at tick.
func (c *Collector) Reset(tick int32) {
	c.windowStartTick = tick
	c.regenerations = 0
	c.emptyMeshes = 0
	c.resets = 0
	c.spawns = 0
	c.despawns = 0
}
