package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Instances at window end
	Stems   int `csv:"stems"`
	Growing int `csv:"growing"`

	// Events during window
	Regenerations int `csv:"regenerations"`
	EmptyMeshes   int `csv:"empty_meshes"`
	Resets        int `csv:"resets"`
	Spawns        int `csv:"spawns"`
	Despawns      int `csv:"despawns"`

	// Length distribution (sampled at window end)
	LengthMean float64 `csv:"length_mean"`
	LengthP10  float64 `csv:"length_p10"`
	LengthP50  float64 `csv:"length_p50"`
	LengthP90  float64 `csv:"length_p90"`
	LengthMax  float64 `csv:"length_max"`

	// Geometry totals across all stems
	Vertices  int `csv:"vertices"`
	Triangles int `csv:"triangles"`
}

// RegenRecord describes a single centerline and mesh rebuild.
type RegenRecord struct {
	Tick          int32   `csv:"tick"`
	StemID        uint32  `csv:"stem_id"`
	Name          string  `csv:"name"`
	Age           float64 `csv:"age"`
	RateOfGrowth  float64 `csv:"rate_of_growth"`
	Roughness     float64 `csv:"roughness"`
	Thickness     float64 `csv:"thickness"`
	CurrentLength float64 `csv:"current_length"`
	MaxLength     float64 `csv:"max_length"`
	Points        int     `csv:"points"`
	Vertices      int     `csv:"vertices"`
	Triangles     int     `csv:"triangles"`
}

// LengthDistribution summarizes the stem lengths sampled at a flush.
type LengthDistribution struct {
	Mean float64
	P10  float64
	P50  float64
	P90  float64
	Max  float64
}

// Distribution computes the mean, max and linearly interpolated
// quantiles of values. The input is not modified.
func Distribution(values []float64) LengthDistribution {
	if len(values) == 0 {
		return LengthDistribution{}
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	q := func(p float64) float64 {
		return stat.Quantile(p, stat.LinInterp, sorted, nil)
	}
	return LengthDistribution{
		Mean: stat.Mean(sorted, nil),
		P10:  q(0.10),
		P50:  q(0.50),
		P90:  q(0.90),
		Max:  sorted[len(sorted)-1],
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("stems", s.Stems),
		slog.Int("growing", s.Growing),
		slog.Int("regenerations", s.Regenerations),
		slog.Int("empty_meshes", s.EmptyMeshes),
		slog.Int("resets", s.Resets),
		slog.Float64("length_mean", s.LengthMean),
		slog.Float64("length_p50", s.LengthP50),
		slog.Float64("length_max", s.LengthMax),
		slog.Int("vertices", s.Vertices),
		slog.Int("triangles", s.Triangles),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"stems", s.Stems,
		"growing", s.Growing,
		"regenerations", s.Regenerations,
		"length_mean", s.LengthMean,
		"vertices", s.Vertices,
		"triangles", s.Triangles,
	)
}
