package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/stem/components"
)

// Growth defaults
const (
	defaultLengthPerAge   = 5.0  // Target length per unit of age
	defaultPointsPerUnit  = 10.0 // Centerline density
	defaultRisePerPoint   = 0.5  // Vertical spacing between centerline points
	defaultNoiseFrequency = 1.0
	defaultNoiseAmplitude = 1.0
	defaultEpsilon        = 1e-6 // Relative tolerance for parameter change detection
)

// GrowthConfig holds the fixed constants of the growth simulation.
type GrowthConfig struct {
	LengthPerAge   float64
	PointsPerUnit  float64
	RisePerPoint   float64
	NoiseFrequency float64
	NoiseAmplitude float64
	Epsilon        float64
}

// DefaultGrowthConfig returns the stock growth constants.
func DefaultGrowthConfig() GrowthConfig {
	return GrowthConfig{
		LengthPerAge:   defaultLengthPerAge,
		PointsPerUnit:  defaultPointsPerUnit,
		RisePerPoint:   defaultRisePerPoint,
		NoiseFrequency: defaultNoiseFrequency,
		NoiseAmplitude: defaultNoiseAmplitude,
		Epsilon:        defaultEpsilon,
	}
}

// GrowthSimulator advances stem length and regenerates centerlines.
// It holds no per-stem state; callers pass GrowthState in and out.
type GrowthSimulator struct {
	cfg   GrowthConfig
	noise NoiseSource
}

// NewGrowthSimulator creates a simulator sampling the given noise source.
func NewGrowthSimulator(cfg GrowthConfig, noise NoiseSource) *GrowthSimulator {
	return &GrowthSimulator{cfg: cfg, noise: noise}
}

// Config returns the simulator constants.
func (g *GrowthSimulator) Config() GrowthConfig {
	return g.cfg
}

// Advance steps one stem by dt seconds.
// When no regeneration is needed it returns the state unchanged and
// ok=false; the caller must leave the mesh alone. Otherwise it returns the
// new state and a freshly generated centerline, which is empty when fewer
// than two points fit the current length.
func (g *GrowthSimulator) Advance(state components.GrowthState, params components.Params, dt float64) (components.GrowthState, components.Centerline, bool) {
	params = params.Clamped()
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}

	target := g.cfg.LengthPerAge * params.Age
	if !approxEqual(target, state.MaxLength, g.cfg.Epsilon) {
		state.CurrentLength = 0
		state.MaxLength = target
	}

	if state.CurrentLength >= state.MaxLength &&
		approxEqual(params.Thickness, state.Thickness, g.cfg.Epsilon) &&
		approxEqual(params.Roughness, state.Roughness, g.cfg.Epsilon) {
		return state, nil, false
	}

	state.Roughness = params.Roughness
	state.Thickness = params.Thickness
	// Growth may overshoot MaxLength by up to one tick.
	state.CurrentLength += params.RateOfGrowth * dt

	return state, g.Centerline(state.CurrentLength, params.Roughness), true
}

// PointCount returns the number of centerline points for a grown length.
func (g *GrowthSimulator) PointCount(length float64) int {
	return roundCount(length * g.cfg.PointsPerUnit)
}

// Centerline generates the growth path for a stem of the given length.
//
// Each point rises RisePerPoint above the previous one while a noise-scaled
// lateral step along (sin(t*r*pi), 0, cos(t*r*pi)) is added to the running
// position, so drift accumulates from base to tip. Roughness is also the
// second noise coordinate.
func (g *GrowthSimulator) Centerline(length, roughness float64) components.Centerline {
	n := g.PointCount(length)
	if n < 2 {
		return components.Centerline{}
	}

	points := make(components.Centerline, 0, n)
	var pos r3.Vec
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		pos.Y = float64(i) * g.cfg.RisePerPoint

		mag := g.noise.Sample(float64(i)*g.cfg.NoiseFrequency, roughness) * g.cfg.NoiseAmplitude

		angle := t * roughness * math.Pi
		pos = r3.Add(pos, r3.Vec{X: math.Sin(angle) * mag, Z: math.Cos(angle) * mag})

		points = append(points, pos)
	}
	return points
}
