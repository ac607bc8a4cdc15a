// Package components defines the stem data model and its ECS components.
package components

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Parameter ranges. Values outside are clamped, never rejected.
const (
	MinAge, MaxAge                   = 1.0, 10.0
	MinRateOfGrowth, MaxRateOfGrowth = 1.0, 10.0
	MinRoughness, MaxRoughness       = 0.0, 10.0
	MinThickness, MaxThickness       = 3.0, 20.0
)

// Params are the externally tunable growth parameters of a stem.
type Params struct {
	Age          float64 `yaml:"age"`            // 1-10, drives target length
	RateOfGrowth float64 `yaml:"rate_of_growth"` // 1-10, length units per second
	Roughness    float64 `yaml:"roughness"`      // 0-10, lateral wander and noise row
	Thickness    float64 `yaml:"thickness"`      // 3-20, base radius of the tube
}

// DefaultParams returns the parameters a freshly placed stem starts with.
func DefaultParams() Params {
	return Params{
		Age:          1.0,
		RateOfGrowth: 1.0,
		Roughness:    0.0,
		Thickness:    10.0,
	}
}

// Clamped returns a copy with every field forced into its valid range.
// NaN fields collapse to the range minimum.
func (p Params) Clamped() Params {
	return Params{
		Age:          clampRange(p.Age, MinAge, MaxAge),
		RateOfGrowth: clampRange(p.RateOfGrowth, MinRateOfGrowth, MaxRateOfGrowth),
		Roughness:    clampRange(p.Roughness, MinRoughness, MaxRoughness),
		Thickness:    clampRange(p.Thickness, MinThickness, MaxThickness),
	}
}

func clampRange(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// GrowthState is the mutable per-stem growth record.
// Only the growth simulator writes it.
type GrowthState struct {
	CurrentLength float64 // Grown length so far (>= 0)
	MaxLength     float64 // Target length, tracks LengthPerAge*Age
	Roughness     float64 // Roughness the current centerline was built with
	Thickness     float64 // Thickness the current mesh was built with
}

// NewGrowthState returns the state of a stem that has not grown yet.
func NewGrowthState() GrowthState {
	return GrowthState{
		CurrentLength: 0,
		MaxLength:     5.0,
		Roughness:     0,
		Thickness:     10.0,
	}
}

// Clamped returns a copy bounded for a stem whose target length is
// target and which grows at most step per tick. MaxLength stays within
// [0, target] and CurrentLength within [0, MaxLength+step]. Roughness and
// Thickness are forced into the parameter ranges.
func (s GrowthState) Clamped(target, step float64) GrowthState {
	maxLength := clampRange(s.MaxLength, 0, max(target, 0))
	return GrowthState{
		CurrentLength: clampRange(s.CurrentLength, 0, maxLength+max(step, 0)),
		MaxLength:     maxLength,
		Roughness:     clampRange(s.Roughness, MinRoughness, MaxRoughness),
		Thickness:     clampRange(s.Thickness, MinThickness, MaxThickness),
	}
}

// Centerline is the ordered growth path of a stem, base first.
type Centerline []r3.Vec

// Segments returns the number of loftable segments.
func (c Centerline) Segments() int {
	if len(c) < 2 {
		return 0
	}
	return len(c) - 1
}

// TubeMesh holds the lofted stem skin as aligned flat buffers.
// Positions, Normals and UVs share one index space; Indices holds
// triangle triples into it.
type TubeMesh struct {
	Positions []r3.Vec
	Normals   []r3.Vec
	UVs       []r2.Vec
	Indices   []uint32
}

// VertexCount returns the number of vertices.
func (m *TubeMesh) VertexCount() int {
	return len(m.Positions)
}

// TriangleCount returns the number of triangles.
func (m *TubeMesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *TubeMesh) IsEmpty() bool {
	return len(m.Positions) == 0
}

// Bounds returns the axis-aligned box enclosing all positions.
// An empty mesh yields a zero box.
func (m *TubeMesh) Bounds() r3.Box {
	if len(m.Positions) == 0 {
		return r3.Box{}
	}
	box := r3.Box{Min: m.Positions[0], Max: m.Positions[0]}
	for _, p := range m.Positions[1:] {
		box.Min.X = math.Min(box.Min.X, p.X)
		box.Min.Y = math.Min(box.Min.Y, p.Y)
		box.Min.Z = math.Min(box.Min.Z, p.Z)
		box.Max.X = math.Max(box.Max.X, p.X)
		box.Max.Y = math.Max(box.Max.Y, p.Y)
		box.Max.Z = math.Max(box.Max.Z, p.Z)
	}
	return box
}

// ECS components

// Stem marks an entity as a stem instance and carries its parameters.
type Stem struct {
	ID     uint32
	Name   string
	Params Params
}

// Transform places a stem's base in the scene.
type Transform struct {
	Base r3.Vec
}

// Growth wraps the per-stem growth state.
type Growth struct {
	State GrowthState
}

// Shape holds the most recently generated centerline.
type Shape struct {
	Points Centerline
}

// Mesh holds the most recently built tube and a version counter
// that increments on every rebuild.
type Mesh struct {
	Tube    TubeMesh
	Version uint64
}
