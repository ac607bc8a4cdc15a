package main

import (
	"github.com/pthm-cable/stem/components"
)

// shapeParam is one searched stem parameter. Age and roughness set the
// grown shape. Rate only moves the tip through the last tick's overshoot,
// which can change the point count by one; it is left out of the search.
// Thickness never moves the tip.
type shapeParam struct {
	name     string
	min, max float64
	field    func(*components.Params) *float64
}

var shapeParams = []shapeParam{
	{"age", components.MinAge, components.MaxAge, func(p *components.Params) *float64 { return &p.Age }},
	{"roughness", components.MinRoughness, components.MaxRoughness, func(p *components.Params) *float64 { return &p.Roughness }},
}

// ParamVector maps stem parameters to the unit cube the optimizer
// searches and back.
type ParamVector struct {
	start components.Params
}

// NewParamVector starts the search from base.
func NewParamVector(base components.Params) *ParamVector {
	return &ParamVector{start: base.Clamped()}
}

// Dim returns the number of searched parameters.
func (pv *ParamVector) Dim() int {
	return len(shapeParams)
}

// Names returns the parameter names in vector order.
func (pv *ParamVector) Names() []string {
	names := make([]string, len(shapeParams))
	for i, sp := range shapeParams {
		names[i] = sp.name
	}
	return names
}

// DefaultVector returns the starting parameter values.
func (pv *ParamVector) DefaultVector() []float64 {
	start := pv.start
	v := make([]float64, len(shapeParams))
	for i, sp := range shapeParams {
		v[i] = *sp.field(&start)
	}
	return v
}

// Normalize maps raw values into [0, 1] per parameter range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	out := make([]float64, len(shapeParams))
	for i, sp := range shapeParams {
		out[i] = (raw[i] - sp.min) / (sp.max - sp.min)
	}
	return out
}

// Denormalize maps unit values back to parameter ranges. Values outside
// [0, 1] map outside the range; Apply clamps them.
func (pv *ParamVector) Denormalize(unit []float64) []float64 {
	out := make([]float64, len(shapeParams))
	for i, sp := range shapeParams {
		out[i] = sp.min + unit[i]*(sp.max-sp.min)
	}
	return out
}

// Apply writes values into a copy of base and clamps the result.
func (pv *ParamVector) Apply(base components.Params, values []float64) components.Params {
	p := base
	for i, sp := range shapeParams {
		*sp.field(&p) = values[i]
	}
	return p.Clamped()
}
