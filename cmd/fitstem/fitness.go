package main

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/stem/components"
	"github.com/pthm-cable/stem/systems"
)

// maxGrowthTicks bounds a single evaluation.
const maxGrowthTicks = 1_000_000

// FitnessEvaluator grows a stem to full length and scores how far its
// tip lands from the target.
type FitnessEvaluator struct {
	params *ParamVector
	base   components.Params
	sim    *systems.GrowthSimulator
	dt     float64
	target r3.Vec

	lastTip r3.Vec
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, base components.Params, sim *systems.GrowthSimulator, dt float64, target r3.Vec) *FitnessEvaluator {
	return &FitnessEvaluator{
		params: params,
		base:   base,
		sim:    sim,
		dt:     dt,
		target: target,
	}
}

// Evaluate returns the tip distance for raw parameter values.
func (fe *FitnessEvaluator) Evaluate(raw []float64) float64 {
	points := fe.Grow(fe.params.Apply(fe.base, raw))
	if len(points) == 0 {
		fe.lastTip = r3.Vec{}
		return math.Inf(1)
	}
	fe.lastTip = points[len(points)-1]
	return r3.Norm(r3.Sub(fe.lastTip, fe.target))
}

// LastTip returns the tip of the most recently evaluated stem.
func (fe *FitnessEvaluator) LastTip() r3.Vec {
	return fe.lastTip
}

// Grow advances a fresh stem at the evaluator's dt until it stops
// regenerating and returns its final centerline.
func (fe *FitnessEvaluator) Grow(params components.Params) components.Centerline {
	state := components.NewGrowthState()
	var last components.Centerline

	for tick := 0; tick < maxGrowthTicks; tick++ {
		next, points, ok := fe.sim.Advance(state, params, fe.dt)
		state = next
		if !ok {
			break
		}
		last = points
	}
	return last
}
