package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/stem/components"
)

// constNoise returns the same sample everywhere.
type constNoise float64

func (c constNoise) Sample(x, y float64) float64 { return float64(c) }

func newTestSimulator() *GrowthSimulator {
	return NewGrowthSimulator(DefaultGrowthConfig(), NewPerlinNoise(1))
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAdvanceFirstTickScenario(t *testing.T) {
	sim := newTestSimulator()
	params := components.Params{Age: 1, RateOfGrowth: 1, Roughness: 0, Thickness: 10}

	state, points, ok := sim.Advance(components.NewGrowthState(), params, 1.0)
	if !ok {
		t.Fatal("expected regeneration on first tick")
	}
	if state.MaxLength != 5 {
		t.Errorf("MaxLength = %v, want 5", state.MaxLength)
	}
	if state.CurrentLength != 1 {
		t.Errorf("CurrentLength = %v, want 1", state.CurrentLength)
	}
	if len(points) != 10 {
		t.Fatalf("got %d points, want 10", len(points))
	}

	// Roughness 0: direction is (0, 0, 1) and every sample sits on the
	// noise lattice (0.5), so z accumulates by 0.5 per point.
	for i, p := range points {
		wantY := float64(i) * 0.5
		wantZ := 0.5 * float64(i+1)
		if !approx(p.X, 0) || !approx(p.Y, wantY) || !approx(p.Z, wantZ) {
			t.Errorf("point %d = %+v, want (0, %v, %v)", i, p, wantY, wantZ)
		}
	}
}

func TestAdvanceMaxLengthTracksAge(t *testing.T) {
	sim := newTestSimulator()
	state := components.NewGrowthState()

	for _, age := range []float64{1, 2.5, 7, 10, 3, 0, 42} {
		params := components.Params{Age: age, RateOfGrowth: 2, Roughness: 1, Thickness: 5}
		state, _, _ = sim.Advance(state, params, 0.1)

		want := 5 * params.Clamped().Age
		if !approx(state.MaxLength, want) {
			t.Errorf("age %v: MaxLength = %v, want %v", age, state.MaxLength, want)
		}
	}
}

func TestAdvanceResetsOnAgeChange(t *testing.T) {
	sim := newTestSimulator()
	params := components.Params{Age: 2, RateOfGrowth: 5, Roughness: 0, Thickness: 10}

	state := components.NewGrowthState()
	for i := 0; i < 10; i++ {
		state, _, _ = sim.Advance(state, params, 0.1)
	}
	if state.CurrentLength <= 0 {
		t.Fatalf("expected growth, got length %v", state.CurrentLength)
	}

	params.Age = 3
	state, _, ok := sim.Advance(state, params, 0.1)
	if !ok {
		t.Fatal("expected regeneration after age change")
	}
	// Reset to 0 then one tick of growth
	if !approx(state.CurrentLength, 0.5) {
		t.Errorf("CurrentLength = %v, want 0.5 after reset", state.CurrentLength)
	}
	if state.MaxLength != 15 {
		t.Errorf("MaxLength = %v, want 15", state.MaxLength)
	}
}

func TestAdvancePointCountMatchesLength(t *testing.T) {
	sim := newTestSimulator()
	params := components.Params{Age: 4, RateOfGrowth: 3, Roughness: 2.5, Thickness: 8}
	state := components.NewGrowthState()

	for tick := 0; tick < 200; tick++ {
		var points components.Centerline
		var ok bool
		state, points, ok = sim.Advance(state, params, 1.0/60)
		if !ok {
			continue
		}
		want := int(math.RoundToEven(state.CurrentLength * 10))
		if want < 2 {
			want = 0
		}
		if len(points) != want {
			t.Fatalf("tick %d: %d points for length %v, want %d", tick, len(points), state.CurrentLength, want)
		}
	}
}

func TestAdvanceShortStemIsEmpty(t *testing.T) {
	sim := newTestSimulator()
	params := components.Params{Age: 1, RateOfGrowth: 1, Roughness: 3, Thickness: 10}

	// 0.1 length -> 1 point, below the loftable minimum
	state, points, ok := sim.Advance(components.NewGrowthState(), params, 0.1)
	if !ok {
		t.Fatal("expected regeneration while growing")
	}
	if len(points) != 0 {
		t.Errorf("got %d points, want empty centerline", len(points))
	}
	if !approx(state.CurrentLength, 0.1) {
		t.Errorf("CurrentLength = %v, want 0.1", state.CurrentLength)
	}
}

func TestAdvanceIdempotentWhenGrown(t *testing.T) {
	sim := newTestSimulator()
	params := components.Params{Age: 1, RateOfGrowth: 10, Roughness: 4, Thickness: 12}

	state := components.NewGrowthState()
	for state.CurrentLength < state.MaxLength {
		state, _, _ = sim.Advance(state, params, 0.25)
	}

	grown := state
	for i := 0; i < 2; i++ {
		var ok bool
		state, _, ok = sim.Advance(state, params, 0)
		if ok {
			t.Fatalf("call %d: expected no change for a fully grown stem", i)
		}
	}
	if state != grown {
		t.Errorf("state changed without regeneration: %+v -> %+v", grown, state)
	}

	// A parameter change triggers exactly one regeneration
	params.Thickness = 15
	state, _, ok := sim.Advance(state, params, 0)
	if !ok {
		t.Fatal("expected regeneration after thickness change")
	}
	if _, _, ok := sim.Advance(state, params, 0); ok {
		t.Error("expected no change on the following call")
	}
}

func TestAdvanceRoughnessChangeTriggers(t *testing.T) {
	sim := newTestSimulator()
	params := components.Params{Age: 1, RateOfGrowth: 10, Roughness: 1, Thickness: 10}

	state := components.NewGrowthState()
	for state.CurrentLength < state.MaxLength {
		state, _, _ = sim.Advance(state, params, 0.5)
	}

	// Within tolerance: no change
	params.Roughness = 1 + 1e-9
	if _, _, ok := sim.Advance(state, params, 0); ok {
		t.Error("expected roughness within tolerance to be ignored")
	}

	params.Roughness = 2
	next, _, ok := sim.Advance(state, params, 0)
	if !ok {
		t.Fatal("expected regeneration after roughness change")
	}
	if next.Roughness != 2 {
		t.Errorf("stored roughness = %v, want 2", next.Roughness)
	}
}

func TestAdvanceOvershootNotCorrected(t *testing.T) {
	sim := newTestSimulator()
	params := components.Params{Age: 1, RateOfGrowth: 10, Roughness: 0, Thickness: 10}

	state := components.GrowthState{CurrentLength: 4.9, MaxLength: 5, Thickness: 10}
	state, _, _ = sim.Advance(state, params, 0.5)
	if !approx(state.CurrentLength, 9.9) {
		t.Errorf("CurrentLength = %v, want 9.9 (overshoot kept)", state.CurrentLength)
	}
}

func TestAdvanceNegativeDeltaIgnored(t *testing.T) {
	sim := newTestSimulator()
	params := components.DefaultParams()

	state, _, _ := sim.Advance(components.NewGrowthState(), params, -3)
	if state.CurrentLength != 0 {
		t.Errorf("CurrentLength = %v, want 0 for negative dt", state.CurrentLength)
	}
}

func TestCenterlineDriftAccumulates(t *testing.T) {
	sim := NewGrowthSimulator(DefaultGrowthConfig(), constNoise(0.2))

	// Roughness 1: direction sweeps half a turn from (0,0,1) to (0,0,-1)
	points := sim.Centerline(1.0, 1)
	if len(points) != 10 {
		t.Fatalf("got %d points, want 10", len(points))
	}

	var x, z float64
	for i, p := range points {
		angle := float64(i) / 9 * math.Pi
		x += math.Sin(angle) * 0.2
		z += math.Cos(angle) * 0.2
		if !approx(p.X, x) || !approx(p.Z, z) || !approx(p.Y, float64(i)*0.5) {
			t.Errorf("point %d = %+v, want (%v, %v, %v)", i, p, x, float64(i)*0.5, z)
		}
	}
}

func TestPointCountRounding(t *testing.T) {
	sim := newTestSimulator()

	testCases := []struct {
		length float64
		want   int
	}{
		{0, 0},
		{-1, 0},
		{0.04, 0},
		{0.125, 1},
		{0.25, 2}, // half to even
		{0.375, 4},
		{0.75, 8}, // half to even
		{1, 10},
		{5.03, 50},
	}

	for _, tc := range testCases {
		if got := sim.PointCount(tc.length); got != tc.want {
			t.Errorf("PointCount(%v) = %d, want %d", tc.length, got, tc.want)
		}
	}
}
