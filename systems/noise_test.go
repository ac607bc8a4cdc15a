package systems

import (
	"math"
	"testing"
)

func TestPerlinSampleLattice(t *testing.T) {
	p := NewPerlinNoise(7)

	// Gradient noise vanishes on integer lattice points
	for _, tc := range []struct{ x, y float64 }{
		{0, 0}, {1, 0}, {9, 0}, {3, 4}, {-2, 10},
	} {
		if got := p.Sample(tc.x, tc.y); got != 0.5 {
			t.Errorf("Sample(%v, %v) = %v, want 0.5", tc.x, tc.y, got)
		}
	}
}

func TestNoiseSourcesInRange(t *testing.T) {
	sources := map[string]NoiseSource{
		NoisePerlin:      NewPerlinNoise(1),
		NoiseOpenSimplex: NewSimplexNoise(1),
	}

	for name, src := range sources {
		for i := 0; i < 500; i++ {
			x := float64(i) * 0.37
			y := float64(i%23) * 0.41
			v := src.Sample(x, y)
			if v < 0 || v > 1 || math.IsNaN(v) {
				t.Fatalf("%s: Sample(%v, %v) = %v, want [0, 1]", name, x, y, v)
			}
		}
	}
}

func TestPerlinDeterministic(t *testing.T) {
	a := NewPerlinNoise(42)
	b := NewPerlinNoise(42)

	for i := 0; i < 50; i++ {
		x, y := float64(i)*0.13, float64(i)*0.29
		if a.Sample(x, y) != b.Sample(x, y) {
			t.Fatalf("same seed diverged at (%v, %v)", x, y)
		}
	}
}

func TestNewNoiseSource(t *testing.T) {
	if _, err := NewNoiseSource(NoisePerlin, 0); err != nil {
		t.Errorf("perlin: unexpected error %v", err)
	}
	if _, err := NewNoiseSource(NoiseOpenSimplex, 0); err != nil {
		t.Errorf("opensimplex: unexpected error %v", err)
	}
	if _, err := NewNoiseSource("", 0); err != nil {
		t.Errorf("empty kind should default to perlin, got %v", err)
	}
	if _, err := NewNoiseSource("worley", 0); err == nil {
		t.Error("expected error for unknown noise kind")
	}
}

func TestPerlinNoise2DVaries(t *testing.T) {
	p := NewPerlinNoise(3)

	distinct := map[float64]bool{}
	for i := 0; i < 64; i++ {
		x, y := float64(i)*0.31+0.05, float64(i%7)*0.53+0.05
		v := p.Noise2D(x, y)
		if v < -1 || v > 1 {
			t.Fatalf("Noise2D(%v, %v) = %v, want [-1, 1]", x, y, v)
		}
		distinct[v] = true
	}
	if len(distinct) < 32 {
		t.Errorf("only %d distinct values over 64 off-lattice samples", len(distinct))
	}
}

func TestPerlinSeedsDiffer(t *testing.T) {
	a, b := NewPerlinNoise(1), NewPerlinNoise(2)

	same := 0
	for i := 0; i < 32; i++ {
		x, y := float64(i)*0.37+0.1, 0.5
		if a.Noise2D(x, y) == b.Noise2D(x, y) {
			same++
		}
	}
	if same == 32 {
		t.Error("different seeds produced identical noise")
	}
}
