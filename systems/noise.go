package systems

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/ojrac/opensimplex-go"
)

// Noise kinds accepted by NewNoiseSource.
const (
	NoisePerlin      = "perlin"
	NoiseOpenSimplex = "opensimplex"
)

// NoiseSource samples smooth 2D noise in the [0, 1] range.
type NoiseSource interface {
	Sample(x, y float64) float64
}

// NewNoiseSource returns the noise source for the given kind.
func NewNoiseSource(kind string, seed int64) (NoiseSource, error) {
	switch kind {
	case NoisePerlin, "":
		return NewPerlinNoise(seed), nil
	case NoiseOpenSimplex:
		return NewSimplexNoise(seed), nil
	default:
		return nil, fmt.Errorf("unknown noise kind %q", kind)
	}
}

// PerlinNoise is 2D gradient noise over a seeded permutation table.
type PerlinNoise struct {
	perm [512]uint8
}

// Eight unit gradients: the axes and the diagonals.
var perlinGradients = [8][2]float64{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{math.Sqrt2 / 2, math.Sqrt2 / 2}, {-math.Sqrt2 / 2, math.Sqrt2 / 2},
	{math.Sqrt2 / 2, -math.Sqrt2 / 2}, {-math.Sqrt2 / 2, -math.Sqrt2 / 2},
}

// Unit gradients peak at sqrt(2)/2; this stretches the output to [-1, 1].
const perlinScale = math.Sqrt2

// NewPerlinNoise shuffles a permutation table from seed.
func NewPerlinNoise(seed int64) *PerlinNoise {
	p := &PerlinNoise{}
	rng := rand.New(rand.NewSource(seed))
	for i, v := range rng.Perm(256) {
		p.perm[i] = uint8(v)
		p.perm[i+256] = uint8(v)
	}
	return p
}

// Noise2D returns gradient noise in [-1, 1]. It is exactly zero on
// integer lattice points.
func (p *PerlinNoise) Noise2D(x, y float64) float64 {
	x0, y0 := math.Floor(x), math.Floor(y)
	fx, fy := x-x0, y-y0
	ix, iy := int(x0)&255, int(y0)&255

	n00 := p.corner(ix, iy, fx, fy)
	n10 := p.corner(ix+1, iy, fx-1, fy)
	n01 := p.corner(ix, iy+1, fx, fy-1)
	n11 := p.corner(ix+1, iy+1, fx-1, fy-1)

	u, v := fade(fx), fade(fy)
	return perlinScale * lerp(v, lerp(u, n00, n10), lerp(u, n01, n11))
}

// corner dots the lattice gradient at (ix, iy) with the offset to it.
func (p *PerlinNoise) corner(ix, iy int, dx, dy float64) float64 {
	g := perlinGradients[p.perm[int(p.perm[ix])+iy]&7]
	return g[0]*dx + g[1]*dy
}

// Sample remaps Noise2D into [0, 1]. Integer lattice points sample
// exactly 0.5.
func (p *PerlinNoise) Sample(x, y float64) float64 {
	return clamp01((p.Noise2D(x, y) + 1) * 0.5)
}

// SimplexNoise adapts OpenSimplex noise to NoiseSource.
type SimplexNoise struct {
	noise opensimplex.Noise
}

// NewSimplexNoise creates an OpenSimplex noise source.
func NewSimplexNoise(seed int64) *SimplexNoise {
	return &SimplexNoise{noise: opensimplex.NewNormalized(seed)}
}

// Sample returns normalized OpenSimplex noise.
func (s *SimplexNoise) Sample(x, y float64) float64 {
	return clamp01(s.noise.Eval2(x, y))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}
