package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/stem/components"
)

// Default tube resolution
const (
	DefaultHeightSegments = 8
	DefaultRadialSegments = 8
)

// TubeMesher lofts a tapered ring skin around a centerline.
type TubeMesher struct {
	HeightSegments int // Rings per centerline segment, minus one
	RadialSegments int // Quads around each ring
}

// NewTubeMesher creates a mesher with the given resolution.
// Segment counts below 1 are raised to 1.
func NewTubeMesher(heightSegments, radialSegments int) *TubeMesher {
	return &TubeMesher{
		HeightSegments: max(heightSegments, 1),
		RadialSegments: max(radialSegments, 1),
	}
}

// Build lofts the centerline using the mesher's resolution.
func (m *TubeMesher) Build(points components.Centerline, thickness float64) components.TubeMesh {
	return BuildTube(points, thickness, m.HeightSegments, m.RadialSegments)
}

// SegmentRadius returns the ring radius of segment k on a centerline of
// pointCount points: full thickness at the base, shrinking linearly.
func SegmentRadius(thickness float64, k, pointCount int) float64 {
	if pointCount < 2 {
		return 0
	}
	return thickness * (1 - float64(k)/float64(pointCount-1))
}

// BuildTube sweeps a ring of radialSegments+1 vertices along every
// centerline segment at heightSegments+1 height steps.
//
// Vertices are never shared between segments or rings. Normals are the
// radial ring direction and ignore taper and bend. No end caps are emitted.
// A centerline with fewer than two points yields an empty mesh.
func BuildTube(points components.Centerline, thickness float64, heightSegments, radialSegments int) components.TubeMesh {
	segments := points.Segments()
	if segments == 0 || heightSegments < 1 || radialSegments < 1 {
		return components.TubeMesh{}
	}

	ringSize := radialSegments + 1
	vertexCount := segments * (heightSegments + 1) * ringSize
	indexCount := segments * heightSegments * ringSize * 6

	mesh := components.TubeMesh{
		Positions: make([]r3.Vec, 0, vertexCount),
		Normals:   make([]r3.Vec, 0, vertexCount),
		UVs:       make([]r2.Vec, 0, vertexCount),
		Indices:   make([]uint32, 0, indexCount),
	}

	step := 2 * math.Pi / float64(radialSegments)
	r := uint32(radialSegments)
	var offset uint32

	for k := 0; k < segments; k++ {
		p0, p1 := points[k], points[k+1]
		radius := SegmentRadius(thickness, k, len(points))

		for i := 0; i <= heightSegments; i++ {
			v := float64(i) / float64(heightSegments)
			center := lerpVec(p0, p1, v)

			for j := 0; j <= radialSegments; j++ {
				angle := float64(j) * step
				ring := r3.Vec{X: radius * math.Cos(angle), Z: radius * math.Sin(angle)}

				mesh.Positions = append(mesh.Positions, r3.Add(center, ring))
				mesh.Normals = append(mesh.Normals, normalizeSafe(ring))
				mesh.UVs = append(mesh.UVs, r2.Vec{X: float64(j) / float64(radialSegments), Y: v})

				if i != heightSegments {
					mesh.Indices = append(mesh.Indices,
						offset+r+1, offset, offset+r,
						offset+r+1, offset+1, offset,
					)
				}
				offset++
			}
		}
	}

	return mesh
}
