package renderer

import (
	_ "embed"
	"fmt"
	"log/slog"
	"runtime"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/stem/components"
)

//go:embed shaders/stem.vs
var stemVertexShader string

//go:embed shaders/stem.fs
var stemFragmentShader string

// gpuMesh is one uploaded stem mesh. DrawMesh draws indexed only while
// mesh.Indices is set, so the CPU buffers stay pinned until release.
type gpuMesh struct {
	mesh     rl.Mesh
	version  uint64
	uploaded bool

	flat   FlatMesh
	pinner runtime.Pinner
}

// StemRenderer keeps one GPU mesh per stem and redraws it every frame.
// Must be created after the raylib window.
type StemRenderer struct {
	material rl.Material
	lightLoc int32
	ambLoc   int32

	meshes map[uint32]*gpuMesh
}

// NewStemRenderer loads the stem shader and an empty mesh cache.
func NewStemRenderer() *StemRenderer {
	shader := rl.LoadShaderFromMemory(stemVertexShader, stemFragmentShader)

	r := &StemRenderer{
		material: rl.LoadMaterialDefault(),
		lightLoc: rl.GetShaderLocation(shader, "lightDir"),
		ambLoc:   rl.GetShaderLocation(shader, "ambient"),
		meshes:   make(map[uint32]*gpuMesh),
	}
	r.material.Shader = shader
	r.SetLight(r3.Vec{X: -0.4, Y: -1, Z: -0.3}, 0.35)
	return r
}

// SetLight sets the directional light and the ambient floor.
func (r *StemRenderer) SetLight(dir r3.Vec, ambient float32) {
	if n := r3.Norm(dir); n > 0 {
		dir = r3.Scale(1/n, dir)
	}
	rl.SetShaderValue(r.material.Shader, r.lightLoc,
		[]float32{float32(dir.X), float32(dir.Y), float32(dir.Z)}, rl.ShaderUniformVec3)
	rl.SetShaderValue(r.material.Shader, r.ambLoc, []float32{ambient}, rl.ShaderUniformFloat)
}

// Sync uploads the stem's mesh if its version changed since the last sync.
// It reports whether an upload happened.
func (r *StemRenderer) Sync(id uint32, version uint64, tube *components.TubeMesh) (bool, error) {
	existing, ok := r.meshes[id]
	if ok && existing.version == version {
		return false, nil
	}
	if ok {
		r.release(existing)
	}

	entry := &gpuMesh{version: version}
	r.meshes[id] = entry

	if tube.IsEmpty() {
		return false, nil
	}
	if err := tube.Validate(); err != nil {
		return false, fmt.Errorf("stem %d: %w", id, err)
	}

	flat := Flatten(tube)
	entry.upload(flat)

	slog.Debug("stem mesh uploaded",
		"id", id,
		"version", version,
		"vertices", flat.VertexCount(),
		"triangles", flat.TriangleCount(),
	)
	return true, nil
}

// meshOf describes flat as a raylib mesh pointing at its buffers.
// Indices is left nil for expanded meshes.
func meshOf(flat FlatMesh) rl.Mesh {
	mesh := rl.Mesh{
		VertexCount:   int32(flat.VertexCount()),
		TriangleCount: int32(flat.TriangleCount()),
		Vertices:      unsafe.SliceData(flat.Vertices),
		Normals:       unsafe.SliceData(flat.Normals),
		Texcoords:     unsafe.SliceData(flat.Texcoords),
	}
	if flat.Indices != nil {
		mesh.Indices = unsafe.SliceData(flat.Indices)
	}
	return mesh
}

// upload pins flat and copies it to the GPU. flat must not be empty.
func (e *gpuMesh) upload(flat FlatMesh) {
	e.flat = flat
	e.mesh = meshOf(flat)

	e.pinner.Pin(e.mesh.Vertices)
	e.pinner.Pin(e.mesh.Normals)
	e.pinner.Pin(e.mesh.Texcoords)
	if e.mesh.Indices != nil {
		e.pinner.Pin(e.mesh.Indices)
	}

	rl.UploadMesh(&e.mesh, false)
	e.uploaded = true
}

// Draw renders a stem at its base position.
func (r *StemRenderer) Draw(id uint32, base r3.Vec, tint rl.Color) {
	entry, ok := r.meshes[id]
	if !ok || !entry.uploaded {
		return
	}
	r.material.GetMap(int32(rl.MapDiffuse)).Color = tint
	rl.DrawMesh(entry.mesh, r.material, rl.MatrixTranslate(float32(base.X), float32(base.Y), float32(base.Z)))
}

// DrawCenterline draws the growth path as a polyline.
func DrawCenterline(points components.Centerline, base r3.Vec, col rl.Color) {
	for i := 1; i < len(points); i++ {
		a, b := r3.Add(base, points[i-1]), r3.Add(base, points[i])
		rl.DrawLine3D(Vec3(a), Vec3(b), col)
	}
}

// Forget releases the GPU mesh of a removed stem.
func (r *StemRenderer) Forget(id uint32) {
	if entry, ok := r.meshes[id]; ok {
		r.release(entry)
		delete(r.meshes, id)
	}
}

func (r *StemRenderer) release(entry *gpuMesh) {
	if entry.uploaded {
		rl.UnloadMesh(&entry.mesh)
		entry.uploaded = false
	}
	entry.pinner.Unpin()
	entry.mesh = rl.Mesh{}
	entry.flat = FlatMesh{}
}

// Unload frees every mesh and the material.
func (r *StemRenderer) Unload() {
	for id := range r.meshes {
		r.Forget(id)
	}
	rl.UnloadMaterial(r.material)
}

// Vec3 converts a world-space vector to raylib.
func Vec3(v r3.Vec) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}
