package export

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/stem/components"
	"github.com/pthm-cable/stem/systems"
)

func TestWriteOBJCounts(t *testing.T) {
	mesh := systems.BuildTube(components.Centerline{{}, {Y: 1}, {X: 0.2, Y: 2}}, 4, 2, 6)

	var buf bytes.Buffer
	if err := WriteOBJ(&buf, "stem", &mesh); err != nil {
		t.Fatalf("WriteOBJ: %v", err)
	}

	counts := map[string]int{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		counts[strings.Fields(line)[0]]++
	}

	if counts["o"] != 1 {
		t.Errorf("got %d objects, want 1", counts["o"])
	}
	for _, kind := range []string{"v", "vt", "vn"} {
		if counts[kind] != mesh.VertexCount() {
			t.Errorf("got %d %s lines, want %d", counts[kind], kind, mesh.VertexCount())
		}
	}
	if counts["f"] != mesh.TriangleCount() {
		t.Errorf("got %d faces, want %d", counts["f"], mesh.TriangleCount())
	}
}

func TestWriteOBJOneBasedIndices(t *testing.T) {
	mesh := components.TubeMesh{
		Positions: []r3.Vec{{}, {X: 1}, {Y: 1}},
		Normals:   make([]r3.Vec, 3),
		UVs:       make([]r2.Vec, 3),
		Indices:   []uint32{0, 1, 2},
	}

	var buf bytes.Buffer
	if err := WriteOBJ(&buf, "tri", &mesh); err != nil {
		t.Fatalf("WriteOBJ: %v", err)
	}
	if !strings.Contains(buf.String(), "f 1/1/1 2/2/2 3/3/3\n") {
		t.Errorf("missing one-based face line in:\n%s", buf.String())
	}
}

func TestWriteOBJRejectsInvalidMesh(t *testing.T) {
	mesh := components.TubeMesh{
		Positions: []r3.Vec{{}},
		Normals:   []r3.Vec{{}},
		UVs:       make([]r2.Vec, 1),
		Indices:   []uint32{0, 0, 5},
	}

	var buf bytes.Buffer
	if err := WriteOBJ(&buf, "bad", &mesh); err == nil {
		t.Error("expected error for out-of-range index")
	}
}

func TestSaveOBJ(t *testing.T) {
	mesh := systems.BuildTube(components.Centerline{{}, {Y: 1}}, 3, 1, 4)

	path, err := SaveOBJ(t.TempDir(), "stem-0", &mesh)
	if err != nil {
		t.Fatalf("SaveOBJ: %v", err)
	}
	if !strings.HasSuffix(path, "stem-0.obj") {
		t.Errorf("path = %q", path)
	}
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		t.Errorf("expected non-empty file at %s: %v", path, err)
	}
}
