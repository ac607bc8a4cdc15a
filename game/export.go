package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/stem/export"
)

// ExportOBJ writes every non-empty stem mesh to dir as <name>.obj.
// Meshes are written in local space; the stem base is not applied.
func (g *Game) ExportOBJ(dir string) ([]string, error) {
	var paths []string
	for _, s := range g.Stems() {
		if s.Mesh.IsEmpty() {
			continue
		}
		path, err := export.SaveOBJ(dir, s.Name, &s.Mesh)
		if err != nil {
			return paths, fmt.Errorf("exporting stem %d: %w", s.ID, err)
		}
		slog.Info("exported stem", "id", s.ID, "path", path, "vertices", s.Mesh.VertexCount())
		paths = append(paths, path)
	}
	return paths, nil
}
