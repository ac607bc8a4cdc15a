package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/stem/camera"
	"github.com/pthm-cable/stem/renderer"
	"github.com/pthm-cable/stem/ui"
)

// Panel layout
const (
	panelWidth  = 260
	panelMargin = 10
)

// initViewer creates GPU and UI state. Requires an open raylib window.
func (g *Game) initViewer() {
	g.screenWidth = int32(rl.GetScreenWidth())
	g.screenHeight = int32(rl.GetScreenHeight())

	g.stemRenderer = renderer.NewStemRenderer()
	g.camera = camera.New(r3.Vec{Y: 2.5}, 40)
	g.theme = ui.DefaultTheme()
	g.hud = ui.NewHUD()
	g.perfPanel = ui.NewPerfPanel(panelMargin, 200)
	g.panel = ui.NewParamPanel(g.screenWidth-panelWidth-panelMargin, panelMargin, panelWidth)
	g.showPerf = true

	g.selectFirst()
}

// Update advances the simulation by the frame time and syncs GPU meshes.
func (g *Game) Update() {
	g.perfCollector.Frame()
	g.handleInput()

	if !g.paused {
		g.Step(float64(rl.GetFrameTime()))
	}

	g.syncMeshes()
}

// UpdateHeadless advances the simulation by the configured fixed step.
func (g *Game) UpdateHeadless() {
	g.Step(g.cfg.Physics.DT)
}

// syncMeshes uploads every mesh whose version changed since the last frame.
func (g *Game) syncMeshes() {
	if g.stemRenderer == nil {
		return
	}

	query := g.stemFilter.Query()
	for query.Next() {
		stem, _, _, _, mesh := query.Get()
		if _, err := g.stemRenderer.Sync(stem.ID, mesh.Version, &mesh.Tube); err != nil {
			slog.Error("failed to upload stem mesh", "id", stem.ID, "error", err)
		}
	}
}

// frameSelected points the camera at the selected stem's mesh.
func (g *Game) frameSelected() {
	if g.camera == nil || !g.hasSelection || !g.world.Alive(g.selected) {
		return
	}
	base := g.transformMap.Get(g.selected).Base
	tube := &g.meshMap.Get(g.selected).Tube
	if tube.IsEmpty() {
		g.camera.Target = r3.Add(base, r3.Vec{Y: 2.5})
		return
	}
	box := tube.Bounds()
	g.camera.Frame(r3.Box{Min: r3.Add(base, box.Min), Max: r3.Add(base, box.Max)})
}

// camera3D converts the orbit camera for raylib.
func (g *Game) camera3D() rl.Camera3D {
	return rl.Camera3D{
		Position:   renderer.Vec3(g.camera.Position()),
		Target:     renderer.Vec3(g.camera.Target),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}
}
