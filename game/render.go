package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/stem/renderer"
	"github.com/pthm-cable/stem/ui"
)

const controlsText = "Drag: orbit | Wheel: zoom | Click/Tab: select | F: frame | Space: pause | A: axis | P: perf | S: snapshot"

// Draw renders the scene and overlays.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(g.theme.Background)

	rl.BeginMode3D(g.camera3D())
	rl.DrawGrid(40, 2)
	g.drawStems()
	if g.showAxis {
		drawAxis(5)
	}
	rl.EndMode3D()

	g.drawUI()

	rl.EndDrawing()
}

// drawStems renders every stem mesh and the selected stem's centerline.
func (g *Game) drawStems() {
	query := g.stemFilter.Query()
	for query.Next() {
		stem, transform, _, shape, _ := query.Get()
		selected := g.hasSelection && query.Entity() == g.selected

		tint := g.theme.Stem
		if selected {
			tint = g.theme.StemSelected
		}
		g.stemRenderer.Draw(stem.ID, transform.Base, tint)

		if selected {
			renderer.DrawCenterline(shape.Points, transform.Base, g.theme.Centerline)
		}
	}
}

// drawAxis draws the world axes at the origin.
func drawAxis(length float64) {
	origin := rl.NewVector3(0, 0, 0)
	rl.DrawLine3D(origin, renderer.Vec3(r3.Vec{X: length}), rl.Red)
	rl.DrawLine3D(origin, renderer.Vec3(r3.Vec{Y: length}), rl.Green)
	rl.DrawLine3D(origin, renderer.Vec3(r3.Vec{Z: length}), rl.Blue)
}

// drawUI renders the HUD, perf panel and parameter panel.
func (g *Game) drawUI() {
	data := ui.HUDData{
		Title:     "Stem",
		StemCount: g.StemCount(),
		Tick:      g.tick,
		FPS:       rl.GetFPS(),
		Paused:    g.paused,
	}

	if g.hasSelection && g.world.Alive(g.selected) {
		stem := g.stemMap.Get(g.selected)
		state := g.growthMap.Get(g.selected).State
		tube := &g.meshMap.Get(g.selected).Tube

		data.SelectedName = stem.Name
		data.CurrentLength = state.CurrentLength
		data.MaxLength = state.MaxLength
		data.Vertices = tube.VertexCount()
		data.Triangles = tube.TriangleCount()

		params, changed, action := g.panel.Draw(stem.Name, stem.Params)
		if changed {
			g.SetParams(g.selected, params)
		}
		g.handlePanelAction(action)
	} else {
		g.handlePanelAction(g.panel.DrawEmpty())
	}

	g.hud.Draw(data)

	if g.showPerf {
		g.perfPanel.Draw(g.perfPanelData())
	}

	g.hud.DrawControls(g.screenWidth, g.screenHeight, controlsText)
}

// handlePanelAction applies a parameter panel button press.
func (g *Game) handlePanelAction(action ui.PanelAction) {
	switch action {
	case ui.ActionNewStem:
		g.spawnBeside()
	case ui.ActionRemove:
		if g.hasSelection {
			g.Despawn(g.selected)
		}
	case ui.ActionRegrow:
		if g.hasSelection {
			g.Regrow(g.selected)
		}
	case ui.ActionExport:
		paths, err := g.ExportOBJ(g.exportDir)
		if err != nil {
			slog.Error("export failed", "error", err)
			return
		}
		slog.Info("export complete", "files", len(paths), "dir", g.exportDir)
	}
}

// spawnBeside places a default stem to the right of every existing one.
func (g *Game) spawnBeside() {
	maxX := -stemSpacing
	query := g.stemFilter.Query()
	for query.Next() {
		_, transform, _, _, _ := query.Get()
		if transform.Base.X > maxX {
			maxX = transform.Base.X
		}
	}

	name := stemName(g.nextID)
	g.selected = g.SpawnStem(name, r3.Vec{X: maxX + stemSpacing}, g.cfg.Stem.Params)
	g.hasSelection = true
}
