package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Orbit and zoom speeds
const (
	orbitPerPixel = 0.005
	orbitPerKey   = 0.03
	zoomPerNotch  = 0.1
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		g.selectNext()
	}
	if rl.IsKeyPressed(rl.KeyF) {
		g.frameSelected()
	}
	if rl.IsKeyPressed(rl.KeyA) {
		g.showAxis = !g.showAxis
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.showPerf = !g.showPerf
	}
	if rl.IsKeyPressed(rl.KeyS) {
		if _, err := g.SaveSnapshot(g.snapshotDir); err != nil {
			slog.Error("failed to save snapshot", "error", err)
		}
	}

	g.handleCameraInput()
	g.handlePick()
}

// handleResize keeps the panel anchored to the right edge.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	g.screenWidth = int32(rl.GetScreenWidth())
	g.screenHeight = int32(rl.GetScreenHeight())
	if g.panel != nil {
		g.panel.SetPosition(g.screenWidth-panelWidth-panelMargin, panelMargin)
	}
}

// handleCameraInput processes orbit and zoom controls.
func (g *Game) handleCameraInput() {
	if g.camera == nil {
		return
	}

	// Right drag orbits anywhere; left drag only off the panel
	mouse := rl.GetMousePosition()
	dragging := rl.IsMouseButtonDown(rl.MouseButtonRight) ||
		(rl.IsMouseButtonDown(rl.MouseButtonLeft) && !g.panel.Contains(mouse))
	if dragging {
		delta := rl.GetMouseDelta()
		g.camera.Rotate(float64(delta.X)*orbitPerPixel, float64(delta.Y)*orbitPerPixel)
	}

	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Rotate(orbitPerKey, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Rotate(-orbitPerKey, 0)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Rotate(0, orbitPerKey)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Rotate(0, -orbitPerKey)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.camera.ZoomBy(1 + float64(wheel)*zoomPerNotch)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}
}

// handlePick selects the stem under a left click.
func (g *Game) handlePick() {
	if g.camera == nil || !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}
	mouse := rl.GetMousePosition()
	if g.panel.Contains(mouse) {
		return
	}
	ray := rl.GetScreenToWorldRay(mouse, g.camera3D())
	if entity, ok := g.pickStem(ray); ok {
		g.selected = entity
		g.hasSelection = true
	}
}
