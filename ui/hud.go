package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title         string
	StemCount     int
	Tick          int32
	FPS           int32
	Paused        bool
	SelectedName  string
	CurrentLength float64
	MaxLength     float64
	Vertices      int
	Triangles     int
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Stems: %d | Tick: %d | FPS: %d", data.StemCount, data.Tick, data.FPS),
		10, 35, 16, rl.LightGray,
	)

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 55, 16, rl.Yellow)

	if data.SelectedName == "" {
		return
	}
	col := h.renderer.Column(10, 80, 220)
	col.Field("Selected", data.SelectedName)
	col.Fieldf("Length", "%.2f / %.2f", data.CurrentLength, data.MaxLength)
	progress := float32(0)
	if data.MaxLength > 0 {
		progress = float32(data.CurrentLength / data.MaxLength)
	}
	col.Bar("Growth", progress)
	col.Fieldf("Mesh", "%d verts, %d tris", data.Vertices, data.Triangles)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfRow is one phase line of the perf panel.
type PerfRow struct {
	Label string
	Avg   time.Duration
	Pct   float64 // Share of the average tick
}

// PerfPanelData holds performance metrics for display.
type PerfPanelData struct {
	Rows            []PerfRow
	Total           time.Duration
	RebuildsPerTick float64
	VerticesPerSec  float64
}

// PerfPanel renders the phase timing panel.
type PerfPanel struct {
	x, y int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the rows in the order given.
func (p *PerfPanel) Draw(data PerfPanelData) {
	x, y := p.x, p.y

	rl.DrawText("Tick Phases", x, y, 16, rl.White)
	y += 20
	rl.DrawText(fmt.Sprintf("Total: %s", data.Total.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 16
	rl.DrawText(fmt.Sprintf("Rebuilds/tick: %.2f  Verts/s: %.0f", data.RebuildsPerTick, data.VerticesPerSec), x, y, 12, rl.LightGray)
	y += 16

	for _, row := range data.Rows {
		color := rl.LightGray
		switch {
		case row.Pct > 50:
			color = rl.Red
		case row.Pct > 25:
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-16s %6s %5.1f%%", row.Label, row.Avg.Round(time.Microsecond), row.Pct),
			x, y, 12, color,
		)
		y += 14
	}
}
