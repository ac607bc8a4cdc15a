// Noise preview tool - plots the noise rows stems sample next to the
// centerline they produce.
//
// Usage: go run ./cmd/noisepreview
package main

import (
	"fmt"
	"image/color"
	"log"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/stem/components"
	"github.com/pthm-cable/stem/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30

	// The field texture spans sample index [0, fieldSpan) across and
	// roughness [0, 10] down.
	fieldW    = 256
	fieldH    = 128
	fieldSpan = 100.0

	maxPreviewLength = 50
)

// settings is the tool state. It marshals to the config fragment the
// user copies out.
type settings struct {
	Noise struct {
		Kind string `yaml:"kind"`
		Seed int64  `yaml:"seed"`
	} `yaml:"noise"`
	Stem struct {
		Roughness float64 `yaml:"roughness"`
	} `yaml:"stem"`

	length float64
}

func defaultSettings() settings {
	var s settings
	s.Noise.Kind = systems.NoisePerlin
	s.Stem.Roughness = 2
	s.length = 5
	return s
}

func (s settings) fragment() string {
	out, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Sprintf("# %v\n", err)
	}
	return string(out)
}

// preview holds what is derived from the settings.
type preview struct {
	field   []float32
	texture rl.Texture2D
	points  components.Centerline
}

func (p *preview) rebuild(s settings) {
	noise, err := systems.NewNoiseSource(s.Noise.Kind, s.Noise.Seed)
	if err != nil {
		log.Fatalf("noise source: %v", err)
	}
	for row := 0; row < fieldH; row++ {
		roughness := float64(row) / float64(fieldH-1) * components.MaxRoughness
		for col := 0; col < fieldW; col++ {
			index := float64(col) / float64(fieldW) * fieldSpan
			p.field[row*fieldW+col] = float32(noise.Sample(index, roughness))
		}
	}
	rl.UpdateTexture(p.texture, colorize(p.field))

	sim := systems.NewGrowthSimulator(systems.DefaultGrowthConfig(), noise)
	p.points = sim.Centerline(s.length, s.Stem.Roughness)
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Stem Noise Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	img := rl.GenImageColor(fieldW, fieldH, rl.Black)
	pv := &preview{
		field:   make([]float32, fieldW*fieldH),
		texture: rl.LoadTextureFromImage(img),
	}
	rl.UnloadImage(img)
	defer rl.UnloadTexture(pv.texture)

	s := defaultSettings()
	dirty := true

	for !rl.WindowShouldClose() {
		if dirty {
			pv.rebuild(s)
			dirty = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		drawField(pv.texture, s.Stem.Roughness)
		drawTopDown(pv.points, 10, previewSize/2+40, previewSize, previewSize/2-40)
		rl.DrawText(fmt.Sprintf("Points: %d", len(pv.points)), 15, previewSize+25, 16, rl.DarkGray)

		if drawControls(&s) {
			dirty = true
		}

		rl.EndDrawing()
	}
}

// drawField shows the noise texture with the sampled row marked.
func drawField(texture rl.Texture2D, roughness float64) {
	const h = previewSize / 2
	rl.DrawTexturePro(
		texture,
		rl.Rectangle{Width: fieldW, Height: fieldH},
		rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: h},
		rl.Vector2{},
		0,
		rl.White,
	)
	rl.DrawRectangleLines(10, 10, previewSize, h, rl.DarkGray)

	rowY := 10 + int32(roughness/components.MaxRoughness*h)
	rl.DrawLine(10, rowY, 10+previewSize, rowY, rl.Red)
	rl.DrawText("sample index ->  (rows: roughness 0 at top, 10 at bottom)", 15, h+15, 14, rl.DarkGray)
}

// drawControls draws the panel and reports whether anything changed.
func drawControls(s *settings) bool {
	x := float32(previewSize + 20)
	y := float32(10)
	changed := false

	rl.DrawText("Stem Noise", int32(x), int32(y), 20, rl.DarkGray)
	y += 35

	if v, ok := slider(x, &y, "Roughness (noise row and sweep)", s.Stem.Roughness, components.MinRoughness, components.MaxRoughness); ok {
		s.Stem.Roughness = v
		changed = true
	}
	if v, ok := slider(x, &y, "Length", s.length, 0, maxPreviewLength); ok {
		s.length = v
		changed = true
	}
	y += 10

	kindLabel := "Use OpenSimplex"
	if s.Noise.Kind == systems.NoiseOpenSimplex {
		kindLabel = "Use Perlin"
	}
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 120, Height: 30}, kindLabel) {
		if s.Noise.Kind == systems.NoisePerlin {
			s.Noise.Kind = systems.NoiseOpenSimplex
		} else {
			s.Noise.Kind = systems.NoisePerlin
		}
		changed = true
	}
	if gui.Button(rl.Rectangle{X: x + 130, Y: y, Width: 120, Height: 30}, "Random Seed") {
		s.Noise.Seed = int64(rl.GetRandomValue(0, 99999))
		changed = true
	}
	if gui.Button(rl.Rectangle{X: x + 260, Y: y, Width: 100, Height: 30}, "Reset") {
		*s = defaultSettings()
		changed = true
	}
	y += 55

	fragment := s.fragment()
	rl.DrawText("Config fragment:", int32(x), int32(y), 16, rl.DarkGray)
	rl.DrawText(fragment, int32(x), int32(y)+25, 14, rl.Gray)

	rl.DrawText("C: copy fragment to clipboard", int32(x), windowHeight-30, 12, rl.LightGray)
	if rl.IsKeyPressed(rl.KeyC) {
		rl.SetClipboardText(fragment)
	}
	return changed
}

// slider draws a captioned slider at *y and advances it.
func slider(x float32, y *float32, caption string, value, lo, hi float64) (float64, bool) {
	rl.DrawText(caption, int32(x), int32(*y), 14, rl.Gray)
	*y += 18

	bounds := rl.Rectangle{X: x, Y: *y, Width: panelWidth - 80, Height: 20}
	next := gui.SliderBar(bounds, fmt.Sprint(lo), fmt.Sprint(hi), float32(value), float32(lo), float32(hi))
	rl.DrawText(fmt.Sprintf("%.2f", value), int32(x+panelWidth-70), int32(*y+2), 16, rl.DarkGray)
	*y += 35

	if next == float32(value) {
		return value, false
	}
	return float64(next), true
}

// drawTopDown plots the centerline's x/z drift, colored base to tip.
func drawTopDown(points components.Centerline, x, y, w, h int32) {
	rl.DrawRectangleLines(x, y, w, h, rl.DarkGray)
	if len(points) < 2 {
		rl.DrawText("centerline too short to loft", x+10, y+10, 14, rl.Gray)
		return
	}

	extent := 1.0
	for _, p := range points {
		extent = max(extent, math.Abs(p.X), math.Abs(p.Z))
	}
	scale := float32(min(w, h)) / 2 / float32(extent*1.1)
	cx, cy := float32(x+w/2), float32(y+h/2)
	project := func(i int) rl.Vector2 {
		return rl.Vector2{X: cx + float32(points[i].X)*scale, Y: cy + float32(points[i].Z)*scale}
	}

	for i := 1; i < len(points); i++ {
		t := float32(i) / float32(len(points))
		rl.DrawLineEx(project(i-1), project(i), 2, rampColor(t))
	}
	rl.DrawCircleV(project(0), 4, rl.DarkGreen)
}

// Soil to leaf palette for noise values in [0, 1].
var ramp = []color.RGBA{
	{R: 45, G: 30, B: 20, A: 255},
	{R: 120, G: 90, B: 50, A: 255},
	{R: 150, G: 170, B: 70, A: 255},
	{R: 210, G: 240, B: 150, A: 255},
}

func rampColor(v float32) color.RGBA {
	v = min(max(v, 0), 1) * float32(len(ramp)-1)
	i := min(int(v), len(ramp)-2)
	t := v - float32(i)
	a, b := ramp[i], ramp[i+1]
	mix := func(p, q uint8) uint8 { return uint8(float32(p) + t*(float32(q)-float32(p))) }
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

func colorize(field []float32) []color.RGBA {
	pixels := make([]color.RGBA, len(field))
	for i, v := range field {
		pixels[i] = rampColor(v)
	}
	return pixels
}
