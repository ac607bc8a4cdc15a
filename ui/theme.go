// Package ui draws the viewer's 2D overlays: HUD, perf table and the
// parameter panel.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds colors and metrics shared by the overlays and the 3D view.
type Theme struct {
	// Overlay
	PanelBg       rl.Color
	PanelBorder   rl.Color
	SectionHeader rl.Color
	LabelColor    rl.Color
	ValueColor    rl.Color
	BarBg         rl.Color
	BarFill       rl.Color

	// Scene
	Background   rl.Color
	Stem         rl.Color
	StemSelected rl.Color
	Centerline   rl.Color

	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default dark theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:       rl.Color{R: 20, G: 25, B: 30, A: 240},
		PanelBorder:   rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader: rl.Yellow,
		LabelColor:    rl.LightGray,
		ValueColor:    rl.RayWhite,
		BarBg:         rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFill:       rl.Color{R: 110, G: 170, B: 90, A: 255},

		Background:   rl.Color{R: 24, G: 28, B: 32, A: 255},
		Stem:         rl.Color{R: 96, G: 150, B: 72, A: 255},
		StemSelected: rl.Color{R: 150, G: 200, B: 90, A: 255},
		Centerline:   rl.Color{R: 255, G: 220, B: 120, A: 255},

		Padding:        10,
		LineHeight:     16,
		LabelWidth:     80,
		BarHeight:      12,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}
