package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/stem/components"
)

// PanelAction is a button pressed on the parameter panel this frame.
type PanelAction int

const (
	ActionNone PanelAction = iota
	ActionNewStem
	ActionRemove
	ActionRegrow
	ActionExport
)

// paramSlider binds one slider to a Params field.
type paramSlider struct {
	label    string
	min, max float64
	field    func(*components.Params) *float64
}

var paramSliders = []paramSlider{
	{"Age", components.MinAge, components.MaxAge, func(p *components.Params) *float64 { return &p.Age }},
	{"Rate of growth", components.MinRateOfGrowth, components.MaxRateOfGrowth, func(p *components.Params) *float64 { return &p.RateOfGrowth }},
	{"Roughness", components.MinRoughness, components.MaxRoughness, func(p *components.Params) *float64 { return &p.Roughness }},
	{"Thickness", components.MinThickness, components.MaxThickness, func(p *components.Params) *float64 { return &p.Thickness }},
}

// ParamPanel edits the selected stem's parameters with raygui sliders.
type ParamPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewParamPanel creates a panel anchored at x, y.
func NewParamPanel(x, y, width int32) *ParamPanel {
	return &ParamPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (p *ParamPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Height returns the panel's drawn height in pixels.
func (p *ParamPanel) Height() int32 {
	return 40 + int32(len(paramSliders))*38 + 80
}

// Contains reports whether a screen point lies over the panel.
func (p *ParamPanel) Contains(pos rl.Vector2) bool {
	return rl.CheckCollisionPointRec(pos, rl.Rectangle{
		X: float32(p.x), Y: float32(p.y), Width: float32(p.width), Height: float32(p.Height()),
	})
}

// Draw renders the panel for the named stem. It returns the edited
// parameters, whether any slider moved, and the button pressed.
func (p *ParamPanel) Draw(name string, params components.Params) (components.Params, bool, PanelAction) {
	t := p.renderer.Theme
	p.renderer.Panel(p.x, p.y, p.width, p.Height())

	col := p.renderer.Column(p.x+t.Padding, p.y+t.Padding, p.width-2*t.Padding)
	col.Header("Stem: " + name)

	changed := false
	for _, s := range paramSliders {
		field := s.field(&params)

		col.Label(s.label)
		row := col.Rect(16)
		row.Width -= 50
		current := float32(*field)
		next := gui.SliderBar(row, "", "", current, float32(s.min), float32(s.max))
		rl.DrawText(fmt.Sprintf("%.2f", *field), int32(row.X+row.Width)+6, int32(row.Y)+2, t.FontSize, t.ValueColor)
		if next != current {
			*field = float64(next)
			changed = true
		}
		col.Gap(8)
	}

	col.Gap(6)
	action := ActionNone
	for _, pair := range [][2]panelButton{
		{{"New Stem", ActionNewStem}, {"Remove", ActionRemove}},
		{{"Regrow", ActionRegrow}, {"Export OBJ", ActionExport}},
	} {
		if a := p.buttonRow(col, pair); a != ActionNone {
			action = a
		}
		col.Gap(8)
	}

	return params.Clamped(), changed, action
}

type panelButton struct {
	label  string
	action PanelAction
}

// buttonRow draws two buttons side by side.
func (p *ParamPanel) buttonRow(col *Column, pair [2]panelButton) PanelAction {
	row := col.Rect(28)
	gap := float32(p.renderer.Theme.Padding)
	row.Width = (row.Width - gap) / 2

	action := ActionNone
	for i, b := range pair {
		rect := row
		rect.X += float32(i) * (row.Width + gap)
		if gui.Button(rect, b.label) {
			action = b.action
		}
	}
	return action
}

// DrawEmpty renders the panel when no stem is selected. Only the
// New Stem button is offered.
func (p *ParamPanel) DrawEmpty() PanelAction {
	t := p.renderer.Theme
	p.renderer.Panel(p.x, p.y, p.width, 80)

	col := p.renderer.Column(p.x+t.Padding, p.y+t.Padding, p.width-2*t.Padding)
	col.Header("No stem selected")
	if gui.Button(col.Rect(28), "New Stem") {
		return ActionNewStem
	}
	return ActionNone
}
