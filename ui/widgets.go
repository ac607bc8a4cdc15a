package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer draws themed primitives.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// Panel draws a bordered panel background.
func (r *Renderer) Panel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// Column stacks widgets downward from a starting point. Y always holds
// the top of the next widget.
type Column struct {
	r     *Renderer
	X, Y  int32
	Width int32
}

// Column starts a layout column at x, y.
func (r *Renderer) Column(x, y, width int32) *Column {
	return &Column{r: r, X: x, Y: y, Width: width}
}

// Header draws a section title.
func (c *Column) Header(title string) {
	t := c.r.Theme
	rl.DrawText(title, c.X, c.Y, t.HeaderFontSize, t.SectionHeader)
	c.Y += t.LineHeight + 4
}

// Label draws a single caption line.
func (c *Column) Label(text string) {
	t := c.r.Theme
	rl.DrawText(text, c.X, c.Y, t.FontSize, t.LabelColor)
	c.Y += t.FontSize + 2
}

// Field draws "label: value" on one line.
func (c *Column) Field(label, value string) {
	t := c.r.Theme
	rl.DrawText(label+":", c.X, c.Y, t.FontSize, t.LabelColor)
	rl.DrawText(value, c.X+t.LabelWidth, c.Y, t.FontSize, t.ValueColor)
	c.Y += t.LineHeight
}

// Fieldf is Field with a formatted value.
func (c *Column) Fieldf(label, format string, args ...any) {
	c.Field(label, fmt.Sprintf(format, args...))
}

// Bar draws a labeled fill bar for a fraction in [0, 1].
func (c *Column) Bar(label string, fraction float32) {
	t := c.r.Theme
	barX := c.X + t.LabelWidth
	barWidth := c.Width - t.LabelWidth

	rl.DrawText(label+":", c.X, c.Y, t.FontSize, t.LabelColor)
	rl.DrawRectangle(barX, c.Y+2, barWidth, t.BarHeight, t.BarBg)
	rl.DrawRectangle(barX, c.Y+2, int32(float32(barWidth)*clampUnit(fraction)), t.BarHeight, t.BarFill)
	c.Y += t.LineHeight
}

// Gap skips px pixels.
func (c *Column) Gap(px int32) {
	c.Y += px
}

// Rect reserves a full-width row of the given height and returns it.
func (c *Column) Rect(height int32) rl.Rectangle {
	rect := rl.Rectangle{X: float32(c.X), Y: float32(c.Y), Width: float32(c.Width), Height: float32(height)}
	c.Y += height
	return rect
}

func clampUnit(v float32) float32 {
	switch {
	case v != v, v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
