package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/crow/components"
)

// ControlsPanel renders the overlay toggle list.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition moves the panel.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// SetVisible shows or hides the panel.
func (c *ControlsPanel) SetVisible(visible bool) {
	c.visible = visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Height returns the panel height for the registry's current contents.
func (c *ControlsPanel) Height(overlays *OverlayRegistry) int32 {
	lineHeight := c.renderer.Theme.LineHeight
	totalItems := 0
	for _, cat := range overlays.Categories() {
		totalItems += len(overlays.ByCategory(cat)) + 1 // +1 for category header
	}
	return int32(totalItems)*lineHeight + c.renderer.Theme.Padding*3 + lineHeight
}

// Draw renders the controls panel.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) int32 {
	if !c.visible {
		return c.y
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	r.DrawPanel(c.x, c.y, c.width, c.Height(overlays))

	y := c.y + padding
	rl.DrawText("Overlays", c.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	for _, category := range overlays.Categories() {
		rl.DrawText(categoryLabel(category), c.x+padding, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += lineHeight

		for _, desc := range overlays.ByCategory(category) {
			c.drawToggle(c.x+padding, y, desc, overlays.IsEnabled(desc.ID), c.width-padding*2)
			y += lineHeight
		}

		y += 4
	}

	return y
}

// drawToggle draws a single overlay toggle line.
func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)

	nameColor := r.Theme.LabelColor
	if enabled {
		nameColor = rl.White
	}
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "labels":
		return "Panels"
	case "scene":
		return "Scene"
	default:
		return cat
	}
}

// padButtons is the on-screen layout, left controller first.
var padButtons = []components.Button{
	components.ButtonY, components.ButtonX,
	components.ButtonB, components.ButtonA,
}

// ButtonPad draws clickable stand-ins for the controller face buttons.
type ButtonPad struct {
	x, y float32
	size float32
}

// NewButtonPad creates a pad with its top-left corner at (x, y).
func NewButtonPad(x, y float32) *ButtonPad {
	return &ButtonPad{x: x, y: y, size: 36}
}

// SetPosition moves the pad.
func (p *ButtonPad) SetPosition(x, y float32) {
	p.x = x
	p.y = y
}

// Width returns the pad width in pixels.
func (p *ButtonPad) Width() float32 {
	return p.size*4 + 3*4 + 16
}

// Draw renders the pad and returns the buttons clicked this frame.
func (p *ButtonPad) Draw() []components.Button {
	var pressed []components.Button
	x := p.x
	for i, b := range padButtons {
		if i == 2 {
			x += 16 // Gap between the two controllers
		}
		rect := rl.Rectangle{X: x, Y: p.y, Width: p.size, Height: p.size}
		if gui.Button(rect, buttonLabel(b)) {
			pressed = append(pressed, b)
		}
		x += p.size + 4
	}
	return pressed
}

func buttonLabel(b components.Button) string {
	switch b {
	case components.ButtonX:
		return "X"
	case components.ButtonY:
		return "Y"
	case components.ButtonA:
		return "A"
	case components.ButtonB:
		return "B"
	}
	return "?"
}
