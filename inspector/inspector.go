// Package inspector renders struct values as labelled debug widgets.
package inspector

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Panel dimensions
const (
	PanelWidth   = 340
	PanelPadding = 10
	HeaderHeight = 26
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
)

// Section is a titled struct shown in the panel.
type Section struct {
	Title string
	Value interface{} // Struct or pointer to struct with inspect tags
}

// Inspector draws sections of tagged structs on the right edge of the screen.
type Inspector struct {
	visible      bool
	panelX       int32
	panelY       int32
	screenWidth  int32
	screenHeight int32
}

// NewInspector creates a hidden inspector.
func NewInspector(screenWidth, screenHeight int32) *Inspector {
	ins := &Inspector{panelY: 10}
	ins.Resize(screenWidth, screenHeight)
	return ins
}

// Resize re-anchors the panel to the right edge.
func (ins *Inspector) Resize(screenWidth, screenHeight int32) {
	ins.screenWidth = screenWidth
	ins.screenHeight = screenHeight
	ins.panelX = screenWidth - PanelWidth - 10
}

// Toggle shows or hides the panel and returns the new state.
func (ins *Inspector) Toggle() bool {
	ins.visible = !ins.visible
	return ins.visible
}

// Visible reports whether the panel is shown.
func (ins *Inspector) Visible() bool {
	return ins.visible
}

// PanelHeight returns the height needed for the given sections.
func PanelHeight(sections []Section) int32 {
	h := int32(PanelPadding)
	for _, s := range sections {
		h += HeaderHeight
		for _, f := range ExtractFields(s.Value) {
			h += FieldHeight(f)
		}
		h += PanelPadding
	}
	return h
}

// Draw renders the panel if visible.
func (ins *Inspector) Draw(sections ...Section) {
	if !ins.visible {
		return
	}

	panelHeight := PanelHeight(sections)
	if max := ins.screenHeight - ins.panelY - 10; panelHeight > max {
		panelHeight = max
	}

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, panelHeight, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: float32(panelHeight)},
		1,
		ColorPanelBorder,
	)

	x := ins.panelX + PanelPadding
	y := ins.panelY + PanelPadding
	for _, s := range sections {
		rl.DrawRectangle(ins.panelX+1, y, PanelWidth-2, HeaderHeight-6, ColorPanelHeader)
		rl.DrawText(s.Title, x, y+3, 14, ColorHeaderText)
		y += HeaderHeight

		for _, f := range ExtractFields(s.Value) {
			y += DrawField(x, y, f)
		}
		y += PanelPadding
	}
}
