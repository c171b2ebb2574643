package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/crow/components"
)

const (
	zoomStep    = 1.1
	orbitRadPer = 0.005 // Radians per pixel of mouse drag
)

// buttonKeys maps keyboard keys to controller buttons for desktop play.
var buttonKeys = map[int32]components.Button{
	rl.KeyX: components.ButtonX,
	rl.KeyY: components.ButtonY,
	rl.KeyA: components.ButtonA,
	rl.KeyB: components.ButtonB,
}

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < MaxStepsPerUpdate {
		g.stepsPerUpdate++
	}

	if rl.IsKeyPressed(rl.KeyO) {
		g.uiControls.Toggle()
	}

	for key, b := range buttonKeys {
		if rl.IsKeyPressed(key) {
			g.PressButton(b)
		}
	}

	if rl.IsKeyPressed(rl.KeyL) {
		g.logPerfStats()
		g.logFlightState()
	}

	g.handleOverlayKeys()
	g.handleCameraInput()
}

// handleCameraInput handles mode switching, zoom and orbit.
func (g *Game) handleCameraInput() {
	if rl.IsKeyPressed(rl.KeyV) {
		g.cam.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		g.cam.Reset()
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		if wheel > 0 {
			g.cam.ZoomBy(1 / zoomStep)
		} else {
			g.cam.ZoomBy(zoomStep)
		}
	}

	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		g.cam.Orbit(float64(d.X)*orbitRadPer, float64(d.Y)*orbitRadPer)
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := int32(rl.GetScreenWidth())
	h := int32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h
	g.layoutPanels()
}
