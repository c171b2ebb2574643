package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/crow/renderer"
	"github.com/pthm-cable/crow/ui"
)

// handleOverlayKeys checks for overlay toggle key presses.
func (g *Game) handleOverlayKeys() {
	for _, desc := range g.uiOverlays.All() {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			g.uiOverlays.Toggle(desc.ID)
		}
	}
	// The inspector keeps its own visibility; follow the registry.
	if g.uiOverlays.IsEnabled(ui.OverlayInspector) != g.inspector.Visible() {
		g.inspector.Toggle()
	}
}

// drawSceneOverlays renders the enabled 3D debug overlays.
func (g *Game) drawSceneOverlays() {
	body := g.body.Pose()
	for _, id := range g.uiOverlays.EnabledOverlays() {
		switch id {
		case ui.OverlayNeckGizmo:
			g.scene.DrawNeckGizmo(g.flight.Status().NeckPosition, body)
		case ui.OverlayColliders:
			g.scene.DrawCollider(body.Position, g.cfg.Body.Radius)
			g.scene.DrawObstacles(g.physics.StaticBoxes(), true)
			g.scene.DrawAxes(body)
		case ui.OverlayTrail:
			g.scene.DrawTrail(g.trail)
		}
	}
}

// skyUniforms gathers the celestial state for the sky shader.
func (g *Game) skyUniforms() renderer.SkyUniforms {
	return renderer.SkyUniforms{
		SunDirection:    g.celestial.SunDirection(),
		MoonDirection:   g.celestial.MoonDirection(),
		MoonSpaceMatrix: g.celestial.MoonSpaceMatrix(),
	}
}
