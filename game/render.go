package game

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/crow/camera"
	"github.com/pthm-cable/crow/inspector"
	"github.com/pthm-cable/crow/renderer"
	"github.com/pthm-cable/crow/ui"
)

const (
	panelMargin      = 10
	labelsPanelWidth = 230
	controlsWidth    = 200
	cameraNear       = 0.05
	controlsLegend   = "[Space] Pause  [,/.] Speed  [V] Camera  [RMB] Orbit  [Wheel] Zoom  [X/Y/A/B] Buttons  [O] Overlays  [L] Log"
)

// bodyReadout is the rigid-body section of the inspector.
type bodyReadout struct {
	Altitude  float64 `inspect:"bar,max:30,fmt:%.1f"`
	Speed     float64 `inspect:"bar,max:20,fmt:%.1f"`
	VertSpeed float64 `inspect:"label,fmt:%+.2f,name:Vertical"`
	Heading   float64 `inspect:"angle,fmt:%.0f"`
	Flaps     int     `inspect:"label"`
	Distance  float64 `inspect:"label,fmt:%.1f"`
}

// skyReadout is the celestial section of the inspector.
type skyReadout struct {
	SunElevation  float64 `inspect:"angle,fmt:%.1f,name:Sun"`
	MoonElevation float64 `inspect:"angle,fmt:%.1f,name:Moon"`
	SunTimer      float64 `inspect:"label,fmt:%.1f"`
}

// initGraphics creates renderers and UI panels. Requires an open window.
func (g *Game) initGraphics() {
	g.screenWidth = int32(rl.GetScreenWidth())
	g.screenHeight = int32(rl.GetScreenHeight())

	g.cam = camera.New()
	g.sky = renderer.NewSkyRenderer()
	g.terrainRenderer = renderer.NewTerrainRenderer(terrainResolution)
	g.terrainRenderer.Build(g.terrain)
	g.scene = renderer.NewSceneRenderer()
	g.drawTimings = NewDrawTimings()

	g.inspector = inspector.NewInspector(g.screenWidth, g.screenHeight)
	g.uiHUD = ui.NewHUD()
	g.uiOverlays = ui.NewOverlayRegistry()
	g.uiControls = ui.NewControlsPanel(0, 0, controlsWidth)
	g.uiLabels = ui.NewLabelsPanel(0, 0, labelsPanelWidth)
	g.uiPerfPanel = ui.NewPerfPanel(0, 0)
	g.buttonPad = ui.NewButtonPad(0, 0)
	g.layoutPanels()
}

// layoutPanels anchors the 2D panels to the current screen size.
func (g *Game) layoutPanels() {
	w, h := g.screenWidth, g.screenHeight
	g.inspector.Resize(w, h)
	g.uiLabels.SetPosition(panelMargin, 100)
	g.uiPerfPanel.SetPosition(ui.AnchorOrigin(ui.AnchorBottomRight, 220, 160, w, h, panelMargin+20))

	padW := int32(g.buttonPad.Width())
	x, y := ui.AnchorOrigin(ui.AnchorBottomLeft, padW, 60, w, h, panelMargin+20)
	g.buttonPad.SetPosition(float32(x), float32(y))

	cx, cy := ui.AnchorOrigin(ui.AnchorTopRight, controlsWidth, 0, w, h, panelMargin)
	g.uiControls.SetPosition(cx-inspector.PanelWidth-panelMargin, cy)
}

// camera3D resolves the follow camera into raylib's render space.
func (g *Game) camera3D() rl.Camera3D {
	v := g.cam.View(g.poses.Head, g.body.Pose())
	return rl.Camera3D{
		Position:   renderer.Vec3(v.Position),
		Target:     renderer.Vec3(v.Target),
		Up:         renderer.Vec3(v.Up),
		Fovy:       float32(g.cam.FOVY),
		Projection: rl.CameraPerspective,
	}
}

// Draw renders the 3D scene and the 2D overlay.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	cam := g.camera3D()
	rl.BeginMode3D(cam)
	if g.uiOverlays.IsEnabled(ui.OverlaySky) {
		g.drawTimings.Measure("sky", func() { g.sky.Draw(cam.Position, g.skyUniforms()) })
	}
	g.drawTimings.Measure("terrain", g.terrainRenderer.Draw)
	g.drawTimings.Measure("scene", g.drawScene)
	rl.EndMode3D()

	g.drawTimings.Measure("ui", g.drawUI)
	rl.EndDrawing()
}

// drawScene draws obstacles, the body, the rig and enabled 3D overlays.
func (g *Game) drawScene() {
	body := g.body.Pose()
	g.scene.DrawObstacles(g.physics.StaticBoxes(), false)
	g.scene.DrawBody(body, g.cfg.Body.Radius)
	if g.cam.Mode != camera.ModeHead {
		g.scene.DrawRig(g.poses)
	}
	g.drawSceneOverlays()
}

// drawUI draws the HUD and all 2D panels.
func (g *Game) drawUI() {
	status := g.flight.Status()
	vel := g.body.Velocity()

	g.uiHUD.Draw(ui.HUDData{
		Title:          "Crow",
		Step:           g.step,
		SimTime:        g.simTime,
		FPS:            rl.GetFPS(),
		Paused:         g.paused,
		StepsPerUpdate: g.stepsPerUpdate,
		CameraMode:     g.cam.Mode.String(),
		Altitude:       g.Altitude(),
		Speed:          vel.Len(),
		Grounded:       status.Grounded,
		Gliding:        status.Gliding,
		Source:         g.sourceName,
	})

	if g.uiOverlays.IsEnabled(ui.OverlayDebugLabels) {
		g.uiLabels.Draw("Flight", inspector.Lines(status))
	}

	g.inspector.Draw(
		inspector.Section{Title: "Flight", Value: status},
		inspector.Section{Title: "Body", Value: g.bodyReadout()},
		inspector.Section{Title: "Sky", Value: g.skyReadout()},
	)

	if g.uiOverlays.IsEnabled(ui.OverlayPerf) {
		g.uiPerfPanel.Draw(g.perfCollector.Stats())
	}

	if g.uiOverlays.IsEnabled(ui.OverlayButtonPad) {
		for _, b := range g.buttonPad.Draw() {
			g.PressButton(b)
		}
	}

	g.uiControls.Draw(g.uiOverlays)
	g.uiHUD.DrawControls(g.screenWidth, g.screenHeight, controlsLegend)
}

func (g *Game) bodyReadout() bodyReadout {
	pose := g.body.Pose()
	vel := g.body.Velocity()
	return bodyReadout{
		Altitude:  g.Altitude(),
		Speed:     vel.Len(),
		VertSpeed: vel.Y(),
		Heading:   pose.YawDegrees(),
		Flaps:     g.flaps,
		Distance:  g.collector.TotalDistance(),
	}
}

func (g *Game) skyReadout() skyReadout {
	return skyReadout{
		SunElevation:  elevationDegrees(g.celestial.SunDirection().Mul(-1)),
		MoonElevation: elevationDegrees(g.celestial.MoonDirection().Mul(-1)),
		SunTimer:      g.celestial.SunTimer(),
	}
}

// elevationDegrees returns the angle of a direction above the horizon.
func elevationDegrees(dir mgl64.Vec3) float64 {
	return mgl64.RadToDeg(math.Asin(mgl64.Clamp(dir.Y(), -1, 1)))
}

// RunGraphical drives the window loop until it closes or maxTicks is reached.
func (g *Game) RunGraphical(maxTicks int64) {
	for !rl.WindowShouldClose() {
		g.Update(float64(rl.GetFrameTime()))
		g.Draw()
		if maxTicks > 0 && g.step >= maxTicks {
			break
		}
	}
}

// String summarizes the game state for logs.
func (g *Game) String() string {
	return fmt.Sprintf("step=%d t=%.2fs alt=%.2f", g.step, g.simTime, g.Altitude())
}
