package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/crow/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title          string
	Step           int64
	SimTime        float64
	FPS            int32
	Paused         bool
	StepsPerUpdate int
	CameraMode     string
	Altitude       float64 // Height above the terrain under the body
	Speed          float64
	Grounded       bool
	Gliding        bool
	Source         string // Tracking source description
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
		fmt.Sprintf("Step: %d | Time: %.1fs | Speed: %dx | FPS: %d | Camera: %s",
			data.Step, data.SimTime, data.StepsPerUpdate, data.FPS, data.CameraMode),
		10, 35, 16, rl.LightGray,
	)

	rl.DrawText(
		fmt.Sprintf("Altitude: %.1fm | Airspeed: %.1fm/s | Input: %s", data.Altitude, data.Speed, data.Source),
		10, 55, 16, rl.LightGray,
	)

	statusText := "Airborne"
	switch {
	case data.Paused:
		statusText = "PAUSED"
	case data.Grounded:
		statusText = "Grounded"
	case data.Gliding:
		statusText = "Gliding"
	}
	rl.DrawText(statusText, 10, 75, 16, rl.Yellow)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// LabelsPanel renders plain "Name: value" lines in a panel.
type LabelsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewLabelsPanel creates a labels panel.
func NewLabelsPanel(x, y, width int32) *LabelsPanel {
	return &LabelsPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (l *LabelsPanel) SetPosition(x, y int32) {
	l.x = x
	l.y = y
}

// Draw renders the title and lines.
func (l *LabelsPanel) Draw(title string, lines []string) {
	r := l.renderer
	padding := r.Theme.Padding
	height := padding*2 + r.Theme.LineHeight*int32(len(lines)+1)

	r.DrawPanel(l.x, l.y, l.width, height)
	y := r.DrawSectionHeader(l.x+padding, l.y+padding, title)
	r.DrawLines(l.x+padding, y, lines)
}

// PerfPanel renders the fixed-step performance panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	rl.DrawText("Step Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg: %s | Max: %s | %d ticks/s",
		stats.AvgTickDuration.Round(time.Microsecond),
		stats.MaxTickDuration.Round(time.Microsecond),
		int(stats.TicksPerSecond)), x, y, 14, rl.Yellow)
	y += 16

	for _, phase := range telemetry.Phases {
		avg := stats.PhaseAvg[phase]
		pct := stats.PhasePct[phase]

		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", phase, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
