package game

import (
	"fmt"
	"io"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/crow/systems"
	"github.com/pthm-cable/crow/telemetry"
)

// logWriter is the destination for log output.
var logWriter io.Writer

// SetLogWriter sets the log output destination.
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// Logf writes a formatted log message.
func Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if logWriter != nil {
		fmt.Fprintln(logWriter, msg)
	} else {
		fmt.Println(msg)
	}
}

// logPerfStats logs fixed-step phase timing and, with a window, draw pass timing.
func (g *Game) logPerfStats() {
	stats := g.perfCollector.Stats()
	Logf("=== Perf @ Step %d (speed %dx) | %d steps averaged ===", g.step, g.stepsPerUpdate, stats.Steps)
	Logf("Step time: %s avg, %s min, %s max",
		stats.AvgTickDuration.Round(time.Microsecond),
		stats.MinTickDuration.Round(time.Microsecond),
		stats.MaxTickDuration.Round(time.Microsecond))
	for _, phase := range telemetry.Phases {
		Logf("  %-12s %10s  %5.1f%%", phase,
			stats.PhaseAvg[phase].Round(time.Microsecond), stats.PhasePct[phase])
	}

	if g.drawTimings == nil {
		Logf("")
		return
	}
	total := g.drawTimings.Total()
	Logf("Draw time: %s (raylib FPS %d)", total.Round(time.Microsecond), rl.GetFPS())
	for _, name := range g.drawTimings.SortedNames() {
		avg := g.drawTimings.Avg(name)
		pct := float64(0)
		if total > 0 {
			pct = float64(avg) / float64(total) * 100
		}
		Logf("  %-12s %10s  %5.1f%%", name, avg.Round(time.Microsecond), pct)
	}
	Logf("")
}

// logFlightState logs the body and controller state.
func (g *Game) logFlightState() {
	pose := g.body.Pose()
	vel := g.body.Velocity()
	status := g.flight.Status()

	Logf("=== Step %d (%.2fs) ===", g.step, g.simTime)
	Logf("Body: pos=(%.2f, %.2f, %.2f) vel=(%.2f, %.2f, %.2f) heading=%.1f alt=%.2f",
		pose.Position.X(), pose.Position.Y(), pose.Position.Z(),
		vel.X(), vel.Y(), vel.Z(), pose.YawDegrees(), g.Altitude())
	Logf("Flight: %s", describeStatus(status))
	Logf("Hands: dist2=%.2f left=%.1f right=%.1f wingspan=%t far=%t",
		status.HandDistanceSqr, status.LeftHandAngle, status.RightHandAngle,
		status.WingspanToTheSides, status.HandsFarEnough)
	Logf("Flaps: %d (last speed %.3f) | cues: flap=%d scraw=%d",
		g.flaps, status.LastFlapSpeed, g.audio.Count(systems.CueFlap), g.audio.Count(systems.CueScraw))
	Logf("Sun: %.1f deg | Moon: %.1f deg",
		elevationDegrees(g.celestial.SunDirection().Mul(-1)),
		elevationDegrees(g.celestial.MoonDirection().Mul(-1)))
	Logf("")
}

func describeStatus(s systems.FlightStatus) string {
	switch {
	case s.Grounded:
		return "grounded"
	case s.Gliding:
		return fmt.Sprintf("gliding (%d steps airborne)", s.StepsSinceGrounded)
	case s.FlapReady:
		return fmt.Sprintf("flap ready (%d steps airborne)", s.StepsSinceGrounded)
	default:
		return fmt.Sprintf("airborne (%d steps)", s.StepsSinceGrounded)
	}
}
