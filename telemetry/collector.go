package telemetry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// FlightSample is the body state after one physics step.
type FlightSample struct {
	Step     int64
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Grounded bool
	Gliding  bool
	Snapped  bool
}

// FlapRecord is one row of flaps.csv.
type FlapRecord struct {
	Step     int64   `csv:"step"`
	SimTime  float64 `csv:"sim_time"`
	Speed    float64 `csv:"speed"`
	DirX     float64 `csv:"dir_x"`
	DirY     float64 `csv:"dir_y"`
	DirZ     float64 `csv:"dir_z"`
	Impulse  float64 `csv:"impulse"`
	Altitude float64 `csv:"altitude"`
}

// Collector accumulates flight samples within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationSteps int64
	dt                  float64

	// Current window tracking
	windowStartStep int64

	// Counters for current window
	steps         int
	glideSteps    int
	groundedSteps int
	snaps         int
	flapSpeeds    []float64
	speeds        []float64
	minAltitude   float64
	maxAltitude   float64
	windowStart   mgl64.Vec3
	pathLength    float64

	// Whole-run tracking
	origin    mgl64.Vec3
	last      mgl64.Vec3
	hasSample bool
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per physics step
func NewCollector(windowDurationSec, dt float64) *Collector {
	stepsPerWindow := int64(math.Round(windowDurationSec / dt))
	if stepsPerWindow < 1 {
		stepsPerWindow = 1
	}

	c := &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationSteps: stepsPerWindow,
		dt:                  dt,
	}
	c.resetWindow()
	return c
}

func (c *Collector) resetWindow() {
	c.steps = 0
	c.glideSteps = 0
	c.groundedSteps = 0
	c.snaps = 0
	c.flapSpeeds = c.flapSpeeds[:0]
	c.speeds = c.speeds[:0]
	c.minAltitude = math.Inf(1)
	c.maxAltitude = math.Inf(-1)
	c.windowStart = c.last
	c.pathLength = 0
}

// Record adds one step of flight state.
func (c *Collector) Record(s FlightSample) {
	if !c.hasSample {
		c.origin = s.Position
		c.last = s.Position
		c.windowStart = s.Position
		c.hasSample = true
	}

	c.steps++
	if s.Gliding {
		c.glideSteps++
	}
	if s.Grounded {
		c.groundedSteps++
	}
	if s.Snapped {
		c.snaps++
	}
	c.speeds = append(c.speeds, s.Velocity.Len())

	alt := s.Position.Y()
	c.minAltitude = math.Min(c.minAltitude, alt)
	c.maxAltitude = math.Max(c.maxAltitude, alt)

	c.pathLength += horizontal(s.Position.Sub(c.last))
	c.last = s.Position
}

// RecordFlap records a fired flap.
func (c *Collector) RecordFlap(speed float64) {
	c.flapSpeeds = append(c.flapSpeeds, speed)
}

// ShouldFlush returns true if enough steps have passed to flush the window.
func (c *Collector) ShouldFlush(currentStep int64) bool {
	return currentStep-c.windowStartStep >= c.windowDurationSteps
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentStep int64) WindowStats {
	stats := WindowStats{
		WindowStartStep: c.windowStartStep,
		WindowEndStep:   currentStep,
		SimTimeSec:      float64(currentStep) * c.dt,

		Flaps: len(c.flapSpeeds),
		Snaps: c.snaps,

		PathLength:    c.pathLength,
		Displacement:  horizontal(c.last.Sub(c.windowStart)),
		TotalDistance: horizontal(c.last.Sub(c.origin)),
	}

	stats.FlapSpeedMean, _, _, stats.FlapSpeedP90 = ComputeSpeedStats(c.flapSpeeds)
	stats.SpeedMean, stats.SpeedStd, stats.SpeedP50, stats.SpeedP90 = ComputeSpeedStats(c.speeds)

	if c.steps > 0 {
		stats.GlideFraction = float64(c.glideSteps) / float64(c.steps)
		stats.GroundedFraction = float64(c.groundedSteps) / float64(c.steps)
		stats.MinAltitude = c.minAltitude
		stats.MaxAltitude = c.maxAltitude
	}

	// Reset for next window
	c.windowStartStep = currentStep
	c.resetWindow()

	return stats
}

// TotalDistance returns the horizontal distance from the first sample to the latest.
func (c *Collector) TotalDistance() float64 {
	return horizontal(c.last.Sub(c.origin))
}

// WindowDurationSteps returns the number of steps per window.
func (c *Collector) WindowDurationSteps() int64 {
	return c.windowDurationSteps
}

// horizontal returns the length of v projected onto the ground plane.
func horizontal(v mgl64.Vec3) float64 {
	return math.Hypot(v.X(), v.Z())
}
