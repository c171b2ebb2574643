package systems

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/crow/components"
	"github.com/pthm-cable/crow/config"
)

// sunYaw is the fixed heading of the sun's arc.
const sunYaw = -90.0

// sunSphericalCoefficient maps one day onto -(2.5 pi) radians, in degrees.
var sunSphericalCoefficient = -mgl64.RadToDeg(2*math.Pi + math.Pi/2)

// CelestialParams holds sun and moon parameters.
type CelestialParams struct {
	MoonMoveSpeed     float64 // Degrees per second about world x
	SunUpdateInterval float64 // Seconds between sun recomputes
	DaySeconds        int
}

// CelestialParamsFromConfig copies the celestial section of a loaded config.
func CelestialParamsFromConfig(cfg *config.Config) CelestialParams {
	return CelestialParams{
		MoonMoveSpeed:     cfg.Celestial.MoonMoveSpeed,
		SunUpdateInterval: cfg.Celestial.SunUpdateInterval,
		DaySeconds:        cfg.Celestial.DaySeconds,
	}
}

// CelestialCycle drives the sun from the wall clock and the moon at a constant rate.
type CelestialCycle struct {
	params   CelestialParams
	sunTimer float64
	sun      mgl64.Quat
	moon     mgl64.Quat
}

// NewCelestialCycle creates a cycle with the moon at the given rotation.
func NewCelestialCycle(params CelestialParams, moon mgl64.Quat) *CelestialCycle {
	if params.DaySeconds <= 0 {
		params.DaySeconds = 86400
	}
	return &CelestialCycle{
		params: params,
		sun:    mgl64.QuatIdent(),
		moon:   moon.Normalize(),
	}
}

// SunAngleAt returns the sun pitch in degrees for a wall-clock time of day.
func SunAngleAt(t time.Time, daySeconds int) float64 {
	elapsed := float64(t.Hour()*3600+t.Minute()*60+t.Second()) + float64(t.Nanosecond())/1e9
	return WrapAngle(sunSphericalCoefficient * (elapsed / float64(daySeconds)))
}

// Start places the sun for the current time and restarts the update timer.
func (c *CelestialCycle) Start(now time.Time) {
	c.updateSun(now)
	c.sunTimer = 0
}

// Update advances one frame. The sun is recomputed only once per interval.
func (c *CelestialCycle) Update(dt float64, now time.Time) {
	c.sunTimer += dt
	if c.sunTimer >= c.params.SunUpdateInterval {
		c.updateSun(now)
		c.sunTimer = 0
	}

	step := QuatFromEuler(EulerDegrees{X: c.params.MoonMoveSpeed * dt})
	moon := step.Mul(c.moon).Normalize()

	// Keep stored angles bounded; roll is dropped.
	e := EulerFromQuat(moon)
	e.X = WrapAngle(e.X)
	e.Y = WrapAngle(e.Y)
	e.Z = 0
	c.moon = QuatFromEuler(e)
}

func (c *CelestialCycle) updateSun(now time.Time) {
	c.sun = QuatFromEuler(EulerDegrees{X: SunAngleAt(now, c.params.DaySeconds), Y: sunYaw})
}

// SunRotation returns the sun orientation.
func (c *CelestialCycle) SunRotation() mgl64.Quat { return c.sun }

// MoonRotation returns the moon orientation.
func (c *CelestialCycle) MoonRotation() mgl64.Quat { return c.moon }

// SunTimer returns seconds since the last sun recompute.
func (c *CelestialCycle) SunTimer() float64 { return c.sunTimer }

// SunDirection returns the sun's forward axis.
func (c *CelestialCycle) SunDirection() mgl64.Vec3 {
	return c.sun.Rotate(components.WorldForward)
}

// MoonDirection returns the moon's forward axis.
func (c *CelestialCycle) MoonDirection() mgl64.Vec3 {
	return c.moon.Rotate(components.WorldForward)
}

// MoonSpaceMatrix returns the sky-space basis of the moon: rows are
// -forward, up and -right.
func (c *CelestialCycle) MoonSpaceMatrix() mgl64.Mat4 {
	fwd := c.moon.Rotate(components.WorldForward)
	up := c.moon.Rotate(components.WorldUp)
	right := c.moon.Rotate(components.WorldRight)
	return mgl64.Mat4FromCols(
		fwd.Mul(-1).Vec4(0),
		up.Vec4(0),
		right.Mul(-1).Vec4(0),
		mgl64.Vec4{},
	).Transpose()
}
