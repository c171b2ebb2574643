// Package camera provides the 3D viewpoints used to watch the rig.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/crow/components"
)

// Mode selects how the camera follows the rig.
type Mode uint8

const (
	ModeChase Mode = iota // Behind and above the body, following its heading
	ModeHead              // Through the tracked head
)

// String returns the display name for a Mode.
func (m Mode) String() string {
	switch m {
	case ModeChase:
		return "chase"
	case ModeHead:
		return "head"
	default:
		return "unknown"
	}
}

// View is a resolved camera placement in world coordinates.
type View struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3
	Up       mgl64.Vec3
}

// Camera holds the follow settings. Angles are in radians.
type Camera struct {
	Mode Mode

	// Chase placement
	Distance    float64
	TargetLift  float64 // Look-at point above the body origin
	OrbitYaw    float64 // Offset around the body's heading
	OrbitPitch  float64 // Elevation above the horizon
	MinDistance float64
	MaxDistance float64

	FOVY float64 // Degrees
}

// Defaults for a new camera.
const (
	DefaultDistance   = 6.0
	DefaultTargetLift = 1.0
	DefaultOrbitPitch = 0.35
	DefaultFOVY       = 70.0
	maxOrbitPitch     = 1.45
)

// New creates a chase camera with default framing.
func New() *Camera {
	return &Camera{
		Mode:        ModeChase,
		Distance:    DefaultDistance,
		TargetLift:  DefaultTargetLift,
		OrbitPitch:  DefaultOrbitPitch,
		MinDistance: 1.5,
		MaxDistance: 40,
		FOVY:        DefaultFOVY,
	}
}

// Toggle switches between chase and head modes.
func (c *Camera) Toggle() {
	if c.Mode == ModeChase {
		c.Mode = ModeHead
	} else {
		c.Mode = ModeChase
	}
}

// ZoomBy scales the chase distance, clamped to min/max.
func (c *Camera) ZoomBy(factor float64) {
	c.Distance = clamp(c.Distance*factor, c.MinDistance, c.MaxDistance)
}

// Orbit rotates the chase camera around the body.
func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.OrbitYaw = math.Mod(c.OrbitYaw+dYaw, 2*math.Pi)
	c.OrbitPitch = clamp(c.OrbitPitch+dPitch, -maxOrbitPitch, maxOrbitPitch)
}

// Reset restores the default chase framing.
func (c *Camera) Reset() {
	c.Distance = DefaultDistance
	c.OrbitYaw = 0
	c.OrbitPitch = DefaultOrbitPitch
}

// View resolves the placement for the current mode.
func (c *Camera) View(head, body components.Pose) View {
	if c.Mode == ModeHead {
		return HeadView(head)
	}
	return c.ChaseView(body)
}

// HeadView looks along the head's forward axis.
func HeadView(head components.Pose) View {
	return View{
		Position: head.Position,
		Target:   head.Position.Add(head.Forward()),
		Up:       head.Up(),
	}
}

// ChaseView places the camera behind the body's heading. Only the body's yaw
// is followed so banking and pitching do not swing the view.
func (c *Camera) ChaseView(body components.Pose) View {
	heading := Heading(body)
	dir := mgl64.QuatRotate(c.OrbitYaw, components.WorldUp).Rotate(heading)

	target := body.Position.Add(components.WorldUp.Mul(c.TargetLift))
	back := dir.Mul(-c.Distance * math.Cos(c.OrbitPitch))
	lift := components.WorldUp.Mul(c.Distance * math.Sin(c.OrbitPitch))

	return View{
		Position: target.Add(back).Add(lift),
		Target:   target,
		Up:       components.WorldUp,
	}
}

// Heading returns the body's forward direction flattened onto the ground plane.
// A body facing straight up or down falls back to world forward.
func Heading(body components.Pose) mgl64.Vec3 {
	f := body.Forward()
	f[1] = 0
	if f.Len() < 1e-6 {
		return components.WorldForward
	}
	return f.Normalize()
}

// clamp restricts a value to a range.
func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
