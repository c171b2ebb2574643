// Package tracking provides head and hand poses for the flight rig, either
// generated from scripted gestures or replayed from recorded captures.
package tracking

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/crow/components"
	"github.com/pthm-cable/crow/systems"
)

// Frame is one sample of rig-local tracking data.
type Frame struct {
	Time      float64
	Head      components.Pose
	LeftHand  components.Pose
	RightHand components.Pose
	Buttons   []components.Button // Presses that happened since the previous frame
}

// Source produces tracking frames at a fixed rate.
type Source interface {
	// Advance returns the frame at the current time, then moves time forward by dt.
	Advance(dt float64) Frame
	// Done reports whether a finite source has run out of data.
	Done() bool
}

// Static is a source that always returns the same frame.
type Static struct {
	frame Frame
	t     float64
}

// NewStatic creates a source holding a single pose set.
func NewStatic(frame Frame) *Static {
	frame.Buttons = nil
	return &Static{frame: frame}
}

// RestFrame is the neutral standing pose with the arms lowered.
func RestFrame(headHeight float64) Frame {
	return Frame{
		Head:      components.NewPose(mgl64.Vec3{0, headHeight, 0}),
		LeftHand:  components.NewPose(mgl64.Vec3{-restHandOffsetX, headHeight - restHandDrop, restHandOffsetZ}),
		RightHand: components.NewPose(mgl64.Vec3{restHandOffsetX, headHeight - restHandDrop, restHandOffsetZ}),
	}
}

func (s *Static) Advance(dt float64) Frame {
	f := s.frame
	f.Time = s.t
	s.t += dt
	return f
}

func (s *Static) Done() bool { return false }

// ToWorld places the rig-local poses of a frame on the body.
// The rig origin is raised by the eye height along the body's up axis.
func ToWorld(f Frame, body components.Pose, rig components.Rig) systems.TrackedPoses {
	root := body
	root.Position = root.Position.Add(body.Up().Mul(rig.EyeHeight))
	return systems.TrackedPoses{
		Head:      root.Compose(f.Head),
		LeftHand:  root.Compose(f.LeftHand),
		RightHand: root.Compose(f.RightHand),
	}
}
