package components

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Basis vectors in the y-up, z-forward convention.
var (
	WorldUp      = mgl64.Vec3{0, 1, 0}
	WorldForward = mgl64.Vec3{0, 0, 1}
	WorldRight   = mgl64.Vec3{1, 0, 0}
)

// Pose is a position and orientation, either world-space or rig-local.
type Pose struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// NewPose returns an unrotated pose at the given position.
func NewPose(pos mgl64.Vec3) Pose {
	return Pose{Position: pos, Rotation: mgl64.QuatIdent()}
}

// Forward returns the pose's local +z axis in the parent frame.
func (p Pose) Forward() mgl64.Vec3 { return p.Rotation.Rotate(WorldForward) }

// Right returns the pose's local +x axis in the parent frame.
func (p Pose) Right() mgl64.Vec3 { return p.Rotation.Rotate(WorldRight) }

// Up returns the pose's local +y axis in the parent frame.
func (p Pose) Up() mgl64.Vec3 { return p.Rotation.Rotate(WorldUp) }

// YawDegrees returns the heading of the forward axis about world up.
// Positive yaw turns forward toward +x.
func (p Pose) YawDegrees() float64 {
	f := p.Forward()
	return mgl64.RadToDeg(math.Atan2(f.X(), f.Z()))
}

// Compose places a pose expressed in p's local frame into p's parent frame.
func (p Pose) Compose(local Pose) Pose {
	return Pose{
		Position: p.Position.Add(p.Rotation.Rotate(local.Position)),
		Rotation: p.Rotation.Mul(local.Rotation).Normalize(),
	}
}

// Transform is the ECS component holding an entity's world pose.
type Transform struct {
	Pose
}
