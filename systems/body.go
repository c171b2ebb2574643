package systems

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/crow/components"
)

// Body is the rigid-body capability the flight controller drives.
type Body interface {
	Pose() components.Pose
	Velocity() mgl64.Vec3
	SetVelocity(v mgl64.Vec3)
	SetRotation(q mgl64.Quat)
	IsSleeping() bool
	AddForce(f mgl64.Vec3, mode components.ForceMode)
	AddTorque(t mgl64.Vec3, mode components.ForceMode)
}

// RaycastHit describes the nearest surface hit by a ray.
type RaycastHit struct {
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
	Layer    int
	Collider string
}

// Raycaster answers ray queries against the static world.
type Raycaster interface {
	Raycast(origin, dir mgl64.Vec3, maxDist float64, mask components.LayerMask, triggers components.QueryTriggers) (RaycastHit, bool)
}

// ContactPoint is a single point of contact. Normal points toward the body.
type ContactPoint struct {
	Point      mgl64.Vec3
	Normal     mgl64.Vec3
	Separation float64 // Negative when penetrating
}

// Collision groups the contacts a body has with one collider during a step.
type Collision struct {
	Collider string
	Layer    int
	Contacts []ContactPoint
}

// CollisionListener receives collision callbacks for a body.
// Enter fires on the first step of contact with a collider, Stay on every later one.
type CollisionListener interface {
	OnCollisionEnter(c Collision)
	OnCollisionStay(c Collision)
}

// AudioSink plays named one-shot cues.
type AudioSink interface {
	Play(cue string)
}

// Audio cue names.
const (
	CueFlap  = "flap"
	CueScraw = "scraw"
)
