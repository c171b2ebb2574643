package components

import "github.com/go-gl/mathgl/mgl64"

// RigidBody holds the dynamic state of a simulated body.
// Force and torque requests accumulate until the physics system consumes them.
type RigidBody struct {
	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3 // radians per second

	Mass           float64
	Inertia        float64 // Scalar moment of inertia
	LinearDamping  float64
	AngularDamping float64
	FreezeTilt     bool // Lock rotation about x and z

	Sleeping   bool
	QuietSteps int // Consecutive steps below the sleep threshold

	Force        mgl64.Vec3 // Accumulated ForceModeForce
	Acceleration mgl64.Vec3 // Accumulated ForceModeAcceleration
	Torque       mgl64.Vec3 // Accumulated ForceModeForce torque
	AngularAccel mgl64.Vec3 // Accumulated ForceModeAcceleration torque
}

// Wake clears the sleep state.
func (b *RigidBody) Wake() {
	b.Sleeping = false
	b.QuietSteps = 0
}

// AddForce applies a force request. Any request wakes the body.
func (b *RigidBody) AddForce(f mgl64.Vec3, mode ForceMode) {
	b.Wake()
	switch mode {
	case ForceModeForce:
		b.Force = b.Force.Add(f)
	case ForceModeAcceleration:
		b.Acceleration = b.Acceleration.Add(f)
	case ForceModeImpulse:
		b.Velocity = b.Velocity.Add(f.Mul(1 / b.Mass))
	case ForceModeVelocityChange:
		b.Velocity = b.Velocity.Add(f)
	}
}

// AddTorque applies a torque request. Any request wakes the body.
func (b *RigidBody) AddTorque(t mgl64.Vec3, mode ForceMode) {
	b.Wake()
	switch mode {
	case ForceModeForce:
		b.Torque = b.Torque.Add(t)
	case ForceModeAcceleration:
		b.AngularAccel = b.AngularAccel.Add(t)
	case ForceModeImpulse:
		b.AngularVelocity = b.AngularVelocity.Add(t.Mul(1 / b.Inertia))
	case ForceModeVelocityChange:
		b.AngularVelocity = b.AngularVelocity.Add(t)
	}
}

// ClearAccumulators drops pending continuous forces and torques.
func (b *RigidBody) ClearAccumulators() {
	b.Force = mgl64.Vec3{}
	b.Acceleration = mgl64.Vec3{}
	b.Torque = mgl64.Vec3{}
	b.AngularAccel = mgl64.Vec3{}
}
