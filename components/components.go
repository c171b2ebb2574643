// Package components defines ECS components for the flight simulation.
package components

// LayerMask selects physics layers by bit index.
type LayerMask uint32

// MaskOf builds a mask from layer indices.
func MaskOf(layers ...int) LayerMask {
	var m LayerMask
	for _, l := range layers {
		m |= 1 << uint(l)
	}
	return m
}

// AllLayers matches every layer.
const AllLayers LayerMask = ^LayerMask(0)

// Contains reports whether the layer bit is set.
func (m LayerMask) Contains(layer int) bool {
	return m&(1<<uint(layer)) != 0
}

// ForceMode selects how a force or torque request changes a body's motion.
type ForceMode uint8

const (
	ForceModeForce          ForceMode = iota // Continuous, scaled by dt and divided by mass
	ForceModeAcceleration                    // Continuous, scaled by dt, ignores mass
	ForceModeImpulse                         // Instant, divided by mass
	ForceModeVelocityChange                  // Instant, ignores mass
)

// String returns the display name for a ForceMode.
func (m ForceMode) String() string {
	switch m {
	case ForceModeForce:
		return "Force"
	case ForceModeAcceleration:
		return "Acceleration"
	case ForceModeImpulse:
		return "Impulse"
	case ForceModeVelocityChange:
		return "VelocityChange"
	default:
		return "Unknown"
	}
}

// QueryTriggers controls whether ray queries report trigger volumes.
type QueryTriggers uint8

const (
	QueryTriggerIgnore QueryTriggers = iota
	QueryTriggerCollide
)

// Rig tags the rigid body that carries the tracked head and hands.
type Rig struct {
	EyeHeight float64 // Head offset above the body origin
}

// SphereCollider is the collision shape of a rigid body.
type SphereCollider struct {
	Radius float64
	Layer  int
}

// StaticBox is an immovable axis-aligned box collider.
type StaticBox struct {
	Name    string
	Center  [3]float64
	Extents [3]float64 // Half extents
	Layer   int
	Trigger bool // Triggers never generate contacts and can be skipped by ray queries
}
