package systems

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/crow/components"
)

// normalizeEpsilon is the length below which a vector normalizes to zero.
const normalizeEpsilon = 1e-5

// ClampAngle wraps an angle in degrees into [-360, 360] by whole turns,
// then clamps it into [minDeg, maxDeg]. Whole multiples of a turn keep
// their sign (720 wraps to 360). Infinities clamp to the nearest bound.
func ClampAngle(angle, minDeg, maxDeg float64) float64 {
	switch {
	case math.IsInf(angle, 0) || math.IsNaN(angle):
	case angle > 360:
		if angle = math.Mod(angle, 360); angle == 0 {
			angle = 360
		}
	case angle < -360:
		if angle = math.Mod(angle, 360); angle == 0 {
			angle = -360
		}
	}
	return mgl64.Clamp(angle, minDeg, maxDeg)
}

// WrapAngle is ClampAngle with the default [-360, 360] range.
func WrapAngle(angle float64) float64 {
	return ClampAngle(angle, -360, 360)
}

// normalizeSafe returns the unit vector of v, or zero for near-zero vectors.
func normalizeSafe(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < normalizeEpsilon {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// EulerDegrees holds pitch (x), yaw (y) and roll (z) in degrees.
// Rotations apply roll first, then pitch, then yaw.
type EulerDegrees struct {
	X, Y, Z float64
}

// QuatFromEuler builds a rotation from Euler angles in degrees.
func QuatFromEuler(e EulerDegrees) mgl64.Quat {
	qy := mgl64.QuatRotate(mgl64.DegToRad(e.Y), components.WorldUp)
	qx := mgl64.QuatRotate(mgl64.DegToRad(e.X), components.WorldRight)
	qz := mgl64.QuatRotate(mgl64.DegToRad(e.Z), components.WorldForward)
	return qy.Mul(qx).Mul(qz).Normalize()
}

// EulerFromQuat extracts Euler angles in [0, 360) degrees.
func EulerFromQuat(q mgl64.Quat) EulerDegrees {
	m := q.Normalize().Mat4()

	sinX := mgl64.Clamp(-m.At(1, 2), -1, 1)
	x := math.Asin(sinX)

	var y, z float64
	if math.Abs(sinX) < 0.999999 {
		y = math.Atan2(m.At(0, 2), m.At(2, 2))
		z = math.Atan2(m.At(1, 0), m.At(1, 1))
	} else {
		// Gimbal lock: fold roll into yaw
		y = math.Atan2(-m.At(2, 0), m.At(0, 0))
		z = 0
	}

	return EulerDegrees{
		X: positiveDegrees(mgl64.RadToDeg(x)),
		Y: positiveDegrees(mgl64.RadToDeg(y)),
		Z: positiveDegrees(mgl64.RadToDeg(z)),
	}
}

// positiveDegrees maps an angle into [0, 360).
func positiveDegrees(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}
