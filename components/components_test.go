package components

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func vecNear(a, b mgl64.Vec3, eps float64) bool {
	return math.Abs(a.X()-b.X()) <= eps && math.Abs(a.Y()-b.Y()) <= eps && math.Abs(a.Z()-b.Z()) <= eps
}

func TestLayerMask(t *testing.T) {
	m := MaskOf(1, 3)
	if !m.Contains(1) || !m.Contains(3) {
		t.Errorf("mask %b should contain layers 1 and 3", m)
	}
	if m.Contains(0) || m.Contains(2) {
		t.Errorf("mask %b should not contain layers 0 or 2", m)
	}
	if !AllLayers.Contains(31) {
		t.Error("AllLayers should contain every layer")
	}
}

func TestRigidBodyForceModes(t *testing.T) {
	tests := []struct {
		name     string
		mode     ForceMode
		wantVel  mgl64.Vec3
		wantAcc  mgl64.Vec3
		wantForc mgl64.Vec3
	}{
		{"force accumulates", ForceModeForce, mgl64.Vec3{}, mgl64.Vec3{}, mgl64.Vec3{4, 0, 0}},
		{"acceleration accumulates", ForceModeAcceleration, mgl64.Vec3{}, mgl64.Vec3{4, 0, 0}, mgl64.Vec3{}},
		{"impulse divides by mass", ForceModeImpulse, mgl64.Vec3{2, 0, 0}, mgl64.Vec3{}, mgl64.Vec3{}},
		{"velocity change ignores mass", ForceModeVelocityChange, mgl64.Vec3{4, 0, 0}, mgl64.Vec3{}, mgl64.Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &RigidBody{Mass: 2, Inertia: 1, Sleeping: true, QuietSteps: 9}
			b.AddForce(mgl64.Vec3{4, 0, 0}, tt.mode)

			if b.Sleeping || b.QuietSteps != 0 {
				t.Error("force request should wake the body")
			}
			if !vecNear(b.Velocity, tt.wantVel, 1e-12) {
				t.Errorf("velocity = %v, want %v", b.Velocity, tt.wantVel)
			}
			if !vecNear(b.Acceleration, tt.wantAcc, 1e-12) {
				t.Errorf("acceleration = %v, want %v", b.Acceleration, tt.wantAcc)
			}
			if !vecNear(b.Force, tt.wantForc, 1e-12) {
				t.Errorf("force = %v, want %v", b.Force, tt.wantForc)
			}
		})
	}
}

func TestRigidBodyTorque(t *testing.T) {
	b := &RigidBody{Mass: 1, Inertia: 0.5}
	b.AddTorque(mgl64.Vec3{0, 1, 0}, ForceModeForce)
	b.AddTorque(mgl64.Vec3{0, 1, 0}, ForceModeForce)
	if b.Torque.Y() != 2 {
		t.Errorf("torque should accumulate, got %v", b.Torque)
	}

	b.AddTorque(mgl64.Vec3{0, 1, 0}, ForceModeImpulse)
	if b.AngularVelocity.Y() != 2 {
		t.Errorf("impulse torque should divide by inertia, got %v", b.AngularVelocity)
	}

	b.ClearAccumulators()
	if b.Torque.Len() != 0 {
		t.Error("ClearAccumulators should reset torque")
	}
}

func TestPoseBasis(t *testing.T) {
	p := NewPose(mgl64.Vec3{1, 2, 3})
	if !vecNear(p.Forward(), WorldForward, 1e-12) || !vecNear(p.Right(), WorldRight, 1e-12) || !vecNear(p.Up(), WorldUp, 1e-12) {
		t.Fatal("identity pose should use world basis")
	}

	// 90 degrees of yaw turns forward toward +x
	p.Rotation = mgl64.QuatRotate(math.Pi/2, WorldUp)
	if !vecNear(p.Forward(), mgl64.Vec3{1, 0, 0}, 1e-9) {
		t.Errorf("forward = %v, want +x", p.Forward())
	}
	if math.Abs(p.YawDegrees()-90) > 1e-9 {
		t.Errorf("yaw = %v, want 90", p.YawDegrees())
	}
}

func TestPoseCompose(t *testing.T) {
	parent := Pose{Position: mgl64.Vec3{10, 0, 0}, Rotation: mgl64.QuatRotate(math.Pi/2, WorldUp)}
	local := NewPose(mgl64.Vec3{0, 1, 2})

	world := parent.Compose(local)
	want := mgl64.Vec3{12, 1, 0}
	if !vecNear(world.Position, want, 1e-9) {
		t.Errorf("composed position = %v, want %v", world.Position, want)
	}
	if !vecNear(world.Forward(), parent.Forward(), 1e-9) {
		t.Errorf("composed forward = %v, want parent forward", world.Forward())
	}
}

func TestParseButton(t *testing.T) {
	tests := []struct {
		name string
		want Button
		ok   bool
	}{
		{"x", ButtonX, true},
		{"Y", ButtonY, true},
		{"a", ButtonA, true},
		{"B", ButtonB, true},
		{"trigger", 0, false},
		{"", 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseButton(tc.name)
			if ok != tc.ok || got != tc.want {
				t.Errorf("ParseButton(%q) = %v, %v; want %v, %v", tc.name, got, ok, tc.want, tc.ok)
			}
			if ok {
				if back, _ := ParseButton(got.String()); back != got {
					t.Errorf("round trip of %v gave %v", got, back)
				}
			}
		})
	}
}
