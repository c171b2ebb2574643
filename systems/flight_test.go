package systems

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/crow/components"
)

type appliedForce struct {
	vec  mgl64.Vec3
	mode components.ForceMode
}

// fakeBody records every force and torque request.
type fakeBody struct {
	pose     components.Pose
	velocity mgl64.Vec3
	sleeping bool
	forces   []appliedForce
	torques  []appliedForce
}

func newFakeBody() *fakeBody {
	return &fakeBody{pose: components.NewPose(mgl64.Vec3{0, 10, 0})}
}

func (b *fakeBody) Pose() components.Pose    { return b.pose }
func (b *fakeBody) Velocity() mgl64.Vec3     { return b.velocity }
func (b *fakeBody) SetVelocity(v mgl64.Vec3) { b.velocity = v }
func (b *fakeBody) SetRotation(q mgl64.Quat) { b.pose.Rotation = q }
func (b *fakeBody) IsSleeping() bool         { return b.sleeping }
func (b *fakeBody) AddForce(f mgl64.Vec3, m components.ForceMode) {
	b.forces = append(b.forces, appliedForce{f, m})
}
func (b *fakeBody) AddTorque(t mgl64.Vec3, m components.ForceMode) {
	b.torques = append(b.torques, appliedForce{t, m})
}

func (b *fakeBody) forcesOf(mode components.ForceMode) []mgl64.Vec3 {
	var out []mgl64.Vec3
	for _, f := range b.forces {
		if f.mode == mode {
			out = append(out, f.vec)
		}
	}
	return out
}

// fakeRay returns a fixed hit, or nothing when hit is nil.
type fakeRay struct {
	hit   *RaycastHit
	calls int
}

func (r *fakeRay) Raycast(origin, dir mgl64.Vec3, maxDist float64, mask components.LayerMask, triggers components.QueryTriggers) (RaycastHit, bool) {
	r.calls++
	if r.hit == nil || r.hit.Distance > maxDist {
		return RaycastHit{}, false
	}
	return *r.hit, true
}

type fakeAudio struct {
	played []string
}

func (a *fakeAudio) Play(cue string) { a.played = append(a.played, cue) }

func testFlightParams() FlightParams {
	return FlightParams{
		HandsAboveHeadThreshold:   -0.1,
		ExtraFlapStrength:         110,
		FlapForwardCompensation:   0.6,
		MaxTraversableGroundAngle: 55,
		MaxSnapToGroundVelocity:   5,
		SnapProbeDistance:         1,
		GroundMask:                components.MaskOf(1),
		GlideMinHandDotWithFwd:    -0.5,
		GlideMaxHandDotWithFwd:    0.5,
		GlideMinHandDistance:      0.5,
		GlideForwardScalar:        6.3,
		GlideTurnScalar:           0.025,
		GlideGravityDamping:       0.2,
		GravityY:                  -9.81,
	}
}

const headY = 1.6

// posesAt builds poses with the head at headY and hands at the given positions.
func posesAt(left, right mgl64.Vec3) TrackedPoses {
	return TrackedPoses{
		Head:      components.NewPose(mgl64.Vec3{0, headY, 0}),
		LeftHand:  components.NewPose(left),
		RightHand: components.NewPose(right),
	}
}

// handsAt places both hands close together at height y, too close to glide.
func handsAt(y float64) TrackedPoses {
	return posesAt(mgl64.Vec3{-0.1, y, 0}, mgl64.Vec3{0.1, y, 0})
}

func TestFlapEdgeTriggered(t *testing.T) {
	tests := []struct {
		name      string
		heights   [][2]float64 // left, right hand heights per step
		wantFlaps int
	}{
		{"rise and lower", [][2]float64{{1.0, 1.0}, {1.7, 1.7}, {1.0, 1.0}, {1.0, 1.0}}, 1},
		{"two cycles", [][2]float64{{1.0, 1.0}, {1.7, 1.7}, {1.0, 1.0}, {1.7, 1.7}, {1.0, 1.0}}, 2},
		{"rise and stay", [][2]float64{{1.0, 1.0}, {1.7, 1.7}, {1.7, 1.7}, {1.7, 1.7}}, 0},
		{"only left raised", [][2]float64{{1.0, 1.0}, {1.7, 1.0}, {1.0, 1.0}}, 0},
		{"one hand stays up", [][2]float64{{1.7, 1.7}, {1.0, 1.7}, {1.0, 1.7}}, 0},
		{"held above then both lower", [][2]float64{{1.7, 1.7}, {1.7, 1.7}, {1.0, 1.6}, {1.0, 1.0}}, 1},
		{"near head height counts", [][2]float64{{1.55, 1.55}, {1.2, 1.2}}, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			body := newFakeBody()
			fc := NewFlightController(testFlightParams(), body, nil, nil)
			flaps := 0
			fc.OnFlap = func(FlapEvent) { flaps++ }

			for _, h := range tc.heights {
				fc.FixedUpdate(posesAt(mgl64.Vec3{-0.1, h[0], 0}, mgl64.Vec3{0.1, h[1], 0}))
			}

			if flaps != tc.wantFlaps {
				t.Errorf("flaps = %d, want %d", flaps, tc.wantFlaps)
			}
			if got := len(body.forcesOf(components.ForceModeImpulse)); got != tc.wantFlaps {
				t.Errorf("impulses = %d, want %d", got, tc.wantFlaps)
			}
		})
	}
}

func TestFlapImpulse(t *testing.T) {
	body := newFakeBody()
	audio := &fakeAudio{}
	fc := NewFlightController(testFlightParams(), body, nil, audio)

	var event FlapEvent
	fc.OnFlap = func(e FlapEvent) { event = e }

	fc.FixedUpdate(handsAt(1.7))
	if !fc.IsFlapReady() {
		t.Fatal("expected flap ready after both hands rose")
	}
	fc.FixedUpdate(handsAt(1.0))
	if fc.IsFlapReady() {
		t.Error("flap ready should clear after a flap")
	}

	impulses := body.forcesOf(components.ForceModeImpulse)
	if len(impulses) != 1 {
		t.Fatalf("impulses = %d, want 1", len(impulses))
	}

	// Hands moved 0.7 straight down. Direction (0,-1,0) minus 0.6 forward,
	// negated and scaled by 0.7 * 110.
	want := mgl64.Vec3{0, 0.7 * 110, 0.6 * 0.7 * 110}
	if !vecNear(impulses[0], want, 1e-9) {
		t.Errorf("impulse = %v, want %v", impulses[0], want)
	}
	if math.Abs(event.Speed-0.7) > 1e-9 {
		t.Errorf("flap speed = %v, want 0.7", event.Speed)
	}
	if event.Step != 2 {
		t.Errorf("flap step = %d, want 2", event.Step)
	}
	if len(audio.played) != 1 || audio.played[0] != CueFlap {
		t.Errorf("audio = %v, want [%s]", audio.played, CueFlap)
	}
}

func TestFlapReadyPersistsWhileRaised(t *testing.T) {
	body := newFakeBody()
	fc := NewFlightController(testFlightParams(), body, nil, nil)

	// Hands arrive already raised on the very first step.
	fc.FixedUpdate(handsAt(1.7))
	fc.FixedUpdate(handsAt(1.8))
	if !fc.IsFlapReady() {
		t.Fatal("expected flap ready while hands stay raised")
	}
	fc.FixedUpdate(handsAt(1.0))

	if got := fc.Status().LastFlapSpeed; math.Abs(got-0.8) > 1e-9 {
		t.Errorf("last flap speed = %v, want 0.8", got)
	}
}

// spread holds the wings level at head height, two metres apart.
func spread() TrackedPoses {
	return posesAt(mgl64.Vec3{-1, headY, 0}, mgl64.Vec3{1, headY, 0})
}

func TestGlideApplied(t *testing.T) {
	body := newFakeBody()
	fc := NewFlightController(testFlightParams(), body, nil, nil)

	fc.FixedUpdate(spread())

	if !fc.Status().Gliding {
		t.Fatal("expected gliding")
	}

	thrust := body.forcesOf(components.ForceModeForce)
	if len(thrust) != 1 {
		t.Fatalf("force calls = %d, want 1", len(thrust))
	}
	if !vecNear(thrust[0], mgl64.Vec3{0, 0, 6.3 * 4}, 1e-9) {
		t.Errorf("thrust = %v, want (0,0,25.2)", thrust[0])
	}

	lift := body.forcesOf(components.ForceModeAcceleration)
	if len(lift) != 1 {
		t.Fatalf("acceleration calls = %d, want 1", len(lift))
	}
	if !vecNear(lift[0], mgl64.Vec3{0, 9.81 - 0.2, 0}, 1e-9) {
		t.Errorf("lift = %v, want (0,9.61,0)", lift[0])
	}

	if len(body.torques) != 1 {
		t.Fatalf("torque calls = %d, want 1", len(body.torques))
	}
	if !vecNear(body.torques[0].vec, mgl64.Vec3{}, 1e-9) {
		t.Errorf("level wings torque = %v, want zero", body.torques[0].vec)
	}
}

func TestGlideGating(t *testing.T) {
	tests := []struct {
		name     string
		poses    TrackedPoses
		grounded bool
		sleeping bool
	}{
		{"hands too close", posesAt(mgl64.Vec3{-0.2, headY, 0}, mgl64.Vec3{0.2, headY, 0}), false, false},
		{"hands forward", posesAt(mgl64.Vec3{-0.3, headY, 1}, mgl64.Vec3{0.3, headY, 1}), false, false},
		{"hands behind", posesAt(mgl64.Vec3{-0.3, headY, -1}, mgl64.Vec3{0.3, headY, -1}), false, false},
		{"one hand forward", posesAt(mgl64.Vec3{-1, headY, 0}, mgl64.Vec3{0.3, headY, 1}), false, false},
		{"grounded", spread(), true, false},
		{"sleeping", spread(), false, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			body := newFakeBody()
			body.sleeping = tc.sleeping
			fc := NewFlightController(testFlightParams(), body, nil, nil)
			if tc.grounded {
				fc.OnCollisionStay(groundCollision(1))
			}

			fc.FixedUpdate(tc.poses)

			if fc.Status().Gliding {
				t.Error("expected no glide")
			}
			if len(body.forcesOf(components.ForceModeForce)) != 0 || len(body.torques) != 0 {
				t.Errorf("glide forces applied: forces=%v torques=%v", body.forces, body.torques)
			}
		})
	}
}

func TestGlideTurnUsesLeftHandOnly(t *testing.T) {
	body := newFakeBody()
	fc := NewFlightController(testFlightParams(), body, nil, nil)

	// Mean hand height equals head height, so the neck sits at the head.
	fc.FixedUpdate(posesAt(mgl64.Vec3{-1, headY + 0.5, 0}, mgl64.Vec3{1, headY - 0.5, 0}))

	if len(body.torques) != 1 {
		t.Fatalf("torque calls = %d, want 1", len(body.torques))
	}

	armY := 0.5 / math.Sqrt(1.25)
	wantLeft := mgl64.RadToDeg(math.Atan(armY))
	wantRight := mgl64.RadToDeg(math.Atan(-armY))

	status := fc.Status()
	if math.Abs(status.LeftHandAngle-wantLeft) > 1e-9 {
		t.Errorf("left angle = %v, want %v", status.LeftHandAngle, wantLeft)
	}
	if math.Abs(status.RightHandAngle-wantRight) > 1e-9 {
		t.Errorf("right angle = %v, want %v", status.RightHandAngle, wantRight)
	}

	torque := body.torques[0]
	if torque.mode != components.ForceModeForce {
		t.Errorf("torque mode = %v, want Force", torque.mode)
	}
	want := mgl64.Vec3{0, wantLeft * 0.025, 0}
	if !vecNear(torque.vec, want, 1e-9) {
		t.Errorf("torque = %v, want %v", torque.vec, want)
	}
}

func TestGlideTurnIgnoresRightHand(t *testing.T) {
	statusFor := func(right mgl64.Vec3) (float64, FlightStatus) {
		body := newFakeBody()
		fc := NewFlightController(testFlightParams(), body, nil, nil)
		fc.FixedUpdate(posesAt(mgl64.Vec3{-1, headY + 0.5, 0}, right))
		if len(body.torques) != 1 {
			t.Fatalf("torque calls = %d, want 1", len(body.torques))
		}
		return body.torques[0].vec.Y(), fc.Status()
	}

	// Both keep the mean hand height at the head, so the neck does not move.
	near, nearStatus := statusFor(mgl64.Vec3{1, headY - 0.5, 0})
	far, farStatus := statusFor(mgl64.Vec3{2, headY - 0.5, 0})

	if math.Abs(nearStatus.RightHandAngle-farStatus.RightHandAngle) < 1e-3 {
		t.Fatalf("right hand angle did not change: %v", nearStatus.RightHandAngle)
	}
	if math.Abs(near-far) > 1e-12 {
		t.Errorf("torque changed with the right hand: %v vs %v", near, far)
	}
}

func groundCollision(n int) Collision {
	c := Collision{Collider: "terrain"}
	for i := 0; i < n; i++ {
		c.Contacts = append(c.Contacts, ContactPoint{Normal: mgl64.Vec3{0, 1, 0}})
	}
	return c
}

func TestGroundContactCounting(t *testing.T) {
	body := newFakeBody()
	fc := NewFlightController(testFlightParams(), body, nil, nil)

	// 55 degree limit: cos(55) ~ 0.574.
	steep := mgl64.Vec3{math.Sin(mgl64.DegToRad(60)), math.Cos(mgl64.DegToRad(60)), 0}
	shallow := mgl64.Vec3{math.Sin(mgl64.DegToRad(50)), math.Cos(mgl64.DegToRad(50)), 0}

	fc.OnCollisionEnter(Collision{Contacts: []ContactPoint{
		{Normal: mgl64.Vec3{0, 1, 0}},
		{Normal: steep},
		{Normal: shallow},
	}})
	fc.OnCollisionStay(groundCollision(2))

	if got := fc.GroundContactCount(); got != 4 {
		t.Errorf("contacts = %d, want 4", got)
	}
	if !fc.IsOnGround() {
		t.Error("expected on ground")
	}

	fc.FixedUpdate(handsAt(1.0))

	if got := fc.GroundContactCount(); got != 0 {
		t.Errorf("contacts after step = %d, want 0", got)
	}
	if got := fc.StepsSinceLastGrounded(); got != 0 {
		t.Errorf("steps since grounded = %d, want 0", got)
	}
	if !fc.Status().Grounded {
		t.Error("status should report grounded")
	}
}

func TestStepsSinceGroundedIncrements(t *testing.T) {
	body := newFakeBody()
	ray := &fakeRay{}
	fc := NewFlightController(testFlightParams(), body, ray, nil)

	for i := 1; i <= 3; i++ {
		fc.FixedUpdate(handsAt(1.0))
		if got := fc.StepsSinceLastGrounded(); got != i {
			t.Errorf("step %d: steps since grounded = %d", i, got)
		}
	}
	// Probing stops once the body has been airborne for more than one step.
	if ray.calls != 1 {
		t.Errorf("ray calls = %d, want 1", ray.calls)
	}
}

func TestSnapToGround(t *testing.T) {
	up := mgl64.Vec3{0, 1, 0}
	steep := mgl64.Vec3{math.Sin(mgl64.DegToRad(70)), math.Cos(mgl64.DegToRad(70)), 0}

	tests := []struct {
		name         string
		velocity     mgl64.Vec3
		hit          *RaycastHit
		wantSnap     bool
		wantVelocity mgl64.Vec3
	}{
		{"moving into ground", mgl64.Vec3{1, -0.5, 0}, &RaycastHit{Normal: up, Distance: 0.5}, true, mgl64.Vec3{1, -0.5, 0}},
		{"lifting off", mgl64.Vec3{3, 4, 0}, &RaycastHit{Normal: up, Distance: 0.5}, true, mgl64.Vec3{5, 0, 0}},
		{"straight up", mgl64.Vec3{0, 2, 0}, &RaycastHit{Normal: up, Distance: 0.5}, true, mgl64.Vec3{}},
		{"too fast", mgl64.Vec3{6, 0, 0}, &RaycastHit{Normal: up, Distance: 0.5}, false, mgl64.Vec3{6, 0, 0}},
		{"too steep", mgl64.Vec3{1, 0, 0}, &RaycastHit{Normal: steep, Distance: 0.5}, false, mgl64.Vec3{1, 0, 0}},
		{"nothing below", mgl64.Vec3{1, 0, 0}, nil, false, mgl64.Vec3{1, 0, 0}},
		{"beyond probe", mgl64.Vec3{1, 0, 0}, &RaycastHit{Normal: up, Distance: 2}, false, mgl64.Vec3{1, 0, 0}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			body := newFakeBody()
			body.velocity = tc.velocity
			fc := NewFlightController(testFlightParams(), body, &fakeRay{hit: tc.hit}, nil)

			// Spread wings: a successful snap also suppresses gliding.
			fc.FixedUpdate(spread())

			status := fc.Status()
			if status.Snapped != tc.wantSnap {
				t.Errorf("snapped = %v, want %v", status.Snapped, tc.wantSnap)
			}
			if tc.wantSnap {
				if fc.StepsSinceLastGrounded() != 0 {
					t.Errorf("steps since grounded = %d, want 0", fc.StepsSinceLastGrounded())
				}
				if status.Gliding {
					t.Error("snapped body should not glide")
				}
			} else if fc.StepsSinceLastGrounded() != 1 {
				t.Errorf("steps since grounded = %d, want 1", fc.StepsSinceLastGrounded())
			}
			if !vecNear(body.velocity, tc.wantVelocity, 1e-9) {
				t.Errorf("velocity = %v, want %v", body.velocity, tc.wantVelocity)
			}
			if math.Abs(body.velocity.Len()-tc.wantVelocity.Len()) > 1e-9 {
				t.Errorf("speed = %v, want %v", body.velocity.Len(), tc.wantVelocity.Len())
			}
		})
	}
}

func TestSnapOnlyRightAfterGrounded(t *testing.T) {
	body := newFakeBody()
	ray := &fakeRay{}
	fc := NewFlightController(testFlightParams(), body, ray, nil)

	fc.FixedUpdate(handsAt(1.0))
	fc.FixedUpdate(handsAt(1.0))

	// Ground appears below after two airborne steps; too late to snap.
	ray.hit = &RaycastHit{Normal: mgl64.Vec3{0, 1, 0}, Distance: 0.2}
	fc.FixedUpdate(handsAt(1.0))

	if fc.Status().Snapped {
		t.Error("snap should not happen after more than one airborne step")
	}
	if got := fc.StepsSinceLastGrounded(); got != 3 {
		t.Errorf("steps since grounded = %d, want 3", got)
	}
}

func TestHandleButton(t *testing.T) {
	tests := []struct {
		button    components.Button
		wantScraw bool
		wantAlign bool
	}{
		{components.ButtonX, true, false},
		{components.ButtonA, true, false},
		{components.ButtonY, false, true},
		{components.ButtonB, false, true},
	}

	for _, tc := range tests {
		t.Run(tc.button.String(), func(t *testing.T) {
			body := newFakeBody()
			audio := &fakeAudio{}
			fc := NewFlightController(testFlightParams(), body, nil, audio)

			head := components.Pose{
				Position: mgl64.Vec3{0, headY, 0},
				Rotation: QuatFromEuler(EulerDegrees{X: 20, Y: 90}),
			}
			fc.HandleButton(tc.button, head)

			scrawed := len(audio.played) == 1 && audio.played[0] == CueScraw
			if scrawed != tc.wantScraw {
				t.Errorf("scraw played = %v, want %v", scrawed, tc.wantScraw)
			}

			yaw := body.Pose().YawDegrees()
			if tc.wantAlign && math.Abs(yaw-90) > 1e-6 {
				t.Errorf("yaw = %v, want 90", yaw)
			}
			if !tc.wantAlign && math.Abs(yaw) > 1e-6 {
				t.Errorf("yaw = %v, want 0", yaw)
			}
		})
	}
}

func TestAlignKeepsPitch(t *testing.T) {
	body := newFakeBody()
	body.pose.Rotation = QuatFromEuler(EulerDegrees{X: 10})
	fc := NewFlightController(testFlightParams(), body, nil, nil)

	fc.Start(components.Pose{Rotation: QuatFromEuler(EulerDegrees{Y: 45})})

	e := EulerFromQuat(body.pose.Rotation)
	if math.Abs(e.X-10) > 1e-6 {
		t.Errorf("pitch = %v, want 10", e.X)
	}
	if math.Abs(e.Y-45) > 1e-6 {
		t.Errorf("yaw = %v, want 45", e.Y)
	}
}

func TestSetParamsRecomputesGroundThreshold(t *testing.T) {
	body := newFakeBody()
	fc := NewFlightController(testFlightParams(), body, nil, nil)

	slope := mgl64.Vec3{math.Sin(mgl64.DegToRad(60)), math.Cos(mgl64.DegToRad(60)), 0}
	fc.OnCollisionStay(Collision{Contacts: []ContactPoint{{Normal: slope}}})
	if fc.GroundContactCount() != 0 {
		t.Fatalf("60 degree slope counted under a 55 degree limit")
	}

	p := testFlightParams()
	p.MaxTraversableGroundAngle = 65
	fc.SetParams(p)
	fc.OnCollisionStay(Collision{Contacts: []ContactPoint{{Normal: slope}}})
	if fc.GroundContactCount() != 1 {
		t.Errorf("contacts = %d, want 1", fc.GroundContactCount())
	}
}

func vecNear(a, b mgl64.Vec3, eps float64) bool {
	return math.Abs(a[0]-b[0]) <= eps && math.Abs(a[1]-b[1]) <= eps && math.Abs(a[2]-b[2]) <= eps
}
