package systems

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/crow/components"
	"github.com/pthm-cable/crow/config"
)

// FlightParams holds the flight controller tunables.
type FlightParams struct {
	HandsAboveHeadThreshold   float64 // Negative: hands only need to be near head height
	ExtraFlapStrength         float64
	FlapForwardCompensation   float64
	MaxTraversableGroundAngle float64 // Degrees from vertical
	MaxSnapToGroundVelocity   float64
	SnapProbeDistance         float64
	GroundMask                components.LayerMask
	GlideMinHandDotWithFwd    float64
	GlideMaxHandDotWithFwd    float64
	GlideMinHandDistance      float64
	GlideForwardScalar        float64
	GlideTurnScalar           float64
	GlideGravityDamping       float64

	// GravityY is the world gravity along +y. Glide lift counters exactly this
	// component and nothing else, so gravity is assumed to point along -y.
	GravityY float64
}

// FlightParamsFromConfig copies the flight section of a loaded config.
func FlightParamsFromConfig(cfg *config.Config) FlightParams {
	f := cfg.Flight
	return FlightParams{
		HandsAboveHeadThreshold:   f.HandsAboveHeadThreshold,
		ExtraFlapStrength:         f.ExtraFlapStrength,
		FlapForwardCompensation:   f.FlapForwardCompensation,
		MaxTraversableGroundAngle: f.MaxTraversableGroundAngle,
		MaxSnapToGroundVelocity:   f.MaxSnapToGroundVelocity,
		SnapProbeDistance:         f.SnapProbeDistance,
		GroundMask:                components.LayerMask(cfg.Derived.GroundMask),
		GlideMinHandDotWithFwd:    f.GlideMinHandDotWithFwd,
		GlideMaxHandDotWithFwd:    f.GlideMaxHandDotWithFwd,
		GlideMinHandDistance:      f.GlideMinHandDistance,
		GlideForwardScalar:        f.GlideForwardScalar,
		GlideTurnScalar:           f.GlideTurnScalar,
		GlideGravityDamping:       f.GlideGravityDamping,
		GravityY:                  cfg.Derived.GravityY,
	}
}

// TrackedPoses are the world-space head and hand poses for one physics step.
type TrackedPoses struct {
	Head      components.Pose
	LeftHand  components.Pose
	RightHand components.Pose
}

// FlapEvent describes a fired flap impulse.
type FlapEvent struct {
	Step      int64
	Speed     float64    // Mean per-step hand displacement
	Direction mgl64.Vec3 // Biased flap direction; the impulse points opposite
	Impulse   mgl64.Vec3
}

// FlightStatus exposes the values computed during the last step for display.
type FlightStatus struct {
	FlapReady          bool       `inspect:"bool"`
	LastFlapSpeed      float64    `inspect:"label,fmt:%.3f"`
	WingspanToTheSides bool       `inspect:"bool"`
	HandsFarEnough     bool       `inspect:"bool"`
	HandDistanceSqr    float64    `inspect:"label,fmt:%.2f"`
	LeftHandAngle      float64    `inspect:"angle,fmt:%.1f"`
	RightHandAngle     float64    `inspect:"angle,fmt:%.1f"`
	Grounded           bool       `inspect:"bool"`
	Gliding            bool       `inspect:"bool"`
	Snapped            bool       `inspect:"bool"`
	StepsSinceGrounded int        `inspect:"label"`
	NeckPosition       mgl64.Vec3 `inspect:"skip"`
}

// FlightController turns tracked hand and head poses into forces on a rigid body.
// It must be stepped once per fixed physics step, before the physics integration
// that produces the collision callbacks it accumulates.
type FlightController struct {
	params              FlightParams
	minDotProductGround float64

	body  Body
	ray   Raycaster
	audio AudioSink

	// OnFlap, when set, is called for every fired flap.
	OnFlap func(FlapEvent)

	isFlapReady                   bool
	lastLeftHandPosition          mgl64.Vec3
	lastRightHandPosition         mgl64.Vec3
	groundContactCount            int
	physicsStepsSinceLastGrounded int
	neckPosition                  mgl64.Vec3

	step   int64
	status FlightStatus
}

// NewFlightController creates a controller in the cold-start state:
// hands assumed down, not flap-ready, no ground contacts.
func NewFlightController(params FlightParams, body Body, ray Raycaster, audio AudioSink) *FlightController {
	fc := &FlightController{
		body:  body,
		ray:   ray,
		audio: audio,
	}
	fc.SetParams(params)
	return fc
}

// SetParams replaces the tunables and recomputes the slope-cosine threshold.
func (fc *FlightController) SetParams(params FlightParams) {
	fc.params = params
	fc.minDotProductGround = math.Cos(mgl64.DegToRad(params.MaxTraversableGroundAngle))
}

// Params returns the active tunables.
func (fc *FlightController) Params() FlightParams {
	return fc.params
}

// Start aligns the body to the head, as done once when flight begins.
func (fc *FlightController) Start(head components.Pose) {
	fc.AlignBodyOrientationToHead(head)
}

// Status returns the values computed during the last step.
func (fc *FlightController) Status() FlightStatus {
	return fc.status
}

// IsFlapReady reports whether both hands have risen since the last flap.
func (fc *FlightController) IsFlapReady() bool {
	return fc.isFlapReady
}

// GroundContactCount returns contacts accumulated since the last step.
func (fc *FlightController) GroundContactCount() int {
	return fc.groundContactCount
}

// StepsSinceLastGrounded returns the airborne step counter.
func (fc *FlightController) StepsSinceLastGrounded() int {
	return fc.physicsStepsSinceLastGrounded
}

// IsOnGround reports accumulated ground contacts or a dormant body.
func (fc *FlightController) IsOnGround() bool {
	return fc.groundContactCount > 0 || fc.body.IsSleeping()
}

// FixedUpdate runs one physics step of flight logic.
func (fc *FlightController) FixedUpdate(poses TrackedPoses) {
	fc.step++
	fc.status.Snapped = false

	fc.physicsStepsSinceLastGrounded++
	if fc.IsOnGround() || fc.snapToGround() {
		fc.physicsStepsSinceLastGrounded = 0
	}

	leftHandPos := poses.LeftHand.Position
	rightHandPos := poses.RightHand.Position
	headPos := poses.Head.Position
	bodyPose := fc.body.Pose()
	bodyForward := bodyPose.Forward()

	leftHandVelocity := leftHandPos.Sub(fc.lastLeftHandPosition)
	rightHandVelocity := rightHandPos.Sub(fc.lastRightHandPosition)

	fc.updateFlap(headPos, leftHandPos, rightHandPos, leftHandVelocity, rightHandVelocity, bodyForward)

	// The neck sits along the head's up axis, offset by the hands' mean height
	// relative to the head. Only meaningful with the wings held out to the sides.
	leftHandYFromHead := leftHandPos.Y() - headPos.Y()
	rightHandYFromHead := rightHandPos.Y() - headPos.Y()
	handAverageYFromHead := (leftHandYFromHead + rightHandYFromHead) / 2
	fc.neckPosition = headPos.Add(poses.Head.Up().Mul(handAverageYFromHead))

	handDistanceSqr := rightHandPos.Sub(leftHandPos).LenSqr()
	areHandsFarEnough := handDistanceSqr > fc.params.GlideMinHandDistance*fc.params.GlideMinHandDistance

	leftHandDirFromNeck := leftHandPos.Sub(fc.neckPosition)
	rightHandDirFromNeck := rightHandPos.Sub(fc.neckPosition)
	neckForward := normalizeSafe(bodyForward)
	leftDotNeckForward := normalizeSafe(leftHandDirFromNeck).Dot(neckForward)
	rightDotNeckForward := normalizeSafe(rightHandDirFromNeck).Dot(neckForward)
	isWingspanToTheSides := fc.insideGlideBand(leftDotNeckForward) && fc.insideGlideBand(rightDotNeckForward)

	fc.status.FlapReady = fc.isFlapReady
	fc.status.HandsFarEnough = areHandsFarEnough
	fc.status.HandDistanceSqr = handDistanceSqr
	fc.status.WingspanToTheSides = isWingspanToTheSides
	fc.status.NeckPosition = fc.neckPosition

	onGround := fc.IsOnGround()
	fc.status.Grounded = onGround
	fc.status.Gliding = areHandsFarEnough && isWingspanToTheSides && !onGround

	if fc.status.Gliding {
		fc.applyGlide(bodyPose, handDistanceSqr, leftHandDirFromNeck, rightHandDirFromNeck)
	}

	fc.lastLeftHandPosition = leftHandPos
	fc.lastRightHandPosition = rightHandPos
	fc.groundContactCount = 0
	fc.status.StepsSinceGrounded = fc.physicsStepsSinceLastGrounded
}

// updateFlap advances the edge-triggered flap state machine.
func (fc *FlightController) updateFlap(headPos, leftHandPos, rightHandPos, leftHandVelocity, rightHandVelocity, bodyForward mgl64.Vec3) {
	flapThreshold := headPos.Y() + fc.params.HandsAboveHeadThreshold
	if !fc.isFlapReady && leftHandPos.Y() >= flapThreshold && rightHandPos.Y() >= flapThreshold {
		fc.isFlapReady = true
	}

	if !(fc.isFlapReady && leftHandPos.Y() < flapThreshold && rightHandPos.Y() < flapThreshold) {
		return
	}

	flapSpeed := (leftHandVelocity.Len() + rightHandVelocity.Len()) / 2
	flapDirection := normalizeSafe(normalizeSafe(leftHandVelocity).Add(normalizeSafe(rightHandVelocity)).Mul(0.5))

	// A downward arm swing pushes the body backward, so bias the stroke forward.
	flapDirection = flapDirection.Sub(bodyForward.Mul(fc.params.FlapForwardCompensation))

	impulse := flapDirection.Mul(-flapSpeed * fc.params.ExtraFlapStrength)
	fc.body.AddForce(impulse, components.ForceModeImpulse)
	if fc.audio != nil {
		fc.audio.Play(CueFlap)
	}

	fc.isFlapReady = false
	fc.status.LastFlapSpeed = flapSpeed

	if fc.OnFlap != nil {
		fc.OnFlap(FlapEvent{
			Step:      fc.step,
			Speed:     flapSpeed,
			Direction: flapDirection,
			Impulse:   impulse,
		})
	}
}

func (fc *FlightController) insideGlideBand(dot float64) bool {
	return dot < fc.params.GlideMaxHandDotWithFwd && dot > fc.params.GlideMinHandDotWithFwd
}

// applyGlide adds thrust, partial lift and the bank-driven yaw torque.
func (fc *FlightController) applyGlide(bodyPose components.Pose, handDistanceSqr float64, leftHandDirFromNeck, rightHandDirFromNeck mgl64.Vec3) {
	// Wider wingspans glide faster, quadratically.
	thrust := bodyPose.Forward().Mul(fc.params.GlideForwardScalar * handDistanceSqr)
	fc.body.AddForce(thrust, components.ForceModeForce)

	slowedGravity := -fc.params.GravityY - fc.params.GlideGravityDamping
	fc.body.AddForce(mgl64.Vec3{0, slowedGravity, 0}, components.ForceModeAcceleration)

	neckRight := normalizeSafe(bodyPose.Right())
	neckLeft := neckRight.Mul(-1)

	leftArmDir := normalizeSafe(leftHandDirFromNeck)
	rightArmDir := normalizeSafe(rightHandDirFromNeck)

	leftHandAngle := mgl64.RadToDeg(math.Atan(leftArmDir.Y() - neckLeft.Y()))
	rightHandAngle := mgl64.RadToDeg(math.Atan(rightArmDir.Y() - neckRight.Y()))
	fc.status.LeftHandAngle = leftHandAngle
	fc.status.RightHandAngle = rightHandAngle

	// Only the left hand steers; the right-hand angle is reported but unused.
	yTorque := leftHandAngle * fc.params.GlideTurnScalar
	fc.body.AddTorque(mgl64.Vec3{0, yTorque, 0}, components.ForceModeForce)
}

// snapToGround keeps the body glued to the ground on the single step after
// contact is lost, when moving slowly over a walkable surface.
func (fc *FlightController) snapToGround() bool {
	if fc.physicsStepsSinceLastGrounded > 1 {
		return false
	}
	velocity := fc.body.Velocity()
	speed := velocity.Len()
	if speed > fc.params.MaxSnapToGroundVelocity {
		return false
	}
	if fc.ray == nil {
		return false
	}

	pose := fc.body.Pose()
	up := pose.Up()
	hit, ok := fc.ray.Raycast(pose.Position, up.Mul(-1), fc.params.SnapProbeDistance, fc.params.GroundMask, components.QueryTriggerIgnore)
	if !ok {
		return false
	}
	if up.Dot(hit.Normal) < fc.minDotProductGround {
		return false
	}

	fc.groundContactCount = 1
	dot := velocity.Dot(hit.Normal)
	if dot > 0 {
		fc.body.SetVelocity(normalizeSafe(velocity.Sub(hit.Normal.Mul(dot))).Mul(speed))
	}
	fc.status.Snapped = true
	return true
}

// OnCollisionEnter counts walkable contacts of a new collision.
func (fc *FlightController) OnCollisionEnter(c Collision) {
	fc.evaluateCollision(c)
}

// OnCollisionStay counts walkable contacts of an ongoing collision.
func (fc *FlightController) OnCollisionStay(c Collision) {
	fc.evaluateCollision(c)
}

func (fc *FlightController) evaluateCollision(c Collision) {
	up := fc.body.Pose().Up()
	for _, contact := range c.Contacts {
		if up.Dot(contact.Normal) >= fc.minDotProductGround {
			fc.groundContactCount++
		}
	}
}

// HandleButton dispatches a controller button press.
func (fc *FlightController) HandleButton(b components.Button, head components.Pose) {
	switch b {
	case components.ButtonX, components.ButtonA:
		if fc.audio != nil {
			fc.audio.Play(CueScraw)
		}
	case components.ButtonY, components.ButtonB:
		fc.AlignBodyOrientationToHead(head)
	}
}

// AlignBodyOrientationToHead copies the head's yaw onto the body, keeping pitch and roll.
func (fc *FlightController) AlignBodyOrientationToHead(head components.Pose) {
	bodyEuler := EulerFromQuat(fc.body.Pose().Rotation)
	bodyEuler.Y = EulerFromQuat(head.Rotation).Y
	fc.body.SetRotation(QuatFromEuler(bodyEuler))
}
