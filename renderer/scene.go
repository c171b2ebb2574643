package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/crow/components"
	"github.com/pthm-cable/crow/systems"
)

// NeckGizmoRadius is the drawn size of the neck reference point.
const NeckGizmoRadius = 0.025

// Scene colors.
var (
	BodyColor      = rl.Color{R: 30, G: 30, B: 36, A: 255}
	BeakColor      = rl.Color{R: 230, G: 180, B: 60, A: 255}
	HeadColor      = rl.Color{R: 200, G: 200, B: 220, A: 255}
	LeftHandColor  = rl.Color{R: 80, G: 160, B: 255, A: 255}
	RightHandColor = rl.Color{R: 255, G: 120, B: 80, A: 255}
	ObstacleColor  = rl.Color{R: 120, G: 110, B: 100, A: 255}
	TriggerColor   = rl.Color{R: 120, G: 220, B: 255, A: 160}
	ColliderColor  = rl.Color{R: 100, G: 255, B: 120, A: 255}
	TrailColor     = rl.Color{R: 255, G: 255, B: 255, A: 200}
)

// SceneRenderer draws the body, rig, obstacles and debug gizmos.
type SceneRenderer struct {
	HandRadius float32
	AxisLength float32
}

// NewSceneRenderer creates a scene renderer with default sizes.
func NewSceneRenderer() *SceneRenderer {
	return &SceneRenderer{HandRadius: 0.06, AxisLength: 0.8}
}

// DrawBody draws the body sphere with a beak pointing along its forward axis.
func (s *SceneRenderer) DrawBody(pose components.Pose, radius float64) {
	center := Vec3(pose.Position)
	rl.DrawSphereEx(center, float32(radius), 12, 16, BodyColor)

	tip := pose.Position.Add(pose.Forward().Mul(radius * 1.8))
	base := pose.Position.Add(pose.Forward().Mul(radius * 0.8))
	rl.DrawCylinderEx(Vec3(base), Vec3(tip), float32(radius*0.3), 0, 8, BeakColor)
}

// DrawCollider draws the body's sphere collider as a wireframe.
func (s *SceneRenderer) DrawCollider(pos mgl64.Vec3, radius float64) {
	rl.DrawSphereWires(Vec3(pos), float32(radius), 8, 12, ColliderColor)
}

// DrawRig draws the tracked head and hands with their forward axes.
func (s *SceneRenderer) DrawRig(poses systems.TrackedPoses) {
	s.drawTracked(poses.Head, s.HandRadius*1.5, HeadColor)
	s.drawTracked(poses.LeftHand, s.HandRadius, LeftHandColor)
	s.drawTracked(poses.RightHand, s.HandRadius, RightHandColor)

	rl.DrawLine3D(Vec3(poses.LeftHand.Position), Vec3(poses.RightHand.Position), rl.Fade(rl.White, 0.4))
}

func (s *SceneRenderer) drawTracked(p components.Pose, radius float32, col rl.Color) {
	rl.DrawSphere(Vec3(p.Position), radius, col)
	end := p.Position.Add(p.Forward().Mul(float64(s.AxisLength) * 0.3))
	rl.DrawLine3D(Vec3(p.Position), Vec3(end), col)
}

// DrawNeckGizmo draws the neck point and a line one unit along the body's right axis.
func (s *SceneRenderer) DrawNeckGizmo(neck mgl64.Vec3, body components.Pose) {
	rl.DrawSphere(Vec3(neck), NeckGizmoRadius, rl.Red)
	rl.DrawLine3D(Vec3(neck), Vec3(neck.Add(body.Right())), rl.Red)
}

// DrawAxes draws the body's right, up and forward axes.
func (s *SceneRenderer) DrawAxes(body components.Pose) {
	o := body.Position
	l := float64(s.AxisLength)
	rl.DrawLine3D(Vec3(o), Vec3(o.Add(body.Right().Mul(l))), rl.Red)
	rl.DrawLine3D(Vec3(o), Vec3(o.Add(body.Up().Mul(l))), rl.Green)
	rl.DrawLine3D(Vec3(o), Vec3(o.Add(body.Forward().Mul(l))), rl.Blue)
}

// DrawObstacles draws solid boxes filled and trigger volumes as wireframes.
func (s *SceneRenderer) DrawObstacles(boxes []components.StaticBox, wires bool) {
	for i := range boxes {
		b := &boxes[i]
		center := Vec3(mgl64.Vec3{b.Center[0], b.Center[1], b.Center[2]})
		size := rl.NewVector3(float32(2*b.Extents[0]), float32(2*b.Extents[1]), float32(2*b.Extents[2]))
		if b.Trigger {
			rl.DrawCubeWiresV(center, size, TriggerColor)
			continue
		}
		rl.DrawCubeV(center, size, ObstacleColor)
		if wires {
			rl.DrawCubeWiresV(center, size, ColliderColor)
		}
	}
}

// DrawTrail draws the trail as connected segments fading toward the oldest point.
func (s *SceneRenderer) DrawTrail(t *Trail) {
	pts := t.Points()
	for i := 1; i < len(pts); i++ {
		alpha := float32(i) / float32(len(pts))
		rl.DrawLine3D(Vec3(pts[i-1]), Vec3(pts[i]), rl.Fade(TrailColor, alpha))
	}
}
