// Package systems contains ECS systems and controllers for the flight simulation.
package systems

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/crow/components"
	"github.com/pthm-cable/crow/config"
)

// PhysicsParams holds integration parameters.
type PhysicsParams struct {
	DT             float64
	Gravity        mgl64.Vec3
	SleepThreshold float64
	SleepSteps     int
	Friction       float64
}

// PhysicsParamsFromConfig copies the physics section of a loaded config.
func PhysicsParamsFromConfig(cfg *config.Config) PhysicsParams {
	p := cfg.Physics
	return PhysicsParams{
		DT:             p.DT,
		Gravity:        mgl64.Vec3{p.Gravity[0], p.Gravity[1], p.Gravity[2]},
		SleepThreshold: p.SleepThreshold,
		SleepSteps:     p.SleepSteps,
		Friction:       p.Friction,
	}
}

type contactKey struct {
	entity   ecs.Entity
	collider string
}

type pendingCollision struct {
	entity    ecs.Entity
	collision Collision
}

// PhysicsSystem integrates rigid bodies and resolves contacts against the static world.
type PhysicsSystem struct {
	params  PhysicsParams
	filter  ecs.Filter3[components.Transform, components.RigidBody, components.SphereCollider]
	mapper  *ecs.Map3[components.Transform, components.RigidBody, components.SphereCollider]
	boxMap  *ecs.Map1[components.StaticBox]
	bodies  *ecs.Map[components.RigidBody]
	poses   *ecs.Map[components.Transform]
	terrain *Terrain
	boxes   []components.StaticBox

	listeners map[ecs.Entity]CollisionListener
	touching  map[contactKey]bool
	pending   []pendingCollision
}

// NewPhysicsSystem creates a new physics system. terrain may be nil.
func NewPhysicsSystem(w *ecs.World, params PhysicsParams, terrain *Terrain) *PhysicsSystem {
	return &PhysicsSystem{
		params:    params,
		filter:    *ecs.NewFilter3[components.Transform, components.RigidBody, components.SphereCollider](w),
		mapper:    ecs.NewMap3[components.Transform, components.RigidBody, components.SphereCollider](w),
		boxMap:    ecs.NewMap1[components.StaticBox](w),
		bodies:    ecs.NewMap[components.RigidBody](w),
		poses:     ecs.NewMap[components.Transform](w),
		terrain:   terrain,
		listeners: make(map[ecs.Entity]CollisionListener),
		touching:  make(map[contactKey]bool),
	}
}

// Terrain returns the heightfield, or nil.
func (s *PhysicsSystem) Terrain() *Terrain { return s.terrain }

// StaticBoxes returns the registered static colliders.
func (s *PhysicsSystem) StaticBoxes() []components.StaticBox { return s.boxes }

// AddStaticBox registers an immovable box collider.
func (s *PhysicsSystem) AddStaticBox(box components.StaticBox) ecs.Entity {
	s.boxes = append(s.boxes, box)
	return s.boxMap.NewEntity(&box)
}

// SpawnBody creates a dynamic sphere body.
func (s *PhysicsSystem) SpawnBody(pose components.Pose, body components.RigidBody, col components.SphereCollider) ecs.Entity {
	tf := components.Transform{Pose: pose}
	return s.mapper.NewEntity(&tf, &body, &col)
}

// SetListener routes collision callbacks for a body entity.
func (s *PhysicsSystem) SetListener(e ecs.Entity, l CollisionListener) {
	s.listeners[e] = l
}

// Handle returns the Body capability for an entity.
func (s *PhysicsSystem) Handle(e ecs.Entity) *BodyHandle {
	return &BodyHandle{entity: e, poses: s.poses, bodies: s.bodies}
}

// Update advances every awake body by one fixed step, then dispatches collisions.
func (s *PhysicsSystem) Update() {
	dt := s.params.DT
	s.pending = s.pending[:0]
	touching := make(map[contactKey]bool, len(s.touching))

	query := s.filter.Query()
	for query.Next() {
		entity := query.Entity()
		tf, rb, col := query.Get()

		if rb.Sleeping {
			rb.ClearAccumulators()
			continue
		}

		s.integrate(tf, rb, dt)

		for _, c := range s.collide(tf, rb, col) {
			key := contactKey{entity: entity, collider: c.Collider}
			touching[key] = true
			s.pending = append(s.pending, pendingCollision{entity: entity, collision: c})
		}

		s.updateSleep(rb)
		rb.ClearAccumulators()
	}

	for _, p := range s.pending {
		l, ok := s.listeners[p.entity]
		if !ok {
			continue
		}
		if s.touching[contactKey{entity: p.entity, collider: p.collision.Collider}] {
			l.OnCollisionStay(p.collision)
		} else {
			l.OnCollisionEnter(p.collision)
		}
	}
	s.touching = touching
}

// integrate applies semi-implicit Euler to velocity, then pose.
func (s *PhysicsSystem) integrate(tf *components.Transform, rb *components.RigidBody, dt float64) {
	accel := s.params.Gravity.Add(rb.Acceleration).Add(rb.Force.Mul(1 / rb.Mass))
	rb.Velocity = rb.Velocity.Add(accel.Mul(dt))
	rb.Velocity = rb.Velocity.Mul(math.Max(0, 1-dt*rb.LinearDamping))

	angAccel := rb.AngularAccel
	if rb.Inertia > 0 {
		angAccel = angAccel.Add(rb.Torque.Mul(1 / rb.Inertia))
	}
	rb.AngularVelocity = rb.AngularVelocity.Add(angAccel.Mul(dt))
	if rb.FreezeTilt {
		rb.AngularVelocity = mgl64.Vec3{0, rb.AngularVelocity.Y(), 0}
	}
	rb.AngularVelocity = rb.AngularVelocity.Mul(math.Max(0, 1-dt*rb.AngularDamping))

	tf.Position = tf.Position.Add(rb.Velocity.Mul(dt))
	if w := rb.AngularVelocity.Len(); w > 0 {
		dq := mgl64.QuatRotate(w*dt, rb.AngularVelocity.Mul(1/w))
		tf.Rotation = dq.Mul(tf.Rotation).Normalize()
	}
}

// updateSleep puts a body to sleep after enough quiet steps.
func (s *PhysicsSystem) updateSleep(rb *components.RigidBody) {
	if s.params.SleepSteps <= 0 {
		return
	}
	energy := 0.5 * rb.Velocity.LenSqr()
	if rb.Mass > 0 {
		energy += 0.5 * rb.Inertia * rb.AngularVelocity.LenSqr() / rb.Mass
	}
	if energy >= s.params.SleepThreshold {
		rb.QuietSteps = 0
		return
	}
	rb.QuietSteps++
	if rb.QuietSteps >= s.params.SleepSteps {
		rb.Sleeping = true
		rb.Velocity = mgl64.Vec3{}
		rb.AngularVelocity = mgl64.Vec3{}
	}
}

// collide resolves the sphere against terrain and solid boxes.
func (s *PhysicsSystem) collide(tf *components.Transform, rb *components.RigidBody, col *components.SphereCollider) []Collision {
	var out []Collision

	if s.terrain != nil {
		pos := tf.Position
		ground := mgl64.Vec3{pos.X(), s.terrain.HeightAt(pos.X(), pos.Z()), pos.Z()}
		n := s.terrain.NormalAt(pos.X(), pos.Z())
		dist := pos.Sub(ground).Dot(n)
		if dist < col.Radius {
			s.resolve(tf, rb, n, col.Radius-dist)
			out = append(out, Collision{
				Collider: "terrain",
				Layer:    s.terrain.Layer(),
				Contacts: []ContactPoint{{
					Point:      tf.Position.Sub(n.Mul(col.Radius)),
					Normal:     n,
					Separation: dist - col.Radius,
				}},
			})
		}
	}

	for i := range s.boxes {
		box := &s.boxes[i]
		if box.Trigger {
			continue
		}
		n, depth, ok := sphereBoxContact(tf.Position, col.Radius, box)
		if !ok {
			continue
		}
		s.resolve(tf, rb, n, depth)
		out = append(out, Collision{
			Collider: box.Name,
			Layer:    box.Layer,
			Contacts: []ContactPoint{{
				Point:      tf.Position.Sub(n.Mul(col.Radius)),
				Normal:     n,
				Separation: -depth,
			}},
		})
	}
	return out
}

// resolve pushes the body out along n, removes the approaching velocity
// component and applies Coulomb friction to the tangential remainder.
func (s *PhysicsSystem) resolve(tf *components.Transform, rb *components.RigidBody, n mgl64.Vec3, depth float64) {
	tf.Position = tf.Position.Add(n.Mul(depth))

	vn := rb.Velocity.Dot(n)
	if vn >= 0 {
		return
	}
	tangent := rb.Velocity.Sub(n.Mul(vn))
	drop := s.params.Friction * -vn
	if tl := tangent.Len(); tl <= drop {
		tangent = mgl64.Vec3{}
	} else {
		tangent = tangent.Mul(1 - drop/tl)
	}
	rb.Velocity = tangent
}

// Raycast returns the nearest hit among terrain and boxes on the masked layers.
func (s *PhysicsSystem) Raycast(origin, dir mgl64.Vec3, maxDist float64, mask components.LayerMask, triggers components.QueryTriggers) (RaycastHit, bool) {
	dir = normalizeSafe(dir)
	if dir.Len() == 0 || maxDist <= 0 {
		return RaycastHit{}, false
	}

	var best RaycastHit
	found := false

	if s.terrain != nil && mask.Contains(s.terrain.Layer()) {
		if hit, ok := s.terrain.Raycast(origin, dir, maxDist); ok {
			best, found = hit, true
		}
	}

	for i := range s.boxes {
		box := &s.boxes[i]
		if box.Trigger && triggers == components.QueryTriggerIgnore {
			continue
		}
		if !mask.Contains(box.Layer) {
			continue
		}
		dist, normal, ok := rayBox(origin, dir, box)
		if !ok || dist > maxDist {
			continue
		}
		if !found || dist < best.Distance {
			best = RaycastHit{
				Point:    origin.Add(dir.Mul(dist)),
				Normal:   normal,
				Distance: dist,
				Layer:    box.Layer,
				Collider: box.Name,
			}
			found = true
		}
	}
	return best, found
}

// BodyHandle adapts a rigid-body entity to the Body interface.
type BodyHandle struct {
	entity ecs.Entity
	poses  *ecs.Map[components.Transform]
	bodies *ecs.Map[components.RigidBody]
}

// Entity returns the wrapped entity.
func (h *BodyHandle) Entity() ecs.Entity { return h.entity }

func (h *BodyHandle) Pose() components.Pose { return h.poses.Get(h.entity).Pose }

func (h *BodyHandle) Velocity() mgl64.Vec3 { return h.bodies.Get(h.entity).Velocity }

func (h *BodyHandle) SetVelocity(v mgl64.Vec3) {
	rb := h.bodies.Get(h.entity)
	rb.Velocity = v
	rb.Wake()
}

func (h *BodyHandle) SetRotation(q mgl64.Quat) {
	h.poses.Get(h.entity).Rotation = q.Normalize()
}

func (h *BodyHandle) IsSleeping() bool { return h.bodies.Get(h.entity).Sleeping }

func (h *BodyHandle) AddForce(f mgl64.Vec3, mode components.ForceMode) {
	h.bodies.Get(h.entity).AddForce(f, mode)
}

func (h *BodyHandle) AddTorque(t mgl64.Vec3, mode components.ForceMode) {
	h.bodies.Get(h.entity).AddTorque(t, mode)
}
