package game

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/crow/components"
	"github.com/pthm-cable/crow/systems"
	"github.com/pthm-cable/crow/tracking"
)

const (
	restHeadHeight = 1.6 // Standing head height used to align the body at start
	bodyLayer      = 0   // "default"
)

// buildWorld creates terrain, static obstacles, the player body and its controller.
func (g *Game) buildWorld() {
	cfg := g.cfg

	g.terrain = systems.NewTerrain(cfg)
	g.physics = systems.NewPhysicsSystem(g.world, systems.PhysicsParamsFromConfig(cfg), g.terrain)
	g.rigidBodies = ecs.NewMap[components.RigidBody](g.world)
	g.transforms = ecs.NewMap[components.Transform](g.world)

	for i, o := range cfg.Obstacles {
		g.physics.AddStaticBox(components.StaticBox{
			Name:    o.Name,
			Center:  o.Center,
			Extents: o.Extents,
			Layer:   cfg.Derived.ObstacleLayers[i],
			Trigger: o.Trigger,
		})
	}

	g.bodyEntity = g.createBody()
	g.body = g.physics.Handle(g.bodyEntity)
	g.rig = components.Rig{EyeHeight: cfg.Rig.EyeHeight}

	g.flight = systems.NewFlightController(systems.FlightParamsFromConfig(cfg), g.body, g.physics, g.audio)
	g.flight.OnFlap = g.onFlap
	g.physics.SetListener(g.bodyEntity, g.flight)

	rest := tracking.ToWorld(tracking.RestFrame(restHeadHeight), g.body.Pose(), g.rig)
	g.flight.Start(rest.Head)
	g.poses = rest
}

// createBody spawns the player sphere at the configured spawn point.
func (g *Game) createBody() ecs.Entity {
	cfg := g.cfg
	spawn := mgl64.Vec3{cfg.Body.Spawn[0], cfg.Body.Spawn[1], cfg.Body.Spawn[2]}

	// Never spawn inside the ground.
	if floor := g.terrain.HeightAt(spawn.X(), spawn.Z()) + cfg.Body.Radius; spawn.Y() < floor {
		spawn[1] = floor
	}

	rb := components.RigidBody{
		Mass:           cfg.Body.Mass,
		Inertia:        cfg.Body.Inertia,
		LinearDamping:  cfg.Physics.LinearDamping,
		AngularDamping: cfg.Physics.AngularDamping,
		FreezeTilt:     cfg.Body.FreezeTilt,
	}
	col := components.SphereCollider{
		Radius: cfg.Body.Radius,
		Layer:  bodyLayer,
	}
	return g.physics.SpawnBody(components.NewPose(spawn), rb, col)
}
