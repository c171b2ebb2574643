package game

import (
	"github.com/pthm-cable/crow/telemetry"
	"github.com/pthm-cable/crow/tracking"
)

// FixedStep runs one physics step: tracking, flight, physics, telemetry.
// The flight controller reads the collisions accumulated by the previous
// physics step, so it always runs before integration.
func (g *Game) FixedStep() {
	dt := g.cfg.Physics.DT
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseTracking)
	frame := g.source.Advance(dt)
	if len(g.pendingButtons) > 0 {
		frame.Buttons = append(frame.Buttons, g.pendingButtons...)
		g.pendingButtons = g.pendingButtons[:0]
	}
	if g.recorder != nil {
		g.recorder.Add(frame)
	}
	g.poses = tracking.ToWorld(frame, g.body.Pose(), g.rig)

	g.perfCollector.StartPhase(telemetry.PhaseFlight)
	for _, b := range frame.Buttons {
		g.flight.HandleButton(b, g.poses.Head)
	}
	g.flight.FixedUpdate(g.poses)

	g.perfCollector.StartPhase(telemetry.PhasePhysics)
	g.physics.Update()
	g.step++
	g.simTime += dt

	g.perfCollector.StartPhase(telemetry.PhaseCelestial)
	if g.headless {
		g.celestial.Update(dt, g.now())
	}

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	status := g.flight.Status()
	pose := g.body.Pose()
	g.collector.Record(telemetry.FlightSample{
		Step:     g.step,
		Position: pose.Position,
		Velocity: g.body.Velocity(),
		Grounded: status.Grounded,
		Gliding:  status.Gliding,
		Snapped:  status.Snapped,
	})
	g.trail.Add(pose.Position)
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// UpdateHeadless runs stepsPerUpdate fixed steps without graphics.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.FixedStep()
	}
}

// Update advances the simulation by a rendered frame of dt seconds.
// Fixed steps are drained from an accumulator; the sky follows the wall clock.
func (g *Game) Update(frameDT float64) {
	g.handleInput()

	if !g.paused {
		dt := g.cfg.Physics.DT
		g.accumulator += frameDT * float64(g.stepsPerUpdate)
		steps := 0
		for g.accumulator >= dt && steps < maxFrameSteps*g.stepsPerUpdate {
			g.FixedStep()
			g.accumulator -= dt
			steps++
		}
		if steps == maxFrameSteps*g.stepsPerUpdate {
			g.accumulator = 0
		}
	}

	g.celestial.Update(frameDT, g.now())
}
