package game

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/crow/systems"
	"github.com/pthm-cable/crow/telemetry"
)

// onFlap records a fired flap in the window stats and the flap log.
func (g *Game) onFlap(e systems.FlapEvent) {
	g.flaps++
	g.collector.RecordFlap(e.Speed)

	if g.outputManager == nil {
		return
	}
	rec := telemetry.FlapRecord{
		Step:     e.Step,
		SimTime:  float64(e.Step) * g.cfg.Physics.DT,
		Speed:    e.Speed,
		DirX:     e.Direction.X(),
		DirY:     e.Direction.Y(),
		DirZ:     e.Direction.Z(),
		Impulse:  e.Impulse.Len(),
		Altitude: g.Altitude(),
	}
	if err := g.outputManager.WriteFlap(rec); err != nil {
		slog.Error("failed to write flap", "error", err)
	}
}

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.step) {
		return
	}

	stats := g.collector.Flush(g.step)
	perfStats := g.perfCollector.Stats()
	g.lastStats = stats

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndStep); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if g.snapshotDir != "" {
			g.saveSnapshot(&bm)
		}
	}
}

// CreateSnapshot captures the current flight state.
func (g *Game) CreateSnapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	return &telemetry.Snapshot{
		Version:      telemetry.SnapshotVersion,
		Seed:         g.seed,
		Step:         g.step,
		SimTime:      g.simTime,
		Body:         telemetry.NewBodyState(g.body.Pose(), g.rigidBodies.Get(g.bodyEntity)),
		Flight:       g.flight.Status(),
		SunRotation:  telemetry.QuatArray(g.celestial.SunRotation()),
		MoonRotation: telemetry.QuatArray(g.celestial.MoonRotation()),
		Bookmark:     bookmark,
	}
}

// saveSnapshot writes a snapshot to the snapshot directory.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) {
	path, err := telemetry.SaveSnapshot(g.CreateSnapshot(bookmark), g.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "step", g.step)
}

// RestoreSnapshot moves the body and the clocks to a saved state.
// Flight controller gesture state and the moon rotation are not restored.
func (g *Game) RestoreSnapshot(s *telemetry.Snapshot) error {
	if s.Version != telemetry.SnapshotVersion {
		return fmt.Errorf("snapshot version %d, want %d", s.Version, telemetry.SnapshotVersion)
	}
	pose := s.Body.Pose()
	tf := g.transforms.Get(g.bodyEntity)
	tf.Pose = pose

	rb := g.rigidBodies.Get(g.bodyEntity)
	rb.Velocity = mgl64.Vec3(s.Body.Velocity)
	rb.AngularVelocity = mgl64.Vec3(s.Body.AngularVelocity)
	rb.Sleeping = s.Body.Sleeping
	rb.QuietSteps = 0
	rb.ClearAccumulators()

	if s.Seed != g.seed {
		slog.Warn("snapshot taken on different terrain", "snapshot_seed", s.Seed, "seed", g.seed)
	}
	g.step = s.Step
	g.simTime = s.SimTime
	g.trail.Clear()
	slog.Info("snapshot restored", "step", s.Step, "position", pose.Position)
	return nil
}
