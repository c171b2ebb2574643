// Package game wires the flight rig, physics world, celestial cycle and
// telemetry together and drives them in headless or graphical mode.
package game

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/crow/camera"
	"github.com/pthm-cable/crow/components"
	"github.com/pthm-cable/crow/config"
	"github.com/pthm-cable/crow/inspector"
	"github.com/pthm-cable/crow/renderer"
	"github.com/pthm-cable/crow/systems"
	"github.com/pthm-cable/crow/telemetry"
	"github.com/pthm-cable/crow/tracking"
	"github.com/pthm-cable/crow/ui"
)

// Simulation limits
const (
	MaxStepsPerUpdate = 10
	maxFrameSteps     = 5 // Fixed steps per rendered frame before the backlog is dropped
	bookmarkHistory   = 10
	trailCapacity     = 600
	trailGap          = 0.25
	terrainResolution = 96
)

// PosesFile is the capture written to the output directory when recording.
const PosesFile = "poses.csv"

// Options configures a game instance.
type Options struct {
	Seed           int64          // Overrides terrain.seed when non-zero
	Config         *config.Config // nil uses config.Cfg()
	Source         tracking.Source
	ScriptPath     string
	RecordingPath  string
	OutputDir      string
	SnapshotDir    string
	ResumePath     string  // Snapshot to restore before the first step
	StatsWindowSec float64 // 0 uses telemetry.stats_window
	StepsPerUpdate int
	Headless       bool
	LogStats       bool
	RecordPoses    bool             // Write consumed frames to poses.csv in OutputDir
	Clock          func() time.Time // Wall clock for the sun; nil uses time.Now
	StatsCallback  func(telemetry.WindowStats)
}

// Game holds the complete game state.
type Game struct {
	cfg   *config.Config
	world *ecs.World

	physics     *systems.PhysicsSystem
	terrain     *systems.Terrain
	rigidBodies *ecs.Map[components.RigidBody]
	transforms  *ecs.Map[components.Transform]
	bodyEntity  ecs.Entity
	body        *systems.BodyHandle
	rig         components.Rig

	flight    *systems.FlightController
	celestial *systems.CelestialCycle
	audio     *logAudio

	source         tracking.Source
	sourceName     string
	recorder       *tracking.Recorder
	pendingButtons []components.Button
	poses          systems.TrackedPoses

	// Telemetry
	collector        *telemetry.Collector
	outputManager    *telemetry.OutputManager
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	statsCallback    func(telemetry.WindowStats)
	lastStats        telemetry.WindowStats
	logStats         bool
	snapshotDir      string
	seed             int64
	flaps            int

	// State
	step           int64
	simTime        float64
	paused         bool
	stepsPerUpdate int
	accumulator    float64
	headless       bool
	clock          func() time.Time
	startTime      time.Time
	trail          *renderer.Trail

	// Graphics (nil when headless)
	cam             *camera.Camera
	sky             *renderer.SkyRenderer
	terrainRenderer *renderer.TerrainRenderer
	scene           *renderer.SceneRenderer
	inspector       *inspector.Inspector
	uiHUD           *ui.HUD
	uiOverlays      *ui.OverlayRegistry
	uiControls      *ui.ControlsPanel
	uiLabels        *ui.LabelsPanel
	uiPerfPanel     *ui.PerfPanel
	buttonPad       *ui.ButtonPad
	drawTimings     *DrawTimings
	screenWidth     int32
	screenHeight    int32
}

// NewGameWithOptions builds the world from config and opens the tracking source.
// Graphical resources are created only when opts.Headless is false, so the
// caller must have opened the raylib window first in that case.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	if opts.Seed != 0 && opts.Seed != cfg.Terrain.Seed {
		cfg = cfg.Clone()
		cfg.Terrain.Seed = opts.Seed
	}

	stepsPerUpdate := opts.StepsPerUpdate
	if stepsPerUpdate < 1 {
		stepsPerUpdate = 1
	}
	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	g := &Game{
		cfg:              cfg,
		world:            ecs.NewWorld(),
		audio:            newLogAudio(),
		collector:        telemetry.NewCollector(statsWindow, cfg.Physics.DT),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(bookmarkHistory),
		statsCallback:    opts.StatsCallback,
		logStats:         opts.LogStats,
		snapshotDir:      opts.SnapshotDir,
		seed:             cfg.Terrain.Seed,
		stepsPerUpdate:   stepsPerUpdate,
		headless:         opts.Headless,
		clock:            clock,
		startTime:        clock(),
		trail:            renderer.NewTrail(trailCapacity, trailGap),
	}

	source, name, err := openSource(opts)
	if err != nil {
		return nil, err
	}
	g.source = source
	g.sourceName = name

	g.outputManager, err = telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("setting up output: %w", err)
	}
	if err := g.outputManager.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}
	if opts.RecordPoses && g.outputManager != nil {
		g.recorder = &tracking.Recorder{}
	}

	g.buildWorld()

	if opts.ResumePath != "" {
		snap, err := telemetry.LoadSnapshot(opts.ResumePath)
		if err == nil {
			err = g.RestoreSnapshot(snap)
		}
		if err != nil {
			g.outputManager.Close()
			return nil, fmt.Errorf("resuming %s: %w", opts.ResumePath, err)
		}
	}

	g.celestial = systems.NewCelestialCycle(systems.CelestialParamsFromConfig(cfg), mgl64.QuatIdent())
	g.celestial.Start(g.now())

	if !opts.Headless {
		g.initGraphics()
	}

	slog.Info("game created",
		"source", g.sourceName,
		"seed", g.seed,
		"headless", g.headless,
		"output_dir", g.outputManager.Dir(),
	)
	return g, nil
}

// openSource picks the tracking source: an explicit source, then a recording,
// then a script, then the built-in demo script.
func openSource(opts Options) (tracking.Source, string, error) {
	switch {
	case opts.Source != nil:
		return opts.Source, "custom", nil
	case opts.RecordingPath != "":
		rec, err := tracking.LoadRecording(opts.RecordingPath)
		if err != nil {
			return nil, "", err
		}
		return rec, "recording", nil
	case opts.ScriptPath != "":
		s, err := tracking.LoadScript(opts.ScriptPath)
		if err != nil {
			return nil, "", err
		}
		return s, "script", nil
	default:
		return tracking.DefaultScript(), "demo", nil
	}
}

// now returns the time of day fed to the sun. Headless runs advance a
// simulated clock so repeated runs see the same sky.
func (g *Game) now() time.Time {
	if g.headless {
		return g.startTime.Add(time.Duration(g.simTime * float64(time.Second)))
	}
	return g.clock()
}

// Tick returns the number of fixed steps simulated.
func (g *Game) Tick() int64 { return g.step }

// SimTime returns simulated seconds.
func (g *Game) SimTime() float64 { return g.simTime }

// Config returns the active configuration.
func (g *Game) Config() *config.Config { return g.cfg }

// Flight returns the flight controller.
func (g *Game) Flight() *systems.FlightController { return g.flight }

// Celestial returns the sun and moon cycle.
func (g *Game) Celestial() *systems.CelestialCycle { return g.celestial }

// BodyPose returns the current body pose.
func (g *Game) BodyPose() components.Pose { return g.body.Pose() }

// BodyVelocity returns the current body velocity.
func (g *Game) BodyVelocity() mgl64.Vec3 { return g.body.Velocity() }

// Poses returns the world-space rig poses of the last step.
func (g *Game) Poses() systems.TrackedPoses { return g.poses }

// Flaps returns the number of flaps fired so far.
func (g *Game) Flaps() int { return g.flaps }

// TotalDistance returns horizontal distance from spawn at the last telemetry sample.
func (g *Game) TotalDistance() float64 { return g.collector.TotalDistance() }

// LastStats returns the most recently flushed telemetry window.
func (g *Game) LastStats() telemetry.WindowStats { return g.lastStats }

// SourceDone reports whether a finite tracking source has run out.
func (g *Game) SourceDone() bool { return g.source.Done() }

// PressButton queues a controller button for the next fixed step.
func (g *Game) PressButton(b components.Button) {
	g.pendingButtons = append(g.pendingButtons, b)
}

// Altitude returns the body's height above the terrain under it.
func (g *Game) Altitude() float64 {
	pos := g.body.Pose().Position
	if g.terrain == nil {
		return pos.Y()
	}
	return pos.Y() - g.terrain.HeightAt(pos.X(), pos.Z())
}

// Unload writes pending output and frees resources.
func (g *Game) Unload() {
	if g.recorder != nil && g.recorder.Len() > 0 {
		path := g.outputManager.Path(PosesFile)
		if err := g.recorder.WriteFile(path); err != nil {
			slog.Error("failed to write pose capture", "error", err)
		} else {
			slog.Info("pose capture saved", "path", path, "frames", g.recorder.Len())
		}
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	if g.sky != nil {
		g.sky.Unload()
	}
}
