// Package config provides configuration loading and access for the flight simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrUnknownLayer is returned when a layer name is not one of the known physics layers.
var ErrUnknownLayer = errors.New("unknown layer")

// Layers lists the physics layer names in bit order.
var Layers = []string{"default", "ground", "water", "ignore_raycast"}

// LayerIndex returns the bit index of a named physics layer.
func LayerIndex(name string) (int, error) {
	for i, l := range Layers {
		if l == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrUnknownLayer, name)
}

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig     `yaml:"screen"`
	Physics   PhysicsConfig    `yaml:"physics"`
	Body      BodyConfig       `yaml:"body"`
	Rig       RigConfig        `yaml:"rig"`
	Flight    FlightConfig     `yaml:"flight"`
	Terrain   TerrainConfig    `yaml:"terrain"`
	Obstacles []ObstacleConfig `yaml:"obstacles"`
	Celestial CelestialConfig  `yaml:"celestial"`
	Telemetry TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PhysicsConfig holds rigid-body integration parameters.
type PhysicsConfig struct {
	DT             float64    `yaml:"dt"`              // Fixed step in seconds
	Gravity        [3]float64 `yaml:"gravity"`         // World gravity, y is up
	SleepThreshold float64    `yaml:"sleep_threshold"` // Kinetic energy per unit mass below which a body may sleep
	SleepSteps     int        `yaml:"sleep_steps"`     // Consecutive quiet steps before sleeping
	LinearDamping  float64    `yaml:"linear_damping"`
	AngularDamping float64    `yaml:"angular_damping"`
	Friction       float64    `yaml:"friction"` // Coulomb coefficient for resting contacts
}

// BodyConfig describes the flying rigid body.
type BodyConfig struct {
	Mass       float64    `yaml:"mass"`
	Radius     float64    `yaml:"radius"`      // Sphere collider radius
	Inertia    float64    `yaml:"inertia"`     // Scalar moment of inertia
	FreezeTilt bool       `yaml:"freeze_tilt"` // Lock rotation about the x and z axes
	Spawn      [3]float64 `yaml:"spawn"`
}

// RigConfig holds tracked-rig placement.
type RigConfig struct {
	EyeHeight float64 `yaml:"eye_height"` // Head offset above the body origin
}

// FlightConfig holds the flight controller tunables.
type FlightConfig struct {
	HandsAboveHeadThreshold   float64  `yaml:"hands_above_head_threshold"` // y-distance from head y that starts tracking a flap
	ExtraFlapStrength         float64  `yaml:"extra_flap_strength"`
	FlapForwardCompensation   float64  `yaml:"flap_forward_compensation"`
	MaxTraversableGroundAngle float64  `yaml:"max_traversable_ground_angle"` // Degrees
	MaxSnapToGroundVelocity   float64  `yaml:"max_snap_to_ground_velocity"`
	SnapProbeDistance         float64  `yaml:"snap_probe_distance"`
	GroundLayers              []string `yaml:"ground_layers"`
	GlideMinHandDotWithFwd    float64  `yaml:"glide_min_hand_dot_with_forward"`
	GlideMaxHandDotWithFwd    float64  `yaml:"glide_max_hand_dot_with_forward"`
	GlideMinHandDistance      float64  `yaml:"glide_min_hand_distance"`
	GlideForwardScalar        float64  `yaml:"glide_forward_scalar"`
	GlideTurnScalar           float64  `yaml:"glide_turn_scalar"`
	GlideGravityDamping       float64  `yaml:"glide_gravity_damping"` // Subtracted from the gravity counter-acceleration
}

// TerrainConfig holds heightfield generation parameters.
type TerrainConfig struct {
	Seed       int64   `yaml:"seed"`
	Size       float64 `yaml:"size"`        // Half extent is size/2 around the origin
	BaseHeight float64 `yaml:"base_height"`
	Amplitude  float64 `yaml:"amplitude"`
	Scale      float64 `yaml:"scale"`   // Base noise frequency
	Octaves    int     `yaml:"octaves"` // FBM octaves
	Layer      string  `yaml:"layer"`
}

// ObstacleConfig describes a static axis-aligned box.
type ObstacleConfig struct {
	Name    string     `yaml:"name"`
	Center  [3]float64 `yaml:"center"`
	Extents [3]float64 `yaml:"extents"` // Half extents
	Layer   string     `yaml:"layer"`
	Trigger bool       `yaml:"trigger"`
}

// CelestialConfig holds sun and moon parameters.
type CelestialConfig struct {
	MoonMoveSpeed     float64 `yaml:"moon_move_speed"`     // Degrees per second
	SunUpdateInterval float64 `yaml:"sun_update_interval"` // Seconds between sun recomputes
	DaySeconds        int     `yaml:"day_seconds"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	MinDotProductGround float64 // cos(max_traversable_ground_angle)
	GravityY            float64 // Physics.Gravity[1]
	GroundMask          uint32  // Bits of Flight.GroundLayers
	TerrainLayer        int
	ObstacleLayers      []int
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges that would make the simulation meaningless.
func (c *Config) Validate() error {
	if c.Physics.DT <= 0 {
		return fmt.Errorf("physics.dt must be positive, got %v", c.Physics.DT)
	}
	if c.Body.Mass <= 0 {
		return fmt.Errorf("body.mass must be positive, got %v", c.Body.Mass)
	}
	if c.Body.Radius <= 0 {
		return fmt.Errorf("body.radius must be positive, got %v", c.Body.Radius)
	}
	if c.Flight.GlideMinHandDotWithFwd >= c.Flight.GlideMaxHandDotWithFwd {
		return fmt.Errorf("flight glide dot band is empty: [%v, %v]",
			c.Flight.GlideMinHandDotWithFwd, c.Flight.GlideMaxHandDotWithFwd)
	}
	return nil
}

// Recompute refreshes derived values after fields were changed in place.
func (c *Config) Recompute() error {
	return c.computeDerived()
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	c.Derived.MinDotProductGround = math.Cos(c.Flight.MaxTraversableGroundAngle * math.Pi / 180)
	c.Derived.GravityY = c.Physics.Gravity[1]

	var mask uint32
	for _, name := range c.Flight.GroundLayers {
		idx, err := LayerIndex(name)
		if err != nil {
			return fmt.Errorf("flight.ground_layers: %w", err)
		}
		mask |= 1 << uint(idx)
	}
	c.Derived.GroundMask = mask

	terrainLayer, err := LayerIndex(c.Terrain.Layer)
	if err != nil {
		return fmt.Errorf("terrain.layer: %w", err)
	}
	c.Derived.TerrainLayer = terrainLayer

	c.Derived.ObstacleLayers = make([]int, len(c.Obstacles))
	for i, ob := range c.Obstacles {
		idx, err := LayerIndex(ob.Layer)
		if err != nil {
			return fmt.Errorf("obstacle %q: %w", ob.Name, err)
		}
		c.Derived.ObstacleLayers[i] = idx
	}

	if c.Celestial.DaySeconds <= 0 {
		c.Celestial.DaySeconds = 86400
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Flight.GroundLayers = append([]string(nil), c.Flight.GroundLayers...)
	cp.Obstacles = append([]ObstacleConfig(nil), c.Obstacles...)
	cp.Derived.ObstacleLayers = append([]int(nil), c.Derived.ObstacleLayers...)
	return &cp
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
