package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/crow/components"
	"github.com/pthm-cable/crow/systems"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the flight state at one step for later inspection.
type Snapshot struct {
	Version int   `json:"version"`
	Seed    int64 `json:"seed"`

	Step    int64   `json:"step"`
	SimTime float64 `json:"sim_time"`

	Body   BodyState           `json:"body"`
	Flight systems.FlightStatus `json:"flight"`

	// Celestial orientation
	SunRotation  [4]float64 `json:"sun_rotation"`
	MoonRotation [4]float64 `json:"moon_rotation"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// BodyState holds the rigid body's kinematic state.
type BodyState struct {
	Position        [3]float64 `json:"position"`
	Rotation        [4]float64 `json:"rotation"` // w, x, y, z
	Velocity        [3]float64 `json:"velocity"`
	AngularVelocity [3]float64 `json:"angular_velocity"`
	Sleeping        bool       `json:"sleeping"`
}

// NewBodyState copies a body's pose and velocities.
func NewBodyState(pose components.Pose, rb *components.RigidBody) BodyState {
	return BodyState{
		Position:        pose.Position,
		Rotation:        QuatArray(pose.Rotation),
		Velocity:        rb.Velocity,
		AngularVelocity: rb.AngularVelocity,
		Sleeping:        rb.Sleeping,
	}
}

// Pose returns the stored position and rotation.
func (b BodyState) Pose() components.Pose {
	return components.Pose{
		Position: mgl64.Vec3(b.Position),
		Rotation: ArrayQuat(b.Rotation),
	}
}

// QuatArray flattens a quaternion as w, x, y, z.
func QuatArray(q mgl64.Quat) [4]float64 {
	return [4]float64{q.W, q.V[0], q.V[1], q.V[2]}
}

// ArrayQuat is the inverse of QuatArray.
func ArrayQuat(a [4]float64) mgl64.Quat {
	return mgl64.Quat{W: a[0], V: mgl64.Vec3{a[1], a[2], a[3]}}
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	// Build filename
	name := fmt.Sprintf("snapshot_%d", snapshot.Step)
	if snapshot.Bookmark != nil {
		// Sanitize bookmark type for filename
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Step, sanitized)
	}
	name += ".json"

	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}
