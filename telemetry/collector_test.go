package telemetry

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestCollectorShouldFlush(t *testing.T) {
	c := NewCollector(1.0, 0.02)

	if got := c.WindowDurationSteps(); got != 50 {
		t.Fatalf("WindowDurationSteps() = %d, want 50", got)
	}
	if c.ShouldFlush(49) {
		t.Error("ShouldFlush(49) = true before window elapsed")
	}
	if !c.ShouldFlush(50) {
		t.Error("ShouldFlush(50) = false at window end")
	}

	c.Flush(50)
	if c.ShouldFlush(99) {
		t.Error("ShouldFlush(99) = true after reset")
	}
	if !c.ShouldFlush(100) {
		t.Error("ShouldFlush(100) = false at second window end")
	}
}

func TestCollectorWindowStats(t *testing.T) {
	c := NewCollector(1.0, 0.25)

	samples := []FlightSample{
		{Step: 1, Position: mgl64.Vec3{0, 0.5, 0}, Velocity: mgl64.Vec3{0, 0, 2}, Grounded: true, Snapped: true},
		{Step: 2, Position: mgl64.Vec3{0, 3, 4}, Velocity: mgl64.Vec3{0, 0, 4}},
		{Step: 3, Position: mgl64.Vec3{3, 6, 8}, Velocity: mgl64.Vec3{0, 0, 6}, Gliding: true},
		{Step: 4, Position: mgl64.Vec3{3, 5, 8}, Velocity: mgl64.Vec3{0, 0, 8}, Gliding: true},
	}
	for _, s := range samples {
		c.Record(s)
	}
	c.RecordFlap(1.0)
	c.RecordFlap(2.0)

	stats := c.Flush(4)

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"sim time", stats.SimTimeSec, 1.0},
		{"flaps", float64(stats.Flaps), 2},
		{"flap speed mean", stats.FlapSpeedMean, 1.5},
		{"glide fraction", stats.GlideFraction, 0.5},
		{"grounded fraction", stats.GroundedFraction, 0.25},
		{"snaps", float64(stats.Snaps), 1},
		{"speed mean", stats.SpeedMean, 5},
		{"min altitude", stats.MinAltitude, 0.5},
		{"max altitude", stats.MaxAltitude, 6},
		{"path length", stats.PathLength, 9},
		{"displacement", stats.Displacement, math.Hypot(3, 8)},
		{"total distance", stats.TotalDistance, math.Hypot(3, 8)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(tt.got-tt.want) > 1e-9 {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestCollectorResetsBetweenWindows(t *testing.T) {
	c := NewCollector(1.0, 0.5)

	c.Record(FlightSample{Step: 1, Position: mgl64.Vec3{0, 1, 0}, Gliding: true})
	c.Record(FlightSample{Step: 2, Position: mgl64.Vec3{0, 1, 3}, Gliding: true})
	c.RecordFlap(1)
	first := c.Flush(2)
	if first.Flaps != 1 || first.GlideFraction != 1 {
		t.Fatalf("first window = %+v", first)
	}

	c.Record(FlightSample{Step: 3, Position: mgl64.Vec3{0, 1, 7}, Grounded: true})
	second := c.Flush(3)

	if second.Flaps != 0 {
		t.Errorf("Flaps = %d, want 0", second.Flaps)
	}
	if second.GlideFraction != 0 || second.GroundedFraction != 1 {
		t.Errorf("fractions = %v/%v, want 0/1", second.GlideFraction, second.GroundedFraction)
	}
	if second.WindowStartStep != 2 {
		t.Errorf("WindowStartStep = %d, want 2", second.WindowStartStep)
	}
	// Window displacement starts where the previous window ended
	if math.Abs(second.Displacement-4) > 1e-9 {
		t.Errorf("Displacement = %v, want 4", second.Displacement)
	}
	if math.Abs(second.TotalDistance-7) > 1e-9 {
		t.Errorf("TotalDistance = %v, want 7", second.TotalDistance)
	}
}

func TestCollectorEmptyWindow(t *testing.T) {
	c := NewCollector(1.0, 0.1)
	stats := c.Flush(10)

	if stats.SpeedMean != 0 || stats.MaxAltitude != 0 || stats.GlideFraction != 0 {
		t.Errorf("empty window should report zeros, got %+v", stats)
	}
}
