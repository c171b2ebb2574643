package telemetry

import (
	"testing"
	"time"
)

func runTicks(pc *PerfCollector, n int, flight, physics time.Duration) {
	for i := 0; i < n; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseFlight)
		time.Sleep(flight)
		pc.StartPhase(PhasePhysics)
		time.Sleep(physics)
		pc.EndTick()
	}
}

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)
	runTicks(pc, 5, 100*time.Microsecond, 200*time.Microsecond)

	stats := pc.Stats()
	if stats.Steps != 5 {
		t.Errorf("Steps = %d, want 5", stats.Steps)
	}
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}
	if stats.PhaseAvg[PhaseFlight] <= 0 || stats.PhaseAvg[PhasePhysics] <= 0 {
		t.Errorf("phase averages = %v, want flight and physics timed", stats.PhaseAvg)
	}
	if stats.PhaseAvg[PhaseCelestial] != 0 {
		t.Errorf("celestial avg = %v, want 0 for a phase never started", stats.PhaseAvg[PhaseCelestial])
	}
	if stats.MinTickDuration > stats.AvgTickDuration || stats.AvgTickDuration > stats.MaxTickDuration {
		t.Errorf("min/avg/max out of order: %v %v %v",
			stats.MinTickDuration, stats.AvgTickDuration, stats.MaxTickDuration)
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	// Slow steps are evicted by the fast ones that follow.
	runTicks(pc, 5, 0, 2*time.Millisecond)
	runTicks(pc, 5, 0, 0)

	stats := pc.Stats()
	if stats.Steps != 5 {
		t.Errorf("Steps = %d, want window size 5", stats.Steps)
	}
	if stats.MaxTickDuration >= 2*time.Millisecond {
		t.Errorf("MaxTickDuration = %v, slow steps should have left the window", stats.MaxTickDuration)
	}
	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)
	runTicks(pc, 5, 10*time.Microsecond, 500*time.Microsecond)

	stats := pc.Stats()
	flight := stats.PhasePct[PhaseFlight]
	physics := stats.PhasePct[PhasePhysics]
	if physics <= flight {
		t.Errorf("expected physics (%v%%) > flight (%v%%)", physics, flight)
	}
	if sum := flight + physics; sum > 100.0001 {
		t.Errorf("phase percentages sum to %v, want <= 100", sum)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()
	if stats.Steps != 0 || stats.AvgTickDuration != 0 || stats.TicksPerSecond != 0 {
		t.Errorf("empty collector stats = %+v, want zero", stats)
	}
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseTracking, "tracking"},
		{PhaseTelemetry, "telemetry"},
		{numPhases, "unknown"},
	}
	for _, tc := range tests {
		if got := tc.phase.String(); got != tc.want {
			t.Errorf("Phase(%d).String() = %q, want %q", tc.phase, got, tc.want)
		}
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	var s PerfStats
	s.AvgTickDuration = 250 * time.Microsecond
	s.PhasePct[PhaseFlight] = 40
	s.PhasePct[PhasePhysics] = 55

	row := s.ToCSV(600)
	if row.WindowEnd != 600 {
		t.Errorf("WindowEnd = %d, want 600", row.WindowEnd)
	}
	if row.AvgTickUS != 250 {
		t.Errorf("AvgTickUS = %d, want 250", row.AvgTickUS)
	}
	if row.FlightPct != 40 || row.PhysicsPct != 55 {
		t.Errorf("phase pct = %v/%v, want 40/55", row.FlightPct, row.PhysicsPct)
	}
	if row.TrackingPct != 0 {
		t.Errorf("TrackingPct = %v, want 0 for untracked phase", row.TrackingPct)
	}
}
