package telemetry

import (
	"log/slog"
	"time"
)

// Phase identifies one stage of the fixed step.
type Phase uint8

// Fixed-step phases in execution order.
const (
	PhaseTracking Phase = iota
	PhaseFlight
	PhasePhysics
	PhaseCelestial
	PhaseTelemetry
	numPhases
)

var phaseNames = [numPhases]string{"tracking", "flight", "physics", "celestial", "telemetry"}

func (p Phase) String() string {
	if p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// Phases lists the fixed-step phases in execution order.
var Phases = []Phase{PhaseTracking, PhaseFlight, PhasePhysics, PhaseCelestial, PhaseTelemetry}

type stepTiming struct {
	total  time.Duration
	phases [numPhases]time.Duration
}

// PerfCollector times fixed steps and their phases over a ring of recent steps.
// Phase sums are kept incrementally; evicted steps are subtracted.
type PerfCollector struct {
	ring  []stepTiming
	next  int
	count int
	sum   stepTiming

	current stepTiming
	running bool
	phase   Phase
	mark    time.Time
	start   time.Time
}

// NewPerfCollector creates a collector averaging over the last windowSize steps.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{ring: make([]stepTiming, windowSize)}
}

// StartTick begins timing a fixed step.
func (p *PerfCollector) StartTick() {
	p.start = time.Now()
	p.current = stepTiming{}
	p.running = false
}

// StartPhase closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := time.Now()
	p.closePhase(now)
	p.phase, p.mark, p.running = phase, now, phase < numPhases
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.running {
		p.current.phases[p.phase] += now.Sub(p.mark)
	}
}

// EndTick closes the last phase and stores the step in the ring.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.running = false
	p.current.total = now.Sub(p.start)

	if p.count == len(p.ring) {
		old := p.ring[p.next]
		p.sum.total -= old.total
		for i := range old.phases {
			p.sum.phases[i] -= old.phases[i]
		}
	} else {
		p.count++
	}
	p.ring[p.next] = p.current
	p.next = (p.next + 1) % len(p.ring)

	p.sum.total += p.current.total
	for i := range p.current.phases {
		p.sum.phases[i] += p.current.phases[i]
	}
}

// PerfStats holds step timing averaged over the collector window.
type PerfStats struct {
	Steps           int
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	TicksPerSecond  float64

	// Indexed by Phase.
	PhaseAvg [numPhases]time.Duration
	PhasePct [numPhases]float64
}

// Stats averages the steps currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{Steps: p.count}
	if p.count == 0 {
		return s
	}

	n := time.Duration(p.count)
	s.AvgTickDuration = p.sum.total / n
	s.MinTickDuration = p.ring[0].total
	for _, st := range p.ring[:p.count] {
		s.MinTickDuration = min(s.MinTickDuration, st.total)
		s.MaxTickDuration = max(s.MaxTickDuration, st.total)
	}

	for i := range s.PhaseAvg {
		s.PhaseAvg[i] = p.sum.phases[i] / n
		if s.AvgTickDuration > 0 {
			s.PhasePct[i] = 100 * float64(s.PhaseAvg[i]) / float64(s.AvgTickDuration)
		}
	}
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	return s
}

// LogStats logs step timing at info level.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("steps", s.Steps),
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
	}
	for _, ph := range Phases {
		if pct := s.PhasePct[ph]; pct >= 0.1 {
			attrs = append(attrs, slog.Float64(ph.String()+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd    int64   `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	TrackingPct  float64 `csv:"tracking_pct"`
	FlightPct    float64 `csv:"flight_pct"`
	PhysicsPct   float64 `csv:"physics_pct"`
	CelestialPct float64 `csv:"celestial_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats for the step ending the window.
func (s PerfStats) ToCSV(windowEnd int64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		TrackingPct:  s.PhasePct[PhaseTracking],
		FlightPct:    s.PhasePct[PhaseFlight],
		PhysicsPct:   s.PhasePct[PhasePhysics],
		CelestialPct: s.PhasePct[PhaseCelestial],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
