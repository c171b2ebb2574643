package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated flight statistics for a time window.
type WindowStats struct {
	WindowStartStep int64   `csv:"-"`
	WindowEndStep   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Flapping
	Flaps         int     `csv:"flaps"`
	FlapSpeedMean float64 `csv:"flap_speed_mean"`
	FlapSpeedP90  float64 `csv:"flap_speed_p90"`

	// Locomotion state, as a fraction of steps in the window
	GlideFraction    float64 `csv:"glide_frac"`
	GroundedFraction float64 `csv:"grounded_frac"`
	Snaps            int     `csv:"snaps"`

	// Body speed distribution
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	// Altitude range
	MinAltitude float64 `csv:"min_altitude"`
	MaxAltitude float64 `csv:"max_altitude"`

	// Horizontal travel
	PathLength    float64 `csv:"path_length"`    // Summed per-step travel
	Displacement  float64 `csv:"displacement"`   // Start of window to end
	TotalDistance float64 `csv:"total_distance"` // Spawn to end of window
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeSpeedStats calculates mean, sample standard deviation and percentiles.
func ComputeSpeedStats(values []float64) (mean, std, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	if n == 1 {
		mean = values[0]
	} else {
		mean, std = stat.MeanStdDev(values, nil)
	}

	// Sort for percentiles
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartStep),
		slog.Int64("window_end", s.WindowEndStep),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("flaps", s.Flaps),
		slog.Float64("flap_speed_mean", s.FlapSpeedMean),
		slog.Float64("flap_speed_p90", s.FlapSpeedP90),
		slog.Float64("glide_frac", s.GlideFraction),
		slog.Float64("grounded_frac", s.GroundedFraction),
		slog.Int("snaps", s.Snaps),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("min_altitude", s.MinAltitude),
		slog.Float64("max_altitude", s.MaxAltitude),
		slog.Float64("path_length", s.PathLength),
		slog.Float64("displacement", s.Displacement),
		slog.Float64("total_distance", s.TotalDistance),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndStep,
		"sim_time", s.SimTimeSec,
		"flaps", s.Flaps,
		"flap_speed_mean", s.FlapSpeedMean,
		"glide_frac", s.GlideFraction,
		"grounded_frac", s.GroundedFraction,
		"snaps", s.Snaps,
		"speed_mean", s.SpeedMean,
		"speed_std", s.SpeedStd,
		"max_altitude", s.MaxAltitude,
		"displacement", s.Displacement,
		"total_distance", s.TotalDistance,
	)
}
