package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeSpeedStats(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	mean, std, p50, p90 := ComputeSpeedStats(values)

	if math.Abs(mean-5) > 0.001 {
		t.Errorf("mean = %v, want 5", mean)
	}

	// Sample standard deviation: sqrt(32/7)
	if math.Abs(std-math.Sqrt(32.0/7)) > 0.001 {
		t.Errorf("std = %v, want %v", std, math.Sqrt(32.0/7))
	}

	if math.Abs(p50-4.5) > 0.001 {
		t.Errorf("p50 = %v, want 4.5", p50)
	}

	// idx = 0.9*7 = 6.3 -> 7 + 0.3*(9-7)
	if math.Abs(p90-7.6) > 0.001 {
		t.Errorf("p90 = %v, want 7.6", p90)
	}
}

func TestComputeSpeedStatsSingle(t *testing.T) {
	mean, std, p50, p90 := ComputeSpeedStats([]float64{3})

	if mean != 3 || std != 0 || p50 != 3 || p90 != 3 {
		t.Errorf("got (%v, %v, %v, %v), want (3, 0, 3, 3)", mean, std, p50, p90)
	}
}

func TestComputeSpeedStatsEmpty(t *testing.T) {
	mean, std, p50, p90 := ComputeSpeedStats([]float64{})

	if mean != 0 || std != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty slice should return all zeros")
	}
}
