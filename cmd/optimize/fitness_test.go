package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/crow/config"
	"github.com/pthm-cable/crow/telemetry"
)

func TestParamVectorRoundTrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-9 {
			t.Errorf("%s: got %v, want %v", pv.Specs[i].Name, back[i], raw[i])
		}
	}
}

func TestDefaultsMatchConfig(t *testing.T) {
	pv := NewParamVector()
	got := pv.FromConfig(config.Defaults())
	for i, spec := range pv.Specs {
		if math.Abs(got[i]-spec.Default) > 1e-9 {
			t.Errorf("%s: config has %v, param default %v", spec.Path, got[i], spec.Default)
		}
	}
}

func TestApplyToConfigClamps(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Defaults()
	pv.ApplyToConfig(cfg, []float64{100, -1, 50, 0.5, 1})

	if cfg.Flight.GlideForwardScalar != pv.Specs[0].Max {
		t.Errorf("glide_forward_scalar = %v, want clamped to %v", cfg.Flight.GlideForwardScalar, pv.Specs[0].Max)
	}
	if cfg.Flight.GlideTurnScalar != pv.Specs[1].Min {
		t.Errorf("glide_turn_scalar = %v, want clamped to %v", cfg.Flight.GlideTurnScalar, pv.Specs[1].Min)
	}
	if cfg.Flight.ExtraFlapStrength != 50 {
		t.Errorf("extra_flap_strength = %v, want 50", cfg.Flight.ExtraFlapStrength)
	}
}

func TestComputeQuality(t *testing.T) {
	tests := []struct {
		name    string
		windows []telemetry.WindowStats
		want    float64
	}{
		{"empty", nil, 0},
		{"warmup only", []telemetry.WindowStats{{GlideFraction: 1}}, 0},
		{
			"steady glide",
			[]telemetry.WindowStats{
				{GroundedFraction: 1},
				{GlideFraction: 1, SpeedMean: 8},
				{GlideFraction: 1, SpeedMean: 8},
			},
			1,
		},
		{
			"grounded",
			[]telemetry.WindowStats{
				{},
				{GroundedFraction: 1},
				{GroundedFraction: 1},
			},
			0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := computeQuality(tt.windows); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("computeQuality() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeFitnessPrefersDistance(t *testing.T) {
	if computeFitness(100, 0) >= computeFitness(50, 1) {
		t.Error("a longer flight should beat a shorter high-quality one")
	}
	if computeFitness(50, 1) >= computeFitness(50, 0) {
		t.Error("quality should break ties in distance")
	}
}
