// Package main tunes flight parameters against scripted headless flights.
package main

import (
	"github.com/pthm-cable/crow/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "glide_forward_scalar", Path: "flight.glide_forward_scalar", Min: 1.0, Max: 15.0, Default: 6.3},
			{Name: "glide_turn_scalar", Path: "flight.glide_turn_scalar", Min: 0.005, Max: 0.1, Default: 0.025},
			{Name: "extra_flap_strength", Path: "flight.extra_flap_strength", Min: 30, Max: 250, Default: 110},
			{Name: "flap_forward_compensation", Path: "flight.flap_forward_compensation", Min: 0.0, Max: 1.5, Default: 0.6},
			{Name: "glide_gravity_damping", Path: "flight.glide_gravity_damping", Min: 0.0, Max: 2.0, Default: 0.2},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// FromConfig reads the current parameter values out of a config.
func (pv *ParamVector) FromConfig(cfg *config.Config) []float64 {
	f := cfg.Flight
	return []float64{
		f.GlideForwardScalar,
		f.GlideTurnScalar,
		f.ExtraFlapStrength,
		f.FlapForwardCompensation,
		f.GlideGravityDamping,
	}
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	cfg.Flight.GlideForwardScalar = clamped[0]
	cfg.Flight.GlideTurnScalar = clamped[1]
	cfg.Flight.ExtraFlapStrength = clamped[2]
	cfg.Flight.FlapForwardCompensation = clamped[3]
	cfg.Flight.GlideGravityDamping = clamped[4]
}
