package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/crow/config"
	"github.com/pthm-cable/crow/game"
	"github.com/pthm-cable/crow/telemetry"
)

// FitnessEvaluator runs headless flights and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int64
	seeds       []int64
	baseConfig  *config.Config
	scriptPath  string // Empty flies the built-in demo script
	statsWindow float64

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
	lastDist    float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int64, seeds []int64, baseCfg *config.Config, scriptPath string) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		scriptPath:  scriptPath,
		statsWindow: 2.0,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// LastDistance returns the mean distance flown in the most recent evaluation.
func (fe *FitnessEvaluator) LastDistance() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastDist
}

// runResult holds the results from a single flight.
type runResult struct {
	distance    float64 // Horizontal distance from spawn at the end
	windowStats []telemetry.WindowStats
	err         error
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Every seed flies the same script over different terrain.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]*runResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runFlight(x, s)
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality, totalDist float64
	for _, r := range results {
		if r.err != nil {
			totalFitness += failedFitness
			continue
		}
		quality := computeQuality(r.windowStats)
		totalFitness += computeFitness(r.distance, quality)
		totalQuality += quality
		totalDist += r.distance
	}

	n := float64(len(fe.seeds))
	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.lastDist = totalDist / n
	fe.mu.Unlock()

	return totalFitness / n
}

// failedFitness is charged for a seed whose game could not start.
const failedFitness = 0.0

// runFlight executes a single headless flight.
func (fe *FitnessEvaluator) runFlight(x []float64, seed int64) *runResult {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)

	result := &runResult{}
	g, err := game.NewGameWithOptions(game.Options{
		Seed:           seed,
		Config:         cfg,
		ScriptPath:     fe.scriptPath,
		Headless:       true,
		StatsWindowSec: fe.statsWindow,
		StepsPerUpdate: 1,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		result.err = err
		return result
	}
	defer g.Unload()

	for g.Tick() < fe.maxTicks && !g.SourceDone() {
		g.UpdateHeadless()
	}
	result.distance = g.TotalDistance()
	return result
}

// computeFitness calculates the scalar fitness (lower = better).
// Distance dominates; quality adds up to 20% to separate similar flights.
func computeFitness(distance, quality float64) float64 {
	return -(distance * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightAirborne = 0.45
	qualityWeightGlide    = 0.30
	qualityWeightSteady   = 0.25

	qualityWarmupWindows = 1 // skip the initial drop from spawn
)

// computeQuality scores a flight in [0, 1] from its window stats: time spent
// airborne, time spent gliding and how steady the airspeed was.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	airborne := make([]float64, len(valid))
	glide := make([]float64, len(valid))
	speeds := make([]float64, len(valid))
	for i, w := range valid {
		airborne[i] = 1 - w.GroundedFraction
		glide[i] = w.GlideFraction
		speeds[i] = w.SpeedMean
	}

	steady := 0.0
	if mean, std := stat.MeanStdDev(speeds, nil); mean > 0 && !math.IsNaN(std) {
		cv := std / mean
		steady = math.Exp(-cv * cv)
	}

	quality := qualityWeightAirborne*stat.Mean(airborne, nil) +
		qualityWeightGlide*stat.Mean(glide, nil) +
		qualityWeightSteady*steady

	return clamp01(quality)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
