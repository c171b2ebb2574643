package game

import (
	"sort"
	"time"
)

// DrawTimings tracks how long each render pass takes.
type DrawTimings struct {
	samples    map[string][]time.Duration
	maxSamples int
}

// NewDrawTimings creates a tracker holding roughly two seconds of frames.
func NewDrawTimings() *DrawTimings {
	return &DrawTimings{
		samples:    make(map[string][]time.Duration),
		maxSamples: 120,
	}
}

// Record adds a duration sample for the named pass.
func (p *DrawTimings) Record(name string, d time.Duration) {
	p.samples[name] = append(p.samples[name], d)
	if len(p.samples[name]) > p.maxSamples {
		p.samples[name] = p.samples[name][1:]
	}
}

// Measure runs fn and records its duration under name.
func (p *DrawTimings) Measure(name string, fn func()) {
	start := time.Now()
	fn()
	p.Record(name, time.Since(start))
}

// Avg returns the average duration for the named pass.
func (p *DrawTimings) Avg(name string) time.Duration {
	s := p.samples[name]
	if len(s) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range s {
		total += d
	}
	return total / time.Duration(len(s))
}

// Total returns the sum of all average durations.
func (p *DrawTimings) Total() time.Duration {
	var total time.Duration
	for name := range p.samples {
		total += p.Avg(name)
	}
	return total
}

// SortedNames returns pass names sorted by average duration (descending).
func (p *DrawTimings) SortedNames() []string {
	names := make([]string, 0, len(p.samples))
	for name := range p.samples {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if a, b := p.Avg(names[i]), p.Avg(names[j]); a != b {
			return a > b
		}
		return names[i] < names[j]
	})
	return names
}
